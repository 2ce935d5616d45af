package weighted

import "testing"

func TestRandomDistribution(t *testing.T) {
	rw := NewRandom[string]()
	rw.Add("a", 5)
	rw.Add("b", 2)
	rw.Add("c", 3)

	results := map[string]int{}
	for i := 0; i < 10000; i++ {
		item, ok := rw.Next()
		if !ok {
			t.Fatalf("Next returned nothing at call %d", i)
		}
		results[item]++
	}

	// statistical, generous bounds around 5000/2000/3000
	if results["a"] < 4000 || results["a"] > 6000 {
		t.Errorf("a selected %d times, want roughly 5000", results["a"])
	}
	if results["b"] < 1000 || results["b"] > 3000 {
		t.Errorf("b selected %d times, want roughly 2000", results["b"])
	}
	if results["c"] < 2000 || results["c"] > 4000 {
		t.Errorf("c selected %d times, want roughly 3000", results["c"])
	}
}

func TestRandomNeverSelectsNonPositiveWeight(t *testing.T) {
	rw := NewRandom[string]()
	rw.Add("a", 0)
	rw.Add("b", 1)
	rw.Add("c", -1)
	rw.Add("d", 2)

	for i := 0; i < 1000; i++ {
		item, ok := rw.Next()
		if !ok {
			t.Fatalf("Next returned nothing at call %d", i)
		}
		if item == "a" || item == "c" {
			t.Fatalf("entry %q with non-positive weight was selected", item)
		}
	}
}

func TestRandomAllNonPositive(t *testing.T) {
	rw := NewRandom[string]()
	rw.Add("a", 0)
	rw.Add("b", -2)

	if item, ok := rw.Next(); ok || item != "" {
		t.Errorf("Next should return nothing when the weight sum is not positive")
	}
}

func TestRandomRemoveAllResetsSum(t *testing.T) {
	rw := NewRandom[string]()
	rw.Add("a", 100)
	rw.Add("b", 100)
	rw.RemoveAll()

	// the old sum must not leak into the new weight table
	rw.Add("c", 1)
	rw.Add("d", 1)
	for i := 0; i < 100; i++ {
		item, ok := rw.Next()
		if !ok {
			t.Fatalf("Next returned nothing at call %d", i)
		}
		if item != "c" && item != "d" {
			t.Fatalf("unexpected item %q", item)
		}
	}
}
