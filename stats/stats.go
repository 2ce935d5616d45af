package stats

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Stats accumulates per-peer request counters.
type Stats struct {
	sync.RWMutex
	StatusCode map[string]uint64
	Method     map[string]uint64
	Path       map[string]uint64
	InBytes    uint64
	OutBytes   uint64
}

// New returns an empty Stats object.
func New() *Stats {
	return &Stats{
		StatusCode: map[string]uint64{},
		Method:     map[string]uint64{},
		Path:       map[string]uint64{},
	}
}

// Data is one request observation.
type Data struct {
	StatusCode string
	Method     string
	Path       string
	InBytes    uint64
	OutBytes   uint64
}

// Inc records one request.
func (s *Stats) Inc(d *Data) {
	s.Lock()
	defer s.Unlock()

	s.StatusCode[d.StatusCode]++
	s.Method[d.Method]++
	s.Path[d.Path]++
	s.InBytes += d.InBytes
	s.OutBytes += d.OutBytes
}

const (
	STATUS   = "status_code"
	METHOD   = "method"
	PATH     = "path"
	INBYTES  = "recv_bytes"
	OUTBYTES = "send_bytes"
)

func sortedMapString(dict map[string]uint64) string {
	keys := make([]string, 0, len(dict))
	for key := range dict {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	result := make([]string, 0, len(keys))
	for _, key := range keys {
		result = append(result, fmt.Sprintf("%s:%d", key, dict[key]))
	}
	return strings.Join(result, ", ")
}

// String renders the counters deterministically, one line per field.
func (s *Stats) String() string {
	s.RLock()
	defer s.RUnlock()

	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s\n", STATUS, sortedMapString(s.StatusCode))
	fmt.Fprintf(&b, "%s: %s\n", METHOD, sortedMapString(s.Method))
	fmt.Fprintf(&b, "%s: %s\n", PATH, sortedMapString(s.Path))
	fmt.Fprintf(&b, "%s: %d\n", INBYTES, s.InBytes)
	fmt.Fprintf(&b, "%s: %d", OUTBYTES, s.OutBytes)
	return b.String()
}
