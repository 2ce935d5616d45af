// Package weighted provides weighted balancing (elect) algorithms.
//
// Three interchangeable selectors implement the same contract:
//
//   - Random: proportional random pick, follows the weight
//     configuration but is not smooth.
//   - RoundRobin: the weighted round-robin scheduling used by LVS,
//     http://kb.linuxvirtualserver.org/wiki/Weighted_Round-Robin_Scheduling
//   - Smooth: the smooth weighted round-robin balancing used by nginx,
//     https://github.com/phusion/nginx/commit/27e94984486058d73157038f7950a0a36ecc6e35
//
// Using it is simple:
//
//	sw := weighted.NewSmooth[string]()
//	sw.Add("server1", 5)
//	sw.Add("server2", 2)
//	sw.Add("server3", 3)
//
//	for i := 0; i < 10; i++ {
//		s, _ := sw.Next()
//		fmt.Println(s)
//	}
//
// Selectors are plain in-memory data structures and are not safe for
// concurrent use, callers needing that must serialize access
// externally (see the pool package).
package weighted
