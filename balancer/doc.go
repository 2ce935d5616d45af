// Package balancer provides service of dispatching requests between
// server pools.
//
// Each VirtualServer listens on its own address and forwards every
// request to a backend peer picked from its pool, using one of the
// weighted selection methods: random, round-robin or smooth.
package balancer
