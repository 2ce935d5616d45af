// Package pool groups backend peers and drives a weighted selector
// over the ones currently marked up.
//
// The selectors themselves only support removing every entry at once,
// so the pool rebuilds its selector whenever membership or peer
// status changes. All methods are safe for concurrent use.
package pool
