// Package bvh implements the broad phase of the collision pipeline.
//
// [Tree] is a bounding volume hierarchy over padded particle boxes. Nodes
// live in a flat arena owned by the tree, so a rebuild is a slice reset and
// never leaves dangling children. The tree sorts its own permutation of
// particle indices while splitting; the caller's particle slice is never
// reordered and leaf indices stay valid across rebuilds.
//
// [BruteForce] answers the same queries with a linear scan and serves as
// the reference implementation in tests and benchmarks.
//
// # Example
//
//	tree := bvh.New(bvh.DefaultMargin)
//	tree.Build(particles)
//	hits := tree.Query(particles[0].Bounds(bvh.DefaultMargin), nil)
package bvh
