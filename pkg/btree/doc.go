// Package btree is a behaviour-tree node library built on pkg/fibre. Every
// node type in this package is a fibre.Descriptor; evaluating a tree is
// ordinary fibre tree evaluation, and re-ticking it incrementally re-uses
// pkg/fibre's memoization instead of re-walking untouched branches.
package btree
