// Package dag is a small string-keyed directed acyclic graph used to model
// recipe dependencies. It knows nothing about recipes: callers add nodes and
// edges by ID, then ask for cycle detection or a dependency-first ordering.
//
// Edge order is preserved, so a post-order walk visits dependencies in the
// order they were declared.
package dag
