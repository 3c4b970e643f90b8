// Package recipe defines the format-agnostic data model shared by every
// stage of a run: the Recipe, the insertion-ordered Registry built from a
// recipe file, and the error taxonomy for loading and resolving recipes.
//
// A Registry is constructed once per invocation by a loader (see the
// recipefile and hcl packages), treated as read-only afterwards, and
// discarded at process exit.
package recipe
