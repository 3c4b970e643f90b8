package recipe

import (
	"fmt"
	"strings"
)

// ParseError reports a malformed recipe file. Line is 1-based; zero means the
// error is not tied to a single line.
type ParseError struct {
	File string
	Line int
	Msg  string
	Err  error
}

func (e *ParseError) Error() string {
	var sb strings.Builder
	if e.File != "" {
		sb.WriteString(e.File)
		if e.Line > 0 {
			fmt.Fprintf(&sb, ":%d", e.Line)
		}
		sb.WriteString(": ")
	} else if e.Line > 0 {
		fmt.Fprintf(&sb, "line %d: ", e.Line)
	}
	sb.WriteString(e.Msg)
	return sb.String()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// DuplicateRecipeError is returned by Registry.Add when a name is defined twice.
type DuplicateRecipeError struct {
	Name   Name
	First  *Recipe
	Second *Recipe
}

func (e *DuplicateRecipeError) Error() string {
	return fmt.Sprintf("recipe %q is already defined at %s", e.Name, e.First.Origin())
}

// UnknownRecipeError reports a recipe name that is not in the registry, either
// requested directly or referenced as a dependency.
type UnknownRecipeError struct {
	Name Name
	// ReferencedBy is the recipe naming Name as a dependency, nil when the
	// name was requested directly.
	ReferencedBy *Recipe
}

func (e *UnknownRecipeError) Error() string {
	if e.ReferencedBy != nil {
		return fmt.Sprintf("recipe %q depends on unknown recipe %q (%s)", e.ReferencedBy.Name, e.Name, e.ReferencedBy.Origin())
	}
	return fmt.Sprintf("recipe %q not found", e.Name)
}

// CycleError reports a dependency cycle. Cycle lists the members in traversal
// order and repeats the first member at the end, e.g. [a b a].
type CycleError struct {
	Cycle []Name
}

func (e *CycleError) Error() string {
	parts := make([]string, len(e.Cycle))
	for i, n := range e.Cycle {
		parts[i] = string(n)
	}
	return "dependency cycle: " + strings.Join(parts, " -> ")
}
