package recipe

import (
	"fmt"
	"regexp"
)

// Name identifies a recipe. It is unique within a Registry.
type Name string

// nameRegex is the set of characters accepted in a recipe name.
var nameRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_-]*$`)

// Valid reports whether n is a well-formed recipe name.
func (n Name) Valid() bool {
	return nameRegex.MatchString(string(n))
}

func (n Name) String() string {
	return string(n)
}

// Recipe is a named unit of work: the recipes it depends on and the command
// lines it runs, in order.
type Recipe struct {
	Name         Name     `json:"name" yaml:"name"`
	Description  string   `json:"description,omitempty" yaml:"description,omitempty"`
	Dependencies []Name   `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`
	Commands     []string `json:"commands" yaml:"commands"`

	// Source and Line locate the recipe header for diagnostics.
	Source string `json:"-" yaml:"-"`
	Line   int    `json:"-" yaml:"-"`
}

// Origin returns "file:line" for the recipe header, or just the name when the
// recipe was not loaded from a file.
func (r *Recipe) Origin() string {
	switch {
	case r.Source != "" && r.Line > 0:
		return fmt.Sprintf("%s:%d", r.Source, r.Line)
	case r.Line > 0:
		return fmt.Sprintf("line %d", r.Line)
	default:
		return string(r.Name)
	}
}
