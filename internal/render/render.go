// Package render formats a recipe registry for people (List) and for tools
// (Dump).
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/specialistvlad/recipego/internal/recipe"
)

// List writes the recipes in declaration order, one per line, with their
// dependencies and description. Styling is dropped automatically when w is
// not a terminal.
func List(w io.Writer, reg *recipe.Registry) error {
	r := lipgloss.NewRenderer(w)
	headerStyle := r.NewStyle().Bold(true)
	nameStyle := r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#047857", Dark: "#10B981"})
	depStyle := r.NewStyle().Faint(true)
	descStyle := r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"})

	if reg.Len() == 0 {
		_, err := fmt.Fprintln(w, headerStyle.Render("No recipes defined."))
		return err
	}

	width := 0
	for _, name := range reg.Names() {
		width = max(width, len(name))
	}

	var sb strings.Builder
	sb.WriteString(headerStyle.Render("Available recipes:"))
	sb.WriteByte('\n')
	for _, rec := range reg.Recipes() {
		sb.WriteString("    ")
		sb.WriteString(nameStyle.Render(string(rec.Name)))

		var extra []string
		if len(rec.Dependencies) > 0 {
			deps := make([]string, len(rec.Dependencies))
			for i, d := range rec.Dependencies {
				deps[i] = string(d)
			}
			extra = append(extra, depStyle.Render("["+strings.Join(deps, " ")+"]"))
		}
		if rec.Description != "" {
			extra = append(extra, descStyle.Render("# "+rec.Description))
		}
		if len(extra) > 0 {
			sb.WriteString(strings.Repeat(" ", width-len(rec.Name)+2))
			sb.WriteString(strings.Join(extra, " "))
		}
		sb.WriteByte('\n')
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

// document is the top-level shape of a dump.
type document struct {
	Recipes []*recipe.Recipe `json:"recipes" yaml:"recipes"`
}

// Dump writes every recipe as YAML or JSON, depending on format.
func Dump(w io.Writer, reg *recipe.Registry, format string) error {
	doc := document{Recipes: reg.Recipes()}

	switch format {
	case "yaml", "":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encoding json: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unsupported dump format %q", format)
	}
}
