// Package recipefile parses the plain-text recipe file format:
//
//	# Run the linters
//	lint:
//	    pre-commit run --all-files
//
//	test: build
//	    go test ./...
//
// A header names the recipe and its dependencies; the indented lines below it
// are its commands. See Parse for the full grammar.
package recipefile

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/specialistvlad/recipego/internal/recipe"
)

// Parse converts recipe file source into a Registry. file is used only in
// error messages and recipe origins.
//
// Grammar:
//   - blank lines are ignored;
//   - an unindented line starting with '#' is a comment; a comment directly
//     above a header becomes the recipe description;
//   - an unindented line "name [dep ...]: [dep ...]" starts a recipe; every
//     token except the first is a dependency, and the list after the colon
//     may be wrapped in parentheses;
//   - an indented line (space or tab) is a command of the current recipe,
//     kept verbatim apart from the leading indentation.
//
// A recipe without commands is an error, as are duplicate names and
// dependencies on recipes that are not defined in the file.
func Parse(file string, src []byte) (*recipe.Registry, error) {
	p := &parser{file: file, reg: recipe.NewRegistry()}

	scanner := bufio.NewScanner(bytes.NewReader(src))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		p.line++
		if err := p.parseLine(strings.TrimRight(scanner.Text(), "\r")); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, &recipe.ParseError{File: file, Line: p.line, Msg: "reading recipe file", Err: err}
	}
	if err := p.finish(); err != nil {
		return nil, err
	}

	if err := p.reg.CheckReferences(); err != nil {
		return nil, err
	}
	return p.reg, nil
}

type parser struct {
	file    string
	line    int
	reg     *recipe.Registry
	current *recipe.Recipe
	comment string
}

func (p *parser) parseLine(text string) error {
	if strings.TrimSpace(text) == "" {
		p.comment = ""
		return nil
	}

	if text[0] == ' ' || text[0] == '\t' {
		if p.current == nil {
			return p.errorf("command line is not indented under any recipe")
		}
		p.current.Commands = append(p.current.Commands, strings.TrimLeft(text, " \t"))
		return nil
	}

	// Any unindented line ends the body of the current recipe.
	if err := p.finish(); err != nil {
		return err
	}

	if strings.HasPrefix(text, "#") {
		p.comment = strings.TrimSpace(strings.TrimPrefix(text, "#"))
		return nil
	}

	r, err := p.parseHeader(text)
	if err != nil {
		return err
	}
	r.Description = p.comment
	p.comment = ""
	p.current = r
	return nil
}

// parseHeader parses "name [dep ...]: [dep ...]" and "name: (dep ...)".
func (p *parser) parseHeader(text string) (*recipe.Recipe, error) {
	head, tail, found := strings.Cut(text, ":")
	if !found {
		return nil, p.errorf("expected ':' in recipe header %q", text)
	}

	fields := strings.Fields(head)
	if len(fields) == 0 {
		return nil, p.errorf("recipe header %q has no name", text)
	}

	name := recipe.Name(fields[0])
	if !name.Valid() {
		return nil, p.errorf("invalid recipe name %q", fields[0])
	}

	if i := strings.Index(tail, "#"); i >= 0 {
		tail = tail[:i]
	}
	tail = strings.TrimSpace(tail)
	if strings.HasPrefix(tail, "(") {
		if !strings.HasSuffix(tail, ")") {
			return nil, p.errorf("unbalanced parentheses in dependency list of %q", name)
		}
		tail = tail[1 : len(tail)-1]
	}
	if strings.ContainsAny(tail, "()") {
		return nil, p.errorf("unbalanced parentheses in dependency list of %q", name)
	}

	r := &recipe.Recipe{Name: name, Source: p.file, Line: p.line}
	for _, tok := range append(fields[1:], strings.Fields(tail)...) {
		dep := recipe.Name(tok)
		if !dep.Valid() {
			return nil, p.errorf("invalid dependency name %q in recipe %q", tok, name)
		}
		if dep == name {
			return nil, p.errorf("recipe %q depends on itself", name)
		}
		r.Dependencies = append(r.Dependencies, dep)
	}
	return r, nil
}

// finish closes the current recipe and adds it to the registry.
func (p *parser) finish() error {
	r := p.current
	if r == nil {
		return nil
	}
	p.current = nil

	if len(r.Commands) == 0 {
		return &recipe.ParseError{File: p.file, Line: r.Line, Msg: fmt.Sprintf("recipe %q has no commands", r.Name)}
	}
	if err := p.reg.Add(r); err != nil {
		var dup *recipe.DuplicateRecipeError
		if errors.As(err, &dup) {
			return &recipe.ParseError{File: p.file, Line: r.Line, Msg: err.Error(), Err: err}
		}
		return err
	}
	return nil
}

func (p *parser) errorf(format string, args ...any) error {
	return &recipe.ParseError{File: p.file, Line: p.line, Msg: fmt.Sprintf(format, args...)}
}
