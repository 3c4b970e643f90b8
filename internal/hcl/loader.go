package hcl

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/specialistvlad/recipego/internal/ctxlog"
	"github.com/specialistvlad/recipego/internal/recipe"
)

// Loader reads HCL recipe files from disk.
type Loader struct{}

// NewLoader creates a new HCL recipe file loader.
func NewLoader() *Loader {
	return &Loader{}
}

var rootSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "variables"},
		{Type: "recipe", LabelNames: []string{"name"}},
	},
}

// recipeBody is the decoded body of a `recipe "name" { ... }` block.
type recipeBody struct {
	Description string         `hcl:"description,optional"`
	DependsOn   []string       `hcl:"depends_on,optional"`
	Commands    hcl.Expression `hcl:"commands"`
}

// Load reads and decodes the HCL recipe file at path.
func (l *Loader) Load(ctx context.Context, path string) (*recipe.Registry, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading recipe file.", "path", path, "format", "hcl")

	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading recipe file: %w", err)
	}

	reg, err := Parse(ctx, path, src)
	if err != nil {
		return nil, err
	}

	logger.Debug("Recipe file loaded.", "recipes", reg.Len())
	return reg, nil
}

// Parse decodes HCL recipe source into a Registry. Recipes keep the order in
// which their blocks appear in the file.
func Parse(ctx context.Context, file string, src []byte) (*recipe.Registry, error) {
	f, diags := hclparse.NewParser().ParseHCL(src, file)
	if diags.HasErrors() {
		return nil, diagError(file, diags)
	}

	content, diags := f.Body.Content(rootSchema)
	if diags.HasErrors() {
		return nil, diagError(file, diags)
	}

	evalCtx, err := buildEvalContext(ctx, file, content.Blocks.OfType("variables"))
	if err != nil {
		return nil, err
	}

	reg := recipe.NewRegistry()
	for _, block := range content.Blocks.OfType("recipe") {
		r, err := decodeRecipe(ctx, file, block, evalCtx)
		if err != nil {
			return nil, err
		}
		if err := reg.Add(r); err != nil {
			var dup *recipe.DuplicateRecipeError
			if errors.As(err, &dup) {
				return nil, &recipe.ParseError{File: file, Line: r.Line, Msg: err.Error(), Err: err}
			}
			return nil, err
		}
	}

	if err := reg.CheckReferences(); err != nil {
		return nil, err
	}
	return reg, nil
}

// buildEvalContext evaluates every variables block and exposes the result as
// the `var` object. Variables cannot refer to each other.
func buildEvalContext(ctx context.Context, file string, blocks hcl.Blocks) (*hcl.EvalContext, error) {
	logger := ctxlog.FromContext(ctx)
	vars := make(map[string]cty.Value)

	for _, block := range blocks {
		attrs, diags := block.Body.JustAttributes()
		if diags.HasErrors() {
			return nil, diagError(file, diags)
		}
		for name, attr := range attrs {
			if _, exists := vars[name]; exists {
				return nil, &recipe.ParseError{
					File: file,
					Line: attr.NameRange.Start.Line,
					Msg:  fmt.Sprintf("variable %q is defined more than once", name),
				}
			}
			val, diags := attr.Expr.Value(nil)
			if diags.HasErrors() {
				return nil, diagError(file, diags)
			}
			vars[name] = val
		}
	}

	logger.Debug("Evaluated recipe variables.", "count", len(vars))
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{"var": cty.ObjectVal(vars)},
	}, nil
}

func decodeRecipe(ctx context.Context, file string, block *hcl.Block, evalCtx *hcl.EvalContext) (*recipe.Recipe, error) {
	line := block.DefRange.Start.Line
	name := recipe.Name(block.Labels[0])
	if !name.Valid() {
		return nil, &recipe.ParseError{File: file, Line: line, Msg: fmt.Sprintf("invalid recipe name %q", block.Labels[0])}
	}

	var body recipeBody
	if diags := gohcl.DecodeBody(block.Body, evalCtx, &body); diags.HasErrors() {
		return nil, diagError(file, diags)
	}

	r := &recipe.Recipe{
		Name:        name,
		Description: body.Description,
		Source:      file,
		Line:        line,
	}

	for _, d := range body.DependsOn {
		dep := recipe.Name(d)
		if !dep.Valid() {
			return nil, &recipe.ParseError{File: file, Line: line, Msg: fmt.Sprintf("invalid dependency name %q in recipe %q", d, name)}
		}
		if dep == name {
			return nil, &recipe.ParseError{File: file, Line: line, Msg: fmt.Sprintf("recipe %q depends on itself", name)}
		}
		r.Dependencies = append(r.Dependencies, dep)
	}

	commands, err := decodeCommands(ctx, body.Commands, evalCtx)
	if err != nil {
		return nil, &recipe.ParseError{
			File: file,
			Line: body.Commands.Range().Start.Line,
			Msg:  fmt.Sprintf("recipe %q: %v", name, err),
			Err:  err,
		}
	}
	if len(commands) == 0 {
		return nil, &recipe.ParseError{File: file, Line: line, Msg: fmt.Sprintf("recipe %q has no commands", name)}
	}
	r.Commands = commands
	return r, nil
}

// diagError turns the first error diagnostic into a ParseError that still
// wraps the full diagnostics.
func diagError(file string, diags hcl.Diagnostics) error {
	pe := &recipe.ParseError{File: file, Msg: diags.Error(), Err: diags}
	for _, d := range diags {
		if d.Severity != hcl.DiagError {
			continue
		}
		pe.Msg = d.Summary
		if d.Detail != "" {
			pe.Msg += ": " + d.Detail
		}
		if d.Subject != nil {
			pe.Line = d.Subject.Start.Line
		}
		break
	}
	return pe
}
