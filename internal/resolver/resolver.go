// Package resolver turns a requested recipe name into the linear sequence of
// recipes to execute, dependencies first, each recipe at most once.
package resolver

import (
	"context"
	"errors"

	"github.com/specialistvlad/recipego/internal/ctxlog"
	"github.com/specialistvlad/recipego/internal/dag"
	"github.com/specialistvlad/recipego/internal/recipe"
)

// Resolve returns the execution order for name: a depth-first post-order walk
// of its dependency graph in declared dependency order. The requested recipe
// is always last. Only the part of the registry reachable from name is
// inspected, so problems elsewhere in the registry do not affect the result.
func Resolve(ctx context.Context, reg *recipe.Registry, name recipe.Name) ([]*recipe.Recipe, error) {
	logger := ctxlog.FromContext(ctx).With("recipe", string(name))
	logger.Debug("Resolving recipe.")

	root, err := reg.Lookup(name)
	if err != nil {
		return nil, err
	}

	g, err := reachable(reg, root)
	if err != nil {
		return nil, err
	}

	ids, err := g.PostOrder(string(root.Name))
	if err != nil {
		return nil, translate(err)
	}

	plan := make([]*recipe.Recipe, 0, len(ids))
	for _, id := range ids {
		r, _ := reg.Get(recipe.Name(id))
		plan = append(plan, r)
	}
	logger.Debug("Recipe resolved.", "plan", Names(plan))
	return plan, nil
}

// Validate checks the registry-wide invariants: every dependency exists and
// no recipe transitively depends on itself.
func Validate(ctx context.Context, reg *recipe.Registry) error {
	ctxlog.FromContext(ctx).Debug("Validating recipe registry.", "recipes", reg.Len())
	g, err := Graph(reg)
	if err != nil {
		return err
	}
	return translate(g.DetectCycles())
}

// Graph builds the dependency graph of the whole registry. An edge dep -> r
// means r depends on dep.
func Graph(reg *recipe.Registry) (*dag.Graph, error) {
	if err := reg.CheckReferences(); err != nil {
		return nil, err
	}
	g := dag.New()
	for _, r := range reg.Recipes() {
		g.AddNode(string(r.Name))
	}
	for _, r := range reg.Recipes() {
		if err := addEdges(g, r); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// reachable builds the graph of root and everything it transitively depends on.
func reachable(reg *recipe.Registry, root *recipe.Recipe) (*dag.Graph, error) {
	g := dag.New()
	seen := map[recipe.Name]bool{root.Name: true}
	queue := []*recipe.Recipe{root}
	var members []*recipe.Recipe

	for len(queue) > 0 {
		r := queue[0]
		queue = queue[1:]
		members = append(members, r)
		g.AddNode(string(r.Name))

		for _, depName := range r.Dependencies {
			dep, ok := reg.Get(depName)
			if !ok {
				return nil, &recipe.UnknownRecipeError{Name: depName, ReferencedBy: r}
			}
			if !seen[depName] {
				seen[depName] = true
				queue = append(queue, dep)
			}
		}
	}

	for _, r := range members {
		if err := addEdges(g, r); err != nil {
			return nil, err
		}
	}
	return g, nil
}

func addEdges(g *dag.Graph, r *recipe.Recipe) error {
	for _, dep := range r.Dependencies {
		if dep == r.Name {
			return &recipe.CycleError{Cycle: []recipe.Name{r.Name, r.Name}}
		}
		if err := g.AddEdge(string(dep), string(r.Name)); err != nil {
			return err
		}
	}
	return nil
}

// translate converts graph-level errors into the recipe error taxonomy.
func translate(err error) error {
	var cycleErr *dag.CycleError
	if errors.As(err, &cycleErr) {
		names := make([]recipe.Name, len(cycleErr.Path))
		for i, id := range cycleErr.Path {
			names[i] = recipe.Name(id)
		}
		return &recipe.CycleError{Cycle: names}
	}
	var nf *dag.NotFoundError
	if errors.As(err, &nf) {
		return &recipe.UnknownRecipeError{Name: recipe.Name(nf.ID)}
	}
	return err
}

// Names lists the names of a resolved plan, for logs and dry runs.
func Names(plan []*recipe.Recipe) []string {
	out := make([]string, len(plan))
	for i, r := range plan {
		out[i] = string(r.Name)
	}
	return out
}
