package recipe

// Registry maps recipe names to recipes and remembers declaration order for
// listing. Execution order never depends on declaration order.
type Registry struct {
	order   []Name
	recipes map[Name]*Recipe
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		recipes: make(map[Name]*Recipe),
	}
}

// Add registers r. It fails with a *DuplicateRecipeError if a recipe with the
// same name was already added.
func (reg *Registry) Add(r *Recipe) error {
	if prev, ok := reg.recipes[r.Name]; ok {
		return &DuplicateRecipeError{Name: r.Name, First: prev, Second: r}
	}
	reg.recipes[r.Name] = r
	reg.order = append(reg.order, r.Name)
	return nil
}

// Get looks up a recipe by name.
func (reg *Registry) Get(name Name) (*Recipe, bool) {
	r, ok := reg.recipes[name]
	return r, ok
}

// Lookup is Get with an *UnknownRecipeError for missing names.
func (reg *Registry) Lookup(name Name) (*Recipe, error) {
	if r, ok := reg.recipes[name]; ok {
		return r, nil
	}
	return nil, &UnknownRecipeError{Name: name}
}

// Names returns all recipe names in declaration order.
func (reg *Registry) Names() []Name {
	out := make([]Name, len(reg.order))
	copy(out, reg.order)
	return out
}

// Recipes returns all recipes in declaration order.
func (reg *Registry) Recipes() []*Recipe {
	out := make([]*Recipe, 0, len(reg.order))
	for _, name := range reg.order {
		out = append(out, reg.recipes[name])
	}
	return out
}

// First returns the first declared recipe, or nil for an empty registry.
func (reg *Registry) First() *Recipe {
	if len(reg.order) == 0 {
		return nil
	}
	return reg.recipes[reg.order[0]]
}

// Len returns the number of recipes.
func (reg *Registry) Len() int {
	return len(reg.order)
}

// CheckReferences verifies that every dependency names a registered recipe.
// The first dangling reference in declaration order is reported.
func (reg *Registry) CheckReferences() error {
	for _, name := range reg.order {
		r := reg.recipes[name]
		for _, dep := range r.Dependencies {
			if _, ok := reg.recipes[dep]; !ok {
				return &UnknownRecipeError{Name: dep, ReferencedBy: r}
			}
		}
	}
	return nil
}
