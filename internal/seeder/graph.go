package seeder

import "slices"

// DependencyGraph orders record types so that every referenced type comes
// before the types that reference it.
type DependencyGraph struct {
	deps  map[string][]string
	names []string
}

func NewDependencyGraph() *DependencyGraph {
	return &DependencyGraph{
		deps: make(map[string][]string),
	}
}

// AddNode registers name with the record types it depends on. Nodes are
// visited in the order they were added.
func (g *DependencyGraph) AddNode(name string, deps []string) {
	if _, ok := g.deps[name]; !ok {
		g.names = append(g.names, name)
	}
	g.deps[name] = deps
}

// BuildOrder returns a topological order, or a *CyclicDependencyError.
// Dependencies on names never added are ignored here.
func (g *DependencyGraph) BuildOrder() ([]string, error) {
	visited := make(map[string]bool)
	temp := make(map[string]bool)
	var path []string
	var order []string

	var visit func(string) error
	visit = func(name string) error {
		if temp[name] {
			start := slices.Index(path, name)
			cycle := append(slices.Clone(path[start:]), name)
			return &CyclicDependencyError{Cycle: cycle}
		}
		if visited[name] {
			return nil
		}

		temp[name] = true
		path = append(path, name)
		for _, dep := range g.deps[name] {
			if dep == name {
				continue
			}
			if _, ok := g.deps[dep]; !ok {
				continue
			}
			if err := visit(dep); err != nil {
				return err
			}
		}
		path = path[:len(path)-1]

		temp[name] = false
		visited[name] = true
		order = append(order, name)
		return nil
	}

	for _, name := range g.names {
		if !visited[name] {
			if err := visit(name); err != nil {
				return nil, err
			}
		}
	}

	return order, nil
}
