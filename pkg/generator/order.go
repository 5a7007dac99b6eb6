package generator

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/xcgen/xcgen/pkg/model"
)

// buildOrder computes a deterministic dependency-ordered list of target names
// for a project: dependencies before dependents, ties broken by name. Cycles
// are rejected.
func buildOrder(project *model.Project) ([]string, error) {
	dg := simple.NewDirectedGraph()

	ids := make(map[string]int64, len(project.Targets))
	names := make(map[int64]string, len(project.Targets))

	sorted := make([]*model.Target, len(project.Targets))
	copy(sorted, project.Targets)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	for i, target := range sorted {
		id := int64(i)
		ids[target.Name] = id
		names[id] = target.Name
		dg.AddNode(simple.Node(id))
	}

	// Edge from dependency to dependent so topological order yields
	// dependencies first.
	for _, target := range sorted {
		for _, dep := range target.Dependencies {
			from, to := ids[dep], ids[target.Name]
			if from == to {
				return nil, fmt.Errorf("%w: target %q depends on itself", ErrDependencyCycle, target.Name)
			}
			if !dg.HasEdgeFromTo(from, to) {
				dg.SetEdge(dg.NewEdge(simple.Node(from), simple.Node(to)))
			}
		}
	}

	ordered, err := topo.SortStabilized(dg, nil)
	if err != nil {
		return nil, fmt.Errorf("%w in project %s", ErrDependencyCycle, project.Name)
	}

	order := make([]string, 0, len(ordered))
	for _, node := range ordered {
		order = append(order, names[node.ID()])
	}
	return order, nil
}
