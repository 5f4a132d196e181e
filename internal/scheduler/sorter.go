package scheduler

import (
	"sort"
	"strings"

	"github.com/alexanderramin/reflow/internal/contract"
)

// Edge is a parent -> child dependency between work-order ids.
type Edge struct {
	Parent string
	Child  string
}

// TopoSort orders nodes so every node appears after all its parents, using
// Kahn's algorithm. Processing among simultaneously ready nodes is FIFO over
// insertion order, so the result is deterministic. Edges referencing unknown
// nodes are ignored.
//
// Fails with CIRCULAR_DEPENDENCY when a cycle leaves nodes with positive
// in-degree; the message carries the residual ids.
func TopoSort(nodes []string, edges []Edge) ([]string, error) {
	known := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		known[n] = true
	}

	inDegree := make(map[string]int, len(nodes))
	successors := make(map[string][]string)
	for _, e := range edges {
		if !known[e.Parent] || !known[e.Child] {
			continue
		}
		successors[e.Parent] = append(successors[e.Parent], e.Child)
		inDegree[e.Child]++
	}

	queue := make([]string, 0, len(nodes))
	for _, n := range nodes {
		if inDegree[n] == 0 {
			queue = append(queue, n)
		}
	}

	order := make([]string, 0, len(nodes))
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		order = append(order, n)
		for _, succ := range successors[n] {
			inDegree[succ]--
			if inDegree[succ] == 0 {
				queue = append(queue, succ)
			}
		}
	}

	if len(order) < len(nodes) {
		var stuck []string
		for n, d := range inDegree {
			if d > 0 {
				stuck = append(stuck, n)
			}
		}
		sort.Strings(stuck)
		return nil, contract.Errorf(contract.ErrCircularDependency,
			"dependency graph contains a cycle involving: %s", strings.Join(stuck, ", "))
	}
	return order, nil
}
