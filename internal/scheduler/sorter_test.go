package scheduler

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/reflow/internal/contract"
)

func TestTopoSort_EmitsParentsBeforeChildren(t *testing.T) {
	nodes := []string{"a", "b", "c", "d"}
	edges := []Edge{
		{Parent: "a", Child: "b"},
		{Parent: "b", Child: "c"},
		{Parent: "a", Child: "d"},
	}

	order, err := TopoSort(nodes, edges)
	require.NoError(t, err)
	require.Len(t, order, 4)

	pos := make(map[string]int, len(order))
	for i, n := range order {
		pos[n] = i
	}
	for _, e := range edges {
		assert.Less(t, pos[e.Parent], pos[e.Child], "%s must precede %s", e.Parent, e.Child)
	}
}

func TestTopoSort_FIFOAmongReadyNodes(t *testing.T) {
	// No edges: output is exactly the insertion order.
	nodes := []string{"w3", "w1", "w2"}
	order, err := TopoSort(nodes, nil)
	require.NoError(t, err)
	assert.Equal(t, nodes, order)
}

func TestTopoSort_DeterministicAcrossRuns(t *testing.T) {
	nodes := []string{"a", "b", "c", "d", "e"}
	edges := []Edge{{Parent: "a", Child: "d"}, {Parent: "b", Child: "d"}}

	first, err := TopoSort(nodes, edges)
	require.NoError(t, err)
	for i := 0; i < 50; i++ {
		again, err := TopoSort(nodes, edges)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestTopoSort_IgnoresUnknownEdgeEndpoints(t *testing.T) {
	nodes := []string{"a", "b"}
	edges := []Edge{
		{Parent: "ghost", Child: "a"},
		{Parent: "b", Child: "phantom"},
	}

	order, err := TopoSort(nodes, edges)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, order)
}

func TestTopoSort_ReportsCycleMembers(t *testing.T) {
	nodes := []string{"a", "b", "c", "free"}
	edges := []Edge{
		{Parent: "a", Child: "b"},
		{Parent: "b", Child: "c"},
		{Parent: "c", Child: "a"},
	}

	_, err := TopoSort(nodes, edges)
	require.Error(t, err)
	assert.Equal(t, contract.ErrCircularDependency, contract.CodeOf(err))
	for _, id := range []string{"a", "b", "c"} {
		assert.Contains(t, err.Error(), id)
	}
	assert.NotContains(t, strings.Split(err.Error(), ":")[2], "free")
}

func TestTopoSort_SelfDependencyIsACycle(t *testing.T) {
	_, err := TopoSort([]string{"a"}, []Edge{{Parent: "a", Child: "a"}})
	require.Error(t, err)
	assert.Equal(t, contract.ErrCircularDependency, contract.CodeOf(err))
}
