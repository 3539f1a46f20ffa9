package store

import (
	"testing"

	"github.com/dominikbraun/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDiamond(t *testing.T) (OrderedStore[string, string], graph.Graph[string, string]) {
	t.Helper()

	str := NewMemoryStore[string, string]()
	gra := graph.NewWithStore(graph.StringHash, str, graph.Directed(), graph.PreventCycles())

	for _, name := range []string{"a", "b", "c", "d", "e"} {
		require.NoError(t, gra.AddVertex(name))
	}

	require.NoError(t, gra.AddEdge("a", "c"))
	require.NoError(t, gra.AddEdge("b", "c"))
	require.NoError(t, gra.AddEdge("a", "d"))
	require.NoError(t, gra.AddEdge("d", "e"))
	require.NoError(t, gra.AddEdge("c", "e"))

	return str, gra
}

func TestLayers(t *testing.T) {
	t.Parallel()

	str, _ := newDiamond(t)

	layers, err := str.Layers()
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"a", "b"}, {"c", "d"}, {"e"}}, layers)

	parents, err := str.Parents("e")
	require.NoError(t, err)
	assert.Equal(t, []string{"d", "c"}, parents)

	_, err = str.Parents("z")
	require.ErrorIs(t, err, graph.ErrVertexNotFound)

	sinks, err := str.Sinks()
	require.NoError(t, err)
	assert.Equal(t, []string{"e"}, sinks)
}

func TestPreventCycles(t *testing.T) {
	t.Parallel()

	_, gra := newDiamond(t)

	err := gra.AddEdge("e", "a")
	require.ErrorIs(t, err, graph.ErrEdgeCreatesCycle)

	err = gra.AddEdge("c", "c")
	require.ErrorIs(t, err, graph.ErrEdgeCreatesCycle)
}

func TestCreatesCycle(t *testing.T) {
	t.Parallel()

	str := NewMemoryStore[string, string]().(*MemoryStore[string, string])
	for _, name := range []string{"a", "b", "c"} {
		require.NoError(t, str.AddVertex(name, name, graph.VertexProperties{}))
	}

	require.NoError(t, str.AddEdge("a", "b", graph.Edge[string]{Source: "a", Target: "b"}))
	require.NoError(t, str.AddEdge("b", "c", graph.Edge[string]{Source: "b", Target: "c"}))

	cycle, err := str.CreatesCycle("c", "a")
	require.NoError(t, err)
	assert.True(t, cycle)

	cycle, err = str.CreatesCycle("a", "c")
	require.NoError(t, err)
	assert.False(t, cycle)

	_, err = str.CreatesCycle("a", "z")
	require.ErrorIs(t, err, graph.ErrVertexNotFound)
}

func TestVertexLifecycle(t *testing.T) {
	t.Parallel()

	str := NewMemoryStore[string, int]()

	require.NoError(t, str.AddVertex("a", 1, graph.VertexProperties{Weight: 3}))
	require.NoError(t, str.AddVertex("b", 2, graph.VertexProperties{}))
	require.ErrorIs(t, str.AddVertex("a", 1, graph.VertexProperties{}), graph.ErrVertexAlreadyExists)

	value, props, err := str.Vertex("a")
	require.NoError(t, err)
	assert.Equal(t, 1, value)
	assert.Equal(t, 3, props.Weight)

	count, err := str.VertexCount()
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	require.NoError(t, str.AddEdge("a", "b", graph.Edge[string]{Source: "a", Target: "b"}))
	require.ErrorIs(t, str.RemoveVertex("a"), graph.ErrVertexHasEdges)

	require.NoError(t, str.UpdateEdge("a", "b", graph.Edge[string]{Source: "a", Target: "b", Properties: graph.EdgeProperties{Weight: 5}}))

	edge, err := str.Edge("a", "b")
	require.NoError(t, err)
	assert.Equal(t, 5, edge.Properties.Weight)

	edges, err := str.ListEdges()
	require.NoError(t, err)
	assert.Len(t, edges, 1)

	require.NoError(t, str.RemoveEdge("a", "b"))

	_, err = str.Edge("a", "b")
	require.ErrorIs(t, err, graph.ErrEdgeNotFound)

	parents, err := str.Parents("b")
	require.NoError(t, err)
	assert.Empty(t, parents)

	require.NoError(t, str.RemoveVertex("a"))

	vertices, err := str.ListVertices()
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, vertices)
}
