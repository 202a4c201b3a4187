// Copyright (c) 2026 Roots. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tree_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/roots/internal/genealogy/kinship"
	"github.com/taibuivan/roots/internal/genealogy/tree"
)

func people(ids ...string) []tree.NodePerson {
	persons := make([]tree.NodePerson, len(ids))
	for i, id := range ids {
		persons[i] = tree.NodePerson{ID: id, FirstName: id, LastName: "Test"}
	}
	return persons
}

func parent(id, from, to string) tree.LayoutEdge {
	return tree.LayoutEdge{ID: id, Source: from, Target: to, Type: kinship.Parent}
}

func generationsOf(graph tree.Graph) map[string]int {
	result := make(map[string]int, len(graph.Nodes))
	for _, node := range graph.Nodes {
		result[node.ID] = node.Generation
	}
	return result
}

func positionsOf(graph tree.Graph) map[string]tree.Position {
	result := make(map[string]tree.Position, len(graph.Nodes))
	for _, node := range graph.Nodes {
		result[node.ID] = node.Position
	}
	return result
}

func TestLayout_Chain(t *testing.T) {
	graph := tree.Layout(people("A", "B", "C"), []tree.LayoutEdge{
		parent("r1", "A", "B"),
		{ID: "r2", Source: "B", Target: "A", Type: kinship.Child},
		parent("r3", "B", "C"),
		{ID: "r4", Source: "C", Target: "B", Type: kinship.Child},
	})

	assert.Equal(t, map[string]int{"A": 0, "B": 1, "C": 2}, generationsOf(graph))
	assert.Equal(t, tree.Position{X: 0, Y: 400}, positionsOf(graph)["C"])
	assert.Len(t, graph.Edges, 4)
}

func TestLayout_IsolatedPerson(t *testing.T) {
	graph := tree.Layout(people("A", "B", "D"), []tree.LayoutEdge{
		parent("r1", "A", "B"),
		{ID: "r2", Source: "A", Target: "D", Type: kinship.Sibling},
	})

	generations := generationsOf(graph)
	assert.Equal(t, 0, generations["D"])
	assert.Equal(t, 1, generations["B"])

	// Roots fill generation 0 left to right in person order
	positions := positionsOf(graph)
	assert.Equal(t, tree.Position{X: 0, Y: 0}, positions["A"])
	assert.Equal(t, tree.Position{X: 200, Y: 0}, positions["D"])
}

func TestLayout_CycleTerminates(t *testing.T) {
	graph := tree.Layout(people("A", "B"), []tree.LayoutEdge{
		parent("r1", "A", "B"),
		parent("r2", "B", "A"),
	})

	require.Len(t, graph.Nodes, 2)
	assert.Equal(t, map[string]int{"A": 0, "B": 1}, generationsOf(graph))
}

func TestLayout_CycleBelowRoot(t *testing.T) {
	// R is a root; X and Y are each other's parent and both children of R
	graph := tree.Layout(people("R", "X", "Y"), []tree.LayoutEdge{
		parent("r1", "R", "X"),
		parent("r2", "X", "Y"),
		parent("r3", "Y", "X"),
	})

	assert.Equal(t, map[string]int{"R": 0, "X": 1, "Y": 2}, generationsOf(graph))
}

func TestLayout_MultipleRoots(t *testing.T) {
	graph := tree.Layout(people("A", "B", "C", "D"), []tree.LayoutEdge{
		parent("r1", "A", "B"),
		parent("r2", "C", "D"),
	})

	generations := generationsOf(graph)
	assert.Equal(t, map[string]int{"A": 0, "B": 1, "C": 0, "D": 1}, generations)

	positions := positionsOf(graph)
	assert.Equal(t, tree.Position{X: 0, Y: 0}, positions["A"])
	assert.Equal(t, tree.Position{X: 200, Y: 0}, positions["C"])
	assert.Equal(t, tree.Position{X: 0, Y: 200}, positions["B"])
	assert.Equal(t, tree.Position{X: 200, Y: 200}, positions["D"])
}

func TestLayout_FirstPathWins(t *testing.T) {
	// D is reachable at depth 1 via A and at depth 2 via B→C
	graph := tree.Layout(people("A", "B", "C", "D"), []tree.LayoutEdge{
		parent("r1", "A", "D"),
		parent("r2", "B", "C"),
		parent("r3", "C", "D"),
	})

	assert.Equal(t, 1, generationsOf(graph)["D"])
}

func TestLayout_Empty(t *testing.T) {
	graph := tree.Layout(nil, nil)

	assert.NotNil(t, graph.Nodes)
	assert.NotNil(t, graph.Edges)
	assert.Empty(t, graph.Nodes)
	assert.Empty(t, graph.Edges)
}

func TestLayout_Deterministic(t *testing.T) {
	persons := people("A", "B", "C", "D", "E")
	edges := []tree.LayoutEdge{parent("r1", "A", "C"), parent("r2", "B", "C"), parent("r3", "A", "D"), parent("r4", "D", "E")}

	first := tree.Layout(persons, edges)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, tree.Layout(persons, edges))
	}
}

func TestAssignGenerations_IgnoresForeignEndpoints(t *testing.T) {
	generations, order := tree.AssignGenerations([]string{"A"}, []tree.LayoutEdge{parent("r1", "ghost", "A")})

	assert.Equal(t, map[string]int{"A": 0}, generations)
	assert.Equal(t, []string{"A"}, order)
}
