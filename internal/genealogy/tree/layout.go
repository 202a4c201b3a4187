// Copyright (c) 2026 Roots. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tree

import (
	"github.com/taibuivan/roots/internal/genealogy/kinship"
	"github.com/taibuivan/roots/pkg/slice"
)

// Grid spacing of the layout, in pixels.
const (
	NodeWidth  = 200
	NodeHeight = 200
)

/*
Layout assigns every person a generation and a canvas position.

# Algorithm

Only parent edges are read. Persons that are nobody's child are roots at
generation 0; a breadth-first walk gives each child its parent's generation
plus one. The first path to reach a person wins, and an assigned person is
never revisited, so cyclic input terminates. Persons left unassigned after
the root pass (members of a parent cycle) are seeded at generation 0 one at a
time and the walk resumes from each.

Within a generation, x follows the order in which persons were assigned.

# Ordering

The result depends only on input order. Callers pass persons by creation
time and edges by id to get a stable layout across requests.

Parameters:
  - persons: []NodePerson (every person of the tree)
  - edges: []LayoutEdge (every relationship of the tree, any kind)

Returns:
  - Graph: One node per person in input order, one edge per relationship
*/
func Layout(persons []NodePerson, edges []LayoutEdge) Graph {
	ids := slice.Map(persons, func(person NodePerson) string { return person.ID })

	generations, order := AssignGenerations(ids, edges)
	positions := place(generations, order)

	graph := Graph{
		Nodes: make([]Node, 0, len(persons)),
		Edges: make([]LayoutEdge, 0, len(edges)),
	}

	for _, person := range persons {
		graph.Nodes = append(graph.Nodes, Node{
			ID: person.ID,
			Data: NodeData{
				ID:             person.ID,
				FirstName:      person.FirstName,
				LastName:       person.LastName,
				AvatarThumbURL: person.AvatarThumbURL,
				BirthDate:      person.BirthDate,
			},
			Position:   positions[person.ID],
			Generation: generations[person.ID],
		})
	}

	graph.Edges = append(graph.Edges, edges...)
	return graph
}

/*
AssignGenerations runs the breadth-first generation pass.

Returns:
  - map[string]int: Generation per person id
  - []string: Person ids in assignment order
*/
func AssignGenerations(personIDs []string, edges []LayoutEdge) (map[string]int, []string) {
	known := make(map[string]bool, len(personIDs))
	for _, id := range personIDs {
		known[id] = true
	}

	// 1. Adjacency from parent edges whose endpoints are both in the tree
	childrenOf := make(map[string][]string)
	hasParent := make(map[string]bool)

	for _, edge := range edges {
		if edge.Type != kinship.Parent || !known[edge.Source] || !known[edge.Target] {
			continue
		}
		childrenOf[edge.Source] = append(childrenOf[edge.Source], edge.Target)
		hasParent[edge.Target] = true
	}

	generations := make(map[string]int, len(personIDs))
	order := make([]string, 0, len(personIDs))
	queue := make([]string, 0, len(personIDs))

	assign := func(id string, generation int) {
		generations[id] = generation
		order = append(order, id)
		queue = append(queue, id)
	}

	walk := func() {
		for len(queue) > 0 {
			current := queue[0]
			queue = queue[1:]

			for _, child := range childrenOf[current] {
				if _, seen := generations[child]; !seen {
					assign(child, generations[current]+1)
				}
			}
		}
	}

	// 2. Roots first, in person order
	for _, id := range personIDs {
		if _, seen := generations[id]; !seen && !hasParent[id] {
			assign(id, 0)
		}
	}
	walk()

	// 3. Whatever is left sits on a parent cycle
	for _, id := range personIDs {
		if _, seen := generations[id]; !seen {
			assign(id, 0)
			walk()
		}
	}

	return generations, order
}

// place buckets persons by generation and spaces them on the grid.
func place(generations map[string]int, order []string) map[string]Position {
	positions := make(map[string]Position, len(order))
	filled := make(map[int]int)

	for _, id := range order {
		generation := generations[id]
		index := filled[generation]
		filled[generation] = index + 1

		positions[id] = Position{
			X: float64(index * NodeWidth),
			Y: float64(generation * NodeHeight),
		}
	}

	return positions
}
