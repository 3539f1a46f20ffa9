// Package critpath finds the slowest chain of vertices in a directed acyclic graph.
package critpath

import (
	"time"

	"github.com/dominikbraun/graph"
	"github.com/pkg/errors"
)

// Find returns the source to sink path whose summed vertex durations is the largest, with its total duration.
// Ties are broken with less, which also orders the topological sort.
func Find[K comparable, T any](gra graph.Graph[K, T], duration func(K) time.Duration, less func(K, K) bool) ([]K, time.Duration, error) {
	order, err := graph.StableTopologicalSort(gra, less)
	if err != nil {
		return nil, 0, errors.Wrap(err, "unable to sort graph")
	}

	if len(order) == 0 {
		return nil, 0, nil
	}

	predecessors, err := gra.PredecessorMap()
	if err != nil {
		return nil, 0, errors.Wrap(err, "unable to get predecessor map")
	}

	position := make(map[K]int, len(order))
	for i, vertex := range order {
		position[vertex] = i
	}

	total := make(map[K]time.Duration, len(order))
	previous := make(map[K]K, len(order))

	for _, vertex := range order {
		var (
			best    time.Duration
			bestPos = -1
		)

		for pred := range predecessors[vertex] {
			if bestPos == -1 || total[pred] > best || (total[pred] == best && position[pred] < bestPos) {
				best = total[pred]
				bestPos = position[pred]
			}
		}

		if bestPos >= 0 {
			previous[vertex] = order[bestPos]
		}

		total[vertex] = best + duration(vertex)
	}

	adjacency, err := gra.AdjacencyMap()
	if err != nil {
		return nil, 0, errors.Wrap(err, "unable to get adjacency map")
	}

	// The path always ends on a sink, even when the last vertices take no time.
	var (
		last  K
		found bool
	)

	for _, vertex := range order {
		if len(adjacency[vertex]) > 0 {
			continue
		}

		if !found || total[vertex] > total[last] {
			last = vertex
			found = true
		}
	}

	path := []K{last}
	for {
		prev, ok := previous[path[0]]
		if !ok {
			break
		}

		path = append([]K{prev}, path...)
	}

	return path, total[last], nil
}
