package store

import (
	"fmt"
	"sync"

	"github.com/dominikbraun/graph"
)

// OrderedStore is a graph.Store remembering the insertion order of vertices and edges, so traversals built on it
// are deterministic.
type OrderedStore[K comparable, T any] interface {
	graph.Store[K, T]
	// Layers groups vertices so that every vertex only depends on vertices of previous layers.
	Layers() ([][]K, error)
	// Parents returns the sources of the in-edges of k in insertion order.
	Parents(k K) ([]K, error)
	// Sinks returns the vertices without out-edges in insertion order.
	Sinks() ([]K, error)
}

type MemoryStore[K comparable, T any] struct {
	lock             sync.RWMutex
	order            []K
	vertices         map[K]T
	vertexProperties map[K]*graph.VertexProperties

	outEdges map[K]map[K]graph.Edge[K] // source -> target
	inEdges  map[K]map[K]graph.Edge[K] // target -> source
	inOrder  map[K][]K                 // target -> sources, in insertion order
}

func NewMemoryStore[K comparable, T any]() OrderedStore[K, T] {
	return &MemoryStore[K, T]{
		vertices:         make(map[K]T),
		vertexProperties: make(map[K]*graph.VertexProperties),
		outEdges:         make(map[K]map[K]graph.Edge[K]),
		inEdges:          make(map[K]map[K]graph.Edge[K]),
		inOrder:          make(map[K][]K),
	}
}

func (s *MemoryStore[K, T]) AddVertex(k K, t T, p graph.VertexProperties) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if _, ok := s.vertices[k]; ok {
		return graph.ErrVertexAlreadyExists
	}

	s.vertices[k] = t
	s.vertexProperties[k] = &p
	s.order = append(s.order, k)

	return nil
}

func (s *MemoryStore[K, T]) ListVertices() ([]K, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	hashes := make([]K, len(s.order))
	copy(hashes, s.order)

	return hashes, nil
}

func (s *MemoryStore[K, T]) VertexCount() (int, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return len(s.vertices), nil
}

func (s *MemoryStore[K, T]) Vertex(k K) (T, graph.VertexProperties, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	v, ok := s.vertices[k]
	if !ok {
		return v, graph.VertexProperties{}, graph.ErrVertexNotFound
	}

	return v, *s.vertexProperties[k], nil
}

func (s *MemoryStore[K, T]) RemoveVertex(k K) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if _, ok := s.vertices[k]; !ok {
		return graph.ErrVertexNotFound
	}

	if len(s.inEdges[k]) > 0 || len(s.outEdges[k]) > 0 {
		return graph.ErrVertexHasEdges
	}

	delete(s.inEdges, k)
	delete(s.outEdges, k)
	delete(s.inOrder, k)
	delete(s.vertices, k)
	delete(s.vertexProperties, k)

	for i, hash := range s.order {
		if hash == k {
			s.order = append(s.order[:i], s.order[i+1:]...)

			break
		}
	}

	return nil
}

func (s *MemoryStore[K, T]) AddEdge(sourceHash, targetHash K, edge graph.Edge[K]) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if _, ok := s.outEdges[sourceHash]; !ok {
		s.outEdges[sourceHash] = make(map[K]graph.Edge[K])
	}

	if _, ok := s.inEdges[targetHash]; !ok {
		s.inEdges[targetHash] = make(map[K]graph.Edge[K])
	}

	if _, ok := s.inEdges[targetHash][sourceHash]; !ok {
		s.inOrder[targetHash] = append(s.inOrder[targetHash], sourceHash)
	}

	s.outEdges[sourceHash][targetHash] = edge
	s.inEdges[targetHash][sourceHash] = edge

	return nil
}

func (s *MemoryStore[K, T]) UpdateEdge(sourceHash, targetHash K, edge graph.Edge[K]) error {
	if _, err := s.Edge(sourceHash, targetHash); err != nil {
		return err
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	s.outEdges[sourceHash][targetHash] = edge
	s.inEdges[targetHash][sourceHash] = edge

	return nil
}

func (s *MemoryStore[K, T]) RemoveEdge(sourceHash, targetHash K) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	delete(s.inEdges[targetHash], sourceHash)
	delete(s.outEdges[sourceHash], targetHash)

	sources := s.inOrder[targetHash]
	for i, hash := range sources {
		if hash == sourceHash {
			s.inOrder[targetHash] = append(sources[:i], sources[i+1:]...)

			break
		}
	}

	return nil
}

func (s *MemoryStore[K, T]) Edge(sourceHash, targetHash K) (graph.Edge[K], error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	edge, ok := s.outEdges[sourceHash][targetHash]
	if !ok {
		return graph.Edge[K]{}, graph.ErrEdgeNotFound
	}

	return edge, nil
}

func (s *MemoryStore[K, T]) ListEdges() ([]graph.Edge[K], error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	res := make([]graph.Edge[K], 0)
	for _, target := range s.order {
		for _, source := range s.inOrder[target] {
			res = append(res, s.inEdges[target][source])
		}
	}

	return res, nil
}

// CreatesCycle walks the in-edges of source looking for target, which avoids building a predecessor map.
func (s *MemoryStore[K, T]) CreatesCycle(source, target K) (bool, error) {
	if _, _, err := s.Vertex(source); err != nil {
		return false, fmt.Errorf("could not get vertex with hash %v: %w", source, err)
	}

	if _, _, err := s.Vertex(target); err != nil {
		return false, fmt.Errorf("could not get vertex with hash %v: %w", target, err)
	}

	if source == target {
		return true, nil
	}

	s.lock.RLock()
	defer s.lock.RUnlock()

	stack := []K{source}
	visited := make(map[K]struct{})

	for len(stack) > 0 {
		currentHash := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if _, ok := visited[currentHash]; ok {
			continue
		}

		// target is already an ancestor of source.
		if currentHash == target {
			return true, nil
		}

		visited[currentHash] = struct{}{}

		stack = append(stack, s.inOrder[currentHash]...)
	}

	return false, nil
}

func (s *MemoryStore[K, T]) Parents(k K) ([]K, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	if _, ok := s.vertices[k]; !ok {
		return nil, graph.ErrVertexNotFound
	}

	parents := make([]K, len(s.inOrder[k]))
	copy(parents, s.inOrder[k])

	return parents, nil
}

func (s *MemoryStore[K, T]) Sinks() ([]K, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	sinks := make([]K, 0)
	for _, k := range s.order {
		if len(s.outEdges[k]) == 0 {
			sinks = append(sinks, k)
		}
	}

	return sinks, nil
}

// Layers runs Kahn's algorithm one frontier at a time. Vertices of a layer keep their insertion order.
func (s *MemoryStore[K, T]) Layers() ([][]K, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	inDegree := make(map[K]int, len(s.order))
	for _, k := range s.order {
		inDegree[k] = len(s.inEdges[k])
	}

	var current []K

	for _, k := range s.order {
		if inDegree[k] == 0 {
			current = append(current, k)
		}
	}

	layers := make([][]K, 0)
	visited := 0

	for len(current) > 0 {
		layers = append(layers, current)
		visited += len(current)

		ready := make(map[K]struct{})

		for _, k := range current {
			for target := range s.outEdges[k] {
				inDegree[target]--
				if inDegree[target] == 0 {
					ready[target] = struct{}{}
				}
			}
		}

		next := make([]K, 0, len(ready))
		for _, k := range s.order {
			if _, ok := ready[k]; ok {
				next = append(next, k)
			}
		}

		current = next
	}

	if visited != len(s.order) {
		return nil, graph.ErrEdgeCreatesCycle
	}

	return layers, nil
}
