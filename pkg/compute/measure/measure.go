package measure

import (
	"sync"
)

// DefaultMeasure keeps a metric per node in memory.
type DefaultMeasure struct {
	mu    sync.RWMutex
	nodes map[string]Metric
}

func NewDefaultMeasure() *DefaultMeasure {
	return &DefaultMeasure{
		nodes: make(map[string]Metric),
	}
}

func (m *DefaultMeasure) AddMetric(name string) Metric {
	m.mu.Lock()
	defer m.mu.Unlock()

	mt := &DefaultMetric{
		waits: make(map[string]*waitInfo),
	}
	m.nodes[name] = mt

	return mt
}

// GetMetric returns nil when no metric has been added for name.
func (m *DefaultMeasure) GetMetric(name string) Metric {
	m.mu.RLock()
	defer m.mu.RUnlock()

	mt, ok := m.nodes[name]
	if !ok {
		return nil
	}

	return mt
}

func (m *DefaultMeasure) AllMetrics() map[string]Metric {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string]Metric, len(m.nodes))
	for name, mt := range m.nodes {
		out[name] = mt
	}

	return out
}

var _ Measure = (*DefaultMeasure)(nil)
