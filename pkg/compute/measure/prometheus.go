package measure

import (
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/askiada/go-tensor/pkg/compute/model"
)

// PrometheusMeasure exports graph durations as Prometheus histograms.
type PrometheusMeasure struct {
	OpDuration   *prometheus.HistogramVec
	WaitDuration *prometheus.HistogramVec
	RunDuration  prometheus.Histogram
}

// NewPrometheusMeasure creates the collectors and registers them with reg.
func NewPrometheusMeasure(reg prometheus.Registerer) (*PrometheusMeasure, error) {
	pm := &PrometheusMeasure{
		OpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "tensor_op_duration_seconds",
			Help:    "Time spent evaluating a node of a compute graph.",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
		}, []string{"node", "op"}),
		WaitDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "tensor_op_wait_seconds",
			Help:    "Time between a parent output and the start of a node evaluation.",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
		}, []string{"node"}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "tensor_graph_run_duration_seconds",
			Help:    "Time spent evaluating a whole compute graph.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
	}

	for _, collector := range []prometheus.Collector{pm.OpDuration, pm.WaitDuration, pm.RunDuration} {
		err := reg.Register(collector)
		if err != nil {
			return nil, errors.Wrap(err, "unable to register collector")
		}
	}

	return pm, nil
}

func (pm *PrometheusMeasure) New() error {
	return nil
}

func (pm *PrometheusMeasure) PrepareNode(_ []*model.NodeInfo, _ *model.NodeInfo) error {
	return nil
}

func (pm *PrometheusMeasure) PrepareRun(_ []*model.NodeInfo) error {
	return nil
}

func (pm *PrometheusMeasure) OnNodeOutput(node *model.NodeInfo, computationDuration time.Duration) error {
	pm.OpDuration.WithLabelValues(node.Name, node.Op).Observe(computationDuration.Seconds())

	return nil
}

func (pm *PrometheusMeasure) OnEdge(_, node *model.NodeInfo, waitDuration time.Duration) error {
	pm.WaitDuration.WithLabelValues(node.Name).Observe(waitDuration.Seconds())

	return nil
}

func (pm *PrometheusMeasure) AfterRun(totalDuration time.Duration) error {
	pm.RunDuration.Observe(totalDuration.Seconds())

	return nil
}

func (pm *PrometheusMeasure) Finish() error {
	return nil
}

var _ model.GraphOption = (*PrometheusMeasure)(nil)
