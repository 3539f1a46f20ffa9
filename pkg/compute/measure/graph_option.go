package measure

import (
	"time"

	"github.com/pkg/errors"

	"github.com/askiada/go-tensor/pkg/compute/model"
)

var ErrUnknownMetric = errors.New("no metric for node")

type graphMeasure struct {
	Measure
}

func (gm *graphMeasure) New() error {
	gm.AddMetric(model.StartNode.Name)
	gm.AddMetric(model.EndNode.Name)

	return nil
}

func (gm *graphMeasure) PrepareNode(_ []*model.NodeInfo, node *model.NodeInfo) error {
	gm.AddMetric(node.Name)

	return nil
}

func (gm *graphMeasure) PrepareRun(_ []*model.NodeInfo) error {
	return nil
}

func (gm *graphMeasure) metric(name string) (Metric, error) {
	mt := gm.GetMetric(name)
	if mt == nil {
		return nil, errors.Wrap(ErrUnknownMetric, name)
	}

	return mt, nil
}

func (gm *graphMeasure) OnNodeOutput(node *model.NodeInfo, computationDuration time.Duration) error {
	mt, err := gm.metric(node.Name)
	if err != nil {
		return err
	}

	mt.AddDuration(computationDuration)

	return nil
}

func (gm *graphMeasure) OnEdge(parent, node *model.NodeInfo, waitDuration time.Duration) error {
	mt, err := gm.metric(node.Name)
	if err != nil {
		return err
	}

	mt.AddWaitDuration(parent.Name, waitDuration)

	return nil
}

func (gm *graphMeasure) AfterRun(totalDuration time.Duration) error {
	mt, err := gm.metric(model.EndNode.Name)
	if err != nil {
		return err
	}

	mt.SetTotalDuration(totalDuration)

	return nil
}

func (gm *graphMeasure) Finish() error {
	return nil
}

// GraphMeasure records the durations of a graph run into msr.
func GraphMeasure(msr Measure) model.GraphOption {
	return &graphMeasure{msr}
}
