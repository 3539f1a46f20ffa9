package drawer

import (
	"time"

	"github.com/pkg/errors"

	"github.com/askiada/go-tensor/pkg/compute/measure"
	"github.com/askiada/go-tensor/pkg/compute/model"
)

type graphDrawer struct {
	Drawer
	msr       measure.Measure
	totalTime time.Duration
}

func (gd *graphDrawer) New() error {
	err := gd.AddNode(model.StartNode.Name, "")
	if err != nil {
		return errors.Wrap(err, "unable to add start node to drawer")
	}

	err = gd.AddNode(model.EndNode.Name, "")
	if err != nil {
		return errors.Wrap(err, "unable to add end node to drawer")
	}

	return nil
}

func (gd *graphDrawer) PrepareNode(parents []*model.NodeInfo, node *model.NodeInfo) error {
	err := gd.AddNode(node.Name, node.Op)
	if err != nil {
		return err
	}

	for _, parent := range parents {
		err := gd.AddLink(parent.Name, node.Name)
		if err != nil {
			return err
		}
	}

	return nil
}

func (gd *graphDrawer) PrepareRun(sinks []*model.NodeInfo) error {
	for _, sink := range sinks {
		err := gd.AddLink(sink.Name, model.EndNode.Name)
		if err != nil {
			return err
		}
	}

	return nil
}

func (gd *graphDrawer) OnNodeOutput(_ *model.NodeInfo, _ time.Duration) error {
	return nil
}

func (gd *graphDrawer) OnEdge(_, _ *model.NodeInfo, _ time.Duration) error {
	return nil
}

func (gd *graphDrawer) AfterRun(totalDuration time.Duration) error {
	gd.totalTime = totalDuration

	return nil
}

func (gd *graphDrawer) Finish() error {
	if gd.msr != nil {
		err := gd.AddMeasure(gd.msr)
		if err != nil {
			return errors.Wrap(err, "unable to add measure")
		}
	} else if gd.totalTime > 0 {
		err := gd.SetTotalTime(model.EndNode.Name, gd.totalTime)
		if err != nil {
			return errors.Wrap(err, "unable to set total time")
		}
	}

	err := gd.Draw()
	if err != nil {
		return errors.Wrap(err, "unable to draw graph")
	}

	return nil
}

// GraphDrawer draws the graph once it has run. When msr is set, nodes and links are annotated with its durations.
func GraphDrawer(drawer Drawer, msr measure.Measure) model.GraphOption {
	return &graphDrawer{Drawer: drawer, msr: msr}
}
