package drawer

import (
	"time"

	"github.com/askiada/go-tensor/pkg/compute/measure"
)

// Drawer is an interface that defines the methods for drawing a compute graph.
type Drawer interface {
	// AddNode adds a node to the drawing.
	AddNode(name, label string) error
	// AddLink adds a link between a parent and a child node.
	AddLink(parentName, childName string) error
	// Draw writes the drawing.
	Draw() error
	// SetTotalTime sets the total time spent up to a node.
	SetTotalTime(name string, totalTime time.Duration) error
	// AddMeasure annotates nodes and links with durations.
	AddMeasure(msr measure.Measure) error
}
