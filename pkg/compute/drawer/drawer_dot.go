package drawer

import (
	"fmt"
	"io"
	"os"
	"sort"
	"text/template"
	"time"

	"github.com/dominikbraun/graph"
	"github.com/pkg/errors"
	"gopkg.in/go-playground/colors.v1" //nolint

	"github.com/askiada/go-tensor/pkg/compute/measure"
)

// DOTDrawer writes a compute graph in the Graphviz DOT language.
type DOTDrawer struct {
	graph    graph.Graph[string, string]
	fileName string
	writer   io.Writer
}

// NewDOTDrawer creates a drawer writing to fileName.
func NewDOTDrawer(fileName string) *DOTDrawer {
	return &DOTDrawer{
		fileName: fileName,
		graph:    graph.New(graph.StringHash, graph.Directed()),
	}
}

// NewDOTWriterDrawer creates a drawer writing to wrt.
func NewDOTWriterDrawer(wrt io.Writer) *DOTDrawer {
	return &DOTDrawer{
		writer: wrt,
		graph:  graph.New(graph.StringHash, graph.Directed()),
	}
}

// AddNode adds a node to the graph. label is displayed under the node name when not empty.
func (d *DOTDrawer) AddNode(name, label string) error {
	opts := []func(*graph.VertexProperties){}
	if label != "" {
		opts = append(opts, graph.VertexAttribute("op", label))
	}

	err := d.graph.AddVertex(name, opts...)
	if err != nil {
		return errors.Wrapf(err, "unable to add vertex %s", name)
	}

	return nil
}

func (d *DOTDrawer) AddLink(parentName, childName string) error {
	err := d.graph.AddEdge(parentName, childName)
	if err != nil {
		return errors.Wrapf(err, "unable to add edge from %s to %s", parentName, childName)
	}

	return nil
}

func (d *DOTDrawer) Draw() error {
	if d.writer != nil {
		return dot(d.graph, d.writer)
	}

	file, err := os.Create(d.fileName)
	if err != nil {
		return errors.Wrapf(err, "unable to create file %s", d.fileName)
	}

	err = dot(d.graph, file)
	if err != nil {
		_ = file.Close()

		return errors.Wrapf(err, "unable to write dot file %s", d.fileName)
	}

	return errors.Wrapf(file.Close(), "unable to close file %s", d.fileName)
}

func (d *DOTDrawer) SetTotalTime(name string, totalTime time.Duration) error {
	_, properties, err := d.graph.VertexWithProperties(name)
	if err != nil {
		return errors.Wrapf(err, "unable to get %s vertex properties", name)
	}

	properties.Attributes["xlabel"] = totalTime.String()

	return nil
}

const maxRGB = 240

// AddMeasure labels nodes with their average duration and colours links from blue (fastest) to red (slowest).
func (d *DOTDrawer) AddMeasure(msr measure.Measure) error {
	waitColours := make(map[time.Duration]string)
	sortedWaits := []time.Duration{}

	for _, metric := range msr.AllMetrics() {
		for _, elapsed := range metric.AVGWaitDuration() {
			if elapsed == 0 {
				continue
			}

			if _, ok := waitColours[elapsed]; ok {
				continue
			}

			waitColours[elapsed] = ""

			sortedWaits = append(sortedWaits, elapsed)
		}
	}

	if len(sortedWaits) > 0 {
		sort.Slice(sortedWaits, func(i, j int) bool {
			return sortedWaits[i] > sortedWaits[j]
		})

		maxValue := sortedWaits[0]
		minValue := sortedWaits[len(sortedWaits)-1]

		for curr := range waitColours {
			fraction := 1.0
			if maxValue > minValue {
				fraction = float64(curr-minValue) / float64(maxValue-minValue)
			}

			red := maxRGB * fraction

			colour, err := colors.RGB(uint8(red), 0, uint8(maxRGB-red)) //nolint
			if err != nil {
				return errors.Wrap(err, "unable to get colour")
			}

			waitColours[curr] = colour.ToHEX().String()
		}
	}

	err := d.updateMetrics(msr, waitColours)
	if err != nil {
		return errors.Wrap(err, "unable to update metrics")
	}

	return nil
}

func (d *DOTDrawer) updateMetrics(msr measure.Measure, waitColours map[time.Duration]string) error {
	for name, metric := range msr.AllMetrics() {
		_, properties, err := d.graph.VertexWithProperties(name)
		if errors.Is(err, graph.ErrVertexNotFound) {
			continue
		}

		if err != nil {
			return errors.Wrap(err, "unable to get vertex properties")
		}

		if avg := metric.AVGDuration(); avg != 0 {
			properties.Attributes["xlabel"] = avg.String()
		}

		if total := metric.GetTotalDuration(); total > 0 {
			if properties.Attributes["xlabel"] != "" {
				properties.Attributes["xlabel"] += ", "
			}

			properties.Attributes["xlabel"] += "end: " + total.String()
		}

		for parent, elapsed := range metric.AVGWaitDuration() {
			if elapsed == 0 {
				continue
			}

			err := d.graph.UpdateEdge(parent, name,
				graph.EdgeAttribute("label", elapsed.String()),
				graph.EdgeAttribute("fontcolor", "blue"),
				graph.EdgeAttribute("color", waitColours[elapsed]),
			)
			if err != nil {
				return errors.Wrapf(err, "unable to update edge from %s to %s", parent, name)
			}
		}
	}

	return nil
}

//nolint:lll //this is a template
const dotTemplate = `strict {{.GraphType}} {
	{{range $k, $v := .Attributes}}
		{{$k}}="{{$v}}";
	{{end}}
	{{range $s := .Statements}}
		"{{.Source}}" {{if .Target}}{{$.EdgeOperator}} "{{.Target}}" [ {{range $k, $v := .EdgeAttributes}}{{$k}}="{{$v}}", {{end}} weight={{.EdgeWeight}} ]{{else}}[ {{range $k, $v := .HTMLAttributes}}{{$k}}={{$v}}, {{end}} {{range $k, $v := .SourceAttributes}}{{$k}}="{{$v}}", {{end}} weight={{.SourceWeight}} ]{{end}};
	{{end}}
	}
	`

type description struct {
	GraphType    string
	Attributes   map[string]string
	EdgeOperator string
	Statements   []statement
}

type statement struct {
	Source           interface{}
	Target           interface{}
	SourceAttributes map[string]string
	HTMLAttributes   map[string]string
	EdgeAttributes   map[string]string
	SourceWeight     int
	EdgeWeight       int
}

func dot[K comparable, T any](g graph.Graph[K, T], wrt io.Writer) error {
	desc, err := generateDOT(g)
	if err != nil {
		return errors.Wrap(err, "failed to generate DOT description")
	}

	return renderDOT(wrt, desc)
}

func generateDOT[K comparable, T any](gra graph.Graph[K, T]) (description, error) {
	desc := description{
		GraphType:    "digraph",
		Attributes:   map[string]string{"rankdir": "LR"},
		EdgeOperator: "->",
		Statements:   make([]statement, 0),
	}

	adjacencyMap, err := gra.AdjacencyMap()
	if err != nil {
		return desc, errors.Wrap(err, "unable to get adjacency map")
	}

	vertices := make([]K, 0, len(adjacencyMap))
	for vertex := range adjacencyMap {
		vertices = append(vertices, vertex)
	}

	sort.Slice(vertices, func(i, j int) bool {
		return fmt.Sprint(vertices[i]) < fmt.Sprint(vertices[j])
	})

	for _, vertex := range vertices {
		_, sourceProperties, err := gra.VertexWithProperties(vertex)
		if err != nil {
			return desc, errors.Wrap(err, "unable to get vertex properties")
		}

		sourceAttributes := make(map[string]string, len(sourceProperties.Attributes))
		for k, v := range sourceProperties.Attributes {
			sourceAttributes[k] = v
		}

		htmlAttributes := make(map[string]string)
		op, hasOp := sourceAttributes["op"]
		xlabel, hasXLabel := sourceAttributes["xlabel"]

		delete(sourceAttributes, "op")
		delete(sourceAttributes, "xlabel")

		switch {
		case hasOp && hasXLabel:
			htmlAttributes["label"] = fmt.Sprintf(`<%+v <BR /> <I>%s</I> <BR /> <FONT POINT-SIZE="12">%s</FONT>>`, vertex, op, xlabel)
		case hasOp:
			htmlAttributes["label"] = fmt.Sprintf(`<%+v <BR /> <I>%s</I>>`, vertex, op)
		case hasXLabel:
			htmlAttributes["label"] = fmt.Sprintf(`<%+v <BR /> <FONT POINT-SIZE="12">%s</FONT>>`, vertex, xlabel)
		}

		desc.Statements = append(desc.Statements, statement{
			Source:           vertex,
			SourceWeight:     sourceProperties.Weight,
			SourceAttributes: sourceAttributes,
			HTMLAttributes:   htmlAttributes,
		})

		adjacencies := make([]K, 0, len(adjacencyMap[vertex]))
		for adjacency := range adjacencyMap[vertex] {
			adjacencies = append(adjacencies, adjacency)
		}

		sort.Slice(adjacencies, func(i, j int) bool {
			return fmt.Sprint(adjacencies[i]) < fmt.Sprint(adjacencies[j])
		})

		for _, adjacency := range adjacencies {
			edge := adjacencyMap[vertex][adjacency]
			desc.Statements = append(desc.Statements, statement{
				Source:         vertex,
				Target:         adjacency,
				EdgeWeight:     edge.Properties.Weight,
				EdgeAttributes: edge.Properties.Attributes,
			})
		}
	}

	return desc, nil
}

func renderDOT(wrt io.Writer, desc description) error {
	tpl, err := template.New("dotTemplate").Parse(dotTemplate)
	if err != nil {
		return errors.Wrap(err, "failed to parse template")
	}

	err = tpl.Execute(wrt, desc)
	if err != nil {
		return errors.Wrap(err, "unable to execute template")
	}

	return nil
}

var _ Drawer = (*DOTDrawer)(nil)
