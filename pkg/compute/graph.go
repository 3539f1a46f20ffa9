package compute

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/dominikbraun/graph"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/askiada/go-tensor/internal/critpath"
	"github.com/askiada/go-tensor/internal/store"
	"github.com/askiada/go-tensor/pkg/compute/model"
	"github.com/askiada/go-tensor/pkg/tensor"
	"github.com/askiada/go-tensor/pkg/tensor/backend"
	tensormodel "github.com/askiada/go-tensor/pkg/tensor/model"
)

type node[T backend.Numeric] struct {
	info   *model.NodeInfo
	op     Operation[T]
	inputs []string

	value      *tensor.Tensor[T]
	startedAt  time.Time
	finishedAt time.Time
	elapsed    time.Duration
}

func nodeHash[T backend.Numeric](n *node[T]) string {
	return n.info.Name
}

// Graph is a directed acyclic graph of tensor operations.
type Graph[T backend.Numeric] struct {
	backend    backend.Backend[T]
	logger     *zap.Logger
	concurrent int
	opts       []model.GraphOption

	store store.OrderedStore[string, *node[T]]
	graph graph.Graph[string, *node[T]]

	mu        sync.Mutex
	ran       bool
	succeeded bool
}

// New creates an empty graph. Inputs created with AddInputData use b.
func New[T backend.Numeric](b backend.Backend[T], opts ...Option[T]) (*Graph[T], error) {
	if b == nil {
		return nil, ErrBackendMustBeSet
	}

	str := store.NewMemoryStore[string, *node[T]]()
	g := &Graph[T]{
		backend:    b,
		logger:     zap.NewNop(),
		concurrent: runtime.GOMAXPROCS(0),
		store:      str,
		graph:      graph.NewWithStore(nodeHash[T], str, graph.Directed(), graph.Acyclic(), graph.PreventCycles()),
	}

	for _, opt := range opts {
		opt(g)
	}

	if g.concurrent <= 0 {
		g.concurrent = 1
	}

	for _, opt := range g.opts {
		err := opt.New()
		if err != nil {
			return nil, errors.Wrap(err, "unable to apply graph option")
		}
	}

	return g, nil
}

func (g *Graph[T]) checkName(name string) error {
	if name == "" {
		return ErrNameMustBeSet
	}

	if name == model.StartNode.Name || name == model.EndNode.Name {
		return errors.Wrap(ErrReservedName, name)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.ran {
		return ErrAlreadyRun
	}

	return nil
}

func (g *Graph[T]) addVertex(n *node[T]) error {
	err := g.graph.AddVertex(n)
	if errors.Is(err, graph.ErrVertexAlreadyExists) {
		return errors.Wrap(ErrNodeAlreadyExists, n.info.Name)
	}

	if err != nil {
		return errors.Wrapf(err, "unable to add node %s", n.info.Name)
	}

	return nil
}

func (g *Graph[T]) prepareNode(parents []*model.NodeInfo, info *model.NodeInfo) error {
	for _, opt := range g.opts {
		err := opt.PrepareNode(parents, info)
		if err != nil {
			return errors.Wrap(err, "unable to prepare node")
		}
	}

	return nil
}

// AddInput adds a named tensor to the graph.
func (g *Graph[T]) AddInput(name string, t *tensor.Tensor[T]) error {
	if t == nil {
		return tensor.ErrTensorMustBeSet
	}

	err := g.checkName(name)
	if err != nil {
		return err
	}

	n := &node[T]{
		info: &model.NodeInfo{
			Type: model.InputNodeType,
			Name: name,
		},
		value: t,
	}

	err = g.addVertex(n)
	if err != nil {
		return err
	}

	return g.prepareNode([]*model.NodeInfo{model.StartNode}, n.info)
}

// AddInputData adds a tensor created from data with the graph backend.
func (g *Graph[T]) AddInputData(name string, data []T, shape tensormodel.Shape) error {
	t, err := tensor.FromData(data, shape, g.backend)
	if err != nil {
		return errors.Wrapf(err, "unable to create input %s", name)
	}

	return g.AddInput(name, t)
}

// AddOp adds a node computing op from the given inputs, which must already be in the graph.
func (g *Graph[T]) AddOp(name string, op Operation[T], inputs ...string) error {
	err := g.checkName(name)
	if err != nil {
		return err
	}

	if op.Fn == nil {
		return errors.Wrap(ErrUnknownOp, name)
	}

	if len(inputs) != op.Arity {
		return errors.Wrapf(ErrArity, "%s %s expects %d inputs, got %d", op.Name, name, op.Arity, len(inputs))
	}

	parents := make([]*model.NodeInfo, 0, len(inputs))
	seen := make(map[string]struct{}, len(inputs))

	for _, input := range inputs {
		parent, err := g.graph.Vertex(input)
		if errors.Is(err, graph.ErrVertexNotFound) {
			return errors.Wrapf(ErrUnknownNode, "input %s of %s", input, name)
		}

		if err != nil {
			return errors.Wrapf(err, "unable to get input %s", input)
		}

		if _, ok := seen[input]; !ok {
			seen[input] = struct{}{}

			parents = append(parents, parent.info)
		}
	}

	n := &node[T]{
		info: &model.NodeInfo{
			Type: model.OpNodeType,
			Name: name,
			Op:   op.Name,
		},
		op:     op,
		inputs: append([]string(nil), inputs...),
	}

	err = g.addVertex(n)
	if err != nil {
		return err
	}

	for _, parent := range parents {
		err := g.graph.AddEdge(parent.Name, name)
		if err != nil {
			return errors.Wrapf(err, "unable to link %s to %s", parent.Name, name)
		}
	}

	return g.prepareNode(parents, n.info)
}

// Run evaluates every node of the graph. A graph can only run once.
func (g *Graph[T]) Run(ctx context.Context) (*Result[T], error) {
	layers, err := g.start()
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	logger := g.logger.With(zap.String("run_id", runID))

	sinks, err := g.sinks()
	if err != nil {
		return nil, err
	}

	for _, opt := range g.opts {
		err := opt.PrepareRun(sinks)
		if err != nil {
			return nil, errors.Wrap(err, "unable to prepare run")
		}
	}

	logger.Info("running compute graph", zap.Int("layers", len(layers)), zap.Int("concurrency", g.concurrent))

	startTime := time.Now()

	for i, layer := range layers {
		err := g.runLayer(ctx, logger, startTime, layer)
		if err != nil {
			logger.Error("compute graph failed", zap.Int("layer", i), zap.Error(err))

			return nil, err
		}
	}

	totalDuration := time.Since(startTime)

	err = g.finishRun(totalDuration)
	if err != nil {
		return nil, err
	}

	res, err := g.result(runID, totalDuration, sinks)
	if err != nil {
		return nil, err
	}

	g.mu.Lock()
	g.succeeded = true
	g.mu.Unlock()

	logger.Info("compute graph done", zap.Duration("elapsed", totalDuration))

	return res, nil
}

// start marks the graph as run and returns its layers. An empty graph is left untouched so nodes can still be added.
func (g *Graph[T]) start() ([][]string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.ran {
		return nil, ErrAlreadyRun
	}

	layers, err := g.store.Layers()
	if err != nil {
		return nil, errors.Wrap(err, "unable to sort graph")
	}

	if len(layers) == 0 {
		return nil, ErrEmptyGraph
	}

	g.ran = true

	return layers, nil
}

func (g *Graph[T]) sinks() ([]*model.NodeInfo, error) {
	names, err := g.store.Sinks()
	if err != nil {
		return nil, errors.Wrap(err, "unable to list sinks")
	}

	sinks := make([]*model.NodeInfo, len(names))
	for i, name := range names {
		n, err := g.graph.Vertex(name)
		if err != nil {
			return nil, errors.Wrapf(err, "unable to get node %s", name)
		}

		sinks[i] = n.info
	}

	return sinks, nil
}

func (g *Graph[T]) runLayer(ctx context.Context, logger *zap.Logger, startTime time.Time, layer []string) error {
	errGrp, dCtx := errgroup.WithContext(ctx)
	errGrp.SetLimit(g.concurrent)

	for _, name := range layer {
		n, err := g.graph.Vertex(name)
		if err != nil {
			return errors.Wrapf(err, "unable to get node %s", name)
		}

		localNode := n

		errGrp.Go(func() error {
			return g.evaluate(dCtx, logger, startTime, localNode)
		})
	}

	return errGrp.Wait()
}

func (g *Graph[T]) evaluate(ctx context.Context, logger *zap.Logger, startTime time.Time, n *node[T]) error {
	if n.info.Type == model.InputNodeType {
		n.finishedAt = startTime

		return nil
	}

	select {
	case <-ctx.Done():
		return errors.Wrapf(ctx.Err(), "node %s", n.info.Name)
	default:
	}

	inputs := make([]*node[T], len(n.inputs))
	values := make([]*tensor.Tensor[T], len(n.inputs))

	for i, name := range n.inputs {
		input, err := g.graph.Vertex(name)
		if err != nil {
			return errors.Wrapf(err, "unable to get input %s of node %s", name, n.info.Name)
		}

		inputs[i] = input
		values[i] = input.value
	}

	n.startedAt = time.Now()
	out, err := n.op.Fn(ctx, values)
	n.finishedAt = time.Now()
	n.elapsed = n.finishedAt.Sub(n.startedAt)

	if err != nil {
		return errors.Wrapf(err, "node %s", n.info.Name)
	}

	if out == nil {
		return errors.Wrapf(tensor.ErrTensorMustBeSet, "node %s returned no tensor", n.info.Name)
	}

	n.value = out

	logger.Debug("node evaluated",
		zap.String("node", n.info.Name),
		zap.String("op", n.info.Op),
		zap.Stringer("shape", out.Shape()),
		zap.Duration("elapsed", n.elapsed),
	)

	for _, opt := range g.opts {
		err := opt.OnNodeOutput(n.info, n.elapsed)
		if err != nil {
			return errors.Wrapf(err, "unable to run graph option on node %s", n.info.Name)
		}

		seen := make(map[string]struct{}, len(inputs))

		for _, input := range inputs {
			if _, ok := seen[input.info.Name]; ok {
				continue
			}

			seen[input.info.Name] = struct{}{}

			err := opt.OnEdge(input.info, n.info, n.startedAt.Sub(input.finishedAt))
			if err != nil {
				return errors.Wrapf(err, "unable to run graph option on edge %s -> %s", input.info.Name, n.info.Name)
			}
		}
	}

	return nil
}

func (g *Graph[T]) finishRun(totalDuration time.Duration) error {
	for _, opt := range g.opts {
		err := opt.AfterRun(totalDuration)
		if err != nil {
			return errors.Wrap(err, "unable to run graph option after run")
		}
	}

	for _, opt := range g.opts {
		err := opt.Finish()
		if err != nil {
			return errors.Wrap(err, "unable to finish graph option")
		}
	}

	return nil
}

func (g *Graph[T]) result(runID string, totalDuration time.Duration, sinks []*model.NodeInfo) (*Result[T], error) {
	names, err := g.store.ListVertices()
	if err != nil {
		return nil, errors.Wrap(err, "unable to list nodes")
	}

	res := &Result[T]{
		RunID:    runID,
		Duration: totalDuration,
		tensors:  make(map[string]*tensor.Tensor[T], len(names)),
		elapsed:  make(map[string]time.Duration, len(names)),
		outputs:  make([]string, len(sinks)),
	}

	for _, name := range names {
		n, err := g.graph.Vertex(name)
		if err != nil {
			return nil, errors.Wrapf(err, "unable to get node %s", name)
		}

		res.tensors[name] = n.value
		res.elapsed[name] = n.elapsed
	}

	for i, sink := range sinks {
		res.outputs[i] = sink.Name
	}

	return res, nil
}

// CriticalPath returns the chain of nodes with the largest summed evaluation time of the last successful run.
func (g *Graph[T]) CriticalPath() ([]string, time.Duration, error) {
	g.mu.Lock()
	ran, succeeded := g.ran, g.succeeded
	g.mu.Unlock()

	if !ran {
		return nil, 0, ErrNotRun
	}

	if !succeeded {
		return nil, 0, errors.Wrap(ErrNotRun, "last run failed")
	}

	names, err := g.store.ListVertices()
	if err != nil {
		return nil, 0, errors.Wrap(err, "unable to list nodes")
	}

	position := make(map[string]int, len(names))
	for i, name := range names {
		position[name] = i
	}

	return critpath.Find(g.graph,
		func(name string) time.Duration {
			n, err := g.graph.Vertex(name)
			if err != nil {
				return 0
			}

			return n.elapsed
		},
		func(a, b string) bool {
			return position[a] < position[b]
		},
	)
}
