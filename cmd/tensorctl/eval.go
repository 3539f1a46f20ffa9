package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/askiada/go-tensor/internal/config"
	"github.com/askiada/go-tensor/pkg/compute"
	"github.com/askiada/go-tensor/pkg/compute/drawer"
	"github.com/askiada/go-tensor/pkg/compute/measure"
	"github.com/askiada/go-tensor/pkg/compute/model"
	"github.com/askiada/go-tensor/pkg/tensor"
	"github.com/askiada/go-tensor/pkg/tensor/backend"
	"github.com/askiada/go-tensor/pkg/tensor/backend/cpu"
	tensormodel "github.com/askiada/go-tensor/pkg/tensor/model"
)

type evalOptions struct {
	file        string
	dot         string
	concurrency int
	metrics     bool
}

func newEvalCmd(logger *zap.Logger) *cobra.Command {
	opts := &evalOptions{}

	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Evaluate the compute graph described in a YAML file",
		Long: `Evaluate the compute graph described in a YAML file and print its outputs.

The file declares the element type, the input tensors and the operations:

  dtype: float64
  tensors:
    x: {shape: [2, 3], data: [1, 2, 3, 4, 5, 6]}
    w: {shape: [3, 2], fill: ones}
  ops:
    - {name: y, op: matmul, inputs: [x, w]}
  output: y`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runEval(cmd.Context(), cmd.OutOrStdout(), logger, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "YAML graph description")
	cmd.Flags().StringVar(&opts.dot, "dot", "", "write the graph with its durations to this DOT file")
	cmd.Flags().IntVar(&opts.concurrency, "concurrency", 0, "maximum number of concurrent workers (default GOMAXPROCS)")
	cmd.Flags().BoolVar(&opts.metrics, "metrics", false, "print Prometheus metrics of the run")

	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func runEval(ctx context.Context, out io.Writer, logger *zap.Logger, opts *evalOptions) error {
	cfg, err := config.Load(opts.file)
	if err != nil {
		return err
	}

	if opts.concurrency > 0 {
		cfg.Concurrency = opts.concurrency
	}

	logger.Info("evaluating graph",
		zap.String("file", opts.file),
		zap.String("dtype", string(cfg.DType)),
		zap.Int("tensors", len(cfg.Tensors)),
		zap.Int("ops", len(cfg.Ops)),
	)

	switch cfg.DType {
	case config.Float64:
		return evaluate[float64](ctx, out, logger, cfg, opts)
	case config.Float32:
		return evaluate[float32](ctx, out, logger, cfg, opts)
	case config.Int64:
		return evaluate[int64](ctx, out, logger, cfg, opts)
	case config.Int32:
		return evaluate[int32](ctx, out, logger, cfg, opts)
	default:
		return errors.Wrap(config.ErrUnknownDType, string(cfg.DType))
	}
}

func evaluate[T backend.Numeric](ctx context.Context, out io.Writer, logger *zap.Logger, cfg *config.Config, opts *evalOptions) error {
	var cpuOpts []cpu.Option[T]

	graphOpts := []compute.Option[T]{compute.WithLogger[T](logger)}

	if cfg.Concurrency > 0 {
		cpuOpts = append(cpuOpts, cpu.Concurrency[T](cfg.Concurrency))
		graphOpts = append(graphOpts, compute.WithConcurrency[T](cfg.Concurrency))
	}

	msr := measure.NewDefaultMeasure()
	hooks := []model.GraphOption{measure.GraphMeasure(msr)}

	if opts.dot != "" {
		hooks = append(hooks, drawer.GraphDrawer(drawer.NewDOTDrawer(opts.dot), msr))
	}

	var reg *prometheus.Registry

	if opts.metrics {
		reg = prometheus.NewRegistry()

		pm, err := measure.NewPrometheusMeasure(reg)
		if err != nil {
			return err
		}

		hooks = append(hooks, pm)
	}

	graphOpts = append(graphOpts, compute.WithGraphOptions[T](hooks...))

	b := cpu.New[T](cpuOpts...)

	g, err := compute.New[T](b, graphOpts...)
	if err != nil {
		return errors.Wrap(err, "unable to create graph")
	}

	err = build(g, b, cfg)
	if err != nil {
		return err
	}

	res, err := g.Run(ctx)
	if err != nil {
		return errors.Wrap(err, "unable to run graph")
	}

	outputs := res.Outputs()
	if cfg.Output != "" {
		outputs = []string{cfg.Output}
	}

	for _, name := range outputs {
		t, err := res.Tensor(name)
		if err != nil {
			return err
		}

		fmt.Fprintf(out, "%s %s %s\n", name, t.Shape(), t)
	}

	path, total, err := g.CriticalPath()
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "critical path: %s (%s)\n", strings.Join(path, " -> "), total)

	if reg != nil {
		return writeMetrics(out, reg)
	}

	return nil
}

func build[T backend.Numeric](g *compute.Graph[T], b backend.Backend[T], cfg *config.Config) error {
	for _, in := range cfg.Tensors {
		shape := tensormodel.Shape(in.Shape)

		var (
			t   *tensor.Tensor[T]
			err error
		)

		switch in.Fill {
		case config.FillZeros:
			t, err = tensor.Zeros(shape, b)
		case config.FillOnes:
			t, err = tensor.Ones(shape, b)
		default:
			data := make([]T, len(in.Data))
			for i, v := range in.Data {
				data[i] = T(v)
			}

			t, err = tensor.FromData(data, shape, b)
		}

		if err != nil {
			return errors.Wrapf(err, "unable to create tensor %s", in.Name)
		}

		err = g.AddInput(in.Name, t)
		if err != nil {
			return err
		}
	}

	for _, o := range cfg.Ops {
		op, err := compute.ParseOp[T](o.Op, tensormodel.Shape(o.Shape))
		if err != nil {
			return errors.Wrapf(err, "op %s", o.Name)
		}

		err = g.AddOp(o.Name, op, o.Inputs...)
		if err != nil {
			return err
		}
	}

	return nil
}

func writeMetrics(out io.Writer, reg *prometheus.Registry) error {
	families, err := reg.Gather()
	if err != nil {
		return errors.Wrap(err, "unable to gather metrics")
	}

	for _, family := range families {
		_, err := expfmt.MetricFamilyToText(out, family)
		if err != nil {
			return errors.Wrap(err, "unable to write metrics")
		}
	}

	return nil
}
