// Package config loads the description of a compute graph from a YAML file.
package config

import (
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ConcurrencyEnv overrides the concurrency set in the file.
const ConcurrencyEnv = "TENSOR_CONCURRENCY"

var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrUnknownDType  = errors.New("unknown dtype")
)

type DType string

const (
	Float64 DType = "float64"
	Float32 DType = "float32"
	Int64   DType = "int64"
	Int32   DType = "int32"
)

const (
	FillZeros = "zeros"
	FillOnes  = "ones"
)

// Tensor is an input of the graph. Exactly one of Data and Fill is set.
type Tensor struct {
	Name  string
	Shape []int
	Data  []float64
	Fill  string
}

// Op is an operation node. Shape is only used by reshape.
type Op struct {
	Name   string
	Op     string
	Inputs []string
	Shape  []int
}

// Config is a validated graph description. Tensors and Ops keep the file order.
type Config struct {
	DType       DType
	Concurrency int
	Tensors     []Tensor
	Ops         []Op
	Output      string
}

type fileTensor struct {
	Shape []int     `yaml:"shape"`
	Data  []float64 `yaml:"data"`
	Fill  string    `yaml:"fill"`
}

type fileOp struct {
	Name   string   `yaml:"name"`
	Op     string   `yaml:"op"`
	Inputs []string `yaml:"inputs"`
	Shape  []int    `yaml:"shape"`
}

type fileConfig struct {
	DType       string    `yaml:"dtype"`
	Concurrency int       `yaml:"concurrency"`
	Tensors     yaml.Node `yaml:"tensors"`
	Ops         []fileOp  `yaml:"ops"`
	Output      string    `yaml:"output"`
}

// Load reads and validates the graph file at path, then applies the environment overrides.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "unable to read config file")
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to parse %s", path)
	}

	if raw := strings.TrimSpace(os.Getenv(ConcurrencyEnv)); raw != "" {
		concurrency, err := strconv.Atoi(raw)
		if err != nil || concurrency <= 0 {
			return nil, errors.Wrapf(ErrInvalidConfig, "%s must be a positive integer, got %q", ConcurrencyEnv, raw)
		}

		cfg.Concurrency = concurrency
	}

	return cfg, nil
}

// Parse validates a YAML graph description.
func Parse(data []byte) (*Config, error) {
	var fc fileConfig

	err := yaml.Unmarshal(data, &fc)
	if err != nil {
		return nil, errors.Wrap(err, "unable to decode yaml")
	}

	cfg := &Config{
		DType:       DType(strings.ToLower(strings.TrimSpace(fc.DType))),
		Concurrency: fc.Concurrency,
		Output:      fc.Output,
	}

	if cfg.DType == "" {
		cfg.DType = Float64
	}

	switch cfg.DType {
	case Float64, Float32, Int64, Int32:
	default:
		return nil, errors.Wrap(ErrUnknownDType, string(cfg.DType))
	}

	if cfg.Concurrency < 0 {
		return nil, errors.Wrap(ErrInvalidConfig, "concurrency must not be negative")
	}

	cfg.Tensors, err = parseTensors(&fc.Tensors, cfg.DType)
	if err != nil {
		return nil, err
	}

	names := make(map[string]struct{}, len(cfg.Tensors)+len(fc.Ops))
	for _, t := range cfg.Tensors {
		names[t.Name] = struct{}{}
	}

	for i, op := range fc.Ops {
		if op.Name == "" {
			return nil, errors.Wrapf(ErrInvalidConfig, "op %d has no name", i)
		}

		if op.Op == "" {
			return nil, errors.Wrapf(ErrInvalidConfig, "op %s has no operation", op.Name)
		}

		if _, ok := names[op.Name]; ok {
			return nil, errors.Wrapf(ErrInvalidConfig, "%s is declared twice", op.Name)
		}

		names[op.Name] = struct{}{}

		cfg.Ops = append(cfg.Ops, Op(op))
	}

	if len(cfg.Tensors) == 0 {
		return nil, errors.Wrap(ErrInvalidConfig, "no tensor declared")
	}

	if cfg.Output != "" {
		if _, ok := names[cfg.Output]; !ok {
			return nil, errors.Wrapf(ErrInvalidConfig, "output %s is not declared", cfg.Output)
		}
	}

	return cfg, nil
}

// parseTensors walks the mapping node by hand so the declaration order survives.
func parseTensors(node *yaml.Node, dtype DType) ([]Tensor, error) {
	if node.Kind == 0 {
		return nil, nil
	}

	if node.Kind != yaml.MappingNode {
		return nil, errors.Wrapf(ErrInvalidConfig, "tensors must be a mapping, line %d", node.Line)
	}

	tensors := make([]Tensor, 0, len(node.Content)/2)
	seen := make(map[string]struct{}, len(node.Content)/2)

	for i := 0; i+1 < len(node.Content); i += 2 {
		name := node.Content[i].Value

		var ft fileTensor

		err := node.Content[i+1].Decode(&ft)
		if err != nil {
			return nil, errors.Wrapf(err, "unable to decode tensor %s", name)
		}

		if _, ok := seen[name]; ok {
			return nil, errors.Wrapf(ErrInvalidConfig, "%s is declared twice", name)
		}

		seen[name] = struct{}{}

		err = validateTensor(name, ft, dtype)
		if err != nil {
			return nil, err
		}

		tensors = append(tensors, Tensor{
			Name:  name,
			Shape: ft.Shape,
			Data:  ft.Data,
			Fill:  ft.Fill,
		})
	}

	return tensors, nil
}

func validateTensor(name string, ft fileTensor, dtype DType) error {
	if name == "" {
		return errors.Wrap(ErrInvalidConfig, "tensor has no name")
	}

	if ft.Data != nil && ft.Fill != "" {
		return errors.Wrapf(ErrInvalidConfig, "tensor %s sets both data and fill", name)
	}

	switch ft.Fill {
	case "", FillZeros, FillOnes:
	default:
		return errors.Wrapf(ErrInvalidConfig, "tensor %s has unknown fill %q", name, ft.Fill)
	}

	if ft.Data == nil && ft.Fill == "" {
		return errors.Wrapf(ErrInvalidConfig, "tensor %s needs data or fill", name)
	}

	return validateData(name, ft.Data, dtype)
}

// validateData rejects values an integer dtype cannot hold exactly.
func validateData(name string, data []float64, dtype DType) error {
	var low, high float64

	switch dtype {
	case Int32:
		low, high = math.MinInt32, math.MaxInt32
	case Int64:
		// float64(math.MaxInt64) rounds up to 2^63, which does not fit.
		low, high = math.MinInt64, math.Nextafter(math.MaxInt64, 0)
	default:
		return nil
	}

	for i, v := range data {
		if math.Trunc(v) != v {
			return errors.Wrapf(ErrInvalidConfig, "tensor %s: value %v at index %d is not an integer", name, v, i)
		}

		if v < low || v > high {
			return errors.Wrapf(ErrInvalidConfig, "tensor %s: value %v at index %d overflows %s", name, v, i, dtype)
		}
	}

	return nil
}
