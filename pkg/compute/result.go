package compute

import (
	"time"

	"github.com/pkg/errors"

	"github.com/askiada/go-tensor/pkg/tensor"
	"github.com/askiada/go-tensor/pkg/tensor/backend"
)

// Result holds the tensors computed by a graph run.
type Result[T backend.Numeric] struct {
	RunID    string
	Duration time.Duration

	tensors map[string]*tensor.Tensor[T]
	elapsed map[string]time.Duration
	outputs []string
}

// Tensor returns the value of a node.
func (r *Result[T]) Tensor(name string) (*tensor.Tensor[T], error) {
	t, ok := r.tensors[name]
	if !ok {
		return nil, errors.Wrap(ErrUnknownNode, name)
	}

	return t, nil
}

// Elapsed returns the evaluation time of a node. Inputs take no time.
func (r *Result[T]) Elapsed(name string) (time.Duration, error) {
	elapsed, ok := r.elapsed[name]
	if !ok {
		return 0, errors.Wrap(ErrUnknownNode, name)
	}

	return elapsed, nil
}

// Outputs returns the names of the nodes no other node depends on, in declaration order.
func (r *Result[T]) Outputs() []string {
	return append([]string(nil), r.outputs...)
}
