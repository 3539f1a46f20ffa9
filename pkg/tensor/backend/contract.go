package backend

import (
	"context"

	"golang.org/x/exp/constraints"

	"github.com/askiada/go-tensor/pkg/tensor/model"
)

// Numeric is the set of element types a backend can compute on.
type Numeric interface {
	constraints.Integer | constraints.Float
}

// Backend defines the kernels used by a tensor. Kernels never modify their inputs and always return a new buffer.
type Backend[T Numeric] interface {
	// Name identifies the backend in logs and drawings.
	Name() string

	// Allocate returns a buffer able to hold a tensor of the given shape.
	Allocate(shape model.Shape) []T
	// Zeros returns a buffer filled with zeros.
	Zeros(shape model.Shape) []T
	// Ones returns a buffer filled with ones.
	Ones(shape model.Shape) []T

	// Add adds two buffers element-wise.
	Add(ctx context.Context, a, b []T) ([]T, error)
	// Sub subtracts two buffers element-wise.
	Sub(ctx context.Context, a, b []T) ([]T, error)
	// Mul multiplies two buffers element-wise.
	Mul(ctx context.Context, a, b []T) ([]T, error)
	// Div divides two buffers element-wise.
	Div(ctx context.Context, a, b []T) ([]T, error)

	// MatMul multiplies two row-major matrices.
	MatMul(ctx context.Context, a []T, aShape model.Shape, b []T, bShape model.Shape) ([]T, error)
}
