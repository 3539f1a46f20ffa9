package tensor

import (
	"context"

	"github.com/pkg/errors"

	"github.com/askiada/go-tensor/pkg/tensor/backend"
	"github.com/askiada/go-tensor/pkg/tensor/model"
)

type elementWiseFn[T backend.Numeric] func(ctx context.Context, a, b []T) ([]T, error)

func (t *Tensor[T]) elementWise(ctx context.Context, op string, other *Tensor[T], fn elementWiseFn[T]) (*Tensor[T], error) {
	if other == nil {
		return nil, ErrTensorMustBeSet
	}

	if !t.shape.Equal(other.shape) {
		return nil, errors.Wrapf(ErrShapeMismatch, "%s: %s vs %s", op, t.shape, other.shape)
	}

	data, err := fn(ctx, t.data, other.data)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to %s tensors", op)
	}

	return FromData(data, t.shape, t.backend)
}

// Add adds other to t element-wise.
func (t *Tensor[T]) Add(ctx context.Context, other *Tensor[T]) (*Tensor[T], error) {
	return t.elementWise(ctx, "add", other, t.backend.Add)
}

// Sub subtracts other from t element-wise.
func (t *Tensor[T]) Sub(ctx context.Context, other *Tensor[T]) (*Tensor[T], error) {
	return t.elementWise(ctx, "sub", other, t.backend.Sub)
}

// Mul multiplies t by other element-wise.
func (t *Tensor[T]) Mul(ctx context.Context, other *Tensor[T]) (*Tensor[T], error) {
	return t.elementWise(ctx, "mul", other, t.backend.Mul)
}

// Div divides t by other element-wise.
func (t *Tensor[T]) Div(ctx context.Context, other *Tensor[T]) (*Tensor[T], error) {
	return t.elementWise(ctx, "div", other, t.backend.Div)
}

// MatMul returns the matrix product of two 2D tensors.
func (t *Tensor[T]) MatMul(ctx context.Context, other *Tensor[T]) (*Tensor[T], error) {
	if other == nil {
		return nil, ErrTensorMustBeSet
	}

	if t.NDim() != 2 {
		return nil, errors.Wrapf(backend.ErrNotMatrix, "first tensor has shape %s", t.shape)
	}

	if other.NDim() != 2 {
		return nil, errors.Wrapf(backend.ErrNotMatrix, "second tensor has shape %s", other.shape)
	}

	if t.shape[1] != other.shape[0] {
		return nil, errors.Wrapf(backend.ErrInnerDimension, "%s x %s", t.shape, other.shape)
	}

	data, err := t.backend.MatMul(ctx, t.data, t.shape, other.data, other.shape)
	if err != nil {
		return nil, errors.Wrap(err, "unable to multiply matrices")
	}

	return FromData(data, model.Shape{t.shape[0], other.shape[1]}, t.backend)
}

// Add returns a + b.
func Add[T backend.Numeric](ctx context.Context, a, b *Tensor[T]) (*Tensor[T], error) {
	if a == nil {
		return nil, ErrTensorMustBeSet
	}

	return a.Add(ctx, b)
}

// Sub returns a - b.
func Sub[T backend.Numeric](ctx context.Context, a, b *Tensor[T]) (*Tensor[T], error) {
	if a == nil {
		return nil, ErrTensorMustBeSet
	}

	return a.Sub(ctx, b)
}

// Mul returns a * b element-wise.
func Mul[T backend.Numeric](ctx context.Context, a, b *Tensor[T]) (*Tensor[T], error) {
	if a == nil {
		return nil, ErrTensorMustBeSet
	}

	return a.Mul(ctx, b)
}

// Div returns a / b element-wise.
func Div[T backend.Numeric](ctx context.Context, a, b *Tensor[T]) (*Tensor[T], error) {
	if a == nil {
		return nil, ErrTensorMustBeSet
	}

	return a.Div(ctx, b)
}

// MatMul returns the matrix product a x b.
func MatMul[T backend.Numeric](ctx context.Context, a, b *Tensor[T]) (*Tensor[T], error) {
	if a == nil {
		return nil, ErrTensorMustBeSet
	}

	return a.MatMul(ctx, b)
}
