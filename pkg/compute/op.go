package compute

import (
	"context"

	"github.com/pkg/errors"

	"github.com/askiada/go-tensor/pkg/tensor"
	"github.com/askiada/go-tensor/pkg/tensor/backend"
	"github.com/askiada/go-tensor/pkg/tensor/model"
)

// Operation computes a tensor from Arity input tensors.
type Operation[T backend.Numeric] struct {
	Name  string
	Arity int
	Fn    func(ctx context.Context, inputs []*tensor.Tensor[T]) (*tensor.Tensor[T], error)
}

type binaryFn[T backend.Numeric] func(ctx context.Context, a, b *tensor.Tensor[T]) (*tensor.Tensor[T], error)

func binary[T backend.Numeric](name string, fn binaryFn[T]) Operation[T] {
	return Operation[T]{
		Name:  name,
		Arity: 2,
		Fn: func(ctx context.Context, inputs []*tensor.Tensor[T]) (*tensor.Tensor[T], error) {
			return fn(ctx, inputs[0], inputs[1])
		},
	}
}

func Add[T backend.Numeric]() Operation[T] {
	return binary[T]("add", tensor.Add[T])
}

func Sub[T backend.Numeric]() Operation[T] {
	return binary[T]("sub", tensor.Sub[T])
}

func Mul[T backend.Numeric]() Operation[T] {
	return binary[T]("mul", tensor.Mul[T])
}

func Div[T backend.Numeric]() Operation[T] {
	return binary[T]("div", tensor.Div[T])
}

func MatMul[T backend.Numeric]() Operation[T] {
	return binary[T]("matmul", tensor.MatMul[T])
}

func Transpose[T backend.Numeric]() Operation[T] {
	return Operation[T]{
		Name:  "transpose",
		Arity: 1,
		Fn: func(_ context.Context, inputs []*tensor.Tensor[T]) (*tensor.Tensor[T], error) {
			return inputs[0].Transpose()
		},
	}
}

func Reshape[T backend.Numeric](shape model.Shape) Operation[T] {
	shape = shape.Clone()

	return Operation[T]{
		Name:  "reshape",
		Arity: 1,
		Fn: func(_ context.Context, inputs []*tensor.Tensor[T]) (*tensor.Tensor[T], error) {
			return inputs[0].Reshape(shape)
		},
	}
}

// ParseOp returns the operation called name. shape is only used by reshape.
func ParseOp[T backend.Numeric](name string, shape model.Shape) (Operation[T], error) {
	switch name {
	case "add":
		return Add[T](), nil
	case "sub":
		return Sub[T](), nil
	case "mul":
		return Mul[T](), nil
	case "div":
		return Div[T](), nil
	case "matmul":
		return MatMul[T](), nil
	case "transpose":
		return Transpose[T](), nil
	case "reshape":
		return Reshape[T](shape), nil
	default:
		return Operation[T]{}, errors.Wrap(ErrUnknownOp, name)
	}
}
