package tensor

import (
	"github.com/pkg/errors"

	"github.com/askiada/go-tensor/pkg/tensor/backend"
	"github.com/askiada/go-tensor/pkg/tensor/model"
)

// Tensor is a dense n-dimensional array of T computed by a backend.
type Tensor[T backend.Numeric] struct {
	data    []T
	shape   model.Shape
	strides []int
	backend backend.Backend[T]
}

func build[T backend.Numeric](shape model.Shape, b backend.Backend[T], alloc func(model.Shape) []T) (*Tensor[T], error) {
	err := shape.Validate()
	if err != nil {
		return nil, err
	}

	shape = shape.Clone()

	return &Tensor[T]{
		data:    alloc(shape),
		shape:   shape,
		strides: shape.Strides(),
		backend: b,
	}, nil
}

// New creates a tensor with a buffer allocated by the backend.
func New[T backend.Numeric](shape model.Shape, b backend.Backend[T]) (*Tensor[T], error) {
	if b == nil {
		return nil, ErrBackendMustBeSet
	}

	return build(shape, b, b.Allocate)
}

// Zeros creates a tensor filled with zeros.
func Zeros[T backend.Numeric](shape model.Shape, b backend.Backend[T]) (*Tensor[T], error) {
	if b == nil {
		return nil, ErrBackendMustBeSet
	}

	return build(shape, b, b.Zeros)
}

// Ones creates a tensor filled with ones.
func Ones[T backend.Numeric](shape model.Shape, b backend.Backend[T]) (*Tensor[T], error) {
	if b == nil {
		return nil, ErrBackendMustBeSet
	}

	return build(shape, b, b.Ones)
}

// FromData creates a tensor using data as its buffer. The tensor takes ownership of data.
func FromData[T backend.Numeric](data []T, shape model.Shape, b backend.Backend[T]) (*Tensor[T], error) {
	if b == nil {
		return nil, ErrBackendMustBeSet
	}

	err := shape.Validate()
	if err != nil {
		return nil, err
	}

	if len(data) != shape.Size() {
		return nil, errors.Wrapf(ErrDataLength, "data length %d, expected size %d from shape %s", len(data), shape.Size(), shape)
	}

	shape = shape.Clone()

	return &Tensor[T]{
		data:    data,
		shape:   shape,
		strides: shape.Strides(),
		backend: b,
	}, nil
}

// Scalar creates a rank 0 tensor holding value.
func Scalar[T backend.Numeric](value T, b backend.Backend[T]) (*Tensor[T], error) {
	return FromData([]T{value}, model.Shape{}, b)
}

// Shape returns a copy of the shape of the tensor.
func (t *Tensor[T]) Shape() model.Shape {
	return t.shape.Clone()
}

// Strides returns a copy of the strides of the tensor.
func (t *Tensor[T]) Strides() []int {
	out := make([]int, len(t.strides))
	copy(out, t.strides)

	return out
}

// Size returns the number of elements in the tensor.
func (t *Tensor[T]) Size() int {
	return len(t.data)
}

// NDim returns the number of dimensions of the tensor.
func (t *Tensor[T]) NDim() int {
	return len(t.shape)
}

// Data returns the underlying buffer. Writing to it modifies the tensor.
func (t *Tensor[T]) Data() []T {
	return t.data
}

func (t *Tensor[T]) Backend() backend.Backend[T] {
	return t.backend
}

// Clone returns a deep copy of the tensor sharing the same backend.
func (t *Tensor[T]) Clone() *Tensor[T] {
	data := make([]T, len(t.data))
	copy(data, t.data)

	return &Tensor[T]{
		data:    data,
		shape:   t.shape.Clone(),
		strides: t.Strides(),
		backend: t.backend,
	}
}

// Reshape returns a copy of the tensor with a new shape holding the same number of elements.
func (t *Tensor[T]) Reshape(shape model.Shape) (*Tensor[T], error) {
	err := shape.Validate()
	if err != nil {
		return nil, err
	}

	if shape.Size() != t.Size() {
		return nil, errors.Wrapf(ErrReshape, "tensor of size %d to shape %s with size %d", t.Size(), shape, shape.Size())
	}

	data := make([]T, len(t.data))
	copy(data, t.data)

	return FromData(data, shape, t.backend)
}

// Get returns the value at the given indices.
func (t *Tensor[T]) Get(indices ...int) (T, error) {
	idx, err := model.FlatIndex(t.shape, t.strides, indices)
	if err != nil {
		var zero T

		return zero, err
	}

	return t.data[idx], nil
}

// Set stores value at the given indices.
func (t *Tensor[T]) Set(value T, indices ...int) error {
	idx, err := model.FlatIndex(t.shape, t.strides, indices)
	if err != nil {
		return err
	}

	t.data[idx] = value

	return nil
}

// Transpose returns the transpose of a 2D tensor.
func (t *Tensor[T]) Transpose() (*Tensor[T], error) {
	if t.NDim() != 2 {
		return nil, errors.Wrapf(backend.ErrNotMatrix, "transpose of shape %s", t.shape)
	}

	rows, cols := t.shape[0], t.shape[1]
	data := make([]T, 0, len(t.data))

	for j := 0; j < cols; j++ {
		for i := 0; i < rows; i++ {
			data = append(data, t.data[i*cols+j])
		}
	}

	return FromData(data, model.Shape{cols, rows}, t.backend)
}
