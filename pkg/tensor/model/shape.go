package model

import (
	"fmt"
	"math"
	"strings"

	"github.com/pkg/errors"
)

var (
	ErrNegativeDimension = errors.New("dimension must not be negative")
	ErrShapeTooLarge     = errors.New("shape size overflows int")
	ErrIndexRank         = errors.New("number of indices must match tensor rank")
	ErrIndexOutOfBounds  = errors.New("index out of bounds")
)

// Shape holds the size of each dimension of a tensor. An empty shape describes a scalar.
type Shape []int

// Size returns the number of elements described by the shape.
func (s Shape) Size() int {
	size := 1
	for _, dim := range s {
		size *= dim
	}

	return size
}

func (s Shape) NDim() int {
	return len(s)
}

// Strides returns the row-major strides of the shape.
func (s Shape) Strides() []int {
	strides := make([]int, len(s))
	if len(s) == 0 {
		return strides
	}

	strides[len(s)-1] = 1
	for i := len(s) - 2; i >= 0; i-- {
		strides[i] = strides[i+1] * s[i+1]
	}

	return strides
}

// Validate checks every dimension is positive or zero and the number of elements fits in an int.
func (s Shape) Validate() error {
	for i, dim := range s {
		if dim < 0 {
			return errors.Wrapf(ErrNegativeDimension, "dimension %d of shape %s", i, s)
		}
	}

	size := 1
	for _, dim := range s {
		if dim == 0 {
			return nil
		}

		if size > math.MaxInt/dim {
			return errors.Wrapf(ErrShapeTooLarge, "shape %s", s)
		}

		size *= dim
	}

	return nil
}

func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}

	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}

	return true
}

func (s Shape) Clone() Shape {
	out := make(Shape, len(s))
	copy(out, s)

	return out
}

func (s Shape) String() string {
	dims := make([]string, len(s))
	for i, dim := range s {
		dims[i] = fmt.Sprint(dim)
	}

	return "[" + strings.Join(dims, " ") + "]"
}

// FlatIndex converts n-dimensional indices into an offset in the row-major buffer.
func FlatIndex(shape Shape, strides []int, indices []int) (int, error) {
	if len(indices) != len(shape) {
		return 0, errors.Wrapf(ErrIndexRank, "got %d indices for shape %s", len(indices), shape)
	}

	flatIdx := 0
	for i, idx := range indices {
		if idx < 0 || idx >= shape[i] {
			return 0, errors.Wrapf(ErrIndexOutOfBounds, "index %d for dimension %d with size %d", idx, i, shape[i])
		}

		flatIdx += idx * strides[i]
	}

	return flatIdx, nil
}
