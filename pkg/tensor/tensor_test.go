package tensor_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-tensor/pkg/tensor"
	"github.com/askiada/go-tensor/pkg/tensor/backend"
	"github.com/askiada/go-tensor/pkg/tensor/backend/cpu"
	"github.com/askiada/go-tensor/pkg/tensor/model"
)

func mustFromData[T backend.Numeric](t *testing.T, data []T, shape model.Shape) *tensor.Tensor[T] {
	t.Helper()

	tsr, err := tensor.FromData(data, shape, backend.Backend[T](cpu.New[T]()))
	require.NoError(t, err)

	return tsr
}

func TestConstructors(t *testing.T) {
	t.Parallel()

	b := cpu.New[float64]()

	tsr, err := tensor.New[float64](model.Shape{2, 3}, b)
	require.NoError(t, err)
	assert.Equal(t, 6, tsr.Size())
	assert.Equal(t, 2, tsr.NDim())
	assert.Equal(t, model.Shape{2, 3}, tsr.Shape())
	assert.Equal(t, []int{3, 1}, tsr.Strides())
	assert.Equal(t, cpu.Name, tsr.Backend().Name())

	zeros, err := tensor.Zeros[float64](model.Shape{2, 2}, b)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0, 0, 0}, zeros.Data())

	ones, err := tensor.Ones[float64](model.Shape{3}, b)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 1, 1}, ones.Data())

	scalar, err := tensor.Scalar[float64](4.5, b)
	require.NoError(t, err)
	assert.Equal(t, 0, scalar.NDim())
	assert.Equal(t, 1, scalar.Size())

	got, err := scalar.Get()
	require.NoError(t, err)
	assert.InDelta(t, 4.5, got, 0)
}

func TestConstructorErrors(t *testing.T) {
	t.Parallel()

	b := cpu.New[int]()

	_, err := tensor.New[int](model.Shape{2}, nil)
	require.ErrorIs(t, err, tensor.ErrBackendMustBeSet)

	_, err = tensor.FromData[int]([]int{1, 2}, model.Shape{2}, nil)
	require.ErrorIs(t, err, tensor.ErrBackendMustBeSet)

	_, err = tensor.Zeros[int](model.Shape{2, -1}, b)
	require.ErrorIs(t, err, model.ErrNegativeDimension)

	_, err = tensor.FromData[int]([]int{1, 2, 3}, model.Shape{2, 2}, b)
	require.ErrorIs(t, err, tensor.ErrDataLength)

	_, err = tensor.Zeros[int](model.Shape{1 << 62, 4}, b)
	require.ErrorIs(t, err, model.ErrShapeTooLarge)

	_, err = tensor.FromData[int](nil, model.Shape{1 << 62, 4}, b)
	require.ErrorIs(t, err, model.ErrShapeTooLarge)

	tsr := mustFromData(t, []int{1, 2, 3, 4}, model.Shape{4})
	_, err = tsr.Reshape(model.Shape{1 << 62, 4})
	require.ErrorIs(t, err, model.ErrShapeTooLarge)
}

func TestShapeIsCopied(t *testing.T) {
	t.Parallel()

	shape := model.Shape{2, 2}
	tsr := mustFromData(t, []int{1, 2, 3, 4}, shape)

	shape[0] = 4
	assert.Equal(t, model.Shape{2, 2}, tsr.Shape())

	got := tsr.Shape()
	got[1] = 7
	assert.Equal(t, model.Shape{2, 2}, tsr.Shape())
}

func TestGetSet(t *testing.T) {
	t.Parallel()

	tsr := mustFromData(t, []int{1, 2, 3, 4, 5, 6}, model.Shape{2, 3})

	got, err := tsr.Get(1, 2)
	require.NoError(t, err)
	assert.Equal(t, 6, got)

	require.NoError(t, tsr.Set(42, 0, 1))

	got, err = tsr.Get(0, 1)
	require.NoError(t, err)
	assert.Equal(t, 42, got)
	assert.Equal(t, []int{1, 42, 3, 4, 5, 6}, tsr.Data())

	_, err = tsr.Get(2, 0)
	require.ErrorIs(t, err, model.ErrIndexOutOfBounds)

	err = tsr.Set(1, 0)
	require.ErrorIs(t, err, model.ErrIndexRank)
}

func TestReshape(t *testing.T) {
	t.Parallel()

	tsr := mustFromData(t, []int{1, 2, 3, 4, 5, 6}, model.Shape{2, 3})

	reshaped, err := tsr.Reshape(model.Shape{3, 2})
	require.NoError(t, err)
	assert.Equal(t, model.Shape{3, 2}, reshaped.Shape())
	assert.Equal(t, []int{2, 1}, reshaped.Strides())
	assert.Equal(t, tsr.Data(), reshaped.Data())

	reshaped.Data()[0] = 100
	assert.Equal(t, 1, tsr.Data()[0])

	_, err = tsr.Reshape(model.Shape{4, 2})
	require.ErrorIs(t, err, tensor.ErrReshape)
}

func TestElementWiseOps(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	a := mustFromData(t, []float64{8, 9, 10, 12}, model.Shape{2, 2})
	b := mustFromData(t, []float64{2, 3, 5, 4}, model.Shape{2, 2})

	tcs := map[string]struct {
		fn       func(ctx context.Context, other *tensor.Tensor[float64]) (*tensor.Tensor[float64], error)
		expected []float64
	}{
		"add": {fn: a.Add, expected: []float64{10, 12, 15, 16}},
		"sub": {fn: a.Sub, expected: []float64{6, 6, 5, 8}},
		"mul": {fn: a.Mul, expected: []float64{16, 27, 50, 48}},
		"div": {fn: a.Div, expected: []float64{4, 3, 2, 3}},
	}

	for name, tc := range tcs {
		tc := tc

		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := tc.fn(ctx, b)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got.Data())
			assert.Equal(t, model.Shape{2, 2}, got.Shape())
		})
	}

	assert.Equal(t, []float64{8, 9, 10, 12}, a.Data())
}

func TestElementWiseShapeMismatch(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	a := mustFromData(t, []int{1, 2, 3, 4}, model.Shape{2, 2})
	b := mustFromData(t, []int{1, 2, 3, 4}, model.Shape{4})

	_, err := a.Add(ctx, b)
	require.ErrorIs(t, err, tensor.ErrShapeMismatch)

	_, err = tensor.Sub(ctx, a, b)
	require.ErrorIs(t, err, tensor.ErrShapeMismatch)

	_, err = a.Mul(ctx, nil)
	require.ErrorIs(t, err, tensor.ErrTensorMustBeSet)

	_, err = tensor.Div[int](ctx, nil, b)
	require.ErrorIs(t, err, tensor.ErrTensorMustBeSet)
}

func TestIntegerDivisionByZero(t *testing.T) {
	t.Parallel()

	a := mustFromData(t, []int{1, 2}, model.Shape{2})
	b := mustFromData(t, []int{1, 0}, model.Shape{2})

	_, err := tensor.Div(context.Background(), a, b)
	require.ErrorIs(t, err, backend.ErrDivisionByZero)
}

func TestMatMul(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	a := mustFromData(t, []float64{1, 2, 3, 4, 5, 6}, model.Shape{2, 3})
	b := mustFromData(t, []float64{7, 8, 9, 10, 11, 12}, model.Shape{3, 2})

	got, err := tensor.MatMul(ctx, a, b)
	require.NoError(t, err)
	assert.Equal(t, model.Shape{2, 2}, got.Shape())
	assert.Equal(t, []float64{58, 64, 139, 154}, got.Data())

	_, err = a.MatMul(ctx, a)
	require.ErrorIs(t, err, backend.ErrInnerDimension)

	vector := mustFromData(t, []float64{1, 2, 3}, model.Shape{3})
	_, err = vector.MatMul(ctx, b)
	require.ErrorIs(t, err, backend.ErrNotMatrix)

	_, err = a.MatMul(ctx, vector)
	require.ErrorIs(t, err, backend.ErrNotMatrix)
}

func TestTranspose(t *testing.T) {
	t.Parallel()

	a := mustFromData(t, []int{1, 2, 3, 4, 5, 6}, model.Shape{2, 3})

	got, err := a.Transpose()
	require.NoError(t, err)
	assert.Equal(t, model.Shape{3, 2}, got.Shape())
	assert.Equal(t, []int{1, 4, 2, 5, 3, 6}, got.Data())

	for i := 0; i < 2; i++ {
		for j := 0; j < 3; j++ {
			want, err := a.Get(i, j)
			require.NoError(t, err)

			have, err := got.Get(j, i)
			require.NoError(t, err)
			assert.Equal(t, want, have)
		}
	}

	_, err = mustFromData(t, []int{1, 2}, model.Shape{2}).Transpose()
	require.ErrorIs(t, err, backend.ErrNotMatrix)
}

func TestClone(t *testing.T) {
	t.Parallel()

	a := mustFromData(t, []int{1, 2, 3, 4}, model.Shape{2, 2})
	clone := a.Clone()
	clone.Data()[0] = 9

	assert.Equal(t, 1, a.Data()[0])
	assert.Equal(t, a.Shape(), clone.Shape())
	assert.Equal(t, a.Backend(), clone.Backend())
}

func TestString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "[[1 2 3] [4 5 6]]", mustFromData(t, []int{1, 2, 3, 4, 5, 6}, model.Shape{2, 3}).String())
	assert.Equal(t, "[1.5 2]", mustFromData(t, []float64{1.5, 2}, model.Shape{2}).String())
	assert.Equal(t, "[[[1] [2]]]", mustFromData(t, []int{1, 2}, model.Shape{1, 2, 1}).String())
	assert.Equal(t, "[]", mustFromData(t, []int{}, model.Shape{0}).String())
	assert.Equal(t, "7", mustFromData(t, []int{7}, model.Shape{}).String())
}
