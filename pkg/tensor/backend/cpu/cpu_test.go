package cpu_test

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-tensor/pkg/tensor/backend"
	"github.com/askiada/go-tensor/pkg/tensor/backend/cpu"
	"github.com/askiada/go-tensor/pkg/tensor/model"
)

func TestAllocate(t *testing.T) {
	t.Parallel()

	b := cpu.New[float32]()
	buffer := b.Allocate(model.Shape{2, 3})
	assert.Len(t, buffer, 6)
	assert.Equal(t, cpu.Name, b.Name())
}

func TestZeros(t *testing.T) {
	t.Parallel()

	b := cpu.New[float32]()
	assert.Equal(t, []float32{0, 0, 0, 0}, b.Zeros(model.Shape{2, 2}))
}

func TestOnes(t *testing.T) {
	t.Parallel()

	b := cpu.New[float32]()
	assert.Equal(t, []float32{1, 1, 1}, b.Ones(model.Shape{3}))
	assert.Equal(t, []int{1}, cpu.New[int]().Ones(model.Shape{}))
	assert.Empty(t, cpu.New[int]().Ones(model.Shape{0, 4}))
}

func TestElementWise(t *testing.T) {
	t.Parallel()

	b := cpu.New[float64]()
	ctx := context.Background()

	tcs := map[string]struct {
		fn       func(ctx context.Context, x, y []float64) ([]float64, error)
		x, y     []float64
		expected []float64
	}{
		"add": {fn: b.Add, x: []float64{1, 2, 3}, y: []float64{4, 5, 6}, expected: []float64{5, 7, 9}},
		"sub": {fn: b.Sub, x: []float64{5, 6, 7}, y: []float64{2, 1, 3}, expected: []float64{3, 5, 4}},
		"mul": {fn: b.Mul, x: []float64{2, 3, 4}, y: []float64{5, 6, 7}, expected: []float64{10, 18, 28}},
		"div": {fn: b.Div, x: []float64{8, 9, 10}, y: []float64{2, 3, 5}, expected: []float64{4, 3, 2}},
	}

	for name, tc := range tcs {
		tc := tc

		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := tc.fn(ctx, tc.x, tc.y)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)

			_, err = tc.fn(ctx, tc.x, tc.y[:2])
			require.ErrorIs(t, err, backend.ErrLengthMismatch)
		})
	}
}

func TestElementWiseDoesNotModifyInputs(t *testing.T) {
	t.Parallel()

	x := []int{1, 2, 3}
	y := []int{4, 5, 6}

	got, err := cpu.New[int]().Add(context.Background(), x, y)
	require.NoError(t, err)
	assert.Equal(t, []int{5, 7, 9}, got)
	assert.Equal(t, []int{1, 2, 3}, x)
	assert.Equal(t, []int{4, 5, 6}, y)
}

func TestDivIntegerByZero(t *testing.T) {
	t.Parallel()

	_, err := cpu.New[int]().Div(context.Background(), []int{4, 2}, []int{2, 0})
	require.ErrorIs(t, err, backend.ErrDivisionByZero)
}

func TestDivFloatByZero(t *testing.T) {
	t.Parallel()

	got, err := cpu.New[float64]().Div(context.Background(), []float64{1, -1, 0}, []float64{0, 0, 0})
	require.NoError(t, err)
	assert.True(t, math.IsInf(got[0], 1))
	assert.True(t, math.IsInf(got[1], -1))
	assert.True(t, math.IsNaN(got[2]))
}

func TestMatMul(t *testing.T) {
	t.Parallel()

	b := cpu.New[float64]()
	x := []float64{
		1, 2, 3,
		4, 5, 6,
	}
	y := []float64{
		7, 8,
		9, 10,
		11, 12,
	}

	got, err := b.MatMul(context.Background(), x, model.Shape{2, 3}, y, model.Shape{3, 2})
	require.NoError(t, err)
	assert.Equal(t, []float64{58, 64, 139, 154}, got)

	_, err = b.MatMul(context.Background(), x, model.Shape{2, 3}, y, model.Shape{2, 3})
	require.ErrorIs(t, err, backend.ErrInnerDimension)

	_, err = b.MatMul(context.Background(), x, model.Shape{6}, y, model.Shape{3, 2})
	require.ErrorIs(t, err, backend.ErrNotMatrix)
}

func TestMatMulEmptyInner(t *testing.T) {
	t.Parallel()

	got, err := cpu.New[int]().MatMul(context.Background(), []int{}, model.Shape{2, 0}, []int{}, model.Shape{0, 3})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 0, 0, 0, 0, 0}, got)
}

func TestConcurrentMatchesSequential(t *testing.T) {
	t.Parallel()

	const m, k, n = 37, 23, 41

	x := make([]int64, m*k)
	for i := range x {
		x[i] = int64(i%7 - 3)
	}

	y := make([]int64, k*n)
	for i := range y {
		y[i] = int64(i%5 - 2)
	}

	ctx := context.Background()
	sequential := cpu.New(cpu.Concurrency[int64](1))

	tcs := map[string]struct {
		concurrent int
		minChunk   int
	}{
		"concurrent 2":   {concurrent: 2, minChunk: 1},
		"concurrent 8":   {concurrent: 8, minChunk: 16},
		"concurrent 100": {concurrent: 100, minChunk: 1},
	}

	expectedMatMul, err := sequential.MatMul(ctx, x, model.Shape{m, k}, y, model.Shape{k, n})
	require.NoError(t, err)

	expectedAdd, err := sequential.Add(ctx, x, x)
	require.NoError(t, err)

	for name, tc := range tcs {
		tc := tc

		t.Run(name, func(t *testing.T) {
			t.Parallel()

			b := cpu.New(cpu.Concurrency[int64](tc.concurrent), cpu.MinChunk[int64](tc.minChunk))

			gotMatMul, err := b.MatMul(ctx, x, model.Shape{m, k}, y, model.Shape{k, n})
			require.NoError(t, err)
			assert.Equal(t, expectedMatMul, gotMatMul)

			gotAdd, err := b.Add(ctx, x, x)
			require.NoError(t, err)
			assert.Equal(t, expectedAdd, gotAdd)
		})
	}
}

func TestConcurrentDivByZero(t *testing.T) {
	t.Parallel()

	x := make([]int, 1000)
	y := make([]int, 1000)

	for i := range y {
		y[i] = 1
	}

	y[777] = 0

	b := cpu.New(cpu.Concurrency[int](4), cpu.MinChunk[int](10))
	_, err := b.Div(context.Background(), x, y)
	require.ErrorIs(t, err, backend.ErrDivisionByZero)
	assert.Contains(t, err.Error(), "index 777")
}

func TestCancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	tcs := map[string]struct {
		concurrent int
	}{
		"sequential":   {concurrent: 1},
		"concurrent 4": {concurrent: 4},
	}

	for name, tc := range tcs {
		tc := tc

		t.Run(name, func(t *testing.T) {
			t.Parallel()

			b := cpu.New(cpu.Concurrency[float64](tc.concurrent), cpu.MinChunk[float64](1))

			_, err := b.Add(ctx, []float64{1, 2, 3, 4}, []float64{1, 2, 3, 4})
			require.ErrorIs(t, err, context.Canceled)

			_, err = b.MatMul(ctx, []float64{1, 2, 3, 4}, model.Shape{2, 2}, []float64{1, 2, 3, 4}, model.Shape{2, 2})
			require.ErrorIs(t, err, context.Canceled)
		})
	}
}
