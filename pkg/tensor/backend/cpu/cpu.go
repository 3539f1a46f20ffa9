// Package cpu implements a backend running kernels on the CPU. Large buffers are split in chunks processed by
// concurrent goroutines, small ones are processed on the calling goroutine.
package cpu

import (
	"context"
	"runtime"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/askiada/go-tensor/pkg/tensor/backend"
	"github.com/askiada/go-tensor/pkg/tensor/model"
)

const (
	Name            = "cpu"
	defaultMinChunk = 4096
)

type Backend[T backend.Numeric] struct {
	concurrent int
	minChunk   int
}

// New creates a CPU backend. Without options it uses GOMAXPROCS goroutines per kernel.
func New[T backend.Numeric](opts ...Option[T]) *Backend[T] {
	b := &Backend[T]{}
	for _, opt := range opts {
		opt(b)
	}

	if b.concurrent <= 0 {
		b.concurrent = runtime.GOMAXPROCS(0)
	}

	if b.minChunk <= 0 {
		b.minChunk = defaultMinChunk
	}

	return b
}

func (b *Backend[T]) Name() string {
	return Name
}

func (b *Backend[T]) Allocate(shape model.Shape) []T {
	return make([]T, shape.Size())
}

func (b *Backend[T]) Zeros(shape model.Shape) []T {
	return make([]T, shape.Size())
}

func (b *Backend[T]) Ones(shape model.Shape) []T {
	out := make([]T, shape.Size())
	for i := range out {
		out[i] = 1
	}

	return out
}

func (b *Backend[T]) Add(ctx context.Context, x, y []T) ([]T, error) {
	return b.elementWise(ctx, "add", x, y, func(dst, x, y []T, _ int) error {
		for i := range dst {
			dst[i] = x[i] + y[i]
		}

		return nil
	})
}

func (b *Backend[T]) Sub(ctx context.Context, x, y []T) ([]T, error) {
	return b.elementWise(ctx, "sub", x, y, func(dst, x, y []T, _ int) error {
		for i := range dst {
			dst[i] = x[i] - y[i]
		}

		return nil
	})
}

func (b *Backend[T]) Mul(ctx context.Context, x, y []T) ([]T, error) {
	return b.elementWise(ctx, "mul", x, y, func(dst, x, y []T, _ int) error {
		for i := range dst {
			dst[i] = x[i] * y[i]
		}

		return nil
	})
}

// Div divides x by y. Integer division by zero is an error, float division follows IEEE 754.
func (b *Backend[T]) Div(ctx context.Context, x, y []T) ([]T, error) {
	isInteger := backend.IsInteger[T]()

	return b.elementWise(ctx, "div", x, y, func(dst, x, y []T, offset int) error {
		for i := range dst {
			if isInteger && y[i] == 0 {
				return errors.Wrapf(backend.ErrDivisionByZero, "index %d", offset+i)
			}

			dst[i] = x[i] / y[i]
		}

		return nil
	})
}

func (b *Backend[T]) MatMul(ctx context.Context, x []T, xShape model.Shape, y []T, yShape model.Shape) ([]T, error) {
	m, k, n, err := backend.CheckMatMul(len(x), xShape, len(y), yShape)
	if err != nil {
		return nil, err
	}

	out := make([]T, m*n)

	rowCost := k * n
	if rowCost == 0 {
		rowCost = 1
	}

	grain := b.minChunk / rowCost
	if grain < 1 {
		grain = 1
	}

	err = b.parallel(ctx, m, grain, func(ctx context.Context, start, end int) error {
		for i := start; i < end; i++ {
			if err := ctx.Err(); err != nil {
				return errors.Wrapf(err, "row %d", i)
			}

			row := out[i*n : (i+1)*n]
			for l := 0; l < k; l++ {
				xVal := x[i*k+l]
				yRow := y[l*n : (l+1)*n]
				for j := range row {
					row[j] += xVal * yRow[j]
				}
			}
		}

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "matmul")
	}

	return out, nil
}

type kernel[T backend.Numeric] func(dst, x, y []T, offset int) error

func (b *Backend[T]) elementWise(ctx context.Context, op string, x, y []T, fn kernel[T]) ([]T, error) {
	err := backend.CheckLengths(op, len(x), len(y))
	if err != nil {
		return nil, err
	}

	out := make([]T, len(x))

	err = b.parallel(ctx, len(x), b.minChunk, func(_ context.Context, start, end int) error {
		return fn(out[start:end], x[start:end], y[start:end], start)
	})
	if err != nil {
		return nil, errors.Wrap(err, op)
	}

	return out, nil
}

// parallel splits [0, total) in contiguous ranges of at least grain items and runs fn on each of them.
// It stops on the first error.
func (b *Backend[T]) parallel(ctx context.Context, total, grain int, fn func(ctx context.Context, start, end int) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if total == 0 {
		return nil
	}

	chunks := (total + grain - 1) / grain
	if chunks > b.concurrent {
		chunks = b.concurrent
	}

	if chunks <= 1 {
		return fn(ctx, 0, total)
	}

	size := (total + chunks - 1) / chunks

	errGrp, dCtx := errgroup.WithContext(ctx)
	errGrp.SetLimit(b.concurrent)

	for start := 0; start < total; start += size {
		localStart := start
		localEnd := min(start+size, total)

		errGrp.Go(func() error {
			select {
			case <-dCtx.Done():
				return errors.Wrapf(dCtx.Err(), "chunk %d", localStart)
			default:
			}

			return fn(dCtx, localStart, localEnd)
		})
	}

	return errGrp.Wait()
}

var _ backend.Backend[float64] = (*Backend[float64])(nil)
