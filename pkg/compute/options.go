package compute

import (
	"go.uber.org/zap"

	"github.com/askiada/go-tensor/pkg/compute/model"
	"github.com/askiada/go-tensor/pkg/tensor/backend"
)

type Option[T backend.Numeric] func(g *Graph[T])

func WithLogger[T backend.Numeric](logger *zap.Logger) Option[T] {
	return func(g *Graph[T]) {
		g.logger = logger
	}
}

// WithConcurrency limits the number of nodes evaluated at the same time.
func WithConcurrency[T backend.Numeric](concurrent int) Option[T] {
	return func(g *Graph[T]) {
		g.concurrent = concurrent
	}
}

func WithGraphOptions[T backend.Numeric](opts ...model.GraphOption) Option[T] {
	return func(g *Graph[T]) {
		g.opts = append(g.opts, opts...)
	}
}
