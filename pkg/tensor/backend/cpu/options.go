package cpu

import "github.com/askiada/go-tensor/pkg/tensor/backend"

type Option[T backend.Numeric] func(b *Backend[T])

// Concurrency sets the maximum number of goroutines a single kernel can use.
func Concurrency[T backend.Numeric](concurrent int) Option[T] {
	return func(b *Backend[T]) {
		b.concurrent = concurrent
	}
}

// MinChunk sets the minimum number of elements processed by one goroutine.
func MinChunk[T backend.Numeric](minChunk int) Option[T] {
	return func(b *Backend[T]) {
		b.minChunk = minChunk
	}
}
