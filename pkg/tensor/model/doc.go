// Package model provides the shape and stride arithmetic shared by the tensor package and its backends.
// Tensors are dense and stored in row-major order, so the strides of a tensor are always derived from its shape.
package model
