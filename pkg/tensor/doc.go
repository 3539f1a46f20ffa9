// Package tensor provides a generic n-dimensional tensor.
//
// A tensor is a dense buffer stored in row-major order together with its shape and strides. Every computation is
// delegated to a backend (see the backend package), which lets the same tensor code run on different compute
// implementations. Operations never modify their operands: they validate shapes, call the backend and return a new
// tensor sharing the same backend.
//
// Errors are returned instead of panicking, so shape mismatches can be handled by the caller with errors.Is and the
// sentinel errors of this package, the model package and the backend package.
package tensor
