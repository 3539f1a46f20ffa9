// Package backend defines the compute contract a tensor delegates its kernels to.
//
// A backend owns allocation and the numeric kernels (element-wise arithmetic and matrix multiplication). The tensor
// package validates shapes before calling into a backend, but backends still check buffer lengths so they can be used
// on their own.
package backend
