package tensor

import (
	"github.com/pkg/errors"
)

var (
	ErrBackendMustBeSet = errors.New("backend must be set")
	ErrTensorMustBeSet  = errors.New("tensor must be set")
	ErrDataLength       = errors.New("data length doesn't match shape size")
	ErrShapeMismatch    = errors.New("tensor shapes must match")
	ErrReshape          = errors.New("cannot reshape tensor to a shape of different size")
)
