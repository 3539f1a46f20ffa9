package backend

import (
	"github.com/pkg/errors"

	"github.com/askiada/go-tensor/pkg/tensor/model"
)

var (
	ErrLengthMismatch = errors.New("buffers must have the same length")
	ErrDivisionByZero = errors.New("integer division by zero")
	ErrNotMatrix      = errors.New("tensor must be 2D")
	ErrInnerDimension = errors.New("inner dimensions must match for matrix multiplication")
)

// CheckLengths returns an error when two element-wise operands differ in length.
func CheckLengths(op string, aLen, bLen int) error {
	if aLen != bLen {
		return errors.Wrapf(ErrLengthMismatch, "%s: %d vs %d", op, aLen, bLen)
	}

	return nil
}

// CheckMatMul validates operands of a matrix multiplication and returns its m, k and n dimensions.
func CheckMatMul(aLen int, aShape model.Shape, bLen int, bShape model.Shape) (int, int, int, error) {
	if aShape.NDim() != 2 {
		return 0, 0, 0, errors.Wrapf(ErrNotMatrix, "first operand has shape %s", aShape)
	}

	if bShape.NDim() != 2 {
		return 0, 0, 0, errors.Wrapf(ErrNotMatrix, "second operand has shape %s", bShape)
	}

	if aShape[1] != bShape[0] {
		return 0, 0, 0, errors.Wrapf(ErrInnerDimension, "%d vs %d", aShape[1], bShape[0])
	}

	if aLen != aShape.Size() {
		return 0, 0, 0, errors.Wrapf(ErrLengthMismatch, "first operand has %d elements for shape %s", aLen, aShape)
	}

	if bLen != bShape.Size() {
		return 0, 0, 0, errors.Wrapf(ErrLengthMismatch, "second operand has %d elements for shape %s", bLen, bShape)
	}

	return aShape[0], aShape[1], bShape[1], nil
}

// IsInteger reports whether T truncates on division.
func IsInteger[T Numeric]() bool {
	var one T = 1

	return one/2 == 0
}
