package tensor

import (
	"fmt"
	"strings"
)

// String renders the tensor as nested brackets, e.g. [[1 2] [3 4]].
func (t *Tensor[T]) String() string {
	if t.NDim() == 0 {
		return fmt.Sprint(t.data[0])
	}

	var sb strings.Builder

	t.format(&sb, 0, 0)

	return sb.String()
}

func (t *Tensor[T]) format(sb *strings.Builder, dim, offset int) {
	sb.WriteByte('[')

	for i := 0; i < t.shape[dim]; i++ {
		if i > 0 {
			sb.WriteByte(' ')
		}

		pos := offset + i*t.strides[dim]
		if dim == len(t.shape)-1 {
			fmt.Fprint(sb, t.data[pos])

			continue
		}

		t.format(sb, dim+1, pos)
	}

	sb.WriteByte(']')
}
