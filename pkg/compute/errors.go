package compute

import (
	"github.com/pkg/errors"
)

var (
	ErrBackendMustBeSet  = errors.New("backend must be set")
	ErrNameMustBeSet     = errors.New("node name must be set")
	ErrReservedName      = errors.New("node name is reserved")
	ErrNodeAlreadyExists = errors.New("node already exists")
	ErrUnknownNode       = errors.New("unknown node")
	ErrUnknownOp         = errors.New("unknown operation")
	ErrArity             = errors.New("wrong number of inputs")
	ErrEmptyGraph        = errors.New("graph has no node")
	ErrAlreadyRun        = errors.New("graph has already run")
	ErrNotRun            = errors.New("graph has not run")
)
