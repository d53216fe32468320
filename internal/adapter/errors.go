package adapter

import "errors"

var (
	// ErrOutOfRange indicates a position outside [0, count). It points at an
	// index bookkeeping bug in the caller and is never recovered internally.
	ErrOutOfRange = errors.New("position out of range")

	// ErrUnknownType indicates that a view type was requested that no item
	// ever registered.
	ErrUnknownType = errors.New("unknown item type")

	// ErrInvalidOperation indicates an operation the sub-adapter variant does
	// not support, such as a positional insert into a sorted adapter.
	ErrInvalidOperation = errors.New("operation not supported by adapter")

	// ErrNotAttached indicates a sub-adapter that is not registered with a
	// composite adapter.
	ErrNotAttached = errors.New("adapter is not attached")
)
