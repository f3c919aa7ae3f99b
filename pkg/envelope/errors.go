package envelope

import "github.com/pkg/errors"

var (
	// ErrUnsupportedType is returned when a raw value has no envelope representation.
	ErrUnsupportedType = errors.New("envelope: unsupported value type")

	// ErrCyclicValue is returned when a raw value refers back to itself.
	// It wraps ErrUnsupportedType.
	ErrCyclicValue = errors.Wrap(ErrUnsupportedType, "cyclic structure")
)
