package sim

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrConfiguration marks invalid construction parameters. It is reported
	// during elaboration, before the engine runs.
	ErrConfiguration = errors.New("configuration error")

	// ErrRange marks a value written to a signal outside its declared range.
	ErrRange = errors.New("value out of range")

	// ErrIndex marks an access to a word array outside [0, size).
	ErrIndex = errors.New("index out of range")

	// ErrPostponedWrite marks a postponed process that staged a signal write.
	// Postponed processes observe the settled state of an instant and must not
	// change it.
	ErrPostponedWrite = errors.New("write staged from a postponed process")
)

// ConfigErrorf creates an error that wraps ErrConfiguration.
func ConfigErrorf(format string, args ...any) error {
	return errors.Wrapf(ErrConfiguration, format, args...)
}

// A RangeError reports a value that does not fit the range of a signal.
type RangeError struct {
	Signal string
	Value  int
	Range  Range
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s: %d not in [%d, %d)",
		e.Signal, e.Value, e.Range.Min, e.Range.Max)
}

// Unwrap returns ErrRange.
func (e *RangeError) Unwrap() error {
	return ErrRange
}

// An IndexError reports an out-of-bounds access to a word array.
type IndexError struct {
	Array string
	Index int
	Size  int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("%s: index %d not in [0, %d)", e.Array, e.Index, e.Size)
}

// Unwrap returns ErrIndex.
func (e *IndexError) Unwrap() error {
	return ErrIndex
}
