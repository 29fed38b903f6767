package harness

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/sarchlab/rtlsim/sim"
)

// ErrAssertion marks a testbench check that failed.
var ErrAssertion = errors.New("assertion failed")

// An AssertionError reports an observed value that does not match the
// expected one.
type AssertionError struct {
	Time     sim.VTime
	Message  string
	Expected int
	Actual   int
}

func (e *AssertionError) Error() string {
	return fmt.Sprintf("at time %d: %s: expected %d, got %d",
		e.Time, e.Message, e.Expected, e.Actual)
}

// Unwrap returns ErrAssertion.
func (e *AssertionError) Unwrap() error {
	return ErrAssertion
}
