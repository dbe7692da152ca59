package shell

import (
	"fmt"

	"github.com/pingcap/errors"
)

// UsageError reports a malformed command: unknown verb, wrong number of arguments or unparsable quoting.
// The command is not attempted.
type UsageError struct {
	Msg string
}

func (e *UsageError) Error() string {
	return e.Msg
}

func newUsageError(format string, args ...interface{}) error {
	return errors.WithStack(&UsageError{Msg: fmt.Sprintf(format, args...)})
}

// IsUsageError reports whether err was caused by a malformed command.
func IsUsageError(err error) bool {
	_, ok := errors.Cause(err).(*UsageError)
	return ok
}
