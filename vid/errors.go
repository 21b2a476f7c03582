package vid

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrArgument is matched by every error caused by malformed or
	// inconsistent input.
	ErrArgument = errors.New("invalid argument")

	// ErrMalformedProof is matched by decoding failures.
	ErrMalformedProof = errors.New("malformed encoding")
)

type argumentError struct {
	msg string
}

func (e *argumentError) Error() string {
	return e.msg
}

func (e *argumentError) Is(target error) bool {
	return target == ErrArgument
}

func argumentf(format string, args ...interface{}) error {
	return &argumentError{msg: fmt.Sprintf(format, args...)}
}

func malformedf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrMalformedProof, format, args...)
}
