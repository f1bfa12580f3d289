// Package errs wraps cockroachdb/errors behind the three operations the
// reservation engine needs: wrapping with context, creating, and marking an
// infrastructure error with a domain sentinel so handlers can match it with
// errors.Is without seeing driver types.
package errs

import (
	"fmt"
	"strings"

	cr "github.com/cockroachdb/errors"
)

func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return cr.Wrap(err, msg)
}

func New(msg string) error {
	return cr.New(msg)
}

// Mark attaches markErr as an errors.Is target while keeping err's message and
// stack. This is how storage failures surface as ErrDatabaseOperationFailed
// and invalid pricing inputs as ErrValidation.
func Mark(err error, markErr error) error {
	if err == nil {
		return markErr
	}
	return cr.Mark(err, markErr)
}

func ExtractStackLines(err error, maxLines int) []string {
	if err == nil {
		return nil
	}
	s := fmt.Sprintf("%+v", err)
	lines := strings.Split(s, "\n")
	if maxLines > 0 && len(lines) > maxLines {
		lines = lines[:maxLines]
	}
	return lines
}
