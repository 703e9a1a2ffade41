package contract

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when the root path is not a valid repository checkout.
var ErrNotFound = errors.New("repository not found")

// ErrGitMissing is returned when the git binary cannot be found on the PATH.
var ErrGitMissing = errors.New("git executable not found")

// HistoryError reports a file for which no blame history could be produced,
// for example because it is untracked or only newly added.
type HistoryError struct {
	Path string
	Err  error
}

func (e *HistoryError) Error() string {
	return fmt.Sprintf("no history for %q: %v", e.Path, e.Err)
}

func (e *HistoryError) Unwrap() error {
	return e.Err
}

// IsHistoryError reports whether err is, or wraps, a *HistoryError.
func IsHistoryError(err error) bool {
	var he *HistoryError
	return errors.As(err, &he)
}
