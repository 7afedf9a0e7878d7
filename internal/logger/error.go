package logger

import (
	"errors"
	"fmt"
)

// CoreError is returned by operations that must abort the current batch
// per spec.md §7 ("Fatal errors abort the current batch"). Warnings never
// become a CoreError; they are only ever appended to a Log.
type CoreError struct {
	ID       MsgID
	ModuleID string
	Text     string
}

func (e *CoreError) Error() string {
	if e.ModuleID != "" {
		return fmt.Sprintf("%s (%s): %s", e.ID, e.ModuleID, e.Text)
	}
	return fmt.Sprintf("%s: %s", e.ID, e.Text)
}

func NewError(id MsgID, moduleID string, format string, args ...interface{}) *CoreError {
	return &CoreError{ID: id, ModuleID: moduleID, Text: fmt.Sprintf(format, args...)}
}

// AsCoreError reports whether err is (or wraps) a *CoreError and returns it.
func AsCoreError(err error) (*CoreError, bool) {
	var ce *CoreError
	ok := errors.As(err, &ce)
	return ce, ok
}
