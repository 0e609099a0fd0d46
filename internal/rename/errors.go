package rename

import (
	"errors"
	"fmt"
	"io/fs"

	"namescrub/internal/safety"
)

// RenameError reports one file that could not be renamed
type RenameError struct {
	OldPath string
	NewPath string
	Err     error
}

func (e *RenameError) Error() string {
	return fmt.Sprintf("rename %s -> %s: %v", e.OldPath, e.NewPath, e.Err)
}

func (e *RenameError) Unwrap() error { return e.Err }

// Reason is a short label for metrics and logs
func (e *RenameError) Reason() string {
	switch {
	case errors.Is(e.Err, safety.ErrCollision), errors.Is(e.Err, fs.ErrExist):
		return "collision"
	case errors.Is(e.Err, fs.ErrPermission):
		return "permission"
	case errors.Is(e.Err, fs.ErrNotExist):
		return "not_found"
	case errors.Is(e.Err, safety.ErrInvalidName), errors.Is(e.Err, safety.ErrOutsideRoot):
		return "invalid_name"
	default:
		return "other"
	}
}
