package hall

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound  = errors.New("hall not found")
	ErrForbidden = errors.New("not the hall owner")
	ErrBadStatus = errors.New("status not allowed")
)

// RowFieldError reports which row and field of the layout editor
// failed the numeric parse.
type RowFieldError struct {
	Row   int
	Field string
	Err   error
}

func (e *RowFieldError) Error() string {
	return fmt.Sprintf("row %d: %s: %v", e.Row, e.Field, e.Err)
}

func (e *RowFieldError) Unwrap() error { return e.Err }
