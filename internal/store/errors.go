package store

import (
	"errors"
	"fmt"
)

var (
	ErrConflict = errors.New("conflict")
	ErrNotFound = errors.New("not found")
)

// CorruptRecordError reports persisted data that cannot be turned back into a
// valid appointment. It is a fault, not a rejection: callers should not retry.
type CorruptRecordError struct {
	Index  int
	Reason string
}

func (e *CorruptRecordError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("corrupt appointment data: %s", e.Reason)
	}
	return fmt.Sprintf("corrupt appointment record %d: %s", e.Index, e.Reason)
}
