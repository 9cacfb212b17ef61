package event

import (
	"errors"
	"fmt"
)

// ErrUnknownEventType is returned when a record carries a type code outside
// the known set. It usually means the log was written by a newer schema and
// must not be retried or coerced.
var ErrUnknownEventType = errors.New("unknown event type")

type UnknownTypeError struct {
	TypeID  int
	EventID int64
}

func (e *UnknownTypeError) Error() string {
	if e.EventID != 0 {
		return fmt.Sprintf("event %d: unknown event type %d", e.EventID, e.TypeID)
	}
	return fmt.Sprintf("unknown event type %d", e.TypeID)
}

func (e *UnknownTypeError) Unwrap() error {
	return ErrUnknownEventType
}
