package api

import (
	"fmt"

	"github.com/google/uuid"
)

type Action int

const (
	ActionReject Action = iota
	ActionCreate
	ActionUpdate
)

func (action Action) String() string {
	switch action {
	case ActionCreate:
		return "create"
	case ActionUpdate:
		return "update"
	default:
		return "reject"
	}
}

// Decision is the outcome of classifying one import row.
type Decision struct {
	Action Action
	// ID is set only for ActionUpdate.
	ID  uuid.UUID
	Err error
}

// Classify decides whether a row updates an existing sensor or creates a new one.
//
// A parseable UUID always means update, regardless of name. Without one, the row
// is a create only if the id cell is empty and the name is not. A non-empty id
// that fails to parse is rejected rather than silently turned into a create.
func Classify(id *string, name string) Decision {
	if id != nil {
		parsed, err := uuid.Parse(*id)
		if err == nil {
			return Decision{Action: ActionUpdate, ID: parsed}
		}

		return Decision{
			Action: ActionReject,
			Err:    fmt.Errorf("%w: invalid sensor id %q: %v", ErrRowRejected, *id, err),
		}
	}

	if name == "" {
		return Decision{Action: ActionReject, Err: fmt.Errorf("%w: empty id and empty name", ErrRowRejected)}
	}

	return Decision{Action: ActionCreate}
}

// optional maps the empty string to nil so the field is left out of request bodies.
func optional(value string) *string {
	if value == "" {
		return nil
	}

	return &value
}

func deref(value *string) string {
	if value == nil {
		return ""
	}

	return *value
}
