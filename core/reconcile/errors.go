package reconcile

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Kind classifies fatal run errors.
type Kind int

const (
	// KindTransport covers network failures and non-success responses.
	KindTransport Kind = iota + 1
	// KindDataIntegrity covers listing entries that cannot be normalized.
	KindDataIntegrity
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindDataIntegrity:
		return "data integrity"
	default:
		return "unknown"
	}
}

// Error is a fatal run error.
type Error struct {
	Kind Kind
	// Op is the step that failed: traverse, normalize or dispatch.
	Op string
	// Ref is the href or logical path involved.
	Ref string
	// Entity is the offending listing entry, serialized, for integrity errors.
	Entity string
	Err    error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s error during %s", e.Kind, e.Op)
	if e.Ref != "" {
		msg += " of " + e.Ref
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Entity != "" {
		msg += " (entity: " + e.Entity + ")"
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var rerr *Error
	return errors.As(err, &rerr) && rerr.Kind == kind
}

func transportError(op, ref string, err error) error {
	return &Error{Kind: KindTransport, Op: op, Ref: ref, Err: err}
}

func integrityError(ref string, entity any, reason string) error {
	e := &Error{Kind: KindDataIntegrity, Op: "normalize", Ref: ref, Err: errors.New(reason)}
	if entity != nil {
		if data, err := json.Marshal(entity); err == nil {
			e.Entity = string(data)
		}
	}
	return e
}
