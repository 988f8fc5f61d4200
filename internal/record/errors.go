package record

import (
	"errors"
	"fmt"
)

// ErrInvalid matches every ValidationError via errors.Is.
var ErrInvalid = errors.New("invalid meditation record")

// Field names a record field.
type Field int

// Record fields in validation order.
const (
	FieldDatetime Field = iota + 1
	FieldDuration
	FieldCategory
	FieldSpeaker
)

func (f Field) String() string {
	switch f {
	case FieldDatetime:
		return "datetime"
	case FieldDuration:
		return "duration"
	case FieldCategory:
		return "category"
	case FieldSpeaker:
		return "speaker"
	default:
		return fmt.Sprintf("field(%d)", int(f))
	}
}

// Constraint names the rule a field value violated.
type Constraint int

// Validation constraints.
const (
	ConstraintMissing Constraint = iota + 1
	ConstraintNotPositive
	ConstraintBlank
)

func (c Constraint) String() string {
	switch c {
	case ConstraintMissing:
		return "is required"
	case ConstraintNotPositive:
		return "must be greater than zero"
	case ConstraintBlank:
		return "must not be empty or whitespace"
	default:
		return fmt.Sprintf("constraint(%d)", int(c))
	}
}

// ValidationError identifies the first field that failed validation.
type ValidationError struct {
	Field      Field
	Constraint Constraint
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Constraint)
}

// Is reports whether target is ErrInvalid.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalid
}
