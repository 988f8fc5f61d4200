// Package record defines the validated meditation session record.
package record

import (
	"strings"
	"time"
)

// Record is one meditation session. Values are only produced by New or
// Builder.Build, so every Record satisfies all field constraints.
type Record struct {
	datetime int64
	duration int64
	category string
	speaker  string
}

// New validates the raw field values and returns a Record.
// Fields are checked in order datetime, duration, category, speaker and the
// first failure is returned as a *ValidationError.
func New(datetime, duration int64, category, speaker string) (Record, error) {
	return validate(&datetime, &duration, &category, &speaker)
}

func validate(datetime, duration *int64, category, speaker *string) (Record, error) {
	if err := checkPositive(FieldDatetime, datetime); err != nil {
		return Record{}, err
	}
	if err := checkPositive(FieldDuration, duration); err != nil {
		return Record{}, err
	}
	if err := checkText(FieldCategory, category); err != nil {
		return Record{}, err
	}
	if err := checkText(FieldSpeaker, speaker); err != nil {
		return Record{}, err
	}
	return Record{
		datetime: *datetime,
		duration: *duration,
		category: *category,
		speaker:  *speaker,
	}, nil
}

func checkPositive(field Field, v *int64) error {
	if v == nil {
		return &ValidationError{Field: field, Constraint: ConstraintMissing}
	}
	if *v <= 0 {
		return &ValidationError{Field: field, Constraint: ConstraintNotPositive}
	}
	return nil
}

func checkText(field Field, v *string) error {
	if v == nil {
		return &ValidationError{Field: field, Constraint: ConstraintMissing}
	}
	if strings.TrimSpace(*v) == "" {
		return &ValidationError{Field: field, Constraint: ConstraintBlank}
	}
	return nil
}

// Datetime returns the session start as a Unix timestamp in seconds.
func (r Record) Datetime() int64 { return r.datetime }

// Duration returns the session length in seconds.
func (r Record) Duration() int64 { return r.duration }

// Category returns the meditation category.
func (r Record) Category() string { return r.category }

// Speaker returns the speaker or guide.
func (r Record) Speaker() string { return r.speaker }

// Time returns the session start in UTC.
func (r Record) Time() time.Time {
	return time.Unix(r.datetime, 0).UTC()
}

// Length returns the session duration.
func (r Record) Length() time.Duration {
	return time.Duration(r.duration) * time.Second
}
