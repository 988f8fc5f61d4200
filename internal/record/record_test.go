package record

import (
	"errors"
	"testing"
	"time"
)

func TestBuildValid(t *testing.T) {
	rec, err := NewBuilder().
		Datetime(1617638400).
		Duration(1800).
		Category("  Mindfulness ").
		Speaker("Alice").
		Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if rec.Datetime() != 1617638400 || rec.Duration() != 1800 {
		t.Fatalf("unexpected numeric fields: %d %d", rec.Datetime(), rec.Duration())
	}
	if rec.Category() != "  Mindfulness " {
		t.Fatalf("category must be stored as given, got %q", rec.Category())
	}
	if rec.Speaker() != "Alice" {
		t.Fatalf("unexpected speaker %q", rec.Speaker())
	}
	if !rec.Time().Equal(time.Date(2021, 4, 5, 16, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected time %v", rec.Time())
	}
	if rec.Length() != 30*time.Minute {
		t.Fatalf("unexpected length %v", rec.Length())
	}
}

func TestBuildLastWriteWins(t *testing.T) {
	rec, err := NewBuilder().
		Datetime(-5).
		Datetime(10).
		Duration(0).
		Duration(60).
		Category(" ").
		Category("Sleep").
		Speaker("Bob").
		Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if rec.Datetime() != 10 || rec.Duration() != 60 || rec.Category() != "Sleep" {
		t.Fatalf("expected last values to win, got %+v", rec)
	}
}

func TestBuildRejectsSingleInvalidField(t *testing.T) {
	cases := []struct {
		name       string
		build      func(*Builder) *Builder
		field      Field
		constraint Constraint
	}{
		{"zero datetime", func(b *Builder) *Builder { return b.Datetime(0) }, FieldDatetime, ConstraintNotPositive},
		{"negative datetime", func(b *Builder) *Builder { return b.Datetime(-1) }, FieldDatetime, ConstraintNotPositive},
		{"zero duration", func(b *Builder) *Builder { return b.Duration(0) }, FieldDuration, ConstraintNotPositive},
		{"negative duration", func(b *Builder) *Builder { return b.Duration(-30) }, FieldDuration, ConstraintNotPositive},
		{"empty category", func(b *Builder) *Builder { return b.Category("") }, FieldCategory, ConstraintBlank},
		{"whitespace category", func(b *Builder) *Builder { return b.Category(" \t\n") }, FieldCategory, ConstraintBlank},
		{"empty speaker", func(b *Builder) *Builder { return b.Speaker("") }, FieldSpeaker, ConstraintBlank},
		{"whitespace speaker", func(b *Builder) *Builder { return b.Speaker("   ") }, FieldSpeaker, ConstraintBlank},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := NewBuilder().Datetime(10).Duration(123).Category("category").Speaker("speaker")
			rec, err := tc.build(b).Build()
			if err == nil {
				t.Fatalf("expected error, got record %+v", rec)
			}
			if rec != (Record{}) {
				t.Fatalf("expected zero record on failure, got %+v", rec)
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected *ValidationError, got %T", err)
			}
			if verr.Field != tc.field || verr.Constraint != tc.constraint {
				t.Fatalf("expected %s/%s, got %s/%s", tc.field, tc.constraint, verr.Field, verr.Constraint)
			}
			if !errors.Is(err, ErrInvalid) {
				t.Fatalf("expected errors.Is(err, ErrInvalid)")
			}
		})
	}
}

func TestBuildMissingFieldsReportedInOrder(t *testing.T) {
	_, err := NewBuilder().Build()
	assertField(t, err, FieldDatetime, ConstraintMissing)

	_, err = NewBuilder().Datetime(1).Build()
	assertField(t, err, FieldDuration, ConstraintMissing)

	_, err = NewBuilder().Datetime(1).Duration(1).Build()
	assertField(t, err, FieldCategory, ConstraintMissing)

	_, err = NewBuilder().Datetime(1).Duration(1).Category("c").Build()
	assertField(t, err, FieldSpeaker, ConstraintMissing)

	// Several invalid fields: the first in order wins.
	_, err = NewBuilder().Datetime(1).Duration(0).Category(" ").Build()
	assertField(t, err, FieldDuration, ConstraintNotPositive)
}

func TestNewMatchesBuilder(t *testing.T) {
	rec, err := New(1707421416, 3000, "Healing", "Alice")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	built, err := NewBuilder().Datetime(1707421416).Duration(3000).Category("Healing").Speaker("Alice").Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if rec != built {
		t.Fatalf("expected identical records, got %+v and %+v", rec, built)
	}
}

func TestValidationErrorMessage(t *testing.T) {
	_, err := New(1, 1, "c", " ")
	if err == nil || err.Error() != "speaker must not be empty or whitespace" {
		t.Fatalf("unexpected error message: %v", err)
	}
}

func assertField(t *testing.T, err error, field Field, constraint Constraint) {
	t.Helper()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if verr.Field != field || verr.Constraint != constraint {
		t.Fatalf("expected %s/%s, got %s/%s", field, constraint, verr.Field, verr.Constraint)
	}
}
