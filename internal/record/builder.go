package record

import "time"

// Builder stages raw field values for a Record. Setters overwrite any
// previous value and return the builder for chaining.
type Builder struct {
	datetime *int64
	duration *int64
	category *string
	speaker  *string
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Datetime sets the session start as Unix seconds.
func (b *Builder) Datetime(v int64) *Builder {
	b.datetime = &v
	return b
}

// DatetimeAt sets the session start from t.
func (b *Builder) DatetimeAt(t time.Time) *Builder {
	return b.Datetime(t.Unix())
}

// Duration sets the session length in seconds.
func (b *Builder) Duration(v int64) *Builder {
	b.duration = &v
	return b
}

// Category sets the meditation category.
func (b *Builder) Category(v string) *Builder {
	b.category = &v
	return b
}

// Speaker sets the speaker or guide.
func (b *Builder) Speaker(v string) *Builder {
	b.speaker = &v
	return b
}

// Build validates the staged values. Unset fields fail with ConstraintMissing.
func (b *Builder) Build() (Record, error) {
	return validate(b.datetime, b.duration, b.category, b.speaker)
}
