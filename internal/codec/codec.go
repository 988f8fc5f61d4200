// Package codec encodes the meditation history as a JSON array.
package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/verte-zerg/medilog/internal/record"
)

// SerializationError reports persisted data that is not a JSON array of
// well-formed records.
type SerializationError struct {
	Index int // element index, -1 when the document itself is malformed
	Err   error
}

func (e *SerializationError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("malformed meditation log: %v", e.Err)
	}
	return fmt.Sprintf("malformed meditation log entry %d: %v", e.Index, e.Err)
}

func (e *SerializationError) Unwrap() error {
	return e.Err
}

var errNotArray = errors.New("JSON data is not an array")

// wireRecord is the persisted shape of one record. Pointers distinguish an
// absent field from a zero value.
type wireRecord struct {
	Datetime *int64  `json:"datetime"`
	Duration *int64  `json:"duration"`
	Category *string `json:"category"`
	Speaker  *string `json:"speaker"`
}

// Encode serializes records, in order, as a JSON array. A record that
// would not decode again, such as the zero Record, fails the whole encode.
func Encode(records []record.Record) (string, error) {
	wire := make([]wireRecord, len(records))
	for i, rec := range records {
		datetime, duration := rec.Datetime(), rec.Duration()
		category, speaker := rec.Category(), rec.Speaker()
		if _, err := record.New(datetime, duration, category, speaker); err != nil {
			return "", &SerializationError{Index: i, Err: err}
		}
		wire[i] = wireRecord{
			Datetime: &datetime,
			Duration: &duration,
			Category: &category,
			Speaker:  &speaker,
		}
	}
	data, err := json.Marshal(wire)
	if err != nil {
		return "", &SerializationError{Index: -1, Err: err}
	}
	return string(data), nil
}

// Decode parses a JSON array of records. Any malformed element fails the
// whole document.
func Decode(raw string) ([]record.Record, error) {
	trimmed := bytes.TrimSpace([]byte(raw))
	if len(trimmed) == 0 || trimmed[0] != '[' {
		if !json.Valid(trimmed) {
			return nil, &SerializationError{Index: -1, Err: errors.New("invalid JSON")}
		}
		return nil, &SerializationError{Index: -1, Err: errNotArray}
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(trimmed, &elems); err != nil {
		return nil, &SerializationError{Index: -1, Err: err}
	}
	records := make([]record.Record, 0, len(elems))
	for i, elem := range elems {
		rec, err := decodeRecord(elem)
		if err != nil {
			return nil, &SerializationError{Index: i, Err: err}
		}
		records = append(records, rec)
	}
	return records, nil
}

func decodeRecord(elem json.RawMessage) (record.Record, error) {
	dec := json.NewDecoder(bytes.NewReader(elem))
	dec.DisallowUnknownFields()
	var w wireRecord
	if err := dec.Decode(&w); err != nil {
		return record.Record{}, err
	}
	if w == (wireRecord{}) {
		// Covers both {} and null elements.
		return record.Record{}, errors.New("empty record")
	}
	b := record.NewBuilder()
	if w.Datetime != nil {
		b.Datetime(*w.Datetime)
	}
	if w.Duration != nil {
		b.Duration(*w.Duration)
	}
	if w.Category != nil {
		b.Category(*w.Category)
	}
	if w.Speaker != nil {
		b.Speaker(*w.Speaker)
	}
	return b.Build()
}
