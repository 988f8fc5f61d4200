// Package recordstore persists the meditation history as one JSON array
// under a single key of a kv.Store.
//
// Appends are read-modify-write with no lock or transaction: the store
// assumes a single writer, and two interleaved appends lose the earlier one.
package recordstore

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/verte-zerg/medilog/internal/codec"
	"github.com/verte-zerg/medilog/internal/kv"
	"github.com/verte-zerg/medilog/internal/record"
)

// DefaultKey is the key the history lives under.
const DefaultKey = "meditationLog"

// Store reads and appends meditation records.
type Store struct {
	kv       kv.Store
	key      string
	logger   zerolog.Logger
	observer Observer
}

// Option configures a Store.
type Option func(*Store)

// WithKey overrides DefaultKey.
func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// WithLogger sets the logger used for absorbed failures.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithObserver registers fn to receive an Event per fail-soft operation.
func WithObserver(fn Observer) Option {
	return func(s *Store) {
		s.observer = fn
	}
}

// New returns a Store backed by backend.
func New(backend kv.Store, opts ...Option) *Store {
	s := &Store{
		kv:     backend,
		key:    DefaultKey,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Key returns the key the history is stored under.
func (s *Store) Key() string {
	return s.key
}

// Load returns the stored history. A missing key yields an empty history
// and no error; backend failures are *kv.StoreError and undecodable values
// are *codec.SerializationError.
func (s *Store) Load(ctx context.Context) ([]record.Record, error) {
	raw, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		return nil, asStoreError("get", s.key, err)
	}
	if !ok {
		return nil, nil
	}
	return codec.Decode(raw)
}

// ReadAll returns the stored history, or an empty history when the key is
// missing, the value is corrupt or the backend fails. It never returns an
// error; failures are logged and reported to the observer.
func (s *Store) ReadAll(ctx context.Context) []record.Record {
	records, ev := s.read(ctx)
	s.emit(ev)
	return records
}

func (s *Store) read(ctx context.Context) ([]record.Record, Event) {
	raw, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		err = asStoreError("get", s.key, err)
		s.logger.Warn().Err(err).Str("key", s.key).Msg("failed to read meditation log")
		return nil, Event{Kind: EventReadFailed, Key: s.key, Err: err}
	}
	if !ok {
		s.logger.Debug().Str("key", s.key).Msg("meditation log not found, starting empty")
		return nil, Event{Kind: EventMissing, Key: s.key}
	}
	records, err := codec.Decode(raw)
	if err != nil {
		s.logger.Warn().Err(err).Str("key", s.key).Msg("ignoring malformed meditation log")
		return nil, Event{Kind: EventCorrupt, Key: s.key, Err: err}
	}
	return records, Event{Kind: EventLoaded, Key: s.key, Count: len(records)}
}

// TryAppend adds rec to the end of the history and returns the new record
// count. A missing or corrupt history is replaced by a history holding only
// rec. A backend read failure abandons the write so existing history is
// never overwritten blindly.
func (s *Store) TryAppend(ctx context.Context, rec record.Record) (int, error) {
	n, ev := s.appendRecord(ctx, rec)
	return n, ev.Err
}

// Append adds rec to the end of the history. It never returns an error;
// failures are logged and reported to the observer.
func (s *Store) Append(ctx context.Context, rec record.Record) {
	_, ev := s.appendRecord(ctx, rec)
	s.emit(ev)
}

func (s *Store) appendRecord(ctx context.Context, rec record.Record) (int, Event) {
	records, readEv := s.read(ctx)
	if readEv.Kind == EventReadFailed {
		s.logger.Warn().Err(readEv.Err).Str("key", s.key).Msg("abandoning append")
		return 0, Event{Kind: EventWriteFailed, Key: s.key, Err: readEv.Err}
	}

	next := make([]record.Record, 0, len(records)+1)
	next = append(next, records...)
	next = append(next, rec)

	raw, err := codec.Encode(next)
	if err != nil {
		s.logger.Warn().Err(err).Str("key", s.key).Msg("failed to encode meditation log")
		return 0, Event{Kind: EventWriteFailed, Key: s.key, Err: err}
	}
	if err := s.kv.Set(ctx, s.key, raw); err != nil {
		err = asStoreError("set", s.key, err)
		s.logger.Warn().Err(err).Str("key", s.key).Msg("failed to write meditation log")
		return 0, Event{Kind: EventWriteFailed, Key: s.key, Err: err}
	}
	s.logger.Debug().Str("key", s.key).Int("count", len(next)).Msg("meditation logged")
	return len(next), Event{Kind: EventAppended, Key: s.key, Count: len(next)}
}

// Clear deletes the stored history.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.kv.Delete(ctx, s.key); err != nil {
		err = asStoreError("delete", s.key, err)
		s.emit(Event{Kind: EventWriteFailed, Key: s.key, Err: err})
		return err
	}
	s.emit(Event{Kind: EventCleared, Key: s.key})
	return nil
}

func (s *Store) emit(ev Event) {
	if s.observer != nil {
		s.observer(ev)
	}
}

// asStoreError makes sure backend failures surface as *kv.StoreError, even
// from stores that do not wrap their own errors.
func asStoreError(op, key string, err error) error {
	var serr *kv.StoreError
	if errors.As(err, &serr) {
		return err
	}
	return &kv.StoreError{Backend: "external", Op: op, Key: key, Err: err}
}
