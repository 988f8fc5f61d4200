package recordstore

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"

	"github.com/verte-zerg/medilog/internal/codec"
	"github.com/verte-zerg/medilog/internal/kv"
	"github.com/verte-zerg/medilog/internal/record"
)

var cmpRecords = cmp.AllowUnexported(record.Record{})

type faultyKV struct {
	kv.Store
	getErr error
	setErr error
	delErr error
}

func (f *faultyKV) Get(ctx context.Context, key string) (string, bool, error) {
	if f.getErr != nil {
		return "", false, f.getErr
	}
	return f.Store.Get(ctx, key)
}

func (f *faultyKV) Set(ctx context.Context, key, value string) error {
	if f.setErr != nil {
		return f.setErr
	}
	return f.Store.Set(ctx, key, value)
}

func (f *faultyKV) Delete(ctx context.Context, key string) error {
	if f.delErr != nil {
		return f.delErr
	}
	return f.Store.Delete(ctx, key)
}

func mustRecord(t *testing.T, datetime, duration int64, category, speaker string) record.Record {
	t.Helper()
	rec, err := record.New(datetime, duration, category, speaker)
	if err != nil {
		t.Fatalf("record.New: %v", err)
	}
	return rec
}

func collect(events *[]Event) Option {
	return WithObserver(func(ev Event) {
		*events = append(*events, ev)
	})
}

func TestReadAllMissingKey(t *testing.T) {
	var events []Event
	st := New(kv.NewMemory(), collect(&events))

	got := st.ReadAll(context.Background())
	if len(got) != 0 {
		t.Fatalf("expected empty history, got %d", len(got))
	}
	if len(events) != 1 || events[0].Kind != EventMissing {
		t.Fatalf("expected missing event, got %+v", events)
	}
}

func TestReadAllCorruptValues(t *testing.T) {
	for name, raw := range map[string]string{
		"not json":     "{{{",
		"object":       `{"not": "an array"}`,
		"bad element":  `[{"datetime":0,"duration":1,"category":"c","speaker":"s"}]`,
		"wrong shapes": `[1, 2, 3]`,
	} {
		t.Run(name, func(t *testing.T) {
			mem := kv.NewMemory()
			if err := mem.Set(context.Background(), DefaultKey, raw); err != nil {
				t.Fatalf("seed: %v", err)
			}
			var events []Event
			st := New(mem, collect(&events))

			if got := st.ReadAll(context.Background()); len(got) != 0 {
				t.Fatalf("expected empty history, got %d", len(got))
			}
			if len(events) != 1 || events[0].Kind != EventCorrupt {
				t.Fatalf("expected corrupt event, got %+v", events)
			}
			var serr *codec.SerializationError
			if !errors.As(events[0].Err, &serr) {
				t.Fatalf("expected serialization error, got %v", events[0].Err)
			}

			_, err := st.Load(context.Background())
			if !errors.As(err, &serr) {
				t.Fatalf("expected Load to surface serialization error, got %v", err)
			}
		})
	}
}

func TestReadAllBackendFailure(t *testing.T) {
	var logBuf bytes.Buffer
	var events []Event
	backend := &faultyKV{Store: kv.NewMemory(), getErr: errors.New("disk on fire")}
	st := New(backend, collect(&events), WithLogger(zerolog.New(&logBuf)))

	if got := st.ReadAll(context.Background()); len(got) != 0 {
		t.Fatalf("expected empty history, got %d", len(got))
	}
	if len(events) != 1 || events[0].Kind != EventReadFailed {
		t.Fatalf("expected read_failed event, got %+v", events)
	}
	var serr *kv.StoreError
	if !errors.As(events[0].Err, &serr) || serr.Op != "get" {
		t.Fatalf("expected wrapped store error, got %v", events[0].Err)
	}
	if !strings.Contains(logBuf.String(), "disk on fire") {
		t.Fatalf("expected failure to be logged, got %q", logBuf.String())
	}
}

func TestAppendPreservesHistory(t *testing.T) {
	ctx := context.Background()
	var events []Event
	st := New(kv.NewMemory(), collect(&events))

	existing := []record.Record{
		mustRecord(t, 1617638400, 1800, "Mindfulness", "Alice"),
		mustRecord(t, 1617724800, 3600, "Relaxation", "Bob"),
		mustRecord(t, 1617811200, 900, "Mindfulness", "Alice"),
	}
	for _, rec := range existing {
		st.Append(ctx, rec)
	}
	next := mustRecord(t, 1617897600, 1200, "Relaxation", "Charlie")
	st.Append(ctx, next)

	got := st.ReadAll(ctx)
	want := append(append([]record.Record{}, existing...), next)
	if diff := cmp.Diff(want, got, cmpRecords); diff != "" {
		t.Fatalf("history mismatch (-want +got):\n%s", diff)
	}

	last := events[len(events)-2]
	if last.Kind != EventAppended || last.Count != 4 {
		t.Fatalf("expected appended event with count 4, got %+v", last)
	}
}

func TestAppendUsesConfiguredKey(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemory()
	st := New(mem, WithKey("custom"))
	st.Append(ctx, mustRecord(t, 1, 60, "Focus", "Dana"))

	if _, ok, _ := mem.Get(ctx, DefaultKey); ok {
		t.Fatalf("default key should be untouched")
	}
	raw, ok, err := mem.Get(ctx, "custom")
	if err != nil || !ok {
		t.Fatalf("expected custom key to be written: ok=%v err=%v", ok, err)
	}
	want := `[{"datetime":1,"duration":60,"category":"Focus","speaker":"Dana"}]`
	if raw != want {
		t.Fatalf("unexpected stored value %s", raw)
	}
	if st.Key() != "custom" {
		t.Fatalf("unexpected key %q", st.Key())
	}
}

func TestAppendReplacesCorruptHistory(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemory()
	if err := mem.Set(ctx, DefaultKey, "garbage"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	st := New(mem)
	rec := mustRecord(t, 1707421416, 3000, "Healing", "Alice")

	n, err := st.TryAppend(ctx, rec)
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 record, got %d", n)
	}
	if diff := cmp.Diff([]record.Record{rec}, st.ReadAll(ctx), cmpRecords); diff != "" {
		t.Fatalf("history mismatch (-want +got):\n%s", diff)
	}
}

func TestAppendAbandonedOnReadFailure(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemory()
	seed := mustRecord(t, 1617638400, 1800, "Mindfulness", "Alice")
	seeded := New(mem)
	seeded.Append(ctx, seed)

	var events []Event
	backend := &faultyKV{Store: mem, getErr: errors.New("timeout")}
	st := New(backend, collect(&events))
	st.Append(ctx, mustRecord(t, 1617724800, 60, "Relaxation", "Bob"))

	if len(events) != 1 || events[0].Kind != EventWriteFailed {
		t.Fatalf("expected write_failed event, got %+v", events)
	}
	if diff := cmp.Diff([]record.Record{seed}, seeded.ReadAll(ctx), cmpRecords); diff != "" {
		t.Fatalf("history must be untouched (-want +got):\n%s", diff)
	}
}

func TestAppendWriteFailure(t *testing.T) {
	ctx := context.Background()
	var events []Event
	backend := &faultyKV{Store: kv.NewMemory(), setErr: errors.New("read-only")}
	st := New(backend, collect(&events))

	st.Append(ctx, mustRecord(t, 1, 1, "c", "s"))
	if len(events) != 1 || events[0].Kind != EventWriteFailed {
		t.Fatalf("expected write_failed event, got %+v", events)
	}

	_, err := st.TryAppend(ctx, mustRecord(t, 1, 1, "c", "s"))
	var serr *kv.StoreError
	if !errors.As(err, &serr) || serr.Op != "set" {
		t.Fatalf("expected set store error, got %v", err)
	}
}

func TestAppendRejectsUnvalidatedRecord(t *testing.T) {
	ctx := context.Background()
	var events []Event
	st := New(kv.NewMemory(), collect(&events))

	existing := []record.Record{
		mustRecord(t, 1617638400, 1800, "Mindfulness", "Alice"),
		mustRecord(t, 1617724800, 3600, "Relaxation", "Bob"),
	}
	for _, rec := range existing {
		st.Append(ctx, rec)
	}

	n, err := st.TryAppend(ctx, record.Record{})
	var serr *codec.SerializationError
	if n != 0 || !errors.As(err, &serr) || serr.Index != len(existing) {
		t.Fatalf("expected serialization error at index %d, got n=%d err=%v", len(existing), n, err)
	}
	events = nil
	st.Append(ctx, record.Record{})
	if len(events) != 1 || events[0].Kind != EventWriteFailed {
		t.Fatalf("expected write_failed event, got %+v", events)
	}

	next := mustRecord(t, 1617811200, 900, "Mindfulness", "Alice")
	st.Append(ctx, next)
	got, err := st.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := append(append([]record.Record{}, existing...), next)
	if diff := cmp.Diff(want, got, cmpRecords); diff != "" {
		t.Fatalf("history mismatch (-want +got):\n%s", diff)
	}
}

// The append is not atomic: when two writers interleave their read and
// write phases the later write wins and the other record is lost.
func TestInterleavedAppendsLoseUpdate(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemory()
	a := New(mem)
	b := New(mem)

	first := mustRecord(t, 100, 60, "A", "writer-a")
	second := mustRecord(t, 200, 60, "B", "writer-b")

	gate := &interleavingKV{Store: mem}
	gate.beforeSet = func() {
		// writer b runs completely between a's read and a's write.
		b.Append(ctx, second)
	}
	slow := New(gate)
	slow.Append(ctx, first)

	got := a.ReadAll(ctx)
	if diff := cmp.Diff([]record.Record{first}, got, cmpRecords); diff != "" {
		t.Fatalf("expected last writer to win (-want +got):\n%s", diff)
	}
}

type interleavingKV struct {
	kv.Store
	beforeSet func()
}

func (s *interleavingKV) Set(ctx context.Context, key, value string) error {
	if s.beforeSet != nil {
		hook := s.beforeSet
		s.beforeSet = nil
		hook()
	}
	return s.Store.Set(ctx, key, value)
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	var events []Event
	st := New(kv.NewMemory(), collect(&events))
	st.Append(ctx, mustRecord(t, 1, 1, "c", "s"))

	if err := st.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if events[len(events)-1].Kind != EventCleared {
		t.Fatalf("expected cleared event, got %+v", events[len(events)-1])
	}
	if got := st.ReadAll(ctx); len(got) != 0 {
		t.Fatalf("expected empty history after clear, got %d", len(got))
	}

	failing := New(&faultyKV{Store: kv.NewMemory(), delErr: errors.New("nope")})
	var serr *kv.StoreError
	if err := failing.Clear(ctx); !errors.As(err, &serr) {
		t.Fatalf("expected store error, got %v", err)
	}
}

func TestLoadMissingKey(t *testing.T) {
	records, err := New(kv.NewMemory()).Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected no records, got %d", len(records))
	}
}
