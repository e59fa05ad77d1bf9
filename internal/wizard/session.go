// Package wizard drives the step-by-step row entry flow: one column at
// a time, a draft of raw values, and a save that appends the typed row.
// The state machine has no HTTP or rendering dependencies so it can be
// exercised directly in tests.
package wizard

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/AIforimpact22/rawand/internal/table"
)

var (
	// ErrNoColumns is returned when the table has no columns yet.
	ErrNoColumns = errors.New("table has no columns")
	// ErrAtFirst is returned by Back on the first field.
	ErrAtFirst = errors.New("already at the first field")
	// ErrAtLast is returned by Next on the last field.
	ErrAtLast = errors.New("already at the last field")
	// ErrNotAtEnd is returned by Save before the last field is reached.
	ErrNotAtEnd = errors.New("save is only allowed on the last field")
)

// SaveFunc persists one finalized row of typed values in column order.
// It returns the column kinds after the append so the session can pick
// up kinds that only become inferable once data exists (a nil slice
// keeps the current kinds).
type SaveFunc func(values []table.Value) ([]table.Kind, error)

// Field describes the column the wizard is currently on.
type Field struct {
	Name  string
	Kind  table.Kind
	Index int
	Total int
	Draft string
}

// Session is one wizard walk-through. It owns the draft and the
// position; persistence happens through the injected SaveFunc.
//
// The same session is shared by every request carrying its cookie, so
// all state behind mu is only touched with the lock held.
type Session struct {
	id   string
	save SaveFunc

	mu      sync.Mutex
	columns []string
	kinds   []table.Kind
	idx     int
	draft   map[string]string
	lastRow map[string]any

	// touched holds the unix-nano time of the last interaction.
	// Atomic because the idle sweep reads it from another goroutine.
	touched atomic.Int64
}

// NewSession starts a session over the given columns and kinds.
func NewSession(id string, columns []string, kinds []table.Kind, save SaveFunc) (*Session, error) {
	if len(columns) == 0 {
		return nil, ErrNoColumns
	}
	if len(kinds) != len(columns) {
		return nil, fmt.Errorf("got %d kinds for %d columns", len(kinds), len(columns))
	}
	s := &Session{
		id:      id,
		columns: columns,
		kinds:   kinds,
		draft:   make(map[string]string),
		save:    save,
	}
	s.touch()
	s.mu.Lock()
	s.seedLocked()
	s.mu.Unlock()
	return s, nil
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Index returns the current field position.
func (s *Session) Index() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.idx
}

// Total returns the number of fields.
func (s *Session) Total() int {
	return len(s.columns)
}

// Current returns the field the wizard is on, with its draft value.
func (s *Session) Current() Field {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := s.columns[s.idx]
	return Field{
		Name:  name,
		Kind:  s.kinds[s.idx],
		Index: s.idx,
		Total: len(s.columns),
		Draft: s.draft[name],
	}
}

// SetValue records the raw input for the current field.
func (s *Session) SetValue(raw string) {
	s.touch()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft[s.columns[s.idx]] = raw
}

// Back moves to the previous field.
func (s *Session) Back() error {
	s.touch()
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.idx == 0 {
		return ErrAtFirst
	}
	s.idx--
	s.seedLocked()
	return nil
}

// Next moves to the following field.
func (s *Session) Next() error {
	s.touch()
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.idx >= len(s.columns)-1 {
		return ErrAtLast
	}
	s.idx++
	s.seedLocked()
	return nil
}

// Save finalizes the draft. It is only permitted on the last field:
// every draft value is parsed to its column kind, the row is handed to
// the SaveFunc, and on success the session resets to the first field
// with an empty draft and adopts the kinds reported back (so a column
// that just received its first value gets the right widget for the
// next row). On failure the draft survives so the user can retry.
func (s *Session) Save() error {
	s.touch()
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.idx != len(s.columns)-1 {
		return ErrNotAtEnd
	}

	values := s.finalizeLocked()
	if s.save != nil {
		kinds, err := s.save(values)
		if err != nil {
			return fmt.Errorf("save row: %w", err)
		}
		if len(kinds) == len(s.columns) {
			s.kinds = kinds
		}
	}

	s.lastRow = make(map[string]any, len(s.columns))
	for i, c := range s.columns {
		s.lastRow[c] = values[i].Interface()
	}
	s.resetLocked()
	return nil
}

// Finalize parses the draft into typed values in column order without
// saving or mutating the session.
func (s *Session) Finalize() []table.Value {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finalizeLocked()
}

func (s *Session) finalizeLocked() []table.Value {
	values := make([]table.Value, len(s.columns))
	for i, c := range s.columns {
		values[i] = table.Parse(s.draft[c], s.kinds[i])
	}
	return values
}

// Reset discards the draft and returns to the first field.
func (s *Session) Reset() {
	s.touch()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
}

func (s *Session) resetLocked() {
	s.idx = 0
	s.draft = make(map[string]string)
	s.seedLocked()
}

// First jumps to the first field, keeping the draft.
func (s *Session) First() {
	s.touch()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.idx = 0
	s.seedLocked()
}

// Last jumps to the last field, keeping the draft.
func (s *Session) Last() {
	s.touch()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.idx = len(s.columns) - 1
	s.seedLocked()
}

// Draft returns a copy of the raw draft values entered so far.
func (s *Session) Draft() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := make(map[string]string, len(s.draft))
	for k, v := range s.draft {
		d[k] = v
	}
	return d
}

// LastSaved returns the most recently saved row as typed values keyed
// by column name, or nil if nothing has been saved in this session.
func (s *Session) LastSaved() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lastRow == nil {
		return nil
	}
	row := make(map[string]any, len(s.lastRow))
	for k, v := range s.lastRow {
		row[k] = v
	}
	return row
}

// seedLocked ensures the current field has a draft entry: false for
// boolean fields, the empty string otherwise. Callers hold mu.
func (s *Session) seedLocked() {
	name := s.columns[s.idx]
	if _, ok := s.draft[name]; ok {
		return
	}
	if s.kinds[s.idx] == table.KindBool {
		s.draft[name] = "false"
	} else {
		s.draft[name] = ""
	}
}

func (s *Session) touch() {
	s.touched.Store(time.Now().UnixNano())
}

// idleSince returns the time of the last interaction.
func (s *Session) idleSince() time.Time {
	return time.Unix(0, s.touched.Load())
}
