package wizard

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/AIforimpact22/rawand/internal/table"
	"github.com/google/uuid"
)

// Manager owns the shared table, its store, and the live sessions.
// Each browser session gets its own draft and position; they all append
// to the one table.
type Manager struct {
	store *table.Store

	mu       sync.Mutex
	tbl      *table.Table
	sessions map[string]*Session
}

// NewManager creates a manager over an already loaded table.
func NewManager(store *table.Store, tbl *table.Table) *Manager {
	return &Manager{
		store:    store,
		tbl:      tbl,
		sessions: make(map[string]*Session),
	}
}

// NewSession starts a wizard session over the current columns and
// returns it with a fresh UUID.
func (m *Manager) NewSession() (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, err := NewSession(uuid.NewString(), m.tbl.Columns(), m.tbl.Kinds(), m.appendRow)
	if err != nil {
		return nil, err
	}
	m.sessions[s.ID()] = s
	return s, nil
}

// Session returns the live session with the given ID, if any.
func (m *Manager) Session(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	return s, ok
}

// DropSession removes a session.
func (m *Manager) DropSession(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

// CreateHeaders replaces the table columns, persists the empty table,
// and invalidates existing sessions (their kinds no longer apply).
// It refuses to overwrite a table that already has columns.
func (m *Manager) CreateHeaders(names []string) error {
	if len(names) == 0 {
		return fmt.Errorf("at least one column name is required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.tbl.NumCols() > 0 {
		return fmt.Errorf("table already has %d columns", m.tbl.NumCols())
	}

	tbl := table.New(names...)
	if err := m.store.Save(tbl); err != nil {
		return fmt.Errorf("create headers: %w", err)
	}
	m.tbl = tbl
	m.sessions = make(map[string]*Session)
	return nil
}

// Path returns the file path of the underlying table store.
func (m *Manager) Path() string {
	return m.store.Path()
}

// HasColumns reports whether the table has any columns yet.
func (m *Manager) HasColumns() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tbl.NumCols() > 0
}

// Columns returns the table's column names.
func (m *Manager) Columns() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tbl.Columns()
}

// Kinds returns the inferred kind of each column.
func (m *Manager) Kinds() []table.Kind {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tbl.Kinds()
}

// Rows returns all table rows.
func (m *Manager) Rows() [][]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tbl.Rows()
}

// NumRows returns the table's row count.
func (m *Manager) NumRows() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tbl.NumRows()
}

// appendRow is the SaveFunc handed to sessions. It appends the typed
// row to the shared table, persists the whole file atomically, and
// reports the kinds re-inferred from the grown columns.
func (m *Manager) appendRow(values []table.Value) ([]table.Kind, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.tbl.AppendValues(values); err != nil {
		return nil, err
	}
	if err := m.store.Save(m.tbl); err != nil {
		return nil, err
	}
	return m.tbl.Kinds(), nil
}

// StartSweep expires idle sessions until the context is cancelled.
func (m *Manager) StartSweep(ctx context.Context, interval, ttl time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.sweep(ttl)
		}
	}
}

func (m *Manager) sweep(ttl time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, s := range m.sessions {
		if time.Since(s.idleSince()) > ttl {
			delete(m.sessions, id)
			slog.Debug("expired idle wizard session", "session_id", id)
		}
	}
}
