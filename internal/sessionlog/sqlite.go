package sessionlog

import (
	"database/sql"
	"embed"
	"fmt"
	"time"

	"github.com/banshee-data/propmount/internal/errors"
	"github.com/banshee-data/propmount/internal/monitoring"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// ErrSessionNotFound is returned when a session id has no rows.
var ErrSessionNotFound = errors.New("session not found")

// SQLiteStore keeps every session's events and mount times in SQLite so
// sessions can be compared across operators.
type SQLiteStore struct {
	db    *sql.DB
	owned bool
}

// OpenSQLiteStore opens (or creates) the database at path and applies
// pending migrations.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	if err := migrateUp(db); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db, owned: true}, nil
}

// NewSQLiteStore wraps an existing database, applying pending
// migrations. Close does not close db.
func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	if err := migrateUp(db); err != nil {
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

func migrateUp(db *sql.DB) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}
	driver, err := sqlite.WithInstance(db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("failed to create sqlite driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	m.Log = migrateLogger{}

	// m is not closed: that would close db.
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration up failed: %w", err)
	}
	return nil
}

// migrateLogger implements migrate.Logger.
type migrateLogger struct{}

func (migrateLogger) Printf(format string, v ...interface{}) {
	monitoring.Logf("[migrate] "+format, v...)
}

func (migrateLogger) Verbose() bool { return false }

// Record implements Sink. The session row is created on first use.
func (s *SQLiteStore) Record(r Record) error {
	if _, err := s.db.Exec(
		`INSERT OR IGNORE INTO mount_sessions (session_id, started_at) VALUES (?, ?)`,
		r.SessionID, r.At.UnixNano(),
	); err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	if _, err := s.db.Exec(
		`INSERT INTO mount_events (event_id, session_id, at_ns, event) VALUES (?, ?, ?, ?)`,
		uuid.New().String(), r.SessionID, r.At.UnixNano(), r.Event,
	); err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// Summary implements Sink.
func (s *SQLiteStore) Summary(sum Summary) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin summary: %w", err)
	}
	defer tx.Rollback()

	completed := sum.Started.Add(sum.Total)
	if _, err := tx.Exec(`
		INSERT INTO mount_sessions (session_id, started_at, total_ns, completed_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(session_id) DO UPDATE SET
			total_ns = excluded.total_ns,
			completed_at = excluded.completed_at`,
		sum.SessionID, sum.Started.UnixNano(), int64(sum.Total), completed.UnixNano(),
	); err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}
	for i, d := range sum.Slots {
		if _, err := tx.Exec(
			`INSERT OR REPLACE INTO slot_mount_times (session_id, slot_number, duration_ns) VALUES (?, ?, ?)`,
			sum.SessionID, i+1, int64(d),
		); err != nil {
			return fmt.Errorf("insert slot %d time: %w", i+1, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit summary: %w", err)
	}
	return nil
}

// Close implements Sink.
func (s *SQLiteStore) Close() error {
	if !s.owned {
		return nil
	}
	return s.db.Close()
}

// Events returns a session's records in time order.
func (s *SQLiteStore) Events(sessionID string) ([]Record, error) {
	rows, err := s.db.Query(`
		SELECT at_ns, event FROM mount_events
		WHERE session_id = ?
		ORDER BY at_ns, rowid`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var at int64
		r := Record{SessionID: sessionID}
		if err := rows.Scan(&at, &r.Event); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		r.At = time.Unix(0, at).UTC()
		out = append(out, r)
	}
	return out, rows.Err()
}

// LoadSummary returns a completed session's summary.
func (s *SQLiteStore) LoadSummary(sessionID string) (Summary, error) {
	var started int64
	var total sql.NullInt64
	err := s.db.QueryRow(
		`SELECT started_at, total_ns FROM mount_sessions WHERE session_id = ?`, sessionID,
	).Scan(&started, &total)
	if errors.Is(err, sql.ErrNoRows) {
		return Summary{}, errors.Wrapf(ErrSessionNotFound, "%s", sessionID)
	}
	if err != nil {
		return Summary{}, fmt.Errorf("query session: %w", err)
	}

	sum := Summary{
		SessionID: sessionID,
		Started:   time.Unix(0, started).UTC(),
		Total:     time.Duration(total.Int64),
	}

	rows, err := s.db.Query(`
		SELECT duration_ns FROM slot_mount_times
		WHERE session_id = ?
		ORDER BY slot_number`, sessionID)
	if err != nil {
		return Summary{}, fmt.Errorf("query slot times: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var d int64
		if err := rows.Scan(&d); err != nil {
			return Summary{}, fmt.Errorf("scan slot time: %w", err)
		}
		sum.Slots = append(sum.Slots, time.Duration(d))
	}
	return sum, rows.Err()
}

// CompletedSessions returns the ids of sessions with a summary, oldest first.
func (s *SQLiteStore) CompletedSessions() ([]string, error) {
	rows, err := s.db.Query(`
		SELECT session_id FROM mount_sessions
		WHERE total_ns IS NOT NULL
		ORDER BY started_at`)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
