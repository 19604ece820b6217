package sleep

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore persists sessions in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sleep database: %w", err)
	}
	if err := createTables(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("create sleep tables: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func createTables(db *sql.DB) error {
	const createSessions = `
    CREATE TABLE IF NOT EXISTS sleep_sessions (
        seq INTEGER PRIMARY KEY AUTOINCREMENT,
        id TEXT NOT NULL UNIQUE,
        date INTEGER NOT NULL,
        sleep_time INTEGER,
        wake_time INTEGER,
        duration INTEGER NOT NULL,
        quality INTEGER NOT NULL,
        notes TEXT NOT NULL DEFAULT '',
        sounds TEXT NOT NULL
    );
    `
	if _, err := db.Exec(createSessions); err != nil {
		return fmt.Errorf("sleep_sessions: %w", err)
	}
	return nil
}

// Add inserts s. Later inserts list first.
func (s *SQLiteStore) Add(ctx context.Context, sess Session) error {
	sounds, err := json.Marshal(nonNil(sess.SoundsUsed))
	if err != nil {
		return fmt.Errorf("encode sounds: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		"INSERT INTO sleep_sessions (id, date, sleep_time, wake_time, duration, quality, notes, sounds) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		sess.ID, sess.Date.UnixNano(), unixNano(sess.SleepTime), unixNano(sess.WakeTime),
		sess.Duration, sess.Quality, sess.Notes, string(sounds))
	if err != nil {
		return fmt.Errorf("insert session %s: %w", sess.ID, err)
	}
	return nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]Session, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, date, sleep_time, wake_time, duration, quality, notes, sounds
		FROM sleep_sessions
		ORDER BY seq DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var out []Session
	for rows.Next() {
		var (
			sess        Session
			date        int64
			sleep, wake sql.NullInt64
			sounds      string
		)
		if err := rows.Scan(&sess.ID, &date, &sleep, &wake, &sess.Duration, &sess.Quality, &sess.Notes, &sounds); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		if err := json.Unmarshal([]byte(sounds), &sess.SoundsUsed); err != nil {
			return nil, fmt.Errorf("decode sounds of %s: %w", sess.ID, err)
		}
		sess.Date = time.Unix(0, date)
		sess.SleepTime = fromNull(sleep)
		sess.WakeTime = fromNull(wake)
		out = append(out, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read sessions: %w", err)
	}
	return out, nil
}

func unixNano(t *time.Time) sql.NullInt64 {
	if t == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.UnixNano(), Valid: true}
}

func fromNull(v sql.NullInt64) *time.Time {
	if !v.Valid {
		return nil
	}
	t := time.Unix(0, v.Int64)
	return &t
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
