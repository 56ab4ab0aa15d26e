package db

import (
	"database/sql"
	"fmt"
	"iter"
	"log/slog"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/dasdy/softkbd/model"
)

type SQLiteStorage struct {
	db *sql.DB
}

func InitDBStorage(db *sql.DB) error {
	sqlStmt := `
	create table if not exists keypresses(
		session text,
		layout text,
		content text,
		modifiers int,
		pressed bool,
		ts datetime);`

	_, err := db.Exec(sqlStmt)
	if err != nil {
		return fmt.Errorf("could not create table: %w", err)
	}

	sqlStmt = `create index if not exists keypresses_tsix on keypresses (ts ASC);`

	_, err = db.Exec(sqlStmt)
	if err != nil {
		return fmt.Errorf("could not create index: %w", err)
	}

	return nil
}

// NewStorageFromPath opens (or creates) the sqlite file at path. ":memory:"
// gives a private in-memory database.
func NewStorageFromPath(path string, verbose bool) (*SQLiteStorage, error) {
	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("could not open %s: %w", path, err)
	}

	// Every connection to ":memory:" is its own database.
	conn.SetMaxOpenConns(1)

	return NewStorageFromConnection(conn, verbose)
}

func NewStorageFromConnection(conn *sql.DB, verbose bool) (*SQLiteStorage, error) {
	if err := InitDBStorage(conn); err != nil {
		return nil, err
	}

	if verbose {
		var count int
		if err := conn.QueryRow(`select count(*) from keypresses`).Scan(&count); err != nil {
			return nil, fmt.Errorf("could not count events: %w", err)
		}

		slog.Info("Opened storage", "events", count)
	}

	return &SQLiteStorage{conn}, nil
}

func (s *SQLiteStorage) Store(event *model.KeyEvent) error {
	_, err := s.db.Exec(`insert into keypresses(session, layout, content, modifiers, pressed, ts)
	    values(?, ?, ?, ?, ?, datetime('now', 'subsec'))`,
		event.Session, event.Layout, event.Content, int(event.Modifiers), event.Pressed)
	if err != nil {
		return fmt.Errorf("could not store event: %w", err)
	}

	return nil
}

func (s *SQLiteStorage) storeWithTimestamp(tx *sql.Tx, event *model.KeyEventWithTimestamp) error {
	_, err := tx.Exec(`insert into keypresses(session, layout, content, modifiers, pressed, ts)
	    values(?, ?, ?, ?, ?, ?)`,
		event.Session, event.Layout, event.Content, int(event.Modifiers), event.Pressed,
		event.Timestamp.UTC().Format("2006-01-02 15:04:05.000"))
	if err != nil {
		return fmt.Errorf("could not store event: %w", err)
	}

	return nil
}

// GatherAll counts presses per layout and content, most pressed first.
func (s *SQLiteStorage) GatherAll() ([]model.KeyCount, error) {
	rows, err := s.db.Query(
		`select layout, content, count(*) as cnt
        from keypresses
        where pressed = true
        group by layout, content
        order by layout, cnt desc, content`)
	if err != nil {
		return nil, fmt.Errorf("could not query counts: %w", err)
	}

	defer rows.Close()

	result := make([]model.KeyCount, 0)

	for rows.Next() {
		var item model.KeyCount

		err = rows.Scan(&item.Layout, &item.Content, &item.Count)
		if err != nil {
			return nil, fmt.Errorf("could not scan counts: %w", err)
		}

		result = append(result, item)
	}

	return result, rows.Err()
}

// AllIterator walks every stored event in timestamp order. Scan errors stop
// the iteration and are logged.
func (s *SQLiteStorage) AllIterator() (iter.Seq[model.KeyEventWithTimestamp], error) {
	rows, err := s.db.Query(
		`select session, layout, content, modifiers, pressed, ts
        from keypresses
        order by ts, rowid`)
	if err != nil {
		return nil, fmt.Errorf("could not query events: %w", err)
	}

	return func(yield func(model.KeyEventWithTimestamp) bool) {
		defer rows.Close()

		for rows.Next() {
			var (
				item      model.KeyEventWithTimestamp
				modifiers int
				ts        time.Time
			)

			err := rows.Scan(&item.Session, &item.Layout, &item.Content, &modifiers, &item.Pressed, &ts)
			if err != nil {
				slog.Error("could not scan event", "error", err)

				return
			}

			item.Modifiers = model.KeyboardState(modifiers)
			item.Timestamp = ts

			if !yield(item) {
				return
			}
		}
	}, nil
}

// Merge copies every event of inputs into output, keeping timestamps.
func Merge(inputs []*SQLiteStorage, output *SQLiteStorage) error {
	tx, err := output.db.Begin()
	if err != nil {
		return fmt.Errorf("could not start transaction: %w", err)
	}

	for i, input := range inputs {
		events, err := input.AllIterator()
		if err != nil {
			_ = tx.Rollback()

			return fmt.Errorf("input %d: %w", i, err)
		}

		n := 0

		for event := range events {
			if err := output.storeWithTimestamp(tx, &event); err != nil {
				_ = tx.Rollback()

				return fmt.Errorf("input %d: %w", i, err)
			}

			n++
		}

		slog.Info("Merged input", "index", i, "events", n)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("could not commit merge: %w", err)
	}

	return nil
}

func (s *SQLiteStorage) Close() {
	if err := s.db.Close(); err != nil {
		slog.Error("could not close storage", "error", err)
	}
}
