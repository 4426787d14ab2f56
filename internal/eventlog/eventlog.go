// Package eventlog keeps an append-only operational log of connection,
// dispatch and restart events in SQLite. Logging is best-effort: a failed
// insert never fails the operation that triggered it.
package eventlog

import (
	"database/sql"
	"encoding/json"
	"log"
	"time"

	_ "modernc.org/sqlite"

	"castboard/internal/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS connection_events (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	screen_id TEXT NOT NULL,
	event TEXT NOT NULL,
	transport TEXT NOT NULL,
	user_agent TEXT NOT NULL DEFAULT '',
	source_ip TEXT NOT NULL DEFAULT '',
	city TEXT NOT NULL DEFAULT '',
	country TEXT NOT NULL DEFAULT '',
	at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_connection_events_at ON connection_events(at);

CREATE TABLE IF NOT EXISTS dispatch_events (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	screen_id TEXT NOT NULL,
	command TEXT NOT NULL,
	delivered INTEGER NOT NULL,
	at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_dispatch_events_at ON dispatch_events(at);

CREATE TABLE IF NOT EXISTS restart_events (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	reason TEXT NOT NULL,
	files_added TEXT NOT NULL DEFAULT '[]',
	at TIMESTAMP NOT NULL
);
`

type Log struct {
	db *sql.DB
}

func New(dbPath string) (*Log, error) {
	db, err := sql.Open("sqlite", "file:"+dbPath+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)&_time_format=sqlite")
	if err != nil {
		return nil, err
	}
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}
	return &Log{db: db}, nil
}

func (l *Log) Close() error {
	return l.db.Close()
}

func (l *Log) RecordConnection(ev models.ConnectionEvent) {
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	_, err := l.db.Exec(
		`INSERT INTO connection_events (screen_id, event, transport, user_agent, source_ip, city, country, at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		ev.ScreenID, ev.Event, ev.Transport, ev.UserAgent, ev.SourceIP, ev.City, ev.Country, ev.At,
	)
	if err != nil {
		log.Printf("eventlog: recording connection event: %v", err)
	}
}

func (l *Log) RecordDispatch(ev models.DispatchEvent) {
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	_, err := l.db.Exec(
		`INSERT INTO dispatch_events (screen_id, command, delivered, at) VALUES (?, ?, ?, ?)`,
		ev.ScreenID, ev.Command, boolToInt(ev.Delivered), ev.At,
	)
	if err != nil {
		log.Printf("eventlog: recording dispatch event: %v", err)
	}
}

func (l *Log) RecordRestart(ev models.RestartEvent) {
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now().UTC()
	}
	files, err := json.Marshal(ev.FilesAdded)
	if err != nil {
		files = []byte("[]")
	}
	if _, err := l.db.Exec(
		`INSERT INTO restart_events (reason, files_added, at) VALUES (?, ?, ?)`,
		ev.Reason, string(files), ev.Timestamp,
	); err != nil {
		log.Printf("eventlog: recording restart event: %v", err)
	}
}

func (l *Log) RecentConnections(limit int) ([]models.ConnectionEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := l.db.Query(
		`SELECT screen_id, event, transport, user_agent, source_ip, city, country, at
		 FROM connection_events ORDER BY at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.ConnectionEvent
	for rows.Next() {
		var ev models.ConnectionEvent
		if err := rows.Scan(&ev.ScreenID, &ev.Event, &ev.Transport, &ev.UserAgent, &ev.SourceIP, &ev.City, &ev.Country, &ev.At); err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

func (l *Log) RecentDispatches(limit int) ([]models.DispatchEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := l.db.Query(
		`SELECT screen_id, command, delivered, at FROM dispatch_events ORDER BY at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.DispatchEvent
	for rows.Next() {
		var ev models.DispatchEvent
		var delivered int
		if err := rows.Scan(&ev.ScreenID, &ev.Command, &delivered, &ev.At); err != nil {
			return nil, err
		}
		ev.Delivered = delivered != 0
		out = append(out, ev)
	}
	return out, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
