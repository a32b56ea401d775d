// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/jeranaias/threadchat/internal/model"
)

// ErrEmptyThreadID is returned when appending to a thread without an id.
var ErrEmptyThreadID = errors.New("thread id is empty")

// timeLayout is how created_at columns are written.
const timeLayout = time.RFC3339Nano

// =============================================================================
// THREAD STORE
// =============================================================================

// ThreadStore persists threads and their conversations in SQLite.
//
// The pool is limited to one connection, so writers are serialised by the
// driver and every append runs in its own transaction.
type ThreadStore struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// Open opens (or creates) the database at path.
func Open(path string) (*ThreadStore, error) {
	if path == "" {
		return nil, errors.New("database path is empty")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	ts := &ThreadStore{db: db, path: path, now: time.Now}
	if err := ts.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return ts, nil
}

func (s *ThreadStore) initSchema() error {
	if _, err := s.db.Exec(Schema); err != nil {
		return err
	}
	if _, err := s.db.Exec(InitMetadata); err != nil {
		return err
	}
	if _, err := s.db.Exec(initSchemaVersion, strconv.Itoa(SchemaVersion)); err != nil {
		return err
	}

	v, err := s.schemaVersion()
	if err != nil {
		return err
	}
	if v > SchemaVersion {
		return fmt.Errorf("database schema version %d is newer than supported version %d", v, SchemaVersion)
	}
	return nil
}

func (s *ThreadStore) schemaVersion() (int, error) {
	var raw string
	if err := s.db.QueryRow(`SELECT value FROM metadata WHERE key = 'schema_version'`).Scan(&raw); err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid schema version %q", raw)
	}
	return v, nil
}

// Path returns the database file.
func (s *ThreadStore) Path() string {
	return s.path
}

// Close closes the database.
func (s *ThreadStore) Close() error {
	return s.db.Close()
}

// =============================================================================
// READ OPERATIONS
// =============================================================================

// ListThreads returns every thread in creation order with its conversations
// in append order.
func (s *ThreadStore) ListThreads(ctx context.Context) ([]model.Thread, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM threads ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("list threads: %w", err)
	}
	var threads []model.Thread
	index := make(map[string]int)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan thread: %w", err)
		}
		index[id] = len(threads)
		threads = append(threads, model.NewThread(id))
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("list threads: %w", err)
	}
	rows.Close()

	rows, err = s.db.QueryContext(ctx, `
		SELECT c.thread_id, c.prompt, c.response, c.created_at
		FROM conversations c
		JOIN threads t ON t.id = c.thread_id
		ORDER BY t.seq, c.position`)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var threadID string
		c, err := scanConversation(rows, &threadID)
		if err != nil {
			return nil, err
		}
		i, ok := index[threadID]
		if !ok {
			continue
		}
		threads[i].Conversations = append(threads[i].Conversations, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}

	if threads == nil {
		threads = []model.Thread{}
	}
	return threads, nil
}

// GetThread returns one thread. The boolean is false when it does not exist.
func (s *ThreadStore) GetThread(ctx context.Context, id string) (model.Thread, bool, error) {
	return getThread(ctx, s.db, id)
}

// queryer is satisfied by *sql.DB and *sql.Tx.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func getThread(ctx context.Context, q queryer, id string) (model.Thread, bool, error) {
	var seq int64
	err := q.QueryRowContext(ctx, `SELECT seq FROM threads WHERE id = ?`, id).Scan(&seq)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Thread{}, false, nil
	}
	if err != nil {
		return model.Thread{}, false, fmt.Errorf("get thread %s: %w", id, err)
	}

	rows, err := q.QueryContext(ctx, `
		SELECT thread_id, prompt, response, created_at
		FROM conversations
		WHERE thread_id = ?
		ORDER BY position`, id)
	if err != nil {
		return model.Thread{}, false, fmt.Errorf("get conversations %s: %w", id, err)
	}
	defer rows.Close()

	thread := model.NewThread(id)
	for rows.Next() {
		var threadID string
		c, err := scanConversation(rows, &threadID)
		if err != nil {
			return model.Thread{}, false, err
		}
		thread.Conversations = append(thread.Conversations, c)
	}
	if err := rows.Err(); err != nil {
		return model.Thread{}, false, fmt.Errorf("get conversations %s: %w", id, err)
	}
	return thread, true, nil
}

func scanConversation(rows *sql.Rows, threadID *string) (model.Conversation, error) {
	var prompt, response, createdAt string
	if err := rows.Scan(threadID, &prompt, &response, &createdAt); err != nil {
		return model.Conversation{}, fmt.Errorf("scan conversation: %w", err)
	}
	return model.Conversation{
		Prompt:    prompt,
		Response:  response,
		CreatedAt: model.ParseTimestamp(createdAt),
	}, nil
}

// =============================================================================
// WRITE OPERATIONS
// =============================================================================

// AppendConversation adds c to the end of thread threadID, creating the
// thread if needed, and returns the thread as stored. An unset CreatedAt is
// stamped with the current time.
func (s *ThreadStore) AppendConversation(ctx context.Context, threadID string, c model.Conversation) (model.Thread, error) {
	if threadID == "" {
		return model.Thread{}, ErrEmptyThreadID
	}
	now := s.now().UTC()
	if !c.CreatedAt.IsSet() && c.CreatedAt.Raw == "" {
		c.CreatedAt = model.NewTimestamp(now)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Thread{}, fmt.Errorf("begin append: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO threads (id, created_at) VALUES (?, ?)`,
		threadID, now.Format(timeLayout),
	); err != nil {
		return model.Thread{}, fmt.Errorf("create thread %s: %w", threadID, err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO conversations (thread_id, position, prompt, response, created_at)
		VALUES (?, (SELECT COALESCE(MAX(position), -1) + 1 FROM conversations WHERE thread_id = ?), ?, ?, ?)`,
		threadID, threadID, c.Prompt, c.Response, formatTimestamp(c.CreatedAt),
	); err != nil {
		return model.Thread{}, fmt.Errorf("append conversation %s: %w", threadID, err)
	}

	thread, _, err := getThread(ctx, tx, threadID)
	if err != nil {
		return model.Thread{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.Thread{}, fmt.Errorf("commit append: %w", err)
	}
	return thread, nil
}

// formatTimestamp writes parsed times as RFC 3339 UTC and keeps
// unparseable raw text unchanged.
func formatTimestamp(ts model.Timestamp) string {
	if ts.IsSet() {
		return ts.Time.UTC().Format(timeLayout)
	}
	return ts.Raw
}

// Count returns the number of threads.
func (s *ThreadStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM threads`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count threads: %w", err)
	}
	return n, nil
}
