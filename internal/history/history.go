// Package history records past searches in a local SQLite database.
package history

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SchemaVersion is the history database schema version, stored in
// PRAGMA user_version.
const SchemaVersion = 1

var (
	// ErrIncompatibleSchema indicates the database was written by a
	// different figq version and cannot be used as-is.
	ErrIncompatibleSchema = errors.New("history database schema is incompatible")
	// ErrHistoryLocked indicates another figq process holds the write lock.
	ErrHistoryLocked = errors.New("history database is locked")
)

// Store is the SQLite history database handle.
type Store struct {
	db       *sql.DB
	lockPath string
}

// Entry is one recorded search.
type Entry struct {
	ID          int64
	SearchedAt  time.Time
	Scene       string
	Query       string
	Status      string
	ResultCount int
	DurationMS  int64
}

// Path returns the history database path inside stateDir.
func Path(stateDir string) string {
	return filepath.Join(stateDir, "history.db")
}

// Open opens or creates the history database under stateDir.
// Returns ErrIncompatibleSchema if the database was written by an
// unknown schema version; use OpenWithRebuild to recover from that.
func Open(stateDir string) (*Store, error) {
	if err := os.MkdirAll(stateDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}

	db, err := openAndInit(Path(stateDir))
	if err != nil {
		return nil, err
	}

	return &Store{db: db, lockPath: filepath.Join(stateDir, "history.lock")}, nil
}

// OpenWithRebuild opens the history database, resetting it when the
// existing file is incompatible or unreadable. History is disposable,
// so losing old rows beats refusing to record new ones.
// Returns (store, wasRebuilt, error).
func OpenWithRebuild(stateDir string) (*Store, bool, error) {
	store, err := Open(stateDir)
	if err == nil {
		return store, false, nil
	}

	if rmErr := removeDatabaseFiles(Path(stateDir)); rmErr != nil {
		return nil, false, rmErr
	}
	store, err = Open(stateDir)
	return store, true, err
}

// OpenInMemory opens an in-memory history store (for testing).
func OpenInMemory() (*Store, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, err
	}
	// Every pooled connection would get its own empty in-memory database.
	db.SetMaxOpenConns(1)
	if err := initialize(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func openAndInit(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	if err := initialize(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// initialize creates the schema. A non-zero user_version that is not
// SchemaVersion means the file belongs to a different figq version.
func initialize(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("failed to read history schema version: %w", err)
	}
	if version != 0 && version != SchemaVersion {
		return ErrIncompatibleSchema
	}

	schema := `
		PRAGMA journal_mode = WAL;
		PRAGMA synchronous = NORMAL;

		CREATE TABLE IF NOT EXISTS searches (
			id INTEGER PRIMARY KEY,
			searched_at TEXT NOT NULL,
			scene TEXT NOT NULL,
			query TEXT NOT NULL,
			status TEXT NOT NULL,
			result_count INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_searches_at ON searches(searched_at);
	`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize history schema: %w", err)
	}

	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", SchemaVersion)); err != nil {
		return fmt.Errorf("failed to set history schema version: %w", err)
	}
	return nil
}

func removeDatabaseFiles(dbPath string) error {
	paths := []string{dbPath, dbPath + "-wal", dbPath + "-shm"}
	for _, p := range paths {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to remove %s: %w", p, err)
		}
	}
	return nil
}

// Record inserts one search row. A zero SearchedAt means now.
func (s *Store) Record(e Entry) error {
	lock, err := s.acquireLock()
	if err != nil {
		return err
	}
	defer lock.Release()

	at := e.SearchedAt
	if at.IsZero() {
		at = time.Now()
	}

	_, err = s.db.Exec(`
		INSERT INTO searches (searched_at, scene, query, status, result_count, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?)
	`, at.UTC().Format(time.RFC3339), e.Scene, e.Query, e.Status, e.ResultCount, e.DurationMS)
	if err != nil {
		return fmt.Errorf("failed to record search: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first. limit <= 0 means
// no limit. A non-empty scene restricts results to that scene path.
func (s *Store) Recent(limit int, scene string) ([]Entry, error) {
	if limit <= 0 {
		limit = -1
	}

	var (
		rows *sql.Rows
		err  error
	)
	if scene == "" {
		rows, err = s.db.Query(`
			SELECT id, searched_at, scene, query, status, result_count, duration_ms
			FROM searches ORDER BY searched_at DESC, id DESC LIMIT ?
		`, limit)
	} else {
		rows, err = s.db.Query(`
			SELECT id, searched_at, scene, query, status, result_count, duration_ms
			FROM searches WHERE scene = ? ORDER BY searched_at DESC, id DESC LIMIT ?
		`, scene, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var at string
		if err := rows.Scan(&e.ID, &at, &e.Scene, &e.Query, &e.Status, &e.ResultCount, &e.DurationMS); err != nil {
			return nil, err
		}
		// Unparseable timestamps stay zero rather than failing the listing.
		if t, err := time.Parse(time.RFC3339, at); err == nil {
			e.SearchedAt = t
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// Count returns the total number of recorded searches.
func (s *Store) Count() (int, error) {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM searches").Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// Clear deletes history rows. A non-empty scene restricts the delete
// to that scene path. Returns the number of rows removed.
func (s *Store) Clear(scene string) (int, error) {
	lock, err := s.acquireLock()
	if err != nil {
		return 0, err
	}
	defer lock.Release()

	var res sql.Result
	if scene == "" {
		res, err = s.db.Exec("DELETE FROM searches")
	} else {
		res, err = s.db.Exec("DELETE FROM searches WHERE scene = ?", scene)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to clear history: %w", err)
	}
	return rowsAffected(res), nil
}

// Prune deletes all but the newest max entries. Returns the number of
// rows removed. max <= 0 is a no-op.
func (s *Store) Prune(max int) (int, error) {
	if max <= 0 {
		return 0, nil
	}

	lock, err := s.acquireLock()
	if err != nil {
		return 0, err
	}
	defer lock.Release()

	res, err := s.db.Exec(`
		DELETE FROM searches WHERE id NOT IN (
			SELECT id FROM searches ORDER BY searched_at DESC, id DESC LIMIT ?
		)
	`, max)
	if err != nil {
		return 0, fmt.Errorf("failed to prune history: %w", err)
	}
	return rowsAffected(res), nil
}

func rowsAffected(res sql.Result) int {
	n, err := res.RowsAffected()
	if err != nil {
		return 0
	}
	return int(n)
}

type writeLock struct {
	file *os.File
}

// acquireLock takes an exclusive advisory lock on the sidecar lock
// file so concurrent figq processes do not interleave writes. In-memory
// stores skip locking.
func (s *Store) acquireLock() (*writeLock, error) {
	if s.lockPath == "" {
		return &writeLock{}, nil
	}

	lockFile, err := os.OpenFile(s.lockPath, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open history lock: %w", err)
	}

	if err := lockFileExclusiveNonBlocking(lockFile); err != nil {
		lockFile.Close()
		if isWouldBlockError(err) {
			return nil, ErrHistoryLocked
		}
		return nil, fmt.Errorf("failed to acquire history lock: %w", err)
	}

	return &writeLock{file: lockFile}, nil
}

func (l *writeLock) Release() error {
	if l == nil || l.file == nil {
		return nil
	}
	unlockErr := unlockFile(l.file)
	closeErr := l.file.Close()
	if unlockErr != nil {
		return unlockErr
	}
	return closeErr
}
