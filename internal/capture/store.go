package capture

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/casemap/internal/paths"
	"github.com/mesh-intelligence/casemap/pkg/types"
)

// Store is the capture database of one data directory.
type Store struct {
	mu      sync.RWMutex
	open    bool
	dataDir string
	db      *sql.DB
	logger  *slog.Logger
}

// Open prepares the store in dataDir, creating the directory when needed.
// The database file is recreated and loaded from captures.jsonl. A nil
// logger discards output.
func Open(ctx context.Context, dataDir string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	dbPath := filepath.Join(dataDir, paths.CaptureDBName)
	_ = os.Remove(dbPath)

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("create schema: %w", err)
		}
	}

	s := &Store{dataDir: dataDir, db: db, logger: logger}
	if err := s.load(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("load %s: %w", paths.CaptureJSONLName, err)
	}
	s.open = true
	return s, nil
}

// Close releases the database. Close is idempotent.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.open {
		return nil
	}
	s.open = false
	return s.db.Close()
}

func (s *Store) jsonlPath() string {
	return filepath.Join(s.dataDir, paths.CaptureJSONLName)
}

// load inserts every record of captures.jsonl in one transaction and creates
// an empty file when none exists.
func (s *Store) load(ctx context.Context) error {
	path := s.jsonlPath()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.WriteFile(path, nil, 0o644); err != nil {
			return fmt.Errorf("create %s: %w", path, err)
		}
	}

	records, skipped, err := readJSONLFile(path)
	if err != nil {
		return err
	}
	if skipped > 0 {
		s.logger.Warn("skipped malformed capture lines", "file", path, "count", skipped)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin load: %w", err)
	}
	defer tx.Rollback()

	for _, rec := range records {
		var c Capture
		if err := json.Unmarshal(rec, &c); err != nil || c.ID == "" {
			s.logger.Warn("skipped capture record", "file", path, "error", err)
			continue
		}
		if err := insert(ctx, tx, c); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insert(ctx context.Context, db execer, c Capture) error {
	_, err := db.ExecContext(ctx,
		`INSERT OR REPLACE INTO captures (`+captureColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.CapturedAt.UTC().Format(time.RFC3339), c.Method, c.URL, c.EntityType,
		c.EntityID, c.StatusCode, c.Request, c.Response, c.Error, c.DurationMS,
	)
	if err != nil {
		return fmt.Errorf("insert capture %s: %w", c.ID, err)
	}
	return nil
}

// Add stores c, assigning an id and timestamp when they are unset, and
// returns the stored capture.
func (s *Store) Add(ctx context.Context, c Capture) (Capture, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.open {
		return Capture{}, types.ErrStoreClosed
	}
	if c.ID == "" {
		c.ID = generateID()
	}
	if c.CapturedAt.IsZero() {
		c.CapturedAt = time.Now()
	}
	c.CapturedAt = c.CapturedAt.UTC().Truncate(time.Second)

	if err := insert(ctx, s.db, c); err != nil {
		return Capture{}, err
	}
	if err := s.persistLocked(ctx); err != nil {
		return Capture{}, err
	}
	return c, nil
}

// Record stores a client call result. It lets a Store serve as the
// client's recorder.
func (s *Store) Record(ctx context.Context, r types.CallResult) error {
	c, err := s.Add(ctx, FromCallResult(r))
	if err != nil {
		return err
	}
	s.logger.Debug("captured call", "id", c.ID, "method", c.Method, "url", c.URL)
	return nil
}

// Get returns one capture by id.
func (s *Store) Get(ctx context.Context, id string) (Capture, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.open {
		return Capture{}, types.ErrStoreClosed
	}
	row := s.db.QueryRowContext(ctx,
		`SELECT `+captureColumns+` FROM captures WHERE capture_id = ?`, id)
	c, err := scanCapture(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Capture{}, fmt.Errorf("capture %s: %w", id, types.ErrCaptureNotFound)
	}
	return c, err
}

// List returns the captures matching f, oldest first.
func (s *Store) List(ctx context.Context, f Filter) ([]Capture, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.open {
		return nil, types.ErrStoreClosed
	}
	return s.listLocked(ctx, f)
}

func (s *Store) listLocked(ctx context.Context, f Filter) ([]Capture, error) {
	var (
		where []string
		args  []any
	)
	if f.EntityType != "" {
		where = append(where, "entity_type = ? COLLATE NOCASE")
		args = append(args, f.EntityType)
	}
	if f.Method != "" {
		where = append(where, "method = ? COLLATE NOCASE")
		args = append(args, f.Method)
	}
	if f.FailedOnly {
		where = append(where, "(error != '' OR status_code < 200 OR status_code >= 300)")
	}

	query := `SELECT ` + captureColumns + ` FROM captures`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY captured_at, capture_id"
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query captures: %w", err)
	}
	defer rows.Close()

	out := []Capture{}
	for rows.Next() {
		c, err := scanCapture(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate captures: %w", err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCapture(row scanner) (Capture, error) {
	var (
		c          Capture
		capturedAt string
	)
	err := row.Scan(&c.ID, &capturedAt, &c.Method, &c.URL, &c.EntityType, &c.EntityID,
		&c.StatusCode, &c.Request, &c.Response, &c.Error, &c.DurationMS)
	if err != nil {
		return Capture{}, err
	}
	if t, err := time.Parse(time.RFC3339, capturedAt); err == nil {
		c.CapturedAt = t
	}
	return c, nil
}

// Import reads JSONL captures from r. Records with an id already in the
// store replace it; malformed lines are skipped. It returns the number of
// captures imported.
func (s *Store) Import(ctx context.Context, r io.Reader) (int, error) {
	records, skipped, err := readJSONL(r)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.open {
		return 0, types.ErrStoreClosed
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback()

	n := 0
	for _, rec := range records {
		var c Capture
		if err := json.Unmarshal(rec, &c); err != nil {
			skipped++
			continue
		}
		if c.ID == "" {
			c.ID = generateID()
		}
		if c.CapturedAt.IsZero() {
			c.CapturedAt = time.Now()
		}
		if err := insert(ctx, tx, c); err != nil {
			return 0, err
		}
		n++
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit import: %w", err)
	}
	if skipped > 0 {
		s.logger.Warn("skipped malformed import lines", "count", skipped)
	}
	if err := s.persistLocked(ctx); err != nil {
		return 0, err
	}
	return n, nil
}

// Export writes every capture to w as JSONL, oldest first, and returns the
// number written.
func (s *Store) Export(ctx context.Context, w io.Writer) (int, error) {
	captures, err := s.List(ctx, Filter{})
	if err != nil {
		return 0, err
	}
	enc := json.NewEncoder(w)
	for i, c := range captures {
		if err := enc.Encode(c); err != nil {
			return i, fmt.Errorf("write capture %s: %w", c.ID, err)
		}
	}
	return len(captures), nil
}

// persistLocked rewrites captures.jsonl from the database. The caller must
// hold the write lock.
func (s *Store) persistLocked(ctx context.Context) error {
	captures, err := s.listLocked(ctx, Filter{})
	if err != nil {
		return err
	}
	records := make([]json.RawMessage, 0, len(captures))
	for _, c := range captures {
		b, err := json.Marshal(c)
		if err != nil {
			return fmt.Errorf("marshal capture %s: %w", c.ID, err)
		}
		records = append(records, b)
	}
	if err := writeJSONL(s.jsonlPath(), records); err != nil {
		return fmt.Errorf("persist %s: %w", paths.CaptureJSONLName, err)
	}
	return nil
}
