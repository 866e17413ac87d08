// Package sessions persists decision models in SQLite and serializes
// access to them.
//
// A session is one named model. The store keeps the model as a JSON record
// and an append-only log of every derivation that changed or collided with
// its matrix.
package sessions

import (
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/HendryAvila/eudoxa/internal/errors"
	"github.com/HendryAvila/eudoxa/internal/eudoxa"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// ─── Types ───────────────────────────────────────────────────────────────────

// Config holds store settings.
type Config struct {
	DataDir string
}

// Session is a stored model's metadata. Revision counts saves.
type Session struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Revision  int64  `json:"revision"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// LoggedDerivation is one row of the derivation log.
type LoggedDerivation struct {
	ID        int64    `json:"id"`
	SessionID string   `json:"session_id"`
	Kind      string   `json:"kind"`
	Rule      string   `json:"rule"`
	Operands  []string `json:"operands,omitempty"`
	Fact      string   `json:"fact"`
	Value     string   `json:"value"`
	Prior     string   `json:"prior"`
	CreatedAt string   `json:"created_at"`
}

// Store is the SQLite persistence layer.
type Store struct {
	db *sql.DB
}

// New opens (or creates) the database under cfg.DataDir.
func New(cfg Config) (*Store, error) {
	if err := os.MkdirAll(cfg.DataDir, 0700); err != nil {
		return nil, errors.Wrap(err, "sessions: create data dir")
	}

	dbPath := filepath.Join(cfg.DataDir, "eudoxa.db")
	db, err := openDB("sqlite", dbPath)
	if err != nil {
		return nil, errors.Wrap(err, "sessions: open database")
	}
	// Pragmas are per connection.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA foreign_keys = ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, errors.Wrapf(err, "sessions: pragma %q", p)
		}
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "sessions: migration")
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// ─── Migrations ──────────────────────────────────────────────────────────────

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS sessions (
			id         TEXT PRIMARY KEY,
			name       TEXT    NOT NULL,
			model      TEXT    NOT NULL,
			revision   INTEGER NOT NULL DEFAULT 0,
			created_at TEXT    NOT NULL DEFAULT (datetime('now')),
			updated_at TEXT    NOT NULL DEFAULT (datetime('now'))
		);

		CREATE TABLE IF NOT EXISTS derivations (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			kind       TEXT NOT NULL,
			rule       TEXT NOT NULL,
			operands   TEXT NOT NULL DEFAULT '[]',
			fact       TEXT NOT NULL,
			value      TEXT NOT NULL,
			prior      TEXT NOT NULL,
			created_at TEXT NOT NULL DEFAULT (datetime('now')),
			FOREIGN KEY (session_id) REFERENCES sessions(id) ON DELETE CASCADE
		);

		CREATE INDEX IF NOT EXISTS idx_deriv_session ON derivations(session_id, id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// ─── Sessions ────────────────────────────────────────────────────────────────

// CreateSession stores a new session holding rec and returns its metadata.
// A nil rec stores an empty model.
func (s *Store) CreateSession(name string, rec *eudoxa.Record) (*Session, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.NewInvalidRequest("session name is empty")
	}
	if rec == nil {
		rec = eudoxa.New().Record()
	}
	data, err := rec.JSON()
	if err != nil {
		return nil, errors.Wrap(err, "encode model")
	}

	id := uuid.NewString()
	if _, err := s.db.Exec(
		`INSERT INTO sessions (id, name, model) VALUES (?, ?, ?)`,
		id, name, string(data),
	); err != nil {
		return nil, errors.Wrap(err, "insert session")
	}
	return s.GetSession(id)
}

// GetSession retrieves a session's metadata by ID.
func (s *Store) GetSession(id string) (*Session, error) {
	row := s.db.QueryRow(
		`SELECT id, name, revision, created_at, updated_at FROM sessions WHERE id = ?`, id,
	)
	var sess Session
	if err := row.Scan(&sess.ID, &sess.Name, &sess.Revision, &sess.CreatedAt, &sess.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, unknownSession(id)
		}
		return nil, errors.Wrapf(err, "get session %s", id)
	}
	return &sess, nil
}

// LoadRecord returns the stored model record of a session.
func (s *Store) LoadRecord(id string) (*eudoxa.Record, error) {
	var data string
	err := s.db.QueryRow(`SELECT model FROM sessions WHERE id = ?`, id).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, unknownSession(id)
		}
		return nil, errors.Wrapf(err, "load session %s", id)
	}
	rec, err := eudoxa.ParseRecord([]byte(data))
	if err != nil {
		return nil, errors.Wrapf(err, "decode session %s", id)
	}
	return rec, nil
}

// ListSessions returns every session, most recently updated first.
func (s *Store) ListSessions() ([]Session, error) {
	rows, err := s.db.Query(
		`SELECT id, name, revision, created_at, updated_at
		 FROM sessions ORDER BY updated_at DESC, created_at DESC, name`,
	)
	if err != nil {
		return nil, errors.Wrap(err, "list sessions")
	}
	defer func() { _ = rows.Close() }()

	var out []Session
	for rows.Next() {
		var sess Session
		if err := rows.Scan(&sess.ID, &sess.Name, &sess.Revision, &sess.CreatedAt, &sess.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, sess)
	}
	return out, rows.Err()
}

// SaveModel replaces a session's model and bumps its revision.
func (s *Store) SaveModel(id string, rec *eudoxa.Record) error {
	data, err := rec.JSON()
	if err != nil {
		return errors.Wrap(err, "encode model")
	}
	res, err := s.db.Exec(
		`UPDATE sessions SET model = ?, revision = revision + 1, updated_at = datetime('now') WHERE id = ?`,
		string(data), id,
	)
	if err != nil {
		return errors.Wrapf(err, "save session %s", id)
	}
	return requireRow(res, id)
}

// DeleteSession removes a session and its derivation log.
func (s *Store) DeleteSession(id string) error {
	res, err := s.db.Exec(`DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return errors.Wrapf(err, "delete session %s", id)
	}
	return requireRow(res, id)
}

// ─── Derivation log ──────────────────────────────────────────────────────────

// LogDerivations appends a trail in one transaction.
func (s *Store) LogDerivations(id string, trail []eudoxa.Derivation) error {
	if len(trail) == 0 {
		return nil
	}
	tx, err := s.db.Begin()
	if err != nil {
		return errors.Wrap(err, "begin derivation log")
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(
		`INSERT INTO derivations (session_id, kind, rule, operands, fact, value, prior)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return errors.Wrap(err, "prepare derivation insert")
	}
	defer func() { _ = stmt.Close() }()

	for _, d := range trail {
		operands := make([]string, len(d.Origin.Operands))
		for i, op := range d.Origin.Operands {
			operands[i] = op.String()
		}
		ops, err := json.Marshal(operands)
		if err != nil {
			return errors.Wrap(err, "encode operands")
		}
		rule := string(d.Origin.Rule)
		if d.Origin.Label != "" {
			rule += " " + d.Origin.Label
		}
		if _, err := stmt.Exec(
			id, string(d.Kind), rule, string(ops),
			d.Left.String()+" ⊒ "+d.Right.String(), d.Value.Name(), d.Prior.Name(),
		); err != nil {
			if strings.Contains(err.Error(), "FOREIGN KEY") {
				return unknownSession(id)
			}
			return errors.Wrap(err, "insert derivation")
		}
	}
	return tx.Commit()
}

// Derivations returns the latest limit log entries of a session, oldest
// first. limit <= 0 returns all of them.
func (s *Store) Derivations(id string, limit int) ([]LoggedDerivation, error) {
	if _, err := s.GetSession(id); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.Query(
		`SELECT id, session_id, kind, rule, operands, fact, value, prior, created_at FROM (
			SELECT * FROM derivations WHERE session_id = ? ORDER BY id DESC LIMIT ?
		 ) ORDER BY id`,
		id, limit,
	)
	if err != nil {
		return nil, errors.Wrapf(err, "query derivations of %s", id)
	}
	defer func() { _ = rows.Close() }()

	var out []LoggedDerivation
	for rows.Next() {
		var (
			ld  LoggedDerivation
			ops string
		)
		if err := rows.Scan(&ld.ID, &ld.SessionID, &ld.Kind, &ld.Rule, &ops,
			&ld.Fact, &ld.Value, &ld.Prior, &ld.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(ops), &ld.Operands); err != nil {
			return nil, errors.Wrapf(err, "decode operands of derivation %d", ld.ID)
		}
		out = append(out, ld)
	}
	return out, rows.Err()
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

func unknownSession(id string) error {
	return errors.WithHint(
		errors.NewUnknownReference("session %q", id),
		"list sessions with eudoxa_session_list",
	)
}

func requireRow(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return unknownSession(id)
	}
	return nil
}
