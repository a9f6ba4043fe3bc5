// Package sqlstore provides a store.Store backed by a SQLite database.
package sqlstore

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"magpie/internal/store"
)

const schemaVersion = 1

const minUUIDPrefix = 4

// Store is a SQLite-backed store.Store.
type Store struct {
	db      *sql.DB
	profile string
}

// Open opens or creates the database at path. The profile name is what
// the shell reports for this connection.
func Open(path, profile string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	s := &Store{db: db, profile: profile}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) initialize() error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS nodes (
			id INTEGER PRIMARY KEY,
			uuid TEXT UNIQUE NOT NULL,
			kind TEXT NOT NULL DEFAULT '',
			label TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			ctime TEXT NOT NULL,
			mtime TEXT NOT NULL,
			attributes TEXT NOT NULL DEFAULT '{}',
			extras TEXT NOT NULL DEFAULT '{}'
		)`,
		`CREATE TABLE IF NOT EXISTS links (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			link_type TEXT NOT NULL,
			label TEXT NOT NULL DEFAULT '',
			source_id INTEGER NOT NULL REFERENCES nodes(id),
			target_id INTEGER NOT NULL REFERENCES nodes(id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_links_source ON links(source_id)`,
		`CREATE INDEX IF NOT EXISTS idx_links_target ON links(target_id)`,
		`CREATE TABLE IF NOT EXISTS repo_objects (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			node_id INTEGER NOT NULL REFERENCES nodes(id),
			parent TEXT NOT NULL,
			name TEXT NOT NULL,
			kind INTEGER NOT NULL,
			content BLOB,
			UNIQUE (node_id, parent, name)
		)`,
	}
	for _, stmt := range schema {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to initialize schema: %w", err)
		}
	}
	_, err := s.db.Exec(
		`INSERT OR IGNORE INTO meta (key, value) VALUES ('schema_version', ?)`,
		strconv.Itoa(schemaVersion),
	)
	if err != nil {
		return fmt.Errorf("failed to record schema version: %w", err)
	}
	var version string
	err = s.db.QueryRow(`SELECT value FROM meta WHERE key = 'schema_version'`).Scan(&version)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if version != strconv.Itoa(schemaVersion) {
		return fmt.Errorf("incompatible database schema version %s (want %d)", version, schemaVersion)
	}
	return nil
}

// Resolve implements store.Store with the same identifier semantics as
// memstore: numeric ID, exact UUID, then UUID prefix or exact label.
func (s *Store) Resolve(identifier string) (*store.Node, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, &store.ResolutionError{Identifier: identifier, Err: store.ErrNodeNotFound}
	}

	if id, err := strconv.Atoi(identifier); err == nil {
		n, err := s.nodeBy(`id = ?`, id)
		if err == sql.ErrNoRows {
			return nil, &store.ResolutionError{Identifier: identifier, Err: store.ErrNodeNotFound}
		}
		return n, err
	}

	if n, err := s.nodeBy(`uuid = ?`, identifier); err == nil {
		return n, nil
	} else if err != sql.ErrNoRows {
		return nil, err
	}

	query := `SELECT id FROM nodes WHERE label != '' AND label = ?`
	args := []interface{}{identifier}
	if len(identifier) >= minUUIDPrefix {
		query += ` UNION SELECT id FROM nodes WHERE uuid LIKE ? || '%'`
		args = append(args, identifier)
	}
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	switch len(ids) {
	case 0:
		return nil, &store.ResolutionError{Identifier: identifier, Err: store.ErrNodeNotFound}
	case 1:
		return s.nodeBy(`id = ?`, ids[0])
	default:
		return nil, &store.ResolutionError{Identifier: identifier, Matches: ids, Err: store.ErrAmbiguousIdentifier}
	}
}

func (s *Store) nodeBy(where string, arg interface{}) (*store.Node, error) {
	row := s.db.QueryRow(
		`SELECT id, uuid, kind, label, description, ctime, mtime, attributes, extras
		 FROM nodes WHERE `+where, arg)

	var n store.Node
	var ctime, mtime, attrs, extras string
	if err := row.Scan(&n.ID, &n.UUID, &n.Kind, &n.Label, &n.Description, &ctime, &mtime, &attrs, &extras); err != nil {
		return nil, err
	}

	var err error
	if n.CTime, err = time.Parse(time.RFC3339Nano, ctime); err != nil {
		return nil, fmt.Errorf("node %d: bad ctime: %w", n.ID, err)
	}
	if n.MTime, err = time.Parse(time.RFC3339Nano, mtime); err != nil {
		return nil, fmt.Errorf("node %d: bad mtime: %w", n.ID, err)
	}
	if err := json.Unmarshal([]byte(attrs), &n.Attributes); err != nil {
		return nil, fmt.Errorf("node %d: bad attributes: %w", n.ID, err)
	}
	if err := json.Unmarshal([]byte(extras), &n.Extras); err != nil {
		return nil, fmt.Errorf("node %d: bad extras: %w", n.ID, err)
	}
	return &n, nil
}

// Links implements store.Store, preserving insertion order.
func (s *Store) Links(nodeID int, dir store.Direction, filter *store.LinkType) ([]store.Link, error) {
	col := "target_id"
	if dir == store.Outgoing {
		col = "source_id"
	}
	query := `SELECT link_type, label, source_id, target_id FROM links WHERE ` + col + ` = ?`
	args := []interface{}{nodeID}
	if filter != nil {
		query += ` AND link_type = ?`
		args = append(args, string(*filter))
	}
	query += ` ORDER BY id`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.Link
	for rows.Next() {
		var l store.Link
		var lt string
		if err := rows.Scan(&lt, &l.Label, &l.SourceID, &l.TargetID); err != nil {
			return nil, err
		}
		l.Type = store.LinkType(lt)
		out = append(out, l)
	}
	return out, rows.Err()
}

// ListRepo implements store.Store.
func (s *Store) ListRepo(nodeID int, path string) ([]store.RepoObject, error) {
	parent := strings.Join(store.SplitPath(path), "/")
	if parent != "" {
		kind, err := s.repoKind(nodeID, parent)
		if err != nil {
			return nil, err
		}
		if kind != store.FileKindDirectory {
			return nil, &store.PathError{Path: path, Err: store.ErrNotDirectory}
		}
	}

	rows, err := s.db.Query(
		`SELECT name, kind FROM repo_objects WHERE node_id = ? AND parent = ? ORDER BY id`,
		nodeID, parent)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []store.RepoObject{}
	for rows.Next() {
		var obj store.RepoObject
		var kind int
		if err := rows.Scan(&obj.Name, &kind); err != nil {
			return nil, err
		}
		obj.Kind = store.FileKind(kind)
		out = append(out, obj)
	}
	return out, rows.Err()
}

// ReadRepoFile implements store.Store.
func (s *Store) ReadRepoFile(nodeID int, path string) ([]byte, error) {
	clean := strings.Join(store.SplitPath(path), "/")
	if clean == "" {
		return nil, &store.PathError{Path: path, Err: store.ErrIsDirectory}
	}
	parent, name := splitParent(clean)
	var kind int
	var content []byte
	err := s.db.QueryRow(
		`SELECT kind, content FROM repo_objects WHERE node_id = ? AND parent = ? AND name = ?`,
		nodeID, parent, name).Scan(&kind, &content)
	if err == sql.ErrNoRows {
		return nil, &store.PathError{Path: path, Err: store.ErrPathNotFound}
	}
	if err != nil {
		return nil, err
	}
	if store.FileKind(kind) == store.FileKindDirectory {
		return nil, &store.PathError{Path: path, Err: store.ErrIsDirectory}
	}
	return content, nil
}

func (s *Store) repoKind(nodeID int, clean string) (store.FileKind, error) {
	parent, name := splitParent(clean)
	var kind int
	err := s.db.QueryRow(
		`SELECT kind FROM repo_objects WHERE node_id = ? AND parent = ? AND name = ?`,
		nodeID, parent, name).Scan(&kind)
	if err == sql.ErrNoRows {
		return 0, &store.PathError{Path: clean, Err: store.ErrPathNotFound}
	}
	if err != nil {
		return 0, err
	}
	return store.FileKind(kind), nil
}

func splitParent(clean string) (parent, name string) {
	if i := strings.LastIndex(clean, "/"); i >= 0 {
		return clean[:i], clean[i+1:]
	}
	return "", clean
}

// Profile implements store.Store.
func (s *Store) Profile() string { return s.profile }

// Close implements store.Store.
func (s *Store) Close() error { return s.db.Close() }
