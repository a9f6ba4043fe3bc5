package sqlstore

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"magpie/internal/store"
)

// Seeding helpers. The shell itself is read-only; these exist for the
// importer and for tests.

// InsertNode writes a node row.
func (s *Store) InsertNode(n store.Node) error {
	attrs, err := marshalMap(n.Attributes)
	if err != nil {
		return fmt.Errorf("node %d: %w", n.ID, err)
	}
	extras, err := marshalMap(n.Extras)
	if err != nil {
		return fmt.Errorf("node %d: %w", n.ID, err)
	}
	_, err = s.db.Exec(
		`INSERT INTO nodes (id, uuid, kind, label, description, ctime, mtime, attributes, extras)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		n.ID, n.UUID, n.Kind, n.Label, n.Description,
		n.CTime.Format(time.RFC3339Nano), n.MTime.Format(time.RFC3339Nano),
		attrs, extras)
	return err
}

// InsertLink writes a link row; insertion order is the store order.
func (s *Store) InsertLink(l store.Link) error {
	if _, err := store.ParseLinkType(string(l.Type)); err != nil {
		return err
	}
	_, err := s.db.Exec(
		`INSERT INTO links (link_type, label, source_id, target_id) VALUES (?, ?, ?, ?)`,
		string(l.Type), l.Label, l.SourceID, l.TargetID)
	return err
}

// PutRepoDir creates a directory, along with any missing parents.
func (s *Store) PutRepoDir(nodeID int, path string) error {
	parts := store.SplitPath(path)
	if len(parts) == 0 {
		return fmt.Errorf("empty repository path")
	}
	return s.ensureDirs(nodeID, parts)
}

// PutRepoFile writes file content, creating parent directories as needed.
func (s *Store) PutRepoFile(nodeID int, path string, content []byte) error {
	parts := store.SplitPath(path)
	if len(parts) == 0 {
		return fmt.Errorf("empty repository path")
	}
	if err := s.ensureDirs(nodeID, parts[:len(parts)-1]); err != nil {
		return err
	}
	parent := strings.Join(parts[:len(parts)-1], "/")
	name := parts[len(parts)-1]
	_, err := s.db.Exec(
		`INSERT INTO repo_objects (node_id, parent, name, kind, content) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (node_id, parent, name) DO UPDATE SET kind = excluded.kind, content = excluded.content`,
		nodeID, parent, name, int(store.FileKindFile), content)
	return err
}

func (s *Store) ensureDirs(nodeID int, parts []string) error {
	for i := range parts {
		parent := strings.Join(parts[:i], "/")
		_, err := s.db.Exec(
			`INSERT OR IGNORE INTO repo_objects (node_id, parent, name, kind) VALUES (?, ?, ?, ?)`,
			nodeID, parent, parts[i], int(store.FileKindDirectory))
		if err != nil {
			return err
		}
	}
	return nil
}

func marshalMap(m map[string]interface{}) (string, error) {
	if m == nil {
		return "{}", nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
