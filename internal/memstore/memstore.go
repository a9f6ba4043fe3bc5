// Package memstore provides an in-process store.Store backed by plain Go
// values. It is the reference backend: tests build stores directly through
// the Add* methods, and the fixture loader builds one from a YAML file.
package memstore

import (
	"fmt"
	"strconv"
	"strings"

	"magpie/internal/store"
)

// minUUIDPrefix is the shortest UUID prefix accepted as an identifier.
const minUUIDPrefix = 4

type repoNode struct {
	name     string
	dir      bool
	content  []byte
	children []*repoNode // insertion order
}

func (r *repoNode) child(name string) *repoNode {
	for _, c := range r.children {
		if c.name == name {
			return c
		}
	}
	return nil
}

type record struct {
	node store.Node
	repo *repoNode
}

// Store is an in-memory store.Store.
type Store struct {
	profile string
	records []*record // insertion order
	byID    map[int]*record
	links   []store.Link
}

// New creates an empty store reporting the given profile name.
func New(profile string) *Store {
	return &Store{
		profile: profile,
		byID:    make(map[int]*record),
	}
}

// Add inserts a node. Adding a node with a duplicate ID is an error.
func (s *Store) Add(n store.Node) error {
	if _, ok := s.byID[n.ID]; ok {
		return fmt.Errorf("duplicate node ID %d", n.ID)
	}
	rec := &record{node: n, repo: &repoNode{dir: true}}
	s.records = append(s.records, rec)
	s.byID[n.ID] = rec
	return nil
}

// AddLink inserts a link between two known nodes.
func (s *Store) AddLink(l store.Link) error {
	if _, ok := s.byID[l.SourceID]; !ok {
		return fmt.Errorf("link source node %d not found", l.SourceID)
	}
	if _, ok := s.byID[l.TargetID]; !ok {
		return fmt.Errorf("link target node %d not found", l.TargetID)
	}
	if _, err := store.ParseLinkType(string(l.Type)); err != nil {
		return err
	}
	s.links = append(s.links, l)
	return nil
}

// AddRepoFile stores file content at path in the node's repository,
// creating intermediate directories as needed.
func (s *Store) AddRepoFile(nodeID int, path string, content []byte) error {
	return s.addRepoObject(nodeID, path, false, content)
}

// AddRepoDir creates a directory at path in the node's repository.
func (s *Store) AddRepoDir(nodeID int, path string) error {
	return s.addRepoObject(nodeID, path, true, nil)
}

func (s *Store) addRepoObject(nodeID int, path string, dir bool, content []byte) error {
	rec, ok := s.byID[nodeID]
	if !ok {
		return fmt.Errorf("node %d not found", nodeID)
	}
	parts := store.SplitPath(path)
	if len(parts) == 0 {
		return fmt.Errorf("empty repository path")
	}
	cur := rec.repo
	for i, part := range parts {
		last := i == len(parts)-1
		next := cur.child(part)
		if next == nil {
			next = &repoNode{name: part, dir: !last || dir}
			if last && !dir {
				next.content = content
			}
			cur.children = append(cur.children, next)
		} else if last {
			if next.dir != dir {
				return fmt.Errorf("repository object %q already exists with a different kind", path)
			}
			if !dir {
				next.content = content
			}
		} else if !next.dir {
			return fmt.Errorf("repository path %q crosses a file", path)
		}
		cur = next
	}
	return nil
}

// Resolve implements store.Store. Identifiers are tried as a numeric ID,
// then an exact UUID, then a UUID prefix or exact label; prefix and label
// matches hitting more than one node are ambiguous.
func (s *Store) Resolve(identifier string) (*store.Node, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, &store.ResolutionError{Identifier: identifier, Err: store.ErrNodeNotFound}
	}

	if id, err := strconv.Atoi(identifier); err == nil {
		if rec, ok := s.byID[id]; ok {
			n := rec.node
			return &n, nil
		}
		return nil, &store.ResolutionError{Identifier: identifier, Err: store.ErrNodeNotFound}
	}

	for _, rec := range s.records {
		if rec.node.UUID == identifier {
			n := rec.node
			return &n, nil
		}
	}

	var matches []*record
	for _, rec := range s.records {
		if len(identifier) >= minUUIDPrefix && strings.HasPrefix(rec.node.UUID, identifier) {
			matches = append(matches, rec)
			continue
		}
		if rec.node.Label != "" && rec.node.Label == identifier {
			matches = append(matches, rec)
		}
	}

	switch len(matches) {
	case 0:
		return nil, &store.ResolutionError{Identifier: identifier, Err: store.ErrNodeNotFound}
	case 1:
		n := matches[0].node
		return &n, nil
	default:
		ids := make([]int, len(matches))
		for i, rec := range matches {
			ids[i] = rec.node.ID
		}
		return nil, &store.ResolutionError{Identifier: identifier, Matches: ids, Err: store.ErrAmbiguousIdentifier}
	}
}

// Links implements store.Store, preserving insertion order.
func (s *Store) Links(nodeID int, dir store.Direction, filter *store.LinkType) ([]store.Link, error) {
	if _, ok := s.byID[nodeID]; !ok {
		return nil, fmt.Errorf("node %d not found", nodeID)
	}
	var out []store.Link
	for _, l := range s.links {
		if dir == store.Incoming && l.TargetID != nodeID {
			continue
		}
		if dir == store.Outgoing && l.SourceID != nodeID {
			continue
		}
		if filter != nil && l.Type != *filter {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}

// ListRepo implements store.Store.
func (s *Store) ListRepo(nodeID int, path string) ([]store.RepoObject, error) {
	target, err := s.lookupRepo(nodeID, path)
	if err != nil {
		return nil, err
	}
	if !target.dir {
		return nil, &store.PathError{Path: path, Err: store.ErrNotDirectory}
	}
	out := make([]store.RepoObject, 0, len(target.children))
	for _, c := range target.children {
		kind := store.FileKindFile
		if c.dir {
			kind = store.FileKindDirectory
		}
		out = append(out, store.RepoObject{Name: c.name, Kind: kind})
	}
	return out, nil
}

// ReadRepoFile implements store.Store.
func (s *Store) ReadRepoFile(nodeID int, path string) ([]byte, error) {
	target, err := s.lookupRepo(nodeID, path)
	if err != nil {
		return nil, err
	}
	if target.dir {
		return nil, &store.PathError{Path: path, Err: store.ErrIsDirectory}
	}
	content := make([]byte, len(target.content))
	copy(content, target.content)
	return content, nil
}

func (s *Store) lookupRepo(nodeID int, path string) (*repoNode, error) {
	rec, ok := s.byID[nodeID]
	if !ok {
		return nil, fmt.Errorf("node %d not found", nodeID)
	}
	cur := rec.repo
	for _, part := range store.SplitPath(path) {
		if !cur.dir {
			return nil, &store.PathError{Path: path, Err: store.ErrPathNotFound}
		}
		cur = cur.child(part)
		if cur == nil {
			return nil, &store.PathError{Path: path, Err: store.ErrPathNotFound}
		}
	}
	return cur, nil
}

// Profile implements store.Store.
func (s *Store) Profile() string { return s.profile }

// Close implements store.Store; nothing to release.
func (s *Store) Close() error { return nil }

// Nodes returns all nodes in insertion order. Used by the importer.
func (s *Store) Nodes() []store.Node {
	out := make([]store.Node, len(s.records))
	for i, rec := range s.records {
		out[i] = rec.node
	}
	return out
}

// AllLinks returns all links in insertion order. Used by the importer.
func (s *Store) AllLinks() []store.Link {
	out := make([]store.Link, len(s.links))
	copy(out, s.links)
	return out
}

// WalkRepo visits every object in a node's repository, parents before
// children, passing the full path, the object, and file content.
func (s *Store) WalkRepo(nodeID int, fn func(path string, obj store.RepoObject, content []byte) error) error {
	rec, ok := s.byID[nodeID]
	if !ok {
		return fmt.Errorf("node %d not found", nodeID)
	}
	return walkRepo(rec.repo, "", fn)
}

func walkRepo(dir *repoNode, prefix string, fn func(string, store.RepoObject, []byte) error) error {
	for _, c := range dir.children {
		path := prefix + c.name
		if c.dir {
			if err := fn(path, store.RepoObject{Name: c.name, Kind: store.FileKindDirectory}, nil); err != nil {
				return err
			}
			if err := walkRepo(c, path+"/", fn); err != nil {
				return err
			}
			continue
		}
		if err := fn(path, store.RepoObject{Name: c.name, Kind: store.FileKindFile}, c.content); err != nil {
			return err
		}
	}
	return nil
}
