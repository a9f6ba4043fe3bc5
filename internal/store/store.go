// Package store defines the node graph data model and the capability
// interface the shell reads through. Any backend that can resolve nodes,
// answer link queries, and serve repository listings satisfies Store;
// the shell never depends on a concrete implementation.
package store

import (
	"fmt"
	"sort"
	"time"
)

// FileKind distinguishes files from directories in a node repository.
type FileKind int

const (
	FileKindFile FileKind = iota
	FileKindDirectory
)

// Tag returns the one-letter kind tag used by long listings.
func (k FileKind) Tag() string {
	if k == FileKindDirectory {
		return "d"
	}
	return "f"
}

// Direction selects incoming or outgoing links of a node.
type Direction int

const (
	Incoming Direction = iota
	Outgoing
)

// LinkType is a member of the store's closed link type enumeration.
type LinkType string

const (
	LinkCreate LinkType = "CREATE"
	LinkInput  LinkType = "INPUT"
	LinkReturn LinkType = "RETURN"
	LinkCall   LinkType = "CALL"
)

var linkTypes = map[LinkType]struct{}{
	LinkCreate: {},
	LinkInput:  {},
	LinkReturn: {},
	LinkCall:   {},
}

// ParseLinkType validates s against the closed enumeration.
func ParseLinkType(s string) (LinkType, error) {
	lt := LinkType(s)
	if _, ok := linkTypes[lt]; !ok {
		return "", fmt.Errorf("invalid link type %q (valid: %v)", s, LinkTypeNames())
	}
	return lt, nil
}

// LinkTypeNames returns the enumeration members, sorted.
func LinkTypeNames() []string {
	names := make([]string, 0, len(linkTypes))
	for lt := range linkTypes {
		names = append(names, string(lt))
	}
	sort.Strings(names)
	return names
}

// Node is an immutable, identifier-addressed entity. The shell only ever
// reads nodes; it never creates, deletes, or mutates one.
type Node struct {
	ID          int
	UUID        string
	Kind        string
	Label       string
	Description string
	CTime       time.Time
	MTime       time.Time
	Attributes  map[string]interface{}
	Extras      map[string]interface{}
}

// Link is a typed, labeled directed edge between two nodes.
type Link struct {
	Type     LinkType
	Label    string
	SourceID int
	TargetID int
}

// Neighbor returns the ID of the node on the far side of the link,
// given the direction the link was queried in.
func (l Link) Neighbor(dir Direction) int {
	if dir == Incoming {
		return l.SourceID
	}
	return l.TargetID
}

// RepoObject is one entry in a node's repository tree.
type RepoObject struct {
	Name string
	Kind FileKind
}

// Store is the capability interface the shell reads through.
//
// Resolve maps an identifier (numeric ID, UUID or unique UUID prefix,
// or exact label) to a node; failures are ResolutionErrors. Links returns
// the node's links in the given direction, optionally filtered by type,
// in the store's own order. ListRepo and ReadRepoFile serve the node's
// virtual repository tree; paths are /-separated and "" or "." means the
// repository root.
type Store interface {
	Resolve(identifier string) (*Node, error)
	Links(nodeID int, dir Direction, filter *LinkType) ([]Link, error)
	ListRepo(nodeID int, path string) ([]RepoObject, error)
	ReadRepoFile(nodeID int, path string) ([]byte, error)
	Profile() string
	Close() error
}
