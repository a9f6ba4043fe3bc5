package store

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNodeNotFound indicates an identifier matched no node.
	ErrNodeNotFound = errors.New("node not found")
	// ErrAmbiguousIdentifier indicates an identifier matched more than one node.
	ErrAmbiguousIdentifier = errors.New("ambiguous identifier")
	// ErrPathNotFound indicates a repository path does not exist.
	ErrPathNotFound = errors.New("not found in node repository")
	// ErrIsDirectory indicates a content read was attempted on a directory.
	ErrIsDirectory = errors.New("is a directory")
	// ErrNotDirectory indicates a listing was attempted on a file.
	ErrNotDirectory = errors.New("not a directory")
)

// ResolutionError reports a failed identifier resolution, carrying the
// identifier and, for ambiguous matches, the candidate node IDs.
type ResolutionError struct {
	Identifier string
	Matches    []int
	Err        error
}

func (e *ResolutionError) Error() string {
	if errors.Is(e.Err, ErrAmbiguousIdentifier) {
		return fmt.Sprintf("identifier %q is ambiguous (matches nodes %v)", e.Identifier, e.Matches)
	}
	return fmt.Sprintf("no node matches identifier %q", e.Identifier)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// PathError reports a failed repository path operation.
type PathError struct {
	Path string
	Err  error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("'%s' %s", e.Path, e.Err)
}

func (e *PathError) Unwrap() error { return e.Err }

// SplitPath normalizes a repository path into its components.
// "", ".", and "/" all mean the root (no components).
func SplitPath(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" || path == "." {
		return nil
	}
	var parts []string
	for _, p := range strings.Split(path, "/") {
		if p == "" || p == "." {
			continue
		}
		parts = append(parts, p)
	}
	return parts
}
