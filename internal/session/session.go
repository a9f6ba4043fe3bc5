// Package session tracks which node, if any, is currently loaded.
package session

import (
	"errors"
	"fmt"

	"magpie/internal/store"
)

// ErrNoNode is reported when a node-scoped command runs with no current node.
var ErrNoNode = errors.New("no node loaded")

// noProfile is shown when the store reports no profile name.
const noProfile = "NO_PROFILE"

// Session holds the single current-node reference and the cached profile
// label. One Session lives for the whole shell invocation; the shell is
// single-threaded, so no locking is needed.
type Session struct {
	store   store.Store
	current *store.Node
	profile string
}

// New creates a Session reading through st. No node is loaded.
func New(st store.Store) *Session {
	return &Session{store: st}
}

// Store returns the store this session reads through.
func (s *Session) Store() store.Store { return s.store }

// Load resolves identifier and makes the result the current node.
// On failure the previous current node, if any, is left unchanged.
func (s *Session) Load(identifier string) (*store.Node, error) {
	n, err := s.store.Resolve(identifier)
	if err != nil {
		return nil, err
	}
	s.current = n
	return n, nil
}

// Unload clears the current node unconditionally.
func (s *Session) Unload() { s.current = nil }

// Require returns the current node, or ErrNoNode if none is loaded.
// Every node-scoped handler calls this before doing any other work.
func (s *Session) Require() (*store.Node, error) {
	if s.current == nil {
		return nil, ErrNoNode
	}
	return s.current, nil
}

// Current returns the current node, or nil.
func (s *Session) Current() *store.Node { return s.current }

// Profile returns the profile label, resolved once and then cached for
// the process lifetime.
func (s *Session) Profile() string {
	if s.profile == "" {
		s.profile = s.store.Profile()
		if s.profile == "" {
			s.profile = noProfile
		}
	}
	return s.profile
}

// DisplayLabel returns a short tag identifying the current node for
// prompt rendering, or "" when no node is loaded.
func (s *Session) DisplayLabel() string {
	if s.current == nil {
		return ""
	}
	return fmt.Sprintf("%s<%d>", s.current.Kind, s.current.ID)
}

// Prompt returns the shell prompt for the current state.
func (s *Session) Prompt() string {
	if s.current != nil {
		return fmt.Sprintf("(%s@%s) ", s.DisplayLabel(), s.Profile())
	}
	return fmt.Sprintf("(%s) ", s.Profile())
}
