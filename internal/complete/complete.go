// Package complete implements the tab-completion strategies for the
// shell: the depth-bounded hierarchical path completers for repository
// paths, and the key/enum completers for mapping keys and link types.
//
// All completers are pure functions over (session, typed-text). They run
// inside the line editor's completion callback, so they must not mutate
// session state and must stay cheap: the path completers look exactly one
// level past the current folder instead of recursing into the whole tree.
package complete

import (
	"sort"
	"strings"

	"magpie/internal/session"
	"magpie/internal/store"
)

// Dirs completes a repository path against directories only. Candidates
// are the directories inside the partial path's folder whose names match
// the typed prefix, plus each survivor's immediate subdirectories, all
// fully path-qualified. A folder that does not exist or is a file yields
// no candidates.
func Dirs(sess *session.Session, partial string) []string {
	return repoCandidates(sess, partial, false)
}

// Entries completes a repository path against both files and directories.
// Same two-level scheme as Dirs, except files appear as terminal
// candidates at both levels and only directories are expanded.
func Entries(sess *session.Session, partial string) []string {
	return repoCandidates(sess, partial, true)
}

func repoCandidates(sess *session.Session, partial string, includeFiles bool) []string {
	node, err := sess.Require()
	if err != nil {
		return nil
	}
	st := sess.Store()

	// Split at the last separator: folder keeps the trailing slash so
	// candidates come back already qualified.
	folder, prefix := splitLast(partial)

	objs, err := st.ListRepo(node.ID, strings.TrimSuffix(folder, "/"))
	if err != nil {
		return nil
	}

	var out []string
	for _, obj := range objs {
		if !strings.HasPrefix(obj.Name, prefix) {
			continue
		}
		if obj.Kind != store.FileKindDirectory {
			if includeFiles {
				out = append(out, folder+obj.Name)
			}
			continue
		}

		dir := folder + obj.Name + "/"
		out = append(out, dir)

		children, err := st.ListRepo(node.ID, strings.TrimSuffix(dir, "/"))
		if err != nil {
			continue
		}
		for _, child := range children {
			if child.Kind == store.FileKindDirectory {
				out = append(out, dir+child.Name+"/")
			} else if includeFiles {
				out = append(out, dir+child.Name)
			}
		}
	}
	return out
}

func splitLast(partial string) (folder, prefix string) {
	i := strings.LastIndexByte(partial, '/')
	if i < 0 {
		return "", partial
	}
	return partial[:i+1], partial[i+1:]
}

// AttrKeys returns a completer over the current node's attribute keys.
func AttrKeys(sess *session.Session) func(prefix string) []string {
	return keyCompleter(sess, func(n *store.Node) map[string]interface{} { return n.Attributes })
}

// ExtraKeys returns a completer over the current node's extra keys.
func ExtraKeys(sess *session.Session) func(prefix string) []string {
	return keyCompleter(sess, func(n *store.Node) map[string]interface{} { return n.Extras })
}

func keyCompleter(sess *session.Session, pick func(*store.Node) map[string]interface{}) func(string) []string {
	return func(prefix string) []string {
		node, err := sess.Require()
		if err != nil {
			return nil
		}
		var out []string
		for key := range pick(node) {
			if strings.HasPrefix(key, prefix) {
				out = append(out, key)
			}
		}
		sort.Strings(out)
		return out
	}
}

// LinkTypes returns a completer over the closed link type enumeration.
func LinkTypes() func(prefix string) []string {
	return func(prefix string) []string {
		var out []string
		for _, name := range store.LinkTypeNames() {
			if strings.HasPrefix(name, prefix) {
				out = append(out, name)
			}
		}
		return out
	}
}
