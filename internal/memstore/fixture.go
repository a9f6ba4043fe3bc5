package memstore

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"magpie/internal/store"
)

// fixtureFile is the YAML shape of a store fixture.
type fixtureFile struct {
	Profile string        `yaml:"profile"`
	Nodes   []fixtureNode `yaml:"nodes"`
	Links   []fixtureLink `yaml:"links"`
}

type fixtureNode struct {
	ID          int                    `yaml:"id"`
	UUID        string                 `yaml:"uuid"`
	Kind        string                 `yaml:"kind"`
	Label       string                 `yaml:"label"`
	Description string                 `yaml:"description"`
	CTime       time.Time              `yaml:"ctime"`
	MTime       time.Time              `yaml:"mtime"`
	Attributes  map[string]interface{} `yaml:"attributes"`
	Extras      map[string]interface{} `yaml:"extras"`
	Repo        []fixtureRepoEntry     `yaml:"repo"`
}

// fixtureRepoEntry is one repository object. A path with a trailing slash
// declares a directory; anything else is a file with optional content.
type fixtureRepoEntry struct {
	Path    string `yaml:"path"`
	Content string `yaml:"content"`
}

type fixtureLink struct {
	Type   string `yaml:"type"`
	Label  string `yaml:"label"`
	Source int    `yaml:"source"`
	Target int    `yaml:"target"`
}

// LoadFile builds a Store from a YAML fixture file.
func LoadFile(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture: %w", err)
	}
	return Load(data)
}

// Load builds a Store from YAML fixture data.
func Load(data []byte) (*Store, error) {
	var f fixtureFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse fixture: %w", err)
	}
	if f.Profile == "" {
		f.Profile = "fixture"
	}

	s := New(f.Profile)
	for _, fn := range f.Nodes {
		if fn.UUID == "" {
			return nil, fmt.Errorf("node %d: missing uuid", fn.ID)
		}
		if err := s.Add(store.Node{
			ID:          fn.ID,
			UUID:        fn.UUID,
			Kind:        fn.Kind,
			Label:       fn.Label,
			Description: fn.Description,
			CTime:       fn.CTime,
			MTime:       fn.MTime,
			Attributes:  fn.Attributes,
			Extras:      fn.Extras,
		}); err != nil {
			return nil, err
		}
		for _, entry := range fn.Repo {
			if strings.HasSuffix(entry.Path, "/") {
				if err := s.AddRepoDir(fn.ID, entry.Path); err != nil {
					return nil, fmt.Errorf("node %d: %w", fn.ID, err)
				}
				continue
			}
			if err := s.AddRepoFile(fn.ID, entry.Path, []byte(entry.Content)); err != nil {
				return nil, fmt.Errorf("node %d: %w", fn.ID, err)
			}
		}
	}

	for _, fl := range f.Links {
		lt, err := store.ParseLinkType(fl.Type)
		if err != nil {
			return nil, err
		}
		if err := s.AddLink(store.Link{
			Type:     lt,
			Label:    fl.Label,
			SourceID: fl.Source,
			TargetID: fl.Target,
		}); err != nil {
			return nil, err
		}
	}

	return s, nil
}
