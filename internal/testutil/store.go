// Package testutil provides shared fixtures for shell tests.
package testutil

import (
	"testing"
	"time"

	"magpie/internal/memstore"
	"magpie/internal/store"
)

// DemoCtime and DemoMtime are the timestamps of the demo calculation node.
var (
	DemoCtime = time.Date(2025, 1, 10, 9, 30, 0, 0, time.UTC)
	DemoMtime = time.Date(2025, 1, 10, 11, 2, 0, 0, time.UTC)
)

// DemoStore builds a small three-node store with links in both
// directions and the repository tree
//
//	docs/
//	  a.txt
//	  sub/
//	    b.txt
//	readme.md
//
// on node 1.
func DemoStore(t *testing.T) *memstore.Store {
	t.Helper()
	s := memstore.New("demo")

	nodes := []store.Node{
		{
			ID: 1, UUID: "6f7ce1d2-9b3a-4c2e-8f41-0a5d2c7b9e10",
			Kind: "Calc", Label: "relax", Description: "structure relaxation",
			CTime: DemoCtime, MTime: DemoMtime,
			Attributes: map[string]interface{}{
				"cutoff":    520,
				"scheduler": "slurm",
				"kpoints":   []interface{}{4, 4, 4},
			},
			Extras: map[string]interface{}{
				"tagged": true,
				"owner":  "ada",
			},
		},
		{
			ID: 2, UUID: "91b8f3a4-1d26-4d9f-b0e7-55c3a821f004",
			Kind: "Data", Label: "structure",
			CTime: DemoCtime.Add(-time.Hour), MTime: DemoCtime.Add(-time.Hour),
		},
		{
			ID: 3, UUID: "c4a1b7e9-83f5-4e06-9dd2-7c08d9b1a2c3",
			Kind: "Data", Label: "output",
			CTime: DemoMtime, MTime: DemoMtime,
		},
	}
	for _, n := range nodes {
		if err := s.Add(n); err != nil {
			t.Fatalf("Add(%d): %v", n.ID, err)
		}
	}

	links := []store.Link{
		{Type: store.LinkInput, Label: "structure", SourceID: 2, TargetID: 1},
		{Type: store.LinkCall, Label: "caller", SourceID: 3, TargetID: 1},
		{Type: store.LinkCreate, Label: "result", SourceID: 1, TargetID: 3},
	}
	for _, l := range links {
		if err := s.AddLink(l); err != nil {
			t.Fatalf("AddLink(%v): %v", l, err)
		}
	}

	repo := []struct {
		path    string
		content string
	}{
		{"docs/a.txt", "alpha\n"},
		{"docs/sub/b.txt", "beta\n"},
		{"readme.md", "# readme\n"},
	}
	for _, f := range repo {
		if err := s.AddRepoFile(1, f.path, []byte(f.content)); err != nil {
			t.Fatalf("AddRepoFile(%s): %v", f.path, err)
		}
	}

	return s
}
