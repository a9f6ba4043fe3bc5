package store

import (
	"errors"
	"reflect"
	"testing"
)

func TestParseLinkType(t *testing.T) {
	for _, name := range []string{"CREATE", "INPUT", "RETURN", "CALL"} {
		lt, err := ParseLinkType(name)
		if err != nil {
			t.Fatalf("ParseLinkType(%q): %v", name, err)
		}
		if string(lt) != name {
			t.Errorf("got %q, want %q", lt, name)
		}
	}

	for _, name := range []string{"create", "LINK", "", "CREATED"} {
		if _, err := ParseLinkType(name); err == nil {
			t.Errorf("expected error for %q", name)
		}
	}
}

func TestLinkTypeNamesSorted(t *testing.T) {
	names := LinkTypeNames()
	want := []string{"CALL", "CREATE", "INPUT", "RETURN"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("got %v, want %v", names, want)
	}
}

func TestLinkNeighbor(t *testing.T) {
	l := Link{Type: LinkCreate, SourceID: 1, TargetID: 3}
	if got := l.Neighbor(Incoming); got != 1 {
		t.Errorf("incoming neighbor: got %d, want 1", got)
	}
	if got := l.Neighbor(Outgoing); got != 3 {
		t.Errorf("outgoing neighbor: got %d, want 3", got)
	}
}

func TestSplitPath(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{".", nil},
		{"/", nil},
		{"docs", []string{"docs"}},
		{"docs/sub", []string{"docs", "sub"}},
		{"docs/sub/", []string{"docs", "sub"}},
		{"/docs//sub", []string{"docs", "sub"}},
		{"./docs", []string{"docs"}},
	}
	for _, tt := range tests {
		if got := SplitPath(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("SplitPath(%q): got %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFileKindTag(t *testing.T) {
	if FileKindFile.Tag() != "f" || FileKindDirectory.Tag() != "d" {
		t.Error("unexpected kind tags")
	}
}

func TestResolutionErrorUnwrap(t *testing.T) {
	err := &ResolutionError{Identifier: "x", Err: ErrNodeNotFound}
	if !errors.Is(err, ErrNodeNotFound) {
		t.Error("expected errors.Is to see ErrNodeNotFound")
	}

	amb := &ResolutionError{Identifier: "x", Matches: []int{1, 2}, Err: ErrAmbiguousIdentifier}
	if !errors.Is(amb, ErrAmbiguousIdentifier) {
		t.Error("expected errors.Is to see ErrAmbiguousIdentifier")
	}
}
