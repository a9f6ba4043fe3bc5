package complete_test

import (
	"reflect"
	"testing"

	"magpie/internal/complete"
	"magpie/internal/memstore"
	"magpie/internal/session"
	"magpie/internal/store"
)

// completionStore builds the layout the path completers are specified
// against:
//
//	calcs/
//	  relax/
//	    in.yaml
//	  scf/
//	data/
//	notes.txt
func completionStore(t *testing.T) *session.Session {
	t.Helper()
	st := memstore.New("demo")
	if err := st.Add(store.Node{ID: 1, UUID: "0a1b2c3d-0000-0000-0000-000000000001", Kind: "Calc", Label: "relax"}); err != nil {
		t.Fatal(err)
	}
	dirs := []string{"calcs", "calcs/relax", "calcs/scf", "data"}
	for _, d := range dirs {
		if err := st.AddRepoDir(1, d); err != nil {
			t.Fatal(err)
		}
	}
	if err := st.AddRepoFile(1, "calcs/relax/in.yaml", []byte("x: 1\n")); err != nil {
		t.Fatal(err)
	}
	if err := st.AddRepoFile(1, "notes.txt", []byte("hi\n")); err != nil {
		t.Fatal(err)
	}
	sess := session.New(st)
	if _, err := sess.Load("1"); err != nil {
		t.Fatal(err)
	}
	return sess
}

func TestDirs(t *testing.T) {
	sess := completionStore(t)

	tests := []struct {
		name    string
		partial string
		want    []string
	}{
		{
			name:    "empty partial lists root dirs plus one level",
			partial: "",
			want:    []string{"calcs/", "calcs/relax/", "calcs/scf/", "data/"},
		},
		{
			name:    "prefix filters before expansion",
			partial: "c",
			want:    []string{"calcs/", "calcs/relax/", "calcs/scf/"},
		},
		{
			name:    "inside a folder",
			partial: "calcs/",
			want:    []string{"calcs/relax/", "calcs/scf/"},
		},
		{
			name:    "prefix inside a folder",
			partial: "calcs/s",
			want:    []string{"calcs/scf/"},
		},
		{
			name:    "no match",
			partial: "z",
			want:    nil,
		},
		{
			name:    "folder does not exist",
			partial: "missing/x",
			want:    nil,
		},
		{
			name:    "folder is a file",
			partial: "notes.txt/",
			want:    nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := complete.Dirs(sess, tt.partial)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Dirs(%q) = %v, want %v", tt.partial, got, tt.want)
			}
		})
	}
}

func TestEntries(t *testing.T) {
	sess := completionStore(t)

	tests := []struct {
		name    string
		partial string
		want    []string
	}{
		{
			name:    "files appear alongside expanded dirs",
			partial: "",
			want: []string{
				"calcs/", "calcs/relax/", "calcs/scf/",
				"data/",
				"notes.txt",
			},
		},
		{
			name:    "file at the second level",
			partial: "calcs/relax/",
			want:    []string{"calcs/relax/in.yaml"},
		},
		{
			name:    "file is terminal at the first level too",
			partial: "notes",
			want:    []string{"notes.txt"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := complete.Entries(sess, tt.partial)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Entries(%q) = %v, want %v", tt.partial, got, tt.want)
			}
		})
	}
}

func TestPathCompletersNeedNode(t *testing.T) {
	st := memstore.New("demo")
	sess := session.New(st)
	if got := complete.Dirs(sess, ""); got != nil {
		t.Errorf("Dirs without node = %v, want nil", got)
	}
	if got := complete.Entries(sess, ""); got != nil {
		t.Errorf("Entries without node = %v, want nil", got)
	}
}

func TestAttrKeys(t *testing.T) {
	st := memstore.New("demo")
	err := st.Add(store.Node{
		ID:   1,
		UUID: "0a1b2c3d-0000-0000-0000-000000000001",
		Kind: "Calc",
		Attributes: map[string]interface{}{
			"cutoff":    520,
			"scheduler": "slurm",
			"cells":     3,
		},
		Extras: map[string]interface{}{"owner": "ada"},
	})
	if err != nil {
		t.Fatal(err)
	}
	sess := session.New(st)
	if _, err := sess.Load("1"); err != nil {
		t.Fatal(err)
	}

	attrs := complete.AttrKeys(sess)
	if got, want := attrs("c"), []string{"cells", "cutoff"}; !reflect.DeepEqual(got, want) {
		t.Errorf("AttrKeys(c) = %v, want %v", got, want)
	}
	if got, want := attrs(""), []string{"cells", "cutoff", "scheduler"}; !reflect.DeepEqual(got, want) {
		t.Errorf("AttrKeys() = %v, want %v", got, want)
	}

	extras := complete.ExtraKeys(sess)
	if got, want := extras("o"), []string{"owner"}; !reflect.DeepEqual(got, want) {
		t.Errorf("ExtraKeys(o) = %v, want %v", got, want)
	}

	sess.Unload()
	if got := attrs(""); got != nil {
		t.Errorf("AttrKeys without node = %v, want nil", got)
	}
}

func TestLinkTypes(t *testing.T) {
	lt := complete.LinkTypes()
	if got, want := lt("C"), []string{"CALL", "CREATE"}; !reflect.DeepEqual(got, want) {
		t.Errorf("LinkTypes(C) = %v, want %v", got, want)
	}
	if got := lt(""); !reflect.DeepEqual(got, store.LinkTypeNames()) {
		t.Errorf("LinkTypes() = %v", got)
	}
}
