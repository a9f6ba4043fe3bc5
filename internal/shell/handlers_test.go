package shell

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"magpie/internal/session"
	"magpie/internal/testutil"
	"magpie/internal/ui"
)

type testShell struct {
	*Shell
	out *bytes.Buffer
	err *bytes.Buffer
}

func newTestShell(t *testing.T) *testShell {
	t.Helper()
	ui.ConfigureColor(false)
	sess := session.New(testutil.DemoStore(t))
	out := &bytes.Buffer{}
	errw := &bytes.Buffer{}
	sh := New(sess, Options{Out: out, Err: errw})
	return &testShell{Shell: sh, out: out, err: errw}
}

// run dispatches one line and returns what was written to stdout,
// failing the test if anything hit the error stream.
func (ts *testShell) run(t *testing.T, line string) string {
	t.Helper()
	ts.out.Reset()
	ts.err.Reset()
	if done := ts.RunLine(line); done {
		t.Fatalf("RunLine(%q) terminated the shell", line)
	}
	if ts.err.Len() > 0 {
		t.Fatalf("RunLine(%q) wrote to the error stream: %s", line, ts.err.String())
	}
	return ts.out.String()
}

// runErr dispatches one line and returns what was written to the error
// stream.
func (ts *testShell) runErr(t *testing.T, line string) string {
	t.Helper()
	ts.out.Reset()
	ts.err.Reset()
	if done := ts.RunLine(line); done {
		t.Fatalf("RunLine(%q) terminated the shell", line)
	}
	return ts.err.String()
}

func TestScalarCommands(t *testing.T) {
	ts := newTestShell(t)
	ts.run(t, "load 1")

	if got := ts.run(t, "uuid"); got != "6f7ce1d2-9b3a-4c2e-8f41-0a5d2c7b9e10\n" {
		t.Errorf("uuid: got %q", got)
	}
	if got := ts.run(t, "label"); got != "relax\n" {
		t.Errorf("label: got %q", got)
	}
	if got := ts.run(t, "description"); got != "structure relaxation\n" {
		t.Errorf("description: got %q", got)
	}
}

func TestTimestamps(t *testing.T) {
	ts := newTestShell(t)
	ts.run(t, "load 1")

	got := ts.run(t, "ctime")
	if !strings.HasPrefix(got, "Created ") || !strings.HasSuffix(got, "(2025-01-10T09:30:00Z)\n") {
		t.Errorf("ctime: got %q", got)
	}
	got = ts.run(t, "mtime")
	if !strings.HasPrefix(got, "Last modified ") || !strings.HasSuffix(got, "(2025-01-10T11:02:00Z)\n") {
		t.Errorf("mtime: got %q", got)
	}
}

func TestMappingCommands(t *testing.T) {
	ts := newTestShell(t)
	ts.run(t, "load 1")

	wantAttrs := "- cutoff: 520\n" +
		"- kpoints:\n" +
		"    - 4\n" +
		"    - 4\n" +
		"    - 4\n" +
		"- scheduler: slurm\n"
	if got := ts.run(t, "attrs"); got != wantAttrs {
		t.Errorf("attrs:\ngot  %q\nwant %q", got, wantAttrs)
	}

	if got := ts.run(t, "attr cutoff"); got != "- cutoff: 520\n" {
		t.Errorf("attr cutoff: got %q", got)
	}
	if got := ts.run(t, "attr nope"); got != "No attribute with key 'nope'\n" {
		t.Errorf("attr nope: got %q", got)
	}
	if got := ts.run(t, "attrkeys"); got != "- cutoff\n- kpoints\n- scheduler\n" {
		t.Errorf("attrkeys: got %q", got)
	}

	if got := ts.run(t, "extras"); got != "- owner: ada\n- tagged: true\n" {
		t.Errorf("extras: got %q", got)
	}
	if got := ts.run(t, "extra owner"); got != "- owner: ada\n" {
		t.Errorf("extra owner: got %q", got)
	}
	if got := ts.run(t, "extra nope"); got != "No extra with key 'nope'\n" {
		t.Errorf("extra nope: got %q", got)
	}
	if got := ts.run(t, "extrakeys"); got != "- owner\n- tagged\n" {
		t.Errorf("extrakeys: got %q", got)
	}
}

func TestMappingCommandsEmpty(t *testing.T) {
	ts := newTestShell(t)
	ts.run(t, "load 2")

	if got := ts.run(t, "attrs"); got != "No attributes\n" {
		t.Errorf("attrs: got %q", got)
	}
	if got := ts.run(t, "extrakeys"); got != "No extras\n" {
		t.Errorf("extrakeys: got %q", got)
	}
}

func TestLinkCommands(t *testing.T) {
	ts := newTestShell(t)
	ts.run(t, "load 1")

	wantIn := "- INPUT (structure) -> 2\n- CALL (caller) -> 3\n"
	if got := ts.run(t, "in"); got != wantIn {
		t.Errorf("in: got %q, want %q", got, wantIn)
	}
	if got := ts.run(t, "out"); got != "- CREATE (result) -> 3\n" {
		t.Errorf("out: got %q", got)
	}
	if got := ts.run(t, "in -t CALL"); got != "- CALL (caller) -> 3\n" {
		t.Errorf("in -t CALL: got %q", got)
	}
	// The filter applies in both directions.
	if got := ts.run(t, "out --link-type INPUT"); got != "No outgoing links of type INPUT\n" {
		t.Errorf("out --link-type INPUT: got %q", got)
	}
	if got := ts.run(t, "in -t RETURN"); got != "No incoming links of type RETURN\n" {
		t.Errorf("in -t RETURN: got %q", got)
	}

	errOut := ts.runErr(t, "in -t BOGUS")
	if !strings.Contains(errOut, "BOGUS") {
		t.Errorf("in -t BOGUS: got %q", errOut)
	}
}

func TestShow(t *testing.T) {
	ts := newTestShell(t)
	ts.run(t, "load 1")

	got := ts.run(t, "show")
	for _, want := range []string{
		"Calc",
		"6f7ce1d2-9b3a-4c2e-8f41-0a5d2c7b9e10",
		"relax",
		"2 incoming, 1 outgoing",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("show output missing %q:\n%s", want, got)
		}
	}
}

func TestRepoLs(t *testing.T) {
	ts := newTestShell(t)
	ts.run(t, "load 1")

	if got := ts.run(t, "repo_ls"); got != "docs/\nreadme.md\n" {
		t.Errorf("repo_ls: got %q", got)
	}
	if got := ts.run(t, "repo_ls -l"); got != "[d] docs/\n[f] readme.md\n" {
		t.Errorf("repo_ls -l: got %q", got)
	}
	if got := ts.run(t, "repo_ls -s"); got != "docs\nreadme.md\n" {
		t.Errorf("repo_ls -s: got %q", got)
	}
	if got := ts.run(t, "repo_ls docs"); got != "a.txt\nsub/\n" {
		t.Errorf("repo_ls docs: got %q", got)
	}
	if got := ts.run(t, "repo_ls -l -s docs"); got != "[f] a.txt\n[d] sub\n" {
		t.Errorf("repo_ls -l -s docs: got %q", got)
	}

	errOut := ts.runErr(t, "repo_ls nope")
	if !strings.Contains(errOut, "'nope' not found in node repository") {
		t.Errorf("repo_ls nope: got %q", errOut)
	}
	errOut = ts.runErr(t, "repo_ls readme.md")
	if !strings.Contains(errOut, "'readme.md' not a directory") {
		t.Errorf("repo_ls readme.md: got %q", errOut)
	}
}

func TestRepoCat(t *testing.T) {
	ts := newTestShell(t)
	ts.run(t, "load 1")

	if got := ts.run(t, "repo_cat docs/a.txt"); got != "alpha\n" {
		t.Errorf("repo_cat: got %q", got)
	}

	errOut := ts.runErr(t, "repo_cat docs")
	if !strings.Contains(errOut, "'docs' is a directory") {
		t.Errorf("repo_cat docs: got %q", errOut)
	}
	errOut = ts.runErr(t, "repo_cat nope.txt")
	if !strings.Contains(errOut, "'nope.txt' not found in node repository") {
		t.Errorf("repo_cat nope.txt: got %q", errOut)
	}
}

func TestNeedsNodeGuard(t *testing.T) {
	ts := newTestShell(t)

	want := "ERROR: No node loaded - load a node with `load NODE_IDENTIFIER` first\n"
	for _, line := range []string{"uuid", "attrs", "in", "show", "repo_ls", "repo_cat x"} {
		if got := ts.runErr(t, line); got != want {
			t.Errorf("%s without node: got %q", line, got)
		}
	}
}

func TestLoadErrors(t *testing.T) {
	ts := newTestShell(t)

	errOut := ts.runErr(t, "load 99")
	if !strings.Contains(errOut, `no node matches identifier "99"`) {
		t.Errorf("load 99: got %q", errOut)
	}
	// A failed load leaves the previous node in place.
	ts.run(t, "load 1")
	ts.runErr(t, "load 99")
	if got := ts.run(t, "label"); got != "relax\n" {
		t.Errorf("label after failed load: got %q", got)
	}
}

func TestLoadByLabelAndPrefix(t *testing.T) {
	ts := newTestShell(t)

	ts.run(t, "load structure")
	if got := ts.run(t, "uuid"); got != "91b8f3a4-1d26-4d9f-b0e7-55c3a821f004\n" {
		t.Errorf("load by label: got %q", got)
	}

	ts.run(t, "load c4a1")
	if got := ts.run(t, "label"); got != "output\n" {
		t.Errorf("load by uuid prefix: got %q", got)
	}
}

func TestUnknownCommand(t *testing.T) {
	ts := newTestShell(t)
	errOut := ts.runErr(t, "frobnicate")
	if !strings.Contains(errOut, "unknown command") {
		t.Errorf("got %q", errOut)
	}
}

func TestHelpAndQuestionMark(t *testing.T) {
	ts := newTestShell(t)

	if got := ts.run(t, "help"); !strings.Contains(got, "Available commands:") {
		t.Errorf("help: got %q", got)
	}
	if got := ts.run(t, "?"); !strings.Contains(got, "Available commands:") {
		t.Errorf("?: got %q", got)
	}
	if got := ts.run(t, "help repo_ls"); !strings.Contains(got, "repo_ls [-l] [-s] [PATH]") {
		t.Errorf("help repo_ls: got %q", got)
	}
}

func TestExitCommands(t *testing.T) {
	ts := newTestShell(t)
	if !ts.RunLine("exit") {
		t.Error("exit did not terminate the shell")
	}
	if ts.ExitCode() != 0 {
		t.Errorf("exit code: got %d", ts.ExitCode())
	}

	ts = newTestShell(t)
	if !ts.RunLine("exit_with_error") {
		t.Error("exit_with_error did not terminate the shell")
	}
	if ts.ExitCode() != 1 {
		t.Errorf("exit code: got %d", ts.ExitCode())
	}
}

func TestUnload(t *testing.T) {
	ts := newTestShell(t)
	ts.run(t, "load 1")
	ts.run(t, "unload")
	if got := ts.runErr(t, "uuid"); !strings.Contains(got, "No node loaded") {
		t.Errorf("uuid after unload: got %q", got)
	}
	// Unloading without a node is a no-op.
	ts.run(t, "unload")
}

func TestRunScript(t *testing.T) {
	ts := newTestShell(t)

	path := filepath.Join(t.TempDir(), "startup")
	script := "load 1\nuuid\n"
	if err := os.WriteFile(path, []byte(script), 0o644); err != nil {
		t.Fatal(err)
	}
	if done := ts.RunScript(path); done {
		t.Error("script should not terminate the shell")
	}
	if got := ts.out.String(); got != "6f7ce1d2-9b3a-4c2e-8f41-0a5d2c7b9e10\n" {
		t.Errorf("script output: got %q", got)
	}

	if done := ts.RunScript(filepath.Join(t.TempDir(), "missing")); done {
		t.Error("missing script should be skipped")
	}

	exitPath := filepath.Join(t.TempDir(), "exits")
	if err := os.WriteFile(exitPath, []byte("exit\nuuid\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if done := ts.RunScript(exitPath); !done {
		t.Error("script with exit should terminate the shell")
	}
}

func TestCompletionWordExtraction(t *testing.T) {
	var got string
	fn := lastWord(func(prefix string) []string {
		got = prefix
		return nil
	})

	fn("repo_cat docs/su")
	if got != "docs/su" {
		t.Errorf("plain path: got %q", got)
	}

	// A quoted path with a space completes against the whole token.
	fn(`repo_cat "my docs/su`)
	if got != "my docs/su" {
		t.Errorf("quoted path: got %q", got)
	}

	fn("repo_cat ")
	if got != "" {
		t.Errorf("fresh word: got %q", got)
	}
}
