package toolrun_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/blvflag/blvhist/internal/toolrun"
)

func TestRunLogPathUsesXDGDataHome(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/custom/data")
	path, err := toolrun.RunLogPath()
	if err != nil {
		t.Fatalf("RunLogPath: %v", err)
	}
	want := filepath.Join("/custom/data", "blvhist", "runs.log")
	if path != want {
		t.Errorf("want %q, got %q", want, path)
	}
}

func TestAppendAndReadRoundTrip(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	first := toolrun.Entry{
		Timestamp: time.Unix(1700000000, 0),
		RunID:     "run-1",
		Verb:      "diff",
		Target:    "/work/foo.py",
		ExitCode:  0,
	}
	second := toolrun.Entry{
		Timestamp: time.Unix(1700000060, 0),
		RunID:     "run-2",
		Verb:      "explain",
		Target:    "/work/bar.py",
		ExitCode:  2,
	}
	if err := toolrun.Append(first); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := toolrun.Append(second); err != nil {
		t.Fatalf("Append: %v", err)
	}

	entries, err := toolrun.ReadRunLog()
	if err != nil {
		t.Fatalf("ReadRunLog: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("want 2 entries, got %d", len(entries))
	}
	if entries[0] != first {
		t.Errorf("first entry mismatch: %+v", entries[0])
	}
	if entries[1] != second {
		t.Errorf("second entry mismatch: %+v", entries[1])
	}
}

func TestReadRunLogMissingFile(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	entries, err := toolrun.ReadRunLog()
	if err != nil {
		t.Fatalf("a missing log is not an error: %v", err)
	}
	if entries != nil {
		t.Errorf("want nil entries, got %v", entries)
	}
}

func TestReadRunLogSkipsMalformedLines(t *testing.T) {
	dataHome := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dataHome)

	logDir := filepath.Join(dataHome, "blvhist")
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		t.Fatal(err)
	}
	content := "not a log line\n" +
		"1700000000\trun-1\tdiff\t/work/foo.py\t0\n" +
		"garbled\trun-x\tdiff\t/work\tnope\n" +
		"1700000060\trun-2\n" +
		"1700000120\trun-3\trevert\t/work/baz.py\t1\n"
	if err := os.WriteFile(filepath.Join(logDir, "runs.log"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	entries, err := toolrun.ReadRunLog()
	if err != nil {
		t.Fatalf("ReadRunLog: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("want 2 well-formed entries, got %d: %+v", len(entries), entries)
	}
	if entries[0].RunID != "run-1" || entries[1].RunID != "run-3" {
		t.Errorf("wrong entries survived: %+v", entries)
	}
}

func TestAppendSanitizesSeparators(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	e := toolrun.Entry{
		Timestamp: time.Unix(1700000000, 0),
		RunID:     "run-1",
		Verb:      "diff",
		Target:    "/weird\tpath\nname.py",
		ExitCode:  0,
	}
	if err := toolrun.Append(e); err != nil {
		t.Fatalf("Append: %v", err)
	}
	entries, err := toolrun.ReadRunLog()
	if err != nil {
		t.Fatalf("ReadRunLog: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("want 1 entry, got %d", len(entries))
	}
	if entries[0].Target != "/weird path name.py" {
		t.Errorf("separators must be replaced: %q", entries[0].Target)
	}
}
