package watch_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/blvflag/blvhist/internal/diff"
	"github.com/blvflag/blvhist/internal/history"
	"github.com/blvflag/blvhist/internal/toolrun"
	"github.com/blvflag/blvhist/internal/watch"
)

func newWatcher(t *testing.T, root string, tracked ...string) (*watch.Watcher, string) {
	t.Helper()
	tempDir := t.TempDir()
	return &watch.Watcher{
		Orch: &diff.Orchestrator{
			Store:   history.NewStore(root, []string{"err_history", "std_history"}),
			Invoker: toolrun.NewInvoker("/bin/true"),
			Suffix:  ".py",
			TempDir: tempDir,
		},
		Tracked: tracked,
		Log:     zerolog.Nop(),
	}, tempDir
}

// waitFor polls until the condition holds or the deadline passes.
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestWatcherRefreshesTrackedScript(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "std_history"), 0o755); err != nil {
		t.Fatal(err)
	}
	script := filepath.Join(t.TempDir(), "foo.py")
	if err := os.WriteFile(script, []byte("live\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	w, tempDir := newWatcher(t, root, script)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Give the watcher a moment to register before writing.
	time.Sleep(100 * time.Millisecond)
	snap := filepath.Join(root, "std_history", "foo_20240101.json")
	if err := os.WriteFile(snap, []byte(`{"content":"old\n"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	oldArtifact := filepath.Join(tempDir, "foo_history.py")
	waitFor(t, "artifact refresh", func() bool {
		data, err := os.ReadFile(oldArtifact)
		return err == nil && string(data) == "old\n"
	})

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop on context cancellation")
	}
}

func TestWatcherIgnoresUnrelatedSnapshots(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "std_history"), 0o755); err != nil {
		t.Fatal(err)
	}
	w, tempDir := newWatcher(t, root, filepath.Join(t.TempDir(), "foo.py"))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	time.Sleep(100 * time.Millisecond)
	snap := filepath.Join(root, "std_history", "other_20240101.json")
	if err := os.WriteFile(snap, []byte(`"x"`), 0o644); err != nil {
		t.Fatal(err)
	}
	// foobar_ shares foo as a substring but not as a snapshot family.
	snap2 := filepath.Join(root, "std_history", "foobar_20240101.json")
	if err := os.WriteFile(snap2, []byte(`"y"`), 0o644); err != nil {
		t.Fatal(err)
	}

	time.Sleep(300 * time.Millisecond)
	entries, err := os.ReadDir(tempDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("unrelated snapshots must not refresh artifacts, found %d files", len(entries))
	}

	cancel()
	<-done
}

func TestWatcherPicksUpLatePartition(t *testing.T) {
	root := t.TempDir()
	// No partitions exist yet; only the root watch is active.
	script := filepath.Join(t.TempDir(), "foo.py")
	w, tempDir := newWatcher(t, root, script)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	time.Sleep(100 * time.Millisecond)
	dir := filepath.Join(root, "err_history")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	// Let the new partition join the watch before writing into it.
	time.Sleep(300 * time.Millisecond)
	if err := os.WriteFile(filepath.Join(dir, "foo_1.json"), []byte(`"late"`), 0o644); err != nil {
		t.Fatal(err)
	}

	oldArtifact := filepath.Join(tempDir, "foo_history.py")
	waitFor(t, "late partition refresh", func() bool {
		data, err := os.ReadFile(oldArtifact)
		return err == nil && string(data) == "late"
	})

	cancel()
	<-done
}

func TestWatcherMissingRootErrors(t *testing.T) {
	w, _ := newWatcher(t, filepath.Join(t.TempDir(), "gone"))
	if err := w.Run(context.Background()); err == nil {
		t.Fatal("a missing history root must fail the watch")
	}
}
