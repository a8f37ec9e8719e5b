package toolrun_test

import (
	"context"
	"testing"
	"time"

	"github.com/blvflag/blvhist/internal/toolrun"
)

// collect drains a run's event stream, returning output lines by kind
// and the final exit code.
func collect(t *testing.T, run *toolrun.Run) (stdout, stderr []string, code int) {
	t.Helper()
	sawExit := false
	for ev := range run.Events {
		if sawExit {
			t.Fatal("event delivered after Exit")
		}
		switch ev.Kind {
		case toolrun.Stdout:
			stdout = append(stdout, ev.Line)
		case toolrun.Stderr:
			stderr = append(stderr, ev.Line)
		case toolrun.Exit:
			code = ev.Code
			sawExit = true
		}
	}
	if !sawExit {
		t.Fatal("event stream closed without an Exit event")
	}
	return stdout, stderr, code
}

func TestStartMissingBinaryFails(t *testing.T) {
	inv := toolrun.NewInvoker("/nonexistent/blvflag")
	_, err := inv.Start(context.Background(), toolrun.Request{Args: []string{"--explain"}})
	if err == nil {
		t.Fatal("expected a start error for a missing binary")
	}
}

func TestRunStreamsOutputInOrder(t *testing.T) {
	inv := toolrun.NewInvoker("/bin/sh")
	run, err := inv.Start(context.Background(), toolrun.Request{
		Args: []string{"-c", "echo out1; echo err1 >&2; echo out2"},
	})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if run.ID == "" {
		t.Error("run must carry an ID")
	}

	stdout, stderr, code := collect(t, run)
	if code != 0 {
		t.Errorf("want exit 0, got %d", code)
	}
	if len(stdout) != 2 || stdout[0] != "out1" || stdout[1] != "out2" {
		t.Errorf("stdout lines out of order: %v", stdout)
	}
	if len(stderr) != 1 || stderr[0] != "err1" {
		t.Errorf("unexpected stderr lines: %v", stderr)
	}
}

func TestNonZeroExitIsAnEventNotAnError(t *testing.T) {
	inv := toolrun.NewInvoker("/bin/sh")
	run, err := inv.Start(context.Background(), toolrun.Request{
		Args: []string{"-c", "echo failing >&2; exit 3"},
	})
	if err != nil {
		t.Fatalf("a started tool that exits non-zero must not error Start: %v", err)
	}
	_, stderr, code := collect(t, run)
	if code != 3 {
		t.Errorf("want exit code 3, got %d", code)
	}
	if len(stderr) != 1 || stderr[0] != "failing" {
		t.Errorf("stderr should still stream before a bad exit: %v", stderr)
	}
}

func TestSecretReachesStdin(t *testing.T) {
	inv := toolrun.NewInvoker("/bin/sh")
	run, err := inv.Start(context.Background(), toolrun.Request{
		Args:   []string{"-c", `read s; echo "got:$s"`},
		Secret: "hunter2",
	})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	stdout, _, code := collect(t, run)
	if code != 0 {
		t.Fatalf("want exit 0, got %d", code)
	}
	if len(stdout) != 1 || stdout[0] != "got:hunter2" {
		t.Errorf("secret did not reach stdin: %v", stdout)
	}
}

func TestNoSecretClosesNothing(t *testing.T) {
	// Without a secret the tool gets no stdin pipe at all; a tool that
	// reads stdin sees EOF immediately rather than hanging.
	inv := toolrun.NewInvoker("/bin/sh")
	run, err := inv.Start(context.Background(), toolrun.Request{
		Args: []string{"-c", "read s; echo done"},
	})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	_, _, code := collect(t, run)
	if code == 0 {
		t.Error("read from empty stdin should fail the shell")
	}
}

func TestContextCancelStopsRun(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	inv := toolrun.NewInvoker("/bin/sh")
	run, err := inv.Start(ctx, toolrun.Request{Args: []string{"-c", "sleep 30"}})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	cancel()

	done := make(chan int, 1)
	go func() {
		code := 0
		for ev := range run.Events {
			if ev.Kind == toolrun.Exit {
				code = ev.Code
			}
		}
		done <- code
	}()
	select {
	case code := <-done:
		if code == 0 {
			t.Error("a killed run must not report success")
		}
	case <-time.After(10 * time.Second):
		t.Fatal("run did not stop after context cancellation")
	}
}

func TestEventKindString(t *testing.T) {
	cases := map[toolrun.EventKind]string{
		toolrun.Stdout: "stdout",
		toolrun.Stderr: "stderr",
		toolrun.Exit:   "exit",
	}
	for kind, want := range cases {
		if got := kind.String(); got != want {
			t.Errorf("EventKind(%d).String() = %q, want %q", kind, got, want)
		}
	}
}
