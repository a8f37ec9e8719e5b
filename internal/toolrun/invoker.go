// Package toolrun executes the blvflag binary and streams its output
// back to callers as discrete events.
package toolrun

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"sync"

	"github.com/google/uuid"
)

// EventKind identifies what a streamed Event carries.
type EventKind int

const (
	// Stdout is a single line written by the tool to standard output.
	Stdout EventKind = iota
	// Stderr is a single line written by the tool to standard error.
	Stderr
	// Exit is the final event of a run and carries the exit code.
	Exit
)

func (k EventKind) String() string {
	switch k {
	case Stdout:
		return "stdout"
	case Stderr:
		return "stderr"
	case Exit:
		return "exit"
	default:
		return "unknown"
	}
}

// Event is one unit of tool output. Line is set for Stdout and Stderr
// events; Code is set for the Exit event.
type Event struct {
	Kind EventKind
	Line string
	Code int
}

// Request describes a single tool invocation. If Secret is non-empty it
// is written to the tool's stdin as one line and stdin is closed; it is
// never stored or logged.
type Request struct {
	Args   []string
	Secret string
}

// Run is a started tool invocation. Events delivers output lines in
// order and is closed after the final Exit event.
type Run struct {
	ID     string
	Events <-chan Event
}

// Invoker starts blvflag subprocesses.
type Invoker struct {
	Bin string
}

// NewInvoker returns an Invoker for the given binary path.
func NewInvoker(bin string) *Invoker {
	return &Invoker{Bin: bin}
}

// Start launches the tool and begins streaming its output. A failure to
// launch (missing binary, bad permissions) is returned as an error; a
// started tool that later exits non-zero is reported through the Exit
// event instead.
func (inv *Invoker) Start(ctx context.Context, req Request) (*Run, error) {
	cmd := exec.CommandContext(ctx, inv.Bin, req.Args...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, err
	}

	var stdin io.WriteCloser
	if req.Secret != "" {
		stdin, err = cmd.StdinPipe()
		if err != nil {
			return nil, err
		}
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", inv.Bin, err)
	}

	if stdin != nil {
		io.WriteString(stdin, req.Secret+"\n")
		stdin.Close()
	}

	events := make(chan Event, 16)

	var wg sync.WaitGroup
	wg.Add(2)
	go scanLines(stdout, Stdout, events, &wg)
	go scanLines(stderr, Stderr, events, &wg)

	go func() {
		// Both pipes must be drained before Wait releases them.
		wg.Wait()
		events <- Event{Kind: Exit, Code: exitCode(cmd.Wait())}
		close(events)
	}()

	return &Run{ID: uuid.New().String(), Events: events}, nil
}

// scanLines forwards each line from r as an Event of the given kind.
func scanLines(r io.Reader, kind EventKind, events chan<- Event, wg *sync.WaitGroup) {
	defer wg.Done()
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		events <- Event{Kind: kind, Line: scanner.Text()}
	}
}

// exitCode maps a Wait error to the tool's exit code. A run killed by a
// signal or broken in some other way reports -1.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}
