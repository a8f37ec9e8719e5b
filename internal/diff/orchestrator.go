// Package diff coordinates history resolution and dispatches the
// comparable text pair to a presentation mode.
package diff

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/blvflag/blvhist/internal/history"
	"github.com/blvflag/blvhist/internal/toolrun"
)

// Mode selects how a comparison is presented.
type Mode string

const (
	// ModeSideBySide materializes both versions as temp files for an
	// external side-by-side viewer.
	ModeSideBySide Mode = "side-by-side"
	// ModeTextBased delegates to the blvflag binary, which produces its
	// own textual report.
	ModeTextBased Mode = "text-based"
)

// Modes lists the recognized presentation modes in display order.
func Modes() []Mode {
	return []Mode{ModeSideBySide, ModeTextBased}
}

// ParseMode reports whether s names a recognized presentation mode.
func ParseMode(s string) (Mode, bool) {
	switch Mode(s) {
	case ModeSideBySide, ModeTextBased:
		return Mode(s), true
	}
	return "", false
}

// Status is the terminal state of one orchestration flow.
type Status int

const (
	// StatusDispatched means the flow completed and handed off its
	// result (artifact pair written, tool started, or script reverted).
	StatusDispatched Status = iota
	// StatusNoHistory means no snapshot exists for the script. This is
	// a user-addressable outcome, not a fault.
	StatusNoHistory
	// StatusCancelled means the user abandoned mode selection or asked
	// for an unrecognized mode; nothing was written or started.
	StatusCancelled
)

func (s Status) String() string {
	switch s {
	case StatusDispatched:
		return "dispatched"
	case StatusNoHistory:
		return "no-history"
	case StatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Result reports the outcome of a diff flow. OldPath/NewPath, Snapshot
// and Text are set for a dispatched side-by-side flow; Run is set for a
// dispatched text-based flow.
type Result struct {
	Status   Status
	OldPath  string
	NewPath  string
	Snapshot history.Candidate
	Text     history.SnapshotText
	Run      *toolrun.Run
}

// RevertResult reports the outcome of a revert flow.
type RevertResult struct {
	Status     Status
	Snapshot   history.Candidate
	BackupPath string
}

// Orchestrator wires the history store and the tool invoker into the
// caller-facing flows. Each invocation is stateless.
type Orchestrator struct {
	Store   *history.Store
	Invoker *toolrun.Invoker
	Suffix  string // script suffix stripped for matching, e.g. ".py"
	TempDir string
}

// Run compares a script's current content against its latest snapshot
// using the given mode. An unknown mode cancels the flow; a script with
// no history resolves to StatusNoHistory. Only artifact-write failures
// and tool-start failures are returned as errors.
func (o *Orchestrator) Run(ctx context.Context, script string, current []byte, mode Mode) (Result, error) {
	switch mode {
	case ModeTextBased:
		run, err := o.Invoker.Start(ctx, toolrun.Request{Args: []string{"--diff", script}})
		if err != nil {
			return Result{}, fmt.Errorf("external tool: %w", err)
		}
		return Result{Status: StatusDispatched, Run: run}, nil

	case ModeSideBySide:
		cand, text, ok := o.resolve(script)
		if !ok {
			return Result{Status: StatusNoHistory}, nil
		}
		oldPath, newPath := ArtifactPair(o.TempDir, history.BaseName(script, o.Suffix), artifactExt(script, o.Suffix))
		if err := writeArtifact(oldPath, []byte(text.Text)); err != nil {
			return Result{}, err
		}
		if err := writeArtifact(newPath, current); err != nil {
			return Result{}, err
		}
		return Result{
			Status:   StatusDispatched,
			OldPath:  oldPath,
			NewPath:  newPath,
			Snapshot: cand,
			Text:     text,
		}, nil

	default:
		return Result{Status: StatusCancelled}, nil
	}
}

// Revert writes the latest snapshot's text back over the script. The
// script's previous content, if any, is saved to a backup artifact
// first.
func (o *Orchestrator) Revert(script string) (RevertResult, error) {
	cand, text, ok := o.resolve(script)
	if !ok {
		return RevertResult{Status: StatusNoHistory}, nil
	}

	backup := BackupPath(o.TempDir, history.BaseName(script, o.Suffix), artifactExt(script, o.Suffix))
	prev, err := os.ReadFile(script)
	switch {
	case err == nil:
		if err := writeArtifact(backup, prev); err != nil {
			return RevertResult{}, fmt.Errorf("backup %s: %w", script, err)
		}
	case errors.Is(err, os.ErrNotExist):
		backup = "" // nothing to back up
	default:
		return RevertResult{}, err
	}

	if err := os.WriteFile(script, []byte(text.Text), 0o644); err != nil {
		return RevertResult{}, fmt.Errorf("revert %s: %w", script, err)
	}
	return RevertResult{Status: StatusDispatched, Snapshot: cand, BackupPath: backup}, nil
}

// resolve locates and decodes the latest snapshot for script. All
// lookup and read failures collapse to "no history"; only the caller's
// own writes can fail a flow.
func (o *Orchestrator) resolve(script string) (history.Candidate, history.SnapshotText, bool) {
	cand, err := o.Store.Latest(history.BaseName(script, o.Suffix))
	if err != nil {
		return history.Candidate{}, history.SnapshotText{}, false
	}
	text, err := history.ExtractText(cand)
	if err != nil {
		return history.Candidate{}, history.SnapshotText{}, false
	}
	return cand, text, true
}

// artifactExt picks the extension for temp artifacts so external
// viewers recognize the content type.
func artifactExt(script, suffix string) string {
	if ext := filepath.Ext(script); ext != "" {
		return ext
	}
	return suffix
}
