// Package watch follows the history partitions and refreshes comparison
// artifacts as new snapshots arrive.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/blvflag/blvhist/internal/diff"
	"github.com/blvflag/blvhist/internal/history"
)

// Watcher follows the snapshot partitions until its context is
// cancelled. For each script in Tracked, a new matching snapshot
// triggers a refresh of that script's side-by-side artifact pair.
type Watcher struct {
	Orch    *diff.Orchestrator
	Tracked []string
	Log     zerolog.Logger
}

// Run blocks on the partition watch loop until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fsw.Close()

	store := w.Orch.Store
	if err := fsw.Add(store.Root); err != nil {
		return fmt.Errorf("watch %s: %w", store.Root, err)
	}
	for _, part := range store.Partitions {
		dir := filepath.Join(store.Root, part)
		if err := fsw.Add(dir); err != nil {
			// The recorder may not have created this partition yet; it
			// is picked up through the root watch when it appears.
			w.Log.Warn().Str("partition", part).Err(err).Msg("partition not watchable yet")
			continue
		}
		w.Log.Info().Str("partition", part).Msg("watching")
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ctx, fsw, ev)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			// Watch errors are non-fatal; keep following.
			w.Log.Warn().Err(err).Msg("watch error")
		}
	}
}

func (w *Watcher) handleEvent(ctx context.Context, fsw *fsnotify.Watcher, ev fsnotify.Event) {
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
		return
	}

	// A partition directory created after startup joins the watch.
	if ev.Has(fsnotify.Create) && w.isPartitionDir(ev.Name) {
		if err := fsw.Add(ev.Name); err == nil {
			w.Log.Info().Str("partition", filepath.Base(ev.Name)).Msg("partition appeared")
		}
		return
	}

	name := filepath.Base(ev.Name)
	if !strings.HasSuffix(name, ".json") {
		return
	}
	w.Log.Info().
		Str("partition", filepath.Base(filepath.Dir(ev.Name))).
		Str("snapshot", name).
		Msg("new snapshot")

	for _, script := range w.Tracked {
		if strings.HasPrefix(name, history.BaseName(script, w.Orch.Suffix)+"_") {
			w.refresh(ctx, script)
		}
	}
}

// refresh rewrites the script's artifact pair from its latest snapshot.
func (w *Watcher) refresh(ctx context.Context, script string) {
	current, err := os.ReadFile(script)
	if err != nil {
		current = nil // script not on disk; compare against nothing
	}
	res, err := w.Orch.Run(ctx, script, current, diff.ModeSideBySide)
	if err != nil {
		w.Log.Error().Err(err).Str("script", script).Msg("artifact refresh failed")
		return
	}
	if res.Status != diff.StatusDispatched {
		return
	}
	w.Log.Info().
		Str("script", script).
		Str("old", res.OldPath).
		Str("new", res.NewPath).
		Msg("artifact pair refreshed")
}

func (w *Watcher) isPartitionDir(path string) bool {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return false
	}
	for _, part := range w.Orch.Store.Partitions {
		if filepath.Base(path) == part {
			return true
		}
	}
	return false
}
