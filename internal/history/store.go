// Package history resolves the most recent recorded snapshot of a script
// from the tree written by the blvflag runtime. The tree is read-only from
// this package's point of view; candidates are rebuilt on every lookup and
// never persisted.
package history

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ErrNoHistory is returned by Latest when no snapshot matches the script in
// any partition. It is a normal, user-facing outcome, not a fault.
var ErrNoHistory = errors.New("no history found")

// Candidate is one snapshot file eligible for comparison.
type Candidate struct {
	Path      string    `json:"path"`
	ModTime   time.Time `json:"mod_time"`
	Partition string    `json:"partition"`
}

// Store lists snapshot candidates under a fixed root.
type Store struct {
	// Root is the history tree root, e.g. <home>/blvflag/tool/history.
	Root string
	// Partitions are the subdirectories searched under Root. A partition
	// that is missing or unreadable contributes no candidates.
	Partitions []string
}

// NewStore returns a Store over root searching the given partitions.
func NewStore(root string, partitions []string) *Store {
	return &Store{Root: root, Partitions: partitions}
}

// BaseName derives the snapshot matching prefix from a script file name by
// stripping suffix (e.g. "runner.py" → "runner"). Directory components are
// dropped first so editor-supplied absolute paths work too.
func BaseName(script, suffix string) string {
	name := filepath.Base(script)
	if suffix != "" {
		name = strings.TrimSuffix(name, suffix)
	}
	return name
}

// Candidates returns every snapshot file in any partition whose name starts
// with baseName+"_" and ends with ".json", with its modification time
// attached. Partitions that cannot be listed are skipped silently; partial
// results from the remaining partitions are still returned.
func (s *Store) Candidates(baseName string) []Candidate {
	prefix := baseName + "_"

	var out []Candidate
	for _, part := range s.Partitions {
		dir := filepath.Join(s.Root, part)
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue // missing or unreadable partition: zero candidates
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			name := entry.Name()
			if !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, ".json") {
				continue
			}
			info, err := entry.Info()
			if err != nil {
				continue
			}
			out = append(out, Candidate{
				Path:      filepath.Join(dir, name),
				ModTime:   info.ModTime(),
				Partition: part,
			})
		}
	}
	return out
}

// Latest returns the single newest candidate for baseName across all
// partitions. Modification-time ties are broken by lexically greater path so
// selection stays deterministic. Returns ErrNoHistory when nothing matches.
func (s *Store) Latest(baseName string) (Candidate, error) {
	candidates := s.Candidates(baseName)
	if len(candidates) == 0 {
		return Candidate{}, ErrNoHistory
	}

	newest := candidates[0]
	for _, c := range candidates[1:] {
		if c.ModTime.After(newest.ModTime) ||
			(c.ModTime.Equal(newest.ModTime) && c.Path > newest.Path) {
			newest = c
		}
	}
	return newest, nil
}
