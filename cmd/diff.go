package cmd

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/blvflag/blvhist/internal/diff"
	"github.com/blvflag/blvhist/internal/history"
	"github.com/blvflag/blvhist/internal/tui"
)

var (
	diffMode    string
	currentFile string
	diffPlain   bool
)

var diffCmd = &cobra.Command{
	Use:   "diff <script>",
	Short: "Compare a script against its most recent history snapshot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		script := args[0]

		current, err := readCurrent(cmd, script)
		if err != nil {
			return fmt.Errorf("reading current content: %w", err)
		}

		mode, picked, err := resolveMode(diffMode)
		if err != nil {
			return err
		}
		if !picked {
			cmd.Println("diff cancelled")
			return nil
		}

		o := newOrchestrator()
		res, err := o.Run(cmd.Context(), script, current, mode)
		if err != nil {
			return err
		}

		switch res.Status {
		case diff.StatusNoHistory:
			cmd.Printf("no history found for %s\n", script)
			return nil
		case diff.StatusCancelled:
			cmd.Println("diff cancelled")
			return nil
		}

		if mode == diff.ModeTextBased {
			streamRun(cmd, res.Run, "diff", script)
			return nil
		}

		// Side-by-side: open the compare viewer on a terminal, otherwise
		// hand the artifact paths to the caller.
		if !diffPlain && term.IsTerminal(os.Stdin.Fd()) {
			cands := o.Store.Candidates(history.BaseName(script, o.Suffix))
			sort.Slice(cands, func(i, j int) bool {
				if !cands[i].ModTime.Equal(cands[j].ModTime) {
					return cands[i].ModTime.After(cands[j].ModTime)
				}
				return cands[i].Path > cands[j].Path
			})
			return tui.RunCompare(script, string(current), cands)
		}

		cmd.Printf("snapshot: %s (%s, %s)\n",
			res.Snapshot.Path, res.Snapshot.Partition, res.Snapshot.ModTime.Format("2006-01-02 15:04:05"))
		cmd.Printf("history:  %s\n", res.OldPath)
		cmd.Printf("current:  %s\n", res.NewPath)
		return nil
	},
}

// readCurrent resolves the live buffer content for the comparison:
// --current FILE, "-" for stdin, or the script's on-disk bytes.
func readCurrent(cmd *cobra.Command, script string) ([]byte, error) {
	switch currentFile {
	case "":
		data, err := os.ReadFile(script)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, nil // nothing on disk yet; compare against empty
			}
			return nil, err
		}
		return data, nil
	case "-":
		return io.ReadAll(cmd.InOrStdin())
	default:
		return os.ReadFile(currentFile)
	}
}

// resolveMode turns the --mode flag into a presentation mode, asking
// interactively when the flag is absent and stdin is a terminal. ok is
// false when the user abandoned the picker.
func resolveMode(flag string) (mode diff.Mode, ok bool, err error) {
	if flag != "" {
		// Unrecognized values flow through; the orchestrator answers
		// with a cancelled outcome.
		return diff.Mode(flag), true, nil
	}
	def := diff.Mode(GetConfig().DefaultMode)
	if term.IsTerminal(os.Stdin.Fd()) {
		return tui.RunPicker(def)
	}
	return def, true, nil
}

func init() {
	diffCmd.Flags().StringVar(&diffMode, "mode", "", "presentation mode: side-by-side or text-based")
	diffCmd.Flags().StringVar(&currentFile, "current", "", "file holding the current content (\"-\" for stdin); defaults to the script itself")
	diffCmd.Flags().BoolVar(&diffPlain, "plain", false, "print artifact paths instead of opening the compare viewer")
	rootCmd.AddCommand(diffCmd)
}
