package cmd

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/blvflag/blvhist/internal/diff"
)

var revertCmd = &cobra.Command{
	Use:   "revert <script>",
	Short: "Restore a script to its most recent history snapshot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		script := args[0]

		o := newOrchestrator()
		res, err := o.Revert(script)
		if err != nil {
			return err
		}
		if res.Status == diff.StatusNoHistory {
			cmd.Printf("no history found for %s\n", script)
			return nil
		}

		cmd.Printf("reverted %s to snapshot %s (%s)\n",
			script, filepath.Base(res.Snapshot.Path), res.Snapshot.ModTime.Format("2006-01-02 15:04:05"))
		if res.BackupPath != "" {
			cmd.Printf("previous content saved to %s\n", res.BackupPath)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(revertCmd)
}
