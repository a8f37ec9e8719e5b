package cmd

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/blvflag/blvhist/internal/history"
	"github.com/blvflag/blvhist/internal/toolrun"
)

var (
	historyJSON bool
	historyRuns bool
)

var historyCmd = &cobra.Command{
	Use:   "history [script]",
	Short: "List a script's history snapshots, or past tool runs",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if historyRuns {
			return printRuns(cmd)
		}
		if len(args) == 0 {
			return fmt.Errorf("a script argument or --runs is required")
		}
		return printSnapshots(cmd, args[0])
	},
}

func printSnapshots(cmd *cobra.Command, script string) error {
	cfg := GetConfig()
	store := history.NewStore(cfg.HistoryRoot, cfg.Partitions)
	cands := store.Candidates(history.BaseName(script, cfg.ScriptSuffix))
	sort.Slice(cands, func(i, j int) bool {
		if !cands[i].ModTime.Equal(cands[j].ModTime) {
			return cands[i].ModTime.After(cands[j].ModTime)
		}
		return cands[i].Path > cands[j].Path
	})

	if historyJSON {
		data, err := json.MarshalIndent(cands, "", "  ")
		if err != nil {
			return err
		}
		cmd.Println(string(data))
		return nil
	}

	if len(cands) == 0 {
		cmd.Printf("no history found for %s\n", script)
		return nil
	}
	cmd.Printf("%d snapshot(s) for %s:\n", len(cands), script)
	for _, c := range cands {
		cmd.Printf("  %s  %-12s  %s\n",
			c.ModTime.Format("2006-01-02 15:04:05"), c.Partition, filepath.Base(c.Path))
	}
	return nil
}

func printRuns(cmd *cobra.Command) error {
	entries, err := toolrun.ReadRunLog()
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		cmd.Println("no runs recorded")
		return nil
	}
	for _, e := range entries {
		cmd.Printf("%s  %s  %-8s  %s  exit %d\n",
			e.Timestamp.Format("2006-01-02 15:04:05"), e.RunID, e.Verb, e.Target, e.ExitCode)
	}
	return nil
}

func init() {
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "emit the snapshot list as JSON")
	historyCmd.Flags().BoolVar(&historyRuns, "runs", false, "show the blvflag invocation log instead")
	rootCmd.AddCommand(historyCmd)
}
