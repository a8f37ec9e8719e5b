package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/blvflag/blvhist/internal/toolrun"
)

var explainCmd = &cobra.Command{
	Use:   "explain <script>",
	Short: "Run the blvflag analysis report for a script",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		script := args[0]

		inv := toolrun.NewInvoker(GetConfig().ToolPath)
		run, err := inv.Start(cmd.Context(), toolrun.Request{Args: []string{"--explain", script}})
		if err != nil {
			return fmt.Errorf("explain: %w", err)
		}
		streamRun(cmd, run, "explain", script)
		return nil
	},
}

// streamRun prints a tool run's output as it arrives and appends the
// invocation to the run log. A non-zero exit is reported on the visible
// output, not escalated as an error.
func streamRun(cmd *cobra.Command, run *toolrun.Run, verb, target string) int {
	code := 0
	for ev := range run.Events {
		switch ev.Kind {
		case toolrun.Stdout:
			cmd.Println(ev.Line)
		case toolrun.Stderr:
			cmd.PrintErrln(ev.Line)
		case toolrun.Exit:
			code = ev.Code
		}
	}
	if code != 0 {
		cmd.Printf("blvflag exited with code %d\n", code)
	}
	// The run log is advisory; a failed append never fails the verb.
	_ = toolrun.Append(toolrun.Entry{
		Timestamp: time.Now(),
		RunID:     run.ID,
		Verb:      verb,
		Target:    target,
		ExitCode:  code,
	})
	return code
}

func init() {
	rootCmd.AddCommand(explainCmd)
}
