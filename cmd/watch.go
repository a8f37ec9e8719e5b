package cmd

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/blvflag/blvhist/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch [script...]",
	Short: "Follow the history partitions and log new snapshots",
	Long: `Follow the history partitions and log new snapshots as the blvflag
runtime records them. Scripts given as arguments are tracked: each new
matching snapshot refreshes that script's side-by-side artifact pair.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
			With().Timestamp().Logger()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		w := &watch.Watcher{
			Orch:    newOrchestrator(),
			Tracked: args,
			Log:     logger,
		}
		logger.Info().Str("root", GetConfig().HistoryRoot).Int("tracked", len(args)).Msg("watching history")
		return w.Run(ctx)
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
