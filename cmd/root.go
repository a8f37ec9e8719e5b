package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/x/term"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/blvflag/blvhist/internal/config"
	"github.com/blvflag/blvhist/internal/diff"
	"github.com/blvflag/blvhist/internal/history"
	"github.com/blvflag/blvhist/internal/profile"
	"github.com/blvflag/blvhist/internal/toolrun"
)

// cfg holds the merged configuration, populated in PersistentPreRunE.
var cfg config.Config

// activeProfile holds the loaded user profile.
var activeProfile *profile.Profile

var rootCmd = &cobra.Command{
	Use:   "blvhist",
	Short: "Compare and restore scripts against their blvflag history snapshots",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// A project .env may carry BLVFLAG_* overrides.
		_ = godotenv.Load()

		// Skip setup check for the setup command itself.
		if cmd.Name() == "setup" {
			return nil
		}

		// First-run: profile missing → run setup wizard automatically.
		// Only do this when stdin is an interactive terminal.
		if !profile.Exists() {
			if term.IsTerminal(os.Stdin.Fd()) {
				fmt.Println()
				fmt.Println("  Welcome to blvhist! Looks like this is your first time.")
				if err := runSetup(true, ""); err != nil {
					return err
				}
			}
			// Non-interactive (tests, pipes): continue with defaults, no profile required.
		}

		// Load profile (optional — may not exist in non-interactive environments).
		if profile.Exists() {
			p, err := profile.Load()
			if err != nil {
				return fmt.Errorf("loading profile: %w", err)
			}
			activeProfile = p
		}

		// Load and merge config files, then let the environment win.
		global, err := config.LoadGlobal()
		if err != nil {
			return fmt.Errorf("loading global config: %w", err)
		}
		project, err := config.LoadProject()
		if err != nil {
			return fmt.Errorf("loading project config: %w", err)
		}
		cfg = config.FromEnv(config.Merge(global, project))

		// Profile values fill in config gaps.
		if activeProfile != nil {
			if cfg.ToolPath == "blvflag" && activeProfile.ToolPath != "" {
				cfg.ToolPath = activeProfile.ToolPath
			}
			if cfg.DefaultMode == "side-by-side" && activeProfile.DefaultMode != "" {
				cfg.DefaultMode = activeProfile.DefaultMode
			}
		}

		// The history root default needs the home dir, so it resolves late.
		if cfg.HistoryRoot == "" {
			root, err := config.DefaultHistoryRoot()
			if err != nil {
				return fmt.Errorf("resolving history root: %w", err)
			}
			cfg.HistoryRoot = root
		}

		return nil
	},
}

// Execute runs the root command. Exits with code 1 on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// GetConfig returns the merged configuration for use by subcommands.
func GetConfig() config.Config {
	return cfg
}

// newOrchestrator builds the diff orchestrator from the merged config.
func newOrchestrator() *diff.Orchestrator {
	return &diff.Orchestrator{
		Store:   history.NewStore(cfg.HistoryRoot, cfg.Partitions),
		Invoker: toolrun.NewInvoker(cfg.ToolPath),
		Suffix:  cfg.ScriptSuffix,
		TempDir: cfg.TempDir,
	}
}
