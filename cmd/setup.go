package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/blvflag/blvhist/internal/profile"
	"github.com/blvflag/blvhist/internal/toolrun"
)

var setupTool string

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Configure blvhist (re-run anytime to edit settings)",
	// Bypass the normal PersistentPreRunE so setup works before profile exists.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSetup(false, setupTool)
	},
}

// runSetup runs the interactive setup wizard.
// If firstRun is true, a welcome message is shown. A non-empty tool
// path pre-seeds the wizard's binary prompt.
func runSetup(firstRun bool, tool string) error {
	if firstRun {
		fmt.Println()
		fmt.Println("  Welcome to blvhist! Let's get you set up.")
	}

	// Load existing profile as defaults if present.
	var existing *profile.Profile
	if profile.Exists() {
		p, err := profile.Load()
		if err == nil {
			existing = p
		}
	}
	if tool != "" {
		if existing == nil {
			existing = &profile.Profile{DefaultMode: "side-by-side"}
		}
		existing.ToolPath = tool
	}

	prof, err := profile.RunSetup(existing)
	if err != nil {
		return fmt.Errorf("setup cancelled: %w", err)
	}

	if err := profile.Save(prof); err != nil {
		return fmt.Errorf("saving profile: %w", err)
	}
	fmt.Println("  ✓ Profile saved.")

	configureCredential(prof.ToolPath)

	fmt.Println("  Setup complete. Run 'blvhist diff <script>' to compare against history.")
	fmt.Println()
	return nil
}

// configureCredential optionally forwards a credential to the blvflag
// binary over stdin. The credential is handed straight to the tool and
// never written anywhere by blvhist.
func configureCredential(toolPath string) {
	if !term.IsTerminal(os.Stdin.Fd()) {
		return
	}
	fmt.Print("  blvflag credential (enter to skip): ")
	secret, err := term.ReadPassword(os.Stdin.Fd())
	fmt.Println()
	if err != nil || len(secret) == 0 {
		return
	}

	inv := toolrun.NewInvoker(toolPath)
	run, err := inv.Start(context.Background(), toolrun.Request{
		Args:   []string{"--configure"},
		Secret: string(secret),
	})
	if err != nil {
		fmt.Printf("  ⚠ Could not start %s: %v\n", toolPath, err)
		fmt.Println("    You can retry with: blvhist setup")
		return
	}
	code := 0
	for ev := range run.Events {
		if ev.Kind == toolrun.Exit {
			code = ev.Code
		}
	}
	if code != 0 {
		fmt.Printf("  ⚠ blvflag --configure exited with code %d\n", code)
		return
	}
	fmt.Println("  ✓ Credential forwarded to blvflag.")
}

func init() {
	setupCmd.Flags().StringVar(&setupTool, "tool", "", "path to the blvflag binary")
	rootCmd.AddCommand(setupCmd)
}
