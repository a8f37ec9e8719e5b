// Package profile manages the user's persistent blvhist profile.
// The profile is stored at ~/.config/blvhist/profile.json and is created
// once via the interactive setup flow, then referenced on every command.
package profile

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// Profile holds user-level preferences set during first-run setup.
type Profile struct {
	ToolPath    string    `json:"tool_path"`    // blvflag binary
	DefaultMode string    `json:"default_mode"` // "side-by-side" | "text-based"
	LastSetup   time.Time `json:"last_setup"`
}

// profilePath returns the path to the profile file.
func profilePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "blvhist", "profile.json"), nil
}

// ConfigDir returns the blvhist config directory.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "blvhist"), nil
}

// Exists reports whether a profile file is present on disk.
func Exists() bool {
	p, err := profilePath()
	if err != nil {
		return false
	}
	_, err = os.Stat(p)
	return err == nil
}

// Load reads the profile from disk. Returns an error if the file is missing or malformed.
func Load() (*Profile, error) {
	p, err := profilePath()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("profile not found — run 'blvhist setup' to configure: %w", err)
	}
	var prof Profile
	if err := json.Unmarshal(data, &prof); err != nil {
		return nil, fmt.Errorf("malformed profile at %s: %w", p, err)
	}
	return &prof, nil
}

// Save writes the profile to disk, creating the config directory if needed.
func Save(prof *Profile) error {
	p, err := profilePath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(prof, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(p, data, 0o644)
}

// RunSetup runs the interactive setup wizard and saves the resulting profile.
// If existing is non-nil, it is used as the default for each prompt (edit mode).
func RunSetup(existing *Profile) (*Profile, error) {
	r := bufio.NewReader(os.Stdin)

	ask := func(prompt, defaultVal string) (string, error) {
		if defaultVal != "" {
			fmt.Printf("%s [%s]: ", prompt, defaultVal)
		} else {
			fmt.Printf("%s: ", prompt)
		}
		line, err := r.ReadString('\n')
		if err != nil {
			return "", err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			return defaultVal, nil
		}
		return line, nil
	}

	prof := &Profile{
		ToolPath:    detectTool(),
		DefaultMode: "side-by-side",
	}
	if existing != nil {
		*prof = *existing
	}

	fmt.Println()
	fmt.Println("  ┌─────────────────────────────────┐")
	fmt.Println("  │   blvhist — first-time setup    │")
	fmt.Println("  └─────────────────────────────────┘")
	fmt.Println()

	var err error

	prof.ToolPath, err = ask("  Path to the blvflag binary", prof.ToolPath)
	if err != nil {
		return nil, err
	}

	mode, err := ask("  Default diff mode (side-by-side/text-based)", prof.DefaultMode)
	if err != nil {
		return nil, err
	}
	if mode == "text-based" {
		prof.DefaultMode = "text-based"
	} else {
		prof.DefaultMode = "side-by-side"
	}

	prof.LastSetup = time.Now()

	fmt.Println()
	return prof, nil
}

// detectTool returns the blvflag binary found on PATH, or the bare name
// for later resolution.
func detectTool() string {
	if path, err := exec.LookPath("blvflag"); err == nil {
		return path
	}
	return "blvflag"
}
