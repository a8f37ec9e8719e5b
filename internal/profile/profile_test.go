package profile_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/blvflag/blvhist/internal/profile"
)

func TestSaveAndLoadRoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	want := &profile.Profile{
		ToolPath:    "/usr/local/bin/blvflag",
		DefaultMode: "text-based",
		LastSetup:   time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	}
	if err := profile.Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := profile.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.ToolPath != want.ToolPath {
		t.Errorf("ToolPath: got %q, want %q", got.ToolPath, want.ToolPath)
	}
	if got.DefaultMode != want.DefaultMode {
		t.Errorf("DefaultMode: got %q, want %q", got.DefaultMode, want.DefaultMode)
	}
	if !got.LastSetup.Equal(want.LastSetup) {
		t.Errorf("LastSetup: got %v, want %v", got.LastSetup, want.LastSetup)
	}
}

func TestExists(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	if profile.Exists() {
		t.Error("no profile saved yet, Exists must be false")
	}
	if err := profile.Save(&profile.Profile{ToolPath: "blvflag"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !profile.Exists() {
		t.Error("profile saved, Exists must be true")
	}
}

func TestLoadMissingProfileMentionsSetup(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	_, err := profile.Load()
	if err == nil {
		t.Fatal("expected an error for a missing profile")
	}
	if !strings.Contains(err.Error(), "blvhist setup") {
		t.Errorf("error should point the user at setup: %v", err)
	}
}

func TestLoadMalformedProfile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".config", "blvhist")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "profile.json"), []byte("{nope"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := profile.Load()
	if err == nil {
		t.Fatal("expected an error for a malformed profile")
	}
	if !strings.Contains(err.Error(), "malformed profile") {
		t.Errorf("unexpected error: %v", err)
	}
}
