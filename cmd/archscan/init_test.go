package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ludo-technologies/archscan/internal/config"
	"github.com/ludo-technologies/archscan/internal/constants"
)

func runInitWith(t *testing.T, args ...string) error {
	t.Helper()
	cmd := initCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	return cmd.Execute()
}

func TestInitCommand_BasicConfigCreation(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), constants.ConfigFileName)

	if err := runInitWith(t, "--config", configPath); err != nil {
		t.Fatalf("init command failed: %v", err)
	}

	content, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("Failed to read config file: %v", err)
	}

	expectedSections := []string{
		"thresholds:",
		"score_godclass:",
		"god_class:",
		"hub_like:",
		"calibration:",
		"ai:",
		"output:",
		"store:",
	}
	for _, section := range expectedSections {
		if !strings.Contains(string(content), section) {
			t.Errorf("Config file missing expected section: %s", section)
		}
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		t.Fatalf("Generated config does not load: %v", err)
	}
	if cfg.Thresholds.GodClassScore() != 0.75 {
		t.Errorf("Expected standard score_godclass 0.75, got %v", cfg.Thresholds.GodClassScore())
	}
}

func TestInitCommand_ForceOverwrite(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), constants.ConfigFileName)
	if err := os.WriteFile(configPath, []byte("existing: true\n"), 0644); err != nil {
		t.Fatalf("Failed to create existing file: %v", err)
	}

	err := runInitWith(t, "--config", configPath)
	if err == nil {
		t.Fatal("Expected error when file exists without --force")
	}
	if !strings.Contains(err.Error(), "already exists") {
		t.Errorf("Expected 'already exists' error, got: %v", err)
	}

	if err := runInitWith(t, "--config", configPath, "--force"); err != nil {
		t.Fatalf("init --force failed: %v", err)
	}
	content, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("Failed to read config file: %v", err)
	}
	if !strings.Contains(string(content), "hub_like:") {
		t.Error("Config file was not overwritten with new content")
	}
}

func TestInitCommand_MinimalConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), constants.ConfigFileName)

	if err := runInitWith(t, "--config", configPath, "--minimal"); err != nil {
		t.Fatalf("init --minimal failed: %v", err)
	}
	content, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("Failed to read config file: %v", err)
	}
	if strings.Contains(string(content), "ai:") {
		t.Error("Minimal config should not contain the ai section")
	}
	if !strings.Contains(string(content), "(minimal)") {
		t.Error("Expected minimal header")
	}
}

func TestInitCommand_StrictContextPreset(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), constants.ConfigFileName)

	if err := runInitWith(t, "--config", configPath, "--strictness", "strict", "--mode", "context"); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		t.Fatalf("Generated config does not load: %v", err)
	}
	if cfg.Calibration.Mode != "context" {
		t.Errorf("Expected mode context, got %s", cfg.Calibration.Mode)
	}
	if cfg.Thresholds.GodClassScore() != 0.65 || cfg.HubLike.TopK != 20 {
		t.Errorf("Expected strict preset, got score_godclass %v top_k %d", cfg.Thresholds.GodClassScore(), cfg.HubLike.TopK)
	}
}

func TestInitCommand_NoComments(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), constants.ConfigFileName)

	if err := runInitWith(t, "--config", configPath, "--no-comments", "--strictness", "relaxed"); err != nil {
		t.Fatalf("init --no-comments failed: %v", err)
	}
	content, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("Failed to read config file: %v", err)
	}
	if strings.Contains(string(content), "# ") {
		t.Error("Expected a config without comments")
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		t.Fatalf("Saved config does not load: %v", err)
	}
	if cfg.Thresholds.GodClassScore() != 0.85 || cfg.HubLike.TopK != 5 {
		t.Errorf("Expected relaxed preset, got score_godclass %v top_k %d", cfg.Thresholds.GodClassScore(), cfg.HubLike.TopK)
	}
}

func TestInitCommand_InvalidOptions(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"bad strictness", []string{"--config", filepath.Join(dir, "a.yaml"), "--strictness", "extreme"}, "invalid strictness"},
		{"bad mode", []string{"--config", filepath.Join(dir, "b.yaml"), "--mode", "oracle"}, "invalid calibration mode"},
		{"missing directory", []string{"--config", filepath.Join(dir, "nope", "c.yaml")}, "directory does not exist"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := runInitWith(t, tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Expected %q error, got %v", tt.want, err)
			}
		})
	}
}

func TestInitCmd_FlagsExist(t *testing.T) {
	cmd := initCmd()

	for _, name := range []string{"config", "force", "minimal", "no-comments", "strictness", "mode", "interactive"} {
		if cmd.Flags().Lookup(name) == nil {
			t.Errorf("Missing expected flag: --%s", name)
		}
	}
	for short, long := range map[string]string{"c": "config", "f": "force", "i": "interactive"} {
		if cmd.Flags().ShorthandLookup(short) == nil {
			t.Errorf("Missing short flag -%s for --%s", short, long)
		}
	}
}

func TestInitCmd_DefaultConfigPath(t *testing.T) {
	flag := initCmd().Flags().Lookup("config")
	if flag.DefValue != constants.ConfigFileName {
		t.Errorf("Expected default config path %s, got %s", constants.ConfigFileName, flag.DefValue)
	}
}
