package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ludo-technologies/archscan/domain"
	"github.com/ludo-technologies/archscan/internal/config"
	"github.com/ludo-technologies/archscan/internal/constants"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
)

func initCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Generate an archscan configuration file",
		Long: `Generate a documented archscan configuration file with sensible defaults.

By default, creates archscan.yaml in the current directory with full
documentation. Use --interactive for a guided setup wizard.

Examples:
  # Create archscan.yaml in current directory
  archscan init

  # Custom output path
  archscan init --config custom.yaml

  # Overwrite existing file
  archscan init --force

  # Generate smaller config with essential options only
  archscan init --minimal

  # Strict preset with context calibration, without comments
  archscan init --strictness strict --mode context --no-comments

  # Interactive setup wizard
  archscan init --interactive
  archscan init -i`,
		RunE: runInit,
	}

	cmd.Flags().StringP("config", "c", constants.ConfigFileName,
		"Output path for the config file")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing config file")
	cmd.Flags().Bool("minimal", false,
		"Generate minimal config with essential options only")
	cmd.Flags().Bool("no-comments", false,
		"Write the resolved configuration without documentation")
	cmd.Flags().String("strictness", string(config.StrictnessStandard),
		"Threshold preset: relaxed, standard, strict")
	cmd.Flags().String("mode", string(domain.CalibrationNone),
		"Calibration mode: none, context, ai")
	cmd.Flags().BoolP("interactive", "i", false,
		"Interactive setup wizard")

	return cmd
}

func runInit(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	force, _ := cmd.Flags().GetBool("force")
	minimal, _ := cmd.Flags().GetBool("minimal")
	noComments, _ := cmd.Flags().GetBool("no-comments")
	strictnessFlag, _ := cmd.Flags().GetString("strictness")
	modeFlag, _ := cmd.Flags().GetString("mode")
	interactive, _ := cmd.Flags().GetBool("interactive")

	mode := domain.CalibrationMode(modeFlag)
	strictness := config.Strictness(strictnessFlag)
	if _, ok := config.GetStrictnessPresets()[strictness]; !ok {
		return fmt.Errorf("invalid strictness '%s', must be one of: relaxed, standard, strict", strictnessFlag)
	}
	if !isCalibrationMode(mode) {
		return fmt.Errorf("invalid calibration mode '%s', must be one of: none, context, ai", modeFlag)
	}

	// Run interactive setup if requested
	if interactive {
		var err error
		mode, strictness, configPath, err = runInteractiveSetup(configPath)
		if err != nil {
			return err
		}
	}

	// Check if file exists
	if !force {
		if _, err := os.Stat(configPath); err == nil {
			return fmt.Errorf("%s already exists. Use --force to overwrite", configPath)
		}
	}

	// Check if parent directory exists
	dir := filepath.Dir(configPath)
	if dir != "." && dir != "" {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			return fmt.Errorf("directory does not exist: %s", dir)
		}
	}

	if noComments {
		if err := config.SaveConfig(presetConfig(mode, strictness), configPath); err != nil {
			return fmt.Errorf("failed to write config file: %w", err)
		}
	} else {
		var content string
		if minimal {
			content = config.GetMinimalConfigTemplate()
		} else {
			content = config.GetFullConfigTemplate(mode, strictness)
		}
		if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
			return fmt.Errorf("failed to write config file: %w", err)
		}
	}

	// Print success message with absolute path if possible, otherwise use relative path
	displayPath := configPath
	if absPath, err := filepath.Abs(configPath); err == nil {
		displayPath = absPath
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", displayPath)
	fmt.Fprintln(cmd.OutOrStdout(), "\nRun 'archscan analyze model.xmi' to analyze a diagram.")

	return nil
}

// presetConfig is the default configuration with the preset applied
func presetConfig(mode domain.CalibrationMode, strictness config.Strictness) *config.Config {
	preset := config.GetStrictnessPresets()[strictness]
	cfg := config.DefaultConfig()
	cfg.Calibration.Mode = string(mode)
	cfg.Thresholds.ScoreGodClass = domain.Float(preset.ScoreGodClass)
	cfg.Thresholds.ScoreSuspicious = domain.Float(preset.ScoreSuspicious)
	cfg.HubLike.TopK = preset.TopK
	return cfg
}

func isCalibrationMode(mode domain.CalibrationMode) bool {
	for _, m := range config.CalibrationModes {
		if m == mode {
			return true
		}
	}
	return false
}

func runInteractiveSetup(defaultConfigPath string) (domain.CalibrationMode, config.Strictness, string, error) {
	fmt.Println()
	fmt.Println("archscan Configuration Setup")
	fmt.Println("============================")
	fmt.Println()

	// Calibration mode selection
	modes := []struct {
		Label       string
		Description string
		Value       domain.CalibrationMode
	}{
		{"Fixed thresholds", "Use the thresholds in the config file", domain.CalibrationNone},
		{"Context calibration", "Derive bounds from the diagram, scale by --context size", domain.CalibrationContext},
		{"AI calibration", "Ask Gemini for thresholds (needs GEMINI_API_KEY)", domain.CalibrationAI},
	}

	modeTemplates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "\U0001F449 {{ .Label | cyan }} - {{ .Description | faint }}",
		Inactive: "   {{ .Label | white }} - {{ .Description | faint }}",
		Selected: "\U00002705 {{ .Label | green }}",
	}

	modePrompt := promptui.Select{
		Label:     "How should thresholds be calibrated?",
		Items:     modes,
		Templates: modeTemplates,
	}

	modeIdx, _, err := modePrompt.Run()
	if err != nil {
		return "", "", "", fmt.Errorf("calibration selection cancelled: %w", err)
	}
	selectedMode := modes[modeIdx].Value

	fmt.Println()

	// Strictness selection
	strictnessLevels := []struct {
		Label       string
		Description string
		Value       config.Strictness
	}{
		{"Standard (recommended)", "score_godclass 0.75, score_suspicious 0.50", config.StrictnessStandard},
		{"Relaxed", "Higher scores required, fewer findings", config.StrictnessRelaxed},
		{"Strict", "Lower scores flagged, CI/CD enforcement", config.StrictnessStrict},
	}

	strictnessPrompt := promptui.Select{
		Label:     "How strict should the analysis be?",
		Items:     strictnessLevels,
		Templates: modeTemplates,
	}

	strictnessIdx, _, err := strictnessPrompt.Run()
	if err != nil {
		return "", "", "", fmt.Errorf("strictness selection cancelled: %w", err)
	}
	selectedStrictness := strictnessLevels[strictnessIdx].Value

	fmt.Println()

	// Output path prompt
	outputPrompt := promptui.Prompt{
		Label:   "Output file path",
		Default: defaultConfigPath,
	}

	outputPath, err := outputPrompt.Run()
	if err != nil {
		return "", "", "", fmt.Errorf("output path input cancelled: %w", err)
	}

	// Use default if empty
	if outputPath == "" {
		outputPath = defaultConfigPath
	}

	fmt.Println()
	fmt.Printf("Creating %s... ", outputPath)

	return selectedMode, selectedStrictness, outputPath, nil
}
