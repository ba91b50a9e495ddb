package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/ludo-technologies/archscan/internal/constants"
	"github.com/ludo-technologies/archscan/internal/version"
	"github.com/spf13/cobra"
)

var (
	// Version reported by the root command
	Version = version.GetVersion()

	// Logging flags shared by every command
	logLevel  string
	logFormat string
)

func main() {
	rootCmd := newRootCmd()

	if err := rootCmd.Execute(); err != nil {
		// Handle custom exit codes from check command
		var exitErr *CheckExitError
		if errors.As(err, &exitErr) {
			if exitErr.Message != "" {
				fmt.Fprintf(os.Stderr, "Error: %s\n", exitErr.Message)
			}
			os.Exit(exitErr.Code)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(constants.ExitViolation)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   constants.ToolName,
		Short: "archscan - UML design antipattern detector",
		Long: `archscan detects God Class and Hub-Like Dependency antipatterns in UML
class diagrams exported as XMI. Thresholds can be calibrated from the
diagram itself, from a context document, or by a language model.`,
		Version: Version,
	}

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"Log level: debug, info, warn, error (default from config, else warn)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "",
		"Log format: console or json (default from config, else console)")

	rootCmd.AddCommand(analyzeCmd())
	rootCmd.AddCommand(calibrateCmd())
	rootCmd.AddCommand(metricsCmd())
	rootCmd.AddCommand(checkCmd())
	rootCmd.AddCommand(historyCmd())
	rootCmd.AddCommand(initCmd())
	rootCmd.AddCommand(versionCmd())

	return rootCmd
}

func versionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			verbose, _ := cmd.Flags().GetBool("verbose")
			if verbose {
				fmt.Fprintln(cmd.OutOrStdout(), version.GetFullVersion())
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", constants.ToolName, version.GetVersion())
			}
		},
	}

	cmd.Flags().BoolP("verbose", "v", false, "Show detailed version information")
	return cmd
}
