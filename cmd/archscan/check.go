package main

import (
	"fmt"
	"io"

	"github.com/ludo-technologies/archscan/app"
	"github.com/ludo-technologies/archscan/domain"
	"github.com/ludo-technologies/archscan/internal/constants"
	"github.com/ludo-technologies/archscan/service"
	"github.com/spf13/cobra"
)

// CheckExitError is a custom error type for check command exit codes
type CheckExitError struct {
	Code    int
	Message string
}

func (e *CheckExitError) Error() string {
	return e.Message
}

func checkCmd() *cobra.Command {
	var (
		flags            analysisFlags
		failOnSuspicious bool
		allowHubs        bool
		verbose          bool
		jsonOutput       bool
	)

	cmd := &cobra.Command{
		Use:   "check <diagram.xmi>",
		Short: "Design quality gate for CI/CD pipelines",
		Long: `Run both detectors and fail when the diagram contains antipatterns.

Exit codes:
  0 - All checks pass
  1 - God class or hub-like dependency found
  2 - Analysis error (diagram not found, parse error, etc.)

Examples:
  # Basic check with the configured thresholds
  archscan check model.xmi

  # Also fail on suspicious classes, tolerate hubs
  archscan check --fail-on-suspicious --allow-hubs model.xmi

  # JSON output for machine parsing
  archscan check --json model.xmi`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return &CheckExitError{Code: constants.ExitError, Message: "no diagram specified"}
			}

			cfg, req, err := flags.buildRequest(cmd, args[0], nil)
			if err != nil {
				return &CheckExitError{Code: constants.ExitError, Message: err.Error()}
			}
			// The verdict replaces the report
			req.OutputWriter = nil
			req.OutputPath = ""

			logger, err := newLogger(cfg)
			if err != nil {
				return &CheckExitError{Code: constants.ExitError, Message: err.Error()}
			}
			defer logger.Sync()

			pm := service.NewProgressManager(!flags.noProgress && !jsonOutput)
			defer pm.Close()

			uc, err := newAnalyzeUseCase(cfg, logger, pm)
			if err != nil {
				return &CheckExitError{Code: constants.ExitError, Message: err.Error()}
			}

			ctx, cancel := analysisContext(cmd, cfg)
			defer cancel()

			result, err := uc.Execute(ctx, *req)
			if err != nil {
				return &CheckExitError{Code: constants.ExitError, Message: err.Error()}
			}

			check := app.NewCheckUseCase(app.CheckOptions{
				FailOnSuspicious: failOnSuspicious,
				AllowHubs:        allowHubs,
			}).Evaluate(result.Response)

			out := cmd.OutOrStdout()
			if jsonOutput {
				if err := service.WriteJSON(out, check); err != nil {
					return &CheckExitError{Code: constants.ExitError, Message: fmt.Sprintf("failed to encode JSON: %v", err)}
				}
			} else {
				outputCheckText(out, check, verbose)
			}

			if !check.Passed {
				return &CheckExitError{Code: check.ExitCode, Message: ""}
			}
			return nil
		},
		SilenceUsage:  true, // Don't print usage on errors (we handle our own output)
		SilenceErrors: true, // Don't print error messages (we handle our own output)
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&failOnSuspicious, "fail-on-suspicious", false,
		"Fail when a class is labelled suspicious")
	cmd.Flags().BoolVar(&allowHubs, "allow-hubs", false,
		"Report hub-like dependencies without failing")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false,
		"Show detailed output")
	cmd.Flags().BoolVar(&jsonOutput, "json", false,
		"Output results as JSON")

	return cmd
}

func outputCheckText(w io.Writer, result *domain.CheckResult, verbose bool) {
	if result.Passed {
		fmt.Fprintln(w, "PASS: All design checks passed")
	} else {
		fmt.Fprintln(w, "FAIL: Design check failed")
	}
	if !result.Passed || verbose {
		fmt.Fprintf(w, "  Violations: %d\n", result.Summary.TotalViolations)
	}

	for _, v := range result.Violations {
		if v.Severity == "warning" && !verbose && result.Passed {
			continue
		}
		severity := "ERROR"
		if v.Severity == "warning" {
			severity = "WARN"
		}
		fmt.Fprintf(w, "  [%s] %s: %s\n", severity, v.Category, v.Message)
	}

	if verbose {
		fmt.Fprintf(w, "\nSummary:\n")
		fmt.Fprintf(w, "  Diagram: %s\n", result.Summary.Diagram)
		fmt.Fprintf(w, "  Classes: %d\n", result.Summary.ClassesAnalyzed)
		fmt.Fprintf(w, "  God classes: %d\n", result.Summary.GodClasses)
		fmt.Fprintf(w, "  Suspicious: %d\n", result.Summary.Suspicious)
		fmt.Fprintf(w, "  Hubs: %d\n", result.Summary.Hubs)
		fmt.Fprintf(w, "  Duration: %dms\n", result.Duration)
	}
}
