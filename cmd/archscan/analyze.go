package main

import (
	"fmt"
	"path/filepath"

	"github.com/ludo-technologies/archscan/domain"
	"github.com/ludo-technologies/archscan/service"
	"github.com/spf13/cobra"
)

func analyzeCmd() *cobra.Command {
	var (
		flags          analysisFlags
		outputFormat   string
		outputPath     string
		metricsOutPath string
	)

	cmd := &cobra.Command{
		Use:   "analyze <diagram.xmi>",
		Short: "Detect god classes and hub-like dependencies in a UML diagram",
		Long: `Analyze an XMI class diagram for God Class and Hub-Like Dependency
antipatterns.

Thresholds come from the configuration file, optionally overridden by a
--thresholds map, then calibrated: --ai-calibrate asks the AI model,
--context scales them by the document size, otherwise they are used as is.
The context must be a UTF-8 text file; convert PDF documents to text first.

Examples:
  archscan analyze model.xmi
  archscan analyze --context thesis.txt --metrics-out thresholds.json model.xmi
  archscan analyze --ai-calibrate --context thesis.txt model.xmi
  archscan analyze --format dot -o design.dot model.xmi
  archscan analyze --format json --store .archscan/history.db model.xmi`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			override := &domain.AnalysisRequest{
				OutputPath:     outputPath,
				MetricsOutPath: metricsOutPath,
			}
			if cmd.Flags().Changed("format") {
				override.OutputFormat = domain.OutputFormat(outputFormat)
			}

			cfg, req, err := flags.buildRequest(cmd, args[0], override)
			if err != nil {
				return err
			}

			logger, err := newLogger(cfg)
			if err != nil {
				return err
			}
			defer logger.Sync()

			// Progress bars go to stderr and are auto-disabled for non-TTY/CI
			pm := service.NewProgressManager(!flags.noProgress)
			defer pm.Close()

			uc, err := newAnalyzeUseCase(cfg, logger, pm)
			if err != nil {
				return err
			}

			ctx, cancel := analysisContext(cmd, cfg)
			defer cancel()

			req.OutputWriter = cmd.OutOrStdout()
			result, err := uc.Execute(ctx, *req)
			if err != nil {
				return err
			}

			if req.OutputPath != "" {
				absPath, _ := filepath.Abs(req.OutputPath)
				fmt.Fprintf(cmd.ErrOrStderr(), "Report saved to: %s\n", absPath)
			}
			if req.MetricsOutPath != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "Thresholds saved to: %s\n", req.MetricsOutPath)
			}
			if result.RunID > 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "Recorded run %d in %s\n", result.RunID, req.StorePath)
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text",
		"Output format: text, json, yaml, dot")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "",
		"Write the report to this file instead of stdout")
	cmd.Flags().StringVar(&metricsOutPath, "metrics-out", "",
		"Write the effective threshold map to this file (.json or .yaml)")

	return cmd
}
