package main

import (
	"github.com/ludo-technologies/archscan/app"
	"github.com/ludo-technologies/archscan/domain"
	"github.com/ludo-technologies/archscan/internal/config"
	"github.com/ludo-technologies/archscan/internal/parser"
	"github.com/ludo-technologies/archscan/service"
	"github.com/spf13/cobra"
)

func calibrateCmd() *cobra.Command {
	var (
		configPath     string
		contextPath    string
		thresholdsPath string
		aiCalibrate    bool
		outputFormat   string
		outputPath     string
	)

	cmd := &cobra.Command{
		Use:   "calibrate <diagram.xmi>",
		Short: "Print the calibrated threshold map for a diagram",
		Long: `Compute the threshold map the detectors would use, without running them.

Normalization bounds are always recomputed from the diagram. With --context
the decision thresholds are also scaled by the document size; with
--ai-calibrate the AI model suggests the whole map.

Examples:
  archscan calibrate model.xmi
  archscan calibrate --context thesis.txt -o thresholds.yaml model.xmi`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := service.NewConfigurationLoader().LoadConfig(configPath, args[0])
			if err != nil {
				return err
			}
			base := cfg.Thresholds.Clone()
			if thresholdsPath != "" {
				th, err := config.LoadThresholdsFile(thresholdsPath)
				if err != nil {
					return domain.NewConfigError("failed to load thresholds", err)
				}
				base = base.Merge(th)
			}

			mode := domain.CalibrationContext
			if aiCalibrate {
				if contextPath == "" {
					return domain.NewInvalidInputError("AI calibration needs a context document (--context)", nil)
				}
				mode = domain.CalibrationAI
			}

			logger, err := newLogger(cfg)
			if err != nil {
				return err
			}
			defer logger.Sync()

			metrics := service.NewMetricsService(&cfg.Performance)
			uc := app.NewCalibrateUseCase(
				parser.NewXMIParser(logger),
				service.NewCalibrationService(&cfg.Calibration, metrics, logger),
				app.NewGeminiProviderFactory(cfg.AI, logger),
			)

			ctx, cancel := analysisContext(cmd, cfg)
			defer cancel()

			req := app.CalibrateRequest{
				DiagramPath:    args[0],
				ContextPath:    contextPath,
				Mode:           mode,
				BaseThresholds: base,
				OutputWriter:   cmd.OutOrStdout(),
				OutputPath:     outputPath,
			}
			if cmd.Flags().Changed("format") {
				req.Format = domain.OutputFormat(outputFormat)
			}
			_, err = uc.Execute(ctx, req)
			return err
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "",
		"Path to config file")
	cmd.Flags().StringVar(&contextPath, "context", "",
		"Plain-text context document")
	cmd.Flags().StringVar(&thresholdsPath, "thresholds", "",
		"JSON threshold map merged over the configured thresholds")
	cmd.Flags().BoolVar(&aiCalibrate, "ai-calibrate", false,
		"Ask the configured AI model for thresholds (requires a plain-text --context; PDF documents are not read)")
	cmd.Flags().StringVarP(&outputFormat, "format", "f", "json",
		"Output format: json or yaml (default from the output extension)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "",
		"Write the threshold map to this file instead of stdout")

	return cmd
}
