package main

import (
	"github.com/ludo-technologies/archscan/app"
	"github.com/ludo-technologies/archscan/domain"
	"github.com/ludo-technologies/archscan/internal/parser"
	"github.com/ludo-technologies/archscan/service"
	"github.com/spf13/cobra"
)

func metricsCmd() *cobra.Command {
	var (
		configPath   string
		outputFormat string
		outputPath   string
	)

	cmd := &cobra.Command{
		Use:   "metrics <diagram.xmi>",
		Short: "Dump the raw metric distributions of a diagram",
		Long: `Dump WMC, ATFD, FanIn, FanOut and LRC per class together with
min, p50, mean, p90 and max of each distribution.

Examples:
  archscan metrics model.xmi
  archscan metrics --format yaml -o metrics.yaml model.xmi`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := service.NewConfigurationLoader().LoadConfig(configPath, args[0])
			if err != nil {
				return err
			}
			logger, err := newLogger(cfg)
			if err != nil {
				return err
			}
			defer logger.Sync()

			uc := app.NewMetricsUseCase(parser.NewXMIParser(logger), service.NewMetricsService(&cfg.Performance))

			ctx, cancel := analysisContext(cmd, cfg)
			defer cancel()

			_, err = uc.Execute(ctx, args[0], domain.OutputFormat(outputFormat), cmd.OutOrStdout(), outputPath)
			return err
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "",
		"Path to config file")
	cmd.Flags().StringVarP(&outputFormat, "format", "f", "json",
		"Output format: json, yaml, text")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "",
		"Write the dump to this file instead of stdout")

	return cmd
}
