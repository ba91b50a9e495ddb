package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/ludo-technologies/archscan/domain"
	"github.com/ludo-technologies/archscan/internal/config"
	"github.com/ludo-technologies/archscan/internal/store"
	"github.com/ludo-technologies/archscan/service"
	"github.com/spf13/cobra"
)

func historyCmd() *cobra.Command {
	var (
		configPath string
		storePath  string
		diagram    string
		limit      int
		showRun    int64
		deleteRun  int64
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded analysis runs",
		Long: `List the runs recorded with 'archscan analyze --store'.

Examples:
  archscan history --store .archscan/history.db
  archscan history --diagram model.xmi --limit 5
  archscan history --show 3
  archscan history --delete 3`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := storePath
			if path == "" {
				cfg, _, err := service.NewConfigurationLoader().LoadConfig(configPath, "")
				if err != nil {
					return err
				}
				path = cfg.Store.Path
			}
			if path == "" {
				path = config.DefaultStorePath
			}

			st, err := store.Open(path)
			if err != nil {
				return domain.NewOutputError(fmt.Sprintf("cannot open history %s", path), err)
			}
			defer st.Close()

			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			switch {
			case deleteRun > 0:
				if err := st.DeleteRun(ctx, deleteRun); err != nil {
					return err
				}
				fmt.Fprintf(out, "Deleted run %d\n", deleteRun)
				return nil
			case showRun > 0:
				return showHistoryRun(cmd, st, showRun, jsonOutput)
			}

			runs, err := st.ListRuns(ctx, diagram, limit)
			if err != nil {
				return err
			}
			if jsonOutput {
				return service.WriteJSON(out, runs)
			}
			writeRunsTable(out, runs)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "",
		"Path to config file (used for the default store path)")
	cmd.Flags().StringVar(&storePath, "store", "",
		"SQLite history database (default from config)")
	cmd.Flags().StringVar(&diagram, "diagram", "",
		"Only list runs of this diagram")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20,
		"Maximum number of runs to list (0 = all)")
	cmd.Flags().Int64Var(&showRun, "show", 0,
		"Show the findings and hubs of a run")
	cmd.Flags().Int64Var(&deleteRun, "delete", 0,
		"Delete a run")
	cmd.Flags().BoolVar(&jsonOutput, "json", false,
		"Output as JSON")

	return cmd
}

func writeRunsTable(w io.Writer, runs []store.Run) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tGENERATED\tDIAGRAM\tSOURCE\tCLASSES\tGOD\tSUSPICIOUS\tHUBS")
	for _, r := range runs {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\t%d\t%d\t%d\n",
			r.ID, r.GeneratedAt, r.Diagram, r.ThresholdSource,
			r.Summary.Classes, r.Summary.GodClasses, r.Summary.Suspicious, r.Summary.Hubs)
	}
	tw.Flush()
}

func showHistoryRun(cmd *cobra.Command, st *store.Store, runID int64, jsonOutput bool) error {
	ctx := cmd.Context()
	findings, err := st.Findings(ctx, runID)
	if err != nil {
		return err
	}
	hubs, err := st.Hubs(ctx, runID)
	if err != nil {
		return err
	}

	resp := &domain.AnalysisResponse{GodClasses: findings, Hubs: hubs}
	out := cmd.OutOrStdout()
	if jsonOutput {
		return service.WriteJSON(out, service.NewAnalysisReport(resp))
	}

	fmt.Fprintf(out, "Run %d\n", runID)
	fmt.Fprintf(out, "God class candidates: %d\n", len(findings))
	for _, f := range findings {
		fmt.Fprintf(out, "  %s: %.2f [%s]\n", f.Class, f.Score, f.Label)
	}
	fmt.Fprintf(out, "Hubs: %d\n", len(hubs))
	for i, h := range hubs {
		fmt.Fprintf(out, "  %d. %s rank=%.4f degree=%d\n", i+1, h.Class, h.Rank, h.Degree)
	}
	return nil
}
