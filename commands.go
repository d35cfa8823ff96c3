package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"erlang-staffing/batch"
	"erlang-staffing/formatter"
	"erlang-staffing/models"
	"erlang-staffing/parser"
)

func calcCmd(app *App) *cobra.Command {
	var in models.RequestInput

	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Calculate staffing for a single request",
		Example: `  erlang-staffing calc --calls 342 --aht 430
  erlang-staffing calc --calls 342 --aht 430 --svl-goal 90 --max-occ 85 --format json`,
		Args: cobra.NoArgs,
		RunE: app.run(func(cmd *cobra.Command, args []string) error {
			result := app.calc.Evaluate(in)

			out, err := formatter.Format(app.opts.format, []*models.Result{result})
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)

			if !result.Valid() {
				return fmt.Errorf("no staffing level for request %q", in.Name)
			}
			return nil
		}),
	}
	requestFlags(cmd.Flags(), &in)

	return cmd
}

func batchCmd(app *App) *cobra.Command {
	var workers int

	cmd := &cobra.Command{
		Use:   "batch <file.csv>",
		Short: "Calculate staffing for every request in a CSV file",
		Long: `Reads one request per line: name, calls, interval, aht, svl_goal, asa_goal,
max_occ[, shrinkage]. Blank cells take the configured defaults, and a cell that
is not a number rejects only its own row. Lines starting with '#' are ignored.`,
		Args: cobra.ExactArgs(1),
		RunE: app.run(func(cmd *cobra.Command, args []string) error {
			file, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("error opening file: %w", err)
			}
			defer file.Close()

			rows, err := parser.Parse(file)
			if err != nil {
				return fmt.Errorf("error parsing file: %w", err)
			}

			if !cmd.Flags().Changed("workers") {
				workers = app.cfg.Workers
			}
			items, err := batch.Evaluate(cmd.Context(), app.calc, rows, workers, app.logger)
			if err != nil {
				return err
			}

			results := make([]*models.Result, len(items))
			invalid := 0
			for i, item := range items {
				results[i] = item.Result
				if !item.Result.Valid() {
					invalid++
				}
			}
			app.logger.Info("Batch complete", zap.Int("rows", len(items)), zap.Int("invalid", invalid))

			out, err := formatter.Format(app.opts.format, results)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		}),
	}
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "Concurrent evaluations (default from config)")

	return cmd
}
