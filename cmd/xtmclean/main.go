package main

import (
	"os"

	"xtm_reward_cleaner/internal/app"
	"xtm_reward_cleaner/internal/config"
	"xtm_reward_cleaner/internal/pipeline"
	"xtm_reward_cleaner/internal/scan"
	"xtm_reward_cleaner/internal/sheets"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	strategyFlag string
	dryRun       bool
	showTrace    bool
)

var rootCmd = &cobra.Command{
	Use:   "xtmclean",
	Short: "Clean a noisy XTM reward export into canonical (timestamp, amount) rows",
	Long: `xtmclean reads a two-column mining reward export from a Google Sheet,
reconstructs (timestamp, amount) events from the interleaved noise, and
writes the cleaned table back.

Two strategies are available:
  lookahead - pair each date with the nearest reward beneath it, skipping
              labels, error markers and blank rows (the default)
  aligned   - keep only rows that already hold a date cell in column A and
              a number in column B`,
	RunE:          runClean,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.Flags().StringVar(&strategyFlag, "strategy", string(pipeline.StrategyLookahead), "pairing strategy: lookahead or aligned")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "process and log without writing anything back")
	rootCmd.Flags().BoolVar(&showTrace, "trace", false, "log the per-row decision trace at info level")
}

func main() {
	app.SetupEnvironment()
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("Run failed")
		os.Exit(1)
	}
}

func runClean(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	strategy, err := pipeline.ParseStrategy(strategyFlag)
	if err != nil {
		return err
	}
	settings, err := app.LoadSettings()
	if err != nil {
		return err
	}

	client, err := sheets.NewClient(ctx, settings.CredentialsFile)
	if err != nil {
		return err
	}

	table, err := sheets.ReadRewardTable(ctx, client, config.DefaultResilienceConfig,
		settings.SpreadsheetID, settings.ReadRange, settings.Location)
	if err != nil {
		return err
	}

	cfg := pipeline.Config{
		Strategy: strategy,
		Year:     settings.Year,
		Location: settings.Location,
	}
	result, err := pipeline.Run(table, cfg)
	if err != nil {
		return err
	}
	logTrace(result.Trace)

	if dryRun {
		log.Info().
			Int("rows", len(table.Rows)).
			Int("events", len(result.Events)).
			Msg("Dry run, skipping sheet write")
		return nil
	}

	rows := pipeline.OutputRows(result, cfg)
	if err := sheets.WriteCleanTable(ctx, client, config.DefaultResilienceConfig,
		settings.SpreadsheetID, settings.WriteRange, rows); err != nil {
		return err
	}

	log.Info().
		Int("input_rows", len(table.Rows)).
		Int("events", len(result.Events)).
		Str("strategy", string(strategy)).
		Msg("Sheet clean complete")
	return nil
}

func logTrace(entries []scan.Entry) {
	for _, e := range entries {
		ev := log.Debug()
		if showTrace {
			ev = log.Info()
		}
		ev.
			Int("row", e.Row).
			Str("raw", e.Raw).
			Str("kind", e.Kind.String()).
			Str("action", string(e.Action)).
			Msg("Row decision")
	}
}
