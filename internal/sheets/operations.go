package sheets

import (
	"context"
	"time"

	"xtm_reward_cleaner/internal/config"
	"xtm_reward_cleaner/internal/pipeline"
	"xtm_reward_cleaner/internal/retry"

	"github.com/rs/zerolog/log"
)

// ReadRewardTable reads the configured source range, retrying transient API
// failures. The caller gets either a complete table or a single error.
func ReadRewardTable(ctx context.Context, client *Client, res config.ResilienceConfig, spreadsheetID, readRange string, loc *time.Location) (pipeline.Table, error) {
	table, err := retry.Do(ctx, res.SheetRead, func(ctx context.Context) (pipeline.Table, error) {
		return client.ReadGrid(ctx, spreadsheetID, readRange, loc)
	})
	if err != nil {
		return pipeline.Table{}, err
	}
	log.Debug().
		Int("rows", len(table.Rows)).
		Int("header_cells", len(table.Header)).
		Str("range", readRange).
		Msg("Read source table")
	return table, nil
}

// WriteCleanTable writes the rendered output table over the destination range,
// retrying transient API failures.
func WriteCleanTable(ctx context.Context, client *Client, res config.ResilienceConfig, spreadsheetID, writeRange string, values [][]interface{}) error {
	_, err := retry.Do(ctx, res.SheetWrite, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, client.WriteTable(ctx, spreadsheetID, writeRange, values)
	})
	if err != nil {
		return err
	}
	log.Debug().
		Int("rows", len(values)).
		Str("range", writeRange).
		Msg("Wrote output table")
	return nil
}
