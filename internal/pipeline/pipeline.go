// Package pipeline orchestrates one cleaning run: classify and pair the raw
// rows, re-validate every candidate, and render the canonical output table.
// Run is a pure function of its input and configuration; the decision trace
// comes back as a value next to the result.
package pipeline

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"xtm_reward_cleaner/internal/cell"
	"xtm_reward_cleaner/internal/classify"
	"xtm_reward_cleaner/internal/dateform"
	"xtm_reward_cleaner/internal/scan"

	"github.com/rs/zerolog/log"
)

// Strategy selects how events are reconstructed from the row shape.
type Strategy string

const (
	// StrategyLookahead pairs each date with the nearest reward beneath it,
	// skipping arbitrary noise. This is the default for the raw export.
	StrategyLookahead Strategy = "lookahead"
	// StrategyAligned keeps only rows that already carry a structured
	// timestamp in column A and a number in column B. No pairing state.
	StrategyAligned Strategy = "aligned"
)

// ParseStrategy maps a flag value onto a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case StrategyLookahead, StrategyAligned:
		return Strategy(s), nil
	}
	return "", fmt.Errorf("unknown strategy %q (want %q or %q)", s, StrategyLookahead, StrategyAligned)
}

// Aligned-mode trace actions. Lookahead actions live in package scan.
const (
	ActionKeepAligned scan.Action = "keep_aligned"
	ActionDropAligned scan.Action = "drop_aligned"
)

// Config carries the run configuration: the pairing strategy, the assumed
// year for compact dates, and the timezone canonical strings render in.
type Config struct {
	Strategy Strategy
	Year     int
	Location *time.Location
}

// Event is one validated, canonical reward event.
type Event struct {
	Timestamp time.Time
	Amount    float64
}

// Table is the raw input: the untouched header row and the typed data rows.
type Table struct {
	Header []interface{}
	Rows   []cell.Row
}

// Result is one completed run.
type Result struct {
	Header []interface{}
	Events []Event
	Trace  []scan.Entry
}

// ErrEmptyInput reports that the source range held nothing to process.
var ErrEmptyInput = errors.New("input table is empty")

// Run executes one cleaning pass over the table. Row-level rejections are
// normal filtering and only show up in the trace; an error means the run as a
// whole could not proceed and nothing should be written.
func Run(table Table, cfg Config) (Result, error) {
	if len(table.Header) == 0 && len(table.Rows) == 0 {
		return Result{}, ErrEmptyInput
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}

	var (
		events []Event
		trace  []scan.Entry
	)
	switch cfg.Strategy {
	case StrategyAligned:
		events, trace = alignedEvents(table.Rows)
	default:
		scanner := scan.New(dateform.Compact)
		pairs, scanTrace := scanner.Scan(table.Rows)
		trace = scanTrace
		events = finalize(pairs, cfg)
	}

	log.Debug().
		Int("rows", len(table.Rows)).
		Int("events", len(events)).
		Str("strategy", string(cfg.Strategy)).
		Msg("Pipeline run complete")

	return Result{Header: table.Header, Events: events, Trace: trace}, nil
}

// finalize is the authoritative second validation pass: the scanner's
// classification only optimized for pairing. Both strings are re-normalized
// and re-checked strictly; anything that almost matches is dropped, never
// coerced.
func finalize(pairs []scan.Pair, cfg Config) []Event {
	var events []Event
	for _, p := range pairs {
		reward := classify.Normalize(p.Reward)
		if !classify.IsRewardLike(reward) {
			log.Debug().Str("reward", p.Reward).Msg("Dropping pair with invalid reward")
			continue
		}
		ts, ok := dateform.ParseCompact(p.Date, cfg.Year, cfg.Location)
		if !ok {
			log.Debug().Str("date", p.Date).Msg("Dropping pair with unparseable date")
			continue
		}
		amount, err := strconv.ParseFloat(reward, 64)
		if err != nil {
			log.Debug().Err(err).Str("reward", reward).Msg("Dropping pair with unparseable amount")
			continue
		}
		events = append(events, Event{Timestamp: ts, Amount: amount})
	}
	return events
}

// alignedEvents implements the degenerate column-aligned mode: a row survives
// iff column A is a structured timestamp and column B is numeric. The amount
// still has to pass the reward grammar, so an over-precise or negative number
// never reaches the output in either strategy.
func alignedEvents(rows []cell.Row) ([]Event, []scan.Entry) {
	var events []Event
	trace := make([]scan.Entry, 0, len(rows))
	for i, row := range rows {
		if row.A.Kind == cell.KindTime && row.B.Kind == cell.KindNumber && classify.IsRewardLike(row.B.String()) {
			events = append(events, Event{Timestamp: row.A.Time, Amount: row.B.Num})
			trace = append(trace, scan.Entry{Row: i, Raw: dateform.Compact(row.A.Time), Kind: classify.DateLike, Action: ActionKeepAligned})
			continue
		}
		trace = append(trace, scan.Entry{Row: i, Raw: row.A.String(), Kind: classify.Classify(row.A.String()).Kind, Action: ActionDropAligned})
	}
	return events, trace
}

// OutputRows renders the result as the value grid written back to the sheet:
// the untouched header followed by one (canonical date, amount) row per event.
func OutputRows(res Result, cfg Config) [][]interface{} {
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	rows := make([][]interface{}, 0, len(res.Events)+1)
	if len(res.Header) > 0 {
		rows = append(rows, res.Header)
	}
	for _, e := range res.Events {
		rows = append(rows, []interface{}{dateform.Canonical(e.Timestamp, loc), e.Amount})
	}
	return rows
}
