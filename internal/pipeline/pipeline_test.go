package pipeline

import (
	"testing"
	"time"

	"xtm_reward_cleaner/internal/cell"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCfg = Config{
	Strategy: StrategyLookahead,
	Year:     2026,
	Location: time.UTC,
}

func row(a, b cell.Cell) cell.Row { return cell.Row{A: a, B: b} }

func header() []interface{} { return []interface{}{"Date", "Amount"} }

func TestRunNoisyExport(t *testing.T) {
	ts := time.Date(2026, time.August, 11, 5, 59, 0, 0, time.UTC)
	table := Table{
		Header: header(),
		Rows: []cell.Row{
			row(cell.Text("XTM"), cell.Text("XTM")),
			row(cell.Empty(), cell.Empty()),
			row(cell.Text("Received"), cell.Text("Received")),
			row(cell.Timestamp(ts), cell.Timestamp(ts)),
			row(cell.Empty(), cell.Empty()),
			row(cell.Text("#ERROR!"), cell.Text("#ERROR!")),
			row(cell.Number(3.92), cell.Number(3.92)),
		},
	}

	res, err := Run(table, testCfg)
	require.NoError(t, err)
	require.Len(t, res.Events, 1)
	assert.Equal(t, time.Date(2026, time.August, 11, 5, 59, 0, 0, time.UTC), res.Events[0].Timestamp)
	assert.Equal(t, 3.92, res.Events[0].Amount)

	rows := OutputRows(res, testCfg)
	require.Len(t, rows, 2)
	assert.Equal(t, header(), rows[0])
	assert.Equal(t, []interface{}{"2026-08-11 05:59:00", 3.92}, rows[1])
}

func TestRunErrorMarkerBetween(t *testing.T) {
	table := Table{
		Header: header(),
		Rows: []cell.Row{
			row(cell.Text("Dec 19, 0:17"), cell.Text("Dec 19, 0:17")),
			row(cell.Text("#ERROR!"), cell.Text("#ERROR!")),
			row(cell.Text("200.17"), cell.Text("200.17")),
		},
	}

	res, err := Run(table, testCfg)
	require.NoError(t, err)
	require.Len(t, res.Events, 1)

	rows := OutputRows(res, testCfg)
	assert.Equal(t, []interface{}{"2026-12-19 00:17:00", 200.17}, rows[1])
}

func TestRunSupersededDateDropped(t *testing.T) {
	table := Table{
		Header: header(),
		Rows: []cell.Row{
			row(cell.Text("Jan 5, 9:00"), cell.Empty()),
			row(cell.Text("Jan 6, 10:00"), cell.Empty()),
			row(cell.Text("5.50"), cell.Empty()),
		},
	}

	res, err := Run(table, testCfg)
	require.NoError(t, err)
	require.Len(t, res.Events, 1)
	assert.Equal(t, time.Date(2026, time.January, 6, 10, 0, 0, 0, time.UTC), res.Events[0].Timestamp)
	assert.Equal(t, 5.50, res.Events[0].Amount)
}

// Three fractional digits fail the strict reward check; the adjacent valid
// date yields no event.
func TestRunMalformedRewardDropped(t *testing.T) {
	table := Table{
		Header: header(),
		Rows: []cell.Row{
			row(cell.Text("Aug 11, 5:59"), cell.Empty()),
			row(cell.Text("3.999"), cell.Empty()),
		},
	}

	res, err := Run(table, testCfg)
	require.NoError(t, err)
	assert.Empty(t, res.Events)
}

func TestRunHeaderInvariance(t *testing.T) {
	h := []interface{}{"When", "How much", "extra"}
	table := Table{
		Header: h,
		Rows: []cell.Row{
			row(cell.Text("Aug 11, 5:59"), cell.Empty()),
			row(cell.Text("3.92"), cell.Empty()),
		},
	}

	res, err := Run(table, testCfg)
	require.NoError(t, err)
	assert.Equal(t, h, res.Header)

	rows := OutputRows(res, testCfg)
	assert.Equal(t, h, rows[0])
}

func TestRunOrderPreserved(t *testing.T) {
	table := Table{
		Header: header(),
		Rows: []cell.Row{
			row(cell.Text("Aug 11, 5:59"), cell.Empty()),
			row(cell.Text("3.92"), cell.Empty()),
			row(cell.Text("Aug 12, 6:01"), cell.Empty()),
			row(cell.Text("4"), cell.Empty()),
			row(cell.Text("Aug 13, 7:30"), cell.Empty()),
			row(cell.Text("0.5"), cell.Empty()),
		},
	}

	res, err := Run(table, testCfg)
	require.NoError(t, err)
	require.Len(t, res.Events, 3)
	for i := 1; i < len(res.Events); i++ {
		assert.True(t, res.Events[i-1].Timestamp.Before(res.Events[i].Timestamp))
	}
}

func TestRunEmptyInput(t *testing.T) {
	_, err := Run(Table{}, testCfg)
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestRunAlignedStrategy(t *testing.T) {
	cfg := Config{Strategy: StrategyAligned, Year: 2026, Location: time.UTC}
	ts := time.Date(2026, time.August, 11, 5, 59, 0, 0, time.UTC)
	table := Table{
		Header: header(),
		Rows: []cell.Row{
			row(cell.Timestamp(ts), cell.Number(3.92)),
			// text amount and text date rows are dropped outright
			row(cell.Timestamp(ts), cell.Text("3.92")),
			row(cell.Text("Aug 11, 5:59"), cell.Number(3.92)),
			row(cell.Empty(), cell.Empty()),
			row(cell.Timestamp(ts.Add(time.Hour)), cell.Number(4)),
		},
	}

	res, err := Run(table, cfg)
	require.NoError(t, err)
	require.Len(t, res.Events, 2)
	assert.Equal(t, ts, res.Events[0].Timestamp)
	assert.Equal(t, 3.92, res.Events[0].Amount)
	assert.Equal(t, ts.Add(time.Hour), res.Events[1].Timestamp)

	assert.Equal(t, ActionKeepAligned, res.Trace[0].Action)
	assert.Equal(t, ActionDropAligned, res.Trace[1].Action)
}

// Aligned mode enforces the same amount grammar as the finalizer: numeric
// cells with more than two fractional digits or a sign are dropped.
func TestRunAlignedRejectsInvalidAmounts(t *testing.T) {
	cfg := Config{Strategy: StrategyAligned, Year: 2026, Location: time.UTC}
	ts := time.Date(2026, time.August, 11, 5, 59, 0, 0, time.UTC)
	table := Table{
		Header: header(),
		Rows: []cell.Row{
			row(cell.Timestamp(ts), cell.Number(3.999)),
			row(cell.Timestamp(ts), cell.Number(-3.92)),
			row(cell.Timestamp(ts.Add(time.Hour)), cell.Number(3.92)),
		},
	}

	res, err := Run(table, cfg)
	require.NoError(t, err)
	require.Len(t, res.Events, 1)
	assert.Equal(t, 3.92, res.Events[0].Amount)
	assert.Equal(t, ActionDropAligned, res.Trace[0].Action)
	assert.Equal(t, ActionDropAligned, res.Trace[1].Action)
	assert.Equal(t, ActionKeepAligned, res.Trace[2].Action)
}

// Canonical output is column-aligned, so re-running the pipeline over its own
// output (as the sheet would hand it back: date cells and number cells)
// reproduces it exactly.
func TestRunIdempotentOnOwnOutput(t *testing.T) {
	table := Table{
		Header: header(),
		Rows: []cell.Row{
			row(cell.Text("Dec 19, 0:17"), cell.Empty()),
			row(cell.Text("#ERROR!"), cell.Empty()),
			row(cell.Text("200.17"), cell.Empty()),
			row(cell.Text("Dec 20, 1:30"), cell.Empty()),
			row(cell.Text("3.92"), cell.Empty()),
		},
	}

	first, err := Run(table, testCfg)
	require.NoError(t, err)
	require.Len(t, first.Events, 2)

	rerun := Table{Header: first.Header}
	for _, e := range first.Events {
		rerun.Rows = append(rerun.Rows, row(cell.Timestamp(e.Timestamp), cell.Number(e.Amount)))
	}

	alignedCfg := Config{Strategy: StrategyAligned, Year: 2026, Location: time.UTC}
	second, err := Run(rerun, alignedCfg)
	require.NoError(t, err)
	assert.Equal(t, first.Events, second.Events)
	assert.Equal(t, OutputRows(first, testCfg), OutputRows(second, alignedCfg))
}

func TestParseStrategy(t *testing.T) {
	s, err := ParseStrategy("lookahead")
	require.NoError(t, err)
	assert.Equal(t, StrategyLookahead, s)

	s, err = ParseStrategy("aligned")
	require.NoError(t, err)
	assert.Equal(t, StrategyAligned, s)

	_, err = ParseStrategy("both")
	assert.Error(t, err)
}
