// Package scan reconstructs (date, reward) candidate pairs from the noisy row
// sequence. It walks column A with a single forward cursor; a date token opens
// a lookahead window over the same column of the rows below it, which closes
// on the first reward, on the next date, or at the end of the input.
package scan

import (
	"time"

	"xtm_reward_cleaner/internal/cell"
	"xtm_reward_cleaner/internal/classify"

	"github.com/rs/zerolog/log"
)

// Pair is an unvalidated textual (date, reward) association. The pipeline's
// finalize pass is the authority on whether it becomes an event.
type Pair struct {
	Date   string
	Reward string
}

// Action records what the scanner did with one row visit.
type Action string

const (
	ActionSkipJunk      Action = "skip_junk"
	ActionOpenDate      Action = "open_date"
	ActionPairReward    Action = "pair_reward"
	ActionSkipLookahead Action = "skip_lookahead"
	ActionSkipTimestamp Action = "skip_timestamp"
	ActionSupersedeDate Action = "supersede_date"
	ActionDateUnpaired  Action = "date_unpaired"
	ActionIgnore        Action = "ignore"
)

// Entry is one per-row decision. Entries appear in decision order, not row
// order: lookahead visits interleave with cursor visits, a row can show up
// more than once, and an unpaired date's closing entry lands only when its
// window exhausts. Replaying them reconstructs why any row was kept or
// dropped.
type Entry struct {
	Row    int
	Raw    string
	Kind   classify.Kind
	Action Action
}

// DateRenderer renders a structured timestamp to the compact display form so
// it re-enters classification through the same grammar as text. Seconds and
// the true year are discarded on purpose; every date candidate takes the one
// normalization path.
type DateRenderer func(time.Time) string

type Scanner struct {
	render DateRenderer
}

func New(render DateRenderer) *Scanner {
	return &Scanner{render: render}
}

// outcome is the lookahead state transition for one cell.
type outcome int

const (
	outcomeContinue outcome = iota
	outcomePaired
	outcomeSuperseded
)

// Scan walks the data rows (header already stripped) and returns the candidate
// pairs in input order plus the decision trace.
func (s *Scanner) Scan(rows []cell.Row) ([]Pair, []Entry) {
	var pairs []Pair
	trace := make([]Entry, 0, len(rows))

	for i := range rows {
		tok := s.classifyCell(rows[i].A)
		switch tok.Kind {
		case classify.Junk:
			trace = append(trace, Entry{Row: i, Raw: tok.Text, Kind: tok.Kind, Action: ActionSkipJunk})
		case classify.DateLike:
			trace = append(trace, Entry{Row: i, Raw: tok.Text, Kind: tok.Kind, Action: ActionOpenDate})
			if pair, ok := s.seekReward(rows, i, tok.Text, &trace); ok {
				pairs = append(pairs, pair)
				log.Debug().
					Int("row", i).
					Str("date", pair.Date).
					Str("reward", pair.Reward).
					Msg("Paired date with reward")
			}
		default:
			// Reward-like and unrecognized text on its own row pairs with
			// nothing and is left alone.
			trace = append(trace, Entry{Row: i, Raw: tok.Text, Kind: tok.Kind, Action: ActionIgnore})
		}
	}

	log.Debug().
		Int("rows", len(rows)).
		Int("pairs", len(pairs)).
		Msg("Finished scanning rows")
	return pairs, trace
}

// seekReward runs the lookahead window for the date opened at row from. Every
// visited row contributes a trace entry.
func (s *Scanner) seekReward(rows []cell.Row, from int, date string, trace *[]Entry) (Pair, bool) {
	for j := from + 1; j < len(rows); j++ {
		out, tok, action := s.step(rows[j].A)
		*trace = append(*trace, Entry{Row: j, Raw: tok.Text, Kind: tok.Kind, Action: action})
		switch out {
		case outcomePaired:
			return Pair{Date: date, Reward: tok.Text}, true
		case outcomeSuperseded:
			// A new date closes the window; the original date is dropped.
			return Pair{}, false
		}
	}
	*trace = append(*trace, Entry{Row: from, Raw: date, Kind: classify.DateLike, Action: ActionDateUnpaired})
	return Pair{}, false
}

// step is the lookahead transition for one cell: reward ends the search
// successfully, a textual date ends it unsuccessfully, everything else is
// skipped. A structured timestamp can never fill a reward slot and never
// closes the window.
func (s *Scanner) step(c cell.Cell) (outcome, classify.Token, Action) {
	if c.Kind == cell.KindTime {
		tok := classify.Token{Kind: classify.DateLike, Text: s.render(c.Time)}
		return outcomeContinue, tok, ActionSkipTimestamp
	}
	tok := classify.Classify(c.String())
	switch tok.Kind {
	case classify.RewardLike:
		return outcomePaired, tok, ActionPairReward
	case classify.DateLike:
		return outcomeSuperseded, tok, ActionSupersedeDate
	default:
		return outcomeContinue, tok, ActionSkipLookahead
	}
}

// classifyCell classifies a cell under the forward cursor. Structured
// timestamps are rendered to the compact form first so they pass through the
// same date grammar as text.
func (s *Scanner) classifyCell(c cell.Cell) classify.Token {
	if c.Kind == cell.KindTime {
		return classify.Classify(s.render(c.Time))
	}
	return classify.Classify(c.String())
}
