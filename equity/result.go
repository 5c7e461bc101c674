package equity

import (
	"time"

	"github.com/lox/pokerequity/internal/simulator"
	"github.com/lox/pokerequity/internal/statistics"
	"github.com/lox/pokerequity/poker"
)

// PlayerEquity is one player's share of a completed calculation.
type PlayerEquity struct {
	PlayerIndex      int            `json:"player_index"`
	Hand             string         `json:"hand"`
	Equity           float64        `json:"equity"`
	EquityMargin     float64        `json:"equity_margin"`
	WinPercent       float64        `json:"win_percent"`
	TiePercent       float64        `json:"tie_percent"`
	Wins             int            `json:"wins"`
	Ties             int            `json:"ties"`
	Losses           int            `json:"losses"`
	TotalSimulations int            `json:"total_simulations"`
	HandCategories   map[string]int `json:"hand_categories,omitempty"`
}

// CategoryPercent returns how often the player finished with a hand of the
// given category, as a percentage of all simulations.
func (p PlayerEquity) CategoryPercent(c poker.Category) float64 {
	if p.TotalSimulations == 0 {
		return 0
	}
	return float64(p.HandCategories[c.String()]) / float64(p.TotalSimulations) * 100
}

// OddsResult is the outcome of one calculation. Players are in input order.
type OddsResult struct {
	ID         string         `json:"id"`
	Players    []PlayerEquity `json:"players"`
	Board      string         `json:"board"`
	Iterations int            `json:"iterations"`
	Elapsed    time.Duration  `json:"elapsed"`
	Variant    poker.Variant  `json:"variant"`
}

// Percent converts a tally to an equity percentage. A tie counts as half a
// win regardless of how many players share it.
func Percent(wins, ties, total int) float64 {
	if total <= 0 {
		return 0
	}
	return (float64(wins) + float64(ties)/2) / float64(total) * 100
}

func newPlayerEquity(index int, hand string, tally simulator.Tally, iterations int) PlayerEquity {
	categories := make(map[string]int)
	for c, n := range tally.Categories {
		if n > 0 {
			categories[poker.Category(c).String()] = n
		}
	}

	pe := PlayerEquity{
		PlayerIndex:      index,
		Hand:             hand,
		Equity:           Percent(tally.Wins, tally.Ties, iterations),
		EquityMargin:     margin(tally),
		Wins:             tally.Wins,
		Ties:             tally.Ties,
		Losses:           tally.Losses,
		TotalSimulations: iterations,
		HandCategories:   categories,
	}
	if iterations > 0 {
		pe.WinPercent = float64(tally.Wins) / float64(iterations) * 100
		pe.TiePercent = float64(tally.Ties) / float64(iterations) * 100
	}
	return pe
}

// margin is the 95% confidence half-width of the equity estimate, in
// percentage points.
func margin(tally simulator.Tally) float64 {
	sample := statistics.Showdowns(tally.Wins, tally.Ties, tally.Losses)
	return sample.Margin95() * 100
}
