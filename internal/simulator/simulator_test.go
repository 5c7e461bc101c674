package simulator

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/pokerequity/internal/randutil"
	"github.com/lox/pokerequity/poker"
)

func hands(notations ...string) [][]poker.Card {
	out := make([][]poker.Card, len(notations))
	for i, n := range notations {
		out[i] = poker.MustParseCards(n)
	}
	return out
}

func testConfig(iterations int, seed int64) Config {
	return Config{
		Iterations: iterations,
		Rand:       randutil.New(seed),
		Logger:     log.New(io.Discard),
	}
}

func TestNew(t *testing.T) {
	t.Parallel()
	sim := New(hands("AhAs", "KdKc"), poker.MustParseCards("2c7d9h"), poker.Standard, testConfig(10, 1))

	assert.Equal(t, Configured, sim.State())
	assert.Len(t, sim.available, 52-7)
	assert.Equal(t, 2, sim.cardsNeeded)
	assert.Positive(t, sim.config.Workers)

	short := New(hands("AhAs", "KdKc"), nil, poker.ShortDeck, testConfig(10, 1))
	assert.Len(t, short.available, 36-4)
	assert.Equal(t, 5, short.cardsNeeded)
}

func TestRunCompleteBoard(t *testing.T) {
	t.Parallel()
	sim := New(hands("AhAs", "KdKc"), poker.MustParseCards("2c7d9hJsQc"), poker.Standard, testConfig(25, 1))

	tallies, err := sim.Run()
	require.NoError(t, err)
	require.Len(t, tallies, 2)

	assert.Equal(t, 25, tallies[0].Wins)
	assert.Equal(t, 25, tallies[1].Losses)
	assert.Zero(t, tallies[0].Ties+tallies[0].Losses)
	assert.Equal(t, 25, tallies[0].Categories[poker.OnePair])
}

func TestRunBoardPlays(t *testing.T) {
	t.Parallel()
	// Both players play the royal flush on the board.
	sim := New(hands("2c3d", "4c5d", "7s8s"), poker.MustParseCards("AhKhQhJhTh"), poker.Standard, testConfig(10, 1))

	tallies, err := sim.Run()
	require.NoError(t, err)
	for i, tally := range tallies {
		assert.Equal(t, 10, tally.Ties, "player %d", i+1)
		assert.Zero(t, tally.Wins)
		assert.Zero(t, tally.Losses)
	}
}

func TestRunTieAgainstThirdPlayer(t *testing.T) {
	t.Parallel()
	// AK vs AK split, the third player loses every time on this board.
	sim := New(hands("AhKd", "AsKc", "2c3c"), poker.MustParseCards("AdAcKhQs9h"), poker.Standard, testConfig(5, 1))

	tallies, err := sim.Run()
	require.NoError(t, err)
	assert.Equal(t, 5, tallies[0].Ties)
	assert.Equal(t, 5, tallies[1].Ties)
	assert.Equal(t, 5, tallies[2].Losses)
}

func TestCounterConservation(t *testing.T) {
	t.Parallel()
	for _, concurrent := range []bool{false, true} {
		cfg := testConfig(5003, 9)
		cfg.Concurrent = concurrent
		cfg.Workers = 4

		sim := New(hands("AhKh", "9s9c", "QdJd"), nil, poker.Standard, cfg)
		tallies, err := sim.Run()
		require.NoError(t, err)

		wins := 0
		for i, tally := range tallies {
			assert.Equal(t, 5003, tally.Total(), "player %d concurrent=%v", i+1, concurrent)
			categories := 0
			for _, n := range tally.Categories {
				categories += n
			}
			assert.Equal(t, 5003, categories)
			wins += tally.Wins
		}
		assert.LessOrEqual(t, wins, 5003)
	}
}

func TestEveryTrialHasAWinner(t *testing.T) {
	t.Parallel()
	// Heads up, each trial is one outright win or a tie shared by both.
	cfg := testConfig(8000, 13)
	cfg.Concurrent = true
	cfg.Workers = 4

	tallies, err := New(hands("AhKd", "AsKc"), nil, poker.Standard, cfg).Run()
	require.NoError(t, err)

	assert.Equal(t, tallies[0].Ties, tallies[1].Ties)
	assert.Equal(t, tallies[0].Wins, tallies[1].Losses)
	assert.Equal(t, tallies[1].Wins, tallies[0].Losses)
	assert.Equal(t, 8000, tallies[0].Wins+tallies[1].Wins+tallies[0].Ties)
	assert.Greater(t, tallies[0].Ties, 1)
}

func TestSeededRunsAreReproducible(t *testing.T) {
	t.Parallel()
	run := func(concurrent bool) []Tally {
		cfg := testConfig(6000, 42)
		cfg.Concurrent = concurrent
		cfg.Workers = 3
		tallies, err := New(hands("AhAs", "KdKc"), nil, poker.Standard, cfg).Run()
		require.NoError(t, err)
		return tallies
	}

	assert.Equal(t, run(false), run(false))
	assert.Equal(t, run(true), run(true))
}

func TestMoreWorkersThanIterations(t *testing.T) {
	t.Parallel()
	cfg := testConfig(3, 5)
	cfg.Concurrent = true
	cfg.Workers = 16

	tallies, err := New(hands("AhAs", "KdKc"), nil, poker.Standard, cfg).Run()
	require.NoError(t, err)
	for _, tally := range tallies {
		assert.Equal(t, 3, tally.Total())
	}
}

func TestRunOnlyOnce(t *testing.T) {
	t.Parallel()
	sim := New(hands("AhAs", "KdKc"), nil, poker.Standard, testConfig(10, 1))

	_, err := sim.Run()
	require.NoError(t, err)
	assert.Equal(t, Completed, sim.State())

	_, err = sim.Run()
	assert.ErrorIs(t, err, ErrAlreadyRun)
}

func TestPocketAcesOverKings(t *testing.T) {
	t.Parallel()
	cfg := testConfig(20000, 77)
	cfg.Concurrent = true

	tallies, err := New(hands("AhAs", "KdKc"), nil, poker.Standard, cfg).Run()
	require.NoError(t, err)

	equity := (float64(tallies[0].Wins) + float64(tallies[0].Ties)/2) / 20000 * 100
	assert.InDelta(t, 81, equity, 3)
}

func TestStateString(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "configured", Configured.String())
	assert.Equal(t, "running", Running.String())
	assert.Equal(t, "completed", Completed.String())
}

func BenchmarkRunSequential(b *testing.B) {
	for b.Loop() {
		cfg := testConfig(1000, 1)
		_, _ = New(hands("AhAs", "KdKc"), nil, poker.Standard, cfg).Run()
	}
}

func BenchmarkRunParallel(b *testing.B) {
	for b.Loop() {
		cfg := testConfig(10000, 1)
		cfg.Concurrent = true
		_, _ = New(hands("AhAs", "KdKc"), nil, poker.Standard, cfg).Run()
	}
}
