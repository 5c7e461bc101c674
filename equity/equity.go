// Package equity estimates each player's share of the pot from their hole
// cards and a partial board using Monte Carlo simulation.
package equity

import (
	"fmt"
	"io"
	"runtime"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/google/uuid"

	"github.com/lox/pokerequity/internal/randutil"
	"github.com/lox/pokerequity/internal/simulator"
	"github.com/lox/pokerequity/poker"
)

const (
	// DefaultIterations is used when a calculation asks for zero iterations.
	DefaultIterations = 10000

	// DefaultConcurrencyThreshold is the iteration count from which trials
	// are split across workers.
	DefaultConcurrencyThreshold = 5000
)

// Config holds calculator settings. Zero values select the defaults.
type Config struct {
	Iterations           int
	ConcurrencyThreshold int
	Workers              int
	// Seed makes runs reproducible. Each calculation reseeds from it.
	Seed   *int64
	Logger *log.Logger
	Clock  quartz.Clock
}

// Calculator runs equity calculations. It is safe for concurrent use.
type Calculator struct {
	config Config
	logger *log.Logger
	clock  quartz.Clock
}

// New creates a calculator, applying defaults for unset fields.
func New(config Config) *Calculator {
	if config.Iterations <= 0 {
		config.Iterations = DefaultIterations
	}
	if config.ConcurrencyThreshold <= 0 {
		config.ConcurrencyThreshold = DefaultConcurrencyThreshold
	}
	if config.Workers <= 0 {
		config.Workers = runtime.NumCPU()
	}
	logger := config.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	clock := config.Clock
	if clock == nil {
		clock = quartz.NewReal()
	}

	return &Calculator{
		config: config,
		logger: logger.WithPrefix("equity"),
		clock:  clock,
	}
}

// Calculate parses hand and board notation and estimates each player's
// equity. An empty board means pre-flop. Iterations <= 0 uses the configured
// default.
func (c *Calculator) Calculate(hands []string, board string, variant poker.Variant, iterations int) (*OddsResult, error) {
	parsedHands := make([][]poker.Card, len(hands))
	for i, notation := range hands {
		cards, err := poker.ParseCards(notation)
		if err != nil {
			return nil, fmt.Errorf("hand %d: %w", i+1, err)
		}
		if len(cards) != 2 {
			return nil, &poker.InvalidHandSizeError{Player: i, Size: len(cards)}
		}
		parsedHands[i] = cards
	}

	parsedBoard, err := poker.ParseCards(board)
	if err != nil {
		return nil, fmt.Errorf("board: %w", err)
	}
	if len(parsedBoard) > poker.MaxBoardCards {
		return nil, poker.ErrInvalidBoard
	}

	return c.CalculateCards(parsedHands, parsedBoard, variant, iterations)
}

// CalculateCards estimates equity for already parsed hands and board.
func (c *Calculator) CalculateCards(hands [][]poker.Card, board []poker.Card, variant poker.Variant, iterations int) (*OddsResult, error) {
	if err := poker.Validate(hands, board, variant); err != nil {
		return nil, err
	}
	if iterations <= 0 {
		iterations = c.config.Iterations
	}

	rng := randutil.NewUnseeded()
	if c.config.Seed != nil {
		rng = randutil.New(*c.config.Seed)
	}

	start := c.clock.Now()
	sim := simulator.New(hands, board, variant, simulator.Config{
		Iterations: iterations,
		Concurrent: iterations >= c.config.ConcurrencyThreshold,
		Workers:    c.config.Workers,
		Rand:       rng,
		Logger:     c.logger,
	})
	tallies, err := sim.Run()
	if err != nil {
		return nil, fmt.Errorf("simulation failed: %w", err)
	}
	elapsed := c.clock.Since(start)

	result := &OddsResult{
		ID:         uuid.NewString(),
		Players:    make([]PlayerEquity, len(hands)),
		Board:      poker.FormatCards(board),
		Iterations: iterations,
		Elapsed:    elapsed,
		Variant:    variant,
	}
	for i, tally := range tallies {
		result.Players[i] = newPlayerEquity(i, poker.FormatCards(hands[i]), tally, iterations)
	}

	c.logger.Debug("Calculated equity",
		"id", result.ID,
		"players", len(hands),
		"board", result.Board,
		"variant", variant,
		"iterations", iterations,
		"elapsed", elapsed)

	return result, nil
}

// PreFlop calculates equity with no board cards.
func (c *Calculator) PreFlop(hands []string, variant poker.Variant, iterations int) (*OddsResult, error) {
	return c.Calculate(hands, "", variant, iterations)
}

// PostFlop calculates equity with a flop, turn or river board.
func (c *Calculator) PostFlop(hands []string, board string, variant poker.Variant, iterations int) (*OddsResult, error) {
	return c.Calculate(hands, board, variant, iterations)
}
