package simulator

import (
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"runtime"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/lox/pokerequity/internal/randutil"
	"github.com/lox/pokerequity/poker"
)

// ErrAlreadyRun is returned when Run is called on a simulator that has
// already started.
var ErrAlreadyRun = errors.New("simulation has already run")

// State is the lifecycle stage of a Simulator.
type State int

const (
	Configured State = iota
	Running
	Completed
)

func (s State) String() string {
	switch s {
	case Configured:
		return "configured"
	case Running:
		return "running"
	case Completed:
		return "completed"
	default:
		return "unknown"
	}
}

// Tally counts the showdown outcomes for one player.
type Tally struct {
	Wins   int
	Ties   int
	Losses int
	// Categories counts the final hand category of every trial.
	Categories [poker.NumCategories]int
}

// Total returns the number of trials recorded.
func (t Tally) Total() int {
	return t.Wins + t.Ties + t.Losses
}

func (t *Tally) merge(other Tally) {
	t.Wins += other.Wins
	t.Ties += other.Ties
	t.Losses += other.Losses
	for i, n := range other.Categories {
		t.Categories[i] += n
	}
}

// Config holds configuration for a simulation run
type Config struct {
	Iterations int
	// Concurrent splits the trials across Workers goroutines.
	Concurrent bool
	// Workers defaults to runtime.NumCPU when zero.
	Workers int
	// Rand seeds the run. Concurrent workers each get a generator derived
	// from it. A wall-clock seeded generator is used when nil.
	Rand   *rand.Rand
	Logger *log.Logger
}

// Simulator deals random board completions for a fixed set of hands and
// tallies who wins each showdown. A Simulator runs once.
type Simulator struct {
	config      Config
	hands       [][]poker.Card
	board       []poker.Card
	variant     poker.Variant
	available   []poker.Card
	cardsNeeded int
	state       State
	logger      *log.Logger
}

// New creates a simulator for already validated hands and board.
func New(hands [][]poker.Card, board []poker.Card, variant poker.Variant, config Config) *Simulator {
	if config.Workers <= 0 {
		config.Workers = runtime.NumCPU()
	}
	if config.Rand == nil {
		config.Rand = randutil.NewUnseeded()
	}
	logger := config.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	known := poker.KnownCards(hands, board)
	return &Simulator{
		config:      config,
		hands:       hands,
		board:       board,
		variant:     variant,
		available:   poker.DeckExcluding(known, variant),
		cardsNeeded: poker.MaxBoardCards - len(board),
		state:       Configured,
		logger:      logger.WithPrefix("simulator"),
	}
}

// State returns the current lifecycle stage.
func (s *Simulator) State() State {
	return s.state
}

// Run executes every trial and returns one tally per hand, in hand order.
func (s *Simulator) Run() ([]Tally, error) {
	if s.state != Configured {
		return nil, ErrAlreadyRun
	}
	if s.cardsNeeded > len(s.available) {
		return nil, fmt.Errorf("need %d board cards but only %d remain in the deck", s.cardsNeeded, len(s.available))
	}
	s.state = Running

	var tallies []Tally
	if s.config.Concurrent && s.config.Iterations > 1 && s.config.Workers > 1 {
		tallies = s.runParallel()
	} else {
		tallies = s.runSequential()
	}
	s.state = Completed

	for i, t := range tallies {
		if t.Total() != s.config.Iterations {
			return nil, fmt.Errorf("player %d: tallied %d trials, expected %d", i+1, t.Total(), s.config.Iterations)
		}
	}
	return tallies, nil
}

func (s *Simulator) runSequential() []Tally {
	s.logger.Debug("Running sequential simulation", "iterations", s.config.Iterations)
	return s.newWorker(s.config.Rand).run(s.config.Iterations)
}

func (s *Simulator) runParallel() []Tally {
	workers := s.config.Workers
	if workers > s.config.Iterations {
		workers = s.config.Iterations
	}

	// Divide trials among workers; worker 0 takes the remainder.
	perWorker := s.config.Iterations / workers
	remainder := s.config.Iterations % workers

	s.logger.Debug("Running parallel simulation",
		"iterations", s.config.Iterations, "workers", workers, "per_worker", perWorker)

	rngs := randutil.Split(s.config.Rand, workers)
	results := make([][]Tally, workers)

	var g errgroup.Group
	for w := range workers {
		trials := perWorker
		if w == 0 {
			trials += remainder
		}
		wk := s.newWorker(rngs[w])
		g.Go(func() error {
			results[w] = wk.run(trials)
			return nil
		})
	}
	_ = g.Wait() // workers never fail

	merged := make([]Tally, len(s.hands))
	for _, partial := range results {
		for i := range merged {
			merged[i].merge(partial[i])
		}
	}
	return merged
}

// worker owns its deck buffer, generator and tallies so the trial loop
// shares nothing mutable.
type worker struct {
	hands     [][]poker.Card
	board     []poker.Card
	variant   poker.Variant
	available []poker.Card
	needed    int
	rng       *rand.Rand

	deck    []poker.Card
	seven   [][]poker.Card
	scores  []poker.Score
	tallies []Tally
}

func (s *Simulator) newWorker(rng *rand.Rand) *worker {
	w := &worker{
		hands:     s.hands,
		board:     s.board,
		variant:   s.variant,
		available: s.available,
		needed:    s.cardsNeeded,
		rng:       rng,
		deck:      make([]poker.Card, len(s.available)),
		seven:     make([][]poker.Card, len(s.hands)),
		scores:    make([]poker.Score, len(s.hands)),
		tallies:   make([]Tally, len(s.hands)),
	}
	// hole cards, then the known board; the runout fills the tail each trial
	for i, hand := range s.hands {
		w.seven[i] = make([]poker.Card, len(hand)+poker.MaxBoardCards)
		copy(w.seven[i], hand)
		copy(w.seven[i][len(hand):], s.board)
	}
	return w
}

func (w *worker) run(trials int) []Tally {
	for range trials {
		w.trial()
	}
	return w.tallies
}

// trial shuffles the remaining deck, completes the board and records the
// showdown.
func (w *worker) trial() {
	copy(w.deck, w.available)
	poker.ShuffleInPlace(w.deck, w.rng)
	runout := poker.Deal(w.needed, w.deck)

	var best poker.Score
	for i, cards := range w.seven {
		copy(cards[len(cards)-w.needed:], runout)
		score := poker.EvaluateScore(cards, w.variant)
		w.scores[i] = score
		w.tallies[i].Categories[score.Category()]++
		if score > best {
			best = score
		}
	}

	winners := 0
	for _, score := range w.scores {
		if score == best {
			winners++
		}
	}

	for i, score := range w.scores {
		switch {
		case score != best:
			w.tallies[i].Losses++
		case winners == 1:
			w.tallies[i].Wins++
		default:
			w.tallies[i].Ties++
		}
	}
}
