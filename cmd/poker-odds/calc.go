package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/lox/pokerequity/equity"
	"github.com/lox/pokerequity/internal/config"
	"github.com/lox/pokerequity/internal/fileutil"
	"github.com/lox/pokerequity/poker"
)

// CalcCmd runs one equity calculation and prints a table.
type CalcCmd struct {
	Hands         []string `arg:"" help:"Player hands, e.g. 'AhAs KdKc'" required:""`
	Board         string   `short:"b" help:"Community board cards (e.g., 'Td7s8h')"`
	Iterations    int      `short:"i" help:"Number of Monte Carlo iterations (default from config)"`
	Variant       string   `help:"Game variant: standard or short (default from config)"`
	Seed          *int64   `help:"Random seed for reproducible results"`
	Possibilities bool     `short:"p" help:"Show detailed hand type probabilities"`
	Output        string   `short:"o" type:"path" help:"Also write the result as JSON to this file"`
}

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15"))

	handStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("14"))

	equityStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("13"))

	winStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	tieStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11"))

	categoryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("12"))

	percentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))
)

func (c *CalcCmd) Run(g *Globals) error {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return err
	}
	if c.Variant != "" {
		cfg.Variant = c.Variant
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	variant, err := cfg.GameVariant()
	if err != nil {
		return err
	}

	logger := setupLogger(os.Stderr, cfg.LogLevel, g.Debug)
	if c.Seed != nil {
		logger.Debug("Using deterministic seed", "seed", *c.Seed)
	}

	calc := equity.New(equity.Config{
		Iterations:           cfg.Iterations,
		ConcurrencyThreshold: cfg.ConcurrencyThreshold,
		Workers:              cfg.Workers,
		Seed:                 c.Seed,
		Logger:               logger,
	})

	result, err := calc.Calculate(splitHands(c.Hands), c.Board, variant, c.Iterations)
	if err != nil {
		return err
	}

	renderResult(os.Stdout, result, c.Possibilities)

	if c.Output != "" {
		if err := fileutil.WriteJSON(c.Output, result, 0o644); err != nil {
			return err
		}
		logger.Debug("Wrote result", "path", c.Output, "id", result.ID)
	}
	return nil
}

// splitHands accepts hands given as separate arguments or as one quoted,
// space separated argument.
func splitHands(args []string) []string {
	var hands []string
	for _, arg := range args {
		hands = append(hands, strings.Fields(arg)...)
	}
	return hands
}

func renderResult(out io.Writer, result *equity.OddsResult, showPossibilities bool) {
	if result.Board != "" {
		fmt.Fprintf(out, "%s\n", headerStyle.Render("board"))
		fmt.Fprintf(out, "%s\n\n", formatNotation(result.Board))
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
		headerStyle.Render("hand"),
		headerStyle.Render("equity"),
		headerStyle.Render("win"),
		headerStyle.Render("tie"),
		headerStyle.Render("class"))

	for _, p := range result.Players {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			handStyle.Render(formatNotation(p.Hand)),
			equityStyle.Render(fmt.Sprintf("%.1f%% ±%.1f", p.Equity, p.EquityMargin)),
			winStyle.Render(fmt.Sprintf("%.1f%%", p.WinPercent)),
			tieStyle.Render(fmt.Sprintf("%.1f%%", p.TiePercent)),
			categoryStyle.Render(holeCardClass(p.Hand)))
	}
	_ = w.Flush()

	if showPossibilities && len(result.Players) > 0 {
		fmt.Fprintf(out, "\n")
		renderPossibilities(out, result.Players)
	}

	fmt.Fprintf(out, "\n%d iterations (%s) in %v\n",
		result.Iterations, result.Variant, result.Elapsed.Truncate(time.Millisecond))
}

func renderPossibilities(out io.Writer, players []equity.PlayerEquity) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	fmt.Fprintf(w, "%s", categoryStyle.Render("hand"))
	for _, p := range players {
		fmt.Fprintf(w, "\t%s", handStyle.Render(formatNotation(p.Hand)))
	}
	fmt.Fprintf(w, "\n")

	// strongest first, skipping categories nobody made
	for c := poker.RoyalFlush; ; c-- {
		seen := false
		for _, p := range players {
			if p.HandCategories[c.String()] > 0 {
				seen = true
				break
			}
		}
		if seen {
			fmt.Fprintf(w, "%s", categoryStyle.Render(c.String()))
			for _, p := range players {
				if p.HandCategories[c.String()] > 0 {
					fmt.Fprintf(w, "\t%s", percentStyle.Render(fmt.Sprintf("%.1f%%", p.CategoryPercent(c))))
				} else {
					fmt.Fprintf(w, "\t%s", percentStyle.Render("."))
				}
			}
			fmt.Fprintf(w, "\n")
		}
		if c == poker.HighCard {
			break
		}
	}

	_ = w.Flush()
}

func holeCardClass(notation string) string {
	cards, err := poker.ParseCards(notation)
	if err != nil {
		return string(poker.CategoryUnknown)
	}
	return string(poker.CategorizeHand(cards))
}

// formatNotation spaces out card notation for display, e.g. "Ah Kh".
func formatNotation(notation string) string {
	cards, err := poker.ParseCards(notation)
	if err != nil {
		return notation
	}
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}
