package poker

import (
	"errors"
	"fmt"
)

var (
	// ErrInsufficientPlayers is returned when fewer than two hands are supplied.
	ErrInsufficientPlayers = errors.New("at least 2 players are required")

	// ErrInvalidBoard is returned when the board holds more than five cards.
	ErrInvalidBoard = errors.New("board cannot have more than 5 cards")
)

// InvalidCardFormatError reports notation that does not match rank+suit.
type InvalidCardFormatError struct {
	Text string
}

func (e *InvalidCardFormatError) Error() string {
	return fmt.Sprintf("invalid card format %q", e.Text)
}

// InvalidHandSizeError reports a player hand that is not exactly two cards.
// Player is the zero-based index of the offending hand.
type InvalidHandSizeError struct {
	Player int
	Size   int
}

func (e *InvalidHandSizeError) Error() string {
	return fmt.Sprintf("hand %d: must contain exactly 2 cards, got %d", e.Player+1, e.Size)
}

// DuplicateCardsError lists every card that appears more than once across
// the hands and board.
type DuplicateCardsError struct {
	Cards []Card
}

func (e *DuplicateCardsError) Error() string {
	return fmt.Sprintf("duplicate cards: %s", joinCards(e.Cards, " "))
}

// ShortDeckInvalidCardError reports a card below six (other than an Ace)
// used with the short deck.
type ShortDeckInvalidCardError struct {
	Card Card
}

func (e *ShortDeckInvalidCardError) Error() string {
	return fmt.Sprintf("card %s is not part of the short deck", e.Card)
}

func joinCards(cards []Card, sep string) string {
	out := ""
	for i, c := range cards {
		if i > 0 {
			out += sep
		}
		out += c.String()
	}
	return out
}
