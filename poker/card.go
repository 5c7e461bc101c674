package poker

import (
	"fmt"
	"strings"
)

// Suit represents a card suit. Suits carry no ordering.
type Suit uint8

const (
	Spades Suit = iota
	Hearts
	Diamonds
	Clubs
)

// Suits lists every suit in deck-building order.
var Suits = [...]Suit{Spades, Hearts, Diamonds, Clubs}

// String returns the lowercase suit code used in notation.
func (s Suit) String() string {
	switch s {
	case Spades:
		return "s"
	case Hearts:
		return "h"
	case Diamonds:
		return "d"
	case Clubs:
		return "c"
	default:
		return "?"
	}
}

// Symbol returns the unicode symbol for the suit.
func (s Suit) Symbol() string {
	switch s {
	case Spades:
		return "♠"
	case Hearts:
		return "♥"
	case Diamonds:
		return "♦"
	case Clubs:
		return "♣"
	default:
		return "?"
	}
}

// Rank represents a card rank. The numeric value is the comparison value,
// with the Ace high at 14.
type Rank uint8

const (
	Two Rank = iota + 2
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

// Value returns the numeric value of the rank (2-14).
func (r Rank) Value() int {
	return int(r)
}

// Valid reports whether r is one of the thirteen ranks.
func (r Rank) Valid() bool {
	return r >= Two && r <= Ace
}

// String returns the rank code used in notation.
func (r Rank) String() string {
	switch r {
	case Ten:
		return "T"
	case Jack:
		return "J"
	case Queen:
		return "Q"
	case King:
		return "K"
	case Ace:
		return "A"
	default:
		if r >= Two && r <= Nine {
			return string(rune('0' + r))
		}
		return "?"
	}
}

// Card is an immutable playing card. Two cards are equal when both rank and
// suit match, so Card can be used directly as a map key.
type Card struct {
	Rank Rank
	Suit Suit
}

// NewCard creates a card from a rank and suit.
func NewCard(rank Rank, suit Suit) Card {
	return Card{Rank: rank, Suit: suit}
}

// String returns the short notation for the card, e.g. "As" or "Td".
func (c Card) String() string {
	return c.Rank.String() + c.Suit.String()
}

// Pretty returns the card with a unicode suit symbol, e.g. "A♠".
func (c Card) Pretty() string {
	return c.Rank.String() + c.Suit.Symbol()
}

// Valid reports whether the card exists in a 52-card deck.
func (c Card) Valid() bool {
	return c.Rank.Valid() && c.Suit <= Clubs
}

// IsLegalUnderShortDeck reports whether the card exists in a 36-card deck.
func (c Card) IsLegalUnderShortDeck() bool {
	return c.Rank >= Six || c.Rank == Ace
}

// ShortNotation returns the notation for a card. It is the inverse of ParseCard.
func ShortNotation(c Card) string {
	return c.String()
}

// IsLegalUnderShortDeck reports whether the card exists in a 36-card deck.
func IsLegalUnderShortDeck(c Card) bool {
	return c.IsLegalUnderShortDeck()
}

// ParseCard parses a single card such as "As", "Td" or "10h".
func ParseCard(s string) (Card, error) {
	if len(s) < 2 || len(s) > 3 {
		return Card{}, &InvalidCardFormatError{Text: s}
	}

	rankText, suitText := s[:len(s)-1], s[len(s)-1]
	rank, ok := parseRank(rankText)
	if !ok {
		return Card{}, &InvalidCardFormatError{Text: s}
	}
	suit, ok := parseSuit(suitText)
	if !ok {
		return Card{}, &InvalidCardFormatError{Text: s}
	}

	return Card{Rank: rank, Suit: suit}, nil
}

// ParseCards parses a run of cards such as "AhKh", "Td7s8h" or "10h9c".
// Spaces and commas between cards are ignored. An empty string yields no cards.
func ParseCards(s string) ([]Card, error) {
	s = strings.NewReplacer(" ", "", ",", "", "\t", "").Replace(s)

	cards := make([]Card, 0, len(s)/2)
	for i := 0; i < len(s); {
		rankLen := 1
		if strings.HasPrefix(s[i:], "10") {
			rankLen = 2
		}
		if i+rankLen >= len(s) {
			return nil, &InvalidCardFormatError{Text: s[i:]}
		}

		token := s[i : i+rankLen+1]
		card, err := ParseCard(token)
		if err != nil {
			return nil, fmt.Errorf("card %d: %w", len(cards)+1, err)
		}
		cards = append(cards, card)
		i += rankLen + 1
	}

	return cards, nil
}

// MustParseCards parses cards and panics on error (for tests)
func MustParseCards(s string) []Card {
	cards, err := ParseCards(s)
	if err != nil {
		panic(fmt.Sprintf("failed to parse cards '%s': %v", s, err))
	}
	return cards
}

// FormatCards joins the short notation of each card, e.g. "AhKh".
func FormatCards(cards []Card) string {
	var sb strings.Builder
	sb.Grow(len(cards) * 2)
	for _, c := range cards {
		sb.WriteString(c.String())
	}
	return sb.String()
}

func parseRank(s string) (Rank, bool) {
	if s == "10" {
		return Ten, true
	}
	if len(s) != 1 {
		return 0, false
	}

	switch c := s[0]; c {
	case 'A', 'a':
		return Ace, true
	case 'K', 'k':
		return King, true
	case 'Q', 'q':
		return Queen, true
	case 'J', 'j':
		return Jack, true
	case 'T', 't':
		return Ten, true
	case '2', '3', '4', '5', '6', '7', '8', '9':
		return Rank(c - '0'), true
	default:
		return 0, false
	}
}

func parseSuit(c byte) (Suit, bool) {
	switch c {
	case 's', 'S':
		return Spades, true
	case 'h', 'H':
		return Hearts, true
	case 'd', 'D':
		return Diamonds, true
	case 'c', 'C':
		return Clubs, true
	default:
		return 0, false
	}
}
