package poker

import (
	"fmt"
	"strings"
)

// Variant selects the deck and rules in play.
type Variant uint8

const (
	// Standard is 52-card Texas Hold'em.
	Standard Variant = iota
	// ShortDeck removes the twos through fives, leaving 36 cards.
	ShortDeck
)

// String returns the canonical variant name.
func (v Variant) String() string {
	switch v {
	case Standard:
		return "standard"
	case ShortDeck:
		return "short"
	default:
		return "unknown"
	}
}

// Ranks returns the legal ranks for the variant in ascending order.
func (v Variant) Ranks() []Rank {
	lowest := Two
	if v == ShortDeck {
		lowest = Six
	}
	ranks := make([]Rank, 0, Ace-lowest+1)
	for r := lowest; r <= Ace; r++ {
		ranks = append(ranks, r)
	}
	return ranks
}

// DeckSize returns the number of cards in a full deck for the variant.
func (v Variant) DeckSize() int {
	return len(v.Ranks()) * len(Suits)
}

// MarshalText encodes the variant by name.
func (v Variant) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText decodes a variant name accepted by ParseVariant.
func (v *Variant) UnmarshalText(text []byte) error {
	parsed, err := ParseVariant(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// ParseVariant parses a variant name. The empty string selects Standard.
func ParseVariant(s string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "standard", "holdem", "nlhe":
		return Standard, nil
	case "short", "shortdeck", "short-deck", "short_deck", "6+":
		return ShortDeck, nil
	default:
		return Standard, fmt.Errorf("unknown game variant %q", s)
	}
}
