package poker

import (
	"math/rand/v2"
)

// CardSet represents a set of cards using a bitset for fast operations
// Each card maps to a bit: index = (rank-2)*4 + suit
type CardSet uint64

func cardIndex(card Card) uint {
	return uint(card.Rank-Two)*4 + uint(card.Suit)
}

// NewCardSet creates a CardSet from a slice of cards
func NewCardSet(cards ...Card) CardSet {
	var cs CardSet
	for _, card := range cards {
		cs.Add(card)
	}
	return cs
}

// Add adds a card to the set
func (cs *CardSet) Add(card Card) {
	*cs |= 1 << cardIndex(card)
}

// Contains checks if a card is in the set
func (cs CardSet) Contains(card Card) bool {
	return cs&(1<<cardIndex(card)) != 0
}

// FullDeck returns every card of the variant, suit by suit in ascending rank.
func FullDeck(variant Variant) []Card {
	ranks := variant.Ranks()
	deck := make([]Card, 0, len(ranks)*len(Suits))
	for _, suit := range Suits {
		for _, rank := range ranks {
			deck = append(deck, NewCard(rank, suit))
		}
	}
	return deck
}

// DeckExcluding returns the full deck for the variant without the given cards.
func DeckExcluding(excluded []Card, variant Variant) []Card {
	used := NewCardSet(excluded...)
	full := FullDeck(variant)
	deck := full[:0]
	for _, card := range full {
		if !used.Contains(card) {
			deck = append(deck, card)
		}
	}
	return deck
}

// Shuffle returns a uniformly random permutation of deck. The input is left
// untouched.
func Shuffle(deck []Card, rng *rand.Rand) []Card {
	shuffled := make([]Card, len(deck))
	copy(shuffled, deck)
	ShuffleInPlace(shuffled, rng)
	return shuffled
}

// ShuffleInPlace shuffles deck using Fisher-Yates
func ShuffleInPlace(deck []Card, rng *rand.Rand) {
	for i := len(deck) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		deck[i], deck[j] = deck[j], deck[i]
	}
}

// Deal returns the first n cards of deck. If the deck holds fewer than n
// cards, all of them are returned.
func Deal(n int, deck []Card) []Card {
	if n > len(deck) {
		n = len(deck)
	}
	if n < 0 {
		n = 0
	}
	return deck[:n:n]
}

// FindDuplicates returns each distinct card that occurs more than once, in
// the order its second occurrence is seen.
func FindDuplicates(cards []Card) []Card {
	var seen, reported CardSet
	var dups []Card
	for _, card := range cards {
		if !card.Valid() {
			continue
		}
		if !seen.Contains(card) {
			seen.Add(card)
			continue
		}
		if !reported.Contains(card) {
			reported.Add(card)
			dups = append(dups, card)
		}
	}
	return dups
}
