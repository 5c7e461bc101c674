package poker

import (
	"fmt"
	"slices"
	"strings"
)

// Category enumerates the kinds of poker hands ordered from weakest to strongest.
type Category uint8

const (
	HighCard Category = iota
	OnePair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
	RoyalFlush
)

// NumCategories is the number of hand categories.
const NumCategories = int(RoyalFlush) + 1

// String returns a human-readable category name.
func (c Category) String() string {
	switch c {
	case HighCard:
		return "High Card"
	case OnePair:
		return "One Pair"
	case TwoPair:
		return "Two Pair"
	case ThreeOfAKind:
		return "Three of a Kind"
	case Straight:
		return "Straight"
	case Flush:
		return "Flush"
	case FullHouse:
		return "Full House"
	case FourOfAKind:
		return "Four of a Kind"
	case StraightFlush:
		return "Straight Flush"
	case RoyalFlush:
		return "Royal Flush"
	default:
		return "Unknown"
	}
}

// Score packs a category and its tie-break key into one comparable value:
// the category sits above bit 20 and each key element takes four bits,
// most significant first. A higher score is a stronger hand.
type Score uint32

const (
	categoryShift = 20
	keyBits       = 4
)

// Category returns the category encoded in the score.
func (s Score) Category() Category {
	return Category(s >> categoryShift)
}

// EvaluatedHand is a classified hand: its category, the tie-break key used
// within that category, and the five cards (or fewer) that make it up.
type EvaluatedHand struct {
	Category Category
	Key      []int
	Cards    []Card
}

// String returns a string representation of the hand
func (h EvaluatedHand) String() string {
	parts := make([]string, len(h.Cards))
	for i, card := range h.Cards {
		parts[i] = card.String()
	}
	return fmt.Sprintf("%s [%s]", h.Category, strings.Join(parts, " "))
}

// Score returns the packed comparable form of the hand.
func (h EvaluatedHand) Score() Score {
	return packScore(h.Category, h.Key)
}

// Compare returns 1 if h is stronger than other, -1 if weaker and 0 for an
// exact tie.
func (h EvaluatedHand) Compare(other EvaluatedHand) int {
	return Compare(h, other)
}

// Compare orders two evaluated hands by category, then element by element
// through their tie-break keys. It returns 1 if a wins, -1 if b wins and 0
// when they tie.
func Compare(a, b EvaluatedHand) int {
	if a.Category != b.Category {
		if a.Category > b.Category {
			return 1
		}
		return -1
	}
	for i := 0; i < len(a.Key) && i < len(b.Key); i++ {
		if a.Key[i] != b.Key[i] {
			if a.Key[i] > b.Key[i] {
				return 1
			}
			return -1
		}
	}
	return 0
}

// Evaluate classifies a set of cards. Five cards are classified directly; six
// or more are searched exhaustively over every five-card subset and the
// strongest is kept. Fewer than five cards are always treated as a high-card
// hand over the cards given.
func Evaluate(cards []Card, variant Variant) EvaluatedHand {
	if len(cards) < 5 {
		sorted := slices.Clone(cards)
		sortByRankDesc(sorted)
		key := make([]int, len(sorted))
		for i, c := range sorted {
			key[i] = c.Rank.Value()
		}
		return EvaluatedHand{Category: HighCard, Key: key, Cards: sorted}
	}

	best := bestFive(cards, variant)
	r := rankFive(&best, variant)
	return r.hand(best)
}

// EvaluateScore returns the score of the strongest five-card hand in cards
// without building an EvaluatedHand. It requires at least five cards.
func EvaluateScore(cards []Card, variant Variant) Score {
	if len(cards) < 5 {
		return Evaluate(cards, variant).Score()
	}
	var best Score
	var hand [5]Card
	n := len(cards)
	for a := 0; a < n-4; a++ {
		hand[0] = cards[a]
		for b := a + 1; b < n-3; b++ {
			hand[1] = cards[b]
			for c := b + 1; c < n-2; c++ {
				hand[2] = cards[c]
				for d := c + 1; d < n-1; d++ {
					hand[3] = cards[d]
					for e := d + 1; e < n; e++ {
						hand[4] = cards[e]
						if s := rankFive(&hand, variant).score(); s > best {
							best = s
						}
					}
				}
			}
		}
	}
	return best
}

// bestFive returns the strongest five-card subset of cards.
func bestFive(cards []Card, variant Variant) [5]Card {
	var best, hand [5]Card
	var bestScore Score
	first := true
	n := len(cards)
	for a := 0; a < n-4; a++ {
		hand[0] = cards[a]
		for b := a + 1; b < n-3; b++ {
			hand[1] = cards[b]
			for c := b + 1; c < n-2; c++ {
				hand[2] = cards[c]
				for d := c + 1; d < n-1; d++ {
					hand[3] = cards[d]
					for e := d + 1; e < n; e++ {
						hand[4] = cards[e]
						s := rankFive(&hand, variant).score()
						if first || s > bestScore {
							best, bestScore, first = hand, s, false
						}
					}
				}
			}
		}
	}
	return best
}

// ranking is the allocation-free classification of five cards.
type ranking struct {
	category Category
	key      [5]int
	keyLen   int
	// lowAce marks straights where the Ace plays below the other cards.
	lowAce bool
}

func (r ranking) score() Score {
	return packScore(r.category, r.key[:r.keyLen])
}

func (r ranking) hand(cards [5]Card) EvaluatedHand {
	ordered := cards[:]
	orderForDisplay(ordered, r)
	return EvaluatedHand{
		Category: r.category,
		Key:      slices.Clone(r.key[:r.keyLen]),
		Cards:    slices.Clone(ordered),
	}
}

func packScore(category Category, key []int) Score {
	s := Score(category) << categoryShift
	for i := 0; i < len(key) && i < 5; i++ {
		s |= Score(key[i]&0xF) << (categoryShift - keyBits*(i+1))
	}
	return s
}

// rankFive classifies exactly five cards, testing categories from strongest
// to weakest.
func rankFive(cards *[5]Card, variant Variant) ranking {
	var counts [Ace + 1]int
	flush := true
	for i, c := range cards {
		counts[c.Rank]++
		if i > 0 && c.Suit != cards[0].Suit {
			flush = false
		}
	}

	// groups ordered by size, then by rank, both descending
	var groups [5]struct{ rank, size int }
	ng := 0
	for size := 4; size >= 1; size-- {
		for r := Ace; r >= Two; r-- {
			if counts[r] == size {
				groups[ng].rank, groups[ng].size = int(r), size
				ng++
			}
		}
	}

	high, lowAce := straightHigh(groups[:ng], variant)
	straight := high > 0

	var r ranking
	set := func(c Category, key ...int) ranking {
		r.category = c
		r.keyLen = copy(r.key[:], key)
		r.lowAce = lowAce
		return r
	}

	switch {
	case straight && flush && high == int(Ace):
		return set(RoyalFlush, high)
	case straight && flush:
		return set(StraightFlush, high)
	case groups[0].size == 4:
		return set(FourOfAKind, groups[0].rank, groups[1].rank)
	case groups[0].size == 3 && groups[1].size == 2:
		return set(FullHouse, groups[0].rank, groups[1].rank)
	case flush:
		return set(Flush, groups[0].rank, groups[1].rank, groups[2].rank, groups[3].rank, groups[4].rank)
	case straight:
		return set(Straight, high)
	case groups[0].size == 3:
		return set(ThreeOfAKind, groups[0].rank, groups[1].rank, groups[2].rank)
	case groups[0].size == 2 && groups[1].size == 2:
		return set(TwoPair, groups[0].rank, groups[1].rank, groups[2].rank)
	case groups[0].size == 2:
		return set(OnePair, groups[0].rank, groups[1].rank, groups[2].rank, groups[3].rank)
	default:
		return set(HighCard, groups[0].rank, groups[1].rank, groups[2].rank, groups[3].rank, groups[4].rank)
	}
}

// straightHigh returns the high card value of a straight, or 0 when the five
// distinct ranks are not consecutive. The wheel A-2-3-4-5 is 5-high. In the
// short deck A-6-7-8-9 is also a straight, 9-high.
func straightHigh(groups []struct{ rank, size int }, variant Variant) (int, bool) {
	if len(groups) != 5 {
		return 0, false
	}
	top, bottom := groups[0].rank, groups[4].rank
	if top-bottom == 4 {
		return top, false
	}
	if top != int(Ace) {
		return 0, false
	}
	second := groups[1].rank
	if second == int(Five) && bottom == int(Two) {
		return int(Five), true
	}
	if variant == ShortDeck && second == int(Nine) && bottom == int(Six) {
		return int(Nine), true
	}
	return 0, false
}

// orderForDisplay sorts the cards so the ranks that define the hand come
// first: larger groups before smaller, higher ranks before lower, and a low
// Ace after the rest of its straight.
func orderForDisplay(cards []Card, r ranking) {
	var counts [Ace + 1]int
	for _, c := range cards {
		counts[c.Rank]++
	}
	weight := func(c Card) int {
		v := c.Rank.Value()
		if r.lowAce && c.Rank == Ace {
			v = 1
		}
		return counts[c.Rank]*16 + v
	}
	slices.SortStableFunc(cards, func(a, b Card) int {
		return weight(b) - weight(a)
	})
}

func sortByRankDesc(cards []Card) {
	slices.SortStableFunc(cards, func(a, b Card) int {
		return int(b.Rank) - int(a.Rank)
	})
}
