package poker

// HoleCardCategory is a coarse pre-flop strength bucket for a starting hand.
type HoleCardCategory string

const (
	CategoryPremium HoleCardCategory = "Premium"
	CategoryStrong  HoleCardCategory = "Strong"
	CategoryMedium  HoleCardCategory = "Medium"
	CategoryWeak    HoleCardCategory = "Weak"
	CategoryTrash   HoleCardCategory = "Trash"
	CategoryUnknown HoleCardCategory = "Unknown"
)

// CategorizeHoleCards buckets a starting hand.
// Premium: JJ+, AK. Strong: TT, AQ, AJ. Medium: 77-99, suited broadway.
// Weak: 22-66, suited connectors. Trash: everything else.
func CategorizeHoleCards(card1, card2 Card) HoleCardCategory {
	if !card1.Rank.Valid() || !card2.Rank.Valid() || card1 == card2 {
		return CategoryUnknown
	}

	small, big := card1.Rank, card2.Rank
	if small > big {
		small, big = big, small
	}
	pair := small == big
	suited := card1.Suit == card2.Suit

	switch {
	case pair && small >= Jack, small == King && big == Ace:
		return CategoryPremium
	case pair && small == Ten, big == Ace && (small == Queen || small == Jack):
		return CategoryStrong
	case pair && small >= Seven, suited && small >= Ten:
		return CategoryMedium
	case pair, suited && big-small <= 2:
		return CategoryWeak
	default:
		return CategoryTrash
	}
}

// CategorizeHand buckets a two-card hand; any other size is Unknown.
func CategorizeHand(hand []Card) HoleCardCategory {
	if len(hand) != 2 {
		return CategoryUnknown
	}
	return CategorizeHoleCards(hand[0], hand[1])
}
