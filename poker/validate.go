package poker

// MaxBoardCards is the number of community cards on a complete board.
const MaxBoardCards = 5

// Validate checks hands and board before a simulation runs. Rules are
// applied in order and the first failing rule is reported: player count,
// hand sizes, board size, card domain, duplicates, then short deck legality. A duplicate
// failure lists every duplicated card.
func Validate(hands [][]Card, board []Card, variant Variant) error {
	if len(hands) < 2 {
		return ErrInsufficientPlayers
	}

	for i, hand := range hands {
		if len(hand) != 2 {
			return &InvalidHandSizeError{Player: i, Size: len(hand)}
		}
	}

	if len(board) > MaxBoardCards {
		return ErrInvalidBoard
	}

	all := KnownCards(hands, board)
	for _, card := range all {
		if !card.Valid() {
			return &InvalidCardFormatError{Text: card.String()}
		}
	}

	if dups := FindDuplicates(all); len(dups) > 0 {
		return &DuplicateCardsError{Cards: dups}
	}

	if variant == ShortDeck {
		for _, card := range all {
			if !card.IsLegalUnderShortDeck() {
				return &ShortDeckInvalidCardError{Card: card}
			}
		}
	}

	return nil
}

// KnownCards returns the hole cards of every hand followed by the board.
func KnownCards(hands [][]Card, board []Card) []Card {
	all := make([]Card, 0, len(hands)*2+len(board))
	for _, hand := range hands {
		all = append(all, hand...)
	}
	return append(all, board...)
}
