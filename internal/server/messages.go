package server

import (
	"errors"

	"github.com/lox/pokerequity/equity"
	"github.com/lox/pokerequity/poker"
)

// Message types exchanged over the WebSocket.
const (
	// Client -> Server
	TypeCalculate = "calculate"

	// Server -> Client
	TypeOdds  = "odds"
	TypeError = "error"
)

// Error codes name the class of a rejected request.
const (
	CodeInvalidCardFormat    = "invalid_card_format"
	CodeInvalidHandSize      = "invalid_hand_size"
	CodeInvalidBoard         = "invalid_board"
	CodeInsufficientPlayers  = "insufficient_players"
	CodeDuplicateCards       = "duplicate_cards"
	CodeShortDeckInvalidCard = "short_deck_invalid_card"
	CodeInvalidRequest       = "invalid_request"
	CodeInternal             = "internal"
)

// CalculateRequest asks for the equity of a set of hands.
type CalculateRequest struct {
	Type       string   `json:"type"`
	ID         string   `json:"id,omitempty"`
	Hands      []string `json:"hands"`
	Board      string   `json:"board,omitempty"`
	Variant    string   `json:"variant,omitempty"`
	Iterations int      `json:"iterations,omitempty"`
}

// OddsResponse carries a completed calculation.
type OddsResponse struct {
	Type   string             `json:"type"`
	ID     string             `json:"id,omitempty"`
	Result *equity.OddsResult `json:"result"`
}

// ErrorResponse reports a rejected request.
type ErrorResponse struct {
	Type  string   `json:"type"`
	ID    string   `json:"id,omitempty"`
	Code  string   `json:"code"`
	Error string   `json:"error"`
	Cards []string `json:"cards,omitempty"`
}

// errorResponse maps a calculation error onto its wire form.
func errorResponse(id string, err error) *ErrorResponse {
	resp := &ErrorResponse{Type: TypeError, ID: id, Code: CodeInternal, Error: err.Error()}

	var (
		formatErr *poker.InvalidCardFormatError
		sizeErr   *poker.InvalidHandSizeError
		dupErr    *poker.DuplicateCardsError
		shortErr  *poker.ShortDeckInvalidCardError
		reqErr    *requestError
	)
	switch {
	case errors.As(err, &formatErr):
		resp.Code = CodeInvalidCardFormat
	case errors.As(err, &sizeErr):
		resp.Code = CodeInvalidHandSize
	case errors.Is(err, poker.ErrInvalidBoard):
		resp.Code = CodeInvalidBoard
	case errors.Is(err, poker.ErrInsufficientPlayers):
		resp.Code = CodeInsufficientPlayers
	case errors.As(err, &dupErr):
		resp.Code = CodeDuplicateCards
		for _, c := range dupErr.Cards {
			resp.Cards = append(resp.Cards, c.String())
		}
	case errors.As(err, &shortErr):
		resp.Code = CodeShortDeckInvalidCard
		resp.Cards = []string{shortErr.Card.String()}
	case errors.As(err, &reqErr):
		resp.Code = CodeInvalidRequest
	}
	return resp
}

// requestError is a malformed request that never reached the calculator.
type requestError struct {
	msg string
}

func (e *requestError) Error() string { return e.msg }
