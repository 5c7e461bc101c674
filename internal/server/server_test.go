package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/pokerequity/equity"
	"github.com/lox/pokerequity/poker"
)

func testLogger() *log.Logger {
	return log.New(io.Discard)
}

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	seed := int64(42)
	srv := NewServer("", equity.New(equity.Config{Seed: &seed}), 20000, testLogger())
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return srv, ts
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

// roundTrip sends a request and decodes the reply into a generic map
// alongside its type.
func roundTrip(t *testing.T, conn *websocket.Conn, req CalculateRequest) (string, json.RawMessage) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(req))

	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var envelope struct {
		Type string `json:"type"`
	}
	require.NoError(t, json.Unmarshal(data, &envelope))
	return envelope.Type, data
}

func TestServerHealth(t *testing.T) {
	t.Parallel()
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	srv.handleHealth(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
}

func TestCalculateOverWebSocket(t *testing.T) {
	t.Parallel()
	_, ts := newTestServer(t)
	conn := dial(t, ts)

	msgType, data := roundTrip(t, conn, CalculateRequest{
		Type:       TypeCalculate,
		ID:         "req-1",
		Hands:      []string{"AhAs", "KdKc"},
		Iterations: 3000,
	})
	require.Equal(t, TypeOdds, msgType, string(data))

	var resp OddsResponse
	require.NoError(t, json.Unmarshal(data, &resp))
	assert.Equal(t, "req-1", resp.ID)
	require.Len(t, resp.Result.Players, 2)
	assert.Equal(t, 3000, resp.Result.Iterations)
	assert.Equal(t, poker.Standard, resp.Result.Variant)
	assert.InDelta(t, 82, resp.Result.Players[0].Equity, 4)

	// the connection stays open for further requests
	msgType, _ = roundTrip(t, conn, CalculateRequest{
		Type:    TypeCalculate,
		Hands:   []string{"AhAs", "KdKc"},
		Board:   "2c7d9hJsQc",
		Variant: "short",
	})
	assert.Equal(t, TypeError, msgType, "2c is not in the short deck")
}

func TestCalculateErrors(t *testing.T) {
	t.Parallel()
	_, ts := newTestServer(t)
	conn := dial(t, ts)

	tests := []struct {
		name  string
		req   CalculateRequest
		code  string
		cards []string
	}{
		{
			name: "duplicate cards",
			req:  CalculateRequest{Type: TypeCalculate, Hands: []string{"AhAs", "AsKd"}},
			code: CodeDuplicateCards, cards: []string{"As"},
		},
		{
			name: "insufficient players",
			req:  CalculateRequest{Type: TypeCalculate, Hands: []string{"AhAs"}},
			code: CodeInsufficientPlayers,
		},
		{
			name: "bad card",
			req:  CalculateRequest{Type: TypeCalculate, Hands: []string{"AhAs", "KdKx"}},
			code: CodeInvalidCardFormat,
		},
		{
			name: "hand size",
			req:  CalculateRequest{Type: TypeCalculate, Hands: []string{"AhAs", "KdKcQd"}},
			code: CodeInvalidHandSize,
		},
		{
			name: "board size",
			req:  CalculateRequest{Type: TypeCalculate, Hands: []string{"AhAs", "KdKc"}, Board: "2c3c4c5c6c7c"},
			code: CodeInvalidBoard,
		},
		{
			name: "short deck card",
			req:  CalculateRequest{Type: TypeCalculate, Hands: []string{"AhAs", "2d2c"}, Variant: "short"},
			code: CodeShortDeckInvalidCard, cards: []string{"2d"},
		},
		{
			name: "too many iterations",
			req:  CalculateRequest{Type: TypeCalculate, Hands: []string{"AhAs", "KdKc"}, Iterations: 50000},
			code: CodeInvalidRequest,
		},
		{
			name: "unknown variant",
			req:  CalculateRequest{Type: TypeCalculate, Hands: []string{"AhAs", "KdKc"}, Variant: "omaha"},
			code: CodeInvalidRequest,
		},
		{
			name: "unknown type",
			req:  CalculateRequest{Type: "subscribe"},
			code: CodeInvalidRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.req.ID = tt.name
			msgType, data := roundTrip(t, conn, tt.req)
			require.Equal(t, TypeError, msgType)

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(data, &resp))
			assert.Equal(t, tt.name, resp.ID)
			assert.Equal(t, tt.code, resp.Code)
			assert.NotEmpty(t, resp.Error)
			if tt.cards != nil {
				assert.Equal(t, tt.cards, resp.Cards)
			}
		})
	}
}

func TestMalformedRequestKeepsConnection(t *testing.T) {
	t.Parallel()
	_, ts := newTestServer(t)
	conn := dial(t, ts)

	for _, body := range []string{
		`{"type":"calculate","id":"bad-1","hands":["AhAs","KdKc"],"iterations":"10"}`,
		`{"type":"calculate",`,
		`not json`,
	} {
		require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(body)))

		_, data, err := conn.ReadMessage()
		require.NoError(t, err, body)

		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(data, &resp))
		assert.Equal(t, TypeError, resp.Type, body)
		assert.Equal(t, CodeInvalidRequest, resp.Code, body)
		assert.Contains(t, resp.Error, "malformed request")
	}

	msgType, _ := roundTrip(t, conn, CalculateRequest{
		Type:       TypeCalculate,
		Hands:      []string{"AhAs", "KdKc"},
		Iterations: 100,
	})
	assert.Equal(t, TypeOdds, msgType)
}

func TestShutdownWithoutStart(t *testing.T) {
	t.Parallel()
	srv, _ := newTestServer(t)
	assert.NoError(t, srv.Shutdown(t.Context()))
}
