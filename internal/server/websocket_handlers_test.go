package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/MeKo-Tech/polyglot/internal/language"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingConn captures messages written by the handlers.
type recordingConn struct {
	messages []WebSocketDetectResponse
}

func (c *recordingConn) WriteMessage(_ int, data []byte) error {
	var resp WebSocketDetectResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return err
	}
	c.messages = append(c.messages, resp)
	return nil
}

func TestHandleWebSocketMessage(t *testing.T) {
	s, _ := newTestServer(t, Config{})
	conn := &recordingConn{}

	s.handleWebSocketMessage(t.Context(), conn, []byte(`{"id": "r1", "text": "hello world"}`))

	require.Len(t, conn.messages, 2)
	assert.Equal(t, "processing", conn.messages[0].Status)
	assert.Equal(t, "completed", conn.messages[1].Status)
	assert.Equal(t, "r1", conn.messages[1].RequestID)

	result := conn.messages[1].Result.(map[string]interface{})
	assert.Equal(t, "English", result["language"])
}

func TestHandleWebSocketMessage_Errors(t *testing.T) {
	s, _ := newTestServer(t, Config{})

	tests := []struct {
		name      string
		message   string
		errorType string
	}{
		{"invalid json", `{`, "invalid_request"},
		{"empty text", `{"text": ""}`, "invalid_request"},
		{"bad languages", `{"text": "hi", "languages": ["nope"]}`, "invalid_request"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn := &recordingConn{}
			s.handleWebSocketMessage(t.Context(), conn, []byte(tt.message))
			require.Len(t, conn.messages, 1)
			assert.Equal(t, "error", conn.messages[0].Type)
			assert.Equal(t, tt.errorType, conn.messages[0].ErrorType)
		})
	}
}

func TestDetectWebSocketHandler(t *testing.T) {
	_, mux := newTestServer(t, Config{})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer func() { _ = conn.Close() }()
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}

	texts := map[string]language.Language{
		"a": language.English,
		"b": language.Russian,
	}
	require.NoError(t, conn.WriteJSON(WebSocketDetectRequest{ID: "a", Text: "hello world"}))
	require.NoError(t, conn.WriteJSON(WebSocketDetectRequest{ID: "b", Text: "Сегодня утром была приятная погода"}))

	_ = conn.SetReadDeadline(time.Now().Add(10 * time.Second))
	completed := 0
	for completed < len(texts) {
		var msg struct {
			Status    string `json:"status"`
			RequestID string `json:"request_id"`
			Result    struct {
				Language language.Language `json:"language"`
			} `json:"result"`
		}
		require.NoError(t, conn.ReadJSON(&msg))
		if msg.Status != "completed" {
			continue
		}
		assert.Equal(t, texts[msg.RequestID], msg.Result.Language)
		completed++
	}
}

func TestDetectWebSocketHandler_Origin(t *testing.T) {
	_, mux := newTestServer(t, Config{CORSOrigin: "https://allowed.example"})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	_, resp, err := websocket.DefaultDialer.Dial(url, http.Header{"Origin": {"https://evil.example"}})
	require.Error(t, err)
	require.NotNil(t, resp)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
