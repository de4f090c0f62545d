package widget

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"podcastcrm/internal/assistant"
	"podcastcrm/internal/pkg/i18n"
)

type viewEnvelope struct {
	Success bool `json:"success"`
	Data    View `json:"data"`
	Error   struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func setupRouter(t *testing.T, starter assistant.Starter) (*gin.Engine, *Registry) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	reg := NewRegistry(newDeps(t, starter, newLeadStore(t)))
	r := gin.New()
	NewHandler(reg, i18n.Czech).RegisterRoutes(r.Group("/api/v1"), NewWSHandler(reg, nil, nil))
	return r, reg
}

func call(r http.Handler, method, path string, body any, headers ...string) (*httptest.ResponseRecorder, viewEnvelope) {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var env viewEnvelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func TestWidgetHTTPFlow(t *testing.T) {
	starter := &scriptedStarter{replies: []*assistant.Reply{callReply(assistant.ToolShowLeadForm, nil)}}
	r, _ := setupRouter(t, starter)

	w, env := call(r, http.MethodPost, "/api/v1/chat/widgets", nil, "Accept-Language", "en-US,en;q=0.9")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	id := env.Data.ID
	require.NotEmpty(t, id)
	assert.Equal(t, i18n.English, env.Data.Language)
	assert.False(t, env.Data.Open)

	base := "/api/v1/chat/widgets/" + id
	_, env = call(r, http.MethodPost, base+"/open", nil)
	assert.True(t, env.Data.Open)
	require.Len(t, env.Data.Messages, 1)

	w, env = call(r, http.MethodPost, base+"/messages", gin.H{"text": "I want mentoring"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Len(t, env.Data.Messages, 3)
	assert.Equal(t, assistant.TypeForm, env.Data.Messages[2].Type)

	w, env = call(r, http.MethodPost, base+"/lead", gin.H{"name": "Petr", "email": "petr@example.com"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	require.NotNil(t, env.Data.Notification)
	assert.Contains(t, env.Data.Messages[len(env.Data.Messages)-1].Text, "Petr")

	_, env = call(r, http.MethodDelete, base+"/notification", nil)
	assert.Nil(t, env.Data.Notification)

	_, env = call(r, http.MethodPost, base+"/close", nil)
	assert.False(t, env.Data.Open)
	assert.Len(t, env.Data.Messages, 4)
}

func TestWidgetLanguageFromBody(t *testing.T) {
	r, _ := setupRouter(t, &scriptedStarter{})
	_, env := call(r, http.MethodPost, "/api/v1/chat/widgets", gin.H{"language": "cs_CZ"}, "Accept-Language", "en-US")
	assert.Equal(t, i18n.Czech, env.Data.Language)
}

func TestWidgetValidationAndNotFound(t *testing.T) {
	r, reg := setupRouter(t, &scriptedStarter{})
	w, env := call(r, http.MethodGet, "/api/v1/chat/widgets/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)

	widget := reg.Create(i18n.Czech)
	w, env = call(r, http.MethodPost, "/api/v1/chat/widgets/"+widget.ID()+"/messages", gin.H{"text": ""})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)

	w, _ = call(r, http.MethodPost, "/api/v1/chat/widgets/"+widget.ID()+"/lead", gin.H{"name": "Petr", "email": "nope"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w, env = call(r, http.MethodPost, "/api/v1/chat/widgets/"+widget.ID()+"/lead", gin.H{"name": "Petr", "email": "petr@example.com"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
}

func TestWidgetWebSocketStreamsTurns(t *testing.T) {
	starter := &scriptedStarter{replies: []*assistant.Reply{{Candidates: []assistant.Candidate{{Parts: []assistant.Part{{Text: "Ahoj!"}}}}}}}
	r, reg := setupRouter(t, starter)
	srv := httptest.NewServer(r)
	defer srv.Close()

	widget := reg.Create(i18n.Czech)
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/chat/widgets/" + widget.ID() + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	var first Event
	require.NoError(t, conn.ReadJSON(&first))
	assert.Equal(t, EventState, first.Type)

	require.NoError(t, conn.WriteJSON(WSClientMessage{Type: "send", Text: "Ahoj"}))

	var texts []string
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	for len(texts) < 2 {
		var e struct {
			Type    string                    `json:"type"`
			Payload assistant.RenderedMessage `json:"payload"`
		}
		_, raw, err := conn.ReadMessage()
		require.NoError(t, err)
		if !strings.Contains(string(raw), `"type":"turn"`) {
			continue
		}
		require.NoError(t, json.Unmarshal(raw, &e))
		texts = append(texts, e.Payload.Text)
	}
	assert.Equal(t, []string{"Ahoj", "Ahoj!"}, texts)
}

func TestWidgetWebSocketUnknownWidget(t *testing.T) {
	r, _ := setupRouter(t, &scriptedStarter{})
	w, _ := call(r, http.MethodGet, "/api/v1/chat/widgets/missing/ws", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// echoStarter answers every turn with "re: <text>" after a short delay.
func echoStarter() assistant.Starter {
	return assistant.StarterFunc(func(context.Context, string) (assistant.Session, error) {
		return assistant.SessionFunc(func(_ context.Context, text string) (*assistant.Reply, error) {
			time.Sleep(2 * time.Millisecond)
			return &assistant.Reply{Candidates: []assistant.Candidate{{Parts: []assistant.Part{{Text: "re: " + text}}}}}, nil
		}), nil
	})
}

func dialWidget(t *testing.T, starter assistant.Starter) (*websocket.Conn, *Controller) {
	t.Helper()
	r, reg := setupRouter(t, starter)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	widget := reg.Create(i18n.English)
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/chat/widgets/" + widget.ID() + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn, widget
}

// readTurns collects n turn events from conn.
func readTurns(t *testing.T, conn *websocket.Conn, n int) []assistant.RenderedMessage {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var turns []assistant.RenderedMessage
	for len(turns) < n {
		_, raw, err := conn.ReadMessage()
		require.NoError(t, err)
		var e struct {
			Type    string                    `json:"type"`
			Payload assistant.RenderedMessage `json:"payload"`
		}
		if json.Unmarshal(raw, &e) != nil || e.Type != EventTurn {
			continue
		}
		turns = append(turns, e.Payload)
	}
	return turns
}

func TestWidgetWebSocketKeepsSendOrder(t *testing.T) {
	conn, widget := dialWidget(t, echoStarter())

	const n = 8
	for i := 0; i < n; i++ {
		require.NoError(t, conn.WriteJSON(WSClientMessage{Type: "send", Text: fmt.Sprintf("m%d", i)}))
	}

	turns := readTurns(t, conn, 2*n)
	for i := 0; i < n; i++ {
		assert.Equal(t, assistant.RoleUser, turns[2*i].Role)
		assert.Equal(t, fmt.Sprintf("m%d", i), turns[2*i].Text)
		assert.Equal(t, fmt.Sprintf("re: m%d", i), turns[2*i+1].Text)
	}

	transcript := widget.Snapshot().Messages
	require.Len(t, transcript, 2*n)
	for i, m := range transcript {
		assert.Equal(t, turns[i].Text, m.Text)
	}
}

func TestWidgetWebSocketOpenThenSend(t *testing.T) {
	conn, widget := dialWidget(t, echoStarter())

	require.NoError(t, conn.WriteJSON(WSClientMessage{Type: "open"}))
	require.NoError(t, conn.WriteJSON(WSClientMessage{Type: "send", Text: "hello"}))

	turns := readTurns(t, conn, 3)
	assert.Equal(t, i18n.Text(i18n.English, i18n.KeyWelcome), turns[0].Text)
	assert.Equal(t, "hello", turns[1].Text)
	assert.Equal(t, "re: hello", turns[2].Text)
	assert.True(t, widget.Snapshot().Open)
}
