package widget

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"podcastcrm/internal/pkg/logger"
	"podcastcrm/internal/pkg/response"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 16 * 1024
	cmdBuffer  = 32
)

// WSClientMessage is what the browser sends over the socket.
type WSClientMessage struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// WSHandler streams widget events and accepts widget commands.
type WSHandler struct {
	registry *Registry
	upgrader websocket.Upgrader
	log      *zap.Logger
}

// NewWSHandler builds the socket endpoint. allowedOrigins limits which
// sites may connect; an empty list allows any origin.
func NewWSHandler(registry *Registry, allowedOrigins []string, log *zap.Logger) *WSHandler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	return &WSHandler{
		registry: registry,
		log:      logger.OrNop(log).Named("widget.ws"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return len(allowed) == 0 || origin == "" || allowed[origin]
			},
		},
	}
}

// HandleWebSocket serves GET /chat/widgets/:id/ws.
func (h *WSHandler) HandleWebSocket(c *gin.Context) {
	w, ok := h.registry.Get(c.Param("id"))
	if !ok {
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Widget not found")
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	cl := &client{
		widget: w,
		conn:   conn,
		send:   make(chan []byte, 64),
		cmds:   make(chan WSClientMessage, cmdBuffer),
		done:   make(chan struct{}),
		log:    h.log,
	}
	unsubscribe := w.Subscribe(cl.push)
	defer unsubscribe()

	h.log.Debug("websocket connected", zap.String("widget_id", w.ID()))
	cl.enqueue(Event{Type: EventState, WidgetID: w.ID(), Payload: w.Snapshot()})

	go cl.writePump()
	go cl.runCommands()
	cl.readPump()
}

type client struct {
	widget *Controller
	conn   *websocket.Conn
	send   chan []byte
	cmds   chan WSClientMessage
	done   chan struct{}
	log    *zap.Logger

	stopOnce sync.Once
}

// push is the controller listener. A slow client loses events rather
// than blocking the widget.
func (cl *client) push(e Event) {
	cl.enqueue(e)
	if e.Type == EventExpired {
		cl.stop()
	}
}

func (cl *client) enqueue(e Event) {
	data, err := json.Marshal(e)
	if err != nil {
		return
	}
	select {
	case <-cl.done:
	case cl.send <- data:
	default:
	}
}

func (cl *client) stop() {
	cl.stopOnce.Do(func() { close(cl.done) })
}

func (cl *client) readPump() {
	defer func() {
		cl.stop()
		cl.conn.Close()
	}()

	cl.conn.SetReadLimit(maxMsgSize)
	_ = cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	cl.conn.SetPongHandler(func(string) error {
		return cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := cl.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				cl.log.Warn("websocket read failed", zap.String("widget_id", cl.widget.ID()), zap.Error(err))
			}
			return
		}

		var msg WSClientMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			cl.enqueue(Event{Type: "error", WidgetID: cl.widget.ID(), Payload: "invalid JSON"})
			continue
		}

		switch msg.Type {
		case "open", "close", "send", "dismiss":
			// Commands run one at a time on runCommands, in arrival order.
			select {
			case cl.cmds <- msg:
			default:
				cl.enqueue(Event{Type: "error", WidgetID: cl.widget.ID(), Payload: "too many pending commands"})
			}
		case "ping":
			cl.enqueue(Event{Type: "pong", WidgetID: cl.widget.ID()})
		default:
			cl.enqueue(Event{Type: "error", WidgetID: cl.widget.ID(), Payload: "unknown message type: " + msg.Type})
		}
	}
}

// runCommands applies widget commands sequentially so turns land in the
// order their frames arrived. It keeps the read loop free for pongs while
// the assistant answers.
func (cl *client) runCommands() {
	for {
		select {
		case <-cl.done:
			return
		case msg := <-cl.cmds:
			switch msg.Type {
			case "open":
				cl.widget.Open(context.Background())
			case "close":
				cl.widget.Close()
			case "send":
				if _, err := cl.widget.Send(context.Background(), msg.Text); err != nil {
					cl.enqueue(Event{Type: "error", WidgetID: cl.widget.ID(), Payload: err.Error()})
				}
			case "dismiss":
				cl.widget.DismissNotification()
			}
		}
	}
}

func (cl *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		cl.conn.Close()
	}()

	for {
		select {
		case msg := <-cl.send:
			_ = cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := cl.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := cl.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-cl.done:
			cl.drain()
			_ = cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = cl.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

// drain writes whatever is still queued.
func (cl *client) drain() {
	for {
		select {
		case msg := <-cl.send:
			_ = cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := cl.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		default:
			return
		}
	}
}
