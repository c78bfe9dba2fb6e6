package ws

import (
	"context"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/zhouzirui/sleep-trainer/backend/internal/model/timer"
	sessionService "github.com/zhouzirui/sleep-trainer/backend/internal/service/session"
)

const (
	readTimeout  = 60 * time.Second
	pingInterval = 25 * time.Second
	writeTimeout = 10 * time.Second
)

// Handler WebSocket会话处理器：推送会话事件，接收计时器操作。
type Handler struct {
	sessions *sessionService.Service
	upgrader websocket.Upgrader
}

// New 创建WebSocket处理器
func New(sessions *sessionService.Service) *Handler {
	return &Handler{
		sessions: sessions,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes 注册WebSocket路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/sessions/{sessionID}/ws", h.handleWebSocket)
}

type inboundMessage struct {
	Type   string `json:"type"`
	Action string `json:"action"`
}

type outgoingMessage struct {
	Type      string                   `json:"type"`
	SessionID string                   `json:"sessionId,omitempty"`
	Data      *sessionService.Snapshot `json:"data,omitempty"`
	Error     string                   `json:"error,omitempty"`
	Timestamp int64                    `json:"timestamp"`
}

// conn serialises writes; gorilla connections allow one concurrent writer.
type conn struct {
	mu sync.Mutex
	ws *websocket.Conn
}

func (c *conn) send(msg outgoingMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	msg.Timestamp = time.Now().UnixMilli()
	c.ws.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.ws.WriteJSON(msg)
}

func (c *conn) ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout))
}

// handleWebSocket 处理WebSocket连接
func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	session, err := h.sessions.Get(r.Context(), sessionID)
	if err != nil {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	wsConn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[websocket] upgrade failed: %v", err)
		return
	}
	defer wsConn.Close()

	c := &conn{ws: wsConn}
	log.Printf("[websocket] new connection for session: %s", sessionID)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	events, unsubscribe := session.Subscribe()
	defer unsubscribe()

	wsConn.SetReadDeadline(time.Now().Add(readTimeout))
	wsConn.SetPongHandler(func(string) error {
		wsConn.SetReadDeadline(time.Now().Add(readTimeout))
		return nil
	})

	snap := session.Snapshot()
	if err := c.send(outgoingMessage{Type: sessionService.EventState, SessionID: sessionID, Data: &snap}); err != nil {
		log.Printf("[websocket] initial write failed: %v", err)
		return
	}

	go h.writeLoop(ctx, cancel, c, sessionID, events)

	for {
		var msg inboundMessage
		if err := wsConn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[websocket] read error: %v", err)
			}
			return
		}
		wsConn.SetReadDeadline(time.Now().Add(readTimeout))

		if ctx.Err() != nil {
			return
		}
		h.handleMessage(c, session, sessionID, msg)
	}
}

func (h *Handler) handleMessage(c *conn, session *sessionService.Controller, sessionID string, msg inboundMessage) {
	switch msg.Type {
	case "action":
		action, err := timer.ParseAction(msg.Action)
		if err != nil {
			c.send(outgoingMessage{Type: "error", SessionID: sessionID, Error: err.Error()})
			return
		}
		if _, err := session.Do(action); err != nil {
			c.send(outgoingMessage{Type: "error", SessionID: sessionID, Error: err.Error()})
		}
	case "ping":
		snap := session.Snapshot()
		c.send(outgoingMessage{Type: "pong", SessionID: sessionID, Data: &snap})
	default:
		c.send(outgoingMessage{Type: "error", SessionID: sessionID, Error: "unknown message type"})
	}
}

func (h *Handler) writeLoop(ctx context.Context, cancel context.CancelFunc, c *conn, sessionID string, events <-chan sessionService.Event) {
	defer cancel()

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-events:
			if !ok {
				c.send(outgoingMessage{Type: "closed", SessionID: sessionID})
				c.ws.Close()
				return
			}
			snap := evt.Snapshot
			if err := c.send(outgoingMessage{Type: evt.Type, SessionID: sessionID, Data: &snap}); err != nil {
				log.Printf("[websocket] write failed for session=%s: %v", sessionID, err)
				c.ws.Close()
				return
			}
		case <-ticker.C:
			if err := c.ping(); err != nil {
				log.Printf("[websocket] ping failed for session=%s: %v", sessionID, err)
				c.ws.Close()
				return
			}
		}
	}
}
