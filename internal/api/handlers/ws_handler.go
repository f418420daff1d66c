package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/Ctrl-Joy/bridge-skill-connect-16/internal/models"
	"github.com/Ctrl-Joy/bridge-skill-connect-16/internal/services"
	"github.com/Ctrl-Joy/bridge-skill-connect-16/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
)

type WSHandler struct {
	profiles services.ProfileService
	doubts   services.DoubtService
	redis    *redis.Client
	upgrader websocket.Upgrader
}

func NewWSHandler(profiles services.ProfileService, doubts services.DoubtService, rdb *redis.Client) *WSHandler {
	return &WSHandler{
		profiles: profiles,
		doubts:   doubts,
		redis:    rdb,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true }, // TODO: restrict origin to the SPA host
		},
	}
}

type wsConn struct {
	c  *websocket.Conn
	mu sync.Mutex
}

func (w *wsConn) writeText(b []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.c.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return w.c.WriteMessage(websocket.TextMessage, b)
}

type wsAnswerMsg struct {
	Type             string          `json:"type"`
	DoubtID          string          `json:"doubt_id"`
	AIResponse       string          `json:"ai_response"`
	SuggestedMentors json.RawMessage `json:"suggested_mentors,omitempty"`
}

// DoubtWS relays the async answer events of one doubt to its owner. A doubt
// that is already answered is sent once and the socket stays open until the
// client leaves.
func (h *WSHandler) DoubtWS(c *gin.Context) {
	const op = "WSHandler.DoubtWS"

	if h.redis == nil {
		writeError(c, utils.E(utils.CodeUnavailable, op, "realtime events are not configured", nil))
		return
	}

	p, ok := requireProfile(c, h.profiles)
	if !ok {
		return
	}

	doubtID := c.Param("doubt_id")
	if doubtID == "" {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "missing doubt_id", nil))
		return
	}

	// authorize doubt ownership
	d, err := h.doubts.Get(c.Request.Context(), doubtID)
	if err != nil {
		writeError(c, err)
		return
	}
	if d.ProfileID != p.ID {
		writeError(c, utils.E(utils.CodeForbidden, op, "forbidden", nil))
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// upgrade already wrote response in most cases
		return
	}
	defer conn.Close()

	wc := &wsConn{c: conn}
	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	pubsub := h.redis.Subscribe(ctx, services.DoubtEventsChannel(doubtID))
	defer pubsub.Close()
	if _, err := pubsub.Receive(ctx); err != nil {
		return
	}

	// an answer that landed before the subscription would otherwise be lost
	if cur, err := h.doubts.Get(ctx, doubtID); err == nil && cur.Status == models.DoubtAnswered && cur.AIResponse != nil {
		b, _ := json.Marshal(wsAnswerMsg{
			Type:             "doubt_answer",
			DoubtID:          doubtID,
			AIResponse:       *cur.AIResponse,
			SuggestedMentors: json.RawMessage(cur.SuggestedMentors),
		})
		if werr := wc.writeText(b); werr != nil {
			return
		}
	}

	// reader: only drains control frames and notices the client leaving
	readDone := make(chan struct{})
	go func() {
		defer close(readDone)
		_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		conn.SetPongHandler(func(string) error {
			_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
			return nil
		})
		for {
			if _, _, rerr := conn.ReadMessage(); rerr != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(30 * time.Second)
	defer ping.Stop()
	msgs := pubsub.Channel()

	// writer: Redis Pub/Sub -> WS
	for {
		select {
		case <-readDone:
			return
		case <-ctx.Done():
			return
		case <-ping.C:
			wc.mu.Lock()
			perr := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(10*time.Second))
			wc.mu.Unlock()
			if perr != nil {
				return
			}
		case m, ok := <-msgs:
			if !ok {
				return
			}
			// forward as-is (workers publish JSON)
			if werr := wc.writeText([]byte(m.Payload)); werr != nil {
				return
			}
		}
	}
}
