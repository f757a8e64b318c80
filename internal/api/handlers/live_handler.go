package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/yoockh/skillproctor/internal/pubsub"
	"github.com/yoockh/skillproctor/internal/services"
	"github.com/yoockh/skillproctor/internal/utils"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = 50 * time.Second
)

// LiveHandler streams a candidate's proctoring events to an admin as they
// are logged.
type LiveHandler struct {
	candidates services.CandidateService
	sub        pubsub.Subscriber
	upgrader   websocket.Upgrader
}

func NewLiveHandler(candidates services.CandidateService, sub pubsub.Subscriber) *LiveHandler {
	if sub == nil {
		sub = pubsub.Nop{}
	}
	return &LiveHandler{
		candidates: candidates,
		sub:        sub,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

type wsConn struct {
	c  *websocket.Conn
	mu sync.Mutex
}

func (w *wsConn) write(kind int, b []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	_ = w.c.SetWriteDeadline(time.Now().Add(wsWriteWait))
	return w.c.WriteMessage(kind, b)
}

func (h *LiveHandler) Proctoring(c *gin.Context) {
	candidateID := c.Param("candidate_id")
	if candidateID == "" {
		writeError(c, utils.E(utils.CodeInvalidArgument, "LiveHandler.Proctoring", "missing candidate_id", nil))
		return
	}

	// 404 before upgrading so the client sees a normal HTTP error.
	if _, err := h.candidates.Detail(c.Request.Context(), candidateID); err != nil {
		writeError(c, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	wc := &wsConn{c: conn}
	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	events, closeSub := h.sub.Subscribe(ctx, pubsub.ProctoringChannel(candidateID))
	defer closeSub()

	_ = wc.write(websocket.TextMessage, []byte(`{"type":"status","status":"subscribed","candidate_id":"`+candidateID+`"}`))

	// reader: only control frames matter; any read error ends the stream
	readDone := make(chan struct{})
	go func() {
		defer close(readDone)
		_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(wsPongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(wsPingPeriod)
	defer ping.Stop()

	// writer: pub/sub -> WS
	for {
		select {
		case <-readDone:
			return
		case <-ctx.Done():
			return
		case <-ping.C:
			if err := wc.write(websocket.PingMessage, nil); err != nil {
				return
			}
		case payload, ok := <-events:
			if !ok {
				return
			}
			if err := wc.write(websocket.TextMessage, payload); err != nil {
				return
			}
		}
	}
}
