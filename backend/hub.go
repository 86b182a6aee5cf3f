package main

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// ProgressHub fans solver progress snapshots and job status updates out to
// websocket clients. Slow clients drop payloads instead of stalling the
// solver worker.

type wsMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type progressCell struct {
	X    int    `json:"x"`
	Y    int    `json:"y"`
	Kind string `json:"kind"`
}

type progressPayload struct {
	JobID     string         `json:"job_id"`
	Status    string         `json:"status,omitempty"`
	Phase     string         `json:"phase,omitempty"`
	Score     float64        `json:"score,omitempty"`
	Limit     float64        `json:"limit,omitempty"`
	Restart   int            `json:"restart,omitempty"`
	Steps     int            `json:"steps,omitempty"`
	Nodes     int64          `json:"nodes,omitempty"`
	Positions []progressCell `json:"positions,omitempty"`
	Moves     []string       `json:"moves,omitempty"`
	Active    bool           `json:"active"`
	Final     bool           `json:"final,omitempty"`
}

type ProgressClient struct {
	hub  *ProgressHub
	conn *websocket.Conn
	send chan []byte
}

type ProgressHub struct {
	mu        sync.Mutex
	clients   map[*ProgressClient]struct{}
	broadcast chan progressPayload
}

func NewProgressHub() *ProgressHub {
	return &ProgressHub{
		clients:   make(map[*ProgressClient]struct{}),
		broadcast: make(chan progressPayload, 32),
	}
}

func (h *ProgressHub) Run(done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case payload := <-h.broadcast:
			h.mu.Lock()
			if len(h.clients) == 0 {
				h.mu.Unlock()
				continue
			}
			for client := range h.clients {
				client.sendJSON(wsMessage{Type: "progress", Payload: mustMarshal(payload)})
			}
			h.mu.Unlock()
		}
	}
}

func (h *ProgressHub) Publish(payload progressPayload) {
	select {
	case h.broadcast <- payload:
	default:
	}
}

func (h *ProgressHub) Register(c *ProgressClient) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

func (h *ProgressHub) Unregister(c *ProgressClient) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

func (h *ProgressHub) HasClients() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients) > 0
}

func (c *ProgressClient) sendJSON(msg wsMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

func serveProgressWS(hub *ProgressHub, w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	client := &ProgressClient{hub: hub, conn: conn, send: make(chan []byte, 16)}
	hub.Register(client)

	go func() {
		defer conn.Close()
		client.writeLoop(wsPingInterval(GetConfig()))
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			hub.Unregister(client)
			return
		}
	}
}

const wsControlWriteWait = 5 * time.Second

func wsPingInterval(config Config) time.Duration {
	seconds := config.WsPingIntervalSec
	if seconds <= 0 {
		seconds = DefaultConfig().WsPingIntervalSec
	}
	return time.Duration(seconds) * time.Second
}

// writeLoop drains the client's send queue and pings with a control frame
// once the connection has been idle for a full ping interval.
func (c *ProgressClient) writeLoop(pingInterval time.Duration) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	lastWrite := time.Now()

	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
			lastWrite = time.Now()
		case <-ticker.C:
			if time.Since(lastWrite) < pingInterval {
				continue
			}
			deadline := time.Now().Add(wsControlWriteWait)
			if err := c.conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				return
			}
			lastWrite = time.Now()
		}
	}
}

// progressCellsFromBoard flattens a board snapshot for streaming.
func progressCellsFromBoard(board *Board) []progressCell {
	cells := []progressCell{}
	for pos := range board.Obstacles {
		cells = append(cells, progressCell{X: pos.X, Y: pos.Y, Kind: "wall"})
	}
	for pos := range board.Targets {
		cells = append(cells, progressCell{X: pos.X, Y: pos.Y, Kind: "target"})
	}
	for _, name := range board.BoxNames() {
		pos := board.Boxes[name]
		cells = append(cells, progressCell{X: pos.X, Y: pos.Y, Kind: "box"})
	}
	cells = append(cells, progressCell{X: board.Player.X, Y: board.Player.Y, Kind: "player"})
	return cells
}
