package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/gorilla/websocket"

	matchevents "github.com/duelyard/fightcore/app/modules/match/domain/events"
	pauseevents "github.com/duelyard/fightcore/app/modules/pause/domain/events"
	"github.com/duelyard/fightcore/app/shared"
)

const feedWriteTimeout = 10 * time.Second

var upgrader = websocket.Upgrader{
	// The feed is a local spectator surface; origins are not restricted.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// FeedFrame is one fact forwarded to spectators: the topic it was published
// on and its payload, verbatim.
type FeedFrame struct {
	Topic   string          `json:"topic"`
	Payload json.RawMessage `json:"payload"`
}

type feedClient struct {
	conn *websocket.Conn
	send chan []byte
}

// FeedHub mirrors the engine's fact stream onto websocket connections. Every
// connected spectator sees every fact; a spectator that cannot keep up is
// dropped rather than allowed to stall the feed.
type FeedHub struct {
	logger *slog.Logger
	bus    shared.EventBus

	mu      sync.Mutex
	clients map[*feedClient]struct{}
}

// NewFeedHub creates a hub over the given bus. Call Start before serving
// connections.
func NewFeedHub(logger *slog.Logger, bus shared.EventBus) *FeedHub {
	return &FeedHub{
		logger:  logger,
		bus:     bus,
		clients: make(map[*feedClient]struct{}),
	}
}

// feedTopics is the full fact surface a spectator can observe.
func feedTopics() []string {
	return []string{
		matchevents.GameStarted,
		matchevents.RoundTimer,
		matchevents.FighterDamaged,
		matchevents.FighterDefeated,
		matchevents.RoundEnded,
		matchevents.GameOver,
		matchevents.SceneReady,
		matchevents.PlayerHealthChanged,
		matchevents.CountdownUpdate,
		pauseevents.GamePaused,
		pauseevents.GameResumed,
		pauseevents.GameExitToMenu,
	}
}

// Start subscribes to every feed topic. Subscriptions end when ctx cancels.
func (h *FeedHub) Start(ctx context.Context) error {
	for _, topic := range feedTopics() {
		messages, err := h.bus.Subscribe(ctx, topic)
		if err != nil {
			return fmt.Errorf("failed to subscribe feed to %s: %w", topic, err)
		}
		go h.forward(topic, messages)
	}
	return nil
}

func (h *FeedHub) forward(topic string, messages <-chan *message.Message) {
	for msg := range messages {
		frame, err := json.Marshal(FeedFrame{Topic: topic, Payload: json.RawMessage(msg.Payload)})
		msg.Ack()
		if err != nil {
			h.logger.Warn("failed to frame feed fact",
				slog.String("topic", topic),
				slog.Any("error", err),
			)
			continue
		}
		h.broadcast(frame)
	}
}

func (h *FeedHub) broadcast(frame []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- frame:
		default:
			delete(h.clients, c)
			close(c.send)
		}
	}
}

// Handle upgrades the request and streams facts until the client disconnects.
func (h *FeedHub) Handle(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("feed upgrade failed", slog.Any("error", err))
		return
	}

	client := &feedClient{conn: conn, send: make(chan []byte, 256)}
	h.mu.Lock()
	h.clients[client] = struct{}{}
	h.mu.Unlock()
	h.logger.Debug("spectator connected", slog.String("remote", conn.RemoteAddr().String()))

	go client.writePump()
	go h.readPump(client)
}

// readPump discards inbound frames; its job is noticing the disconnect.
func (h *FeedHub) readPump(c *feedClient) {
	defer func() {
		h.drop(c)
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *feedClient) writePump() {
	defer c.conn.Close()
	for frame := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(feedWriteTimeout))
		if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
			return
		}
	}
	_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

func (h *FeedHub) drop(c *feedClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

// Close disconnects every spectator.
func (h *FeedHub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
}
