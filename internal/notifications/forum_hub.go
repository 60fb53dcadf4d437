// Package notifications fans forum events out to websocket clients, across
// server instances through Redis pub/sub.
package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"sync"

	"cinetheque/internal/middleware"
	"cinetheque/internal/models"
	"cinetheque/internal/observability"

	"github.com/gofiber/websocket/v2"
)

// ForumRoom is the room every client joins on connect; it carries forum-wide events.
const ForumRoom uint = 0

const maxConnsPerUser = 5

// ErrConnectionLimit is returned when a user already holds maxConnsPerUser sockets.
var ErrConnectionLimit = errors.New("user connection limit reached")

// ClientMessage is a control message sent by the browser.
type ClientMessage struct {
	Action  string `json:"action"` // "join" or "leave"
	TopicID uint   `json:"topic_id"`
}

// ForumHub tracks which clients follow which topic rooms.
type ForumHub struct {
	mu sync.RWMutex

	// topicID -> clients in that room
	rooms map[uint]map[*Client]struct{}

	// client -> rooms it joined
	clients map[*Client]map[uint]struct{}

	// userID -> live connection count, authenticated users only
	userConns map[uint]int
}

func NewForumHub() *ForumHub {
	return &ForumHub{
		rooms:     make(map[uint]map[*Client]struct{}),
		clients:   make(map[*Client]map[uint]struct{}),
		userConns: make(map[uint]int),
	}
}

// Name returns a human-readable identifier for this hub.
func (h *ForumHub) Name() string { return "forum hub" }

// Register creates a client for conn and puts it in the forum-wide room.
func (h *ForumHub) Register(userID uint, conn *websocket.Conn) (*Client, error) {
	client := NewClient(h, conn, userID)
	if err := h.add(client); err != nil {
		return nil, err
	}
	client.IncomingHandler = h.handleIncoming
	return client, nil
}

func (h *ForumHub) add(client *Client) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if client.UserID != 0 && h.userConns[client.UserID] >= maxConnsPerUser {
		return ErrConnectionLimit
	}
	if _, ok := h.clients[client]; ok {
		return nil
	}
	if client.UserID != 0 {
		h.userConns[client.UserID]++
	}
	h.clients[client] = make(map[uint]struct{})
	h.joinLocked(client, ForumRoom)
	return nil
}

// UnregisterClient drops the client from every room and closes its send channel.
func (h *ForumHub) UnregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	rooms, ok := h.clients[client]
	if !ok {
		return
	}
	for topicID := range rooms {
		h.leaveLocked(client, topicID)
	}
	delete(h.clients, client)
	if client.UserID != 0 {
		h.userConns[client.UserID]--
		if h.userConns[client.UserID] <= 0 {
			delete(h.userConns, client.UserID)
		}
	}
	close(client.Send)
}

// Join subscribes a registered client to a topic room.
func (h *ForumHub) Join(client *Client, topicID uint) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[client]; !ok {
		return
	}
	h.joinLocked(client, topicID)
}

// Leave unsubscribes a client from a topic room. The forum-wide room cannot be left.
func (h *ForumHub) Leave(client *Client, topicID uint) {
	if topicID == ForumRoom {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.leaveLocked(client, topicID)
}

func (h *ForumHub) joinLocked(client *Client, topicID uint) {
	room := h.rooms[topicID]
	if room == nil {
		room = make(map[*Client]struct{})
		h.rooms[topicID] = room
	}
	room[client] = struct{}{}
	h.clients[client][topicID] = struct{}{}
	observability.WebSocketRoomConnections.WithLabelValues(roomLabel(topicID)).Set(float64(len(room)))
}

func (h *ForumHub) leaveLocked(client *Client, topicID uint) {
	room, ok := h.rooms[topicID]
	if !ok {
		return
	}
	delete(room, client)
	if rooms, ok := h.clients[client]; ok {
		delete(rooms, topicID)
	}
	if len(room) == 0 {
		delete(h.rooms, topicID)
		observability.WebSocketRoomConnections.DeleteLabelValues(roomLabel(topicID))
		return
	}
	observability.WebSocketRoomConnections.WithLabelValues(roomLabel(topicID)).Set(float64(len(room)))
}

// RoomSize reports how many clients follow a topic.
func (h *ForumHub) RoomSize(topicID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[topicID])
}

// Broadcast delivers an event to the clients of its topic room.
func (h *ForumHub) Broadcast(event models.ForumEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	h.deliver(event.TopicID, data)
	return nil
}

// HandleRedisMessage delivers a payload received on a forum topic channel.
func (h *ForumHub) HandleRedisMessage(channel, payload string) {
	topicID, ok := ParseForumTopicChannel(channel)
	if !ok {
		middleware.Logger.Warn("ignoring message on unexpected channel", slog.String("channel", channel))
		return
	}
	h.deliver(topicID, []byte(payload))
}

func (h *ForumHub) deliver(topicID uint, data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.rooms[topicID] {
		client.TrySend(data)
	}
}

func (h *ForumHub) handleIncoming(client *Client, raw []byte) {
	var msg ClientMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return
	}
	switch msg.Action {
	case "join":
		h.Join(client, msg.TopicID)
	case "leave":
		h.Leave(client, msg.TopicID)
	}
}

// Shutdown disconnects every client.
func (h *ForumHub) Shutdown(ctx context.Context) error {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		if err := ctx.Err(); err != nil {
			return err
		}
		h.UnregisterClient(c)
	}
	return nil
}

func roomLabel(topicID uint) string {
	return strconv.FormatUint(uint64(topicID), 10)
}
