package ws

import (
	"encoding/json"
	"log/slog"
	"sync"

	"clicker_webapp/internal/logger"
)

// Event is a one-way server push. The backend never reads game commands from
// the socket; all mutations go through the HTTP API.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

type AttackPayload struct {
	Attacker string  `json:"attacker"`
	Damage   float64 `json:"damage"`
	Absorbed bool    `json:"absorbed"`
}

// Hub tracks connected clients by telegram id. A player may hold several
// connections (multiple devices); every one gets the push.
type Hub struct {
	mu      sync.RWMutex
	clients map[int64]map[*Client]struct{}
	log     *slog.Logger
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[int64]map[*Client]struct{}),
		log:     logger.With("component", "ws_hub"),
	}
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[c.TgID]
	if !ok {
		set = make(map[*Client]struct{})
		h.clients[c.TgID] = set
	}
	set[c] = struct{}{}
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[c.TgID]
	if !ok {
		return
	}
	delete(set, c)
	if len(set) == 0 {
		delete(h.clients, c.TgID)
	}
}

// Push sends an event to every connection of tgID. Slow clients are skipped
// rather than blocking the caller.
func (h *Hub) Push(tgID int64, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		h.log.Error("failed to marshal event", "type", ev.Type, "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients[tgID] {
		select {
		case c.Send <- data:
		default:
			h.log.Warn("dropping event for slow client", "tg_id", tgID, "type", ev.Type)
		}
	}
}

// NotifyAttack implements the economy service notifier.
func (h *Hub) NotifyAttack(targetTgID int64, attackerName string, damage float64, absorbed bool) {
	h.Push(targetTgID, Event{
		Type: "bomb_attack",
		Payload: AttackPayload{
			Attacker: attackerName,
			Damage:   damage,
			Absorbed: absorbed,
		},
	})
}
