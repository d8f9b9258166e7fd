// Package ws is the realtime transport. It upgrades authenticated HTTP
// requests to websocket connections, decodes action envelopes into dispatch
// calls, and fans events out per game. The hub is dumb plumbing: every rule
// lives behind the dispatcher.
package ws

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/louisbranch/liarsdice/internal/game/service"
)

// Hub tracks connected peers per game code and implements the dispatcher's
// publisher contract.
type Hub struct {
	mu    sync.Mutex
	rooms map[string]map[*peer]struct{}
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{rooms: make(map[string]map[*peer]struct{})}
}

func (h *Hub) add(code string, p *peer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	room, ok := h.rooms[code]
	if !ok {
		room = make(map[*peer]struct{})
		h.rooms[code] = room
	}
	room[p] = struct{}{}
}

func (h *Hub) remove(code string, p *peer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	room, ok := h.rooms[code]
	if !ok {
		return
	}
	delete(room, p)
	if len(room) == 0 {
		delete(h.rooms, code)
	}
}

// Broadcast delivers an event to every peer in the game.
func (h *Hub) Broadcast(gameCode string, event service.Event) {
	payload := mustJSON(event)
	if payload == nil {
		return
	}
	for _, p := range h.peers(gameCode) {
		p.enqueue(payload)
	}
}

// SendTo delivers an event to every connection the player has open in the
// game.
func (h *Hub) SendTo(gameCode, playerID string, event service.Event) {
	payload := mustJSON(event)
	if payload == nil {
		return
	}
	for _, p := range h.peers(gameCode) {
		if p.playerID == playerID {
			p.enqueue(payload)
		}
	}
}

func (h *Hub) peers(code string) []*peer {
	h.mu.Lock()
	defer h.mu.Unlock()
	room, ok := h.rooms[code]
	if !ok {
		return nil
	}
	out := make([]*peer, 0, len(room))
	for p := range room {
		out = append(out, p)
	}
	return out
}

func mustJSON(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		log.Printf("marshal websocket event: %v", err)
		return nil
	}
	return b
}
