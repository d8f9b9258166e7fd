package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/louisbranch/liarsdice/internal/auth"
	"github.com/louisbranch/liarsdice/internal/game/service"
	apperrors "github.com/louisbranch/liarsdice/internal/platform/errors"
	"github.com/louisbranch/liarsdice/internal/platform/timeouts"
)

// sendBuffer bounds queued outbound frames per connection. A peer that
// cannot drain this many frames is dropped instead of blocking fan-out.
const sendBuffer = 32

// actionEnvelope is the inbound wire frame. Identity never comes from the
// envelope; it is fixed by the verified token at upgrade time.
type actionEnvelope struct {
	Action service.ActionType `json:"action"`
	Data   json.RawMessage    `json:"data,omitempty"`
}

// errorPayload is the caller-visible failure response.
type errorPayload struct {
	OK      bool              `json:"ok"`
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// EventError is the frame type carrying an errorPayload.
const EventError service.EventType = "ERROR"

// Handler upgrades authenticated requests and pumps frames between the
// connection and the dispatcher.
type Handler struct {
	svc      *service.Service
	hub      *Hub
	tokens   auth.Config
	upgrader websocket.Upgrader
}

// NewHandler wires the websocket endpoint.
func NewHandler(svc *service.Service, hub *Hub, tokens auth.Config) *Handler {
	return &Handler{
		svc:    svc,
		hub:    hub,
		tokens: tokens,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ticket, err := auth.Verify(h.tokens, tokenFromRequest(r))
	if err != nil {
		log.Printf("ws: unauthorized upgrade from %s: %v", r.RemoteAddr, err)
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws: upgrade failed for %s: %v", r.RemoteAddr, err)
		return
	}

	p := newPeer(conn, ticket.PlayerID)
	h.hub.add(ticket.GameCode, p)
	go p.writePump()

	// Catch the player up before accepting actions from them.
	if err := h.svc.Replay(r.Context(), ticket.GameCode, ticket.PlayerID); err != nil {
		h.sendError(p, err)
	}

	h.readLoop(r.Context(), p, ticket)
}

// readLoop decodes inbound envelopes into dispatch calls until the
// connection dies. Pongs extend the read deadline; a silent connection is
// closed by the deadline instead of lingering.
func (h *Handler) readLoop(ctx context.Context, p *peer, ticket auth.Ticket) {
	defer func() {
		h.hub.remove(ticket.GameCode, p)
		p.close()
	}()

	p.conn.SetReadDeadline(time.Now().Add(timeouts.PongWait))
	p.conn.SetPongHandler(func(string) error {
		p.conn.SetReadDeadline(time.Now().Add(timeouts.PongWait))
		return nil
	})

	for {
		_, raw, err := p.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("ws: read from %s in %s: %v", ticket.PlayerID, ticket.GameCode, err)
			}
			return
		}

		var envelope actionEnvelope
		if err := json.Unmarshal(raw, &envelope); err != nil {
			h.sendError(p, apperrors.New(apperrors.CodeInvalidRequest, "malformed action envelope"))
			continue
		}

		err = h.svc.Dispatch(ctx, service.Request{
			GameCode: ticket.GameCode,
			PlayerID: ticket.PlayerID,
			Action:   envelope.Action,
			Payload:  envelope.Data,
		})
		if err != nil {
			h.sendError(p, err)
		}
	}
}

func (h *Handler) sendError(p *peer, err error) {
	payload := errorPayload{
		Code:    string(apperrors.CodeInvalidRequest),
		Message: "request failed",
	}
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		payload.Code = string(appErr.Code)
		payload.Message = appErr.Message
		payload.Details = appErr.Metadata
	}
	if frame := mustJSON(service.Event{Type: EventError, Data: payload}); frame != nil {
		p.enqueue(frame)
	}
}

// tokenFromRequest accepts the token as a query parameter or bearer header.
// Browser websocket clients cannot set headers, so the query form is the
// primary path.
func tokenFromRequest(r *http.Request) string {
	if token := r.URL.Query().Get("token"); token != "" {
		return token
	}
	const prefix = "Bearer "
	header := r.Header.Get("Authorization")
	if len(header) > len(prefix) && header[:len(prefix)] == prefix {
		return header[len(prefix):]
	}
	return ""
}
