package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/louisbranch/liarsdice/internal/auth"
	"github.com/louisbranch/liarsdice/internal/game/domain"
	apperrors "github.com/louisbranch/liarsdice/internal/platform/errors"
	"github.com/louisbranch/liarsdice/internal/transport/ws"
)

// qrSize is the rendered QR PNG edge length in pixels.
const qrSize = 256

type createGameRequest struct {
	Name string `json:"name"`
}

type joinGameRequest struct {
	Name string `json:"name"`
}

// gameResponse is returned from create and join with the credential the
// player uses to open their websocket session.
type gameResponse struct {
	Game     domain.Game `json:"game"`
	PlayerID string      `json:"playerId"`
	Token    string      `json:"token"`
}

func (s *Server) routes(hub *ws.Hub) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/up", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	mux.HandleFunc("POST /games", s.handleCreateGame)
	mux.HandleFunc("POST /games/{code}/join", s.handleJoinGame)
	mux.HandleFunc("GET /games/{code}/qr", s.handleJoinQR)
	mux.Handle("/ws", ws.NewHandler(s.svc, hub, s.opts.Tokens))
	return mux
}

func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	var req createGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.New(apperrors.CodeInvalidRequest, "malformed request body"))
		return
	}

	game, host, err := s.svc.CreateGame(r.Context(), req.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	token, err := auth.Mint(s.opts.Tokens, host.ID, game.Code)
	if err != nil {
		log.Printf("mint token for %s: %v", host.ID, err)
		writeError(w, apperrors.New(apperrors.CodeInvalidGameState, "could not issue token"))
		return
	}

	writeJSON(w, http.StatusCreated, gameResponse{
		Game:     game.SanitizeForPlayer(host.ID),
		PlayerID: host.ID,
		Token:    token,
	})
}

func (s *Server) handleJoinGame(w http.ResponseWriter, r *http.Request) {
	code := strings.ToUpper(strings.TrimSpace(r.PathValue("code")))
	var req joinGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.New(apperrors.CodeInvalidRequest, "malformed request body"))
		return
	}

	game, player, err := s.svc.JoinGame(r.Context(), code, req.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	token, err := auth.Mint(s.opts.Tokens, player.ID, game.Code)
	if err != nil {
		log.Printf("mint token for %s: %v", player.ID, err)
		writeError(w, apperrors.New(apperrors.CodeInvalidGameState, "could not issue token"))
		return
	}

	writeJSON(w, http.StatusOK, gameResponse{
		Game:     game.SanitizeForPlayer(player.ID),
		PlayerID: player.ID,
		Token:    token,
	})
}

// handleJoinQR renders the join link for a game as a PNG so a host can put
// it on a shared screen.
func (s *Server) handleJoinQR(w http.ResponseWriter, r *http.Request) {
	code := strings.ToUpper(strings.TrimSpace(r.PathValue("code")))
	exists, err := s.store.Has(r.Context(), code)
	if err != nil {
		writeError(w, apperrors.Wrap(apperrors.CodeInvalidGameState, "check game", err))
		return
	}
	if !exists {
		writeError(w, apperrors.New(apperrors.CodeGameNotFound, "no game with this code"))
		return
	}

	png, err := qrcode.Encode(s.joinURL(code), qrcode.Medium, qrSize)
	if err != nil {
		writeError(w, apperrors.Wrap(apperrors.CodeInvalidGameState, "render QR code", err))
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

func (s *Server) joinURL(code string) string {
	base := strings.TrimSuffix(s.opts.PublicURL, "/")
	if base == "" {
		base = fmt.Sprintf("http://%s", s.listener.Addr())
	}
	return fmt.Sprintf("%s/join/%s", base, code)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode response: %v", err)
	}
}

type errorResponse struct {
	OK      bool              `json:"ok"`
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

func writeError(w http.ResponseWriter, err error) {
	resp := errorResponse{
		Code:    string(apperrors.CodeInvalidRequest),
		Message: "request failed",
	}
	status := http.StatusBadRequest
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		resp.Code = string(appErr.Code)
		resp.Message = appErr.Message
		resp.Details = appErr.Metadata
		status = appErr.Code.HTTPStatus()
	}
	writeJSON(w, status, resp)
}
