// Copyright (c) 2026 PrepDeck. All rights reserved.

package realtime

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/prepdeck/prepdeck/internal/platform/apperr"
	"github.com/prepdeck/prepdeck/internal/platform/ctxutil"
	"github.com/prepdeck/prepdeck/internal/platform/middleware"
	requestutil "github.com/prepdeck/prepdeck/internal/platform/request"
	"github.com/prepdeck/prepdeck/internal/platform/respond"
	"github.com/prepdeck/prepdeck/pkg/uuidv7"
)

// Handler owns the websocket upgrade endpoint and the realtime
// introspection routes.
type Handler struct {
	hub      *Hub
	verifier middleware.TokenVerifier
	upgrader websocket.Upgrader
}

// NewHandler wires the realtime HTTP surface. The origin policy applied to
// upgrades is the same one the CORS middleware enforces on plain HTTP.
func NewHandler(hub *Hub, verifier middleware.TokenVerifier, policy *middleware.OriginPolicy) *Handler {
	return &Handler{
		hub:      hub,
		verifier: verifier,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				return policy.IsAllowed(r.Header.Get("Origin"))
			},
		},
	}
}

// ServeWS upgrades the request to a websocket and serves it until the peer
// disconnects. Credentials are optional: anonymous connections may observe,
// but a presented token must be valid.
//
// Browsers cannot set headers on websocket handshakes, so the token is also
// accepted as a "token" query parameter.
func (h *Handler) ServeWS(writer http.ResponseWriter, request *http.Request) {
	userID, err := h.identify(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	sock, err := h.upgrader.Upgrade(writer, request, nil)
	if err != nil {
		// Upgrade already wrote the handshake error (403 on origin
		// rejection, 400 on a non-websocket request).
		return
	}

	log := ctxutil.GetLogger(request.Context())
	conn := NewConn(uuidv7.New(), userID, sock, h.hub, log)
	log.Info("realtime_connected", "conn_id", conn.ID(), "user_id", userID)

	conn.Serve(request.Context())
	log.Info("realtime_disconnected", "conn_id", conn.ID())
}

// Routes exposes room introspection under the authenticated API.
func (h *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Get("/sessions/{sessionID}/members", h.listMembers)
	return router
}

type memberResponse struct {
	ConnID string `json:"connId"`
	UserID string `json:"userId,omitempty"`
}

type roomResponse struct {
	SessionID string           `json:"sessionId"`
	Members   []memberResponse `json:"members"`
}

func (h *Handler) listMembers(writer http.ResponseWriter, request *http.Request) {
	sessionID := requestutil.Param(request, "sessionID")

	members := h.hub.Members(sessionID)
	out := roomResponse{SessionID: sessionID, Members: make([]memberResponse, 0, len(members))}
	for _, m := range members {
		out.Members = append(out.Members, memberResponse{ConnID: m.ID(), UserID: m.UserID()})
	}
	respond.OK(writer, out)
}

// identify extracts and verifies the caller's credentials. Absent credentials
// yield an anonymous connection; present-but-invalid credentials are
// rejected.
func (h *Handler) identify(request *http.Request) (string, error) {
	token := ""
	if header := request.Header.Get("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return "", apperr.Unauthorized("Invalid authorization header format")
		}
		token = parts[1]
	} else if q := request.URL.Query().Get("token"); q != "" {
		token = q
	}
	if token == "" {
		return "", nil
	}

	claims, err := h.verifier.VerifyToken(request.Context(), token)
	if err != nil {
		return "", apperr.Unauthorized("Invalid or expired token")
	}
	return claims.UserID, nil
}
