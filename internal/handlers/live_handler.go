package handlers

import (
	"context"
	"net/http"

	"github.com/bilashs/StudyBuddy-Server/internal/services"
	jwtutil "github.com/bilashs/StudyBuddy-Server/pkg/jwt"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// LiveHandler streams subscription output over WebSockets: conversation
// previews, per-conversation messages, friend badges and the member session
// list. Each socket owns exactly one subscription whose context is cancelled
// when the socket closes, so switching conversations (a new socket) can never
// race two listeners into the same view.
type LiveHandler struct {
	Chat         *services.ChatService
	Relationship *services.RelationshipService
	Session      *services.SessionService
	JWTSecret    string
}

func NewLiveHandler(chat *services.ChatService, rel *services.RelationshipService, session *services.SessionService, jwtSecret string) *LiveHandler {
	return &LiveHandler{
		Chat:         chat,
		Relationship: rel,
		Session:      session,
		JWTSecret:    jwtSecret,
	}
}

// authUpgrade validates the token query parameter and upgrades the
// connection. WebSocket clients cannot set headers, hence the query param.
func (h *LiveHandler) authUpgrade(w http.ResponseWriter, r *http.Request) (*websocket.Conn, *jwtutil.Claims, bool) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "Missing token", http.StatusUnauthorized)
		return nil, nil, false
	}
	claims, err := jwtutil.ValidateToken(token, h.JWTSecret)
	if err != nil {
		logrus.WithError(err).Warn("WebSocket auth failed")
		http.Error(w, "Invalid token", http.StatusUnauthorized)
		return nil, nil, false
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logrus.WithError(err).Warn("WebSocket upgrade failed")
		return nil, nil, false
	}
	return conn, claims, true
}

// pump writes each payload from send onto the socket until either side goes
// away. A reader goroutine watches for the client closing and cancels the
// subscription context.
func pump(conn *websocket.Conn, cancel context.CancelFunc, send func(*websocket.Conn) bool) {
	defer conn.Close()
	defer cancel()

	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				cancel()
				return
			}
		}
	}()

	for send(conn) {
	}
}

// PreviewsSocketHandler streams the caller's conversation previews. The
// cached snapshot, when present, is sent first so the client paints
// immediately; the first live delivery supersedes it.
func (h *LiveHandler) PreviewsSocketHandler(w http.ResponseWriter, r *http.Request) {
	conn, claims, ok := h.authUpgrade(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	stream, err := h.Chat.SubscribePreviews(ctx, claims.UserID)
	if err != nil {
		logrus.WithError(err).Error("Failed to subscribe to previews")
		cancel()
		conn.Close()
		return
	}

	if cached := h.Chat.CachedPreviews(claims.UserID); cached != nil {
		_ = conn.WriteJSON(cached)
	}

	pump(conn, cancel, func(c *websocket.Conn) bool {
		previews, open := <-stream
		if !open {
			return false
		}
		return c.WriteJSON(previews) == nil
	})
}

// MessagesSocketHandler streams the full ascending message list of one
// conversation.
func (h *LiveHandler) MessagesSocketHandler(w http.ResponseWriter, r *http.Request) {
	conn, claims, ok := h.authUpgrade(w, r)
	if !ok {
		return
	}

	otherID := mux.Vars(r)["id"]
	chatID := services.ConversationID(claims.UserID, otherID)

	ctx, cancel := context.WithCancel(r.Context())
	stream, err := h.Chat.SubscribeMessages(ctx, chatID)
	if err != nil {
		logrus.WithError(err).Error("Failed to subscribe to messages")
		cancel()
		conn.Close()
		return
	}

	pump(conn, cancel, func(c *websocket.Conn) bool {
		messages, open := <-stream
		if !open {
			return false
		}
		return c.WriteJSON(services.GroupMessagesWithSeparators(messages)) == nil
	})
}

// BadgesSocketHandler streams the friend-request/acceptance badge booleans.
func (h *LiveHandler) BadgesSocketHandler(w http.ResponseWriter, r *http.Request) {
	conn, claims, ok := h.authUpgrade(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	stream, err := h.Relationship.WatchBadges(ctx, claims.UserID)
	if err != nil {
		logrus.WithError(err).Error("Failed to subscribe to badges")
		cancel()
		conn.Close()
		return
	}

	pump(conn, cancel, func(c *websocket.Conn) bool {
		badges, open := <-stream
		if !open {
			return false
		}
		return c.WriteJSON(badges) == nil
	})
}

// SessionsSocketHandler streams the caller's study session list.
func (h *LiveHandler) SessionsSocketHandler(w http.ResponseWriter, r *http.Request) {
	conn, claims, ok := h.authUpgrade(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	stream, err := h.Session.SubscribeMemberSessions(ctx, claims.UserID)
	if err != nil {
		logrus.WithError(err).Error("Failed to subscribe to sessions")
		cancel()
		conn.Close()
		return
	}

	pump(conn, cancel, func(c *websocket.Conn) bool {
		sessions, open := <-stream
		if !open {
			return false
		}
		return c.WriteJSON(sessions) == nil
	})
}
