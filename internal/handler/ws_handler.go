package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/jlobacci/goout-backend/internal/common"
	"github.com/jlobacci/goout-backend/internal/domain"
	"github.com/jlobacci/goout-backend/internal/middleware"
	"github.com/jlobacci/goout-backend/internal/repository"
	"github.com/jlobacci/goout-backend/internal/service"
	"github.com/jlobacci/goout-backend/internal/ws"
	"github.com/jlobacci/goout-backend/pkg/jwt"
	"github.com/jlobacci/goout-backend/pkg/logger"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origin is enforced by the CORS layer in front; the token check
	// below gates the socket itself.
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WSHandler struct {
	hub           *ws.Hub
	jwtManager    *jwt.Manager
	eventRepo     repository.EventRepository
	threadService service.ThreadService
}

func NewWSHandler(hub *ws.Hub, jwtManager *jwt.Manager, eventRepo repository.EventRepository, threadService service.ThreadService) *WSHandler {
	return &WSHandler{
		hub:           hub,
		jwtManager:    jwtManager,
		eventRepo:     eventRepo,
		threadService: threadService,
	}
}

// Serve handles GET /ws?thread=<key>&token=<jwt>
// Browsers cannot set headers on WebSocket upgrades, so the token rides
// the query string.
func (h *WSHandler) Serve(c *gin.Context) {
	tokenString := c.Query("token")
	if tokenString == "" {
		common.ErrorResponse(c, 401, "Missing token", nil)
		return
	}
	claims, err := h.jwtManager.VerifyToken(tokenString)
	if err != nil {
		common.ErrorResponse(c, 401, "Invalid token", err)
		return
	}
	userID := claims.UserID

	threadKey := c.Query("thread")
	kind, id, err := domain.ParseThreadKey(threadKey)
	if err != nil {
		common.ErrorResponse(c, 400, "Invalid thread key", err)
		return
	}

	if err := h.authorize(kind, id, userID); err != nil {
		if errors.Is(err, common.ErrNotParticipant) || errors.Is(err, common.ErrForbidden) {
			common.ErrorResponse(c, 403, "Not a participant of this thread", err)
			return
		}
		if errors.Is(err, common.ErrNotFound) {
			common.ErrorResponse(c, 404, "Thread not found", err)
			return
		}
		common.ErrorResponse(c, 500, "Failed to authorize subscription", err)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Get().Warn().Err(err).Str("thread", threadKey).Msg("WebSocket upgrade failed")
		return
	}

	client := ws.NewClient(h.hub, conn, threadKey, userID)
	h.hub.Register(client)
	middleware.IncWSConnections()

	go client.WritePump()
	go func() {
		defer middleware.DecWSConnections()
		client.ReadPump()
	}()
}

func (h *WSHandler) authorize(kind string, id int64, userID string) error {
	switch kind {
	case domain.MessageKindEvent:
		ok, err := h.eventRepo.IsParticipant(id, userID)
		if err != nil {
			return err
		}
		if !ok {
			return common.ErrNotParticipant
		}
		return nil
	default:
		_, err := h.threadService.GetThread(id, userID)
		return err
	}
}
