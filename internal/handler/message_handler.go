package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/jlobacci/goout-backend/internal/common"
	"github.com/jlobacci/goout-backend/internal/domain"
	"github.com/jlobacci/goout-backend/internal/middleware"
	"github.com/jlobacci/goout-backend/internal/service"
	"github.com/jlobacci/goout-backend/pkg/ginutil"
)

type MessageHandler struct {
	messageService   service.MessageService
	readStateService service.ReadStateService
}

func NewMessageHandler(messageService service.MessageService, readStateService service.ReadStateService) *MessageHandler {
	return &MessageHandler{
		messageService:   messageService,
		readStateService: readStateService,
	}
}

// SendEventMessage handles POST /api/v1/events/:id/messages
// @Summary Post a message to an event thread
// @Tags messages
// @Accept json
// @Produce json
// @Param id path int true "Event ID"
// @Param request body domain.SendMessageRequest true "Message body"
// @Success 200 {object} common.APIResponse{data=domain.Message}
// @Failure 400 {object} common.APIResponse
// @Failure 403 {object} common.APIResponse
// @Router /events/{id}/messages [post]
func (h *MessageHandler) SendEventMessage(c *gin.Context) {
	eventID, err := ginutil.ParamInt64(c, "id")
	if err != nil {
		common.ErrorResponse(c, 400, "Invalid event ID", err)
		return
	}

	var req domain.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}

	senderID := middleware.GetUserID(c)

	msg, err := h.messageService.AppendEventMessage(eventID, senderID, req.Body)
	if errors.Is(err, common.ErrEmptyMessage) {
		common.ErrorResponse(c, 400, "Message body is empty", err)
		return
	}
	if errors.Is(err, common.ErrNotParticipant) {
		common.ErrorResponse(c, 403, "Not a participant of this event", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, 500, "Failed to send message", err)
		return
	}

	middleware.IncMessagesAppended(domain.MessageKindEvent)
	common.CreatedResponse(c, msg)
}

// ListEventMessages handles GET /api/v1/events/:id/messages
// Accepts ?since_id= to resume listing after a known message.
// @Summary List event thread messages
// @Tags messages
// @Produce json
// @Param id path int true "Event ID"
// @Param since_id query int false "Resume after this message ID"
// @Success 200 {object} common.APIResponse{data=[]domain.Message}
// @Failure 403 {object} common.APIResponse
// @Router /events/{id}/messages [get]
func (h *MessageHandler) ListEventMessages(c *gin.Context) {
	eventID, err := ginutil.ParamInt64(c, "id")
	if err != nil {
		common.ErrorResponse(c, 400, "Invalid event ID", err)
		return
	}

	userID := middleware.GetUserID(c)
	sinceID := ginutil.QueryInt64(c, "since_id", 0)

	messages, err := h.messageService.ListEventMessages(eventID, userID, sinceID)
	if errors.Is(err, common.ErrNotParticipant) {
		common.ErrorResponse(c, 403, "Not a participant of this event", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, 500, "Failed to fetch messages", err)
		return
	}

	common.SuccessResponse(c, messages, nil)
}

// MarkRead handles POST /api/v1/messages/read
// @Summary Mark messages as read
// @Tags messages
// @Accept json
// @Produce json
// @Param request body domain.MarkReadRequest true "Message kind and ID set"
// @Success 200 {object} common.APIResponse
// @Failure 400 {object} common.APIResponse
// @Router /messages/read [post]
func (h *MessageHandler) MarkRead(c *gin.Context) {
	var req domain.MarkReadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}

	userID := middleware.GetUserID(c)

	err := h.readStateService.MarkRead(userID, req.Kind, req.MessageIDs)
	if errors.Is(err, common.ErrInvalidInput) {
		common.ErrorResponse(c, 400, "Invalid mark-read request", err)
		return
	}
	// A marker write failure is already logged in the service and must not
	// surface to the client: the batch is idempotent, so the next mark-read
	// for the same ids repairs it.
	if err != nil && !errors.Is(err, common.ErrReadMarkerWrite) {
		common.ErrorResponse(c, 500, "Failed to mark messages read", err)
		return
	}

	common.SuccessResponse(c, gin.H{"marked": true}, nil)
}
