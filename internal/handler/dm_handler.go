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

type DMHandler struct {
	threadService  service.ThreadService
	messageService service.MessageService
}

func NewDMHandler(threadService service.ThreadService, messageService service.MessageService) *DMHandler {
	return &DMHandler{
		threadService:  threadService,
		messageService: messageService,
	}
}

// ResolveThread handles POST /api/v1/dm/threads
// Returns the one thread for the caller and the given counterpart,
// creating it on first contact.
// @Summary Start or resume a direct-message thread
// @Tags dm
// @Accept json
// @Produce json
// @Param request body domain.ResolveThreadRequest true "Counterpart user ID"
// @Success 200 {object} common.APIResponse{data=domain.DMThread}
// @Failure 400 {object} common.APIResponse
// @Failure 409 {object} common.APIResponse
// @Router /dm/threads [post]
func (h *DMHandler) ResolveThread(c *gin.Context) {
	var req domain.ResolveThreadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}

	userID := middleware.GetUserID(c)

	thread, err := h.threadService.Resolve(userID, req.OtherUserID)
	if errors.Is(err, common.ErrInvalidInput) {
		common.ErrorResponse(c, 400, "Invalid thread request", err)
		return
	}
	if errors.Is(err, common.ErrNotFound) {
		common.ErrorResponse(c, 404, "Member not found", err)
		return
	}
	if errors.Is(err, common.ErrThreadConflict) {
		common.ErrorResponse(c, 409, "Thread resolution conflict, retry", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, 500, "Failed to resolve thread", err)
		return
	}

	common.SuccessResponse(c, thread, nil)
}

// ListThreads handles GET /api/v1/dm/threads
// @Summary List my direct-message threads
// @Tags dm
// @Produce json
// @Success 200 {object} common.APIResponse{data=[]domain.DMThreadResponse}
// @Router /dm/threads [get]
func (h *DMHandler) ListThreads(c *gin.Context) {
	userID := middleware.GetUserID(c)

	rows, err := h.threadService.ListThreads(userID)
	if err != nil {
		common.ErrorResponse(c, 500, "Failed to fetch threads", err)
		return
	}

	responses := make([]*domain.DMThreadResponse, 0, len(rows))
	for _, row := range rows {
		responses = append(responses, row.ToResponse())
	}
	common.SuccessResponse(c, responses, nil)
}

// SendDMMessage handles POST /api/v1/dm/threads/:id/messages
// @Summary Send a direct message
// @Tags dm
// @Accept json
// @Produce json
// @Param id path int true "Thread ID"
// @Param request body domain.SendMessageRequest true "Message body"
// @Success 200 {object} common.APIResponse{data=domain.DMMessage}
// @Failure 400 {object} common.APIResponse
// @Failure 403 {object} common.APIResponse
// @Router /dm/threads/{id}/messages [post]
func (h *DMHandler) SendDMMessage(c *gin.Context) {
	threadID, err := ginutil.ParamInt64(c, "id")
	if err != nil {
		common.ErrorResponse(c, 400, "Invalid thread ID", err)
		return
	}

	var req domain.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}

	senderID := middleware.GetUserID(c)

	msg, err := h.messageService.AppendDMMessage(threadID, senderID, req.Body)
	if errors.Is(err, common.ErrEmptyMessage) {
		common.ErrorResponse(c, 400, "Message body is empty", err)
		return
	}
	if errors.Is(err, common.ErrNotFound) {
		common.ErrorResponse(c, 404, "Thread not found", err)
		return
	}
	if errors.Is(err, common.ErrNotParticipant) {
		common.ErrorResponse(c, 403, "Not a participant of this thread", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, 500, "Failed to send message", err)
		return
	}

	middleware.IncMessagesAppended(domain.MessageKindDM)
	common.CreatedResponse(c, msg)
}

// ListDMMessages handles GET /api/v1/dm/threads/:id/messages
// Accepts ?since_id= to resume listing after a known message.
// @Summary List direct messages in a thread
// @Tags dm
// @Produce json
// @Param id path int true "Thread ID"
// @Param since_id query int false "Resume after this message ID"
// @Success 200 {object} common.APIResponse{data=[]domain.DMMessage}
// @Failure 403 {object} common.APIResponse
// @Router /dm/threads/{id}/messages [get]
func (h *DMHandler) ListDMMessages(c *gin.Context) {
	threadID, err := ginutil.ParamInt64(c, "id")
	if err != nil {
		common.ErrorResponse(c, 400, "Invalid thread ID", err)
		return
	}

	userID := middleware.GetUserID(c)
	sinceID := ginutil.QueryInt64(c, "since_id", 0)

	messages, err := h.messageService.ListDMMessages(threadID, userID, sinceID)
	if errors.Is(err, common.ErrNotFound) {
		common.ErrorResponse(c, 404, "Thread not found", err)
		return
	}
	if errors.Is(err, common.ErrNotParticipant) {
		common.ErrorResponse(c, 403, "Not a participant of this thread", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, 500, "Failed to fetch messages", err)
		return
	}

	common.SuccessResponse(c, messages, nil)
}
