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

type ApplicationHandler struct {
	service service.ApplicationService
}

func NewApplicationHandler(service service.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{service: service}
}

// Apply handles POST /api/v1/events/:id/applications
// @Summary Apply to an event slot
// @Tags applications
// @Accept json
// @Produce json
// @Param id path int true "Event ID"
// @Param request body domain.ApplyRequest true "Slot choice"
// @Success 201 {object} common.APIResponse{data=domain.Application}
// @Failure 400 {object} common.APIResponse
// @Failure 409 {object} common.APIResponse
// @Router /events/{id}/applications [post]
func (h *ApplicationHandler) Apply(c *gin.Context) {
	eventID, err := ginutil.ParamInt64(c, "id")
	if err != nil {
		common.ErrorResponse(c, 400, "Invalid event ID", err)
		return
	}

	var req domain.ApplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}

	applicantID := middleware.GetUserID(c)

	app, err := h.service.Apply(eventID, applicantID, &req)
	if errors.Is(err, common.ErrEventNotFound) {
		common.ErrorResponse(c, 404, "Event not found", err)
		return
	}
	if errors.Is(err, common.ErrSlotNotFound) {
		common.ErrorResponse(c, 404, "Slot not found", err)
		return
	}
	if errors.Is(err, common.ErrAlreadyApplied) {
		common.ErrorResponse(c, 409, "Already applied to this event", err)
		return
	}
	if errors.Is(err, common.ErrInvalidInput) {
		common.ErrorResponse(c, 400, "Invalid application", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, 500, "Failed to apply", err)
		return
	}

	common.CreatedResponse(c, app)
}

// Decide handles PATCH /api/v1/applications/:id
// @Summary Accept or reject an application (organizer only)
// @Tags applications
// @Accept json
// @Produce json
// @Param id path int true "Application ID"
// @Param request body domain.DecideRequest true "Decision"
// @Success 200 {object} common.APIResponse{data=domain.Application}
// @Failure 403 {object} common.APIResponse
// @Failure 409 {object} common.APIResponse
// @Router /applications/{id} [patch]
func (h *ApplicationHandler) Decide(c *gin.Context) {
	applicationID, err := ginutil.ParamInt64(c, "id")
	if err != nil {
		common.ErrorResponse(c, 400, "Invalid application ID", err)
		return
	}

	var req domain.DecideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}

	organizerID := middleware.GetUserID(c)

	app, err := h.service.Decide(applicationID, organizerID, req.Status)
	if errors.Is(err, common.ErrNotFound) {
		common.ErrorResponse(c, 404, "Application not found", err)
		return
	}
	if errors.Is(err, common.ErrEventNotFound) {
		common.ErrorResponse(c, 404, "Event not found", err)
		return
	}
	if errors.Is(err, common.ErrForbidden) {
		common.ErrorResponse(c, 403, "Only the organizer can decide applications", err)
		return
	}
	if errors.Is(err, common.ErrEventFull) {
		common.ErrorResponse(c, 409, "Event is at capacity", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, 500, "Failed to decide application", err)
		return
	}

	common.SuccessResponse(c, app, nil)
}

// ListByEvent handles GET /api/v1/events/:id/applications
// @Summary List applications for an event (organizer only)
// @Tags applications
// @Produce json
// @Param id path int true "Event ID"
// @Success 200 {object} common.APIResponse{data=[]domain.Application}
// @Failure 403 {object} common.APIResponse
// @Router /events/{id}/applications [get]
func (h *ApplicationHandler) ListByEvent(c *gin.Context) {
	eventID, err := ginutil.ParamInt64(c, "id")
	if err != nil {
		common.ErrorResponse(c, 400, "Invalid event ID", err)
		return
	}

	userID := middleware.GetUserID(c)

	apps, err := h.service.ListByEvent(eventID, userID)
	if errors.Is(err, common.ErrEventNotFound) {
		common.ErrorResponse(c, 404, "Event not found", err)
		return
	}
	if errors.Is(err, common.ErrForbidden) {
		common.ErrorResponse(c, 403, "Only the organizer can list applications", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, 500, "Failed to fetch applications", err)
		return
	}

	common.SuccessResponse(c, apps, nil)
}

// ListMine handles GET /api/v1/applications
// @Summary List my applications
// @Tags applications
// @Produce json
// @Success 200 {object} common.APIResponse{data=[]domain.Application}
// @Router /applications [get]
func (h *ApplicationHandler) ListMine(c *gin.Context) {
	applicantID := middleware.GetUserID(c)

	apps, err := h.service.ListMine(applicantID)
	if err != nil {
		common.ErrorResponse(c, 500, "Failed to fetch applications", err)
		return
	}

	common.SuccessResponse(c, apps, nil)
}
