package handler

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jlobacci/goout-backend/internal/common"
	"github.com/jlobacci/goout-backend/internal/domain"
	"github.com/jlobacci/goout-backend/internal/middleware"
	"github.com/jlobacci/goout-backend/internal/service"
	"github.com/jlobacci/goout-backend/pkg/ginutil"
)

type EventHandler struct {
	service service.EventService
}

func NewEventHandler(service service.EventService) *EventHandler {
	return &EventHandler{service: service}
}

// CreateEvent handles POST /api/v1/events
// @Summary Create an event with time slots
// @Tags events
// @Accept json
// @Produce json
// @Param request body domain.CreateEventRequest true "Event and slots"
// @Success 201 {object} common.APIResponse{data=domain.Event}
// @Failure 400 {object} common.APIResponse
// @Router /events [post]
func (h *EventHandler) CreateEvent(c *gin.Context) {
	var req domain.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}

	organizerID := middleware.GetUserID(c)

	event, err := h.service.Create(organizerID, &req)
	if errors.Is(err, common.ErrInvalidInput) {
		common.ErrorResponse(c, 400, "Invalid event", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, 500, "Failed to create event", err)
		return
	}

	common.CreatedResponse(c, event)
}

// GetEvent handles GET /api/v1/events/:id
// @Summary Event detail
// @Tags events
// @Produce json
// @Param id path int true "Event ID"
// @Success 200 {object} common.APIResponse{data=domain.Event}
// @Failure 404 {object} common.APIResponse
// @Router /events/{id} [get]
func (h *EventHandler) GetEvent(c *gin.Context) {
	id, err := ginutil.ParamInt64(c, "id")
	if err != nil {
		common.ErrorResponse(c, 400, "Invalid event ID", err)
		return
	}

	event, err := h.service.GetByID(id)
	if errors.Is(err, common.ErrEventNotFound) {
		common.ErrorResponse(c, 404, "Event not found", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, 500, "Failed to fetch event", err)
		return
	}

	common.SuccessResponse(c, event, nil)
}

// ListEvents handles GET /api/v1/events
// @Summary List events
// @Tags events
// @Produce json
// @Param hobby query string false "Filter by hobby"
// @Param upcoming query bool false "Only events with a future slot"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} common.APIResponse{data=[]domain.Event}
// @Router /events [get]
func (h *EventHandler) ListEvents(c *gin.Context) {
	hobby := c.Query("hobby")
	page := ginutil.QueryInt(c, "page", 1)
	limit := ginutil.QueryInt(c, "limit", 20)

	if c.Query("upcoming") == "true" {
		events, err := h.service.ListUpcoming(time.Now(), limit)
		if err != nil {
			common.ErrorResponse(c, 500, "Failed to fetch events", err)
			return
		}
		common.SuccessResponse(c, events, nil)
		return
	}

	events, total, err := h.service.List(hobby, page, limit)
	if err != nil {
		common.ErrorResponse(c, 500, "Failed to fetch events", err)
		return
	}

	common.SuccessResponse(c, events, &common.Meta{
		Page:  page,
		Limit: limit,
		Total: total,
	})
}

// DeleteEvent handles DELETE /api/v1/events/:id
// @Summary Delete an event (organizer only)
// @Tags events
// @Produce json
// @Param id path int true "Event ID"
// @Success 200 {object} common.APIResponse
// @Failure 403 {object} common.APIResponse
// @Failure 404 {object} common.APIResponse
// @Router /events/{id} [delete]
func (h *EventHandler) DeleteEvent(c *gin.Context) {
	id, err := ginutil.ParamInt64(c, "id")
	if err != nil {
		common.ErrorResponse(c, 400, "Invalid event ID", err)
		return
	}

	userID := middleware.GetUserID(c)

	err = h.service.Delete(id, userID)
	if errors.Is(err, common.ErrEventNotFound) {
		common.ErrorResponse(c, 404, "Event not found", err)
		return
	}
	if errors.Is(err, common.ErrForbidden) {
		common.ErrorResponse(c, 403, "Only the organizer can delete an event", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, 500, "Failed to delete event", err)
		return
	}

	common.SuccessResponse(c, gin.H{"deleted": true}, nil)
}
