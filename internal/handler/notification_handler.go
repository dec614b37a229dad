package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jlobacci/goout-backend/internal/common"
	"github.com/jlobacci/goout-backend/internal/middleware"
	"github.com/jlobacci/goout-backend/internal/service"
)

type NotificationHandler struct {
	service service.NotificationService
}

func NewNotificationHandler(service service.NotificationService) *NotificationHandler {
	return &NotificationHandler{service: service}
}

// GetFeed handles GET /api/v1/notifications
// ?full=true widens the upcoming-slot window and lifts the item cap.
// @Summary Notification feed
// @Tags notifications
// @Produce json
// @Param full query bool false "Full history instead of the compact feed"
// @Success 200 {object} common.APIResponse{data=domain.NotificationFeedResponse}
// @Router /notifications [get]
func (h *NotificationHandler) GetFeed(c *gin.Context) {
	userID := middleware.GetUserID(c)
	full := c.Query("full") == "true"

	feed, err := h.service.BuildFeed(userID, time.Now(), full)
	if err != nil {
		common.ErrorResponse(c, 500, "Failed to build notification feed", err)
		return
	}

	common.SuccessResponse(c, feed, nil)
}

// GetBadge handles GET /api/v1/notifications/badge
// @Summary Unread badge count
// @Tags notifications
// @Produce json
// @Success 200 {object} common.APIResponse
// @Router /notifications/badge [get]
func (h *NotificationHandler) GetBadge(c *gin.Context) {
	userID := middleware.GetUserID(c)

	count, err := h.service.BadgeCount(userID, time.Now())
	if err != nil {
		common.ErrorResponse(c, 500, "Failed to fetch badge count", err)
		return
	}

	common.SuccessResponse(c, gin.H{"badge_count": count}, nil)
}

// Dismiss handles POST /api/v1/notifications/dismiss
// Zeroes the badge without marking any message read.
// @Summary Dismiss the notification badge
// @Tags notifications
// @Produce json
// @Success 200 {object} common.APIResponse
// @Router /notifications/dismiss [post]
func (h *NotificationHandler) Dismiss(c *gin.Context) {
	userID := middleware.GetUserID(c)

	if err := h.service.Dismiss(userID, time.Now()); err != nil {
		common.ErrorResponse(c, 500, "Failed to dismiss notifications", err)
		return
	}

	common.SuccessResponse(c, gin.H{"dismissed": true}, nil)
}
