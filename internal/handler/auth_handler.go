package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jlobacci/goout-backend/internal/common"
	"github.com/jlobacci/goout-backend/internal/middleware"
	"github.com/jlobacci/goout-backend/internal/service"
	"github.com/jlobacci/goout-backend/pkg/jwt"
)

type AuthHandler struct {
	memberService service.MemberService
	jwtManager    *jwt.Manager
}

func NewAuthHandler(memberService service.MemberService, jwtManager *jwt.Manager) *AuthHandler {
	return &AuthHandler{
		memberService: memberService,
		jwtManager:    jwtManager,
	}
}

// TokenRequest token issue request
type TokenRequest struct {
	UserID   string `json:"user_id" binding:"required"`
	Nickname string `json:"nickname" binding:"required"`
	Hobby    string `json:"hobby"`
}

// IssueToken handles POST /api/v1/auth/token
// Identity comes from the request body; the upstream identity provider is
// outside this service.
// @Summary Issue a development JWT for a member
// @Tags auth
// @Accept json
// @Produce json
// @Param request body TokenRequest true "Member identity"
// @Success 200 {object} common.APIResponse
// @Failure 400 {object} common.APIResponse
// @Router /auth/token [post]
func (h *AuthHandler) IssueToken(c *gin.Context) {
	var req TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}

	member, err := h.memberService.EnsureExists(req.UserID, req.Nickname, req.Hobby)
	if err != nil {
		common.ErrorResponse(c, 500, "Failed to resolve member", err)
		return
	}

	accessToken, err := h.jwtManager.GenerateToken(member.ID, member.Nickname)
	if err != nil {
		common.ErrorResponse(c, 500, "Failed to issue token", err)
		return
	}
	refreshToken, err := h.jwtManager.GenerateRefreshToken(member.ID)
	if err != nil {
		common.ErrorResponse(c, 500, "Failed to issue token", err)
		return
	}

	c.JSON(http.StatusOK, common.APIResponse{
		Data: gin.H{
			"access_token":  accessToken,
			"refresh_token": refreshToken,
			"user":          member,
		},
	})
}

// GetCurrentUser handles GET /api/v1/auth/me (requires JWT)
// @Summary Current member profile
// @Tags auth
// @Produce json
// @Success 200 {object} common.APIResponse{data=domain.Member}
// @Failure 404 {object} common.APIResponse
// @Router /auth/me [get]
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	userID := middleware.GetUserID(c)

	member, err := h.memberService.GetByID(userID)
	if errors.Is(err, common.ErrNotFound) {
		common.ErrorResponse(c, 404, "Member not found", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, 500, "Failed to fetch member", err)
		return
	}

	common.SuccessResponse(c, member, nil)
}
