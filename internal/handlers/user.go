package handlers

import (
	"net/http"

	"github.com/mickychog/career-genius/internal/middleware"
	"github.com/mickychog/career-genius/internal/services"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// GetMe godoc
// @Summary      Get profile
// @Description  Return the authenticated user's full profile
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} models.User
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/users/me [get]
func (h *UserHandler) GetMe(c *gin.Context) {
	user, err := h.userService.GetProfile(c.GetString(middleware.ContextUserID))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateMe godoc
// @Summary      Update profile
// @Description  Patch profile fields; omitted fields are left unchanged
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body services.UpdateProfileInput true "Fields to update"
// @Success      200 {object} models.User
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/users/me [patch]
func (h *UserHandler) UpdateMe(c *gin.Context) {
	var req services.UpdateProfileInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	user, err := h.userService.UpdateProfile(c.GetString(middleware.ContextUserID), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// DashboardStats godoc
// @Summary      Dashboard summary
// @Description  Aggregate test history for the profile dashboard
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} services.DashboardStats
// @Router       /api/v1/users/dashboard-stats [get]
func (h *UserHandler) DashboardStats(c *gin.Context) {
	stats, err := h.userService.GetDashboardStats(c.GetString(middleware.ContextUserID))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
