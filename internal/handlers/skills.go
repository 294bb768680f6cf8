package handlers

import (
	"net/http"

	"github.com/mickychog/career-genius/internal/middleware"
	"github.com/mickychog/career-genius/internal/services"

	"github.com/gin-gonic/gin"
)

type SkillsHandler struct {
	skillsService *services.SkillsDevelopmentService
}

func NewSkillsHandler(skillsService *services.SkillsDevelopmentService) *SkillsHandler {
	return &SkillsHandler{skillsService: skillsService}
}

// Recommendations godoc
// @Summary      Course recommendations
// @Description  Free preparation resources for the career chosen in the latest completed test
// @Tags         skills-development
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} services.CourseRecommendationsResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/skills-development/recommendations [get]
func (h *SkillsHandler) Recommendations(c *gin.Context) {
	resp, err := h.skillsService.Recommendations(c.Request.Context(), c.GetString(middleware.ContextUserID))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
