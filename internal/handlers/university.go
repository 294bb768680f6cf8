package handlers

import (
	"net/http"

	"github.com/mickychog/career-genius/internal/middleware"
	"github.com/mickychog/career-genius/internal/services"

	"github.com/gin-gonic/gin"
)

type UniversityHandler struct {
	universityService *services.UniversitySearchService
}

func NewUniversityHandler(universityService *services.UniversitySearchService) *UniversityHandler {
	return &UniversityHandler{universityService: universityService}
}

// Recommendations godoc
// @Summary      University recommendations
// @Description  Institutions for the career chosen in the latest completed test
// @Tags         university-search
// @Produce      json
// @Security     BearerAuth
// @Param        region query string false "Department, e.g. La Paz; empty means nationwide"
// @Success      200 {object} services.UniversityRecommendationsResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/university-search/recommendations [get]
func (h *UniversityHandler) Recommendations(c *gin.Context) {
	resp, err := h.universityService.Recommendations(
		c.Request.Context(),
		c.GetString(middleware.ContextUserID),
		c.Query("region"),
	)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
