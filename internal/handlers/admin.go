package handlers

import (
	"net/http"

	"github.com/mickychog/career-genius/internal/models"
	"github.com/mickychog/career-genius/internal/services"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	stockingService *services.StockingService
}

func NewAdminHandler(stockingService *services.StockingService) *AdminHandler {
	return &AdminHandler{stockingService: stockingService}
}

type StockRequest struct {
	Phase  models.Phase `json:"phase" binding:"required" example:"SPECIFIC"`
	Area   models.Area  `json:"area" binding:"required" example:"TEC_INGENIERIA"`
	Target int          `json:"target" example:"30"`
}

type StockResponse struct {
	Created int `json:"created"`
}

// StockQuestions godoc
// @Summary      Top up a question pool
// @Description  Generate questions for one phase/area pool until it reaches the target size
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body StockRequest true "Pool to stock"
// @Success      200 {object} StockResponse
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/admin/questions/stock [post]
func (h *AdminHandler) StockQuestions(c *gin.Context) {
	var req StockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	created, err := h.stockingService.EnsureStock(c.Request.Context(), req.Phase, req.Area, req.Target)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, StockResponse{Created: created})
}
