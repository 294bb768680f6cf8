package handlers

import (
	"net/http"

	"github.com/mickychog/career-genius/internal/middleware"
	"github.com/mickychog/career-genius/internal/services"

	"github.com/gin-gonic/gin"
)

type TestHandler struct {
	testService *services.TestService
}

func NewTestHandler(testService *services.TestService) *TestHandler {
	return &TestHandler{testService: testService}
}

type SubmitAnswerRequest struct {
	QuestionID          string `json:"question_id" binding:"required" example:"0be6c2c3-7f3e-4b8a-9a10-0f6a9b3d2c41"`
	SelectedOptionIndex *int   `json:"selected_option_index" binding:"required" example:"2"`
}

type SelectCareerRequest struct {
	CareerName string `json:"career_name" binding:"required" example:"Ingeniería de Sistemas"`
}

type DemographicsRequest struct {
	Age    int    `json:"age" binding:"required" example:"17"`
	Gender string `json:"gender" example:"female"`
}

// Start godoc
// @Summary      Start or resume the vocational test
// @Description  Resume the active session, or create one with a fresh general question set
// @Tags         vocational-test
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} services.StartTestResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/vocational-test/start [post]
func (h *TestHandler) Start(c *gin.Context) {
	resp, err := h.testService.Start(c.Request.Context(), c.GetString(middleware.ContextUserID))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Status godoc
// @Summary      Test status
// @Description  Summarize the user's active and completed sessions
// @Tags         vocational-test
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} services.TestStatus
// @Router       /api/v1/vocational-test/status [get]
func (h *TestHandler) Status(c *gin.Context) {
	status, err := h.testService.Status(c.Request.Context(), c.GetString(middleware.ContextUserID))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

// SubmitAnswer godoc
// @Summary      Submit an answer
// @Description  Record one answer; phase advances automatically once all assigned questions are answered
// @Tags         vocational-test
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Session ID"
// @Param        request body SubmitAnswerRequest true "Answer"
// @Success      200 {object} services.SubmitAnswerResponse
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Router       /api/v1/vocational-test/{id}/answer [post]
func (h *TestHandler) SubmitAnswer(c *gin.Context) {
	var req SubmitAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	resp, err := h.testService.SubmitAnswer(
		c.Request.Context(),
		c.Param("id"),
		c.GetString(middleware.ContextUserID),
		req.QuestionID,
		*req.SelectedOptionIndex,
	)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Finish godoc
// @Summary      Finish the test
// @Description  Seal the fully answered session with the vocational analysis
// @Tags         vocational-test
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Session ID"
// @Success      200 {object} models.TestSession
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/vocational-test/{id}/finish [post]
func (h *TestHandler) Finish(c *gin.Context) {
	session, err := h.testService.Finish(c.Request.Context(), c.Param("id"), c.GetString(middleware.ContextUserID))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// GetSession godoc
// @Summary      Get a session
// @Description  Return one of the user's sessions, results included
// @Tags         vocational-test
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Session ID"
// @Success      200 {object} models.TestSession
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/vocational-test/session/{id} [get]
func (h *TestHandler) GetSession(c *gin.Context) {
	session, err := h.testService.GetSession(c.Request.Context(), c.Param("id"), c.GetString(middleware.ContextUserID))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// SelectCareer godoc
// @Summary      Select a career
// @Description  Override the recommended career on a completed session
// @Tags         vocational-test
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Session ID"
// @Param        request body SelectCareerRequest true "Career"
// @Success      200 {object} models.TestSession
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/vocational-test/{id}/select-career [post]
func (h *TestHandler) SelectCareer(c *gin.Context) {
	var req SelectCareerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	session, err := h.testService.SelectCareer(
		c.Request.Context(),
		c.Param("id"),
		c.GetString(middleware.ContextUserID),
		req.CareerName,
	)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// SaveDemographics godoc
// @Summary      Save demographics
// @Description  Record age and gender for an active session
// @Tags         vocational-test
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Session ID"
// @Param        request body DemographicsRequest true "Demographics"
// @Success      200 {object} MessageResponse
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/vocational-test/{id}/demographics [post]
func (h *TestHandler) SaveDemographics(c *gin.Context) {
	var req DemographicsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	err := h.testService.SaveDemographics(
		c.Request.Context(),
		c.Param("id"),
		c.GetString(middleware.ContextUserID),
		req.Age,
		req.Gender,
	)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "demographics saved"})
}
