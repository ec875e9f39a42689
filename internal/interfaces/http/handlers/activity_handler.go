package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"merchant-crm.backend/internal/domain/entities"
	"merchant-crm.backend/internal/interfaces/http/response"
	"merchant-crm.backend/internal/usecases"
)

// ActivityHandler handles merchant activity log endpoints
type ActivityHandler struct {
	activityUsecase *usecases.ActivityUsecase
}

// NewActivityHandler creates a new activity handler
func NewActivityHandler(activityUsecase *usecases.ActivityUsecase) *ActivityHandler {
	return &ActivityHandler{activityUsecase: activityUsecase}
}

// LogActivity records an interaction with a merchant
// POST /api/v1/merchants/:merchantId/activities
func (h *ActivityHandler) LogActivity(c *gin.Context) {
	actorID, role, ok := actor(c)
	if !ok {
		return
	}
	merchantID, ok := merchantIDParam(c)
	if !ok {
		return
	}

	var input entities.LogActivityInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	activity, err := h.activityUsecase.LogActivity(c.Request.Context(), actorID, role, merchantID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, activity)
}

// ListActivities returns a merchant's activity log
// GET /api/v1/merchants/:merchantId/activities
func (h *ActivityHandler) ListActivities(c *gin.Context) {
	actorID, role, ok := actor(c)
	if !ok {
		return
	}
	merchantID, ok := merchantIDParam(c)
	if !ok {
		return
	}

	activities, err := h.activityUsecase.ListActivities(c.Request.Context(), actorID, role, merchantID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"activities": activities})
}
