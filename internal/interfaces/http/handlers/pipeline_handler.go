package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"merchant-crm.backend/internal/domain/entities"
	"merchant-crm.backend/internal/interfaces/http/response"
	"merchant-crm.backend/internal/usecases"
)

// PipelineHandler handles pipeline endpoints
type PipelineHandler struct {
	pipelineUsecase *usecases.PipelineUsecase
}

// NewPipelineHandler creates a new pipeline handler
func NewPipelineHandler(pipelineUsecase *usecases.PipelineUsecase) *PipelineHandler {
	return &PipelineHandler{pipelineUsecase: pipelineUsecase}
}

// GetPipeline returns a merchant's pipeline
// GET /api/v1/pipeline/:merchantId
func (h *PipelineHandler) GetPipeline(c *gin.Context) {
	actorID, role, ok := actor(c)
	if !ok {
		return
	}
	merchantID, ok := merchantIDParam(c)
	if !ok {
		return
	}

	pipeline, err := h.pipelineUsecase.GetPipeline(c.Request.Context(), actorID, role, merchantID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, pipeline)
}

// GetStageHistory returns the transition log for a merchant
// GET /api/v1/pipeline/:merchantId/history
func (h *PipelineHandler) GetStageHistory(c *gin.Context) {
	actorID, role, ok := actor(c)
	if !ok {
		return
	}
	merchantID, ok := merchantIDParam(c)
	if !ok {
		return
	}

	history, err := h.pipelineUsecase.GetStageHistory(c.Request.Context(), actorID, role, merchantID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"history": history})
}

// TransitionStage applies a stage transition
// PATCH /api/v1/pipeline/:merchantId/stage
func (h *PipelineHandler) TransitionStage(c *gin.Context) {
	actorID, role, ok := actor(c)
	if !ok {
		return
	}
	merchantID, ok := merchantIDParam(c)
	if !ok {
		return
	}

	var input entities.TransitionStageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pipeline, err := h.pipelineUsecase.TransitionStage(c.Request.Context(), actorID, role, merchantID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, pipeline)
}

// UpdateNextAction updates the planned next action
// PATCH /api/v1/pipeline/:merchantId/next-action
func (h *PipelineHandler) UpdateNextAction(c *gin.Context) {
	actorID, role, ok := actor(c)
	if !ok {
		return
	}
	merchantID, ok := merchantIDParam(c)
	if !ok {
		return
	}

	var input entities.UpdateNextActionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pipeline, err := h.pipelineUsecase.UpdateNextAction(c.Request.Context(), actorID, role, merchantID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, pipeline)
}
