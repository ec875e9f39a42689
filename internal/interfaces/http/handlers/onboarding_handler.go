package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"merchant-crm.backend/internal/domain/entities"
	"merchant-crm.backend/internal/interfaces/http/response"
	"merchant-crm.backend/internal/usecases"
)

// OnboardingHandler handles onboarding endpoints
type OnboardingHandler struct {
	onboardingUsecase *usecases.OnboardingUsecase
}

// NewOnboardingHandler creates a new onboarding handler
func NewOnboardingHandler(onboardingUsecase *usecases.OnboardingUsecase) *OnboardingHandler {
	return &OnboardingHandler{onboardingUsecase: onboardingUsecase}
}

// GetOnboarding returns a merchant's onboarding record
// GET /api/v1/onboarding/:merchantId
func (h *OnboardingHandler) GetOnboarding(c *gin.Context) {
	actorID, role, ok := actor(c)
	if !ok {
		return
	}
	merchantID, ok := merchantIDParam(c)
	if !ok {
		return
	}

	onboarding, err := h.onboardingUsecase.GetOnboarding(c.Request.Context(), actorID, role, merchantID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, onboarding)
}

// UpdateRequirements patches requirement flags and recomputes completion
// PATCH /api/v1/onboarding/:merchantId
func (h *OnboardingHandler) UpdateRequirements(c *gin.Context) {
	actorID, role, ok := actor(c)
	if !ok {
		return
	}
	merchantID, ok := merchantIDParam(c)
	if !ok {
		return
	}

	var input entities.UpdateRequirementsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	onboarding, err := h.onboardingUsecase.UpdateRequirements(c.Request.Context(), actorID, role, merchantID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, onboarding)
}

// OverrideStatus is the admin-only manual status override
// PATCH /api/v1/onboarding/:merchantId/status
func (h *OnboardingHandler) OverrideStatus(c *gin.Context) {
	actorID, role, ok := actor(c)
	if !ok {
		return
	}
	merchantID, ok := merchantIDParam(c)
	if !ok {
		return
	}

	var input entities.OverrideStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	onboarding, err := h.onboardingUsecase.OverrideStatus(c.Request.Context(), actorID, role, merchantID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, onboarding)
}
