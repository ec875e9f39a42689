package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"merchant-crm.backend/internal/domain/entities"
	"merchant-crm.backend/internal/interfaces/http/response"
	"merchant-crm.backend/internal/usecases"
	"merchant-crm.backend/pkg/utils"
)

// MerchantHandler handles merchant endpoints
type MerchantHandler struct {
	merchantUsecase *usecases.MerchantUsecase
}

// NewMerchantHandler creates a new merchant handler
func NewMerchantHandler(merchantUsecase *usecases.MerchantUsecase) *MerchantHandler {
	return &MerchantHandler{merchantUsecase: merchantUsecase}
}

// CreateMerchant creates a merchant with its pipeline
// POST /api/v1/merchants
func (h *MerchantHandler) CreateMerchant(c *gin.Context) {
	actorID, role, ok := actor(c)
	if !ok {
		return
	}

	var input entities.CreateMerchantInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	merchant, err := h.merchantUsecase.CreateMerchant(c.Request.Context(), actorID, role, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, merchant)
}

// ListMerchants lists merchants visible to the actor
// GET /api/v1/merchants
func (h *MerchantHandler) ListMerchants(c *gin.Context) {
	actorID, role, ok := actor(c)
	if !ok {
		return
	}

	var params utils.PaginationParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	params = utils.GetPaginationParams(params.Page, params.Limit)

	merchants, total, err := h.merchantUsecase.ListMerchants(c.Request.Context(), actorID, role, params.Limit, params.CalculateOffset())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"merchants":  merchants,
		"pagination": utils.CalculateMeta(int64(total), params.Page, params.Limit),
	})
}

// GetMerchant returns a merchant
// GET /api/v1/merchants/:merchantId
func (h *MerchantHandler) GetMerchant(c *gin.Context) {
	actorID, role, ok := actor(c)
	if !ok {
		return
	}
	merchantID, ok := merchantIDParam(c)
	if !ok {
		return
	}

	merchant, err := h.merchantUsecase.GetMerchant(c.Request.Context(), actorID, role, merchantID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, merchant)
}

// UpdateMerchant applies a partial profile update
// PATCH /api/v1/merchants/:merchantId
func (h *MerchantHandler) UpdateMerchant(c *gin.Context) {
	actorID, role, ok := actor(c)
	if !ok {
		return
	}
	merchantID, ok := merchantIDParam(c)
	if !ok {
		return
	}

	var input entities.UpdateMerchantInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	merchant, err := h.merchantUsecase.UpdateMerchant(c.Request.Context(), actorID, role, merchantID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, merchant)
}

// AssignRep sets the merchant's assigned rep (admin only)
// PATCH /api/v1/merchants/:merchantId/assign-rep
func (h *MerchantHandler) AssignRep(c *gin.Context) {
	merchantID, ok := merchantIDParam(c)
	if !ok {
		return
	}

	var input entities.AssignRepInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.RepID == uuid.Nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "repId is required"})
		return
	}

	if err := h.merchantUsecase.AssignRep(c.Request.Context(), merchantID, input.RepID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Rep assigned"})
}

// DeleteMerchant tombstones a merchant (admin only)
// DELETE /api/v1/merchants/:merchantId
func (h *MerchantHandler) DeleteMerchant(c *gin.Context) {
	merchantID, ok := merchantIDParam(c)
	if !ok {
		return
	}

	if err := h.merchantUsecase.DeleteMerchant(c.Request.Context(), merchantID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Merchant deleted"})
}
