package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"merchant-crm.backend/internal/interfaces/http/response"
	"merchant-crm.backend/internal/usecases"
)

// PayoutHandler handles payout ledger endpoints (read-only; entries are
// created by the pipeline and onboarding engines)
type PayoutHandler struct {
	payoutUsecase *usecases.PayoutUsecase
}

// NewPayoutHandler creates a new payout handler
func NewPayoutHandler(payoutUsecase *usecases.PayoutUsecase) *PayoutHandler {
	return &PayoutHandler{payoutUsecase: payoutUsecase}
}

// ListPayouts lists the ledger: all entries for admins, own for reps
// GET /api/v1/payouts
func (h *PayoutHandler) ListPayouts(c *gin.Context) {
	actorID, role, ok := actor(c)
	if !ok {
		return
	}

	payouts, err := h.payoutUsecase.ListForActor(c.Request.Context(), actorID, role)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"payouts": payouts})
}

// ListMerchantPayouts lists a merchant's payouts
// GET /api/v1/payouts/merchant/:merchantId
func (h *PayoutHandler) ListMerchantPayouts(c *gin.Context) {
	actorID, role, ok := actor(c)
	if !ok {
		return
	}
	merchantID, ok := merchantIDParam(c)
	if !ok {
		return
	}

	payouts, err := h.payoutUsecase.ListForMerchant(c.Request.Context(), actorID, role, merchantID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"payouts": payouts})
}
