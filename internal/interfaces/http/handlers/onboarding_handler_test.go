package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"merchant-crm.backend/internal/domain/entities"
)

func seedOnboarding(e *handlerEnv, merchantID uuid.UUID) *entities.Onboarding {
	onboarding := &entities.Onboarding{
		ID:         uuid.New(),
		MerchantID: merchantID,
		Status:     entities.OnboardingInProgress,
		Version:    1,
	}
	e.onboardings.byMerchant[merchantID] = onboarding
	return onboarding
}

func TestOnboardingHandler_UpdateRequirements_RecomputesCompletion(t *testing.T) {
	e := newHandlerEnv()
	repID := uuid.New()
	merchant := e.seedMerchant(&repID, entities.StageWon)
	seedOnboarding(e, merchant.ID)
	r := e.router(repID, entities.UserRoleRep)

	body := []byte(`{"surveyFilled":true,"offersAdded":true}`)
	w := doJSON(r, http.MethodPatch, "/api/v1/onboarding/"+merchant.ID.String(), body)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", w.Code, w.Body.String())
	}

	var onboarding entities.Onboarding
	if err := json.Unmarshal(w.Body.Bytes(), &onboarding); err != nil {
		t.Fatalf("unmarshal onboarding: %v", err)
	}
	if onboarding.CompletionPercentage != 0.5 {
		t.Fatalf("expected completion 0.5, got %v", onboarding.CompletionPercentage)
	}
	if onboarding.Status != entities.OnboardingInProgress {
		t.Fatalf("expected IN_PROGRESS, got %s", onboarding.Status)
	}
}

func TestOnboardingHandler_UpdateRequirements_NonAdminQAVerdictDropped(t *testing.T) {
	e := newHandlerEnv()
	repID := uuid.New()
	merchant := e.seedMerchant(&repID, entities.StageWon)
	seedOnboarding(e, merchant.ID)
	r := e.router(repID, entities.UserRoleRep)

	body := []byte(`{"surveyFilled":true,"offersAdded":true,"branchesCovered":true,"assetsComplete":true,"qaApproved":true}`)
	w := doJSON(r, http.MethodPatch, "/api/v1/onboarding/"+merchant.ID.String(), body)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", w.Code, w.Body.String())
	}

	stored := e.onboardings.byMerchant[merchant.ID]
	if stored.Status != entities.OnboardingReadyForQA {
		t.Fatalf("expected READY_FOR_QA, got %s", stored.Status)
	}
	if stored.QAApproved.Valid {
		t.Fatalf("qa verdict from a rep must be dropped, got %+v", stored.QAApproved)
	}
	if len(e.payouts.entries) != 0 {
		t.Fatalf("no payout expected, got %d", len(e.payouts.entries))
	}
}

func TestOnboardingHandler_UpdateRequirements_AdminApprovalGoesLive(t *testing.T) {
	e := newHandlerEnv()
	repID := uuid.New()
	adminID := uuid.New()
	merchant := e.seedMerchant(&repID, entities.StageWon)
	onboarding := seedOnboarding(e, merchant.ID)
	onboarding.Flags = entities.RequirementFlags{SurveyFilled: true, OffersAdded: true, BranchesCovered: true, AssetsComplete: true}
	onboarding.Status = entities.OnboardingReadyForQA
	r := e.router(adminID, entities.UserRoleAdmin)

	w := doJSON(r, http.MethodPatch, "/api/v1/onboarding/"+merchant.ID.String(), []byte(`{"qaApproved":true}`))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", w.Code, w.Body.String())
	}

	stored := e.onboardings.byMerchant[merchant.ID]
	if stored.Status != entities.OnboardingLive {
		t.Fatalf("expected LIVE, got %s", stored.Status)
	}
	if !stored.LiveDate.Valid {
		t.Fatalf("liveDate must be stamped on go-live")
	}
	if len(e.payouts.entries) != 1 {
		t.Fatalf("expected one payout, got %d", len(e.payouts.entries))
	}
	payout := e.payouts.entries[0]
	if payout.Type != entities.PayoutTypeLive || payout.Amount != 7 || payout.RecipientID != repID {
		t.Fatalf("unexpected payout: %+v", payout)
	}
}

func TestOnboardingHandler_UpdateRequirements_RequiresWonStage(t *testing.T) {
	e := newHandlerEnv()
	repID := uuid.New()
	merchant := e.seedMerchant(&repID, entities.StageContractSent)
	seedOnboarding(e, merchant.ID)
	r := e.router(repID, entities.UserRoleRep)

	w := doJSON(r, http.MethodPatch, "/api/v1/onboarding/"+merchant.ID.String(), []byte(`{"surveyFilled":true}`))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", w.Code, w.Body.String())
	}
}

func TestOnboardingHandler_OverrideStatus_AdminOnlyRoute(t *testing.T) {
	e := newHandlerEnv()
	repID := uuid.New()
	merchant := e.seedMerchant(&repID, entities.StageWon)
	seedOnboarding(e, merchant.ID)

	w := doJSON(e.router(repID, entities.UserRoleRep), http.MethodPatch,
		"/api/v1/onboarding/"+merchant.ID.String()+"/status", []byte(`{"status":"QA_FAILED"}`))
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for rep, got %d body=%s", w.Code, w.Body.String())
	}

	w = doJSON(e.router(uuid.New(), entities.UserRoleAdmin), http.MethodPatch,
		"/api/v1/onboarding/"+merchant.ID.String()+"/status", []byte(`{"status":"QA_FAILED","notes":"signage missing"}`))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin, got %d body=%s", w.Code, w.Body.String())
	}
	if e.onboardings.byMerchant[merchant.ID].Status != entities.OnboardingQAFailed {
		t.Fatalf("expected QA_FAILED, got %s", e.onboardings.byMerchant[merchant.ID].Status)
	}
}

func TestOnboardingHandler_GetOnboarding_NotFound(t *testing.T) {
	e := newHandlerEnv()
	repID := uuid.New()
	merchant := e.seedMerchant(&repID, entities.StageWon)
	r := e.router(repID, entities.UserRoleRep)

	w := doJSON(r, http.MethodGet, "/api/v1/onboarding/"+merchant.ID.String(), nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d body=%s", w.Code, w.Body.String())
	}
}
