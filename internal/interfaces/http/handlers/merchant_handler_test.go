package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"merchant-crm.backend/internal/domain/entities"
)

func TestMerchantHandler_CreateMerchant_RepSelfAssigns(t *testing.T) {
	e := newHandlerEnv()
	repID := uuid.New()
	r := e.router(repID, entities.UserRoleRep)

	body := []byte(`{"name":"Warung Makmur","category":"restaurant","city":"Bandung","contactName":"Pak Agus","contactPhone":"+62-812-345"}`)
	w := doJSON(r, http.MethodPost, "/api/v1/merchants", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", w.Code, w.Body.String())
	}

	var merchant entities.Merchant
	if err := json.Unmarshal(w.Body.Bytes(), &merchant); err != nil {
		t.Fatalf("unmarshal merchant: %v", err)
	}
	if merchant.AssignedRepID == nil || *merchant.AssignedRepID != repID {
		t.Fatalf("expected creator to be assigned rep, got %+v", merchant.AssignedRepID)
	}

	pipeline, ok := e.pipelines.byMerchant[merchant.ID]
	if !ok || pipeline.CurrentStage != entities.StagePendingFirstVisit {
		t.Fatalf("expected pipeline at PENDING_FIRST_VISIT, got %+v", pipeline)
	}
}

func TestMerchantHandler_CreateMerchant_UnknownCategory(t *testing.T) {
	e := newHandlerEnv()
	r := e.router(uuid.New(), entities.UserRoleRep)

	body := []byte(`{"name":"Warung Makmur","category":"bakery","city":"Bandung","contactName":"Pak Agus","contactPhone":"+62-812-345"}`)
	w := doJSON(r, http.MethodPost, "/api/v1/merchants", body)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", w.Code, w.Body.String())
	}
}

func TestMerchantHandler_ListMerchants_Pagination(t *testing.T) {
	e := newHandlerEnv()
	repID := uuid.New()
	e.seedMerchant(&repID, entities.StagePendingFirstVisit)
	r := e.router(repID, entities.UserRoleRep)

	w := doJSON(r, http.MethodGet, "/api/v1/merchants?page=1&limit=10", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", w.Code, w.Body.String())
	}
	if !bytes.Contains(w.Body.Bytes(), []byte("merchants")) || !bytes.Contains(w.Body.Bytes(), []byte("pagination")) {
		t.Fatalf("unexpected list body: %s", w.Body.String())
	}
}

func TestMerchantHandler_GetMerchant_ForbiddenForUnassignedRep(t *testing.T) {
	e := newHandlerEnv()
	assigned := uuid.New()
	merchant := e.seedMerchant(&assigned, entities.StagePendingFirstVisit)
	r := e.router(uuid.New(), entities.UserRoleRep)

	w := doJSON(r, http.MethodGet, "/api/v1/merchants/"+merchant.ID.String(), nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d body=%s", w.Code, w.Body.String())
	}
}

func TestMerchantHandler_AssignRep_AdminOnlyRoute(t *testing.T) {
	e := newHandlerEnv()
	merchant := e.seedMerchant(nil, entities.StagePendingFirstVisit)
	repID := uuid.New()
	e.users.users[repID] = &entities.User{ID: repID, Role: entities.UserRoleRep}

	body := []byte(`{"repId":"` + repID.String() + `"}`)
	w := doJSON(e.router(uuid.New(), entities.UserRoleRep), http.MethodPatch,
		"/api/v1/merchants/"+merchant.ID.String()+"/assign-rep", body)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for rep, got %d body=%s", w.Code, w.Body.String())
	}

	w = doJSON(e.router(uuid.New(), entities.UserRoleAdmin), http.MethodPatch,
		"/api/v1/merchants/"+merchant.ID.String()+"/assign-rep", body)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin, got %d body=%s", w.Code, w.Body.String())
	}
	stored := e.merchants.byID[merchant.ID]
	if stored.AssignedRepID == nil || *stored.AssignedRepID != repID {
		t.Fatalf("rep not assigned: %+v", stored.AssignedRepID)
	}
}

func TestMerchantHandler_AssignRep_MissingRepID(t *testing.T) {
	e := newHandlerEnv()
	merchant := e.seedMerchant(nil, entities.StagePendingFirstVisit)

	w := doJSON(e.router(uuid.New(), entities.UserRoleAdmin), http.MethodPatch,
		"/api/v1/merchants/"+merchant.ID.String()+"/assign-rep", []byte(`{}`))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", w.Code, w.Body.String())
	}
}

func TestMerchantHandler_DeleteMerchant(t *testing.T) {
	e := newHandlerEnv()
	merchant := e.seedMerchant(nil, entities.StagePendingFirstVisit)
	admin := e.router(uuid.New(), entities.UserRoleAdmin)

	w := doJSON(admin, http.MethodDelete, "/api/v1/merchants/"+merchant.ID.String(), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", w.Code, w.Body.String())
	}

	w = doJSON(admin, http.MethodGet, "/api/v1/merchants/"+merchant.ID.String(), nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d body=%s", w.Code, w.Body.String())
	}
}
