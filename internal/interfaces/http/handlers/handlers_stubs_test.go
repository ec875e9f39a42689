package handlers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"merchant-crm.backend/internal/config"
	"merchant-crm.backend/internal/domain/entities"
	domainerrors "merchant-crm.backend/internal/domain/errors"
	"merchant-crm.backend/internal/interfaces/http/middleware"
	"merchant-crm.backend/internal/usecases"
	"merchant-crm.backend/pkg/logger"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	logger.Init("production")
	os.Exit(m.Run())
}

type uowStub struct{}

func (uowStub) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type merchantRepoStub struct {
	byID map[uuid.UUID]*entities.Merchant
}

func newMerchantRepoStub() *merchantRepoStub {
	return &merchantRepoStub{byID: map[uuid.UUID]*entities.Merchant{}}
}

func (s *merchantRepoStub) Create(_ context.Context, merchant *entities.Merchant) error {
	if merchant.ID == uuid.Nil {
		merchant.ID = uuid.New()
	}
	merchant.CreatedAt = time.Now()
	s.byID[merchant.ID] = merchant
	return nil
}

func (s *merchantRepoStub) GetByID(_ context.Context, id uuid.UUID) (*entities.Merchant, error) {
	m, ok := s.byID[id]
	if !ok {
		return nil, domainerrors.ErrNotFound
	}
	return m, nil
}

func (s *merchantRepoStub) Update(_ context.Context, merchant *entities.Merchant) error {
	if _, ok := s.byID[merchant.ID]; !ok {
		return domainerrors.ErrNotFound
	}
	s.byID[merchant.ID] = merchant
	return nil
}

func (s *merchantRepoStub) AssignRep(_ context.Context, id, repID uuid.UUID) error {
	m, ok := s.byID[id]
	if !ok {
		return domainerrors.ErrNotFound
	}
	rep := repID
	m.AssignedRepID = &rep
	return nil
}

func (s *merchantRepoStub) SoftDelete(_ context.Context, id uuid.UUID) error {
	if _, ok := s.byID[id]; !ok {
		return domainerrors.ErrNotFound
	}
	delete(s.byID, id)
	return nil
}

func (s *merchantRepoStub) List(_ context.Context, limit, offset int) ([]*entities.Merchant, int, error) {
	out := make([]*entities.Merchant, 0, len(s.byID))
	for _, m := range s.byID {
		out = append(out, m)
	}
	return out, len(out), nil
}

func (s *merchantRepoStub) ListByAssignedRep(_ context.Context, repID uuid.UUID, limit, offset int) ([]*entities.Merchant, int, error) {
	var out []*entities.Merchant
	for _, m := range s.byID {
		if m.AssignedRepID != nil && *m.AssignedRepID == repID {
			out = append(out, m)
		}
	}
	return out, len(out), nil
}

type pipelineRepoStub struct {
	byMerchant map[uuid.UUID]*entities.Pipeline
}

func newPipelineRepoStub() *pipelineRepoStub {
	return &pipelineRepoStub{byMerchant: map[uuid.UUID]*entities.Pipeline{}}
}

func (s *pipelineRepoStub) Create(_ context.Context, pipeline *entities.Pipeline) error {
	if pipeline.ID == uuid.Nil {
		pipeline.ID = uuid.New()
	}
	pipeline.Version = 1
	s.byMerchant[pipeline.MerchantID] = pipeline
	return nil
}

func (s *pipelineRepoStub) GetByMerchantID(_ context.Context, merchantID uuid.UUID) (*entities.Pipeline, error) {
	p, ok := s.byMerchant[merchantID]
	if !ok {
		return nil, domainerrors.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *pipelineRepoStub) Update(_ context.Context, pipeline *entities.Pipeline) error {
	stored, ok := s.byMerchant[pipeline.MerchantID]
	if !ok {
		return domainerrors.ErrNotFound
	}
	if stored.Version != pipeline.Version {
		return domainerrors.ErrConflict
	}
	pipeline.Version++
	cp := *pipeline
	s.byMerchant[pipeline.MerchantID] = &cp
	return nil
}

func (s *pipelineRepoStub) ListOverdueNextActions(context.Context, time.Time, int) ([]*entities.Pipeline, error) {
	return nil, nil
}

type stageHistoryRepoStub struct {
	entries []*entities.StageHistoryEntry
}

func (s *stageHistoryRepoStub) Append(_ context.Context, entry *entities.StageHistoryEntry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	entry.TransitionedAt = time.Now()
	s.entries = append(s.entries, entry)
	return nil
}

func (s *stageHistoryRepoStub) ListByMerchantID(_ context.Context, merchantID uuid.UUID) ([]*entities.StageHistoryEntry, error) {
	var out []*entities.StageHistoryEntry
	for _, e := range s.entries {
		if e.MerchantID == merchantID {
			out = append(out, e)
		}
	}
	return out, nil
}

type onboardingRepoStub struct {
	byMerchant map[uuid.UUID]*entities.Onboarding
}

func newOnboardingRepoStub() *onboardingRepoStub {
	return &onboardingRepoStub{byMerchant: map[uuid.UUID]*entities.Onboarding{}}
}

func (s *onboardingRepoStub) Create(_ context.Context, onboarding *entities.Onboarding) error {
	if onboarding.ID == uuid.Nil {
		onboarding.ID = uuid.New()
	}
	if onboarding.Status == "" {
		onboarding.Status = entities.OnboardingInProgress
	}
	onboarding.Version = 1
	s.byMerchant[onboarding.MerchantID] = onboarding
	return nil
}

func (s *onboardingRepoStub) GetByMerchantID(_ context.Context, merchantID uuid.UUID) (*entities.Onboarding, error) {
	o, ok := s.byMerchant[merchantID]
	if !ok {
		return nil, domainerrors.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (s *onboardingRepoStub) Update(_ context.Context, onboarding *entities.Onboarding) error {
	stored, ok := s.byMerchant[onboarding.MerchantID]
	if !ok {
		return domainerrors.ErrNotFound
	}
	if stored.Version != onboarding.Version {
		return domainerrors.ErrConflict
	}
	onboarding.Version++
	cp := *onboarding
	s.byMerchant[onboarding.MerchantID] = &cp
	return nil
}

type payoutRepoStub struct {
	entries []*entities.Payout
}

func (s *payoutRepoStub) Create(_ context.Context, payout *entities.Payout) error {
	for _, p := range s.entries {
		if p.MerchantID == payout.MerchantID && p.RecipientID == payout.RecipientID && p.Type == payout.Type {
			return domainerrors.ErrConflict
		}
	}
	if payout.ID == uuid.Nil {
		payout.ID = uuid.New()
	}
	payout.CreatedAt = time.Now()
	s.entries = append(s.entries, payout)
	return nil
}

func (s *payoutRepoStub) GetByTrigger(_ context.Context, merchantID, recipientID uuid.UUID, payoutType entities.PayoutType) (*entities.Payout, error) {
	for _, p := range s.entries {
		if p.MerchantID == merchantID && p.RecipientID == recipientID && p.Type == payoutType {
			return p, nil
		}
	}
	return nil, domainerrors.ErrNotFound
}

func (s *payoutRepoStub) ListByRecipient(_ context.Context, recipientID uuid.UUID) ([]*entities.Payout, error) {
	var out []*entities.Payout
	for _, p := range s.entries {
		if p.RecipientID == recipientID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *payoutRepoStub) ListByMerchant(_ context.Context, merchantID uuid.UUID) ([]*entities.Payout, error) {
	var out []*entities.Payout
	for _, p := range s.entries {
		if p.MerchantID == merchantID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *payoutRepoStub) List(context.Context) ([]*entities.Payout, error) {
	return s.entries, nil
}

type userRepoStub struct {
	users map[uuid.UUID]*entities.User
}

func newUserRepoStub() *userRepoStub {
	return &userRepoStub{users: map[uuid.UUID]*entities.User{}}
}

func (s *userRepoStub) Create(_ context.Context, user *entities.User) error {
	s.users[user.ID] = user
	return nil
}

func (s *userRepoStub) GetByID(_ context.Context, id uuid.UUID) (*entities.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, domainerrors.ErrNotFound
	}
	return u, nil
}

func (s *userRepoStub) GetByEmail(_ context.Context, email string) (*entities.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domainerrors.ErrNotFound
}

func (s *userRepoStub) Update(context.Context, *entities.User) error           { return nil }
func (s *userRepoStub) SoftDelete(context.Context, uuid.UUID) error            { return nil }
func (s *userRepoStub) List(context.Context, string) ([]*entities.User, error) { return nil, nil }

type activityRepoStub struct {
	entries []*entities.Activity
}

func (s *activityRepoStub) Create(_ context.Context, activity *entities.Activity) error {
	if activity.ID == uuid.Nil {
		activity.ID = uuid.New()
	}
	activity.CreatedAt = time.Now()
	s.entries = append(s.entries, activity)
	return nil
}

func (s *activityRepoStub) ListByMerchantID(_ context.Context, merchantID uuid.UUID) ([]*entities.Activity, error) {
	var out []*entities.Activity
	for _, a := range s.entries {
		if a.MerchantID == merchantID {
			out = append(out, a)
		}
	}
	return out, nil
}

// handlerEnv wires real usecases over in-memory stub repositories so handler
// tests exercise the full request path below the auth middleware.
type handlerEnv struct {
	merchants   *merchantRepoStub
	pipelines   *pipelineRepoStub
	history     *stageHistoryRepoStub
	onboardings *onboardingRepoStub
	payouts     *payoutRepoStub
	users       *userRepoStub
	activities  *activityRepoStub

	merchantHandler   *MerchantHandler
	pipelineHandler   *PipelineHandler
	onboardingHandler *OnboardingHandler
	payoutHandler     *PayoutHandler
	activityHandler   *ActivityHandler
}

func newHandlerEnv() *handlerEnv {
	e := &handlerEnv{
		merchants:   newMerchantRepoStub(),
		pipelines:   newPipelineRepoStub(),
		history:     &stageHistoryRepoStub{},
		onboardings: newOnboardingRepoStub(),
		payouts:     &payoutRepoStub{},
		users:       newUserRepoStub(),
		activities:  &activityRepoStub{},
	}

	gate := usecases.NewAccessGate(e.merchants)
	payoutCfg := config.PayoutConfig{WonAmount: 9, LiveAmount: 7, Currency: "USD"}
	payoutUsecase := usecases.NewPayoutUsecase(e.payouts, gate, payoutCfg)

	e.merchantHandler = NewMerchantHandler(usecases.NewMerchantUsecase(e.merchants, e.pipelines, e.users, gate, uowStub{}))
	e.pipelineHandler = NewPipelineHandler(usecases.NewPipelineUsecase(e.pipelines, e.history, e.onboardings, payoutUsecase, gate, uowStub{}))
	e.onboardingHandler = NewOnboardingHandler(usecases.NewOnboardingUsecase(e.onboardings, e.pipelines, payoutUsecase, gate, uowStub{}))
	e.payoutHandler = NewPayoutHandler(payoutUsecase)
	e.activityHandler = NewActivityHandler(usecases.NewActivityUsecase(e.activities, gate))
	return e
}

// router mirrors the production route layout for the authenticated API,
// stamping the given actor the way the auth middleware would.
func (e *handlerEnv) router(actorID uuid.UUID, role entities.UserRole) *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.UserIDKey, actorID)
		c.Set(middleware.UserRoleKey, string(role))
		c.Next()
	})

	v1 := r.Group("/api/v1")
	merchants := v1.Group("/merchants")
	merchants.POST("", e.merchantHandler.CreateMerchant)
	merchants.GET("", e.merchantHandler.ListMerchants)
	merchants.GET("/:merchantId", e.merchantHandler.GetMerchant)
	merchants.PATCH("/:merchantId", e.merchantHandler.UpdateMerchant)
	merchants.PATCH("/:merchantId/assign-rep", middleware.RequireAdmin(), e.merchantHandler.AssignRep)
	merchants.DELETE("/:merchantId", middleware.RequireAdmin(), e.merchantHandler.DeleteMerchant)
	merchants.POST("/:merchantId/activities", e.activityHandler.LogActivity)
	merchants.GET("/:merchantId/activities", e.activityHandler.ListActivities)

	pipeline := v1.Group("/pipeline")
	pipeline.GET("/:merchantId", e.pipelineHandler.GetPipeline)
	pipeline.GET("/:merchantId/history", e.pipelineHandler.GetStageHistory)
	pipeline.PATCH("/:merchantId/stage", e.pipelineHandler.TransitionStage)
	pipeline.PATCH("/:merchantId/next-action", e.pipelineHandler.UpdateNextAction)

	onboarding := v1.Group("/onboarding")
	onboarding.GET("/:merchantId", e.onboardingHandler.GetOnboarding)
	onboarding.PATCH("/:merchantId", e.onboardingHandler.UpdateRequirements)
	onboarding.PATCH("/:merchantId/status", middleware.RequireAdmin(), e.onboardingHandler.OverrideStatus)

	payouts := v1.Group("/payouts")
	payouts.GET("", e.payoutHandler.ListPayouts)
	payouts.GET("/merchant/:merchantId", e.payoutHandler.ListMerchantPayouts)

	return r
}

// seedMerchant inserts a merchant plus its pipeline at the given stage.
func (e *handlerEnv) seedMerchant(assignedRep *uuid.UUID, stage entities.Stage) *entities.Merchant {
	merchant := &entities.Merchant{
		ID:            uuid.New(),
		Name:          "Kopi Senja",
		Category:      entities.MerchantCategoryCafe,
		City:          "Jakarta",
		ContactName:   "Ibu Sari",
		ContactPhone:  "+62-811-222",
		AssignedRepID: assignedRep,
	}
	e.merchants.byID[merchant.ID] = merchant
	e.pipelines.byMerchant[merchant.ID] = &entities.Pipeline{
		ID:           uuid.New(),
		MerchantID:   merchant.ID,
		CurrentStage: stage,
		Version:      1,
	}
	return merchant
}

func doJSON(r *gin.Engine, method, path string, body []byte) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, path, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
