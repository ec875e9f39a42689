package usecases_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"merchant-crm.backend/internal/domain/entities"
	domainerrors "merchant-crm.backend/internal/domain/errors"
	"merchant-crm.backend/internal/usecases"
)

type merchantFixture struct {
	merchantRepo *MockMerchantRepository
	pipelineRepo *MockPipelineRepository
	userRepo     *MockUserRepository
	uow          *MockUnitOfWork
	uc           *usecases.MerchantUsecase
}

func newMerchantFixture() *merchantFixture {
	f := &merchantFixture{
		merchantRepo: new(MockMerchantRepository),
		pipelineRepo: new(MockPipelineRepository),
		userRepo:     new(MockUserRepository),
		uow:          new(MockUnitOfWork),
	}
	gate := usecases.NewAccessGate(f.merchantRepo)
	f.uc = usecases.NewMerchantUsecase(f.merchantRepo, f.pipelineRepo, f.userRepo, gate, f.uow)
	f.uow.On("Do", mock.Anything, mock.Anything).Return(nil).Maybe()
	return f
}

func validCreateInput() *entities.CreateMerchantInput {
	return &entities.CreateMerchantInput{
		Name:         "Warung Makmur",
		Category:     entities.MerchantCategoryRestaurant,
		City:         "Bandung",
		ContactName:  "Pak Agus",
		ContactPhone: "+62-812-345",
	}
}

func TestMerchantUsecase_CreateMerchant_RepBecomesAssignedRep(t *testing.T) {
	f := newMerchantFixture()
	repID := uuid.New()

	f.merchantRepo.On("Create", mock.Anything, mock.MatchedBy(func(m *entities.Merchant) bool {
		return m.AssignedRepID != nil && *m.AssignedRepID == repID && m.CreatedBy == repID
	})).Return(nil).Once()
	f.pipelineRepo.On("Create", mock.Anything, mock.MatchedBy(func(p *entities.Pipeline) bool {
		return p.CurrentStage == entities.StagePendingFirstVisit
	})).Return(nil).Once()

	merchant, err := f.uc.CreateMerchant(context.Background(), repID, entities.UserRoleRep, validCreateInput())
	require.NoError(t, err)
	require.NotNil(t, merchant.AssignedRepID)
	assert.Equal(t, repID, *merchant.AssignedRepID)
	f.pipelineRepo.AssertExpectations(t)
}

func TestMerchantUsecase_CreateMerchant_AdminExplicitAssignment(t *testing.T) {
	f := newMerchantFixture()
	adminID := uuid.New()
	repID := uuid.New()

	f.userRepo.On("GetByID", context.Background(), repID).Return(&entities.User{ID: repID, Role: entities.UserRoleRep}, nil).Once()
	f.merchantRepo.On("Create", mock.Anything, mock.MatchedBy(func(m *entities.Merchant) bool {
		return m.AssignedRepID != nil && *m.AssignedRepID == repID
	})).Return(nil).Once()
	f.pipelineRepo.On("Create", mock.Anything, mock.Anything).Return(nil).Once()

	input := validCreateInput()
	input.AssignedRepID = &repID
	merchant, err := f.uc.CreateMerchant(context.Background(), adminID, entities.UserRoleAdmin, input)
	require.NoError(t, err)
	assert.Equal(t, repID, *merchant.AssignedRepID)
}

func TestMerchantUsecase_CreateMerchant_AdminWithoutAssignmentLeavesUnassigned(t *testing.T) {
	f := newMerchantFixture()
	adminID := uuid.New()

	f.merchantRepo.On("Create", mock.Anything, mock.MatchedBy(func(m *entities.Merchant) bool {
		return m.AssignedRepID == nil
	})).Return(nil).Once()
	f.pipelineRepo.On("Create", mock.Anything, mock.Anything).Return(nil).Once()

	merchant, err := f.uc.CreateMerchant(context.Background(), adminID, entities.UserRoleAdmin, validCreateInput())
	require.NoError(t, err)
	assert.Nil(t, merchant.AssignedRepID)
}

func TestMerchantUsecase_CreateMerchant_UnknownCategory(t *testing.T) {
	f := newMerchantFixture()
	input := validCreateInput()
	input.Category = "bakery"

	_, err := f.uc.CreateMerchant(context.Background(), uuid.New(), entities.UserRoleRep, input)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)
	f.merchantRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestMerchantUsecase_CreateMerchant_MissingAssignedRep(t *testing.T) {
	f := newMerchantFixture()
	adminID := uuid.New()
	repID := uuid.New()
	f.userRepo.On("GetByID", context.Background(), repID).Return(nil, domainerrors.ErrNotFound).Once()

	input := validCreateInput()
	input.AssignedRepID = &repID
	_, err := f.uc.CreateMerchant(context.Background(), adminID, entities.UserRoleAdmin, input)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)
}

func TestMerchantUsecase_ListMerchants_RoleScoped(t *testing.T) {
	f := newMerchantFixture()
	repID := uuid.New()
	mine := []*entities.Merchant{{ID: uuid.New()}}
	all := []*entities.Merchant{{ID: uuid.New()}, {ID: uuid.New()}}

	f.merchantRepo.On("ListByAssignedRep", context.Background(), repID, 10, 0).Return(mine, 1, nil).Once()
	got, total, err := f.uc.ListMerchants(context.Background(), repID, entities.UserRoleRep, 10, 0)
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, 1, total)

	f.merchantRepo.On("List", context.Background(), 10, 0).Return(all, 2, nil).Once()
	got, total, err = f.uc.ListMerchants(context.Background(), uuid.New(), entities.UserRoleAdmin, 10, 0)
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, 2, total)
}

func TestMerchantUsecase_UpdateMerchant_PartialPatch(t *testing.T) {
	f := newMerchantFixture()
	repID := uuid.New()
	merchant := &entities.Merchant{
		ID: uuid.New(), Name: "Old Name", Category: entities.MerchantCategoryCafe,
		City: "Jakarta", ContactName: "Ibu Rina", ContactPhone: "+62-811", AssignedRepID: &repID,
	}
	f.merchantRepo.On("GetByID", context.Background(), merchant.ID).Return(merchant, nil).Once()
	f.merchantRepo.On("Update", context.Background(), merchant).Return(nil).Once()

	newName := "New Name"
	got, err := f.uc.UpdateMerchant(context.Background(), repID, entities.UserRoleRep, merchant.ID, &entities.UpdateMerchantInput{
		Name: &newName,
	})
	require.NoError(t, err)
	assert.Equal(t, "New Name", got.Name)
	assert.Equal(t, "Jakarta", got.City)
}

func TestMerchantUsecase_AssignRep_RequiresRepRole(t *testing.T) {
	f := newMerchantFixture()
	merchantID := uuid.New()
	adminAsRep := uuid.New()

	f.userRepo.On("GetByID", context.Background(), adminAsRep).Return(&entities.User{ID: adminAsRep, Role: entities.UserRoleAdmin}, nil).Once()

	err := f.uc.AssignRep(context.Background(), merchantID, adminAsRep)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)
	f.merchantRepo.AssertNotCalled(t, "AssignRep", mock.Anything, mock.Anything, mock.Anything)
}

func TestMerchantUsecase_AssignRep_Success(t *testing.T) {
	f := newMerchantFixture()
	merchantID := uuid.New()
	repID := uuid.New()

	f.userRepo.On("GetByID", context.Background(), repID).Return(&entities.User{ID: repID, Role: entities.UserRoleRep}, nil).Once()
	f.merchantRepo.On("AssignRep", context.Background(), merchantID, repID).Return(nil).Once()

	require.NoError(t, f.uc.AssignRep(context.Background(), merchantID, repID))
	f.merchantRepo.AssertExpectations(t)
}

func TestMerchantUsecase_DeleteMerchant_NotFound(t *testing.T) {
	f := newMerchantFixture()
	merchantID := uuid.New()
	f.merchantRepo.On("SoftDelete", context.Background(), merchantID).Return(domainerrors.ErrNotFound).Once()

	err := f.uc.DeleteMerchant(context.Background(), merchantID)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}
