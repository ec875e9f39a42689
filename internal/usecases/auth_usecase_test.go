package usecases_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"merchant-crm.backend/internal/domain/entities"
	domainerrors "merchant-crm.backend/internal/domain/errors"
	"merchant-crm.backend/internal/usecases"
	"merchant-crm.backend/pkg/crypto"
	"merchant-crm.backend/pkg/jwt"
)

func newAuthFixture(t *testing.T) (*MockUserRepository, *usecases.AuthUsecase) {
	t.Helper()
	mockUserRepo := new(MockUserRepository)
	jwtService := jwt.NewJWTService("test-secret", 15*time.Minute, 24*time.Hour)
	return mockUserRepo, usecases.NewAuthUsecase(mockUserRepo, jwtService)
}

func activeUser(t *testing.T, password string) *entities.User {
	t.Helper()
	hash, err := crypto.HashPassword(password)
	require.NoError(t, err)
	return &entities.User{
		ID:           uuid.New(),
		Name:         "Dewi Santoso",
		Email:        "dewi@example.com",
		PasswordHash: hash,
		Role:         entities.UserRoleRep,
		IsActive:     true,
	}
}

func TestAuthUsecase_Login_Success(t *testing.T) {
	mockUserRepo, uc := newAuthFixture(t)
	user := activeUser(t, "correct horse")
	mockUserRepo.On("GetByEmail", context.Background(), user.Email).Return(user, nil).Once()

	resp, err := uc.Login(context.Background(), &entities.LoginInput{Email: user.Email, Password: "correct horse"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, resp.UserID)
	assert.Equal(t, entities.UserRoleRep, resp.Role)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
}

func TestAuthUsecase_Login_WrongPassword(t *testing.T) {
	mockUserRepo, uc := newAuthFixture(t)
	user := activeUser(t, "correct horse")
	mockUserRepo.On("GetByEmail", context.Background(), user.Email).Return(user, nil).Once()

	_, err := uc.Login(context.Background(), &entities.LoginInput{Email: user.Email, Password: "battery staple"})
	var appErr *domainerrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, 401, appErr.Code)
}

func TestAuthUsecase_Login_UnknownEmail(t *testing.T) {
	mockUserRepo, uc := newAuthFixture(t)
	mockUserRepo.On("GetByEmail", context.Background(), "ghost@example.com").Return(nil, domainerrors.ErrNotFound).Once()

	_, err := uc.Login(context.Background(), &entities.LoginInput{Email: "ghost@example.com", Password: "whatever"})
	var appErr *domainerrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, 401, appErr.Code)
}

func TestAuthUsecase_Login_DisabledAccount(t *testing.T) {
	mockUserRepo, uc := newAuthFixture(t)
	user := activeUser(t, "correct horse")
	user.IsActive = false
	mockUserRepo.On("GetByEmail", context.Background(), user.Email).Return(user, nil).Once()

	_, err := uc.Login(context.Background(), &entities.LoginInput{Email: user.Email, Password: "correct horse"})
	var appErr *domainerrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, 401, appErr.Code)
}

func TestAuthUsecase_Me(t *testing.T) {
	mockUserRepo, uc := newAuthFixture(t)
	user := activeUser(t, "pw")
	mockUserRepo.On("GetByID", context.Background(), user.ID).Return(user, nil).Once()

	got, err := uc.Me(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, got.Email)

	missing := uuid.New()
	mockUserRepo.On("GetByID", context.Background(), missing).Return(nil, domainerrors.ErrNotFound).Once()
	_, err = uc.Me(context.Background(), missing)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}
