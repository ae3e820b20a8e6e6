package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"github.com/cr1st1anhernandez/pos-inventory-go/internal/user/domain"
	"github.com/cr1st1anhernandez/pos-inventory-go/internal/user/repository"
	"github.com/cr1st1anhernandez/pos-inventory-go/internal/user/repository/mocks"
)

const testSecret = "test-secret"

func TestUserService_Register(t *testing.T) {
	ctx := context.TODO()

	t.Run("Success hashes the password and normalizes input", func(t *testing.T) {
		mockRepo := new(mocks.MockUserRepository)
		svc := NewUserService(mockRepo, testSecret, time.Hour)

		mockRepo.On("CreateUser", ctx, mock.AnythingOfType("*domain.User")).Return(nil).Once()

		user, err := svc.Register(ctx, domain.RegisterRequest{
			Username: "  cashier  ",
			Email:    "Cashier@Example.COM",
			Password: "s3cret-pass",
		})
		assert.NoError(t, err)
		assert.Equal(t, "cashier", user.Username)
		assert.Equal(t, "cashier@example.com", user.Email)
		assert.NotEqual(t, "s3cret-pass", user.PasswordHash)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("s3cret-pass")))
		assert.False(t, user.IsAdmin)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Duplicate username maps to ErrUserAlreadyExists", func(t *testing.T) {
		mockRepo := new(mocks.MockUserRepository)
		svc := NewUserService(mockRepo, testSecret, time.Hour)

		mockRepo.On("CreateUser", ctx, mock.AnythingOfType("*domain.User")).
			Return(repository.ErrUserConflict).Once()

		_, err := svc.Register(ctx, domain.RegisterRequest{Username: "cashier", Password: "pw"})
		assert.ErrorIs(t, err, ErrUserAlreadyExists)
		mockRepo.AssertExpectations(t)
	})
}

func TestUserService_Login(t *testing.T) {
	ctx := context.TODO()

	storedUser := func(password string, isAdmin bool) *domain.User {
		hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
		return &domain.User{
			ID:           "user-1",
			Username:     "cashier",
			PasswordHash: string(hash),
			IsAdmin:      isAdmin,
		}
	}

	t.Run("Success returns a signed token with identity claims", func(t *testing.T) {
		mockRepo := new(mocks.MockUserRepository)
		svc := NewUserService(mockRepo, testSecret, time.Hour)

		mockRepo.On("GetUserByUsername", ctx, "cashier").Return(storedUser("pw", true), nil).Once()

		resp, err := svc.Login(ctx, domain.LoginRequest{Username: " cashier ", Password: "pw"})
		assert.NoError(t, err)
		assert.Equal(t, "user-1", resp.User.ID)

		token, err := jwt.Parse(resp.Token, func(t *jwt.Token) (interface{}, error) {
			return []byte(testSecret), nil
		})
		assert.NoError(t, err)
		claims := token.Claims.(jwt.MapClaims)
		assert.Equal(t, "user-1", claims["user_id"])
		assert.Equal(t, "cashier", claims["username"])
		assert.Equal(t, true, claims["is_admin"])
		mockRepo.AssertExpectations(t)
	})

	t.Run("Unknown username maps to ErrInvalidCredentials", func(t *testing.T) {
		mockRepo := new(mocks.MockUserRepository)
		svc := NewUserService(mockRepo, testSecret, time.Hour)

		mockRepo.On("GetUserByUsername", ctx, "ghost").Return(nil, repository.ErrUserNotFound).Once()

		_, err := svc.Login(ctx, domain.LoginRequest{Username: "ghost", Password: "pw"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("Wrong password maps to ErrInvalidCredentials", func(t *testing.T) {
		mockRepo := new(mocks.MockUserRepository)
		svc := NewUserService(mockRepo, testSecret, time.Hour)

		mockRepo.On("GetUserByUsername", ctx, "cashier").Return(storedUser("pw", false), nil).Once()

		_, err := svc.Login(ctx, domain.LoginRequest{Username: "cashier", Password: "wrong"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestUserService_DeleteUser(t *testing.T) {
	ctx := context.TODO()

	t.Run("Deleting your own account is rejected", func(t *testing.T) {
		mockRepo := new(mocks.MockUserRepository)
		svc := NewUserService(mockRepo, testSecret, time.Hour)

		err := svc.DeleteUser(ctx, "user-1", "user-1")
		assert.ErrorIs(t, err, ErrSelfDelete)
		mockRepo.AssertNotCalled(t, "DeleteUser")
	})

	t.Run("Deleting another user delegates to the repository", func(t *testing.T) {
		mockRepo := new(mocks.MockUserRepository)
		svc := NewUserService(mockRepo, testSecret, time.Hour)

		mockRepo.On("DeleteUser", ctx, "user-2").Return(nil).Once()

		assert.NoError(t, svc.DeleteUser(ctx, "user-2", "user-1"))
		mockRepo.AssertExpectations(t)
	})
}
