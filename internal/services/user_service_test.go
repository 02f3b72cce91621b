package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/bilashs/StudyBuddy-Server/internal/mocks"
	"github.com/bilashs/StudyBuddy-Server/internal/models"
)

func validRegisterInput() RegisterInput {
	return RegisterInput{
		Email:     "alice@example.com",
		Username:  "alice01",
		Password:  "secretpw",
		FirstName: "Alice",
		LastName:  "Smith",
	}
}

func TestRegisterUserMissingFields(t *testing.T) {
	svc := NewUserService(new(mocks.UserStoreMock), "http://localhost:8080")

	input := validRegisterInput()
	input.Password = ""
	_, err := svc.RegisterUser(context.Background(), input)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestRegisterUserInvalidEmail(t *testing.T) {
	svc := NewUserService(new(mocks.UserStoreMock), "http://localhost:8080")

	input := validRegisterInput()
	input.Email = "not-an-email"
	_, err := svc.RegisterUser(context.Background(), input)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestRegisterUserInvalidUsername(t *testing.T) {
	svc := NewUserService(new(mocks.UserStoreMock), "http://localhost:8080")

	input := validRegisterInput()
	input.Username = "x"
	_, err := svc.RegisterUser(context.Background(), input)
	assert.ErrorIs(t, err, ErrValidation)

	input.Username = "Has Spaces"
	_, err = svc.RegisterUser(context.Background(), input)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestRegisterUserEmailTaken(t *testing.T) {
	repo := new(mocks.UserStoreMock)
	svc := NewUserService(repo, "http://localhost:8080")

	repo.On("GetUserByEmail", mock.Anything, "alice@example.com").
		Return(&models.User{ID: "existing"}, nil).Once()

	_, err := svc.RegisterUser(context.Background(), validRegisterInput())
	assert.ErrorIs(t, err, ErrValidation)
	repo.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
}

func TestRegisterUserUsernameTaken(t *testing.T) {
	repo := new(mocks.UserStoreMock)
	svc := NewUserService(repo, "http://localhost:8080")

	repo.On("GetUserByEmail", mock.Anything, "alice@example.com").
		Return((*models.User)(nil), nil).Once()
	repo.On("GetUserByUsername", mock.Anything, "alice01").
		Return(&models.User{ID: "existing"}, nil).Once()

	_, err := svc.RegisterUser(context.Background(), validRegisterInput())
	assert.ErrorIs(t, err, ErrValidation)
	repo.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
}

func TestAuthenticateUserSuccess(t *testing.T) {
	repo := new(mocks.UserStoreMock)
	svc := NewUserService(repo, "http://localhost:8080")

	hash, err := bcrypt.GenerateFromPassword([]byte("secretpw"), bcrypt.MinCost)
	require.NoError(t, err)
	repo.On("GetUserByEmail", mock.Anything, "alice@example.com").
		Return(&models.User{ID: "alice", HashedPassword: string(hash), IsVerified: true}, nil).Once()

	user, err := svc.AuthenticateUser(context.Background(), "alice@example.com", "secretpw")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.ID)
}

func TestAuthenticateUserWrongPassword(t *testing.T) {
	repo := new(mocks.UserStoreMock)
	svc := NewUserService(repo, "http://localhost:8080")

	hash, err := bcrypt.GenerateFromPassword([]byte("secretpw"), bcrypt.MinCost)
	require.NoError(t, err)
	repo.On("GetUserByEmail", mock.Anything, "alice@example.com").
		Return(&models.User{ID: "alice", HashedPassword: string(hash), IsVerified: true}, nil).Once()

	_, err = svc.AuthenticateUser(context.Background(), "alice@example.com", "wrong")
	assert.Error(t, err)
}

func TestAuthenticateUserUnverified(t *testing.T) {
	repo := new(mocks.UserStoreMock)
	svc := NewUserService(repo, "http://localhost:8080")

	repo.On("GetUserByEmail", mock.Anything, "alice@example.com").
		Return(&models.User{ID: "alice", IsVerified: false}, nil).Once()

	_, err := svc.AuthenticateUser(context.Background(), "alice@example.com", "secretpw")
	assert.Error(t, err)
}

func TestAuthenticateUserUnknownEmail(t *testing.T) {
	repo := new(mocks.UserStoreMock)
	svc := NewUserService(repo, "http://localhost:8080")

	repo.On("GetUserByEmail", mock.Anything, "nobody@example.com").
		Return((*models.User)(nil), nil).Once()

	_, err := svc.AuthenticateUser(context.Background(), "nobody@example.com", "pw")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRequestPasswordResetUnknownEmailIsSilent(t *testing.T) {
	repo := new(mocks.UserStoreMock)
	svc := NewUserService(repo, "http://localhost:8080")

	repo.On("GetUserByEmail", mock.Anything, "nobody@example.com").
		Return((*models.User)(nil), nil).Once()

	require.NoError(t, svc.RequestPasswordReset(context.Background(), "nobody@example.com"))
	repo.AssertNotCalled(t, "UpdateUser", mock.Anything, mock.Anything, mock.Anything)
}

func TestResetPasswordUpdatesHashAndConsumesToken(t *testing.T) {
	repo := new(mocks.UserStoreMock)
	svc := NewUserService(repo, "http://localhost:8080")

	repo.On("GetUserByResetToken", mock.Anything, "tok123").
		Return(&models.User{ID: "alice", ResetToken: "tok123", ResetExpiry: time.Now().Add(time.Hour)}, nil).Once()
	repo.On("UpdateUser", mock.Anything, "alice", mock.MatchedBy(func(fields map[string]interface{}) bool {
		hash, ok := fields["hashed_password"].(string)
		if !ok || bcrypt.CompareHashAndPassword([]byte(hash), []byte("brand-new-pw")) != nil {
			return false
		}
		return fields["reset_token"] == ""
	})).Return(nil).Once()

	require.NoError(t, svc.ResetPassword(context.Background(), "tok123", "brand-new-pw"))
	repo.AssertExpectations(t)
}

func TestResetPasswordUnknownToken(t *testing.T) {
	repo := new(mocks.UserStoreMock)
	svc := NewUserService(repo, "http://localhost:8080")

	repo.On("GetUserByResetToken", mock.Anything, "bogus").
		Return((*models.User)(nil), nil).Once()

	err := svc.ResetPassword(context.Background(), "bogus", "brand-new-pw")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResetPasswordExpiredToken(t *testing.T) {
	repo := new(mocks.UserStoreMock)
	svc := NewUserService(repo, "http://localhost:8080")

	repo.On("GetUserByResetToken", mock.Anything, "tok123").
		Return(&models.User{ID: "alice", ResetToken: "tok123", ResetExpiry: time.Now().Add(-time.Minute)}, nil).Once()

	err := svc.ResetPassword(context.Background(), "tok123", "brand-new-pw")
	assert.ErrorIs(t, err, ErrValidation)
	repo.AssertNotCalled(t, "UpdateUser", mock.Anything, mock.Anything, mock.Anything)
}

func TestResetPasswordTooShort(t *testing.T) {
	svc := NewUserService(new(mocks.UserStoreMock), "http://localhost:8080")

	err := svc.ResetPassword(context.Background(), "tok123", "short")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpdateProfilePartial(t *testing.T) {
	repo := new(mocks.UserStoreMock)
	svc := NewUserService(repo, "http://localhost:8080")

	bio := "Hi there"
	repo.On("UpdateUser", mock.Anything, "alice", map[string]interface{}{"bio": "Hi there"}).
		Return(nil).Once()

	require.NoError(t, svc.UpdateProfile(context.Background(), "alice", ProfileUpdate{Bio: &bio}))
	repo.AssertExpectations(t)
}

func TestUpdateProfileEmpty(t *testing.T) {
	svc := NewUserService(new(mocks.UserStoreMock), "http://localhost:8080")

	err := svc.UpdateProfile(context.Background(), "alice", ProfileUpdate{})
	assert.ErrorIs(t, err, ErrValidation)
}
