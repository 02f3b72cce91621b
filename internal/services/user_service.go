package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/bilashs/StudyBuddy-Server/internal/models"
	"github.com/bilashs/StudyBuddy-Server/pkg/email"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
var usernameRegex = regexp.MustCompile(`^[a-z0-9._]{3,24}$`)

// UserService encapsulates the business logic for user accounts.
type UserService struct {
	repo    UserStore
	baseURL string
}

// NewUserService creates a new instance of UserService. baseURL is used to
// build verification links.
func NewUserService(repo UserStore, baseURL string) *UserService {
	return &UserService{
		repo:    repo,
		baseURL: baseURL,
	}
}

// RegisterInput is the signup payload.
type RegisterInput struct {
	Email         string `json:"email"`
	Username      string `json:"username"`
	Password      string `json:"password"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	PreferredName string `json:"preferred_name"`
}

// RegisterUser creates an account, hashes the password and sends the email
// verification link.
func (s *UserService) RegisterUser(ctx context.Context, input RegisterInput) (*models.User, error) {
	logrus.Info("Registering new user")

	if input.Email == "" || input.Username == "" || input.Password == "" {
		return nil, fmt.Errorf("%w: missing required fields", ErrValidation)
	}
	if input.FirstName == "" || input.LastName == "" {
		return nil, fmt.Errorf("%w: first and last name are required", ErrValidation)
	}
	if !emailRegex.MatchString(input.Email) {
		logrus.WithField("email", input.Email).Warn("Invalid email format during registration")
		return nil, fmt.Errorf("%w: invalid email format", ErrValidation)
	}

	username := strings.ToLower(strings.TrimSpace(input.Username))
	if !usernameRegex.MatchString(username) {
		return nil, fmt.Errorf("%w: invalid username", ErrValidation)
	}

	existing, err := s.repo.GetUserByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		logrus.WithField("email", input.Email).Warn("Email already in use")
		return nil, fmt.Errorf("%w: email already in use", ErrValidation)
	}

	taken, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if taken != nil {
		return nil, fmt.Errorf("%w: username already taken", ErrValidation)
	}

	hashedPwd, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		logrus.WithError(err).Error("Password hashing failed")
		return nil, fmt.Errorf("failed to hash password: %v", err)
	}

	user := &models.User{
		ID:             uuid.NewString(),
		Email:          input.Email,
		Username:       username,
		HashedPassword: string(hashedPwd),
		FirstName:      input.FirstName,
		LastName:       input.LastName,
		PreferredName:  input.PreferredName,
		VerifyToken:    uuid.NewString(),
		IsVerified:     false,
	}

	created, err := s.repo.CreateUser(ctx, user)
	if err != nil {
		logrus.WithError(err).Error("User registration failed")
		return nil, fmt.Errorf("failed to register user: %v", err)
	}

	verificationLink := fmt.Sprintf("%s/users/verify?token=%s", s.baseURL, user.VerifyToken)
	if err := email.SendVerification(user.Email, verificationLink); err != nil {
		logrus.WithError(err).Error("Failed to send verification email")
		return nil, fmt.Errorf("failed to send verification email")
	}

	logrus.WithField("userID", created.ID).Info("User registered successfully")
	return created, nil
}

// VerifyEmail confirms the account owning the given token.
func (s *UserService) VerifyEmail(ctx context.Context, token string) error {
	user, err := s.repo.GetUserByVerificationToken(ctx, token)
	if err != nil {
		return fmt.Errorf("invalid or expired verification token")
	}

	update := map[string]interface{}{
		"is_verified":  true,
		"verify_token": "",
	}
	if err := s.repo.UpdateUser(ctx, user.ID, update); err != nil {
		return fmt.Errorf("failed to update user verification status: %v", err)
	}
	return nil
}

// AuthenticateUser verifies the email and password and returns the user if
// credentials are valid.
func (s *UserService) AuthenticateUser(ctx context.Context, userEmail, password string) (*models.User, error) {
	logrus.WithField("email", userEmail).Info("Authenticating user")

	user, err := s.repo.GetUserByEmail(ctx, userEmail)
	if err != nil {
		return nil, err
	}
	if user == nil {
		logrus.WithField("email", userEmail).Warn("User not found")
		return nil, fmt.Errorf("%w: user not found", ErrNotFound)
	}

	if !user.IsVerified {
		logrus.WithField("email", userEmail).Warn("Attempt to login with unverified email")
		return nil, fmt.Errorf("email not verified. Please check your inbox")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		logrus.WithField("email", userEmail).Warn("Invalid password attempt")
		return nil, fmt.Errorf("invalid credentials")
	}

	return user, nil
}

// resetTokenTTL bounds how long a password reset link stays usable.
const resetTokenTTL = time.Hour

// RequestPasswordReset issues a one-time reset token and mails the reset
// link. An unknown email is a silent no-op so the endpoint does not reveal
// which addresses have accounts.
func (s *UserService) RequestPasswordReset(ctx context.Context, userEmail string) error {
	user, err := s.repo.GetUserByEmail(ctx, userEmail)
	if err != nil {
		return err
	}
	if user == nil {
		logrus.WithField("email", userEmail).Info("Password reset requested for unknown email")
		return nil
	}

	token := uuid.NewString()
	fields := map[string]interface{}{
		"reset_token":  token,
		"reset_expiry": time.Now().Add(resetTokenTTL),
	}
	if err := s.repo.UpdateUser(ctx, user.ID, fields); err != nil {
		return fmt.Errorf("failed to store reset token: %v", err)
	}

	resetLink := fmt.Sprintf("%s/users/reset-password?token=%s", s.baseURL, token)
	if err := email.SendPasswordReset(user.Email, resetLink); err != nil {
		logrus.WithError(err).Error("Failed to send password reset email")
		return fmt.Errorf("failed to send password reset email")
	}

	logrus.WithField("userID", user.ID).Info("Password reset email sent")
	return nil
}

// ResetPassword consumes a reset token and stores the new password. Expired
// or unknown tokens are rejected without touching the account.
func (s *UserService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if token == "" || newPassword == "" {
		return fmt.Errorf("%w: token and new password are required", ErrValidation)
	}
	if len(newPassword) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", ErrValidation)
	}

	user, err := s.repo.GetUserByResetToken(ctx, token)
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("%w: invalid reset token", ErrNotFound)
	}
	if time.Now().After(user.ResetExpiry) {
		return fmt.Errorf("%w: reset token expired", ErrValidation)
	}

	hashedPwd, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %v", err)
	}

	fields := map[string]interface{}{
		"hashed_password": string(hashedPwd),
		"reset_token":     "",
		"reset_expiry":    time.Time{},
	}
	if err := s.repo.UpdateUser(ctx, user.ID, fields); err != nil {
		return fmt.Errorf("failed to update password: %v", err)
	}

	logrus.WithField("userID", user.ID).Info("Password reset completed")
	return nil
}

// GetUser fetches a user by id.
func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: no user %s", ErrNotFound, id)
	}
	return user, nil
}

// ProfileUpdate holds the editable profile fields. Nil pointers leave the
// field untouched.
type ProfileUpdate struct {
	FirstName     *string `json:"first_name,omitempty"`
	LastName      *string `json:"last_name,omitempty"`
	PreferredName *string `json:"preferred_name,omitempty"`
	Bio           *string `json:"bio,omitempty"`
	PhotoURL      *string `json:"photo_url,omitempty"`
}

// UpdateProfile applies a partial profile edit.
func (s *UserService) UpdateProfile(ctx context.Context, id string, update ProfileUpdate) error {
	fields := map[string]interface{}{}
	if update.FirstName != nil {
		fields["first_name"] = *update.FirstName
	}
	if update.LastName != nil {
		fields["last_name"] = *update.LastName
	}
	if update.PreferredName != nil {
		fields["preferred_name"] = *update.PreferredName
	}
	if update.Bio != nil {
		fields["bio"] = *update.Bio
	}
	if update.PhotoURL != nil {
		fields["photo_url"] = *update.PhotoURL
	}
	if len(fields) == 0 {
		return fmt.Errorf("%w: no fields to update", ErrValidation)
	}
	return s.repo.UpdateUser(ctx, id, fields)
}

// DeleteAccount removes the user document. Friend lists and conversations
// referencing the id are left behind; readers skip the dangling references.
func (s *UserService) DeleteAccount(ctx context.Context, id string) error {
	return s.repo.DeleteUser(ctx, id)
}
