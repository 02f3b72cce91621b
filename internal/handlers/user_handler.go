package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/bilashs/StudyBuddy-Server/internal/config"
	"github.com/bilashs/StudyBuddy-Server/internal/services"
	jwtutil "github.com/bilashs/StudyBuddy-Server/pkg/jwt"
	"github.com/bilashs/StudyBuddy-Server/pkg/middleware"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

// UserHandler handles HTTP requests related to user accounts.
type UserHandler struct {
	Service *services.UserService
	Config  *config.Config
}

// NewUserHandler creates a new instance of UserHandler.
func NewUserHandler(service *services.UserService, cfg *config.Config) *UserHandler {
	return &UserHandler{
		Service: service,
		Config:  cfg,
	}
}

// RegisterUserHandler handles user registration.
func (h *UserHandler) RegisterUserHandler(w http.ResponseWriter, r *http.Request) {
	var input services.RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		log.WithError(err).Warn("Failed to decode registration request")
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	created, err := h.Service.RegisterUser(r.Context(), input)
	if err != nil {
		log.WithError(err).Error("Failed to register user")
		writeServiceError(w, err)
		return
	}

	log.WithField("userID", created.ID).Info("User registered successfully")
	writeJSON(w, http.StatusCreated, created)
}

// LoginUserHandler handles user login and issues a JWT.
func (h *UserHandler) LoginUserHandler(w http.ResponseWriter, r *http.Request) {
	var credentials struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&credentials); err != nil {
		log.WithError(err).Warn("Failed to decode login request")
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	user, err := h.Service.AuthenticateUser(r.Context(), credentials.Email, credentials.Password)
	if err != nil {
		log.WithFields(log.Fields{
			"email": credentials.Email,
			"error": err,
		}).Warn("Authentication failed")
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}

	token, err := jwtutil.GenerateToken(user.ID, user.Email, user.Username, h.Config.JWTSecret, h.Config.TokenExpiry)
	if err != nil {
		log.WithError(err).Error("Failed to generate JWT token")
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"user":  user,
	})
}

// VerifyEmailHandler confirms an email verification token.
func (h *UserHandler) VerifyEmailHandler(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "Missing token", http.StatusBadRequest)
		return
	}

	if err := h.Service.VerifyEmail(r.Context(), token); err != nil {
		log.WithError(err).Warn("Email verification failed")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Email verified"})
}

// RequestPasswordResetHandler mails a reset link to the submitted email.
// Always reports success so account existence is not leaked.
func (h *UserHandler) RequestPasswordResetHandler(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Email == "" {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	if err := h.Service.RequestPasswordReset(r.Context(), body.Email); err != nil {
		log.WithError(err).Error("Failed to process password reset request")
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "If the email exists, a reset link was sent"})
}

// ResetPasswordHandler consumes a reset token and sets the new password.
func (h *UserHandler) ResetPasswordHandler(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Token       string `json:"token"`
		NewPassword string `json:"new_password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	if err := h.Service.ResetPassword(r.Context(), body.Token, body.NewPassword); err != nil {
		log.WithError(err).Warn("Password reset failed")
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Password updated"})
}

// GetUserHandler returns a user's public profile.
func (h *UserHandler) GetUserHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id := mux.Vars(r)["id"]
	user, err := h.Service.GetUser(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if claims.UserID == id {
		writeJSON(w, http.StatusOK, user)
		return
	}
	writeJSON(w, http.StatusOK, user.Public())
}

// UpdateProfileHandler applies a partial profile edit for the current user.
func (h *UserHandler) UpdateProfileHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var update services.ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	if err := h.Service.UpdateProfile(r.Context(), claims.UserID, update); err != nil {
		log.WithError(err).Error("Failed to update profile")
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Profile updated"})
}

// DeleteAccountHandler removes the current user's account document.
func (h *UserHandler) DeleteAccountHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := h.Service.DeleteAccount(r.Context(), claims.UserID); err != nil {
		log.WithError(err).Error("Failed to delete account")
		writeServiceError(w, err)
		return
	}

	log.WithField("userID", claims.UserID).Info("Account deleted")
	writeJSON(w, http.StatusOK, map[string]string{"message": "Account deleted"})
}
