package models

import (
	"strings"
	"time"
)

// User represents a user account in the StudyBuddy system.
// The document id doubles as the auth uid, so friend lists and chat
// participants reference users by plain string ids.
type User struct {
	ID             string    `bson:"_id" json:"id"`
	Username       string    `bson:"username" json:"username"` // stored lowercase, unique
	Email          string    `bson:"email" json:"email"`
	HashedPassword string    `bson:"hashed_password" json:"-"`
	FirstName      string    `bson:"first_name" json:"first_name"`
	LastName       string    `bson:"last_name" json:"last_name"`
	PreferredName  string    `bson:"preferred_name,omitempty" json:"preferred_name,omitempty"`
	Bio            string    `bson:"bio,omitempty" json:"bio,omitempty"`
	PhotoURL       string    `bson:"photo_url,omitempty" json:"photo_url,omitempty"`
	Friends        []string  `bson:"friends,omitempty" json:"friends,omitempty"`
	IsVerified     bool      `bson:"is_verified" json:"is_verified"`
	VerifyToken    string    `bson:"verify_token,omitempty" json:"-"`
	ResetToken     string    `bson:"reset_token,omitempty" json:"-"`
	ResetExpiry    time.Time `bson:"reset_expiry,omitempty" json:"-"`
	CreatedAt      time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time `bson:"updated_at" json:"updated_at"`
}

// DisplayName prefers the preferred name, falling back to "first last".
func (u *User) DisplayName() string {
	if strings.TrimSpace(u.PreferredName) != "" {
		return u.PreferredName
	}
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// PublicUser is the profile shape exposed to other users.
type PublicUser struct {
	ID               string `json:"id"`
	Username         string `json:"username"`
	DisplayName      string `json:"display_name"`
	PhotoURL         string `json:"photo_url,omitempty"`
	Bio              string `json:"bio,omitempty"`
	HasBeenRequested bool   `json:"has_been_requested,omitempty"`
}

// Public projects the full user record into its shareable form.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: u.DisplayName(),
		PhotoURL:    u.PhotoURL,
		Bio:         u.Bio,
	}
}
