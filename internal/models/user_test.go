package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisplayNamePrefersPreferredName(t *testing.T) {
	u := User{FirstName: "Alice", LastName: "Smith", PreferredName: "Ally"}
	assert.Equal(t, "Ally", u.DisplayName())
}

func TestDisplayNameFallsBackToFullName(t *testing.T) {
	u := User{FirstName: "Alice", LastName: "Smith"}
	assert.Equal(t, "Alice Smith", u.DisplayName())

	u.PreferredName = "   "
	assert.Equal(t, "Alice Smith", u.DisplayName())
}

func TestPublicOmitsPrivateFields(t *testing.T) {
	u := User{
		ID:             "alice",
		Username:       "alice01",
		Email:          "alice@example.com",
		HashedPassword: "hash",
		FirstName:      "Alice",
		LastName:       "Smith",
		Bio:            "hi",
	}

	p := u.Public()
	assert.Equal(t, "alice", p.ID)
	assert.Equal(t, "alice01", p.Username)
	assert.Equal(t, "Alice Smith", p.DisplayName)
	assert.Equal(t, "hi", p.Bio)
	assert.False(t, p.HasBeenRequested)
}
