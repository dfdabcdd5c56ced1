package users_test

import (
	"testing"

	"github.com/jrsteele09/go-todo-server/users"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{"valid", "alice@example.com", false},
		{"valid with plus", "alice+todo@example.com", false},
		{"empty", "", true},
		{"whitespace only", "   ", true},
		{"no at sign", "alice.example.com", true},
		{"no domain dot", "alice@example", true},
		{"embedded space", "alice @example.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := users.ValidateEmail(tt.email)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, users.ValidatePassword("secret123"))
	assert.Error(t, users.ValidatePassword(""))
	assert.Error(t, users.ValidatePassword("short"))
}

func TestValidateName(t *testing.T) {
	assert.NoError(t, users.ValidateName("Alice"))
	assert.Error(t, users.ValidateName(""))
	assert.Error(t, users.ValidateName("  "))
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := users.HashPassword("secret123", 4) // low cost keeps the test fast
	require.NoError(t, err)
	require.NotEqual(t, "secret123", hash)

	assert.True(t, users.CheckPasswordHash("secret123", hash))
	assert.False(t, users.CheckPasswordHash("wrong-password", hash))
	assert.False(t, users.CheckPasswordHash("", hash))
}
