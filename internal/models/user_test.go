package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestUserJSONExcludesSecrets(t *testing.T) {
	expires := time.Now().Add(5 * time.Minute)
	user := &User{
		ID:         primitive.NewObjectID(),
		Name:       "Ann",
		Email:      "ann@example.com",
		Password:   "$2a$12$hash",
		Role:       RoleUser,
		OTP:        "123456",
		OTPExpires: &expires,
		Providers:  map[string]string{"google": "g-123"},
		ResetToken: "deadbeef",
	}

	raw, err := json.Marshal(user)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(raw, &fields))

	assert.Contains(t, fields, "id")
	assert.Contains(t, fields, "email")
	assert.NotContains(t, fields, "password")
	assert.NotContains(t, fields, "otp")
	assert.NotContains(t, fields, "otp_expires")
	assert.NotContains(t, fields, "providers")
	assert.NotContains(t, fields, "reset_token")
	assert.NotContains(t, fields, "reset_expires")
}

func TestIsValidRole(t *testing.T) {
	assert.True(t, IsValidRole(RoleUser))
	assert.True(t, IsValidRole(RoleAdmin))
	assert.False(t, IsValidRole("superuser"))
	assert.False(t, IsValidRole(""))
	assert.False(t, IsValidRole("Admin"))
}

func TestHasProvider(t *testing.T) {
	user := &User{}
	assert.False(t, user.HasProvider())

	user.Providers = map[string]string{"facebook": "fb-1"}
	assert.True(t, user.HasProvider())
}

func TestHasActiveOTP(t *testing.T) {
	now := time.Now()
	future := now.Add(time.Minute)
	past := now.Add(-time.Minute)

	assert.False(t, (&User{}).HasActiveOTP(now))
	assert.False(t, (&User{OTP: "123456"}).HasActiveOTP(now))
	assert.False(t, (&User{OTP: "123456", OTPExpires: &past}).HasActiveOTP(now))
	assert.True(t, (&User{OTP: "123456", OTPExpires: &future}).HasActiveOTP(now))
}

func TestHasActiveResetToken(t *testing.T) {
	now := time.Now()
	future := now.Add(time.Minute)
	past := now.Add(-time.Minute)

	assert.False(t, (&User{}).HasActiveResetToken(now))
	assert.False(t, (&User{ResetToken: "tok", ResetExpires: &past}).HasActiveResetToken(now))
	assert.True(t, (&User{ResetToken: "tok", ResetExpires: &future}).HasActiveResetToken(now))
}
