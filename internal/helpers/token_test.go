package helpers

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/joshua-takyi/authsystem/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func testUser() *models.User {
	return &models.User{
		ID:    primitive.NewObjectID(),
		Name:  "Ann",
		Email: "ann@example.com",
		Role:  models.RoleUser,
	}
}

func TestIssueAndParseRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("signing-key")
	user := testUser()

	token, expiresAt, err := issuer.Issue(user, false)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := issuer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID.Hex(), claims.UserID)
	assert.Equal(t, user.Name, claims.Name)
	assert.Equal(t, user.Email, claims.Email)
	assert.Equal(t, models.RoleUser, claims.Role)
	assert.WithinDuration(t, expiresAt, claims.ExpiresAt.Time, time.Second)
}

func TestIssueExpiryWindows(t *testing.T) {
	issuer := NewTokenIssuer("signing-key")
	user := testUser()

	_, sessionExp, err := issuer.Issue(user, false)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(SessionTokenTTL), sessionExp, time.Minute)

	_, rememberExp, err := issuer.Issue(user, true)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(RememberTokenTTL), rememberExp, time.Minute)
}

func TestParseRejectsTamperedToken(t *testing.T) {
	issuer := NewTokenIssuer("signing-key")
	token, _, err := issuer.Issue(testUser(), false)
	require.NoError(t, err)

	tampered := token[:len(token)-2] + "xx"
	_, err = issuer.Parse(tampered)
	assert.Error(t, err)
}

func TestParseRejectsWrongKey(t *testing.T) {
	token, _, err := NewTokenIssuer("key-one").Issue(testUser(), false)
	require.NoError(t, err)

	_, err = NewTokenIssuer("key-two").Parse(token)
	assert.Error(t, err)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	secret := "signing-key"
	claims := &TokenClaims{
		UserID: primitive.NewObjectID().Hex(),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)

	_, err = NewTokenIssuer(secret).Parse(expired)
	assert.Error(t, err)
}

func TestClaimsRoleHelpers(t *testing.T) {
	admin := &TokenClaims{Role: models.RoleAdmin}
	assert.True(t, admin.IsAdmin())
	assert.True(t, admin.HasRole(models.RoleAdmin))
	assert.False(t, admin.HasRole(models.RoleUser))

	user := &TokenClaims{Role: models.RoleUser}
	assert.False(t, user.IsAdmin())
}
