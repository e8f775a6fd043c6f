package helpers

import (
	"regexp"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndComparePassword(t *testing.T) {
	hash, err := HashPassword("Passw0rd!")
	require.NoError(t, err)
	assert.NotEqual(t, "Passw0rd!", hash)

	assert.True(t, ComparePassword(hash, "Passw0rd!"))
	assert.False(t, ComparePassword(hash, "wrong-password"))
}

func TestIsPasswordStrong(t *testing.T) {
	cases := []struct {
		password string
		strong   bool
	}{
		{"Passw0rd!", true},
		{"Abcdef1@", true},
		{"short1A!", true},
		{"Ab1!", false},
		{"passw0rd!", false},
		{"PASSW0RD!", false},
		{"Password!", false},
		{"Passw0rdd", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.strong, IsPasswordStrong(tc.password), "password %q", tc.password)
	}
}

func TestGenerateOTPFormat(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		otp, err := GenerateOTP()
		require.NoError(t, err)
		require.Len(t, otp, 6)

		n, err := strconv.Atoi(otp)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 100000)
		assert.LessOrEqual(t, n, 999999)
		seen[otp] = true
	}
	assert.Greater(t, len(seen), 1, "codes should not repeat every time")
}

func TestGenerateResetToken(t *testing.T) {
	hexPattern := regexp.MustCompile(`^[0-9a-f]{64}$`)

	first, err := GenerateResetToken()
	require.NoError(t, err)
	assert.Regexp(t, hexPattern, first)

	second, err := GenerateResetToken()
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}
