package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/fundly/internal/auth"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	tm := auth.NewTokenManager("secret", "fundly", time.Hour)

	token, err := tm.Issue("user-42", "admin")
	require.NoError(t, err)

	claims, err := tm.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "user-42", claims.UserID)
	assert.Equal(t, "admin", claims.Role)
}

func TestTokenManager_Rejects(t *testing.T) {
	tm := auth.NewTokenManager("secret", "fundly", time.Hour)

	otherKey, err := auth.NewTokenManager("other", "fundly", time.Hour).Issue("u", "")
	require.NoError(t, err)

	otherIssuer, err := auth.NewTokenManager("secret", "someone", time.Hour).Issue("u", "")
	require.NoError(t, err)

	expired, err := auth.NewTokenManager("secret", "fundly", -time.Minute).Issue("u", "")
	require.NoError(t, err)

	tests := map[string]string{
		"WrongKey":    otherKey,
		"WrongIssuer": otherIssuer,
		"Expired":     expired,
		"Garbage":     "not.a.token",
	}

	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := tm.Parse(token)
			assert.ErrorIs(t, err, auth.ErrInvalidToken)
		})
	}
}

func TestIdentityContext(t *testing.T) {
	_, ok := auth.FromContext(context.Background())
	assert.False(t, ok)

	ctx := auth.WithIdentity(context.Background(), auth.Identity{UserID: "u1", Role: "admin"})
	id, ok := auth.FromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "u1", id.UserID)
}
