package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	db := newTestDB(t)
	auth := NewAuthService(db)
	ctx := context.Background()

	user, err := auth.Register(ctx, "jamie@example.com", "correct horse battery", "Jamie Doe")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery", user.Password)

	token, err := auth.Login(ctx, "jamie@example.com", "correct horse battery")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	_, err = auth.Login(ctx, "jamie@example.com", "wrong password")
	assert.EqualError(t, err, "invalid email or password")

	_, err = auth.Login(ctx, "nobody@example.com", "whatever")
	assert.EqualError(t, err, "invalid email or password")
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	auth := NewAuthService(db)
	ctx := context.Background()

	_, err := auth.Register(ctx, "dup@example.com", "password123", "First")
	require.NoError(t, err)

	_, err = auth.Register(ctx, "dup@example.com", "password456", "Second")
	assert.Error(t, err)
}
