package handlers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"askbox-backend/application/commands"
	"askbox-backend/domain/core/entities"
)

func strPtr(s string) *string { return &s }

func TestUpdateProfile(t *testing.T) {
	userRepo := newFakeUserRepo()
	handler := NewUpdateProfileHandler(userRepo, zap.NewNop())

	user, err := handler.Handle(context.Background(), commands.UpdateProfileCommand{
		UserID:         "alice",
		DisplayName:    strPtr("Alice"),
		Bio:            strPtr("ask me anything"),
		SignatureColor: strPtr("#ff6600"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Alice", user.DisplayName())
	assert.Equal(t, "ask me anything", user.Bio())
	assert.Equal(t, "#ff6600", user.SignatureColor())
}

func TestUpdateProfileNilFieldsLeftUntouched(t *testing.T) {
	userRepo := newFakeUserRepo()
	handler := NewUpdateProfileHandler(userRepo, zap.NewNop())

	_, err := handler.Handle(context.Background(), commands.UpdateProfileCommand{
		UserID:      "alice",
		DisplayName: strPtr("Alice"),
		Bio:         strPtr("first bio"),
	})
	require.NoError(t, err)

	user, err := handler.Handle(context.Background(), commands.UpdateProfileCommand{
		UserID: "alice",
		Bio:    strPtr("second bio"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Alice", user.DisplayName())
	assert.Equal(t, "second bio", user.Bio())
}

func TestUpdateProfileVisibility(t *testing.T) {
	handler := NewUpdateProfileHandler(newFakeUserRepo(), zap.NewNop())

	user, err := handler.Handle(context.Background(), commands.UpdateProfileCommand{
		UserID:     "alice",
		Visibility: strPtr("private"),
	})
	require.NoError(t, err)
	assert.Equal(t, entities.VisibilityPrivate, user.Visibility())
	assert.True(t, user.SuppressPreview())

	_, err = handler.Handle(context.Background(), commands.UpdateProfileCommand{
		UserID:     "alice",
		Visibility: strPtr("friends-of-friends"),
	})
	assert.Error(t, err)
}

func TestGetCreatesProfileLazily(t *testing.T) {
	handler := NewUpdateProfileHandler(newFakeUserRepo(), zap.NewNop())

	user, err := handler.Get(context.Background(), "first-visit")
	require.NoError(t, err)
	assert.Equal(t, "first-visit", user.ID())
	assert.Equal(t, entities.VisibilityOpen, user.Visibility())
}
