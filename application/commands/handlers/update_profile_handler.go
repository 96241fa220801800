package handlers

import (
	"context"
	"fmt"

	"askbox-backend/application/commands"
	"askbox-backend/application/ports"
	"askbox-backend/domain/core/entities"
	pkgerrors "askbox-backend/pkg/errors"

	"go.uber.org/zap"
)

// UpdateProfileHandler handles the UpdateProfileCommand
type UpdateProfileHandler struct {
	userRepo ports.UserRepository
	logger   *zap.Logger
}

// NewUpdateProfileHandler creates a new handler instance
func NewUpdateProfileHandler(userRepo ports.UserRepository, logger *zap.Logger) *UpdateProfileHandler {
	return &UpdateProfileHandler{userRepo: userRepo, logger: logger}
}

// Handle executes the update profile command
func (h *UpdateProfileHandler) Handle(ctx context.Context, cmd commands.UpdateProfileCommand) (*entities.User, error) {
	if err := cmd.Validate(); err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}

	user, err := h.userRepo.GetOrCreate(ctx, cmd.UserID)
	if err != nil {
		return nil, err
	}

	if err := user.UpdateProfile(cmd.DisplayName, cmd.AvatarURL, cmd.Bio, cmd.SignatureColor, cmd.SocialLinks); err != nil {
		return nil, err
	}

	if cmd.Visibility != nil {
		if err := user.SetVisibility(entities.VisibilityLevel(*cmd.Visibility)); err != nil {
			return nil, err
		}
	}

	if err := h.userRepo.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}

	h.logger.Info("profile updated", zap.String("userID", cmd.UserID))
	return user, nil
}

// Get resolves a profile for display, creating a bare one on first
// reference. Profiles exist lazily: any externally issued identity has a
// page the moment someone looks at it.
func (h *UpdateProfileHandler) Get(ctx context.Context, userID string) (*entities.User, error) {
	if userID == "" {
		return nil, pkgerrors.NewValidationError("user_id is required")
	}
	return h.userRepo.GetOrCreate(ctx, userID)
}
