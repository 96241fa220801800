package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"askbox-backend/application/commands"
	cmdhandlers "askbox-backend/application/commands/handlers"
	"askbox-backend/domain/core/entities"
	"askbox-backend/pkg/auth"
	"askbox-backend/pkg/common"
	pkgerrors "askbox-backend/pkg/errors"
	"askbox-backend/pkg/utils"
)

// ProfileHandler serves public profile pages and profile updates
type ProfileHandler struct {
	updateHandler *cmdhandlers.UpdateProfileHandler
	errHandler    *pkgerrors.HTTPHandler
	logger        *zap.Logger
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(updateHandler *cmdhandlers.UpdateProfileHandler, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{
		updateHandler: updateHandler,
		errHandler:    pkgerrors.NewHTTPHandler(logger),
		logger:        logger,
	}
}

// profileView is the public read model for a user profile
type profileView struct {
	ID             string    `json:"id"`
	DisplayName    string    `json:"display_name"`
	AvatarURL      string    `json:"avatar_url,omitempty"`
	Bio            string    `json:"bio,omitempty"`
	SocialLinks    []string  `json:"social_links,omitempty"`
	SignatureColor string    `json:"signature_color"`
	Visibility     string    `json:"visibility"`
	CreatedAt      time.Time `json:"created_at"`
}

func newProfileView(u *entities.User) profileView {
	return profileView{
		ID:             u.ID(),
		DisplayName:    u.DisplayName(),
		AvatarURL:      u.AvatarURL(),
		Bio:            u.Bio(),
		SocialLinks:    u.SocialLinks(),
		SignatureColor: u.SignatureColor(),
		Visibility:     string(u.Visibility()),
		CreatedAt:      u.CreatedAt(),
	}
}

// GetProfile handles GET /users/{userID}. Profiles are created lazily, so
// an identity that has never been written still resolves to a bare page.
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user, err := h.updateHandler.Get(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		h.errHandler.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, newProfileView(user))
}

// UpdateProfile handles PUT /profile for the authenticated user
func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errHandler.Handle(w, r, pkgerrors.NewUnauthorizedError("authentication required"))
		return
	}

	var cmd commands.UpdateProfileCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		h.errHandler.Handle(w, r, pkgerrors.NewValidationError("invalid request body"))
		return
	}
	cmd.UserID = user.UserID

	if err := utils.ValidateStruct(cmd); err != nil {
		h.errHandler.Handle(w, r, pkgerrors.NewValidationError(err.Error()))
		return
	}

	updated, err := h.updateHandler.Handle(r.Context(), cmd)
	if err != nil {
		h.errHandler.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, newProfileView(updated))
}
