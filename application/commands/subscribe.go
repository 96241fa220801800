package commands

import (
	"errors"
)

// SubscribeCommand registers a device endpoint for push delivery. The keys
// are opaque client-generated encryption material.
type SubscribeCommand struct {
	UserID   string `json:"user_id" validate:"required"`
	Endpoint string `json:"endpoint" validate:"required,uri"`
	P256dh   string `json:"p256dh" validate:"required"`
	Auth     string `json:"auth" validate:"required"`
}

// Validate checks command invariants
func (c SubscribeCommand) Validate() error {
	if c.UserID == "" {
		return errors.New("user_id is required")
	}
	if c.Endpoint == "" {
		return errors.New("endpoint is required")
	}
	if c.P256dh == "" || c.Auth == "" {
		return errors.New("subscription keys are required")
	}
	return nil
}

// UnsubscribeCommand removes a device endpoint registration. Removing an
// absent endpoint is a no-op, not an error.
type UnsubscribeCommand struct {
	UserID   string `json:"user_id" validate:"required"`
	Endpoint string `json:"endpoint" validate:"required,uri"`
}

// Validate checks command invariants
func (c UnsubscribeCommand) Validate() error {
	if c.UserID == "" {
		return errors.New("user_id is required")
	}
	if c.Endpoint == "" {
		return errors.New("endpoint is required")
	}
	return nil
}

// UpdateProfileCommand updates a user's public profile fields. Nil pointers
// leave fields untouched.
type UpdateProfileCommand struct {
	UserID         string    `json:"user_id" validate:"required"`
	DisplayName    *string   `json:"display_name,omitempty" validate:"omitempty,min=1,max=50"`
	AvatarURL      *string   `json:"avatar_url,omitempty" validate:"omitempty,uri"`
	Bio            *string   `json:"bio,omitempty" validate:"omitempty,max=300"`
	SocialLinks    *[]string `json:"social_links,omitempty" validate:"omitempty,max=10,dive,uri"`
	SignatureColor *string   `json:"signature_color,omitempty" validate:"omitempty,hexcolor"`
	Visibility     *string   `json:"visibility,omitempty" validate:"omitempty,oneof=open signed_in private"`
}

// Validate checks command invariants
func (c UpdateProfileCommand) Validate() error {
	if c.UserID == "" {
		return errors.New("user_id is required")
	}
	return nil
}
