package entities

import (
	"regexp"
	"strings"
	"time"

	pkgerrors "askbox-backend/pkg/errors"
)

// VisibilityLevel controls who may send inbound questions and whether
// notification payloads may carry question text as a preview.
type VisibilityLevel string

const (
	// VisibilityOpen accepts questions from anyone, previews allowed
	VisibilityOpen VisibilityLevel = "open"
	// VisibilitySignedIn accepts questions from authenticated senders only
	VisibilitySignedIn VisibilityLevel = "signed_in"
	// VisibilityPrivate accepts questions but suppresses content previews
	// in out-of-band notifications
	VisibilityPrivate VisibilityLevel = "private"
)

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// User is a profile owner. The identity ID is issued externally; users are
// created lazily on first reference and never deleted here.
type User struct {
	id             string
	displayName    string
	avatarURL      string
	bio            string
	socialLinks    []string
	signatureColor string
	visibility     VisibilityLevel
	createdAt      time.Time
	updatedAt      time.Time
}

// NewUser creates a user for an externally issued identity ID
func NewUser(id, displayName string) (*User, error) {
	if id == "" {
		return nil, pkgerrors.NewValidationError("user ID cannot be empty")
	}
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		displayName = "anonymous"
	}
	now := time.Now().UTC()
	return &User{
		id:             id,
		displayName:    displayName,
		signatureColor: "#6366f1",
		visibility:     VisibilityOpen,
		createdAt:      now,
		updatedAt:      now,
	}, nil
}

// ReconstructUser rebuilds a user from persistence
func ReconstructUser(
	id, displayName, avatarURL, bio string,
	socialLinks []string,
	signatureColor string,
	visibility VisibilityLevel,
	createdAt, updatedAt time.Time,
) *User {
	return &User{
		id:             id,
		displayName:    displayName,
		avatarURL:      avatarURL,
		bio:            bio,
		socialLinks:    socialLinks,
		signatureColor: signatureColor,
		visibility:     visibility,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}
}

// ID returns the externally issued identity ID
func (u *User) ID() string { return u.id }

// DisplayName returns the profile display name
func (u *User) DisplayName() string { return u.displayName }

// AvatarURL returns the avatar URI
func (u *User) AvatarURL() string { return u.avatarURL }

// Bio returns the profile bio
func (u *User) Bio() string { return u.bio }

// SocialLinks returns the profile's social links
func (u *User) SocialLinks() []string { return u.socialLinks }

// SignatureColor returns the profile accent color
func (u *User) SignatureColor() string { return u.signatureColor }

// Visibility returns the inbound-question visibility level
func (u *User) Visibility() VisibilityLevel { return u.visibility }

// CreatedAt returns the creation timestamp
func (u *User) CreatedAt() time.Time { return u.createdAt }

// UpdatedAt returns the last modification timestamp
func (u *User) UpdatedAt() time.Time { return u.updatedAt }

// SuppressPreview reports whether notification payloads for this user's
// inbound content must omit question text
func (u *User) SuppressPreview() bool {
	return u.visibility == VisibilityPrivate
}

// AcceptsQuestionFrom reports whether a question from senderID (empty for
// unauthenticated senders) may enter this user's inbox
func (u *User) AcceptsQuestionFrom(senderID string) bool {
	if u.visibility == VisibilitySignedIn && senderID == "" {
		return false
	}
	return true
}

// UpdateProfile applies profile changes; nil pointers leave fields untouched
func (u *User) UpdateProfile(displayName, avatarURL, bio, signatureColor *string, socialLinks *[]string) error {
	if displayName != nil {
		name := strings.TrimSpace(*displayName)
		if name == "" {
			return pkgerrors.NewValidationError("display name cannot be empty")
		}
		u.displayName = name
	}
	if avatarURL != nil {
		u.avatarURL = strings.TrimSpace(*avatarURL)
	}
	if bio != nil {
		u.bio = strings.TrimSpace(*bio)
	}
	if signatureColor != nil {
		if !hexColor.MatchString(*signatureColor) {
			return pkgerrors.NewValidationError("signature color must be a #rrggbb value")
		}
		u.signatureColor = *signatureColor
	}
	if socialLinks != nil {
		if len(*socialLinks) > 10 {
			return pkgerrors.NewValidationError("too many social links")
		}
		u.socialLinks = *socialLinks
	}
	u.updatedAt = time.Now().UTC()
	return nil
}

// SetVisibility changes the inbound-question visibility level
func (u *User) SetVisibility(level VisibilityLevel) error {
	switch level {
	case VisibilityOpen, VisibilitySignedIn, VisibilityPrivate:
		u.visibility = level
		u.updatedAt = time.Now().UTC()
		return nil
	default:
		return pkgerrors.NewValidationError("unknown visibility level")
	}
}
