package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SocialLinks holds the optional external profile links of a user.
type SocialLinks struct {
	Instagram string `json:"instagram" bson:"instagram"`
	LinkedIn  string `json:"linkedin" bson:"linkedin"`
	Facebook  string `json:"facebook" bson:"facebook"`
	Twitter   string `json:"twitter" bson:"twitter"`
}

// NotificationRef is an entry in the user's embedded notification inbox.
// The read flag here is a denormalized copy of Notification.Read and must be
// flipped together with it.
type NotificationRef struct {
	Notification primitive.ObjectID `json:"notification" bson:"notification"`
	Read         bool               `json:"read" bson:"read"`
}

// User represents a registered artist stored in MongoDB.
type User struct {
	ID                   primitive.ObjectID   `json:"id,omitempty" bson:"_id,omitempty"`
	Name                 string               `json:"name" bson:"name"`
	Email                string               `json:"email" bson:"email"`
	Username             string               `json:"username" bson:"username"`
	Password             string               `json:"-" bson:"password"`
	ProfilePicture       string               `json:"profilePicture" bson:"profilePicture"`
	CoverImage           string               `json:"coverImage" bson:"coverImage"`
	CityState            string               `json:"cityState,omitempty" bson:"cityState,omitempty"`
	Title                string               `json:"title,omitempty" bson:"title,omitempty"`
	Summary              string               `json:"summary,omitempty" bson:"summary,omitempty"`
	Link                 string               `json:"link,omitempty" bson:"link,omitempty"`
	SocialLinks          SocialLinks          `json:"socialLinks" bson:"socialLinks"`
	GoogleID             string               `json:"-" bson:"googleId,omitempty"`
	IsVerified           bool                 `json:"isVerified" bson:"isVerified"`
	Followers            []primitive.ObjectID `json:"followers" bson:"followers"`
	Following            []primitive.ObjectID `json:"following" bson:"following"`
	Artworks             []primitive.ObjectID `json:"artworks" bson:"artworks"`
	ResetPasswordToken   string               `json:"-" bson:"resetPasswordToken,omitempty"`
	ResetPasswordExpires time.Time            `json:"-" bson:"resetPasswordExpires,omitempty"`
	TotalViews           int64                `json:"totalViews" bson:"totalViews"`
	Notifications        []NotificationRef    `json:"-" bson:"notifications"`
	CreatedAt            time.Time            `json:"createdAt" bson:"createdAt"`
	UpdatedAt            time.Time            `json:"updatedAt" bson:"updatedAt"`
}

// DefaultProfilePicture and DefaultCoverImage are assigned at signup and are
// never deleted from disk.
const (
	DefaultProfilePicture = "/uploads/defaults/default-profile.jpg"
	DefaultCoverImage     = "/uploads/defaults/default-cover.jpg"
)

// UserCompact is the trimmed user shape embedded in feed items, comments and
// follower listings.
type UserCompact struct {
	ID             primitive.ObjectID `json:"id"`
	Name           string             `json:"name"`
	Username       string             `json:"username"`
	ProfilePicture string             `json:"profilePicture"`
}

// ToCompact returns the compact representation of the user.
func (u *User) ToCompact() UserCompact {
	return UserCompact{
		ID:             u.ID,
		Name:           u.Name,
		Username:       u.Username,
		ProfilePicture: u.ProfilePicture,
	}
}

// IsFollowing reports whether the user's forward edge set contains id.
func (u *User) IsFollowing(id primitive.ObjectID) bool {
	for _, f := range u.Following {
		if f == id {
			return true
		}
	}
	return false
}

// UnreadNotificationCount counts unread entries in the embedded inbox index.
// This is the cheap denormalized read path used for UI badges.
func (u *User) UnreadNotificationCount() int {
	count := 0
	for _, n := range u.Notifications {
		if !n.Read {
			count++
		}
	}
	return count
}

// SignupRequest defines the request body for local registration.
type SignupRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,alphanum,min=3,max=30"`
	Password string `json:"password" validate:"required,min=8,max=30,artpassword"`
}

// LoginRequest defines the request body for local authentication.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// GoogleLoginRequest carries the Google ID token issued to the client.
type GoogleLoginRequest struct {
	Credential string `json:"credential" validate:"required"`
}

// ForgotPasswordRequest defines the request body for requesting a reset link.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest defines the request body for completing a reset.
type ResetPasswordRequest struct {
	Password string `json:"password" validate:"required,min=8,max=30,artpassword"`
}

// UpdateProfileRequest defines the editable profile fields. All fields are
// optional but at least one must be present.
type UpdateProfileRequest struct {
	Name        string       `json:"name,omitempty" validate:"omitempty,min=2,max=50"`
	Username    string       `json:"username,omitempty" validate:"omitempty,alphanum,min=3,max=30"`
	CityState   string       `json:"cityState,omitempty" validate:"omitempty,max=100"`
	Title       string       `json:"title,omitempty" validate:"omitempty,max=500"`
	Summary     string       `json:"summary,omitempty" validate:"omitempty,max=1000"`
	Link        string       `json:"link,omitempty" validate:"omitempty,url"`
	SocialLinks *SocialLinks `json:"socialLinks,omitempty"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims.
type JwtCustomClaims struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	jwt.RegisteredClaims
}

// VerificationClaims is the short-lived token embedded in email verification
// links.
type VerificationClaims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}
