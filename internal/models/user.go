package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OAuth providers supported by the auth bridge.
const (
	ProviderGoogle = "google"
	ProviderGitHub = "github"
)

// User represents an account stored in MongoDB. Password is empty for
// OAuth-only accounts; at least one credential path must exist at creation.
type User struct {
	ID             primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Username       string             `json:"username" bson:"username"`
	Email          string             `json:"email" bson:"email"`
	Password       string             `json:"-" bson:"password,omitempty"` // Store hashed password, ignore for JSON serialization
	FirstName      string             `json:"firstName" bson:"first_name"`
	LastName       string             `json:"lastName" bson:"last_name"`
	ProfilePicture string             `json:"profilePicture,omitempty" bson:"profile_picture,omitempty"`
	Bio            string             `json:"bio,omitempty" bson:"bio,omitempty"`
	OAuthProvider  string             `json:"oauthProvider,omitempty" bson:"oauth_provider,omitempty"`
	OAuthID        string             `json:"-" bson:"oauth_id,omitempty"`
	IsActive       bool               `json:"isActive" bson:"is_active"`
	LastLogin      *time.Time         `json:"lastLogin,omitempty" bson:"last_login,omitempty"`
	CreatedAt      time.Time          `json:"createdAt" bson:"created_at"`
	UpdatedAt      time.Time          `json:"updatedAt" bson:"updated_at"`
}

// HasCredentials reports whether the account has at least one way to sign in.
func (u *User) HasCredentials() bool {
	return u.Password != "" || u.OAuthProvider != ""
}

// RegisterRequest defines the request body for local registration
type RegisterRequest struct {
	Username  string `json:"username" validate:"required,min=3,max=30,alphanum"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,password"`
	FirstName string `json:"firstName" validate:"required,min=1,max=50"`
	LastName  string `json:"lastName" validate:"required,min=1,max=50"`
	Bio       string `json:"bio,omitempty" validate:"omitempty,max=250"`
}

// LoginRequest accepts either an email address or a username as identifier
type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

// UpdateUserRequest defines the request body for profile edits
type UpdateUserRequest struct {
	FirstName      string `json:"firstName,omitempty" validate:"omitempty,min=1,max=50"`
	LastName       string `json:"lastName,omitempty" validate:"omitempty,min=1,max=50"`
	ProfilePicture string `json:"profilePicture,omitempty" validate:"omitempty,url"`
	Bio            string `json:"bio,omitempty" validate:"omitempty,max=250"`
}

// ChangePasswordRequest defines the request body for password changes
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,password"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=NewPassword"`
}

// RefreshTokenRequest defines the request body for minting a new access token
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}
