package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TargetType discriminates what a Like points at.
type TargetType string

const (
	TargetPost    TargetType = "post"
	TargetComment TargetType = "comment"
)

// Valid reports whether t is one of the two allowed target kinds.
func (t TargetType) Valid() bool {
	return t == TargetPost || t == TargetComment
}

// Like represents a toggleable reaction on a post or comment. "Removing" a
// like flips IsActive rather than deleting the document, so a user's like
// history stays reconstructible. At most one Like document exists per
// (user_id, target_type, target_id), enforced by a unique index.
type Like struct {
	ID         primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID     primitive.ObjectID `json:"userId" bson:"user_id"`
	TargetType TargetType         `json:"targetType" bson:"target_type"`
	TargetID   primitive.ObjectID `json:"targetId" bson:"target_id"`
	IsActive   bool               `json:"isActive" bson:"is_active"`
	CreatedAt  time.Time          `json:"createdAt" bson:"created_at"`
	UpdatedAt  time.Time          `json:"updatedAt" bson:"updated_at"`
}

// Toggle actions reported back to the client.
const (
	ActionLiked   = "liked"
	ActionUnliked = "unliked"
)

// ToggleLikeRequest defines the request body for toggling a like
type ToggleLikeRequest struct {
	TargetType string `json:"targetType" validate:"required,oneof=post comment"`
	TargetID   string `json:"targetId" validate:"required"`
}
