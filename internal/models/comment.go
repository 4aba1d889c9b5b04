package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Comment represents a comment on a post. ParentCommentID supports a single
// level of threading: replies to a reply are rejected.
type Comment struct {
	ID              primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	PostID          primitive.ObjectID  `json:"postId" bson:"post_id"`
	UserID          primitive.ObjectID  `json:"userId" bson:"user_id"`
	Content         string              `json:"content" bson:"content"`
	ParentCommentID *primitive.ObjectID `json:"parentCommentId,omitempty" bson:"parent_comment_id,omitempty"`
	LikesCount      int64               `json:"likesCount" bson:"likes_count"`
	Edited          bool                `json:"edited" bson:"edited"`
	IsActive        bool                `json:"isActive" bson:"is_active"`
	CreatedAt       time.Time           `json:"createdAt" bson:"created_at"`
	UpdatedAt       time.Time           `json:"updatedAt" bson:"updated_at"`
}

// CreateCommentRequest defines the request body for creating a new comment
type CreateCommentRequest struct {
	PostID          string `json:"postId" validate:"required"`
	Content         string `json:"content" validate:"required,min=1,max=500"`
	ParentCommentID string `json:"parentCommentId,omitempty"`
}

// UpdateCommentRequest defines the request body for updating an existing comment
type UpdateCommentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=500"`
}
