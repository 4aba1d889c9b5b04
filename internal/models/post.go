package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Content types derived from the presence of text and image.
const (
	ContentTypeText      = "text"
	ContentTypeImage     = "image"
	ContentTypeTextImage = "text_image"
)

// Post represents a social media post stored in MongoDB
type Post struct {
	ID            primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID        primitive.ObjectID `json:"userId" bson:"user_id"`
	Content       string             `json:"content" bson:"content"`
	ImageURL      string             `json:"imageUrl,omitempty" bson:"image_url,omitempty"`
	ContentType   string             `json:"contentType" bson:"content_type"`
	Tags          []string           `json:"tags,omitempty" bson:"tags,omitempty"`
	LikesCount    int64              `json:"likesCount" bson:"likes_count"`
	CommentsCount int64              `json:"commentsCount" bson:"comments_count"`
	IsActive      bool               `json:"isActive" bson:"is_active"`
	CreatedAt     time.Time          `json:"createdAt" bson:"created_at"`
	UpdatedAt     time.Time          `json:"updatedAt" bson:"updated_at"`
}

// ResolveContentType recomputes the derived content_type tag from the
// presence of content and image. Must be called after every mutation that
// touches either field.
func (p *Post) ResolveContentType() {
	switch {
	case p.Content != "" && p.ImageURL != "":
		p.ContentType = ContentTypeTextImage
	case p.ImageURL != "":
		p.ContentType = ContentTypeImage
	default:
		p.ContentType = ContentTypeText
	}
}

// CreatePostRequest defines the request body for creating a new post.
// A post needs text content or an image; the handler rejects empty both.
type CreatePostRequest struct {
	Content  string   `json:"content,omitempty" validate:"omitempty,max=2000"`
	ImageURL string   `json:"imageUrl,omitempty" validate:"omitempty,imageurl"`
	Tags     []string `json:"tags,omitempty" validate:"omitempty,max=10,dive,tag"`
}

// UpdatePostRequest defines the request body for updating an existing post.
// Pointer fields distinguish "not provided" from "clear this field".
type UpdatePostRequest struct {
	Content  *string   `json:"content,omitempty" validate:"omitempty,max=2000"`
	ImageURL *string   `json:"imageUrl,omitempty" validate:"omitempty,imageurl"`
	Tags     *[]string `json:"tags,omitempty" validate:"omitempty,max=10,dive,tag"`
}

// Allowed sort fields for post listings, mapped to their bson keys.
var PostSortFields = map[string]string{
	"createdAt":     "created_at",
	"updatedAt":     "updated_at",
	"likesCount":    "likes_count",
	"commentsCount": "comments_count",
}
