package repositories

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/nayeem-dv/socialdeck/backend/internal/models"
)

// PostListOptions narrows and orders a post listing. Zero values mean "no
// filter"; SortBy must already be allow-listed by the caller.
type PostListOptions struct {
	Page      int
	Limit     int
	SortBy    string // bson key, defaults to created_at
	SortOrder string // "asc" or "desc"
	Tags      []string
	Search    string
	UserID    string
}

// PostRepository defines the interface for post data operations
type PostRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPostByID(ctx context.Context, id string) (*models.Post, error)
	ListPosts(ctx context.Context, opts PostListOptions) ([]models.Post, int64, error)
	UpdatePost(ctx context.Context, post *models.Post) error
	DeactivatePost(ctx context.Context, id string) error
	AdjustCommentsCount(ctx context.Context, postID string, delta int) error
}

// MongoPostRepository implements PostRepository for MongoDB
type MongoPostRepository struct {
	collection *mongo.Collection
}

// NewMongoPostRepository creates a new MongoPostRepository
func NewMongoPostRepository(db *mongo.Database) *MongoPostRepository {
	return &MongoPostRepository{collection: db.Collection("posts")}
}

// CreatePost creates a new post with counters at zero
func (r *MongoPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	post.ID = primitive.NewObjectID()
	post.LikesCount = 0
	post.CommentsCount = 0
	post.IsActive = true
	post.CreatedAt = time.Now()
	post.UpdatedAt = post.CreatedAt
	_, err := r.collection.InsertOne(ctx, post)
	return err
}

// GetPostByID retrieves an active post by ID. Soft-deleted posts are not
// reachable through this call, owner included.
func (r *MongoPostRepository) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid post ID format: %w", ErrNotFound)
	}

	var post models.Post
	err = r.collection.FindOne(ctx, bson.M{"_id": objID, "is_active": true}).Decode(&post)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &post, nil
}

// ListPosts retrieves active posts matching opts plus the total match count
func (r *MongoPostRepository) ListPosts(ctx context.Context, opts PostListOptions) ([]models.Post, int64, error) {
	filter := bson.M{"is_active": true}

	if opts.UserID != "" {
		objID, err := primitive.ObjectIDFromHex(opts.UserID)
		if err != nil {
			return nil, 0, fmt.Errorf("invalid user ID format: %w", ErrNotFound)
		}
		filter["user_id"] = objID
	}
	if len(opts.Tags) > 0 {
		filter["tags"] = bson.M{"$in": opts.Tags}
	}
	if opts.Search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(opts.Search), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"content": pattern},
			bson.M{"tags": pattern},
		}
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	sortBy := opts.SortBy
	if sortBy == "" {
		sortBy = "created_at"
	}
	direction := -1
	if opts.SortOrder == "asc" {
		direction = 1
	}

	skip := int64(opts.Page-1) * int64(opts.Limit)
	findOptions := options.Find().
		SetSkip(skip).
		SetLimit(int64(opts.Limit)).
		SetSort(bson.D{{Key: sortBy, Value: direction}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	posts := []models.Post{}
	if err = cursor.All(ctx, &posts); err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// UpdatePost persists the whitelisted mutable fields of an existing post
func (r *MongoPostRepository) UpdatePost(ctx context.Context, post *models.Post) error {
	post.UpdatedAt = time.Now()
	update := bson.M{
		"$set": bson.M{
			"content":      post.Content,
			"image_url":    post.ImageURL,
			"content_type": post.ContentType,
			"tags":         post.Tags,
			"updated_at":   post.UpdatedAt,
		},
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": post.ID, "is_active": true}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeactivatePost soft-deletes a post. Comments are not cascaded.
func (r *MongoPostRepository) DeactivatePost(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid post ID format: %w", ErrNotFound)
	}
	update := bson.M{"$set": bson.M{"is_active": false, "updated_at": time.Now()}}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID, "is_active": true}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// AdjustCommentsCount moves the denormalized comment counter by delta,
// floored at zero via a pipeline update.
func (r *MongoPostRepository) AdjustCommentsCount(ctx context.Context, postID string, delta int) error {
	objID, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return fmt.Errorf("invalid post ID format: %w", ErrNotFound)
	}
	_, err = r.collection.UpdateOne(ctx, bson.M{"_id": objID}, flooredCounterUpdate("comments_count", delta))
	return err
}

// flooredCounterUpdate builds a pipeline update that adds delta to a counter
// but never lets it go below zero.
func flooredCounterUpdate(field string, delta int) bson.A {
	return bson.A{
		bson.M{"$set": bson.M{
			field: bson.M{"$max": bson.A{
				0,
				bson.M{"$add": bson.A{bson.M{"$ifNull": bson.A{"$" + field, 0}}, delta}},
			}},
		}},
	}
}
