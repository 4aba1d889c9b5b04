package repositories

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/nayeem-dv/socialdeck/backend/internal/models"
)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	CreateComment(ctx context.Context, comment *models.Comment) error
	GetCommentByID(ctx context.Context, id string) (*models.Comment, error)
	ListCommentsByPost(ctx context.Context, postID string, page, limit int) ([]models.Comment, int64, error)
	UpdateComment(ctx context.Context, comment *models.Comment) error
	DeactivateComment(ctx context.Context, id string) error
}

// MongoCommentRepository implements CommentRepository for MongoDB
type MongoCommentRepository struct {
	collection *mongo.Collection
}

// NewMongoCommentRepository creates a new MongoCommentRepository
func NewMongoCommentRepository(db *mongo.Database) *MongoCommentRepository {
	return &MongoCommentRepository{collection: db.Collection("comments")}
}

// CreateComment creates a new comment attached to a post
func (r *MongoCommentRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	comment.ID = primitive.NewObjectID()
	comment.LikesCount = 0
	comment.Edited = false
	comment.IsActive = true
	comment.CreatedAt = time.Now()
	comment.UpdatedAt = comment.CreatedAt
	_, err := r.collection.InsertOne(ctx, comment)
	return err
}

// GetCommentByID retrieves an active comment by ID
func (r *MongoCommentRepository) GetCommentByID(ctx context.Context, id string) (*models.Comment, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid comment ID format: %w", ErrNotFound)
	}

	var comment models.Comment
	err = r.collection.FindOne(ctx, bson.M{"_id": objID, "is_active": true}).Decode(&comment)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &comment, nil
}

// ListCommentsByPost retrieves active comments for a post, oldest first,
// plus the total count
func (r *MongoCommentRepository) ListCommentsByPost(ctx context.Context, postID string, page, limit int) ([]models.Comment, int64, error) {
	objID, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return nil, 0, fmt.Errorf("invalid post ID format: %w", ErrNotFound)
	}

	filter := bson.M{"post_id": objID, "is_active": true}
	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	skip := int64(page-1) * int64(limit)
	findOptions := options.Find().
		SetSkip(skip).
		SetLimit(int64(limit)).
		SetSort(bson.D{{Key: "created_at", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	comments := []models.Comment{}
	if err = cursor.All(ctx, &comments); err != nil {
		return nil, 0, err
	}
	return comments, total, nil
}

// UpdateComment persists an edit, marking the comment as edited
func (r *MongoCommentRepository) UpdateComment(ctx context.Context, comment *models.Comment) error {
	comment.Edited = true
	comment.UpdatedAt = time.Now()
	update := bson.M{
		"$set": bson.M{
			"content":    comment.Content,
			"edited":     true,
			"updated_at": comment.UpdatedAt,
		},
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": comment.ID, "is_active": true}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeactivateComment soft-deletes a comment
func (r *MongoCommentRepository) DeactivateComment(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid comment ID format: %w", ErrNotFound)
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
