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

// LikeRepository defines the interface for like data operations
type LikeRepository interface {
	ToggleLike(ctx context.Context, userID string, targetType models.TargetType, targetID string) (*models.Like, string, error)
	GetLike(ctx context.Context, userID string, targetType models.TargetType, targetID string) (*models.Like, error)
	ListLikesByTarget(ctx context.Context, targetType models.TargetType, targetID string, page, limit int) ([]models.Like, int64, error)
	RecountEngagement(ctx context.Context) error
}

// MongoLikeRepository implements LikeRepository for MongoDB. It holds the
// whole database because the toggle touches the likes collection and the
// target's counter in one transaction.
type MongoLikeRepository struct {
	db       *mongo.Database
	likes    *mongo.Collection
	posts    *mongo.Collection
	comments *mongo.Collection
}

// NewMongoLikeRepository creates a new MongoLikeRepository
func NewMongoLikeRepository(db *mongo.Database) *MongoLikeRepository {
	return &MongoLikeRepository{
		db:       db,
		likes:    db.Collection("likes"),
		posts:    db.Collection("posts"),
		comments: db.Collection("comments"),
	}
}

func (r *MongoLikeRepository) targetCollection(targetType models.TargetType) *mongo.Collection {
	if targetType == models.TargetComment {
		return r.comments
	}
	return r.posts
}

// ToggleLike flips the like state for (user, targetType, targetId) and moves
// the target's denormalized counter in the same session transaction. The
// state machine per pair is NoRecord → Active on first toggle, then
// Active ⇄ Inactive. Requires a replica-set deployment for the transaction.
func (r *MongoLikeRepository) ToggleLike(ctx context.Context, userID string, targetType models.TargetType, targetID string) (*models.Like, string, error) {
	userObjID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, "", fmt.Errorf("invalid user ID format: %w", ErrNotFound)
	}
	targetObjID, err := primitive.ObjectIDFromHex(targetID)
	if err != nil {
		return nil, "", fmt.Errorf("invalid target ID format: %w", ErrNotFound)
	}

	targetColl := r.targetCollection(targetType)
	if err := targetColl.FindOne(ctx, bson.M{"_id": targetObjID, "is_active": true}).Err(); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, "", ErrNotFound
		}
		return nil, "", err
	}

	session, err := r.db.Client().StartSession()
	if err != nil {
		return nil, "", err
	}
	defer session.EndSession(ctx)

	var like models.Like
	var action string

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		now := time.Now()
		filter := bson.M{
			"user_id":     userObjID,
			"target_type": targetType,
			"target_id":   targetObjID,
		}

		delta := 0
		findErr := r.likes.FindOne(sc, filter).Decode(&like)
		switch {
		case findErr == mongo.ErrNoDocuments:
			like = models.Like{
				ID:         primitive.NewObjectID(),
				UserID:     userObjID,
				TargetType: targetType,
				TargetID:   targetObjID,
				IsActive:   true,
				CreatedAt:  now,
				UpdatedAt:  now,
			}
			if _, err := r.likes.InsertOne(sc, like); err != nil {
				return nil, err
			}
			action = models.ActionLiked
			delta = 1
		case findErr != nil:
			return nil, findErr
		default:
			like.IsActive = !like.IsActive
			like.UpdatedAt = now
			update := bson.M{"$set": bson.M{"is_active": like.IsActive, "updated_at": now}}
			if _, err := r.likes.UpdateOne(sc, bson.M{"_id": like.ID}, update); err != nil {
				return nil, err
			}
			if like.IsActive {
				action = models.ActionLiked
				delta = 1
			} else {
				action = models.ActionUnliked
				delta = -1
			}
		}

		_, err := targetColl.UpdateOne(sc, bson.M{"_id": targetObjID}, flooredCounterUpdate("likes_count", delta))
		return nil, err
	})
	if err != nil {
		return nil, "", err
	}
	return &like, action, nil
}

// GetLike retrieves the like document for (user, targetType, targetId),
// active or not. Returns ErrNotFound when no toggle ever happened.
func (r *MongoLikeRepository) GetLike(ctx context.Context, userID string, targetType models.TargetType, targetID string) (*models.Like, error) {
	userObjID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID format: %w", ErrNotFound)
	}
	targetObjID, err := primitive.ObjectIDFromHex(targetID)
	if err != nil {
		return nil, fmt.Errorf("invalid target ID format: %w", ErrNotFound)
	}

	var like models.Like
	filter := bson.M{"user_id": userObjID, "target_type": targetType, "target_id": targetObjID}
	if err := r.likes.FindOne(ctx, filter).Decode(&like); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &like, nil
}

// ListLikesByTarget retrieves active likes for a target, newest first,
// plus the total count
func (r *MongoLikeRepository) ListLikesByTarget(ctx context.Context, targetType models.TargetType, targetID string, page, limit int) ([]models.Like, int64, error) {
	targetObjID, err := primitive.ObjectIDFromHex(targetID)
	if err != nil {
		return nil, 0, fmt.Errorf("invalid target ID format: %w", ErrNotFound)
	}

	filter := bson.M{"target_type": targetType, "target_id": targetObjID, "is_active": true}
	total, err := r.likes.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	skip := int64(page-1) * int64(limit)
	findOptions := options.Find().
		SetSkip(skip).
		SetLimit(int64(limit)).
		SetSort(bson.D{{Key: "updated_at", Value: -1}})

	cursor, err := r.likes.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	likes := []models.Like{}
	if err = cursor.All(ctx, &likes); err != nil {
		return nil, 0, err
	}
	return likes, total, nil
}

// RecountEngagement recomputes every denormalized counter from the
// source-of-truth engagement records: active likes per post and comment,
// active comments per post. Idempotent; run periodically to repair drift.
func (r *MongoLikeRepository) RecountEngagement(ctx context.Context) error {
	if err := r.recountLikes(ctx, models.TargetPost, r.posts); err != nil {
		return fmt.Errorf("recount post likes: %w", err)
	}
	if err := r.recountLikes(ctx, models.TargetComment, r.comments); err != nil {
		return fmt.Errorf("recount comment likes: %w", err)
	}
	if err := r.recountComments(ctx); err != nil {
		return fmt.Errorf("recount post comments: %w", err)
	}
	return nil
}

func (r *MongoLikeRepository) recountLikes(ctx context.Context, targetType models.TargetType, targetColl *mongo.Collection) error {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"target_type": targetType, "is_active": true}}},
		{{Key: "$group", Value: bson.M{"_id": "$target_id", "count": bson.M{"$sum": 1}}}},
	}
	cursor, err := r.likes.Aggregate(ctx, pipeline)
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		TargetID primitive.ObjectID `bson:"_id"`
		Count    int64              `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return err
	}

	// Reset first so targets that lost every like come back to zero.
	if _, err := targetColl.UpdateMany(ctx, bson.M{}, bson.M{"$set": bson.M{"likes_count": 0}}); err != nil {
		return err
	}
	for _, row := range rows {
		if _, err := targetColl.UpdateOne(ctx, bson.M{"_id": row.TargetID}, bson.M{"$set": bson.M{"likes_count": row.Count}}); err != nil {
			return err
		}
	}
	return nil
}

func (r *MongoLikeRepository) recountComments(ctx context.Context) error {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"is_active": true}}},
		{{Key: "$group", Value: bson.M{"_id": "$post_id", "count": bson.M{"$sum": 1}}}},
	}
	cursor, err := r.comments.Aggregate(ctx, pipeline)
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		PostID primitive.ObjectID `bson:"_id"`
		Count  int64              `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return err
	}

	if _, err := r.posts.UpdateMany(ctx, bson.M{}, bson.M{"$set": bson.M{"comments_count": 0}}); err != nil {
		return err
	}
	for _, row := range rows {
		if _, err := r.posts.UpdateOne(ctx, bson.M{"_id": row.PostID}, bson.M{"$set": bson.M{"comments_count": row.Count}}); err != nil {
			return err
		}
	}
	return nil
}
