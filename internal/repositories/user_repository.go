package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/nayeem-dv/socialdeck/backend/internal/models"
)

// ErrNotFound is returned when a document is missing or soft-deleted.
var ErrNotFound = errors.New("not found")

// UserRepository defines the interface for user data operations
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByIdentifier(ctx context.Context, identifier string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByOAuth(ctx context.Context, provider, oauthID string) (*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
	DeactivateUser(ctx context.Context, id string) error
	TouchLastLogin(ctx context.Context, id string) error
}

// MongoUserRepository implements UserRepository for MongoDB
type MongoUserRepository struct {
	collection *mongo.Collection
}

// NewMongoUserRepository creates a new MongoUserRepository
func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{collection: db.Collection("users")}
}

// CreateUser creates a new user. Duplicate usernames or emails surface as a
// Mongo duplicate-key error from the unique indexes.
func (r *MongoUserRepository) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	_, err := r.collection.InsertOne(ctx, user)
	return err
}

// GetUserByID retrieves an active user by ID
func (r *MongoUserRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID format: %w", ErrNotFound)
	}
	return r.findOne(ctx, bson.M{"_id": objID, "is_active": true})
}

// GetUserByIdentifier retrieves an active user by email or username
func (r *MongoUserRepository) GetUserByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	filter := bson.M{
		"is_active": true,
		"$or": bson.A{
			bson.M{"email": identifier},
			bson.M{"username": identifier},
		},
	}
	return r.findOne(ctx, filter)
}

// GetUserByEmail retrieves an active user by email
func (r *MongoUserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": email, "is_active": true})
}

// GetUserByUsername retrieves an active user by username
func (r *MongoUserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"username": username, "is_active": true})
}

// GetUserByOAuth retrieves an active user by provider and external id
func (r *MongoUserRepository) GetUserByOAuth(ctx context.Context, provider, oauthID string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"oauth_provider": provider, "oauth_id": oauthID, "is_active": true})
}

func (r *MongoUserRepository) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// UpdateUser persists the mutable fields of an existing user
func (r *MongoUserRepository) UpdateUser(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now()
	update := bson.M{
		"$set": bson.M{
			"first_name":      user.FirstName,
			"last_name":       user.LastName,
			"profile_picture": user.ProfilePicture,
			"bio":             user.Bio,
			"password":        user.Password,
			"oauth_provider":  user.OAuthProvider,
			"oauth_id":        user.OAuthID,
			"updated_at":      user.UpdatedAt,
		},
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": user.ID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeactivateUser soft-deletes a user by flipping the active flag
func (r *MongoUserRepository) DeactivateUser(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid user ID format: %w", ErrNotFound)
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

// TouchLastLogin refreshes the last-login timestamp
func (r *MongoUserRepository) TouchLastLogin(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid user ID format: %w", ErrNotFound)
	}
	_, err = r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": bson.M{"last_login": time.Now()}})
	return err
}
