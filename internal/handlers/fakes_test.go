package handlers_test

import (
	"context"
	"sort"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/nayeem-dv/socialdeck/backend/internal/models"
	"github.com/nayeem-dv/socialdeck/backend/internal/repositories"
)

// In-memory repositories mirroring the Mongo implementations' semantics:
// active-only lookups, ErrNotFound for missing or soft-deleted documents,
// counters floored at zero.

type fakeUserRepo struct {
	users map[primitive.ObjectID]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[primitive.ObjectID]*models.User)}
}

func (r *fakeUserRepo) CreateUser(_ context.Context, user *models.User) error {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) GetUserByID(_ context.Context, id string) (*models.User, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repositories.ErrNotFound
	}
	user, ok := r.users[objID]
	if !ok || !user.IsActive {
		return nil, repositories.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetUserByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	for _, user := range r.users {
		if user.IsActive && (user.Email == identifier || user.Username == identifier) {
			copied := *user
			return &copied, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	for _, user := range r.users {
		if user.IsActive && user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeUserRepo) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	for _, user := range r.users {
		if user.IsActive && user.Username == username {
			copied := *user
			return &copied, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeUserRepo) GetUserByOAuth(_ context.Context, provider, oauthID string) (*models.User, error) {
	for _, user := range r.users {
		if user.IsActive && user.OAuthProvider == provider && user.OAuthID == oauthID {
			copied := *user
			return &copied, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeUserRepo) UpdateUser(_ context.Context, user *models.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return repositories.ErrNotFound
	}
	user.UpdatedAt = time.Now()
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) DeactivateUser(_ context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return repositories.ErrNotFound
	}
	user, ok := r.users[objID]
	if !ok || !user.IsActive {
		return repositories.ErrNotFound
	}
	user.IsActive = false
	return nil
}

func (r *fakeUserRepo) TouchLastLogin(_ context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return repositories.ErrNotFound
	}
	if user, ok := r.users[objID]; ok {
		now := time.Now()
		user.LastLogin = &now
	}
	return nil
}

type fakePostRepo struct {
	posts map[primitive.ObjectID]*models.Post
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{posts: make(map[primitive.ObjectID]*models.Post)}
}

func (r *fakePostRepo) CreatePost(_ context.Context, post *models.Post) error {
	post.ID = primitive.NewObjectID()
	post.LikesCount = 0
	post.CommentsCount = 0
	post.IsActive = true
	post.CreatedAt = time.Now()
	post.UpdatedAt = post.CreatedAt
	copied := *post
	r.posts[post.ID] = &copied
	return nil
}

func (r *fakePostRepo) GetPostByID(_ context.Context, id string) (*models.Post, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repositories.ErrNotFound
	}
	post, ok := r.posts[objID]
	if !ok || !post.IsActive {
		return nil, repositories.ErrNotFound
	}
	copied := *post
	return &copied, nil
}

func (r *fakePostRepo) ListPosts(_ context.Context, opts repositories.PostListOptions) ([]models.Post, int64, error) {
	var matched []models.Post
	for _, post := range r.posts {
		if !post.IsActive {
			continue
		}
		if opts.UserID != "" && post.UserID.Hex() != opts.UserID {
			continue
		}
		if len(opts.Tags) > 0 && !hasAnyTag(post.Tags, opts.Tags) {
			continue
		}
		if opts.Search != "" && !matchesSearch(post, opts.Search) {
			continue
		}
		matched = append(matched, *post)
	}

	sortBy := opts.SortBy
	if sortBy == "" {
		sortBy = "created_at"
	}
	asc := opts.SortOrder == "asc"
	sort.Slice(matched, func(i, j int) bool {
		if !asc {
			i, j = j, i
		}
		switch sortBy {
		case "likes_count":
			return matched[i].LikesCount < matched[j].LikesCount
		case "comments_count":
			return matched[i].CommentsCount < matched[j].CommentsCount
		case "updated_at":
			return matched[i].UpdatedAt.Before(matched[j].UpdatedAt)
		default:
			return matched[i].CreatedAt.Before(matched[j].CreatedAt)
		}
	})

	total := int64(len(matched))
	start := (opts.Page - 1) * opts.Limit
	if start >= len(matched) {
		return []models.Post{}, total, nil
	}
	end := start + opts.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func hasAnyTag(postTags, wanted []string) bool {
	for _, tag := range postTags {
		for _, w := range wanted {
			if tag == w {
				return true
			}
		}
	}
	return false
}

func matchesSearch(post *models.Post, query string) bool {
	q := strings.ToLower(query)
	if strings.Contains(strings.ToLower(post.Content), q) {
		return true
	}
	for _, tag := range post.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

func (r *fakePostRepo) UpdatePost(_ context.Context, post *models.Post) error {
	existing, ok := r.posts[post.ID]
	if !ok || !existing.IsActive {
		return repositories.ErrNotFound
	}
	post.UpdatedAt = time.Now()
	copied := *post
	r.posts[post.ID] = &copied
	return nil
}

func (r *fakePostRepo) DeactivatePost(_ context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return repositories.ErrNotFound
	}
	post, ok := r.posts[objID]
	if !ok || !post.IsActive {
		return repositories.ErrNotFound
	}
	post.IsActive = false
	return nil
}

func (r *fakePostRepo) AdjustCommentsCount(_ context.Context, postID string, delta int) error {
	objID, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return repositories.ErrNotFound
	}
	if post, ok := r.posts[objID]; ok {
		post.CommentsCount += int64(delta)
		if post.CommentsCount < 0 {
			post.CommentsCount = 0
		}
	}
	return nil
}

type fakeCommentRepo struct {
	comments map[primitive.ObjectID]*models.Comment
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{comments: make(map[primitive.ObjectID]*models.Comment)}
}

func (r *fakeCommentRepo) CreateComment(_ context.Context, comment *models.Comment) error {
	comment.ID = primitive.NewObjectID()
	comment.LikesCount = 0
	comment.Edited = false
	comment.IsActive = true
	comment.CreatedAt = time.Now()
	comment.UpdatedAt = comment.CreatedAt
	copied := *comment
	r.comments[comment.ID] = &copied
	return nil
}

func (r *fakeCommentRepo) GetCommentByID(_ context.Context, id string) (*models.Comment, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repositories.ErrNotFound
	}
	comment, ok := r.comments[objID]
	if !ok || !comment.IsActive {
		return nil, repositories.ErrNotFound
	}
	copied := *comment
	return &copied, nil
}

func (r *fakeCommentRepo) ListCommentsByPost(_ context.Context, postID string, page, limit int) ([]models.Comment, int64, error) {
	objID, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return nil, 0, repositories.ErrNotFound
	}
	var matched []models.Comment
	for _, comment := range r.comments {
		if comment.IsActive && comment.PostID == objID {
			matched = append(matched, *comment)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.Before(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	start := (page - 1) * limit
	if start >= len(matched) {
		return []models.Comment{}, total, nil
	}
	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (r *fakeCommentRepo) UpdateComment(_ context.Context, comment *models.Comment) error {
	existing, ok := r.comments[comment.ID]
	if !ok || !existing.IsActive {
		return repositories.ErrNotFound
	}
	comment.Edited = true
	comment.UpdatedAt = time.Now()
	copied := *comment
	r.comments[comment.ID] = &copied
	return nil
}

func (r *fakeCommentRepo) DeactivateComment(_ context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return repositories.ErrNotFound
	}
	comment, ok := r.comments[objID]
	if !ok || !comment.IsActive {
		return repositories.ErrNotFound
	}
	comment.IsActive = false
	return nil
}

type likeKey struct {
	userID     primitive.ObjectID
	targetType models.TargetType
	targetID   primitive.ObjectID
}

// fakeLikeRepo implements the same 2-state toggle machine as the Mongo
// repository, adjusting counters on the shared post/comment fakes.
type fakeLikeRepo struct {
	likes    map[likeKey]*models.Like
	posts    *fakePostRepo
	comments *fakeCommentRepo
}

func newFakeLikeRepo(posts *fakePostRepo, comments *fakeCommentRepo) *fakeLikeRepo {
	return &fakeLikeRepo{
		likes:    make(map[likeKey]*models.Like),
		posts:    posts,
		comments: comments,
	}
}

func (r *fakeLikeRepo) ToggleLike(_ context.Context, userID string, targetType models.TargetType, targetID string) (*models.Like, string, error) {
	userObjID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, "", repositories.ErrNotFound
	}
	targetObjID, err := primitive.ObjectIDFromHex(targetID)
	if err != nil {
		return nil, "", repositories.ErrNotFound
	}
	if !r.targetActive(targetType, targetObjID) {
		return nil, "", repositories.ErrNotFound
	}

	key := likeKey{userID: userObjID, targetType: targetType, targetID: targetObjID}
	now := time.Now()

	like, ok := r.likes[key]
	var action string
	var delta int64
	if !ok {
		like = &models.Like{
			ID:         primitive.NewObjectID(),
			UserID:     userObjID,
			TargetType: targetType,
			TargetID:   targetObjID,
			IsActive:   true,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		r.likes[key] = like
		action = models.ActionLiked
		delta = 1
	} else {
		like.IsActive = !like.IsActive
		like.UpdatedAt = now
		if like.IsActive {
			action = models.ActionLiked
			delta = 1
		} else {
			action = models.ActionUnliked
			delta = -1
		}
	}

	r.adjustCounter(targetType, targetObjID, delta)
	copied := *like
	return &copied, action, nil
}

func (r *fakeLikeRepo) targetActive(targetType models.TargetType, id primitive.ObjectID) bool {
	if targetType == models.TargetComment {
		comment, ok := r.comments.comments[id]
		return ok && comment.IsActive
	}
	post, ok := r.posts.posts[id]
	return ok && post.IsActive
}

func (r *fakeLikeRepo) adjustCounter(targetType models.TargetType, id primitive.ObjectID, delta int64) {
	if targetType == models.TargetComment {
		if comment, ok := r.comments.comments[id]; ok {
			comment.LikesCount += delta
			if comment.LikesCount < 0 {
				comment.LikesCount = 0
			}
		}
		return
	}
	if post, ok := r.posts.posts[id]; ok {
		post.LikesCount += delta
		if post.LikesCount < 0 {
			post.LikesCount = 0
		}
	}
}

func (r *fakeLikeRepo) GetLike(_ context.Context, userID string, targetType models.TargetType, targetID string) (*models.Like, error) {
	userObjID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, repositories.ErrNotFound
	}
	targetObjID, err := primitive.ObjectIDFromHex(targetID)
	if err != nil {
		return nil, repositories.ErrNotFound
	}
	like, ok := r.likes[likeKey{userID: userObjID, targetType: targetType, targetID: targetObjID}]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *like
	return &copied, nil
}

func (r *fakeLikeRepo) ListLikesByTarget(_ context.Context, targetType models.TargetType, targetID string, page, limit int) ([]models.Like, int64, error) {
	targetObjID, err := primitive.ObjectIDFromHex(targetID)
	if err != nil {
		return nil, 0, repositories.ErrNotFound
	}
	var matched []models.Like
	for _, like := range r.likes {
		if like.IsActive && like.TargetType == targetType && like.TargetID == targetObjID {
			matched = append(matched, *like)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].UpdatedAt.After(matched[j].UpdatedAt)
	})

	total := int64(len(matched))
	start := (page - 1) * limit
	if start >= len(matched) {
		return []models.Like{}, total, nil
	}
	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (r *fakeLikeRepo) RecountEngagement(_ context.Context) error {
	for _, post := range r.posts.posts {
		post.LikesCount = 0
	}
	for _, comment := range r.comments.comments {
		comment.LikesCount = 0
	}
	for _, like := range r.likes {
		if like.IsActive {
			r.adjustCounter(like.TargetType, like.TargetID, 1)
		}
	}
	return nil
}
