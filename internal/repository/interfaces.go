package repository

import (
	"context"

	"threadline/internal/model"
)

// UserFilter narrows the users listing. Search is matched as a case-insensitive
// substring of username or name; a blank Search matches everyone.
type UserFilter struct {
	ExcludeExternalID string
	Search            string
	Offset            int
	Limit             int
	Sort              model.SortOrder
}

type UserRepository interface {
	GetByExternalID(ctx context.Context, externalID string) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
	// List returns one page of matching users and the total number of matches.
	List(ctx context.Context, filter UserFilter) ([]model.User, int, error)
	// Upsert inserts or updates the profile keyed by ExternalID and marks it onboarded.
	Upsert(ctx context.Context, user *model.User) error
}

type ThreadRepository interface {
	Create(ctx context.Context, authorID int64, text string) (*model.Thread, error)
	// CreateReply inserts a reply and appends it to the parent's children atomically.
	CreateReply(ctx context.Context, parentID, authorID int64, text string) (*model.Thread, error)
	GetByID(ctx context.Context, id int64) (*model.Thread, error)
	// GetByAuthor returns every thread the user wrote, replies included, oldest first.
	GetByAuthor(ctx context.Context, authorID int64) ([]model.Thread, error)
	// GetTopLevelByAuthor returns the user's own posts (no replies), oldest first.
	GetTopLevelByAuthor(ctx context.Context, authorID int64) ([]model.Thread, error)
	// GetByIDsWithAuthor returns the threads in ids with their author projection,
	// skipping threads written by excludeAuthorID when it is non-zero.
	GetByIDsWithAuthor(ctx context.Context, ids []int64, excludeAuthorID int64) ([]model.Thread, error)
	// ListTopLevel returns a page of posts newest first and the total number of posts.
	ListTopLevel(ctx context.Context, offset, limit int) ([]model.Thread, int, error)
}

type DeviceTokenRepository interface {
	// Upsert creates or updates a device token for a user
	Upsert(ctx context.Context, userID int64, token, platform string) error
	// GetByUserID returns all device tokens for a user
	GetByUserID(ctx context.Context, userID int64) ([]model.DeviceToken, error)
	// Delete removes a device token owned by the user
	Delete(ctx context.Context, userID int64, token string) error
}
