package handler

import (
	"context"
	"mime/multipart"

	"threadline/internal/model"
)

// The handlers depend on these narrow views of the services so tests can stub them.

type UserService interface {
	FetchUser(ctx context.Context, externalID string) (*model.User, error)
	FetchUserPosts(ctx context.Context, externalID string) (*model.User, error)
	FetchUsers(ctx context.Context, params model.FetchUsersParams) (*model.UserListResponse, error)
	UpdateUser(ctx context.Context, req *model.UpdateUserRequest) (*model.User, error)
}

type ActivityService interface {
	GetActivity(ctx context.Context, userID int64) ([]model.ActivityItem, error)
	UnreadCount(ctx context.Context, userID int64) (int64, error)
	MarkSeen(ctx context.Context, userID int64) error
	PathVersion(ctx context.Context, path string) (int64, error)
}

type ThreadService interface {
	CreateThread(ctx context.Context, authorID int64, text string) (*model.Thread, error)
	AddReply(ctx context.Context, parentID, authorID int64, text string) (*model.Thread, error)
	FetchThread(ctx context.Context, id int64) (*model.Thread, error)
	FetchPosts(ctx context.Context, pageNumber, pageSize int) (*model.ThreadListResponse, error)
}

type MediaService interface {
	UploadAvatar(ctx context.Context, file multipart.File, header *multipart.FileHeader) (*model.UploadResult, error)
}

type DeviceService interface {
	Register(ctx context.Context, userID int64, req *model.RegisterTokenRequest) error
	Remove(ctx context.Context, userID int64, token string) error
}
