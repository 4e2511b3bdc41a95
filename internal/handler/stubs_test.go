package handler

import (
	"context"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"

	"threadline/internal/model"
	"threadline/internal/transport/http/middleware"
)

type stubUserService struct {
	FetchUserFunc      func(ctx context.Context, externalID string) (*model.User, error)
	FetchUserPostsFunc func(ctx context.Context, externalID string) (*model.User, error)
	FetchUsersFunc     func(ctx context.Context, params model.FetchUsersParams) (*model.UserListResponse, error)
	UpdateUserFunc     func(ctx context.Context, req *model.UpdateUserRequest) (*model.User, error)
}

func (s *stubUserService) FetchUser(ctx context.Context, externalID string) (*model.User, error) {
	if s.FetchUserFunc != nil {
		return s.FetchUserFunc(ctx, externalID)
	}
	return nil, nil
}

func (s *stubUserService) FetchUserPosts(ctx context.Context, externalID string) (*model.User, error) {
	if s.FetchUserPostsFunc != nil {
		return s.FetchUserPostsFunc(ctx, externalID)
	}
	return nil, nil
}

func (s *stubUserService) FetchUsers(ctx context.Context, params model.FetchUsersParams) (*model.UserListResponse, error) {
	if s.FetchUsersFunc != nil {
		return s.FetchUsersFunc(ctx, params)
	}
	return &model.UserListResponse{}, nil
}

func (s *stubUserService) UpdateUser(ctx context.Context, req *model.UpdateUserRequest) (*model.User, error) {
	if s.UpdateUserFunc != nil {
		return s.UpdateUserFunc(ctx, req)
	}
	return nil, nil
}

// onboardedUsers returns a user service whose caller has a finished profile.
func onboardedUsers(user *model.User) *stubUserService {
	return &stubUserService{
		FetchUserFunc: func(ctx context.Context, externalID string) (*model.User, error) {
			return user, nil
		},
	}
}

type stubActivityService struct {
	GetActivityFunc func(ctx context.Context, userID int64) ([]model.ActivityItem, error)
	UnreadCountFunc func(ctx context.Context, userID int64) (int64, error)
	MarkSeenFunc    func(ctx context.Context, userID int64) error
	PathVersionFunc func(ctx context.Context, path string) (int64, error)

	markSeenCalls int
}

func (s *stubActivityService) GetActivity(ctx context.Context, userID int64) ([]model.ActivityItem, error) {
	if s.GetActivityFunc != nil {
		return s.GetActivityFunc(ctx, userID)
	}
	return nil, nil
}

func (s *stubActivityService) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	if s.UnreadCountFunc != nil {
		return s.UnreadCountFunc(ctx, userID)
	}
	return 0, nil
}

func (s *stubActivityService) MarkSeen(ctx context.Context, userID int64) error {
	s.markSeenCalls++
	if s.MarkSeenFunc != nil {
		return s.MarkSeenFunc(ctx, userID)
	}
	return nil
}

func (s *stubActivityService) PathVersion(ctx context.Context, path string) (int64, error) {
	if s.PathVersionFunc != nil {
		return s.PathVersionFunc(ctx, path)
	}
	return 0, nil
}

type stubThreadService struct {
	CreateThreadFunc func(ctx context.Context, authorID int64, text string) (*model.Thread, error)
	AddReplyFunc     func(ctx context.Context, parentID, authorID int64, text string) (*model.Thread, error)
	FetchThreadFunc  func(ctx context.Context, id int64) (*model.Thread, error)
	FetchPostsFunc   func(ctx context.Context, pageNumber, pageSize int) (*model.ThreadListResponse, error)
}

func (s *stubThreadService) CreateThread(ctx context.Context, authorID int64, text string) (*model.Thread, error) {
	if s.CreateThreadFunc != nil {
		return s.CreateThreadFunc(ctx, authorID, text)
	}
	return &model.Thread{AuthorID: authorID, Text: text}, nil
}

func (s *stubThreadService) AddReply(ctx context.Context, parentID, authorID int64, text string) (*model.Thread, error) {
	if s.AddReplyFunc != nil {
		return s.AddReplyFunc(ctx, parentID, authorID, text)
	}
	return &model.Thread{AuthorID: authorID, ParentID: &parentID, Text: text}, nil
}

func (s *stubThreadService) FetchThread(ctx context.Context, id int64) (*model.Thread, error) {
	if s.FetchThreadFunc != nil {
		return s.FetchThreadFunc(ctx, id)
	}
	return &model.Thread{ID: id}, nil
}

func (s *stubThreadService) FetchPosts(ctx context.Context, pageNumber, pageSize int) (*model.ThreadListResponse, error) {
	if s.FetchPostsFunc != nil {
		return s.FetchPostsFunc(ctx, pageNumber, pageSize)
	}
	return &model.ThreadListResponse{Threads: []model.Thread{}}, nil
}

type stubMediaService struct {
	UploadAvatarFunc func(ctx context.Context, file multipart.File, header *multipart.FileHeader) (*model.UploadResult, error)
}

func (s *stubMediaService) UploadAvatar(ctx context.Context, file multipart.File, header *multipart.FileHeader) (*model.UploadResult, error) {
	return s.UploadAvatarFunc(ctx, file, header)
}

type stubDeviceService struct {
	RegisterFunc func(ctx context.Context, userID int64, req *model.RegisterTokenRequest) error
	RemoveFunc   func(ctx context.Context, userID int64, token string) error
}

func (s *stubDeviceService) Register(ctx context.Context, userID int64, req *model.RegisterTokenRequest) error {
	if s.RegisterFunc != nil {
		return s.RegisterFunc(ctx, userID, req)
	}
	return nil
}

func (s *stubDeviceService) Remove(ctx context.Context, userID int64, token string) error {
	if s.RemoveFunc != nil {
		return s.RemoveFunc(ctx, userID, token)
	}
	return nil
}

func withCaller(r *http.Request, externalID string) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), middleware.UserIDKey, externalID))
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}
