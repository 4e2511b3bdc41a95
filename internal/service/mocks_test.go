package service

import (
	"context"

	"threadline/internal/model"
	"threadline/internal/repository"
)

// =============================================================================
// MOCK REPOSITORIES
// =============================================================================
//
// Services depend on repository interfaces, so each test swaps in a mock whose
// behavior is set per test through function fields.

type mockUserRepository struct {
	getByExternalIDFn func(ctx context.Context, externalID string) (*model.User, error)
	getByIDFn         func(ctx context.Context, id int64) (*model.User, error)
	listFn            func(ctx context.Context, filter repository.UserFilter) ([]model.User, int, error)
	upsertFn          func(ctx context.Context, user *model.User) error

	// Track calls for assertions
	listCalls   []repository.UserFilter
	upsertCalls []model.User
}

func (m *mockUserRepository) GetByExternalID(ctx context.Context, externalID string) (*model.User, error) {
	if m.getByExternalIDFn != nil {
		return m.getByExternalIDFn(ctx, externalID)
	}
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepository) List(ctx context.Context, filter repository.UserFilter) ([]model.User, int, error) {
	m.listCalls = append(m.listCalls, filter)
	if m.listFn != nil {
		return m.listFn(ctx, filter)
	}
	return []model.User{}, 0, nil
}

func (m *mockUserRepository) Upsert(ctx context.Context, user *model.User) error {
	m.upsertCalls = append(m.upsertCalls, *user)
	if m.upsertFn != nil {
		return m.upsertFn(ctx, user)
	}
	return nil
}

type mockThreadRepository struct {
	createFn              func(ctx context.Context, authorID int64, text string) (*model.Thread, error)
	createReplyFn         func(ctx context.Context, parentID, authorID int64, text string) (*model.Thread, error)
	getByIDFn             func(ctx context.Context, id int64) (*model.Thread, error)
	getByAuthorFn         func(ctx context.Context, authorID int64) ([]model.Thread, error)
	getTopLevelByAuthorFn func(ctx context.Context, authorID int64) ([]model.Thread, error)
	getByIDsWithAuthorFn  func(ctx context.Context, ids []int64, excludeAuthorID int64) ([]model.Thread, error)
	listTopLevelFn        func(ctx context.Context, offset, limit int) ([]model.Thread, int, error)

	getByIDsCalls   [][]int64
	createReplyCall int
}

func (m *mockThreadRepository) Create(ctx context.Context, authorID int64, text string) (*model.Thread, error) {
	if m.createFn != nil {
		return m.createFn(ctx, authorID, text)
	}
	return &model.Thread{ID: 1, AuthorID: authorID, Text: text}, nil
}

func (m *mockThreadRepository) CreateReply(ctx context.Context, parentID, authorID int64, text string) (*model.Thread, error) {
	m.createReplyCall++
	if m.createReplyFn != nil {
		return m.createReplyFn(ctx, parentID, authorID, text)
	}
	return &model.Thread{ID: 100, AuthorID: authorID, ParentID: &parentID, Text: text}, nil
}

func (m *mockThreadRepository) GetByID(ctx context.Context, id int64) (*model.Thread, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, model.ErrThreadNotFound
}

func (m *mockThreadRepository) GetByAuthor(ctx context.Context, authorID int64) ([]model.Thread, error) {
	if m.getByAuthorFn != nil {
		return m.getByAuthorFn(ctx, authorID)
	}
	return []model.Thread{}, nil
}

func (m *mockThreadRepository) GetTopLevelByAuthor(ctx context.Context, authorID int64) ([]model.Thread, error) {
	if m.getTopLevelByAuthorFn != nil {
		return m.getTopLevelByAuthorFn(ctx, authorID)
	}
	return []model.Thread{}, nil
}

func (m *mockThreadRepository) GetByIDsWithAuthor(ctx context.Context, ids []int64, excludeAuthorID int64) ([]model.Thread, error) {
	m.getByIDsCalls = append(m.getByIDsCalls, ids)
	if m.getByIDsWithAuthorFn != nil {
		return m.getByIDsWithAuthorFn(ctx, ids, excludeAuthorID)
	}
	return []model.Thread{}, nil
}

func (m *mockThreadRepository) ListTopLevel(ctx context.Context, offset, limit int) ([]model.Thread, int, error) {
	if m.listTopLevelFn != nil {
		return m.listTopLevelFn(ctx, offset, limit)
	}
	return []model.Thread{}, 0, nil
}

type mockDeviceTokenRepository struct {
	devices     map[int64][]model.DeviceToken
	upsertCalls []string
	deleted     []string
	getErr      error
}

func (m *mockDeviceTokenRepository) Upsert(ctx context.Context, userID int64, token, platform string) error {
	m.upsertCalls = append(m.upsertCalls, token)
	return nil
}

func (m *mockDeviceTokenRepository) GetByUserID(ctx context.Context, userID int64) ([]model.DeviceToken, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.devices[userID], nil
}

func (m *mockDeviceTokenRepository) Delete(ctx context.Context, userID int64, token string) error {
	m.deleted = append(m.deleted, token)
	return nil
}

// =============================================================================
// MOCK COLLABORATORS
// =============================================================================

type mockRevalidator struct {
	paths []string
	err   error
}

func (m *mockRevalidator) RevalidatePath(ctx context.Context, path string) error {
	m.paths = append(m.paths, path)
	return m.err
}

type publishedReply struct {
	threadID, parentID, actorID, recipientID int64
}

type mockReplyPublisher struct {
	published []publishedReply
	err       error
}

func (m *mockReplyPublisher) PublishReplyCreated(ctx context.Context, threadID, parentID, actorID, recipientID int64) error {
	m.published = append(m.published, publishedReply{threadID, parentID, actorID, recipientID})
	return m.err
}

// int64Ptr is a helper for optional parent IDs
func int64Ptr(v int64) *int64 {
	return &v
}
