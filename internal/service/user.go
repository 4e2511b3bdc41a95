package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"threadline/internal/model"
	"threadline/internal/repository"
)

// Revalidator marks cached renders of a path as stale.
type Revalidator interface {
	RevalidatePath(ctx context.Context, path string) error
}

// UserService handles business logic for user operations
type UserService struct {
	repo        repository.UserRepository
	threadRepo  repository.ThreadRepository
	revalidator Revalidator

	defaultImage string
}

func NewUserService(repo repository.UserRepository, threadRepo repository.ThreadRepository, revalidator Revalidator) *UserService {
	return &UserService{
		repo:        repo,
		threadRepo:  threadRepo,
		revalidator: revalidator,
	}
}

// SetDefaultImage sets the avatar saved for profiles submitted without an image.
func (s *UserService) SetDefaultImage(url string) {
	s.defaultImage = url
}

// FetchUser returns the profile for an identity-provider user ID.
// A user who never saved a profile yields (nil, nil).
func (s *UserService) FetchUser(ctx context.Context, externalID string) (*model.User, error) {
	user, err := s.repo.GetByExternalID(ctx, externalID)
	if errors.Is(err, model.ErrUserNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetch user: %w", err)
	}
	return user, nil
}

// FetchUserPosts returns the user with their posts, each post carrying its direct
// replies and each reply its author. Replies are not expanded further.
func (s *UserService) FetchUserPosts(ctx context.Context, externalID string) (*model.User, error) {
	user, err := s.repo.GetByExternalID(ctx, externalID)
	if errors.Is(err, model.ErrUserNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetch user posts: %w", err)
	}

	threads, err := s.threadRepo.GetTopLevelByAuthor(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("fetch user posts: %w", err)
	}

	if err := attachChildren(ctx, s.threadRepo, threads); err != nil {
		return nil, fmt.Errorf("fetch user posts: %w", err)
	}

	user.Threads = threads
	return user, nil
}

// FetchUsers lists everyone but the caller, optionally filtered by a case-insensitive
// substring of username or name.
func (s *UserService) FetchUsers(ctx context.Context, params model.FetchUsersParams) (*model.UserListResponse, error) {
	startTime := time.Now()

	pageNumber := params.PageNumber
	if pageNumber < 1 {
		pageNumber = model.DefaultPageNumber
	}
	pageSize := normalizePageSize(params.PageSize)

	sortBy := params.SortBy
	if sortBy == "" {
		sortBy = model.SortDesc
	}
	if sortBy != model.SortAsc && sortBy != model.SortDesc {
		return nil, model.ErrInvalidSortOrder
	}

	skip, ok := pageOffset(pageNumber, pageSize)
	if !ok {
		return &model.UserListResponse{Users: []model.User{}}, nil
	}

	users, total, err := s.repo.List(ctx, repository.UserFilter{
		ExcludeExternalID: params.UserID,
		Search:            params.SearchString,
		Offset:            skip,
		Limit:             pageSize,
		Sort:              sortBy,
	})
	if err != nil {
		log.Printf("[UserService] FetchUsers FAILED: user=%s search=%q page=%d err=%v",
			params.UserID, params.SearchString, pageNumber, err)
		return nil, fmt.Errorf("fetch users: %w", err)
	}

	log.Printf("[UserService] FetchUsers OK: user=%s search=%q page=%d returned=%d total=%d duration=%v",
		params.UserID, params.SearchString, pageNumber, len(users), total, time.Since(startTime))

	return &model.UserListResponse{
		Users:  users,
		IsNext: total > skip+len(users),
	}, nil
}

// UpdateUser saves the caller's profile, creating it on first save, and marks the
// user onboarded. Saving from the profile edit page revalidates that page.
func (s *UserService) UpdateUser(ctx context.Context, req *model.UpdateUserRequest) (*model.User, error) {
	if strings.TrimSpace(req.UserID) == "" {
		return nil, model.ErrUserIDRequired
	}

	username := strings.ToLower(strings.TrimSpace(req.Username))
	if username == "" {
		return nil, model.ErrUsernameRequired
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, model.ErrNameRequired
	}
	if len(username) > model.MaxUsernameLength || len(name) > model.MaxNameLength ||
		(req.Bio != nil && len(*req.Bio) > model.MaxBioLength) {
		return nil, model.ErrProfileTooLong
	}

	image := strings.TrimSpace(req.Image)
	if image == "" {
		image = s.defaultImage
	}

	user := &model.User{
		ExternalID: req.UserID,
		Username:   username,
		Name:       name,
		Bio:        req.Bio,
		Image:      image,
	}

	if err := s.repo.Upsert(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if req.Path == model.ProfileEditPath && s.revalidator != nil {
		if err := s.revalidator.RevalidatePath(ctx, req.Path); err != nil {
			// The profile is saved; a stale render only lasts until the next bump
			log.Printf("[UserService] UpdateUser revalidate FAILED: user=%s path=%s err=%v", req.UserID, req.Path, err)
		}
	}

	return user, nil
}

func normalizePageSize(pageSize int) int {
	if pageSize < 1 {
		return model.DefaultPageSize
	}
	return pageSize
}

// pageOffset returns (pageNumber-1)*pageSize. ok is false when the offset
// does not fit in an int; such a page is always empty.
func pageOffset(pageNumber, pageSize int) (offset int, ok bool) {
	if pageNumber-1 > math.MaxInt/pageSize {
		return 0, false
	}
	return (pageNumber - 1) * pageSize, true
}
