package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"unicode/utf8"

	"threadline/internal/model"
	"threadline/internal/repository"
)

// ReplyPublisher announces new replies to the activity workers.
type ReplyPublisher interface {
	PublishReplyCreated(ctx context.Context, threadID, parentID, actorID, recipientID int64) error
}

// ThreadService handles posting threads and replies.
type ThreadService struct {
	repo      repository.ThreadRepository
	publisher ReplyPublisher // nil when Redis is unavailable
}

func NewThreadService(repo repository.ThreadRepository, publisher ReplyPublisher) *ThreadService {
	return &ThreadService{
		repo:      repo,
		publisher: publisher,
	}
}

// CreateThread posts a new top-level thread.
func (s *ThreadService) CreateThread(ctx context.Context, authorID int64, text string) (*model.Thread, error) {
	text, err := validateThreadText(text)
	if err != nil {
		return nil, err
	}

	thread, err := s.repo.Create(ctx, authorID, text)
	if err != nil {
		return nil, fmt.Errorf("failed to create thread: %w", err)
	}
	return thread, nil
}

// AddReply posts a reply under parentID and notifies the parent's author.
func (s *ThreadService) AddReply(ctx context.Context, parentID, authorID int64, text string) (*model.Thread, error) {
	text, err := validateThreadText(text)
	if err != nil {
		return nil, err
	}

	parent, err := s.repo.GetByID(ctx, parentID)
	if err != nil {
		return nil, err
	}

	reply, err := s.repo.CreateReply(ctx, parentID, authorID, text)
	if err != nil {
		return nil, fmt.Errorf("failed to add reply: %w", err)
	}

	// The reply is committed; notification is best effort
	if s.publisher != nil {
		if err := s.publisher.PublishReplyCreated(ctx, reply.ID, parentID, authorID, parent.AuthorID); err != nil {
			log.Printf("[ThreadService] AddReply publish FAILED: reply=%d parent=%d err=%v", reply.ID, parentID, err)
		}
	}

	return reply, nil
}

// FetchThread returns a thread with its author and its direct replies.
func (s *ThreadService) FetchThread(ctx context.Context, id int64) (*model.Thread, error) {
	thread, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	threads := []model.Thread{*thread}
	if err := attachChildren(ctx, s.repo, threads); err != nil {
		return nil, fmt.Errorf("fetch thread: %w", err)
	}
	return &threads[0], nil
}

// FetchPosts returns one page of top-level threads, newest first.
func (s *ThreadService) FetchPosts(ctx context.Context, pageNumber, pageSize int) (*model.ThreadListResponse, error) {
	if pageNumber < 1 {
		pageNumber = model.DefaultPageNumber
	}
	pageSize = normalizePageSize(pageSize)
	skip, ok := pageOffset(pageNumber, pageSize)
	if !ok {
		return &model.ThreadListResponse{Threads: []model.Thread{}}, nil
	}

	threads, total, err := s.repo.ListTopLevel(ctx, skip, pageSize)
	if err != nil {
		return nil, fmt.Errorf("fetch posts: %w", err)
	}

	if err := attachChildren(ctx, s.repo, threads); err != nil {
		return nil, fmt.Errorf("fetch posts: %w", err)
	}

	return &model.ThreadListResponse{
		Threads: threads,
		IsNext:  total > skip+len(threads),
	}, nil
}

// attachChildren loads the direct replies of every thread in one query and fills
// Children in ChildIDs order.
func attachChildren(ctx context.Context, repo repository.ThreadRepository, threads []model.Thread) error {
	var ids []int64
	for _, t := range threads {
		ids = append(ids, t.ChildIDs...)
	}
	if len(ids) == 0 {
		return nil
	}

	children, err := repo.GetByIDsWithAuthor(ctx, ids, 0)
	if err != nil {
		return err
	}

	byID := make(map[int64]model.Thread, len(children))
	for _, c := range children {
		byID[c.ID] = c
	}

	for i := range threads {
		for _, id := range threads[i].ChildIDs {
			if child, ok := byID[id]; ok {
				threads[i].Children = append(threads[i].Children, child)
			}
		}
	}
	return nil
}

func validateThreadText(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", model.ErrThreadTextRequired
	}
	if utf8.RuneCountInString(text) > model.MaxThreadTextLength {
		return "", model.ErrThreadTextTooLong
	}
	return text, nil
}
