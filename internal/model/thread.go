package model

import (
	"errors"
	"fmt"
	"time"
)

// Thread is a post, or a reply when ParentID is set.
// ChildIDs lists direct replies in the order they were added.
type Thread struct {
	ID        int64     `db:"id" json:"id"`
	AuthorID  int64     `db:"author_id" json:"author_id"`
	ParentID  *int64    `db:"parent_id" json:"parent_id,omitempty"`
	Text      string    `db:"text" json:"text"`
	ChildIDs  []int64   `db:"-" json:"child_ids"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`

	// Joined fields (not in threads table)
	Author   *UserSummary `json:"author,omitempty"`
	Children []Thread     `json:"children,omitempty"`
}

// ThreadPath is where the UI shows a thread.
func ThreadPath(threadID int64) string {
	return fmt.Sprintf("/thread/%d", threadID)
}

// CreateThreadRequest is the request body for posting a thread or a reply.
type CreateThreadRequest struct {
	Text string `json:"text"`
}

// ThreadListResponse is one page of top-level threads.
type ThreadListResponse struct {
	Threads []Thread `json:"threads"`
	IsNext  bool     `json:"is_next"`
}

const (
	MaxThreadTextLength = 2200
)

var (
	ErrThreadNotFound     = errors.New("thread not found")
	ErrThreadTextRequired = errors.New("thread text is required")
	ErrThreadTextTooLong  = errors.New("thread text too long")
)
