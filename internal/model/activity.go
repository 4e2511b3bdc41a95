package model

import "time"

// ActivityItem is a reply to one of the viewer's threads written by someone else.
type ActivityItem struct {
	ID        int64       `json:"id"`
	ParentID  int64       `json:"parent_id"`
	Text      string      `json:"text"`
	CreatedAt time.Time   `json:"created_at"`
	Author    UserSummary `json:"author"`
	Link      string      `json:"link"`
}

// NewActivityItem projects a reply thread for display.
func NewActivityItem(reply Thread) ActivityItem {
	item := ActivityItem{
		ID:        reply.ID,
		Text:      reply.Text,
		CreatedAt: reply.CreatedAt,
	}
	if reply.ParentID != nil {
		item.ParentID = *reply.ParentID
		item.Link = ThreadPath(*reply.ParentID)
	}
	if reply.Author != nil {
		item.Author = *reply.Author
	}
	return item
}

// ActivityResponse is the activity page payload.
type ActivityResponse struct {
	Items   []ActivityItem `json:"items"`
	Message string         `json:"message,omitempty"`
}

// Navigation targets
const (
	OnboardingPath       = "/onboarding"
	EmptyActivityMessage = "No activity yet"
)
