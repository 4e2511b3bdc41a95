package model

import (
	"errors"
	"time"
)

// User represents a profile keyed by the identity provider's user ID.
type User struct {
	ID         int64     `db:"id" json:"id"`
	ExternalID string    `db:"external_id" json:"external_id"`
	Username   string    `db:"username" json:"username"`
	Name       string    `db:"name" json:"name"`
	Bio        *string   `db:"bio" json:"bio"`
	Image      string    `db:"image" json:"image"`
	Onboarded  bool      `db:"onboarded" json:"onboarded"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`

	// Joined field, only set by FetchUserPosts
	Threads []Thread `json:"threads,omitempty"`
}

// UserSummary is the author projection attached to threads.
type UserSummary struct {
	ID         int64  `db:"id" json:"id"`
	ExternalID string `db:"external_id" json:"external_id,omitempty"`
	Name       string `db:"name" json:"name"`
	Image      string `db:"image" json:"image"`
}

// UpdateUserRequest carries the profile fields saved during onboarding or edit.
// Path is the page the save was made from.
type UpdateUserRequest struct {
	UserID   string  `json:"-"`
	Username string  `json:"username"`
	Name     string  `json:"name"`
	Bio      *string `json:"bio"`
	Image    string  `json:"image"`
	Path     string  `json:"path"`
}

// SortOrder is the direction of the users listing on creation time.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// ParseSortOrder accepts the usual spellings of a sort direction.
// An empty value means newest first.
func ParseSortOrder(s string) (SortOrder, error) {
	switch s {
	case "", "desc", "descending", "-1":
		return SortDesc, nil
	case "asc", "ascending", "1":
		return SortAsc, nil
	}
	return "", ErrInvalidSortOrder
}

// FetchUsersParams filters and paginates the user listing.
type FetchUsersParams struct {
	UserID       string
	SearchString string
	PageNumber   int
	PageSize     int
	SortBy       SortOrder
}

// UserListResponse is one page of users.
type UserListResponse struct {
	Users  []User `json:"users"`
	IsNext bool   `json:"is_next"`
}

// Listing defaults
const (
	DefaultPageNumber = 1
	DefaultPageSize   = 20

	MaxUsernameLength = 30
	MaxNameLength     = 50
	MaxBioLength      = 1000
)

// ProfileEditPath is the only path whose renders are revalidated after a profile save.
const ProfileEditPath = "/profile/edit"

var (
	// ErrUserNotFound is returned when a user cannot be found
	ErrUserNotFound = errors.New("user not found")

	// ErrUsernameExists is returned when another user already owns the username
	ErrUsernameExists = errors.New("username already exists")

	ErrUserIDRequired   = errors.New("user id is required")
	ErrUsernameRequired = errors.New("username is required")
	ErrNameRequired     = errors.New("name is required")
	ErrProfileTooLong   = errors.New("profile field too long")
	ErrInvalidSortOrder = errors.New("invalid sort order")
)
