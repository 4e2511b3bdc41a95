package model

import (
	"errors"
	"time"
)

// DeviceToken is a user's FCM registration token. A user may have several devices.
type DeviceToken struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"-"`
	Token     string    `db:"token" json:"-"`
	Platform  string    `db:"platform" json:"platform"` // "ios", "android", "web"
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// RegisterTokenRequest is the request body for registering or removing a device.
type RegisterTokenRequest struct {
	Token    string `json:"token"`
	Platform string `json:"platform"`
}

const (
	PlatformIOS     = "ios"
	PlatformAndroid = "android"
	PlatformWeb     = "web"
)

var (
	ErrDeviceTokenRequired = errors.New("device token is required")
	ErrInvalidPlatform     = errors.New("invalid platform")
)

// IsValidPlatform reports whether platform is one push can target.
func IsValidPlatform(platform string) bool {
	switch platform {
	case PlatformIOS, PlatformAndroid, PlatformWeb:
		return true
	}
	return false
}
