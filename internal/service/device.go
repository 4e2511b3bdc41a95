package service

import (
	"context"
	"strings"

	"threadline/internal/model"
	"threadline/internal/repository"
)

// DeviceService registers the devices push notifications go to.
type DeviceService struct {
	tokenRepo repository.DeviceTokenRepository
}

func NewDeviceService(tokenRepo repository.DeviceTokenRepository) *DeviceService {
	return &DeviceService{tokenRepo: tokenRepo}
}

// Register stores an FCM token for the user; re-registering the same token is a no-op update.
func (s *DeviceService) Register(ctx context.Context, userID int64, req *model.RegisterTokenRequest) error {
	token := strings.TrimSpace(req.Token)
	if token == "" {
		return model.ErrDeviceTokenRequired
	}
	if !model.IsValidPlatform(req.Platform) {
		return model.ErrInvalidPlatform
	}
	return s.tokenRepo.Upsert(ctx, userID, token, req.Platform)
}

// Remove forgets a token, typically on logout.
func (s *DeviceService) Remove(ctx context.Context, userID int64, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return model.ErrDeviceTokenRequired
	}
	return s.tokenRepo.Delete(ctx, userID, token)
}
