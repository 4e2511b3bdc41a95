package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"threadline/internal/model"
)

func TestDeviceRegister(t *testing.T) {
	var got *model.RegisterTokenRequest
	devices := &stubDeviceService{
		RegisterFunc: func(ctx context.Context, userID int64, req *model.RegisterTokenRequest) error {
			assert.Equal(t, int64(7), userID)
			got = req
			return nil
		},
	}
	h := NewDeviceHandler(onboardedUsers(&model.User{ID: 7, Onboarded: true}), devices)

	body := `{"token":"fcm-token","platform":"android"}`
	req := withCaller(httptest.NewRequest(http.MethodPost, "/devices", strings.NewReader(body)), "user_a")
	rec := httptest.NewRecorder()
	h.Register(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	require.NotNil(t, got)
	assert.Equal(t, "fcm-token", got.Token)
	assert.Equal(t, model.PlatformAndroid, got.Platform)
}

func TestDeviceRegister_InvalidPlatform(t *testing.T) {
	devices := &stubDeviceService{
		RegisterFunc: func(ctx context.Context, userID int64, req *model.RegisterTokenRequest) error {
			return model.ErrInvalidPlatform
		},
	}
	h := NewDeviceHandler(onboardedUsers(&model.User{ID: 7, Onboarded: true}), devices)

	body := `{"token":"fcm-token","platform":"symbian"}`
	req := withCaller(httptest.NewRequest(http.MethodPost, "/devices", strings.NewReader(body)), "user_a")
	rec := httptest.NewRecorder()
	h.Register(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeviceRemove(t *testing.T) {
	var gotToken string
	devices := &stubDeviceService{
		RemoveFunc: func(ctx context.Context, userID int64, token string) error {
			gotToken = token
			return nil
		},
	}
	h := NewDeviceHandler(onboardedUsers(&model.User{ID: 7, Onboarded: true}), devices)

	req := withCaller(httptest.NewRequest(http.MethodDelete, "/devices", strings.NewReader(`{"token":"fcm-token"}`)), "user_a")
	rec := httptest.NewRecorder()
	h.Remove(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "fcm-token", gotToken)
}
