package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"threadline/internal/handler"
	"threadline/internal/model"
)

const testSecret = "router-secret"

// profileStore serves a single known profile.
type profileStore struct {
	user *model.User
}

func (s *profileStore) FetchUser(ctx context.Context, externalID string) (*model.User, error) {
	if s.user != nil && s.user.ExternalID == externalID {
		return s.user, nil
	}
	return nil, nil
}

func (s *profileStore) FetchUserPosts(ctx context.Context, externalID string) (*model.User, error) {
	return s.FetchUser(ctx, externalID)
}

func (s *profileStore) FetchUsers(ctx context.Context, params model.FetchUsersParams) (*model.UserListResponse, error) {
	return &model.UserListResponse{Users: []model.User{}}, nil
}

func (s *profileStore) UpdateUser(ctx context.Context, req *model.UpdateUserRequest) (*model.User, error) {
	return nil, nil
}

func newTestRouter(users handler.UserService) http.Handler {
	return NewRouter(RouterConfig{
		UserHandler:     handler.NewUserHandler(users, nil),
		ActivityHandler: handler.NewActivityHandler(users, nil),
		ThreadHandler:   handler.NewThreadHandler(users, nil),
		MediaHandler:    handler.NewMediaHandler(nil),
		DeviceHandler:   handler.NewDeviceHandler(users, nil),
		JWTSecret:       testSecret,
	})
}

func bearer(t *testing.T, subject string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": subject,
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return "Bearer " + token
}

func TestRouter(t *testing.T) {
	users := &profileStore{user: &model.User{ID: 1, ExternalID: "user_a", Username: "alice", Onboarded: true}}
	router := newTestRouter(users)

	tests := []struct {
		name       string
		method     string
		path       string
		subject    string
		wantStatus int
		wantHeader map[string]string
	}{
		{name: "health", method: http.MethodGet, path: "/health", wantStatus: http.StatusOK},
		{name: "metrics", method: http.MethodGet, path: "/metrics", wantStatus: http.StatusOK},
		{name: "public profile", method: http.MethodGet, path: "/users/user_a", wantStatus: http.StatusOK},
		{name: "unknown profile", method: http.MethodGet, path: "/users/user_x", wantStatus: http.StatusNotFound},
		{name: "activity needs auth", method: http.MethodGet, path: "/activity", wantStatus: http.StatusUnauthorized},
		{name: "me needs auth", method: http.MethodGet, path: "/me", wantStatus: http.StatusUnauthorized},
		{name: "me", method: http.MethodGet, path: "/me", subject: "user_a", wantStatus: http.StatusOK},
		{
			name:       "activity without profile",
			method:     http.MethodGet,
			path:       "/activity",
			subject:    "user_new",
			wantStatus: http.StatusSeeOther,
			wantHeader: map[string]string{"Location": model.OnboardingPath},
		},
		{name: "avatar upload disabled", method: http.MethodPost, path: "/media/avatar", subject: "user_a", wantStatus: http.StatusServiceUnavailable},
		{name: "unknown route", method: http.MethodGet, path: "/feed", wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.subject != "" {
				req.Header.Set("Authorization", bearer(t, tt.subject))
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			for k, v := range tt.wantHeader {
				assert.Equal(t, v, rec.Header().Get(k))
			}
		})
	}
}
