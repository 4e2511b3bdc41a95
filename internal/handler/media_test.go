package handler

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"threadline/internal/model"
)

func multipartAvatar(t *testing.T, field string, content []byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(field, "avatar.png")
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/media/avatar", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUploadAvatar_Disabled(t *testing.T) {
	h := NewMediaHandler(nil)

	req := withCaller(multipartAvatar(t, "avatar", []byte("png")), "user_a")
	rec := httptest.NewRecorder()
	h.UploadAvatar(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestUploadAvatar_Unauthenticated(t *testing.T) {
	h := NewMediaHandler(&stubMediaService{})

	rec := httptest.NewRecorder()
	h.UploadAvatar(rec, multipartAvatar(t, "avatar", []byte("png")))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUploadAvatar(t *testing.T) {
	tests := []struct {
		name       string
		field      string
		err        error
		wantStatus int
		wantCode   string
	}{
		{name: "uploaded", field: "avatar", wantStatus: http.StatusCreated},
		{name: "missing field", field: "file", wantStatus: http.StatusBadRequest},
		{name: "too large", field: "avatar", err: model.ErrFileTooLarge, wantStatus: http.StatusBadRequest, wantCode: model.CodeFileTooLarge},
		{name: "bad type", field: "avatar", err: model.ErrInvalidImageType, wantStatus: http.StatusBadRequest, wantCode: model.CodeInvalidImageType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			media := &stubMediaService{
				UploadAvatarFunc: func(ctx context.Context, file multipart.File, header *multipart.FileHeader) (*model.UploadResult, error) {
					data, err := io.ReadAll(file)
					require.NoError(t, err)
					assert.Equal(t, "png-bytes", string(data))
					if tt.err != nil {
						return nil, tt.err
					}
					return &model.UploadResult{URL: "https://cdn.example.com/avatars/x.jpg", Key: "avatars/x.jpg"}, nil
				},
			}
			h := NewMediaHandler(media)

			req := withCaller(multipartAvatar(t, tt.field, []byte("png-bytes")), "user_a")
			rec := httptest.NewRecorder()
			h.UploadAvatar(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantCode != "" {
				assert.Contains(t, rec.Body.String(), tt.wantCode)
			}
		})
	}
}
