package handler

import (
	"errors"
	"log"
	"net/http"

	"threadline/internal/httputil"
	"threadline/internal/model"
	"threadline/internal/transport/http/middleware"
)

// multipartOverhead leaves room for form boundaries around the file.
const multipartOverhead = 1 << 20

type MediaHandler struct {
	media MediaService // nil when R2 is not configured
}

func NewMediaHandler(media MediaService) *MediaHandler {
	return &MediaHandler{media: media}
}

// UploadAvatar handles POST /media/avatar (multipart field "avatar").
func (h *MediaHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetUserIDFromContext(r.Context()); !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}
	if h.media == nil {
		httputil.WriteUnavailable(w, "Media storage is not configured")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, model.MaxAvatarSizeBytes+multipartOverhead)
	if err := r.ParseMultipartForm(model.MaxAvatarSizeBytes + multipartOverhead); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			httputil.WriteBadRequestWithCode(w, model.CodeFileTooLarge, "Avatar exceeds 5MB limit")
			return
		}
		httputil.WriteBadRequest(w, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("avatar")
	if err != nil {
		httputil.WriteBadRequest(w, "avatar file is required")
		return
	}
	defer file.Close()

	result, err := h.media.UploadAvatar(r.Context(), file, header)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrFileTooLarge):
			httputil.WriteBadRequestWithCode(w, model.CodeFileTooLarge, "Avatar exceeds 5MB limit")
		case errors.Is(err, model.ErrInvalidImageType):
			httputil.WriteBadRequestWithCode(w, model.CodeInvalidImageType, "Unsupported image type. Allowed: jpeg, png, gif, webp")
		default:
			log.Printf("[ERROR] UploadAvatar handler: %v", err)
			httputil.WriteInternalError(w, "Failed to upload avatar")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, result)
}
