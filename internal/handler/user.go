package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"threadline/internal/httputil"
	"threadline/internal/model"
	"threadline/internal/transport/http/middleware"
)

type UserHandler struct {
	users    UserService
	activity ActivityService
}

func NewUserHandler(users UserService, activity ActivityService) *UserHandler {
	return &UserHandler{
		users:    users,
		activity: activity,
	}
}

// Me handles GET /me
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := requireOnboarded(w, r, h.users)
	if !ok {
		return
	}
	httputil.WriteJSON(w, http.StatusOK, user)
}

// GetUser handles GET /users/{id}; id is the identity provider's user ID.
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.FetchUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		log.Printf("[ERROR] GetUser handler: %v", err)
		httputil.WriteInternalError(w, "Failed to load user")
		return
	}
	if user == nil {
		httputil.WriteNotFound(w, "User not found")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, user)
}

// GetUserThreads handles GET /users/{id}/threads
func (h *UserHandler) GetUserThreads(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.FetchUserPosts(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		log.Printf("[ERROR] GetUserThreads handler: %v", err)
		httputil.WriteInternalError(w, "Failed to load threads")
		return
	}
	if user == nil {
		httputil.WriteNotFound(w, "User not found")
		return
	}
	if user.Threads == nil {
		user.Threads = []model.Thread{}
	}
	httputil.WriteJSON(w, http.StatusOK, user)
}

// ListUsers handles GET /users?q=&page=&page_size=&sort=
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	externalID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	page, err := httputil.QueryInt(r, "page", model.DefaultPageNumber)
	if err != nil {
		httputil.WriteBadRequest(w, err.Error())
		return
	}
	pageSize, err := httputil.QueryInt(r, "page_size", model.DefaultPageSize)
	if err != nil {
		httputil.WriteBadRequest(w, err.Error())
		return
	}
	sortBy, err := model.ParseSortOrder(r.URL.Query().Get("sort"))
	if err != nil {
		httputil.WriteBadRequest(w, "sort must be asc or desc")
		return
	}

	resp, err := h.users.FetchUsers(r.Context(), model.FetchUsersParams{
		UserID:       externalID,
		SearchString: r.URL.Query().Get("q"),
		PageNumber:   page,
		PageSize:     pageSize,
		SortBy:       sortBy,
	})
	if err != nil {
		log.Printf("[ERROR] ListUsers handler: %v", err)
		httputil.WriteInternalError(w, "Failed to list users")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, resp)
}

// UpdateProfile handles PUT /profile. It serves both onboarding and profile edits,
// so it does not require an existing profile.
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	externalID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	var req model.UpdateUserRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}
	req.UserID = externalID

	user, err := h.users.UpdateUser(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrUsernameRequired),
			errors.Is(err, model.ErrNameRequired),
			errors.Is(err, model.ErrProfileTooLong):
			httputil.WriteBadRequest(w, err.Error())
		case errors.Is(err, model.ErrUsernameExists):
			httputil.WriteConflict(w, "Username is already taken")
		default:
			log.Printf("[ERROR] UpdateProfile handler: user=%s err=%v", externalID, err)
			httputil.WriteInternalError(w, "Failed to save profile")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, user)
}

// GetProfileEdit handles GET /profile/edit. The ETag follows the path's
// revalidation version, so a profile save invalidates cached copies.
func (h *UserHandler) GetProfileEdit(w http.ResponseWriter, r *http.Request) {
	user, ok := requireOnboarded(w, r, h.users)
	if !ok {
		return
	}

	version, err := h.activity.PathVersion(r.Context(), model.ProfileEditPath)
	if err != nil {
		// serve uncached rather than fail the page
		log.Printf("[UserHandler] PathVersion FAILED: err=%v", err)
		w.Header().Set("Cache-Control", "no-store")
		httputil.WriteJSON(w, http.StatusOK, user)
		return
	}

	etag := `"` + user.ExternalID + "-" + strconv.FormatInt(version, 10) + `"`
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "private, no-cache")

	if match := r.Header.Get("If-None-Match"); match != "" && etagMatches(match, etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, user)
}

func etagMatches(header, etag string) bool {
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == etag || candidate == "*" || strings.TrimPrefix(candidate, "W/") == etag {
			return true
		}
	}
	return false
}
