package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"threadline/internal/httputil"
	"threadline/internal/model"
)

type ThreadHandler struct {
	users   UserService
	threads ThreadService
}

func NewThreadHandler(users UserService, threads ThreadService) *ThreadHandler {
	return &ThreadHandler{
		users:   users,
		threads: threads,
	}
}

// Create handles POST /threads
func (h *ThreadHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := requireOnboarded(w, r, h.users)
	if !ok {
		return
	}

	var req model.CreateThreadRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	thread, err := h.threads.CreateThread(r.Context(), user.ID, req.Text)
	if err != nil {
		writeThreadError(w, "Create", err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, thread)
}

// Reply handles POST /threads/{id}/replies
func (h *ThreadHandler) Reply(w http.ResponseWriter, r *http.Request) {
	parentID, err := httputil.PathInt64(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid thread ID")
		return
	}

	user, ok := requireOnboarded(w, r, h.users)
	if !ok {
		return
	}

	var req model.CreateThreadRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	reply, err := h.threads.AddReply(r.Context(), parentID, user.ID, req.Text)
	if err != nil {
		writeThreadError(w, "Reply", err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, reply)
}

// Get handles GET /threads/{id}
func (h *ThreadHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.PathInt64(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid thread ID")
		return
	}

	thread, err := h.threads.FetchThread(r.Context(), id)
	if err != nil {
		writeThreadError(w, "Get", err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, thread)
}

// List handles GET /threads?page=&page_size=
func (h *ThreadHandler) List(w http.ResponseWriter, r *http.Request) {
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

	resp, err := h.threads.FetchPosts(r.Context(), page, pageSize)
	if err != nil {
		writeThreadError(w, "List", err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, resp)
}

func writeThreadError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, model.ErrThreadNotFound):
		httputil.WriteNotFound(w, "Thread not found")
	case errors.Is(err, model.ErrThreadTextRequired):
		httputil.WriteBadRequest(w, "text is required")
	case errors.Is(err, model.ErrThreadTextTooLong):
		httputil.WriteBadRequest(w, "text is too long")
	default:
		log.Printf("[ERROR] Thread %s handler: %v", op, err)
		httputil.WriteInternalError(w, "Failed to process thread")
	}
}
