package handler

import (
	"log"
	"net/http"

	"threadline/internal/httputil"
	"threadline/internal/model"
)

type ActivityHandler struct {
	users    UserService
	activity ActivityService
}

func NewActivityHandler(users UserService, activity ActivityService) *ActivityHandler {
	return &ActivityHandler{
		users:    users,
		activity: activity,
	}
}

// GetActivity handles GET /activity
func (h *ActivityHandler) GetActivity(w http.ResponseWriter, r *http.Request) {
	user, ok := requireOnboarded(w, r, h.users)
	if !ok {
		return
	}

	items, err := h.activity.GetActivity(r.Context(), user.ID)
	if err != nil {
		log.Printf("[ERROR] GetActivity handler: user=%d err=%v", user.ID, err)
		httputil.WriteInternalError(w, "Failed to load activity")
		return
	}

	if err := h.activity.MarkSeen(r.Context(), user.ID); err != nil {
		log.Printf("[ActivityHandler] MarkSeen FAILED: user=%d err=%v", user.ID, err)
	}

	resp := model.ActivityResponse{Items: items}
	if len(items) == 0 {
		resp.Items = []model.ActivityItem{}
		resp.Message = model.EmptyActivityMessage
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

// GetUnread handles GET /activity/unread
func (h *ActivityHandler) GetUnread(w http.ResponseWriter, r *http.Request) {
	user, ok := requireOnboarded(w, r, h.users)
	if !ok {
		return
	}

	unread, err := h.activity.UnreadCount(r.Context(), user.ID)
	if err != nil {
		log.Printf("[ERROR] GetUnread handler: user=%d err=%v", user.ID, err)
		httputil.WriteInternalError(w, "Failed to load unread count")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]int64{"unread": unread})
}
