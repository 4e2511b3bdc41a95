package handler

import (
	"log"
	"net/http"

	"threadline/internal/httputil"
	"threadline/internal/model"
	"threadline/internal/transport/http/middleware"
)

// requireOnboarded loads the caller's profile. Callers without a profile, or who have
// not finished onboarding, are redirected to the onboarding flow and ok is false.
func requireOnboarded(w http.ResponseWriter, r *http.Request, users UserService) (user *model.User, ok bool) {
	externalID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return nil, false
	}

	user, err := users.FetchUser(r.Context(), externalID)
	if err != nil {
		log.Printf("[ERROR] fetch caller profile: user=%s err=%v", externalID, err)
		httputil.WriteInternalError(w, "Failed to load profile")
		return nil, false
	}
	if user == nil || !user.Onboarded {
		httputil.WriteSeeOther(w, r, model.OnboardingPath)
		return nil, false
	}

	return user, true
}
