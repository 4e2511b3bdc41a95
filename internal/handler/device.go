package handler

import (
	"errors"
	"log"
	"net/http"

	"threadline/internal/httputil"
	"threadline/internal/model"
)

type DeviceHandler struct {
	users   UserService
	devices DeviceService
}

func NewDeviceHandler(users UserService, devices DeviceService) *DeviceHandler {
	return &DeviceHandler{
		users:   users,
		devices: devices,
	}
}

// Register handles POST /devices
func (h *DeviceHandler) Register(w http.ResponseWriter, r *http.Request) {
	user, ok := requireOnboarded(w, r, h.users)
	if !ok {
		return
	}

	var req model.RegisterTokenRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := h.devices.Register(r.Context(), user.ID, &req); err != nil {
		writeDeviceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Remove handles DELETE /devices
func (h *DeviceHandler) Remove(w http.ResponseWriter, r *http.Request) {
	user, ok := requireOnboarded(w, r, h.users)
	if !ok {
		return
	}

	var req model.RegisterTokenRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := h.devices.Remove(r.Context(), user.ID, req.Token); err != nil {
		writeDeviceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func writeDeviceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, model.ErrDeviceTokenRequired):
		httputil.WriteBadRequest(w, "token is required")
	case errors.Is(err, model.ErrInvalidPlatform):
		httputil.WriteBadRequest(w, "platform must be ios, android or web")
	default:
		log.Printf("[ERROR] Device handler: %v", err)
		httputil.WriteInternalError(w, "Failed to update devices")
	}
}
