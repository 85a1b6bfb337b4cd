package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gameversehub/gameverse/internal/logging"
	"github.com/gameversehub/gameverse/internal/upstream"
)

// errorResponse is the JSON body for every non-2xx response.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code"`
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logging.Error("encoding response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    status,
	})
}

// respondUpstreamError maps the client error taxonomy onto status
// codes. Upstream bodies and credential values never reach the caller;
// only the upstream status code is echoed for diagnostics.
func respondUpstreamError(w http.ResponseWriter, err error) {
	var (
		authErr     *upstream.AuthError
		protoErr    *upstream.ProtocolError
		timeoutErr  *upstream.TimeoutError
		validateErr *upstream.ValidationError
	)

	switch {
	case errors.Is(err, upstream.ErrMissingCredentials):
		logging.Warn("request rejected: provider credentials not configured")
		respondError(w, http.StatusServiceUnavailable, "service not configured for this provider")

	case errors.As(err, &validateErr):
		respondError(w, http.StatusBadRequest, validateErr.Error())

	case errors.As(err, &authErr):
		logging.Error("upstream auth failure", "status", authErr.Status)
		respondError(w, http.StatusBadGateway, "upstream authentication failed")

	case errors.As(err, &timeoutErr):
		logging.Error("upstream timeout", "provider", timeoutErr.Provider)
		respondError(w, http.StatusGatewayTimeout, "upstream provider timed out")

	case errors.As(err, &protoErr):
		logging.Error("upstream protocol error", "provider", protoErr.Provider,
			"status", protoErr.Status, "code", protoErr.Code)
		msg := "upstream provider error"
		if protoErr.Status != 0 {
			msg += " (status " + strconv.Itoa(protoErr.Status) + ")"
		}
		respondError(w, http.StatusBadGateway, msg)

	default:
		logging.Error("unexpected provider error", "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}

// parseIntParam reads a numeric query parameter, falling back to a
// default when absent or malformed.
func parseIntParam(r *http.Request, param string, defaultValue int) int {
	valueStr := r.URL.Query().Get(param)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}
