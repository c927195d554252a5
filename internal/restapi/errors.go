package restapi

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"moonlabel.dev/internal/logging"
	"moonlabel.dev/internal/models"
)

type errorResponse struct {
	Code        int    `json:"code"`
	CurrentTime int64  `json:"currentTime"`
	Text        string `json:"text"`
	Version     int    `json:"version"`
}

// sendError writes the error envelope with the given status.
func (api *RestAPI) sendError(w http.ResponseWriter, r *http.Request, status int, text string) {
	response := errorResponse{
		Code:        status,
		CurrentTime: models.ResponseCurrentTime(),
		Text:        text,
		Version:     models.ResponseVersion,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		logging.LogError(api.logger(r), "failed to encode error response", err,
			slog.Int("status", status),
			slog.String("component", "http_server"))
	}
}

// invalidAPIKeyResponse sends a 401 Unauthorized response with the required format
// for invalid API key errors
func (api *RestAPI) invalidAPIKeyResponse(w http.ResponseWriter, r *http.Request) {
	api.sendError(w, r, http.StatusUnauthorized, "permission denied")
}

func (api *RestAPI) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	logging.LogError(api.logger(r), "internal server error", err,
		slog.String("path", r.URL.Path),
		slog.String("component", "http_server"))
	api.sendError(w, r, http.StatusInternalServerError, "internal server error")
}

// datasetUnavailableResponse is sent when no classified view can be served.
func (api *RestAPI) datasetUnavailableResponse(w http.ResponseWriter, r *http.Request, err error) {
	if err != nil {
		logging.LogError(api.logger(r), "dataset unavailable", err,
			slog.String("path", r.URL.Path),
			slog.String("component", "http_server"))
	}
	api.sendError(w, r, http.StatusServiceUnavailable, "dataset unavailable")
}

// validationErrorResponse sends a 400 Bad Request response with field-specific validation errors
func (api *RestAPI) validationErrorResponse(w http.ResponseWriter, r *http.Request, fieldErrors map[string][]string) {
	response := struct {
		FieldErrors map[string][]string `json:"fieldErrors"`
	}{
		FieldErrors: fieldErrors,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		logging.LogError(api.logger(r), "failed to encode validation error response", err,
			slog.String("component", "http_server"))
	}
}

// logger prefers the request scoped logger set by the logging middleware.
func (api *RestAPI) logger(r *http.Request) *slog.Logger {
	if r != nil {
		if l := logging.FromContext(r.Context()); l != slog.Default() {
			return l
		}
	}
	if api.Logger != nil {
		return api.Logger
	}
	return slog.Default()
}
