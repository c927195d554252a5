package restapi

import (
	"log/slog"
	"net/http"

	"github.com/julienschmidt/httprouter"
)

type handlerFunc func(w http.ResponseWriter, r *http.Request)

func validateAPIKey(api *RestAPI, finalHandler handlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if api.RequestHasInvalidAPIKey(r) {
			api.invalidAPIKeyResponse(w, r)
			return
		}
		finalHandler(w, r)
	})
}

// SetRoutes registers the API endpoints. Every endpoint requires a valid
// key and is rate limited per key.
func (api *RestAPI) SetRoutes(router *httprouter.Router) {
	handle := func(method, path string, h handlerFunc) {
		router.Handler(method, path, api.withRateLimit(validateAPIKey(api, h)))
	}

	handle(http.MethodGet, "/api/where/current-time.json", api.currentTimeHandler)
	handle(http.MethodGet, "/api/where/classify.json", api.classifyHandler)
	handle(http.MethodPost, "/api/where/classify.json", api.classifyBatchHandler)
	handle(http.MethodGet, "/api/where/records.json", api.recordsHandler)
	handle(http.MethodGet, "/api/where/chart/:view", api.chartHandler)
	handle(http.MethodGet, "/api/where/dataset-status.json", api.datasetStatusHandler)
	handle(http.MethodPost, "/api/where/refresh.json", api.refreshHandler)
	handle(http.MethodGet, "/api/where/snapshots.json", api.snapshotsHandler)
	handle(http.MethodGet, "/api/where/snapshot/:id", api.snapshotHandler)

	router.NotFound = http.HandlerFunc(api.sendNotFound)
}

// Handler wraps router with the middleware shared by every request.
func Handler(router http.Handler, logger *slog.Logger) http.Handler {
	var handler http.Handler = router
	handler = CompressionMiddleware(handler)
	handler = securityHeaders(handler)
	handler = NewRequestLoggingMiddleware(logger)(handler)
	return handler
}
