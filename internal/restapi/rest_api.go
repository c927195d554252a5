package restapi

import (
	"net/http"
	"time"

	"moonlabel.dev/internal/app"
	"moonlabel.dev/internal/classify"
)

// RefreshTimeout bounds a manual refresh so that the 502 envelope is written
// before the server's write timeout.
const RefreshTimeout = 8 * time.Second

type RestAPI struct {
	*app.Application
	rateLimiter    *RateLimitMiddleware
	refreshTimeout time.Duration
}

// NewRestAPI creates a new RestAPI instance with initialized rate limiter
func NewRestAPI(app *app.Application) *RestAPI {
	return &RestAPI{
		Application:    app,
		rateLimiter:    NewRateLimitMiddleware(app.Config.RateLimit, time.Second),
		refreshTimeout: RefreshTimeout,
	}
}

// Shutdown stops the background work of the API middleware.
func (api *RestAPI) Shutdown() {
	if api.rateLimiter != nil {
		api.rateLimiter.Stop()
	}
}

// classifier returns the dataset classifier, or one built from the configured
// marker when no dataset is loaded.
func (api *RestAPI) classifier() *classify.Classifier {
	if api.Manager != nil {
		return api.Manager.Classifier()
	}
	return classify.New(api.Config.Marker)
}

func (api *RestAPI) withRateLimit(next http.Handler) http.Handler {
	if api.rateLimiter == nil {
		return next
	}
	return api.rateLimiter.Handler(next)
}
