package restapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextCancellationHandling(t *testing.T) {
	api := createTestApi(t)

	router := httprouter.New()
	api.SetRoutes(router)

	tests := []struct {
		name     string
		method   string
		endpoint string
	}{
		{name: "records", method: http.MethodGet, endpoint: "/api/where/records.json?key=test"},
		{name: "chart", method: http.MethodGet, endpoint: "/api/where/chart/all?key=test"},
		{name: "snapshots", method: http.MethodGet, endpoint: "/api/where/snapshots.json?key=test"},
		{name: "latest snapshot", method: http.MethodGet, endpoint: "/api/where/snapshot/latest?key=test"},
		{name: "refresh", method: http.MethodPost, endpoint: "/api/where/refresh.json?key=test"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			req, err := http.NewRequestWithContext(ctx, tt.method, tt.endpoint, nil)
			require.NoError(t, err)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			// A cancelled request either completes from the cached view or
			// fails with an error envelope; it never hangs or panics.
			assert.Contains(t, []int{
				http.StatusOK,
				http.StatusInternalServerError,
				http.StatusBadGateway,
				http.StatusServiceUnavailable,
			}, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
		})
	}

	// The dataset is still served after the cancelled refresh.
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/where/records.json?key=test", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
