package restapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moonlabel.dev/internal/app"
	"moonlabel.dev/internal/logging"
	"moonlabel.dev/internal/models"
)

func TestServerErrorResponse(t *testing.T) {
	var buf bytes.Buffer
	api := &RestAPI{Application: &app.Application{
		Logger: logging.NewStructuredLogger(&buf, slog.LevelInfo),
	}}

	r := httptest.NewRequest("GET", "/test", nil)
	rr := httptest.NewRecorder()

	api.serverErrorResponse(rr, r, errors.New("test server error"))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var response errorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &response))
	assert.Equal(t, http.StatusInternalServerError, response.Code)
	assert.Equal(t, "internal server error", response.Text)
	assert.Equal(t, models.ResponseVersion, response.Version)

	now := time.Now().UnixMilli()
	assert.InDelta(t, now, response.CurrentTime, 5000)

	assert.Contains(t, buf.String(), "test server error")
	assert.Contains(t, buf.String(), `"path":"/test"`)
}

func TestDatasetUnavailableResponse(t *testing.T) {
	api := &RestAPI{Application: &app.Application{}}

	rr := httptest.NewRecorder()
	api.datasetUnavailableResponse(rr, httptest.NewRequest("GET", "/test", nil), nil)

	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Contains(t, rr.Body.String(), "dataset unavailable")
}

func TestValidationErrorResponse(t *testing.T) {
	api := &RestAPI{Application: &app.Application{Logger: logging.Discard()}}

	rr := httptest.NewRecorder()
	api.validationErrorResponse(rr, httptest.NewRequest("GET", "/test", nil), map[string][]string{
		"limit": {"must be positive"},
	})

	assert.Equal(t, http.StatusBadRequest, rr.Code)

	var body struct {
		FieldErrors map[string][]string `json:"fieldErrors"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, []string{"must be positive"}, body.FieldErrors["limit"])
}

func TestLoggerPrefersRequestScope(t *testing.T) {
	appLogger := logging.Discard()
	requestLogger := logging.Discard()
	api := &RestAPI{Application: &app.Application{Logger: appLogger}}

	r := httptest.NewRequest("GET", "/test", nil)
	assert.Same(t, appLogger, api.logger(r))

	r = r.WithContext(logging.WithLogger(r.Context(), requestLogger))
	assert.Same(t, requestLogger, api.logger(r))
}
