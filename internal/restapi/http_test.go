package restapi

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/require"

	"moonlabel.dev/internal/app"
	"moonlabel.dev/internal/appconf"
	"moonlabel.dev/internal/dataset"
	"moonlabel.dev/internal/logging"
	"moonlabel.dev/internal/models"
	"moonlabel.dev/snapshotdb"
)

func fixturePath(t *testing.T) string {
	t.Helper()
	path, err := filepath.Abs(filepath.Join("..", "..", "testdata", "codes.csv"))
	require.NoError(t, err)
	return path
}

func testConfig(t *testing.T) appconf.Config {
	cfg := appconf.Default()
	cfg.Env = "test"
	cfg.ApiKeys = "TEST,test"
	cfg.RateLimit = 100
	cfg.Source = fixturePath(t)
	cfg.DBPath = ":memory:"
	cfg.RefreshInterval = 0
	return cfg
}

// createTestApi creates a new RestAPI backed by the fixture dataset and an
// in-memory snapshot store.
func createTestApi(t *testing.T) *RestAPI {
	return createTestApiWithConfig(t, testConfig(t))
}

func createTestApiWithConfig(t *testing.T, cfg appconf.Config) *RestAPI {
	t.Helper()

	store, err := snapshotdb.NewClient(app.SnapshotConfig(cfg), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	manager, err := dataset.InitManager(context.Background(), app.DatasetConfig(cfg), dataset.WithRecorder(store))
	require.NoError(t, err)
	t.Cleanup(manager.Shutdown)

	api := NewRestAPI(&app.Application{
		Config:  cfg,
		Logger:  logging.Discard(),
		Manager: manager,
		Store:   store,
	})
	t.Cleanup(api.Shutdown)

	return api
}

func newTestServer(t *testing.T, api *RestAPI) *httptest.Server {
	t.Helper()
	router := httprouter.New()
	api.SetRoutes(router)
	server := httptest.NewServer(Handler(router, api.Logger))
	t.Cleanup(server.Close)
	return server
}

// serveAndRetrieveEndpoint sets up a test server, makes a request to the specified endpoint, and returns the response
// and decoded model.
func serveAndRetrieveEndpoint(t *testing.T, endpoint string) (*RestAPI, *http.Response, models.ResponseModel) {
	api := createTestApi(t)
	resp, model := serveApiAndRetrieveEndpoint(t, api, endpoint)
	return api, resp, model
}

func serveApiAndRetrieveEndpoint(t *testing.T, api *RestAPI, endpoint string) (*http.Response, models.ResponseModel) {
	server := newTestServer(t, api)
	resp, err := http.Get(server.URL + endpoint)
	require.NoError(t, err)
	return resp, decodeResponse(t, resp)
}

func postApiEndpoint(t *testing.T, api *RestAPI, endpoint string, body string) (*http.Response, models.ResponseModel) {
	server := newTestServer(t, api)
	resp, err := http.Post(server.URL+endpoint, "application/json", bytes.NewBufferString(body))
	require.NoError(t, err)
	return resp, decodeResponse(t, resp)
}

func decodeResponse(t *testing.T, resp *http.Response) models.ResponseModel {
	t.Helper()
	defer logging.SafeCloseWithLogging(resp.Body,
		slog.Default().With(slog.String("component", "test")),
		"http_response_body")

	var response models.ResponseModel
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&response))
	return response
}

func decodeFieldErrors(t *testing.T, resp *http.Response) map[string][]string {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()

	var body struct {
		FieldErrors map[string][]string `json:"fieldErrors"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body.FieldErrors
}

func entryOf(t *testing.T, model models.ResponseModel) map[string]interface{} {
	t.Helper()
	data, ok := model.Data.(map[string]interface{})
	require.True(t, ok, "data should be an object")
	entry, ok := data["entry"].(map[string]interface{})
	require.True(t, ok, "entry should be an object")
	return entry
}

func listOf(t *testing.T, model models.ResponseModel) []interface{} {
	t.Helper()
	data, ok := model.Data.(map[string]interface{})
	require.True(t, ok, "data should be an object")
	list, ok := data["list"].([]interface{})
	require.True(t, ok, "list should be an array")
	return list
}

// getEndpoint performs a GET and leaves the body to the caller.
func getEndpoint(t *testing.T, api *RestAPI, endpoint string) *http.Response {
	t.Helper()
	server := newTestServer(t, api)
	resp, err := http.Get(server.URL + endpoint)
	require.NoError(t, err)
	return resp
}
