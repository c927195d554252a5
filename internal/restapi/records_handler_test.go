package restapi

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordsHandler(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantCount int
		exceeded  bool
	}{
		{name: "all rows", query: "", wantCount: 7},
		{name: "numeric rows", query: "&numeric=true", wantCount: 5},
		{name: "marked rows", query: "&category=marked", wantCount: 3},
		{name: "plain rows", query: "&category=plain", wantCount: 4},
		{name: "plain numeric rows", query: "&category=plain&numeric=1", wantCount: 2},
		{name: "limited", query: "&limit=2", wantCount: 2, exceeded: true},
		{name: "limit equal to rows", query: "&limit=7", wantCount: 7},
	}

	api := createTestApi(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, model := serveApiAndRetrieveEndpoint(t, api, "/api/where/records.json?key=TEST"+tt.query)
			require.Equal(t, http.StatusOK, resp.StatusCode)

			assert.Len(t, listOf(t, model), tt.wantCount)
			data := model.Data.(map[string]interface{})
			assert.Equal(t, tt.exceeded, data["limitExceeded"])
		})
	}
}

func TestRecordsHandlerContent(t *testing.T) {
	api := createTestApi(t)

	resp, model := serveApiAndRetrieveEndpoint(t, api, "/api/where/records.json?key=TEST&category=marked")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	list := listOf(t, model)
	first := list[0].(map[string]interface{})
	assert.Equal(t, float64(0), first["index"])
	assert.Equal(t, "한국사 개론", first["label"])
	assert.Equal(t, "문120", first["code"])
	assert.Equal(t, "marked", first["category"])
	assert.Equal(t, "120", first["numericValue"])

	data := model.Data.(map[string]interface{})
	refs := data["references"].(map[string]interface{})
	sources := refs["sources"].([]interface{})
	require.Len(t, sources, 1)
	source := sources[0].(map[string]interface{})
	assert.Equal(t, fixturePath(t), source["source"])
	assert.Equal(t, "90", source["codeColumn"])
	assert.Equal(t, "문", source["marker"])
}

func TestRecordsHandlerValidation(t *testing.T) {
	api := createTestApi(t)

	resp := getEndpoint(t, api, "/api/where/records.json?key=TEST&category=moon&numeric=maybe&limit=0")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	fieldErrors := decodeFieldErrors(t, resp)
	assert.Contains(t, fieldErrors, "category")
	assert.Contains(t, fieldErrors, "numeric")
	assert.Equal(t, []string{"limit must be positive"}, fieldErrors["limit"])
}

func TestRecordsHandlerWithoutDataset(t *testing.T) {
	api := createTestApi(t)
	api.Manager = nil

	resp, model := serveApiAndRetrieveEndpoint(t, api, "/api/where/records.json?key=TEST")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "dataset unavailable", model.Text)
}
