package restapi

import (
	"context"
	"log/slog"
	"net/http"

	"moonlabel.dev/internal/logging"
	"moonlabel.dev/internal/models"
)

func (api *RestAPI) datasetStatusHandler(w http.ResponseWriter, r *http.Request) {
	if api.Manager == nil {
		api.datasetUnavailableResponse(w, r, nil)
		return
	}

	status := models.NewDatasetStatus(api.Manager.Status())
	api.sendResponse(w, r, models.NewEntryResponse(status, models.NewViewReferences(api.Manager.View())))
}

// refreshHandler reloads the source immediately. A failed reload keeps the
// previous view and answers 502 with the error in the status.
func (api *RestAPI) refreshHandler(w http.ResponseWriter, r *http.Request) {
	if api.Manager == nil {
		api.datasetUnavailableResponse(w, r, nil)
		return
	}

	ctx := r.Context()
	if api.refreshTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, api.refreshTimeout)
		defer cancel()
	}

	changed, err := api.Manager.Refresh(ctx)
	result := models.RefreshResult{
		Changed: changed,
		Status:  models.NewDatasetStatus(api.Manager.Status()),
	}
	refs := models.NewViewReferences(api.Manager.View())

	if err != nil {
		logging.LogError(api.logger(r), "manual refresh failed", err,
			slog.String("component", "http_server"))
		api.sendResponse(w, r, models.NewResponse(http.StatusBadGateway,
			map[string]interface{}{"entry": result, "references": refs},
			"failed to refresh dataset"))
		return
	}

	api.sendResponse(w, r, models.NewEntryResponse(result, refs))
}
