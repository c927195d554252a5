package restapi

import (
	"net/http"

	"moonlabel.dev/internal/chart"
	"moonlabel.dev/internal/models"
	"moonlabel.dev/internal/utils"
)

// chartHandler returns the data behind one of the value charts.
func (api *RestAPI) chartHandler(w http.ResponseWriter, r *http.Request) {
	name, ok := chart.ParseName(utils.ExtractIDFromParams(r, "view"))
	if !ok {
		api.sendNotFound(w, r)
		return
	}

	if api.Manager == nil {
		api.datasetUnavailableResponse(w, r, nil)
		return
	}

	view, err := api.Manager.Current(r.Context())
	if err != nil {
		api.datasetUnavailableResponse(w, r, err)
		return
	}

	c, err := chart.Build(view, name)
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}

	api.sendResponse(w, r, models.NewEntryResponse(c, models.NewViewReferences(view)))
}
