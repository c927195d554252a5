package restapi

import (
	"net/http"

	"moonlabel.dev/internal/models"
	"moonlabel.dev/internal/utils"
)

// recordsHandler lists the classified rows of the dataset, optionally
// filtered by category and to rows that carry a numeric value.
func (api *RestAPI) recordsHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	category, fieldErrors := utils.ParseCategoryParam(query, "category", nil)
	numericOnly, fieldErrors := utils.ParseBoolParam(query, "numeric", fieldErrors)
	limit, fieldErrors := utils.ParseIntParam(query, "limit", utils.MaxListLimit, fieldErrors)
	if _, set := query["limit"]; set && len(fieldErrors["limit"]) == 0 {
		if err := utils.ValidateLimit(limit); err != nil {
			fieldErrors["limit"] = append(fieldErrors["limit"], err.Error())
		}
	}
	if len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
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

	results := view.Filter(category, numericOnly)
	limitExceeded := len(results) > limit
	if limitExceeded {
		results = results[:limit]
	}

	records := models.NewClassifiedRecords(view, results)
	api.sendResponse(w, r, models.NewListResponse(records, models.NewViewReferences(view), limitExceeded))
}
