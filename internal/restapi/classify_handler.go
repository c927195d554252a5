package restapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"moonlabel.dev/internal/models"
	"moonlabel.dev/internal/utils"
)

// maxClassifyBody bounds the JSON body of a batch classification.
const maxClassifyBody = 1 << 20

type classifyRequest struct {
	Values []*string `json:"values"`
}

// classifyHandler classifies the single code in the value parameter. A
// missing parameter is an absent code.
func (api *RestAPI) classifyHandler(w http.ResponseWriter, r *http.Request) {
	code := utils.OptionalParam(r.URL.Query(), "value")
	if code != nil {
		if err := utils.ValidateCode(*code); err != nil {
			api.validationErrorResponse(w, r, map[string][]string{"value": {err.Error()}})
			return
		}
	}

	entry := models.NewClassification(code, api.classifier().Classify(code))
	api.sendResponse(w, r, models.NewEntryResponse(entry, models.NewEmptyReferences()))
}

// classifyBatchHandler classifies {"values": [...]} in order. null entries
// are absent codes.
func (api *RestAPI) classifyBatchHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxClassifyBody)

	var req classifyRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		text := "invalid JSON body"
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			text = "request body too large"
		}
		api.validationErrorResponse(w, r, map[string][]string{"body": {text}})
		return
	}

	if fieldErrors := utils.ValidateBatch(req.Values); len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	values := api.classifier().ClassifyValues(req.Values)
	list := make([]models.Classification, 0, len(values))
	for i, v := range values {
		list = append(list, models.NewClassification(req.Values[i], v))
	}

	api.sendResponse(w, r, models.NewListResponse(list, models.NewEmptyReferences(), false))
}
