package restapi

import (
	"errors"
	"net/http"
	"strconv"

	"moonlabel.dev/internal/models"
	"moonlabel.dev/internal/utils"
	"moonlabel.dev/snapshotdb"
)

const defaultSnapshotLimit = 20

// snapshotsHandler lists recorded classification runs, newest first.
func (api *RestAPI) snapshotsHandler(w http.ResponseWriter, r *http.Request) {
	limit, fieldErrors := utils.ParseIntParam(r.URL.Query(), "limit", defaultSnapshotLimit, nil)
	if len(fieldErrors) == 0 {
		if err := utils.ValidateLimit(limit); err != nil {
			fieldErrors["limit"] = append(fieldErrors["limit"], err.Error())
		}
	}
	if len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	list := []models.Snapshot{}
	if api.Store == nil {
		api.sendResponse(w, r, models.NewListResponse(list, models.NewEmptyReferences(), false))
		return
	}

	// One extra row tells whether the list was truncated.
	snapshots, err := api.Store.ListSnapshots(r.Context(), limit+1)
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}

	limitExceeded := len(snapshots) > limit
	if limitExceeded {
		snapshots = snapshots[:limit]
	}
	for _, s := range snapshots {
		list = append(list, models.NewSnapshot(s))
	}

	api.sendResponse(w, r, models.NewListResponse(list, models.NewEmptyReferences(), limitExceeded))
}

// snapshotHandler returns one snapshot with its classified rows. The id
// "latest" selects the newest snapshot.
func (api *RestAPI) snapshotHandler(w http.ResponseWriter, r *http.Request) {
	if api.Store == nil {
		api.sendNotFound(w, r)
		return
	}

	ctx := r.Context()
	rawID := utils.ExtractIDFromParams(r, "id")

	var snapshot snapshotdb.Snapshot
	var err error
	if rawID == "latest" {
		snapshot, err = api.Store.LatestSnapshot(ctx, "")
	} else {
		id, parseErr := strconv.ParseInt(rawID, 10, 64)
		if parseErr != nil || id < 1 {
			api.validationErrorResponse(w, r, map[string][]string{"id": {"id must be a positive integer or \"latest\""}})
			return
		}
		snapshot, err = api.Store.Snapshot(ctx, id)
	}
	if errors.Is(err, snapshotdb.ErrNoSnapshot) {
		api.sendNotFound(w, r)
		return
	}
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}

	rows, err := api.Store.SnapshotRows(ctx, snapshot.ID)
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}

	records := make([]models.ClassifiedRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, models.NewSnapshotRecord(row))
	}

	entry := struct {
		models.Snapshot
		Records []models.ClassifiedRecord `json:"records"`
	}{
		Snapshot: models.NewSnapshot(snapshot),
		Records:  records,
	}
	api.sendResponse(w, r, models.NewEntryResponse(entry, models.NewEmptyReferences()))
}
