package webui

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/davecgh/go-spew/spew"

	"moonlabel.dev/internal/utils"
)

//go:embed debug_index.html
var templateFS embed.FS

var debugTemplate = template.Must(template.ParseFS(templateFS, "debug_index.html"))

type debugData struct {
	Title string
	Pre   string
}

func writeDebugData(w http.ResponseWriter, title string, data interface{}) {
	content := spew.Sdump(data)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	dataStruct := debugData{
		Title: title,
		Pre:   content,
	}

	if err := debugTemplate.Execute(w, dataStruct); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (webUI *WebUI) debugIndexHandler(w http.ResponseWriter, r *http.Request) {
	dataType := utils.SanitizeInput(r.URL.Query().Get("dataType"))

	var data interface{}
	var title string

	view := webUI.currentView(r)

	switch dataType {
	case "status":
		if webUI.Manager != nil {
			data = webUI.Manager.Status()
		}
		title = "Dataset - Status"
	case "columns":
		if view != nil {
			data = view.Columns
		}
		title = "Dataset - Columns"
	case "records":
		if view != nil {
			data = view.Results
		}
		title = "Dataset - Classified Records"
	case "marked":
		if view != nil {
			data = view.Partitions.Marked
		}
		title = "Dataset - Marked Records"
	case "plain":
		if view != nil {
			data = view.Partitions.Plain
		}
		title = "Dataset - Plain Records"
	case "numeric":
		if view != nil {
			data = view.Partitions.Numeric
		}
		title = "Dataset - Numeric Records"
	case "snapshots":
		if webUI.Store != nil {
			snapshots, err := webUI.Store.ListSnapshots(r.Context(), 0)
			if err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			data = snapshots
		}
		title = "Snapshot History"
	default:
		data = map[string]string{
			"error": "Please use one of the following: status, columns, records, marked, plain, numeric, snapshots.",
		}
		title = "Choose a data type"
	}

	writeDebugData(w, title, data)
}
