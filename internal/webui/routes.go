package webui

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"moonlabel.dev/internal/app"
	"moonlabel.dev/internal/dataset"
)

// WebUI serves the HTML debug pages.
type WebUI struct {
	*app.Application
}

func (webUI *WebUI) currentView(r *http.Request) *dataset.View {
	if webUI.Manager == nil {
		return nil
	}
	view, err := webUI.Manager.Current(r.Context())
	if err != nil {
		return nil
	}
	return view
}

// SetWebUIRoutes registers the debug pages on router.
func (webUI *WebUI) SetWebUIRoutes(router *httprouter.Router) {
	router.HandlerFunc(http.MethodGet, "/debug/", webUI.debugIndexHandler)
}
