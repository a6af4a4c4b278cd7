package main

import (
	"net/http"

	"github.com/ViBiOh/httputils/v4/pkg/renderer"
	"github.com/ViBiOh/memegenius/pkg/workspace"
)

func newPort(services services) http.Handler {
	mux := http.NewServeMux()

	mux.Handle("/api/", http.StripPrefix("/api", services.workspace.Handler()))

	services.renderer.RegisterMux(mux, func(w http.ResponseWriter, r *http.Request) (renderer.Page, error) {
		view := services.workspace.View()

		return renderer.NewPage("public", http.StatusOK, map[string]any{
			"State":     view,
			"Templates": services.workspace.Templates(),
			"Refresh":   view.Loading != workspace.Idle,
		}), nil
	})

	return mux
}
