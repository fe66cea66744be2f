package handlers

import (
	"encoding/json"
	"net/http"

	"covergen/internal/infra"
	"covergen/internal/preview"
	"covergen/internal/storage"
)

// App serves the outputs of a pipeline run.
type App struct {
	Store  *storage.FileStore
	Viewer *preview.Builder
	Logger *infra.Logger
}

func NewApp(store *storage.FileStore, viewer *preview.Builder, logger *infra.Logger) *App {
	if logger == nil {
		logger = infra.DiscardLogger()
	}
	return &App{Store: store, Viewer: viewer, Logger: logger}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, errCode, message string) {
	a.json(w, code, map[string]any{
		"error": map[string]string{
			"code":    errCode,
			"message": message,
		},
	})
}
