package handlers

import (
	"errors"
	"net/http"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"

	"covergen/internal/domain"
	"covergen/internal/middleware"
	"covergen/internal/storage"
	"covergen/pkg/zip"
)

// Viewer renders the note gallery from the current results.json.
func (a *App) Viewer(w http.ResponseWriter, r *http.Request) {
	records, err := a.Store.ReadResults()
	if err != nil {
		if errors.Is(err, domain.ErrMissingResource) {
			a.error(w, http.StatusNotFound, "not_found", "results.json has not been generated yet")
			return
		}
		a.Logger.Error().Err(err).Str("request_id", middleware.RequestIDFromContext(r.Context())).Msg("viewer: read results")
		a.error(w, http.StatusInternalServerError, "internal", "failed to read results")
		return
	}
	page, err := a.Viewer.Render(records)
	if err != nil {
		a.Logger.Error().Err(err).Msg("viewer: render")
		a.error(w, http.StatusInternalServerError, "internal", "failed to render viewer")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(page)
}

// Cover streams one rendered cover PNG.
func (a *App) Cover(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "file")
	if name == "" || name != path.Base(name) || !strings.HasSuffix(name, "_cover.png") {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid cover name")
		return
	}
	data, err := a.Store.Read(storage.CoversDir + "/" + name)
	if err != nil {
		a.error(w, http.StatusNotFound, "not_found", "cover not found")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// CoversArchive bundles every rendered cover into one zip download.
func (a *App) CoversArchive(w http.ResponseWriter, r *http.Request) {
	covers, err := a.Store.ListCovers()
	if err != nil {
		a.Logger.Error().Err(err).Msg("covers: list")
		a.error(w, http.StatusInternalServerError, "internal", "failed to list covers")
		return
	}
	entries := make([]zip.Entry, 0, len(covers))
	for _, c := range covers {
		entries = append(entries, zip.Entry{Name: c.Name, Data: c.Data, ModTime: c.ModTime})
	}
	archive, err := zip.Archive(entries)
	if err != nil {
		a.Logger.Error().Err(err).Msg("covers: archive")
		a.error(w, http.StatusInternalServerError, "internal", "failed to build archive")
		return
	}
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", `attachment; filename="covers.zip"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(archive)
}
