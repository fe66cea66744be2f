package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"covergen/internal/http/handlers"
	"covergen/internal/middleware"
)

func NewRouter(app *handlers.App) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(app.Logger),
	)

	r.Get("/healthz", app.Health)
	r.Get("/", app.Viewer)
	r.Get("/covers.zip", app.CoversArchive)
	r.Get("/covers/{file}", app.Cover)

	return r
}
