package httpserver

import (
	"net/http"

	"convert-files-go/internal/config"
	"convert-files-go/internal/transport/httpserver/handler"
	authmw "convert-files-go/internal/transport/httpserver/middleware"
	"convert-files-go/pkg/logger"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(cfg config.Config, handlers *handler.Handlers, log logger.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(cfg.RequestTimeout))
	r.Use(authmw.NewCORS(cfg.CORSAllowedOrigins))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.Common.Health)

		auth := authmw.NewTokenAuth(cfg.APIToken, log)
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware)

			r.Get("/convert-files", handlers.Conversion.ListConvertFiles)
			r.Post("/convert-files", handlers.Conversion.CreateConvertFile)

			r.Route("/convert-files/{convert_file_id}", func(r chi.Router) {
				r.Get("/", handlers.Conversion.GetConvertFile)
				r.Patch("/", handlers.Conversion.UpdateConvertFile)
				r.Post("/preview", handlers.Conversion.PreviewFileName)

				r.Get("/properties", handlers.Conversion.ListProperties)
				r.Post("/properties", handlers.Conversion.CreateProperty)
				r.Post("/properties/normalize", handlers.Conversion.NormalizeProperties)
				r.Get("/properties/validation", handlers.Conversion.ValidatePriorities)
				r.Patch("/properties/{property_id}", handlers.Conversion.UpdateProperty)
				r.Delete("/properties/{property_id}", handlers.Conversion.DeleteProperty)
				r.Post("/properties/{property_id}/move-up", handlers.Conversion.MovePropertyUp)
				r.Post("/properties/{property_id}/move-down", handlers.Conversion.MovePropertyDown)
			})
		})
	})

	return r
}
