package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	_ "github.com/rohits-web03/filebridge/docs"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"

	"github.com/rohits-web03/filebridge/internal/api/handlers"
	"github.com/rohits-web03/filebridge/internal/api/middleware"
	"github.com/rs/cors"
)

func SetupRouter(files *handlers.FileHandler, health *handlers.HealthHandler, corsOpts cors.Options, log *zap.Logger) http.Handler {
	mainMux := http.NewServeMux()
	c := cors.New(corsOpts)

	// ---------- OPERATIONAL ROUTES ----------
	mainMux.HandleFunc("GET /health", health.Live)
	mainMux.HandleFunc("GET /ready", health.Ready)
	mainMux.Handle("GET /metrics", promhttp.Handler())
	mainMux.HandleFunc("/docs/", httpSwagger.WrapHandler)

	// ---------- FILE ROUTES ----------
	fileMux := http.NewServeMux()
	fileMux.HandleFunc("POST /upload", files.Upload)
	fileMux.HandleFunc("GET /{$}", files.List)
	fileMux.HandleFunc("GET /{id}", files.Get)
	fileMux.HandleFunc("DELETE /{id}", files.Delete)
	fileMux.HandleFunc("GET /images", files.ListImages)
	fileMux.HandleFunc("GET /images/{name...}", files.GetImageURL)

	mainMux.Handle("/api/files/",
		http.StripPrefix("/api/files", fileMux),
	)

	log.Info("router initialized")
	handler := c.Handler(mainMux)
	handler = middleware.Metrics(handler)
	handler = middleware.Logger(log)(handler)
	return handler
}
