package api

import (
	_ "go-etl-pipeline/docs"
	"go-etl-pipeline/internal/api/handler"
	"go-etl-pipeline/pkg/router"

	httpSwagger "github.com/swaggo/http-swagger"
)

// @title Posts ETL API
// @version 1.0
// @description Start pipeline runs and download their CSV output.
// @BasePath /api/v1
func RegisterRoutes(r *router.Router, h *handler.Handler) {
	r.POST("/api/v1/runs", h.CreateRun)
	r.GET("/api/v1/runs", h.ListRuns)
	// More specific routes first
	r.GET("/api/v1/runs/*/download", h.DownloadRun)
	// Generic run route last
	r.GET("/api/v1/runs/*", h.GetRun)
	r.GET("/swagger/*", router.HandlerFunc(httpSwagger.WrapHandler))
}
