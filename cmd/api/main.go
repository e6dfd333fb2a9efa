package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"buildlog/cmd/app"
	"buildlog/internal/config"
	handlers "buildlog/internal/handler"
	"buildlog/internal/middleware"
)

func main() {
	cfg := config.LoadConfig()

	db, repo, services := app.App(cfg)
	defer db.CloseDB()

	handler := handlers.NewHandlers(repo, services, cfg)

	router := mux.NewRouter()
	router.HandleFunc("/", handlers.HomeHandler).Methods(http.MethodGet)
	router.HandleFunc("/health", handlers.HealthHandler).Methods(http.MethodGet)

	api := router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/builds", handler.GetBuilds).Methods(http.MethodGet)
	api.HandleFunc("/builds", handler.CreateBuild).Methods(http.MethodPost)
	api.HandleFunc("/builds/search", handler.SearchBuilds).Methods(http.MethodGet)
	api.HandleFunc("/builds/filter", handler.FilterBuilds).Methods(http.MethodGet)
	api.HandleFunc("/builds/{buildId}", handler.GetBuild).Methods(http.MethodGet)
	api.HandleFunc("/builds/{buildId}", handler.UpdateBuild).Methods(http.MethodPatch)
	api.HandleFunc("/builds/{buildId}", handler.DeleteBuild).Methods(http.MethodDelete)

	api.HandleFunc("/photos", handler.GetPhotos).Methods(http.MethodGet)
	api.HandleFunc("/photos/import", handler.ImportPhotos).Methods(http.MethodPost)
	api.HandleFunc("/photos/upload", handler.UploadPhoto).Methods(http.MethodPost)
	api.HandleFunc("/photos/search", handler.SearchPhotos).Methods(http.MethodGet)
	api.HandleFunc("/photos/filter", handler.FilterPhotos).Methods(http.MethodGet)
	api.HandleFunc("/photos/bulk-assign", handler.BulkAssignPhotos).Methods(http.MethodPost)
	api.HandleFunc("/photos/{photoId}/assign", handler.AssignPhoto).Methods(http.MethodPost)
	api.HandleFunc("/photos/{photoId}/unassign", handler.UnassignPhoto).Methods(http.MethodPost)
	api.HandleFunc("/photos/{photoId}", handler.UpdatePhoto).Methods(http.MethodPatch)
	api.HandleFunc("/photos/{photoId}", handler.DeletePhoto).Methods(http.MethodDelete)

	api.HandleFunc("/templates", handler.GetTemplates).Methods(http.MethodGet)
	api.HandleFunc("/templates", handler.CreateTemplate).Methods(http.MethodPost)
	api.HandleFunc("/templates/{templateId}", handler.UpdateTemplate).Methods(http.MethodPatch)
	api.HandleFunc("/templates/{templateId}", handler.DeleteTemplate).Methods(http.MethodDelete)

	api.HandleFunc("/calendar", handler.GetCalendar).Methods(http.MethodGet)
	api.HandleFunc("/calendar", handler.ScheduleEvent).Methods(http.MethodPost)
	api.HandleFunc("/calendar/{eventId}", handler.UpdateEvent).Methods(http.MethodPatch)
	api.HandleFunc("/calendar/{eventId}", handler.DeleteEvent).Methods(http.MethodDelete)

	api.HandleFunc("/export", handler.ExportData).Methods(http.MethodGet)
	api.HandleFunc("/import", handler.ImportData).Methods(http.MethodPost)
	api.HandleFunc("/clear", handler.ClearData).Methods(http.MethodPost)
	api.HandleFunc("/stats", handler.GetStats).Methods(http.MethodGet)

	handlerChain := middleware.Chain(
		router,
		middleware.LoggingMiddleware,
		middleware.CORSMiddleware,
	)

	addr := fmt.Sprintf(":%d", cfg.ServerPort)
	log.Printf("Server listening on %s", addr)

	if err := http.ListenAndServe(addr, handlerChain); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
