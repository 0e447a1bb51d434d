package api

import (
	"net/http"

	"field-route-service/internal/api/handlers"
	"field-route-service/internal/ports"
	"field-route-service/internal/services"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(
	routeService *services.RouteService,
	reportService *services.ReportService,
	reports ports.ReportRepository,
	questions ports.QuestionRepository,
) http.Handler {
	mux := http.NewServeMux()

	routeHandler := &handlers.RouteHandler{
		Service: routeService,
		Stops:   routeService.Stops,
	}
	stopHandler := &handlers.StopHandler{Service: routeService}
	reportHandler := &handlers.ReportHandler{
		Service: reportService,
		Reports: reports,
	}
	questionHandler := &handlers.QuestionHandler{Repo: questions}

	mux.HandleFunc("GET /health", handlers.Health)

	mux.HandleFunc("POST /routes", routeHandler.Create)
	mux.HandleFunc("GET /routes/{id}", routeHandler.Get)
	mux.HandleFunc("POST /routes/{id}/start", routeHandler.Start)
	mux.HandleFunc("POST /routes/{id}/complete", routeHandler.Complete)
	mux.HandleFunc("POST /routes/{id}/cancel", routeHandler.Cancel)

	mux.HandleFunc("POST /routes/{id}/stops", routeHandler.AddStop)
	mux.HandleFunc("DELETE /routes/{id}/stops/{stopID}", routeHandler.RemoveStop)
	mux.HandleFunc("POST /routes/{id}/optimize", routeHandler.Optimize)

	mux.HandleFunc("POST /stops/{id}/arrive", stopHandler.Arrive)
	mux.HandleFunc("POST /stops/{id}/depart", stopHandler.Depart)
	mux.HandleFunc("POST /stops/{id}/skip", stopHandler.Skip)
	mux.HandleFunc("PUT /stops/{id}/responses/{questionID}", stopHandler.SaveResponse)

	mux.HandleFunc("POST /routes/{id}/report", reportHandler.Generate)
	mux.HandleFunc("GET /routes/{id}/report", reportHandler.Get)

	mux.HandleFunc("GET /questions", questionHandler.List)

	return requestLogger(mux)
}
