package handlers

import (
	"context"
	"net/http"

	"field-route-service/internal/api/dto"
	"field-route-service/internal/domain"
	"field-route-service/internal/ports"
	"field-route-service/internal/services"
)

// RouteHandler exposes route lifecycle and planning endpoints.
type RouteHandler struct {
	Service *services.RouteService
	Stops   ports.StopRepository
}

func (h *RouteHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateRouteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	route, err := h.Service.CreateRoute(r.Context(), req.UserID, req.Date)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, toRouteResponse(route))
}

func (h *RouteHandler) Get(w http.ResponseWriter, r *http.Request) {
	routeID := r.PathValue("id")

	route, err := h.Service.Routes.Get(r.Context(), routeID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	stops, err := h.Stops.ListByRoute(r.Context(), routeID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	res := dto.RouteDetailResponse{
		Route: toRouteResponse(route),
		Stops: make([]dto.StopResponse, 0, len(stops)),
	}
	for _, s := range stops {
		res.Stops = append(res.Stops, toStopResponse(s))
	}

	writeJSON(w, r, http.StatusOK, res)
}

func (h *RouteHandler) Start(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.Service.StartRoute)
}

func (h *RouteHandler) Complete(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.Service.CompleteRoute)
}

func (h *RouteHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.Service.CancelRoute)
}

func (h *RouteHandler) transition(
	w http.ResponseWriter,
	r *http.Request,
	op func(ctx context.Context, routeID string) (*domain.Route, error),
) {
	route, err := op(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toRouteResponse(route))
}

func (h *RouteHandler) AddStop(w http.ResponseWriter, r *http.Request) {
	routeID := r.PathValue("id")

	var req dto.AddStopRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	var coords *domain.Coordinates
	if req.Lat != nil && req.Lon != nil {
		coords = &domain.Coordinates{Lat: *req.Lat, Lon: *req.Lon}
	}

	stop, err := h.Service.AddStop(r.Context(), routeID, req.Address, req.Name, coords)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, toStopResponse(stop))
}

func (h *RouteHandler) RemoveStop(w http.ResponseWriter, r *http.Request) {
	routeID := r.PathValue("id")
	stopID := r.PathValue("stopID")

	if err := h.Service.RemoveStop(r.Context(), routeID, stopID); err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Optimize reorders the route's stops into an approximate shortest
// tour and returns the updated plan.
func (h *RouteHandler) Optimize(w http.ResponseWriter, r *http.Request) {
	routeID := r.PathValue("id")

	var req dto.OptimizeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	var start *domain.Coordinates
	if req.StartLat != nil && req.StartLon != nil {
		start = &domain.Coordinates{Lat: *req.StartLat, Lon: *req.StartLon}
	}

	route, stops, err := h.Service.OptimizeStops(r.Context(), routeID, start)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	res := dto.RouteDetailResponse{
		Route: toRouteResponse(route),
		Stops: make([]dto.StopResponse, 0, len(stops)),
	}
	for _, s := range stops {
		res.Stops = append(res.Stops, toStopResponse(s))
	}

	writeJSON(w, r, http.StatusOK, res)
}

func toRouteResponse(route *domain.Route) dto.RouteResponse {
	return dto.RouteResponse{
		ID:                   route.ID,
		UserID:               route.UserID,
		Date:                 route.Date,
		Status:               string(route.Status),
		TotalDistanceMeters:  route.TotalDistanceMeters,
		TotalDurationSeconds: route.TotalDurationSeconds,
		StartedAt:            route.StartedAt,
		CompletedAt:          route.CompletedAt,
	}
}

func toStopResponse(stop *domain.Stop) dto.StopResponse {
	return dto.StopResponse{
		ID:         stop.ID,
		RouteID:    stop.RouteID,
		Address:    stop.Address,
		Name:       stop.Name,
		Lat:        stop.Coords.Lat,
		Lon:        stop.Coords.Lon,
		Order:      stop.Order,
		Status:     string(stop.Status),
		ArrivedAt:  stop.ArrivedAt,
		DepartedAt: stop.DepartedAt,
	}
}
