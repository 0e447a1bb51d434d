package dto

import "time"

type CreateRouteRequest struct {
	UserID string `json:"user_id"`
	Date   string `json:"date"`
}

type OptimizeRequest struct {
	StartLat *float64 `json:"start_lat"`
	StartLon *float64 `json:"start_lon"`
}

type RouteResponse struct {
	ID                   string     `json:"id"`
	UserID               string     `json:"user_id"`
	Date                 string     `json:"date"`
	Status               string     `json:"status"`
	TotalDistanceMeters  float64    `json:"total_distance_meters"`
	TotalDurationSeconds float64    `json:"total_duration_seconds"`
	StartedAt            *time.Time `json:"started_at,omitempty"`
	CompletedAt          *time.Time `json:"completed_at,omitempty"`
}

type RouteDetailResponse struct {
	Route RouteResponse  `json:"route"`
	Stops []StopResponse `json:"stops"`
}
