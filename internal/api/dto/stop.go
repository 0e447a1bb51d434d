package dto

import "time"

type AddStopRequest struct {
	Address string   `json:"address"`
	Name    string   `json:"name"`
	Lat     *float64 `json:"lat"`
	Lon     *float64 `json:"lon"`
}

type StopResponse struct {
	ID         string     `json:"id"`
	RouteID    string     `json:"route_id"`
	Address    string     `json:"address"`
	Name       string     `json:"name,omitempty"`
	Lat        float64    `json:"lat"`
	Lon        float64    `json:"lon"`
	Order      int        `json:"order"`
	Status     string     `json:"status"`
	ArrivedAt  *time.Time `json:"arrived_at,omitempty"`
	DepartedAt *time.Time `json:"departed_at,omitempty"`
}
