package dto

import "time"

type TrendItemResponse struct {
	Label string `json:"label"`
	Value string `json:"value"`
	Class string `json:"class"`
}

type FlaggedIssueResponse struct {
	Severity    string `json:"severity"`
	Description string `json:"description"`
	StopID      string `json:"stop_id,omitempty"`
}

type ExecutiveSummaryResponse struct {
	TotalStops     int `json:"total_stops"`
	CompletedStops int `json:"completed_stops"`
	SkippedStops   int `json:"skipped_stops"`
	PendingStops   int `json:"pending_stops"`

	TotalDriveTimeMinutes     int     `json:"total_drive_time_minutes"`
	TotalOnSiteTimeMinutes    int     `json:"total_on_site_time_minutes"`
	TotalTimeMinutes          int     `json:"total_time_minutes"`
	AverageTimePerStopMinutes int     `json:"average_time_per_stop_minutes"`
	LocationsPerHour          float64 `json:"locations_per_hour"`
	TotalDistanceKm           float64 `json:"total_distance_km"`

	Trends       []TrendItemResponse    `json:"trends"`
	Observations []string               `json:"observations"`
	Issues       []FlaggedIssueResponse `json:"issues"`
}

type StopReportResponse struct {
	StopID           string                     `json:"stop_id"`
	Address          string                     `json:"address"`
	Name             string                     `json:"name,omitempty"`
	Status           string                     `json:"status"`
	TimeSpentMinutes int                        `json:"time_spent_minutes"`
	ArrivedAt        *time.Time                 `json:"arrived_at,omitempty"`
	DepartedAt       *time.Time                 `json:"departed_at,omitempty"`
	Responses        []QuestionResponseResponse `json:"responses"`
}

type DayReportResponse struct {
	ID          string                   `json:"id"`
	RouteID     string                   `json:"route_id"`
	Summary     ExecutiveSummaryResponse `json:"summary"`
	Stops       []StopReportResponse     `json:"stops"`
	GeneratedAt time.Time                `json:"generated_at"`
}
