package domain

import "time"

// Classification of a summary statistic.
type TrendClass string

const (
	TrendPositive TrendClass = "positive"
	TrendNeutral  TrendClass = "neutral"
	TrendNegative TrendClass = "negative"
)

// One classified summary statistic over a category of responses.
type TrendItem struct {
	Label string
	Value string
	Class TrendClass
}

// Severity of a flagged issue, ordered high > medium > low.
type IssueSeverity string

const (
	SeverityLow    IssueSeverity = "low"
	SeverityMedium IssueSeverity = "medium"
	SeverityHigh   IssueSeverity = "high"
)

// Rank returns the sort weight for severity ordering (high first).
func (s IssueSeverity) Rank() int {
	switch s {
	case SeverityHigh:
		return 0
	case SeverityMedium:
		return 1
	default:
		return 2
	}
}

// A specific concern surfaced from stop or response data.
type FlaggedIssue struct {
	Severity    IssueSeverity
	Description string
	StopID      string
}

// Derived aggregate over a route, its stops, and all responses.
//
// Always regenerated wholesale from source data, never mutated in
// place. All times are whole minutes unless noted.
type ExecutiveSummary struct {
	TotalStops     int
	CompletedStops int
	SkippedStops   int
	PendingStops   int

	TotalDriveTimeMinutes     int
	TotalOnSiteTimeMinutes    int
	TotalTimeMinutes          int
	AverageTimePerStopMinutes int
	LocationsPerHour          float64
	TotalDistanceKm           float64

	Trends       []TrendItem
	Observations []string
	Issues       []FlaggedIssue
}

// Per-stop detail attached to a DayReport.
type StopReport struct {
	StopID           string
	Address          string
	Name             string
	Status           StopStatus
	TimeSpentMinutes int
	ArrivedAt        *time.Time
	DepartedAt       *time.Time
	Responses        []QuestionResponse
}

// The persisted report for one route.
//
// At most one exists per route; regeneration replaces the content in
// place while preserving the report's identity.
type DayReport struct {
	ID          string
	RouteID     string
	Summary     ExecutiveSummary
	Stops       []StopReport
	GeneratedAt time.Time
}
