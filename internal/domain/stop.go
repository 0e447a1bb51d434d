package domain

import "time"

// Lifecycle state of a single stop.
//
// pending is the initial state. A stop moves to in_progress on arrival,
// then to completed on departure. skipped is reachable only from
// pending. completed and skipped are terminal.
type StopStatus string

const (
	StopPending    StopStatus = "pending"
	StopInProgress StopStatus = "in_progress"
	StopCompleted  StopStatus = "completed"
	StopSkipped    StopStatus = "skipped"
)

func (s StopStatus) Valid() bool {
	switch s {
	case StopPending, StopInProgress, StopCompleted, StopSkipped:
		return true
	}
	return false
}

// CanTransitionTo reports whether the stop lifecycle permits moving
// from s to next.
func (s StopStatus) CanTransitionTo(next StopStatus) bool {
	switch s {
	case StopPending:
		return next == StopInProgress || next == StopSkipped
	case StopInProgress:
		return next == StopCompleted
	default:
		// completed and skipped are terminal.
		return false
	}
}

// Terminal reports whether no further transitions are allowed.
func (s StopStatus) Terminal() bool {
	return s == StopCompleted || s == StopSkipped
}

// Represents one planned visit within a route.
//
// A Stop is owned by exactly one Route and carries a zero-based Order
// that is contiguous and unique within that route. ArrivedAt is set
// when the stop enters in_progress; DepartedAt when it completes.
// When both are present, DepartedAt >= ArrivedAt.
type Stop struct {
	ID         string
	RouteID    string
	Address    string
	Name       string
	Coords     Coordinates
	Order      int
	Status     StopStatus
	ArrivedAt  *time.Time
	DepartedAt *time.Time
}

// DisplayName returns the friendly name, falling back to the address.
func (s *Stop) DisplayName() string {
	if s.Name != "" {
		return s.Name
	}
	return s.Address
}

// TimeSpentMinutes returns whole minutes between arrival and departure,
// rounded to the nearest integer. Missing timestamps yield 0.
func (s *Stop) TimeSpentMinutes() int {
	if s.ArrivedAt == nil || s.DepartedAt == nil {
		return 0
	}
	d := s.DepartedAt.Sub(*s.ArrivedAt)
	if d < 0 {
		return 0
	}
	return int(d.Round(time.Minute) / time.Minute)
}
