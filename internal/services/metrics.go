package services

import (
	"math"
	"strings"
	"time"

	"field-route-service/internal/domain"
)

// Aggregated timing and counting metrics for one route.
type routeStats struct {
	total     int
	completed int
	skipped   int
	pending   int

	completedStops []*domain.Stop
	skippedStops   []*domain.Stop

	onSiteMinutes    int
	driveMinutes     int
	totalMinutes     int
	avgStopMinutes   int
	locationsPerHour float64
	distanceKm       float64
}

// computeRouteStats derives timing metrics from the route and its stops.
//
// Drive time is the optimizer's duration estimate minus time actually
// spent on site, floored at zero. Total time prefers the wall clock
// between StartedAt and CompletedAt when both exist (ground truth) and
// falls back to on-site + drive otherwise.
func computeRouteStats(route *domain.Route, stops []*domain.Stop) routeStats {
	st := routeStats{total: len(stops)}

	for _, s := range stops {
		switch s.Status {
		case domain.StopCompleted:
			st.completed++
			st.completedStops = append(st.completedStops, s)
			st.onSiteMinutes += s.TimeSpentMinutes()
		case domain.StopSkipped:
			st.skipped++
			st.skippedStops = append(st.skippedStops, s)
		default:
			st.pending++
		}
	}

	estimated := int(math.Round(route.TotalDurationSeconds / 60))
	st.driveMinutes = estimated - st.onSiteMinutes
	if st.driveMinutes < 0 {
		st.driveMinutes = 0
	}

	if route.StartedAt != nil && route.CompletedAt != nil {
		elapsed := route.CompletedAt.Sub(*route.StartedAt)
		if elapsed < 0 {
			elapsed = 0
		}
		st.totalMinutes = int(elapsed.Round(time.Minute) / time.Minute)
	} else {
		st.totalMinutes = st.onSiteMinutes + st.driveMinutes
	}

	if st.totalMinutes > 0 {
		st.locationsPerHour = roundTo1(float64(st.completed) / (float64(st.totalMinutes) / 60))
	}
	if st.completed > 0 {
		st.avgStopMinutes = int(math.Round(float64(st.onSiteMinutes) / float64(st.completed)))
	}

	st.distanceKm = roundTo1(route.TotalDistanceMeters / 1000)

	return st
}

// Per-category tallies over a route's question responses.
type responseStats struct {
	issueAnswered int
	issueTrue     int

	followUpAnswered int
	followUpTrue     int

	ratingCount int
	ratingSum   float64
	lowRatings  int

	photoCount     int
	signatureCount int
}

func computeResponseStats(responses []*domain.QuestionResponse) responseStats {
	var st responseStats

	for _, r := range responses {
		switch r.QuestionType {
		case domain.QuestionYesNo:
			if r.BoolValue == nil {
				continue
			}
			if isIssueQuestion(r.QuestionText) {
				st.issueAnswered++
				if *r.BoolValue {
					st.issueTrue++
				}
			}
			if isFollowUpQuestion(r.QuestionText) {
				st.followUpAnswered++
				if *r.BoolValue {
					st.followUpTrue++
				}
			}
		case domain.QuestionRating:
			if r.NumberValue == nil {
				continue
			}
			st.ratingCount++
			st.ratingSum += *r.NumberValue
			if *r.NumberValue <= lowRatingThreshold {
				st.lowRatings++
			}
		case domain.QuestionPhoto:
			if hasImage(r) {
				st.photoCount++
			}
		case domain.QuestionSignature:
			if hasImage(r) {
				st.signatureCount++
			}
		}
	}

	return st
}

// issueTruePct returns the percentage of answered issue questions that
// reported an issue; 0 when none were answered.
func (st responseStats) issueTruePct() float64 {
	if st.issueAnswered == 0 {
		return 0
	}
	return float64(st.issueTrue) / float64(st.issueAnswered) * 100
}

// averageRating returns the mean rating rounded to one decimal.
func (st responseStats) averageRating() float64 {
	if st.ratingCount == 0 {
		return 0
	}
	return roundTo1(st.ratingSum / float64(st.ratingCount))
}

func isIssueQuestion(text string) bool {
	return strings.Contains(strings.ToLower(text), "issue")
}

func isFollowUpQuestion(text string) bool {
	t := strings.ToLower(text)
	return strings.Contains(t, "follow-up") || strings.Contains(t, "followup")
}

func hasImage(r *domain.QuestionResponse) bool {
	return r.ImageData != nil && *r.ImageData != ""
}

func roundTo1(v float64) float64 {
	return math.Round(v*10) / 10
}
