package services

import (
	"testing"

	"field-route-service/internal/domain"
)

func TestObservationsCompletionRules(t *testing.T) {
	route := &domain.Route{Status: domain.RouteActive}

	perfect := buildObservations(route, routeStats{total: 4, completed: 4}, responseStats{}, nil)
	if !hasObservationContaining(perfect, "All stops completed") {
		t.Fatalf("100%%: got %v", perfect)
	}

	strong := buildObservations(route, routeStats{total: 5, completed: 4}, responseStats{}, nil)
	if !hasObservationContaining(strong, "80% of stops completed") {
		t.Fatalf("80%%: got %v", strong)
	}
	if !hasObservationContaining(strong, "1 stop(s) remain") {
		t.Fatalf("80%%: got %v", strong)
	}

	weak := buildObservations(route, routeStats{total: 5, completed: 2}, responseStats{}, nil)
	if !hasObservationContaining(weak, "scheduling or access problems") {
		t.Fatalf("40%%: got %v", weak)
	}
}

func TestObservationsVisitDurationRules(t *testing.T) {
	route := &domain.Route{Status: domain.RouteActive}

	quick := buildObservations(route, routeStats{total: 3, completed: 3, avgStopMinutes: 4}, responseStats{}, nil)
	if !hasObservationContaining(quick, "Very efficient on-site time") {
		t.Fatalf("quick visits: got %v", quick)
	}

	extended := buildObservations(route, routeStats{total: 3, completed: 3, avgStopMinutes: 35}, responseStats{}, nil)
	if !hasObservationContaining(extended, "extended interactions") {
		t.Fatalf("extended visits: got %v", extended)
	}
}

func TestObservationsIssueRules(t *testing.T) {
	route := &domain.Route{Status: domain.RouteActive}
	base := routeStats{total: 4, completed: 4}

	majority := buildObservations(route, base, responseStats{issueAnswered: 4, issueTrue: 3}, nil)
	if !hasObservationContaining(majority, "majority of stops (3 of 4)") {
		t.Fatalf("majority: got %v", majority)
	}

	some := buildObservations(route, base, responseStats{issueAnswered: 4, issueTrue: 1}, nil)
	if !hasObservationContaining(some, "Some issues were reported (1 stop(s))") {
		t.Fatalf("some: got %v", some)
	}

	none := buildObservations(route, base, responseStats{issueAnswered: 4}, nil)
	if !hasObservationContaining(none, "No issues reported") {
		t.Fatalf("none: got %v", none)
	}

	// Exactly half is not a majority.
	half := buildObservations(route, base, responseStats{issueAnswered: 4, issueTrue: 2}, nil)
	if !hasObservationContaining(half, "Some issues were reported") {
		t.Fatalf("half: got %v", half)
	}
}

func TestObservationsRatingRules(t *testing.T) {
	route := &domain.Route{Status: domain.RouteActive}
	base := routeStats{total: 2, completed: 2}

	excellent := buildObservations(route, base, responseStats{ratingCount: 2, ratingSum: 9.2}, nil)
	if !hasObservationContaining(excellent, "Excellent satisfaction") {
		t.Fatalf("4.6 avg: got %v", excellent)
	}

	good := buildObservations(route, base, responseStats{ratingCount: 2, ratingSum: 8.2}, nil)
	if !hasObservationContaining(good, "Good satisfaction") {
		t.Fatalf("4.1 avg: got %v", good)
	}

	poor := buildObservations(route, base, responseStats{ratingCount: 2, ratingSum: 5, lowRatings: 1}, nil)
	if !hasObservationContaining(poor, "needs attention") {
		t.Fatalf("2.5 avg: got %v", poor)
	}
	if !hasObservationContaining(poor, "1 location(s) gave a low rating") {
		t.Fatalf("low ratings: got %v", poor)
	}
}

func TestObservationsMileageRules(t *testing.T) {
	sparse := buildObservations(
		&domain.Route{Status: domain.RouteCompleted, TotalDistanceMeters: 32187},
		routeStats{total: 3, completed: 3},
		responseStats{},
		nil,
	)
	// 20 miles over 3 stops is 6.7 per stop.
	if !hasObservationContaining(sparse, "Consider optimizing stop clustering") {
		t.Fatalf("sparse: got %v", sparse)
	}

	dense := buildObservations(
		&domain.Route{Status: domain.RouteCompleted, TotalDistanceMeters: 4800},
		routeStats{total: 3, completed: 3},
		responseStats{},
		nil,
	)
	// 3 miles over 3 stops is 1 per stop.
	if !hasObservationContaining(dense, "Efficient clustering") {
		t.Fatalf("dense: got %v", dense)
	}
}

func TestObservationsCountsAndDefault(t *testing.T) {
	route := &domain.Route{Status: domain.RouteActive}
	counted := buildObservations(route, routeStats{total: 2, completed: 2}, responseStats{
		followUpAnswered: 2,
		followUpTrue:     2,
		photoCount:       3,
		signatureCount:   1,
	}, nil)

	if !hasObservationContaining(counted, "2 stop(s) need a follow-up visit") {
		t.Fatalf("follow-ups: got %v", counted)
	}
	if !hasObservationContaining(counted, "3 photo(s) captured") {
		t.Fatalf("photos: got %v", counted)
	}
	if !hasObservationContaining(counted, "1 signature(s) collected") {
		t.Fatalf("signatures: got %v", counted)
	}

	fallback := buildObservations(&domain.Route{Status: domain.RoutePlanning}, routeStats{}, responseStats{}, nil)
	if len(fallback) != 1 {
		t.Fatalf("fallback: got %v, want exactly one default observation", fallback)
	}
}
