package services

import (
	"fmt"
	"strings"

	"field-route-service/internal/domain"
)

// buildObservations runs the rule-based narrative engine.
//
// extra holds strings from an external insight source and comes first.
// Wording is presentational; the triggering conditions are the
// contract. When nothing fires, exactly one default observation is
// returned so a report never renders an empty narrative.
func buildObservations(route *domain.Route, st routeStats, rs responseStats, extra []string) []string {
	obs := []string{}
	obs = append(obs, extra...)

	if st.total > 0 {
		rate := float64(st.completed) / float64(st.total) * 100
		switch {
		case rate == 100:
			obs = append(obs, "All stops completed. Excellent work covering the full route.")
		case rate >= completionPositivePct:
			obs = append(obs, fmt.Sprintf(
				"Strong day with %.0f%% of stops completed; %d stop(s) remain unfinished.",
				rate, st.total-st.completed,
			))
		case rate < completionNeutralPct:
			obs = append(obs, fmt.Sprintf(
				"Only %.0f%% of stops were completed. This may indicate scheduling or access problems worth reviewing.",
				rate,
			))
		}
	}

	if st.avgStopMinutes > 0 {
		for _, s := range st.completedStops {
			if s.TimeSpentMinutes() > outlierFactor*st.avgStopMinutes {
				obs = append(obs, fmt.Sprintf(
					"%s took %d minutes, well above the %d-minute average. It may need a closer look.",
					s.DisplayName(), s.TimeSpentMinutes(), st.avgStopMinutes,
				))
			}
		}

		if st.avgStopMinutes < quickVisitMinutes {
			obs = append(obs, fmt.Sprintf(
				"Visits averaged just %d minutes per stop. Very efficient on-site time.",
				st.avgStopMinutes,
			))
		} else if st.avgStopMinutes > extendedVisitMinutes {
			obs = append(obs, fmt.Sprintf(
				"Visits averaged %d minutes per stop, suggesting extended interactions at most locations.",
				st.avgStopMinutes,
			))
		}
	}

	if rs.issueTrue > 0 {
		if rs.issueTruePct() > issueRateHighPct {
			obs = append(obs, fmt.Sprintf(
				"Issues were reported at a majority of stops (%d of %d). A broader pattern may be at play.",
				rs.issueTrue, rs.issueAnswered,
			))
		} else {
			obs = append(obs, fmt.Sprintf(
				"Some issues were reported (%d stop(s)). Review the flagged items below.",
				rs.issueTrue,
			))
		}
	} else if st.completed > 0 {
		obs = append(obs, "No issues reported across completed stops.")
	}

	if rs.followUpTrue > 0 {
		obs = append(obs, fmt.Sprintf("%d stop(s) need a follow-up visit.", rs.followUpTrue))
	}

	if rs.ratingCount > 0 {
		avg := rs.averageRating()
		switch {
		case avg >= ratingExcellent:
			obs = append(obs, fmt.Sprintf("Excellent satisfaction: ratings averaged %.1f.", avg))
		case avg >= ratingPositive:
			obs = append(obs, fmt.Sprintf("Good satisfaction overall with an average rating of %.1f.", avg))
		case avg < ratingNeedsWork:
			obs = append(obs, fmt.Sprintf("Ratings averaged %.1f. Customer satisfaction needs attention.", avg))
		}
		if rs.lowRatings > 0 {
			obs = append(obs, fmt.Sprintf("%d location(s) gave a low rating of 2 or below.", rs.lowRatings))
		}
	}

	if len(st.skippedStops) > 0 {
		names := make([]string, 0, len(st.skippedStops))
		for _, s := range st.skippedStops {
			names = append(names, s.DisplayName())
		}
		obs = append(obs, fmt.Sprintf("Skipped stops: %s.", strings.Join(names, ", ")))
	}

	if rs.photoCount > 0 {
		obs = append(obs, fmt.Sprintf("%d photo(s) captured during visits.", rs.photoCount))
	}
	if rs.signatureCount > 0 {
		obs = append(obs, fmt.Sprintf("%d signature(s) collected.", rs.signatureCount))
	}

	if st.completed > 0 {
		milesPerStop := route.TotalDistanceMeters / metersPerMile / float64(st.completed)
		if milesPerStop > sparseMilesPerStop {
			obs = append(obs, fmt.Sprintf(
				"Stops averaged %.1f miles apart. Consider optimizing stop clustering to cut drive time.",
				milesPerStop,
			))
		} else if milesPerStop < denseMilesPerStop {
			obs = append(obs, fmt.Sprintf(
				"Stops averaged only %.1f miles apart. Efficient clustering kept driving to a minimum.",
				milesPerStop,
			))
		}
	}

	if len(obs) == 0 {
		obs = append(obs, "Route data recorded. Complete more stops to unlock richer insights.")
	}

	return obs
}
