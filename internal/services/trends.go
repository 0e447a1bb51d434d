package services

import (
	"fmt"
	"math"

	"field-route-service/internal/domain"
)

// buildTrends derives classified summary statistics. Each trend is
// independent and only emitted when its underlying category is present.
func buildTrends(stops routeStats, responses responseStats) []domain.TrendItem {
	trends := []domain.TrendItem{}

	if stops.total > 0 {
		rate := float64(stops.completed) / float64(stops.total) * 100

		class := domain.TrendNegative
		switch {
		case rate >= completionPositivePct:
			class = domain.TrendPositive
		case rate >= completionNeutralPct:
			class = domain.TrendNeutral
		}

		trends = append(trends, domain.TrendItem{
			Label: "Completion rate",
			Value: fmt.Sprintf("%d%%", int(math.Round(rate))),
			Class: class,
		})
	}

	if responses.issueAnswered > 0 {
		rate := responses.issueTruePct()

		class := domain.TrendPositive
		switch {
		case rate > issueRateNegativePct:
			class = domain.TrendNegative
		case rate >= issueRateNeutralPct:
			class = domain.TrendNeutral
		}

		trends = append(trends, domain.TrendItem{
			Label: "Issue rate",
			Value: fmt.Sprintf("%d%%", int(math.Round(rate))),
			Class: class,
		})
	}

	if responses.followUpAnswered > 0 {
		class := domain.TrendPositive
		if responses.followUpTrue > 0 {
			class = domain.TrendNeutral
		}

		trends = append(trends, domain.TrendItem{
			Label: "Follow-ups needed",
			Value: fmt.Sprintf("%d", responses.followUpTrue),
			Class: class,
		})
	}

	if responses.ratingCount > 0 {
		avg := responses.averageRating()

		class := domain.TrendNegative
		switch {
		case avg >= ratingPositive:
			class = domain.TrendPositive
		case avg >= ratingNeutral:
			class = domain.TrendNeutral
		}

		trends = append(trends, domain.TrendItem{
			Label: "Average rating",
			Value: fmt.Sprintf("%.1f", avg),
			Class: class,
		})
	}

	return trends
}
