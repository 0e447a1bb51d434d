package services

import (
	"fmt"
	"slices"
	"strings"

	"field-route-service/internal/domain"
)

// buildIssues collects severity-ranked concerns per stop, per response.
//
// The result is sorted high > medium > low, stable within a severity
// tier so issues keep their encounter order.
func buildIssues(stops []*domain.Stop, responsesByStop map[string][]*domain.QuestionResponse) []domain.FlaggedIssue {
	issues := []domain.FlaggedIssue{}

	for _, stop := range stops {
		for _, r := range responsesByStop[stop.ID] {
			switch r.QuestionType {
			case domain.QuestionYesNo:
				if isIssueQuestion(r.QuestionText) && r.BoolValue != nil && *r.BoolValue {
					desc := fmt.Sprintf("Issue reported at %s", stop.DisplayName())
					if detail := issueDetail(responsesByStop[stop.ID]); detail != "" {
						desc += ": " + detail
					}
					issues = append(issues, domain.FlaggedIssue{
						Severity:    domain.SeverityMedium,
						Description: desc,
						StopID:      stop.ID,
					})
				}
			case domain.QuestionRating:
				if r.NumberValue == nil || *r.NumberValue > lowRatingThreshold {
					continue
				}
				severity := domain.SeverityMedium
				if *r.NumberValue == 1 {
					severity = domain.SeverityHigh
				}
				issues = append(issues, domain.FlaggedIssue{
					Severity:    severity,
					Description: fmt.Sprintf("Low rating of %.0f at %s", *r.NumberValue, stop.DisplayName()),
					StopID:      stop.ID,
				})
			}
		}

		if stop.Status == domain.StopSkipped {
			issues = append(issues, domain.FlaggedIssue{
				Severity:    domain.SeverityLow,
				Description: fmt.Sprintf("Stop skipped: %s", stop.DisplayName()),
				StopID:      stop.ID,
			})
		}
	}

	slices.SortStableFunc(issues, func(a, b domain.FlaggedIssue) int {
		return a.Severity.Rank() - b.Severity.Rank()
	})

	return issues
}

// issueDetail returns the value of a sibling free-text response whose
// question asks for a description, if one was answered.
func issueDetail(responses []*domain.QuestionResponse) string {
	for _, r := range responses {
		if r.QuestionType != domain.QuestionText || r.TextValue == nil {
			continue
		}
		if strings.Contains(strings.ToLower(r.QuestionText), "description") {
			return *r.TextValue
		}
	}
	return ""
}
