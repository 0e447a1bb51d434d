package handlers

import (
	"net/http"

	"field-route-service/internal/api/dto"
	"field-route-service/internal/domain"
	"field-route-service/internal/ports"
	"field-route-service/internal/services"
)

// ReportHandler exposes day-report generation and retrieval.
type ReportHandler struct {
	Service *services.ReportService
	Reports ports.ReportRepository
}

// Generate recomputes the route's report from source data, replacing
// any prior report in place.
func (h *ReportHandler) Generate(w http.ResponseWriter, r *http.Request) {
	report, err := h.Service.Generate(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, toReportResponse(report))
}

func (h *ReportHandler) Get(w http.ResponseWriter, r *http.Request) {
	report, err := h.Reports.GetByRoute(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, toReportResponse(report))
}

func toReportResponse(report *domain.DayReport) dto.DayReportResponse {
	summary := dto.ExecutiveSummaryResponse{
		TotalStops:     report.Summary.TotalStops,
		CompletedStops: report.Summary.CompletedStops,
		SkippedStops:   report.Summary.SkippedStops,
		PendingStops:   report.Summary.PendingStops,

		TotalDriveTimeMinutes:     report.Summary.TotalDriveTimeMinutes,
		TotalOnSiteTimeMinutes:    report.Summary.TotalOnSiteTimeMinutes,
		TotalTimeMinutes:          report.Summary.TotalTimeMinutes,
		AverageTimePerStopMinutes: report.Summary.AverageTimePerStopMinutes,
		LocationsPerHour:          report.Summary.LocationsPerHour,
		TotalDistanceKm:           report.Summary.TotalDistanceKm,

		Observations: report.Summary.Observations,
		Trends:       make([]dto.TrendItemResponse, 0, len(report.Summary.Trends)),
		Issues:       make([]dto.FlaggedIssueResponse, 0, len(report.Summary.Issues)),
	}
	for _, t := range report.Summary.Trends {
		summary.Trends = append(summary.Trends, dto.TrendItemResponse{
			Label: t.Label,
			Value: t.Value,
			Class: string(t.Class),
		})
	}
	for _, i := range report.Summary.Issues {
		summary.Issues = append(summary.Issues, dto.FlaggedIssueResponse{
			Severity:    string(i.Severity),
			Description: i.Description,
			StopID:      i.StopID,
		})
	}

	stops := make([]dto.StopReportResponse, 0, len(report.Stops))
	for _, s := range report.Stops {
		responses := make([]dto.QuestionResponseResponse, 0, len(s.Responses))
		for i := range s.Responses {
			responses = append(responses, toResponseResponse(&s.Responses[i]))
		}

		stops = append(stops, dto.StopReportResponse{
			StopID:           s.StopID,
			Address:          s.Address,
			Name:             s.Name,
			Status:           string(s.Status),
			TimeSpentMinutes: s.TimeSpentMinutes,
			ArrivedAt:        s.ArrivedAt,
			DepartedAt:       s.DepartedAt,
			Responses:        responses,
		})
	}

	return dto.DayReportResponse{
		ID:          report.ID,
		RouteID:     report.RouteID,
		Summary:     summary,
		Stops:       stops,
		GeneratedAt: report.GeneratedAt,
	}
}
