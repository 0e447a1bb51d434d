package insights

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"field-route-service/internal/domain"
)

// HTTPInsightProvider implements ports.InsightProvider against a
// narrative-insight HTTP service.
//
// This collaborator is optional: callers treat any error as "no extra
// observations" and proceed with the local rule engine.
type HTTPInsightProvider struct {
	session  *http.Client
	endpoint string
}

func NewHTTPInsightProvider(endpoint string) (*HTTPInsightProvider, error) {
	if endpoint == "" {
		return nil, errors.New("insight endpoint is empty")
	}
	return &HTTPInsightProvider{
		session:  &http.Client{Timeout: 15 * time.Second},
		endpoint: endpoint,
	}, nil
}

type insightStop struct {
	Name             string `json:"name"`
	Status           string `json:"status"`
	TimeSpentMinutes int    `json:"time_spent_minutes"`
}

type insightResponse struct {
	QuestionText string   `json:"question_text"`
	QuestionType string   `json:"question_type"`
	BoolValue    *bool    `json:"bool_value,omitempty"`
	NumberValue  *float64 `json:"number_value,omitempty"`
	TextValue    *string  `json:"text_value,omitempty"`
}

type insightRequest struct {
	Date                 string            `json:"date"`
	TotalDistanceMeters  float64           `json:"total_distance_meters"`
	TotalDurationSeconds float64           `json:"total_duration_seconds"`
	Stops                []insightStop     `json:"stops"`
	Responses            []insightResponse `json:"responses"`
}

type insightReply struct {
	Observations []string `json:"observations"`
}

// Observations sends a compact view of the day to the insight service
// and returns its narrative strings.
func (p *HTTPInsightProvider) Observations(
	ctx context.Context,
	route *domain.Route,
	stops []*domain.Stop,
	responses []*domain.QuestionResponse,
) ([]string, error) {
	body := insightRequest{
		Date:                 route.Date,
		TotalDistanceMeters:  route.TotalDistanceMeters,
		TotalDurationSeconds: route.TotalDurationSeconds,
	}
	for _, s := range stops {
		body.Stops = append(body.Stops, insightStop{
			Name:             s.DisplayName(),
			Status:           string(s.Status),
			TimeSpentMinutes: s.TimeSpentMinutes(),
		})
	}
	for _, r := range responses {
		// Image payloads stay local; the insight service only needs
		// answer semantics.
		body.Responses = append(body.Responses, insightResponse{
			QuestionText: r.QuestionText,
			QuestionType: string(r.QuestionType),
			BoolValue:    r.BoolValue,
			NumberValue:  r.NumberValue,
			TextValue:    r.TextValue,
		})
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal insight request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create insight request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := p.session.Do(req)
	if err != nil {
		return nil, fmt.Errorf("insight request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("insight service returned status %d", resp.StatusCode)
	}

	var decoded insightReply
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode insight response: %w", err)
	}

	return decoded.Observations, nil
}
