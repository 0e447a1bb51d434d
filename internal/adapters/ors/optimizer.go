package ors

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"field-route-service/internal/domain"
	"field-route-service/internal/platform/obs"
)

// Optimizer implements ports.OptimizationProvider using the
// OpenRouteService optimization endpoint.
//
// The first point is submitted as the vehicle start; the remaining
// points become jobs. Failures are returned to the caller, which is
// expected to fall back to the local heuristic.
type Optimizer struct {
	client  *client
	profile string
}

func NewOptimizer(apiKey, baseURL string) (*Optimizer, error) {
	c, err := newClient(apiKey, baseURL)
	if err != nil {
		return nil, err
	}
	return &Optimizer{client: c, profile: "driving-car"}, nil
}

type optimizationJob struct {
	ID       int       `json:"id"`
	Location []float64 `json:"location"`
}

type optimizationVehicle struct {
	ID      int       `json:"id"`
	Profile string    `json:"profile"`
	Start   []float64 `json:"start"`
}

type optimizationRequest struct {
	Jobs     []optimizationJob     `json:"jobs"`
	Vehicles []optimizationVehicle `json:"vehicles"`
}

type optimizationResponse struct {
	Routes []struct {
		Distance float64 `json:"distance"`
		Duration float64 `json:"duration"`
		Steps    []struct {
			Type string `json:"type"`
			Job  int    `json:"job"`
		} `json:"steps"`
	} `json:"routes"`
	Unassigned []struct {
		ID int `json:"id"`
	} `json:"unassigned"`
}

// Optimize submits points to the optimization endpoint and maps the
// returned step sequence back to input indices.
func (o *Optimizer) Optimize(ctx context.Context, points []domain.Coordinates) (_ domain.Tour, err error) {
	defer obs.Time(ctx, "ors.Optimize")(&err)

	if len(points) < 2 {
		return domain.Tour{}, errors.New("optimize: at least two points required")
	}

	jobs := make([]optimizationJob, 0, len(points)-1)
	for i := 1; i < len(points); i++ {
		// Job ids are input indices so the response maps back directly.
		jobs = append(jobs, optimizationJob{ID: i, Location: points[i].CoordsToList()})
	}

	bodyObj := optimizationRequest{
		Jobs: jobs,
		Vehicles: []optimizationVehicle{
			{ID: 1, Profile: o.profile, Start: points[0].CoordsToList()},
		},
	}

	payload, err := json.Marshal(bodyObj)
	if err != nil {
		return domain.Tour{}, fmt.Errorf("marshal optimization request: %w", err)
	}

	endpoint := o.client.baseURL + "/optimization"
	resp, err := o.client.doWithRetry(ctx, func() (*http.Request, error) {
		return o.client.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	})
	if err != nil {
		return domain.Tour{}, fmt.Errorf("optimization request failed: %w", err)
	}
	defer resp.Body.Close()

	var decoded optimizationResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.Tour{}, fmt.Errorf("decode optimization response: %w", err)
	}

	if len(decoded.Unassigned) > 0 {
		return domain.Tour{}, fmt.Errorf("optimization left %d point(s) unassigned", len(decoded.Unassigned))
	}
	if len(decoded.Routes) != 1 {
		return domain.Tour{}, fmt.Errorf("expected 1 route; got %d", len(decoded.Routes))
	}

	route := decoded.Routes[0]

	order := make([]int, 0, len(points))
	order = append(order, 0)
	for _, step := range route.Steps {
		if step.Type != "job" {
			continue
		}
		if step.Job < 1 || step.Job >= len(points) {
			return domain.Tour{}, fmt.Errorf("optimization returned unknown job id %d", step.Job)
		}
		order = append(order, step.Job)
	}

	if len(order) != len(points) {
		return domain.Tour{}, fmt.Errorf(
			"optimization returned %d of %d points", len(order), len(points),
		)
	}

	return domain.Tour{
		Order:                order,
		TotalDistanceMeters:  route.Distance,
		TotalDurationSeconds: route.Duration,
	}, nil
}
