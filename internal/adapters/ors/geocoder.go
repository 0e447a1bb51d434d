package ors

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"field-route-service/internal/domain"
	"field-route-service/internal/platform/obs"
	"field-route-service/internal/ports"
)

// Geocoder implements ports.GeocodeProvider using the OpenRouteService
// geocode-search endpoint.
//
// The upstream service is rate limited, so outbound calls are
// self-throttled to at most one per second. An optional persistent
// cache is consulted first; cache hits bypass the throttle entirely.
type Geocoder struct {
	client *client
	cache  ports.GeocodeCache

	mu       sync.Mutex
	nextCall time.Time
	interval time.Duration
}

func NewGeocoder(apiKey, baseURL string, cache ports.GeocodeCache) (*Geocoder, error) {
	c, err := newClient(apiKey, baseURL)
	if err != nil {
		return nil, err
	}
	return &Geocoder{
		client:   c,
		cache:    cache,
		interval: time.Second,
	}, nil
}

type geocodeResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}

// Geocode resolves an address to coordinates.
func (g *Geocoder) Geocode(ctx context.Context, address string) (_ domain.Coordinates, err error) {
	defer obs.Time(ctx, "ors.Geocode")(&err)

	norm := normalize(address)
	if norm == "" {
		return domain.Coordinates{}, errors.New("geocode: address must be non-empty")
	}

	if g.cache != nil {
		hits, err := g.cache.GetMany(ctx, []string{norm})
		if err != nil {
			return domain.Coordinates{}, fmt.Errorf("geocode cache: %w", err)
		}
		if c, ok := hits[norm]; ok {
			return c, nil
		}
	}

	if err := g.throttle(ctx); err != nil {
		return domain.Coordinates{}, err
	}

	endpoint := g.client.baseURL + "/geocode/search"
	resp, err := g.client.doWithRetry(ctx, func() (*http.Request, error) {
		req, err := g.client.newRequest(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		q := req.URL.Query()
		q.Set("text", norm)
		q.Set("size", "1")
		req.URL.RawQuery = q.Encode()
		return req, nil
	})
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("geocode request failed: %w", err)
	}
	defer resp.Body.Close()

	var decoded geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.Coordinates{}, fmt.Errorf("decode geocode response: %w", err)
	}

	if len(decoded.Features) == 0 {
		return domain.Coordinates{}, fmt.Errorf("no geocode results for %q", address)
	}

	coords := decoded.Features[0].Geometry.Coordinates
	if len(coords) != 2 {
		return domain.Coordinates{}, fmt.Errorf("invalid coordinate format for %q", address)
	}

	result := domain.Coordinates{Lon: coords[0], Lat: coords[1]}

	if g.cache != nil {
		if err := g.cache.PutMany(ctx, map[string]domain.Coordinates{norm: result}); err != nil {
			log.Printf("geocode cache write failed: %v", err)
		}
	}

	return result, nil
}

// throttle blocks until this caller's reserved one-per-interval slot
// arrives, or the context is cancelled.
func (g *Geocoder) throttle(ctx context.Context) error {
	g.mu.Lock()
	now := time.Now()
	wait := g.nextCall.Sub(now)
	if wait < 0 {
		wait = 0
	}
	g.nextCall = now.Add(wait + g.interval)
	g.mu.Unlock()

	if wait == 0 {
		return nil
	}

	timer := time.NewTimer(wait)
	select {
	case <-ctx.Done():
		timer.Stop()
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
