// README: Routing engine client (OSRM-style HTTP API).
package routing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"googlemaps.github.io/maps"

	"fable/internal/metrics"
	"fable/internal/types"
)

// ErrNoRoute is returned when the engine answered but found no route between
// the waypoints.
var ErrNoRoute = errors.New("routing: no route found")

// Service calls the external routing engine. Unlike the geocoding and POI
// clients it does return errors: the orchestrator maps them to its error
// state rather than swallowing them.
type Service struct {
	baseURL string
	client  *http.Client
}

func NewService(baseURL string, timeout time.Duration) *Service {
	return &Service{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

type osrmResponse struct {
	Code   string      `json:"code"`
	Routes []osrmRoute `json:"routes"`
}

type osrmRoute struct {
	Distance float64 `json:"distance"`
	Duration float64 `json:"duration"`
	Geometry string  `json:"geometry"`
}

// Route requests a route between start and end for the given profile,
// asking the engine for alternatives. The first returned route is the
// primary one.
func (s *Service) Route(ctx context.Context, start, end types.Coordinate, profile Profile) (*Result, error) {
	u := fmt.Sprintf("%s/route/v1/%s/%.6f,%.6f;%.6f,%.6f?alternatives=true&overview=full",
		s.baseURL, profile,
		start.Lng, start.Lat,
		end.Lng, end.Lat,
	)

	startedAt := time.Now()
	raw, err := s.fetch(ctx, u)
	metrics.ObserveExternal("routing", startedAt, err)
	if err != nil {
		return nil, err
	}

	routes := make([]Route, 0, len(raw.Routes))
	for _, r := range raw.Routes {
		routes = append(routes, Route{
			DistanceMeters:  r.Distance,
			DurationSeconds: r.Duration,
			Points:          decodeGeometry(r.Geometry),
		})
	}
	if len(routes) == 0 {
		return nil, ErrNoRoute
	}

	return &Result{Primary: routes[0], Alternatives: routes[1:]}, nil
}

func (s *Service) fetch(ctx context.Context, u string) (*osrmResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("routing: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("routing: status %d", resp.StatusCode)
	}
	var out osrmResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("routing: decode: %w", err)
	}
	if out.Code != "Ok" {
		return nil, fmt.Errorf("routing: engine code %q", out.Code)
	}
	return &out, nil
}

// decodeGeometry decodes the engine's encoded polyline. The encoding is the
// standard polyline5 format, so the Google Maps decoder applies directly.
// A missing or undecodable geometry yields no points, not an error.
func decodeGeometry(encoded string) []types.Coordinate {
	if encoded == "" {
		return nil
	}
	latlngs, err := maps.DecodePolyline(encoded)
	if err != nil {
		return nil
	}
	points := make([]types.Coordinate, 0, len(latlngs))
	for _, ll := range latlngs {
		points = append(points, types.Coordinate{Lat: ll.Lat, Lng: ll.Lng})
	}
	return points
}
