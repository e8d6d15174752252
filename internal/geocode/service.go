// README: Geocoding client for Nominatim-style forward and reverse lookups.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"fable/internal/cache"
	"fable/internal/metrics"
)

const maxCandidates = 10

// Service wraps the external geocoding service. Lookups degrade to empty or
// placeholder results on any failure; they never return an error to callers.
type Service struct {
	baseURL   string
	userAgent string
	client    *http.Client
	cache     *cache.Cache
}

func NewService(baseURL, userAgent string, timeout time.Duration, c *cache.Cache) *Service {
	return &Service{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
		client:    &http.Client{Timeout: timeout},
		cache:     c,
	}
}

// searchResult mirrors the service wire format: coordinates arrive as
// numeric strings.
type searchResult struct {
	DisplayName string   `json:"display_name"`
	Lat         string   `json:"lat"`
	Lon         string   `json:"lon"`
	Class       string   `json:"class"`
	Type        string   `json:"type"`
	BoundingBox []string `json:"boundingbox"`
}

// Search returns ranked candidate places for a free-text query.
// An empty or erroring query yields an empty list.
func (s *Service) Search(ctx context.Context, query string) []Place {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	u := fmt.Sprintf("%s/search?format=json&limit=%d&q=%s", s.baseURL, maxCandidates, url.QueryEscape(query))

	var raw []searchResult
	if err := s.get(ctx, "geocode_search", u, &raw); err != nil {
		slog.Warn("geocode search failed", "query", query, "err", err)
		return nil
	}

	places := make([]Place, 0, len(raw))
	for _, r := range raw {
		lat, errLat := strconv.ParseFloat(r.Lat, 64)
		lng, errLng := strconv.ParseFloat(r.Lon, 64)
		if errLat != nil || errLng != nil {
			// Malformed record: drop it rather than failing the response.
			continue
		}
		p := Place{
			Name:     r.DisplayName,
			Lat:      lat,
			Lng:      lng,
			Category: r.Type,
		}
		if len(r.BoundingBox) == 4 {
			for i, v := range r.BoundingBox {
				if f, err := strconv.ParseFloat(v, 64); err == nil {
					p.BoundingBox[i] = f
				}
			}
		}
		places = append(places, p)
	}
	return places
}

type reverseResult struct {
	DisplayName string `json:"display_name"`
}

// Reverse returns a best-guess place name for the coordinate: the first
// comma-delimited segment of the full address. Failures yield UnknownPlace.
func (s *Service) Reverse(ctx context.Context, lat, lng float64) string {
	key := cache.Key("geocode", "rev", cache.CoordKey(lat, lng))
	var cached string
	if s.cache.Get(ctx, key, &cached) && cached != "" {
		return cached
	}

	u := fmt.Sprintf("%s/reverse?format=json&lat=%.6f&lon=%.6f", s.baseURL, lat, lng)

	var raw reverseResult
	if err := s.get(ctx, "geocode_reverse", u, &raw); err != nil {
		slog.Warn("reverse geocode failed", "lat", lat, "lng", lng, "err", err)
		return UnknownPlace
	}
	name := firstSegment(raw.DisplayName)
	if name == "" {
		return UnknownPlace
	}
	s.cache.Set(ctx, key, name)
	return name
}

func (s *Service) get(ctx context.Context, service, u string, out any) error {
	start := time.Now()
	err := s.doGet(ctx, u, out)
	metrics.ObserveExternal(service, start, err)
	return err
}

func (s *Service) doGet(ctx context.Context, u string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	// The service requires clients to identify themselves.
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("geocode: status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func firstSegment(displayName string) string {
	seg, _, _ := strings.Cut(displayName, ",")
	return strings.TrimSpace(seg)
}
