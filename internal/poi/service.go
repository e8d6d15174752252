// README: POI finder backed by an Overpass-style tagged-data query service.
package poi

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
	"fable/internal/types"
)

// DefaultRadiusMeters is the search radius used when none is configured.
const DefaultRadiusMeters = 2000

// DefaultTimeout is passed to the query service itself; the HTTP client uses
// the same bound so a hung response is treated as a failure.
const DefaultTimeout = 25 * time.Second

// Service queries the external tagged-data service for points of interest.
// Failures of any kind yield an empty list, never an error to the caller.
type Service struct {
	baseURL string
	timeout time.Duration
	client  *http.Client
	cache   *cache.Cache
}

func NewService(baseURL string, timeout time.Duration, c *cache.Cache) *Service {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Service{
		baseURL: baseURL,
		timeout: timeout,
		client:  &http.Client{Timeout: timeout},
		cache:   c,
	}
}

type overpassResponse struct {
	Elements []element `json:"elements"`
}

type element struct {
	ID   int64             `json:"id"`
	Lat  float64           `json:"lat"`
	Lon  float64           `json:"lon"`
	Tags map[string]string `json:"tags"`
}

// FindNearby returns named points of interest within radiusMeters of center,
// nearest first. Network failures and malformed responses yield an empty list.
func (s *Service) FindNearby(ctx context.Context, center types.Coordinate, radiusMeters int) []PointOfInterest {
	if radiusMeters <= 0 {
		radiusMeters = DefaultRadiusMeters
	}

	key := cache.Key("poi", cache.CoordKey(center.Lat, center.Lng), strconv.Itoa(radiusMeters))
	var cached []PointOfInterest
	if s.cache.Get(ctx, key, &cached) {
		return cached
	}

	query := buildQuery(center, radiusMeters, s.timeout)
	u := s.baseURL + "?data=" + url.QueryEscape(query)

	start := time.Now()
	raw, err := s.fetch(ctx, u)
	metrics.ObserveExternal("poi", start, err)
	if err != nil {
		slog.Warn("poi query failed", "lat", center.Lat, "lng", center.Lng, "err", err)
		return nil
	}

	pois := make([]PointOfInterest, 0, len(raw.Elements))
	for _, el := range raw.Elements {
		if p, ok := normalize(el); ok {
			pois = append(pois, p)
		}
	}
	sortByDistance(pois, func(p PointOfInterest) float64 {
		return types.HaversineKm(center.Lat, center.Lng, p.Position.Lat, p.Position.Lng)
	})

	s.cache.Set(ctx, key, pois)
	return pois
}

func (s *Service) fetch(ctx context.Context, u string) (*overpassResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("poi: status %d", resp.StatusCode)
	}
	var out overpassResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("poi: decode: %w", err)
	}
	return &out, nil
}

// buildQuery renders the tagged-data query: nodes matching the fixed interest
// categories within the radius, with the service-side timeout applied.
func buildQuery(center types.Coordinate, radiusMeters int, timeout time.Duration) string {
	around := fmt.Sprintf("(around:%d,%.6f,%.6f)", radiusMeters, center.Lat, center.Lng)
	return fmt.Sprintf(
		`[out:json][timeout:%d];(node["tourism"~"^(%s)$"]%s;node["historic"~"^(%s)$"]%s;);out body;`,
		int(timeout.Seconds()),
		strings.Join(tourismCategories, "|"), around,
		strings.Join(historicCategories, "|"), around,
	)
}

// normalize maps one raw tagged node to a PointOfInterest. Records whose
// derived name would be the placeholder are dropped.
func normalize(el element) (PointOfInterest, bool) {
	name := el.Tags["name"]
	if name == "" {
		name = el.Tags["description"]
	}
	if name == "" {
		// Truly unnamed: would render as the placeholder, so drop it.
		return PointOfInterest{}, false
	}

	category := el.Tags["tourism"]
	if category == "" {
		category = el.Tags["historic"]
	}

	website := el.Tags["website"]
	if website == "" {
		website = el.Tags["url"]
	}

	return PointOfInterest{
		ID:          strconv.FormatInt(el.ID, 10),
		Position:    types.Coordinate{Lat: el.Lat, Lng: el.Lon, Label: name},
		Name:        name,
		Category:    category,
		Website:     website,
		Description: el.Tags["description"],
		Address:     joinAddress(el.Tags),
	}, true
}

// joinAddress concatenates the present address sub-fields, comma-joined.
func joinAddress(tags map[string]string) string {
	var parts []string
	for _, k := range []string{"addr:housenumber", "addr:street", "addr:postcode", "addr:city"} {
		if v := tags[k]; v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, ", ")
}

// sortByDistance performs an insertion sort (fine for small N) on any slice
// where each element exposes a distance via the accessor function.
func sortByDistance[T any](items []T, dist func(T) float64) {
	for i := 1; i < len(items); i++ {
		key := items[i]
		j := i - 1
		for j >= 0 && dist(items[j]) > dist(key) {
			items[j+1] = items[j]
			j--
		}
		items[j+1] = key
	}
}
