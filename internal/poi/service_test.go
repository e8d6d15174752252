package poi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"fable/internal/types"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		el   element
		want PointOfInterest
		keep bool
	}{
		{
			name: "named museum with full address",
			el: element{
				ID: 42, Lat: 48.8606, Lon: 2.3376,
				Tags: map[string]string{
					"name":             "Louvre",
					"tourism":          "museum",
					"website":          "https://www.louvre.fr",
					"addr:housenumber": "99",
					"addr:street":      "Rue de Rivoli",
					"addr:postcode":    "75001",
					"addr:city":        "Paris",
				},
			},
			want: PointOfInterest{
				ID:       "42",
				Position: types.Coordinate{Lat: 48.8606, Lng: 2.3376, Label: "Louvre"},
				Name:     "Louvre",
				Category: "museum",
				Website:  "https://www.louvre.fr",
				Address:  "99, Rue de Rivoli, 75001, Paris",
			},
			keep: true,
		},
		{
			name: "description fallback for name, url fallback for website",
			el: element{
				ID: 7, Lat: 1, Lon: 2,
				Tags: map[string]string{
					"historic":    "memorial",
					"description": "War memorial",
					"url":         "http://example.org",
				},
			},
			want: PointOfInterest{
				ID:          "7",
				Position:    types.Coordinate{Lat: 1, Lng: 2, Label: "War memorial"},
				Name:        "War memorial",
				Category:    "memorial",
				Website:     "http://example.org",
				Description: "War memorial",
			},
			keep: true,
		},
		{
			name: "partial address joins only present fields",
			el: element{
				ID: 8, Lat: 1, Lon: 2,
				Tags: map[string]string{
					"name":        "Arc",
					"historic":    "monument",
					"addr:street": "Champs-Élysées",
					"addr:city":   "Paris",
				},
			},
			want: PointOfInterest{
				ID:       "8",
				Position: types.Coordinate{Lat: 1, Lng: 2, Label: "Arc"},
				Name:     "Arc",
				Category: "monument",
				Address:  "Champs-Élysées, Paris",
			},
			keep: true,
		},
		{
			name: "unnamed record is dropped",
			el: element{
				ID: 9, Lat: 1, Lon: 2,
				Tags: map[string]string{"tourism": "museum"},
			},
			keep: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, keep := normalize(tt.el)
			if keep != tt.keep {
				t.Fatalf("keep = %v, want %v", keep, tt.keep)
			}
			if keep && got != tt.want {
				t.Errorf("normalize() = %+v\nwant %+v", got, tt.want)
			}
		})
	}
}

func TestFindNearby_FiltersUnnamedAndSorts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data := r.URL.Query().Get("data")
		if !strings.Contains(data, "museum") || !strings.Contains(data, "around:2000") {
			t.Errorf("unexpected query: %s", data)
		}
		_, _ = w.Write([]byte(`{"elements":[
			{"id":1,"lat":48.88,"lon":2.38,"tags":{"name":"Far Museum","tourism":"museum"}},
			{"id":2,"lat":48.857,"lon":2.3525,"tags":{"name":"Near Museum","tourism":"museum"}},
			{"id":3,"lat":48.8566,"lon":2.3522,"tags":{"tourism":"museum"}}
		]}`))
	}))
	defer srv.Close()

	svc := NewService(srv.URL, 0, nil)
	got := svc.FindNearby(context.Background(), types.Coordinate{Lat: 48.8566, Lng: 2.3522}, 2000)

	if len(got) != 2 {
		t.Fatalf("expected 2 named POIs, got %d", len(got))
	}
	for _, p := range got {
		if p.Name == "" || p.Name == unnamedPlaceholder {
			t.Errorf("placeholder-named POI leaked through: %+v", p)
		}
	}
	if got[0].Name != "Near Museum" || got[1].Name != "Far Museum" {
		t.Errorf("expected nearest-first order, got %q then %q", got[0].Name, got[1].Name)
	}
}

func TestFindNearby_TimeoutInQuery(t *testing.T) {
	var data string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data = r.URL.Query().Get("data")
		_, _ = w.Write([]byte(`{"elements":[]}`))
	}))
	defer srv.Close()

	svc := NewService(srv.URL, 40*time.Second, nil)
	svc.FindNearby(context.Background(), types.Coordinate{Lat: 1, Lng: 2}, 500)
	if !strings.Contains(data, "[timeout:40]") {
		t.Errorf("configured timeout missing from query: %s", data)
	}

	svc = NewService(srv.URL, 0, nil)
	svc.FindNearby(context.Background(), types.Coordinate{Lat: 3, Lng: 4}, 500)
	if !strings.Contains(data, "[timeout:25]") {
		t.Errorf("default timeout missing from query: %s", data)
	}
}

func TestFindNearby_FailureYieldsEmptyList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	svc := NewService(srv.URL, 0, nil)
	if got := svc.FindNearby(context.Background(), types.Coordinate{Lat: 1, Lng: 2}, 0); len(got) != 0 {
		t.Errorf("expected empty list on failure, got %v", got)
	}
}

func TestFindNearby_MalformedResponseYieldsEmptyList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	svc := NewService(srv.URL, 0, nil)
	if got := svc.FindNearby(context.Background(), types.Coordinate{Lat: 1, Lng: 2}, 500); len(got) != 0 {
		t.Errorf("expected empty list on malformed response, got %v", got)
	}
}
