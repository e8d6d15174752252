package geocode

import (
	"context"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestService(t *testing.T, handler http.HandlerFunc) *Service {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewService(srv.URL, "fable-test/1.0", 2*time.Second, nil)
}

func TestSearch_ParsesNumericStringCoordinates(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); ua != "fable-test/1.0" {
			t.Errorf("missing client identification header, got %q", ua)
		}
		if got := r.URL.Query().Get("q"); got != "paris" {
			t.Errorf("query = %q, want paris", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"display_name":"Paris, Île-de-France, France","lat":"48.8566","lon":"2.3522","class":"place","type":"city","boundingbox":["48.81","48.90","2.22","2.47"]},
			{"display_name":"Broken","lat":"not-a-number","lon":"2.0"},
			{"display_name":"Paris, Texas","lat":"33.6609","lon":"-95.5555","class":"place","type":"town"}
		]`))
	})

	places := svc.Search(context.Background(), "paris")
	if len(places) != 2 {
		t.Fatalf("expected malformed record dropped, got %d places", len(places))
	}
	first := places[0]
	if math.Abs(first.Lat-48.8566) > 1e-9 || math.Abs(first.Lng-2.3522) > 1e-9 {
		t.Errorf("coords = (%f, %f)", first.Lat, first.Lng)
	}
	if first.Category != "city" {
		t.Errorf("category = %q", first.Category)
	}
	if first.BoundingBox[0] != 48.81 || first.BoundingBox[3] != 2.47 {
		t.Errorf("bounding box = %v", first.BoundingBox)
	}
	// Ranking order preserved.
	if places[1].Name != "Paris, Texas" {
		t.Errorf("second candidate = %q", places[1].Name)
	}
}

func TestSearch_EmptyQueryAndErrors(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	if got := svc.Search(context.Background(), "   "); got != nil {
		t.Errorf("empty query should yield empty list, got %v", got)
	}
	if got := svc.Search(context.Background(), "anywhere"); len(got) != 0 {
		t.Errorf("server error should yield empty list, got %v", got)
	}
}

func TestReverse_FirstSegmentOfDisplayName(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"display_name":"Tour Eiffel, Avenue Gustave Eiffel, Paris, France"}`))
	})

	got := svc.Reverse(context.Background(), 48.8584, 2.2945)
	if got != "Tour Eiffel" {
		t.Errorf("Reverse() = %q, want Tour Eiffel", got)
	}
}

func TestReverse_FailureYieldsPlaceholder(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	if got := svc.Reverse(context.Background(), 0, 0); got != UnknownPlace {
		t.Errorf("Reverse() = %q, want %q", got, UnknownPlace)
	}
}

func TestReverse_EmptyNameYieldsPlaceholder(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"display_name":""}`))
	})

	if got := svc.Reverse(context.Background(), 1, 1); got != UnknownPlace {
		t.Errorf("Reverse() = %q, want %q", got, UnknownPlace)
	}
}
