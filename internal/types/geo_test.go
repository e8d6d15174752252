package types

import (
	"math"
	"testing"
)

func TestHaversineKm_KnownDistances(t *testing.T) {
	tests := []struct {
		name      string
		lat1      float64
		lng1      float64
		lat2      float64
		lng2      float64
		wantKm    float64
		tolerance float64
	}{
		{
			name: "same point",
			lat1: 48.8566, lng1: 2.3522,
			lat2: 48.8566, lng2: 2.3522,
			wantKm:    0,
			tolerance: 0.001,
		},
		{
			name: "Notre-Dame to Eiffel Tower (~4km)",
			lat1: 48.8530, lng1: 2.3499,
			lat2: 48.8584, lng2: 2.2945,
			wantKm:    4.1,
			tolerance: 0.3,
		},
		{
			name: "Paris to Berlin (~878km)",
			lat1: 48.8566, lng1: 2.3522,
			lat2: 52.5200, lng2: 13.4050,
			wantKm:    878,
			tolerance: 10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HaversineKm(tt.lat1, tt.lng1, tt.lat2, tt.lng2)
			if math.Abs(got-tt.wantKm) > tt.tolerance {
				t.Errorf("HaversineKm() = %f, want %f (±%f)", got, tt.wantKm, tt.tolerance)
			}
		})
	}
}

func TestBounds_ExtendAndCenter(t *testing.T) {
	var b Bounds
	if b.Valid() {
		t.Fatal("zero bounds should be invalid")
	}

	b.Extend(48.85, 2.35)
	if !b.Valid() {
		t.Fatal("bounds with one point should be valid")
	}
	if c := b.Center(); c.Lat != 48.85 || c.Lng != 2.35 {
		t.Errorf("single-point center = %+v", c)
	}

	b.Extend(48.95, 2.25)
	c := b.Center()
	if math.Abs(c.Lat-48.90) > 1e-9 || math.Abs(c.Lng-2.30) > 1e-9 {
		t.Errorf("center = %+v, want (48.90, 2.30)", c)
	}
	if b.MinLat != 48.85 || b.MaxLat != 48.95 || b.MinLng != 2.25 || b.MaxLng != 2.35 {
		t.Errorf("bounds = %+v", b)
	}
}

func TestBounds_Pad(t *testing.T) {
	var b Bounds
	b.Extend(10, 20)
	b.Extend(12, 24)

	p := b.Pad(0.5)
	if p.MinLat != 9 || p.MaxLat != 13 || p.MinLng != 18 || p.MaxLng != 26 {
		t.Errorf("padded = %+v", p)
	}

	// Degenerate single-point bounds still produce a usable region.
	var single Bounds
	single.Extend(10, 20)
	sp := single.Pad(0.5)
	if sp.MinLat >= sp.MaxLat || sp.MinLng >= sp.MaxLng {
		t.Errorf("padded single-point bounds has no area: %+v", sp)
	}

	// Padding an empty bounds is a no-op, not a fault.
	var empty Bounds
	if got := empty.Pad(0.5); got.Valid() {
		t.Errorf("padding empty bounds should stay invalid, got %+v", got)
	}
}

func TestCoordinate_Valid(t *testing.T) {
	valid := Coordinate{Lat: 48.85, Lng: 2.35}
	if !valid.Valid() {
		t.Error("expected valid coordinate")
	}
	for _, c := range []Coordinate{
		{Lat: 91, Lng: 0},
		{Lat: -91, Lng: 0},
		{Lat: 0, Lng: 181},
		{Lat: 0, Lng: -181},
	} {
		if c.Valid() {
			t.Errorf("expected %+v to be invalid", c)
		}
	}
}
