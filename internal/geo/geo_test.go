package geo

import (
	"math"
	"testing"

	"github.com/cafehopper/cafe-hopper/server/internal/model"
)

func TestDistanceKm_SamePoint(t *testing.T) {
	p := model.Geolocation{Lat: 36.974117, Lng: -122.030792}
	if d := DistanceKm(p, p); d != 0 {
		t.Fatalf("distance to self should be 0, got %f", d)
	}
}

func TestDistanceKm_Symmetric(t *testing.T) {
	a := model.Geolocation{Lat: 36.974117, Lng: -122.030792}
	b := model.Geolocation{Lat: 37.774929, Lng: -122.419418}
	if da, db := DistanceKm(a, b), DistanceKm(b, a); math.Abs(da-db) > 1e-9 {
		t.Fatalf("distance not symmetric: %f vs %f", da, db)
	}
}

func TestDistanceKm_KnownValue(t *testing.T) {
	// Santa Cruz to San Francisco, roughly 96 km great-circle.
	a := model.Geolocation{Lat: 36.974117, Lng: -122.030792}
	b := model.Geolocation{Lat: 37.774929, Lng: -122.419418}
	d := DistanceKm(a, b)
	if d < 90 || d > 100 {
		t.Fatalf("unexpected distance: %f km", d)
	}
}

func TestDistanceKm_OneDegreeLatitude(t *testing.T) {
	// One degree of latitude is about 111.2 km for R=6371.
	a := model.Geolocation{Lat: 0, Lng: 0}
	b := model.Geolocation{Lat: 1, Lng: 0}
	d := DistanceKm(a, b)
	if math.Abs(d-111.19) > 0.2 {
		t.Fatalf("unexpected distance for 1 degree latitude: %f km", d)
	}
}

func TestBoundingBox_Contains(t *testing.T) {
	center := model.Geolocation{Lat: 36.974117, Lng: -122.030792}
	box := NewBoundingBox(center, 5000)

	if !box.Contains(center) {
		t.Fatal("box should contain its own center")
	}
	// ~1 km north stays inside a 5 km box
	if !box.Contains(model.Geolocation{Lat: center.Lat + 0.009, Lng: center.Lng}) {
		t.Fatal("point 1 km north should be inside")
	}
	// ~10 km north falls outside
	if box.Contains(model.Geolocation{Lat: center.Lat + 0.09, Lng: center.Lng}) {
		t.Fatal("point 10 km north should be outside")
	}
}

func TestBoundingBox_LongitudeWidensWithLatitude(t *testing.T) {
	equator := NewBoundingBox(model.Geolocation{Lat: 0, Lng: 0}, 5000)
	north := NewBoundingBox(model.Geolocation{Lat: 60, Lng: 0}, 5000)

	eqWidth := equator.MaxLng - equator.MinLng
	noWidth := north.MaxLng - north.MinLng
	if noWidth <= eqWidth {
		t.Fatalf("longitude delta should widen toward the poles: equator %f, 60N %f", eqWidth, noWidth)
	}
}
