package spatial

import (
	"strings"
	"testing"
)

func testStops() []Stop {
	return []Stop{
		{ID: 1, Lat: 60.1719, Lon: 24.9414}, // Helsinki Central
		{ID: 2, Lat: 60.1987, Lon: 24.9326}, // Pasila
		{ID: 3, Lat: 61.4978, Lon: 23.7610}, // Tampere
	}
}

func TestNearestStop(t *testing.T) {
	idx := NewStopIndex(testStops())

	stop, dist, ok := idx.NearestStop(60.1730, 24.9410)
	if !ok {
		t.Fatal("NearestStop returned ok=false on a populated index")
	}
	if stop.ID != 1 {
		t.Errorf("nearest stop = %d, want 1", stop.ID)
	}
	if dist <= 0 || dist > 500 {
		t.Errorf("distance = %f m, want a small positive value", dist)
	}
}

func TestNearestStop_FarQuery(t *testing.T) {
	idx := NewStopIndex(testStops())

	stop, _, ok := idx.NearestStop(61.5, 23.8)
	if !ok || stop.ID != 3 {
		t.Errorf("nearest stop = %d (ok=%v), want 3", stop.ID, ok)
	}
}

func TestNearestStop_EmptyIndex(t *testing.T) {
	idx := NewStopIndex(nil)
	if _, _, ok := idx.NearestStop(60.0, 24.0); ok {
		t.Error("NearestStop on an empty index should return ok=false")
	}
}

func TestLoadStopsCSV(t *testing.T) {
	input := `stop_I,lat,lon
1,60.1719,24.9414
2,60.1987,24.9326
`
	stops, err := LoadStopsCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("LoadStopsCSV: %v", err)
	}
	if len(stops) != 2 {
		t.Fatalf("got %d stops, want 2", len(stops))
	}
	if stops[0].ID != 1 || stops[0].Lat != 60.1719 || stops[0].Lon != 24.9414 {
		t.Errorf("first stop = %+v", stops[0])
	}
}

func TestLoadStopsCSV_MissingColumn(t *testing.T) {
	input := `stop_I,lat
1,60.17
`
	if _, err := LoadStopsCSV(strings.NewReader(input)); err == nil {
		t.Fatal("expected an error for a missing lon column, got nil")
	}
}
