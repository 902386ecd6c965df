package spatial

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// LoadStopsCSV reads the optional stop-coordinate side-table (stop_I,
// lat, lon) that ships alongside the connection and walk tables.
func LoadStopsCSV(r io.Reader) ([]Stop, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("spatial: read stops header: %w", err)
	}
	pos := make(map[string]int, len(header))
	for i, h := range header {
		pos[h] = i
	}
	idCol, ok := pos["stop_I"]
	if !ok {
		return nil, fmt.Errorf("spatial: stops: missing column %q", "stop_I")
	}
	latCol, ok := pos["lat"]
	if !ok {
		return nil, fmt.Errorf("spatial: stops: missing column %q", "lat")
	}
	lonCol, ok := pos["lon"]
	if !ok {
		return nil, fmt.Errorf("spatial: stops: missing column %q", "lon")
	}

	var stops []Stop
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("spatial: read stops row: %w", err)
		}
		id, err := strconv.ParseInt(row[idCol], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("spatial: parse stop_I: %w", err)
		}
		lat, err := strconv.ParseFloat(row[latCol], 64)
		if err != nil {
			return nil, fmt.Errorf("spatial: parse lat: %w", err)
		}
		lon, err := strconv.ParseFloat(row[lonCol], 64)
		if err != nil {
			return nil, fmt.Errorf("spatial: parse lon: %w", err)
		}
		stops = append(stops, Stop{ID: id, Lat: lat, Lon: lon})
	}
	return stops, nil
}
