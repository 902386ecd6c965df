// Package spatial resolves rider-supplied coordinates to transit stop ids.
//
// The routing core carries no stop coordinates; a node is an opaque
// integer. A GTFS-shaped network always ships stop_lat/stop_lon alongside
// the connections table, so this package indexes that optional side-table
// in an R-tree for nearest-neighbour lookup, letting callers snap an
// arbitrary coordinate to a source or target stop before querying.
package spatial

import (
	"github.com/tidwall/rtree"

	"github.com/azybler/transitch/pkg/geo"
)

// Stop is one indexed transit stop.
type Stop struct {
	ID  int64
	Lat float64
	Lon float64
}

// StopIndex answers nearest-stop queries over an rtree.RTreeG of point
// boxes (min == max == the stop's lon/lat).
type StopIndex struct {
	tree *rtree.RTreeG[Stop]
}

// NewStopIndex builds an index over stops.
func NewStopIndex(stops []Stop) *StopIndex {
	tree := &rtree.RTreeG[Stop]{}
	for _, s := range stops {
		point := [2]float64{s.Lon, s.Lat}
		tree.Insert(point, point, s)
	}
	return &StopIndex{tree: tree}
}

// NearestStop returns the stop closest to (lat, lon) by equirectangular
// distance, and its great-circle (Haversine) distance in meters. ok is
// false for an empty index.
func (idx *StopIndex) NearestStop(lat, lon float64) (stop Stop, distMeters float64, ok bool) {
	// boxDist is an admissible lower bound for Nearby's priority order: it
	// uses geo.EquirectangularDist, accurate enough at city scale to drive
	// nearest-neighbour descent without the trig cost of Haversine at every
	// internal node.
	boxDist := func(min, max [2]float64, data Stop, item bool) float64 {
		return geo.EquirectangularDist(lat, lon, boxLat(min, max, lat), boxLon(min, max, lon))
	}

	found := false
	idx.tree.Nearby(boxDist, func(min, max [2]float64, data Stop, dist float64) bool {
		stop = data
		distMeters = geo.Haversine(lat, lon, data.Lat, data.Lon)
		found = true
		return false // the first item Nearby yields is the nearest
	})
	return stop, distMeters, found
}

// boxLat/boxLon clamp a query coordinate into a box's range, giving the
// closest point on the box to the query point along that axis.
func boxLat(min, max [2]float64, lat float64) float64 {
	return clamp(lat, min[1], max[1])
}

func boxLon(min, max [2]float64, lon float64) float64 {
	return clamp(lon, min[0], max[0])
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
