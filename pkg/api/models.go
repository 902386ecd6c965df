package api

// RouteRequest is the JSON body for POST /api/v1/route. Source and target
// are resolved independently: the stop id is used when set, otherwise the
// coordinate is resolved to the nearest stop via pkg/spatial before
// querying. An endpoint with neither is rejected.
type RouteRequest struct {
	SourceStop   *int64      `json:"source_stop,omitempty"`
	TargetStop   *int64      `json:"target_stop,omitempty"`
	SourceLatLon *LatLonJSON `json:"source_latlon,omitempty"`
	TargetLatLon *LatLonJSON `json:"target_latlon,omitempty"`
	StartTime    int64       `json:"start_time"`
}

// LatLonJSON is a coordinate pair in JSON.
type LatLonJSON struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// RouteResponse is the JSON response for a route query.
type RouteResponse struct {
	Path     []int64  `json:"path"`
	Routes   []string `json:"routes"`
	Arrival  int64    `json:"arrival"`
	Duration int64    `json:"duration_ms"`
	Outcome  string   `json:"outcome"`
}

// ErrorResponse is the JSON response for errors.
type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// StatsResponse is the JSON response for GET /api/v1/stats.
type StatsResponse struct {
	NumNodes int     `json:"num_nodes"`
	NumEdges int     `json:"num_edges"`
	MinSize  int     `json:"min_timetable_size"`
	MeanSize float64 `json:"mean_timetable_size"`
	StdSize  float64 `json:"std_timetable_size"`
	MaxSize  int     `json:"max_timetable_size"`
}

// HealthResponse is the JSON response for GET /api/v1/health.
type HealthResponse struct {
	Status string `json:"status"`
}
