package api

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"

	"github.com/azybler/transitch/pkg/query"
	"github.com/azybler/transitch/pkg/spatial"
)

var errNoStop = errors.New("api: no stop id or resolvable coordinate given")

// Handlers holds the HTTP handlers and their dependencies.
type Handlers struct {
	fch      *query.FCH
	opts     query.Options
	stops    *spatial.StopIndex // nil if no coordinate side-table was loaded
	statsRes StatsResponse
}

// NewHandlers creates handlers serving queries against fch.
func NewHandlers(fch *query.FCH, opts query.Options, stops *spatial.StopIndex, stats StatsResponse) *Handlers {
	return &Handlers{fch: fch, opts: opts, stops: stops, statsRes: stats}
}

// HandleRoute handles POST /api/v1/route.
func (h *Handlers) HandleRoute(w http.ResponseWriter, r *http.Request) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "application/json" {
		writeError(w, http.StatusBadRequest, "invalid_request", "")
		return
	}

	var req RouteRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1024)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "")
		return
	}

	source, err := h.resolveStop(req.SourceStop, req.SourceLatLon)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_source", "")
		return
	}
	target, err := h.resolveStop(req.TargetStop, req.TargetLatLon)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_target", "")
		return
	}

	result := h.fch.Run(r.Context(), source, target, req.StartTime, h.opts)

	resp := RouteResponse{
		Path:     result.Path,
		Routes:   result.Routes,
		Arrival:  result.Arrival,
		Duration: result.Duration.Milliseconds(),
		Outcome:  result.Outcome.String(),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// resolveStop picks the explicit stop id if given, otherwise resolves a
// coordinate to its nearest stop via the spatial index.
func (h *Handlers) resolveStop(stop *int64, latlon *LatLonJSON) (int64, error) {
	if stop != nil {
		return *stop, nil
	}
	if latlon == nil || h.stops == nil {
		return 0, errNoStop
	}
	s, _, ok := h.stops.NearestStop(latlon.Lat, latlon.Lon)
	if !ok {
		return 0, errNoStop
	}
	return s.ID, nil
}

// HandleHealth handles GET /api/v1/health.
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(HealthResponse{Status: "ok"})
}

// HandleStats handles GET /api/v1/stats.
func (h *Handlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.statsRes)
}

func writeError(w http.ResponseWriter, status int, code, field string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Error: code, Field: field})
}
