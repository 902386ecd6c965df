package transit

// Bus is one atomic timetabled leg: a fixed departure/arrival pair plus the
// stop sequence and route labels it traverses. Buses compare by departure
// time.
type Bus struct {
	Nodes      []int64
	RouteNames []string
	D, A       int64

	// DepartureWalk/ArrivalWalk are the cumulative walking time this leg
	// already embeds before its first segment and after its last, used
	// only when the walk-budget feature (MaxWalkDuration) is active.
	DepartureWalk int64
	ArrivalWalk   int64
}

// Less orders buses by departure time, the relation used throughout cut,
// composition, and the schedule index.
func (b Bus) Less(other Bus) bool { return b.D < other.D }

// Walk is a constant-duration edge. Present reports whether a walk
// alternative exists at all for this pair of stops; callers compare
// against Present rather than against an infinite sentinel duration.
type Walk struct {
	Nodes      []int64
	RouteNames []string
	W          int64
	Present    bool
}

// NewWalk builds a present walk edge over nodes with duration w, labelling
// every hop "walk".
func NewWalk(nodes []int64, w int64) Walk {
	var routeNames []string
	if len(nodes) > 1 {
		routeNames = make([]string, len(nodes)-1)
		for i := range routeNames {
			routeNames[i] = "walk"
		}
	}
	return Walk{Nodes: nodes, RouteNames: routeNames, W: w, Present: true}
}
