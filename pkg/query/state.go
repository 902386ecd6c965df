package query

// phase is the FCH search's up/down state, an enum rather than an
// interleaved boolean flag.
type phase int

const (
	phaseUp phase = iota
	phaseDown
)

// hopKind records whether the last hop settled on the current best path to
// a node was a bus leg or a walk leg, so ModalSwitch can forbid chaining
// two walk legs with no bus between them.
type hopKind int

const (
	hopNone hopKind = iota
	hopBus
	hopWalk
)

// vertexState is the per-node tentative/settled record the query heap
// drives: earliest known arrival, current phase, last hop kind, the
// expanded path and per-hop route labels leading to it, and (when the walk
// budget feature is active) cumulative walk time.
type vertexState struct {
	weight       int64
	ph           phase
	lastHop      hopKind
	sequence     []int64
	routeNames   []string
	walkDuration int64
	settled      bool
}
