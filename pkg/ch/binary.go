package ch

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"hash/crc32"
	"os"

	"github.com/azybler/transitch/pkg/transit"
)

var binaryMagic = [8]byte{'T', 'R', 'A', 'N', 'S', 'I', 'C', 'H'}

const binaryVersion = 1

// persistedGraph is the gob-encoded payload carried inside the binary
// envelope below. Node ids are opaque, input-supplied integers, so Rank,
// the schedules, and the edge set are all keyed by sparse int64 ids
// rather than dense array positions; there is no fixed-width layout to
// write as raw arrays, hence gob for the whole payload.
type persistedGraph struct {
	Nodes              []int64
	Rank               map[int64]int
	Edges              []persistedEdge
	Containers         map[int64][]int64
	NodesSchedule      map[int64][]int64
	NodesScheduleDown  map[int64][]int64
	PositionInEdge     map[int64]map[int]map[int64]int
	PositionInEdgeDown map[int64]map[int]map[int64]int
	MaxWalkDuration    int64
}

type persistedEdge struct {
	From, To int64
	Walk     transit.Walk
	Buses    []transit.Bus
}

// WriteBinary serialises a contracted graph to path: magic bytes, a
// version, a length-prefixed gob payload, and a trailing CRC32 of that
// payload, written to a temp file and atomically renamed into place.
func WriteBinary(path string, cg *ContractedGraph) error {
	payload := toPersisted(cg)

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(payload); err != nil {
		return fmt.Errorf("ch: encode graph: %w", err)
	}

	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("ch: create temp file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if _, err := w.Write(binaryMagic[:]); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(binaryVersion)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint64(buf.Len())); err != nil {
		return err
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return err
	}
	checksum := crc32.ChecksumIEEE(buf.Bytes())
	if err := binary.Write(w, binary.LittleEndian, checksum); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// ReadBinary loads a contracted graph written by WriteBinary, verifying
// the magic bytes, version, and trailing CRC32 before decoding.
func ReadBinary(path string) (*ContractedGraph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ch: read %s: %w", path, err)
	}

	const headerLen = len(binaryMagic) + 4 + 8
	if len(data) < headerLen+4 {
		return nil, fmt.Errorf("ch: %s: truncated header", path)
	}
	if !bytes.Equal(data[:len(binaryMagic)], binaryMagic[:]) {
		return nil, fmt.Errorf("ch: %s: bad magic bytes", path)
	}
	offset := len(binaryMagic)

	version := binary.LittleEndian.Uint32(data[offset:])
	offset += 4
	if version != binaryVersion {
		return nil, fmt.Errorf("ch: %s: unsupported version %d", path, version)
	}

	payloadLen := binary.LittleEndian.Uint64(data[offset:])
	offset += 8
	if uint64(len(data)) < uint64(offset)+payloadLen+4 {
		return nil, fmt.Errorf("ch: %s: truncated payload", path)
	}

	payload := data[offset : offset+int(payloadLen)]
	offset += int(payloadLen)

	wantCRC := binary.LittleEndian.Uint32(data[offset:])
	if gotCRC := crc32.ChecksumIEEE(payload); gotCRC != wantCRC {
		return nil, fmt.Errorf("ch: %s: checksum mismatch", path)
	}

	var p persistedGraph
	if err := gob.NewDecoder(bytes.NewReader(payload)).Decode(&p); err != nil {
		return nil, fmt.Errorf("ch: decode graph: %w", err)
	}
	if err := validateEdges(p.Edges); err != nil {
		return nil, fmt.Errorf("ch: %s: %w", path, err)
	}
	return fromPersisted(&p), nil
}

// validateEdges checks every decoded edge's Cut invariant: strictly
// increasing departure and arrival across Buses. A violation
// means either a corrupt file or a bug upstream of Cut, neither of which
// this package can recover from, so it is reported as
// transit.ErrInvariantViolation rather than silently served.
func validateEdges(edges []persistedEdge) error {
	for _, e := range edges {
		if err := validateBuses(e.Buses); err != nil {
			return fmt.Errorf("%w: edge %d->%d: %v", transit.ErrInvariantViolation, e.From, e.To, err)
		}
	}
	return nil
}

func validateBuses(buses []transit.Bus) error {
	for i, b := range buses {
		if b.A < b.D {
			return fmt.Errorf("bus %d: arrival %d before departure %d", i, b.A, b.D)
		}
		if i == 0 {
			continue
		}
		prev := buses[i-1]
		if !(prev.D < b.D && prev.A < b.A) {
			return fmt.Errorf("bus %d not strictly monotone after bus %d: (d=%d,a=%d) -> (d=%d,a=%d)", i, i-1, prev.D, prev.A, b.D, b.A)
		}
	}
	return nil
}

func toPersisted(cg *ContractedGraph) *persistedGraph {
	p := &persistedGraph{
		Nodes:              make([]int64, 0, len(cg.Rank)),
		Rank:               cg.Rank,
		NodesSchedule:      cg.NodesSchedule,
		NodesScheduleDown:  cg.NodesScheduleDown,
		PositionInEdge:     cg.PositionInEdge,
		PositionInEdgeDown: cg.PositionInEdgeDown,
		MaxWalkDuration:    cg.MaxWalkDuration,
	}
	for node := range cg.Rank {
		p.Nodes = append(p.Nodes, node)
	}
	if cg.GeometricalContainer != nil {
		p.Containers = make(map[int64][]int64, len(cg.GeometricalContainer))
		for node, set := range cg.GeometricalContainer {
			list := make([]int64, 0, len(set))
			for n := range set {
				list = append(list, n)
			}
			p.Containers[node] = list
		}
	}
	for _, u := range p.Nodes {
		for v := range cg.Graph.Out(u) {
			f, _ := cg.Graph.Edge(u, v)
			p.Edges = append(p.Edges, persistedEdge{From: u, To: v, Walk: f.Walk, Buses: f.Buses})
		}
	}
	return p
}

func fromPersisted(p *persistedGraph) *ContractedGraph {
	cg := &ContractedGraph{
		Graph:              transit.NewTransportGraph(),
		Rank:               p.Rank,
		NodesSchedule:      p.NodesSchedule,
		NodesScheduleDown:  p.NodesScheduleDown,
		PositionInEdge:     p.PositionInEdge,
		PositionInEdgeDown: p.PositionInEdgeDown,
		MaxWalkDuration:    p.MaxWalkDuration,
	}
	for _, e := range p.Edges {
		cg.Graph.SetEdge(e.From, e.To, transit.ATF{Walk: e.Walk, Buses: e.Buses})
	}
	if p.Containers != nil {
		cg.GeometricalContainer = make(map[int64]map[int64]struct{}, len(p.Containers))
		for node, list := range p.Containers {
			set := make(map[int64]struct{}, len(list))
			for _, n := range list {
				set[n] = struct{}{}
			}
			cg.GeometricalContainer[node] = set
		}
	}
	return cg
}
