package transit

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
)

// ConnectionRecord is one row of the transit-connections input table:
// from_stop_I, to_stop_I, dep_time_ut, arr_time_ut, route_I.
type ConnectionRecord struct {
	FromStop int64
	ToStop   int64
	DepTime  int64
	ArrTime  int64
	RouteID  string
}

// WalkRecord is one row of the walk-connections input table: from_stop_I,
// to_stop_I, d_walk.
type WalkRecord struct {
	FromStop int64
	ToStop   int64
	Duration int64
}

type stopPair struct{ from, to int64 }

// BuildTransportGraph constructs the raw graph from the two connection
// tables: for every endpoint pair present in either table, one ATF is
// built from the walk duration (if any) and the sorted bus list, then cut
// once.
func BuildTransportGraph(conns []ConnectionRecord, walks []WalkRecord) *TransportGraph {
	busesByPair := make(map[stopPair][]Bus)
	for _, c := range conns {
		k := stopPair{c.FromStop, c.ToStop}
		busesByPair[k] = append(busesByPair[k], Bus{
			Nodes:      []int64{c.FromStop, c.ToStop},
			RouteNames: []string{c.RouteID},
			D:          c.DepTime,
			A:          c.ArrTime,
		})
	}

	walkByPair := make(map[stopPair]int64, len(walks))
	for _, w := range walks {
		walkByPair[stopPair{w.FromStop, w.ToStop}] = w.Duration
	}

	pairs := make(map[stopPair]struct{}, len(busesByPair)+len(walkByPair))
	for k := range busesByPair {
		pairs[k] = struct{}{}
	}
	for k := range walkByPair {
		pairs[k] = struct{}{}
	}

	g := NewTransportGraph()
	for k := range pairs {
		buses := busesByPair[k]
		sort.Slice(buses, func(i, j int) bool { return buses[i].D < buses[j].D })

		var walk Walk
		if d, ok := walkByPair[k]; ok {
			walk = NewWalk([]int64{k.from, k.to}, d)
		}

		f := ATF{Walk: walk, Buses: buses}
		f.Cut()
		g.SetEdge(k.from, k.to, f)
	}
	return g
}

// LoadConnectionsCSV reads a transit-connections table. Columns are
// resolved by header name, so column order in the input file doesn't
// matter.
func LoadConnectionsCSV(r io.Reader) ([]ConnectionRecord, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("transit: read connections header: %w", err)
	}
	col, err := columnIndex(header, "from_stop_I", "to_stop_I", "dep_time_ut", "arr_time_ut", "route_I")
	if err != nil {
		return nil, fmt.Errorf("transit: connections: %w", err)
	}

	var records []ConnectionRecord
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("transit: read connections row: %w", err)
		}
		from, err := strconv.ParseInt(row[col[0]], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("transit: parse from_stop_I: %w", err)
		}
		to, err := strconv.ParseInt(row[col[1]], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("transit: parse to_stop_I: %w", err)
		}
		dep, err := strconv.ParseInt(row[col[2]], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("transit: parse dep_time_ut: %w", err)
		}
		arr, err := strconv.ParseInt(row[col[3]], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("transit: parse arr_time_ut: %w", err)
		}
		records = append(records, ConnectionRecord{
			FromStop: from,
			ToStop:   to,
			DepTime:  dep,
			ArrTime:  arr,
			RouteID:  row[col[4]],
		})
	}
	return records, nil
}

// LoadWalksCSV reads a walk-connections table (from_stop_I, to_stop_I,
// d_walk).
func LoadWalksCSV(r io.Reader) ([]WalkRecord, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("transit: read walks header: %w", err)
	}
	col, err := columnIndex(header, "from_stop_I", "to_stop_I", "d_walk")
	if err != nil {
		return nil, fmt.Errorf("transit: walks: %w", err)
	}

	var records []WalkRecord
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("transit: read walks row: %w", err)
		}
		from, err := strconv.ParseInt(row[col[0]], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("transit: parse from_stop_I: %w", err)
		}
		to, err := strconv.ParseInt(row[col[1]], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("transit: parse to_stop_I: %w", err)
		}
		d, err := strconv.ParseInt(row[col[2]], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("transit: parse d_walk: %w", err)
		}
		records = append(records, WalkRecord{FromStop: from, ToStop: to, Duration: d})
	}
	return records, nil
}

func columnIndex(header []string, names ...string) ([]int, error) {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		pos[h] = i
	}
	idx := make([]int, len(names))
	for i, name := range names {
		p, ok := pos[name]
		if !ok {
			return nil, fmt.Errorf("missing column %q", name)
		}
		idx[i] = p
	}
	return idx, nil
}
