package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"runtime/debug"
	"time"

	"github.com/azybler/transitch/pkg/api"
	"github.com/azybler/transitch/pkg/ch"
	"github.com/azybler/transitch/pkg/query"
	"github.com/azybler/transitch/pkg/spatial"
)

func main() {
	graphPath := flag.String("graph", "graph.bin", "Path to preprocessed contracted-graph binary")
	stopsPath := flag.String("stops", "", "Optional stop-coordinate CSV (stop_I,lat,lon) for lat/lon route requests")
	port := flag.Int("port", 8080, "HTTP port")
	corsOrigin := flag.String("cors-origin", "", "CORS allowed origin (empty = same-origin)")
	flag.Parse()

	start := time.Now()

	log.Printf("Loading contracted graph from %s...", *graphPath)
	cg, err := ch.ReadBinary(*graphPath)
	if err != nil {
		log.Fatalf("Failed to load graph: %v", err)
	}
	log.Printf("Loaded: %d ranked nodes, %d edges", len(cg.Rank), cg.Graph.EdgesCount())

	var stopIndex *spatial.StopIndex
	if *stopsPath != "" {
		log.Println("Building stop spatial index...")
		f, err := os.Open(*stopsPath)
		if err != nil {
			log.Fatalf("Failed to open stops file: %v", err)
		}
		stops, err := spatial.LoadStopsCSV(f)
		f.Close()
		if err != nil {
			log.Fatalf("Failed to parse stops: %v", err)
		}
		stopIndex = spatial.NewStopIndex(stops)
		log.Printf("Indexed %d stops", len(stops))
	}

	fch := query.New(cg)
	queryOpts := query.DefaultOptions()
	if err := query.ValidateOptions(cg, queryOpts); err != nil {
		log.Fatalf("Graph/query walk-budget mode mismatch: %v", err)
	}

	// Reclaim memory from init-time temporaries. Without this, Go's heap
	// retains peak RSS from index construction (GC doubles heap each cycle:
	// 120→240→480→960→1920 MB). This returns unused pages to the OS.
	runtime.GC()
	debug.FreeOSMemory()

	loadTime := time.Since(start)
	log.Printf("Ready in %s", loadTime.Round(time.Millisecond))

	addr := fmt.Sprintf(":%d", *port)
	cfg := api.DefaultConfig(addr)
	cfg.CORSOrigin = *corsOrigin

	edgeStats := statsFromGraph(cg)
	handlers := api.NewHandlers(fch, queryOpts, stopIndex, edgeStats)
	srv := api.NewServer(cfg, handlers)

	if err := api.ListenAndServe(srv); err != nil {
		log.Printf("Server stopped: %v", err)
		os.Exit(1)
	}
}

func statsFromGraph(cg *ch.ContractedGraph) api.StatsResponse {
	s := cg.Graph.Stats()
	return api.StatsResponse{
		NumNodes: s.Nodes,
		NumEdges: s.Edges,
		MinSize:  s.MinSize,
		MeanSize: s.MeanSize,
		StdSize:  s.StdSize,
		MaxSize:  s.MaxSize,
	}
}
