package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/azybler/transitch/pkg/ch"
	"github.com/azybler/transitch/pkg/transit"
)

func main() {
	connectionsPath := flag.String("connections", "", "Path to transit connections CSV (from_stop_I,to_stop_I,dep_time_ut,arr_time_ut,route_I)")
	walksPath := flag.String("walks", "", "Path to walk connections CSV (from_stop_I,to_stop_I,d_walk)")
	output := flag.String("output", "graph.bin", "Output contracted-graph binary path")
	busOnly := flag.Bool("bus-only", true, "Use the bus-only composition fast path during contraction")
	maxWalk := flag.Int64("max-walk-duration", 0, "Cap cumulative walk time on shortcuts in seconds (0 = unbounded)")
	flag.Parse()

	if *connectionsPath == "" {
		fmt.Fprintln(os.Stderr, "Usage: preprocess --connections <connections.csv> [--walks <walks.csv>] [--output graph.bin]")
		os.Exit(1)
	}

	start := time.Now()

	log.Println("Reading connections...")
	connFile, err := os.Open(*connectionsPath)
	if err != nil {
		log.Fatalf("Failed to open connections file: %v", err)
	}
	conns, err := transit.LoadConnectionsCSV(connFile)
	connFile.Close()
	if err != nil {
		log.Fatalf("Failed to parse connections: %v", err)
	}
	log.Printf("Parsed %d connections", len(conns))

	var walks []transit.WalkRecord
	if *walksPath != "" {
		log.Println("Reading walks...")
		walkFile, err := os.Open(*walksPath)
		if err != nil {
			log.Fatalf("Failed to open walks file: %v", err)
		}
		walks, err = transit.LoadWalksCSV(walkFile)
		walkFile.Close()
		if err != nil {
			log.Fatalf("Failed to parse walks: %v", err)
		}
		log.Printf("Parsed %d walk edges", len(walks))
	}

	log.Println("Building transport graph...")
	g := transit.BuildTransportGraph(conns, walks)
	stats := g.Stats()
	log.Printf("Graph: %d nodes, %d edges (timetable size min=%d mean=%.1f max=%d)",
		stats.Nodes, stats.Edges, stats.MinSize, stats.MeanSize, stats.MaxSize)

	log.Println("Extracting largest connected component...")
	componentNodes := transit.LargestComponent(g)
	log.Printf("Largest component: %d nodes (%.1f%%)", len(componentNodes), float64(len(componentNodes))/float64(g.NumNodes())*100)
	g = transit.FilterToComponent(g, componentNodes)
	log.Printf("Filtered graph: %d nodes, %d edges", g.NumNodes(), g.EdgesCount())

	log.Println("Running time-dependent Contraction Hierarchies...")
	opts := ch.DefaultOptions()
	opts.BusOnly = *busOnly
	if *maxWalk > 0 {
		opts.MaxWalkDuration = *maxWalk
	}
	cg := ch.Contract(g, opts)
	log.Printf("Contraction complete: %d ranked nodes, %d edges in overlay", len(cg.Rank), cg.Graph.EdgesCount())

	log.Println("Building geometrical containers...")
	ch.BuildGeometricalContainers(cg)

	log.Println("Building schedule index...")
	ch.BuildScheduleIndex(cg)

	log.Printf("Writing binary to %s...", *output)
	if err := ch.WriteBinary(*output, cg); err != nil {
		log.Fatalf("Failed to write binary: %v", err)
	}

	info, _ := os.Stat(*output)
	elapsed := time.Since(start)
	log.Printf("Done in %s. Output: %s (%.1f MB)", elapsed.Round(time.Second), *output, float64(info.Size())/(1024*1024))
}
