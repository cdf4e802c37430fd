package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"runtime"
	"strconv"
	"strings"
	"time"

	"mapgen/internal/heightmap"
	"mapgen/pkg/engine"
)

func main() {
	base := engine.DefaultConfig()
	base.CellsNumber = 2000
	base.Bind(flag.CommandLine)
	seeds := flag.Int("seeds", 8, "number of seeds per template")
	templates := flag.String("templates", "all", "comma-separated templates, or all")
	workers := flag.Int("workers", runtime.NumCPU(), "parallel generations")
	top := flag.Int("top", 10, "results to print")
	flag.Parse()

	names := heightmap.Names()
	if *templates != "all" {
		names = strings.Split(*templates, ",")
	}
	seedList := make([]string, *seeds)
	for i := range seedList {
		seedList[i] = base.Seed + "-" + strconv.Itoa(i)
	}

	fmt.Printf("Sweeping %d seeds x %d templates (%d workers, %d cells)\n", len(seedList), len(names), *workers, base.CellsNumber)
	start := time.Now()
	records, err := engine.Sweep(context.Background(), base, seedList, names, *workers)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("\nTop %d results (elapsed %s):\n", min(*top, len(records)), time.Since(start).Round(time.Millisecond))
	for i := 0; i < len(records) && i < *top; i++ {
		fmt.Printf("%2d) %s\n", i+1, records[i].Summary)
	}
}
