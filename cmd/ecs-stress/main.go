package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"math/rand"
	"os"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/profile"
	"github.com/plus3/tilecore/ecs"
	"github.com/plus3/tilecore/input"
)

func main() {
	duration := flag.Duration("duration", 10*time.Second, "The total duration the test should run for.")
	entityCount := flag.Int("entities", 10000, "The initial number of entities to create.")
	interval := flag.Duration("interval", ecs.DefaultFixedInterval, "The fixed simulation interval.")
	seed := flag.Int64("seed", 1, "Seed for the random world.")
	gcPauseMetrics := flag.Bool("gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	logLevel := flag.String("log-level", "warn", "Scheduler log level (debug, info, warn, error).")
	profileMode := flag.String("profile", "", "Write a pprof profile to the current directory (cpu, mem, allocs).")
	flag.Parse()

	if *profileMode != "" {
		option, err := profileOption(*profileMode)
		if err != nil {
			log.Fatalf("Invalid -profile: %v", err)
		}
		defer profile.Start(option, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		log.Fatalf("Invalid -log-level: %v", err)
	}
	runID := uuid.New()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})).
		With("run", runID.String())

	log.Printf("Starting ECS stress test %s...\n", runID)

	// 1. Setup Storage, Resources, and Scheduler
	scheduler := ecs.NewScheduler(ecs.NewStorage(), ecs.NewResources(),
		ecs.WithFixedInterval(*interval),
		ecs.WithLogger(logger))

	// 2. Populate Storage with initial entities
	log.Printf("Populating storage with %d entities...\n", *entityCount)
	newWorld(scheduler, rand.New(rand.NewSource(*seed)), *entityCount)
	log.Println("Population complete.")

	// 3. Run the simulation loop
	report := &Report{
		RunID:          runID,
		Duration:       *duration,
		Entities:       *entityCount,
		Components:     componentCount,
		Interval:       *interval,
		GCPauseMetrics: *gcPauseMetrics,
		FrameTime: Stats{
			Samples: make([]time.Duration, 0),
		},
	}

	runtime.ReadMemStats(&report.MemStatsStart)

	log.Printf("Running simulation for %s...\n", *duration)
	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	output := newOutput()
	in := input.New()

	startTime := time.Now()
	lastFrameTime := time.Now()

Loop:
	for {
		select {
		case <-ctx.Done():
			break Loop
		default:
			deltaTime := time.Since(lastFrameTime)
			lastFrameTime = time.Now()

			frameStart := time.Now()
			scheduler.RunFrame(deltaTime, output, in)
			report.FrameTime.Samples = append(report.FrameTime.Samples, time.Since(frameStart))
		}
	}

	report.TotalTime = time.Since(startTime)
	report.FrameTime.Finalize()
	report.Collect(scheduler)
	runtime.ReadMemStats(&report.MemStatsEnd)

	log.Println("Simulation finished.")

	// 4. Generate Report to Console
	fmt.Println("\n\n--- Stress Test Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		log.Fatalf("Failed to generate report: %v", err)
	}
	fmt.Println("--- End of Report ---")

	log.Println("Stress test complete.")
}

func profileOption(mode string) (func(*profile.Profile), error) {
	switch mode {
	case "cpu":
		return profile.CPUProfile, nil
	case "mem":
		return profile.MemProfile, nil
	case "allocs":
		return profile.MemProfileAllocs, nil
	default:
		return nil, fmt.Errorf("unknown profile mode %q", mode)
	}
}
