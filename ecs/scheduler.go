package ecs

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"reflect"
	"strings"
	"time"

	"github.com/plus3/tilecore/input"
)

// SchedulerStats provides statistics about scheduler execution.
type SchedulerStats struct {
	FixedSystemCount  int
	RenderSystemCount int
	Frames            uint64
	FixedTicks        uint64
	TotalExecutions   int64
	FixedInterval     time.Duration
	Remainder         time.Duration
	Systems           []SystemStats
}

// SystemStats provides execution statistics for a single system.
type SystemStats struct {
	Name           string
	Cadence        Cadence
	ExecutionCount int64
	MinDuration    time.Duration
	MaxDuration    time.Duration
	AvgDuration    time.Duration
	LastDuration   time.Duration
	TotalDuration  time.Duration
}

type systemStatsInternal struct {
	executionCount int64
	minDuration    time.Duration
	maxDuration    time.Duration
	totalDuration  time.Duration
	lastDuration   time.Duration
}

func (s *systemStatsInternal) record(d time.Duration) {
	s.executionCount++
	s.lastDuration = d
	s.totalDuration += d

	if d < s.minDuration {
		s.minDuration = d
	}
	if d > s.maxDuration {
		s.maxDuration = d
	}
}

type systemEntry struct {
	name    string
	cadence Cadence
	system  System
	stats   systemStatsInternal
}

// SchedulerOption configures a Scheduler.
type SchedulerOption func(*Scheduler)

// WithFixedInterval sets the simulation tick. The default is DefaultFixedInterval.
func WithFixedInterval(interval time.Duration) SchedulerOption {
	return func(s *Scheduler) {
		s.timestep = NewFixedTimestep(interval)
	}
}

// WithLogger sets the logger used for registration and catch-up messages.
func WithLogger(logger *slog.Logger) SchedulerOption {
	return func(s *Scheduler) {
		s.logger = logger
	}
}

// WithGuardLeakCheck controls whether the scheduler faults when a system
// returns while still holding a guard. It is on by default.
func WithGuardLeakCheck(enabled bool) SchedulerOption {
	return func(s *Scheduler) {
		s.leakCheck = enabled
	}
}

// Scheduler owns the fixed-cadence and render-cadence system groups and the
// fixed-timestep accumulator that decides how many simulation ticks each frame runs.
type Scheduler struct {
	storage   *Storage
	resources *Resources
	timestep  *FixedTimestep
	fixed     []*systemEntry
	render    []*systemEntry
	commands  *Commands
	input     *input.Snapshot
	logger    *slog.Logger
	leakCheck bool
	frames    uint64
	ticks     uint64
}

// NewScheduler creates a new scheduler for the given storage and resources.
func NewScheduler(storage *Storage, resources *Resources, opts ...SchedulerOption) *Scheduler {
	s := &Scheduler{
		storage:   storage,
		resources: resources,
		timestep:  NewFixedTimestep(DefaultFixedInterval),
		commands:  newCommands(),
		input:     input.New(),
		logger:    slog.New(slog.DiscardHandler),
		leakCheck: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Scheduler) Storage() *Storage {
	return s.storage
}

func (s *Scheduler) Resources() *Resources {
	return s.resources
}

func (s *Scheduler) Timestep() *FixedTimestep {
	return s.timestep
}

// RegisterFixedSystem appends a system to the simulation group. It runs once per
// fixed tick with the fixed interval as delta time.
func (s *Scheduler) RegisterFixedSystem(system System) {
	s.fixed = append(s.fixed, s.register(system, Fixed))
}

// RegisterRenderSystem appends a system to the presentation group. It runs once
// per frame, after all of that frame's fixed ticks, with the real frame delta.
func (s *Scheduler) RegisterRenderSystem(system System) {
	s.render = append(s.render, s.register(system, Render))
}

func (s *Scheduler) register(system System, cadence Cadence) *systemEntry {
	s.initializeFields(system)

	entry := &systemEntry{
		name:    systemName(system),
		cadence: cadence,
		system:  system,
		stats: systemStatsInternal{
			minDuration: time.Duration(1<<63 - 1),
		},
	}
	s.logger.Info("registered system", "system", entry.name, "cadence", cadence.String())
	return entry
}

func systemName(system System) string {
	if named, ok := system.(*namedSystem); ok {
		return named.name
	}

	systemType := reflect.TypeOf(system)
	if systemType.Kind() == reflect.Ptr {
		systemType = systemType.Elem()
	}
	if name := systemType.Name(); name != "" {
		return name
	}
	return systemType.String()
}

func (s *Scheduler) initializeFields(system System) {
	systemValue := reflect.ValueOf(system)
	if systemValue.Kind() == reflect.Ptr {
		systemValue = systemValue.Elem()
	}

	if systemValue.Kind() != reflect.Struct {
		return
	}

	systemType := systemValue.Type()

	for i := 0; i < systemValue.NumField(); i++ {
		field := systemValue.Field(i)
		fieldType := systemType.Field(i)

		if !field.CanSet() {
			continue
		}

		if field.Kind() != reflect.Struct {
			continue
		}

		typeName := field.Type().Name()

		var arg reflect.Value
		switch {
		case strings.HasPrefix(typeName, "Query["):
			arg = reflect.ValueOf(s.storage)
		case strings.HasPrefix(typeName, "Singleton["):
			arg = reflect.ValueOf(s.resources)
		default:
			continue
		}

		initMethod := field.Addr().MethodByName("Init")
		if !initMethod.IsValid() {
			panic("Init method not found on field: " + fieldType.Name)
		}
		initMethod.Call([]reflect.Value{arg})
	}
}

// RunFrame advances the simulation by one host frame. It adds frameDelta to the
// accumulator, runs every fixed system once per whole interval accumulated, then
// runs every render system once with frameDelta. It returns the number of fixed
// ticks executed. output and in may be nil.
func (s *Scheduler) RunFrame(frameDelta time.Duration, output *image.RGBA, in *input.Snapshot) int {
	s.timestep.Accumulate(frameDelta)

	if in == nil {
		in = s.input
	}
	frame := &UpdateFrame{
		Storage:   s.storage,
		Resources: s.resources,
		Commands:  s.commands,
		Output:    output,
		Input:     in,
	}

	ticks := 0
	for s.timestep.Step() {
		frame.Cadence = Fixed
		frame.DeltaTime = s.timestep.Interval()
		frame.Tick = s.ticks
		s.runGroup(s.fixed, frame)
		s.ticks++
		ticks++
	}

	if ticks > 1 {
		s.logger.Debug("fixed-step catch-up",
			"ticks", ticks,
			"frame_delta", frameDelta,
			"remainder", s.timestep.Remainder())
	}

	frame.Cadence = Render
	frame.DeltaTime = frameDelta
	frame.Tick = s.ticks
	s.runGroup(s.render, frame)

	s.frames++
	return ticks
}

func (s *Scheduler) runGroup(group []*systemEntry, frame *UpdateFrame) {
	for _, entry := range group {
		start := time.Now()
		entry.system.Execute(frame)
		entry.stats.record(time.Since(start))

		if s.leakCheck {
			s.checkGuards(entry)
		}
		frame.Commands.Flush(s.storage)
	}
}

func (s *Scheduler) checkGuards(entry *systemEntry) {
	if t, mode, ok := s.storage.outstandingBorrow(); ok {
		panic(&LeakedGuardError{System: entry.name, Type: t, Held: mode})
	}
	if t, mode, ok := s.resources.outstandingBorrow(); ok {
		panic(&LeakedGuardError{System: entry.name, Type: t, Held: mode})
	}
}

// Run drives RunFrame from a ticker at the given interval, measuring the real
// elapsed time between ticks, until the context is cancelled.
func (s *Scheduler) Run(ctx context.Context, interval time.Duration, output *image.RGBA, in *input.Snapshot) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	lastTime := time.Now()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			dt := now.Sub(lastTime)
			lastTime = now
			s.RunFrame(dt, output, in)
		}
	}
}

// GetStats returns statistics about system execution, fixed systems first.
func (s *Scheduler) GetStats() *SchedulerStats {
	stats := &SchedulerStats{
		FixedSystemCount:  len(s.fixed),
		RenderSystemCount: len(s.render),
		Frames:            s.frames,
		FixedTicks:        s.ticks,
		FixedInterval:     s.timestep.Interval(),
		Remainder:         s.timestep.Remainder(),
		Systems:           make([]SystemStats, 0, len(s.fixed)+len(s.render)),
	}

	var totalExecs int64
	for _, group := range [][]*systemEntry{s.fixed, s.render} {
		for _, entry := range group {
			internal := entry.stats
			avgDuration := time.Duration(0)
			minDuration := time.Duration(0)
			if internal.executionCount > 0 {
				avgDuration = internal.totalDuration / time.Duration(internal.executionCount)
				minDuration = internal.minDuration
			}

			stats.Systems = append(stats.Systems, SystemStats{
				Name:           entry.name,
				Cadence:        entry.cadence,
				ExecutionCount: internal.executionCount,
				MinDuration:    minDuration,
				MaxDuration:    internal.maxDuration,
				AvgDuration:    avgDuration,
				LastDuration:   internal.lastDuration,
				TotalDuration:  internal.totalDuration,
			})
			totalExecs += internal.executionCount
		}
	}

	stats.TotalExecutions = totalExecs
	return stats
}

func (s *SchedulerStats) String() string {
	return fmt.Sprintf("%d fixed + %d render systems, %d frames, %d fixed ticks",
		s.FixedSystemCount, s.RenderSystemCount, s.Frames, s.FixedTicks)
}
