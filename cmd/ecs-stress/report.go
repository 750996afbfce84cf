package main

import (
	"fmt"
	"io"
	"runtime"
	"text/template"
	"time"

	"github.com/google/uuid"
	"github.com/plus3/tilecore/ecs"
)

type Report struct {
	// Configuration
	RunID      uuid.UUID
	Duration   time.Duration
	Entities   int
	Components int
	Interval   time.Duration

	// Results
	Frames         uint64
	FixedTicks     uint64
	FinalEntities  int
	Columns        int
	Spawned        int
	Expired        int
	TotalTime      time.Duration
	FrameTime      Stats
	Systems        []ecs.SystemStats
	GCPauseMetrics bool
	MemStatsStart  runtime.MemStats
	MemStatsEnd    runtime.MemStats
}

type Stats struct {
	Min     time.Duration
	Max     time.Duration
	Avg     time.Duration
	Samples []time.Duration
}

func (s *Stats) Finalize() {
	if len(s.Samples) == 0 {
		return
	}

	var total time.Duration
	s.Min = s.Samples[0]
	s.Max = s.Samples[0]

	for _, sample := range s.Samples {
		if sample < s.Min {
			s.Min = sample
		}
		if sample > s.Max {
			s.Max = sample
		}
		total += sample
	}
	s.Avg = total / time.Duration(len(s.Samples))
}

// Collect copies the scheduler, storage and population counters into the
// report. No system may be running.
func (r *Report) Collect(scheduler *ecs.Scheduler) {
	stats := scheduler.GetStats()
	r.Frames = stats.Frames
	r.FixedTicks = stats.FixedTicks
	r.Systems = stats.Systems

	storage := scheduler.Storage().CollectStats()
	r.FinalEntities = storage.EntityCount
	r.Columns = storage.ColumnCount

	if population, ok := ecs.GetResource[Population](scheduler.Resources()); ok {
		r.Spawned = population.Get().Spawned
		r.Expired = population.Get().Expired
		population.Release()
	}
}

func (r *Report) Generate(w io.Writer) error {
	const reportTemplate = `
# ECS Stress Test Report

## Test Configuration
- **Run ID:** {{.RunID}}
- **Run Duration:** {{.Duration}}
- **Initial Entities:** {{.Entities}}
- **Component Types:** {{.Components}}
- **Fixed Interval:** {{.Interval}}

## Performance Results
- **Frames:** {{.Frames}}
- **Fixed Ticks:** {{.FixedTicks}}
- **Total Test Time:** {{.TotalTime}}
- **Frame Time:**
  - **Avg:** {{.FrameTime.Avg}}
  - **Min:** {{.FrameTime.Min}}
  - **Max:** {{.FrameTime.Max}}

## World
- **Entities:** {{.FinalEntities}} ({{.Spawned}} spawned, {{.Expired}} expired)
- **Columns:** {{.Columns}}

## Systems
| System | Cadence | Runs | Avg | Max |
|---|---|---|---|---|
{{- range .Systems}}
| {{.Name}} | {{.Cadence}} | {{.ExecutionCount}} | {{.AvgDuration}} | {{.MaxDuration}} |
{{- end}}

## Memory Usage (MiB)
| | Start | End | Delta |
|---|---|---|---|
| Heap Alloc | {{mb .MemStatsStart.HeapAlloc}} | {{mb .MemStatsEnd.HeapAlloc}} | {{mb (bsub .MemStatsEnd.HeapAlloc .MemStatsStart.HeapAlloc)}} |
| Total Alloc | {{mb .MemStatsStart.TotalAlloc}} | {{mb .MemStatsEnd.TotalAlloc}} | {{mb (bsub .MemStatsEnd.TotalAlloc .MemStatsStart.TotalAlloc)}} |
| Sys | {{mb .MemStatsStart.Sys}} | {{mb .MemStatsEnd.Sys}} | {{mb (bsub .MemStatsEnd.Sys .MemStatsStart.Sys)}} |

- **GC Cycles:** {{usub .MemStatsEnd.NumGC .MemStatsStart.NumGC}}

{{- if .GCPauseMetrics}}
## GC Pauses
- **Total Pause:** {{ns (bsub .MemStatsEnd.PauseTotalNs .MemStatsStart.PauseTotalNs)}}
{{- end}}
`

	fm := template.FuncMap{
		"mb": func(v any) string {
			switch val := v.(type) {
			case uint64:
				return fmt.Sprintf("%.2f", float64(val)/1024/1024)
			case int64:
				return fmt.Sprintf("%.2f", float64(val)/1024/1024)
			default:
				return "N/A"
			}
		},
		"bsub": func(a, b uint64) int64 {
			return int64(a) - int64(b)
		},
		"usub": func(a, b uint32) uint32 {
			return a - b
		},
		"ns": func(ns int64) string {
			return time.Duration(ns).String()
		},
	}

	tmpl, err := template.New("report").Funcs(fm).Parse(reportTemplate)
	if err != nil {
		return err
	}

	return tmpl.Execute(w, r)
}
