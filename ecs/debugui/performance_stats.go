package debugui

import (
	"fmt"
	"time"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/tilecore/ecs"
)

func NewPerformanceStatsWindow(historyFrames int) PerformanceStatsWindow {
	return PerformanceStatsWindow{
		historyFrames: historyFrames,
		frameHistory:  make([]float32, historyFrames),
		frameIndex:    0,
		timer:         NewFrameTimer(),
	}
}

func (ps *PerformanceStatsWindow) Render(storage *ecs.Storage, resources *ecs.Resources, scheduler *ecs.Scheduler) {
	deltaTime := ps.timer.GetDeltaTime()

	if !imgui.BeginV("Performance Stats", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	ps.record(deltaTime)

	storageStats := storage.CollectStats()
	resourceStats := resources.CollectStats()
	schedulerStats := scheduler.GetStats()

	imgui.Text(fmt.Sprintf("Entities: %d", storageStats.EntityCount))
	imgui.Text(fmt.Sprintf("Columns: %d (%d components)", storageStats.ColumnCount, storageStats.ComponentCount))
	imgui.Text(fmt.Sprintf("Resources: %d", resourceStats.Count))

	avgFrameTime := ps.averageFrameTime()
	fps := float32(0)
	if avgFrameTime > 0 {
		fps = 1000.0 / avgFrameTime
	}
	imgui.Text(fmt.Sprintf("Avg Frame Time: %.2f ms (%.0f FPS)", avgFrameTime, fps))
	imgui.Text(fmt.Sprintf("Fixed Interval: %s (alpha %.2f)", schedulerStats.FixedInterval, scheduler.Timestep().Alpha()))
	imgui.Text(fmt.Sprintf("Frames: %d  Fixed Ticks: %d", schedulerStats.Frames, schedulerStats.FixedTicks))

	imgui.Separator()
	imgui.Text("Frame Time Graph (ms)")
	imgui.PlotLinesFloatPtr("##frametime", &ps.frameHistory[0], int32(len(ps.frameHistory)))

	if imgui.TreeNodeStr("System Details") {
		const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
		if imgui.BeginTableV("SystemStatsTable", 5, tableFlags, imgui.NewVec2(0, 0), 0) {
			imgui.TableSetupColumn("System")
			imgui.TableSetupColumn("Cadence")
			imgui.TableSetupColumn("Runs")
			imgui.TableSetupColumn("Avg")
			imgui.TableSetupColumn("Max")
			imgui.TableHeadersRow()

			for _, sys := range schedulerStats.Systems {
				imgui.TableNextRow()
				imgui.TableNextColumn()
				imgui.Text(sys.Name)
				imgui.TableNextColumn()
				imgui.Text(sys.Cadence.String())
				imgui.TableNextColumn()
				imgui.Text(fmt.Sprintf("%d", sys.ExecutionCount))
				imgui.TableNextColumn()
				imgui.Text(sys.AvgDuration.String())
				imgui.TableNextColumn()
				imgui.Text(sys.MaxDuration.String())
			}

			imgui.EndTable()
		}
		imgui.TreePop()
	}

	if imgui.TreeNodeStr("Resource Details") {
		for _, res := range resourceStats.Resources {
			if res.Present {
				imgui.BulletText(res.Type.String())
			}
		}
		imgui.TreePop()
	}

	imgui.End()
}

// record stores one frame time, in milliseconds, in the ring buffer.
func (ps *PerformanceStatsWindow) record(deltaTime float32) {
	ps.frameHistory[ps.frameIndex] = deltaTime * 1000.0
	ps.frameIndex = (ps.frameIndex + 1) % ps.historyFrames
}

func (ps *PerformanceStatsWindow) averageFrameTime() float32 {
	var total float32
	for _, ft := range ps.frameHistory {
		total += ft
	}
	return total / float32(ps.historyFrames)
}

type FrameTimer struct {
	lastFrameTime time.Time
}

func NewFrameTimer() *FrameTimer {
	return &FrameTimer{
		lastFrameTime: time.Now(),
	}
}

func (ft *FrameTimer) GetDeltaTime() float32 {
	now := time.Now()
	delta := float32(now.Sub(ft.lastFrameTime).Seconds())
	ft.lastFrameTime = now
	return delta
}
