package debugui

import (
	"fmt"
	"sort"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/AllenDang/cimgui-go/implot"
	"github.com/plus3/orrery/engine"
)

// HistoryFrames is how many frame times the performance panel keeps.
const HistoryFrames = 240

// Performance shows loop timing and per-system statistics of an app.
type Performance struct {
	app    *engine.App
	frames *History
	plot   []float32
}

// NewPerformance creates the panel for app.
func NewPerformance(app *engine.App) *Performance {
	return &Performance{
		app:    app,
		frames: NewHistory(HistoryFrames),
		plot:   make([]float32, 0, HistoryFrames),
	}
}

// Render draws the "Performance" window.
func (p *Performance) Render() {
	stats := p.app.Stats()
	if stats.Frames > 0 {
		p.frames.Push(float32(stats.LastFrame.Microseconds()) / 1000)
	}

	imgui.SetNextWindowPosV(imgui.NewVec2(10, 10), imgui.CondOnce, imgui.NewVec2(0, 0))
	imgui.SetNextWindowSizeV(imgui.NewVec2(360, 420), imgui.CondOnce)

	if !imgui.BeginV("Performance", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	avg, lo, hi := p.frames.Summary()
	fps := float32(0)
	if avg > 0 {
		fps = 1000 / avg
	}
	imgui.Text(fmt.Sprintf("State: %s", stats.State))
	imgui.Text(fmt.Sprintf("Frames: %d (%.1f s)", stats.Frames, stats.Elapsed))
	imgui.Text(fmt.Sprintf("Target: %.0f FPS", p.app.FrameRate()))
	imgui.Text(fmt.Sprintf("Avg Frame Time: %.2f ms (%.0f FPS)", avg, fps))
	imgui.Text(fmt.Sprintf("Min/Max: %.2f / %.2f ms", lo, hi))
	imgui.Text(fmt.Sprintf("Captured: %d", stats.Captured))

	imgui.Separator()
	p.plot = p.frames.Ordered(p.plot)
	if len(p.plot) > 0 && implot.BeginPlotV("Frame Time", imgui.NewVec2(-1, 150), 0) {
		implot.SetupAxesV("Frame", "ms", 0, implot.AxisFlagsAutoFit)
		implot.PlotLineFloatPtrInt("frame", &p.plot[0], int32(len(p.plot)))
		implot.EndPlot()
	}

	if imgui.TreeNodeStr("Systems") {
		systemsTable(stats.Scheduler)
		imgui.TreePop()
	}

	imgui.End()
}

func systemsTable(stats *engine.SchedulerStats) {
	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsSortable | imgui.TableFlagsSizingFixedFit
	if !imgui.BeginTableV("Systems", 4, tableFlags, imgui.NewVec2(0, 0), 0) {
		return
	}
	imgui.TableSetupColumn("Name")
	imgui.TableSetupColumn("Avg (ms)")
	imgui.TableSetupColumn("Min (ms)")
	imgui.TableSetupColumn("Max (ms)")
	imgui.TableHeadersRow()

	systems := stats.Systems
	if sortSpecs := imgui.TableGetSortSpecs(); sortSpecs.SpecsCount() > 0 {
		spec := sortSpecs.Specs()
		sort.SliceStable(systems, func(i, j int) bool {
			left, right := systems[i], systems[j]

			var less bool
			switch spec.ColumnIndex() {
			case 0:
				less = left.Name < right.Name
			case 1:
				less = left.AvgDuration < right.AvgDuration
			case 2:
				less = left.MinDuration < right.MinDuration
			case 3:
				less = left.MaxDuration < right.MaxDuration
			}

			if spec.SortDirection() == imgui.SortDirectionDescending {
				return !less
			}
			return less
		})
	}

	for _, sys := range systems {
		imgui.TableNextRow()
		imgui.TableNextColumn()
		imgui.Text(sys.Name)
		imgui.TableNextColumn()
		imgui.Text(fmt.Sprintf("%.3f", float64(sys.AvgDuration.Microseconds())/1000))
		imgui.TableNextColumn()
		imgui.Text(fmt.Sprintf("%.3f", float64(sys.MinDuration.Microseconds())/1000))
		imgui.TableNextColumn()
		imgui.Text(fmt.Sprintf("%.3f", float64(sys.MaxDuration.Microseconds())/1000))
	}
	imgui.EndTable()
}
