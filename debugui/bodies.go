package debugui

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/orrery/orbit"
	"github.com/plus3/orrery/scene"
)

// Bodies lists the simulated bodies with their current world positions.
type Bodies struct {
	table *orbit.Table
	scene func() *scene.Hierarchy
}

// NewBodies creates the panel. The hierarchy is looked up on every render
// since it only exists once the app is initialized.
func NewBodies(table *orbit.Table, hierarchy func() *scene.Hierarchy) *Bodies {
	return &Bodies{table: table, scene: hierarchy}
}

// Render draws the "Bodies" window.
func (b *Bodies) Render() {
	h := b.scene()
	if h == nil || b.table == nil {
		return
	}

	imgui.SetNextWindowPosV(imgui.NewVec2(380, 10), imgui.CondOnce, imgui.NewVec2(0, 0))
	imgui.SetNextWindowSizeV(imgui.NewVec2(520, 300), imgui.CondOnce)

	if !imgui.BeginV("Bodies", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	f := b.table.Factors()
	imgui.Text(fmt.Sprintf("Factors: rotation %.0f, translation %.0f, AU %.1f", f.Rotation, f.Translation, f.AU))
	imgui.Separator()

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsSizingFixedFit
	if imgui.BeginTableV("BodyTable", 5, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("Body")
		imgui.TableSetupColumn("Spin (deg/frame)")
		imgui.TableSetupColumn("Period (days)")
		imgui.TableSetupColumn("Distance")
		imgui.TableSetupColumn("Position")
		imgui.TableHeadersRow()

		for _, body := range b.table.Bodies() {
			imgui.TableNextRow()
			imgui.TableNextColumn()
			imgui.Text(body.ID.String())
			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%.5f", body.Spin))
			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%.2f", body.Period))
			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%.2f", body.Distance))
			imgui.TableNextColumn()
			if node := b.table.Node(body.ID); node != nil {
				p := h.WorldPosition(node)
				imgui.Text(fmt.Sprintf("(%.2f, %.2f, %.2f)", p.X(), p.Y(), p.Z()))
			} else {
				imgui.Text("-")
			}
		}
		imgui.EndTable()
	}

	imgui.End()
}
