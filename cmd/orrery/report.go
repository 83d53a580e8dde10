package main

import (
	"fmt"
	"io"
	"text/template"

	"github.com/plus3/orrery/engine"
)

// Report summarizes a finished session.
type Report struct {
	// Configuration
	FrameRate float64
	Width     int
	Height    int
	Headless  bool

	// Results
	Stats      engine.Stats
	CaptureDir string
	Format     string
	Video      string
	Encoded    bool
	Error      string
	Manifest   string
}

const reportTemplate = `
# Orrery Session Report

## Configuration
- **Target Rate:** {{.FrameRate}} FPS
- **Frame Size:** {{.Width}}x{{.Height}}
- **Mode:** {{if .Headless}}headless{{else}}window{{end}}

## Loop
- **State:** {{.Stats.State}}
- **Frames:** {{.Stats.Frames}}
- **Simulated Time:** {{printf "%.3f" .Stats.Elapsed}}s
- **Achieved Rate:** {{fps .Stats.Frames .Stats.Elapsed}} FPS
- **Frame Time:**
  - **Avg:** {{.Stats.AvgFrame}}
  - **Min:** {{.Stats.MinFrame}}
  - **Max:** {{.Stats.MaxFrame}}
{{with .Stats.Scheduler}}
## Systems ({{.SystemCount}})
{{range .Systems}}- {{.Name}}: {{.ExecutionCount}} runs, avg {{.AvgDuration}}, min {{.MinDuration}}, max {{.MaxDuration}}
{{end}}{{end}}
## Capture
{{if .CaptureDir}}- **Frames Written:** {{.Stats.Captured}} ({{.Format}})
- **Directory:** {{.CaptureDir}}
{{if .Manifest}}- **Manifest:** {{.Manifest}}
{{end}}{{else}}- disabled
{{end}}
## Video
{{if .Video}}- **Output:** {{.Video}}
- **Encoded:** {{.Encoded}}
{{if .Error}}- **Error:** {{.Error}}
{{end}}{{else}}- not assembled
{{end}}`

// Generate writes the report as markdown.
func (r *Report) Generate(w io.Writer) error {
	fm := template.FuncMap{
		"fps": func(frames int64, elapsed float64) string {
			if elapsed <= 0 {
				return "n/a"
			}
			return fmt.Sprintf("%.1f", float64(frames)/elapsed)
		},
	}

	tmpl, err := template.New("report").Funcs(fm).Parse(reportTemplate)
	if err != nil {
		return err
	}
	return tmpl.Execute(w, r)
}
