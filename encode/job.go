package encode

import (
	"fmt"
	"strconv"

	"github.com/mattn/go-shellwords"
)

// Job describes one encoder invocation over a numbered frame sequence.
type Job struct {
	// Tool is the encoder executable, looked up on PATH.
	Tool      string
	FrameRate float64
	// Pattern is a printf-style path such as frames/frame_%d.png.
	Pattern string
	Codec   string
	// CRF is the constant rate factor; 0 is lossless for libx264.
	CRF int
	// ExtraArgs are inserted before the output path, using shell quoting rules.
	ExtraArgs string
	Output    string
	// Overwrite replaces an existing output file instead of failing.
	Overwrite bool
}

// DefaultJob returns a lossless H.264 job at rate frames per second.
func DefaultJob(rate float64) Job {
	return Job{
		Tool:      "ffmpeg",
		FrameRate: rate,
		Pattern:   "frames/frame_%d.png",
		Codec:     "libx264",
		CRF:       0,
		Output:    "video/video.mp4",
		Overwrite: true,
	}
}

// Args returns the encoder arguments, without the tool name.
func (j Job) Args() ([]string, error) {
	if j.FrameRate <= 0 {
		return nil, fmt.Errorf("encode: frame rate %v must be positive", j.FrameRate)
	}
	if j.Pattern == "" || j.Output == "" {
		return nil, fmt.Errorf("encode: input pattern and output path are required")
	}

	var args []string
	if j.Overwrite {
		args = append(args, "-y")
	}
	args = append(args,
		"-r", strconv.FormatFloat(j.FrameRate, 'f', -1, 64),
		"-f", "image2",
		"-i", j.Pattern,
		"-vcodec", j.Codec,
		"-crf", strconv.Itoa(j.CRF),
	)
	if j.ExtraArgs != "" {
		extra, err := shellwords.Parse(j.ExtraArgs)
		if err != nil {
			return nil, fmt.Errorf("encode: parsing extra args %q: %w", j.ExtraArgs, err)
		}
		args = append(args, extra...)
	}
	return append(args, j.Output), nil
}
