package input

// Script is a headless sampler replaying a fixed sequence of device states.
// After Frames samples it requests quit; Frames of zero never quits.
type Script struct {
	Frames  int
	Devices []State

	sampled int
}

// Sample returns the next snapshot of the script.
func (s *Script) Sample() Snapshot {
	if s.Frames > 0 && s.sampled >= s.Frames {
		return Snapshot{Quit: true}
	}
	var device State
	if len(s.Devices) > 0 {
		device = s.Devices[s.sampled%len(s.Devices)]
	}
	s.sampled++
	return Snapshot{Device: device}
}

// Sampled returns how many non-quit snapshots were produced.
func (s *Script) Sampled() int {
	return s.sampled
}
