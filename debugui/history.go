package debugui

// History is a fixed-size ring of samples, oldest first when read back.
type History struct {
	samples []float32
	offset  int
	filled  int
}

// NewHistory creates a history holding size samples.
func NewHistory(size int) *History {
	if size < 1 {
		size = 1
	}
	return &History{samples: make([]float32, size)}
}

// Push records a sample, overwriting the oldest once full.
func (h *History) Push(v float32) {
	h.samples[h.offset] = v
	h.offset = (h.offset + 1) % len(h.samples)
	if h.filled < len(h.samples) {
		h.filled++
	}
}

// Len returns how many samples were recorded, up to the capacity.
func (h *History) Len() int {
	return h.filled
}

// Ordered copies the recorded samples into dst oldest first and returns it.
func (h *History) Ordered(dst []float32) []float32 {
	dst = dst[:0]
	start := 0
	if h.filled == len(h.samples) {
		start = h.offset
	}
	for i := range h.filled {
		dst = append(dst, h.samples[(start+i)%len(h.samples)])
	}
	return dst
}

// Summary returns the average, minimum and maximum of the recorded samples.
func (h *History) Summary() (avg, lo, hi float32) {
	if h.filled == 0 {
		return 0, 0, 0
	}
	lo, hi = h.samples[0], h.samples[0]
	var sum float32
	for _, v := range h.samples[:h.filled] {
		sum += v
		lo = min(lo, v)
		hi = max(hi, v)
	}
	return sum / float32(h.filled), lo, hi
}
