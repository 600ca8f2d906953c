package telemetry

// SignalRecord is one sampled row of gesture input and field response.
type SignalRecord struct {
	Time       float64 `csv:"time"`
	Tick       int     `csv:"tick"`
	Hands      int     `csv:"hands"`
	Openness   float64 `csv:"openness"`
	Closedness float64 `csv:"closedness"`
	Pointing   bool    `csv:"pointing"`
	PointingX  float64 `csv:"pointing_x"`
	PointingY  float64 `csv:"pointing_y"`
	Status     string  `csv:"status"`
	Expansion  float32 `csv:"expansion"`
	Scale      float32 `csv:"scale"`
	OffsetX    float32 `csv:"offset_x"`
	OffsetY    float32 `csv:"offset_y"`
}

// SignalSampler decides when to emit a signal record. It keeps the CSV at
// a fixed rate regardless of frame rate.
type SignalSampler struct {
	interval float64
	next     float64
	started  bool
}

// NewSignalSampler creates a sampler emitting at most once per interval
// seconds. A non-positive interval samples every call.
func NewSignalSampler(interval float64) *SignalSampler {
	return &SignalSampler{interval: interval}
}

// Due reports whether a record should be written at time t.
func (s *SignalSampler) Due(t float64) bool {
	if !s.started || s.interval <= 0 || t >= s.next {
		s.started = true
		s.next = t + s.interval
		return true
	}
	return false
}
