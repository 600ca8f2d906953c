package gesture

import "github.com/pthm-cable/morph/config"

// Status labels shown in the debug readout.
const (
	StatusWaiting = "Waiting..."
	StatusMoving  = "Moving"
	StatusClosed  = "Closed"
	StatusTension = "Tension"
	StatusNeutral = "Neutral"
)

// Thresholds for the status label.
type Thresholds struct {
	Closed  float64
	Tension float64
}

// ThresholdsFromConfig extracts status thresholds from config.
func ThresholdsFromConfig(cfg config.StatusConfig) Thresholds {
	return Thresholds{Closed: cfg.ClosedThreshold, Tension: cfg.TensionThreshold}
}

// Status derives a human-readable label. Pointing wins over closed, which
// wins over tension.
func Status(sig Signal, th Thresholds) string {
	switch {
	case sig.PointingActive:
		return StatusMoving
	case sig.Closedness > th.Closed:
		return StatusClosed
	case sig.Openness > th.Tension:
		return StatusTension
	default:
		return StatusNeutral
	}
}
