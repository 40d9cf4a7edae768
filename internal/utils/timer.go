package utils

import "time"

// Timer measures wall-clock time between NewTimer (or Start) and Stop.
type Timer struct {
	startTime time.Time
	duration  time.Duration
}

// NewTimer returns a started Timer.
func NewTimer() *Timer {
	return &Timer{startTime: time.Now()}
}

// Start restarts the measurement.
func (t *Timer) Start() {
	t.startTime = time.Now()
}

// Stop captures the time elapsed since the last start.
func (t *Timer) Stop() {
	t.duration = time.Since(t.startTime)
}

// GetDuration returns the duration captured by the last Stop, or zero.
func (t *Timer) GetDuration() time.Duration {
	return t.duration
}

// Milliseconds returns GetDuration in fractional milliseconds, the unit of
// the duration histograms.
func (t *Timer) Milliseconds() float64 {
	return float64(t.duration) / float64(time.Millisecond)
}
