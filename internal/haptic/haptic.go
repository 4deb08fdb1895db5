// Package haptic delivers fire-and-forget feedback pulses. Hosts without a
// way to deliver them silently ignore requests.
package haptic

import (
	"io"
	"sync"
	"time"
)

// Haptic accepts a feedback pulse of the given duration.
type Haptic interface {
	Vibrate(d time.Duration)
}

// Nop discards every pulse.
type Nop struct{}

// Vibrate does nothing.
func (Nop) Vibrate(time.Duration) {}

// Bell rings the terminal bell for pulses of at least min. Shorter pulses
// are dropped.
type Bell struct {
	mu  sync.Mutex
	w   io.Writer
	min time.Duration
}

// NewBell creates a bell writing to w.
func NewBell(w io.Writer, min time.Duration) *Bell {
	return &Bell{w: w, min: min}
}

// Vibrate writes BEL when d is long enough. Write errors are ignored.
func (b *Bell) Vibrate(d time.Duration) {
	if d < b.min {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	_, _ = io.WriteString(b.w, "\a")
}

// Recorder keeps every pulse; used by tests.
type Recorder struct {
	Pulses []time.Duration
}

// Vibrate records d.
func (r *Recorder) Vibrate(d time.Duration) {
	r.Pulses = append(r.Pulses, d)
}
