// Package rumble plays haptic pulses as a low buzz on the local speaker.
package rumble

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/tomz197/shootblitz/internal/haptic"
)

const (
	sampleRate  = beep.SampleRate(44100)
	rumbleFreq  = 55.0
	rumbleLevel = 0.35
)

// Speaker renders pulses as a short low-frequency buzz, the closest a
// desktop gets to a vibration motor. It implements haptic.Haptic.
type Speaker struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	initialized bool
}

var _ haptic.Haptic = (*Speaker)(nil)

// New creates an uninitialised speaker; Vibrate is a no-op until
// Initialize succeeds.
func New() *Speaker {
	return &Speaker{mixer: &beep.Mixer{}}
}

// Initialize opens the audio device. Calling it twice is harmless.
func (r *Speaker) Initialize() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(50*time.Millisecond)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	speaker.Play(r.mixer)
	r.initialized = true
	return nil
}

// Vibrate queues a buzz of duration d.
func (r *Speaker) Vibrate(d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.initialized || d <= 0 {
		return
	}
	streamer := beep.Take(sampleRate.N(d), newBuzz(sampleRate.N(d)))
	speaker.Lock()
	r.mixer.Add(streamer)
	speaker.Unlock()
}

// Close silences pending pulses.
func (r *Speaker) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.initialized {
		return
	}
	speaker.Lock()
	r.mixer.Clear()
	speaker.Unlock()
	r.initialized = false
}

// buzz is a square-ish low tone with a linear decay over its length.
type buzz struct {
	pos, total int
}

func newBuzz(total int) *buzz {
	return &buzz{total: max(total, 1)}
}

func (b *buzz) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(b.pos) / float64(sampleRate)
		v := math.Sin(2*math.Pi*rumbleFreq*t) + 0.3*math.Sin(2*math.Pi*rumbleFreq*3*t)
		env := 1 - float64(b.pos)/float64(b.total)
		if env < 0 {
			env = 0
		}
		s := v * env * rumbleLevel
		samples[i][0] = s
		samples[i][1] = s
		b.pos++
	}
	return len(samples), true
}

func (b *buzz) Err() error {
	return nil
}
