package rumble

import (
	"testing"
	"time"
)

// TestVibrateWithoutDevice verifies pulses are ignored before Initialize.
func TestVibrateWithoutDevice(t *testing.T) {
	r := New()
	defer func() {
		if rec := recover(); rec != nil {
			t.Errorf("speaker panicked without initialization: %v", rec)
		}
	}()
	r.Vibrate(35 * time.Millisecond)
	r.Close()
}

func TestBuzzDecays(t *testing.T) {
	b := newBuzz(100)
	samples := make([][2]float64, 100)
	n, ok := b.Stream(samples)
	if n != 100 || !ok {
		t.Fatalf("Stream = %d, %v", n, ok)
	}
	if samples[99][0] > 0.05 || samples[99][0] < -0.05 {
		t.Fatalf("tail should be near silent, got %v", samples[99][0])
	}
}
