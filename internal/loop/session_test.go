package loop

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/tomz197/shootblitz/internal/hub"
	"github.com/tomz197/shootblitz/internal/input"
	"github.com/tomz197/shootblitz/internal/loop/config"
	"github.com/tomz197/shootblitz/internal/object"
)

func fixedSize(w, h int) func() (int, int, error) {
	return func() (int, int, error) { return w, h, nil }
}

// syncBuffer is a bytes.Buffer safe to read while the session writes.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func newTestSession(t *testing.T, opts Options) (*Session, *io.PipeWriter) {
	t.Helper()
	pr, pw := io.Pipe()
	t.Cleanup(func() { _ = pw.Close() })
	if opts.TermSizeFunc == nil {
		opts.TermSizeFunc = fixedSize(80, 24)
	}
	if opts.Rand == nil {
		opts.Rand = fixedRand(0.5)
	}
	return NewSession(bufio.NewReader(pr), io.Discard, opts), pw
}

func TestViewport(t *testing.T) {
	s := Viewport(80, 24)
	if s.Width != 640 || s.Height != 384 {
		t.Fatalf("Viewport(80, 24) = %+v, want 640x384", s)
	}
}

func TestSessionQuitsOnEOF(t *testing.T) {
	out := &syncBuffer{}
	s := NewSession(bufio.NewReader(strings.NewReader("")), out, Options{
		TermSizeFunc: fixedSize(80, 24),
		Rand:         fixedRand(0.5),
	})

	done := make(chan error, 1)
	go func() { done <- s.Run(context.Background()) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("session did not stop on EOF")
	}
	got := out.String()
	if !strings.Contains(got, "\033[?1000h") || !strings.Contains(got, "\033[?1000l") {
		t.Fatal("mouse reporting not enabled and restored")
	}
}

func TestSessionStopsOnContextCancel(t *testing.T) {
	s, _ := newTestSession(t, Options{})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("session ignored cancellation")
	}
}

func TestSessionStartsOnKeyPress(t *testing.T) {
	s, pw := newTestSession(t, Options{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	if _, err := pw.Write([]byte("\r")); err != nil {
		t.Fatalf("write: %v", err)
	}
	// The world is owned by the session goroutine; quitting hands it back.
	time.Sleep(100 * time.Millisecond)
	if _, err := pw.Write([]byte("q")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := <-done; err != nil {
		t.Fatalf("Run: %v", err)
	}
	if s.World().State() != GameStateRunning {
		t.Fatalf("state = %v, want running after ENTER", s.World().State())
	}
}

func TestSessionIntentMergesPointerButtons(t *testing.T) {
	s, _ := newTestSession(t, Options{})
	s.input = input.Input{Left: true}
	s.pressed = buttonFire
	in := s.intent()
	if !in.Left || !in.Fire || in.Right {
		t.Fatalf("intent = %+v", in)
	}
	s.input = input.Input{}
	s.pressed = buttonRight
	if in := s.intent(); !in.Right || in.Left || in.Fire {
		t.Fatalf("intent = %+v", in)
	}
}

func TestSessionRestartDelay(t *testing.T) {
	s, _ := newTestSession(t, Options{})
	now := time.Now()
	if !s.canStart(now) {
		t.Fatal("first start blocked")
	}
	s.gameOverAt = now
	if s.canStart(now.Add(500 * time.Millisecond)) {
		t.Fatal("restart accepted right after game over")
	}
	if !s.canStart(now.Add(time.Duration(config.RestartDelay * float64(time.Second)))) {
		t.Fatal("restart still blocked after the delay")
	}
}

func TestSessionShutdownCountdown(t *testing.T) {
	events := make(chan hub.Event, 1)
	s, _ := newTestSession(t, Options{Events: events})
	s.startGame()
	events <- hub.Event{Type: hub.EventServerShutdown}

	s.processServerEvents(0)
	if !s.shuttingDown {
		t.Fatal("shutdown event ignored")
	}
	if s.World().State() != GameStatePaused {
		t.Fatalf("world state = %v, want paused during shutdown", s.World().State())
	}
	if !s.running {
		t.Fatal("session stopped before the countdown ran out")
	}

	s.processServerEvents(config.ShutdownDisplaySeconds + 1)
	if s.running {
		t.Fatal("session still running after the countdown")
	}
}

func TestSessionStopsWhenHubDropsIt(t *testing.T) {
	events := make(chan hub.Event)
	s, _ := newTestSession(t, Options{Events: events})
	close(events)
	s.processServerEvents(0)
	if s.running {
		t.Fatal("session kept running after its event channel closed")
	}
}

func TestSessionClearsPromptWhenBlinkTurnsOff(t *testing.T) {
	var out bytes.Buffer
	pr, pw := io.Pipe()
	defer pw.Close()
	s := NewSession(bufio.NewReader(pr), &out, Options{
		TermSizeFunc: fixedSize(80, 24),
		Rand:         fixedRand(0.5),
	})
	s.started = time.UnixMilli(0)

	const promptText = ">>  Press ENTER or click to Start  <<"
	prompt := object.CenteredText(18, 80, promptText, "")

	// 1200ms falls in a blink-on window, 1800ms in the following off window.
	if err := s.drawFrame(time.UnixMilli(1200)); err != nil {
		t.Fatalf("drawFrame: %v", err)
	}
	if !strings.Contains(out.String(), promptText) {
		t.Fatal("prompt missing on the blink-on frame")
	}

	out.Reset()
	if err := s.drawFrame(time.UnixMilli(1800)); err != nil {
		t.Fatalf("drawFrame: %v", err)
	}
	off := out.String()
	if strings.Contains(off, promptText) {
		t.Fatal("prompt drawn on the blink-off frame")
	}
	missing := 0
	for col := prompt.Col; col < prompt.Col+prompt.Width(); col++ {
		if !strings.Contains(off, fmt.Sprintf("\033[%d;%dH", prompt.Row, col)) {
			missing++
		}
	}
	if missing > 0 {
		t.Fatalf("%d of %d prompt cells left on screen after blink-off", missing, prompt.Width())
	}
}
