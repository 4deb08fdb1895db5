package input

import (
	"bufio"
	"testing"
	"time"
)

func TestParseKeys(t *testing.T) {
	s := newStream()
	now := time.Now()

	in := s.parse([]byte("a "), now)
	if !in.Left || !in.Fire {
		t.Fatalf("expected left and fire, got %+v", in)
	}
	if in.Right || in.Quit || in.Start {
		t.Fatalf("unexpected intents: %+v", in)
	}
}

func TestKeyHoldExpires(t *testing.T) {
	s := newStream()
	now := time.Now()
	s.parse([]byte("d"), now)

	if in := s.parse(nil, now.Add(keyHoldDuration/2)); !in.Right {
		t.Fatal("key should still be held inside the hold window")
	}
	if in := s.parse(nil, now.Add(keyHoldDuration)); in.Right {
		t.Fatal("key should be released after the hold window")
	}
}

func TestArrowKeys(t *testing.T) {
	s := newStream()
	in := s.parse([]byte("\x1b[D\x1b[C"), time.Now())
	if !in.Left || !in.Right {
		t.Fatalf("arrow keys not parsed: %+v", in)
	}
}

func TestSplitEscapeSequence(t *testing.T) {
	s := newStream()
	now := time.Now()
	if in := s.parse([]byte("\x1b["), now); in.Left {
		t.Fatal("incomplete sequence must not produce input")
	}
	if in := s.parse([]byte("D"), now); !in.Left {
		t.Fatal("sequence completed on the next frame should register")
	}
}

func TestFocusOut(t *testing.T) {
	s := newStream()
	now := time.Now()
	if in := s.parse([]byte("\x1b[O"), now); !in.FocusLost {
		t.Fatal("focus-out report should set FocusLost")
	}
	if in := s.parse(nil, now); in.FocusLost {
		t.Fatal("FocusLost is reported for one frame only")
	}
	if in := s.parse([]byte("\x1b[I"), now); in.FocusLost {
		t.Fatal("focus-in must not report loss")
	}
}

func TestMouseHold(t *testing.T) {
	s := newStream()
	now := time.Now()

	in := s.parse([]byte("\x1b[<0;12;30M"), now)
	if !in.Pointer.Held || in.Pointer.Col != 12 || in.Pointer.Row != 30 {
		t.Fatalf("press not parsed: %+v", in.Pointer)
	}

	// Hold persists across frames without further reports.
	if in := s.parse(nil, now.Add(time.Second)); !in.Pointer.Held {
		t.Fatal("pointer hold should persist until release")
	}

	if in := s.parse([]byte("\x1b[<0;12;30m"), now); in.Pointer.Held {
		t.Fatal("release should clear the hold")
	}
}

func TestMouseIgnoresOtherButtons(t *testing.T) {
	s := newStream()
	in := s.parse([]byte("\x1b[<2;5;5M"), time.Now())
	if in.Pointer.Held {
		t.Fatal("right button must not count as a hold")
	}
}

func TestCtrlCQuits(t *testing.T) {
	s := newStream()
	if in := s.parse([]byte{0x03}, time.Now()); !in.Quit {
		t.Fatal("ctrl-c should quit")
	}
}

func TestResetKeyInput(t *testing.T) {
	s := newStream()
	now := time.Now()
	s.parse([]byte(" \x1b[<0;1;1M"), now)
	ResetKeyInput(s)
	in := s.parse(nil, now)
	if in.Fire || in.Pointer.Held {
		t.Fatalf("reset should clear held state: %+v", in)
	}
}

// endless never runs out of bytes, like a client that keeps typing.
type endless struct{}

func (endless) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 'x'
	}
	return len(p), nil
}

func TestStopReleasesReader(t *testing.T) {
	s := StartStream(bufio.NewReader(endless{}))
	time.Sleep(20 * time.Millisecond) // let the buffer fill up
	s.Stop()
	s.Stop()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-s.ch:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("reader goroutine still sending after Stop")
		}
	}
}
