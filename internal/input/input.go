// Package input turns raw terminal bytes into per-frame intents.
package input

import (
	"bufio"
	"bytes"
	"strconv"
	"sync"
	"time"
)

// keyHoldDuration is how long a key is considered "held" after its last press.
// Terminals only report presses, so holding a key relies on auto-repeat
// arriving within this window.
const keyHoldDuration = 120 * time.Millisecond

// Input represents the current frame's input state.
type Input struct {
	Quit      bool
	Left      bool
	Right     bool
	Fire      bool
	Start     bool
	FocusLost bool
	Pointer   Pointer
}

// Pointer is the state of the primary mouse button.
// Col and Row are 1-based terminal coordinates of the last press.
type Pointer struct {
	Held     bool
	Col, Row int
}

// keyState tracks the last time each key was pressed.
type keyState struct {
	quit  time.Time
	left  time.Time
	right time.Time
	fire  time.Time
	start time.Time
}

// Stream delivers input bytes via a channel and tracks key state for combinations.
type Stream struct {
	ch        chan byte
	state     keyState
	pointer   Pointer
	focusLost bool
	pending   []byte // incomplete escape sequence carried to the next frame

	done     chan struct{}
	stopOnce sync.Once
}

// StartStream spawns a goroutine that reads from r and sends bytes to the
// stream until r fails or Stop is called. The channel is closed either way.
func StartStream(r *bufio.Reader) *Stream {
	s := newStream()
	go func() {
		defer close(s.ch)
		for {
			b, err := r.ReadByte()
			if err != nil {
				return
			}
			select {
			case s.ch <- b:
			case <-s.done:
				return
			}
		}
	}()
	return s
}

func newStream() *Stream {
	return &Stream{ch: make(chan byte, 256), done: make(chan struct{})}
}

// Stop releases the reader goroutine once nobody drains the stream. A read
// already blocked on r returns only when r does.
func (s *Stream) Stop() {
	s.stopOnce.Do(func() { close(s.done) })
}

// ReadInput drains all available bytes from the stream (non-blocking).
// A closed stream (EOF on the reader) reports Quit.
func ReadInput(s *Stream) Input {
	var buf []byte
	closed := false

drain:
	for {
		select {
		case b, ok := <-s.ch:
			if !ok {
				closed = true
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}

	in := s.parse(buf, time.Now())
	if closed {
		in.Quit = true
	}
	return in
}

// ResetKeyInput forgets held keys so a key used to start a game does not
// immediately fire or move.
func ResetKeyInput(s *Stream) {
	if s == nil {
		return
	}
	s.state = keyState{}
	s.pointer.Held = false
	s.focusLost = false
}

// parse updates key state from buf and builds the input for this frame.
func (s *Stream) parse(buf []byte, now time.Time) Input {
	if len(s.pending) > 0 {
		buf = append(s.pending, buf...)
		s.pending = nil
	}
	s.focusLost = false

	for i := 0; i < len(buf); i++ {
		b := buf[i]
		if b != '\x1b' {
			applyByteToState(&s.state, b, now)
			continue
		}

		n, complete := s.parseEscape(buf[i:], now)
		if !complete {
			s.pending = append([]byte(nil), buf[i:]...)
			break
		}
		i += n - 1
	}

	return Input{
		Quit:      now.Sub(s.state.quit) < keyHoldDuration,
		Left:      now.Sub(s.state.left) < keyHoldDuration,
		Right:     now.Sub(s.state.right) < keyHoldDuration,
		Fire:      now.Sub(s.state.fire) < keyHoldDuration,
		Start:     now.Sub(s.state.start) < keyHoldDuration,
		FocusLost: s.focusLost,
		Pointer:   s.pointer,
	}
}

// parseEscape consumes one escape sequence at the start of seq and returns its
// length. complete is false when the sequence was cut off by the read boundary.
func (s *Stream) parseEscape(seq []byte, now time.Time) (n int, complete bool) {
	if len(seq) < 2 {
		// A lone ESC; nothing in the game uses it.
		return 1, true
	}
	if seq[1] != '[' {
		return 1, true
	}
	if len(seq) < 3 {
		return 0, false
	}

	switch seq[2] {
	case 'C': // Right arrow
		s.state.right = now
		return 3, true
	case 'D': // Left arrow
		s.state.left = now
		return 3, true
	case 'A', 'B': // Up/down arrows are unused
		return 3, true
	case 'I': // Focus in
		return 3, true
	case 'O': // Focus out
		s.focusLost = true
		return 3, true
	case '<':
		return s.parseMouse(seq)
	}
	return 3, true
}

// parseMouse handles an SGR mouse report: ESC [ < b ; col ; row (M|m).
func (s *Stream) parseMouse(seq []byte) (int, bool) {
	end := bytes.IndexAny(seq, "Mm")
	if end < 0 {
		if len(seq) > 32 {
			return len(seq), true // garbage, drop it
		}
		return 0, false
	}

	fields := bytes.Split(seq[3:end], []byte{';'})
	if len(fields) != 3 {
		return end + 1, true
	}
	button, err1 := strconv.Atoi(string(fields[0]))
	col, err2 := strconv.Atoi(string(fields[1]))
	row, err3 := strconv.Atoi(string(fields[2]))
	if err1 != nil || err2 != nil || err3 != nil {
		return end + 1, true
	}

	// Only the primary button without modifiers or motion.
	if button == 0 {
		if seq[end] == 'M' {
			s.pointer = Pointer{Held: true, Col: col, Row: row}
		} else {
			s.pointer.Held = false
		}
	}
	return end + 1, true
}

// applyByteToState updates the key state timestamps based on the pressed byte.
func applyByteToState(state *keyState, b byte, now time.Time) {
	switch b {
	case 'q', 'Q', 0x03:
		state.quit = now
	case 'a', 'A', 'j', 'J', 'h', 'H':
		state.left = now
	case 'd', 'D', 'l', 'L':
		state.right = now
	case ' ', 'k', 'K', 'w', 'W':
		state.fire = now
	case '\n', '\r', 's', 'S':
		state.start = now
	}
}
