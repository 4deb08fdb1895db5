package haptic

import (
	"bytes"
	"go/parser"
	"go/token"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"
)

func TestBellThreshold(t *testing.T) {
	var out bytes.Buffer
	b := NewBell(&out, 20*time.Millisecond)

	b.Vibrate(10 * time.Millisecond)
	if out.Len() != 0 {
		t.Fatal("short pulse should not ring")
	}
	b.Vibrate(35 * time.Millisecond)
	if out.String() != "\a" {
		t.Fatalf("long pulse should ring once, got %q", out.String())
	}
}

func TestRecorder(t *testing.T) {
	var r Recorder
	var h Haptic = &r
	h.Vibrate(time.Millisecond)
	if len(r.Pulses) != 1 {
		t.Fatal("recorder should keep the pulse")
	}
	Nop{}.Vibrate(time.Second)
}

// TestHeadlessPackagesSkipAudio keeps the speaker driver out of everything
// the SSH server links.
func TestHeadlessPackagesSkipAudio(t *testing.T) {
	for _, dir := range []string{".", "../loop", "../object", "../../cmd/ssh"} {
		files, err := filepath.Glob(filepath.Join(dir, "*.go"))
		if err != nil {
			t.Fatal(err)
		}
		for _, path := range files {
			if strings.HasSuffix(path, "_test.go") {
				continue
			}
			f, err := parser.ParseFile(token.NewFileSet(), path, nil, parser.ImportsOnly)
			if err != nil {
				t.Fatalf("parse %s: %v", path, err)
			}
			for _, imp := range f.Imports {
				p, _ := strconv.Unquote(imp.Path.Value)
				if strings.HasPrefix(p, "github.com/gopxl/beep") || strings.HasSuffix(p, "/haptic/rumble") {
					t.Errorf("%s imports %s", path, p)
				}
			}
		}
	}
}
