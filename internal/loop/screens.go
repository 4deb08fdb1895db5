package loop

import (
	"fmt"
	"math"

	"github.com/mattn/go-runewidth"

	"github.com/tomz197/shootblitz/internal/draw"
	"github.com/tomz197/shootblitz/internal/loop/config"
	"github.com/tomz197/shootblitz/internal/object"
)

// overlay is the lifecycle screen shown over the playfield.
type overlay int

const (
	overlayStart overlay = iota
	overlayNone
	overlayGameOver
)

// HUD is the terminal presenter: a status line on the top row, pointer
// buttons on the bottom row and the start and game-over overlays.
type HUD struct {
	score      string
	lives      string
	wave       string
	overlay    overlay
	finalScore int
}

// Compile-time check that HUD implements Presenter.
var _ Presenter = (*HUD)(nil)

// NewHUD creates a HUD showing the start screen.
func NewHUD() *HUD {
	return &HUD{overlay: overlayStart}
}

func (h *HUD) SetScore(text string) { h.score = text }
func (h *HUD) SetLives(text string) { h.lives = text }
func (h *HUD) SetWave(text string)  { h.wave = text }

// GameStarted hides the start and game-over screens.
func (h *HUD) GameStarted() {
	h.overlay = overlayNone
}

// GameOver shows the game-over screen with finalScore.
func (h *HUD) GameOver(finalScore int) {
	h.overlay = overlayGameOver
	h.finalScore = finalScore
}

// button identifies one of the pointer buttons on the bottom row.
type button int

const (
	buttonNone button = iota
	buttonLeft
	buttonFire
	buttonRight
)

var buttonLabels = [...]string{
	buttonLeft:  "  ◀  ",
	buttonFire:  "  ●  ",
	buttonRight: "  ▶  ",
}

// buttonColumn returns the first column of b on a terminal termWidth wide.
// Left sits at the left edge, fire in the centre, right at the right edge.
func buttonColumn(b button, termWidth int) int {
	w := runewidth.StringWidth(buttonLabels[b])
	switch b {
	case buttonLeft:
		return 2
	case buttonFire:
		return max((termWidth-w)/2+1, 1)
	case buttonRight:
		return max(termWidth-w, 1)
	}
	return 0
}

// buttonAt returns the button under the 1-based cell (col,row).
func buttonAt(col, row, termWidth, termHeight int) button {
	if row != termHeight {
		return buttonNone
	}
	for _, b := range []button{buttonLeft, buttonFire, buttonRight} {
		start := buttonColumn(b, termWidth)
		if col >= start && col < start+runewidth.StringWidth(buttonLabels[b]) {
			return b
		}
	}
	return buttonNone
}

// screenView carries session state the HUD needs besides presenter updates.
type screenView struct {
	state          GameState
	pressed        button
	shuttingDown   bool
	shutdownTimer  float64
	restartBlocked bool
	blink          bool
}

// Draw writes the HUD for the current frame to cw. Call after the canvas is
// rendered so text lands on top. Cells under the text are marked dirty on
// canvas so the next render clears whatever this frame no longer draws.
func (h *HUD) Draw(cw *draw.ChunkWriter, canvas *draw.Canvas, v screenView) {
	termWidth, termHeight := canvas.TerminalWidth(), canvas.TerminalHeight()
	centerX := termWidth / 2
	centerY := termHeight / 2

	if v.shuttingDown {
		drawShutdownScreen(cw, canvas, termWidth, centerY, v.shutdownTimer)
		return
	}

	h.drawStatusLine(cw, canvas, termWidth)
	drawButtons(cw, canvas, termWidth, termHeight, v.pressed)

	switch {
	case v.state == GameStatePaused:
		drawPausedScreen(cw, canvas, termWidth, centerY, v.blink)
	case h.overlay == overlayStart:
		drawStartScreen(cw, canvas, termWidth, centerX, centerY, v.blink)
	case h.overlay == overlayGameOver:
		drawGameOverScreen(cw, canvas, termWidth, centerY, h.finalScore, v.blink && !v.restartBlocked)
	}
}

// drawStatusLine draws score, wave and lives on the top row. Fields are
// padded so a shorter value overwrites a longer one.
func (h *HUD) drawStatusLine(cw *draw.ChunkWriter, canvas *draw.Canvas, termWidth int) {
	if h.score == "" {
		return
	}
	object.Text{Col: 2, Row: 1, Value: fmt.Sprintf("%-14s", h.score), Style: draw.ColorBold}.Draw(cw, canvas)
	object.CenteredText(1, termWidth, fmt.Sprintf(" %-9s", h.wave), draw.ColorYellow).Draw(cw, canvas)
	object.RightAlignedText(1, termWidth, 1, fmt.Sprintf("%9s", h.lives), draw.ColorBrightCyan).Draw(cw, canvas)
}

// drawButtons draws the three pointer buttons, the held one in reverse video.
func drawButtons(cw *draw.ChunkWriter, canvas *draw.Canvas, termWidth, termHeight int, pressed button) {
	for _, b := range []button{buttonLeft, buttonFire, buttonRight} {
		style := draw.ColorDim + reverseVideo
		if b == pressed {
			style = draw.ColorBold + reverseVideo
		}
		object.Text{Col: buttonColumn(b, termWidth), Row: termHeight, Value: buttonLabels[b], Style: style}.Draw(cw, canvas)
	}
}

const reverseVideo = "\033[7m"

func drawStartScreen(cw *draw.ChunkWriter, canvas *draw.Canvas, termWidth, centerX, centerY int, blink bool) {
	// ASCII art title (figlet "small" font)
	titleArt := []string{
		`  ___ _  _  ___   ___ _____   ___ _    ___ _____ ____ `,
		` / __| || |/ _ \ / _ \_   _| | _ ) |  |_ _|_   _|_  / `,
		` \__ \ __ | (_) | (_) || |   | _ \ |__ | |  | |  / /  `,
		` |___/_||_|\___/ \___/ |_|   |___/____|___| |_| /___| `,
	}
	titleWidth := 0
	for _, line := range titleArt {
		titleWidth = max(titleWidth, len(line))
	}
	titleStartY := centerY - 7
	for i, line := range titleArt {
		object.Text{Col: centerX - titleWidth/2, Row: titleStartY + i, Value: line, Style: draw.ColorBrightCyan}.Draw(cw, canvas)
	}

	subtitle := "~ survive the waves ~"
	object.CenteredText(titleStartY+len(titleArt)+1, termWidth, subtitle, draw.ColorDim).Draw(cw, canvas)

	controlsY := titleStartY + len(titleArt) + 3
	object.CenteredText(controlsY, termWidth, "Controls", draw.ColorBold).Draw(cw, canvas)
	controlLines := []string{
		"A D / ← →  . . . . Move",
		"SPACE / W  . . . . Fire",
		"Mouse  . . . ◀ ● ▶ hold",
		"Q  . . . . . . . . Quit",
	}
	for i, line := range controlLines {
		object.CenteredText(controlsY+1+i, termWidth, line, "").Draw(cw, canvas)
	}

	if blink {
		prompt := ">>  Press ENTER or click to Start  <<"
		object.CenteredText(controlsY+len(controlLines)+2, termWidth, prompt, draw.ColorBold).Draw(cw, canvas)
	}
}

func drawGameOverScreen(cw *draw.ChunkWriter, canvas *draw.Canvas, termWidth, centerY, finalScore int, showPrompt bool) {
	titleArt := []string{
		`   ___   _   __  __ ___    _____   _____ ___  `,
		`  / __| /_\ |  \/  | __|  / _ \ \ / / __| _ \ `,
		` | (_ |/ _ \| |\/| | _|  | (_) \ V /| _||   / `,
		`  \___/_/ \_\_|  |_|___|  \___/ \_/ |___|_|_\ `,
	}
	titleStartY := centerY - 5
	for i, line := range titleArt {
		object.CenteredText(titleStartY+i, termWidth, line, draw.ColorRed).Draw(cw, canvas)
	}

	scoreText := fmt.Sprintf("Final score: %d", finalScore)
	object.CenteredText(titleStartY+len(titleArt)+1, termWidth, scoreText, draw.ColorBold).Draw(cw, canvas)

	if showPrompt {
		prompt := ">>  Press ENTER or click to Restart  <<"
		object.CenteredText(titleStartY+len(titleArt)+3, termWidth, prompt, "").Draw(cw, canvas)
	}
}

func drawPausedScreen(cw *draw.ChunkWriter, canvas *draw.Canvas, termWidth, centerY int, blink bool) {
	object.CenteredText(centerY-1, termWidth, "PAUSED", draw.ColorBold+draw.ColorYellow).Draw(cw, canvas)
	object.CenteredText(centerY+1, termWidth, "The game stopped when the terminal lost focus.", "").Draw(cw, canvas)
	if blink {
		object.CenteredText(centerY+3, termWidth, ">>  Press ENTER or click to Restart  <<", "").Draw(cw, canvas)
	}
}

func drawShutdownScreen(cw *draw.ChunkWriter, canvas *draw.Canvas, termWidth, centerY int, remaining float64) {
	object.CenteredText(centerY-3, termWidth, "SERVER SHUTTING DOWN", draw.ColorBold+draw.ColorRed).Draw(cw, canvas)
	object.CenteredText(centerY-1, termWidth, "The server is restarting for maintenance.", "").Draw(cw, canvas)
	object.CenteredText(centerY, termWidth, "Please reconnect in a moment.", "").Draw(cw, canvas)

	countdown := fmt.Sprintf("Disconnecting in %d seconds...", int(remaining)+1)
	object.CenteredText(centerY+2, termWidth, countdown, "").Draw(cw, canvas)
	object.CenteredText(centerY+4, termWidth, "Press Q to disconnect now", draw.ColorDim).Draw(cw, canvas)
}

var (
	brightStarColor = draw.RGB(255, 255, 255)
	faintStarColor  = draw.Hex("#9fb8ff").Fade(0x22 / 255.0)
)

// drawStars paints the scrolling background. Star positions are a pure
// function of the index and the clock t, so no state is kept.
func drawStars(canvas *draw.Canvas, screen object.Screen, t float64) {
	if screen.Width <= 0 || screen.Height <= 0 {
		return
	}
	for i := range config.StarCount {
		x := math.Mod(float64(i*83), screen.Width)
		y := math.Mod(float64(i*197)+t*config.StarDrift, screen.Height)
		col := faintStarColor
		if i%config.StarBrightStep == 0 {
			col = brightStarColor
		}
		canvas.SetFloat(x, y, col)
	}
}
