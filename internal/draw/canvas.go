package draw

import (
	"io"
	"math"
	"sort"
	"strconv"
)

// Canvas is a drawing buffer with 2x vertical resolution using half-block characters.
// Supports scaling from logical coordinates to actual terminal pixels and keeps
// the previous frame so Render only emits cells that changed.
type Canvas struct {
	termWidth      int     // Actual terminal columns
	termHeight     int     // Actual terminal rows
	subPixelHeight int     // termHeight * 2
	pixels         []Color // Flat slice: [y * termWidth + x]

	// Scaling from logical to pixel coordinates
	scaleX float64 // termWidth / logicalWidth
	scaleY float64 // (termHeight*2) / logicalHeight

	// Previously rendered cells; dirty cells are re-emitted regardless.
	prev  []cell
	dirty []bool

	// Reusable buffers to reduce allocations
	renderBuf       []byte
	scaledBuf       []Point
	intersectionBuf []float64
	polygonBuf      []Point
}

// Point represents a 2D coordinate.
type Point struct {
	X, Y float64
}

type cell struct {
	top, bottom Color
}

// NewScaledCanvas creates a canvas that scales from logical coordinates to terminal pixels.
// logicalWidth/Height define the coordinate space used by game objects.
// termWidth/Height are the actual terminal dimensions.
func NewScaledCanvas(termWidth, termHeight int, logicalWidth, logicalHeight float64) *Canvas {
	c := &Canvas{}
	c.Resize(termWidth, termHeight, logicalWidth, logicalHeight)
	return c
}

// Resize updates the terminal and logical dimensions. Buffers are reallocated
// only when the terminal size changed, in which case the next Render repaints
// everything.
func (c *Canvas) Resize(termWidth, termHeight int, logicalWidth, logicalHeight float64) {
	termWidth = max(termWidth, 1)
	termHeight = max(termHeight, 1)
	if termWidth != c.termWidth || termHeight != c.termHeight {
		c.termWidth = termWidth
		c.termHeight = termHeight
		c.subPixelHeight = termHeight * 2
		c.pixels = make([]Color, c.subPixelHeight*termWidth)
		c.prev = make([]cell, termWidth*termHeight)
		c.dirty = make([]bool, termWidth*termHeight)
		c.ForceRedraw()
	}
	c.scaleX = float64(c.termWidth) / logicalWidth
	c.scaleY = float64(c.subPixelHeight) / logicalHeight
}

// ForceRedraw marks every cell dirty so the next Render repaints the whole area.
func (c *Canvas) ForceRedraw() {
	for i := range c.dirty {
		c.dirty[i] = true
	}
}

// MarkTextDirty marks cells overwritten by text so the canvas repaints them
// next frame. col and row are 1-based terminal coordinates.
func (c *Canvas) MarkTextDirty(col, row, length int) {
	y := row - 1
	if y < 0 || y >= c.termHeight {
		return
	}
	for x := col - 1; x < col-1+length; x++ {
		if x >= 0 && x < c.termWidth {
			c.dirty[y*c.termWidth+x] = true
		}
	}
}

// Clear resets all pixels in the canvas.
func (c *Canvas) Clear() {
	clear(c.pixels)
}

// setPixel sets a pixel at actual terminal coordinates (no scaling).
func (c *Canvas) setPixel(x, y int, col Color) {
	if x >= 0 && x < c.termWidth && y >= 0 && y < c.subPixelHeight {
		c.pixels[y*c.termWidth+x] = col
	}
}

// At returns the colour of the pixel at terminal sub-pixel coordinates.
func (c *Canvas) At(x, y int) Color {
	if x < 0 || x >= c.termWidth || y < 0 || y >= c.subPixelHeight {
		return 0
	}
	return c.pixels[y*c.termWidth+x]
}

// SetFloat sets a pixel using float logical coordinates (applies scaling).
func (c *Canvas) SetFloat(x, y float64, col Color) {
	px := int(math.Round(x * c.scaleX))
	py := int(math.Round(y * c.scaleY))
	c.setPixel(px, py, col)
}

// FillCircle fills a circle given in logical coordinates. The centre pixel is
// always set so small objects stay visible after scaling.
func (c *Canvas) FillCircle(cx, cy, r float64, col Color) {
	pcx, pcy := cx*c.scaleX, cy*c.scaleY
	rx, ry := r*c.scaleX, r*c.scaleY
	c.setPixel(int(math.Round(pcx)), int(math.Round(pcy)), col)
	if rx <= 0 || ry <= 0 {
		return
	}
	for y := int(math.Floor(pcy - ry)); y <= int(math.Ceil(pcy+ry)); y++ {
		dy := (float64(y) - pcy) / ry
		for x := int(math.Floor(pcx - rx)); x <= int(math.Ceil(pcx+rx)); x++ {
			dx := (float64(x) - pcx) / rx
			if dx*dx+dy*dy <= 1 {
				c.setPixel(x, y, col)
			}
		}
	}
}

// StrokeCircle draws a circle outline given in logical coordinates.
func (c *Canvas) StrokeCircle(cx, cy, r float64, col Color) {
	steps := max(int(2*math.Pi*r*max(c.scaleX, c.scaleY))*2, 12)
	for i := 0; i < steps; i++ {
		a := float64(i) * 2 * math.Pi / float64(steps)
		c.SetFloat(cx+math.Cos(a)*r, cy+math.Sin(a)*r, col)
	}
}

// DrawLine draws a line on the canvas using Bresenham's algorithm.
// Coordinates are in logical space and get scaled to pixels.
func (c *Canvas) DrawLine(p1, p2 Point, col Color) {
	x1 := int(math.Round(p1.X * c.scaleX))
	y1 := int(math.Round(p1.Y * c.scaleY))
	x2 := int(math.Round(p2.X * c.scaleX))
	y2 := int(math.Round(p2.Y * c.scaleY))

	dx := abs(x2 - x1)
	dy := abs(y2 - y1)

	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}

	err := dx - dy

	for {
		c.setPixel(x1, y1, col)

		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// DrawPolygon draws a polygon on the canvas.
// If filled is true, the interior is filled using scanline algorithm.
func (c *Canvas) DrawPolygon(points []Point, filled bool, col Color) {
	if len(points) < 3 {
		return
	}

	if filled {
		c.fillPolygon(points, col)
	}

	n := len(points)
	for i := 0; i < n; i++ {
		c.DrawLine(points[i], points[(i+1)%n], col)
	}
}

// fillPolygon fills a polygon using scanline algorithm.
// Works in pixel space for proper scaling.
func (c *Canvas) fillPolygon(points []Point, col Color) {
	if cap(c.scaledBuf) < len(points) {
		c.scaledBuf = make([]Point, len(points))
	}
	scaled := c.scaledBuf[:len(points)]

	for i, p := range points {
		scaled[i] = Point{X: p.X * c.scaleX, Y: p.Y * c.scaleY}
	}

	minY, maxY := scaled[0].Y, scaled[0].Y
	for _, p := range scaled {
		minY = min(minY, p.Y)
		maxY = max(maxY, p.Y)
	}

	for y := int(math.Floor(minY)); y <= int(math.Ceil(maxY)); y++ {
		scanY := float64(y) + 0.5
		intersections := c.intersectionBuf[:0]

		n := len(scaled)
		for i := 0; i < n; i++ {
			p1 := scaled[i]
			p2 := scaled[(i+1)%n]
			if (p1.Y <= scanY && p2.Y > scanY) || (p2.Y <= scanY && p1.Y > scanY) {
				t := (scanY - p1.Y) / (p2.Y - p1.Y)
				intersections = append(intersections, p1.X+t*(p2.X-p1.X))
			}
		}
		c.intersectionBuf = intersections

		sort.Float64s(intersections)

		for i := 0; i+1 < len(intersections); i += 2 {
			for x := int(math.Ceil(intersections[i])); x <= int(math.Floor(intersections[i+1])); x++ {
				c.setPixel(x, y, col)
			}
		}
	}
}

// maxChunkSize is the maximum bytes to write at once for optimal network flow.
// 1500 bytes matches typical MTU size for smooth SSH/network transmission.
const maxChunkSize = 1400

// Render writes every changed cell to w using half-block characters.
func (c *Canvas) Render(w io.Writer) error {
	buf := c.renderBuf[:0]

	for row := 0; row < c.termHeight; row++ {
		topOffset := row * 2 * c.termWidth
		bottomOffset := topOffset + c.termWidth

		for col := 0; col < c.termWidth; col++ {
			idx := row*c.termWidth + col
			cur := cell{top: c.pixels[topOffset+col], bottom: c.pixels[bottomOffset+col]}
			if cur == c.prev[idx] && !c.dirty[idx] {
				continue
			}
			c.prev[idx] = cur
			c.dirty[idx] = false

			buf = append(buf, "\033["...)
			buf = strconv.AppendInt(buf, int64(row+1), 10)
			buf = append(buf, ';')
			buf = strconv.AppendInt(buf, int64(col+1), 10)
			buf = append(buf, 'H')
			buf = appendCell(buf, cur)
		}
	}
	buf = append(buf, ColorReset...)
	c.renderBuf = buf

	for data := buf; len(data) > 0; {
		chunk := data
		if len(chunk) > maxChunkSize {
			chunk = data[:maxChunkSize]
		}
		if _, err := w.Write(chunk); err != nil {
			return err
		}
		data = data[len(chunk):]
	}
	return nil
}

func appendCell(buf []byte, cur cell) []byte {
	switch {
	case cur.top.IsZero() && cur.bottom.IsZero():
		buf = append(buf, ColorReset...)
		return append(buf, ' ')
	case cur.top == cur.bottom:
		buf = appendSGR(buf, cur.top, 0)
		return append(buf, string(BlockFull)...)
	case cur.bottom.IsZero():
		buf = appendSGR(buf, cur.top, 0)
		return append(buf, string(BlockUpperHalf)...)
	case cur.top.IsZero():
		buf = appendSGR(buf, cur.bottom, 0)
		return append(buf, string(BlockLowerHalf)...)
	default:
		buf = appendSGR(buf, cur.top, cur.bottom)
		return append(buf, string(BlockUpperHalf)...)
	}
}

// Block characters for drawing.
const (
	BlockFull      = '█'
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
)

// TerminalWidth returns the actual terminal column count.
func (c *Canvas) TerminalWidth() int {
	return c.termWidth
}

// TerminalHeight returns the actual terminal row count.
func (c *Canvas) TerminalHeight() int {
	return c.termHeight
}

// BorrowPoints returns a reusable slice of Points with the given length.
// The returned slice is only valid until the next call to BorrowPoints.
func (c *Canvas) BorrowPoints(n int) []Point {
	if cap(c.polygonBuf) < n {
		c.polygonBuf = make([]Point, n)
	}
	return c.polygonBuf[:n]
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
