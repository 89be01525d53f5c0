// Package tui renders scenes in a terminal: an ASCII projection of the
// live 3D layout for the run command, plus markdown summaries.
package tui

import (
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/aretw0/nexus/internal/raycast"
	"github.com/aretw0/nexus/pkg/domain"
)

var categoryGlyphs = map[domain.Category]rune{
	domain.CategoryML:        '●',
	domain.CategoryFinancial: '◆',
	domain.CategoryAdvanced:  '◼',
}

var categoryColors = map[domain.Category]string{
	domain.CategoryML:        "#818cf8",
	domain.CategoryFinancial: "#34d399",
	domain.CategoryAdvanced:  "#f472b6",
}

// View projects frames onto a character grid through a camera.
type View struct {
	Camera  raycast.Camera
	Width   int
	Height  int
	profile termenv.Profile
}

// NewView creates a view sized to the current terminal, falling back to
// 80x24 when stdout is not a TTY.
func NewView(cam raycast.Camera) *View {
	w, h := 80, 24
	if tw, th, err := term.GetSize(int(os.Stdout.Fd())); err == nil && tw > 0 && th > 2 {
		w, h = tw, th-2
	}
	cam.Aspect = float64(w) / float64(h) / 2 // terminal cells are ~2x taller than wide
	return &View{
		Camera:  cam,
		Width:   w,
		Height:  h,
		profile: termenv.ColorProfile(),
	}
}

// Render draws one frame as a multi-line string: edges first, then nodes
// on top, hovered node last so it always wins the cell.
func (v *View) Render(frame *domain.Frame) string {
	grid := make([][]rune, v.Height)
	colors := make([][]string, v.Height)
	for y := range grid {
		grid[y] = make([]rune, v.Width)
		colors[y] = make([]string, v.Width)
		for x := range grid[y] {
			grid[y][x] = ' '
		}
	}

	for _, e := range frame.Edges {
		ax, ay, aok := v.project(e.From)
		bx, by, bok := v.project(e.To)
		if !aok || !bok {
			continue
		}
		glyph := '·'
		color := ""
		if e.Highlighted {
			glyph = '•'
			color = "#fbbf24"
		}
		v.line(grid, colors, ax, ay, bx, by, glyph, color)
	}

	var hovered *domain.NodeTransform
	for i := range frame.Nodes {
		n := &frame.Nodes[i]
		if n.Hovered {
			hovered = n
			continue
		}
		v.plot(grid, colors, n)
	}
	if hovered != nil {
		v.plot(grid, colors, hovered)
	}

	var sb strings.Builder
	for y := range grid {
		for x := range grid[y] {
			cell := string(grid[y][x])
			if c := colors[y][x]; c != "" {
				cell = termenv.String(cell).Foreground(v.profile.Color(c)).String()
			}
			sb.WriteString(cell)
		}
		sb.WriteByte('\n')
	}
	sb.WriteString(v.statusLine(frame))
	return sb.String()
}

func (v *View) plot(grid [][]rune, colors [][]string, n *domain.NodeTransform) {
	x, y, ok := v.project(n.Position)
	if !ok {
		return
	}
	glyph, found := categoryGlyphs[n.Category]
	if !found {
		glyph = '○'
	}
	color := categoryColors[n.Category]
	if n.Hovered {
		glyph = '◉'
		color = "#fbbf24"
	}
	grid[y][x] = glyph
	colors[y][x] = color
}

// project maps a world position to grid coordinates through the camera.
// Returns false when the point is behind the camera or off screen.
func (v *View) project(p domain.Vec3) (int, int, bool) {
	cam := v.Camera
	forward := cam.Target.Sub(cam.Position).Normalized()
	right := forward.Cross(cam.Up).Normalized()
	up := right.Cross(forward)

	rel := p.Sub(cam.Position)
	depth := rel.Dot(forward)
	if depth <= 0.01 {
		return 0, 0, false
	}

	halfH := math.Tan(cam.FOV * math.Pi / 360)
	halfW := halfH * cam.Aspect

	nx := rel.Dot(right) / (depth * halfW)
	ny := rel.Dot(up) / (depth * halfH)
	if nx < -1 || nx > 1 || ny < -1 || ny > 1 {
		return 0, 0, false
	}

	x := int((nx + 1) / 2 * float64(v.Width-1))
	y := int((1 - ny) / 2 * float64(v.Height-1))
	return x, y, true
}

// line draws a Bresenham segment, never overwriting node glyphs.
func (v *View) line(grid [][]rune, colors [][]string, x0, y0, x1, y1 int, glyph rune, color string) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		if grid[y0][x0] == ' ' || grid[y0][x0] == '·' {
			grid[y0][x0] = glyph
			colors[y0][x0] = color
		}
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func (v *View) statusLine(frame *domain.Frame) string {
	hovered := ""
	for _, n := range frame.Nodes {
		if n.Hovered {
			hovered = n.ID
			break
		}
	}
	status := fmt.Sprintf(" frame %d | %d nodes | %d edges", frame.Seq, len(frame.Nodes), len(frame.Edges))
	if hovered != "" {
		status += " | hover: " + hovered
	}
	return termenv.String(status).Faint().String()
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
