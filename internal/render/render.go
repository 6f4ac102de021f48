// Package render builds one frame of the mind-map (spec.md §4.5): a
// rune grid composed from every anchor's subtree, the conditional log
// panel, and the arrow overlay, styled with Lip Gloss. Grounded on the
// teacher's panel-composition style (internal/ui/shared/logoverlay,
// internal/ui/shared/panes/border.go) adapted from component-stacked
// panels to a single absolute-position cell grid, since spec.md's
// hit-testing and arrow routing both require real screen coordinates
// rather than flowed layout.
//
// Bubble Tea owns the terminal driver collaborator spec.md §6 names
// (raw mode, alt-screen entry, cursor hiding, mouse reporting) via
// tea.WithAltScreen and tea.WithMouseCellMotion set once in cmd/root.go
// — so spec.md §4.5 steps 1 and 5 (clear+home, hide cursor) are ambient
// program configuration, not something View renders per frame.
package render

import (
	"context"
	"strings"

	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/wordwrap"
	"go.opentelemetry.io/otel/trace"

	"scrawl/internal/canvas"
	"scrawl/internal/config"
	"scrawl/internal/logring"
	"scrawl/internal/router"
	"scrawl/internal/tracing"
)

// selectedMarker is the distinguishing glyph spec.md §4.5 calls for on
// the selected Node's line.
const selectedMarker = '▸'

// cellKind picks which Lip Gloss style a grid cell renders with.
type cellKind uint8

const (
	kindNormal cellKind = iota
	kindStricken
	kindSelected
	kindArrow
	kindLogHeader
	kindLogText
)

// grid is a fixed-size rune buffer with a parallel style tag per cell,
// addressed by spec.md's 1-indexed Coords.
type grid struct {
	width, height int
	cells         [][]rune
	kinds         [][]cellKind
}

func newGrid(width, height int) *grid {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	cells := make([][]rune, height)
	kinds := make([][]cellKind, height)
	for y := range cells {
		row := make([]rune, width)
		for x := range row {
			row[x] = ' '
		}
		cells[y] = row
		kinds[y] = make([]cellKind, width)
	}
	return &grid{width: width, height: height, cells: cells, kinds: kinds}
}

// set writes ch at 1-indexed (x, y), silently clipping out-of-bounds
// writes (a node or arrow drawn past the terminal edge is simply cut
// off, never a panic).
func (g *grid) set(x, y int, ch rune, kind cellKind) {
	row, col := y-1, x-1
	if row < 0 || row >= g.height || col < 0 || col >= g.width {
		return
	}
	g.cells[row][col] = ch
	g.kinds[row][col] = kind
}

// Styles holds the Lip Gloss styles derived from config.ThemeConfig.
type Styles struct {
	Normal    lipgloss.Style
	Stricken  lipgloss.Style
	Selected  lipgloss.Style
	Arrow     lipgloss.Style
	LogHeader lipgloss.Style
	LogText   lipgloss.Style
}

// NewStyles builds Styles from the active theme, grounded on the
// teacher's internal/ui/styles color-constant-to-lipgloss.Style pattern.
func NewStyles(theme config.ThemeConfig) Styles {
	return Styles{
		Normal:    lipgloss.NewStyle().Foreground(lipgloss.Color(theme.NormalFG)),
		Stricken:  lipgloss.NewStyle().Foreground(lipgloss.Color(theme.StrickenFG)).Reverse(true),
		Selected:  lipgloss.NewStyle().Foreground(lipgloss.Color(theme.SelectedFG)).Bold(true),
		Arrow:     lipgloss.NewStyle().Foreground(lipgloss.Color(theme.ArrowFG)),
		LogHeader: lipgloss.NewStyle().Background(lipgloss.Color(theme.LogHeaderBG)).Bold(true),
		LogText:   lipgloss.NewStyle().Foreground(lipgloss.Color(theme.NormalFG)).Faint(true),
	}
}

func (s Styles) forKind(k cellKind) lipgloss.Style {
	switch k {
	case kindStricken:
		return s.Stricken
	case kindSelected:
		return s.Selected
	case kindArrow:
		return s.Arrow
	case kindLogHeader:
		return s.LogHeader
	case kindLogText:
		return s.LogText
	default:
		return s.Normal
	}
}

// View renders one complete frame. width/height are the terminal's
// current cell dimensions (tea.WindowSizeMsg); ring is the bounded log
// view spec.md §4.5 step 3 and §5 describe. The log panel's header is
// tagged with the package-level bubblezone manager (zone.NewGlobal(),
// set up once in cmd/root.go) for mouse-zone convenience only — spec.md
// §4.4's defense-in-depth bubblezone use, never load-bearing for
// hit-testing, which stays the geometric one in canvas.HitTest.
func View(c *canvas.Canvas, ring *logring.Ring, theme config.ThemeConfig, width, height int, tracer *tracing.Provider) string {
	g := newGrid(width, height)
	styles := NewStyles(theme)

	for _, e := range c.Anchors().Iterate() {
		renderSubtree(g, c, e.Root, e.Coords)
	}

	renderArrows(g, c, width, height, tracer)

	headerY := 0
	if width > 4 && height > 7 {
		headerY = renderLogPanel(g, ring, width, height)
	}

	return zone.Scan(markLogHeader(compose(g, styles), headerY))
}

// markLogHeader tags the log panel's header row with the package-level
// bubblezone manager. Done on the fully composed string, never on raw
// grid runes: bubblezone's invisible markers are zero-width escape
// sequences, incompatible with the grid's one-rune-per-cell model if
// written into it before compose.
func markLogHeader(frame string, headerY int) string {
	if headerY < 1 {
		return frame
	}
	lines := strings.Split(frame, "\n")
	if headerY > len(lines) {
		return frame
	}
	lines[headerY-1] = zone.Mark("logpanel-header", lines[headerY-1])
	return strings.Join(lines, "\n")
}

// renderSubtree draws root's visible pre-order lines starting at coords,
// one screen row per entry, content followed by the marker cell whose
// span makes up spec.md's len(content)+1 line width.
func renderSubtree(g *grid, c *canvas.Canvas, root canvas.NodeID, coords canvas.Coords) {
	order := c.Arena().FlatVisibleChildren(root)
	for idx, id := range order {
		n, ok := c.Arena().Get(id)
		if !ok {
			continue
		}
		y := coords.Y + idx
		x := coords.X

		kind := kindNormal
		if n.Stricken() {
			kind = kindStricken
		}
		if n.Selected() {
			kind = kindSelected
		}

		content := n.Content()
		col := x
		for _, ch := range content {
			g.set(col, y, ch, kind)
			col += runeCells(ch)
		}

		marker := ' '
		if n.Selected() {
			marker = selectedMarker
		}
		g.set(col, y, marker, kind)
	}
}

// runeCells is the display width of a rune, via mattn/go-runewidth so
// wide runes (CJK, emoji) advance the cursor by more than one cell.
func runeCells(r rune) int {
	w := runewidth.RuneWidth(r)
	if w < 1 {
		return 1
	}
	return w
}

// renderArrows overlays every arrow's computed route (spec.md §4.6),
// skipping arrows whose endpoints are dangling. Each route is wrapped in
// its own tracing span (SPEC_FULL.md §2.12); with tracing disabled
// tracer's provider is a no-op, so this costs nothing.
func renderArrows(g *grid, c *canvas.Canvas, width, height int, tracer *tracing.Provider) {
	for _, a := range c.Arrows() {
		var span trace.Span
		if tracer != nil {
			_, span = tracer.StartRouteSpan(context.Background())
		}
		path, ok := router.Route(c, a.From, a.To, width, height)
		if span != nil {
			tracing.SetRouteLength(span, len(path))
			span.End()
		}
		if !ok {
			continue
		}
		for _, cell := range path {
			g.set(cell.X, cell.Y, '·', kindArrow)
		}
	}
}

// renderLogPanel draws the header bar at y = bottom-6 and up to 5
// reverse-chronological log lines beneath it (spec.md §4.5 step 3), one
// row per entry: each entry is word-wrapped to the panel width with
// muesli/reflow and only its first wrapped row is drawn. A nil ring draws
// the header with no lines.
func renderLogPanel(g *grid, ring *logring.Ring, width, height int) int {
	headerY := height - 6
	if headerY < 1 {
		return 0
	}

	header := "logs"
	if len(header) < width {
		header += strings.Repeat(" ", width-len(header))
	}
	writeRow(g, headerY, header, kindLogHeader)

	var lines []string
	if ring != nil {
		lines = ring.Lines()
	}
	for i, line := range lines {
		if i >= 5 {
			break
		}
		wrapped := wordwrap.String(line, width)
		first := strings.SplitN(wrapped, "\n", 2)[0]
		writeRow(g, headerY+1+i, first, kindLogText)
	}
	return headerY
}

// writeRow writes text left-aligned on row y, ignoring style markers
// embedded in the source (the log panel never contains arrows or nodes).
func writeRow(g *grid, y int, text string, kind cellKind) {
	x := 1
	for _, ch := range text {
		g.set(x, y, ch, kind)
		x += runeCells(ch)
	}
}

// compose flattens the grid into a styled string, one Lip Gloss Render
// call per maximal same-style run so ANSI escapes aren't repeated per
// cell.
func compose(g *grid, styles Styles) string {
	var out strings.Builder
	for y := 0; y < g.height; y++ {
		if y > 0 {
			out.WriteByte('\n')
		}
		row := g.cells[y]
		kinds := g.kinds[y]
		runStart := 0
		for x := 1; x <= len(row); x++ {
			atEnd := x == len(row)
			changed := !atEnd && kinds[x] != kinds[runStart]
			if atEnd || changed {
				style := styles.forKind(kinds[runStart])
				out.WriteString(style.Render(string(row[runStart:x])))
				runStart = x
			}
		}
	}
	return out.String()
}
