// Package editor is spec.md §4.4's event state machine realized as a
// Bubble Tea model: Update *is* handle_event: (state, event) -> state,
// grounded on the teacher's internal/mode/kanban/handlers.go dispatch
// style and internal/keys/keys.go key-table convention (editor/keys.go).
// Mouse press/release/hold map onto tea.MouseMsg.Action; any message
// outside the table (spec.md §4.4 "any other") logs at warn and is
// ignored, matching spec.md §7's "Unsupported event" handling.
package editor

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"scrawl/internal/autosave"
	"scrawl/internal/canvas"
	"scrawl/internal/config"
	"scrawl/internal/gps"
	"scrawl/internal/history"
	"scrawl/internal/log"
	"scrawl/internal/logring"
	"scrawl/internal/pubsub"
	"scrawl/internal/render"
	"scrawl/internal/snapshot"
	"scrawl/internal/tracing"
	"scrawl/internal/watcher"
)

const autosavePollInterval = 500 * time.Millisecond

// tickMsg drives the autosave poll (§2.9 of SPEC_FULL.md).
type tickMsg struct{}

// gpsResultMsg carries the one-shot background GPS probe's outcome
// (SPEC_FULL.md §2.13).
type gpsResultMsg struct{ coord canvas.GPSCoord }

// externalEditMsg fires when the watcher observes the open canvas file
// change on disk outside this process (SPEC_FULL.md §2.11).
type externalEditMsg struct{}

// Model wraps the canvas and every ambient collaborator the CLI wires
// in: config, logging, autosave, history, GPS, the external-edit
// watcher, and operation tracing.
type Model struct {
	canvas *canvas.Canvas
	path   string
	cfg    config.Config

	width, height int

	ring        *logring.Ring
	logListener *pubsub.ContinuousListener[string]
	debouncer   *autosave.Debouncer
	hist        *history.Store
	prober      gps.Prober
	lastGPS     canvas.GPSCoord
	watch       *watcher.Watcher
	watchCh     <-chan struct{}
	tracer      *tracing.Provider
	quitting    bool
}

// New constructs the editor model. path may be empty, in which case the
// canvas starts empty and save is a no-op logged at info (spec.md §6).
func New(path string, cfg config.Config, ring *logring.Ring, listener *pubsub.ContinuousListener[string], hist *history.Store, prober gps.Prober, watch *watcher.Watcher, tracer *tracing.Provider) *Model {
	clock := canvas.SystemClock{}

	c := loadOrCreate(path, clock)

	return &Model{
		canvas:      c,
		path:        path,
		cfg:         cfg,
		ring:        ring,
		logListener: listener,
		debouncer:   autosave.New(cfg.AutosaveInterval),
		hist:        hist,
		prober:      prober,
		watch:       watch,
		tracer:      tracer,
	}
}

func loadOrCreate(path string, clock canvas.Clock) *canvas.Canvas {
	if path == "" {
		return canvas.New(clock)
	}
	snap, err := snapshot.Load(path)
	if err != nil {
		log.Info(log.CatSnapshot, "no existing canvas, starting empty", "path", path)
		return canvas.New(clock)
	}
	return snapshot.ToCanvas(snap, clock)
}

// Init starts the autosave poll, the log-panel listener, the GPS probe,
// and (if configured) the external-edit watcher.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(), probeGPSCmd(m.prober)}
	if m.logListener != nil {
		cmds = append(cmds, m.logListener.Listen())
	}
	if m.watch != nil {
		ch, err := m.watch.Start()
		if err != nil {
			log.ErrorErr(log.CatWatcher, "failed to start file watcher", err)
		} else {
			m.watchCh = ch
			cmds = append(cmds, watchCmd(ch))
		}
	}
	return tea.Batch(cmds...)
}

func tickCmd() tea.Cmd {
	return tea.Tick(autosavePollInterval, func(time.Time) tea.Msg { return tickMsg{} })
}

func probeGPSCmd(p gps.Prober) tea.Cmd {
	if p == nil {
		return nil
	}
	return func() tea.Msg {
		return gpsResultMsg{coord: gps.ProbeOnce(context.Background(), p)}
	}
}

func watchCmd(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return externalEditMsg{}
	}
}

// Update is spec.md §4.4's handle_event, dispatched over tea.Msg. Every
// call is wrapped in a tracing span (SPEC_FULL.md §2.12); with tracing
// disabled m.tracer's provider is a no-op so this costs nothing.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.tracer != nil {
		_, span := m.tracer.StartEventSpan(context.Background(), fmt.Sprintf("%T", msg))
		defer span.End()
	}
	return m.dispatch(msg)
}

func (m *Model) dispatch(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tickMsg:
		return m.handleTick()

	case gpsResultMsg:
		m.lastGPS = msg.coord
		return m, nil

	case externalEditMsg:
		if m.watch != nil {
			return m, watchCmd(m.watchCh)
		}
		return m, nil

	case pubsub.Event[string]:
		// A log line was published; the ring already absorbed it, this
		// message only exists to trigger a redraw. Keep listening.
		if m.logListener != nil {
			return m, m.logListener.Listen()
		}
		return m, nil

	default:
		log.Warn(log.CatEditor, "unsupported event ignored", "type", fmt.Sprintf("%T", msg))
		return m, nil
	}
}

func (m *Model) handleTick() (tea.Model, tea.Cmd) {
	if m.debouncer.Due() {
		if err := m.save(); err != nil {
			log.ErrorErr(log.CatAutosave, "autosave failed", err)
		}
		m.debouncer.Clear()
	}
	return m, tickCmd()
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, bindings.ToggleCollapsed):
		m.canvas.ToggleCollapsedSelected()
		m.debouncer.Mark()
		return m, nil

	case key.Matches(msg, bindings.CreateChild):
		m.canvas.CreateChildUnderSelected()
		m.debouncer.Mark()
		return m, nil

	case key.Matches(msg, bindings.Delete):
		if coords, ok := m.canvas.DeleteSelected(); ok {
			m.canvas.TrySelect(coords)
		}
		m.debouncer.Mark()
		return m, nil

	case key.Matches(msg, bindings.HideStricken):
		m.canvas.ToggleHideStrickenSelected()
		m.debouncer.Mark()
		return m, nil

	case key.Matches(msg, bindings.ToggleStricken):
		m.canvas.ToggleStrickenSelected()
		m.debouncer.Mark()
		return m, nil

	case key.Matches(msg, bindings.DrawArrow):
		m.canvas.StageOrCommitArrow()
		m.debouncer.Mark()
		return m, nil

	case key.Matches(msg, bindings.Quit):
		if err := m.save(); err != nil {
			log.ErrorErr(log.CatSnapshot, "save on exit failed", err)
		}
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, bindings.Save):
		if err := m.save(); err != nil {
			log.ErrorErr(log.CatSnapshot, "save failed", err)
		}
		return m, nil

	case key.Matches(msg, bindings.Up):
		m.canvas.SelectUp()
		return m, nil

	case key.Matches(msg, bindings.Down):
		m.canvas.SelectDown()
		return m, nil

	case key.Matches(msg, bindings.Backspace):
		m.canvas.BackspaceSelected()
		m.debouncer.Mark()
		return m, nil

	default:
		if r := singleRune(msg); r != 0 {
			m.canvas.AppendToSelected(r)
			m.debouncer.Mark()
			return m, nil
		}
		log.Warn(log.CatEditor, "unsupported key ignored", "key", msg.String())
		return m, nil
	}
}

// singleRune extracts the one rune of a plain character key press, or 0
// if msg isn't a single printable rune (spec.md §4.4 "other Char(c)").
func singleRune(msg tea.KeyMsg) rune {
	if msg.Type != tea.KeyRunes || len(msg.Runes) != 1 {
		return 0
	}
	return msg.Runes[0]
}

func (m *Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	coords := canvas.Coords{X: msg.X + 1, Y: msg.Y + 1}

	switch msg.Action {
	case tea.MouseActionPress:
		hadAnchors := len(m.canvas.Anchors().Iterate())
		m.canvas.HandlePress(coords)
		if len(m.canvas.Anchors().Iterate()) > hadAnchors {
			if n, ok := m.canvas.SelectedNode(); ok && m.lastGPS != (canvas.GPSCoord{}) {
				n.SetGPS(m.lastGPS)
			}
		}
		m.debouncer.Mark()
		return m, nil

	case tea.MouseActionRelease:
		m.canvas.ReleaseDrag(coords)
		m.debouncer.Mark()
		return m, nil

	case tea.MouseActionMotion:
		// Bubble Tea reports drag motion as a stream of "hold" actions;
		// spec.md §4.4 says mouse hold is ignored (unsupported on some
		// terminals).
		return m, nil

	default:
		log.Warn(log.CatEditor, "unsupported mouse action ignored", "action", fmt.Sprintf("%v", msg.Action))
		return m, nil
	}
}

// save composes and writes the current canvas, additionally appending a
// row to the session history store when one is configured
// (SPEC_FULL.md §2.8). A no-op, logged at info, when no path was given
// (spec.md §6).
func (m *Model) save() error {
	if m.path == "" {
		log.Info(log.CatSnapshot, "no canvas file given, save is a no-op")
		return nil
	}
	snap := snapshot.FromCanvas(m.canvas)
	if err := snapshot.Save(m.path, snap); err != nil {
		return err
	}
	if m.hist != nil {
		rec := history.Record{
			SessionID:   m.canvas.SessionID.String(),
			Path:        m.path,
			AnchorCount: len(snap.Anchors),
			NodeCount:   countNodes(snap),
			SavedAt:     time.Now().Unix(),
		}
		if err := m.hist.Append(context.Background(), rec); err != nil {
			log.ErrorErr(log.CatHistory, "recording save history failed", err)
		}
	}
	return nil
}

func countNodes(snap snapshot.Snapshot) int {
	var n int
	var walk func(t snapshot.NodeTree)
	walk = func(t snapshot.NodeTree) {
		n++
		for _, c := range t.Children {
			walk(c)
		}
	}
	for _, a := range snap.Anchors {
		walk(a.Tree)
	}
	return n
}

// View renders the current frame (spec.md §4.5), delegating to
// internal/render.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	return render.View(m.canvas, m.ring, m.cfg.Theme, m.width, m.height, m.tracer)
}

// Canvas exposes the underlying canvas for the CLI's shutdown path.
func (m *Model) Canvas() *canvas.Canvas { return m.canvas }
