package render

import (
	"context"
	"os"
	"strings"
	"testing"

	zone "github.com/lrstanley/bubblezone"
	"github.com/stretchr/testify/require"

	"scrawl/internal/canvas"
	"scrawl/internal/config"
	"scrawl/internal/logring"
	"scrawl/internal/pubsub"
)

func TestMain(m *testing.M) {
	zone.NewGlobal()
	os.Exit(m.Run())
}

type fixedClock struct{ now int64 }

func (c *fixedClock) NowUnix() int64 { return c.now }

func TestView_NeverPanicsOnAnEmptyCanvas(t *testing.T) {
	c := canvas.New(&fixedClock{now: 100})
	require.NotPanics(t, func() {
		_ = View(c, nil, config.Defaults().Theme, 80, 24, nil)
	})
}

func TestView_RendersSelectedNodeContent(t *testing.T) {
	c := canvas.New(&fixedClock{now: 100})
	c.HandlePress(canvas.Coords{X: 5, Y: 5})
	c.AppendToSelected('h')
	c.AppendToSelected('i')

	frame := View(c, nil, config.Defaults().Theme, 80, 24, nil)
	require.True(t, strings.Contains(frame, "hi"), "frame should contain the node's content")
}

func TestView_ClipsContentPastGridEdgeWithoutPanicking(t *testing.T) {
	c := canvas.New(&fixedClock{now: 100})
	c.HandlePress(canvas.Coords{X: 5, Y: 5})
	c.AppendToSelected('x')

	require.NotPanics(t, func() {
		_ = View(c, nil, config.Defaults().Theme, 3, 3, nil)
	})
}

func TestView_OmitsLogPanelWhenTerminalTooSmall(t *testing.T) {
	c := canvas.New(&fixedClock{now: 100})
	broker := pubsub.NewBroker[string]()
	ring := logring.New(context.Background(), broker)
	frame := View(c, ring, config.Defaults().Theme, 3, 3, nil)
	require.NotEmpty(t, frame)
	require.NotContains(t, frame, "logs")
}
