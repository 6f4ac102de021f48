package autosave

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDue_FalseBeforeAnyMark(t *testing.T) {
	d := New(20 * time.Millisecond)
	require.False(t, d.Due())
}

func TestDue_FalseWhileStillSettling(t *testing.T) {
	d := New(50 * time.Millisecond)
	d.Mark()
	require.False(t, d.Due())
}

func TestDue_TrueOnceIntervalElapses(t *testing.T) {
	d := New(10 * time.Millisecond)
	d.Mark()
	require.Eventually(t, d.Due, 200*time.Millisecond, 5*time.Millisecond)
}

func TestMark_ResetsTheWindow(t *testing.T) {
	d := New(30 * time.Millisecond)
	d.Mark()
	time.Sleep(20 * time.Millisecond)
	d.Mark() // re-arm before the first window would have elapsed
	require.False(t, d.Due())
	require.Eventually(t, d.Due, 200*time.Millisecond, 5*time.Millisecond)
}

func TestClear_RequiresFreshMarkBeforeDueAgain(t *testing.T) {
	d := New(10 * time.Millisecond)
	d.Mark()
	require.Eventually(t, d.Due, 200*time.Millisecond, 5*time.Millisecond)

	d.Clear()
	require.False(t, d.Due())

	d.Mark()
	require.Eventually(t, d.Due, 200*time.Millisecond, 5*time.Millisecond)
}

func TestNew_NonPositiveIntervalDefaults(t *testing.T) {
	d := New(0)
	require.Equal(t, 2*time.Second, d.interval)
}
