package critsection

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestEnterLeaveTogglesInterruptible(t *testing.T) {
	var g Guard
	require.True(t, g.Interruptible())

	g.Enter()
	require.False(t, g.Interruptible())

	g.Leave()
	require.True(t, g.Interruptible())
}

func TestNestedRegionsStayUninterruptibleUntilOutermostLeaves(t *testing.T) {
	var g Guard
	g.Enter()
	g.Enter()
	require.False(t, g.Interruptible())

	g.Leave()
	require.False(t, g.Interruptible())

	g.Leave()
	require.True(t, g.Interruptible())
}

func TestLeaveWithoutEnterPanics(t *testing.T) {
	var g Guard
	require.Panics(t, func() { g.Leave() })
}

func TestWaitReturnsImmediatelyWhenInterruptible(t *testing.T) {
	var g Guard
	done := make(chan struct{})
	go func() {
		g.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Wait blocked with no active region")
	}
}

func TestWaitUnblocksOnLeave(t *testing.T) {
	var g Guard
	g.Enter()

	done := make(chan struct{})
	go func() {
		g.Wait()
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("Wait returned before matching Leave")
	case <-time.After(20 * time.Millisecond):
	}

	g.Leave()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Wait did not unblock after Leave")
	}
}

func TestDoRunsFnAsUninterruptibleRegion(t *testing.T) {
	var g Guard
	ran := false
	g.Do(func() {
		ran = true
		require.False(t, g.Interruptible())
	})
	require.True(t, ran)
	require.True(t, g.Interruptible())
}
