package gate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGateStartsLocked(t *testing.T) {
	g := New([]string{"A", "B"})

	for _, v := range g.Snapshot() {
		assert.Equal(t, Locked, v.State, v.Code)
		assert.False(t, v.Solved)
		assert.Zero(t, v.TestScore)
		assert.Zero(t, v.Progress)
	}
	assert.False(t, g.AllUnlocked())
}

func TestSubmitWhileLockedIsRejected(t *testing.T) {
	g := New([]string{"A"})

	_, err := g.Submit("A", 100)
	require.ErrorIs(t, err, ErrChapterLocked)

	state, err := g.State("A")
	require.NoError(t, err)
	assert.Equal(t, Locked, state)
}

func TestOpenMovesToSolved(t *testing.T) {
	g := New([]string{"A"})

	changed, err := g.Open("A")
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = g.Open("A")
	require.NoError(t, err)
	assert.False(t, changed, "second open is a no-op")

	v, err := g.Chapter("A")
	require.NoError(t, err)
	assert.Equal(t, Solved, v.State)
	assert.Equal(t, 49, v.Progress)
}

func TestFailingScoreStaysSolved(t *testing.T) {
	g := New([]string{"A"})
	_, _ = g.Open("A")

	out, err := g.Submit("A", 40)
	require.NoError(t, err)
	assert.True(t, out.Recorded)
	assert.False(t, out.JustUnlocked)
	assert.Equal(t, Solved, out.State)
	assert.Equal(t, 69, out.Progress)

	// Retakes are unlimited.
	out, err = g.Submit("A", 59)
	require.NoError(t, err)
	assert.Equal(t, Solved, out.State)
	assert.Equal(t, 59, out.Score)
}

func TestPassingScoreUnlocks(t *testing.T) {
	g := New([]string{"A"})
	_, _ = g.Open("A")

	out, err := g.Submit("A", 60)
	require.NoError(t, err)
	assert.True(t, out.JustUnlocked)
	assert.Equal(t, Unlocked, out.State)
	assert.Equal(t, 79, out.Progress)
}

func TestUnlockedIsTerminal(t *testing.T) {
	g := New([]string{"A"})
	_, _ = g.Open("A")
	_, _ = g.Submit("A", 80)

	out, err := g.Submit("A", 10)
	require.NoError(t, err)
	assert.False(t, out.Recorded)
	assert.Equal(t, Unlocked, out.State)

	v, _ := g.Chapter("A")
	assert.Equal(t, 80, v.TestScore)
	assert.True(t, g.AllUnlocked())
}

func TestScoreIsClamped(t *testing.T) {
	g := New([]string{"A"})
	_, _ = g.Open("A")

	out, err := g.Submit("A", 250)
	require.NoError(t, err)
	assert.Equal(t, 100, out.Score)
	assert.Equal(t, 99, out.Progress)
}

func TestAllUnlockedRequiresEveryChapter(t *testing.T) {
	g := New([]string{"A", "B"})
	_, _ = g.Open("A")
	_, _ = g.Submit("A", 100)
	assert.False(t, g.AllUnlocked())

	_, _ = g.Open("B")
	assert.False(t, g.AllUnlocked())

	_, _ = g.Submit("B", 60)
	assert.True(t, g.AllUnlocked())
}

func TestEmptyGateIsNeverUnlocked(t *testing.T) {
	assert.False(t, New(nil).AllUnlocked())
}

func TestUnknownChapter(t *testing.T) {
	g := New([]string{"A"})

	_, err := g.Open("Z")
	assert.True(t, errors.Is(err, ErrUnknownChapter))
	_, err = g.Submit("Z", 90)
	assert.True(t, errors.Is(err, ErrUnknownChapter))
	_, err = g.State("Z")
	assert.True(t, errors.Is(err, ErrUnknownChapter))
	_, err = g.Progress("Z")
	assert.True(t, errors.Is(err, ErrUnknownChapter))
}

func TestStateMarshalsByName(t *testing.T) {
	b, err := Unlocked.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "unlocked", string(b))
	assert.Equal(t, "unknown", State(9).String())
}
