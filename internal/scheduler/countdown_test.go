package scheduler

import (
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingHandler struct {
	mu       sync.Mutex
	ticks    map[string][]int
	finished []string
}

func newRecordingHandler() *recordingHandler {
	return &recordingHandler{ticks: make(map[string][]int)}
}

func (that *recordingHandler) CountdownTick(roomName string, remaining int) {
	that.mu.Lock()
	defer that.mu.Unlock()
	that.ticks[roomName] = append(that.ticks[roomName], remaining)
}

func (that *recordingHandler) CountdownFinished(roomName string) {
	that.mu.Lock()
	defer that.mu.Unlock()
	that.finished = append(that.finished, roomName)
}

func (that *recordingHandler) finishedCount(roomName string) int {
	that.mu.Lock()
	defer that.mu.Unlock()

	count := 0
	for _, name := range that.finished {
		if name == roomName {
			count++
		}
	}

	return count
}

func (that *recordingHandler) ticksFor(roomName string) []int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return append([]int(nil), that.ticks[roomName]...)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCountdown_Trigger(t *testing.T) {
	// Given: a fast countdown
	handler := newRecordingHandler()
	countdown := New(testLogger(), handler, 5*time.Millisecond)

	// When: triggering a room
	countdown.Trigger("lobby")

	// Then: it finishes exactly once with the full tick sequence
	require.Eventually(t, func() bool {
		return handler.finishedCount("lobby") == 1
	}, time.Second, time.Millisecond)

	assert.Equal(t, []int{5, 4, 3, 2, 1, 0}, handler.ticksFor("lobby"))
}

func TestCountdown_Stop(t *testing.T) {
	// Given: a running countdown
	handler := newRecordingHandler()
	countdown := New(testLogger(), handler, 20*time.Millisecond)
	countdown.Trigger("lobby")

	// When: stopping it right away
	countdown.Stop("lobby")

	// Then: it never finishes
	time.Sleep(300 * time.Millisecond)
	assert.Zero(t, handler.finishedCount("lobby"))
}

func TestCountdown_Retrigger(t *testing.T) {
	// Given: a countdown already running for the room
	handler := newRecordingHandler()
	countdown := New(testLogger(), handler, 5*time.Millisecond)
	countdown.Trigger("lobby")

	// When: re-triggering the same room
	countdown.Trigger("lobby")

	// Then: only the replacement completes; countdowns never overlap
	require.Eventually(t, func() bool {
		return handler.finishedCount("lobby") == 1
	}, time.Second, time.Millisecond)

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 1, handler.finishedCount("lobby"))
}

func TestCountdown_IndependentRooms(t *testing.T) {
	// Given: two rooms counting down
	handler := newRecordingHandler()
	countdown := New(testLogger(), handler, 5*time.Millisecond)
	countdown.Trigger("a")
	countdown.Trigger("b")

	// When: stopping one of them
	countdown.Stop("a")

	// Then: the other still finishes
	require.Eventually(t, func() bool {
		return handler.finishedCount("b") == 1
	}, time.Second, time.Millisecond)
	assert.Zero(t, handler.finishedCount("a"))
}
