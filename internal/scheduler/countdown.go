package scheduler

import (
	"log/slog"
	"sync"
	"time"
)

// CountdownFrom is the first tick value; the countdown runs 5,4,3,2,1,0.
const CountdownFrom = 5

// Handler receives countdown events. Both callbacks run on the countdown
// goroutine of the room in question.
type Handler interface {
	CountdownTick(roomName string, remaining int)
	CountdownFinished(roomName string)
}

// Countdown runs at most one cancellable countdown per room. Triggering a room
// that is already counting replaces the running countdown, so two countdowns
// never overlap for the same room.
type Countdown struct {
	logger   *slog.Logger
	handler  Handler
	interval time.Duration

	mu     sync.Mutex
	active map[string]chan struct{}
}

func New(logger *slog.Logger, handler Handler, interval time.Duration) *Countdown {
	return &Countdown{
		logger:   logger.With("component", "countdown"),
		handler:  handler,
		interval: interval,
		active:   make(map[string]chan struct{}),
	}
}

// Trigger starts a countdown for the room, cancelling any countdown already
// running for it.
func (that *Countdown) Trigger(roomName string) {
	that.mu.Lock()
	if cancel, ok := that.active[roomName]; ok {
		close(cancel)
	}

	cancel := make(chan struct{})
	that.active[roomName] = cancel
	that.mu.Unlock()

	that.logger.Info("countdown started", "room", roomName)

	go that.run(roomName, cancel)
}

// Stop cancels the room's countdown, if one is running. Called when a room is
// deleted mid-countdown.
func (that *Countdown) Stop(roomName string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if cancel, ok := that.active[roomName]; ok {
		close(cancel)
		delete(that.active, roomName)
	}
}

func (that *Countdown) run(roomName string, cancel <-chan struct{}) {
	timer := time.NewTimer(that.interval)
	defer timer.Stop()

	for remaining := CountdownFrom; remaining >= 0; remaining-- {
		select {
		case <-cancel:
			that.logger.Info("countdown cancelled", "room", roomName)
			return
		case <-timer.C:
		}

		that.handler.CountdownTick(roomName, remaining)
		timer.Reset(that.interval)
	}

	that.finish(roomName, cancel)
}

func (that *Countdown) finish(roomName string, cancel <-chan struct{}) {
	that.mu.Lock()
	select {
	case <-cancel:
		// Replaced or stopped after the last tick; the newer countdown owns
		// the room now.
		that.mu.Unlock()
		return
	default:
	}
	delete(that.active, roomName)
	that.mu.Unlock()

	that.logger.Info("countdown finished", "room", roomName)
	that.handler.CountdownFinished(roomName)
}
