package timekeeper

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"pomopet/internal/core/model"
	"pomopet/internal/core/session"
)

// Config contains runtime options for TimeKeeper.
type Config struct {
	// TickInterval is the wall-clock length of one timer second.
	TickInterval time.Duration
	Now          func() time.Time
}

// TimeKeeper drives a session timer. It serializes user actions and ticks,
// and runs a ticker goroutine only while the timer is running.
type TimeKeeper struct {
	mu         sync.Mutex
	config     model.TimerConfig
	options    Config
	state      session.State
	events     []chan Event
	onWork     func(Event)
	stopCh     chan struct{}
	generation uint64
	stopped    bool
}

// New creates a TimeKeeper with the provided configuration.
func New(config model.TimerConfig, options Config) *TimeKeeper {
	if options.TickInterval <= 0 {
		options.TickInterval = time.Second
	}
	if options.Now == nil {
		options.Now = time.Now
	}

	return &TimeKeeper{
		config:  config,
		options: options,
		state:   session.New(config),
	}
}

// Subscribe registers a new observer channel. Events are dropped when the
// channel buffer is full.
func (keeper *TimeKeeper) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	keeper.mu.Lock()
	if keeper.stopped {
		close(ch)
	} else {
		keeper.events = append(keeper.events, ch)
	}
	keeper.mu.Unlock()
	return ch
}

// OnWorkCompleted registers the handler called once per finished work phase.
// The handler runs on the ticking goroutine, outside the keeper lock.
func (keeper *TimeKeeper) OnWorkCompleted(handler func(Event)) {
	keeper.mu.Lock()
	keeper.onWork = handler
	keeper.mu.Unlock()
}

// Snapshot returns the current timer state and configuration.
func (keeper *TimeKeeper) Snapshot() (session.State, model.TimerConfig) {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	return keeper.state, keeper.config
}

// Start begins or resumes the countdown.
func (keeper *TimeKeeper) Start() {
	keeper.transition(func(state session.State, _ model.TimerConfig) session.State {
		return session.Start(state)
	})
}

// Pause freezes the countdown.
func (keeper *TimeKeeper) Pause() {
	keeper.transition(func(state session.State, _ model.TimerConfig) session.State {
		return session.Pause(state)
	})
}

// Reset returns the timer to an idle work phase.
func (keeper *TimeKeeper) Reset() {
	keeper.transition(session.Reset)
}

// Toggle pauses a running countdown and starts it otherwise. The decision
// is made under the same lock as ticks.
func (keeper *TimeKeeper) Toggle() {
	keeper.transition(func(state session.State, _ model.TimerConfig) session.State {
		if state.Status == session.StatusRunning {
			return session.Pause(state)
		}
		return session.Start(state)
	})
}

// UpdateConfig applies new phase durations. Only a change to the current
// phase's duration restarts it; other phases use the new lengths on their
// next entry.
func (keeper *TimeKeeper) UpdateConfig(config model.TimerConfig) {
	keeper.transition(func(state session.State, previous model.TimerConfig) session.State {
		keeper.config = config
		return session.Reconfigure(state, previous, config)
	})
}

// Stop terminates the ticking loop and closes observers.
func (keeper *TimeKeeper) Stop() {
	keeper.mu.Lock()
	if keeper.stopped {
		keeper.mu.Unlock()
		return
	}
	keeper.stopped = true
	keeper.stopTickerLocked()
	events := keeper.events
	keeper.events = nil
	keeper.mu.Unlock()

	for _, ch := range events {
		close(ch)
	}
}

func (keeper *TimeKeeper) transition(apply func(session.State, model.TimerConfig) session.State) {
	keeper.mu.Lock()
	if keeper.stopped {
		keeper.mu.Unlock()
		return
	}
	previous := keeper.state
	keeper.state = apply(keeper.state, keeper.config)
	keeper.syncTickerLocked()
	if keeper.state == previous {
		keeper.mu.Unlock()
		return
	}
	event := keeper.newEventLocked(EventStateChange, keeper.options.Now())
	keeper.mu.Unlock()

	keeper.dispatch(event)
}

func (keeper *TimeKeeper) syncTickerLocked() {
	running := keeper.state.Status == session.StatusRunning
	if running && keeper.stopCh == nil {
		keeper.generation++
		keeper.stopCh = make(chan struct{})
		go keeper.run(keeper.generation, keeper.stopCh)
		return
	}
	if !running {
		keeper.stopTickerLocked()
	}
}

func (keeper *TimeKeeper) stopTickerLocked() {
	if keeper.stopCh == nil {
		return
	}
	close(keeper.stopCh)
	keeper.stopCh = nil
}

func (keeper *TimeKeeper) run(generation uint64, stopCh <-chan struct{}) {
	ticker := time.NewTicker(keeper.options.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			keeper.tick(generation, keeper.options.Now())
		}
	}
}

// tick ignores ticks from a ticker generation that has since been stopped.
func (keeper *TimeKeeper) tick(generation uint64, now time.Time) {
	keeper.mu.Lock()
	if keeper.stopped || generation != keeper.generation || keeper.state.Status != session.StatusRunning {
		keeper.mu.Unlock()
		return
	}

	var completion session.Completion
	keeper.state, completion = session.Tick(keeper.state, keeper.config)

	events := []Event{keeper.newEventLocked(EventProgress, now)}
	if completion.Finished {
		stateChange := keeper.newEventLocked(EventStateChange, now)
		stateChange.Completion = completion
		events = append(events, stateChange)
	}
	if completion.WorkCompleted {
		workDone := keeper.newEventLocked(EventWorkCompleted, now)
		workDone.Completion = completion
		events = append(events, workDone)
	}
	keeper.syncTickerLocked()
	keeper.mu.Unlock()

	keeper.dispatch(events...)
}

func (keeper *TimeKeeper) newEventLocked(eventType EventType, now time.Time) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		State:     keeper.state,
		Remaining: time.Duration(keeper.state.TimeLeft) * time.Second,
		Progress:  keeper.state.Progress(keeper.config),
		At:        now,
	}
}

func (keeper *TimeKeeper) dispatch(events ...Event) {
	keeper.mu.Lock()
	handler := keeper.onWork
	keeper.mu.Unlock()

	for _, event := range events {
		if event.Type == EventWorkCompleted && handler != nil {
			handler(event)
		}
		keeper.emit(event)
	}
}

func (keeper *TimeKeeper) emit(event Event) {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	for _, ch := range keeper.events {
		select {
		case ch <- event:
		default:
		}
	}
}
