package timer

import (
	"sync"
	"time"
)

// Options contains runtime options for Runner.
type Options struct {
	TickInterval time.Duration
}

// Snapshot is the state plus the derived display values.
type Snapshot struct {
	State
	Progress        float64 `json:"progress"`
	IntervalSeconds int     `json:"intervalSeconds"`
}

// Runner owns an Engine and the single tick schedule that drives it. The
// schedule is live exactly while the engine is active; Close must be called
// on teardown.
type Runner struct {
	mu      sync.Mutex
	engine  *Engine
	options Options
	stopCh  chan struct{}
	events  []chan Event
	onStart func()
	closed  bool
}

func NewRunner(durations Durations, options Options) *Runner {
	if options.TickInterval <= 0 {
		options.TickInterval = time.Second
	}
	return &Runner{
		engine:  NewEngine(durations),
		options: options,
	}
}

// OnStart registers a callback invoked each time the countdown is started.
func (r *Runner) OnStart(fn func()) {
	r.mu.Lock()
	r.onStart = fn
	r.mu.Unlock()
}

func (r *Runner) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

// Running reports whether a tick schedule is live.
func (r *Runner) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stopCh != nil
}

func (r *Runner) Toggle() Snapshot {
	return r.apply(EventToggle, (*Engine).Toggle)
}

func (r *Runner) Start() Snapshot {
	return r.apply(EventToggle, (*Engine).Start)
}

func (r *Runner) Pause() Snapshot {
	return r.apply(EventToggle, (*Engine).Pause)
}

func (r *Runner) Reset() Snapshot {
	return r.apply(EventReset, (*Engine).Reset)
}

// Subscribe registers a new observer channel. Slow observers miss events
// rather than block the timer.
func (r *Runner) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		close(ch)
		return ch
	}
	r.events = append(r.events, ch)
	return ch
}

// Unsubscribe removes and closes an observer channel.
func (r *Runner) Unsubscribe(sub <-chan Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, ch := range r.events {
		if ch == sub {
			r.events = append(r.events[:i], r.events[i+1:]...)
			close(ch)
			return
		}
	}
}

// Close cancels the tick schedule and closes observers.
func (r *Runner) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.closed = true
	r.engine.Pause()
	r.stopScheduleLocked()
	for _, ch := range r.events {
		close(ch)
	}
	r.events = nil
}

func (r *Runner) apply(eventType EventType, op func(*Engine)) Snapshot {
	r.mu.Lock()
	wasActive := r.engine.State().IsActive
	op(r.engine)
	r.syncScheduleLocked()
	started := !wasActive && r.engine.State().IsActive
	onStart := r.onStart
	snapshot := r.snapshotLocked()
	r.emitLocked(Event{
		Type:     eventType,
		State:    snapshot.State,
		Progress: snapshot.Progress,
		At:       time.Now(),
	})
	r.mu.Unlock()

	if started && onStart != nil {
		onStart()
	}
	return snapshot
}

func (r *Runner) syncScheduleLocked() {
	if r.engine.State().IsActive && !r.closed {
		if r.stopCh == nil {
			r.stopCh = make(chan struct{})
			go r.run(r.stopCh)
		}
		return
	}
	r.stopScheduleLocked()
}

func (r *Runner) stopScheduleLocked() {
	if r.stopCh != nil {
		close(r.stopCh)
		r.stopCh = nil
	}
}

func (r *Runner) run(stopCh chan struct{}) {
	ticker := time.NewTicker(r.options.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case tickTime := <-ticker.C:
			r.tick(stopCh, tickTime)
		}
	}
}

func (r *Runner) tick(stopCh chan struct{}, tickTime time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	// A stale loop may still fire once after its schedule was replaced.
	if r.stopCh != stopCh {
		return
	}

	eventType := EventTick
	if r.engine.Tick() {
		eventType = EventIntervalComplete
		r.stopScheduleLocked()
	}
	r.emitLocked(Event{
		Type:     eventType,
		State:    r.engine.State(),
		Progress: r.engine.Progress(),
		At:       tickTime,
	})
}

func (r *Runner) snapshotLocked() Snapshot {
	return Snapshot{
		State:           r.engine.State(),
		Progress:        r.engine.Progress(),
		IntervalSeconds: r.engine.IntervalSeconds(),
	}
}

func (r *Runner) emitLocked(event Event) {
	for _, ch := range r.events {
		select {
		case ch <- event:
		default:
		}
	}
}
