// Package timer implements the Pomodoro countdown: a pure work/break state
// machine (Engine) and a Runner that drives it from a cancellable ticker.
package timer

import "time"

const (
	DefaultWork  = 25 * time.Minute
	DefaultBreak = 5 * time.Minute
)

// Durations holds the interval lengths. Values are truncated to whole seconds;
// anything shorter than a second falls back to the default.
type Durations struct {
	Work  time.Duration
	Break time.Duration
}

func DefaultDurations() Durations {
	return Durations{Work: DefaultWork, Break: DefaultBreak}
}

func (d Durations) normalized() Durations {
	if d.Work < time.Second {
		d.Work = DefaultWork
	}
	if d.Break < time.Second {
		d.Break = DefaultBreak
	}
	return d
}

// State is the observable timer state.
type State struct {
	Minutes  int  `json:"minutes"`
	Seconds  int  `json:"seconds"`
	IsActive bool `json:"isActive"`
	IsBreak  bool `json:"isBreak"`
	Cycles   int  `json:"cycles"`
}

func (s State) RemainingSeconds() int {
	return s.Minutes*60 + s.Seconds
}

// Engine is not safe for concurrent use; Runner serializes access to it.
type Engine struct {
	durations Durations
	state     State
}

func NewEngine(durations Durations) *Engine {
	e := &Engine{durations: durations.normalized()}
	e.setRemaining(e.IntervalSeconds())
	return e
}

func (e *Engine) State() State {
	return e.state
}

func (e *Engine) Durations() Durations {
	return e.durations
}

func (e *Engine) Toggle() {
	e.state.IsActive = !e.state.IsActive
}

func (e *Engine) Start() {
	e.state.IsActive = true
}

func (e *Engine) Pause() {
	e.state.IsActive = false
}

// Tick consumes one second of the running interval. It reports whether the
// interval boundary was crossed, in which case the engine has switched to the
// next interval and stopped itself.
func (e *Engine) Tick() bool {
	if !e.state.IsActive {
		return false
	}

	switch {
	case e.state.Seconds > 0:
		e.state.Seconds--
	case e.state.Minutes > 0:
		e.state.Minutes--
		e.state.Seconds = 59
	}

	if e.state.RemainingSeconds() > 0 {
		return false
	}

	finishedWork := !e.state.IsBreak
	e.state.IsBreak = !e.state.IsBreak
	if finishedWork {
		e.state.Cycles++
	}
	e.state.IsActive = false
	e.setRemaining(e.IntervalSeconds())
	return true
}

// Reset restores the full length of the current interval and stops the
// countdown. Cycles are kept.
func (e *Engine) Reset() {
	e.state.IsActive = false
	e.setRemaining(e.IntervalSeconds())
}

func (e *Engine) RemainingSeconds() int {
	return e.state.RemainingSeconds()
}

// IntervalSeconds is the full length of the current interval.
func (e *Engine) IntervalSeconds() int {
	if e.state.IsBreak {
		return int(e.durations.Break / time.Second)
	}
	return int(e.durations.Work / time.Second)
}

// Progress is the elapsed share of the current interval in percent.
func (e *Engine) Progress() float64 {
	total := e.IntervalSeconds()
	if total <= 0 {
		return 0
	}
	return float64(total-e.RemainingSeconds()) / float64(total) * 100
}

func (e *Engine) setRemaining(seconds int) {
	if seconds < 0 {
		seconds = 0
	}
	e.state.Minutes = seconds / 60
	e.state.Seconds = seconds % 60
}
