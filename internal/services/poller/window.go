package poller

import (
	"time"
)

type WindowMode string

const (
	// WindowTrailing always asks for the last Interval, regardless of progress.
	WindowTrailing WindowMode = "trailing"
	// WindowSinceLastSuccess starts from the previous fully successful cycle.
	WindowSinceLastSuccess WindowMode = "since_last_success"
)

type WindowConfig struct {
	Mode     WindowMode    // default: trailing
	Interval time.Duration // default: 600 seconds
}

func DefaultWindowConfig() WindowConfig {
	return WindowConfig{
		Mode:     WindowTrailing,
		Interval: 600 * time.Second,
	}
}

func ParseWindowMode(s string) (WindowMode, bool) {
	switch WindowMode(s) {
	case WindowTrailing, WindowSinceLastSuccess:
		return WindowMode(s), true
	default:
		return WindowTrailing, false
	}
}

// WindowPlanner computes the from_date lower bound of every request.
type WindowPlanner struct {
	cfg         WindowConfig
	lastSuccess time.Time
}

func NewWindowPlanner(cfg WindowConfig) *WindowPlanner {
	def := DefaultWindowConfig()
	if _, ok := ParseWindowMode(string(cfg.Mode)); !ok {
		cfg.Mode = def.Mode
	}
	if cfg.Interval <= 0 {
		cfg.Interval = def.Interval
	}
	return &WindowPlanner{cfg: cfg}
}

func (p *WindowPlanner) Config() WindowConfig {
	return p.cfg
}

func (p *WindowPlanner) From(now time.Time) time.Time {
	if p.cfg.Mode == WindowSinceLastSuccess && !p.lastSuccess.IsZero() {
		return p.lastSuccess
	}
	return now.Add(-p.cfg.Interval)
}

// MarkSuccess records the start time of a cycle that fetched, validated and
// delivered everything. Only WindowSinceLastSuccess uses it.
func (p *WindowPlanner) MarkSuccess(startedAt time.Time) {
	p.lastSuccess = startedAt
}
