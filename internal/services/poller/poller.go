package poller

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/BearBump/ReviewBox/internal/broker/messages"
	"github.com/BearBump/ReviewBox/internal/integrations/reviews"
	"github.com/BearBump/ReviewBox/internal/models"
	"github.com/pkg/errors"
)

type Notifier interface {
	Send(ctx context.Context, text string) error
}

type Producer interface {
	Publish(ctx context.Context, topic string, key, value []byte) error
}

type Outcome string

const (
	OutcomeOK              Outcome = "ok"
	OutcomeFetchFailed     Outcome = "fetch_failed"
	OutcomeInvalidResponse Outcome = "invalid_response"
	OutcomeDeliveryFailed  Outcome = "delivery_failed"
	OutcomePanic           Outcome = "panic"
	// OutcomeCanceled: ctx was cancelled before every changed record was delivered.
	OutcomeCanceled Outcome = "canceled"
)

// CycleResult is what one poll cycle did. Err holds the error that decided
// the outcome (the first delivery error for OutcomeDeliveryFailed).
type CycleResult struct {
	Outcome Outcome
	From    time.Time
	Records int
	Changed int
	Sent    int
	Failed  int
	Err     error
}

type Poller struct {
	client   reviews.Client
	notifier Notifier
	producer Producer
	topic    string

	tracker *StatusTracker
	window  *WindowPlanner

	pollInterval   time.Duration
	publishTimeout time.Duration

	now func() time.Time

	triggerCh chan struct{}

	startedAtUnixNano   int64
	lastCycleUnixNano   atomic.Int64
	lastSuccessUnixNano atomic.Int64
	lastTriggerUnixNano atomic.Int64
	totalCycles         atomic.Int64
	totalFailedCycles   atomic.Int64
	totalSent           atomic.Int64
	totalDeliveryErrors atomic.Int64
	tracked             atomic.Int64
	lastMu              sync.Mutex
	lastOutcome         Outcome
	lastError           string
	lastErrorAt         time.Time
}

func New(client reviews.Client, notifier Notifier) *Poller {
	def := DefaultWindowConfig()
	return &Poller{
		client:            client,
		notifier:          notifier,
		tracker:           NewStatusTracker(),
		window:            NewWindowPlanner(def),
		pollInterval:      def.Interval,
		publishTimeout:    5 * time.Second,
		now:               func() time.Time { return time.Now().UTC() },
		triggerCh:         make(chan struct{}, 1),
		startedAtUnixNano: time.Now().UTC().UnixNano(),
	}
}

// WithSettings sets the poll interval; the trailing window follows it.
func (p *Poller) WithSettings(pollInterval time.Duration) *Poller {
	if pollInterval > 0 {
		p.pollInterval = pollInterval
		p.window = NewWindowPlanner(WindowConfig{Mode: p.window.Config().Mode, Interval: pollInterval})
	}
	return p
}

func (p *Poller) WithWindowMode(mode WindowMode) *Poller {
	p.window = NewWindowPlanner(WindowConfig{Mode: mode, Interval: p.pollInterval})
	return p
}

// WithEvents enables publishing of StatusChanged events after each delivered
// notification. A nil producer disables it.
func (p *Poller) WithEvents(producer Producer, topic string, publishTimeout time.Duration) *Poller {
	p.producer = producer
	p.topic = topic
	if publishTimeout > 0 {
		p.publishTimeout = publishTimeout
	}
	return p
}

// Trigger forces an immediate poll cycle (best-effort, non-blocking).
func (p *Poller) Trigger() {
	p.lastTriggerUnixNano.Store(time.Now().UTC().UnixNano())
	select {
	case p.triggerCh <- struct{}{}:
	default:
	}
}

type Stats struct {
	StartedAt           time.Time  `json:"startedAt"`
	LastCycleAt         *time.Time `json:"lastCycleAt,omitempty"`
	LastSuccessAt       *time.Time `json:"lastSuccessAt,omitempty"`
	LastTriggerAt       *time.Time `json:"lastTriggerAt,omitempty"`
	TotalCycles         int64      `json:"totalCycles"`
	TotalFailedCycles   int64      `json:"totalFailedCycles"`
	TotalSent           int64      `json:"totalSent"`
	TotalDeliveryErrors int64      `json:"totalDeliveryErrors"`
	Tracked             int64      `json:"tracked"`
	WindowMode          WindowMode `json:"windowMode"`
	LastOutcome         Outcome    `json:"lastOutcome,omitempty"`
	LastError           string     `json:"lastError,omitempty"`
	LastErrorAt         *time.Time `json:"lastErrorAt,omitempty"`
}

func (p *Poller) Stats() Stats {
	st := Stats{
		StartedAt:           time.Unix(0, p.startedAtUnixNano).UTC(),
		TotalCycles:         p.totalCycles.Load(),
		TotalFailedCycles:   p.totalFailedCycles.Load(),
		TotalSent:           p.totalSent.Load(),
		TotalDeliveryErrors: p.totalDeliveryErrors.Load(),
		Tracked:             p.tracked.Load(),
	}
	if n := p.lastCycleUnixNano.Load(); n > 0 {
		t := time.Unix(0, n).UTC()
		st.LastCycleAt = &t
	}
	if n := p.lastSuccessUnixNano.Load(); n > 0 {
		t := time.Unix(0, n).UTC()
		st.LastSuccessAt = &t
	}
	if n := p.lastTriggerUnixNano.Load(); n > 0 {
		t := time.Unix(0, n).UTC()
		st.LastTriggerAt = &t
	}
	p.lastMu.Lock()
	st.WindowMode = p.window.Config().Mode
	st.LastOutcome = p.lastOutcome
	st.LastError = p.lastError
	if !p.lastErrorAt.IsZero() {
		t := p.lastErrorAt
		st.LastErrorAt = &t
	}
	p.lastMu.Unlock()
	return st
}

// Run polls right away and then every poll interval until ctx is done.
// Cycle failures never stop the loop.
func (p *Poller) Run(ctx context.Context) error {
	slog.Info("poller started",
		"poll_interval", p.pollInterval.String(),
		"window_mode", string(p.window.Config().Mode),
		"events", p.producer != nil,
	)

	p.RunOnce(ctx)

	t := time.NewTicker(p.pollInterval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			p.RunOnce(ctx)
		case <-p.triggerCh:
			p.RunOnce(ctx)
		}
	}
}

// RunOnce executes one cycle. A panic inside the cycle is recovered and
// reported as OutcomePanic.
func (p *Poller) RunOnce(ctx context.Context) (res CycleResult) {
	started := p.now()
	t0 := time.Now()
	p.lastCycleUnixNano.Store(started.UnixNano())

	defer func() {
		if r := recover(); r != nil {
			res = CycleResult{Outcome: OutcomePanic, Err: errors.Errorf("poll cycle panic: %v", r)}
			CycleErrors.WithLabelValues("panic").Inc()
			slog.Error("poll cycle panicked", "panic", fmt.Sprint(r), "stack", string(debug.Stack()))
		}
		p.record(started, time.Since(t0), res)
	}()

	return p.poll(ctx, started)
}

func (p *Poller) poll(ctx context.Context, started time.Time) CycleResult {
	from := p.window.From(started)

	payload, err := p.client.GetStatuses(ctx, from)
	if err != nil {
		logCycleError("get homework statuses", err, "from_date", from.Unix())
		return CycleResult{Outcome: OutcomeFetchFailed, From: from, Err: err}
	}
	slog.Debug("response from server is received", "from_date", from.Unix())

	hws, err := ExtractHomeworks(payload)
	if err != nil {
		logCycleError("check response", err, "from_date", from.Unix())
		return CycleResult{Outcome: OutcomeInvalidResponse, From: from, Err: err}
	}

	res := CycleResult{Outcome: OutcomeOK, From: from, Records: len(hws)}
	for _, hw := range hws {
		prev, changed := p.tracker.Changed(hw)
		if !changed {
			continue
		}
		if err := ctx.Err(); err != nil {
			// Остановка сервиса: неотправленное уйдёт после перезапуска, это не ошибка доставки.
			slog.Info("poll cycle interrupted", "sent", res.Sent, "error", err.Error())
			res.Outcome = OutcomeCanceled
			res.Err = err
			return res
		}
		res.Changed++

		// Статус фиксируем только после успешной отправки: при ошибке
		// уведомление повторится на следующем цикле.
		if err := p.deliver(ctx, hw, prev); err != nil {
			res.Failed++
			if res.Err == nil {
				res.Err = err
			}
			logCycleError("send status notification", err, "homework_id", hw.ID, "status", hw.Status)
			continue
		}
		res.Sent++
	}

	if res.Failed > 0 {
		res.Outcome = OutcomeDeliveryFailed
	} else {
		p.window.MarkSuccess(started)
	}
	if res.Changed == 0 {
		slog.Debug("no status changes", "homeworks", res.Records)
	}
	return res
}

func (p *Poller) deliver(ctx context.Context, hw models.Homework, prev string) error {
	text, err := FormatMessage(hw)
	if err != nil {
		return err
	}
	if err := p.notifier.Send(ctx, text); err != nil {
		NotificationsTotal.WithLabelValues("failed").Inc()
		return err
	}
	NotificationsTotal.WithLabelValues("sent").Inc()

	p.tracker.Commit(hw)
	p.tracked.Store(int64(p.tracker.Len()))
	TrackedHomeworks.Set(float64(p.tracker.Len()))

	p.publish(ctx, hw, prev)
	return nil
}

// publish is best-effort: a failed event never undoes a delivered notification.
func (p *Poller) publish(ctx context.Context, hw models.Homework, prev string) {
	if p.producer == nil {
		return
	}
	verdict, _ := models.Verdict(hw.Status)
	b, err := json.Marshal(messages.StatusChanged{
		HomeworkID:     hw.ID,
		HomeworkName:   hw.Name,
		Status:         hw.Status,
		PreviousStatus: prev,
		Verdict:        verdict,
		ChangedAt:      p.now(),
	})
	if err != nil {
		slog.Warn("marshal status changed event", "homework_id", hw.ID, "error", err.Error())
		EventsPublished.WithLabelValues("failed").Inc()
		return
	}

	var pubErr error
	for attempt := 1; attempt <= 3; attempt++ {
		pubCtx, cancel := context.WithTimeout(ctx, p.publishTimeout)
		pubErr = p.producer.Publish(pubCtx, p.topic, []byte(hw.ID), b)
		cancel()
		if pubErr == nil {
			EventsPublished.WithLabelValues("ok").Inc()
			return
		}
		if attempt == 3 || sleepCtx(ctx, time.Duration(150*attempt)*time.Millisecond) != nil {
			break
		}
	}
	EventsPublished.WithLabelValues("failed").Inc()
	slog.Warn("publish status changed event", "homework_id", hw.ID, "topic", p.topic, "error", pubErr.Error())
}

func (p *Poller) record(started time.Time, took time.Duration, res CycleResult) {
	CycleDuration.Observe(took.Seconds())
	CyclesTotal.WithLabelValues(string(res.Outcome)).Inc()

	p.totalCycles.Add(1)
	p.totalSent.Add(int64(res.Sent))
	p.totalDeliveryErrors.Add(int64(res.Failed))
	switch res.Outcome {
	case OutcomeOK:
		p.lastSuccessUnixNano.Store(started.UnixNano())
	case OutcomeCanceled:
	default:
		p.totalFailedCycles.Add(1)
	}

	p.lastMu.Lock()
	p.lastOutcome = res.Outcome
	switch {
	case res.Outcome == OutcomeOK:
		p.lastError = ""
	case res.Err != nil && res.Outcome != OutcomeCanceled:
		p.lastError = res.Err.Error()
		p.lastErrorAt = started
	}
	p.lastMu.Unlock()

	slog.Info("poll cycle finished",
		"outcome", string(res.Outcome),
		"homeworks", res.Records,
		"changed", res.Changed,
		"sent", res.Sent,
		"failed", res.Failed,
	)
}

// logCycleError logs err with its kind and, for pkg/errors values, the stack.
func logCycleError(msg string, err error, args ...any) {
	kind := ErrorKind(err)
	CycleErrors.WithLabelValues(kind).Inc()
	args = append(args, "kind", kind, "error", err.Error(), "trace", fmt.Sprintf("%+v", err))
	slog.Error(msg, args...)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
