// Package checker runs one certificate check per call: probe, evaluate,
// classify and, on failure, alert.
package checker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/sslchecker/internal/domain"
	"github.com/hamed0406/sslchecker/internal/notify"
	"github.com/hamed0406/sslchecker/internal/probe"
)

const DefaultNotifyTimeout = 5 * time.Second

type Engine struct {
	Prober        probe.Prober
	Notifier      notify.Notifier // optional
	Logger        *zap.Logger
	Now           func() time.Time
	NotifyTimeout time.Duration

	mu     sync.Mutex
	closed bool
	alerts sync.WaitGroup
}

func New(l *zap.Logger, p probe.Prober, n notify.Notifier) *Engine {
	if l == nil {
		l = zap.NewNop()
	}
	return &Engine{
		Prober:        p,
		Notifier:      n,
		Logger:        l,
		Now:           time.Now,
		NotifyTimeout: DefaultNotifyTimeout,
	}
}

// Check evaluates host and always returns a result; failures are folded
// into Expired or ProbeFailure. host must be non-empty.
func (e *Engine) Check(ctx context.Context, host string) domain.ProbeResult {
	res := e.run(ctx, strings.TrimSpace(host))
	res.CheckedAt = e.now().UTC()

	e.log().Info("cert_check",
		zap.String("host", res.Domain),
		zap.Stringer("outcome", res.Outcome),
		zap.Stringer("kind", res.Kind),
		zap.Int("days_until_expiration", res.DaysUntilExpiration),
		zap.String("detail", res.Detail),
	)

	if a, ok := res.Alert(); ok {
		e.dispatch(ctx, res.Domain, a)
	}
	return res
}

func (e *Engine) run(ctx context.Context, host string) (res domain.ProbeResult) {
	if host == "" {
		return domain.ProbeFailure(host, domain.KindOther, "host is required")
	}
	defer func() {
		if r := recover(); r != nil {
			res = domain.ProbeFailure(host, domain.KindOther, fmt.Sprintf("panic: %v", r))
		}
	}()

	// The probe is bounded by the prober's own timeout only; a caller
	// going away does not abort a check that has started.
	facts, err := e.Prober.Probe(context.WithoutCancel(ctx), host)
	if err != nil {
		return classify(host, err)
	}
	return probe.Evaluate(host, facts, e.now())
}

// classify maps a tagged prober error to an outcome. Untagged errors are
// treated as KindOther.
func classify(host string, err error) domain.ProbeResult {
	kind := domain.KindOther
	var pe *probe.Error
	if errors.As(err, &pe) {
		kind = pe.Kind
	}
	switch kind {
	case domain.KindHandshake:
		return domain.Expired(host, kind, err.Error())
	default:
		return domain.ProbeFailure(host, kind, err.Error())
	}
}

// dispatch sends the alert without blocking the caller. The send runs on
// a context detached from ctx and bounded by NotifyTimeout; its error is
// logged and dropped.
func (e *Engine) dispatch(ctx context.Context, host string, a domain.Alert) {
	if e.Notifier == nil {
		return
	}
	timeout := e.NotifyTimeout
	if timeout <= 0 {
		timeout = DefaultNotifyTimeout
	}

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		e.log().Warn("notify_dropped", zap.String("host", host), zap.String("reason", "engine closed"))
		return
	}
	e.alerts.Add(1)
	e.mu.Unlock()

	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	go func() {
		defer e.alerts.Done()
		defer cancel()
		defer func() {
			if r := recover(); r != nil {
				e.log().Error("notify_panic", zap.String("host", host), zap.Any("panic", r))
			}
		}()
		if err := e.Notifier.Send(sendCtx, a.Subject, a.Message); err != nil {
			e.log().Warn("notify_error", zap.String("host", host), zap.Error(err))
		}
	}()
}

// Wait blocks until in-flight alerts have finished. Checks may continue
// afterwards; use Close when no further checks will follow.
func (e *Engine) Wait() { e.alerts.Wait() }

// Close stops new alerts from being sent and waits for in-flight ones.
// Checks still return results after Close.
func (e *Engine) Close() {
	e.mu.Lock()
	e.closed = true
	e.mu.Unlock()
	e.alerts.Wait()
}

func (e *Engine) now() time.Time {
	if e.Now == nil {
		return time.Now()
	}
	return e.Now()
}

func (e *Engine) log() *zap.Logger {
	if e.Logger == nil {
		return zap.NewNop()
	}
	return e.Logger
}
