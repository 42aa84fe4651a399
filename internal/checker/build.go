package checker

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/hamed0406/sslchecker/internal/config"
	"github.com/hamed0406/sslchecker/internal/notify"
	"github.com/hamed0406/sslchecker/internal/probe"
)

// Build wires an engine from cfg: TLS prober (with optional retry) and the
// configured alert channels. The log channel is always on.
func Build(ctx context.Context, cfg config.Config, logger *zap.Logger) (*Engine, error) {
	notifiers := notify.Multi{notify.Log{Logger: logger}}
	sns, err := notify.NewSNS(ctx, cfg.SNSTopicARN, cfg.AWSRegion)
	if err != nil {
		return nil, fmt.Errorf("sns: %w", err)
	}
	if sns != nil {
		notifiers = append(notifiers, sns)
	}
	if s := notify.NewSlack(cfg.SlackWebhook); s != nil {
		notifiers = append(notifiers, s)
	}

	tp := probe.NewTLSProber(cfg.ProbeTimeout)
	if cfg.ProbePort != "" {
		tp.Port = cfg.ProbePort
	}
	var p probe.Prober = tp
	if cfg.RetryAttempts > 1 {
		p = &probe.RetryProber{Inner: tp, Attempts: cfg.RetryAttempts, Backoff: cfg.RetryBackoff}
	}

	e := New(logger, p, notifiers)
	if cfg.NotifyTimeout > 0 {
		e.NotifyTimeout = cfg.NotifyTimeout
	}
	return e, nil
}
