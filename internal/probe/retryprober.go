package probe

import (
	"context"
	"errors"
	"time"

	"github.com/hamed0406/sslchecker/internal/domain"
)

// RetryProber retries connect-level failures of Inner. Verification and
// parse failures are returned immediately. Attempts <= 1 means a single try.
type RetryProber struct {
	Inner    Prober
	Attempts int
	Backoff  time.Duration
}

func (r *RetryProber) Probe(ctx context.Context, host string) (CertificateFacts, error) {
	attempts := r.Attempts
	if attempts < 1 {
		attempts = 1
	}
	var (
		facts CertificateFacts
		err   error
	)
	for i := 0; i < attempts; i++ {
		facts, err = r.Inner.Probe(ctx, host)
		if err == nil || !retryable(err) {
			return facts, err
		}
		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return facts, err
			case <-time.After(r.Backoff):
			}
		}
	}
	return facts, err
}

func retryable(err error) bool {
	var pe *Error
	return errors.As(err, &pe) && pe.Kind == domain.KindConnect
}
