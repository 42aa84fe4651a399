package probe

import (
	"fmt"
	"strings"
	"time"

	"github.com/hamed0406/sslchecker/internal/domain"
)

// ParseNotAfter parses a certificate display timestamp. Only GMT/UTC
// zones are accepted; any other abbreviation is ambiguous.
func ParseNotAfter(text string) (time.Time, error) {
	s := strings.Join(strings.Fields(text), " ")
	if s == "" {
		return time.Time{}, &Error{Kind: domain.KindParse, Op: "parse", Err: fmt.Errorf("empty notAfter")}
	}
	t, err := time.Parse("Jan 2 15:04:05 2006 MST", s)
	if err != nil {
		return time.Time{}, &Error{Kind: domain.KindParse, Op: "parse", Err: fmt.Errorf("notAfter %q: %w", text, err)}
	}
	if name, off := t.Zone(); off != 0 || (name != "GMT" && name != "UTC") {
		return time.Time{}, &Error{Kind: domain.KindParse, Op: "parse", Err: fmt.Errorf("notAfter %q: unsupported zone %s", text, name)}
	}
	return t.UTC(), nil
}

// DaysUntil returns floor((notAfter-now)/24h).
func DaysUntil(notAfter, now time.Time) int {
	const day = 24 * time.Hour
	d := notAfter.Sub(now)
	days := int(d / day)
	if d < 0 && d%day != 0 {
		days--
	}
	return days
}

// Evaluate turns handshake facts into a result for host at instant now.
func Evaluate(host string, facts CertificateFacts, now time.Time) domain.ProbeResult {
	notAfter, err := ParseNotAfter(facts.NotAfter)
	if err != nil {
		return domain.ProbeFailure(host, domain.KindParse, err.Error())
	}

	days := DaysUntil(notAfter, now)
	if now.Before(notAfter) {
		return domain.Valid(host, days, notAfter)
	}

	r := domain.Expired(host, domain.KindNone, "certificate expired at "+facts.NotAfter)
	r.DaysUntilExpiration = days
	r.NotAfter = notAfter
	return r
}
