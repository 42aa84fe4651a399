package domain

import (
	"fmt"
	"time"
)

// Outcome is the terminal state of a single certificate check.
type Outcome int

const (
	OutcomeValid Outcome = iota
	OutcomeExpired
	OutcomeProbeFailure
)

func (o Outcome) String() string {
	switch o {
	case OutcomeValid:
		return "valid"
	case OutcomeExpired:
		return "expired"
	case OutcomeProbeFailure:
		return "probe_failure"
	default:
		return "unknown"
	}
}

func (o Outcome) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

// ErrorKind tags where a check failed. It is set by the step that failed,
// never inferred afterwards from the error value.
type ErrorKind int

const (
	KindNone      ErrorKind = iota
	KindHandshake           // certificate verification failed during the TLS handshake
	KindConnect             // DNS, connect, timeout or a non-verification handshake failure
	KindParse               // expiry timestamp missing or malformed
	KindOther
)

func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindHandshake:
		return "handshake"
	case KindConnect:
		return "connect"
	case KindParse:
		return "parse"
	default:
		return "other"
	}
}

func (k ErrorKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// ProbeResult is the outcome of checking one host.
//
// DaysUntilExpiration is only meaningful for OutcomeValid (and for
// OutcomeExpired when the handshake completed); Detail carries the
// underlying error text for the failure outcomes.
type ProbeResult struct {
	Domain              string    `json:"domain"`
	Outcome             Outcome   `json:"outcome"`
	DaysUntilExpiration int       `json:"days_until_expiration"`
	Detail              string    `json:"detail,omitempty"`
	Kind                ErrorKind `json:"kind"`
	NotAfter            time.Time `json:"not_after"`
	CheckedAt           time.Time `json:"checked_at"`
}

func Valid(domain string, days int, notAfter time.Time) ProbeResult {
	return ProbeResult{Domain: domain, Outcome: OutcomeValid, DaysUntilExpiration: days, NotAfter: notAfter}
}

func Expired(domain string, kind ErrorKind, detail string) ProbeResult {
	return ProbeResult{Domain: domain, Outcome: OutcomeExpired, Kind: kind, Detail: detail}
}

func ProbeFailure(domain string, kind ErrorKind, detail string) ProbeResult {
	return ProbeResult{Domain: domain, Outcome: OutcomeProbeFailure, Kind: kind, Detail: detail}
}

func (r ProbeResult) Failed() bool { return r.Outcome != OutcomeValid }

// Response is the envelope handed to the response formatter.
type Response struct {
	Success    bool   `json:"success"`
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
}

func (r ProbeResult) Response() Response {
	switch r.Outcome {
	case OutcomeValid:
		return Response{
			Success:    true,
			StatusCode: 200,
			Message: fmt.Sprintf("SSL certificate for %s is valid. There are %d days until expiration.",
				r.Domain, r.DaysUntilExpiration),
		}
	case OutcomeExpired:
		return Response{
			StatusCode: 500,
			Message: fmt.Sprintf("Error checking SSL certificate for %s as it was expired. Cert validity: not valid. %s",
				r.Domain, r.Detail),
		}
	default:
		return Response{
			StatusCode: 500,
			Message: fmt.Sprintf("Error checking SSL certificate for %s. Some other uncaught exception was found: %s",
				r.Domain, r.Detail),
		}
	}
}

// BadRequest is the envelope for a missing or malformed host parameter.
func BadRequest(msg string) Response {
	return Response{StatusCode: 400, Message: "Error: " + msg}
}

// Alert is the notification sent for a failed check.
type Alert struct {
	Subject string
	Message string
}

// Alert returns the notification for r; ok is false for a valid certificate.
func (r ProbeResult) Alert() (a Alert, ok bool) {
	switch r.Outcome {
	case OutcomeExpired:
		return Alert{
			Subject: "SSL cert verification error: " + r.Domain,
			Message: "Error checking SSL certificate.",
		}, true
	case OutcomeProbeFailure:
		return Alert{
			Subject: "SSL checker - uncaught exception for " + r.Domain,
			Message: "Some uncaught exception occurred with the SSL checker.",
		}, true
	default:
		return Alert{}, false
	}
}
