package probe

import (
	"context"
	"fmt"

	"github.com/hamed0406/sslchecker/internal/domain"
)

// CertificateFacts holds what the handshake learned about the leaf
// certificate. NotAfter is kept in certificate display form
// ("Jan _2 15:04:05 2006 GMT") and is parsed by the evaluator.
type CertificateFacts struct {
	NotAfter string   `json:"not_after"`
	Subject  string   `json:"subject"`
	Issuer   string   `json:"issuer"`
	DNSNames []string `json:"dns_names,omitempty"`
	Serial   string   `json:"serial"`
}

// Prober performs one handshake against host and returns the leaf facts.
// Failures are returned as *Error so the caller can read the Kind.
type Prober interface {
	Probe(ctx context.Context, host string) (CertificateFacts, error)
}

// Error is a tagged probe failure.
type Error struct {
	Kind  domain.ErrorKind
	Op    string // "dial", "handshake", "parse"
	Class string // DNS/connect class for KindConnect, e.g. "NXDOMAIN"
	Err   error
}

func (e *Error) Error() string {
	if e.Class != "" {
		return fmt.Sprintf("%s: %v (%s)", e.Op, e.Err, e.Class)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }
