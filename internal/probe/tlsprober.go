package probe

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"net"
	"time"

	"github.com/hamed0406/sslchecker/internal/domain"
)

const (
	DefaultTimeout = 3 * time.Second
	DefaultPort    = "443"
)

// TLSProber dials host:443 and completes a verified TLS handshake.
type TLSProber struct {
	Timeout time.Duration
	Port    string
	// Roots overrides the platform trust store. Nil means system roots.
	Roots *x509.CertPool
}

func NewTLSProber(timeout time.Duration) *TLSProber {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &TLSProber{Timeout: timeout, Port: DefaultPort}
}

// Probe connects and handshakes within p.Timeout. The server name sent
// for SNI and verified against the certificate is host itself.
func (p *TLSProber) Probe(ctx context.Context, host string) (CertificateFacts, error) {
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	port := p.Port
	if port == "" {
		port = DefaultPort
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	d := &tls.Dialer{
		NetDialer: &net.Dialer{Timeout: timeout},
		Config: &tls.Config{
			ServerName: host,
			RootCAs:    p.Roots,
			MinVersion: tls.VersionTLS12,
		},
	}
	conn, err := d.DialContext(ctx, "tcp", net.JoinHostPort(host, port))
	if err != nil {
		return CertificateFacts{}, classify(err)
	}
	defer conn.Close()

	tc, ok := conn.(*tls.Conn)
	if !ok {
		return CertificateFacts{}, &Error{Kind: domain.KindOther, Op: "handshake", Err: errors.New("not a TLS connection")}
	}
	certs := tc.ConnectionState().PeerCertificates
	if len(certs) == 0 {
		return CertificateFacts{}, &Error{Kind: domain.KindParse, Op: "parse", Err: errors.New("no certificates presented")}
	}

	leaf := certs[0]
	return CertificateFacts{
		NotAfter: FormatNotAfter(leaf.NotAfter),
		Subject:  leaf.Subject.CommonName,
		Issuer:   leaf.Issuer.CommonName,
		DNSNames: leaf.DNSNames,
		Serial:   leaf.SerialNumber.String(),
	}, nil
}

// FormatNotAfter renders t in certificate display form, e.g.
// "Jun  1 12:00:00 2031 GMT".
func FormatNotAfter(t time.Time) string {
	return t.UTC().Format("Jan _2 15:04:05 2006") + " GMT"
}
