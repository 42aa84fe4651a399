package probe

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"net"
	"os"
	"syscall"

	"github.com/hamed0406/sslchecker/internal/domain"
)

// Connect failure classes, reported alongside the error text.
const (
	ClassNXDOMAIN     = "NXDOMAIN"
	ClassDNSFailure   = "SERVFAIL_or_TIMEOUT"
	ClassTimeout      = "TIMEOUT"
	ClassRefused      = "CONNECTION_REFUSED"
	ClassUnreachable  = "UNREACHABLE"
	ClassConnectError = "CONNECT_ERROR"
	ClassCanceled     = "CANCELED"
)

// classify tags a dial/handshake error. Certificate verification failures
// are KindHandshake; everything on the way there is KindConnect.
func classify(err error) *Error {
	if isVerificationError(err) {
		return &Error{Kind: domain.KindHandshake, Op: "handshake", Err: err}
	}

	pe := &Error{Kind: domain.KindConnect, Op: "dial", Err: err}
	var de *net.DNSError
	var rh tls.RecordHeaderError
	switch {
	case errors.Is(err, context.Canceled):
		pe.Class = ClassCanceled
	case errors.As(err, &de):
		pe.Class = ClassDNSFailure
		if de.IsNotFound {
			pe.Class = ClassNXDOMAIN
		}
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, os.ErrDeadlineExceeded), isTimeout(err):
		pe.Class = ClassTimeout
	case errors.Is(err, syscall.ECONNREFUSED):
		pe.Class = ClassRefused
	case errors.Is(err, syscall.EHOSTUNREACH), errors.Is(err, syscall.ENETUNREACH):
		pe.Class = ClassUnreachable
	case errors.As(err, &rh):
		// peer is not speaking TLS
		pe.Op = "handshake"
		pe.Class = ClassConnectError
	default:
		pe.Class = ClassConnectError
	}
	return pe
}

func isVerificationError(err error) bool {
	var (
		ve *tls.CertificateVerificationError
		ua x509.UnknownAuthorityError
		he x509.HostnameError
		ci x509.CertificateInvalidError
	)
	return errors.As(err, &ve) || errors.As(err, &ua) || errors.As(err, &he) || errors.As(err, &ci)
}

func isTimeout(err error) bool {
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
