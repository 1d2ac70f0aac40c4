package monitor

import (
	"crypto/sha256"
	"crypto/tls"
	"encoding/hex"
	"errors"
	"fmt"
	"net"
	"syscall"
	"time"
)

// ProbeTimeout bounds the TCP connect plus TLS handshake for one hostname,
// so a single unresponsive host cannot stall a batch beyond this.
const ProbeTimeout = 10 * time.Second

// Probe failure taxonomy. Every failure maps onto one of these so the
// classifier and the API can treat them uniformly as status "error".
var (
	ErrTimeout       = errors.New("tls probe timed out")
	ErrUnreachable   = errors.New("host unreachable")
	ErrHandshake     = errors.New("tls handshake failed")
	ErrNoCertificate = errors.New("no certificate presented")
)

// CertInfo is the result of a successful probe: when the leaf certificate
// expires, and a fingerprint identifying it across connections.
type CertInfo struct {
	NotAfter    time.Time
	Fingerprint string
}

// ProbeFunc retrieves certificate info for a bare hostname on port 443.
type ProbeFunc func(hostname string) (CertInfo, error)

// Probe opens a TLS connection to hostname:443 and reads the leaf
// certificate's expiry and identity. Chain and hostname verification are
// deliberately skipped: an expired or misissued certificate is exactly what
// we are here to observe, not reject.
func Probe(hostname string) (CertInfo, error) {
	return probeAddr(net.JoinHostPort(hostname, "443"), hostname)
}

func probeAddr(addr, serverName string) (CertInfo, error) {
	dialer := &net.Dialer{Timeout: ProbeTimeout}
	conn, err := tls.DialWithDialer(dialer, "tcp", addr, &tls.Config{
		InsecureSkipVerify: true,
		ServerName:         serverName,
	})
	if err != nil {
		return CertInfo{}, classifyDialError(err)
	}
	defer conn.Close()

	certs := conn.ConnectionState().PeerCertificates
	if len(certs) == 0 {
		return CertInfo{}, ErrNoCertificate
	}

	// Index 0 is always the leaf (server) certificate.
	leaf := certs[0]

	return CertInfo{
		NotAfter:    leaf.NotAfter.UTC(),
		Fingerprint: fingerprint(leaf.SerialNumber.String(), leaf.Issuer.String(), leaf.NotAfter),
	}, nil
}

// fingerprint derives a certificate identity from serial + issuer + expiry.
// Enough to decide "same certificate" across two connections without
// comparing DER bytes.
func fingerprint(serial, issuer string, notAfter time.Time) string {
	sum := sha256.Sum256(fmt.Appendf(nil, "%s|%s|%d", serial, issuer, notAfter.Unix()))
	return hex.EncodeToString(sum[:])
}

func classifyDialError(err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}

	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.EHOSTUNREACH) || errors.Is(err, syscall.ENETUNREACH) {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}

	// Anything that got past the TCP layer but failed to negotiate.
	return fmt.Errorf("%w: %v", ErrHandshake, err)
}
