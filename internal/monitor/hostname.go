package monitor

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrInvalidHostname is returned before any network call when the input
// cannot be reduced to a bare hostname.
var ErrInvalidHostname = errors.New("invalid hostname")

// Normalize reduces a user-supplied address to a bare, lower-case hostname
// with no scheme, path, port or trailing dot. When no scheme is present,
// https is assumed. Normalize is idempotent.
func Normalize(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("%w: empty input", ErrInvalidHostname)
	}
	if strings.ContainsAny(raw, " \t\r\n") {
		return "", fmt.Errorf("%w: %q contains whitespace", ErrInvalidHostname, raw)
	}

	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidHostname, err)
	}

	host := strings.TrimSuffix(u.Hostname(), ".")
	if host == "" {
		return "", fmt.Errorf("%w: no hostname in %q", ErrInvalidHostname, raw)
	}

	return strings.ToLower(host), nil
}
