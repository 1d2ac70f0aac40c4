package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Alert describes one site whose certificate warrants attention.
type Alert struct {
	SiteID        string
	Hostname      string
	Status        string
	DaysRemaining *int
	ExpiryDate    *time.Time
	// Related hostnames verified to share the primary certificate.
	SharedDomains []string
}

// Subject is a short single-line summary suitable for an email subject or
// SNS subject field.
func (a Alert) Subject() string {
	return fmt.Sprintf("SSL Certificate Alert: %s", a.Hostname)
}

// Message renders the full alert body.
func (a Alert) Message() string {
	var b strings.Builder

	fmt.Fprintf(&b, "SSL Certificate Alert for %s\n\n", a.Hostname)
	fmt.Fprintf(&b, "Status: %s\n", strings.ToUpper(a.Status))

	if a.ExpiryDate != nil {
		fmt.Fprintf(&b, "Expiry Date: %s (%s)\n", a.ExpiryDate.Format("2006-01-02"), humanize.Time(*a.ExpiryDate))
	}
	if a.DaysRemaining != nil {
		fmt.Fprintf(&b, "Days Remaining: %d\n", *a.DaysRemaining)
	}
	if len(a.SharedDomains) > 0 {
		b.WriteString("\nRelated domains with the same certificate:\n")
		for _, d := range a.SharedDomains {
			fmt.Fprintf(&b, "- %s\n", d)
		}
	}

	b.WriteString("\nPlease take action to renew this certificate.")
	return b.String()
}

// Publisher delivers alerts. Delivery is best-effort: a returned error is
// logged by the caller and never rolls back the status update that
// triggered it.
type Publisher interface {
	Publish(ctx context.Context, alert Alert) error
}

// Multi fans an alert out to several transports and joins their errors.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, alert Alert) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, alert); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
