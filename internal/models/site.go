package models

import "time"

// Certificate status tiers. A site starts out as "unknown" until its first
// check completes; every check after that leaves it in one of the other four.
const (
	StatusUnknown  = "unknown"
	StatusGood     = "good"
	StatusExpiring = "expiring"
	StatusExpired  = "expired"
	StatusError    = "error"
)

// RelatedDomain is a hostname declared to share a certificate with the
// primary site. SharesCertificate is verified, not assumed: it is only
// asserted true after a successful probe of both sides returned matching
// certificate fingerprints.
type RelatedDomain struct {
	Domain            string     `json:"domain"`
	Hostname          string     `json:"hostname"`
	Status            string     `json:"status"`
	ExpiryDate        *time.Time `json:"expiry_date,omitempty"`
	DaysRemaining     *int       `json:"days_remaining,omitempty"`
	SharesCertificate bool       `json:"same_cert"`
}

// Site is one monitored entity. ExpiryDate and DaysRemaining are nil when
// the last probe failed; Hostname is always derived from URL and never
// edited independently.
type Site struct {
	ID             string          `json:"id"`
	URL            string          `json:"url"`
	Name           string          `json:"name"`
	Hostname       string          `json:"hostname"`
	Status         string          `json:"status"`
	ExpiryDate     *time.Time      `json:"expiry_date,omitempty"`
	DaysRemaining  *int            `json:"days_remaining,omitempty"`
	AddedDate      time.Time       `json:"added_date"`
	LastChecked    time.Time       `json:"last_checked,omitempty"`
	RelatedDomains []RelatedDomain `json:"related_domains"`
}

// Related returns the related-domain entry for hostname, or nil.
func (s *Site) Related(hostname string) *RelatedDomain {
	for i := range s.RelatedDomains {
		if s.RelatedDomains[i].Hostname == hostname {
			return &s.RelatedDomains[i]
		}
	}
	return nil
}

// SharedDomains lists the hostnames of related domains verified to share
// the primary certificate. Used in notification payloads.
func (s *Site) SharedDomains() []string {
	var out []string
	for _, rd := range s.RelatedDomains {
		if rd.SharesCertificate {
			out = append(out, rd.Hostname)
		}
	}
	return out
}
