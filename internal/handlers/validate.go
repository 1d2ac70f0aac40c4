package handlers

import (
	"regexp"
	"strings"
)

var domainRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9-]{0,61}[a-zA-Z0-9](\.[a-zA-Z]{2,})+$`)

func validateDomain(domain string) bool {
	return domainRegex.MatchString(domain)
}

// splitDomains parses bulk-import input: comma-separated when a comma is
// present, otherwise one domain per line. Empty entries are dropped.
func splitDomains(text string) []string {
	var parts []string
	if strings.Contains(text, ",") {
		parts = strings.Split(text, ",")
	} else {
		parts = strings.Split(text, "\n")
	}

	var domains []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			domains = append(domains, p)
		}
	}
	return domains
}
