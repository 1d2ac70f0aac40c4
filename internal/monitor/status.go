package monitor

import (
	"math"
	"time"

	"github.com/AIOpsCrew/ssl-monitor/internal/models"
)

// DefaultThreshold is the "expiring soon" boundary in days.
const DefaultThreshold = 30

// Classify maps a certificate expiry timestamp to a status tier and a signed
// days-remaining count. The expiring band is inclusive at both ends:
// days > threshold is good, 0 <= days <= threshold is expiring, days < 0 is
// expired. This is the single source of truth for every indicator and every
// alert decision.
func Classify(expiry, now time.Time, thresholdDays int) (string, int) {
	days := int(math.Floor(expiry.Sub(now).Hours() / 24))

	switch {
	case days < 0:
		return models.StatusExpired, days
	case days <= thresholdDays:
		return models.StatusExpiring, days
	default:
		return models.StatusGood, days
	}
}
