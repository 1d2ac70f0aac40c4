package monitor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/AIOpsCrew/ssl-monitor/internal/metrics"
	"github.com/AIOpsCrew/ssl-monitor/internal/models"
	"github.com/AIOpsCrew/ssl-monitor/internal/notify"
	"github.com/AIOpsCrew/ssl-monitor/internal/store"
)

var (
	ErrSiteNotFound = errors.New("site not found")
	ErrSiteExists   = errors.New("site already exists")
)

// Checker owns the monitored-site collection. Every mutation — add, remove,
// manual check, scheduled sweep — funnels through it, and the whole
// load→update→save cycle runs under one mutex so concurrent invocations can
// never interleave partial writes.
type Checker struct {
	Store     store.Store
	Publisher notify.Publisher // nil disables notification dispatch
	Threshold int
	// Concurrency bounds the probe worker pool within one batch.
	Concurrency int
	// Probe and Now are swappable for tests.
	Probe ProbeFunc
	Now   func() time.Time

	mu sync.Mutex
}

func NewChecker(st store.Store, pub notify.Publisher, threshold int) *Checker {
	return &Checker{
		Store:       st,
		Publisher:   pub,
		Threshold:   threshold,
		Concurrency: 8,
		Probe:       Probe,
		Now:         time.Now,
	}
}

// ListSites returns the collection as last persisted.
func (c *Checker) ListSites(ctx context.Context) ([]models.Site, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Store.Load(ctx)
}

// GetSite returns one site by id.
func (c *Checker) GetSite(ctx context.Context, id string) (*models.Site, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	sites, err := c.Store.Load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range sites {
		if sites[i].ID == id {
			return &sites[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrSiteNotFound, id)
}

// ListErrored returns the sites whose last check failed.
func (c *Checker) ListErrored(ctx context.Context) ([]models.Site, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	sites, err := c.Store.Load(ctx)
	if err != nil {
		return nil, err
	}
	var errored []models.Site
	for _, s := range sites {
		if s.Status == models.StatusError {
			errored = append(errored, s)
		}
	}
	return errored, nil
}

// AddSite registers a new site. The hostname is derived from the URL up
// front so an address that cannot be normalized is rejected before it ever
// reaches the store. Adding a URL that already exists fails, unless new
// related domains are supplied, in which case they are merged into the
// existing record.
func (c *Checker) AddSite(ctx context.Context, rawURL, name string, relatedDomains []string) (*models.Site, error) {
	hostname, err := Normalize(rawURL)
	if err != nil {
		return nil, err
	}
	if !hasScheme(rawURL) {
		rawURL = "https://" + rawURL
	}

	related := make([]models.RelatedDomain, 0, len(relatedDomains))
	for _, rd := range relatedDomains {
		rh, err := Normalize(rd)
		if err != nil {
			return nil, fmt.Errorf("related domain %q: %w", rd, err)
		}
		if !hasScheme(rd) {
			rd = "https://" + rd
		}
		related = append(related, models.RelatedDomain{
			Domain:   rd,
			Hostname: rh,
			Status:   models.StatusUnknown,
		})
	}

	if name == "" {
		name = hostname
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	sites, err := c.Store.Load(ctx)
	if err != nil {
		return nil, err
	}

	for i := range sites {
		if sites[i].URL != rawURL && sites[i].Hostname != hostname {
			continue
		}
		if len(related) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrSiteExists, hostname)
		}
		merged := false
		for _, rd := range related {
			if sites[i].Related(rd.Hostname) == nil {
				sites[i].RelatedDomains = append(sites[i].RelatedDomains, rd)
				merged = true
			}
		}
		if !merged {
			return nil, fmt.Errorf("%w: %s", ErrSiteExists, hostname)
		}
		if err := c.Store.Save(ctx, sites); err != nil {
			return nil, err
		}
		return &sites[i], nil
	}

	site := models.Site{
		ID:             uuid.NewString(),
		URL:            rawURL,
		Name:           name,
		Hostname:       hostname,
		Status:         models.StatusUnknown,
		AddedDate:      c.Now(),
		RelatedDomains: related,
	}
	sites = append(sites, site)

	if err := c.Store.Save(ctx, sites); err != nil {
		return nil, err
	}
	return &site, nil
}

// RemoveSite deletes a site by id. Removal is immediate and permanent.
func (c *Checker) RemoveSite(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	sites, err := c.Store.Load(ctx)
	if err != nil {
		return err
	}
	for i := range sites {
		if sites[i].ID == id {
			sites = append(sites[:i], sites[i+1:]...)
			return c.Store.Save(ctx, sites)
		}
	}
	return fmt.Errorf("%w: %s", ErrSiteNotFound, id)
}

// CheckAll probes every monitored site and persists the updated collection.
// The returned slice reflects every site's latest result even when the save
// failed; in that case the error wraps store.ErrPersistFailed.
func (c *Checker) CheckAll(ctx context.Context) ([]models.Site, error) {
	return c.check(ctx, "")
}

// CheckOne probes a single site by id and persists the updated collection.
func (c *Checker) CheckOne(ctx context.Context, id string) (*models.Site, error) {
	sites, err := c.check(ctx, id)
	if err != nil && !errors.Is(err, store.ErrPersistFailed) {
		return nil, err
	}
	for i := range sites {
		if sites[i].ID == id {
			return &sites[i], err
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrSiteNotFound, id)
}

// check is the batch orchestrator. id == "" targets the whole collection.
func (c *Checker) check(ctx context.Context, id string) ([]models.Site, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	start := time.Now()
	metrics.CheckRuns.Inc()

	sites, err := c.Store.Load(ctx)
	if err != nil {
		return nil, err
	}

	type result struct {
		site *models.Site
		prev string
	}

	var targets []result
	for i := range sites {
		if id != "" && sites[i].ID != id {
			continue
		}
		targets = append(targets, result{site: &sites[i], prev: sites[i].Status})
	}
	if id != "" && len(targets) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrSiteNotFound, id)
	}

	logrus.WithField("sites", len(targets)).Info("Starting certificate check")

	g := new(errgroup.Group)
	g.SetLimit(c.concurrency())
	for _, t := range targets {
		site := t.site
		g.Go(func() error {
			c.checkSite(site)
			return nil
		})
	}
	g.Wait()

	// Dispatch after all probes so notification order is deterministic and
	// a slow transport never holds a worker slot.
	for _, t := range targets {
		c.dispatch(ctx, t.site, t.prev)
	}

	saveErr := c.Store.Save(ctx, sites)
	if saveErr != nil {
		logrus.WithError(saveErr).Error("Could not persist check results")
	}

	metrics.CheckDuration.Observe(time.Since(start).Seconds())
	logrus.WithField("duration", time.Since(start).Round(time.Millisecond)).Info("Certificate check finished")

	return sites, saveErr
}

// checkSite probes the primary hostname and every related domain, updating
// the record in place. A probe failure on any hostname is contained in that
// hostname's own status.
func (c *Checker) checkSite(site *models.Site) {
	now := c.Now()
	log := logrus.WithField("url", site.URL)

	metrics.SitesChecked.Inc()
	site.LastChecked = now

	var primary CertInfo
	primaryErr := error(nil)

	hostname, err := Normalize(site.URL)
	if err != nil {
		primaryErr = err
	} else {
		site.Hostname = hostname
		primary, primaryErr = c.Probe(hostname)
	}

	if primaryErr != nil {
		log.WithError(primaryErr).Warn("Certificate check failed")
		metrics.ProbeErrors.Inc()
		site.Status = models.StatusError
		site.ExpiryDate = nil
		site.DaysRemaining = nil
	} else {
		status, days := Classify(primary.NotAfter, now, c.Threshold)
		expiry := primary.NotAfter
		site.Status = status
		site.ExpiryDate = &expiry
		site.DaysRemaining = &days
		log.WithFields(logrus.Fields{"status": status, "days_remaining": days}).Debug("Certificate checked")
	}

	for i := range site.RelatedDomains {
		rd := &site.RelatedDomains[i]

		rh, err := Normalize(rd.Domain)
		if err == nil {
			rd.Hostname = rh
		}
		var info CertInfo
		if err == nil {
			info, err = c.Probe(rh)
		}
		if err != nil {
			// SharesCertificate keeps its last known value: it is only ever
			// computed from a successful probe of both sides.
			log.WithError(err).WithField("related", rd.Domain).Warn("Related domain check failed")
			rd.Status = models.StatusError
			rd.ExpiryDate = nil
			rd.DaysRemaining = nil
			continue
		}

		status, days := Classify(info.NotAfter, now, c.Threshold)
		expiry := info.NotAfter
		rd.Status = status
		rd.ExpiryDate = &expiry
		rd.DaysRemaining = &days

		if primaryErr == nil {
			rd.SharesCertificate = info.Fingerprint == primary.Fingerprint
		}
	}
}

// dispatch sends a notification for every site whose fresh status is
// expiring or expired. There is deliberately no cross-run suppression: a
// site that is still expired on the next run notifies again, and callers
// control invocation frequency.
func (c *Checker) dispatch(ctx context.Context, site *models.Site, prev string) {
	if prev != site.Status {
		logrus.WithFields(logrus.Fields{
			"hostname": site.Hostname,
			"from":     prev,
			"to":       site.Status,
		}).Info("Status transition")
	}

	if site.Status != models.StatusExpiring && site.Status != models.StatusExpired {
		return
	}
	if c.Publisher == nil {
		return
	}

	alert := notify.Alert{
		SiteID:        site.ID,
		Hostname:      site.Hostname,
		Status:        site.Status,
		DaysRemaining: site.DaysRemaining,
		ExpiryDate:    site.ExpiryDate,
		SharedDomains: site.SharedDomains(),
	}

	if err := c.Publisher.Publish(ctx, alert); err != nil {
		metrics.NotificationFailures.Inc()
		logrus.WithError(err).WithField("hostname", site.Hostname).Warn("Could not deliver notification")
		return
	}
	metrics.NotificationsSent.Inc()
}

func (c *Checker) concurrency() int {
	if c.Concurrency < 1 {
		return 1
	}
	return c.Concurrency
}

func hasScheme(raw string) bool {
	return strings.Contains(raw, "://")
}
