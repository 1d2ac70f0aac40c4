package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/AIOpsCrew/ssl-monitor/internal/monitor"
	"github.com/AIOpsCrew/ssl-monitor/internal/store"
)

// ListSites returns every monitored site as last persisted.
func ListSites(checker *monitor.Checker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sites, err := checker.ListSites(c.Context())
		if err != nil {
			logrus.WithError(err).Error("failed to list sites")
			return fiber.NewError(fiber.StatusInternalServerError, "failed to load sites")
		}
		return c.JSON(sites)
	}
}

// ListErrored returns the sites whose last check failed, the context the
// troubleshooting assistant starts from.
func ListErrored(checker *monitor.Checker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sites, err := checker.ListErrored(c.Context())
		if err != nil {
			logrus.WithError(err).Error("failed to list errored sites")
			return fiber.NewError(fiber.StatusInternalServerError, "failed to load sites")
		}
		return c.JSON(sites)
	}
}

// GetSite returns one site by id.
func GetSite(checker *monitor.Checker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		site, err := checker.GetSite(c.Context(), c.Params("id"))
		if err != nil {
			if errors.Is(err, monitor.ErrSiteNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "site not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to load site")
		}
		return c.JSON(site)
	}
}

type addSiteRequest struct {
	URL            string   `json:"url"`
	Name           string   `json:"name"`
	RelatedDomains []string `json:"related_domains"`
}

// AddSite registers a new site for monitoring.
func AddSite(checker *monitor.Checker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req addSiteRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if req.URL == "" {
			return fiber.NewError(fiber.StatusBadRequest, "url is required")
		}

		site, err := checker.AddSite(c.Context(), req.URL, req.Name, req.RelatedDomains)
		switch {
		case errors.Is(err, monitor.ErrInvalidHostname):
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		case errors.Is(err, monitor.ErrSiteExists):
			return fiber.NewError(fiber.StatusConflict, "website already exists")
		case err != nil:
			logrus.WithError(err).Error("failed to add site")
			return fiber.NewError(fiber.StatusInternalServerError, "failed to add site")
		}

		return c.Status(fiber.StatusCreated).JSON(site)
	}
}

// RemoveSite deletes a site by id.
func RemoveSite(checker *monitor.Checker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := checker.RemoveSite(c.Context(), c.Params("id"))
		switch {
		case errors.Is(err, monitor.ErrSiteNotFound):
			return fiber.NewError(fiber.StatusNotFound, "site not found")
		case err != nil:
			logrus.WithError(err).Error("failed to remove site")
			return fiber.NewError(fiber.StatusInternalServerError, "failed to remove site")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// CheckSite runs an on-demand check of a single site and returns the
// updated record. A persistence failure still returns the fresh result,
// with 502 so the caller knows the update is not yet durable.
func CheckSite(checker *monitor.Checker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		site, err := checker.CheckOne(c.Context(), c.Params("id"))
		switch {
		case errors.Is(err, monitor.ErrSiteNotFound):
			return fiber.NewError(fiber.StatusNotFound, "site not found")
		case errors.Is(err, store.ErrPersistFailed):
			logrus.WithError(err).Error("check result not persisted")
			return c.Status(fiber.StatusBadGateway).JSON(site)
		case err != nil:
			logrus.WithError(err).Error("failed to check site")
			return fiber.NewError(fiber.StatusInternalServerError, "failed to check site")
		}
		return c.JSON(site)
	}
}

// RefreshAll runs an on-demand check of the whole collection.
func RefreshAll(checker *monitor.Checker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sites, err := checker.CheckAll(c.Context())
		switch {
		case errors.Is(err, store.ErrPersistFailed):
			logrus.WithError(err).Error("check results not persisted")
			return c.Status(fiber.StatusBadGateway).JSON(sites)
		case err != nil:
			logrus.WithError(err).Error("failed to refresh sites")
			return fiber.NewError(fiber.StatusInternalServerError, "failed to refresh sites")
		}
		return c.JSON(sites)
	}
}

type bulkImportRequest struct {
	Domains string `json:"domains"`
}

type bulkImportResponse struct {
	Added   int `json:"added"`
	Skipped int `json:"skipped"`
}

// BulkImport adds many domains at once from comma- or line-separated text.
// Invalid and already-monitored domains are skipped, not fatal.
func BulkImport(checker *monitor.Checker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req bulkImportRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		domains := splitDomains(req.Domains)
		if len(domains) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "no valid domains provided")
		}

		var resp bulkImportResponse
		for _, domain := range domains {
			if !validateDomain(domain) {
				resp.Skipped++
				continue
			}
			if _, err := checker.AddSite(c.Context(), "https://"+domain, domain, nil); err != nil {
				resp.Skipped++
				continue
			}
			resp.Added++
		}

		return c.JSON(resp)
	}
}

// Healthz is a liveness endpoint.
func Healthz() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	}
}
