package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AIOpsCrew/ssl-monitor/internal/models"
	"github.com/AIOpsCrew/ssl-monitor/internal/monitor"
	"github.com/AIOpsCrew/ssl-monitor/internal/store"
)

func newTestApp(t *testing.T) (*fiber.App, *monitor.Checker) {
	t.Helper()

	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	checker := monitor.NewChecker(st, nil, monitor.DefaultThreshold)
	checker.Probe = func(hostname string) (monitor.CertInfo, error) {
		return monitor.CertInfo{
			NotAfter:    time.Now().UTC().AddDate(0, 0, 90),
			Fingerprint: "fp-" + hostname,
		}, nil
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{"error": err.Error()})
		},
	})

	api := app.Group("/api")
	api.Get("/websites", ListSites(checker))
	api.Post("/websites", AddSite(checker))
	api.Get("/websites/errors", ListErrored(checker))
	api.Get("/websites/:id", GetSite(checker))
	api.Delete("/websites/:id", RemoveSite(checker))
	api.Post("/websites/:id/check", CheckSite(checker))
	api.Post("/refresh", RefreshAll(checker))
	api.Post("/bulk_import", BulkImport(checker))

	return app, checker
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) (*http.Response, []byte) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	return resp, data
}

func TestAddAndListSites(t *testing.T) {
	app, _ := newTestApp(t)

	resp, body := doJSON(t, app, http.MethodPost, "/api/websites", map[string]any{
		"url":             "example.com",
		"related_domains": []string{"www.example.com"},
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, string(body))

	var created models.Site
	require.NoError(t, json.Unmarshal(body, &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "example.com", created.Hostname)
	assert.Equal(t, models.StatusUnknown, created.Status)

	resp, body = doJSON(t, app, http.MethodGet, "/api/websites", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var sites []models.Site
	require.NoError(t, json.Unmarshal(body, &sites))
	require.Len(t, sites, 1)
	assert.Equal(t, created.ID, sites[0].ID)

	resp, body = doJSON(t, app, http.MethodGet, "/api/websites/"+created.ID, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var got models.Site
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, created.ID, got.ID)
}

func TestAddSite_Validation(t *testing.T) {
	app, _ := newTestApp(t)

	resp, _ := doJSON(t, app, http.MethodPost, "/api/websites", map[string]any{"url": ""})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodPost, "/api/websites", map[string]any{"url": "not a url"})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodPost, "/api/websites", map[string]any{"url": "dup.com"})
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	resp, _ = doJSON(t, app, http.MethodPost, "/api/websites", map[string]any{"url": "dup.com"})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestCheckSiteAndRefresh(t *testing.T) {
	app, _ := newTestApp(t)

	_, body := doJSON(t, app, http.MethodPost, "/api/websites", map[string]any{"url": "a.com"})
	var created models.Site
	require.NoError(t, json.Unmarshal(body, &created))

	resp, body := doJSON(t, app, http.MethodPost, "/api/websites/"+created.ID+"/check", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var checked models.Site
	require.NoError(t, json.Unmarshal(body, &checked))
	assert.Equal(t, models.StatusGood, checked.Status)
	require.NotNil(t, checked.DaysRemaining)
	assert.Equal(t, 90, *checked.DaysRemaining)

	resp, _ = doJSON(t, app, http.MethodPost, "/api/websites/missing/check", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, body = doJSON(t, app, http.MethodPost, "/api/refresh", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var sites []models.Site
	require.NoError(t, json.Unmarshal(body, &sites))
	require.Len(t, sites, 1)
	assert.Equal(t, models.StatusGood, sites[0].Status)
}

func TestRemoveSite(t *testing.T) {
	app, _ := newTestApp(t)

	_, body := doJSON(t, app, http.MethodPost, "/api/websites", map[string]any{"url": "a.com"})
	var created models.Site
	require.NoError(t, json.Unmarshal(body, &created))

	resp, _ := doJSON(t, app, http.MethodDelete, "/api/websites/"+created.ID, nil)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodGet, "/api/websites/"+created.ID, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodDelete, "/api/websites/"+created.ID, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestBulkImport(t *testing.T) {
	app, _ := newTestApp(t)

	resp, body := doJSON(t, app, http.MethodPost, "/api/bulk_import", map[string]any{
		"domains": "first.com, second.com, not_a_domain, first.com",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result struct {
		Added   int `json:"added"`
		Skipped int `json:"skipped"`
	}
	require.NoError(t, json.Unmarshal(body, &result))
	assert.Equal(t, 2, result.Added)
	assert.Equal(t, 2, result.Skipped) // one invalid, one duplicate

	resp, _ = doJSON(t, app, http.MethodPost, "/api/bulk_import", map[string]any{"domains": "   "})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestListErroredSites(t *testing.T) {
	app, checker := newTestApp(t)

	checker.Probe = func(hostname string) (monitor.CertInfo, error) {
		if hostname == "down.com" {
			return monitor.CertInfo{}, fmt.Errorf("%w: connection refused", monitor.ErrUnreachable)
		}
		return monitor.CertInfo{NotAfter: time.Now().UTC().AddDate(0, 0, 90), Fingerprint: "fp"}, nil
	}

	doJSON(t, app, http.MethodPost, "/api/websites", map[string]any{"url": "up.com"})
	doJSON(t, app, http.MethodPost, "/api/websites", map[string]any{"url": "down.com"})
	doJSON(t, app, http.MethodPost, "/api/refresh", nil)

	resp, body := doJSON(t, app, http.MethodGet, "/api/websites/errors", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var errored []models.Site
	require.NoError(t, json.Unmarshal(body, &errored))
	require.Len(t, errored, 1)
	assert.Equal(t, "down.com", errored[0].Hostname)
}
