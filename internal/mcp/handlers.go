package mcptools

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/AIOpsCrew/ssl-monitor/internal/monitor"
)

type handlers struct {
	checker *monitor.Checker
	// Resolver functions are swappable for tests.
	lookupHost  func(ctx context.Context, host string) ([]string, error)
	lookupCNAME func(ctx context.Context, host string) (string, error)
}

func newHandlers(checker *monitor.Checker) *handlers {
	return &handlers{
		checker:     checker,
		lookupHost:  net.DefaultResolver.LookupHost,
		lookupCNAME: net.DefaultResolver.LookupCNAME,
	}
}

func (h *handlers) listSites(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()

	sites, err := h.checker.ListSites(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list sites: %v", err)), nil
	}

	statusFilter, _ := args["status"].(string)

	out := make([]SiteDTO, 0, len(sites))
	for _, s := range sites {
		if statusFilter != "" && s.Status != statusFilter {
			continue
		}
		out = append(out, SiteToDTO(s))
	}

	return jsonResult(out)
}

func (h *handlers) getSite(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, _ := req.GetArguments()["site_id"].(string)
	if id == "" {
		return mcp.NewToolResultError("site_id is required"), nil
	}

	site, err := h.checker.GetSite(ctx, id)
	if err != nil {
		if errors.Is(err, monitor.ErrSiteNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("site %s not found", id)), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("failed to get site: %v", err)), nil
	}

	return jsonResult(SiteToDTO(*site))
}

func (h *handlers) listErroredSites(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sites, err := h.checker.ListErrored(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list errored sites: %v", err)), nil
	}

	out := make([]SiteDTO, 0, len(sites))
	for _, s := range sites {
		out = append(out, SiteToDTO(s))
	}
	return jsonResult(out)
}

func (h *handlers) checkSite(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, _ := req.GetArguments()["site_id"].(string)
	if id == "" {
		return mcp.NewToolResultError("site_id is required"), nil
	}

	site, err := h.checker.CheckOne(ctx, id)
	if err != nil {
		if errors.Is(err, monitor.ErrSiteNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("site %s not found", id)), nil
		}
		// A persistence failure still produced a fresh result worth showing.
		if site == nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to check site: %v", err)), nil
		}
	}

	return jsonResult(SiteToDTO(*site))
}

func (h *handlers) checkAll(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sites, err := h.checker.CheckAll(ctx)
	if err != nil && sites == nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to check sites: %v", err)), nil
	}

	out := make([]SiteDTO, 0, len(sites))
	for _, s := range sites {
		out = append(out, SiteToDTO(s))
	}
	return jsonResult(out)
}

func (h *handlers) checkCertificate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	domain, _ := req.GetArguments()["domain"].(string)

	hostname, err := monitor.Normalize(domain)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid domain %q: %v", domain, err)), nil
	}

	info, err := h.checker.Probe(hostname)
	if err != nil {
		return jsonResult(map[string]any{
			"success":  false,
			"hostname": hostname,
			"error":    err.Error(),
		})
	}

	status, days := monitor.Classify(info.NotAfter, h.checker.Now(), h.checker.Threshold)
	return jsonResult(map[string]any{
		"success":        true,
		"hostname":       hostname,
		"status":         status,
		"expiry_date":    info.NotAfter.Format("2006-01-02"),
		"days_remaining": days,
	})
}

func (h *handlers) dnsLookup(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	domain, _ := req.GetArguments()["domain"].(string)

	hostname, err := monitor.Normalize(domain)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid domain %q: %v", domain, err)), nil
	}

	ips, err := h.lookupHost(ctx, hostname)
	if err != nil {
		return jsonResult(map[string]any{
			"success":    false,
			"hostname":   hostname,
			"resolved":   false,
			"error":      err.Error(),
			"error_type": dnsErrorType(err),
		})
	}

	canonical := hostname
	if cname, err := h.lookupCNAME(ctx, hostname); err == nil && cname != "" {
		canonical = strings.TrimSuffix(cname, ".")
	}

	return jsonResult(map[string]any{
		"success":        true,
		"hostname":       hostname,
		"ip_addresses":   ips,
		"canonical_name": canonical,
		"resolved":       len(ips) > 0,
	})
}

func dnsErrorType(err error) string {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		switch {
		case dnsErr.IsNotFound:
			return "not_found"
		case dnsErr.IsTimeout:
			return "timeout"
		}
	}
	return "lookup_failed"
}
