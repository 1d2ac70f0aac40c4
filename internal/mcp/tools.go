package mcptools

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/AIOpsCrew/ssl-monitor/internal/monitor"
)

// RegisterTools wires the monitoring engine's query surface into an MCP
// server. Everything except the explicit check tools is read-only; the
// check tools re-probe but never add or remove sites.
func RegisterTools(s *server.MCPServer, checker *monitor.Checker) {
	h := newHandlers(checker)

	s.AddTool(
		mcp.NewTool("list_sites",
			mcp.WithDescription("List all monitored websites with their certificate status, expiry date, and days remaining. Optionally filter by status."),
			mcp.WithReadOnlyHintAnnotation(true),
			mcp.WithDestructiveHintAnnotation(false),
			mcp.WithString("status", mcp.Description("Filter by certificate status (good, expiring, expired, error, unknown)")),
		),
		h.listSites,
	)

	s.AddTool(
		mcp.NewTool("get_site",
			mcp.WithDescription("Get one monitored website by id, including its related domains and whether they share the primary certificate."),
			mcp.WithReadOnlyHintAnnotation(true),
			mcp.WithDestructiveHintAnnotation(false),
			mcp.WithString("site_id", mcp.Description("Site ID"), mcp.Required()),
		),
		h.getSite,
	)

	s.AddTool(
		mcp.NewTool("list_errored_sites",
			mcp.WithDescription("Find websites whose last certificate check failed (unreachable, handshake failure, timeout)."),
			mcp.WithReadOnlyHintAnnotation(true),
			mcp.WithDestructiveHintAnnotation(false),
		),
		h.listErroredSites,
	)

	s.AddTool(
		mcp.NewTool("check_site",
			mcp.WithDescription("Run a live certificate check for one monitored website and return the updated record."),
			mcp.WithReadOnlyHintAnnotation(false),
			mcp.WithDestructiveHintAnnotation(false),
			mcp.WithString("site_id", mcp.Description("Site ID"), mcp.Required()),
		),
		h.checkSite,
	)

	s.AddTool(
		mcp.NewTool("check_all",
			mcp.WithDescription("Run a live certificate check for every monitored website and return the updated collection."),
			mcp.WithReadOnlyHintAnnotation(false),
			mcp.WithDestructiveHintAnnotation(false),
		),
		h.checkAll,
	)

	s.AddTool(
		mcp.NewTool("check_certificate",
			mcp.WithDescription("Probe the TLS certificate of any domain (monitored or not) and report its expiry, days remaining, and status."),
			mcp.WithReadOnlyHintAnnotation(true),
			mcp.WithDestructiveHintAnnotation(false),
			mcp.WithString("domain", mcp.Description("Domain name, e.g. example.com"), mcp.Required()),
		),
		h.checkCertificate,
	)

	s.AddTool(
		mcp.NewTool("dns_lookup",
			mcp.WithDescription("Resolve a domain's A/AAAA records and canonical name, to tell DNS failures apart from TLS failures when a certificate check errors."),
			mcp.WithReadOnlyHintAnnotation(true),
			mcp.WithDestructiveHintAnnotation(false),
			mcp.WithString("domain", mcp.Description("Domain name, e.g. example.com"), mcp.Required()),
		),
		h.dnsLookup,
	)
}
