package mcptools

import (
	"context"
	"encoding/json"
	"net"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func toolRequest(name string, args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func resultJSON(t *testing.T, res *mcp.CallToolResult) map[string]any {
	t.Helper()
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content")

	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(text.Text), &out))
	return out
}

func TestDNSLookup_Resolves(t *testing.T) {
	h := &handlers{
		lookupHost: func(_ context.Context, host string) ([]string, error) {
			assert.Equal(t, "example.com", host, "input must be normalized before resolving")
			return []string{"93.184.216.34", "2606:2800:220:1::1"}, nil
		},
		lookupCNAME: func(_ context.Context, host string) (string, error) {
			return "edge.example-cdn.net.", nil
		},
	}

	res, err := h.dnsLookup(context.Background(), toolRequest("dns_lookup", map[string]any{
		"domain": "https://Example.com/some/path",
	}))
	require.NoError(t, err)
	require.False(t, res.IsError)

	out := resultJSON(t, res)
	assert.Equal(t, true, out["success"])
	assert.Equal(t, "example.com", out["hostname"])
	assert.Equal(t, true, out["resolved"])
	assert.Equal(t, "edge.example-cdn.net", out["canonical_name"])
	assert.Len(t, out["ip_addresses"], 2)
}

func TestDNSLookup_NotFound(t *testing.T) {
	h := &handlers{
		lookupHost: func(_ context.Context, host string) ([]string, error) {
			return nil, &net.DNSError{Err: "no such host", Name: host, IsNotFound: true}
		},
	}

	res, err := h.dnsLookup(context.Background(), toolRequest("dns_lookup", map[string]any{
		"domain": "missing.invalid",
	}))
	require.NoError(t, err)
	require.False(t, res.IsError, "a failed lookup is a result, not a tool error")

	out := resultJSON(t, res)
	assert.Equal(t, false, out["success"])
	assert.Equal(t, false, out["resolved"])
	assert.Equal(t, "not_found", out["error_type"])
	assert.Contains(t, out["error"], "no such host")
}

func TestDNSLookup_Timeout(t *testing.T) {
	h := &handlers{
		lookupHost: func(_ context.Context, host string) ([]string, error) {
			return nil, &net.DNSError{Err: "i/o timeout", Name: host, IsTimeout: true}
		},
	}

	res, err := h.dnsLookup(context.Background(), toolRequest("dns_lookup", map[string]any{
		"domain": "slow.example.org",
	}))
	require.NoError(t, err)

	out := resultJSON(t, res)
	assert.Equal(t, "timeout", out["error_type"])
}

func TestDNSLookup_InvalidDomain(t *testing.T) {
	h := &handlers{}

	res, err := h.dnsLookup(context.Background(), toolRequest("dns_lookup", map[string]any{
		"domain": "not a domain",
	}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}
