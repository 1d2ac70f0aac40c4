package mcptools

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/AIOpsCrew/ssl-monitor/internal/models"
)

type RelatedDomainDTO struct {
	Domain            string `json:"domain"`
	Hostname          string `json:"hostname"`
	Status            string `json:"status"`
	ExpiryDate        string `json:"expiry_date,omitempty"`
	DaysRemaining     *int   `json:"days_remaining,omitempty"`
	SharesCertificate bool   `json:"same_cert"`
}

type SiteDTO struct {
	ID             string             `json:"id"`
	URL            string             `json:"url"`
	Name           string             `json:"name"`
	Hostname       string             `json:"hostname"`
	Status         string             `json:"status"`
	ExpiryDate     string             `json:"expiry_date,omitempty"`
	DaysRemaining  *int               `json:"days_remaining,omitempty"`
	AddedDate      string             `json:"added_date"`
	LastChecked    string             `json:"last_checked,omitempty"`
	RelatedDomains []RelatedDomainDTO `json:"related_domains,omitempty"`
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatTime(*t)
}

func SiteToDTO(s models.Site) SiteDTO {
	dto := SiteDTO{
		ID:            s.ID,
		URL:           s.URL,
		Name:          s.Name,
		Hostname:      s.Hostname,
		Status:        s.Status,
		ExpiryDate:    formatTimePtr(s.ExpiryDate),
		DaysRemaining: s.DaysRemaining,
		AddedDate:     formatTime(s.AddedDate),
		LastChecked:   formatTime(s.LastChecked),
	}
	for _, rd := range s.RelatedDomains {
		dto.RelatedDomains = append(dto.RelatedDomains, RelatedDomainDTO{
			Domain:            rd.Domain,
			Hostname:          rd.Hostname,
			Status:            rd.Status,
			ExpiryDate:        formatTimePtr(rd.ExpiryDate),
			DaysRemaining:     rd.DaysRemaining,
			SharesCertificate: rd.SharesCertificate,
		})
	}
	return dto
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}
