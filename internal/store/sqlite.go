package store

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/AIOpsCrew/ssl-monitor/internal/models"
)

//go:embed schema.sql
var schema string

// SQLite persists the site collection in a single SQLite database. Save
// replaces the whole collection inside one transaction, so readers either
// see the previous collection or the new one, never a mix.
type SQLite struct {
	db *sql.DB
}

func Open(dbPath string) (*SQLite, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// WAL keeps reads from blocking the writer during a batch save.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// Wait up to 5s for locks instead of failing immediately with SQLITE_BUSY
	db.Exec("PRAGMA busy_timeout = 5000")

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to execute schema: %w", err)
	}

	return &SQLite{db: db}, nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) Load(ctx context.Context) ([]models.Site, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, url, name, hostname, status, expiry_date, days_remaining,
		       added_date, last_checked, related_domains
		FROM sites ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to query sites: %w", err)
	}
	defer rows.Close()

	var sites []models.Site
	for rows.Next() {
		var site models.Site
		var expiry, lastChecked sql.NullTime
		var days sql.NullInt64
		var relatedRaw string

		if err := rows.Scan(
			&site.ID, &site.URL, &site.Name, &site.Hostname, &site.Status,
			&expiry, &days, &site.AddedDate, &lastChecked, &relatedRaw,
		); err != nil {
			return nil, fmt.Errorf("failed to scan site row: %w", err)
		}

		if expiry.Valid {
			t := expiry.Time
			site.ExpiryDate = &t
		}
		if days.Valid {
			d := int(days.Int64)
			site.DaysRemaining = &d
		}
		if lastChecked.Valid {
			site.LastChecked = lastChecked.Time
		}
		if err := json.Unmarshal([]byte(relatedRaw), &site.RelatedDomains); err != nil {
			return nil, fmt.Errorf("failed to decode related domains for %s: %w", site.ID, err)
		}

		sites = append(sites, site)
	}
	return sites, rows.Err()
}

func (s *SQLite) Save(ctx context.Context, sites []models.Site) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin: %v", ErrPersistFailed, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM sites"); err != nil {
		return fmt.Errorf("%w: clear: %v", ErrPersistFailed, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO sites (id, url, name, hostname, status, expiry_date,
		                   days_remaining, added_date, last_checked,
		                   related_domains, position)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("%w: prepare: %v", ErrPersistFailed, err)
	}
	defer stmt.Close()

	for i, site := range sites {
		related, err := json.Marshal(site.RelatedDomains)
		if err != nil {
			return fmt.Errorf("%w: encode related domains for %s: %v", ErrPersistFailed, site.ID, err)
		}

		var expiry sql.NullTime
		if site.ExpiryDate != nil {
			expiry = sql.NullTime{Time: *site.ExpiryDate, Valid: true}
		}
		var days sql.NullInt64
		if site.DaysRemaining != nil {
			days = sql.NullInt64{Int64: int64(*site.DaysRemaining), Valid: true}
		}
		var lastChecked sql.NullTime
		if !site.LastChecked.IsZero() {
			lastChecked = sql.NullTime{Time: site.LastChecked, Valid: true}
		}

		if _, err := stmt.ExecContext(ctx,
			site.ID, site.URL, site.Name, site.Hostname, site.Status,
			expiry, days, site.AddedDate, lastChecked, string(related), i,
		); err != nil {
			return fmt.Errorf("%w: insert %s: %v", ErrPersistFailed, site.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %v", ErrPersistFailed, err)
	}
	return nil
}
