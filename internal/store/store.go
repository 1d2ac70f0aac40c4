package store

import (
	"context"
	"errors"

	"github.com/AIOpsCrew/ssl-monitor/internal/models"
)

// ErrPersistFailed wraps any failure to durably write the collection. The
// in-memory update is still considered applied; callers decide whether to
// retry or just report it.
var ErrPersistFailed = errors.New("persist failed")

// Store is the persistence contract for the monitored-site collection.
// Both operations are atomic at the single-call granularity: Load never
// observes a partially applied Save.
type Store interface {
	Load(ctx context.Context) ([]models.Site, error)
	Save(ctx context.Context, sites []models.Site) error
}
