package http

import (
	"context"
	"io"
	"time"

	"github.com/momentum-app/momentum-api/internal/domain"
)

// ProfileRepository is the minimal interface the router requires from the
// profile document store.
type ProfileRepository interface {
	Put(ctx context.Context, p *domain.Profile) error
	Get(ctx context.Context, userID string) (*domain.Profile, error)
	GetByUsername(ctx context.Context, username string) (*domain.Profile, error)
	Update(ctx context.Context, userID string, updates map[string]interface{}) error
}

// NotificationRepository is the minimal interface the router requires from
// the relational notification store.
type NotificationRepository interface {
	CreateScheduled(ctx context.Context, n *domain.ScheduledNotification) error
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
	AppendLog(ctx context.Context, l *domain.NotificationLog) error
}

// ObjectStore is the minimal interface the router requires from an object
// storage backend.
type ObjectStore interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) error
	Download(ctx context.Context, key string) (io.ReadCloser, error)
}
