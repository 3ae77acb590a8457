package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/momentum-app/momentum-api/internal/delivery"
	"github.com/momentum-app/momentum-api/internal/domain"
	"github.com/momentum-app/momentum-api/internal/pkg/clock"
	"github.com/momentum-app/momentum-api/internal/pkg/id"
	"github.com/momentum-app/momentum-api/internal/pkg/validate"
	"github.com/rs/zerolog"
)

// Store is the minimal interface the service requires from the relational
// notification store.
type Store interface {
	CreateScheduled(ctx context.Context, n *domain.ScheduledNotification) error
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
	AppendLog(ctx context.Context, l *domain.NotificationLog) error
}

type Service interface {
	Schedule(ctx context.Context, req domain.ScheduleRequest) (*domain.ScheduledNotification, error)
	ClearBefore(ctx context.Context, req domain.ClearRequest) (int64, error)
	SendImmediate(ctx context.Context, req domain.SendRequest) error
}

type ServiceDeps struct {
	Store       Store
	Driver      delivery.Driver
	Clock       clock.Clock
	SendTimeout time.Duration
	Log         zerolog.Logger
}

type service struct {
	store       Store
	driver      delivery.Driver
	clock       clock.Clock
	sendTimeout time.Duration
	log         zerolog.Logger
}

func NewService(deps ServiceDeps) Service {
	if deps.Clock == nil {
		deps.Clock = clock.System{}
	}
	if deps.SendTimeout <= 0 {
		deps.SendTimeout = 10 * time.Second
	}
	return &service{
		store:       deps.Store,
		driver:      deps.Driver,
		clock:       deps.Clock,
		sendTimeout: deps.SendTimeout,
		log:         deps.Log,
	}
}

// scheduledTimeLayouts are the accepted wire formats for scheduledTime and
// beforeDate, tried in order.
var scheduledTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseWireTime(s string) (time.Time, error) {
	for _, layout := range scheduledTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparsable time %q: %w", s, domain.ErrBadRequest)
}

func (s *service) Schedule(ctx context.Context, req domain.ScheduleRequest) (*domain.ScheduledNotification, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%s: %w", err.Error(), domain.ErrBadRequest)
	}
	at, err := parseWireTime(req.ScheduledTime)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now().UTC()
	n := &domain.ScheduledNotification{
		ID:            id.New(),
		UserID:        req.UserID,
		Message:       req.Message,
		ScheduledTime: at,
		Status:        domain.StatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.store.CreateScheduled(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

func (s *service) ClearBefore(ctx context.Context, req domain.ClearRequest) (int64, error) {
	if err := validate.Struct(req); err != nil {
		return 0, fmt.Errorf("%s: %w", err.Error(), domain.ErrBadRequest)
	}
	cutoff, err := parseWireTime(req.BeforeDate)
	if err != nil {
		return 0, err
	}
	return s.store.DeleteBefore(ctx, cutoff)
}

// SendImmediate delivers one message synchronously and appends an audit row
// recording the real outcome. A failed send is logged as failed and surfaced
// to the caller, never recorded as sent.
func (s *service) SendImmediate(ctx context.Context, req domain.SendRequest) error {
	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("%s: %w", err.Error(), domain.ErrBadRequest)
	}

	sctx, cancel := context.WithTimeout(ctx, s.sendTimeout)
	defer cancel()
	resp, sendErr := s.driver.Send(sctx, req.Phone, req.Message)

	entry := &domain.NotificationLog{
		SentAt:   s.clock.Now().UTC(),
		Status:   domain.StatusSent,
		Response: resp,
	}
	if sendErr != nil {
		entry.Status = domain.StatusFailed
		entry.Response = sendErr.Error()
		s.log.Error().Err(sendErr).Str("user_id", req.UserID).Msg("immediate send failed")
	}
	if err := s.store.AppendLog(ctx, entry); err != nil {
		s.log.Error().Err(err).Msg("could not append notification log")
		if sendErr == nil {
			return err
		}
	}
	return sendErr
}
