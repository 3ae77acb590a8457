package dispatch

import (
	"context"
	"fmt"
	"time"

	"github.com/momentum-app/momentum-api/internal/delivery"
	"github.com/momentum-app/momentum-api/internal/domain"
	"github.com/momentum-app/momentum-api/internal/pkg/clock"
	"github.com/rs/zerolog"
)

// ReminderMessage is the fixed daily reminder body.
const ReminderMessage = "Reminder: Don't forget to check your challenge today! Keep up the good work!"

// dueBatchSize caps how many overdue scheduled rows one tick drains.
const dueBatchSize = 100

// ProfileLister is the minimal interface the dispatcher requires from the
// profile store.
type ProfileLister interface {
	ListNotifiable(ctx context.Context, slot string) ([]domain.Profile, error)
	Get(ctx context.Context, userID string) (*domain.Profile, error)
}

// Store is the minimal interface the dispatcher requires from the relational
// notification store.
type Store interface {
	ClaimSlot(ctx context.Context, userID string, day time.Time, slot string) (bool, error)
	ListDue(ctx context.Context, now time.Time, limit int) ([]domain.ScheduledNotification, error)
	UpdateStatus(ctx context.Context, id string, status domain.NotificationStatus) error
	AppendLog(ctx context.Context, l *domain.NotificationLog) error
}

// Dispatcher matches the current wall-clock minute against user reminder
// slots and drains due one-shot notifications. It holds no state between
// ticks; everything lives in the stores.
type Dispatcher struct {
	profiles    ProfileLister
	store       Store
	driver      delivery.Driver
	clock       clock.Clock
	sendTimeout time.Duration
	log         zerolog.Logger
}

type Deps struct {
	Profiles    ProfileLister
	Store       Store
	Driver      delivery.Driver
	Clock       clock.Clock
	SendTimeout time.Duration
	Log         zerolog.Logger
}

func New(deps Deps) *Dispatcher {
	if deps.Clock == nil {
		deps.Clock = clock.System{}
	}
	if deps.SendTimeout <= 0 {
		deps.SendTimeout = 10 * time.Second
	}
	return &Dispatcher{
		profiles:    deps.Profiles,
		store:       deps.Store,
		driver:      deps.Driver,
		clock:       deps.Clock,
		sendTimeout: deps.SendTimeout,
		log:         deps.Log,
	}
}

// Tick runs one dispatch cycle: daily HH:MM reminders first, then overdue
// scheduled notifications. A delivery failure for one user is logged and
// never blocks the rest of the run; only store-level list failures are
// returned to the trigger.
func (d *Dispatcher) Tick(ctx context.Context) error {
	now := d.clock.Now()
	slot := now.Format(domain.SlotLayout)

	profiles, err := d.profiles.ListNotifiable(ctx, slot)
	if err != nil {
		return fmt.Errorf("list notifiable profiles: %w", err)
	}
	d.log.Debug().Str("slot", slot).Int("matched", len(profiles)).Msg("dispatch tick")
	for i := range profiles {
		d.remind(ctx, now, slot, &profiles[i])
	}

	due, err := d.store.ListDue(ctx, now, dueBatchSize)
	if err != nil {
		return fmt.Errorf("list due notifications: %w", err)
	}
	for i := range due {
		d.dispatchDue(ctx, &due[i])
	}
	return nil
}

// remind sends the fixed daily reminder to one matched profile. The slot is
// claimed in the dedupe table before sending, so a second tick in the same
// minute skips the user. The claim precedes the send: a crash in between
// drops at most one reminder rather than double-sending.
func (d *Dispatcher) remind(ctx context.Context, now time.Time, slot string, p *domain.Profile) {
	claimed, err := d.store.ClaimSlot(ctx, p.UserID, now, slot)
	if err != nil {
		d.log.Error().Err(err).Str("user_id", p.UserID).Msg("could not claim dispatch slot")
		return
	}
	if !claimed {
		return
	}

	resp, sendErr := d.send(ctx, p.WhatsAppNumber, ReminderMessage)
	d.appendLog(ctx, nil, resp, sendErr)
	if sendErr != nil {
		d.log.Error().Err(sendErr).Str("user_id", p.UserID).Str("slot", slot).Msg("reminder delivery failed")
		return
	}
	d.log.Info().Str("user_id", p.UserID).Str("slot", slot).Msg("reminder sent")
}

// dispatchDue delivers one overdue scheduled notification and transitions
// its status forward to sent or failed.
func (d *Dispatcher) dispatchDue(ctx context.Context, n *domain.ScheduledNotification) {
	p, err := d.profiles.Get(ctx, n.UserID)
	var resp string
	var sendErr error
	switch {
	case err != nil:
		sendErr = fmt.Errorf("profile %s: %w", n.UserID, err)
	case p.WhatsAppNumber == "":
		sendErr = fmt.Errorf("profile %s has no whatsapp number: %w", n.UserID, domain.ErrDelivery)
	default:
		resp, sendErr = d.send(ctx, p.WhatsAppNumber, n.Message)
	}

	status := domain.StatusSent
	if sendErr != nil {
		status = domain.StatusFailed
		d.log.Error().Err(sendErr).Str("notification_id", n.ID).Msg("scheduled delivery failed")
	}
	if err := d.store.UpdateStatus(ctx, n.ID, status); err != nil {
		d.log.Error().Err(err).Str("notification_id", n.ID).Msg("could not update notification status")
	}
	d.appendLog(ctx, &n.ID, resp, sendErr)
}

func (d *Dispatcher) send(ctx context.Context, to, body string) (string, error) {
	sctx, cancel := context.WithTimeout(ctx, d.sendTimeout)
	defer cancel()
	return d.driver.Send(sctx, to, body)
}

func (d *Dispatcher) appendLog(ctx context.Context, notificationID *string, resp string, sendErr error) {
	entry := &domain.NotificationLog{
		NotificationID: notificationID,
		SentAt:         d.clock.Now().UTC(),
		Status:         domain.StatusSent,
		Response:       resp,
	}
	if sendErr != nil {
		entry.Status = domain.StatusFailed
		entry.Response = sendErr.Error()
	}
	if err := d.store.AppendLog(ctx, entry); err != nil {
		d.log.Error().Err(err).Msg("could not append notification log")
	}
}
