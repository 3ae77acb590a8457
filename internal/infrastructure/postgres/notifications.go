package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/momentum-app/momentum-api/internal/domain"
)

// NotificationStore handles all relational state of the notification
// pipeline: the schedule table, the append-only log and the per-minute
// dispatch dedupe table.
type NotificationStore struct {
	db *sql.DB
}

func NewNotificationStore(db *sql.DB) *NotificationStore {
	return &NotificationStore{db: db}
}

// CreateScheduled inserts a new pending notification row.
func (s *NotificationStore) CreateScheduled(ctx context.Context, n *domain.ScheduledNotification) error {
	query := `
		INSERT INTO scheduled_notifications (id, user_id, message, scheduled_time, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(ctx, query,
		n.ID, n.UserID, n.Message, n.ScheduledTime, n.Status, n.CreatedAt, n.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert scheduled notification: %w", err)
	}
	return nil
}

// DeleteBefore removes all scheduled rows strictly older than cutoff and
// returns the number deleted. Re-running with the same cutoff deletes zero.
func (s *NotificationStore) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM scheduled_notifications WHERE scheduled_time < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete scheduled notifications: %w", err)
	}
	return res.RowsAffected()
}

// ListDue returns pending rows whose scheduled time has passed, oldest first.
func (s *NotificationStore) ListDue(ctx context.Context, now time.Time, limit int) ([]domain.ScheduledNotification, error) {
	query := `
		SELECT id, user_id, message, scheduled_time, status, created_at, updated_at
		FROM scheduled_notifications
		WHERE status = $1 AND scheduled_time <= $2
		ORDER BY scheduled_time
		LIMIT $3
	`
	rows, err := s.db.QueryContext(ctx, query, domain.StatusPending, now, limit)
	if err != nil {
		return nil, fmt.Errorf("query due notifications: %w", err)
	}
	defer rows.Close()

	var due []domain.ScheduledNotification
	for rows.Next() {
		var n domain.ScheduledNotification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Message, &n.ScheduledTime, &n.Status, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, err
		}
		due = append(due, n)
	}
	return due, rows.Err()
}

// UpdateStatus transitions a scheduled row to sent or failed.
func (s *NotificationStore) UpdateStatus(ctx context.Context, id string, status domain.NotificationStatus) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE scheduled_notifications SET status = $1, updated_at = NOW() WHERE id = $2`,
		status, id)
	if err != nil {
		return fmt.Errorf("update notification status: %w", err)
	}
	return nil
}

// AppendLog writes one audit row for a dispatch attempt. Log rows are never
// updated or deleted.
func (s *NotificationStore) AppendLog(ctx context.Context, l *domain.NotificationLog) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO notification_logs (notification_id, sent_at, status, response) VALUES ($1, $2, $3, $4)`,
		l.NotificationID, l.SentAt, l.Status, l.Response)
	if err != nil {
		return fmt.Errorf("insert notification log: %w", err)
	}
	return nil
}

// ClaimSlot records that the user's reminder for (day, HH:MM slot) is being
// dispatched. Returns false when another tick already claimed the slot, so
// the same minute never produces a second reminder for the same user.
func (s *NotificationStore) ClaimSlot(ctx context.Context, userID string, day time.Time, slot string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO notification_dispatches (user_id, slot_date, slot_time, sent_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (user_id, slot_date, slot_time) DO NOTHING
	`, userID, day.Format("2006-01-02"), slot)
	if err != nil {
		return false, fmt.Errorf("claim dispatch slot: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
