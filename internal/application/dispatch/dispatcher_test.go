package dispatch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/momentum-app/momentum-api/internal/delivery"
	"github.com/momentum-app/momentum-api/internal/domain"
	"github.com/momentum-app/momentum-api/internal/pkg/clock"
)

// --- mocks ---

type mockProfiles struct{ mock.Mock }

func (m *mockProfiles) ListNotifiable(ctx context.Context, slot string) ([]domain.Profile, error) {
	args := m.Called(ctx, slot)
	return args.Get(0).([]domain.Profile), args.Error(1)
}

func (m *mockProfiles) Get(ctx context.Context, userID string) (*domain.Profile, error) {
	args := m.Called(ctx, userID)
	if p, _ := args.Get(0).(*domain.Profile); p != nil {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockStore struct{ mock.Mock }

func (m *mockStore) ClaimSlot(ctx context.Context, userID string, day time.Time, slot string) (bool, error) {
	args := m.Called(ctx, userID, day, slot)
	return args.Bool(0), args.Error(1)
}

func (m *mockStore) ListDue(ctx context.Context, now time.Time, limit int) ([]domain.ScheduledNotification, error) {
	args := m.Called(ctx, now, limit)
	return args.Get(0).([]domain.ScheduledNotification), args.Error(1)
}

func (m *mockStore) UpdateStatus(ctx context.Context, id string, status domain.NotificationStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *mockStore) AppendLog(ctx context.Context, l *domain.NotificationLog) error {
	return m.Called(ctx, l).Error(0)
}

type mockDriver struct{ mock.Mock }

func (m *mockDriver) Channel() delivery.Channel { return delivery.ChannelLog }

func (m *mockDriver) Send(ctx context.Context, to, body string) (string, error) {
	args := m.Called(ctx, to, body)
	return args.String(0), args.Error(1)
}

func newTestDispatcher(profiles *mockProfiles, store *mockStore, driver *mockDriver, now time.Time) *Dispatcher {
	return New(Deps{
		Profiles: profiles,
		Store:    store,
		Driver:   driver,
		Clock:    clock.Fixed{T: now},
		Log:      zerolog.Nop(),
	})
}

func noDue(store *mockStore) {
	store.On("ListDue", mock.Anything, mock.Anything, mock.Anything).
		Return([]domain.ScheduledNotification{}, nil)
}

var nineAM = time.Date(2026, 8, 27, 9, 0, 0, 0, time.UTC)

// --- reminder tests ---

func TestTick_SendsReminderToMatchedProfile(t *testing.T) {
	profiles := &mockProfiles{}
	profiles.On("ListNotifiable", mock.Anything, "09:00").Return([]domain.Profile{
		{UserID: "u1", WhatsAppNumber: "+5215512345678", NotificationTimes: []string{"09:00"}},
	}, nil)
	store := &mockStore{}
	store.On("ClaimSlot", mock.Anything, "u1", nineAM, "09:00").Return(true, nil)
	store.On("AppendLog", mock.Anything, mock.MatchedBy(func(l *domain.NotificationLog) bool {
		return l.Status == domain.StatusSent && l.NotificationID == nil
	})).Return(nil)
	noDue(store)
	driver := &mockDriver{}
	driver.On("Send", mock.Anything, "+5215512345678", ReminderMessage).Return("SM1", nil)

	d := newTestDispatcher(profiles, store, driver, nineAM)
	require.NoError(t, d.Tick(context.Background()))
	driver.AssertExpectations(t)
	store.AssertExpectations(t)
}

func TestTick_SkipsAlreadyClaimedSlot(t *testing.T) {
	profiles := &mockProfiles{}
	profiles.On("ListNotifiable", mock.Anything, "09:00").Return([]domain.Profile{
		{UserID: "u1", WhatsAppNumber: "+5215512345678"},
	}, nil)
	store := &mockStore{}
	store.On("ClaimSlot", mock.Anything, "u1", nineAM, "09:00").Return(false, nil)
	noDue(store)
	driver := &mockDriver{}

	d := newTestDispatcher(profiles, store, driver, nineAM)
	require.NoError(t, d.Tick(context.Background()))
	driver.AssertNotCalled(t, "Send")
	store.AssertNotCalled(t, "AppendLog")
}

func TestTick_OneFailureDoesNotBlockOthers(t *testing.T) {
	profiles := &mockProfiles{}
	profiles.On("ListNotifiable", mock.Anything, "09:00").Return([]domain.Profile{
		{UserID: "u1", WhatsAppNumber: "+111"},
		{UserID: "u2", WhatsAppNumber: "+222"},
	}, nil)
	store := &mockStore{}
	store.On("ClaimSlot", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(true, nil)
	store.On("AppendLog", mock.Anything, mock.Anything).Return(nil)
	noDue(store)
	driver := &mockDriver{}
	driver.On("Send", mock.Anything, "+111", ReminderMessage).Return("", errors.New("unreachable"))
	driver.On("Send", mock.Anything, "+222", ReminderMessage).Return("SM2", nil)

	d := newTestDispatcher(profiles, store, driver, nineAM)
	require.NoError(t, d.Tick(context.Background()))
	driver.AssertExpectations(t)
	store.AssertNumberOfCalls(t, "AppendLog", 2)
}

func TestTick_NoMatchesAtOffMinute(t *testing.T) {
	at := time.Date(2026, 8, 27, 9, 1, 0, 0, time.UTC)
	profiles := &mockProfiles{}
	profiles.On("ListNotifiable", mock.Anything, "09:01").Return([]domain.Profile{}, nil)
	store := &mockStore{}
	noDue(store)
	driver := &mockDriver{}

	d := newTestDispatcher(profiles, store, driver, at)
	require.NoError(t, d.Tick(context.Background()))
	driver.AssertNotCalled(t, "Send")
}

func TestTick_ListFailureIsReturned(t *testing.T) {
	profiles := &mockProfiles{}
	profiles.On("ListNotifiable", mock.Anything, mock.Anything).
		Return([]domain.Profile{}, errors.New("dynamo down"))
	store := &mockStore{}
	driver := &mockDriver{}

	d := newTestDispatcher(profiles, store, driver, nineAM)
	err := d.Tick(context.Background())
	assert.Error(t, err)
	store.AssertNotCalled(t, "ListDue")
}

// --- due scheduled notification tests ---

func TestTick_DispatchesDueNotification(t *testing.T) {
	profiles := &mockProfiles{}
	profiles.On("ListNotifiable", mock.Anything, mock.Anything).Return([]domain.Profile{}, nil)
	profiles.On("Get", mock.Anything, "u1").
		Return(&domain.Profile{UserID: "u1", WhatsAppNumber: "+5215512345678"}, nil)
	store := &mockStore{}
	store.On("ListDue", mock.Anything, nineAM, mock.Anything).Return([]domain.ScheduledNotification{
		{ID: "n1", UserID: "u1", Message: "drink water", Status: domain.StatusPending},
	}, nil)
	store.On("UpdateStatus", mock.Anything, "n1", domain.StatusSent).Return(nil)
	store.On("AppendLog", mock.Anything, mock.MatchedBy(func(l *domain.NotificationLog) bool {
		return l.NotificationID != nil && *l.NotificationID == "n1" && l.Status == domain.StatusSent
	})).Return(nil)
	driver := &mockDriver{}
	driver.On("Send", mock.Anything, "+5215512345678", "drink water").Return("SM3", nil)

	d := newTestDispatcher(profiles, store, driver, nineAM)
	require.NoError(t, d.Tick(context.Background()))
	store.AssertExpectations(t)
	driver.AssertExpectations(t)
}

func TestTick_DueNotificationWithoutProfileFails(t *testing.T) {
	profiles := &mockProfiles{}
	profiles.On("ListNotifiable", mock.Anything, mock.Anything).Return([]domain.Profile{}, nil)
	profiles.On("Get", mock.Anything, "ghost").Return(nil, domain.ErrNotFound)
	store := &mockStore{}
	store.On("ListDue", mock.Anything, mock.Anything, mock.Anything).Return([]domain.ScheduledNotification{
		{ID: "n1", UserID: "ghost", Message: "hi", Status: domain.StatusPending},
	}, nil)
	store.On("UpdateStatus", mock.Anything, "n1", domain.StatusFailed).Return(nil)
	store.On("AppendLog", mock.Anything, mock.MatchedBy(func(l *domain.NotificationLog) bool {
		return l.Status == domain.StatusFailed
	})).Return(nil)
	driver := &mockDriver{}

	d := newTestDispatcher(profiles, store, driver, nineAM)
	require.NoError(t, d.Tick(context.Background()))
	driver.AssertNotCalled(t, "Send")
	store.AssertExpectations(t)
}
