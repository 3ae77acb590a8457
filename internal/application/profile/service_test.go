package profile

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/momentum-app/momentum-api/internal/domain"
)

// --- mocks ---

type mockProfileStore struct{ mock.Mock }

func (m *mockProfileStore) Put(ctx context.Context, p *domain.Profile) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockProfileStore) Get(ctx context.Context, userID string) (*domain.Profile, error) {
	args := m.Called(ctx, userID)
	if p, _ := args.Get(0).(*domain.Profile); p != nil {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockProfileStore) GetByUsername(ctx context.Context, username string) (*domain.Profile, error) {
	args := m.Called(ctx, username)
	if p, _ := args.Get(0).(*domain.Profile); p != nil {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockProfileStore) Update(ctx context.Context, userID string, updates map[string]interface{}) error {
	return m.Called(ctx, userID, updates).Error(0)
}

type mockObjectStore struct{ mock.Mock }

func (m *mockObjectStore) Upload(ctx context.Context, key string, r io.Reader, contentType string) error {
	return m.Called(ctx, key, r, contentType).Error(0)
}

func (m *mockObjectStore) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	args := m.Called(ctx, key)
	if rc, _ := args.Get(0).(io.ReadCloser); rc != nil {
		return rc, args.Error(1)
	}
	return nil, args.Error(1)
}

func newTestService(profiles *mockProfileStore, objects *mockObjectStore) Service {
	return NewService(ServiceDeps{Profiles: profiles, Objects: objects})
}

// --- Create tests ---

func TestCreate_DefaultsApplied(t *testing.T) {
	profiles := &mockProfileStore{}
	profiles.On("GetByUsername", mock.Anything, "alice").Return(nil, domain.ErrNotFound)
	var saved *domain.Profile
	profiles.On("Put", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { saved = args.Get(1).(*domain.Profile) }).
		Return(nil)
	svc := newTestService(profiles, &mockObjectStore{})

	p, err := svc.Create(context.Background(), domain.CreateProfileRequest{
		Username: "alice", FullName: "Alice Smith",
	})
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.NotEmpty(t, p.UserID)
	assert.Equal(t, domain.DefaultNotificationTimes, saved.NotificationTimes)
	assert.True(t, saved.EnableNotifications)
	assert.NotNil(t, saved.SelectedInterests)
	profiles.AssertExpectations(t)
}

func TestCreate_KeepsProvidedTimes(t *testing.T) {
	profiles := &mockProfileStore{}
	profiles.On("GetByUsername", mock.Anything, "alice").Return(nil, domain.ErrNotFound)
	profiles.On("Put", mock.Anything, mock.Anything).Return(nil)
	svc := newTestService(profiles, &mockObjectStore{})

	p, err := svc.Create(context.Background(), domain.CreateProfileRequest{
		Username: "alice", FullName: "Alice Smith", NotificationTimes: []string{"21:30"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"21:30"}, p.NotificationTimes)
}

func TestCreate_RejectsBadSlot(t *testing.T) {
	profiles := &mockProfileStore{}
	svc := newTestService(profiles, &mockObjectStore{})

	_, err := svc.Create(context.Background(), domain.CreateProfileRequest{
		Username: "alice", FullName: "Alice Smith", NotificationTimes: []string{"25:99"},
	})
	assert.ErrorIs(t, err, domain.ErrBadRequest)
	profiles.AssertNotCalled(t, "Put")
}

func TestCreate_ValidationFailure(t *testing.T) {
	profiles := &mockProfileStore{}
	svc := newTestService(profiles, &mockObjectStore{})

	_, err := svc.Create(context.Background(), domain.CreateProfileRequest{Username: "alice"})
	assert.ErrorIs(t, err, domain.ErrBadRequest)
	profiles.AssertNotCalled(t, "Put")
}

func TestCreate_UsernameTaken(t *testing.T) {
	profiles := &mockProfileStore{}
	profiles.On("GetByUsername", mock.Anything, "alice").
		Return(&domain.Profile{UserID: "u1", Username: "alice"}, nil)
	svc := newTestService(profiles, &mockObjectStore{})

	_, err := svc.Create(context.Background(), domain.CreateProfileRequest{
		Username: "alice", FullName: "Alice Smith",
	})
	assert.ErrorIs(t, err, domain.ErrConflict)
	profiles.AssertNotCalled(t, "Put")
}

// --- Update tests ---

func TestUpdate_UnknownUser(t *testing.T) {
	profiles := &mockProfileStore{}
	profiles.On("Get", mock.Anything, "missing").Return(nil, domain.ErrNotFound)
	svc := newTestService(profiles, &mockObjectStore{})

	name := "Bob"
	err := svc.Update(context.Background(), "missing", domain.UpdateProfileRequest{FullName: &name})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	profiles.AssertNotCalled(t, "Update")
}

func TestUpdate_EmptyRequestIsNoop(t *testing.T) {
	profiles := &mockProfileStore{}
	profiles.On("Get", mock.Anything, "u1").Return(&domain.Profile{UserID: "u1"}, nil)
	svc := newTestService(profiles, &mockObjectStore{})

	err := svc.Update(context.Background(), "u1", domain.UpdateProfileRequest{})
	require.NoError(t, err)
	profiles.AssertNotCalled(t, "Update")
}

func TestUpdate_OnlyProvidedFields(t *testing.T) {
	profiles := &mockProfileStore{}
	profiles.On("Get", mock.Anything, "u1").Return(&domain.Profile{UserID: "u1"}, nil)
	times := []string{"07:00", "21:30"}
	enabled := false
	profiles.On("Update", mock.Anything, "u1", map[string]interface{}{
		"notification_times":   times,
		"enable_notifications": enabled,
	}).Return(nil)
	svc := newTestService(profiles, &mockObjectStore{})

	err := svc.Update(context.Background(), "u1", domain.UpdateProfileRequest{
		NotificationTimes:   &times,
		EnableNotifications: &enabled,
	})
	require.NoError(t, err)
	profiles.AssertExpectations(t)
}

func TestUpdate_RejectsBadSlot(t *testing.T) {
	profiles := &mockProfileStore{}
	svc := newTestService(profiles, &mockObjectStore{})

	times := []string{"7am"}
	err := svc.Update(context.Background(), "u1", domain.UpdateProfileRequest{NotificationTimes: &times})
	assert.ErrorIs(t, err, domain.ErrBadRequest)
	profiles.AssertNotCalled(t, "Get")
}

// --- Picture tests ---

func TestUploadPicture_StoresKeyOnProfile(t *testing.T) {
	profiles := &mockProfileStore{}
	profiles.On("Get", mock.Anything, "u1").Return(&domain.Profile{UserID: "u1"}, nil)
	profiles.On("Update", mock.Anything, "u1", map[string]interface{}{
		"picture_key": "profile-pictures/u1",
	}).Return(nil)
	objects := &mockObjectStore{}
	objects.On("Upload", mock.Anything, "profile-pictures/u1", mock.Anything, "image/png").Return(nil)
	svc := newTestService(profiles, objects)

	err := svc.UploadPicture(context.Background(), "u1", bytes.NewReader([]byte("png")), "image/png")
	require.NoError(t, err)
	profiles.AssertExpectations(t)
	objects.AssertExpectations(t)
}

func TestUploadPicture_UnknownUser(t *testing.T) {
	profiles := &mockProfileStore{}
	profiles.On("Get", mock.Anything, "missing").Return(nil, domain.ErrNotFound)
	objects := &mockObjectStore{}
	svc := newTestService(profiles, objects)

	err := svc.UploadPicture(context.Background(), "missing", bytes.NewReader(nil), "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	objects.AssertNotCalled(t, "Upload")
}

func TestDownloadPicture_NoPictureSet(t *testing.T) {
	profiles := &mockProfileStore{}
	profiles.On("Get", mock.Anything, "u1").Return(&domain.Profile{UserID: "u1"}, nil)
	objects := &mockObjectStore{}
	svc := newTestService(profiles, objects)

	_, err := svc.DownloadPicture(context.Background(), "u1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	objects.AssertNotCalled(t, "Download")
}

func TestDownloadPicture_HappyPath(t *testing.T) {
	profiles := &mockProfileStore{}
	profiles.On("Get", mock.Anything, "u1").
		Return(&domain.Profile{UserID: "u1", PictureKey: "profile-pictures/u1"}, nil)
	objects := &mockObjectStore{}
	objects.On("Download", mock.Anything, "profile-pictures/u1").
		Return(io.NopCloser(bytes.NewReader([]byte("jpeg"))), nil)
	svc := newTestService(profiles, objects)

	rc, err := svc.DownloadPicture(context.Background(), "u1")
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "jpeg", string(data))
	objects.AssertExpectations(t)
}
