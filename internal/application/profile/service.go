package profile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/momentum-app/momentum-api/internal/domain"
	"github.com/momentum-app/momentum-api/internal/pkg/id"
	"github.com/momentum-app/momentum-api/internal/pkg/validate"
)

// ProfileStore is the minimal interface the service requires from the
// profile document store.
type ProfileStore interface {
	Put(ctx context.Context, p *domain.Profile) error
	Get(ctx context.Context, userID string) (*domain.Profile, error)
	GetByUsername(ctx context.Context, username string) (*domain.Profile, error)
	Update(ctx context.Context, userID string, updates map[string]interface{}) error
}

// ObjectStore is the minimal interface the service requires from the
// picture object store.
type ObjectStore interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) error
	Download(ctx context.Context, key string) (io.ReadCloser, error)
}

type Service interface {
	Create(ctx context.Context, req domain.CreateProfileRequest) (*domain.Profile, error)
	Get(ctx context.Context, userID string) (*domain.Profile, error)
	Update(ctx context.Context, userID string, req domain.UpdateProfileRequest) error
	UploadPicture(ctx context.Context, userID string, r io.Reader, contentType string) error
	DownloadPicture(ctx context.Context, userID string) (io.ReadCloser, error)
}

type ServiceDeps struct {
	Profiles ProfileStore
	Objects  ObjectStore
}

type service struct {
	profiles ProfileStore
	objects  ObjectStore
}

func NewService(deps ServiceDeps) Service {
	return &service{profiles: deps.Profiles, objects: deps.Objects}
}

func (s *service) Create(ctx context.Context, req domain.CreateProfileRequest) (*domain.Profile, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%s: %w", err.Error(), domain.ErrBadRequest)
	}
	if !domain.ValidSlots(req.NotificationTimes) {
		return nil, fmt.Errorf("notification_times must be HH:MM: %w", domain.ErrBadRequest)
	}

	switch _, err := s.profiles.GetByUsername(ctx, req.Username); {
	case err == nil:
		return nil, fmt.Errorf("username %s taken: %w", req.Username, domain.ErrConflict)
	case !errors.Is(err, domain.ErrNotFound):
		return nil, err
	}

	times := req.NotificationTimes
	if len(times) == 0 {
		times = append([]string(nil), domain.DefaultNotificationTimes...)
	}
	interests := req.SelectedInterests
	if interests == nil {
		interests = []string{}
	}

	now := time.Now().UTC()
	p := &domain.Profile{
		UserID:              id.New(),
		Username:            req.Username,
		FullName:            req.FullName,
		WhatsAppNumber:      req.WhatsAppNumber,
		NotificationTimes:   times,
		SelectedInterests:   interests,
		EnableNotifications: true,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if err := s.profiles.Put(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) Get(ctx context.Context, userID string) (*domain.Profile, error) {
	return s.profiles.Get(ctx, userID)
}

func (s *service) Update(ctx context.Context, userID string, req domain.UpdateProfileRequest) error {
	if req.NotificationTimes != nil && !domain.ValidSlots(*req.NotificationTimes) {
		return fmt.Errorf("notification_times must be HH:MM: %w", domain.ErrBadRequest)
	}

	// Existence check first: a blind document update would silently create a
	// new item for an unknown user.
	if _, err := s.profiles.Get(ctx, userID); err != nil {
		return err
	}

	updates := map[string]interface{}{}
	if req.Username != nil {
		updates["username"] = *req.Username
	}
	if req.FullName != nil {
		updates["full_name"] = *req.FullName
	}
	if req.WhatsAppNumber != nil {
		updates["whatsapp_number"] = *req.WhatsAppNumber
	}
	if req.NotificationTimes != nil {
		updates["notification_times"] = *req.NotificationTimes
	}
	if req.SelectedInterests != nil {
		updates["selected_interests"] = *req.SelectedInterests
	}
	if req.EnableNotifications != nil {
		updates["enable_notifications"] = *req.EnableNotifications
	}
	if len(updates) == 0 {
		return nil
	}
	return s.profiles.Update(ctx, userID, updates)
}

func (s *service) UploadPicture(ctx context.Context, userID string, r io.Reader, contentType string) error {
	if _, err := s.profiles.Get(ctx, userID); err != nil {
		return err
	}
	if contentType == "" {
		contentType = "image/jpeg"
	}
	key := pictureKey(userID)
	if err := s.objects.Upload(ctx, key, r, contentType); err != nil {
		return err
	}
	return s.profiles.Update(ctx, userID, map[string]interface{}{"picture_key": key})
}

func (s *service) DownloadPicture(ctx context.Context, userID string) (io.ReadCloser, error) {
	p, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if p.PictureKey == "" {
		return nil, fmt.Errorf("profile picture: %w", domain.ErrNotFound)
	}
	return s.objects.Download(ctx, p.PictureKey)
}

func pictureKey(userID string) string {
	return "profile-pictures/" + userID
}
