package service

import (
	"context"
	"net/mail"
	"strings"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

type GuestMessageService struct {
	Repo *repo.GormRepo
}

func (s *GuestMessageService) Create(ctx context.Context, name, email, message string) (*models.GuestMessage, error) {
	ve := &ValidationError{}
	if strings.TrimSpace(name) == "" {
		ve.Add("name", "The name field is required.")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		ve.Add("email", "The email field must be a valid email address.")
	}
	if strings.TrimSpace(message) == "" {
		ve.Add("message", "The message field is required.")
	}
	if err := ve.Err(); err != nil {
		return nil, err
	}

	m := &models.GuestMessage{Name: strings.TrimSpace(name), Email: email, Message: message}
	if err := s.Repo.CreateGuestMessage(ctx, m); err != nil {
		return nil, err
	}
	logging.FromContext(ctx).Info("guest_message_created", "svc", "guest_message.create", "id", m.ID)
	return m, nil
}

func (s *GuestMessageService) List(ctx context.Context, f repo.GuestMessageFilter) ([]models.GuestMessage, int64, error) {
	return s.Repo.ListGuestMessages(ctx, f)
}

func (s *GuestMessageService) Get(ctx context.Context, id uint) (*models.GuestMessage, error) {
	m, err := s.Repo.GetGuestMessage(ctx, id)
	if err != nil {
		return nil, notFound(err, "guest message")
	}
	return m, nil
}

func (s *GuestMessageService) SetRead(ctx context.Context, id uint, read bool) (*models.GuestMessage, error) {
	if err := s.Repo.SetGuestMessageRead(ctx, id, read); err != nil {
		return nil, notFound(err, "guest message")
	}
	return s.Get(ctx, id)
}

func (s *GuestMessageService) Delete(ctx context.Context, id uint) error {
	return notFound(s.Repo.DeleteGuestMessage(ctx, id), "guest message")
}

type GuestMessageStats struct {
	Total  int64 `json:"total"`
	Unread int64 `json:"unread"`
	Read   int64 `json:"read"`
}

func (s *GuestMessageService) Stats(ctx context.Context) (*GuestMessageStats, error) {
	total, unread, err := s.Repo.GuestMessageCounts(ctx)
	if err != nil {
		return nil, err
	}
	return &GuestMessageStats{Total: total, Unread: unread, Read: total - unread}, nil
}
