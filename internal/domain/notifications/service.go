package notifications

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"pet-rescue-network/internal/platform/logger"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
)

// Publisher empuja la notificación recién insertada al canal realtime
// del destinatario. Best-effort: si no hay conexión no pasa nada.
type Publisher interface {
	PublishNotification(userID string, n Notification)
}

type Service struct {
	repo      Repository
	publisher Publisher
	log       logger.Logger
	now       func() time.Time
}

func NewService(repo Repository, publisher Publisher, log logger.Logger) *Service {
	return &Service{
		repo:      repo,
		publisher: publisher,
		log:       log,
		now:       time.Now,
	}
}

// Notify inserta y publica. Best-effort de punta a punta: los dominios
// que notifican no quieren enterarse de fallas acá, así que el error
// solo se loguea.
func (s *Service) Notify(ctx context.Context, userID, ntype, message, link string) {
	userID = strings.TrimSpace(userID)
	message = strings.TrimSpace(message)
	if userID == "" || message == "" {
		return
	}

	n := Notification{
		ID:        uuid.NewString(),
		UserID:    userID,
		Type:      strings.TrimSpace(ntype),
		Message:   message,
		Link:      strings.TrimSpace(link),
		CreatedAt: s.now(),
	}

	if err := s.repo.Create(ctx, n); err != nil {
		if s.log != nil {
			s.log.Warn("notification insert failed", map[string]any{
				"user_id": userID,
				"type":    ntype,
				"error":   err.Error(),
			})
		}
		return
	}

	if s.publisher != nil {
		s.publisher.PublishNotification(userID, n)
	}
}

func (s *Service) List(ctx context.Context, userID string, limit int) ([]Notification, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListForUser(ctx, userID, limit)
}

func (s *Service) UnreadCount(ctx context.Context, userID string) (int, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return 0, ErrInvalidInput
	}
	return s.repo.CountUnread(ctx, userID)
}

// MarkRead es idempotente; marcar algo ajeno o inexistente da ErrNotFound.
func (s *Service) MarkRead(ctx context.Context, userID, id string) error {
	userID = strings.TrimSpace(userID)
	id = strings.TrimSpace(id)
	if userID == "" || id == "" {
		return ErrInvalidInput
	}
	if err := s.repo.MarkRead(ctx, userID, id); err != nil {
		return ErrNotFound
	}
	return nil
}

func (s *Service) MarkAllRead(ctx context.Context, userID string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return ErrInvalidInput
	}
	return s.repo.MarkAllRead(ctx, userID)
}
