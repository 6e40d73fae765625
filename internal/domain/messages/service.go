package messages

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
)

// Directory resuelve los datos de display de una contraparte.
// Lo implementa profiles.Service a través de un adapter en el router.
type Directory interface {
	DisplayInfo(ctx context.Context, userID string) (DisplayInfo, error)
}

// Publisher empuja el mensaje recién insertado al canal realtime del
// receptor. Best-effort: si no hay conexión no pasa nada.
type Publisher interface {
	PublishMessage(receiverID string, m Message)
}

type Service struct {
	repo      Repository
	directory Directory
	publisher Publisher
	now       func() time.Time
}

func NewService(repo Repository, directory Directory, publisher Publisher) *Service {
	return &Service{
		repo:      repo,
		directory: directory,
		publisher: publisher,
		now:       time.Now,
	}
}

type SendInput struct {
	ReceiverID string
	Text       string
	ImageURL   string
}

// Send inserta el mensaje y lo publica al receptor. Un mensaje necesita
// texto o imagen (o ambos); mandarse mensajes a uno mismo no está permitido.
func (s *Service) Send(ctx context.Context, senderID string, in SendInput) (Message, error) {
	senderID = strings.TrimSpace(senderID)
	receiverID := strings.TrimSpace(in.ReceiverID)
	text := strings.TrimSpace(in.Text)
	imageURL := strings.TrimSpace(in.ImageURL)

	if senderID == "" || receiverID == "" {
		return Message{}, ErrInvalidInput
	}
	if senderID == receiverID {
		return Message{}, ErrInvalidInput
	}
	if text == "" && imageURL == "" {
		return Message{}, ErrInvalidInput
	}

	m := Message{
		ID:         uuid.NewString(),
		SenderID:   senderID,
		ReceiverID: receiverID,
		Text:       text,
		ImageURL:   imageURL,
		Read:       false,
		CreatedAt:  s.now(),
	}

	if err := s.repo.Create(ctx, m); err != nil {
		return Message{}, err
	}

	if s.publisher != nil {
		s.publisher.PublishMessage(receiverID, m)
	}

	return m, nil
}

// Conversations agrupa los mensajes del usuario (ver aggregate.go).
func (s *Service) Conversations(ctx context.Context, userID string) ([]Conversation, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrInvalidInput
	}

	msgs, err := s.repo.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	// cache por request: cada contraparte se resuelve una sola vez
	cache := make(map[string]DisplayInfo)
	resolve := func(id string) (DisplayInfo, bool) {
		if info, ok := cache[id]; ok {
			return info, true
		}
		if s.directory == nil {
			return DisplayInfo{}, false
		}
		info, err := s.directory.DisplayInfo(ctx, id)
		if err != nil {
			return DisplayInfo{}, false
		}
		cache[id] = info
		return info, true
	}

	return Aggregate(userID, msgs, resolve), nil
}

func (s *Service) Thread(ctx context.Context, userID, counterpartID string) ([]Message, error) {
	userID = strings.TrimSpace(userID)
	counterpartID = strings.TrimSpace(counterpartID)
	if userID == "" || counterpartID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListThread(ctx, userID, counterpartID)
}

// MarkThreadRead marca leído todo lo que counterpart me mandó.
func (s *Service) MarkThreadRead(ctx context.Context, userID, counterpartID string) error {
	userID = strings.TrimSpace(userID)
	counterpartID = strings.TrimSpace(counterpartID)
	if userID == "" || counterpartID == "" {
		return ErrInvalidInput
	}
	return s.repo.MarkThreadRead(ctx, userID, counterpartID)
}
