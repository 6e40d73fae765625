package messages

import "context"

type Repository interface {
	Create(ctx context.Context, m Message) error

	// ListForUser devuelve todos los mensajes donde el usuario es emisor
	// o receptor, en cualquier orden (el agregador no lo necesita).
	ListForUser(ctx context.Context, userID string) ([]Message, error)

	// ListThread devuelve los mensajes entre dos usuarios, ascendente
	// por fecha de creación.
	ListThread(ctx context.Context, userID, counterpartID string) ([]Message, error)

	// MarkThreadRead marca leídos todos los mensajes de counterpart
	// dirigidos a userID.
	MarkThreadRead(ctx context.Context, userID, counterpartID string) error
}
