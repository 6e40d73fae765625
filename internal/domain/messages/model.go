package messages

import "time"

// Message siempre tiene exactamente un emisor y un receptor.
// Inmutable salvo el flag de leído, que marca el receptor.
type Message struct {
	ID         string
	SenderID   string
	ReceiverID string

	Text     string
	ImageURL string

	Read      bool
	CreatedAt time.Time
}

// Conversation es el resumen derivado por contraparte: último mensaje
// como representante y conteo de no leídos dirigidos al usuario.
type Conversation struct {
	CounterpartID     string
	CounterpartName   string
	CounterpartAvatar string

	LastMessage Message
	UnreadCount int
}
