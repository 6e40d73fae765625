package notifications

import "time"

// Notification es el aviso in-app. Type agrupa por origen
// (message, sighting, custody, adoption, appointment, verification).
type Notification struct {
	ID      string
	UserID  string
	Type    string
	Message string
	Link    string
	Read    bool

	CreatedAt time.Time
}
