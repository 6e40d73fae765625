package adoptions

import "time"

// Listing es el anuncio de adopción publicado por un usuario, refugio
// o rescatista.
type Listing struct {
	ID      string
	OwnerID string

	PetName     string
	Species     string
	Breed       string
	Age         string
	Size        string
	Description string
	PhotoURLs   []string

	Status ListingStatus

	CreatedAt time.Time
	UpdatedAt time.Time
}

// AdoptionRequest es la postulación de un interesado sobre un anuncio.
// Las respuestas del formulario se guardan tal cual para que el dueño
// del anuncio decida.
type AdoptionRequest struct {
	ID          string
	ListingID   string
	RequesterID string

	HomeType     string
	HasOtherPets bool
	Experience   string
	Motive       string

	Status RequestStatus

	// Solo cuando se aprueba con encuentro agendado.
	MeetingAt    *time.Time
	MeetingPlace string

	CreatedAt time.Time
	UpdatedAt time.Time
}
