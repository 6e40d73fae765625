package appointments

import "time"

// Appointment es la reserva de atención veterinaria. Se crea desde el
// borrador completo del wizard; nada se persiste antes del Submit.
type Appointment struct {
	ID      string
	OwnerID string
	VetID   string

	Service ServiceType

	PetName    string
	PetSpecies string
	PetBreed   string
	PetAge     string
	PetSex     string

	Vaccinated   bool
	Sterilized   bool
	Medicated    bool
	MedicalNotes string

	PreferredDate time.Time
	PreferredSlot TimeSlot
	Consent       bool

	Status Status

	// Lo fija el veterinario al confirmar.
	ScheduledAt      *time.Time
	CareInstructions string

	CreatedAt time.Time
	UpdatedAt time.Time
}
