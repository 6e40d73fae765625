package lostfound

import "time"

// LostPetReport es el reporte de mascota perdida/encontrada.
// Lo muta el dueño, el rescatista asignado a la custodia o un admin
// (borrado); el ciclo de vida blando va por Status.
type LostPetReport struct {
	ID         string
	ReporterID string

	Type ReportType

	PetName     string
	Species     string
	Breed       string
	Colors      string
	Size        string
	Description string
	PhotoURLs   []string

	LocationText string
	Lat          float64
	Lng          float64

	Status ReportStatus

	// Custodia: solo para reportes "found".
	Custody          CustodyStatus
	CustodyRescuerID string // vacío salvo custodia con rescatista
	PickupAt         *time.Time
	PickupNote       string

	ContactPhone string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// SightingReport es el avistamiento hijo de un reporte. Append-only;
// ReporterID vacío = avistamiento anónimo.
type SightingReport struct {
	ID       string
	ReportID string

	ReporterID string

	LocationText string
	Lat          float64
	Lng          float64
	PhotoURL     string
	Note         string

	CreatedAt time.Time
}
