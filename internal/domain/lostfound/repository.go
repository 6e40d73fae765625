package lostfound

import "context"

type ListFilter struct {
	Type       ReportType
	Status     ReportStatus
	Species    string
	ReporterID string
	Limit      int
}

type Repository interface {
	Create(ctx context.Context, r LostPetReport) error
	Update(ctx context.Context, r LostPetReport) error
	GetByID(ctx context.Context, id string) (LostPetReport, error)
	List(ctx context.Context, filter ListFilter) ([]LostPetReport, error)
	Delete(ctx context.Context, id string) error

	CreateSighting(ctx context.Context, s SightingReport) error
	ListSightings(ctx context.Context, reportID string) ([]SightingReport, error)
}
