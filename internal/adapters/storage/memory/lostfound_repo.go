package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"pet-rescue-network/internal/domain/lostfound"
)

type lostFoundRepo struct {
	mu        sync.RWMutex
	byID      map[string]lostfound.LostPetReport
	sightings map[string][]lostfound.SightingReport // reportID -> asc por creación
}

func NewLostFoundRepo() lostfound.Repository {
	return &lostFoundRepo{
		byID:      make(map[string]lostfound.LostPetReport),
		sightings: make(map[string][]lostfound.SightingReport),
	}
}

func (r *lostFoundRepo) Create(ctx context.Context, rep lostfound.LostPetReport) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(rep.ID) == "" {
		return errors.New("report id required")
	}
	if _, exists := r.byID[rep.ID]; exists {
		return errors.New("report already exists")
	}
	r.byID[rep.ID] = rep
	return nil
}

func (r *lostFoundRepo) Update(ctx context.Context, rep lostfound.LostPetReport) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[rep.ID]; !exists {
		return ErrNotFound
	}
	r.byID[rep.ID] = rep
	return nil
}

func (r *lostFoundRepo) GetByID(ctx context.Context, id string) (lostfound.LostPetReport, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rep, ok := r.byID[id]
	if !ok {
		return lostfound.LostPetReport{}, ErrNotFound
	}
	return rep, nil
}

func (r *lostFoundRepo) List(ctx context.Context, filter lostfound.ListFilter) ([]lostfound.LostPetReport, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]lostfound.LostPetReport, 0)
	for _, rep := range r.byID {
		if filter.Type != "" && rep.Type != filter.Type {
			continue
		}
		if filter.Status != "" && rep.Status != filter.Status {
			continue
		}
		if filter.Species != "" && !strings.EqualFold(rep.Species, filter.Species) {
			continue
		}
		if filter.ReporterID != "" && rep.ReporterID != filter.ReporterID {
			continue
		}
		out = append(out, rep)
	}

	// Más recientes primero: es un feed
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r *lostFoundRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[id]; !exists {
		return ErrNotFound
	}
	delete(r.byID, id)
	delete(r.sightings, id)
	return nil
}

func (r *lostFoundRepo) CreateSighting(ctx context.Context, s lostfound.SightingReport) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(s.ID) == "" {
		return errors.New("sighting id required")
	}
	r.sightings[s.ReportID] = append(r.sightings[s.ReportID], s)
	return nil
}

func (r *lostFoundRepo) ListSightings(ctx context.Context, reportID string) ([]lostfound.SightingReport, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	src := r.sightings[reportID]
	out := make([]lostfound.SightingReport, len(src))
	copy(out, src)
	return out, nil
}
