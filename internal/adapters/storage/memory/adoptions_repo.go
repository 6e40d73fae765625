package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"pet-rescue-network/internal/domain/adoptions"
)

type adoptionRepo struct {
	mu       sync.RWMutex
	listings map[string]adoptions.Listing
	requests map[string]adoptions.AdoptionRequest
}

func NewAdoptionRepo() adoptions.Repository {
	return &adoptionRepo{
		listings: make(map[string]adoptions.Listing),
		requests: make(map[string]adoptions.AdoptionRequest),
	}
}

func (r *adoptionRepo) CreateListing(ctx context.Context, l adoptions.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(l.ID) == "" {
		return errors.New("listing id required")
	}
	if _, exists := r.listings[l.ID]; exists {
		return errors.New("listing already exists")
	}
	r.listings[l.ID] = l
	return nil
}

func (r *adoptionRepo) UpdateListing(ctx context.Context, l adoptions.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.listings[l.ID]; !exists {
		return ErrNotFound
	}
	r.listings[l.ID] = l
	return nil
}

func (r *adoptionRepo) GetListing(ctx context.Context, id string) (adoptions.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	l, ok := r.listings[id]
	if !ok {
		return adoptions.Listing{}, ErrNotFound
	}
	return l, nil
}

func (r *adoptionRepo) ListListings(ctx context.Context, filter adoptions.ListingFilter) ([]adoptions.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]adoptions.Listing, 0)
	for _, l := range r.listings {
		if filter.OwnerID != "" && l.OwnerID != filter.OwnerID {
			continue
		}
		if filter.Status != "" && l.Status != filter.Status {
			continue
		}
		if filter.Species != "" && !strings.EqualFold(l.Species, filter.Species) {
			continue
		}
		out = append(out, l)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r *adoptionRepo) CreateRequest(ctx context.Context, req adoptions.AdoptionRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(req.ID) == "" {
		return errors.New("request id required")
	}
	if _, exists := r.requests[req.ID]; exists {
		return errors.New("request already exists")
	}
	r.requests[req.ID] = req
	return nil
}

func (r *adoptionRepo) UpdateRequest(ctx context.Context, req adoptions.AdoptionRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.requests[req.ID]; !exists {
		return ErrNotFound
	}
	r.requests[req.ID] = req
	return nil
}

func (r *adoptionRepo) GetRequest(ctx context.Context, id string) (adoptions.AdoptionRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	req, ok := r.requests[id]
	if !ok {
		return adoptions.AdoptionRequest{}, ErrNotFound
	}
	return req, nil
}

func (r *adoptionRepo) ListRequestsByListing(ctx context.Context, listingID string) ([]adoptions.AdoptionRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]adoptions.AdoptionRequest, 0)
	for _, req := range r.requests {
		if req.ListingID == listingID {
			out = append(out, req)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *adoptionRepo) ListRequestsByRequester(ctx context.Context, requesterID string) ([]adoptions.AdoptionRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]adoptions.AdoptionRequest, 0)
	for _, req := range r.requests {
		if req.RequesterID == requesterID {
			out = append(out, req)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}
