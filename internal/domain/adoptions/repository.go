package adoptions

import "context"

type ListingFilter struct {
	OwnerID string
	Status  ListingStatus
	Species string
	Limit   int
}

type Repository interface {
	CreateListing(ctx context.Context, l Listing) error
	UpdateListing(ctx context.Context, l Listing) error
	GetListing(ctx context.Context, id string) (Listing, error)
	ListListings(ctx context.Context, filter ListingFilter) ([]Listing, error)

	CreateRequest(ctx context.Context, r AdoptionRequest) error
	UpdateRequest(ctx context.Context, r AdoptionRequest) error
	GetRequest(ctx context.Context, id string) (AdoptionRequest, error)
	ListRequestsByListing(ctx context.Context, listingID string) ([]AdoptionRequest, error)
	ListRequestsByRequester(ctx context.Context, requesterID string) ([]AdoptionRequest, error)
}
