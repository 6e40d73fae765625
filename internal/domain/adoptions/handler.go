package adoptions

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"pet-rescue-network/internal/middleware"
	"pet-rescue-network/internal/platform/images"
	"pet-rescue-network/internal/platform/objectstore"

	"github.com/go-chi/chi/v5"
)

const maxUploadBytes = 10 << 20

func RegisterRoutes(r chi.Router, svc *Service, store *objectstore.Store) {
	r.Route("/adoptions", func(ar chi.Router) {
		ar.Post("/", createListingHandler(svc))
		ar.Get("/", listListingsHandler(svc))
		ar.Get("/mine", myListingsHandler(svc))
		ar.Get("/requests/mine", myRequestsHandler(svc))

		ar.Route("/{listingID}", func(lr chi.Router) {
			lr.Get("/", getListingHandler(svc))
			lr.Post("/photos", uploadListingPhotoHandler(svc, store))
			lr.Post("/apply", applyHandler(svc))
			lr.Get("/requests", listRequestsHandler(svc))
		})

		ar.Post("/requests/{requestID}/approve", approveHandler(svc))
		ar.Post("/requests/{requestID}/reject", rejectHandler(svc))
	})
}

type createListingRequest struct {
	PetName     string `json:"pet_name"`
	Species     string `json:"species"`
	Breed       string `json:"breed"`
	Age         string `json:"age"`
	Size        string `json:"size"`
	Description string `json:"description"`
}

type applyRequest struct {
	HomeType     string `json:"home_type"`
	HasOtherPets bool   `json:"has_other_pets"`
	Experience   string `json:"experience"`
	Motive       string `json:"motive"`
}

type approveRequest struct {
	MeetingAt    string `json:"meeting_at"` // RFC3339, opcional
	MeetingPlace string `json:"meeting_place"`
}

type listingResponse struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	PetName     string    `json:"pet_name"`
	Species     string    `json:"species"`
	Breed       string    `json:"breed,omitempty"`
	Age         string    `json:"age,omitempty"`
	Size        string    `json:"size,omitempty"`
	Description string    `json:"description,omitempty"`
	PhotoURLs   []string  `json:"photo_urls,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type requestResponse struct {
	ID           string     `json:"id"`
	ListingID    string     `json:"listing_id"`
	RequesterID  string     `json:"requester_id"`
	HomeType     string     `json:"home_type,omitempty"`
	HasOtherPets bool       `json:"has_other_pets"`
	Experience   string     `json:"experience,omitempty"`
	Motive       string     `json:"motive,omitempty"`
	Status       string     `json:"status"`
	MeetingAt    *time.Time `json:"meeting_at,omitempty"`
	MeetingPlace string     `json:"meeting_place,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func createListingHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createListingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		l, err := svc.CreateListing(r.Context(), claims.UserID, CreateListingInput{
			PetName:     req.PetName,
			Species:     req.Species,
			Breed:       req.Breed,
			Age:         req.Age,
			Size:        req.Size,
			Description: req.Description,
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toListingResponse(l))
	}
}

func listListingsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		items, err := svc.ListListings(r.Context(), ListingFilter{
			Status:  ListingStatus(strings.TrimSpace(q.Get("status"))),
			Species: strings.TrimSpace(q.Get("species")),
		})
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, toListingResponses(items))
	}
}

func myListingsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.ListListings(r.Context(), ListingFilter{OwnerID: claims.UserID})
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, toListingResponses(items))
	}
}

func getListingHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l, err := svc.GetListing(r.Context(), chi.URLParam(r, "listingID"))
		if err != nil {
			http.Error(w, "listing not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, toListingResponse(l))
	}
}

func uploadListingPhotoHandler(svc *Service, store *objectstore.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			http.Error(w, "invalid upload", http.StatusBadRequest)
			return
		}
		f, hdr, err := r.FormFile("file")
		if err != nil {
			http.Error(w, "missing file", http.StatusBadRequest)
			return
		}
		defer f.Close()

		data, err := io.ReadAll(io.LimitReader(f, maxUploadBytes))
		if err != nil || len(data) == 0 {
			http.Error(w, "invalid upload", http.StatusBadRequest)
			return
		}

		name := hdr.Filename
		if compressed, cerr := images.Compress(data, images.DefaultMaxWidth, images.DefaultQuality); cerr == nil {
			data = compressed
			name = "photo.jpg"
		}

		url, err := store.Save(objectstore.BucketPetPhotos, name, data)
		if err != nil {
			http.Error(w, "upload failed", http.StatusInternalServerError)
			return
		}

		l, err := svc.AddListingPhoto(r.Context(), claims.UserID, chi.URLParam(r, "listingID"), url)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toListingResponse(l))
	}
}

func applyHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req applyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		out, err := svc.Apply(r.Context(), claims.UserID, chi.URLParam(r, "listingID"), ApplyInput{
			HomeType:     req.HomeType,
			HasOtherPets: req.HasOtherPets,
			Experience:   req.Experience,
			Motive:       req.Motive,
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toRequestResponse(out))
	}
}

func listRequestsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.ListRequests(r.Context(), claims.UserID, chi.URLParam(r, "listingID"))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toRequestResponses(items))
	}
}

func myRequestsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.MyRequests(r.Context(), claims.UserID)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toRequestResponses(items))
	}
}

func approveHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req approveRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		var in ApproveInput
		in.MeetingPlace = req.MeetingPlace
		if strings.TrimSpace(req.MeetingAt) != "" {
			at, err := time.Parse(time.RFC3339, req.MeetingAt)
			if err != nil {
				http.Error(w, "meeting_at must be RFC3339", http.StatusBadRequest)
				return
			}
			in.MeetingAt = &at
		}

		out, err := svc.Approve(r.Context(), claims.UserID, chi.URLParam(r, "requestID"), in)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toRequestResponse(out))
	}
}

func rejectHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		out, err := svc.Reject(r.Context(), claims.UserID, chi.URLParam(r, "requestID"))
		if err != nil {
			writeDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toRequestResponse(out))
	}
}

func toListingResponse(l Listing) listingResponse {
	return listingResponse{
		ID:          l.ID,
		OwnerID:     l.OwnerID,
		PetName:     l.PetName,
		Species:     l.Species,
		Breed:       l.Breed,
		Age:         l.Age,
		Size:        l.Size,
		Description: l.Description,
		PhotoURLs:   l.PhotoURLs,
		Status:      string(l.Status),
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
}

func toListingResponses(items []Listing) []listingResponse {
	out := make([]listingResponse, 0, len(items))
	for _, l := range items {
		out = append(out, toListingResponse(l))
	}
	return out
}

func toRequestResponse(r AdoptionRequest) requestResponse {
	return requestResponse{
		ID:           r.ID,
		ListingID:    r.ListingID,
		RequesterID:  r.RequesterID,
		HomeType:     r.HomeType,
		HasOtherPets: r.HasOtherPets,
		Experience:   r.Experience,
		Motive:       r.Motive,
		Status:       string(r.Status),
		MeetingAt:    r.MeetingAt,
		MeetingPlace: r.MeetingPlace,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func toRequestResponses(items []AdoptionRequest) []requestResponse {
	out := make([]requestResponse, 0, len(items))
	for _, r := range items {
		out = append(out, toRequestResponse(r))
	}
	return out
}

func writeDomainError(w http.ResponseWriter, err error) {
	switch err {
	case ErrInvalidInput:
		http.Error(w, err.Error(), http.StatusBadRequest)
	case ErrNotFound:
		http.Error(w, "not found", http.StatusNotFound)
	case ErrForbidden:
		http.Error(w, "forbidden", http.StatusForbidden)
	case ErrBadState:
		http.Error(w, "invalid state", http.StatusConflict)
	case ErrDuplicate:
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
