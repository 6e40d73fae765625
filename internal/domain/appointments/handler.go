package appointments

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"pet-rescue-network/internal/domain/profiles"
	"pet-rescue-network/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, profilesSvc *profiles.Service) {
	r.Route("/appointments", func(ar chi.Router) {
		ar.Post("/", createHandler(svc, profilesSvc))
		ar.Get("/mine", myAppointmentsHandler(svc))
		ar.Get("/queue", vetQueueHandler(svc))

		ar.Route("/{appointmentID}", func(ir chi.Router) {
			ir.Get("/", getHandler(svc))
			ir.Post("/confirm", confirmHandler(svc))
			ir.Post("/reject", rejectHandler(svc))
			ir.Post("/cancel", cancelHandler(svc))
			ir.Post("/complete", completeHandler(svc))
		})
	})
}

type createRequest struct {
	Service string `json:"service"`

	PetName    string `json:"pet_name"`
	PetSpecies string `json:"pet_species"`
	PetBreed   string `json:"pet_breed"`
	PetAge     string `json:"pet_age"`
	PetSex     string `json:"pet_sex"`

	Vaccinated   bool   `json:"vaccinated"`
	Sterilized   bool   `json:"sterilized"`
	Medicated    bool   `json:"medicated"`
	MedicalNotes string `json:"medical_notes"`

	VetID string `json:"vet_id"`

	PreferredDate string `json:"preferred_date"` // YYYY-MM-DD
	PreferredSlot string `json:"preferred_slot"`
	Consent       bool   `json:"consent"`
}

type confirmRequest struct {
	ScheduledAt      string `json:"scheduled_at"` // RFC3339
	CareInstructions string `json:"care_instructions"`
}

type appointmentResponse struct {
	ID      string `json:"id"`
	OwnerID string `json:"owner_id"`
	VetID   string `json:"vet_id"`

	Service string `json:"service"`

	PetName    string `json:"pet_name"`
	PetSpecies string `json:"pet_species"`
	PetBreed   string `json:"pet_breed,omitempty"`
	PetAge     string `json:"pet_age,omitempty"`
	PetSex     string `json:"pet_sex,omitempty"`

	Vaccinated   bool   `json:"vaccinated"`
	Sterilized   bool   `json:"sterilized"`
	Medicated    bool   `json:"medicated"`
	MedicalNotes string `json:"medical_notes,omitempty"`

	PreferredDate string `json:"preferred_date"`
	PreferredSlot string `json:"preferred_slot"`

	Status string `json:"status"`

	ScheduledAt      *time.Time `json:"scheduled_at,omitempty"`
	CareInstructions string     `json:"care_instructions,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func createHandler(svc *Service, profilesSvc *profiles.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		// La cita solo puede apuntar a una vet real: sobre el vet_id
		// se cuelgan confirmar/rechazar/completar.
		if vid := strings.TrimSpace(req.VetID); vid != "" {
			role, err := profilesSvc.RoleOf(r.Context(), vid)
			if err != nil || role != profiles.RoleVet {
				http.Error(w, "vet_id must be a vet", http.StatusBadRequest)
				return
			}
		}

		draft := Draft{
			Service:       ServiceType(req.Service),
			PetName:       req.PetName,
			PetSpecies:    req.PetSpecies,
			PetBreed:      req.PetBreed,
			PetAge:        req.PetAge,
			PetSex:        req.PetSex,
			Vaccinated:    req.Vaccinated,
			Sterilized:    req.Sterilized,
			Medicated:     req.Medicated,
			MedicalNotes:  req.MedicalNotes,
			VetID:         req.VetID,
			PreferredSlot: TimeSlot(req.PreferredSlot),
			Consent:       req.Consent,
		}
		if v := strings.TrimSpace(req.PreferredDate); v != "" {
			d, err := time.Parse("2006-01-02", v)
			if err != nil {
				http.Error(w, "preferred_date must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			draft.PreferredDate = d
		}

		// El borrador se valida completo como haría el wizard; el
		// primer paso incompleto sale con su mensaje.
		wiz := Wizard{Draft: draft}
		if ok, _, msg := wiz.Complete(); !ok {
			http.Error(w, msg, http.StatusBadRequest)
			return
		}

		a, err := svc.Create(r.Context(), claims.UserID, draft)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toResponse(a))
	}
}

func myAppointmentsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.ListByOwner(r.Context(), claims.UserID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, toResponses(items))
	}
}

func vetQueueHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.ListByVet(r.Context(), claims.UserID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, toResponses(items))
	}
}

func getHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		a, err := svc.GetByID(r.Context(), claims.UserID, chi.URLParam(r, "appointmentID"))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toResponse(a))
	}
}

func confirmHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req confirmRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		at, err := time.Parse(time.RFC3339, req.ScheduledAt)
		if err != nil {
			http.Error(w, "scheduled_at must be RFC3339", http.StatusBadRequest)
			return
		}

		a, err := svc.Confirm(r.Context(), claims.UserID, chi.URLParam(r, "appointmentID"), at, req.CareInstructions)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toResponse(a))
	}
}

func rejectHandler(svc *Service) http.HandlerFunc {
	return decisionHandler(func(userID string, r *http.Request, svc *Service) (Appointment, error) {
		return svc.Reject(r.Context(), userID, chi.URLParam(r, "appointmentID"))
	}, svc)
}

func cancelHandler(svc *Service) http.HandlerFunc {
	return decisionHandler(func(userID string, r *http.Request, svc *Service) (Appointment, error) {
		return svc.Cancel(r.Context(), userID, chi.URLParam(r, "appointmentID"))
	}, svc)
}

func completeHandler(svc *Service) http.HandlerFunc {
	return decisionHandler(func(userID string, r *http.Request, svc *Service) (Appointment, error) {
		return svc.Complete(r.Context(), userID, chi.URLParam(r, "appointmentID"))
	}, svc)
}

func decisionHandler(fn func(userID string, r *http.Request, svc *Service) (Appointment, error), svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		a, err := fn(claims.UserID, r, svc)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toResponse(a))
	}
}

func toResponse(a Appointment) appointmentResponse {
	resp := appointmentResponse{
		ID:               a.ID,
		OwnerID:          a.OwnerID,
		VetID:            a.VetID,
		Service:          string(a.Service),
		PetName:          a.PetName,
		PetSpecies:       a.PetSpecies,
		PetBreed:         a.PetBreed,
		PetAge:           a.PetAge,
		PetSex:           a.PetSex,
		Vaccinated:       a.Vaccinated,
		Sterilized:       a.Sterilized,
		Medicated:        a.Medicated,
		MedicalNotes:     a.MedicalNotes,
		PreferredSlot:    string(a.PreferredSlot),
		Status:           string(a.Status),
		ScheduledAt:      a.ScheduledAt,
		CareInstructions: a.CareInstructions,
		CreatedAt:        a.CreatedAt,
		UpdatedAt:        a.UpdatedAt,
	}
	if !a.PreferredDate.IsZero() {
		resp.PreferredDate = a.PreferredDate.Format("2006-01-02")
	}
	return resp
}

func toResponses(items []Appointment) []appointmentResponse {
	out := make([]appointmentResponse, 0, len(items))
	for _, a := range items {
		out = append(out, toResponse(a))
	}
	return out
}

func writeDomainError(w http.ResponseWriter, err error) {
	switch err {
	case ErrInvalidInput:
		http.Error(w, err.Error(), http.StatusBadRequest)
	case ErrNotFound:
		http.Error(w, "appointment not found", http.StatusNotFound)
	case ErrForbidden:
		http.Error(w, "forbidden", http.StatusForbidden)
	case ErrBadState:
		http.Error(w, "invalid state", http.StatusConflict)
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
