package lostfound

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"pet-rescue-network/internal/domain/profiles"
	"pet-rescue-network/internal/middleware"
	"pet-rescue-network/internal/platform/flyer"
	"pet-rescue-network/internal/platform/images"
	"pet-rescue-network/internal/platform/objectstore"

	"github.com/go-chi/chi/v5"
)

const maxUploadBytes = 10 << 20

func RegisterRoutes(r chi.Router, svc *Service, profilesSvc *profiles.Service, store *objectstore.Store) {
	r.Route("/reports", func(rr chi.Router) {
		rr.Post("/", createReportHandler(svc, profilesSvc))
		rr.Get("/", listReportsHandler(svc))
		rr.Get("/mine", listMyReportsHandler(svc))

		rr.Route("/{reportID}", func(ir chi.Router) {
			ir.Get("/", getReportHandler(svc))
			ir.Patch("/", updateReportHandler(svc))
			ir.Delete("/", deleteReportHandler(svc, profilesSvc))

			ir.Post("/photos", uploadReportPhotoHandler(svc, store))
			ir.Post("/reunite", reuniteHandler(svc))
			ir.Post("/pickup", schedulePickupHandler(svc))
			ir.Get("/flyer", flyerHandler(svc))

			// Avistamientos: POST no exige sesión (reporte anónimo)
			ir.Post("/sightings", addSightingHandler(svc))
			ir.Get("/sightings", listSightingsHandler(svc))
		})
	})
}

type createReportRequest struct {
	Type string `json:"type"`

	PetName     string `json:"pet_name"`
	Species     string `json:"species"`
	Breed       string `json:"breed"`
	Colors      string `json:"colors"`
	Size        string `json:"size"`
	Description string `json:"description"`

	LocationText string  `json:"location_text"`
	Lat          float64 `json:"lat"`
	Lng          float64 `json:"lng"`

	ContactPhone string `json:"contact_phone"`

	CustodyStatus    string `json:"custody_status"`
	CustodyRescuerID string `json:"custody_rescuer_id"`
}

type updateReportRequest struct {
	// Punteros para PATCH real: nil = no tocar.
	PetName      *string `json:"pet_name"`
	Breed        *string `json:"breed"`
	Colors       *string `json:"colors"`
	Size         *string `json:"size"`
	Description  *string `json:"description"`
	LocationText *string `json:"location_text"`
	ContactPhone *string `json:"contact_phone"`
}

type schedulePickupRequest struct {
	PickupAt string `json:"pickup_at"` // RFC3339
	Note     string `json:"note"`
}

type sightingRequest struct {
	LocationText string  `json:"location_text"`
	Lat          float64 `json:"lat"`
	Lng          float64 `json:"lng"`
	PhotoURL     string  `json:"photo_url"`
	Note         string  `json:"note"`
}

type reportResponse struct {
	ID         string `json:"id"`
	ReporterID string `json:"reporter_id"`
	Type       string `json:"type"`

	PetName     string   `json:"pet_name,omitempty"`
	Species     string   `json:"species"`
	Breed       string   `json:"breed,omitempty"`
	Colors      string   `json:"colors,omitempty"`
	Size        string   `json:"size,omitempty"`
	Description string   `json:"description,omitempty"`
	PhotoURLs   []string `json:"photo_urls,omitempty"`

	LocationText string  `json:"location_text,omitempty"`
	Lat          float64 `json:"lat,omitempty"`
	Lng          float64 `json:"lng,omitempty"`

	Status string `json:"status"`

	CustodyStatus    string     `json:"custody_status,omitempty"`
	CustodyRescuerID *string    `json:"custody_rescuer_id"`
	PickupAt         *time.Time `json:"pickup_at,omitempty"`
	PickupNote       string     `json:"pickup_note,omitempty"`

	ContactPhone string `json:"contact_phone,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type sightingResponse struct {
	ID           string    `json:"id"`
	ReportID     string    `json:"report_id"`
	ReporterID   string    `json:"reporter_id,omitempty"`
	LocationText string    `json:"location_text,omitempty"`
	Lat          float64   `json:"lat,omitempty"`
	Lng          float64   `json:"lng,omitempty"`
	PhotoURL     string    `json:"photo_url,omitempty"`
	Note         string    `json:"note,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// createReportHandler godoc
// @Summary Crear reporte de mascota perdida/encontrada
// @Description Crea un reporte. Para type=found el finder elige la rama de custodia: user_holding o rescuer_notified (esta última exige custody_rescuer_id de un perfil con rol rescuer y le dispara una notificación). Autenticación: `X-Debug-User-ID` (dev) o `Authorization: Bearer <token>` (prod).
// @Tags reports
// @Accept json
// @Produce json
// @Param payload body createReportRequest true "Datos del reporte"
// @Success 201 {object} reportResponse
// @Failure 400 {string} string "invalid json / reglas de negocio"
// @Failure 401 {string} string "unauthorized"
// @Router /reports [post]
func createReportHandler(svc *Service, profilesSvc *profiles.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createReportRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		// Si se notifica a un rescatista, tiene que serlo de verdad.
		if rid := strings.TrimSpace(req.CustodyRescuerID); rid != "" {
			role, err := profilesSvc.RoleOf(r.Context(), rid)
			if err != nil || role != profiles.RoleRescuer {
				http.Error(w, "custody_rescuer_id must be a rescuer", http.StatusBadRequest)
				return
			}
		}

		rep, err := svc.Create(r.Context(), claims.UserID, CreateInput{
			Type:             ReportType(req.Type),
			PetName:          req.PetName,
			Species:          req.Species,
			Breed:            req.Breed,
			Colors:           req.Colors,
			Size:             req.Size,
			Description:      req.Description,
			LocationText:     req.LocationText,
			Lat:              req.Lat,
			Lng:              req.Lng,
			ContactPhone:     req.ContactPhone,
			Custody:          CustodyStatus(req.CustodyStatus),
			CustodyRescuerID: req.CustodyRescuerID,
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		writeJSON(w, http.StatusCreated, toReportResponse(rep))
	}
}

func listReportsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		filter := ListFilter{
			Type:    ReportType(strings.TrimSpace(q.Get("type"))),
			Status:  ReportStatus(strings.TrimSpace(q.Get("status"))),
			Species: strings.TrimSpace(q.Get("species")),
		}
		if v := strings.TrimSpace(q.Get("limit")); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				filter.Limit = n
			}
		}

		items, err := svc.List(r.Context(), filter)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, toReportResponses(items))
	}
}

func listMyReportsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.List(r.Context(), ListFilter{ReporterID: claims.UserID})
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, toReportResponses(items))
	}
}

func getReportHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rep, err := svc.GetByID(r.Context(), chi.URLParam(r, "reportID"))
		if err != nil {
			http.Error(w, "report not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, toReportResponse(rep))
	}
}

func updateReportHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()

		var req updateReportRequest
		if err := dec.Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		rep, err := svc.Update(r.Context(), claims.UserID, chi.URLParam(r, "reportID"), UpdateInput{
			PetName:      req.PetName,
			Breed:        req.Breed,
			Colors:       req.Colors,
			Size:         req.Size,
			Description:  req.Description,
			LocationText: req.LocationText,
			ContactPhone: req.ContactPhone,
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toReportResponse(rep))
	}
}

func deleteReportHandler(svc *Service, profilesSvc *profiles.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		role, _ := profilesSvc.RoleOf(r.Context(), claims.UserID)

		if err := svc.Delete(r.Context(), claims.UserID, chi.URLParam(r, "reportID"), role == profiles.RoleAdmin); err != nil {
			writeDomainError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func uploadReportPhotoHandler(svc *Service, store *objectstore.Store) http.HandlerFunc {
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

		rep, err := svc.AddPhoto(r.Context(), claims.UserID, chi.URLParam(r, "reportID"), url)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toReportResponse(rep))
	}
}

func reuniteHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		rep, err := svc.MarkReunited(r.Context(), claims.UserID, chi.URLParam(r, "reportID"))
		if err != nil {
			writeDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toReportResponse(rep))
	}
}

// schedulePickupHandler godoc
// @Summary Agendar recojo de mascota en custodia
// @Description El rescatista asignado agenda fecha/hora del recojo (rescuer_notified -> pickup_scheduled) y el finder recibe una notificación. Transición única; no hay vuelta atrás.
// @Tags reports
// @Accept json
// @Produce json
// @Param reportID path string true "ID del reporte"
// @Param payload body schedulePickupRequest true "pickup_at en RFC3339"
// @Success 200 {object} reportResponse
// @Failure 400 {string} string "invalid json / pickup_at inválido"
// @Failure 403 {string} string "forbidden"
// @Failure 409 {string} string "invalid state"
// @Router /reports/{reportID}/pickup [post]
func schedulePickupHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req schedulePickupRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		at, err := time.Parse(time.RFC3339, req.PickupAt)
		if err != nil {
			http.Error(w, "pickup_at must be RFC3339", http.StatusBadRequest)
			return
		}

		rep, err := svc.SchedulePickup(r.Context(), claims.UserID, chi.URLParam(r, "reportID"), at, req.Note)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toReportResponse(rep))
	}
}

func addSightingHandler(svc *Service) http.HandlerFunc {
	// Sin exigencia de sesión: el avistamiento anónimo es válido.
	return func(w http.ResponseWriter, r *http.Request) {
		reporterID := ""
		if claims, ok := middleware.GetClaims(r.Context()); ok {
			reporterID = claims.UserID
		}

		var req sightingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		sight, err := svc.AddSighting(r.Context(), reporterID, chi.URLParam(r, "reportID"), SightingInput{
			LocationText: req.LocationText,
			Lat:          req.Lat,
			Lng:          req.Lng,
			PhotoURL:     req.PhotoURL,
			Note:         req.Note,
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toSightingResponse(sight))
	}
}

func listSightingsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListSightings(r.Context(), chi.URLParam(r, "reportID"))
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]sightingResponse, 0, len(items))
		for _, s := range items {
			out = append(out, toSightingResponse(s))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// flyerHandler godoc
// @Summary Volante PDF de mascota perdida
// @Description Genera el volante imprimible "SE BUSCA" del reporte como PDF descargable.
// @Tags reports
// @Produce application/pdf
// @Param reportID path string true "ID del reporte"
// @Success 200 {file} binary
// @Failure 404 {string} string "report not found"
// @Router /reports/{reportID}/flyer [get]
func flyerHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rep, err := svc.GetByID(r.Context(), chi.URLParam(r, "reportID"))
		if err != nil {
			http.Error(w, "report not found", http.StatusNotFound)
			return
		}

		pdf, err := flyer.Render(flyer.Data{
			PetName:     rep.PetName,
			Species:     rep.Species,
			Breed:       rep.Breed,
			Colors:      rep.Colors,
			Size:        rep.Size,
			LastSeenAt:  rep.LocationText,
			Description: rep.Description,
			Contact:     rep.ContactPhone,
		})
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="flyer.pdf"`)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(pdf)
	}
}

func toReportResponse(r LostPetReport) reportResponse {
	resp := reportResponse{
		ID:            r.ID,
		ReporterID:    r.ReporterID,
		Type:          string(r.Type),
		PetName:       r.PetName,
		Species:       r.Species,
		Breed:         r.Breed,
		Colors:        r.Colors,
		Size:          r.Size,
		Description:   r.Description,
		PhotoURLs:     r.PhotoURLs,
		LocationText:  r.LocationText,
		Lat:           r.Lat,
		Lng:           r.Lng,
		Status:        string(r.Status),
		CustodyStatus: string(r.Custody),
		PickupAt:      r.PickupAt,
		PickupNote:    r.PickupNote,
		ContactPhone:  r.ContactPhone,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}

	// custody_rescuer_id viaja como null (no "") cuando no hay rescatista
	if r.CustodyRescuerID != "" {
		id := r.CustodyRescuerID
		resp.CustodyRescuerID = &id
	}
	return resp
}

func toReportResponses(items []LostPetReport) []reportResponse {
	out := make([]reportResponse, 0, len(items))
	for _, r := range items {
		out = append(out, toReportResponse(r))
	}
	return out
}

func toSightingResponse(s SightingReport) sightingResponse {
	return sightingResponse{
		ID:           s.ID,
		ReportID:     s.ReportID,
		ReporterID:   s.ReporterID,
		LocationText: s.LocationText,
		Lat:          s.Lat,
		Lng:          s.Lng,
		PhotoURL:     s.PhotoURL,
		Note:         s.Note,
		CreatedAt:    s.CreatedAt,
	}
}

func writeDomainError(w http.ResponseWriter, err error) {
	switch err {
	case ErrInvalidInput:
		http.Error(w, err.Error(), http.StatusBadRequest)
	case ErrNotFound:
		http.Error(w, "report not found", http.StatusNotFound)
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
