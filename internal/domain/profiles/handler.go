package profiles

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"pet-rescue-network/internal/geo"
	"pet-rescue-network/internal/middleware"
	"pet-rescue-network/internal/platform/images"
	"pet-rescue-network/internal/platform/objectstore"

	"github.com/go-chi/chi/v5"
)

const maxUploadBytes = 10 << 20 // 10 MB por archivo

func RegisterRoutes(r chi.Router, svc *Service, store *objectstore.Store) {
	r.Route("/me/profile", func(mr chi.Router) {
		mr.Get("/", getMyProfileHandler(svc))
		mr.Patch("/", updateMyProfileHandler(svc))
		mr.Post("/avatar", uploadAvatarHandler(svc, store))
		mr.Post("/verification", uploadVerificationHandler(svc, store))
	})

	r.Get("/profiles/{userID}", getProfileHandler(svc))

	// Descubrimiento por cercanía (FindVet / NotifyRescuer)
	r.Get("/vets/nearby", nearbyHandler(svc, RoleVet))
	r.Get("/rescuers/nearby", nearbyHandler(svc, RoleRescuer))
	r.Get("/shelters/nearby", nearbyHandler(svc, RoleShelter))

	// Workflow de verificación (AdminDashboard)
	r.Route("/admin/verifications", func(ar chi.Router) {
		ar.Get("/", listPendingVerificationsHandler(svc))
		ar.Post("/{userID}/approve", decideVerificationHandler(svc, true))
		ar.Post("/{userID}/reject", decideVerificationHandler(svc, false))
	})
}

type profileResponse struct {
	ID           string    `json:"id"`
	Role         string    `json:"role"`
	Verification string    `json:"verification"`
	DisplayName  string    `json:"display_name"`
	AvatarURL    string    `json:"avatar_url,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	Address      string    `json:"address,omitempty"`
	Bio          string    `json:"bio,omitempty"`
	ServiceInfo  string    `json:"service_info,omitempty"`
	Lat          float64   `json:"lat,omitempty"`
	Lng          float64   `json:"lng,omitempty"`
	Theme        string    `json:"theme"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type nearbyProfileResponse struct {
	Profile    profileResponse `json:"profile"`
	DistanceKm float64         `json:"distance_km"`
}

type updateProfileRequest struct {
	// Punteros para PATCH real: nil = no tocar.
	DisplayName *string  `json:"display_name"`
	Phone       *string  `json:"phone"`
	Address     *string  `json:"address"`
	Bio         *string  `json:"bio"`
	ServiceInfo *string  `json:"service_info"`
	Theme       *string  `json:"theme"`
	Lat         *float64 `json:"lat"`
	Lng         *float64 `json:"lng"`
}

func getMyProfileHandler(svc *Service) http.HandlerFunc {
	// Nunca 500: si el perfil no carga a tiempo, responde invitado.
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		p := svc.GetOrGuest(r.Context(), claims.UserID)
		writeJSON(w, http.StatusOK, toProfileResponse(p))
	}
}

func updateMyProfileHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()

		var req updateProfileRequest
		if err := dec.Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		p, err := svc.Update(r.Context(), claims.UserID, UpdateInput{
			DisplayName: req.DisplayName,
			Phone:       req.Phone,
			Address:     req.Address,
			Bio:         req.Bio,
			ServiceInfo: req.ServiceInfo,
			Theme:       req.Theme,
			Lat:         req.Lat,
			Lng:         req.Lng,
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toProfileResponse(p))
	}
}

func uploadAvatarHandler(svc *Service, store *objectstore.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		name, data, err := readUpload(r, "file")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		// Compresión best-effort: si falla, se sube el original tal cual.
		if compressed, cerr := images.Compress(data, images.DefaultMaxWidth, images.DefaultQuality); cerr == nil {
			data = compressed
			name = strings.TrimSuffix(name, "."+ext(name)) + ".jpg"
		}

		url, err := store.Save(objectstore.BucketAvatars, name, data)
		if err != nil {
			http.Error(w, "upload failed", http.StatusInternalServerError)
			return
		}

		p, err := svc.SetAvatar(r.Context(), claims.UserID, url)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toProfileResponse(p))
	}
}

func uploadVerificationHandler(svc *Service, store *objectstore.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		name, data, err := readUpload(r, "document")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		// El documento va tal cual (puede ser PDF, no solo imagen).
		url, err := store.Save(objectstore.BucketVerificationDocs, name, data)
		if err != nil {
			http.Error(w, "upload failed", http.StatusInternalServerError)
			return
		}

		p, err := svc.SubmitVerificationDoc(r.Context(), claims.UserID, url)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toProfileResponse(p))
	}
}

func getProfileHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		p, err := svc.GetByID(r.Context(), chi.URLParam(r, "userID"))
		if err != nil {
			http.Error(w, "profile not found", http.StatusNotFound)
			return
		}

		writeJSON(w, http.StatusOK, toProfileResponse(p))
	}
}

func nearbyHandler(svc *Service, role Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		ref := geo.FallbackCenter
		if lat, lng, ok := parseLatLng(r); ok {
			ref = geo.Point{Lat: lat, Lng: lng}
		}

		items, err := svc.ListDiscoverable(r.Context(), role)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		// Solo candidatos con pin puesto; sin coordenadas no hay ranking.
		located := make([]Profile, 0, len(items))
		for _, p := range items {
			if (geo.Point{Lat: p.Lat, Lng: p.Lng}).IsZero() {
				continue
			}
			located = append(located, p)
		}

		ranked := geo.RankByDistance(ref, located, func(p Profile) geo.Point {
			return geo.Point{Lat: p.Lat, Lng: p.Lng}
		})

		if v := strings.TrimSpace(r.URL.Query().Get("within_km")); v != "" {
			if maxKm, err := strconv.ParseFloat(v, 64); err == nil && maxKm > 0 {
				ranked = geo.WithinKm(ranked, maxKm)
			}
		}

		out := make([]nearbyProfileResponse, 0, len(ranked))
		for _, rk := range ranked {
			out = append(out, nearbyProfileResponse{
				Profile:    toProfileResponse(rk.Item),
				DistanceKm: rk.DistanceKm,
			})
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func listPendingVerificationsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireAdmin(w, r, svc) {
			return
		}

		items, err := svc.ListPendingVerification(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]profileResponse, 0, len(items))
		for _, p := range items {
			out = append(out, toProfileResponse(p))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func decideVerificationHandler(svc *Service, approve bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireAdmin(w, r, svc) {
			return
		}

		p, err := svc.DecideVerification(r.Context(), chi.URLParam(r, "userID"), approve)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toProfileResponse(p))
	}
}

// parseLatLng lee ?lat=&lng= del query. Ambos o ninguno.
func parseLatLng(r *http.Request) (float64, float64, bool) {
	q := r.URL.Query()
	latStr := strings.TrimSpace(q.Get("lat"))
	lngStr := strings.TrimSpace(q.Get("lng"))
	if latStr == "" || lngStr == "" {
		return 0, 0, false
	}
	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return 0, 0, false
	}
	lng, err := strconv.ParseFloat(lngStr, 64)
	if err != nil {
		return 0, 0, false
	}
	return lat, lng, true
}

// requireAdmin corta con 401/403 si el caller no es admin.
// Devuelve true si el handler puede continuar.
func requireAdmin(w http.ResponseWriter, r *http.Request, svc *Service) bool {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok || strings.TrimSpace(claims.UserID) == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return false
	}

	role, err := svc.RoleOf(r.Context(), claims.UserID)
	if err != nil || role != RoleAdmin {
		http.Error(w, "forbidden", http.StatusForbidden)
		return false
	}
	return true
}

func readUpload(r *http.Request, field string) (string, []byte, error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return "", nil, errInvalidUpload
	}
	f, hdr, err := r.FormFile(field)
	if err != nil {
		return "", nil, errInvalidUpload
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxUploadBytes))
	if err != nil || len(data) == 0 {
		return "", nil, errInvalidUpload
	}
	return hdr.Filename, data, nil
}

var errInvalidUpload = errors.New("missing or invalid file upload")

func ext(name string) string {
	idx := strings.LastIndexByte(name, '.')
	if idx < 0 {
		return ""
	}
	return name[idx+1:]
}

func toProfileResponse(p Profile) profileResponse {
	return profileResponse{
		ID:           p.ID,
		Role:         string(p.Role),
		Verification: string(p.Verification),
		DisplayName:  p.DisplayName,
		AvatarURL:    p.AvatarURL,
		Phone:        p.Phone,
		Address:      p.Address,
		Bio:          p.Bio,
		ServiceInfo:  p.ServiceInfo,
		Lat:          p.Lat,
		Lng:          p.Lng,
		Theme:        string(p.Theme),
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func writeDomainError(w http.ResponseWriter, err error) {
	switch err {
	case ErrInvalidInput:
		http.Error(w, err.Error(), http.StatusBadRequest)
	case ErrNotFound:
		http.Error(w, "profile not found", http.StatusNotFound)
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
