package messages

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
	r.Get("/me/conversations", listConversationsHandler(svc))

	r.Route("/me/messages/{counterpartID}", func(mr chi.Router) {
		mr.Get("/", listThreadHandler(svc))
		mr.Post("/", sendMessageHandler(svc))
		mr.Post("/image", sendImageHandler(svc, store))
		mr.Post("/read", markThreadReadHandler(svc))
	})
}

type sendMessageRequest struct {
	Text string `json:"text"`
}

type messageResponse struct {
	ID         string    `json:"id"`
	SenderID   string    `json:"sender_id"`
	ReceiverID string    `json:"receiver_id"`
	Text       string    `json:"text,omitempty"`
	ImageURL   string    `json:"image_url,omitempty"`
	Read       bool      `json:"read"`
	CreatedAt  time.Time `json:"created_at"`
}

type conversationResponse struct {
	CounterpartID     string          `json:"counterpart_id"`
	CounterpartName   string          `json:"counterpart_name"`
	CounterpartAvatar string          `json:"counterpart_avatar,omitempty"`
	LastMessage       messageResponse `json:"last_message"`
	UnreadCount       int             `json:"unread_count"`
}

func listConversationsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		convs, err := svc.Conversations(r.Context(), claims.UserID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]conversationResponse, 0, len(convs))
		for _, c := range convs {
			out = append(out, conversationResponse{
				CounterpartID:     c.CounterpartID,
				CounterpartName:   c.CounterpartName,
				CounterpartAvatar: c.CounterpartAvatar,
				LastMessage:       toMessageResponse(c.LastMessage),
				UnreadCount:       c.UnreadCount,
			})
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func listThreadHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		msgs, err := svc.Thread(r.Context(), claims.UserID, chi.URLParam(r, "counterpartID"))
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]messageResponse, 0, len(msgs))
		for _, m := range msgs {
			out = append(out, toMessageResponse(m))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func sendMessageHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req sendMessageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		m, err := svc.Send(r.Context(), claims.UserID, SendInput{
			ReceiverID: chi.URLParam(r, "counterpartID"),
			Text:       req.Text,
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		writeJSON(w, http.StatusCreated, toMessageResponse(m))
	}
}

// sendImageHandler sube la imagen del chat (comprimida best-effort) y
// manda el mensaje con la URL resultante. El campo "text" del form es
// opcional (caption).
func sendImageHandler(svc *Service, store *objectstore.Store) http.HandlerFunc {
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
			name = "chat.jpg"
		}

		url, err := store.Save(objectstore.BucketChatImages, name, data)
		if err != nil {
			http.Error(w, "upload failed", http.StatusInternalServerError)
			return
		}

		m, err := svc.Send(r.Context(), claims.UserID, SendInput{
			ReceiverID: chi.URLParam(r, "counterpartID"),
			Text:       r.FormValue("text"),
			ImageURL:   url,
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		writeJSON(w, http.StatusCreated, toMessageResponse(m))
	}
}

func markThreadReadHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		if err := svc.MarkThreadRead(r.Context(), claims.UserID, chi.URLParam(r, "counterpartID")); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func toMessageResponse(m Message) messageResponse {
	return messageResponse{
		ID:         m.ID,
		SenderID:   m.SenderID,
		ReceiverID: m.ReceiverID,
		Text:       m.Text,
		ImageURL:   m.ImageURL,
		Read:       m.Read,
		CreatedAt:  m.CreatedAt,
	}
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
