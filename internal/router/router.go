package router

import (
	"context"
	"database/sql"
	"net/http"
	"os"

	mem "pet-rescue-network/internal/adapters/storage/memory"
	pg "pet-rescue-network/internal/adapters/storage/postgres"
	"pet-rescue-network/internal/domain/accounts"
	"pet-rescue-network/internal/domain/adoptions"
	"pet-rescue-network/internal/domain/appointments"
	"pet-rescue-network/internal/domain/lostfound"
	"pet-rescue-network/internal/domain/messages"
	"pet-rescue-network/internal/domain/notifications"
	"pet-rescue-network/internal/domain/profiles"
	"pet-rescue-network/internal/middleware"
	"pet-rescue-network/internal/platform/logger"
	"pet-rescue-network/internal/platform/objectstore"
	"pet-rescue-network/internal/ports/auth"
	"pet-rescue-network/internal/ports/geocode"
	"pet-rescue-network/internal/realtime"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	// Secreto para firmar tokens. Vacío = default de dev.
	JWTSecret string

	Log   logger.Logger
	Store *objectstore.Store

	// Opcional: geocoder para reportes sin coordenadas.
	Geocoder geocode.Resolver

	// Opcional: métricas Prometheus. Solo main las construye; los tests
	// pasan nil para no duplicar registros.
	Metrics *middleware.Metrics

	// Opcional: rate limit para /auth/register y /auth/login.
	RateLimiter *middleware.RateLimiter
}

func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()

	log := opts.Log
	if log == nil {
		log = logger.New(logger.Options{App: "pet-rescue-api"})
	}

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	if opts.Metrics != nil {
		r.Use(opts.Metrics.Instrument)
	}

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	var (
		accountRepo      accounts.Repository
		tokenRepo        accounts.TokenRepository
		profileRepo      profiles.Repository
		messageRepo      messages.Repository
		lostFoundRepo    lostfound.Repository
		adoptionRepo     adoptions.Repository
		appointmentRepo  appointments.Repository
		notificationRepo notifications.Repository
	)

	// Si no te pasan DB explícita, intenta por env (para dev/handoff)
	db := opts.DB
	if db == nil {
		if dsn := os.Getenv("DB_DSN"); dsn != "" {
			opened, err := pg.Open(dsn)
			if err == nil {
				db = opened
			} else {
				log.Warn("postgres open failed, falling back to memory", map[string]any{"err": err.Error()})
			}
		}
	}

	if db != nil {
		accountRepo = pg.NewAccountsRepo(db)
		tokenRepo = pg.NewTokensRepo(db)
		profileRepo = pg.NewProfilesRepo(db)
		messageRepo = pg.NewMessagesRepo(db)
		lostFoundRepo = pg.NewLostFoundRepo(db)
		adoptionRepo = pg.NewAdoptionsRepo(db)
		appointmentRepo = pg.NewAppointmentsRepo(db)
		notificationRepo = pg.NewNotificationsRepo(db)
	} else {
		accountRepo = mem.NewAccountRepo()
		tokenRepo = mem.NewTokenRepo()
		profileRepo = mem.NewProfileRepo()
		messageRepo = mem.NewMessageRepo()
		lostFoundRepo = mem.NewLostFoundRepo()
		adoptionRepo = mem.NewAdoptionRepo()
		appointmentRepo = mem.NewAppointmentRepo()
		notificationRepo = mem.NewNotificationRepo()
	}

	store := opts.Store
	if store == nil {
		s, err := objectstore.New(os.Getenv("FILES_ROOT"))
		if err != nil {
			log.Error("objectstore init failed", map[string]any{"err": err.Error()})
		}
		store = s
	}

	hub := realtime.NewHub(log)
	rt := &realtimePublisher{hub: hub}

	// Services por módulo
	notificationsSvc := notifications.NewService(notificationRepo, rt, log)
	profilesSvc := profiles.NewService(profileRepo, notificationsSvc)
	accountsSvc := accounts.NewService(accountRepo, tokenRepo, profilesSvc, opts.JWTSecret)
	messagesSvc := messages.NewService(messageRepo, &profileDirectory{svc: profilesSvc}, rt)
	lostFoundSvc := lostfound.NewService(lostFoundRepo, notificationsSvc, opts.Geocoder)
	adoptionsSvc := adoptions.NewService(adoptionRepo, notificationsSvc)
	appointmentsSvc := appointments.NewService(appointmentRepo, notificationsSvc)

	limit := passthrough
	if opts.RateLimiter != nil {
		limit = opts.RateLimiter.Limit
	}

	// Rutas por módulo
	accounts.RegisterRoutes(r, accountsSvc, limit)
	profiles.RegisterRoutes(r, profilesSvc, store)
	messages.RegisterRoutes(r, messagesSvc, store)
	lostfound.RegisterRoutes(r, lostFoundSvc, profilesSvc, store)
	adoptions.RegisterRoutes(r, adoptionsSvc, store)
	appointments.RegisterRoutes(r, appointmentsSvc, profilesSvc)
	notifications.RegisterRoutes(r, notificationsSvc)

	if store != nil {
		r.Handle("/files/*", store.Handler())
	}

	r.Get("/ws", func(w http.ResponseWriter, req *http.Request) {
		claims, ok := middleware.GetClaims(req.Context())
		if !ok || claims.Anonymous() {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		hub.ServeWS(w, req, claims.UserID)
	})

	return r
}

func passthrough(next http.Handler) http.Handler { return next }

// profileDirectory adapta profiles.Service al puerto Directory de
// messages, sin que los dominios se importen entre sí.
type profileDirectory struct {
	svc *profiles.Service
}

func (d *profileDirectory) DisplayInfo(ctx context.Context, userID string) (messages.DisplayInfo, error) {
	p, err := d.svc.GetByID(ctx, userID)
	if err != nil {
		return messages.DisplayInfo{}, err
	}
	return messages.DisplayInfo{Name: p.DisplayName, AvatarURL: p.AvatarURL}, nil
}

// realtimePublisher empuja mensajes y notificaciones al hub websocket.
type realtimePublisher struct {
	hub *realtime.Hub
}

func (p *realtimePublisher) PublishMessage(receiverID string, m messages.Message) {
	p.hub.Publish(receiverID, realtime.Event{
		Type: realtime.EventMessageNew,
		Payload: map[string]any{
			"id":         m.ID,
			"sender_id":  m.SenderID,
			"text":       m.Text,
			"image_url":  m.ImageURL,
			"created_at": m.CreatedAt,
		},
	})
}

func (p *realtimePublisher) PublishNotification(userID string, n notifications.Notification) {
	p.hub.Publish(userID, realtime.Event{
		Type: realtime.EventNotificationNew,
		Payload: map[string]any{
			"id":         n.ID,
			"type":       n.Type,
			"message":    n.Message,
			"link":       n.Link,
			"created_at": n.CreatedAt,
		},
	})
}
