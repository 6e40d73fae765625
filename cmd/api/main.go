package main

import (
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	"pet-rescue-network/internal/adapters/auth/jwt"
	"pet-rescue-network/internal/adapters/geocode/nominatim"
	"pet-rescue-network/internal/middleware"
	"pet-rescue-network/internal/platform/logger"
	"pet-rescue-network/internal/platform/objectstore"
	"pet-rescue-network/internal/ports/auth"
	"pet-rescue-network/internal/ports/geocode"
	"pet-rescue-network/internal/router"
)

// @title Pet Rescue Network API
// @version 1.0
// @description API de la red comunitaria de rescate y adopción de mascotas.
// @BasePath /
func main() {
	_ = godotenv.Load() // .env opcional; las env reales pisan

	log := logger.NewFromEnv()

	addr := ":8080"
	if v := os.Getenv("PORT"); v != "" {
		addr = ":" + v
	}

	secret := os.Getenv("JWT_SECRET")
	var verifier auth.AuthVerifier
	if secret != "" {
		verifier = jwt.NewVerifier(secret)
	} else {
		log.Warn("JWT_SECRET not set, running in dev mode (X-Debug-User-ID)", nil)
	}

	store, err := objectstore.New(os.Getenv("FILES_ROOT"))
	if err != nil {
		log.Error("objectstore init failed", map[string]any{"err": err.Error()})
		os.Exit(1)
	}

	var geocoder geocode.Resolver
	if base := os.Getenv("GEOCODE_BASE_URL"); base != "" {
		gc, err := nominatim.NewClient(nominatim.Config{BaseURL: base, Timeout: 5 * time.Second})
		if err != nil {
			log.Warn("geocoder disabled", map[string]any{"err": err.Error()})
		} else {
			geocoder = gc
		}
	}

	r := router.NewRouter(router.Options{
		AuthVerifier: verifier,
		JWTSecret:    secret,
		Log:          log,
		Store:        store,
		Geocoder:     geocoder,
		Metrics:      middleware.NewMetrics("api"),
		RateLimiter:  middleware.NewRateLimiter(5, 10), // por IP, solo /auth
	})

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Info("starting server", map[string]any{"addr": addr})
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", map[string]any{"err": err.Error()})
		os.Exit(1)
	}
}
