package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ZainManzoor2003/mehndi-sub003/internal/geo"
	"github.com/ZainManzoor2003/mehndi-sub003/internal/lifecycle"
	"github.com/ZainManzoor2003/mehndi-sub003/internal/media"
	"github.com/ZainManzoor2003/mehndi-sub003/internal/ratelimiter"
	"github.com/ZainManzoor2003/mehndi-sub003/internal/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

type application struct {
	config      config
	logger      *zap.SugaredLogger
	sessions    *session.Store
	controller  *lifecycle.Controller
	coordinator *media.Coordinator
	geocoder    *geo.Client
	rateLimiter *ratelimiter.FixedWindowRateLimiter
}

type config struct {
	addr        string
	env         string
	frontendURL string
	upstreamURL string
	geocoderURL string
	redisAddr   string
	media       mediaConfig
	rateLimiter ratelimiter.Config
}

type mediaConfig struct {
	folder      string
	imagePreset string
	videoPreset string
}

func (app *application) mount() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{app.config.frontendURL},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-User-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Requests that sit longer than this are abandoned; uploads get their
	// own server write timeout below.
	r.Use(middleware.Timeout(60 * time.Second))

	r.Route("/v1", func(r chi.Router) {
		r.Get("/health", app.healthCheckHandler)
		r.Get("/geo/label", app.geoLabelHandler)

		r.Group(func(r chi.Router) {
			r.Use(app.ActorMiddleware)

			r.Route("/wizard", func(r chi.Router) {
				r.Post("/", app.startWizardHandler)
				r.Route("/{sessionID}", func(r chi.Router) {
					r.Get("/", app.getWizardHandler)
					r.Put("/steps/{step}", app.saveStepHandler)
					r.Post("/submit", app.submitWizardHandler)
					r.With(app.RateLimitMiddleware).Post("/inspiration", app.uploadInspirationHandler)
					r.Post("/inspiration/links", app.appendInspirationLinkHandler)
					r.Delete("/inspiration/{index}", app.removeInspirationHandler)
				})
			})

			r.Route("/bookings", func(r chi.Router) {
				r.Get("/", app.listBookingsHandler)
				r.Post("/refresh", app.refreshBookingsHandler)
				r.Route("/{bookingID}", func(r chi.Router) {
					r.Get("/", app.getBookingHandler)
					r.Delete("/", app.deleteBookingHandler)
					r.Post("/cancel", app.cancelBookingHandler)
					r.With(app.RateLimitMiddleware).Post("/complete", app.completeBookingHandler)
				})
			})
		})
	})

	return r
}

func (app *application) run(mux http.Handler) error {
	srv := &http.Server{
		Addr:         app.config.addr,
		Handler:      mux,
		WriteTimeout: time.Second * 90, // media uploads pass through here
		ReadTimeout:  time.Second * 30,
		IdleTimeout:  time.Minute,
	}

	shutdown := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)

		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		app.logger.Infow("signal caught", "signal", s.String())

		shutdown <- srv.Shutdown(ctx)
	}()

	app.logger.Infow("server has started", "addr", app.config.addr, "env", app.config.env)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdown
	if err != nil {
		return err
	}

	app.logger.Infow("server has stopped", "addr", app.config.addr)

	return nil
}
