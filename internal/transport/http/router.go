package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/momentum-app/momentum-api/internal/application/notification"
	"github.com/momentum-app/momentum-api/internal/application/profile"
	"github.com/momentum-app/momentum-api/internal/config"
	"github.com/momentum-app/momentum-api/internal/delivery"
	"github.com/momentum-app/momentum-api/internal/pkg/clock"
	"github.com/momentum-app/momentum-api/internal/transport/http/handler"
	appmiddleware "github.com/momentum-app/momentum-api/internal/transport/http/middleware"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	Profiles ProfileRepository
	Store    NotificationRepository
	Objects  ObjectStore
	Driver   delivery.Driver
	Clock    clock.Clock
	Logger   zerolog.Logger
}

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// 5 requests/second, burst of 10 — applied to outbound-delivery endpoints.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	profileSvc := profile.NewService(profile.ServiceDeps{
		Profiles: deps.Profiles,
		Objects:  deps.Objects,
	})
	notifSvc := notification.NewService(notification.ServiceDeps{
		Store:       deps.Store,
		Driver:      deps.Driver,
		Clock:       deps.Clock,
		SendTimeout: cfg.DeliveryTimeout,
		Log:         deps.Logger,
	})

	healthH := handler.NewHealthHandler()
	profileH := handler.NewProfileHandler(profileSvc, deps.Logger)
	notifH := handler.NewNotificationHandler(notifSvc, deps.Logger)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health-check/{action}", healthH.Ping)
		r.Post("/health-check/{action}", healthH.Ping)

		r.With(sensitiveRL.Limit).Post("/send-whatsapp", notifH.Send)
		r.Post("/schedule-whatsapp-notification", notifH.Schedule)
		r.Post("/clear-scheduled-notifications", notifH.Clear)

		r.Post("/profile", profileH.Create)
		r.Get("/profile/{userId}", profileH.Get)
		r.Put("/profile/{userId}", profileH.Update)
		r.Post("/profile/picture", profileH.UploadPicture)
		r.Get("/profile/picture/{userId}", profileH.GetPicture)
	})

	return r
}
