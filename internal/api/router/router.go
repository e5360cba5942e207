package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/thefreewebsitewizards/leadneedle/internal/agent"
	"github.com/thefreewebsitewizards/leadneedle/internal/http/handlers"
	httpmiddleware "github.com/thefreewebsitewizards/leadneedle/internal/http/middleware"
	"github.com/thefreewebsitewizards/leadneedle/internal/leads"
	"github.com/thefreewebsitewizards/leadneedle/pkg/logging"
)

// Config holds router configuration.
type Config struct {
	Logger             *logging.Logger
	AgentHandler       *agent.Handler
	LeadsHandler       *leads.Handler
	AdminEmail         *handlers.AdminEmailHandler
	AdminAuthSecret    string
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string
}

// New creates a chi router with all routes configured.
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	// Public endpoints
	r.Group(func(public chi.Router) {
		public.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"status":"ok"}`))
		})
		if cfg.AgentHandler != nil {
			public.Post("/sms", cfg.AgentHandler.ReceiveSMS)
		}
		if cfg.LeadsHandler != nil {
			public.Post("/submit", cfg.LeadsHandler.SubmitContactForm)
			public.Post("/submit-wizard", cfg.LeadsHandler.SubmitWizardForm)
		}
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
	})

	// Admin endpoints behind JWT
	r.Route("/admin", func(admin chi.Router) {
		admin.Use(httpmiddleware.AdminJWT(cfg.AdminAuthSecret))
		if cfg.AdminEmail != nil {
			admin.Get("/email-stats", cfg.AdminEmail.EmailStats)
			admin.Post("/email-test", cfg.AdminEmail.EmailTest)
		}
		if cfg.LeadsHandler != nil {
			admin.Get("/leads", cfg.LeadsHandler.ListLeads)
		}
	})

	return r
}
