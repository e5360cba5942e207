package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/thefreewebsitewizards/leadneedle/internal/agent"
	"github.com/thefreewebsitewizards/leadneedle/internal/api/router"
	appconfig "github.com/thefreewebsitewizards/leadneedle/internal/config"
	"github.com/thefreewebsitewizards/leadneedle/internal/http/handlers"
	"github.com/thefreewebsitewizards/leadneedle/internal/leads"
	"github.com/thefreewebsitewizards/leadneedle/internal/mailqueue"
	"github.com/thefreewebsitewizards/leadneedle/internal/messaging"
	"github.com/thefreewebsitewizards/leadneedle/internal/messaging/twilioclient"
	"github.com/thefreewebsitewizards/leadneedle/internal/notify"
	"github.com/thefreewebsitewizards/leadneedle/internal/observability/metrics"
	"github.com/thefreewebsitewizards/leadneedle/internal/scheduler"
	"github.com/thefreewebsitewizards/leadneedle/internal/sheets"
	"github.com/thefreewebsitewizards/leadneedle/pkg/logging"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	// Load .env for local development; in production the environment is set
	// by the deployment platform.
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting leadneedle API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	// Metrics registry with process/go collectors plus application metrics.
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	queueMetrics := metrics.NewMailQueueMetrics(registry)
	dispatcherMetrics := metrics.NewDispatcherMetrics(registry)

	// Email delivery queue.
	transport, err := buildEmailTransport(ctx, cfg)
	if err != nil {
		logger.Error("failed to configure email transport", "error", err)
		os.Exit(1)
	}
	queue := mailqueue.New(transport,
		mailqueue.WithLogger(logger),
		mailqueue.WithMetrics(queueMetrics),
		mailqueue.WithMaxAttempts(cfg.EmailMaxAttempts),
		mailqueue.WithPollInterval(cfg.EmailPollInterval),
		mailqueue.WithBackoffUnit(cfg.EmailBackoffUnit),
	)

	// Lead storage: Postgres when DATABASE_URL is set, in-memory otherwise.
	var repo leads.Repository
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		repo = leads.NewPostgresRepository(pool)
		logger.Info("using postgres lead repository")
	} else {
		repo = leads.NewInMemoryRepository()
		logger.Warn("DATABASE_URL not set, using in-memory lead repository")
	}

	// Outbound SMS: Twilio when credentials are present, logging stub otherwise.
	sender := buildSMSSender(cfg, logger)

	// Google Calendar booking and Sheets archival are optional integrations.
	booker := buildScheduler(ctx, cfg, logger)
	appender := buildSheetsAppender(ctx, cfg, logger)

	// Conversation dispatcher.
	llm, err := buildLLMClient(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to configure LLM client", "error", err)
		os.Exit(1)
	}
	recorder := leads.NewResponseRecorder(repo, logger)
	sales := agent.New(llm, sender, recorder, booker,
		agent.WithLogger(logger),
		agent.WithMetrics(dispatcherMetrics),
	)

	notifier := notify.NewService(queue, cfg.AdminEmail, cfg.SenderEmail, senderSecret(cfg), logger)

	// Handlers and router.
	agentHandler := agent.NewHandler(sales, logger)
	leadsHandler := leads.NewHandler(repo, notifier, appender, logger)
	adminEmail := handlers.NewAdminEmailHandler(queue, cfg.AdminEmail, cfg.SenderEmail, senderSecret(cfg), logger)

	r := router.New(&router.Config{
		Logger:             logger,
		AgentHandler:       agentHandler,
		LeadsHandler:       leadsHandler,
		AdminEmail:         adminEmail,
		AdminAuthSecret:    cfg.AdminJWTSecret,
		MetricsHandler:     promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	// Flush any emails still queued before tearing the worker down.
	if !queue.DrainAndWait(20 * time.Second) {
		logger.Warn("email queue did not drain before shutdown")
	}
	queue.Shutdown(5 * time.Second)

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}

func buildEmailTransport(ctx context.Context, cfg *appconfig.Config) (mailqueue.Transport, error) {
	switch cfg.EmailProvider {
	case "smtp":
		return mailqueue.NewSMTPTransport(cfg.SMTPHost, cfg.SMTPPort), nil
	case "sendgrid":
		return mailqueue.NewSendGridTransport("Lead Needle"), nil
	case "ses":
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
		if err != nil {
			return nil, fmt.Errorf("load aws config: %w", err)
		}
		return mailqueue.NewSESTransport(sesv2.NewFromConfig(awsCfg)), nil
	default:
		return nil, fmt.Errorf("unknown email provider %q", cfg.EmailProvider)
	}
}

// senderSecret picks the credential matching the active email provider.
func senderSecret(cfg *appconfig.Config) string {
	if cfg.EmailProvider == "sendgrid" {
		return cfg.SendGridAPIKey
	}
	return cfg.SenderPassword
}

func buildSMSSender(cfg *appconfig.Config, logger *logging.Logger) messaging.Sender {
	if cfg.TwilioAccountSID == "" || cfg.TwilioAuthToken == "" {
		logger.Warn("Twilio credentials not set, outbound SMS will be logged only")
		return messaging.NewStub(logger)
	}
	client, err := twilioclient.New(twilioclient.Config{
		AccountSID:          cfg.TwilioAccountSID,
		AuthToken:           cfg.TwilioAuthToken,
		MessagingServiceSID: cfg.TwilioMessagingServiceSID,
		MaxRetries:          3,
		Logger:              logger.Logger,
	})
	if err != nil {
		logger.Error("failed to configure Twilio client, falling back to stub", "error", err)
		return messaging.NewStub(logger)
	}
	return messaging.NewTwilioSender(client, logger)
}

func buildLLMClient(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (agent.LLMClient, error) {
	provider := cfg.LLMProvider
	if provider == "auto" {
		switch {
		case cfg.OpenAIAPIKey != "":
			provider = "openai"
		case cfg.GeminiAPIKey != "":
			provider = "gemini"
		default:
			provider = "stub"
		}
	}
	switch provider {
	case "openai":
		logger.Info("using OpenAI completion client", "model", cfg.OpenAIModel)
		return agent.NewOpenAILLMClient(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	case "gemini":
		logger.Info("using Gemini completion client", "model", cfg.GeminiModel)
		return agent.NewGeminiLLMClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	case "stub":
		logger.Warn("no LLM provider configured, using static replies")
		return &agent.StaticLLMClient{}, nil
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", provider)
	}
}

func buildScheduler(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) scheduler.Scheduler {
	creds, token, ok := readGoogleCredentials(cfg, logger)
	if !ok {
		return &scheduler.Stub{}
	}
	s, err := scheduler.NewCalendarScheduler(ctx, creds, token, cfg.CalendarID, logger)
	if err != nil {
		logger.Error("failed to configure calendar scheduler, bookings will be stubbed", "error", err)
		return &scheduler.Stub{}
	}
	return s
}

func buildSheetsAppender(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) sheets.Appender {
	if cfg.SpreadsheetID == "" {
		return &sheets.Stub{}
	}
	creds, token, ok := readGoogleCredentials(cfg, logger)
	if !ok {
		return &sheets.Stub{}
	}
	a, err := sheets.NewGoogleSheetsAppender(ctx, creds, token, cfg.SpreadsheetID, logger)
	if err != nil {
		logger.Error("failed to configure sheets appender, archival will be stubbed", "error", err)
		return &sheets.Stub{}
	}
	return a
}

func readGoogleCredentials(cfg *appconfig.Config, logger *logging.Logger) (creds, token []byte, ok bool) {
	if cfg.GoogleOAuthCredentials == "" || cfg.GoogleOAuthToken == "" {
		return nil, nil, false
	}
	creds, err := os.ReadFile(cfg.GoogleOAuthCredentials)
	if err != nil {
		logger.Error("failed to read Google OAuth credentials", "error", err)
		return nil, nil, false
	}
	token, err = os.ReadFile(cfg.GoogleOAuthToken)
	if err != nil {
		logger.Error("failed to read Google OAuth token", "error", err)
		return nil, nil, false
	}
	return creds, token, true
}
