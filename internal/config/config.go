package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port           string
	Env            string
	LogLevel       string
	DatabaseURL    string
	AdminJWTSecret string

	// CORS origin allowlist for the public form endpoints
	CORSAllowedOrigins []string

	// LLM provider selection: "openai", "gemini" or "stub"
	LLMProvider  string
	OpenAIAPIKey string
	OpenAIModel  string
	GeminiAPIKey string
	GeminiModel  string

	// Twilio SMS
	TwilioAccountSID          string
	TwilioAuthToken           string
	TwilioMessagingServiceSID string

	// Email delivery: "smtp", "sendgrid" or "ses"
	EmailProvider     string
	SMTPHost          string
	SMTPPort          int
	SenderEmail       string
	SenderPassword    string
	AdminEmail        string
	SendGridAPIKey    string
	AWSRegion         string
	EmailMaxAttempts  int
	EmailPollInterval time.Duration
	EmailBackoffUnit  time.Duration

	// Google Workspace integrations. Credentials and token are paths to the
	// OAuth client secret and stored token JSON files.
	GoogleOAuthCredentials string
	GoogleOAuthToken       string
	SpreadsheetID          string
	CalendarID             string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:           getEnv("PORT", "8080"),
		Env:            getEnv("ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		AdminJWTSecret: getEnv("ADMIN_JWT_SECRET", ""),

		CORSAllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS"),

		LLMProvider:  strings.ToLower(strings.TrimSpace(getEnv("LLM_PROVIDER", "auto"))),
		OpenAIAPIKey: getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:  getEnv("OPENAI_MODEL", "gpt-4-turbo"),
		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.5-flash"),

		TwilioAccountSID:          getEnv("TWILIO_ACCOUNT_SID", ""),
		TwilioAuthToken:           getEnv("TWILIO_AUTH_TOKEN", ""),
		TwilioMessagingServiceSID: getEnv("TWILIO_MESSAGING_SERVICE_SID", ""),

		EmailProvider:     strings.ToLower(strings.TrimSpace(getEnv("EMAIL_PROVIDER", "smtp"))),
		SMTPHost:          getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:          getEnvAsInt("SMTP_PORT", 465),
		SenderEmail:       getEnv("SENDER_EMAIL", ""),
		SenderPassword:    getEnv("SENDER_PASSWORD", ""),
		AdminEmail:        getEnv("ADMIN_EMAIL", ""),
		SendGridAPIKey:    getEnv("SENDGRID_API_KEY", ""),
		AWSRegion:         getEnv("AWS_REGION", "us-east-1"),
		EmailMaxAttempts:  getEnvAsInt("EMAIL_MAX_ATTEMPTS", 3),
		EmailPollInterval: getEnvAsDuration("EMAIL_POLL_INTERVAL", time.Second),
		EmailBackoffUnit:  getEnvAsDuration("EMAIL_BACKOFF_UNIT", time.Second),

		GoogleOAuthCredentials: getEnv("GOOGLE_OAUTH_CREDENTIALS", ""),
		GoogleOAuthToken:       getEnv("GOOGLE_OAUTH_TOKEN", ""),
		SpreadsheetID:          getEnv("SPREADSHEET_ID", ""),
		CalendarID:             getEnv("CALENDAR_ID", "primary"),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsSlice splits a comma-separated environment variable, dropping
// empty entries.
func getEnvAsSlice(key string) []string {
	var out []string
	for _, part := range strings.Split(getEnv(key, ""), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
