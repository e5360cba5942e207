// Command mailcheck sends a single test email through the configured delivery
// provider and reports queue statistics. Useful for verifying SMTP, SendGrid
// or SES credentials before a deploy.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/joho/godotenv"

	appconfig "github.com/thefreewebsitewizards/leadneedle/internal/config"
	"github.com/thefreewebsitewizards/leadneedle/internal/mailqueue"
	"github.com/thefreewebsitewizards/leadneedle/pkg/logging"
)

func main() {
	var (
		to      = flag.String("to", "", "recipient address (defaults to ADMIN_EMAIL)")
		subject = flag.String("subject", "Lead Needle delivery check", "message subject")
		wait    = flag.Duration("wait", 30*time.Second, "how long to wait for delivery")
	)
	flag.Parse()

	_ = godotenv.Load()
	cfg := appconfig.Load()
	logger := logging.NewText(cfg.LogLevel)

	recipient := *to
	if recipient == "" {
		recipient = cfg.AdminEmail
	}
	if recipient == "" {
		fmt.Fprintln(os.Stderr, "mailcheck: no recipient; pass -to or set ADMIN_EMAIL")
		os.Exit(2)
	}

	ctx := context.Background()
	transport, err := buildTransport(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "mailcheck: %v\n", err)
		os.Exit(2)
	}

	queue := mailqueue.New(transport,
		mailqueue.WithLogger(logger),
		mailqueue.WithMaxAttempts(cfg.EmailMaxAttempts),
		mailqueue.WithPollInterval(cfg.EmailPollInterval),
		mailqueue.WithBackoffUnit(cfg.EmailBackoffUnit),
	)

	job := &mailqueue.EmailJob{
		Type:         mailqueue.JobTest,
		To:           recipient,
		Subject:      *subject,
		Body:         fmt.Sprintf("<p>Delivery check sent at %s via %s.</p>", time.Now().UTC().Format(time.RFC3339), cfg.EmailProvider),
		SenderEmail:  cfg.SenderEmail,
		SenderSecret: senderSecret(cfg),
	}
	queue.Enqueue(job)

	if !queue.DrainAndWait(*wait) {
		fmt.Fprintf(os.Stderr, "mailcheck: delivery did not finish within %s\n", *wait)
		queue.Shutdown(time.Second)
		os.Exit(1)
	}
	queue.Shutdown(5 * time.Second)

	stats := queue.Stats()
	fmt.Printf("provider=%s queued=%d sent=%d failed=%d\n",
		cfg.EmailProvider, stats.QueuedTotal, stats.SentTotal, stats.FailedTotal)

	if stats.FailedTotal > 0 {
		fmt.Fprintf(os.Stderr, "mailcheck: delivery to %s failed, check credentials\n", recipient)
		os.Exit(1)
	}
	fmt.Printf("test email delivered to %s\n", recipient)
}

func buildTransport(ctx context.Context, cfg *appconfig.Config) (mailqueue.Transport, error) {
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

func senderSecret(cfg *appconfig.Config) string {
	if cfg.EmailProvider == "sendgrid" {
		return cfg.SendGridAPIKey
	}
	return cfg.SenderPassword
}
