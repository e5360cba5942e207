package mailqueue

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
)

var errAttemptsExhausted = errors.New("mailqueue: attempts exhausted")

// deliver runs the bounded attempt sequence for one job. Auth and
// refused-recipient errors end the job immediately; anything else is
// retried with exponential backoff until MaxAttempts.
func (q *Queue) deliver(job *EmailJob) {
	for job.Attempts < job.MaxAttempts {
		job.Attempts++
		job.State = StateSending

		err := q.attempt(job)
		if err == nil {
			job.State = StateSent
			q.sentTotal.Add(1)
			q.metrics.ObserveSent(string(job.Type))
			q.logger.Info("email sent",
				"job_id", job.ID,
				"type", job.Type,
				"to", job.To,
				"attempt", job.Attempts,
			)
			return
		}

		if IsTerminal(err) {
			q.fail(job, err)
			return
		}

		q.logger.Error("email delivery attempt failed",
			"job_id", job.ID,
			"type", job.Type,
			"to", job.To,
			"attempt", job.Attempts,
			"max_attempts", job.MaxAttempts,
			"error", err,
		)

		if job.Attempts < job.MaxAttempts {
			job.State = StateRetrying
			time.Sleep(q.backoffDelay(job.Attempts))
		}
	}

	q.fail(job, errAttemptsExhausted)
}

// attempt opens a fresh session, authenticates, and submits the message.
func (q *Queue) attempt(job *EmailJob) error {
	ctx, cancel := context.WithTimeout(context.Background(), q.attemptTimeout)
	defer cancel()

	session, err := q.transport.Connect(ctx)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer session.Close()

	if err := session.Authenticate(job.SenderEmail, job.SenderSecret); err != nil {
		// sessions classify credential rejections as AuthError themselves;
		// anything else (a dropped connection mid-AUTH, a 4xx reply) retries
		return fmt.Errorf("authenticate: %w", err)
	}

	msg := &Message{
		From:      job.SenderEmail,
		To:        job.To,
		Subject:   job.Subject,
		Date:      time.Now().UTC(),
		MessageID: fmt.Sprintf("<%s@leadneedle.com>", uuid.NewString()),
		HTML:      job.Body,
	}

	refused, err := session.Submit(msg)
	if err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	if len(refused) > 0 {
		return &RefusedError{Recipients: refused}
	}
	return nil
}

func (q *Queue) fail(job *EmailJob, err error) {
	job.State = StateFailed
	q.failedTotal.Add(1)
	q.metrics.ObserveFailed(string(job.Type), terminalReason(err))
	q.logger.Error("email delivery failed",
		"job_id", job.ID,
		"type", job.Type,
		"to", job.To,
		"attempts", job.Attempts,
		"error", err,
	)
}

// backoffDelay returns 2^attempt backoff units with up to 25% jitter so
// retries from multiple processes don't synchronize.
func (q *Queue) backoffDelay(attempt int) time.Duration {
	delay := q.backoffUnit * time.Duration(1<<attempt)
	if delay <= 0 {
		return q.backoffUnit
	}
	jitter := time.Duration(rand.Int64N(int64(delay)/4 + 1))
	return delay + jitter
}
