package mailqueue

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	smithy "github.com/aws/smithy-go"
)

// sesClient is the slice of the SESv2 API the transport uses.
type sesClient interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// SESTransport delivers through AWS SESv2. Credentials come from the AWS
// config chain, so Authenticate is a no-op.
type SESTransport struct {
	client sesClient
}

// NewSESTransport creates a SES-backed transport.
func NewSESTransport(client *sesv2.Client) *SESTransport {
	return &SESTransport{client: client}
}

func (t *SESTransport) Connect(ctx context.Context) (Session, error) {
	if t.client == nil {
		return nil, errors.New("mailqueue: ses client not configured")
	}
	return &sesSession{ctx: ctx, client: t.client}, nil
}

type sesSession struct {
	ctx    context.Context
	client sesClient
}

func (s *sesSession) Authenticate(identity, secret string) error { return nil }

func (s *sesSession) Submit(msg *Message) ([]string, error) {
	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(msg.From),
		Destination: &types.Destination{
			ToAddresses: []string{msg.To},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(msg.Subject),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Html: &types.Content{
						Data:    aws.String(msg.HTML),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}

	if _, err := s.client.SendEmail(s.ctx, input); err != nil {
		var rejected *types.MessageRejected
		if errors.As(err, &rejected) {
			return []string{msg.To}, nil
		}
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) {
			switch apiErr.ErrorCode() {
			case "AccessDeniedException", "InvalidClientTokenId", "SignatureDoesNotMatch", "UnrecognizedClientException":
				return nil, &AuthError{Err: err}
			}
		}
		return nil, fmt.Errorf("mailqueue: ses send: %w", err)
	}
	return nil, nil
}

func (s *sesSession) Close() error { return nil }
