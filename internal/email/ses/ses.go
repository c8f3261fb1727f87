package ses

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"docflow/internal/email"
	"docflow/internal/port"
)

// API is the subset of the SES v2 client used to send mail.
type API interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

type sesSender struct {
	client API
	from   email.Sender
}

// NewSESSender creates a new SES-backed EmailSender. Messages go out as raw
// MIME so documents can be attached.
func NewSESSender(ctx context.Context, region, fromAddress, fromName string) (port.EmailSender, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config for SES: %w", err)
	}
	return NewWithClient(sesv2.NewFromConfig(cfg), fromAddress, fromName), nil
}

// NewWithClient wraps an existing SES client.
func NewWithClient(client API, fromAddress, fromName string) port.EmailSender {
	return &sesSender{client: client, from: email.Sender{Address: fromAddress, Name: fromName}}
}

func (s *sesSender) Send(ctx context.Context, msg port.EmailMessage) error {
	raw, err := email.Raw(s.from, msg)
	if err != nil {
		return err
	}
	_, err = s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: &s.from.Address,
		Destination:      &types.Destination{ToAddresses: msg.To},
		Content: &types.EmailContent{
			Raw: &types.RawMessage{Data: raw},
		},
	})
	if err != nil {
		return fmt.Errorf("SES SendEmail: %w", err)
	}
	return nil
}
