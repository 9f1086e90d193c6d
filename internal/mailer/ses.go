package mailer

import (
	"context"
	"fmt"

	"poalerts/config"
	"poalerts/models"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/ses"
	"github.com/aws/aws-sdk-go/service/ses/sesiface"
)

const charset = "UTF-8"

// SESSender sends reports with Amazon SES SendEmail
type SESSender struct {
	client sesiface.SESAPI
	from   string
}

func NewSESSender(cfg config.MailConfig) (*SESSender, error) {
	awsConfig := &aws.Config{
		Region: aws.String(cfg.SESRegion),
	}

	// For local testing against an SES emulator
	if cfg.SESEndpoint != "" {
		awsConfig.Endpoint = aws.String(cfg.SESEndpoint)
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return &SESSender{client: ses.New(sess), from: cfg.From}, nil
}

// Send returns the SES MessageId as the delivery ID.
func (s *SESSender) Send(ctx context.Context, msg models.Message) (string, error) {
	if len(msg.To) == 0 {
		return "", errNoRecipients
	}

	out, err := s.client.SendEmailWithContext(ctx, buildSendEmailInput(s.from, msg))
	if err != nil {
		return "", fmt.Errorf("ses send failed: %w", err)
	}
	return aws.StringValue(out.MessageId), nil
}

func buildSendEmailInput(from string, msg models.Message) *ses.SendEmailInput {
	body := &ses.Body{
		Text: &ses.Content{Charset: aws.String(charset), Data: aws.String(msg.Text)},
	}
	if msg.HTML != "" {
		body.Html = &ses.Content{Charset: aws.String(charset), Data: aws.String(msg.HTML)}
	}

	return &ses.SendEmailInput{
		Source: aws.String(from),
		Destination: &ses.Destination{
			ToAddresses: aws.StringSlice(msg.To),
		},
		Message: &ses.Message{
			Subject: &ses.Content{Charset: aws.String(charset), Data: aws.String(msg.Subject)},
			Body:    body,
		},
	}
}
