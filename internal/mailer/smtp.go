// Package mailer delivers rendered reports over SMTP or Amazon SES.
package mailer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"poalerts/config"
	"poalerts/models"

	"github.com/google/uuid"
	"gopkg.in/gomail.v2"
)

var errNoRecipients = errors.New("message has no recipients")

// SMTPSender sends multipart text/html messages through an SMTP relay
type SMTPSender struct {
	from string
	dial func() (gomail.SendCloser, error)
}

func NewSMTPSender(cfg config.MailConfig) *SMTPSender {
	dialer := gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword)
	return &SMTPSender{
		from: cfg.From,
		dial: dialer.Dial,
	}
}

// Send delivers msg and returns the generated Message-ID as the delivery ID.
// It never returns while the SMTP session is still writing: when ctx ends the
// session is closed and Send waits for the transfer to stop.
func (s *SMTPSender) Send(ctx context.Context, msg models.Message) (string, error) {
	if len(msg.To) == 0 {
		return "", errNoRecipients
	}
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("smtp send aborted: %w", err)
	}

	messageID := newMessageID(s.from)
	m := buildMessage(s.from, messageID, msg)

	sc, err := s.dial()
	if err != nil {
		return "", fmt.Errorf("smtp dial failed: %w", err)
	}

	done := make(chan error, 1)
	go func() {
		done <- gomail.Send(sc, m)
	}()

	select {
	case err = <-done:
		sc.Close()
	case <-ctx.Done():
		sc.Close()
		if err = <-done; err != nil {
			return "", fmt.Errorf("smtp send aborted: %w", errors.Join(ctx.Err(), err))
		}
		// the relay accepted the message before the session closed
	}
	if err != nil {
		return "", fmt.Errorf("smtp send failed: %w", err)
	}
	return messageID, nil
}

func buildMessage(from, messageID string, msg models.Message) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", msg.To...)
	m.SetHeader("Subject", msg.Subject)
	m.SetHeader("Message-ID", messageID)
	m.SetBody("text/plain", msg.Text)
	if msg.HTML != "" {
		m.AddAlternative("text/html", msg.HTML)
	}
	return m
}

func newMessageID(from string) string {
	domain := "localhost"
	if at := strings.LastIndex(from, "@"); at >= 0 && at < len(from)-1 {
		domain = strings.Trim(from[at+1:], "> ")
	}
	return fmt.Sprintf("<%s@%s>", uuid.NewString(), domain)
}
