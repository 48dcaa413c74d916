package mailer

import (
	"context"
	"fmt"

	"github.com/Abdurahmanit/estate-marketplace/internal/platform/logger"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

type Options struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPMailer notifies owners about their listings by email.
type SMTPMailer struct {
	sender sender
	from   string
	logger *logger.Logger
}

func NewSMTPMailer(opts Options, log *logger.Logger) *SMTPMailer {
	from := opts.From
	if from == "" {
		from = opts.Username
	}
	return &SMTPMailer{
		sender: gomail.NewDialer(opts.Host, opts.Port, opts.Username, opts.Password),
		from:   from,
		logger: log.Named("SMTPMailer"),
	}
}

func (m *SMTPMailer) SendListingCreatedEmail(ctx context.Context, toEmail, listingName string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := m.sender.DialAndSend(listingCreatedMessage(m.from, toEmail, listingName)); err != nil {
		m.logger.Error("Failed to send email", zap.String("to", toEmail), zap.Error(err))
		return fmt.Errorf("send listing created email to %s: %w", toEmail, err)
	}
	m.logger.Info("Listing created email sent", zap.String("to", toEmail))
	return nil
}

func listingCreatedMessage(from, to, listingName string) *gomail.Message {
	msg := gomail.NewMessage()
	msg.SetHeader("From", from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "New Listing Created")
	msg.SetBody("text/plain", fmt.Sprintf("Your listing '%s' has been created successfully.", listingName))
	return msg
}
