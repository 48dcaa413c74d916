package mailer

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/Abdurahmanit/estate-marketplace/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

type fakeSender struct {
	sent []*gomail.Message
	err  error
}

func (f *fakeSender) DialAndSend(m ...*gomail.Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, m...)
	return nil
}

func TestSMTPMailer_SendListingCreatedEmail(t *testing.T) {
	fake := &fakeSender{}
	m := &SMTPMailer{sender: fake, from: "noreply@estate.test", logger: logger.NewNop()}

	require.NoError(t, m.SendListingCreatedEmail(context.Background(), "owner@example.com", "Lakeview"))
	require.Len(t, fake.sent, 1)

	msg := fake.sent[0]
	assert.Equal(t, []string{"noreply@estate.test"}, msg.GetHeader("From"))
	assert.Equal(t, []string{"owner@example.com"}, msg.GetHeader("To"))
	assert.Equal(t, []string{"New Listing Created"}, msg.GetHeader("Subject"))

	var buf bytes.Buffer
	_, err := msg.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Your listing 'Lakeview' has been created successfully.")
}

func TestSMTPMailer_SendError(t *testing.T) {
	fake := &fakeSender{err: errors.New("connection refused")}
	m := &SMTPMailer{sender: fake, from: "noreply@estate.test", logger: logger.NewNop()}

	err := m.SendListingCreatedEmail(context.Background(), "owner@example.com", "Lakeview")
	assert.ErrorContains(t, err, "connection refused")
}

func TestSMTPMailer_CanceledContext(t *testing.T) {
	fake := &fakeSender{}
	m := &SMTPMailer{sender: fake, from: "noreply@estate.test", logger: logger.NewNop()}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, m.SendListingCreatedEmail(ctx, "owner@example.com", "Lakeview"), context.Canceled)
	assert.Empty(t, fake.sent)
}

func TestNewSMTPMailer_FromFallsBackToUsername(t *testing.T) {
	m := NewSMTPMailer(Options{Host: "smtp.example.com", Port: 587, Username: "bot@example.com"}, logger.NewNop())
	assert.Equal(t, "bot@example.com", m.from)
}
