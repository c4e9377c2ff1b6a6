package mailer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewMessageHeaders(t *testing.T) {
	m := New(Config{Host: "smtp.example.com", Port: 587, FromName: "Pizzeria", FromEmail: "orders@example.com"})

	msg := m.NewMessage("jane@example.com", "Order #1001 confirmed", "Thanks!")

	assert.Equal(t, []string{"jane@example.com"}, msg.GetHeader("To"))
	assert.Equal(t, []string{"Order #1001 confirmed"}, msg.GetHeader("Subject"))
	assert.Len(t, msg.GetHeader("From"), 1)
	assert.Contains(t, msg.GetHeader("From")[0], "orders@example.com")
}

func TestSecureFlagSelectsImplicitTLS(t *testing.T) {
	assert.True(t, New(Config{Host: "smtp.example.com", Port: 465, Secure: true}).dialer.SSL)
	assert.False(t, New(Config{Host: "smtp.example.com", Port: 587}).dialer.SSL)
}

func TestCancelledContextSkipsDial(t *testing.T) {
	m := New(Config{Host: "smtp.invalid", Port: 587})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, m.Verify(ctx), context.Canceled)
	assert.ErrorIs(t, m.Send(ctx, "a@example.com", "s", "b"), context.Canceled)
}
