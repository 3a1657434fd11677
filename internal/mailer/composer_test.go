package mailer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestComposer_DefaultTemplate(t *testing.T) {
	c, err := NewComposer("StegaShield", "", 5*time.Minute)
	require.NoError(t, err)

	msg, err := c.CodeMessage("user@example.com", 123456)
	require.NoError(t, err)
	require.Equal(t, "user@example.com", msg.To)
	require.Equal(t, "Your 2FA Verification Code", msg.Subject)
	require.Contains(t, msg.HTMLBody, "<p>Your StegaShield verification code is:</p>")
	require.Contains(t, msg.HTMLBody, "<h2>123456</h2>")
	require.Contains(t, msg.HTMLBody, "This code will expire in 5 minutes.")
}

func TestComposer_CustomTemplate(t *testing.T) {
	c, err := NewComposer("Acme", "**{{.Code}}** for {{.Brand}}, valid {{.Minutes}}m", 90*time.Second)
	require.NoError(t, err)

	msg, err := c.CodeMessage("a@b.c", 100001)
	require.NoError(t, err)
	require.Contains(t, msg.HTMLBody, "<strong>100001</strong> for Acme, valid 1m")
}

func TestComposer_BadTemplate(t *testing.T) {
	_, err := NewComposer("Acme", "{{.Code", time.Minute)
	require.Error(t, err)
}
