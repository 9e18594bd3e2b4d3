package notifications

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitEmailServiceWithoutCredentials(t *testing.T) {
	t.Setenv("BREVO_API_KEY", "")
	t.Setenv("EMAIL_SENDER", "")
	t.Setenv("EMAIL_SENDER_NAME", "")

	// Missing credentials must degrade to a nil client, never crash boot.
	require.NotPanics(t, InitEmailService)
	assert.Nil(t, EmailClient)

	require.NotPanics(t, func() {
		SendEmail("Jess", "jess@example.com", "Hello", "<p>Hi</p>")
	})
}

func TestInitEmailServiceWithShortKey(t *testing.T) {
	t.Setenv("BREVO_API_KEY", "abc")
	t.Setenv("EMAIL_SENDER", "noreply@pawpal.example")
	t.Setenv("EMAIL_SENDER_NAME", "PawPal")

	require.NotPanics(t, InitEmailService)
	require.NotNil(t, EmailClient)
	assert.Equal(t, "abc", EmailClient.APIKey)
}

func TestInitEmailServiceConfigured(t *testing.T) {
	t.Setenv("BREVO_API_KEY", "xkeysib-0123456789abcdef")
	t.Setenv("EMAIL_SENDER", "noreply@pawpal.example")
	t.Setenv("EMAIL_SENDER_NAME", "PawPal")

	InitEmailService()

	require.NotNil(t, EmailClient)
	assert.Equal(t, "noreply@pawpal.example", EmailClient.SenderEmail)
	assert.Equal(t, "PawPal", EmailClient.SenderName)
}

func TestKeyPrefix(t *testing.T) {
	assert.Equal(t, "", keyPrefix(""))
	assert.Equal(t, "short", keyPrefix("short"))
	assert.Equal(t, "xkeysib-", keyPrefix("xkeysib-0123456789"))
}
