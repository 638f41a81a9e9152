package email

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWelcomeEmail(t *testing.T) {
	html := WelcomeEmail("Alice")
	assert.Contains(t, html, "Hi Alice")
	assert.Contains(t, html, "<!DOCTYPE html>")

	anonymous := WelcomeEmail("")
	assert.Contains(t, anonymous, "Hi there")
}

func TestVerificationEmail(t *testing.T) {
	html := VerificationEmail("http://localhost:3000/auth/callback?token=abc123")
	assert.Contains(t, html, `href="http://localhost:3000/auth/callback?token=abc123"`)
	assert.Contains(t, html, "expires in 24 hours")
}

func TestPasswordResetEmail(t *testing.T) {
	html := PasswordResetEmail("http://localhost:3000/auth/update-password?token=abc123")
	assert.Contains(t, html, `href="http://localhost:3000/auth/update-password?token=abc123"`)
	assert.Contains(t, html, "can be used once")
}

func TestTemplates_NoUnexpandedVerbs(t *testing.T) {
	for name, html := range map[string]string{
		"welcome":      WelcomeEmail("Bob"),
		"verification": VerificationEmail("https://example.com"),
		"reset":        PasswordResetEmail("https://example.com"),
	} {
		assert.False(t, strings.Contains(html, "%!"), "%s template has a formatting error", name)
		assert.False(t, strings.Contains(html, "%%"), "%s template leaked an escaped percent", name)
	}
}

func TestNewMailer_FallsBackToLogMailer(t *testing.T) {
	assert.IsType(t, &LogMailer{}, NewMailer("", "from@example.com", "App"))
	assert.IsType(t, &SendGridMailer{}, NewMailer("SG.key", "from@example.com", "App"))
}
