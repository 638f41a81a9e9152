package email

import "fmt"

// Subjects for the transactional messages.
const (
	SubjectWelcome       = "Welcome to our platform!"
	SubjectVerification  = "Verify your email address"
	SubjectPasswordReset = "Reset your password"
)

const layout = `<!DOCTYPE html>
<html>
  <body style="margin:0;padding:0;background-color:#f4f4f7;font-family:Helvetica,Arial,sans-serif;">
    <table role="presentation" width="100%%" cellpadding="0" cellspacing="0">
      <tr>
        <td align="center" style="padding:40px 0;">
          <table role="presentation" width="560" cellpadding="0" cellspacing="0" style="background-color:#ffffff;border-radius:8px;padding:40px;">
            <tr><td>%s</td></tr>
            <tr>
              <td style="padding-top:32px;color:#9ca3af;font-size:12px;">
                If you did not expect this email you can safely ignore it.
              </td>
            </tr>
          </table>
        </td>
      </tr>
    </table>
  </body>
</html>`

// WelcomeEmail renders the post-sign-up welcome message. The name is
// optional; when empty the greeting falls back to a generic salutation.
func WelcomeEmail(name string) string {
	greeting := "Hi there"
	if name != "" {
		greeting = "Hi " + name
	}
	body := fmt.Sprintf(`
      <h1 style="color:#111827;font-size:22px;margin:0 0 16px;">Welcome aboard!</h1>
      <p style="color:#374151;font-size:15px;line-height:1.6;">%s,</p>
      <p style="color:#374151;font-size:15px;line-height:1.6;">
        Your account is ready. Head over to your dashboard to get started:
        set your locale, pick a theme, and explore the docs.
      </p>`, greeting)
	return fmt.Sprintf(layout, body)
}

// VerificationEmail renders the email-verification message with the
// one-time confirmation link.
func VerificationEmail(verifyURL string) string {
	body := fmt.Sprintf(`
      <h1 style="color:#111827;font-size:22px;margin:0 0 16px;">Verify your email</h1>
      <p style="color:#374151;font-size:15px;line-height:1.6;">
        Confirm this address to finish setting up your account. The link
        expires in 24 hours.
      </p>
      <p style="margin:24px 0;">
        <a href="%s" style="background-color:#4f46e5;color:#ffffff;text-decoration:none;padding:12px 24px;border-radius:6px;font-size:15px;display:inline-block;">Verify email</a>
      </p>`, verifyURL)
	return fmt.Sprintf(layout, body)
}

// PasswordResetEmail renders the reset message with the one-time reset link.
func PasswordResetEmail(resetURL string) string {
	body := fmt.Sprintf(`
      <h1 style="color:#111827;font-size:22px;margin:0 0 16px;">Reset your password</h1>
      <p style="color:#374151;font-size:15px;line-height:1.6;">
        We received a request to reset the password for your account. The
        link below expires in one hour and can be used once.
      </p>
      <p style="margin:24px 0;">
        <a href="%s" style="background-color:#4f46e5;color:#ffffff;text-decoration:none;padding:12px 24px;border-radius:6px;font-size:15px;display:inline-block;">Choose a new password</a>
      </p>`, resetURL)
	return fmt.Sprintf(layout, body)
}
