package notify

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// Mailer delivers OTP and password reset emails over SMTP. A nil *Mailer is
// a valid "unconfigured" capability handle; callers check before use.
type Mailer struct {
	host     string
	port     int
	username string
	password string
	from     string
}

func NewMailer(host string, port int, username, password, from string) *Mailer {
	return &Mailer{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
	}
}

func (m *Mailer) send(to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	d := gomail.NewDialer(m.host, m.port, m.username, m.password)
	if err := d.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send email to %s: %v", to, err)
	}
	return nil
}

// SendOTPEmail delivers a signup verification code.
func (m *Mailer) SendOTPEmail(to, name, code string) error {
	body := fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
		<h2 style="color: #333; text-align: center;">Email Verification</h2>
		<p style="color: #666;">Hello %s,</p>
		<p style="color: #666;">Thank you for signing up! Please use the OTP below to verify your email address:</p>
		<div style="text-align: center; margin: 30px 0;">
			<span style="font-size: 24px; font-weight: bold; color: #007bff; background: #f8f9fa; padding: 15px 25px; border-radius: 5px; display: inline-block;">%s</span>
		</div>
		<p style="color: #999; font-size: 14px;">This OTP will expire in 5 minutes.</p>
		<p style="color: #999; font-size: 14px;">If you didn't request this verification, please ignore this email.</p>
	</div>`, name, code)
	return m.send(to, "Verify your email - OTP Code", body)
}

// SendResetEmail delivers a password reset link.
func (m *Mailer) SendResetEmail(to, resetURL string) error {
	body := fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
		<h2 style="color: #333; text-align: center;">Password Reset</h2>
		<p style="color: #666;">We received a request to reset your password. Click the button below to reset it:</p>
		<div style="text-align: center; margin: 30px 0;">
			<a href="%s" style="background-color: #007bff; color: white; padding: 12px 24px; text-decoration: none; border-radius: 5px; display: inline-block; font-weight: bold;">Reset Password</a>
		</div>
		<p style="color: #999; font-size: 14px;">This link will expire in 10 minutes.</p>
		<p style="color: #999; font-size: 14px;">If you didn't request this password reset, please ignore this email.</p>
	</div>`, resetURL)
	return m.send(to, "Password Reset Request", body)
}
