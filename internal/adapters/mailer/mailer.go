package mailer

import (
	"fmt"

	"learnstack-service/internal/config"

	gomail "gopkg.in/gomail.v2"
)

// Mailer delivers verification tokens and OTP codes. Verification mail is
// best-effort (the account exists either way); a failed OTP send is surfaced
// because the user cannot proceed without the code.
type Mailer interface {
	SendVerification(to, token string) error
	SendOTP(to, otp string) error
}

type smtpMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPMailer(cfg *config.SMTPConfig) Mailer {
	return &smtpMailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (m *smtpMailer) SendVerification(to, token string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Verify your LearnStack account")
	msg.SetBody("text/html", fmt.Sprintf(
		"<p>Welcome to LearnStack!</p><p>Use this token to verify your account within 10 minutes:</p><pre>%s</pre>", token))
	return m.dialer.DialAndSend(msg)
}

func (m *smtpMailer) SendOTP(to, otp string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Your LearnStack password reset code")
	msg.SetBody("text/html", fmt.Sprintf(
		"<p>Your one-time code is <b>%s</b>. It expires in 10 minutes.</p>", otp))
	return m.dialer.DialAndSend(msg)
}
