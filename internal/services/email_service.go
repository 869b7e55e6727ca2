package services

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"authapi/internal/models"
)

type EmailService interface {
	SendVerificationCode(email, code, kind string) error
}

type emailService struct {
	dialer *gomail.Dialer
	from   string
}

func NewEmailService(smtpHost string, smtpPort int, smtpUser, smtpPassword, fromEmail string) EmailService {
	dialer := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPassword)
	return &emailService{
		dialer: dialer,
		from:   fromEmail,
	}
}

func (s *emailService) SendVerificationCode(email, code, kind string) error {
	subject := "Email Verification Code"
	if kind == models.CodeKindPasswordReset {
		subject = "Password Reset Code"
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", subject)

	body := fmt.Sprintf(`
		<p>Your code is: <strong>%s</strong></p>
		<p>This code expires in 10 minutes.</p>
		<p>If you did not request this code, you can ignore this email.</p>
	`, code)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send verification code email: %w", err)
	}

	return nil
}
