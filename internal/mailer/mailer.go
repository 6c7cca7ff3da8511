// Package mailer sends the handful of transactional mails the app needs.
package mailer

import (
	"fmt"
	"log"
	"net/smtp"
)

type Mailer interface {
	SendPasswordReset(to, resetLink string) error
}

// SMTP sends through a plain SMTP relay. Addr is host:port.
type SMTP struct {
	Addr string
	From string
}

func (m *SMTP) SendPasswordReset(to, resetLink string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: Reset your password\r\n\r\n"+
		"A password reset was requested for your account.\r\n\r\n"+
		"Open this link to choose a new password (valid for one hour):\r\n%s\r\n\r\n"+
		"If you didn't request this, you can ignore this message.\r\n",
		m.From, to, resetLink)
	if err := smtp.SendMail(m.Addr, nil, m.From, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("send reset mail: %w", err)
	}
	return nil
}

// LogOnly writes the reset link to the server log instead of sending mail.
// Used when no SMTP relay is configured, typically in development.
type LogOnly struct{}

func (LogOnly) SendPasswordReset(to, resetLink string) error {
	log.Printf("mailer: password reset for %s: %s", to, resetLink)
	return nil
}
