package utils

import (
	"fmt"
	"net/smtp"

	"TRIPMATE_BACK-END/internal/config"
)

// EmailService handles email sending operations
type EmailService struct {
	config *config.EmailConfig
}

// NewEmailService creates a new email service instance
func NewEmailService(cfg *config.EmailConfig) *EmailService {
	return &EmailService{
		config: cfg,
	}
}

// SendRequestDecision notifies a requester that their join request was
// approved or denied. Best-effort: callers log failures and move on.
func (e *EmailService) SendRequestDecision(to, destination string, approved bool) error {
	var subject, verdict string
	if approved {
		subject = "Your join request was approved"
		verdict = "approved! Get ready to travel together."
	} else {
		subject = "Your join request was denied"
		verdict = "denied by the trip creator."
	}
	body := fmt.Sprintf(`
Hello,

Your request to join the trip to %s has been %s

You can see the trip details on your TripMate dashboard.

Best regards,
TripMate Team
	`, destination, verdict)

	return e.sendEmail(to, subject, body)
}

// sendEmail sends an email using SMTP
func (e *EmailService) sendEmail(to, subject, body string) error {
	// Check if credentials are set
	if e.config.SMTPUsername == "" || e.config.SMTPPassword == "" {
		return fmt.Errorf("email credentials not configured")
	}

	// Setup authentication
	auth := smtp.PlainAuth("", e.config.SMTPUsername, e.config.SMTPPassword, e.config.SMTPHost)

	// Compose message
	fromEmail := e.config.FromEmail
	if fromEmail == "" {
		fromEmail = e.config.SMTPUsername
	}

	message := []byte(fmt.Sprintf(
		"From: %s <%s>\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"\r\n"+
			"%s\r\n",
		e.config.FromName, fromEmail, to, subject, body))

	// Send email
	addr := e.config.SMTPHost + ":" + e.config.SMTPPort
	err := smtp.SendMail(addr, auth, fromEmail, []string{to}, message)
	if err != nil {
		return fmt.Errorf("failed to send email: %v", err)
	}

	return nil
}
