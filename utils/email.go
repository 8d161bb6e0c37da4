package utils

import (
	"fmt"
	"os"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// EmailService sends transactional mail through SendGrid.
type EmailService struct {
	client *sendgrid.Client
	sender string
}

// NewEmailService reads SENDGRID_API_KEY and EMAIL_SENDER from the
// environment. With no API key configured it returns a disabled service
// whose sends are no-ops, so local development works without SendGrid.
func NewEmailService() *EmailService {
	apiKey := os.Getenv("SENDGRID_API_KEY")
	if apiKey == "" {
		return &EmailService{}
	}
	return &EmailService{
		client: sendgrid.NewSendClient(apiKey),
		sender: os.Getenv("EMAIL_SENDER"),
	}
}

// SendWelcomeEmail greets a newly registered account.
func (es *EmailService) SendWelcomeEmail(toEmail, account string) error {
	subject := "Welcome to boardshop"
	body := fmt.Sprintf("Hi %s, your account has been created.", account)
	return es.send(toEmail, subject, body)
}

func (es *EmailService) send(toEmail, subject, body string) error {
	if es.client == nil {
		return nil
	}
	from := mail.NewEmail("boardshop", es.sender)
	to := mail.NewEmail("", toEmail)
	message := mail.NewSingleEmail(from, subject, to, body, body)
	resp, err := es.client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid rejected email: status %d", resp.StatusCode)
	}
	return nil
}
