package utils

import (
	"errors"
	"fmt"
	"html"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"gopkg.in/gomail.v2"
)

// ErrMailDisabled is returned by DisabledMailer.
var ErrMailDisabled = errors.New("mail delivery is not configured")

// MailMessage is a single outgoing email.
type MailMessage struct {
	To      []string
	Subject string
	Text    string
	HTML    string
}

// Mailer delivers MailMessages.
type Mailer interface {
	Send(msg MailMessage) error
}

// SMTPMailer sends through an SMTP relay with gomail.
type SMTPMailer struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
}

// Send implements Mailer
func (m *SMTPMailer) Send(msg MailMessage) error {
	if len(msg.To) == 0 {
		return errors.New("no recipients")
	}
	gm := gomail.NewMessage()
	gm.SetAddressHeader("From", m.From, m.FromName)
	gm.SetHeader("To", msg.To...)
	gm.SetHeader("Subject", msg.Subject)
	gm.SetBody("text/plain", msg.Text)
	if msg.HTML != "" {
		gm.AddAlternative("text/html", msg.HTML)
	}

	d := gomail.NewDialer(m.Host, m.Port, m.Username, m.Password)
	if err := d.DialAndSend(gm); err != nil {
		return fmt.Errorf("failed to send email: %v", err)
	}
	return nil
}

// SendGridMailer sends through the SendGrid v3 API.
type SendGridMailer struct {
	APIKey   string
	From     string
	FromName string
}

// Send implements Mailer
func (m *SendGridMailer) Send(msg MailMessage) error {
	if len(msg.To) == 0 {
		return errors.New("no recipients")
	}
	email := mail.NewV3Mail()
	email.SetFrom(mail.NewEmail(m.FromName, m.From))
	email.Subject = msg.Subject

	p := mail.NewPersonalization()
	for _, to := range msg.To {
		p.AddTos(mail.NewEmail("", to))
	}
	email.AddPersonalizations(p)
	email.AddContent(mail.NewContent("text/plain", msg.Text))
	if msg.HTML != "" {
		email.AddContent(mail.NewContent("text/html", msg.HTML))
	}

	resp, err := sendgrid.NewSendClient(m.APIKey).Send(email)
	if err != nil {
		return fmt.Errorf("failed to send email: %v", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid rejected email: status %d", resp.StatusCode)
	}
	return nil
}

// DisabledMailer refuses every message. Used when no mail backend is configured.
type DisabledMailer struct{}

// Send implements Mailer
func (DisabledMailer) Send(MailMessage) error { return ErrMailDisabled }

// ContactConfirmation builds the thank-you mail sent after a contact form submission.
func ContactConfirmation(firstName, inquiryType, message string) (subject, text, htmlBody string) {
	subject = fmt.Sprintf("Thank you for your inquiry about %s", inquiryType)
	text = fmt.Sprintf("Hi %s,\n\nThank you for reaching out to us regarding %s. We will get back to you shortly.\n\nMessage: %s",
		firstName, inquiryType, message)
	htmlBody = fmt.Sprintf(`
		<h2>Hello %s, Thank You for Contacting Us!</h2>
		<p>Your interest in our <strong>%s</strong> services is much appreciated.</p>
		<p>Here is a summary of your message to us:</p>
		<blockquote>%s</blockquote>
		<p>Our team aims to get back to you within one business day.</p>
		<p>Warm regards,<br><strong>The Team at %s</strong></p>
	`, html.EscapeString(firstName), html.EscapeString(inquiryType), html.EscapeString(message), AppName)
	return subject, text, htmlBody
}
