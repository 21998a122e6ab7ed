package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendHighSeverityAlert(flaggedUser, content, subcategory string, score float64) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
	senderName  string
	recipients  []string
}

func NewEmailService(host string, port int, username, password, senderEmail, senderName string, recipients []string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)

	return &emailService{
		dialer:      d,
		senderEmail: senderEmail,
		senderName:  senderName,
		recipients:  recipients,
	}
}

// SendHighSeverityAlert mails the moderator list when an alert lands with
// High priority, so urgent cases are seen even when nobody watches the
// mod channel.
func (s *emailService) SendHighSeverityAlert(flaggedUser, content, subcategory string, score float64) error {
	if len(s.recipients) == 0 {
		return nil
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.senderEmail, s.senderName)
	m.SetHeader("To", s.recipients...)
	m.SetHeader("Subject", "High severity moderation alert")

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>High severity alert</h2>
			<p>A message by <b>%s</b> was flagged for review:</p>
			<blockquote>%s</blockquote>
			<p>Subcategory: <b>%s</b><br>Score: <b>%.2f</b></p>
			<p>Please review it in the moderation channel.</p>
		</div>
	`, flaggedUser, content, subcategory, score)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send alert mail: %w", err)
	}
	return nil
}
