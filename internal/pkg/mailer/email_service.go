package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendHandoffNotice(expertEmail, expertName, sessionId, productName string) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
}

func NewEmailService(host string, port int, username, password, senderEmail string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)

	return &emailService{
		dialer:      d,
		senderEmail: senderEmail,
	}
}

// SendHandoffNotice alerts an expert that a session ended unsatisfied and
// will likely contact them.
func (s *emailService) SendHandoffNotice(expertEmail, expertName, sessionId, productName string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", expertEmail)
	m.SetHeader("Subject", "Support handoff: a customer needs your help")

	product := productName
	if product == "" {
		product = "general product support"
	}

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Hi %s,</h2>
			<p>A support session ended with an unsatisfied customer and your contact details were shared with them.</p>
			<p><strong>Topic:</strong> %s</p>
			<p><strong>Session reference:</strong> %s</p>
			<p>The full conversation is available in the session history for this reference.</p>
		</div>
	`, expertName, product, sessionId)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send handoff notice to %s: %w", expertEmail, err)
	}
	return nil
}
