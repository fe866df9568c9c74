// FILE: internal/pkg/mailer/email_service.go
package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendCriticalAlertEscalation(toEmail string, caseId string, alertTitle string, alertDescription string, suggestedAction string) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
	senderName  string
	clientURL   string // Used to construct case links
}

func NewEmailService(host string, port int, username, password, senderEmail, senderName, clientURL string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)

	return &emailService{
		dialer:      d,
		senderEmail: senderEmail,
		senderName:  senderName,
		clientURL:   clientURL,
	}
}

func (s *emailService) SendCriticalAlertEscalation(toEmail string, caseId string, alertTitle string, alertDescription string, suggestedAction string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.senderEmail, s.senderName))
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", fmt.Sprintf("[CRITICAL] %s", alertTitle))

	caseLink := fmt.Sprintf("%s/cases/%s", s.clientURL, caseId)

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2 style="color: #D32F2F;">Critical Safety Alert</h2>
			<p><strong>%s</strong></p>
			<p>%s</p>
			<p><strong>Suggested action:</strong> %s</p>
			<a href="%s" style="background-color: #D32F2F; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px; display: inline-block;">Open Case</a>
			<p>Or copy this link:</p>
			<p>%s</p>
			<p>This is an automated decision-support notification. It does not replace clinical judgment.</p>
		</div>
	`, alertTitle, alertDescription, suggestedAction, caseLink, caseLink)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send escalation for case %s: %v\n", caseId, err)
		return err
	}

	fmt.Printf("[MAILER] Escalation sent for case %s to %s\n", caseId, toEmail)
	return nil
}
