// Package mailer is the notification collaborator: templated selection,
// rejection and interview-invite mail over authenticated STARTTLS submission.
package mailer

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"
)

// Mailer sends transactional mail through a fixed relay on the standard
// submission port, authenticated with the sender's credentials.
type Mailer struct {
	host    string
	port    int
	sender  string
	passkey string
	company string
}

func New(host string, port int, sender, passkey, company string) *Mailer {
	return &Mailer{
		host:    host,
		port:    port,
		sender:  sender,
		passkey: passkey,
		company: company,
	}
}

// SendSelection notifies the candidate that their skills matched and the
// application is moving forward.
func (m *Mailer) SendSelection(ctx context.Context, to, role string) error {
	subject := fmt.Sprintf("Congratulations - next steps for the %s role", role)
	body := selectionBody(role, m.company)
	return m.send(ctx, subject, body, to)
}

// SendRejection notifies the candidate that the application will not move
// forward.
func (m *Mailer) SendRejection(ctx context.Context, to, role, feedback string) error {
	subject := fmt.Sprintf("Update on your %s application", role)
	body := rejectionBody(role, m.company, feedback)
	return m.send(ctx, subject, body, to)
}

// SendInvite delivers the scheduled interview details with the meeting link.
func (m *Mailer) SendInvite(ctx context.Context, to, role, link, slotTime string) error {
	subject := "Interview Scheduled"
	body := inviteBody(role, m.company, link, slotTime)
	return m.send(ctx, subject, body, to)
}

func (m *Mailer) send(ctx context.Context, subject, body string, to ...string) error {
	msg := mail.NewMsg()
	if err := msg.From(m.sender); err != nil {
		return fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(to...); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	client, err := mail.NewClient(m.host,
		mail.WithPort(m.port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(m.sender),
		mail.WithPassword(m.passkey),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return fmt.Errorf("mail client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}

func selectionBody(role, company string) string {
	return fmt.Sprintf(`Dear Candidate,

Congratulations! Your skills match the requirements for the %s role at %s.

We will follow up shortly with your interview details.

Best regards,
%s Hiring Team
`, role, company, company)
}

func rejectionBody(role, company, feedback string) string {
	body := fmt.Sprintf(`Dear Candidate,

Thank you for applying for the %s role at %s. Unfortunately we will not be
moving forward with your application at this time.
`, role, company)
	if feedback != "" {
		body += fmt.Sprintf("\nFeedback: %s\n", feedback)
	}
	body += fmt.Sprintf(`
Best regards,
%s Hiring Team
`, company)
	return body
}

func inviteBody(role, company, link, slotTime string) string {
	return fmt.Sprintf(`Dear Candidate,

You have an interview scheduled for the role of %s.

Meeting Details:
Link: %s
Time: %s UTC

Please join the interview 5 minutes early.

Best regards,
%s Hiring Team
`, role, link, slotTime, company)
}
