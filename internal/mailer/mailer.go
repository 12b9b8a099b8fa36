package mailer

import (
	"fmt"
	"net/smtp"
	"strings"

	"ecolabs/pkg/types"
)

// Mailer sends transactional mail over SMTP. Every send is best-effort;
// callers log failures and carry on, a committed write is never rolled
// back because a notification could not go out.
type Mailer struct {
	host     string
	port     uint
	user     string
	password string
	from     string
	admin    string
}

func New(config *types.Config) *Mailer {
	return &Mailer{
		host:     config.SMTPHost,
		port:     config.SMTPPort,
		user:     config.SMTPUser,
		password: config.SMTPPassword,
		from:     config.SMTPUser,
		admin:    config.AdminEmail,
	}
}

func (m *Mailer) send(to, subject, body string) error {
	if m.host == "" {
		return fmt.Errorf("smtp host is not configured")
	}

	msg := strings.Join([]string{
		"From: " + m.from,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"utf-8\"",
		"",
		body,
	}, "\r\n")

	addr := fmt.Sprintf("%s:%d", m.host, m.port)
	auth := smtp.PlainAuth("", m.user, m.password, m.host)

	if err := smtp.SendMail(addr, auth, m.from, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", to, err)
	}

	return nil
}

// SendWelcome delivers the system-generated password for an account
// created on someone's behalf.
func (m *Mailer) SendWelcome(to, name, password string) error {
	body := fmt.Sprintf("Hello %s,\n\nAn account has been created for you on the Eco Labs platform.\n\nYour temporary password is: %s\n\nPlease sign in and change it as soon as possible.\n", name, password)
	return m.send(to, "Welcome to Eco Labs", body)
}

// SendPasswordReset delivers a password reset code.
func (m *Mailer) SendPasswordReset(to, name, code string) error {
	body := fmt.Sprintf("Hello %s,\n\nA password reset was requested for your account.\n\nYour reset code is: %s\n\nIf you did not request this, you can ignore this message.\n", name, code)
	return m.send(to, "Eco Labs password reset", body)
}

// SendResearcherApplication notifies the site admin about a new
// researcher registration awaiting review.
func (m *Mailer) SendResearcherApplication(name, email string) error {
	if m.admin == "" {
		return fmt.Errorf("admin email is not configured")
	}
	body := fmt.Sprintf("A new researcher has applied:\n\nName: %s\nEmail: %s\n\nReview the application in the admin dashboard.\n", name, email)
	return m.send(m.admin, "New researcher application", body)
}

// SendResearcherDecision notifies a researcher that their application
// was approved or rejected.
func (m *Mailer) SendResearcherDecision(to, name string, status types.ResearcherStatus) error {
	body := fmt.Sprintf("Hello %s,\n\nYour researcher application has been %s.\n", name, status)
	return m.send(to, "Your Eco Labs application", body)
}

// SendBidPlaced notifies the site admin about a new bid.
func (m *Mailer) SendBidPlaced(researcherName, propertyName string) error {
	if m.admin == "" {
		return fmt.Errorf("admin email is not configured")
	}
	body := fmt.Sprintf("%s placed a bid on %s.\n\nReview it in the admin dashboard.\n", researcherName, propertyName)
	return m.send(m.admin, "New bid placed", body)
}

// SendReportSubmitted notifies the site admin about a new research report.
func (m *Mailer) SendReportSubmitted(researcherName, propertyName string) error {
	if m.admin == "" {
		return fmt.Errorf("admin email is not configured")
	}
	body := fmt.Sprintf("%s submitted a research report for %s.\n", researcherName, propertyName)
	return m.send(m.admin, "New research report", body)
}
