// Package notification delivers patient-facing email notifications for
// application decisions and appointment bookings. Delivery failures are
// returned for the caller to log; they must never abort the state
// transition that triggered the notification.
package notification

import (
	"context"
	"errors"
	"fmt"
	"net/smtp"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// EmailSender is the interface for sending email messages.
type EmailSender interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

// ---------------------------------------------------------------------------
// Template Engine
// ---------------------------------------------------------------------------

// Template defines a reusable notification template.
type Template struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// TemplateEngine manages notification templates and renders them with data.
type TemplateEngine struct {
	mu        sync.RWMutex
	templates map[string]*Template
}

// NewTemplateEngine creates a TemplateEngine with the built-in templates pre-registered.
func NewTemplateEngine() *TemplateEngine {
	e := &TemplateEngine{
		templates: make(map[string]*Template),
	}
	e.registerBuiltIn()
	return e
}

func (e *TemplateEngine) registerBuiltIn() {
	builtIn := []Template{
		{
			ID:      "application-status",
			Name:    "Application Status Update",
			Subject: "Your Insurance Application has been {{status_title}}",
			Body: "Hello {{patient_name}},\n\n" +
				"Your insurance application status has been updated to: {{status_upper}}.\n\n" +
				"Thank you for trusting us with your health journey.\n\n" +
				"At our care center, we believe that mental health is just as important as physical health. " +
				"This is a step forward in ensuring you receive the support you deserve.\n\n" +
				"Let's connect and work together for better mental health care.\n" +
				"Remember, you are not alone — we are here to support you every step of the way.\n\n" +
				"Warm regards,\n" +
				"Insurer Provider",
		},
		{
			ID:      "appointment-scheduled",
			Name:    "Appointment Scheduled",
			Subject: "Your Mental Health Appointment is Scheduled",
			Body: "Hello {{patient_name}},\n\n" +
				"Your appointment has been scheduled on {{appointment_time}}.\n\n" +
				"Your mental health is our priority, and we've scheduled this appointment to support your well-being.\n\n" +
				"Please arrive on time for your session.\n" +
				"Come with an open mind and share freely — we are here to listen and support you.\n\n" +
				"Warm regards,\n" +
				"Insurer Provider",
		},
	}
	for i := range builtIn {
		t := builtIn[i]
		e.templates[t.ID] = &t
	}
}

// RegisterTemplate adds or replaces a template in the engine.
func (e *TemplateEngine) RegisterTemplate(t Template) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.templates[t.ID] = &t
}

// Render looks up a template by ID and performs {{key}} replacement using the
// supplied data map. Keys present in the template but absent from data are left
// as-is.
func (e *TemplateEngine) Render(templateID string, data map[string]string) (subject, body string, err error) {
	e.mu.RLock()
	t, ok := e.templates[templateID]
	e.mu.RUnlock()
	if !ok {
		return "", "", fmt.Errorf("template %q not found", templateID)
	}

	subject = t.Subject
	body = t.Body
	for k, v := range data {
		placeholder := "{{" + k + "}}"
		subject = strings.ReplaceAll(subject, placeholder, v)
		body = strings.ReplaceAll(body, placeholder, v)
	}
	return subject, body, nil
}

// ---------------------------------------------------------------------------
// SMTP sender
// ---------------------------------------------------------------------------

// SMTPConfig holds the connection settings for the outbound mail relay.
type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
}

// SMTPSender delivers email over an authenticated STARTTLS SMTP relay.
type SMTPSender struct {
	cfg SMTPConfig
}

func NewSMTPSender(cfg SMTPConfig) *SMTPSender {
	return &SMTPSender{cfg: cfg}
}

func (s *SMTPSender) SendEmail(_ context.Context, to, subject, body string) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	msg := strings.Join([]string{
		"From: " + s.cfg.User,
		"To: " + to,
		"Subject: " + subject,
		"",
		body,
	}, "\r\n")

	auth := smtp.PlainAuth("", s.cfg.User, s.cfg.Password, s.cfg.Host)
	if err := smtp.SendMail(addr, auth, s.cfg.User, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Mock sender (test double)
// ---------------------------------------------------------------------------

// EmailCall records a single call to SendEmail.
type EmailCall struct {
	To      string
	Subject string
	Body    string
}

// MockEmailSender is a test double for EmailSender.
type MockEmailSender struct {
	mu         sync.Mutex
	calls      []EmailCall
	ShouldFail bool
	FailError  string
}

// SendEmail records the call and optionally returns an error.
func (m *MockEmailSender) SendEmail(_ context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, EmailCall{To: to, Subject: subject, Body: body})
	if m.ShouldFail {
		return errors.New(m.FailError)
	}
	return nil
}

// Calls returns a copy of recorded email calls.
func (m *MockEmailSender) Calls() []EmailCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]EmailCall, len(m.calls))
	copy(out, m.calls)
	return out
}

// ---------------------------------------------------------------------------
// Notifier
// ---------------------------------------------------------------------------

// Notifier renders and sends the two patient-facing notifications.
type Notifier struct {
	sender    EmailSender
	templates *TemplateEngine
	logger    zerolog.Logger
}

func NewNotifier(sender EmailSender, tpl *TemplateEngine, logger zerolog.Logger) *Notifier {
	return &Notifier{sender: sender, templates: tpl, logger: logger}
}

// NotifyStatus tells the patient about an application decision.
func (n *Notifier) NotifyStatus(ctx context.Context, email, name, status string) error {
	return n.send(ctx, "application-status", email, map[string]string{
		"patient_name": name,
		"status_title": titleCase(status),
		"status_upper": strings.ToUpper(status),
	})
}

// NotifyAppointment tells the patient about a scheduled appointment.
func (n *Notifier) NotifyAppointment(ctx context.Context, email, name string, when time.Time) error {
	return n.send(ctx, "appointment-scheduled", email, map[string]string{
		"patient_name":     name,
		"appointment_time": when.Format("Monday, January 2, 2006 at 3:04 PM"),
	})
}

func (n *Notifier) send(ctx context.Context, templateID, to string, data map[string]string) error {
	subject, body, err := n.templates.Render(templateID, data)
	if err != nil {
		return fmt.Errorf("render %s: %w", templateID, err)
	}
	n.logger.Debug().Str("recipient", to).Str("template", templateID).Msg("sending notification")
	return n.sender.SendEmail(ctx, to, subject, body)
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
