package notification

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestRenderApplicationStatus(t *testing.T) {
	e := NewTemplateEngine()

	subject, body, err := e.Render("application-status", map[string]string{
		"patient_name": "Jane Roe",
		"status_title": "Accepted",
		"status_upper": "ACCEPTED",
	})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if subject != "Your Insurance Application has been Accepted" {
		t.Errorf("unexpected subject: %q", subject)
	}
	if !strings.Contains(body, "Hello Jane Roe,") {
		t.Errorf("body missing greeting: %q", body)
	}
	if !strings.Contains(body, "ACCEPTED") {
		t.Errorf("body missing status: %q", body)
	}
	if strings.Contains(body, "{{") {
		t.Errorf("unreplaced placeholder in body: %q", body)
	}
}

func TestRenderUnknownTemplate(t *testing.T) {
	e := NewTemplateEngine()
	if _, _, err := e.Render("no-such-template", nil); err == nil {
		t.Fatal("expected error for unknown template")
	}
}

func TestRenderLeavesMissingKeys(t *testing.T) {
	e := NewTemplateEngine()

	_, body, err := e.Render("application-status", map[string]string{"patient_name": "Jane"})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !strings.Contains(body, "{{status_upper}}") {
		t.Errorf("missing key should be left as-is, body: %q", body)
	}
}

func TestRegisterTemplateOverrides(t *testing.T) {
	e := NewTemplateEngine()
	e.RegisterTemplate(Template{ID: "application-status", Subject: "custom", Body: "custom body"})

	subject, body, err := e.Render("application-status", nil)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if subject != "custom" || body != "custom body" {
		t.Errorf("override not applied: %q / %q", subject, body)
	}
}

func TestNotifyStatus(t *testing.T) {
	sender := &MockEmailSender{}
	n := NewNotifier(sender, NewTemplateEngine(), zerolog.Nop())

	if err := n.NotifyStatus(context.Background(), "jane@example.com", "Jane Roe", "accepted"); err != nil {
		t.Fatalf("NotifyStatus failed: %v", err)
	}

	calls := sender.Calls()
	if len(calls) != 1 {
		t.Fatalf("expected 1 email, got %d", len(calls))
	}
	if calls[0].To != "jane@example.com" {
		t.Errorf("unexpected recipient: %s", calls[0].To)
	}
	if calls[0].Subject != "Your Insurance Application has been Accepted" {
		t.Errorf("unexpected subject: %q", calls[0].Subject)
	}
	if !strings.Contains(calls[0].Body, "ACCEPTED") {
		t.Errorf("body missing status: %q", calls[0].Body)
	}
}

func TestNotifyAppointment(t *testing.T) {
	sender := &MockEmailSender{}
	n := NewNotifier(sender, NewTemplateEngine(), zerolog.Nop())

	when := time.Date(2026, 9, 14, 10, 30, 0, 0, time.UTC)
	if err := n.NotifyAppointment(context.Background(), "jane@example.com", "Jane Roe", when); err != nil {
		t.Fatalf("NotifyAppointment failed: %v", err)
	}

	calls := sender.Calls()
	if len(calls) != 1 {
		t.Fatalf("expected 1 email, got %d", len(calls))
	}
	if !strings.Contains(calls[0].Body, "Monday, September 14, 2026 at 10:30 AM") {
		t.Errorf("body missing formatted time: %q", calls[0].Body)
	}
}

func TestNotifyReturnsSendFailure(t *testing.T) {
	sender := &MockEmailSender{ShouldFail: true, FailError: "smtp timeout"}
	n := NewNotifier(sender, NewTemplateEngine(), zerolog.Nop())

	if err := n.NotifyStatus(context.Background(), "jane@example.com", "Jane", "declined"); err == nil {
		t.Fatal("expected send failure to be returned")
	}
}
