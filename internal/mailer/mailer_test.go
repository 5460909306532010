package mailer

import (
	"context"
	"strings"
	"testing"
)

func TestSelectionBody(t *testing.T) {
	body := selectionBody("backend_engineer", "Acme")
	for _, want := range []string{
		"Congratulations!",
		"backend_engineer",
		"Acme Hiring Team",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("selection body missing %q:\n%s", want, body)
		}
	}
}

func TestRejectionBody_WithFeedback(t *testing.T) {
	body := rejectionBody("backend_engineer", "Acme", "missing required skills")
	for _, want := range []string{
		"not be",
		"backend_engineer",
		"Feedback: missing required skills",
		"Acme Hiring Team",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("rejection body missing %q:\n%s", want, body)
		}
	}
}

func TestRejectionBody_WithoutFeedback(t *testing.T) {
	body := rejectionBody("backend_engineer", "Acme", "")
	if strings.Contains(body, "Feedback:") {
		t.Errorf("rejection body includes an empty feedback section:\n%s", body)
	}
}

func TestInviteBody(t *testing.T) {
	body := inviteBody("backend_engineer", "Acme", "https://zoom.example/j/1", "2026-03-15 10:00:00")
	for _, want := range []string{
		"backend_engineer",
		"Link: https://zoom.example/j/1",
		"Time: 2026-03-15 10:00:00 UTC",
		"5 minutes early",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("invite body missing %q:\n%s", want, body)
		}
	}
}

// Malformed addresses fail before any network dial.
func TestSend_InvalidAddresses(t *testing.T) {
	m := New("smtp.example.com", 587, "not-an-address", "passkey", "Acme")
	if err := m.SendSelection(context.Background(), "jane@example.com", "backend_engineer"); err == nil {
		t.Error("SendSelection with invalid sender expected error, got nil")
	}

	m = New("smtp.example.com", 587, "hiring@example.com", "passkey", "Acme")
	if err := m.SendSelection(context.Background(), "not-an-address", "backend_engineer"); err == nil {
		t.Error("SendSelection with invalid recipient expected error, got nil")
	}
}
