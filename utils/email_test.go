package utils

import (
	"errors"
	"net/smtp"
	"strings"
	"testing"
)

func TestSendEmailNotConfigured(t *testing.T) {
	t.Setenv("SMTP_HOST", "")
	t.Setenv("SMTP_PORT", "")
	t.Setenv("SMTP_FROM", "")

	if err := SendEmail("a@x.com", "Hi", "<p>Hi</p>"); err == nil {
		t.Fatal("expected an error without SMTP settings")
	}
}

func TestSendEmailBuildsMessage(t *testing.T) {
	t.Setenv("SMTP_HOST", "smtp.test")
	t.Setenv("SMTP_PORT", "2525")
	t.Setenv("SMTP_FROM", "hello@glowup.app")
	t.Setenv("SMTP_USERNAME", "")
	t.Setenv("SMTP_PASSWORD", "")

	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte
	orig := sendMail
	sendMail = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, msg
		return nil
	}
	defer func() { sendMail = orig }()

	if err := SendEmail("a@x.com", "Order Confirmed", "<p>thanks</p>"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if gotAddr != "smtp.test:2525" || gotFrom != "hello@glowup.app" || len(gotTo) != 1 || gotTo[0] != "a@x.com" {
		t.Errorf("unexpected envelope %s %s %v", gotAddr, gotFrom, gotTo)
	}
	msg := string(gotMsg)
	if !strings.Contains(msg, "Subject: Order Confirmed\r\n") || !strings.HasSuffix(msg, "<p>thanks</p>") {
		t.Errorf("unexpected message %q", msg)
	}
}

func TestSendEmailPropagatesFailure(t *testing.T) {
	t.Setenv("SMTP_HOST", "smtp.test")
	t.Setenv("SMTP_PORT", "2525")
	t.Setenv("SMTP_FROM", "hello@glowup.app")

	orig := sendMail
	sendMail = func(string, smtp.Auth, string, []string, []byte) error {
		return errors.New("connection refused")
	}
	defer func() { sendMail = orig }()

	if err := SendEmail("a@x.com", "Hi", "body"); err == nil {
		t.Fatal("expected the transport error")
	}
}

func TestFirstName(t *testing.T) {
	if got := firstName("Asha  Rao"); got != "Asha" {
		t.Errorf("expected Asha, got %q", got)
	}
	if got := firstName("  "); got != "there" {
		t.Errorf("expected fallback greeting, got %q", got)
	}
}
