package mail_test

import (
	"testing"

	"github.com/shashiranjanraj/villageangel/pkg/mail"
)

func TestSendWithoutSMTPAccountIsNoOp(t *testing.T) {
	err := mail.To("user@example.com").
		Subject("Hello").
		Body("<p>Hi</p>").
		UseConfig(mail.Config{}).
		Send()
	if err != nil {
		t.Fatalf("unconfigured send should drop the message, got %v", err)
	}
}

func TestSendRejectsIncompleteMessage(t *testing.T) {
	if err := mail.To().Body("<p>Hi</p>").UseConfig(mail.Config{}).Send(); err == nil {
		t.Error("send without recipients accepted")
	}
	if err := mail.To("user@example.com").UseConfig(mail.Config{}).Send(); err == nil {
		t.Error("send without body accepted")
	}
}
