package mail

import (
	"strings"
	"testing"

	"github.com/khanghh/kontest/internal/render"
	"github.com/khanghh/kontest/model"
)

type recordingSender struct {
	sent []*Message
}

func (s *recordingSender) Send(message *Message) error {
	s.sent = append(s.sent, message)
	return nil
}

func TestSendParticipantWelcome(t *testing.T) {
	renderer, err := render.New(map[string]interface{}{"siteName": "Kontest"}, "")
	if err != nil {
		t.Fatalf("render.New failed: %v", err)
	}
	sender := &recordingSender{}
	err = SendParticipantWelcome(sender, renderer, "Kontest", ParticipantWelcome{
		Email:          "alice@example.com",
		Name:           "Alice",
		UID:            "P001",
		HostelName:     "Aryabhatta",
		HostelLocation: "https://maps.example.com/h1",
		WifiUsername:   "alice-wifi",
		WifiPassword:   "s3cret",
	})
	if err != nil {
		t.Fatalf("SendParticipantWelcome failed: %v", err)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("expected 1 message, got %d", len(sender.sent))
	}
	msg := sender.sent[0]
	if msg.Subject != "Welcome to Kontest" || !msg.IsHTML {
		t.Errorf("unexpected message header: %+v", msg)
	}
	if len(msg.To) != 1 || msg.To[0] != "alice@example.com" {
		t.Errorf("unexpected recipients: %v", msg.To)
	}
	if !strings.Contains(msg.Body, "View on map") || !strings.Contains(msg.Body, "alice-wifi") {
		t.Errorf("unexpected body: %s", msg.Body)
	}
}

func TestWelcomeMailer(t *testing.T) {
	renderer, err := render.New(nil, "")
	if err != nil {
		t.Fatalf("render.New failed: %v", err)
	}
	sender := &recordingSender{}
	mailer := NewWelcomeMailer(sender, renderer, "Kontest")

	uid := "P009"
	user := &model.User{Email: "zed@example.com", UID: &uid, Participant: &model.Participant{Name: "Zed", HostelName: "H9", WifiUsername: "zed", WifiPassword: "pw"}}
	if err := mailer.NotifyParticipant(user); err != nil {
		t.Fatalf("NotifyParticipant failed: %v", err)
	}
	if len(sender.sent) != 1 || !strings.Contains(sender.sent[0].Body, "P009") {
		t.Fatalf("unexpected messages: %+v", sender.sent)
	}

	if err := mailer.NotifyParticipant(&model.User{Email: "a@example.com"}); err == nil {
		t.Fatalf("expected error without participant profile")
	}
}
