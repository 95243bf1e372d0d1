package mail

import (
	"errors"

	"github.com/khanghh/kontest/model"
)

// WelcomeMailer sends the welcome message to newly created participants.
type WelcomeMailer struct {
	sender   MailSender
	renderer TemplateRenderer
	siteName string
}

func (m *WelcomeMailer) NotifyParticipant(user *model.User) error {
	if user.Participant == nil {
		return errors.New("participant profile not loaded")
	}
	p := user.Participant
	info := ParticipantWelcome{
		Email:        user.Email,
		Name:         p.Name,
		UID:          user.UIDString(),
		HostelName:   p.HostelName,
		WifiUsername: p.WifiUsername,
		WifiPassword: p.WifiPassword,
	}
	if p.HostelLocation != nil {
		info.HostelLocation = *p.HostelLocation
	}
	return SendParticipantWelcome(m.sender, m.renderer, m.siteName, info)
}

func NewWelcomeMailer(sender MailSender, renderer TemplateRenderer, siteName string) *WelcomeMailer {
	return &WelcomeMailer{
		sender:   sender,
		renderer: renderer,
		siteName: siteName,
	}
}
