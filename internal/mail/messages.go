package mail

import (
	"fmt"

	"github.com/khanghh/kontest/params"
)

// TemplateRenderer renders a named HTML template.
type TemplateRenderer interface {
	RenderHTML(templateName string, vars map[string]interface{}) (string, error)
}

type ParticipantWelcome struct {
	Email          string
	Name           string
	UID            string
	HostelName     string
	HostelLocation string
	WifiUsername   string
	WifiPassword   string
}

func SendParticipantWelcome(sender MailSender, renderer TemplateRenderer, siteName string, info ParticipantWelcome) error {
	body, err := renderer.RenderHTML("mail/participant-welcome", map[string]interface{}{
		"name":           info.Name,
		"uid":            info.UID,
		"hostelName":     info.HostelName,
		"hostelLocation": info.HostelLocation,
		"wifiUsername":   info.WifiUsername,
		"wifiPassword":   info.WifiPassword,
	})
	if err != nil {
		return err
	}
	return sender.Send(&Message{
		To:      []string{info.Email},
		Subject: fmt.Sprintf(params.MailWelcomeSubject, siteName),
		Body:    body,
		IsHTML:  true,
	})
}
