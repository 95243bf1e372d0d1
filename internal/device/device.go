// Package device classifies raw user-agent strings into display labels.
package device

import (
	"github.com/mileusna/useragent"
)

const (
	ClassMobile  = "Mobile"
	ClassTablet  = "Tablet"
	ClassDesktop = "Desktop"
	Unknown      = "Unknown"
)

// Info is the classification of a user agent.
type Info struct {
	Device  string `json:"device"`
	OS      string `json:"os"`
	Browser string `json:"browser"`
}

// Classify parses a user agent string. It never fails; anything that cannot be
// recognized falls back to Desktop / Unknown / Unknown.
func Classify(uaString string) Info {
	ua := useragent.Parse(uaString)

	info := Info{
		Device:  ClassDesktop,
		OS:      ua.OS,
		Browser: ua.Name,
	}

	switch {
	case ua.Tablet:
		info.Device = ClassTablet
	case ua.Mobile:
		info.Device = ClassMobile
	}

	if info.OS == "" {
		info.OS = Unknown
	}
	if info.Browser == "" {
		info.Browser = Unknown
	}
	return info
}
