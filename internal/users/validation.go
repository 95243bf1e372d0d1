package users

import (
	"net/mail"
	"net/url"
	"regexp"

	"github.com/khanghh/kontest/model"
	"github.com/khanghh/kontest/params"
)

var contactNumberRegex = regexp.MustCompile(`^[0-9]{10}$`)

func validateEmail(email string) error {
	if _, err := mail.ParseAddress(email); err != nil {
		return invalid("email", "Invalid email address.")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < params.MinPasswordLength {
		return invalid("password", "Password must be at least 6 characters.")
	}
	return nil
}

func validateRequired(field, value, message string) error {
	if value == "" {
		return invalid(field, message)
	}
	return nil
}

func validateContactNumber(number string) error {
	if !contactNumberRegex.MatchString(number) {
		return invalid("contactNumber", "Contact number must be 10 digits.")
	}
	return nil
}

func validateURL(field string, value *string) error {
	if value == nil || *value == "" {
		return nil
	}
	u, err := url.ParseRequestURI(*value)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return invalid(field, "Invalid URL.")
	}
	return nil
}

func (opts *CreateParticipantOptions) validate() error {
	if opts.Role != "" && opts.Role != model.RoleParticipant {
		return invalid("role", "Only participant accounts can be created.")
	}
	checks := []error{
		validateEmail(opts.Email),
		validateRequired("uid", opts.UID, "UID is required."),
		validatePassword(opts.Password),
		validateRequired("name", opts.Name, "Name is required."),
		validateRequired("hostelName", opts.HostelName, "Hostel name is required."),
		validateRequired("wifiusername", opts.WifiUsername, "WiFi username is required."),
		validateRequired("wifiPassword", opts.WifiPassword, "WiFi password is required."),
		validateURL("hostelLocation", opts.HostelLocation),
		validateContactNumber(opts.ContactNumber),
	}
	for _, err := range checks {
		if err != nil {
			return err
		}
	}
	return nil
}
