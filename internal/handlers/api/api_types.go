package api

import (
	"github.com/khanghh/kontest/params"
)

type APIResponse struct {
	APIVersion string        `json:"apiVersion"`
	Data       any           `json:"data,omitempty"`
	Error      *APIErrorInfo `json:"error,omitempty"`
}

type APIErrorInfo struct {
	Code    int              `json:"code"`
	Message string           `json:"message"`
	Errors  []APIErrorDetail `json:"errors,omitempty"`
}

type APIErrorDetail struct {
	Domain  string `json:"domain"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

func NewDataResponse(data any) APIResponse {
	return APIResponse{
		APIVersion: params.APIVersion,
		Data:       data,
	}
}

func NewErrorResponse(code int, message string, details ...APIErrorDetail) APIResponse {
	return APIResponse{
		APIVersion: params.APIVersion,
		Error: &APIErrorInfo{
			Code:    code,
			Message: message,
			Errors:  details,
		},
	}
}

type loginRequest struct {
	Email        string `json:"email"`
	UID          string `json:"uid"`
	Password     string `json:"password"`
	Role         string `json:"role"`
	CaptchaToken string `json:"captchaToken"`
}

type sessionResponse struct {
	UserID    string `json:"userId"`
	Role      string `json:"role"`
	UID       string `json:"uid,omitempty"`
	Email     string `json:"email"`
	Name      string `json:"name,omitempty"`
	Token     string `json:"token,omitempty"`
	CSRFToken string `json:"csrfToken,omitempty"`
	ExpiresAt int64  `json:"expiresAt,omitempty"`
}

type createUserRequest struct {
	Email          string  `json:"email"`
	UID            string  `json:"uid"`
	Password       string  `json:"password"`
	Role           string  `json:"role"`
	Name           string  `json:"name"`
	College        *string `json:"college"`
	HostelName     string  `json:"hostelName"`
	WifiUsername   string  `json:"wifiusername"`
	WifiPassword   string  `json:"wifiPassword"`
	HostelLocation *string `json:"hostelLocation"`
	ContactNumber  string  `json:"contactNumber"`
}

type createUserResponse struct {
	Message string `json:"message"`
	UserID  string `json:"userId"`
}

type updateProfileRequest struct {
	Name            string `json:"name"`
	College         string `json:"college"`
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type updateAvatarRequest struct {
	AvatarURL string `json:"avatarUrl"`
	Gender    string `json:"gender"`
}

type messageResponse struct {
	Message string `json:"message"`
	User    any    `json:"user,omitempty"`
}
