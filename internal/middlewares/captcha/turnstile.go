package captcha

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

const (
	turnstileVerifyURL = "https://challenges.cloudflare.com/turnstile/v0/siteverify"
	verifyTimeout      = 10 * time.Second
)

type turnstileResponse struct {
	Success    bool     `json:"success"`
	Hostname   string   `json:"hostname"`
	ErrorCodes []string `json:"error-codes"`
}

// TurnstileVerifier checks tokens against Cloudflare Turnstile.
type TurnstileVerifier struct {
	secretKey string
	verifyURL string
}

func (v *TurnstileVerifier) Verify(token string, remoteIP string) error {
	if token == "" {
		return &CaptchaError{message: "Please complete the captcha."}
	}

	args := fiber.AcquireArgs()
	defer fiber.ReleaseArgs(args)
	args.Set("secret", v.secretKey)
	args.Set("response", token)
	if remoteIP != "" {
		args.Set("remoteip", remoteIP)
	}

	agent := fiber.Post(v.verifyURL).Form(args).Timeout(verifyTimeout)
	if err := agent.Parse(); err != nil {
		return err
	}
	code, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("captcha verification request failed: %w", errs[0])
	}
	if code != fiber.StatusOK {
		return fmt.Errorf("captcha verification failed with status %d", code)
	}

	var result turnstileResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return fmt.Errorf("failed to parse captcha response: %w", err)
	}
	if !result.Success {
		return &CaptchaError{message: "Captcha verification failed: " + strings.Join(result.ErrorCodes, ", ")}
	}
	return nil
}

func NewTurnstileVerifier(secretKey string) *TurnstileVerifier {
	return &TurnstileVerifier{secretKey: secretKey, verifyURL: turnstileVerifyURL}
}
