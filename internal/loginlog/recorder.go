package loginlog

import (
	"context"

	"github.com/khanghh/kontest/internal/device"
	"github.com/khanghh/kontest/model"
)

// Attempt describes one authentication attempt as seen by the login handler.
type Attempt struct {
	UserID    *uint
	Email     string // identifier typed at login, email or UID
	IPAddress string
	UserAgent string
	Success   bool
	Reason    string
}

// Recorder appends login attempts to the log.
type Recorder struct {
	repo LoginLogRepository
}

func (r *Recorder) Record(ctx context.Context, attempt Attempt) (*model.LoginLog, error) {
	info := device.Classify(attempt.UserAgent)
	entry := &model.LoginLog{
		UserID:    attempt.UserID,
		Email:     attempt.Email,
		IPAddress: attempt.IPAddress,
		UserAgent: attempt.UserAgent,
		Success:   attempt.Success,
		Reason:    attempt.Reason,
		Device:    &info.Device,
		OS:        &info.OS,
		Browser:   &info.Browser,
	}
	if err := r.repo.Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func NewRecorder(repo LoginLogRepository) *Recorder {
	return &Recorder{repo: repo}
}
