package api

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/khanghh/kontest/internal/loginlog"
	"github.com/khanghh/kontest/internal/middlewares/sessions"
	"github.com/khanghh/kontest/internal/users"
	"github.com/khanghh/kontest/model"
)

type UserService interface {
	Authenticate(ctx context.Context, identifier string, password string, role model.Role) (*model.User, error)
	GetUserByID(ctx context.Context, userID uint) (*model.User, error)
	CreateParticipant(ctx context.Context, opts users.CreateParticipantOptions) (*model.User, error)
	ListUsers(ctx context.Context) ([]*model.User, error)
	ListParticipants(ctx context.Context) ([]users.ParticipantSummary, error)
	DeleteUser(ctx context.Context, userID uint) error
	UpdateProfile(ctx context.Context, userID uint, opts users.UpdateProfileOptions) (*model.User, error)
	UpdateAvatar(ctx context.Context, userID uint, opts users.UpdateAvatarOptions) (*model.User, error)
}

type LoginRecorder interface {
	Record(ctx context.Context, attempt loginlog.Attempt) (*model.LoginLog, error)
}

type LogPipeline interface {
	Query(ctx context.Context, filter loginlog.Filter) (*loginlog.Report, error)
}

type SessionManager interface {
	Start(ctx *fiber.Ctx, data sessions.SessionData) (*sessions.Session, error)
	Destroy(ctx *fiber.Ctx) error
}

type CaptchaVerifier interface {
	Verify(token string, remoteIP string) error
}

// WelcomeNotifier tells a new participant about their account.
type WelcomeNotifier interface {
	NotifyParticipant(user *model.User) error
}
