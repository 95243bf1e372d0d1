package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/storage/memory/v2"
	"github.com/khanghh/kontest/internal/loginlog"
	"github.com/khanghh/kontest/internal/middlewares"
	"github.com/khanghh/kontest/internal/middlewares/captcha"
	"github.com/khanghh/kontest/internal/middlewares/sessions"
	"github.com/khanghh/kontest/internal/store"
	"github.com/khanghh/kontest/internal/users"
	"github.com/khanghh/kontest/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	adminID       uint = 1
	participantID uint = 2
)

type fakeUserService struct {
	users   map[uint]*model.User
	created []users.CreateParticipantOptions
	deleted []uint
}

func newFakeUserService() *fakeUserService {
	uid := "P002"
	return &fakeUserService{users: map[uint]*model.User{
		adminID:       {ID: adminID, Email: "admin@example.com", Role: model.RoleAdmin, Admin: &model.Admin{Name: "Admin"}},
		participantID: {ID: participantID, Email: "p@example.com", UID: &uid, Role: model.RoleParticipant, Participant: &model.Participant{Name: "Priya"}},
	}}
}

func (s *fakeUserService) Authenticate(ctx context.Context, identifier string, password string, role model.Role) (*model.User, error) {
	for _, u := range s.users {
		if (role == model.RoleAdmin && u.Email == identifier) || (role == model.RoleParticipant && u.UIDString() == identifier) {
			if u.Role != role {
				return u, users.ErrRoleMismatch
			}
			if password != "secret" {
				return u, users.ErrIncorrectPassword
			}
			return u, nil
		}
	}
	return nil, users.ErrUserNotFound
}

func (s *fakeUserService) GetUserByID(ctx context.Context, userID uint) (*model.User, error) {
	if u, ok := s.users[userID]; ok {
		return u, nil
	}
	return nil, users.ErrUserNotFound
}

func (s *fakeUserService) CreateParticipant(ctx context.Context, opts users.CreateParticipantOptions) (*model.User, error) {
	for _, u := range s.users {
		if u.Email == opts.Email || u.UIDString() == opts.UID {
			return nil, users.ErrUserExists
		}
	}
	s.created = append(s.created, opts)
	uid := opts.UID
	return &model.User{ID: 100, Email: opts.Email, UID: &uid, Role: model.RoleParticipant}, nil
}

func (s *fakeUserService) ListUsers(ctx context.Context) ([]*model.User, error) {
	return []*model.User{s.users[participantID], s.users[adminID]}, nil
}

func (s *fakeUserService) ListParticipants(ctx context.Context) ([]users.ParticipantSummary, error) {
	return []users.ParticipantSummary{{ID: 7, Name: "Priya", Email: "p@example.com"}}, nil
}

func (s *fakeUserService) DeleteUser(ctx context.Context, userID uint) error {
	u, ok := s.users[userID]
	if !ok {
		return users.ErrUserNotFound
	}
	if u.IsAdmin() {
		return users.ErrCannotDeleteAdmin
	}
	s.deleted = append(s.deleted, userID)
	return nil
}

func (s *fakeUserService) UpdateProfile(ctx context.Context, userID uint, opts users.UpdateProfileOptions) (*model.User, error) {
	if opts.NewPassword != "" && opts.CurrentPassword != "secret" {
		return nil, users.ErrIncorrectPassword
	}
	return s.users[userID], nil
}

func (s *fakeUserService) UpdateAvatar(ctx context.Context, userID uint, opts users.UpdateAvatarOptions) (*model.User, error) {
	if opts.AvatarURL == "" {
		return nil, &users.ValidationError{Field: "avatarUrl", Message: "Avatar URL is required."}
	}
	return s.users[userID], nil
}

type fakeRecorder struct {
	mu       sync.Mutex
	attempts []loginlog.Attempt
}

func (r *fakeRecorder) Record(ctx context.Context, attempt loginlog.Attempt) (*model.LoginLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attempts = append(r.attempts, attempt)
	return &model.LoginLog{}, nil
}

type fakePipeline struct {
	calls   int
	filters []loginlog.Filter
}

func (p *fakePipeline) Query(ctx context.Context, filter loginlog.Filter) (*loginlog.Report, error) {
	p.calls++
	p.filters = append(p.filters, filter)
	return &loginlog.Report{
		Logs:  []*loginlog.EnrichedLogView{{ID: 1, Activity: loginlog.ActivityLoggedIn, Success: true, User: "Priya"}},
		Stats: loginlog.LogStats{Success: 1},
	}, nil
}

type testEnv struct {
	app      *fiber.App
	users    *fakeUserService
	recorder *fakeRecorder
	pipeline *fakePipeline
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		users:    newFakeUserService(),
		recorder: &fakeRecorder{},
		pipeline: &fakePipeline{},
	}
	manager := sessions.NewManager(sessions.Config{
		Storage:       store.NewMemoryStorage(memory.New()),
		MasterKey:     "test-master-key",
		SessionMaxAge: time.Hour,
	})
	env.app = fiber.New(fiber.Config{ErrorHandler: middlewares.ErrorHandler})
	SetupRoutes(env.app, RouteConfig{
		Sessions: manager.Handler(),
		Auth:     NewAuthHandler(env.users, env.recorder, manager, captcha.NewNullVerifier()),
		Users:    NewUserHandler(env.users, nil),
		Profile:  NewProfileHandler(env.users),
		Logs:     NewLogHandler(env.pipeline),
	})
	return env
}

func (env *testEnv) do(t *testing.T, method, path, token, body string) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := env.app.Test(req)
	require.NoError(t, err)
	var out map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp.StatusCode, out
}

func (env *testEnv) login(t *testing.T, role model.Role) string {
	t.Helper()
	body := `{"role":"PARTICIPANT","uid":"P002","password":"secret"}`
	if role == model.RoleAdmin {
		body = `{"role":"ADMIN","email":"admin@example.com","password":"secret"}`
	}
	code, out := env.do(t, fiber.MethodPost, "/api/auth/login", "", body)
	require.Equal(t, http.StatusOK, code, out)
	data := out["data"].(map[string]any)
	return data["token"].(string)
}

func errorMessage(out map[string]any) string {
	if e, ok := out["error"].(map[string]any); ok {
		msg, _ := e["message"].(string)
		return msg
	}
	return ""
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)

	token := env.login(t, model.RoleParticipant)
	assert.NotEmpty(t, token)

	code, out := env.do(t, fiber.MethodPost, "/api/auth/login", "", `{"role":"PARTICIPANT","uid":"P002","password":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Invalid credentials", errorMessage(out))

	code, _ = env.do(t, fiber.MethodPost, "/api/auth/login", "", `{"role":"ADMIN","email":"p@example.com","password":"secret"}`)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = env.do(t, fiber.MethodPost, "/api/auth/login", "", `{"role":"PARTICIPANT","password":"secret"}`)
	assert.Equal(t, http.StatusBadRequest, code)

	require.Len(t, env.recorder.attempts, 3)
	assert.True(t, env.recorder.attempts[0].Success)
	require.NotNil(t, env.recorder.attempts[0].UserID)
	assert.Equal(t, participantID, *env.recorder.attempts[0].UserID)
	assert.False(t, env.recorder.attempts[1].Success)
	assert.Equal(t, "incorrect password", env.recorder.attempts[1].Reason)
	assert.Equal(t, "role mismatch", env.recorder.attempts[2].Reason)

	code, out = env.do(t, fiber.MethodGet, "/api/auth/session", token, "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "PARTICIPANT", out["data"].(map[string]any)["role"])

	code, _ = env.do(t, fiber.MethodPost, "/api/auth/logout", token, "")
	assert.Equal(t, http.StatusOK, code)
	code, _ = env.do(t, fiber.MethodGet, "/api/auth/session", token, "")
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestGetLoginLogs_Authorization(t *testing.T) {
	env := newTestEnv(t)

	code, _ := env.do(t, fiber.MethodGet, "/api/logs", "", "")
	assert.Equal(t, http.StatusUnauthorized, code)

	participantToken := env.login(t, model.RoleParticipant)
	code, out := env.do(t, fiber.MethodGet, "/api/logs", participantToken, "")
	assert.Equal(t, http.StatusForbidden, code)
	assert.Nil(t, out["data"])
	assert.Zero(t, env.pipeline.calls)

	adminToken := env.login(t, model.RoleAdmin)
	code, out = env.do(t, fiber.MethodGet, "/api/logs?email=alice@&deviceType=Mobile&startDate=2024-01-01", adminToken, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 1, env.pipeline.calls)
	data := out["data"].(map[string]any)
	assert.Len(t, data["logs"], 1)
	stats := data["stats"].(map[string]any)
	assert.EqualValues(t, 1, stats["SUCCESS"])
	assert.EqualValues(t, 0, stats["FAILED"])

	filter := env.pipeline.filters[0]
	assert.Equal(t, "alice@", filter.Email)
	assert.Equal(t, "Mobile", filter.DeviceType)
	require.NotNil(t, filter.StartDate)
	assert.Nil(t, filter.EndDate)
}

func TestUserAdministration(t *testing.T) {
	env := newTestEnv(t)
	adminToken := env.login(t, model.RoleAdmin)
	participantToken := env.login(t, model.RoleParticipant)

	createBody := `{"email":"new@example.com","uid":"P777","password":"secret1","role":"PARTICIPANT","name":"New","hostelName":"H2","wifiusername":"new","wifiPassword":"pw","contactNumber":"9876543210"}`
	code, _ := env.do(t, fiber.MethodPost, "/api/users", participantToken, createBody)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Empty(t, env.users.created)

	code, out := env.do(t, fiber.MethodPost, "/api/users", adminToken, createBody)
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "100", out["data"].(map[string]any)["userId"])
	require.Len(t, env.users.created, 1)
	assert.Equal(t, "new", env.users.created[0].WifiUsername)

	code, out = env.do(t, fiber.MethodPost, "/api/users", adminToken, strings.Replace(createBody, "new@example.com", "p@example.com", 1))
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "User with this email or UID already exists", errorMessage(out))

	code, _ = env.do(t, fiber.MethodDelete, "/api/users", adminToken, "")
	assert.Equal(t, http.StatusBadRequest, code)
	code, out = env.do(t, fiber.MethodDelete, "/api/users?userId=1", adminToken, "")
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "Cannot delete admin users", errorMessage(out))
	code, _ = env.do(t, fiber.MethodDelete, "/api/users?userId=999", adminToken, "")
	assert.Equal(t, http.StatusNotFound, code)
	code, _ = env.do(t, fiber.MethodDelete, "/api/users?userId=2", adminToken, "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, []uint{participantID}, env.users.deleted)

	code, out = env.do(t, fiber.MethodGet, "/api/users", adminToken, "")
	assert.Equal(t, http.StatusOK, code)
	assert.Len(t, out["data"], 2)
}

func TestProfile(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t, model.RoleParticipant)

	code, out := env.do(t, fiber.MethodGet, "/api/profile", token, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "p@example.com", out["data"].(map[string]any)["email"])

	code, out = env.do(t, fiber.MethodPatch, "/api/profile", token, `{"currentPassword":"bad","newPassword":"newpass"}`)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Current password is incorrect", errorMessage(out))

	code, _ = env.do(t, fiber.MethodPut, "/api/profile", token, `{"name":"Priya S"}`)
	assert.Equal(t, http.StatusOK, code)

	code, out = env.do(t, fiber.MethodPatch, "/api/profile/avatar", token, `{"gender":"female"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Avatar URL is required.", errorMessage(out))

	code, out = env.do(t, fiber.MethodGet, "/api/participants", token, "")
	assert.Equal(t, http.StatusOK, code)
	assert.Len(t, out["data"], 1)

	code, _ = env.do(t, fiber.MethodGet, "/api/profile", "", "")
	assert.Equal(t, http.StatusUnauthorized, code)
}
