package users

import (
	"context"
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/khanghh/kontest/model"
	"github.com/khanghh/kontest/params"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const passwordHashCost = 10

type CreateParticipantOptions struct {
	Email          string
	UID            string
	Password       string
	Role           model.Role
	Name           string
	College        *string
	HostelName     string
	WifiUsername   string
	WifiPassword   string
	HostelLocation *string
	ContactNumber  string
}

type CreateAdminOptions struct {
	Email    string
	Name     string
	Password string
}

type UpdateProfileOptions struct {
	Name            string
	College         string
	CurrentPassword string
	NewPassword     string
}

type UpdateAvatarOptions struct {
	AvatarURL string
	Gender    string
}

type UserService struct {
	userRepo UserRepository
}

func isDuplicateEntry(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == 1062
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), passwordHashCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (s *UserService) GetUserByID(ctx context.Context, userID uint) (*model.User, error) {
	user, err := s.userRepo.FirstWithProfile(ctx, "id = ?", userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	return user, err
}

// Authenticate verifies the credentials of an account. Administrators sign in
// with their email, participants with their UID. When the account exists but
// the check fails the user is returned together with the error.
func (s *UserService) Authenticate(ctx context.Context, identifier string, password string, role model.Role) (*model.User, error) {
	var (
		user *model.User
		err  error
	)
	switch role {
	case model.RoleAdmin:
		user, err = s.userRepo.FirstWithProfile(ctx, "email = ?", identifier)
	case model.RoleParticipant:
		user, err = s.userRepo.FirstWithProfile(ctx, "uid = ?", identifier)
	default:
		return nil, ErrInvalidRole
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	if user.Role != role {
		return user, ErrRoleMismatch
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return user, ErrIncorrectPassword
	}
	return user, nil
}

func (s *UserService) CreateParticipant(ctx context.Context, opts CreateParticipantOptions) (*model.User, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	exists, err := s.userRepo.Exists(ctx, opts.Email, opts.UID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUserExists
	}

	passwordHash, err := hashPassword(opts.Password)
	if err != nil {
		return nil, err
	}

	uid := opts.UID
	user := model.User{
		Email:    opts.Email,
		UID:      &uid,
		Password: passwordHash,
		Role:     model.RoleParticipant,
		Participant: &model.Participant{
			Name:           opts.Name,
			College:        opts.College,
			HostelName:     opts.HostelName,
			WifiUsername:   opts.WifiUsername,
			WifiPassword:   opts.WifiPassword,
			HostelLocation: opts.HostelLocation,
			ContactNumber:  opts.ContactNumber,
		},
	}
	if err := s.userRepo.Create(ctx, &user); err != nil {
		if isDuplicateEntry(err) {
			return nil, ErrUserExists
		}
		return nil, err
	}
	return &user, nil
}

func (s *UserService) CreateAdmin(ctx context.Context, opts CreateAdminOptions) (*model.User, error) {
	if err := validateEmail(opts.Email); err != nil {
		return nil, err
	}
	if err := validatePassword(opts.Password); err != nil {
		return nil, err
	}
	if err := validateRequired("name", opts.Name, "Name is required."); err != nil {
		return nil, err
	}

	passwordHash, err := hashPassword(opts.Password)
	if err != nil {
		return nil, err
	}
	user := model.User{
		Email:    opts.Email,
		Password: passwordHash,
		Role:     model.RoleAdmin,
		Admin:    &model.Admin{Name: opts.Name},
	}
	if err := s.userRepo.Create(ctx, &user); err != nil {
		if isDuplicateEntry(err) {
			return nil, ErrUserExists
		}
		return nil, err
	}
	return &user, nil
}

func (s *UserService) ListUsers(ctx context.Context) ([]*model.User, error) {
	return s.userRepo.FindWithProfile(ctx)
}

func (s *UserService) ListParticipants(ctx context.Context) ([]ParticipantSummary, error) {
	return s.userRepo.FindParticipants(ctx)
}

func (s *UserService) DeleteUser(ctx context.Context, userID uint) error {
	user, err := s.userRepo.First(ctx, "id = ?", userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return err
	}
	if user.IsAdmin() {
		return ErrCannotDeleteAdmin
	}
	return s.userRepo.Delete(ctx, user)
}

func (s *UserService) UpdateProfile(ctx context.Context, userID uint, opts UpdateProfileOptions) (*model.User, error) {
	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Profile() == nil {
		return nil, ErrProfileNotFound
	}

	userUpdates := map[string]interface{}{}
	if opts.NewPassword != "" {
		if opts.CurrentPassword == "" {
			return nil, ErrCurrentPasswordRequired
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(opts.CurrentPassword)); err != nil {
			return nil, ErrIncorrectPassword
		}
		if len(opts.NewPassword) < params.MinPasswordLength {
			return nil, ErrPasswordTooShort
		}
		passwordHash, err := hashPassword(opts.NewPassword)
		if err != nil {
			return nil, err
		}
		userUpdates["password"] = passwordHash
	}

	err = s.userRepo.Transaction(ctx, func(repo UserRepository) error {
		if len(userUpdates) > 0 {
			if _, err := repo.Updates(ctx, userID, userUpdates); err != nil {
				return err
			}
		}
		switch profile := user.Profile().(type) {
		case *model.Participant:
			columns := map[string]interface{}{"name": orDefault(opts.Name, profile.Name)}
			if opts.College != "" {
				columns["college"] = opts.College
			}
			_, err := repo.UpdateParticipant(ctx, userID, columns)
			return err
		case *model.Admin:
			_, err := repo.UpdateAdmin(ctx, userID, map[string]interface{}{"name": orDefault(opts.Name, profile.Name)})
			return err
		}
		return ErrInvalidRole
	})
	if err != nil {
		return nil, err
	}
	return s.GetUserByID(ctx, userID)
}

func (s *UserService) UpdateAvatar(ctx context.Context, userID uint, opts UpdateAvatarOptions) (*model.User, error) {
	if opts.AvatarURL == "" {
		return nil, invalid("avatarUrl", "Avatar URL is required.")
	}
	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	columns := map[string]interface{}{"avatar_url": opts.AvatarURL}
	if opts.Gender != "" {
		columns["gender"] = opts.Gender
	}
	switch user.Profile().(type) {
	case *model.Participant:
		_, err = s.userRepo.UpdateParticipant(ctx, userID, columns)
	case *model.Admin:
		_, err = s.userRepo.UpdateAdmin(ctx, userID, columns)
	default:
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}
	return s.GetUserByID(ctx, userID)
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func NewUserService(userRepo UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}
