package users

import (
	"context"

	"github.com/khanghh/kontest/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ParticipantSummary is the public directory entry of a participant.
type ParticipantSummary struct {
	ID      uint    `json:"id,string"`
	Name    string  `json:"name"`
	College *string `json:"college"`
	Email   string  `json:"email"`
}

type UserRepository interface {
	WithTx(tx *gorm.DB) UserRepository
	Transaction(ctx context.Context, fn func(repo UserRepository) error) error
	First(ctx context.Context, conds ...interface{}) (*model.User, error)
	FirstWithProfile(ctx context.Context, conds ...interface{}) (*model.User, error)
	FindWithProfile(ctx context.Context) ([]*model.User, error)
	FindParticipants(ctx context.Context) ([]ParticipantSummary, error)
	Exists(ctx context.Context, email string, uid string) (bool, error)
	Create(ctx context.Context, user *model.User) error
	Updates(ctx context.Context, userID uint, columns map[string]interface{}) (int64, error)
	UpdateParticipant(ctx context.Context, userID uint, columns map[string]interface{}) (int64, error)
	UpdateAdmin(ctx context.Context, userID uint, columns map[string]interface{}) (int64, error)
	Delete(ctx context.Context, user *model.User) error
}

type userRepository struct {
	db *gorm.DB
}

func (r *userRepository) withProfile(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Participant").Preload("Admin")
}

func (r *userRepository) First(ctx context.Context, conds ...interface{}) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).First(&user, conds...).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FirstWithProfile(ctx context.Context, conds ...interface{}) (*model.User, error) {
	var user model.User
	if err := r.withProfile(ctx).First(&user, conds...).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindWithProfile(ctx context.Context) ([]*model.User, error) {
	var users []*model.User
	err := r.withProfile(ctx).Order("created_at DESC").Order("id DESC").Find(&users).Error
	return users, err
}

func (r *userRepository) FindParticipants(ctx context.Context) ([]ParticipantSummary, error) {
	var participants []*model.Participant
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&participants).Error; err != nil {
		return nil, err
	}
	if len(participants) == 0 {
		return []ParticipantSummary{}, nil
	}

	userIDs := make([]uint, 0, len(participants))
	for _, p := range participants {
		userIDs = append(userIDs, p.UserID)
	}
	var accounts []*model.User
	if err := r.db.WithContext(ctx).Select("id", "email").Find(&accounts, userIDs).Error; err != nil {
		return nil, err
	}
	emails := make(map[uint]string, len(accounts))
	for _, u := range accounts {
		emails[u.ID] = u.Email
	}

	out := make([]ParticipantSummary, 0, len(participants))
	for _, p := range participants {
		out = append(out, ParticipantSummary{ID: p.ID, Name: p.Name, College: p.College, Email: emails[p.UserID]})
	}
	return out, nil
}

func (r *userRepository) Exists(ctx context.Context, email string, uid string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("email = ?", email).
		Or("uid = ?", uid).
		Count(&count).Error
	return count > 0, err
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) Updates(ctx context.Context, userID uint, columns map[string]interface{}) (int64, error) {
	ret := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", userID).Updates(columns)
	return ret.RowsAffected, ret.Error
}

func (r *userRepository) UpdateParticipant(ctx context.Context, userID uint, columns map[string]interface{}) (int64, error) {
	ret := r.db.WithContext(ctx).Model(&model.Participant{}).Where("user_id = ?", userID).Updates(columns)
	return ret.RowsAffected, ret.Error
}

func (r *userRepository) UpdateAdmin(ctx context.Context, userID uint, columns map[string]interface{}) (int64, error) {
	ret := r.db.WithContext(ctx).Model(&model.Admin{}).Where("user_id = ?", userID).Updates(columns)
	return ret.RowsAffected, ret.Error
}

// Delete removes the account together with its role profile.
func (r *userRepository) Delete(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Select(clause.Associations).Delete(user).Error
}

func (r *userRepository) WithTx(tx *gorm.DB) UserRepository {
	return NewUserRepository(tx)
}

func (r *userRepository) Transaction(ctx context.Context, fn func(repo UserRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(r.WithTx(tx))
	})
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db}
}
