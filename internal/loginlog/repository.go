package loginlog

import (
	"context"
	"strings"

	"github.com/khanghh/kontest/internal/geoip"
	"github.com/khanghh/kontest/model"
	"gorm.io/gorm"
)

type LoginLogRepository interface {
	Create(ctx context.Context, entry *model.LoginLog) error
	Find(ctx context.Context, filter Filter, limit int) ([]*model.LoginLog, error)
	// UpdateGeo stores loc on the row only if it has no location yet.
	// It reports whether a row was updated.
	UpdateGeo(ctx context.Context, id uint64, loc geoip.Location) (bool, error)
}

type loginLogRepository struct {
	db *gorm.DB
}

func likePattern(s string) string {
	return "%" + strings.ToLower(s) + "%"
}

func (r *loginLogRepository) Create(ctx context.Context, entry *model.LoginLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *loginLogRepository) Find(ctx context.Context, filter Filter, limit int) ([]*model.LoginLog, error) {
	tx := r.db.WithContext(ctx).
		Preload("User").
		Preload("User.Participant").
		Preload("User.Admin")

	if filter.StartDate != nil {
		tx = tx.Where("created_at >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		tx = tx.Where("created_at <= ?", *filter.EndDate)
	}
	if filter.Email != "" {
		pattern := likePattern(filter.Email)
		accounts := r.db.Model(&model.User{}).Select("id").Where("LOWER(email) LIKE ?", pattern)
		tx = tx.Where(r.db.Where("LOWER(email) LIKE ?", pattern).Or("user_id IN (?)", accounts))
	}
	if filter.IPAddress != "" {
		tx = tx.Where("LOWER(ip_address) LIKE ?", likePattern(filter.IPAddress))
	}
	// rows that have not been classified or located yet stay in the batch,
	// the predicate is applied again after enrichment
	if filter.DeviceType != "" {
		tx = tx.Where("(device IS NULL OR LOWER(device) LIKE ?)", likePattern(filter.DeviceType))
	}
	if filter.Country != "" {
		tx = tx.Where("(country IS NULL OR LOWER(country) LIKE ?)", likePattern(filter.Country))
	}

	var logs []*model.LoginLog
	err := tx.Order("created_at DESC").Order("id DESC").Limit(limit).Find(&logs).Error
	return logs, err
}

func (r *loginLogRepository) UpdateGeo(ctx context.Context, id uint64, loc geoip.Location) (bool, error) {
	ret := r.db.WithContext(ctx).
		Model(&model.LoginLog{}).
		Where("id = ? AND city IS NULL", id).
		Updates(map[string]interface{}{
			"city":      loc.City,
			"region":    loc.Region,
			"country":   loc.Country,
			"latitude":  loc.Latitude,
			"longitude": loc.Longitude,
		})
	if ret.Error != nil {
		return false, ret.Error
	}
	return ret.RowsAffected > 0, nil
}

func NewLoginLogRepository(db *gorm.DB) LoginLogRepository {
	return &loginLogRepository{db}
}
