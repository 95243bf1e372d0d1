package model

import "time"

// LoginLog records a single authentication attempt. Rows are append-only,
// except for the geo columns which are backfilled once after a lookup.
type LoginLog struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`
	UserID    *uint     `gorm:"index"`                  // nil when the attempt did not match an account
	User      *User     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
	Email     string    `gorm:"size:256;not null;index"` // identifier typed at login time
	IPAddress string    `gorm:"size:45;not null"`        // IPv4/IPv6
	UserAgent string    `gorm:"size:512;not null"`
	Success   bool      `gorm:"not null;index"`
	Reason    string    `gorm:"size:256"` // failure reason
	Device    *string   `gorm:"size:32"`
	OS        *string   `gorm:"size:64"`
	Browser   *string   `gorm:"size:64"`
	City      *string   `gorm:"size:128"`
	Region    *string   `gorm:"size:128"`
	Country   *string   `gorm:"size:128"`
	Latitude  *float64
	Longitude *float64
}

// HasGeo reports whether the row already carries a resolved location.
func (l *LoginLog) HasGeo() bool {
	return l.City != nil && *l.City != "" && l.Country != nil && *l.Country != ""
}
