package model

import (
	"time"

	"gorm.io/gorm"
)

type Role string

const (
	RoleAdmin       Role = "ADMIN"
	RoleParticipant Role = "PARTICIPANT"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleParticipant
}

// User is the base account shared by every role.
type User struct {
	ID          uint         `gorm:"primarykey"                         json:"id,string"`
	Email       string       `gorm:"uniqueIndex;size:256;not null"      json:"email"`
	UID         *string      `gorm:"uniqueIndex;size:64"                json:"uid"`
	Password    string       `gorm:"size:64;not null"                   json:"-"`
	Role        Role         `gorm:"size:16;not null;index"             json:"role"`
	Participant *Participant `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"participant,omitempty"`
	Admin       *Admin       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"admin,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == 0 {
		u.ID = GenerateID()
	}
	return nil
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) UIDString() string {
	if u.UID == nil {
		return ""
	}
	return *u.UID
}

// Profile returns the role specific record of the account, nil if it was not loaded.
func (u *User) Profile() Profile {
	switch u.Role {
	case RoleParticipant:
		if u.Participant != nil {
			return u.Participant
		}
	case RoleAdmin:
		if u.Admin != nil {
			return u.Admin
		}
	}
	return nil
}

// DisplayName returns the name provided by the account profile, or empty.
func (u *User) DisplayName() string {
	if namer, ok := u.Profile().(DisplayNamer); ok {
		return namer.DisplayName()
	}
	return ""
}
