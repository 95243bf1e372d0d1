package model

import (
	"time"

	"gorm.io/gorm"
)

// Profile is the role specific part of an account.
type Profile interface {
	ProfileRole() Role
}

// DisplayNamer is implemented by profiles that carry a human readable name.
type DisplayNamer interface {
	DisplayName() string
}

type Participant struct {
	ID             uint      `gorm:"primarykey"                    json:"id,string"`
	UserID         uint      `gorm:"uniqueIndex;not null"          json:"userId,string"`
	Name           string    `gorm:"size:128;not null;index"       json:"name"`
	College        *string   `gorm:"size:256"                      json:"college"`
	HostelName     string    `gorm:"size:128;not null"             json:"hostelName"`
	WifiUsername   string    `gorm:"size:128;not null"             json:"wifiusername"`
	WifiPassword   string    `gorm:"size:128;not null"             json:"wifiPassword"`
	HostelLocation *string   `gorm:"size:512"                      json:"hostelLocation"`
	ContactNumber  string    `gorm:"size:16;not null"              json:"contactNumber"`
	AvatarURL      string    `gorm:"size:512"                      json:"avatarUrl,omitempty"`
	Gender         string    `gorm:"size:16"                       json:"gender,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func (p *Participant) BeforeCreate(tx *gorm.DB) error {
	if p.ID == 0 {
		p.ID = GenerateID()
	}
	return nil
}

func (p *Participant) ProfileRole() Role {
	return RoleParticipant
}

func (p *Participant) DisplayName() string {
	return p.Name
}

func (p *Participant) CollegeName() string {
	if p.College == nil {
		return ""
	}
	return *p.College
}

type Admin struct {
	ID        uint      `gorm:"primarykey"           json:"id,string"`
	UserID    uint      `gorm:"uniqueIndex;not null" json:"userId,string"`
	Name      string    `gorm:"size:128;not null"    json:"name"`
	AvatarURL string    `gorm:"size:512"             json:"avatarUrl,omitempty"`
	Gender    string    `gorm:"size:16"              json:"gender,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (a *Admin) BeforeCreate(tx *gorm.DB) error {
	if a.ID == 0 {
		a.ID = GenerateID()
	}
	return nil
}

func (a *Admin) ProfileRole() Role {
	return RoleAdmin
}

func (a *Admin) DisplayName() string {
	return a.Name
}
