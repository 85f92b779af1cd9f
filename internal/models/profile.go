package models

import (
	"strings"
	"time"
)

// Profile represents a viewer profile within an account.
// The engine treats a profile as an immutable snapshot for the duration
// of one request.
type Profile struct {
	ProfileID         int       `gorm:"column:profile_id;primaryKey" json:"profile_id"`
	AccountID         int       `gorm:"not null;index" json:"account_id"`
	ProfileName       string    `gorm:"size:100;not null" json:"profile_name"`
	KidsProfile       bool      `gorm:"not null;default:false" json:"kids_profile"`
	AgeBand           AgeBand   `gorm:"column:age_band;type:text" json:"age_band"`
	PreferredLanguage string    `gorm:"size:50" json:"preferred_language"`
	CreatedAt         time.Time `json:"created_at"`
	Preferences       string    `gorm:"type:text" json:"preferences"`
}

// TableName overrides the gorm table name
func (Profile) TableName() string {
	return "profiles"
}

// PreferenceTags splits the stored comma-separated preference string into
// trimmed tags. An empty preference string yields a nil slice.
func (p *Profile) PreferenceTags() []string {
	if strings.TrimSpace(p.Preferences) == "" {
		return nil
	}
	parts := strings.Split(p.Preferences, ",")
	tags := make([]string, 0, len(parts))
	for _, part := range parts {
		if tag := strings.TrimSpace(part); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// Account represents a subscriber account owning one or more profiles.
type Account struct {
	AccountID       int       `gorm:"column:account_id;primaryKey" json:"account_id"`
	CreatedAt       time.Time `json:"created_at"`
	PrimaryLanguage string    `gorm:"size:50" json:"primary_language"`
	ProfileCount    int       `gorm:"not null" json:"profile_count"`
}

// TableName overrides the gorm table name
func (Account) TableName() string {
	return "accounts"
}
