package model

import "time"

// Hostel represents a hostel building.
type Hostel struct {
	ID         int64     `gorm:"primaryKey" json:"id"`
	Name       string    `gorm:"uniqueIndex;size:128;not null" json:"name"`
	Campus     string    `gorm:"size:128" json:"campus"`
	Block      string    `gorm:"size:32" json:"block"`
	Floors     int       `json:"floors"`
	Gender     string    `gorm:"size:16" json:"gender"`
	Facilities string    `gorm:"size:512" json:"facilities"`
	CreatedAt  time.Time `gorm:"not null" json:"-"`
	UpdatedAt  time.Time `gorm:"not null" json:"-"`

	// Associations
	Rooms []Room `gorm:"foreignKey:HostelID" json:"-"`
}
