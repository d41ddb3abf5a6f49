package model

import "time"

// Facility is a maintainable fixture inside a hostel (water heater, washing
// machine, generator...). Its own Status field is tracked independently of
// any damage reports filed against it.
type Facility struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	HostelID  int64     `gorm:"index" json:"hostelId"`
	Name      string    `gorm:"size:128;not null" json:"name"`
	Category  string    `gorm:"size:64" json:"category"`
	Status    string    `gorm:"size:32" json:"status"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}
