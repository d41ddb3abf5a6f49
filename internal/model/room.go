package model

import "time"

// Room represents a single room inside a hostel. Capacity is fixed at
// creation; occupancy status is never persisted, it is derived from the
// assignment list on every read.
type Room struct {
	ID         int64     `gorm:"primaryKey" json:"id"`
	HostelID   int64     `gorm:"index;not null" json:"hostelId"`
	RoomNumber string    `gorm:"size:32;not null" json:"roomNumber"`
	Block      string    `gorm:"size:32" json:"block"`
	Floor      int       `json:"floor"`
	Capacity   int       `gorm:"not null" json:"capacity"`
	Facilities string    `gorm:"size:512" json:"facilities"`
	CreatedAt  time.Time `json:"-"`
	UpdatedAt  time.Time `json:"-"`

	// Associations
	Hostel           Hostel    `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	AssignedStudents []Student `gorm:"foreignKey:RoomID" json:"assignedStudents"`
}

// Student represents a registered student. RoomID being a single nullable
// column is what keeps a student from appearing in two rooms at once.
type Student struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:128;not null" json:"name"`
	MatricNo  string    `gorm:"uniqueIndex;size:32" json:"matricNo"`
	RoomID    *int64    `gorm:"index" json:"roomId,omitempty"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}
