package model

import "time"

// RequestStatus is the lifecycle state of a room request.
type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestApproved RequestStatus = "approved"
	RequestDeclined RequestStatus = "declined"
)

// Terminal reports whether the status permits no further transition.
func (s RequestStatus) Terminal() bool {
	return s == RequestApproved || s == RequestDeclined
}

// RoomRequest is a student's petition to be assigned to a specific room.
// Once approved or declined it is immutable.
type RoomRequest struct {
	ID        string        `gorm:"primaryKey;size:36" json:"id"`
	StudentID int64         `gorm:"index;not null" json:"studentId"`
	RoomID    int64         `gorm:"index;not null" json:"roomId"`
	Status    RequestStatus `gorm:"size:16;not null" json:"status"`
	CreatedAt time.Time     `gorm:"not null" json:"createdAt"`

	// Associations
	Student Student `json:"-"`
	Room    Room    `json:"-"`
}
