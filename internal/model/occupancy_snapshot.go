package model

import "time"

// OccupancySnapshot is an append-only record of a room's derived occupancy,
// written by the audit sweep whenever the derived state changes.
type OccupancySnapshot struct {
	ID         int64     `gorm:"autoIncrement;primaryKey" json:"id"`
	RoomID     int64     `gorm:"not null;index" json:"roomId"`
	ObservedAt time.Time `gorm:"not null;index" json:"observedAt"`
	Occupancy  int       `gorm:"not null" json:"occupancy"`
	Capacity   int       `gorm:"not null" json:"capacity"`
	Status     string    `gorm:"size:24;not null" json:"status"`
	Consistent bool      `gorm:"not null" json:"consistent"`
}
