package model

import "time"

// RepairStatus is the repair lifecycle state of a damage report. The string
// values are part of the stored data contract, including the space and the
// casing in "In Progress".
type RepairStatus string

const (
	RepairPending    RepairStatus = "Pending"
	RepairInProgress RepairStatus = "In Progress"
	RepairCompleted  RepairStatus = "Completed"
)

// Known reports whether s is one of the three recognized repair statuses.
func (s RepairStatus) Known() bool {
	return s == RepairPending || s == RepairInProgress || s == RepairCompleted
}

// DamageReport is a student-filed record of a facility fault. The facility
// name/category/status fields are a snapshot taken at report time and are not
// refreshed when the Facility record later changes.
type DamageReport struct {
	ID               string       `gorm:"primaryKey;size:36" json:"id"`
	FacilityID       int64        `gorm:"index;not null" json:"facilityId"`
	FacilityName     string       `gorm:"size:128" json:"facilityName"`
	FacilityCategory string       `gorm:"size:64" json:"facilityCategory"`
	FacilityStatus   string       `gorm:"size:32" json:"facilityStatus"`
	StudentID        int64        `gorm:"index;not null" json:"studentId"`
	Description      string       `gorm:"size:1024" json:"description"`
	RepairStatus     RepairStatus `gorm:"size:16;not null" json:"repairStatus"`
	RepairUpdate     string       `gorm:"size:1024" json:"repairUpdate"`
	ReportedAt       time.Time    `gorm:"not null" json:"reportedAt"`
	UpdatedAt        time.Time    `json:"-"`
}
