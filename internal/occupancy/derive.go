package occupancy

import "hostel-management-backend/internal/model"

// Status is the derived tri-state occupancy status of a room.
type Status string

const (
	StatusVacant         Status = "vacant"
	StatusPartlyOccupied Status = "partly-occupied"
	StatusOccupied       Status = "occupied"
)

// Derived is the computed occupancy projection of a room. Consistent is
// false when the stored assignment list exceeds capacity; the numbers are
// still reported so display layers can render something, but availableBeds
// is clamped at zero.
type Derived struct {
	Occupancy     int    `json:"occupancy"`
	Status        Status `json:"status"`
	AvailableBeds int    `json:"availableBeds"`
	Consistent    bool   `json:"consistent"`
}

// Derive computes the occupancy projection for a room from its loaded
// assignment list. Pure; no store access.
func Derive(room model.Room) Derived {
	return Classify(room.Capacity, len(room.AssignedStudents))
}

// Classify computes the projection from raw capacity and occupancy counts.
func Classify(capacity, occupancy int) Derived {
	d := Derived{
		Occupancy:     occupancy,
		AvailableBeds: capacity - occupancy,
		Consistent:    true,
	}

	switch {
	case occupancy == 0:
		d.Status = StatusVacant
	case occupancy >= capacity:
		d.Status = StatusOccupied
	default:
		d.Status = StatusPartlyOccupied
	}

	// Corrupted input: more students assigned than beds. Clamp rather than
	// crash, and flag it for operator visibility.
	if occupancy > capacity {
		d.AvailableBeds = 0
		d.Consistent = false
	}
	return d
}
