package occupancy

import "hostel-management-backend/internal/model"

// Filter selects a subset of rooms for aggregation. A nil/empty field means
// "all"; set fields compose with logical AND.
type Filter struct {
	HostelID *int64
	Block    string
	Floor    *int
}

// Matches reports whether the room passes every set facet of the filter.
func (f Filter) Matches(room model.Room) bool {
	if f.HostelID != nil && room.HostelID != *f.HostelID {
		return false
	}
	if f.Block != "" && room.Block != f.Block {
		return false
	}
	if f.Floor != nil && room.Floor != *f.Floor {
		return false
	}
	return true
}

// RoomView is a room transformed through the occupancy deriver, with the
// assigned students resolved to display names.
type RoomView struct {
	ID         int64  `json:"id"`
	RoomNumber string `json:"roomNumber"`
	Block      string `json:"block"`
	Floor      int    `json:"floor"`
	Capacity   int    `json:"capacity"`
	Derived
	StudentNames []string `json:"studentNames"`
}

// Group is one (hostel, floor) bucket of the allocation view.
type Group struct {
	HostelID       int64      `json:"hostelId"`
	HostelName     string     `json:"hostelName"`
	Block          string     `json:"block"`
	Floor          int        `json:"floor"`
	Rooms          []RoomView `json:"rooms"`
	TotalCapacity  int        `json:"totalCapacity"`
	TotalOccupancy int        `json:"totalOccupancy"`
	AvailableBeds  int        `json:"availableBeds"`
}

// Totals is the global aggregate across the filtered room set.
type Totals struct {
	TotalCapacity  int `json:"totalCapacity"`
	TotalOccupancy int `json:"totalOccupancy"`
	AvailableBeds  int `json:"availableBeds"`
	RoomCount      int `json:"roomCount"`
}

// Options holds the selectable filter domains. Each facet's domain is
// computed from the rooms that pass the other two facets, so picking hostel X
// narrows the block list to blocks that actually exist within hostel X.
type Options struct {
	HostelIDs []int64  `json:"hostelIds"`
	Blocks    []string `json:"blocks"`
	Floors    []int    `json:"floors"`
}

// Result is the full output of one aggregation pass.
type Result struct {
	Groups  []Group `json:"groups"`
	Totals  Totals  `json:"totals"`
	Options Options `json:"options"`
}

// Aggregate groups the filtered rooms by (hostel, floor), derives occupancy
// for each room, and computes per-group and global totals. Groups appear in
// the order their first room appears in the source slice; rooms keep source
// order within a group.
func Aggregate(rooms []model.Room, hostels map[int64]model.Hostel, f Filter) Result {
	type groupKey struct {
		hostelID int64
		floor    int
	}

	var res Result
	index := make(map[groupKey]int)

	for _, room := range rooms {
		if !f.Matches(room) {
			continue
		}

		d := Derive(room)
		names := make([]string, 0, len(room.AssignedStudents))
		for _, s := range room.AssignedStudents {
			names = append(names, s.Name)
		}

		view := RoomView{
			ID:           room.ID,
			RoomNumber:   room.RoomNumber,
			Block:        room.Block,
			Floor:        room.Floor,
			Capacity:     room.Capacity,
			Derived:      d,
			StudentNames: names,
		}

		key := groupKey{hostelID: room.HostelID, floor: room.Floor}
		i, ok := index[key]
		if !ok {
			g := Group{
				HostelID: room.HostelID,
				Block:    room.Block,
				Floor:    room.Floor,
			}
			if h, found := hostels[room.HostelID]; found {
				g.HostelName = h.Name
			}
			res.Groups = append(res.Groups, g)
			i = len(res.Groups) - 1
			index[key] = i
		}

		g := &res.Groups[i]
		g.Rooms = append(g.Rooms, view)
		g.TotalCapacity += room.Capacity
		g.TotalOccupancy += d.Occupancy
		g.AvailableBeds = g.TotalCapacity - g.TotalOccupancy

		res.Totals.TotalCapacity += room.Capacity
		res.Totals.TotalOccupancy += d.Occupancy
		res.Totals.RoomCount++
	}
	res.Totals.AvailableBeds = res.Totals.TotalCapacity - res.Totals.TotalOccupancy

	res.Options = filterOptions(rooms, f)
	return res
}

// filterOptions derives each facet's selectable values from the rooms that
// pass the remaining facets.
func filterOptions(rooms []model.Room, f Filter) Options {
	var opts Options
	seenHostels := make(map[int64]bool)
	seenBlocks := make(map[string]bool)
	seenFloors := make(map[int]bool)

	for _, room := range rooms {
		withoutHostel := Filter{Block: f.Block, Floor: f.Floor}
		if withoutHostel.Matches(room) && !seenHostels[room.HostelID] {
			seenHostels[room.HostelID] = true
			opts.HostelIDs = append(opts.HostelIDs, room.HostelID)
		}

		withoutBlock := Filter{HostelID: f.HostelID, Floor: f.Floor}
		if withoutBlock.Matches(room) && room.Block != "" && !seenBlocks[room.Block] {
			seenBlocks[room.Block] = true
			opts.Blocks = append(opts.Blocks, room.Block)
		}

		withoutFloor := Filter{HostelID: f.HostelID, Block: f.Block}
		if withoutFloor.Matches(room) && !seenFloors[room.Floor] {
			seenFloors[room.Floor] = true
			opts.Floors = append(opts.Floors, room.Floor)
		}
	}
	return opts
}
