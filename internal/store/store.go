package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"hostel-management-backend/internal/model"
)

// Store defines the read/write surface for hostel, room and snapshot data.
// The workflow services own their own transactions and are not behind this
// interface.
type Store interface {
	DB() *gorm.DB

	ListHostels(ctx context.Context) ([]model.Hostel, error)
	GetHostel(ctx context.Context, id int64) (*model.Hostel, error)

	CreateRoom(ctx context.Context, room *model.Room) error
	GetRoom(ctx context.Context, id int64) (*model.Room, error)
	ListRooms(ctx context.Context, hostelID *int64) ([]model.Room, error)
	HostelIndex(ctx context.Context) (map[int64]model.Hostel, error)

	LatestSnapshots(ctx context.Context) (map[int64]model.OccupancySnapshot, error)
	AppendSnapshots(ctx context.Context, snapshots []model.OccupancySnapshot) error
	ListRoomSnapshots(ctx context.Context, roomID int64) ([]model.OccupancySnapshot, error)
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) DB() *gorm.DB {
	return s.db
}

func (s *gormStore) ListHostels(ctx context.Context) ([]model.Hostel, error) {
	var hostels []model.Hostel
	if err := s.db.WithContext(ctx).Order("name").Find(&hostels).Error; err != nil {
		return nil, fmt.Errorf("failed to list hostels: %w", err)
	}
	return hostels, nil
}

func (s *gormStore) GetHostel(ctx context.Context, id int64) (*model.Hostel, error) {
	var hostel model.Hostel
	if err := s.db.WithContext(ctx).First(&hostel, id).Error; err != nil {
		return nil, err
	}
	return &hostel, nil
}

func (s *gormStore) CreateRoom(ctx context.Context, room *model.Room) error {
	if err := s.db.WithContext(ctx).Create(room).Error; err != nil {
		return fmt.Errorf("failed to create room: %w", err)
	}
	return nil
}

// GetRoom loads a room with its assignment list.
func (s *gormStore) GetRoom(ctx context.Context, id int64) (*model.Room, error) {
	var room model.Room
	err := s.db.WithContext(ctx).
		Preload("AssignedStudents").
		First(&room, id).Error
	if err != nil {
		return nil, err
	}
	return &room, nil
}

// ListRooms loads rooms with their assignment lists, optionally restricted to
// one hostel. Ordering is stable (hostel, floor, room number) so aggregation
// groups come out in a predictable order.
func (s *gormStore) ListRooms(ctx context.Context, hostelID *int64) ([]model.Room, error) {
	q := s.db.WithContext(ctx).
		Preload("AssignedStudents").
		Order("hostel_id, floor, room_number")
	if hostelID != nil {
		q = q.Where("hostel_id = ?", *hostelID)
	}

	var rooms []model.Room
	if err := q.Find(&rooms).Error; err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	return rooms, nil
}

// HostelIndex returns all hostels keyed by ID, for resolving group names
// during aggregation.
func (s *gormStore) HostelIndex(ctx context.Context) (map[int64]model.Hostel, error) {
	var hostels []model.Hostel
	if err := s.db.WithContext(ctx).Find(&hostels).Error; err != nil {
		return nil, fmt.Errorf("failed to load hostels: %w", err)
	}
	index := make(map[int64]model.Hostel, len(hostels))
	for _, h := range hostels {
		index[h.ID] = h
	}
	return index, nil
}

// LatestSnapshots returns the most recent snapshot per room.
func (s *gormStore) LatestSnapshots(ctx context.Context) (map[int64]model.OccupancySnapshot, error) {
	var snapshots []model.OccupancySnapshot
	if err := s.db.WithContext(ctx).Order("observed_at").Find(&snapshots).Error; err != nil {
		return nil, fmt.Errorf("failed to load occupancy snapshots: %w", err)
	}
	latest := make(map[int64]model.OccupancySnapshot)
	for _, snap := range snapshots {
		latest[snap.RoomID] = snap
	}
	return latest, nil
}

// AppendSnapshots writes a batch of snapshot rows in one transaction.
func (s *gormStore) AppendSnapshots(ctx context.Context, snapshots []model.OccupancySnapshot) error {
	if len(snapshots) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&snapshots).Error; err != nil {
			return fmt.Errorf("failed to append occupancy snapshots: %w", err)
		}
		return nil
	})
}

func (s *gormStore) ListRoomSnapshots(ctx context.Context, roomID int64) ([]model.OccupancySnapshot, error) {
	var snapshots []model.OccupancySnapshot
	err := s.db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Order("observed_at DESC").
		Find(&snapshots).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots for room %d: %w", roomID, err)
	}
	return snapshots, nil
}
