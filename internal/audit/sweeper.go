package audit

import (
	"context"
	"log"
	"time"

	"hostel-management-backend/config"
	"hostel-management-backend/internal/model"
	"hostel-management-backend/internal/notification"
	"hostel-management-backend/internal/occupancy"
	"hostel-management-backend/internal/store"
)

// Sweeper periodically derives every room's occupancy, appends a snapshot row
// whenever the derived state changed since the last sweep, and hands rooms
// that regained free beds to the notification pool. It also logs rooms whose
// assignment list exceeds capacity, which indicates corrupted data.
type Sweeper struct {
	cfg        *config.Config
	store      store.Store
	workerPool *notification.WorkerPool
}

// NewSweeper creates a new audit sweeper.
func NewSweeper(cfg *config.Config, s store.Store, pool *notification.WorkerPool) *Sweeper {
	return &Sweeper{cfg: cfg, store: s, workerPool: pool}
}

// Run starts the sweep loop.
func (s *Sweeper) Run(ctx context.Context) {
	if !s.cfg.Audit.Enabled {
		log.Println("Audit sweep is disabled. Not starting.")
		return
	}
	log.Println("Starting audit sweeper...")

	s.SweepOnce(ctx)

	timer := time.NewTimer(s.cfg.Audit.Interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Audit sweeper shutting down.")
			return
		case <-timer.C:
			s.SweepOnce(ctx)
			timer.Reset(s.cfg.Audit.Interval)
		}
	}
}

// SweepOnce performs a single audit pass over every room.
func (s *Sweeper) SweepOnce(ctx context.Context) {
	now := time.Now().UTC()

	rooms, err := s.store.ListRooms(ctx, nil)
	if err != nil {
		log.Printf("Audit sweep aborted, could not list rooms: %v", err)
		return
	}

	latest, err := s.store.LatestSnapshots(ctx)
	if err != nil {
		log.Printf("Audit sweep aborted, could not load snapshots: %v", err)
		return
	}

	var toAppend []model.OccupancySnapshot
	var vacancyRooms []int64

	for _, room := range rooms {
		derived := occupancy.Derive(room)

		if !derived.Consistent {
			log.Printf("Inconsistent room %d (%s): %d students assigned, capacity %d",
				room.ID, room.RoomNumber, derived.Occupancy, room.Capacity)
		}

		prev, seen := latest[room.ID]
		if seen && !changed(prev, room, derived) {
			continue
		}

		toAppend = append(toAppend, model.OccupancySnapshot{
			RoomID:     room.ID,
			ObservedAt: now,
			Occupancy:  derived.Occupancy,
			Capacity:   room.Capacity,
			Status:     string(derived.Status),
			Consistent: derived.Consistent,
		})

		// A room that was full and now has free beds is worth telling its
		// watchers about.
		if seen && prev.Status == string(occupancy.StatusOccupied) && derived.AvailableBeds > 0 {
			vacancyRooms = append(vacancyRooms, room.ID)
		}
	}

	if err := s.store.AppendSnapshots(ctx, toAppend); err != nil {
		log.Printf("Audit sweep: failed to append snapshots: %v", err)
		return
	}

	if s.workerPool != nil {
		for _, roomID := range vacancyRooms {
			s.workerPool.Dispatch(notification.Event{
				Kind:   notification.EventRoomVacancy,
				RoomID: roomID,
			})
		}
	}

	if len(toAppend) > 0 {
		log.Printf("Audit sweep recorded %d snapshot(s), %d vacancy notification(s)", len(toAppend), len(vacancyRooms))
	}
}

func changed(prev model.OccupancySnapshot, room model.Room, d occupancy.Derived) bool {
	return prev.Occupancy != d.Occupancy ||
		prev.Capacity != room.Capacity ||
		prev.Status != string(d.Status) ||
		prev.Consistent != d.Consistent
}
