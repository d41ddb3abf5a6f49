package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"hostel-management-backend/internal/model"
)

// RequestService runs the room request state machine:
// pending -> approved | declined, both terminal.
type RequestService struct {
	db *gorm.DB
}

// NewRequestService creates a new room request service.
func NewRequestService(db *gorm.DB) *RequestService {
	return &RequestService{db: db}
}

// Submit creates a pending room request for a student. A student may hold at
// most one pending request at a time, across all rooms.
func (s *RequestService) Submit(ctx context.Context, studentID, roomID int64) (*model.RoomRequest, error) {
	var request model.RoomRequest

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var student model.Student
		if err := tx.First(&student, studentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("student %d: %w", studentID, ErrNotFound)
			}
			return fmt.Errorf("failed to load student %d: %w", studentID, err)
		}

		var room model.Room
		if err := tx.First(&room, roomID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("room %d: %w", roomID, ErrNotFound)
			}
			return fmt.Errorf("failed to load room %d: %w", roomID, err)
		}

		var pending int64
		if err := tx.Model(&model.RoomRequest{}).
			Where("student_id = ? AND status = ?", studentID, model.RequestPending).
			Count(&pending).Error; err != nil {
			return fmt.Errorf("failed to count pending requests: %w", err)
		}
		if pending > 0 {
			return ErrDuplicateRequest
		}

		request = model.RoomRequest{
			ID:        uuid.NewString(),
			StudentID: studentID,
			RoomID:    roomID,
			Status:    model.RequestPending,
			CreatedAt: time.Now().UTC(),
		}
		if err := tx.Create(&request).Error; err != nil {
			return fmt.Errorf("failed to create room request: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &request, nil
}

// Approve transitions a pending request to approved and assigns the student
// to the requested room. The status flip and the assignment commit together
// or not at all; on ErrCapacityExceeded the request remains pending.
func (s *RequestService) Approve(ctx context.Context, requestID string) (*model.RoomRequest, error) {
	var request model.RoomRequest

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := loadRequest(tx, requestID, &request); err != nil {
			return err
		}
		if request.Status != model.RequestPending {
			return ErrInvalidTransition
		}

		// Guarded status flip. RowsAffected 0 means another transaction got
		// there first.
		flip := tx.Model(&model.RoomRequest{}).
			Where("id = ? AND status = ?", requestID, model.RequestPending).
			Update("status", model.RequestApproved)
		if flip.Error != nil {
			return fmt.Errorf("failed to approve request %s: %w", requestID, flip.Error)
		}
		if flip.RowsAffected == 0 {
			return ErrInvalidTransition
		}

		// Touch the room row to take its write lock. Concurrent approvals
		// against the same room serialize here, so the capacity subquery
		// below always sees the winner's committed assignment.
		touch := tx.Model(&model.Room{}).
			Where("id = ?", request.RoomID).
			Update("updated_at", time.Now().UTC())
		if touch.Error != nil {
			return fmt.Errorf("failed to lock room %d: %w", request.RoomID, touch.Error)
		}
		if touch.RowsAffected == 0 {
			return fmt.Errorf("room %d: %w", request.RoomID, ErrNotFound)
		}

		// Capacity-guarded assignment: a single conditional UPDATE so the
		// check and the write cannot interleave with another approval.
		assign := tx.Exec(
			`UPDATE students SET room_id = ?
			 WHERE id = ?
			   AND (SELECT COUNT(*) FROM students WHERE room_id = ? AND id <> ?)
			     < (SELECT capacity FROM rooms WHERE id = ?)`,
			request.RoomID, request.StudentID, request.RoomID, request.StudentID, request.RoomID,
		)
		if assign.Error != nil {
			return fmt.Errorf("failed to assign student %d: %w", request.StudentID, assign.Error)
		}
		if assign.RowsAffected == 0 {
			return ErrCapacityExceeded
		}

		request.Status = model.RequestApproved
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &request, nil
}

// Decline transitions a pending request to declined. The room is untouched.
func (s *RequestService) Decline(ctx context.Context, requestID string) (*model.RoomRequest, error) {
	var request model.RoomRequest

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := loadRequest(tx, requestID, &request); err != nil {
			return err
		}
		if request.Status != model.RequestPending {
			return ErrInvalidTransition
		}

		flip := tx.Model(&model.RoomRequest{}).
			Where("id = ? AND status = ?", requestID, model.RequestPending).
			Update("status", model.RequestDeclined)
		if flip.Error != nil {
			return fmt.Errorf("failed to decline request %s: %w", requestID, flip.Error)
		}
		if flip.RowsAffected == 0 {
			return ErrInvalidTransition
		}

		request.Status = model.RequestDeclined
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &request, nil
}

// List returns requests, optionally filtered by status, newest first.
func (s *RequestService) List(ctx context.Context, status model.RequestStatus) ([]model.RoomRequest, error) {
	q := s.db.WithContext(ctx).Order("created_at DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var requests []model.RoomRequest
	if err := q.Find(&requests).Error; err != nil {
		return nil, fmt.Errorf("failed to list room requests: %w", err)
	}
	return requests, nil
}

func loadRequest(tx *gorm.DB, requestID string, out *model.RoomRequest) error {
	if err := tx.First(out, "id = ?", requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("request %s: %w", requestID, ErrNotFound)
		}
		return fmt.Errorf("failed to load request %s: %w", requestID, err)
	}
	return nil
}
