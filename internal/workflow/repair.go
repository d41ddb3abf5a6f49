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

// RepairService tracks facility damage reports through their repair
// lifecycle. Status updates are deliberately permissive: an administrator may
// set any of the three statuses at any time, including reopening a Completed
// report. The Facility record's own status field is never touched.
type RepairService struct {
	db *gorm.DB
}

// NewRepairService creates a new damage report service.
func NewRepairService(db *gorm.DB) *RepairService {
	return &RepairService{db: db}
}

// Report files a damage report against a facility. The facility's name,
// category and status are copied into the report as a snapshot; later edits
// to the facility do not propagate.
func (s *RepairService) Report(ctx context.Context, facilityID, studentID int64, description string) (*model.DamageReport, error) {
	var facility model.Facility
	if err := s.db.WithContext(ctx).First(&facility, facilityID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("facility %d: %w", facilityID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load facility %d: %w", facilityID, err)
	}

	var student model.Student
	if err := s.db.WithContext(ctx).First(&student, studentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("student %d: %w", studentID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load student %d: %w", studentID, err)
	}

	report := model.DamageReport{
		ID:               uuid.NewString(),
		FacilityID:       facility.ID,
		FacilityName:     facility.Name,
		FacilityCategory: facility.Category,
		FacilityStatus:   facility.Status,
		StudentID:        studentID,
		Description:      description,
		RepairStatus:     model.RepairPending,
		ReportedAt:       time.Now().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(&report).Error; err != nil {
		return nil, fmt.Errorf("failed to create damage report: %w", err)
	}
	return &report, nil
}

// UpdateStatus sets the report's repair status and note. Any-to-any
// transitions are accepted as long as the status value itself is one of the
// three known values.
func (s *RepairService) UpdateStatus(ctx context.Context, reportID string, status model.RepairStatus, note string) (*model.DamageReport, error) {
	if !status.Known() {
		return nil, fmt.Errorf("unknown repair status %q: %w", status, ErrInvalidTransition)
	}

	var report model.DamageReport
	if err := s.db.WithContext(ctx).First(&report, "id = ?", reportID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("report %s: %w", reportID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load report %s: %w", reportID, err)
	}

	updates := map[string]any{
		"repair_status": status,
		"repair_update": note,
	}
	if err := s.db.WithContext(ctx).Model(&report).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update report %s: %w", reportID, err)
	}

	report.RepairStatus = status
	report.RepairUpdate = note
	return &report, nil
}

// List returns damage reports, optionally filtered by repair status, newest
// first.
func (s *RepairService) List(ctx context.Context, status model.RepairStatus) ([]model.DamageReport, error) {
	q := s.db.WithContext(ctx).Order("reported_at DESC")
	if status != "" {
		q = q.Where("repair_status = ?", status)
	}

	var reports []model.DamageReport
	if err := q.Find(&reports).Error; err != nil {
		return nil, fmt.Errorf("failed to list damage reports: %w", err)
	}
	return reports, nil
}
