package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"hostel-management-backend/config"
	"hostel-management-backend/internal/api"
	"hostel-management-backend/internal/audit"
	"hostel-management-backend/internal/db"
	"hostel-management-backend/internal/model"
	"hostel-management-backend/internal/occupancy"
	"hostel-management-backend/internal/store"
)

// TestAllocationLifecycle walks a room request from submission to approval
// over the HTTP surface and verifies the derived occupancy and the audit
// trail at each step.
func TestAllocationLifecycle(t *testing.T) {
	gin.SetMode(gin.TestMode)

	// 1. Setup an in-memory SQLite database for testing.
	testDB, err := gorm.Open(sqlite.Open("file:integration?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, _ := testDB.DB()
	defer sqlDB.Close()

	require.NoError(t, db.Migrate(testDB))

	// 2. Create a mock configuration with generous rate limits.
	mockConfig := &config.Config{}
	mockConfig.Server.RateLimitPerSec = 1000
	mockConfig.Server.RateLimitBurst = 1000
	mockConfig.Server.CacheTTLSeconds = 1
	mockConfig.Audit.Enabled = true
	mockConfig.WorkerPool.Size = 4

	// 3. Instantiate the store, the router and the audit sweeper.
	gormStore := store.NewGormStore(testDB)
	router := api.NewRouter(mockConfig, gormStore, nil, nil)
	sweeper := audit.NewSweeper(mockConfig, gormStore, nil)

	perform := func(method, path string, body any) *httptest.ResponseRecorder {
		var reader *bytes.Buffer
		if body != nil {
			raw, err := json.Marshal(body)
			require.NoError(t, err)
			reader = bytes.NewBuffer(raw)
		} else {
			reader = bytes.NewBuffer(nil)
		}
		req := httptest.NewRequest(method, path, reader)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	// 4. Pre-populate the database with a hostel, a room and two students.
	hostel := model.Hostel{Name: "Unity Hall", Campus: "Main", Gender: "female"}
	require.NoError(t, testDB.Create(&hostel).Error)
	room := model.Room{HostelID: hostel.ID, RoomNumber: "A-101", Block: "A", Floor: 1, Capacity: 2}
	require.NoError(t, testDB.Create(&room).Error)
	ada := model.Student{Name: "Ada", MatricNo: "HMS/001"}
	bola := model.Student{Name: "Bola", MatricNo: "HMS/002"}
	require.NoError(t, testDB.Create(&ada).Error)
	require.NoError(t, testDB.Create(&bola).Error)

	var request model.RoomRequest

	t.Run("Step 1: Room Starts Vacant", func(t *testing.T) {
		sweeper.SweepOnce(context.Background())

		var snapshot model.OccupancySnapshot
		err := testDB.Where("room_id = ?", room.ID).First(&snapshot).Error
		assert.NoError(t, err, "Expected the first sweep to record a snapshot")
		assert.Equal(t, "vacant", snapshot.Status)
		assert.Equal(t, 0, snapshot.Occupancy)
	})

	t.Run("Step 2: Student Submits A Request", func(t *testing.T) {
		w := perform(http.MethodPost, "/api/requests", map[string]any{
			"studentId": ada.ID,
			"roomId":    room.ID,
		})
		require.Equal(t, http.StatusCreated, w.Code)
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &request))
		assert.Equal(t, model.RequestPending, request.Status)

		// Submission alone must not change occupancy.
		var assigned int64
		testDB.Model(&model.Student{}).Where("room_id = ?", room.ID).Count(&assigned)
		assert.EqualValues(t, 0, assigned)
	})

	t.Run("Step 3: Warden Approves The Request", func(t *testing.T) {
		w := perform(http.MethodPost, "/api/requests/"+request.ID+"/approve", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var approved model.RoomRequest
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &approved))
		assert.Equal(t, model.RequestApproved, approved.Status)

		var student model.Student
		require.NoError(t, testDB.First(&student, ada.ID).Error)
		require.NotNil(t, student.RoomID)
		assert.Equal(t, room.ID, *student.RoomID)
	})

	t.Run("Step 4: Allocation Reflects The Move-In", func(t *testing.T) {
		w := perform(http.MethodGet, "/api/allocation", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var res occupancy.Result
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
		require.Len(t, res.Groups, 1)
		assert.Equal(t, 2, res.Totals.TotalCapacity)
		assert.Equal(t, 1, res.Totals.TotalOccupancy)
		assert.Equal(t, 1, res.Totals.AvailableBeds)
		require.Len(t, res.Groups[0].Rooms, 1)
		assert.Equal(t, occupancy.StatusPartlyOccupied, res.Groups[0].Rooms[0].Status)
	})

	t.Run("Step 5: Audit Records The Occupancy Change", func(t *testing.T) {
		sweeper.SweepOnce(context.Background())

		var snapshots []model.OccupancySnapshot
		require.NoError(t, testDB.Where("room_id = ?", room.ID).Order("id").Find(&snapshots).Error)
		require.Len(t, snapshots, 2)
		assert.Equal(t, "partly-occupied", snapshots[1].Status)
		assert.Equal(t, 1, snapshots[1].Occupancy)

		// An unchanged room yields no new snapshot.
		sweeper.SweepOnce(context.Background())
		var count int64
		testDB.Model(&model.OccupancySnapshot{}).Where("room_id = ?", room.ID).Count(&count)
		assert.EqualValues(t, 2, count)
	})

	t.Run("Step 6: Approval Beyond Capacity Is Rejected", func(t *testing.T) {
		// Fill the remaining bed directly, then try to approve one more.
		require.NoError(t, testDB.Model(&model.Student{}).
			Where("id = ?", bola.ID).Update("room_id", room.ID).Error)

		chi := model.Student{Name: "Chi", MatricNo: "HMS/003"}
		require.NoError(t, testDB.Create(&chi).Error)

		w := perform(http.MethodPost, "/api/requests", map[string]any{
			"studentId": chi.ID,
			"roomId":    room.ID,
		})
		require.Equal(t, http.StatusCreated, w.Code)
		var overflow model.RoomRequest
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &overflow))

		w = perform(http.MethodPost, "/api/requests/"+overflow.ID+"/approve", nil)
		assert.Equal(t, http.StatusConflict, w.Code)

		// The failed approval must leave the request pending and the
		// student unassigned.
		var reloaded model.RoomRequest
		require.NoError(t, testDB.First(&reloaded, "id = ?", overflow.ID).Error)
		assert.Equal(t, model.RequestPending, reloaded.Status)

		var student model.Student
		require.NoError(t, testDB.First(&student, chi.ID).Error)
		assert.Nil(t, student.RoomID)
	})
}

// TestDamageReportLifecycle drives a damage report through its repair states
// over the HTTP surface.
func TestDamageReportLifecycle(t *testing.T) {
	gin.SetMode(gin.TestMode)

	testDB, err := gorm.Open(sqlite.Open("file:integration_repair?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, _ := testDB.DB()
	defer sqlDB.Close()

	require.NoError(t, db.Migrate(testDB))

	mockConfig := &config.Config{}
	mockConfig.Server.RateLimitPerSec = 1000
	mockConfig.Server.RateLimitBurst = 1000
	mockConfig.Server.CacheTTLSeconds = 1
	mockConfig.WorkerPool.Size = 4

	gormStore := store.NewGormStore(testDB)
	router := api.NewRouter(mockConfig, gormStore, nil, nil)

	perform := func(method, path string, body any) *httptest.ResponseRecorder {
		var reader *bytes.Buffer
		if body != nil {
			raw, err := json.Marshal(body)
			require.NoError(t, err)
			reader = bytes.NewBuffer(raw)
		} else {
			reader = bytes.NewBuffer(nil)
		}
		req := httptest.NewRequest(method, path, reader)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	hostel := model.Hostel{Name: "Freedom Hall", Campus: "Main", Gender: "male"}
	require.NoError(t, testDB.Create(&hostel).Error)
	room := model.Room{HostelID: hostel.ID, RoomNumber: "B-201", Block: "B", Floor: 2, Capacity: 4}
	require.NoError(t, testDB.Create(&room).Error)
	student := model.Student{Name: "Dayo", MatricNo: "HMS/010"}
	require.NoError(t, testDB.Create(&student).Error)
	facility := model.Facility{HostelID: hostel.ID, Name: "Ceiling Fan", Category: "electrical", Status: "working"}
	require.NoError(t, testDB.Create(&facility).Error)

	w := perform(http.MethodPost, "/api/reports", map[string]any{
		"studentId":   student.ID,
		"facilityId":  facility.ID,
		"description": "Fan blade wobbles badly",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var report model.DamageReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.Equal(t, model.RepairPending, report.RepairStatus)

	w = perform(http.MethodPatch, "/api/reports/"+report.ID, map[string]any{
		"repairStatus": "In Progress",
		"repairUpdate": "Technician assigned",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = perform(http.MethodPatch, "/api/reports/"+report.ID, map[string]any{
		"repairStatus": "Completed",
		"repairUpdate": "Fan replaced",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var reloaded model.DamageReport
	require.NoError(t, testDB.First(&reloaded, "id = ?", report.ID).Error)
	assert.Equal(t, model.RepairCompleted, reloaded.RepairStatus)
	assert.Equal(t, "Fan replaced", reloaded.RepairUpdate)

	// The facility's own status record is tracked independently of reports.
	var reloadedFacility model.Facility
	require.NoError(t, testDB.First(&reloadedFacility, facility.ID).Error)
	assert.Equal(t, "working", reloadedFacility.Status)
}
