package workflow

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"hostel-management-backend/internal/db"
	"hostel-management-backend/internal/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))

	t.Cleanup(func() {
		sqlDB, _ := gdb.DB()
		sqlDB.Close()
	})
	return gdb
}

func seedRoom(t *testing.T, gdb *gorm.DB, capacity int) model.Room {
	t.Helper()

	hostel := model.Hostel{Name: "Hostel " + t.Name()}
	require.NoError(t, gdb.Create(&hostel).Error)

	room := model.Room{HostelID: hostel.ID, RoomNumber: "A-101", Block: "A", Floor: 1, Capacity: capacity}
	require.NoError(t, gdb.Create(&room).Error)
	return room
}

func seedStudent(t *testing.T, gdb *gorm.DB, name string) model.Student {
	t.Helper()

	student := model.Student{Name: name, MatricNo: t.Name() + "/" + name}
	require.NoError(t, gdb.Create(&student).Error)
	return student
}

func assignedCount(t *testing.T, gdb *gorm.DB, roomID int64) int64 {
	t.Helper()

	var n int64
	require.NoError(t, gdb.Model(&model.Student{}).Where("room_id = ?", roomID).Count(&n).Error)
	return n
}

func TestSubmitCreatesPendingRequest(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewRequestService(gdb)
	room := seedRoom(t, gdb, 4)
	student := seedStudent(t, gdb, "Ada")

	request, err := svc.Submit(context.Background(), student.ID, room.ID)
	require.NoError(t, err)

	assert.NotEmpty(t, request.ID)
	assert.Equal(t, model.RequestPending, request.Status)
	assert.Equal(t, student.ID, request.StudentID)
	assert.Equal(t, room.ID, request.RoomID)
	assert.False(t, request.CreatedAt.IsZero())
}

func TestSubmitRejectsMissingReferences(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewRequestService(gdb)
	room := seedRoom(t, gdb, 4)
	student := seedStudent(t, gdb, "Ada")

	_, err := svc.Submit(context.Background(), 9999, room.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Submit(context.Background(), student.ID, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSubmitDuplicatePendingIsGlobalPerStudent(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewRequestService(gdb)
	room := seedRoom(t, gdb, 4)
	other := model.Room{HostelID: room.HostelID, RoomNumber: "A-102", Block: "A", Floor: 1, Capacity: 4}
	require.NoError(t, gdb.Create(&other).Error)
	student := seedStudent(t, gdb, "Ada")

	_, err := svc.Submit(context.Background(), student.ID, room.ID)
	require.NoError(t, err)

	// A pending request blocks further submissions for any room, not just
	// the same one.
	_, err = svc.Submit(context.Background(), student.ID, other.ID)
	assert.ErrorIs(t, err, ErrDuplicateRequest)
}

func TestSubmitAllowedAfterDecision(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewRequestService(gdb)
	room := seedRoom(t, gdb, 4)
	student := seedStudent(t, gdb, "Ada")

	first, err := svc.Submit(context.Background(), student.ID, room.ID)
	require.NoError(t, err)
	_, err = svc.Decline(context.Background(), first.ID)
	require.NoError(t, err)

	_, err = svc.Submit(context.Background(), student.ID, room.ID)
	assert.NoError(t, err)
}

func TestApproveAssignsStudent(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewRequestService(gdb)
	room := seedRoom(t, gdb, 2)
	student := seedStudent(t, gdb, "Ada")

	request, err := svc.Submit(context.Background(), student.ID, room.ID)
	require.NoError(t, err)

	approved, err := svc.Approve(context.Background(), request.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RequestApproved, approved.Status)

	var reloaded model.Student
	require.NoError(t, gdb.First(&reloaded, student.ID).Error)
	require.NotNil(t, reloaded.RoomID)
	assert.Equal(t, room.ID, *reloaded.RoomID)
}

func TestApproveAtCapacityFailsWithoutMutation(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewRequestService(gdb)
	room := seedRoom(t, gdb, 1)

	occupant := seedStudent(t, gdb, "Ada")
	require.NoError(t, gdb.Model(&occupant).Update("room_id", room.ID).Error)

	student := seedStudent(t, gdb, "Bola")
	request, err := svc.Submit(context.Background(), student.ID, room.ID)
	require.NoError(t, err)

	_, err = svc.Approve(context.Background(), request.ID)
	assert.ErrorIs(t, err, ErrCapacityExceeded)

	// The failed approval must leave the request pending and the room with
	// exactly its original occupant.
	var reloaded model.RoomRequest
	require.NoError(t, gdb.First(&reloaded, "id = ?", request.ID).Error)
	assert.Equal(t, model.RequestPending, reloaded.Status)
	assert.Equal(t, int64(1), assignedCount(t, gdb, room.ID))

	var unassigned model.Student
	require.NoError(t, gdb.First(&unassigned, student.ID).Error)
	assert.Nil(t, unassigned.RoomID)
}

func TestCompetingApprovalsRespectCapacity(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewRequestService(gdb)
	room := seedRoom(t, gdb, 1)

	ada := seedStudent(t, gdb, "Ada")
	bola := seedStudent(t, gdb, "Bola")

	first, err := svc.Submit(context.Background(), ada.ID, room.ID)
	require.NoError(t, err)
	second, err := svc.Submit(context.Background(), bola.ID, room.ID)
	require.NoError(t, err)

	// Two pending requests race for the last bed in a capacity-1 room:
	// exactly one wins, the loser gets ErrCapacityExceeded and its request
	// stays pending.
	_, firstErr := svc.Approve(context.Background(), first.ID)
	_, secondErr := svc.Approve(context.Background(), second.ID)

	require.NoError(t, firstErr)
	assert.ErrorIs(t, secondErr, ErrCapacityExceeded)
	assert.Equal(t, int64(1), assignedCount(t, gdb, room.ID))

	var approved, pending int64
	require.NoError(t, gdb.Model(&model.RoomRequest{}).Where("status = ?", model.RequestApproved).Count(&approved).Error)
	require.NoError(t, gdb.Model(&model.RoomRequest{}).Where("status = ?", model.RequestPending).Count(&pending).Error)
	assert.Equal(t, int64(1), approved)
	assert.Equal(t, int64(1), pending)
}

func TestTerminalRequestsRejectFurtherTransitions(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewRequestService(gdb)
	room := seedRoom(t, gdb, 4)
	ada := seedStudent(t, gdb, "Ada")
	bola := seedStudent(t, gdb, "Bola")

	approvedReq, err := svc.Submit(context.Background(), ada.ID, room.ID)
	require.NoError(t, err)
	_, err = svc.Approve(context.Background(), approvedReq.ID)
	require.NoError(t, err)

	declinedReq, err := svc.Submit(context.Background(), bola.ID, room.ID)
	require.NoError(t, err)
	_, err = svc.Decline(context.Background(), declinedReq.ID)
	require.NoError(t, err)

	for _, id := range []string{approvedReq.ID, declinedReq.ID} {
		_, err := svc.Approve(context.Background(), id)
		assert.ErrorIs(t, err, ErrInvalidTransition)
		_, err = svc.Decline(context.Background(), id)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	}

	// No state change from the rejected transitions.
	assert.Equal(t, int64(1), assignedCount(t, gdb, room.ID))
	var first, second model.RoomRequest
	require.NoError(t, gdb.First(&first, "id = ?", approvedReq.ID).Error)
	require.NoError(t, gdb.First(&second, "id = ?", declinedReq.ID).Error)
	assert.Equal(t, model.RequestApproved, first.Status)
	assert.Equal(t, model.RequestDeclined, second.Status)
}

func TestDeclineDoesNotTouchRoom(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewRequestService(gdb)
	room := seedRoom(t, gdb, 4)
	student := seedStudent(t, gdb, "Ada")

	request, err := svc.Submit(context.Background(), student.ID, room.ID)
	require.NoError(t, err)

	declined, err := svc.Decline(context.Background(), request.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RequestDeclined, declined.Status)
	assert.Equal(t, int64(0), assignedCount(t, gdb, room.ID))
}

func TestApproveUnknownRequest(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewRequestService(gdb)

	_, err := svc.Approve(context.Background(), "does-not-exist")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Decline(context.Background(), "does-not-exist")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNoDoubleBookingAcrossRooms(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewRequestService(gdb)
	first := seedRoom(t, gdb, 2)
	second := model.Room{HostelID: first.HostelID, RoomNumber: "A-102", Block: "A", Floor: 1, Capacity: 2}
	require.NoError(t, gdb.Create(&second).Error)
	student := seedStudent(t, gdb, "Ada")

	request, err := svc.Submit(context.Background(), student.ID, first.ID)
	require.NoError(t, err)
	_, err = svc.Approve(context.Background(), request.ID)
	require.NoError(t, err)

	// Approving a later request for another room moves the student; the
	// single room_id column means they can never occupy two beds.
	move, err := svc.Submit(context.Background(), student.ID, second.ID)
	require.NoError(t, err)
	_, err = svc.Approve(context.Background(), move.ID)
	require.NoError(t, err)

	assert.Equal(t, int64(0), assignedCount(t, gdb, first.ID))
	assert.Equal(t, int64(1), assignedCount(t, gdb, second.ID))
}

func TestListRequestsByStatus(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewRequestService(gdb)
	room := seedRoom(t, gdb, 4)
	ada := seedStudent(t, gdb, "Ada")
	bola := seedStudent(t, gdb, "Bola")

	kept, err := svc.Submit(context.Background(), ada.ID, room.ID)
	require.NoError(t, err)
	declined, err := svc.Submit(context.Background(), bola.ID, room.ID)
	require.NoError(t, err)
	_, err = svc.Decline(context.Background(), declined.ID)
	require.NoError(t, err)

	pending, err := svc.List(context.Background(), model.RequestPending)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, kept.ID, pending[0].ID)

	all, err := svc.List(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
