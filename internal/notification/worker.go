package notification

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"gorm.io/gorm"

	"hostel-management-backend/internal/model"
)

// EventKind selects who an event is delivered to.
type EventKind int

const (
	// EventRoomVacancy notifies every subscription watching the room.
	EventRoomVacancy EventKind = iota
	// EventStudentDecision notifies the student's own subscriptions.
	EventStudentDecision
)

// Event is one unit of work for the pool.
type Event struct {
	Kind      EventKind
	RoomID    int64
	StudentID int64
	Message   string
}

// Sender defines the interface for sending a web push notification.
type Sender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender is the real implementation of Sender using the webpush
// library.
type WebPushSender struct{}

// Send sends a notification using the webpush library.
func (s *WebPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// WorkerPool manages a pool of workers delivering push notifications.
type WorkerPool struct {
	size    int
	jobs    chan Event
	db      *gorm.DB
	webpush *webpush.Options
	sender  Sender
}

// NewWorkerPool creates a new worker pool.
func NewWorkerPool(size int, db *gorm.DB, webpushOptions *webpush.Options) *WorkerPool {
	return &WorkerPool{
		size:    size,
		jobs:    make(chan Event, size),
		db:      db,
		webpush: webpushOptions,
		sender:  &WebPushSender{},
	}
}

// Start launches the worker goroutines.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		go wp.worker(ctx, i)
	}
}

func (wp *WorkerPool) worker(ctx context.Context, id int) {
	log.Printf("notification worker %d started", id)
	for {
		select {
		case event := <-wp.jobs:
			wp.deliver(ctx, event)
		case <-ctx.Done():
			log.Printf("notification worker %d shutting down", id)
			return
		}
	}
}

// Dispatch queues an event for delivery. Non-blocking callers should treat a
// full queue as best-effort loss, never as an operation failure.
func (wp *WorkerPool) Dispatch(event Event) {
	wp.jobs <- event
}

// Jobs returns the jobs channel for testing.
func (wp *WorkerPool) Jobs() chan Event {
	return wp.jobs
}

func (wp *WorkerPool) deliver(ctx context.Context, event Event) {
	subscriptions, err := wp.subscriptionsFor(ctx, event)
	if err != nil {
		log.Printf("error fetching subscriptions for event %+v: %v", event, err)
		return
	}
	if len(subscriptions) == 0 {
		return
	}

	message := event.Message
	if message == "" && event.Kind == EventRoomVacancy {
		message = fmt.Sprintf("A bed opened up in room %d", event.RoomID)
	}

	log.Printf("sending %d notifications for room %d", len(subscriptions), event.RoomID)
	for _, sub := range subscriptions {
		wp.send(ctx, sub, []byte(message))
	}
}

func (wp *WorkerPool) subscriptionsFor(ctx context.Context, event Event) ([]model.PushSubscription, error) {
	var subscriptions []model.PushSubscription

	switch event.Kind {
	case EventStudentDecision:
		err := wp.db.WithContext(ctx).
			Where("student_id = ?", event.StudentID).
			Find(&subscriptions).Error
		return subscriptions, err
	default:
		err := wp.db.WithContext(ctx).
			Joins("JOIN subscription_room_mapping srm ON srm.push_subscription_endpoint = push_subscriptions.endpoint").
			Where("srm.room_id = ?", event.RoomID).
			Find(&subscriptions).Error
		return subscriptions, err
	}
}

func (wp *WorkerPool) send(ctx context.Context, sub model.PushSubscription, payload []byte) {
	wpSub := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256DH,
			Auth:   sub.Auth,
		},
	}

	resp, err := wp.sender.Send(payload, wpSub, wp.webpush)
	if err != nil {
		log.Printf("error sending notification to %s: %v", sub.Endpoint, err)
		return
	}
	defer resp.Body.Close()

	// Expired subscriptions are pruned on delivery.
	if resp.StatusCode == http.StatusGone {
		log.Printf("subscription %s is expired, deleting", sub.Endpoint)
		if err := wp.db.WithContext(ctx).Delete(&sub).Error; err != nil {
			log.Printf("failed to delete expired subscription %s: %v", sub.Endpoint, err)
		}
	}
}
