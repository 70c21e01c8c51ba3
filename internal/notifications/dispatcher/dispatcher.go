// Package dispatcher turns booking lifecycle transitions into notification
// intents and hands them to the delivery collaborator. Everything here is
// best-effort: the triggering transition is already committed, so failures
// are logged and swallowed, never propagated.
package dispatcher

import (
	"context"

	"labbook/internal/bookings/lifecycle"
	"labbook/internal/notifications/repository"
	"labbook/pkg/kafka"
	"labbook/pkg/logger"
	"labbook/pkg/model"
)

const intentEventType = "notification-intent"

// Intent is the delivery-agnostic notification a transition produces. The
// data payload carries the slot coordinates for client-side deep linking.
type Intent struct {
	UserID string                 `json:"user_id"`
	Title  string                 `json:"title"`
	Body   string                 `json:"body"`
	Type   model.NotificationType `json:"type"`
	Data   map[string]string      `json:"data"`
}

// BuildIntent maps a transition onto an intent. It returns false for
// transitions that notify nobody.
func BuildIntent(booking *model.Booking, action lifecycle.Action, next model.BookingStatus) (Intent, bool) {
	intent := Intent{
		UserID: booking.UserID,
		Data: map[string]string{
			"booking_id": booking.ID,
			"lab_id":     booking.LabID,
			"date":       booking.Date,
			"start_time": booking.Start,
			"end_time":   booking.End,
		},
	}

	switch {
	case action == lifecycle.ActionApprove && next == model.StatusPendingLabApproval:
		intent.Type = model.NotificationBookingPending
		intent.Title = "Club Approval Received"
		intent.Body = "Your booking has been approved by the club incharge and is now pending lab approval."
	case action == lifecycle.ActionApprove && next == model.StatusApproved:
		intent.Type = model.NotificationBookingApproved
		intent.Title = "Booking Approved"
		intent.Body = "Your lab booking has been fully approved and confirmed."
	case action == lifecycle.ActionReject:
		intent.Type = model.NotificationBookingRejected
		intent.Title = "Booking Rejected"
		if booking.RejectionReason != "" {
			intent.Body = "Your booking was rejected. Reason: " + booking.RejectionReason
		} else {
			intent.Body = "Your booking was rejected by the approver."
		}
	default:
		return Intent{}, false
	}

	return intent, true
}

// Publisher is the slice of the Kafka producer the dispatcher needs.
type Publisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

type Dispatcher struct {
	repo      repository.NotificationRepository
	publisher Publisher
	source    string
	log       *logger.Logger
}

func New(repo repository.NotificationRepository, publisher Publisher, source string, log *logger.Logger) *Dispatcher {
	return &Dispatcher{
		repo:      repo,
		publisher: publisher,
		source:    source,
		log:       log,
	}
}

// BookingTransition stores the feed entry and hands the intent to the
// delivery collaborator via the intent topic.
func (d *Dispatcher) BookingTransition(ctx context.Context, booking *model.Booking, action lifecycle.Action, next model.BookingStatus) {
	intent, ok := BuildIntent(booking, action, next)
	if !ok {
		return
	}

	notification := &model.Notification{
		UserID: intent.UserID,
		Title:  intent.Title,
		Body:   intent.Body,
		Type:   intent.Type,
		Data:   intent.Data,
	}
	if err := d.repo.Create(ctx, notification); err != nil {
		d.log.Error("Failed to store notification",
			"user_id", intent.UserID,
			"booking_id", booking.ID,
			"error", err,
		)
	}

	msg, err := kafka.NewMessage(intent.UserID, intentEventType, d.source, intent)
	if err != nil {
		d.log.Error("Failed to encode notification intent",
			"user_id", intent.UserID,
			"booking_id", booking.ID,
			"error", err,
		)
		return
	}

	if err := d.publisher.Publish(ctx, msg); err != nil {
		d.log.Error("Failed to publish notification intent",
			"user_id", intent.UserID,
			"booking_id", booking.ID,
			"type", intent.Type,
			"error", err,
		)
		return
	}

	d.log.Info("Notification intent dispatched",
		"user_id", intent.UserID,
		"booking_id", booking.ID,
		"type", intent.Type,
	)
}
