package dispatcher

import (
	"context"
	"errors"
	"testing"

	"labbook/internal/bookings/lifecycle"
	"labbook/pkg/kafka"
	"labbook/pkg/logger"
	"labbook/pkg/model"
)

type mockNotificationRepo struct {
	createFunc func(ctx context.Context, n *model.Notification) error
	stored     []*model.Notification
}

func (m *mockNotificationRepo) Create(ctx context.Context, n *model.Notification) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, n)
	}
	m.stored = append(m.stored, n)
	return nil
}

func (m *mockNotificationRepo) FindByUser(ctx context.Context, userID string, limit, offset int) ([]*model.Notification, error) {
	return nil, nil
}

func (m *mockNotificationRepo) CountUnread(ctx context.Context, userID string) (int64, error) {
	return 0, nil
}

func (m *mockNotificationRepo) MarkRead(ctx context.Context, id, userID string) error { return nil }

func (m *mockNotificationRepo) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	return 0, nil
}

func (m *mockNotificationRepo) Delete(ctx context.Context, id, userID string) error { return nil }

type mockPublisher struct {
	publishFunc func(ctx context.Context, msg kafka.Message) error
	published   []kafka.Message
}

func (m *mockPublisher) Publish(ctx context.Context, msg kafka.Message) error {
	if m.publishFunc != nil {
		return m.publishFunc(ctx, msg)
	}
	m.published = append(m.published, msg)
	return nil
}

func testBooking() *model.Booking {
	return &model.Booking{
		ID:     "64a000000000000000000010",
		LabID:  "64a0000000000000000000aa",
		UserID: "64a000000000000000000001",
		Date:   "2026-09-10",
		Start:  "10:00",
		End:    "11:00",
	}
}

func TestBuildIntent(t *testing.T) {
	tests := []struct {
		name      string
		action    lifecycle.Action
		next      model.BookingStatus
		reason    string
		wantType  model.NotificationType
		wantTitle string
		wantBody  string
		wantOK    bool
	}{
		{
			name:      "club clearance",
			action:    lifecycle.ActionApprove,
			next:      model.StatusPendingLabApproval,
			wantType:  model.NotificationBookingPending,
			wantTitle: "Club Approval Received",
			wantBody:  "Your booking has been approved by the club incharge and is now pending lab approval.",
			wantOK:    true,
		},
		{
			name:      "final approval",
			action:    lifecycle.ActionApprove,
			next:      model.StatusApproved,
			wantType:  model.NotificationBookingApproved,
			wantTitle: "Booking Approved",
			wantBody:  "Your lab booking has been fully approved and confirmed.",
			wantOK:    true,
		},
		{
			name:      "rejection with reason carries it verbatim",
			action:    lifecycle.ActionReject,
			next:      model.StatusRejectedByLab,
			reason:    "Equipment under repair",
			wantType:  model.NotificationBookingRejected,
			wantTitle: "Booking Rejected",
			wantBody:  "Your booking was rejected. Reason: Equipment under repair",
			wantOK:    true,
		},
		{
			name:      "rejection without reason gets the generic body",
			action:    lifecycle.ActionReject,
			next:      model.StatusRejectedByClub,
			wantType:  model.NotificationBookingRejected,
			wantTitle: "Booking Rejected",
			wantBody:  "Your booking was rejected by the approver.",
			wantOK:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			booking := testBooking()
			booking.RejectionReason = tt.reason

			intent, ok := BuildIntent(booking, tt.action, tt.next)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if intent.Type != tt.wantType {
				t.Errorf("type = %q, want %q", intent.Type, tt.wantType)
			}
			if intent.Title != tt.wantTitle {
				t.Errorf("title = %q, want %q", intent.Title, tt.wantTitle)
			}
			if intent.Body != tt.wantBody {
				t.Errorf("body = %q, want %q", intent.Body, tt.wantBody)
			}
			if intent.UserID != booking.UserID {
				t.Errorf("user = %q, want the submitter %q", intent.UserID, booking.UserID)
			}
		})
	}
}

func TestBuildIntent_PayloadCarriesSlotCoordinates(t *testing.T) {
	booking := testBooking()
	intent, ok := BuildIntent(booking, lifecycle.ActionApprove, model.StatusApproved)
	if !ok {
		t.Fatal("expected an intent")
	}

	want := map[string]string{
		"booking_id": booking.ID,
		"lab_id":     booking.LabID,
		"date":       booking.Date,
		"start_time": booking.Start,
		"end_time":   booking.End,
	}
	for key, value := range want {
		if intent.Data[key] != value {
			t.Errorf("data[%q] = %q, want %q", key, intent.Data[key], value)
		}
	}
}

func TestBookingTransition_StoresAndPublishes(t *testing.T) {
	repo := &mockNotificationRepo{}
	publisher := &mockPublisher{}
	log := logger.New(logger.Config{Level: "error", Format: logger.JSON, Service: "test"})
	d := New(repo, publisher, "bookings", log)

	d.BookingTransition(context.Background(), testBooking(), lifecycle.ActionApprove, model.StatusApproved)

	if len(repo.stored) != 1 {
		t.Fatalf("expected 1 stored notification, got %d", len(repo.stored))
	}
	if repo.stored[0].Type != model.NotificationBookingApproved {
		t.Errorf("stored type = %q", repo.stored[0].Type)
	}
	if len(publisher.published) != 1 {
		t.Fatalf("expected 1 published intent, got %d", len(publisher.published))
	}
	if publisher.published[0].Key != testBooking().UserID {
		t.Errorf("message key = %q, want the user ID", publisher.published[0].Key)
	}
}

func TestBookingTransition_FailuresAreSwallowed(t *testing.T) {
	repo := &mockNotificationRepo{
		createFunc: func(ctx context.Context, n *model.Notification) error {
			return errors.New("store down")
		},
	}
	publisher := &mockPublisher{
		publishFunc: func(ctx context.Context, msg kafka.Message) error {
			return errors.New("broker down")
		},
	}
	log := logger.New(logger.Config{Level: "error", Format: logger.JSON, Service: "test"})
	d := New(repo, publisher, "bookings", log)

	// Must not panic or propagate anything.
	d.BookingTransition(context.Background(), testBooking(), lifecycle.ActionReject, model.StatusRejectedByLab)
}
