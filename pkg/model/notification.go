package model

import (
	"time"
)

type NotificationType string

const (
	NotificationBookingPending  NotificationType = "booking_pending"
	NotificationBookingApproved NotificationType = "booking_approved"
	NotificationBookingRejected NotificationType = "booking_rejected"
	NotificationGeneral         NotificationType = "general"
)

// Notification is the stored per-user feed entry.
type Notification struct {
	ID        string            `json:"id,omitempty" bson:"_id,omitempty"`
	UserID    string            `json:"user_id" bson:"user_id"`
	Title     string            `json:"title" bson:"title"`
	Body      string            `json:"body" bson:"body"`
	Type      NotificationType  `json:"type" bson:"type"`
	Read      bool              `json:"read" bson:"read"`
	Data      map[string]string `json:"data,omitempty" bson:"data,omitempty"`
	CreatedAt time.Time         `json:"created_at" bson:"created_at"`
}

// PushSubscription is a registered delivery endpoint for one of the user's
// devices. Encryption and actual delivery happen downstream.
type PushSubscription struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty"`
	UserID    string    `json:"user_id" bson:"user_id" validate:"required,mongodb"`
	Endpoint  string    `json:"endpoint" bson:"endpoint" validate:"required,url"`
	P256DH    string    `json:"p256dh" bson:"p256dh" validate:"required"`
	Auth      string    `json:"auth" bson:"auth" validate:"required"`
	UserAgent string    `json:"user_agent,omitempty" bson:"user_agent,omitempty"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}
