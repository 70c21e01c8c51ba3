package model

import (
	"time"
)

type BookingStatus string

const (
	StatusPendingClubApproval BookingStatus = "pending_club_approval"
	StatusPendingLabApproval  BookingStatus = "pending_lab_approval"
	StatusApproved            BookingStatus = "approved"
	StatusRejectedByClub      BookingStatus = "rejected_by_club"
	StatusRejectedByLab       BookingStatus = "rejected_by_lab"
	StatusCancelled           BookingStatus = "cancelled"
)

// ActiveStatuses are the statuses that still occupy a time slot. A booking
// pending either approval tier provisionally reserves the slot because it may
// still be approved.
func ActiveStatuses() []BookingStatus {
	return []BookingStatus{
		StatusPendingClubApproval,
		StatusPendingLabApproval,
		StatusApproved,
	}
}

// IsTerminal reports whether no further approval action is accepted.
func (s BookingStatus) IsTerminal() bool {
	switch s {
	case StatusApproved, StatusRejectedByClub, StatusRejectedByLab, StatusCancelled:
		return true
	}
	return false
}

// IsActive reports whether the booking still occupies its slot.
func (s BookingStatus) IsActive() bool {
	switch s {
	case StatusPendingClubApproval, StatusPendingLabApproval, StatusApproved:
		return true
	}
	return false
}

type ClubApprovalStatus string

const (
	ClubApprovalPending  ClubApprovalStatus = "pending"
	ClubApprovalApproved ClubApprovalStatus = "approved"
	ClubApprovalRejected ClubApprovalStatus = "rejected"
)

// Booking is the central workflow entity. Times are slot-aligned HH:MM strings
// on a shared grid, ordered lexicographically; the occupied interval is
// [start_time, end_time).
type Booking struct {
	ID      string `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	LabID   string `json:"lab_id" bson:"lab_id" validate:"required,mongodb"`
	UserID  string `json:"user_id" bson:"user_id" validate:"required,mongodb"`
	ClubID  string `json:"club_id,omitempty" bson:"club_id,omitempty" validate:"omitempty,mongodb"`
	Date    string `json:"date" bson:"date" validate:"required,datetime=2006-01-02"`
	Start   string `json:"start_time" bson:"start_time" validate:"required,slot_time"`
	End     string `json:"end_time" bson:"end_time" validate:"required,slot_time"`
	Purpose string `json:"purpose" bson:"purpose" validate:"required,min=3,max=500"`

	Status             BookingStatus      `json:"status" bson:"status"`
	ClubApprovalStatus ClubApprovalStatus `json:"club_approval_status,omitempty" bson:"club_approval_status,omitempty"`
	ClubApprovedBy     string             `json:"club_approved_by,omitempty" bson:"club_approved_by,omitempty"`
	ClubApprovedAt     *time.Time         `json:"club_approved_at,omitempty" bson:"club_approved_at,omitempty"`
	LabApprovedBy      string             `json:"lab_approved_by,omitempty" bson:"lab_approved_by,omitempty"`
	LabApprovedAt      *time.Time         `json:"lab_approved_at,omitempty" bson:"lab_approved_at,omitempty"`
	RejectionReason    string             `json:"rejection_reason,omitempty" bson:"rejection_reason,omitempty"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// StatusPatch is the single-document mutation a lifecycle transition issues.
// Only workflow fields move; the booked slot itself is immutable.
type StatusPatch struct {
	Status             BookingStatus      `bson:"status"`
	ClubApprovalStatus ClubApprovalStatus `bson:"club_approval_status,omitempty"`
	ClubApprovedBy     string             `bson:"club_approved_by,omitempty"`
	ClubApprovedAt     *time.Time         `bson:"club_approved_at,omitempty"`
	LabApprovedBy      string             `bson:"lab_approved_by,omitempty"`
	LabApprovedAt      *time.Time         `bson:"lab_approved_at,omitempty"`
	RejectionReason    string             `bson:"rejection_reason,omitempty"`
	UpdatedAt          time.Time          `bson:"updated_at"`
}
