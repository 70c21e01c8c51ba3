package validator

import (
	"strings"
	"testing"

	"labbook/pkg/logger"
	"labbook/pkg/model"
)

func newTestValidator() *BookingValidator {
	log := logger.New(logger.Config{Level: "error", Format: logger.JSON, Service: "test"})
	return NewBookingValidator(log, "08:00", "18:00")
}

func validBooking() *model.Booking {
	return &model.Booking{
		LabID:   "64a0000000000000000000aa",
		UserID:  "64a000000000000000000001",
		Date:    "2026-09-10",
		Start:   "10:00",
		End:     "11:00",
		Purpose: "Robotics practice session",
	}
}

func TestValidateSubmission_Valid(t *testing.T) {
	v := newTestValidator()
	if err := v.ValidateSubmission(validBooking()); err != nil {
		t.Fatalf("valid booking rejected: %v", err)
	}
}

func TestValidateSubmission_IntervalProblems(t *testing.T) {
	v := newTestValidator()

	tests := []struct {
		name  string
		start string
		end   string
		want  string
	}{
		{"inverted interval", "11:00", "10:00", "end_time must be after start_time"},
		{"zero width interval", "10:00", "10:00", "end_time must be after start_time"},
		{"before the bookable window", "07:00", "09:00", "must fall within"},
		{"after the bookable window", "17:00", "19:00", "must fall within"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := validBooking()
			b.Start = tt.start
			b.End = tt.end

			err := v.ValidateSubmission(b)
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err.Error(), tt.want)
			}
		})
	}
}

func TestValidateSubmission_FieldErrors(t *testing.T) {
	v := newTestValidator()

	tests := []struct {
		name   string
		mutate func(*model.Booking)
	}{
		{"missing lab", func(b *model.Booking) { b.LabID = "" }},
		{"malformed lab ID", func(b *model.Booking) { b.LabID = "not-an-object-id" }},
		{"malformed date", func(b *model.Booking) { b.Date = "10-09-2026" }},
		{"malformed start time", func(b *model.Booking) { b.Start = "10am" }},
		{"out of range time", func(b *model.Booking) { b.End = "25:00" }},
		{"purpose too short", func(b *model.Booking) { b.Purpose = "ab" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := validBooking()
			tt.mutate(b)
			if err := v.ValidateSubmission(b); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestValidateSubmission_WindowBoundariesInclusive(t *testing.T) {
	v := newTestValidator()

	b := validBooking()
	b.Start = "08:00"
	b.End = "18:00"
	if err := v.ValidateSubmission(b); err != nil {
		t.Errorf("full-window booking rejected: %v", err)
	}
}
