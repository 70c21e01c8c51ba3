package service

import (
	"context"

	apperrors "labbook/pkg/errors"
	"labbook/pkg/model"
)

// overlaps reports whether the half-open intervals [s1,e1) and [s2,e2)
// intersect. Slot-aligned HH:MM strings compare lexicographically.
func overlaps(s1, e1, s2, e2 string) bool {
	return s1 < e2 && s2 < e1
}

// hasConflict reports whether an active booking already claims any part of
// the proposed slot. Rejected and cancelled bookings vacate their slot;
// bookings pending either tier still hold it provisionally. excludeID lets a
// booking re-validate without conflicting with itself.
func (s *bookingService) hasConflict(ctx context.Context, labID, date, start, end, excludeID string) (bool, error) {
	candidates, err := s.repo.FindActiveByLabAndDate(ctx, labID, date)
	if err != nil {
		return false, apperrors.Internal("Failed to check existing bookings", err)
	}

	for _, b := range candidates {
		if b.ID == excludeID {
			continue
		}
		if overlaps(b.Start, b.End, start, end) {
			return true, nil
		}
	}
	return false, nil
}

// hasApprovedConflict is the narrower re-check run immediately before a
// booking flips to approved. Competing pending requests do not block the
// winner; only an already-approved overlap does.
func (s *bookingService) hasApprovedConflict(ctx context.Context, booking *model.Booking) (bool, error) {
	candidates, err := s.repo.FindActiveByLabAndDate(ctx, booking.LabID, booking.Date)
	if err != nil {
		return false, apperrors.Internal("Failed to re-check slot conflicts", err)
	}

	for _, b := range candidates {
		if b.ID == booking.ID || b.Status != model.StatusApproved {
			continue
		}
		if overlaps(b.Start, b.End, booking.Start, booking.End) {
			return true, nil
		}
	}
	return false, nil
}
