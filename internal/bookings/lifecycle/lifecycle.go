// Package lifecycle implements the booking approval state machine: which
// actor may move a booking from which status, what the next status is, and
// which audit fields the move stamps. All role checks for approval actions
// live in the transition table here, nowhere else.
package lifecycle

import (
	"fmt"
	"time"

	"labbook/pkg/model"
)

type Action string

const (
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
)

func (a Action) Valid() bool {
	return a == ActionApprove || a == ActionReject
}

// InvalidTransitionError reports an action that is not legal for the
// booking's current status and the actor's role. The booking is untouched.
type InvalidTransitionError struct {
	Current model.BookingStatus
	Action  Action
	Role    model.Role
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid %s action for status %q by role %q", e.Action, e.Current, e.Role)
}

// rule is one row of the transition table, keyed on (current status, action)
// with a role gate.
type rule struct {
	from    model.BookingStatus
	action  Action
	allowed func(model.Role) bool
	next    model.BookingStatus
}

var transitions = []rule{
	{
		from:    model.StatusPendingClubApproval,
		action:  ActionApprove,
		allowed: model.Role.CanApproveClubTier,
		next:    model.StatusPendingLabApproval,
	},
	{
		from:    model.StatusPendingClubApproval,
		action:  ActionReject,
		allowed: model.Role.CanApproveClubTier,
		next:    model.StatusRejectedByClub,
	},
	{
		from:    model.StatusPendingLabApproval,
		action:  ActionApprove,
		allowed: model.Role.CanApproveLabTier,
		next:    model.StatusApproved,
	},
	{
		from:    model.StatusPendingLabApproval,
		action:  ActionReject,
		allowed: model.Role.CanApproveLabTier,
		next:    model.StatusRejectedByLab,
	},
}

// InitialStatus assigns the entry point of the pipeline. Club-member roles
// booking on behalf of a club go through the club tier first; everyone else,
// including faculty and admins carrying a club ID, starts at the lab tier.
func InitialStatus(role model.Role, clubID string) (model.BookingStatus, model.ClubApprovalStatus) {
	if clubID != "" && role.IsClubTier() {
		return model.StatusPendingClubApproval, model.ClubApprovalPending
	}
	return model.StatusPendingLabApproval, ""
}

// Transition validates the (status, action, role) triple and returns the
// patch the repository must apply. It never mutates the booking; if the
// triple is illegal it returns an InvalidTransitionError and the caller
// issues no write.
func Transition(b *model.Booking, action Action, actor model.Actor, rejectionReason string, now time.Time) (model.StatusPatch, error) {
	for _, r := range transitions {
		if r.from != b.Status || r.action != action || !r.allowed(actor.Role) {
			continue
		}

		patch := model.StatusPatch{
			Status:    r.next,
			UpdatedAt: now,
		}

		switch b.Status {
		case model.StatusPendingClubApproval:
			patch.ClubApprovedBy = actor.ID
			patch.ClubApprovedAt = &now
			if action == ActionApprove {
				patch.ClubApprovalStatus = model.ClubApprovalApproved
			} else {
				patch.ClubApprovalStatus = model.ClubApprovalRejected
			}
		case model.StatusPendingLabApproval:
			patch.LabApprovedBy = actor.ID
			patch.LabApprovedAt = &now
		}

		if action == ActionReject && rejectionReason != "" {
			patch.RejectionReason = rejectionReason
		}

		return patch, nil
	}

	return model.StatusPatch{}, &InvalidTransitionError{
		Current: b.Status,
		Action:  action,
		Role:    actor.Role,
	}
}
