package lifecycle

import (
	"errors"
	"testing"
	"time"

	"labbook/pkg/model"
)

func TestInitialStatus(t *testing.T) {
	tests := []struct {
		name       string
		role       model.Role
		clubID     string
		wantStatus model.BookingStatus
		wantClub   model.ClubApprovalStatus
	}{
		{
			name:       "club member booking for a club enters the club tier",
			role:       model.RoleClubMember,
			clubID:     "64a000000000000000000010",
			wantStatus: model.StatusPendingClubApproval,
			wantClub:   model.ClubApprovalPending,
		},
		{
			name:       "club executive booking for a club enters the club tier",
			role:       model.RoleClubExecutive,
			clubID:     "64a000000000000000000010",
			wantStatus: model.StatusPendingClubApproval,
			wantClub:   model.ClubApprovalPending,
		},
		{
			name:       "club member without a club goes straight to the lab tier",
			role:       model.RoleClubMember,
			clubID:     "",
			wantStatus: model.StatusPendingLabApproval,
		},
		{
			name:       "faculty skips the club tier even with a club ID",
			role:       model.RoleFaculty,
			clubID:     "64a000000000000000000010",
			wantStatus: model.StatusPendingLabApproval,
		},
		{
			name:       "admin skips the club tier even with a club ID",
			role:       model.RoleAdmin,
			clubID:     "64a000000000000000000010",
			wantStatus: model.StatusPendingLabApproval,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, clubStatus := InitialStatus(tt.role, tt.clubID)
			if status != tt.wantStatus {
				t.Errorf("status = %q, want %q", status, tt.wantStatus)
			}
			if clubStatus != tt.wantClub {
				t.Errorf("club approval status = %q, want %q", clubStatus, tt.wantClub)
			}
		})
	}
}

func TestTransition_TwoTierApprovalPath(t *testing.T) {
	now := time.Now().UTC()
	booking := &model.Booking{
		ID:     "64a000000000000000000001",
		Status: model.StatusPendingClubApproval,
	}
	clubIncharge := model.Actor{ID: "64a000000000000000000002", Role: model.RoleClubIncharge}
	labIncharge := model.Actor{ID: "64a000000000000000000003", Role: model.RoleLabIncharge}

	patch, err := Transition(booking, ActionApprove, clubIncharge, "", now)
	if err != nil {
		t.Fatalf("club tier approval failed: %v", err)
	}
	if patch.Status != model.StatusPendingLabApproval {
		t.Errorf("after club approval status = %q, want %q", patch.Status, model.StatusPendingLabApproval)
	}
	if patch.ClubApprovalStatus != model.ClubApprovalApproved {
		t.Errorf("club approval status = %q, want %q", patch.ClubApprovalStatus, model.ClubApprovalApproved)
	}
	if patch.ClubApprovedBy != clubIncharge.ID {
		t.Errorf("club approved by = %q, want %q", patch.ClubApprovedBy, clubIncharge.ID)
	}
	if patch.ClubApprovedAt == nil || !patch.ClubApprovedAt.Equal(now) {
		t.Errorf("club approved at = %v, want %v", patch.ClubApprovedAt, now)
	}
	if patch.LabApprovedBy != "" {
		t.Errorf("lab approver must not be stamped on the club tier, got %q", patch.LabApprovedBy)
	}

	booking.Status = patch.Status

	patch, err = Transition(booking, ActionApprove, labIncharge, "", now)
	if err != nil {
		t.Fatalf("lab tier approval failed: %v", err)
	}
	if patch.Status != model.StatusApproved {
		t.Errorf("after lab approval status = %q, want %q", patch.Status, model.StatusApproved)
	}
	if patch.LabApprovedBy != labIncharge.ID {
		t.Errorf("lab approved by = %q, want %q", patch.LabApprovedBy, labIncharge.ID)
	}
	if patch.LabApprovedAt == nil {
		t.Error("lab approved at must be stamped")
	}
}

func TestTransition_Rejections(t *testing.T) {
	now := time.Now().UTC()

	t.Run("club tier rejection stamps the reason", func(t *testing.T) {
		booking := &model.Booking{Status: model.StatusPendingClubApproval}
		actor := model.Actor{ID: "64a000000000000000000002", Role: model.RoleClubIncharge}

		patch, err := Transition(booking, ActionReject, actor, "Slot needed for club event", now)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if patch.Status != model.StatusRejectedByClub {
			t.Errorf("status = %q, want %q", patch.Status, model.StatusRejectedByClub)
		}
		if patch.ClubApprovalStatus != model.ClubApprovalRejected {
			t.Errorf("club approval status = %q, want %q", patch.ClubApprovalStatus, model.ClubApprovalRejected)
		}
		if patch.RejectionReason != "Slot needed for club event" {
			t.Errorf("rejection reason = %q", patch.RejectionReason)
		}
	})

	t.Run("lab tier rejection without a reason leaves it empty", func(t *testing.T) {
		booking := &model.Booking{Status: model.StatusPendingLabApproval}
		actor := model.Actor{ID: "64a000000000000000000003", Role: model.RoleLabIncharge}

		patch, err := Transition(booking, ActionReject, actor, "", now)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if patch.Status != model.StatusRejectedByLab {
			t.Errorf("status = %q, want %q", patch.Status, model.StatusRejectedByLab)
		}
		if patch.RejectionReason != "" {
			t.Errorf("rejection reason must be empty, got %q", patch.RejectionReason)
		}
	})

	t.Run("admin may reject on the lab tier", func(t *testing.T) {
		booking := &model.Booking{Status: model.StatusPendingLabApproval}
		actor := model.Actor{ID: "64a000000000000000000004", Role: model.RoleAdmin}

		patch, err := Transition(booking, ActionReject, actor, "Maintenance window", now)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if patch.Status != model.StatusRejectedByLab {
			t.Errorf("status = %q, want %q", patch.Status, model.StatusRejectedByLab)
		}
	})
}

func TestTransition_RoleGating(t *testing.T) {
	now := time.Now().UTC()
	tests := []struct {
		name   string
		status model.BookingStatus
		action Action
		role   model.Role
	}{
		{"club member cannot approve the club tier", model.StatusPendingClubApproval, ActionApprove, model.RoleClubMember},
		{"lab incharge cannot act on the club tier", model.StatusPendingClubApproval, ActionApprove, model.RoleLabIncharge},
		{"admin cannot act on the club tier", model.StatusPendingClubApproval, ActionApprove, model.RoleAdmin},
		{"club incharge cannot act on the lab tier", model.StatusPendingLabApproval, ActionApprove, model.RoleClubIncharge},
		{"faculty cannot approve anything", model.StatusPendingLabApproval, ActionApprove, model.RoleFaculty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			booking := &model.Booking{Status: tt.status}
			actor := model.Actor{ID: "64a000000000000000000005", Role: tt.role}

			_, err := Transition(booking, tt.action, actor, "", now)
			var ite *InvalidTransitionError
			if !errors.As(err, &ite) {
				t.Fatalf("expected InvalidTransitionError, got %v", err)
			}
			if ite.Current != tt.status || ite.Action != tt.action || ite.Role != tt.role {
				t.Errorf("error fields = %+v", ite)
			}
		})
	}
}

func TestTransition_TerminalStatusesAcceptNoActions(t *testing.T) {
	now := time.Now().UTC()
	terminal := []model.BookingStatus{
		model.StatusApproved,
		model.StatusRejectedByClub,
		model.StatusRejectedByLab,
		model.StatusCancelled,
	}
	actors := []model.Actor{
		{ID: "64a000000000000000000002", Role: model.RoleClubIncharge},
		{ID: "64a000000000000000000003", Role: model.RoleLabIncharge},
		{ID: "64a000000000000000000004", Role: model.RoleAdmin},
	}

	for _, status := range terminal {
		if !status.IsTerminal() {
			t.Errorf("%q must report terminal", status)
		}
		for _, actor := range actors {
			for _, action := range []Action{ActionApprove, ActionReject} {
				booking := &model.Booking{Status: status}
				if _, err := Transition(booking, action, actor, "", now); err == nil {
					t.Errorf("%s by %s on %q must fail", action, actor.Role, status)
				}
			}
		}
	}
}

func TestTransition_DoesNotMutateBooking(t *testing.T) {
	booking := &model.Booking{Status: model.StatusPendingLabApproval}
	actor := model.Actor{ID: "64a000000000000000000003", Role: model.RoleLabIncharge}

	if _, err := Transition(booking, ActionApprove, actor, "", time.Now().UTC()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if booking.Status != model.StatusPendingLabApproval {
		t.Errorf("booking mutated to %q", booking.Status)
	}
	if booking.LabApprovedBy != "" {
		t.Errorf("booking mutated: lab approved by set to %q", booking.LabApprovedBy)
	}
}

func TestActionValid(t *testing.T) {
	if !ActionApprove.Valid() || !ActionReject.Valid() {
		t.Error("approve and reject must be valid actions")
	}
	if Action("cancel").Valid() {
		t.Error("cancel is not a decision action")
	}
	if Action("").Valid() {
		t.Error("empty action must be invalid")
	}
}
