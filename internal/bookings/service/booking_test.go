package service

import (
	"context"
	"testing"

	bookingserrors "labbook/internal/bookings/errors"
	"labbook/internal/bookings/lifecycle"
	"labbook/internal/bookings/repository"
	"labbook/internal/bookings/validator"
	"labbook/pkg/config"
	apperrors "labbook/pkg/errors"
	"labbook/pkg/logger"
	"labbook/pkg/model"
)

const (
	labID       = "64a0000000000000000000aa"
	clubID      = "64a0000000000000000000bb"
	memberID    = "64a000000000000000000001"
	inchargeID  = "64a000000000000000000002"
	labInchID   = "64a000000000000000000003"
	adminID     = "64a000000000000000000004"
	bookingID   = "64a000000000000000000010"
	otherBookID = "64a000000000000000000011"
)

// Mock repository for testing
type mockBookingRepository struct {
	createFunc         func(ctx context.Context, booking *model.Booking) error
	findByIDFunc       func(ctx context.Context, id string) (*model.Booking, error)
	findByFilterFunc   func(ctx context.Context, filter repository.Filter) ([]*model.Booking, error)
	findActiveFunc     func(ctx context.Context, labID, date string) ([]*model.Booking, error)
	updateStatusFunc   func(ctx context.Context, id string, expected model.BookingStatus, patch model.StatusPatch) error
	deleteFunc         func(ctx context.Context, id string) error
	lastExpectedStatus model.BookingStatus
	lastPatch          model.StatusPatch
}

func (m *mockBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, booking)
	}
	booking.ID = bookingID
	return nil
}

func (m *mockBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, bookingserrors.ErrNotFound
}

func (m *mockBookingRepository) FindByFilter(ctx context.Context, filter repository.Filter) ([]*model.Booking, error) {
	if m.findByFilterFunc != nil {
		return m.findByFilterFunc(ctx, filter)
	}
	return []*model.Booking{}, nil
}

func (m *mockBookingRepository) FindActiveByLabAndDate(ctx context.Context, labID, date string) ([]*model.Booking, error) {
	if m.findActiveFunc != nil {
		return m.findActiveFunc(ctx, labID, date)
	}
	return []*model.Booking{}, nil
}

func (m *mockBookingRepository) UpdateStatus(ctx context.Context, id string, expected model.BookingStatus, patch model.StatusPatch) error {
	m.lastExpectedStatus = expected
	m.lastPatch = patch
	if m.updateStatusFunc != nil {
		return m.updateStatusFunc(ctx, id, expected, patch)
	}
	return nil
}

func (m *mockBookingRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

type mockUserDirectory struct {
	findByIDFunc func(ctx context.Context, id string) (*model.User, error)
}

func (m *mockUserDirectory) FindByID(ctx context.Context, id string) (*model.User, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return &model.User{ID: id, Role: model.RoleFaculty}, nil
}

type mockClubDirectory struct {
	findByInchargeIDFunc func(ctx context.Context, userID string) ([]*model.Club, error)
}

func (m *mockClubDirectory) FindByInchargeID(ctx context.Context, userID string) ([]*model.Club, error) {
	if m.findByInchargeIDFunc != nil {
		return m.findByInchargeIDFunc(ctx, userID)
	}
	return []*model.Club{}, nil
}

type mockNotifier struct {
	calls []notifierCall
}

type notifierCall struct {
	booking *model.Booking
	action  lifecycle.Action
	next    model.BookingStatus
}

func (m *mockNotifier) BookingTransition(ctx context.Context, booking *model.Booking, action lifecycle.Action, next model.BookingStatus) {
	m.calls = append(m.calls, notifierCall{booking: booking, action: action, next: next})
}

func newTestService(repo *mockBookingRepository, users *mockUserDirectory, clubs *mockClubDirectory, notifier *mockNotifier) BookingService {
	log := logger.New(logger.Config{Level: "error", Format: logger.JSON, Service: "test"})
	cfg := &config.Config{
		Log:             log,
		BookingDayStart: "08:00",
		BookingDayEnd:   "18:00",
	}
	v := validator.NewBookingValidator(log, cfg.BookingDayStart, cfg.BookingDayEnd)
	return NewBookingService(repo, users, clubs, notifier, v, cfg)
}

func validBooking() *model.Booking {
	return &model.Booking{
		LabID:   labID,
		UserID:  memberID,
		Date:    "2026-09-10",
		Start:   "10:00",
		End:     "11:00",
		Purpose: "Robotics practice session",
	}
}

func TestSubmit_ConflictOnOverlappingSlot(t *testing.T) {
	repo := &mockBookingRepository{
		findActiveFunc: func(ctx context.Context, labID, date string) ([]*model.Booking, error) {
			return []*model.Booking{
				{ID: otherBookID, Start: "10:30", End: "11:30", Status: model.StatusPendingLabApproval},
			}, nil
		},
	}
	svc := newTestService(repo, &mockUserDirectory{}, &mockClubDirectory{}, &mockNotifier{})

	err := svc.Submit(context.Background(), validBooking())
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeConflict {
		t.Fatalf("expected conflict error, got %v", err)
	}
}

func TestSubmit_AdjacentSlotsDoNotConflict(t *testing.T) {
	created := false
	repo := &mockBookingRepository{
		findActiveFunc: func(ctx context.Context, labID, date string) ([]*model.Booking, error) {
			return []*model.Booking{
				{ID: otherBookID, Start: "09:00", End: "10:00", Status: model.StatusApproved},
				{ID: "64a000000000000000000012", Start: "11:00", End: "12:00", Status: model.StatusApproved},
			}, nil
		},
		createFunc: func(ctx context.Context, booking *model.Booking) error {
			created = true
			return nil
		},
	}
	svc := newTestService(repo, &mockUserDirectory{}, &mockClubDirectory{}, &mockNotifier{})

	if err := svc.Submit(context.Background(), validBooking()); err != nil {
		t.Fatalf("adjacent slots must not conflict: %v", err)
	}
	if !created {
		t.Error("booking was not created")
	}
}

func TestSubmit_ClubMemberEntersClubTier(t *testing.T) {
	users := &mockUserDirectory{
		findByIDFunc: func(ctx context.Context, id string) (*model.User, error) {
			return &model.User{ID: id, Role: model.RoleClubMember, ClubID: clubID}, nil
		},
	}
	repo := &mockBookingRepository{}
	svc := newTestService(repo, users, &mockClubDirectory{}, &mockNotifier{})

	booking := validBooking()
	booking.ClubID = clubID
	if err := svc.Submit(context.Background(), booking); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if booking.Status != model.StatusPendingClubApproval {
		t.Errorf("status = %q, want %q", booking.Status, model.StatusPendingClubApproval)
	}
	if booking.ClubApprovalStatus != model.ClubApprovalPending {
		t.Errorf("club approval status = %q, want %q", booking.ClubApprovalStatus, model.ClubApprovalPending)
	}
}

func TestSubmit_FacultySkipsClubTier(t *testing.T) {
	repo := &mockBookingRepository{}
	svc := newTestService(repo, &mockUserDirectory{}, &mockClubDirectory{}, &mockNotifier{})

	booking := validBooking()
	if err := svc.Submit(context.Background(), booking); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if booking.Status != model.StatusPendingLabApproval {
		t.Errorf("status = %q, want %q", booking.Status, model.StatusPendingLabApproval)
	}
}

func TestSubmit_InvertedIntervalIsValidationNotConflict(t *testing.T) {
	svc := newTestService(&mockBookingRepository{}, &mockUserDirectory{}, &mockClubDirectory{}, &mockNotifier{})

	booking := validBooking()
	booking.Start = "11:00"
	booking.End = "10:00"
	err := svc.Submit(context.Background(), booking)
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDecide_ClubApprovalAdvancesToLabTier(t *testing.T) {
	stored := &model.Booking{
		ID:                 bookingID,
		LabID:              labID,
		UserID:             memberID,
		ClubID:             clubID,
		Date:               "2026-09-10",
		Start:              "10:00",
		End:                "11:00",
		Purpose:            "Robotics practice session",
		Status:             model.StatusPendingClubApproval,
		ClubApprovalStatus: model.ClubApprovalPending,
	}
	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			copy := *stored
			return &copy, nil
		},
	}
	notifier := &mockNotifier{}
	svc := newTestService(repo, &mockUserDirectory{}, &mockClubDirectory{}, notifier)

	actor := model.Actor{ID: inchargeID, Role: model.RoleClubIncharge}
	if err := svc.Decide(context.Background(), bookingID, actor, lifecycle.ActionApprove, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if repo.lastExpectedStatus != model.StatusPendingClubApproval {
		t.Errorf("conditional write expected prior status %q, got %q", model.StatusPendingClubApproval, repo.lastExpectedStatus)
	}
	if repo.lastPatch.Status != model.StatusPendingLabApproval {
		t.Errorf("patch status = %q, want %q", repo.lastPatch.Status, model.StatusPendingLabApproval)
	}
	if repo.lastPatch.ClubApprovedBy != inchargeID {
		t.Errorf("club approved by = %q, want %q", repo.lastPatch.ClubApprovedBy, inchargeID)
	}

	if len(notifier.calls) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(notifier.calls))
	}
	if notifier.calls[0].next != model.StatusPendingLabApproval {
		t.Errorf("notified next status = %q", notifier.calls[0].next)
	}
}

func TestDecide_StaleStatusSurfacesInvalidTransition(t *testing.T) {
	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return &model.Booking{ID: bookingID, Status: model.StatusPendingLabApproval}, nil
		},
		updateStatusFunc: func(ctx context.Context, id string, expected model.BookingStatus, patch model.StatusPatch) error {
			return bookingserrors.ErrStatusChanged
		},
	}
	notifier := &mockNotifier{}
	svc := newTestService(repo, &mockUserDirectory{}, &mockClubDirectory{}, notifier)

	actor := model.Actor{ID: labInchID, Role: model.RoleLabIncharge}
	err := svc.Decide(context.Background(), bookingID, actor, lifecycle.ActionApprove, "")
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeInvalidTransition {
		t.Fatalf("expected invalid transition error, got %v", err)
	}
	if len(notifier.calls) != 0 {
		t.Error("no notification may be sent for a failed transition")
	}
}

func TestDecide_ApprovalBlockedByApprovedOverlap(t *testing.T) {
	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return &model.Booking{
				ID:     bookingID,
				LabID:  labID,
				Date:   "2026-09-10",
				Start:  "10:00",
				End:    "11:00",
				Status: model.StatusPendingLabApproval,
			}, nil
		},
		findActiveFunc: func(ctx context.Context, labID, date string) ([]*model.Booking, error) {
			return []*model.Booking{
				{ID: otherBookID, Start: "10:00", End: "11:00", Status: model.StatusApproved},
			}, nil
		},
	}
	svc := newTestService(repo, &mockUserDirectory{}, &mockClubDirectory{}, &mockNotifier{})

	actor := model.Actor{ID: labInchID, Role: model.RoleLabIncharge}
	err := svc.Decide(context.Background(), bookingID, actor, lifecycle.ActionApprove, "")
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeConflict {
		t.Fatalf("expected conflict error, got %v", err)
	}
}

func TestDecide_CompetingPendingDoesNotBlockApproval(t *testing.T) {
	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return &model.Booking{
				ID:     bookingID,
				LabID:  labID,
				Date:   "2026-09-10",
				Start:  "10:00",
				End:    "11:00",
				Status: model.StatusPendingLabApproval,
			}, nil
		},
		findActiveFunc: func(ctx context.Context, labID, date string) ([]*model.Booking, error) {
			return []*model.Booking{
				{ID: otherBookID, Start: "10:00", End: "11:00", Status: model.StatusPendingLabApproval},
			}, nil
		},
	}
	svc := newTestService(repo, &mockUserDirectory{}, &mockClubDirectory{}, &mockNotifier{})

	actor := model.Actor{ID: labInchID, Role: model.RoleLabIncharge}
	if err := svc.Decide(context.Background(), bookingID, actor, lifecycle.ActionApprove, ""); err != nil {
		t.Fatalf("a competing pending booking must not block approval: %v", err)
	}
}

func TestDecide_RejectionReasonReachesNotifier(t *testing.T) {
	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return &model.Booking{ID: bookingID, Status: model.StatusPendingLabApproval}, nil
		},
	}
	notifier := &mockNotifier{}
	svc := newTestService(repo, &mockUserDirectory{}, &mockClubDirectory{}, notifier)

	actor := model.Actor{ID: labInchID, Role: model.RoleLabIncharge}
	if err := svc.Decide(context.Background(), bookingID, actor, lifecycle.ActionReject, "Equipment under repair"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(notifier.calls) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(notifier.calls))
	}
	if notifier.calls[0].booking.RejectionReason != "Equipment under repair" {
		t.Errorf("rejection reason = %q", notifier.calls[0].booking.RejectionReason)
	}
	if notifier.calls[0].next != model.StatusRejectedByLab {
		t.Errorf("notified next status = %q", notifier.calls[0].next)
	}
}

func TestDecideBatch_PartialSuccess(t *testing.T) {
	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			if id == otherBookID {
				return &model.Booking{ID: id, Status: model.StatusApproved}, nil
			}
			return &model.Booking{ID: id, Status: model.StatusPendingLabApproval}, nil
		},
	}
	svc := newTestService(repo, &mockUserDirectory{}, &mockClubDirectory{}, &mockNotifier{})

	actor := model.Actor{ID: labInchID, Role: model.RoleLabIncharge}
	result := svc.DecideBatch(context.Background(), []string{bookingID, otherBookID}, actor, lifecycle.ActionApprove, "")

	if result.Succeeded != 1 || result.Failed != 1 {
		t.Errorf("succeeded = %d, failed = %d, want 1 and 1", result.Succeeded, result.Failed)
	}
	if len(result.Errors) != 1 {
		t.Errorf("expected 1 error entry, got %d", len(result.Errors))
	}
}

func TestPendingForClubApprover_NoClubsYieldsEmptyQueue(t *testing.T) {
	svc := newTestService(&mockBookingRepository{}, &mockUserDirectory{}, &mockClubDirectory{}, &mockNotifier{})

	actor := model.Actor{ID: inchargeID, Role: model.RoleClubIncharge}
	queue, err := svc.PendingForClubApprover(context.Background(), actor)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(queue) != 0 {
		t.Errorf("expected empty queue, got %d entries", len(queue))
	}
}

func TestPendingForClubApprover_ScopedToManagedClubs(t *testing.T) {
	var gotFilter repository.Filter
	repo := &mockBookingRepository{
		findByFilterFunc: func(ctx context.Context, filter repository.Filter) ([]*model.Booking, error) {
			gotFilter = filter
			return []*model.Booking{{ID: bookingID}}, nil
		},
	}
	clubs := &mockClubDirectory{
		findByInchargeIDFunc: func(ctx context.Context, userID string) ([]*model.Club, error) {
			return []*model.Club{{ID: clubID}}, nil
		},
	}
	svc := newTestService(repo, &mockUserDirectory{}, clubs, &mockNotifier{})

	actor := model.Actor{ID: inchargeID, Role: model.RoleClubIncharge}
	queue, err := svc.PendingForClubApprover(context.Background(), actor)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(queue) != 1 {
		t.Errorf("expected 1 entry, got %d", len(queue))
	}
	if gotFilter.Status != model.StatusPendingClubApproval {
		t.Errorf("filter status = %q", gotFilter.Status)
	}
	if len(gotFilter.ClubIDs) != 1 || gotFilter.ClubIDs[0] != clubID {
		t.Errorf("filter club IDs = %v", gotFilter.ClubIDs)
	}
}

func TestPendingForLabApprover_Scoping(t *testing.T) {
	var gotFilter repository.Filter
	repo := &mockBookingRepository{
		findByFilterFunc: func(ctx context.Context, filter repository.Filter) ([]*model.Booking, error) {
			gotFilter = filter
			return []*model.Booking{}, nil
		},
	}

	t.Run("lab incharge is scoped to their lab", func(t *testing.T) {
		users := &mockUserDirectory{
			findByIDFunc: func(ctx context.Context, id string) (*model.User, error) {
				return &model.User{ID: id, Role: model.RoleLabIncharge, LabID: labID}, nil
			},
		}
		svc := newTestService(repo, users, &mockClubDirectory{}, &mockNotifier{})

		actor := model.Actor{ID: labInchID, Role: model.RoleLabIncharge}
		if _, err := svc.PendingForLabApprover(context.Background(), actor); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if gotFilter.LabID != labID {
			t.Errorf("filter lab ID = %q, want %q", gotFilter.LabID, labID)
		}
		if gotFilter.Status != model.StatusPendingLabApproval {
			t.Errorf("filter status = %q", gotFilter.Status)
		}
	})

	t.Run("admin sees the unscoped queue", func(t *testing.T) {
		users := &mockUserDirectory{
			findByIDFunc: func(ctx context.Context, id string) (*model.User, error) {
				return &model.User{ID: id, Role: model.RoleAdmin}, nil
			},
		}
		svc := newTestService(repo, users, &mockClubDirectory{}, &mockNotifier{})

		actor := model.Actor{ID: adminID, Role: model.RoleAdmin}
		if _, err := svc.PendingForLabApprover(context.Background(), actor); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if gotFilter.LabID != "" {
			t.Errorf("admin queue must be unscoped, got lab ID %q", gotFilter.LabID)
		}
	})

	t.Run("club member is forbidden", func(t *testing.T) {
		users := &mockUserDirectory{
			findByIDFunc: func(ctx context.Context, id string) (*model.User, error) {
				return &model.User{ID: id, Role: model.RoleClubMember}, nil
			},
		}
		svc := newTestService(repo, users, &mockClubDirectory{}, &mockNotifier{})

		actor := model.Actor{ID: memberID, Role: model.RoleClubMember}
		_, err := svc.PendingForLabApprover(context.Background(), actor)
		appErr := apperrors.AsAppError(err)
		if appErr == nil || appErr.Code != apperrors.CodeForbidden {
			t.Fatalf("expected forbidden error, got %v", err)
		}
	})
}

func TestCancel(t *testing.T) {
	t.Run("owner cancels a pending booking", func(t *testing.T) {
		repo := &mockBookingRepository{
			findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
				return &model.Booking{ID: bookingID, UserID: memberID, Status: model.StatusPendingLabApproval}, nil
			},
		}
		svc := newTestService(repo, &mockUserDirectory{}, &mockClubDirectory{}, &mockNotifier{})

		actor := model.Actor{ID: memberID, Role: model.RoleClubMember}
		if err := svc.Cancel(context.Background(), bookingID, actor); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if repo.lastPatch.Status != model.StatusCancelled {
			t.Errorf("patch status = %q, want %q", repo.lastPatch.Status, model.StatusCancelled)
		}
	})

	t.Run("non-owner is forbidden", func(t *testing.T) {
		repo := &mockBookingRepository{
			findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
				return &model.Booking{ID: bookingID, UserID: memberID, Status: model.StatusPendingLabApproval}, nil
			},
		}
		svc := newTestService(repo, &mockUserDirectory{}, &mockClubDirectory{}, &mockNotifier{})

		actor := model.Actor{ID: inchargeID, Role: model.RoleClubIncharge}
		err := svc.Cancel(context.Background(), bookingID, actor)
		appErr := apperrors.AsAppError(err)
		if appErr == nil || appErr.Code != apperrors.CodeForbidden {
			t.Fatalf("expected forbidden error, got %v", err)
		}
	})

	t.Run("finalized booking cannot be cancelled", func(t *testing.T) {
		repo := &mockBookingRepository{
			findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
				return &model.Booking{ID: bookingID, UserID: memberID, Status: model.StatusRejectedByLab}, nil
			},
		}
		svc := newTestService(repo, &mockUserDirectory{}, &mockClubDirectory{}, &mockNotifier{})

		actor := model.Actor{ID: memberID, Role: model.RoleClubMember}
		err := svc.Cancel(context.Background(), bookingID, actor)
		appErr := apperrors.AsAppError(err)
		if appErr == nil || appErr.Code != apperrors.CodeInvalidTransition {
			t.Fatalf("expected invalid transition error, got %v", err)
		}
	})
}
