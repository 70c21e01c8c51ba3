package service

import (
	"context"
	"errors"
	"time"

	bookingserrors "labbook/internal/bookings/errors"
	"labbook/internal/bookings/lifecycle"
	"labbook/internal/bookings/repository"
	"labbook/internal/bookings/validator"
	"labbook/pkg/config"
	apperrors "labbook/pkg/errors"
	"labbook/pkg/model"
)

// UserDirectory is the narrow slice of the identity service the booking core
// needs: resolving a user ID to its role and lab assignment.
type UserDirectory interface {
	FindByID(ctx context.Context, id string) (*model.User, error)
}

// ClubDirectory resolves which clubs an approver is incharge of.
type ClubDirectory interface {
	FindByInchargeID(ctx context.Context, userID string) ([]*model.Club, error)
}

// Notifier receives lifecycle transitions after they are durably committed.
// Implementations are best-effort: they log their own failures and never
// propagate them back into the transition.
type Notifier interface {
	BookingTransition(ctx context.Context, booking *model.Booking, action lifecycle.Action, next model.BookingStatus)
}

// BatchResult reports a batch decision. Items are independent transitions;
// partial success is expected and nothing is rolled back.
type BatchResult struct {
	Succeeded int      `json:"succeeded"`
	Failed    int      `json:"failed"`
	Errors    []string `json:"errors,omitempty"`
}

type BookingService interface {
	Submit(ctx context.Context, booking *model.Booking) error
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	List(ctx context.Context, filter repository.Filter) ([]*model.Booking, error)
	LabSchedule(ctx context.Context, labID, date string) ([]*model.Booking, error)
	Decide(ctx context.Context, bookingID string, actor model.Actor, action lifecycle.Action, rejectionReason string) error
	DecideBatch(ctx context.Context, bookingIDs []string, actor model.Actor, action lifecycle.Action, rejectionReason string) BatchResult
	PendingForClubApprover(ctx context.Context, actor model.Actor) ([]*model.Booking, error)
	PendingForLabApprover(ctx context.Context, actor model.Actor) ([]*model.Booking, error)
	Cancel(ctx context.Context, bookingID string, actor model.Actor) error
	Delete(ctx context.Context, bookingID string, actor model.Actor) error
}

type bookingService struct {
	repo      repository.BookingRepository
	users     UserDirectory
	clubs     ClubDirectory
	notifier  Notifier
	validator *validator.BookingValidator
	cfg       *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	users UserDirectory,
	clubs ClubDirectory,
	notifier Notifier,
	validator *validator.BookingValidator,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:      repo,
		users:     users,
		clubs:     clubs,
		notifier:  notifier,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *bookingService) Submit(ctx context.Context, booking *model.Booking) error {
	if err := s.validator.ValidateSubmission(booking); err != nil {
		s.cfg.Log.Warn("Booking submission validation failed", "error", err)
		return apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
	}

	submitter, err := s.users.FindByID(ctx, booking.UserID)
	if err != nil {
		return apperrors.NotFoundWithID("User", booking.UserID)
	}

	conflict, err := s.hasConflict(ctx, booking.LabID, booking.Date, booking.Start, booking.End, "")
	if err != nil {
		return err
	}
	if conflict {
		return apperrors.Conflict("Time slot already booked")
	}

	booking.Status, booking.ClubApprovalStatus = lifecycle.InitialStatus(submitter.Role, booking.ClubID)

	if err := s.repo.Create(ctx, booking); err != nil {
		s.cfg.Log.Error("Failed to create booking", "error", err)
		return apperrors.Internal("Failed to create booking", err)
	}

	s.cfg.Log.Info("Booking submitted",
		"id", booking.ID,
		"lab_id", booking.LabID,
		"user_id", booking.UserID,
		"date", booking.Date,
		"status", booking.Status,
	)
	return nil
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.wrapLookupError(err, id)
	}
	return booking, nil
}

func (s *bookingService) List(ctx context.Context, filter repository.Filter) ([]*model.Booking, error) {
	bookings, err := s.repo.FindByFilter(ctx, filter)
	if err != nil {
		s.cfg.Log.Error("Failed to list bookings", "error", err)
		return nil, apperrors.Internal("Failed to retrieve bookings", err)
	}
	return bookings, nil
}

func (s *bookingService) LabSchedule(ctx context.Context, labID, date string) ([]*model.Booking, error) {
	if labID == "" {
		return nil, apperrors.InvalidInput("Lab ID cannot be empty")
	}
	return s.List(ctx, repository.Filter{LabID: labID, Date: date})
}

// Decide applies one approval action to one booking. Current state is always
// re-fetched here; a caller-supplied idea of the state is never trusted. The
// write itself is conditional on the state just read, so a concurrent
// transition surfaces as an invalid-transition error, not a double apply.
func (s *bookingService) Decide(ctx context.Context, bookingID string, actor model.Actor, action lifecycle.Action, rejectionReason string) error {
	if !action.Valid() {
		return apperrors.InvalidInput("Action must be approve or reject")
	}

	booking, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return s.wrapLookupError(err, bookingID)
	}

	patch, err := lifecycle.Transition(booking, action, actor, rejectionReason, time.Now().UTC())
	if err != nil {
		var ite *lifecycle.InvalidTransitionError
		if errors.As(err, &ite) {
			return invalidTransition(ite)
		}
		return apperrors.Internal("Failed to compute transition", err)
	}

	if patch.Status == model.StatusApproved {
		conflict, err := s.hasApprovedConflict(ctx, booking)
		if err != nil {
			return err
		}
		if conflict {
			return apperrors.Conflict("Cannot approve: an overlapping booking is already approved for this slot")
		}
	}

	if err := s.repo.UpdateStatus(ctx, bookingID, booking.Status, patch); err != nil {
		switch {
		case errors.Is(err, bookingserrors.ErrStatusChanged):
			// Lost the race. Re-read so the caller sees the true state.
			current, readErr := s.repo.FindByID(ctx, bookingID)
			details := map[string]any{"expected_status": booking.Status}
			if readErr == nil {
				details["current_status"] = current.Status
			}
			return apperrors.InvalidTransition("Invalid approval/rejection action for current status", details)
		case errors.Is(err, bookingserrors.ErrNotFound):
			return apperrors.NotFoundWithID("Booking", bookingID)
		default:
			s.cfg.Log.Error("Failed to update booking status", "id", bookingID, "error", err)
			return apperrors.Internal("Failed to update booking status", err)
		}
	}

	s.cfg.Log.Info("Booking transition applied",
		"id", bookingID,
		"action", action,
		"from", booking.Status,
		"to", patch.Status,
		"actor_id", actor.ID,
		"actor_role", actor.Role,
	)

	// The transition is committed; notification is best-effort from here.
	booking.RejectionReason = patch.RejectionReason
	s.notifier.BookingTransition(ctx, booking, action, patch.Status)
	return nil
}

func (s *bookingService) DecideBatch(ctx context.Context, bookingIDs []string, actor model.Actor, action lifecycle.Action, rejectionReason string) BatchResult {
	var result BatchResult
	for _, id := range bookingIDs {
		if err := s.Decide(ctx, id, actor, action, rejectionReason); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, id+": "+apperrors.AsAppError(err).Message)
			continue
		}
		result.Succeeded++
	}
	return result
}

// PendingForClubApprover returns the club-tier queue: pending bookings of
// every club the actor is incharge of. Managing zero clubs yields an empty
// queue, not an error.
func (s *bookingService) PendingForClubApprover(ctx context.Context, actor model.Actor) ([]*model.Booking, error) {
	clubs, err := s.clubs.FindByInchargeID(ctx, actor.ID)
	if err != nil {
		s.cfg.Log.Error("Failed to resolve clubs for approver", "actor_id", actor.ID, "error", err)
		return nil, apperrors.Internal("Failed to resolve approval queue", err)
	}

	if len(clubs) == 0 {
		return []*model.Booking{}, nil
	}

	clubIDs := make([]string, 0, len(clubs))
	for _, club := range clubs {
		clubIDs = append(clubIDs, club.ID)
	}

	return s.List(ctx, repository.Filter{
		ClubIDs: clubIDs,
		Status:  model.StatusPendingClubApproval,
	})
}

// PendingForLabApprover returns the lab-tier queue. Admins see every pending
// booking; a lab incharge is scoped to their assigned lab. An incharge with
// no assignment falls back to the unscoped queue, intentional but wide
// enough to warrant a log line every time.
func (s *bookingService) PendingForLabApprover(ctx context.Context, actor model.Actor) ([]*model.Booking, error) {
	approver, err := s.users.FindByID(ctx, actor.ID)
	if err != nil {
		return nil, apperrors.NotFoundWithID("User", actor.ID)
	}

	if !approver.Role.CanApproveLabTier() {
		return nil, apperrors.Forbidden("Only lab incharges and admins may view the lab approval queue")
	}

	filter := repository.Filter{Status: model.StatusPendingLabApproval}
	if approver.Role == model.RoleLabIncharge {
		if approver.LabID != "" {
			filter.LabID = approver.LabID
		} else {
			s.cfg.Log.Warn("Lab incharge has no lab assignment; returning unscoped pending queue",
				"actor_id", actor.ID,
			)
		}
	}

	return s.List(ctx, filter)
}

// Cancel is the submitter vacating their own slot. It is a lifecycle status,
// not a deletion, and only legal while the booking is still pending or
// approved-but-owned by the caller.
func (s *bookingService) Cancel(ctx context.Context, bookingID string, actor model.Actor) error {
	booking, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return s.wrapLookupError(err, bookingID)
	}

	if booking.UserID != actor.ID && actor.Role != model.RoleAdmin {
		return apperrors.Forbidden("Only the booking owner may cancel it")
	}

	if booking.Status.IsTerminal() {
		return apperrors.InvalidTransition("Booking is already finalized", map[string]any{
			"current_status": booking.Status,
		})
	}

	patch := model.StatusPatch{
		Status:    model.StatusCancelled,
		UpdatedAt: time.Now().UTC(),
	}
	if err := s.repo.UpdateStatus(ctx, bookingID, booking.Status, patch); err != nil {
		if errors.Is(err, bookingserrors.ErrStatusChanged) {
			return apperrors.InvalidTransition("Booking status changed, refresh and retry", nil)
		}
		return s.wrapLookupError(err, bookingID)
	}

	s.cfg.Log.Info("Booking cancelled", "id", bookingID, "actor_id", actor.ID)
	return nil
}

func (s *bookingService) Delete(ctx context.Context, bookingID string, actor model.Actor) error {
	booking, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return s.wrapLookupError(err, bookingID)
	}

	if booking.UserID != actor.ID && actor.Role != model.RoleAdmin {
		return apperrors.Forbidden("Only the booking owner may delete it")
	}

	if err := s.repo.Delete(ctx, bookingID); err != nil {
		return s.wrapLookupError(err, bookingID)
	}

	s.cfg.Log.Info("Booking deleted", "id", bookingID, "actor_id", actor.ID)
	return nil
}

func (s *bookingService) wrapLookupError(err error, id string) error {
	switch {
	case errors.Is(err, bookingserrors.ErrNotFound):
		return apperrors.NotFoundWithID("Booking", id)
	case errors.Is(err, bookingserrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid booking ID format")
	default:
		s.cfg.Log.Error("Booking lookup failed", "id", id, "error", err)
		return apperrors.Internal("Failed to retrieve booking", err)
	}
}

func invalidTransition(ite *lifecycle.InvalidTransitionError) error {
	return apperrors.InvalidTransition("Invalid approval/rejection action for current status", map[string]any{
		"current_status": ite.Current,
		"action":         ite.Action,
		"actor_role":     ite.Role,
	})
}
