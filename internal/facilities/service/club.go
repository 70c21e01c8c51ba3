package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson"

	facilitiesErrors "labbook/internal/facilities/errors"
	"labbook/internal/facilities/repository"
	apperrors "labbook/pkg/errors"
	"labbook/pkg/logger"
	"labbook/pkg/model"
)

type ClubService interface {
	Create(ctx context.Context, club *model.Club, actor model.Actor) error
	GetByID(ctx context.Context, id string) (*model.Club, error)
	List(ctx context.Context) ([]*model.Club, error)
	Update(ctx context.Context, id string, update *model.ClubUpdate, actor model.Actor) error
	Delete(ctx context.Context, id string, actor model.Actor) error
	AddMember(ctx context.Context, clubID, userID string, actor model.Actor) error
	RemoveMember(ctx context.Context, clubID, userID string, actor model.Actor) error
}

type clubService struct {
	repo     repository.ClubRepository
	validate *validator.Validate
	log      *logger.Logger
}

func NewClubService(repo repository.ClubRepository, log *logger.Logger) ClubService {
	return &clubService{
		repo:     repo,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		log:      log,
	}
}

// canManageClub allows admins everywhere and the club incharge on their own club.
func (s *clubService) canManageClub(ctx context.Context, clubID string, actor model.Actor) error {
	if actor.Role == model.RoleAdmin {
		return nil
	}
	if actor.Role != model.RoleClubIncharge {
		return apperrors.Forbidden("Only admins or the club incharge can manage clubs")
	}
	club, err := s.repo.FindByID(ctx, clubID)
	if err != nil {
		return wrapClubError(err, clubID)
	}
	if club.ClubInchargeID != actor.ID {
		return apperrors.Forbidden("You are not the incharge of this club")
	}
	return nil
}

func (s *clubService) Create(ctx context.Context, club *model.Club, actor model.Actor) error {
	if actor.Role != model.RoleAdmin {
		return apperrors.Forbidden("Only admins can create clubs")
	}
	if err := s.validate.Struct(club); err != nil {
		return apperrors.Validation("Club validation failed", map[string]any{"error": translate(err)})
	}

	if err := s.repo.Create(ctx, club); err != nil {
		if errors.Is(err, facilitiesErrors.ErrDuplicateName) {
			return apperrors.Conflict("A club with this name already exists")
		}
		return apperrors.Internal("Failed to create club", err)
	}

	s.log.Info("Club created", "id", club.ID, "name", club.Name, "actor_id", actor.ID)
	return nil
}

func (s *clubService) GetByID(ctx context.Context, id string) (*model.Club, error) {
	club, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, wrapClubError(err, id)
	}
	return club, nil
}

func (s *clubService) List(ctx context.Context) ([]*model.Club, error) {
	clubs, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, apperrors.Internal("Failed to list clubs", err)
	}
	return clubs, nil
}

func (s *clubService) Update(ctx context.Context, id string, update *model.ClubUpdate, actor model.Actor) error {
	if err := s.canManageClub(ctx, id, actor); err != nil {
		return err
	}
	if err := s.validate.Struct(update); err != nil {
		return apperrors.Validation("Club validation failed", map[string]any{"error": translate(err)})
	}

	set := bson.M{}
	if update.Name != "" {
		set["name"] = update.Name
	}
	if update.Description != nil {
		set["description"] = *update.Description
	}
	// Reassigning the incharge is an admin concern.
	if update.ClubInchargeID != nil && actor.Role == model.RoleAdmin {
		set["club_incharge_id"] = *update.ClubInchargeID
	}
	if update.Members != nil {
		set["members"] = *update.Members
	}
	if len(set) == 0 {
		return apperrors.InvalidInput("No fields to update")
	}

	if err := s.repo.Update(ctx, id, set); err != nil {
		return wrapClubError(err, id)
	}
	return nil
}

func (s *clubService) Delete(ctx context.Context, id string, actor model.Actor) error {
	if actor.Role != model.RoleAdmin {
		return apperrors.Forbidden("Only admins can delete clubs")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return wrapClubError(err, id)
	}
	s.log.Info("Club deleted", "id", id, "actor_id", actor.ID)
	return nil
}

func (s *clubService) AddMember(ctx context.Context, clubID, userID string, actor model.Actor) error {
	if err := s.canManageClub(ctx, clubID, actor); err != nil {
		return err
	}

	club, err := s.repo.FindByID(ctx, clubID)
	if err != nil {
		return wrapClubError(err, clubID)
	}
	for _, m := range club.Members {
		if m == userID {
			return apperrors.Conflict("User is already a member of this club")
		}
	}

	members := append(club.Members, userID)
	if err := s.repo.Update(ctx, clubID, bson.M{"members": members}); err != nil {
		return wrapClubError(err, clubID)
	}
	return nil
}

func (s *clubService) RemoveMember(ctx context.Context, clubID, userID string, actor model.Actor) error {
	if err := s.canManageClub(ctx, clubID, actor); err != nil {
		return err
	}

	club, err := s.repo.FindByID(ctx, clubID)
	if err != nil {
		return wrapClubError(err, clubID)
	}

	members := make([]string, 0, len(club.Members))
	found := false
	for _, m := range club.Members {
		if m == userID {
			found = true
			continue
		}
		members = append(members, m)
	}
	if !found {
		return apperrors.NotFound("Club member")
	}

	if err := s.repo.Update(ctx, clubID, bson.M{"members": members}); err != nil {
		return wrapClubError(err, clubID)
	}
	return nil
}

func wrapClubError(err error, id string) error {
	switch {
	case errors.Is(err, facilitiesErrors.ErrClubNotFound):
		return apperrors.NotFoundWithID("Club", id)
	case errors.Is(err, facilitiesErrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid club ID format")
	default:
		return apperrors.Internal("Club operation failed", err)
	}
}
