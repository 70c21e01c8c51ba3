package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson"

	facilitiesErrors "labbook/internal/facilities/errors"
	"labbook/internal/facilities/repository"
	apperrors "labbook/pkg/errors"
	"labbook/pkg/logger"
	"labbook/pkg/model"
)

type LabService interface {
	Create(ctx context.Context, lab *model.Lab, actor model.Actor) error
	GetByID(ctx context.Context, id string) (*model.Lab, error)
	List(ctx context.Context, activeOnly bool) ([]*model.Lab, error)
	Update(ctx context.Context, id string, update *model.LabUpdate, actor model.Actor) error
	Delete(ctx context.Context, id string, actor model.Actor) error
}

type labService struct {
	repo     repository.LabRepository
	validate *validator.Validate
	log      *logger.Logger
}

func NewLabService(repo repository.LabRepository, log *logger.Logger) LabService {
	return &labService{
		repo:     repo,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		log:      log,
	}
}

func (s *labService) Create(ctx context.Context, lab *model.Lab, actor model.Actor) error {
	if actor.Role != model.RoleAdmin {
		return apperrors.Forbidden("Only admins can manage labs")
	}
	if err := s.validate.Struct(lab); err != nil {
		return apperrors.Validation("Lab validation failed", map[string]any{"error": translate(err)})
	}
	lab.IsActive = true

	if err := s.repo.Create(ctx, lab); err != nil {
		if errors.Is(err, facilitiesErrors.ErrDuplicateName) {
			return apperrors.Conflict("A lab with this name already exists")
		}
		return apperrors.Internal("Failed to create lab", err)
	}

	s.log.Info("Lab created", "id", lab.ID, "name", lab.Name, "actor_id", actor.ID)
	return nil
}

func (s *labService) GetByID(ctx context.Context, id string) (*model.Lab, error) {
	lab, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, wrapLabError(err, id)
	}
	return lab, nil
}

func (s *labService) List(ctx context.Context, activeOnly bool) ([]*model.Lab, error) {
	labs, err := s.repo.FindAll(ctx, activeOnly)
	if err != nil {
		return nil, apperrors.Internal("Failed to list labs", err)
	}
	return labs, nil
}

func (s *labService) Update(ctx context.Context, id string, update *model.LabUpdate, actor model.Actor) error {
	if actor.Role != model.RoleAdmin {
		return apperrors.Forbidden("Only admins can manage labs")
	}
	if err := s.validate.Struct(update); err != nil {
		return apperrors.Validation("Lab validation failed", map[string]any{"error": translate(err)})
	}

	set := bson.M{}
	if update.Name != "" {
		set["name"] = update.Name
	}
	if update.Capacity != nil {
		set["capacity"] = *update.Capacity
	}
	if update.Equipment != nil {
		set["equipment"] = *update.Equipment
	}
	if update.IsActive != nil {
		set["is_active"] = *update.IsActive
	}
	if len(set) == 0 {
		return apperrors.InvalidInput("No fields to update")
	}

	if err := s.repo.Update(ctx, id, set); err != nil {
		return wrapLabError(err, id)
	}
	return nil
}

func (s *labService) Delete(ctx context.Context, id string, actor model.Actor) error {
	if actor.Role != model.RoleAdmin {
		return apperrors.Forbidden("Only admins can manage labs")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return wrapLabError(err, id)
	}
	s.log.Info("Lab deleted", "id", id, "actor_id", actor.ID)
	return nil
}

func wrapLabError(err error, id string) error {
	switch {
	case errors.Is(err, facilitiesErrors.ErrLabNotFound):
		return apperrors.NotFoundWithID("Lab", id)
	case errors.Is(err, facilitiesErrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid lab ID format")
	default:
		return apperrors.Internal("Lab operation failed", err)
	}
}

func translate(err error) string {
	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}
	msgs := make([]string, 0, len(validationErrs))
	for _, fe := range validationErrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %s validation", strings.ToLower(fe.Field()), fe.Tag()))
	}
	return strings.Join(msgs, "; ")
}
