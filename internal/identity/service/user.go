package service

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/crypto/bcrypt"

	identityErrors "labbook/internal/identity/errors"
	"labbook/internal/identity/repository"
	"labbook/internal/identity/validator"
	apperrors "labbook/pkg/errors"
	"labbook/pkg/logger"
	"labbook/pkg/model"
)

type UserService interface {
	Register(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	List(ctx context.Context, limit int, offset int64) ([]*model.User, error)
	Update(ctx context.Context, id string, update *model.UserUpdate, actor model.Actor) error
	Delete(ctx context.Context, id string, actor model.Actor) error
}

type userService struct {
	repo      repository.UserRepository
	validator *validator.UserValidator
	log       *logger.Logger
}

func NewUserService(repo repository.UserRepository, v *validator.UserValidator, log *logger.Logger) UserService {
	return &userService{
		repo:      repo,
		validator: v,
		log:       log,
	}
}

func (s *userService) Register(ctx context.Context, user *model.User) error {
	if err := s.validator.ValidateRegistration(user); err != nil {
		return apperrors.Validation("User validation failed", map[string]any{"error": err.Error()})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return apperrors.Internal("Failed to hash password", err)
	}
	user.Password = string(hash)

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, identityErrors.ErrDuplicateEmail) {
			return apperrors.Conflict("Email is already registered")
		}
		return apperrors.Internal("Failed to create user", err)
	}

	s.log.Info("User registered", "id", user.ID, "role", user.Role)
	user.Password = ""
	return nil
}

func (s *userService) GetByID(ctx context.Context, id string) (*model.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, wrapUserError(err, id)
	}
	user.Password = ""
	return user, nil
}

func (s *userService) List(ctx context.Context, limit int, offset int64) ([]*model.User, error) {
	users, err := s.repo.FindAll(ctx, limit, offset)
	if err != nil {
		return nil, apperrors.Internal("Failed to list users", err)
	}
	for _, u := range users {
		u.Password = ""
	}
	return users, nil
}

func (s *userService) Update(ctx context.Context, id string, update *model.UserUpdate, actor model.Actor) error {
	if actor.Role != model.RoleAdmin && actor.ID != id {
		return apperrors.Forbidden("You can only update your own profile")
	}
	if err := s.validator.ValidateUpdate(update); err != nil {
		return apperrors.Validation("User validation failed", map[string]any{"error": err.Error()})
	}

	set := bson.M{}
	if update.Email != "" {
		set["email"] = update.Email
	}
	if update.Name != "" {
		set["name"] = update.Name
	}
	// Role and assignment changes are an admin concern.
	if actor.Role == model.RoleAdmin {
		if update.Role != "" {
			set["role"] = update.Role
		}
		if update.LabID != nil {
			set["lab_id"] = *update.LabID
		}
		if update.ClubID != nil {
			set["club_id"] = *update.ClubID
		}
	}
	if len(set) == 0 {
		return apperrors.InvalidInput("No fields to update")
	}

	if err := s.repo.Update(ctx, id, set); err != nil {
		if errors.Is(err, identityErrors.ErrDuplicateEmail) {
			return apperrors.Conflict("Email is already registered")
		}
		return wrapUserError(err, id)
	}
	return nil
}

func (s *userService) Delete(ctx context.Context, id string, actor model.Actor) error {
	if actor.Role != model.RoleAdmin {
		return apperrors.Forbidden("Only admins can delete users")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return wrapUserError(err, id)
	}
	s.log.Info("User deleted", "id", id, "actor_id", actor.ID)
	return nil
}

func wrapUserError(err error, id string) error {
	switch {
	case errors.Is(err, identityErrors.ErrNotFound):
		return apperrors.NotFoundWithID("User", id)
	case errors.Is(err, identityErrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid user ID format")
	default:
		return apperrors.Internal("User operation failed", err)
	}
}
