package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"

	"golang.org/x/crypto/bcrypt"

	identityErrors "labbook/internal/identity/errors"
	"labbook/internal/identity/repository"
	"labbook/pkg/auth"
	"labbook/pkg/config"
	apperrors "labbook/pkg/errors"
	"labbook/pkg/kafka"
	"labbook/pkg/model"
)

const resetEventType = "password-reset-otp"

// LoginResult is the successful authentication payload.
type LoginResult struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// IntentPublisher hands delivery payloads to the messaging collaborator.
type IntentPublisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

type AuthService interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	RequestPasswordReset(ctx context.Context, email string) error
	VerifyOTP(ctx context.Context, email, code string) error
	ResetPassword(ctx context.Context, email, code, newPassword string) error
}

type authService struct {
	users     repository.UserRepository
	otps      repository.OTPStore
	publisher IntentPublisher
	cfg       *config.Config
}

func NewAuthService(
	users repository.UserRepository,
	otps repository.OTPStore,
	publisher IntentPublisher,
	cfg *config.Config,
) AuthService {
	return &authService{
		users:     users,
		otps:      otps,
		publisher: publisher,
		cfg:       cfg,
	}
}

func (s *authService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, identityErrors.ErrNotFound) {
			return nil, apperrors.Unauthorized("Invalid email or password")
		}
		return nil, apperrors.Internal("Login failed", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, apperrors.Unauthorized("Invalid email or password")
	}

	token, err := auth.IssueToken(s.cfg.JWTSecret, user.ID, user.Role, s.cfg.JWTTTL)
	if err != nil {
		return nil, apperrors.Internal("Failed to issue token", err)
	}

	s.cfg.Log.Info("User logged in", "id", user.ID, "role", user.Role)
	user.Password = ""
	return &LoginResult{Token: token, User: user}, nil
}

// RequestPasswordReset stores a short-lived code and hands it to the delivery
// collaborator. It reports success for unknown emails so the endpoint cannot
// be used to probe which addresses are registered.
func (s *authService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, identityErrors.ErrNotFound) {
			s.cfg.Log.Info("Password reset requested for unknown email")
			return nil
		}
		return apperrors.Internal("Password reset request failed", err)
	}

	code, err := generateOTP()
	if err != nil {
		return apperrors.Internal("Failed to generate verification code", err)
	}

	if err := s.otps.Set(ctx, email, code, s.cfg.OTPTTL); err != nil {
		return apperrors.Internal("Failed to store verification code", err)
	}

	payload := map[string]string{
		"user_id": user.ID,
		"email":   email,
		"code":    code,
		"ttl":     s.cfg.OTPTTL.String(),
	}
	msg, err := kafka.NewMessage(user.ID, resetEventType, "identity", payload)
	if err != nil {
		s.cfg.Log.Error("Failed to encode reset intent", "user_id", user.ID, "error", err)
		return nil
	}
	if err := s.publisher.Publish(ctx, msg); err != nil {
		s.cfg.Log.Error("Failed to publish reset intent", "user_id", user.ID, "error", err)
	}
	return nil
}

func (s *authService) VerifyOTP(ctx context.Context, email, code string) error {
	if err := s.otps.Verify(ctx, email, code); err != nil {
		return wrapOTPError(err)
	}
	return nil
}

func (s *authService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	if len(newPassword) < 6 {
		return apperrors.Validation("Password must be at least 6 characters", nil)
	}

	if err := s.otps.Verify(ctx, email, code); err != nil {
		return wrapOTPError(err)
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, identityErrors.ErrNotFound) {
			return apperrors.NotFound("User")
		}
		return apperrors.Internal("Password reset failed", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return apperrors.Internal("Failed to hash password", err)
	}

	if err := s.users.UpdatePassword(ctx, user.ID, string(hash)); err != nil {
		return apperrors.Internal("Failed to update password", err)
	}

	if err := s.otps.Delete(ctx, email); err != nil {
		s.cfg.Log.Warn("Failed to clear used verification code", "error", err)
	}

	s.cfg.Log.Info("Password reset completed", "id", user.ID)
	return nil
}

func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func wrapOTPError(err error) error {
	switch {
	case errors.Is(err, identityErrors.ErrOTPNotFound):
		return apperrors.InvalidInput("Verification code not found or expired")
	case errors.Is(err, identityErrors.ErrOTPMismatch):
		return apperrors.InvalidInput("Verification code is incorrect")
	default:
		return apperrors.Internal("Verification failed", err)
	}
}
