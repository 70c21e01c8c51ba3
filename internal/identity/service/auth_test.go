package service

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/crypto/bcrypt"

	identityErrors "labbook/internal/identity/errors"
	"labbook/pkg/auth"
	"labbook/pkg/config"
	apperrors "labbook/pkg/errors"
	"labbook/pkg/kafka"
	"labbook/pkg/logger"
	"labbook/pkg/model"
)

type mockUserRepository struct {
	findByEmailFunc    func(ctx context.Context, email string) (*model.User, error)
	updatePasswordFunc func(ctx context.Context, id, passwordHash string) error
}

func (m *mockUserRepository) Create(ctx context.Context, user *model.User) error { return nil }

func (m *mockUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	return nil, identityErrors.ErrNotFound
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	if m.findByEmailFunc != nil {
		return m.findByEmailFunc(ctx, email)
	}
	return nil, identityErrors.ErrNotFound
}

func (m *mockUserRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.User, error) {
	return nil, nil
}

func (m *mockUserRepository) FindByRole(ctx context.Context, role model.Role) ([]*model.User, error) {
	return nil, nil
}

func (m *mockUserRepository) Update(ctx context.Context, id string, update bson.M) error {
	return nil
}

func (m *mockUserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	if m.updatePasswordFunc != nil {
		return m.updatePasswordFunc(ctx, id, passwordHash)
	}
	return nil
}

func (m *mockUserRepository) Delete(ctx context.Context, id string) error { return nil }

type mockOTPStore struct {
	setFunc    func(ctx context.Context, email, code string, ttl time.Duration) error
	verifyFunc func(ctx context.Context, email, code string) error
	deleted    []string
}

func (m *mockOTPStore) Set(ctx context.Context, email, code string, ttl time.Duration) error {
	if m.setFunc != nil {
		return m.setFunc(ctx, email, code, ttl)
	}
	return nil
}

func (m *mockOTPStore) Verify(ctx context.Context, email, code string) error {
	if m.verifyFunc != nil {
		return m.verifyFunc(ctx, email, code)
	}
	return identityErrors.ErrOTPNotFound
}

func (m *mockOTPStore) Delete(ctx context.Context, email string) error {
	m.deleted = append(m.deleted, email)
	return nil
}

type mockIntentPublisher struct {
	published []kafka.Message
}

func (m *mockIntentPublisher) Publish(ctx context.Context, msg kafka.Message) error {
	m.published = append(m.published, msg)
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		Log:       logger.New(logger.Config{Level: "error", Format: logger.JSON, Service: "test"}),
		JWTSecret: "test-secret",
		JWTTTL:    time.Hour,
		OTPTTL:    10 * time.Minute,
	}
}

func hashedUser(t *testing.T, password string) *model.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	return &model.User{
		ID:       "64a000000000000000000001",
		Email:    "incharge@example.edu",
		Password: string(hash),
		Name:     "Lab Incharge",
		Role:     model.RoleLabIncharge,
	}
}

func TestLogin_Success(t *testing.T) {
	cfg := testConfig()
	users := &mockUserRepository{
		findByEmailFunc: func(ctx context.Context, email string) (*model.User, error) {
			return hashedUser(t, "correct-horse"), nil
		},
	}
	svc := NewAuthService(users, &mockOTPStore{}, &mockIntentPublisher{}, cfg)

	result, err := svc.Login(context.Background(), "incharge@example.edu", "correct-horse")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.User.Password != "" {
		t.Error("password hash must not leave the service")
	}

	actor, err := auth.ParseToken(cfg.JWTSecret, result.Token)
	if err != nil {
		t.Fatalf("issued token does not parse: %v", err)
	}
	if actor.ID != result.User.ID || actor.Role != model.RoleLabIncharge {
		t.Errorf("token actor = %+v", actor)
	}
}

func TestLogin_RejectsBadCredentials(t *testing.T) {
	users := &mockUserRepository{
		findByEmailFunc: func(ctx context.Context, email string) (*model.User, error) {
			return hashedUser(t, "correct-horse"), nil
		},
	}
	svc := NewAuthService(users, &mockOTPStore{}, &mockIntentPublisher{}, testConfig())

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"wrong password", "incharge@example.edu", "wrong"},
		{"unknown email uses the same error", "nobody@example.edu", "correct-horse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users.findByEmailFunc = func(ctx context.Context, email string) (*model.User, error) {
				if email == "incharge@example.edu" {
					return hashedUser(t, "correct-horse"), nil
				}
				return nil, identityErrors.ErrNotFound
			}
			_, err := svc.Login(context.Background(), tt.email, tt.password)
			appErr := apperrors.AsAppError(err)
			if err == nil || appErr.Code != apperrors.CodeUnauthorized {
				t.Fatalf("expected unauthorized, got %v", err)
			}
		})
	}
}

func TestRequestPasswordReset_UnknownEmailIsSilent(t *testing.T) {
	publisher := &mockIntentPublisher{}
	svc := NewAuthService(&mockUserRepository{}, &mockOTPStore{}, publisher, testConfig())

	if err := svc.RequestPasswordReset(context.Background(), "nobody@example.edu"); err != nil {
		t.Fatalf("unknown email must not error: %v", err)
	}
	if len(publisher.published) != 0 {
		t.Error("no intent may be published for an unknown email")
	}
}

func TestRequestPasswordReset_StoresCodeAndPublishes(t *testing.T) {
	var storedCode string
	var storedTTL time.Duration
	otps := &mockOTPStore{
		setFunc: func(ctx context.Context, email, code string, ttl time.Duration) error {
			storedCode = code
			storedTTL = ttl
			return nil
		},
	}
	users := &mockUserRepository{
		findByEmailFunc: func(ctx context.Context, email string) (*model.User, error) {
			return hashedUser(t, "x"), nil
		},
	}
	publisher := &mockIntentPublisher{}
	svc := NewAuthService(users, otps, publisher, testConfig())

	if err := svc.RequestPasswordReset(context.Background(), "incharge@example.edu"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(storedCode) != 6 {
		t.Errorf("code %q is not six digits", storedCode)
	}
	if storedTTL != 10*time.Minute {
		t.Errorf("ttl = %s, want the configured window", storedTTL)
	}
	if len(publisher.published) != 1 {
		t.Fatalf("expected 1 published intent, got %d", len(publisher.published))
	}
}

func TestResetPassword_ConsumesCode(t *testing.T) {
	updated := false
	users := &mockUserRepository{
		findByEmailFunc: func(ctx context.Context, email string) (*model.User, error) {
			return hashedUser(t, "old-password"), nil
		},
		updatePasswordFunc: func(ctx context.Context, id, passwordHash string) error {
			updated = true
			if bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte("new-password")) != nil {
				t.Error("stored hash does not match the new password")
			}
			return nil
		},
	}
	otps := &mockOTPStore{
		verifyFunc: func(ctx context.Context, email, code string) error {
			if code != "123456" {
				return identityErrors.ErrOTPMismatch
			}
			return nil
		},
	}
	svc := NewAuthService(users, otps, &mockIntentPublisher{}, testConfig())

	if err := svc.ResetPassword(context.Background(), "incharge@example.edu", "123456", "new-password"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !updated {
		t.Error("password was not updated")
	}
	if len(otps.deleted) != 1 {
		t.Error("used code must be deleted")
	}
}

func TestResetPassword_WrongCode(t *testing.T) {
	users := &mockUserRepository{
		findByEmailFunc: func(ctx context.Context, email string) (*model.User, error) {
			return hashedUser(t, "old-password"), nil
		},
	}
	otps := &mockOTPStore{
		verifyFunc: func(ctx context.Context, email, code string) error {
			return identityErrors.ErrOTPMismatch
		},
	}
	svc := NewAuthService(users, otps, &mockIntentPublisher{}, testConfig())

	err := svc.ResetPassword(context.Background(), "incharge@example.edu", "000000", "new-password")
	appErr := apperrors.AsAppError(err)
	if err == nil || appErr.Code != apperrors.CodeInvalidInput {
		t.Fatalf("expected invalid input, got %v", err)
	}
}
