package service

import (
	"context"
	"testing"

	"labbook/internal/analytics/repository"
	apperrors "labbook/pkg/errors"
	"labbook/pkg/logger"
	"labbook/pkg/model"
)

type mockAnalyticsRepository struct {
	countByStatusFunc func(ctx context.Context, from, to string) ([]repository.StatusCount, error)
	totalFunc         func(ctx context.Context, from, to string) (int64, error)
}

func (m *mockAnalyticsRepository) CountByStatus(ctx context.Context, from, to string) ([]repository.StatusCount, error) {
	if m.countByStatusFunc != nil {
		return m.countByStatusFunc(ctx, from, to)
	}
	return []repository.StatusCount{}, nil
}

func (m *mockAnalyticsRepository) CountByDay(ctx context.Context, from, to string) ([]repository.DailyCount, error) {
	return []repository.DailyCount{}, nil
}

func (m *mockAnalyticsRepository) LabUtilization(ctx context.Context, from, to string) ([]repository.LabUsage, error) {
	return []repository.LabUsage{}, nil
}

func (m *mockAnalyticsRepository) ClubActivity(ctx context.Context, from, to string) ([]repository.ClubActivity, error) {
	return []repository.ClubActivity{}, nil
}

func (m *mockAnalyticsRepository) TotalBookings(ctx context.Context, from, to string) (int64, error) {
	if m.totalFunc != nil {
		return m.totalFunc(ctx, from, to)
	}
	return 0, nil
}

func newTestService(repo repository.AnalyticsRepository) AnalyticsService {
	log := logger.New(logger.Config{Level: "error", Format: logger.JSON, Service: "test"})
	return NewAnalyticsService(repo, log)
}

func TestSummary_ApprovalRate(t *testing.T) {
	repo := &mockAnalyticsRepository{
		totalFunc: func(ctx context.Context, from, to string) (int64, error) {
			return 10, nil
		},
		countByStatusFunc: func(ctx context.Context, from, to string) ([]repository.StatusCount, error) {
			return []repository.StatusCount{
				{Status: model.StatusApproved, Count: 6},
				{Status: model.StatusRejectedByLab, Count: 1},
				{Status: model.StatusRejectedByClub, Count: 1},
				{Status: model.StatusPendingLabApproval, Count: 2},
			}, nil
		},
	}
	svc := newTestService(repo)

	summary, err := svc.Summary(context.Background(), "2026-09-01", "2026-09-30")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.Total != 10 {
		t.Errorf("total = %d, want 10", summary.Total)
	}
	// 6 approved out of 8 decided; pending bookings do not count.
	if summary.ApprovalRate != 0.75 {
		t.Errorf("approval rate = %v, want 0.75", summary.ApprovalRate)
	}
}

func TestSummary_NoDecisionsMeansZeroRate(t *testing.T) {
	repo := &mockAnalyticsRepository{
		countByStatusFunc: func(ctx context.Context, from, to string) ([]repository.StatusCount, error) {
			return []repository.StatusCount{
				{Status: model.StatusPendingClubApproval, Count: 3},
			}, nil
		},
	}
	svc := newTestService(repo)

	summary, err := svc.Summary(context.Background(), "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.ApprovalRate != 0 {
		t.Errorf("approval rate = %v, want 0", summary.ApprovalRate)
	}
}

func TestValidateRange(t *testing.T) {
	svc := newTestService(&mockAnalyticsRepository{})

	tests := []struct {
		name string
		from string
		to   string
		ok   bool
	}{
		{"empty range", "", "", true},
		{"open start", "", "2026-09-30", true},
		{"valid range", "2026-09-01", "2026-09-30", true},
		{"malformed from", "01-09-2026", "", false},
		{"malformed to", "", "next week", false},
		{"inverted range", "2026-09-30", "2026-09-01", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Trend(context.Background(), tt.from, tt.to)
			if tt.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.ok {
				appErr := apperrors.AsAppError(err)
				if err == nil || appErr.Code != apperrors.CodeInvalidInput {
					t.Errorf("expected invalid input error, got %v", err)
				}
			}
		})
	}
}
