package service

import (
	"context"
	"regexp"

	"labbook/internal/analytics/repository"
	apperrors "labbook/pkg/errors"
	"labbook/pkg/logger"
	"labbook/pkg/model"
)

var dateRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Summary is the dashboard rollup over the queried range.
type Summary struct {
	Total        int64                    `json:"total"`
	ByStatus     []repository.StatusCount `json:"by_status"`
	ApprovalRate float64                  `json:"approval_rate"`
}

type AnalyticsService interface {
	Summary(ctx context.Context, from, to string) (*Summary, error)
	Trend(ctx context.Context, from, to string) ([]repository.DailyCount, error)
	LabUtilization(ctx context.Context, from, to string) ([]repository.LabUsage, error)
	ClubActivity(ctx context.Context, from, to string) ([]repository.ClubActivity, error)
}

type analyticsService struct {
	repo repository.AnalyticsRepository
	log  *logger.Logger
}

func NewAnalyticsService(repo repository.AnalyticsRepository, log *logger.Logger) AnalyticsService {
	return &analyticsService{
		repo: repo,
		log:  log,
	}
}

func validateRange(from, to string) error {
	if from != "" && !dateRegex.MatchString(from) {
		return apperrors.InvalidInput("from must be in YYYY-MM-DD format")
	}
	if to != "" && !dateRegex.MatchString(to) {
		return apperrors.InvalidInput("to must be in YYYY-MM-DD format")
	}
	if from != "" && to != "" && from > to {
		return apperrors.InvalidInput("from must not be after to")
	}
	return nil
}

func (s *analyticsService) Summary(ctx context.Context, from, to string) (*Summary, error) {
	if err := validateRange(from, to); err != nil {
		return nil, err
	}

	total, err := s.repo.TotalBookings(ctx, from, to)
	if err != nil {
		return nil, apperrors.Internal("Failed to compute summary", err)
	}

	byStatus, err := s.repo.CountByStatus(ctx, from, to)
	if err != nil {
		return nil, apperrors.Internal("Failed to compute summary", err)
	}

	var approved, decided int64
	for _, sc := range byStatus {
		switch sc.Status {
		case model.StatusApproved:
			approved += sc.Count
			decided += sc.Count
		case model.StatusRejectedByClub, model.StatusRejectedByLab:
			decided += sc.Count
		}
	}

	summary := &Summary{
		Total:    total,
		ByStatus: byStatus,
	}
	if decided > 0 {
		summary.ApprovalRate = float64(approved) / float64(decided)
	}
	return summary, nil
}

func (s *analyticsService) Trend(ctx context.Context, from, to string) ([]repository.DailyCount, error) {
	if err := validateRange(from, to); err != nil {
		return nil, err
	}
	trend, err := s.repo.CountByDay(ctx, from, to)
	if err != nil {
		return nil, apperrors.Internal("Failed to compute trend", err)
	}
	return trend, nil
}

func (s *analyticsService) LabUtilization(ctx context.Context, from, to string) ([]repository.LabUsage, error) {
	if err := validateRange(from, to); err != nil {
		return nil, err
	}
	usage, err := s.repo.LabUtilization(ctx, from, to)
	if err != nil {
		return nil, apperrors.Internal("Failed to compute lab utilization", err)
	}
	return usage, nil
}

func (s *analyticsService) ClubActivity(ctx context.Context, from, to string) ([]repository.ClubActivity, error) {
	if err := validateRange(from, to); err != nil {
		return nil, err
	}
	activity, err := s.repo.ClubActivity(ctx, from, to)
	if err != nil {
		return nil, apperrors.Internal("Failed to compute club activity", err)
	}
	return activity, nil
}
