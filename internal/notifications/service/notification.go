package service

import (
	"context"
	"errors"

	notifErrors "labbook/internal/notifications/errors"
	"labbook/internal/notifications/repository"
	apperrors "labbook/pkg/errors"
	"labbook/pkg/logger"
	"labbook/pkg/model"
)

type NotificationService interface {
	List(ctx context.Context, userID string, limit, offset int) ([]*model.Notification, error)
	UnreadCount(ctx context.Context, userID string) (int64, error)
	MarkRead(ctx context.Context, id, userID string) error
	MarkAllRead(ctx context.Context, userID string) (int64, error)
	Delete(ctx context.Context, id, userID string) error
	Subscribe(ctx context.Context, sub *model.PushSubscription) error
	Unsubscribe(ctx context.Context, userID, endpoint string) error
}

type notificationService struct {
	repo repository.NotificationRepository
	subs repository.SubscriptionRepository
	log  *logger.Logger
}

func NewNotificationService(
	repo repository.NotificationRepository,
	subs repository.SubscriptionRepository,
	log *logger.Logger,
) NotificationService {
	return &notificationService{
		repo: repo,
		subs: subs,
		log:  log,
	}
}

func (s *notificationService) List(ctx context.Context, userID string, limit, offset int) ([]*model.Notification, error) {
	notifications, err := s.repo.FindByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, apperrors.Internal("Failed to list notifications", err)
	}
	return notifications, nil
}

func (s *notificationService) UnreadCount(ctx context.Context, userID string) (int64, error) {
	count, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return 0, apperrors.Internal("Failed to count unread notifications", err)
	}
	return count, nil
}

func (s *notificationService) MarkRead(ctx context.Context, id, userID string) error {
	if err := s.repo.MarkRead(ctx, id, userID); err != nil {
		return wrapError(err, id)
	}
	return nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	modified, err := s.repo.MarkAllRead(ctx, userID)
	if err != nil {
		return 0, apperrors.Internal("Failed to mark notifications read", err)
	}
	return modified, nil
}

func (s *notificationService) Delete(ctx context.Context, id, userID string) error {
	if err := s.repo.Delete(ctx, id, userID); err != nil {
		return wrapError(err, id)
	}
	return nil
}

func (s *notificationService) Subscribe(ctx context.Context, sub *model.PushSubscription) error {
	if sub.Endpoint == "" || sub.P256DH == "" || sub.Auth == "" {
		return apperrors.Validation("Subscription endpoint and keys are required", nil)
	}
	if err := s.subs.Upsert(ctx, sub); err != nil {
		return apperrors.Internal("Failed to register subscription", err)
	}
	s.log.Info("Push subscription registered", "user_id", sub.UserID)
	return nil
}

func (s *notificationService) Unsubscribe(ctx context.Context, userID, endpoint string) error {
	if endpoint == "" {
		return apperrors.Validation("Subscription endpoint is required", nil)
	}
	if err := s.subs.DeleteByEndpoint(ctx, userID, endpoint); err != nil {
		if errors.Is(err, notifErrors.ErrNotFound) {
			return apperrors.NotFound("Subscription not found")
		}
		return apperrors.Internal("Failed to remove subscription", err)
	}
	return nil
}

func wrapError(err error, id string) error {
	switch {
	case errors.Is(err, notifErrors.ErrNotFound):
		return apperrors.NotFoundWithID("Notification", id)
	case errors.Is(err, notifErrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid notification ID: " + id)
	default:
		return apperrors.Internal("Notification operation failed", err)
	}
}
