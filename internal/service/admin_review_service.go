package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/skillgate/skillgate-api/internal/dto"
	"github.com/skillgate/skillgate-api/internal/repository"
)

// ErrNotificationNotFound indicates the notification does not exist.
var ErrNotificationNotFound = errors.New("notification not found")

// AdminReviewService exposes the reviewer-facing surface: recent results and
// completion notifications.
type AdminReviewService interface {
	ListResults(ctx context.Context, limit, offset int) ([]dto.EvaluationReportResponse, error)
	ListNotifications(ctx context.Context, limit, offset int) ([]dto.NotificationResponse, error)
	MarkNotificationRead(ctx context.Context, id uint) (dto.NotificationResponse, error)
}

type adminReviewService struct {
	results       repository.ResultRepository
	notifications repository.NotificationRepository
	logger        zerolog.Logger
}

// NewAdminReviewService constructs the reviewer service.
func NewAdminReviewService(results repository.ResultRepository, notifications repository.NotificationRepository, logger zerolog.Logger) AdminReviewService {
	return &adminReviewService{
		results:       results,
		notifications: notifications,
		logger:        logger.With().Str("component", "admin_review_service").Logger(),
	}
}

func (s *adminReviewService) ListResults(ctx context.Context, limit, offset int) ([]dto.EvaluationReportResponse, error) {
	results, err := s.results.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}

	reports := make([]dto.EvaluationReportResponse, 0, len(results))
	for _, result := range results {
		reports = append(reports, dto.NewEvaluationReport(result))
	}

	return reports, nil
}

func (s *adminReviewService) ListNotifications(ctx context.Context, limit, offset int) ([]dto.NotificationResponse, error) {
	notifications, err := s.notifications.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.NotificationResponse, 0, len(notifications))
	for _, notification := range notifications {
		responses = append(responses, dto.NewNotificationResponse(notification))
	}

	return responses, nil
}

func (s *adminReviewService) MarkNotificationRead(ctx context.Context, id uint) (dto.NotificationResponse, error) {
	notification, err := s.notifications.MarkRead(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.NotificationResponse{}, ErrNotificationNotFound
		}
		return dto.NotificationResponse{}, err
	}

	return dto.NewNotificationResponse(notification), nil
}
