package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/skillgate/skillgate-api/internal/models"
	"github.com/skillgate/skillgate-api/internal/repository"
)

// completedSubject is the NATS subject completed evaluations are announced
// on for downstream consumers (dashboards, mailers).
const completedSubject = "skillgate.evaluation.completed"

// CompletionNotifier records a reviewer notification once a submission
// finishes evaluating.
type CompletionNotifier interface {
	// NotifyCompleted is best-effort: a missing student or course record, or
	// a broken broker, must never fail the pipeline run that triggered it.
	NotifyCompleted(ctx context.Context, result models.EvaluationResult)
}

type completionNotifier struct {
	students      repository.StudentRepository
	courses       repository.CourseRepository
	notifications repository.NotificationRepository
	nats          *nats.Conn
	sanitizer     *bluemonday.Policy
	logger        zerolog.Logger
}

// NewCompletionNotifier constructs a notifier. natsConn may be nil, in which
// case only the database record is written.
func NewCompletionNotifier(students repository.StudentRepository, courses repository.CourseRepository, notifications repository.NotificationRepository, natsConn *nats.Conn, logger zerolog.Logger) CompletionNotifier {
	return &completionNotifier{
		students:      students,
		courses:       courses,
		notifications: notifications,
		nats:          natsConn,
		sanitizer:     bluemonday.StrictPolicy(),
		logger:        logger.With().Str("component", "completion_notifier").Logger(),
	}
}

func (n *completionNotifier) NotifyCompleted(ctx context.Context, result models.EvaluationResult) {
	student, err := n.students.GetByID(ctx, result.StudentID)
	if err != nil {
		n.logger.Warn().Err(err).
			Str("student_id", result.StudentID).
			Msg("skipping reviewer notification, student not found")
		return
	}

	course, err := n.courses.GetByID(ctx, result.CourseID)
	if err != nil {
		n.logger.Warn().Err(err).
			Str("course_id", result.CourseID).
			Msg("skipping reviewer notification, course not found")
		return
	}

	var score float64
	if result.OverallVideoScore != nil {
		score = *result.OverallVideoScore
	}

	notification := models.ReviewerNotification{
		StudentID:   result.StudentID,
		CourseID:    result.CourseID,
		StudentName: n.sanitizer.Sanitize(student.DisplayName()),
		CourseTitle: n.sanitizer.Sanitize(course.Title),
		Score:       score,
		SkillGap:    result.SkillGap,
	}

	if err := n.notifications.Create(ctx, &notification); err != nil {
		n.logger.Error().Err(err).Msg("failed to persist reviewer notification")
		return
	}

	n.publish(result, notification)
}

func (n *completionNotifier) publish(result models.EvaluationResult, notification models.ReviewerNotification) {
	if n.nats == nil {
		return
	}

	payload, err := json.Marshal(map[string]interface{}{
		"studentId":         result.StudentID,
		"courseId":          result.CourseID,
		"studentName":       notification.StudentName,
		"courseTitle":       notification.CourseTitle,
		"overallVideoScore": notification.Score,
		"eligibilitySignal": result.EligibilitySignal,
		"skillGap":          []string(result.SkillGap),
		"completedAt":       time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		n.logger.Error().Err(err).Msg("failed to encode completion event")
		return
	}

	if err := n.nats.Publish(completedSubject, payload); err != nil {
		n.logger.Warn().Err(err).Msg("failed to publish completion event")
	}
}
