package repository

import (
	"context"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/skillgate/skillgate-api/internal/models"
)

// ResultAggregate carries the finalized aggregate fields persisted when an
// evaluation completes.
type ResultAggregate struct {
	OverallVideoScore float64
	SkillGap          []string
	EligibilitySignal string
	ExecutiveSummary  string
	OverallReasoning  string
	EvaluatedAt       time.Time
}

// ResultRepository defines persistence for evaluation results. A student may
// accumulate several attempt records per course over time; lookups always
// resolve the most recent one.
type ResultRepository interface {
	Create(ctx context.Context, result *models.EvaluationResult) error
	GetLatest(ctx context.Context, studentID, courseID string) (models.EvaluationResult, error)
	List(ctx context.Context, limit, offset int) ([]models.EvaluationResult, error)
	SetMCQScore(ctx context.Context, id uint, score float64) error
	// SetVideoAnswers replaces the answer list and status in one update. The
	// orchestrator uses it to record upload refs (pending) and transcripts
	// (transcribed).
	SetVideoAnswers(ctx context.Context, id uint, answers []models.VideoAnswer, status string) error
	// SaveAnalyses persists the judged answer list without touching status.
	SaveAnalyses(ctx context.Context, id uint, answers []models.VideoAnswer) error
	// Finalize writes the aggregate fields and moves the record to completed,
	// guarded on the expected current status. It reports false when the guard
	// did not match, which signals a concurrent writer won the transition.
	Finalize(ctx context.Context, id uint, expectedStatus string, agg ResultAggregate) (bool, error)
	// ClearAggregates resets a record to transcribed ahead of a manual
	// re-analysis, dropping per-answer analyses and aggregate fields.
	ClearAggregates(ctx context.Context, id uint) error
}

type resultRepository struct {
	db *gorm.DB
}

// NewResultRepository instantiates the repository.
func NewResultRepository(db *gorm.DB) ResultRepository {
	return &resultRepository{db: db}
}

func (r *resultRepository) Create(ctx context.Context, result *models.EvaluationResult) error {
	return r.db.WithContext(ctx).Create(result).Error
}

func (r *resultRepository) GetLatest(ctx context.Context, studentID, courseID string) (models.EvaluationResult, error) {
	var result models.EvaluationResult
	if err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Where("course_id = ?", courseID).
		Order("created_at DESC").
		First(&result).Error; err != nil {
		return models.EvaluationResult{}, err
	}

	return result, nil
}

func (r *resultRepository) List(ctx context.Context, limit, offset int) ([]models.EvaluationResult, error) {
	if limit <= 0 {
		limit = 50
	}

	var results []models.EvaluationResult
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&results).Error; err != nil {
		return nil, err
	}

	return results, nil
}

func (r *resultRepository) SetMCQScore(ctx context.Context, id uint, score float64) error {
	return r.db.WithContext(ctx).
		Model(&models.EvaluationResult{}).
		Where("id = ?", id).
		Update("mcq_score", score).Error
}

func (r *resultRepository) SetVideoAnswers(ctx context.Context, id uint, answers []models.VideoAnswer, status string) error {
	return r.db.WithContext(ctx).
		Model(&models.EvaluationResult{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"video_answers":     toJSONAnswers(answers),
			"evaluation_status": status,
		}).Error
}

func (r *resultRepository) SaveAnalyses(ctx context.Context, id uint, answers []models.VideoAnswer) error {
	return r.db.WithContext(ctx).
		Model(&models.EvaluationResult{}).
		Where("id = ?", id).
		Update("video_answers", toJSONAnswers(answers)).Error
}

func (r *resultRepository) Finalize(ctx context.Context, id uint, expectedStatus string, agg ResultAggregate) (bool, error) {
	tx := r.db.WithContext(ctx).
		Model(&models.EvaluationResult{}).
		Where("id = ?", id).
		Where("evaluation_status = ?", expectedStatus).
		Updates(map[string]interface{}{
			"overall_video_score": agg.OverallVideoScore,
			"skill_gap":           toJSONStrings(agg.SkillGap),
			"eligibility_signal":  agg.EligibilitySignal,
			"executive_summary":   agg.ExecutiveSummary,
			"overall_reasoning":   agg.OverallReasoning,
			"evaluated_at":        agg.EvaluatedAt,
			"evaluation_status":   models.EvaluationStatusCompleted,
		})
	if tx.Error != nil {
		return false, tx.Error
	}

	return tx.RowsAffected > 0, nil
}

func (r *resultRepository) ClearAggregates(ctx context.Context, id uint) error {
	var result models.EvaluationResult
	if err := r.db.WithContext(ctx).First(&result, id).Error; err != nil {
		return err
	}

	answers := []models.VideoAnswer(result.VideoAnswers)
	for i := range answers {
		answers[i].Analysis = nil
		answers[i].RelatedSkill = ""
	}

	return r.db.WithContext(ctx).
		Model(&models.EvaluationResult{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"video_answers":       toJSONAnswers(answers),
			"overall_video_score": nil,
			"skill_gap":           nil,
			"eligibility_signal":  "",
			"executive_summary":   "",
			"overall_reasoning":   "",
			"evaluated_at":        nil,
			"evaluation_status":   models.EvaluationStatusTranscribed,
		}).Error
}

func toJSONAnswers(answers []models.VideoAnswer) datatypes.JSONSlice[models.VideoAnswer] {
	if answers == nil {
		answers = []models.VideoAnswer{}
	}
	return datatypes.NewJSONSlice(answers)
}

func toJSONStrings(values []string) datatypes.JSONSlice[string] {
	if values == nil {
		values = []string{}
	}
	return datatypes.NewJSONSlice(values)
}
