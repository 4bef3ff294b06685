package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/skillgate/skillgate-api/internal/models"
)

// QuestionRepository defines data operations for generated question sets.
type QuestionRepository interface {
	GetVideoQuestions(ctx context.Context, courseID string) (models.VideoQuestionSet, error)
	UpsertVideoQuestions(ctx context.Context, set *models.VideoQuestionSet) error
	GetMCQs(ctx context.Context, courseID string) (models.MCQSet, error)
	UpsertMCQs(ctx context.Context, set *models.MCQSet) error
}

type questionRepository struct {
	db *gorm.DB
}

// NewQuestionRepository instantiates the repository.
func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) GetVideoQuestions(ctx context.Context, courseID string) (models.VideoQuestionSet, error) {
	var set models.VideoQuestionSet
	if err := r.db.WithContext(ctx).First(&set, "course_id = ?", courseID).Error; err != nil {
		return models.VideoQuestionSet{}, err
	}

	return set, nil
}

func (r *questionRepository) UpsertVideoQuestions(ctx context.Context, set *models.VideoQuestionSet) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "course_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"course_title", "questions", "updated_at"}),
		}).
		Create(set).Error
}

func (r *questionRepository) GetMCQs(ctx context.Context, courseID string) (models.MCQSet, error) {
	var set models.MCQSet
	if err := r.db.WithContext(ctx).First(&set, "course_id = ?", courseID).Error; err != nil {
		return models.MCQSet{}, err
	}

	return set, nil
}

func (r *questionRepository) UpsertMCQs(ctx context.Context, set *models.MCQSet) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "course_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"course_title", "questions"}),
		}).
		Create(set).Error
}
