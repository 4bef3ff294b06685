package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/skillgate/skillgate-api/internal/models"
	"github.com/skillgate/skillgate-api/internal/observability"
	"github.com/skillgate/skillgate-api/pkg/ai"
)

// AnswerJudge scores one transcribed answer.
type AnswerJudge interface {
	// Judge is total: when the evaluator fails it returns a degraded
	// analysis with zero scores and retry guidance instead of an error.
	Judge(ctx context.Context, input ai.AnswerInput) models.AnswerAnalysis
}

type answerJudge struct {
	evaluator ai.Evaluator
	logger    zerolog.Logger
}

// NewAnswerJudge constructs an answer judge backed by a generative evaluator.
func NewAnswerJudge(evaluator ai.Evaluator, logger zerolog.Logger) AnswerJudge {
	return &answerJudge{
		evaluator: evaluator,
		logger:    logger.With().Str("component", "answer_judge").Logger(),
	}
}

func (j *answerJudge) Judge(ctx context.Context, input ai.AnswerInput) models.AnswerAnalysis {
	evaluation, err := j.evaluator.EvaluateAnswer(ctx, input)
	if err != nil {
		observability.JudgeFailures().Inc()
		j.logger.Error().Err(err).
			Str("question", input.Question).
			Msg("answer evaluation failed, recording degraded analysis")
		return degradedAnalysis()
	}

	return models.AnswerAnalysis{
		TechnicalScore:       evaluation.TechnicalScore,
		ConceptCoverageScore: evaluation.ConceptCoverageScore,
		ClarityScore:         evaluation.ClarityScore,
		OverallScore:         evaluation.OverallScore,
		Feedback:             evaluation.Feedback,
		Strengths:            evaluation.Strengths,
		ImprovementAreas:     evaluation.ImprovementAreas,
		SkillLevelAssessment: evaluation.SkillLevelAssessment,
	}
}

// degradedAnalysis keeps the pipeline moving when the evaluator is down. The
// zero technical score also flags the answer's skill as a gap.
func degradedAnalysis() models.AnswerAnalysis {
	return models.AnswerAnalysis{
		Feedback:             "Evaluation failed due to an error.",
		SkillLevelAssessment: "Weak",
		ImprovementAreas:     []string{"Check connection or retry evaluation."},
	}
}
