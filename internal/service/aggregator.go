package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/skillgate/skillgate-api/internal/models"
	"github.com/skillgate/skillgate-api/internal/observability"
	"github.com/skillgate/skillgate-api/pkg/ai"
)

// weakScoreThreshold is the technical score below which an answer's skill is
// reported as a gap.
const weakScoreThreshold = 5.0

// Aggregator folds judged answers into the submission-level verdict.
type Aggregator interface {
	// Aggregate is total: evaluator failures produce a Borderline verdict
	// flagged for manual review rather than an error.
	Aggregate(ctx context.Context, course ai.CourseContext, answers []models.VideoAnswer) AggregateOutcome
}

// AggregateOutcome is the derived submission-level result.
type AggregateOutcome struct {
	OverallVideoScore float64
	SkillGap          []string
	EligibilitySignal string
	ExecutiveSummary  string
	OverallReasoning  string
}

type aggregator struct {
	evaluator ai.Evaluator
	logger    zerolog.Logger
}

// NewAggregator constructs an aggregator backed by a generative evaluator.
func NewAggregator(evaluator ai.Evaluator, logger zerolog.Logger) Aggregator {
	return &aggregator{
		evaluator: evaluator,
		logger:    logger.With().Str("component", "aggregator").Logger(),
	}
}

func (a *aggregator) Aggregate(ctx context.Context, course ai.CourseContext, answers []models.VideoAnswer) AggregateOutcome {
	outcome := AggregateOutcome{
		OverallVideoScore: meanTechnicalScore(answers),
		SkillGap:          collectSkillGap(answers),
	}

	summaries := make([]ai.AnswerSummary, 0, len(answers))
	for _, answer := range answers {
		if answer.Analysis == nil {
			continue
		}
		summaries = append(summaries, ai.AnswerSummary{
			Question:       answer.QuestionID,
			RelatedSkill:   answer.RelatedSkill,
			TechnicalScore: answer.Analysis.TechnicalScore,
			Feedback:       answer.Analysis.Feedback,
		})
	}

	overall, err := a.evaluator.EvaluateOverall(ctx, ai.OverallInput{
		Course:  course,
		Answers: summaries,
	})
	if err != nil {
		observability.AggregationFailures().Inc()
		a.logger.Error().Err(err).Msg("overall evaluation failed, flagging for manual review")
		outcome.EligibilitySignal = models.EligibilityBorderline
		outcome.ExecutiveSummary = "Manual review required due to evaluation error."
		outcome.OverallReasoning = "Technical error during overall evaluation aggregation."
		return outcome
	}

	outcome.EligibilitySignal = overall.EligibilitySignal
	outcome.ExecutiveSummary = overall.ExecutiveSummary
	outcome.OverallReasoning = overall.OverallReasoning

	return outcome
}

func meanTechnicalScore(answers []models.VideoAnswer) float64 {
	if len(answers) == 0 {
		return 0
	}

	var sum float64
	for _, answer := range answers {
		if answer.Analysis != nil {
			sum += answer.Analysis.TechnicalScore
		}
	}

	return sum / float64(len(answers))
}

// collectSkillGap lists the skills behind weak answers, first occurrence
// order, duplicates removed. The fallback skill is excluded because it names
// no real course skill.
func collectSkillGap(answers []models.VideoAnswer) []string {
	gap := make([]string, 0)
	seen := make(map[string]struct{})

	for _, answer := range answers {
		if answer.Analysis == nil || answer.Analysis.TechnicalScore >= weakScoreThreshold {
			continue
		}
		skill := answer.RelatedSkill
		if skill == "" || skill == FallbackSkill {
			continue
		}
		if _, ok := seen[skill]; ok {
			continue
		}
		seen[skill] = struct{}{}
		gap = append(gap, skill)
	}

	return gap
}
