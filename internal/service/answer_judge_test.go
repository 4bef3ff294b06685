package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/skillgate/skillgate-api/pkg/ai"
)

type stubEvaluator struct {
	answer     ai.AnswerEvaluation
	answerErr  error
	overall    ai.OverallEvaluation
	overallErr error
	answerIn   []ai.AnswerInput
	overallIn  []ai.OverallInput
}

func (s *stubEvaluator) EvaluateAnswer(ctx context.Context, input ai.AnswerInput) (ai.AnswerEvaluation, error) {
	s.answerIn = append(s.answerIn, input)
	if s.answerErr != nil {
		return ai.AnswerEvaluation{}, s.answerErr
	}
	return s.answer, nil
}

func (s *stubEvaluator) EvaluateOverall(ctx context.Context, input ai.OverallInput) (ai.OverallEvaluation, error) {
	s.overallIn = append(s.overallIn, input)
	if s.overallErr != nil {
		return ai.OverallEvaluation{}, s.overallErr
	}
	return s.overall, nil
}

func TestJudgeMapsEvaluation(t *testing.T) {
	evaluator := &stubEvaluator{answer: ai.AnswerEvaluation{
		TechnicalScore:       8,
		ConceptCoverageScore: 7,
		ClarityScore:         9,
		OverallScore:         8,
		Feedback:             "solid answer",
		Strengths:            []string{"depth"},
		ImprovementAreas:     []string{"examples"},
		SkillLevelAssessment: "Strong",
	}}
	judge := NewAnswerJudge(evaluator, zerolog.Nop())

	analysis := judge.Judge(context.Background(), ai.AnswerInput{Question: "Explain goroutines", Transcript: "..."})

	require.Equal(t, 8.0, analysis.TechnicalScore)
	require.Equal(t, "solid answer", analysis.Feedback)
	require.Equal(t, "Strong", analysis.SkillLevelAssessment)
	require.Len(t, evaluator.answerIn, 1)
}

func TestJudgeDegradesOnEvaluatorError(t *testing.T) {
	evaluator := &stubEvaluator{answerErr: errors.New("timeout")}
	judge := NewAnswerJudge(evaluator, zerolog.Nop())

	analysis := judge.Judge(context.Background(), ai.AnswerInput{Question: "Explain goroutines"})

	require.Zero(t, analysis.TechnicalScore)
	require.Zero(t, analysis.OverallScore)
	require.Equal(t, "Evaluation failed due to an error.", analysis.Feedback)
	require.Equal(t, "Weak", analysis.SkillLevelAssessment)
	require.Equal(t, []string{"Check connection or retry evaluation."}, analysis.ImprovementAreas)
}
