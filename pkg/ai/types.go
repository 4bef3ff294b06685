package ai

import "context"

// CourseContext carries the course attributes every prompt is grounded on.
type CourseContext struct {
	Title          string
	Description    string
	Level          string
	RequiredSkills []string
}

// AnswerInput contains one transcript and its resolved question context.
type AnswerInput struct {
	Question         string
	RelatedSkill     string
	ExpectedConcepts []string
	Transcript       string
	Course           CourseContext
}

// AnswerEvaluation is the structured verdict for a single spoken answer.
// Scores are on a 0-10 scale; SkillLevelAssessment is Strong, Moderate or
// Weak.
type AnswerEvaluation struct {
	TechnicalScore       float64  `json:"technicalScore"`
	ConceptCoverageScore float64  `json:"conceptCoverageScore"`
	ClarityScore         float64  `json:"clarityScore"`
	OverallScore         float64  `json:"overallScore"`
	Feedback             string   `json:"feedback"`
	Strengths            []string `json:"strengths"`
	ImprovementAreas     []string `json:"improvementAreas"`
	SkillLevelAssessment string   `json:"skillLevelAssessment"`
}

// AnswerSummary condenses a judged answer for the aggregation prompt.
type AnswerSummary struct {
	Question       string  `json:"question"`
	RelatedSkill   string  `json:"relatedSkill"`
	TechnicalScore float64 `json:"technicalScore"`
	Feedback       string  `json:"feedback"`
}

// OverallInput feeds the aggregation call with every judged answer plus
// course context.
type OverallInput struct {
	Course  CourseContext
	Answers []AnswerSummary
}

// OverallEvaluation is the aggregated eligibility verdict.
type OverallEvaluation struct {
	EligibilitySignal string `json:"overallEligibilitySignal"`
	ExecutiveSummary  string `json:"executiveSummary"`
	OverallReasoning  string `json:"overallReasoning"`
}

// GeneratedQuestion is one eligibility question produced for a course.
type GeneratedQuestion struct {
	Question         string   `json:"question"`
	RelatedSkill     string   `json:"relatedSkill"`
	ExpectedConcepts []string `json:"expectedConcepts"`
}

// GeneratedMCQ is one multiple-choice question produced for a course.
type GeneratedMCQ struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Answer   string   `json:"answer"`
}

// Evaluator describes a generative model capable of judging spoken answers
// and aggregating them into an eligibility verdict. Implementations return
// errors; degraded fallbacks are the caller's concern.
type Evaluator interface {
	EvaluateAnswer(ctx context.Context, input AnswerInput) (AnswerEvaluation, error)
	EvaluateOverall(ctx context.Context, input OverallInput) (OverallEvaluation, error)
}

// QuestionGenerator describes a generative model capable of producing
// screening questions for a course.
type QuestionGenerator interface {
	GenerateVideoQuestions(ctx context.Context, course CourseContext) ([]GeneratedQuestion, error)
	GenerateMCQs(ctx context.Context, course CourseContext) ([]GeneratedMCQ, error)
}
