package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/skillgate/skillgate-api/internal/models"
	"github.com/skillgate/skillgate-api/internal/observability"
	"github.com/skillgate/skillgate-api/internal/repository"
	"github.com/skillgate/skillgate-api/pkg/ai"
)

// ErrInvalidID indicates a student or course identifier is not a 24
// character hex string.
var ErrInvalidID = errors.New("identifier must be a 24 character hex string")

// ErrResultNotFound indicates no evaluation record exists for the pair.
var ErrResultNotFound = errors.New("evaluation result not found")

// ErrEvaluationInProgress indicates another run currently owns the pair.
var ErrEvaluationInProgress = errors.New("evaluation already in progress")

// ErrNotReanalyzable indicates a manual re-run was requested for a record
// that has no transcripts to re-judge.
var ErrNotReanalyzable = errors.New("result has no transcripts to re-analyze")

// PipelineConfig carries orchestration knobs.
type PipelineConfig struct {
	// RunTimeout bounds one full background run.
	RunTimeout time.Duration
	// LockTTL bounds how long a crashed run can keep a pair locked.
	LockTTL time.Duration
}

// EvaluationPipelineService runs the asynchronous video evaluation pipeline:
// transcribe every answer, judge each transcript, aggregate into an
// eligibility verdict and notify reviewers.
type EvaluationPipelineService interface {
	// Trigger starts a background run for the student's latest attempt at
	// the course. It returns once the run is scheduled.
	Trigger(ctx context.Context, studentID, courseID string) error
	// Rerun discards a completed record's analyses and judges its stored
	// transcripts again, synchronously. Meant for manual reviewer use.
	Rerun(ctx context.Context, studentID, courseID string) error
}

type evaluationPipeline struct {
	results       repository.ResultRepository
	courses       repository.CourseRepository
	questions     repository.QuestionRepository
	transcription TranscriptionService
	judge         AnswerJudge
	aggregator    Aggregator
	notifier      CompletionNotifier
	locks         *redis.Client
	validator     *validator.Validate
	logger        zerolog.Logger
	tracer        trace.Tracer
	config        PipelineConfig
}

// NewEvaluationPipelineService constructs the orchestrator. redisClient may
// be nil, which disables cross-instance locking.
func NewEvaluationPipelineService(
	results repository.ResultRepository,
	courses repository.CourseRepository,
	questions repository.QuestionRepository,
	transcription TranscriptionService,
	judge AnswerJudge,
	aggregator Aggregator,
	notifier CompletionNotifier,
	redisClient *redis.Client,
	validate *validator.Validate,
	logger zerolog.Logger,
	cfg PipelineConfig,
) EvaluationPipelineService {
	if cfg.RunTimeout <= 0 {
		cfg.RunTimeout = 10 * time.Minute
	}
	if cfg.LockTTL <= 0 {
		cfg.LockTTL = 15 * time.Minute
	}

	return &evaluationPipeline{
		results:       results,
		courses:       courses,
		questions:     questions,
		transcription: transcription,
		judge:         judge,
		aggregator:    aggregator,
		notifier:      notifier,
		locks:         redisClient,
		validator:     validate,
		logger:        logger.With().Str("component", "evaluation_pipeline").Logger(),
		tracer:        otel.Tracer("github.com/skillgate/skillgate-api/internal/service"),
		config:        cfg,
	}
}

func (p *evaluationPipeline) Trigger(ctx context.Context, studentID, courseID string) error {
	if err := p.validateIDs(studentID, courseID); err != nil {
		return err
	}

	result, err := p.results.GetLatest(ctx, studentID, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrResultNotFound
		}
		return err
	}

	acquired, err := p.acquireLock(ctx, studentID, courseID)
	if err != nil {
		return err
	}
	if !acquired {
		return ErrEvaluationInProgress
	}

	if err := p.results.SetVideoAnswers(ctx, result.ID, result.VideoAnswers, models.EvaluationStatusPending); err != nil {
		p.releaseLock(context.WithoutCancel(ctx), studentID, courseID)
		return err
	}

	go p.run(studentID, courseID, result.ID)

	return nil
}

// run owns the lock for the duration of one background evaluation.
func (p *evaluationPipeline) run(studentID, courseID string, resultID uint) {
	ctx, cancel := context.WithTimeout(context.Background(), p.config.RunTimeout)
	defer cancel()
	// The lock release must survive the run deadline, or a timed-out run
	// keeps the pair locked until the TTL expires.
	defer p.releaseLock(context.WithoutCancel(ctx), studentID, courseID)

	ctx, span := p.tracer.Start(ctx, "pipeline.run", trace.WithAttributes(
		attribute.String("evaluation.student_id", studentID),
		attribute.String("evaluation.course_id", courseID),
	))
	defer span.End()

	start := time.Now()
	err := p.evaluate(ctx, studentID, courseID, resultID)
	observability.PipelineRunDuration().Observe(time.Since(start).Seconds())
	if err != nil {
		observability.PipelineRuns().WithLabelValues("error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		p.logger.Error().Err(err).
			Str("student_id", studentID).
			Str("course_id", courseID).
			Msg("evaluation run failed")
		return
	}

	observability.PipelineRuns().WithLabelValues("ok").Inc()
	span.SetStatus(codes.Ok, "completed")
}

func (p *evaluationPipeline) evaluate(ctx context.Context, studentID, courseID string, resultID uint) error {
	result, err := p.results.GetLatest(ctx, studentID, courseID)
	if err != nil {
		return fmt.Errorf("load result: %w", err)
	}
	if result.ID != resultID {
		// A newer attempt was created between trigger and run; the newer
		// attempt's own trigger will evaluate it.
		p.logger.Warn().
			Uint("scheduled_id", resultID).
			Uint("latest_id", result.ID).
			Msg("skipping run for superseded attempt")
		return nil
	}

	answers := p.transcription.TranscribeBatch(ctx, result.VideoAnswers)
	if err := p.results.SetVideoAnswers(ctx, result.ID, answers, models.EvaluationStatusTranscribed); err != nil {
		return fmt.Errorf("persist transcripts: %w", err)
	}

	if len(answers) == 0 {
		p.logger.Info().
			Str("student_id", studentID).
			Str("course_id", courseID).
			Msg("no answers to analyze, stopping at transcribed")
		return nil
	}

	result.VideoAnswers = answers
	return p.analyze(ctx, result)
}

// analyze judges every transcript, aggregates and finalizes. It expects the
// record to currently be at transcribed and is shared with manual re-runs.
func (p *evaluationPipeline) analyze(ctx context.Context, result models.EvaluationResult) error {
	course, err := p.courses.GetByID(ctx, result.CourseID)
	if err != nil {
		return fmt.Errorf("load course: %w", err)
	}

	courseCtx := courseContext(course)

	var questions []models.VideoQuestion
	set, err := p.questions.GetVideoQuestions(ctx, result.CourseID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("load questions: %w", err)
		}
		// No generated set; every answer resolves to the fallback context.
	} else {
		questions = set.Questions
	}

	answers := []models.VideoAnswer(result.VideoAnswers)
	for i := range answers {
		resolved := ResolveQuestion(answers[i].QuestionID, questions)
		answers[i].RelatedSkill = resolved.RelatedSkill

		analysis := p.judge.Judge(ctx, ai.AnswerInput{
			Question:         resolved.Question,
			RelatedSkill:     resolved.RelatedSkill,
			ExpectedConcepts: resolved.ExpectedConcepts,
			Transcript:       answers[i].Transcript,
			Course:           courseCtx,
		})
		answers[i].Analysis = &analysis
	}

	if err := p.results.SaveAnalyses(ctx, result.ID, answers); err != nil {
		return fmt.Errorf("persist analyses: %w", err)
	}

	outcome := p.aggregator.Aggregate(ctx, courseCtx, answers)
	finalized, err := p.results.Finalize(ctx, result.ID, models.EvaluationStatusTranscribed, repository.ResultAggregate{
		OverallVideoScore: outcome.OverallVideoScore,
		SkillGap:          outcome.SkillGap,
		EligibilitySignal: outcome.EligibilitySignal,
		ExecutiveSummary:  outcome.ExecutiveSummary,
		OverallReasoning:  outcome.OverallReasoning,
		EvaluatedAt:       time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("finalize result: %w", err)
	}
	if !finalized {
		p.logger.Warn().
			Uint("result_id", result.ID).
			Msg("finalize lost to a concurrent writer, leaving record untouched")
		return nil
	}

	completed, err := p.results.GetLatest(ctx, result.StudentID, result.CourseID)
	if err != nil {
		return fmt.Errorf("reload result: %w", err)
	}

	p.notifier.NotifyCompleted(ctx, completed)

	return nil
}

func (p *evaluationPipeline) Rerun(ctx context.Context, studentID, courseID string) error {
	if err := p.validateIDs(studentID, courseID); err != nil {
		return err
	}

	result, err := p.results.GetLatest(ctx, studentID, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrResultNotFound
		}
		return err
	}

	if len(result.VideoAnswers) == 0 || !hasTranscripts(result.VideoAnswers) {
		return ErrNotReanalyzable
	}

	acquired, err := p.acquireLock(ctx, studentID, courseID)
	if err != nil {
		return err
	}
	if !acquired {
		return ErrEvaluationInProgress
	}
	defer p.releaseLock(ctx, studentID, courseID)

	if err := p.results.ClearAggregates(ctx, result.ID); err != nil {
		return err
	}

	reset, err := p.results.GetLatest(ctx, studentID, courseID)
	if err != nil {
		return err
	}

	return p.analyze(ctx, reset)
}

func (p *evaluationPipeline) validateIDs(studentID, courseID string) error {
	for _, id := range []string{studentID, courseID} {
		if err := p.validator.Var(id, "required,hexadecimal,len=24"); err != nil {
			return ErrInvalidID
		}
	}
	return nil
}

func lockKey(studentID, courseID string) string {
	return fmt.Sprintf("skillgate:evaluation:lock:%s:%s", studentID, courseID)
}

func (p *evaluationPipeline) acquireLock(ctx context.Context, studentID, courseID string) (bool, error) {
	if p.locks == nil {
		return true, nil
	}

	acquired, err := p.locks.SetNX(ctx, lockKey(studentID, courseID), "1", p.config.LockTTL).Result()
	if err != nil {
		return false, fmt.Errorf("acquire evaluation lock: %w", err)
	}

	return acquired, nil
}

func (p *evaluationPipeline) releaseLock(ctx context.Context, studentID, courseID string) {
	if p.locks == nil {
		return
	}

	if err := p.locks.Del(ctx, lockKey(studentID, courseID)).Err(); err != nil {
		p.logger.Warn().Err(err).Msg("failed to release evaluation lock")
	}
}

func hasTranscripts(answers []models.VideoAnswer) bool {
	for _, answer := range answers {
		if answer.Transcript != "" {
			return true
		}
	}
	return false
}
