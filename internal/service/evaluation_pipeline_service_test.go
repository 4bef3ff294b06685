package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/skillgate/skillgate-api/internal/models"
	"github.com/skillgate/skillgate-api/internal/repository"
	"github.com/skillgate/skillgate-api/pkg/ai"
)

const (
	testStudentID = "65f1a2b3c4d5e6f708192a3b"
	testCourseID  = "65f1a2b3c4d5e6f708192a3c"
)

type memResultRepo struct {
	mu      sync.Mutex
	nextID  uint
	results []models.EvaluationResult
}

func (m *memResultRepo) Create(ctx context.Context, result *models.EvaluationResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	result.ID = m.nextID
	result.CreatedAt = time.Now().Add(time.Duration(m.nextID) * time.Millisecond)
	m.results = append(m.results, *result)
	return nil
}

func (m *memResultRepo) GetLatest(ctx context.Context, studentID, courseID string) (models.EvaluationResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var latest *models.EvaluationResult
	for i := range m.results {
		r := &m.results[i]
		if r.StudentID != studentID || r.CourseID != courseID {
			continue
		}
		if latest == nil || r.CreatedAt.After(latest.CreatedAt) {
			latest = r
		}
	}
	if latest == nil {
		return models.EvaluationResult{}, gorm.ErrRecordNotFound
	}
	return *latest, nil
}

func (m *memResultRepo) List(ctx context.Context, limit, offset int) ([]models.EvaluationResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.EvaluationResult, len(m.results))
	copy(out, m.results)
	return out, nil
}

func (m *memResultRepo) SetMCQScore(ctx context.Context, id uint, score float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.results {
		if m.results[i].ID == id {
			m.results[i].MCQScore = &score
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *memResultRepo) SetVideoAnswers(ctx context.Context, id uint, answers []models.VideoAnswer, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.results {
		if m.results[i].ID == id {
			m.results[i].VideoAnswers = answers
			m.results[i].EvaluationStatus = status
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *memResultRepo) SaveAnalyses(ctx context.Context, id uint, answers []models.VideoAnswer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.results {
		if m.results[i].ID == id {
			m.results[i].VideoAnswers = answers
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *memResultRepo) Finalize(ctx context.Context, id uint, expectedStatus string, agg repository.ResultAggregate) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.results {
		if m.results[i].ID != id {
			continue
		}
		if m.results[i].EvaluationStatus != expectedStatus {
			return false, nil
		}
		score := agg.OverallVideoScore
		evaluatedAt := agg.EvaluatedAt
		m.results[i].OverallVideoScore = &score
		m.results[i].SkillGap = agg.SkillGap
		m.results[i].EligibilitySignal = agg.EligibilitySignal
		m.results[i].ExecutiveSummary = agg.ExecutiveSummary
		m.results[i].OverallReasoning = agg.OverallReasoning
		m.results[i].EvaluatedAt = &evaluatedAt
		m.results[i].EvaluationStatus = models.EvaluationStatusCompleted
		return true, nil
	}
	return false, gorm.ErrRecordNotFound
}

func (m *memResultRepo) ClearAggregates(ctx context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.results {
		if m.results[i].ID != id {
			continue
		}
		answers := []models.VideoAnswer(m.results[i].VideoAnswers)
		for j := range answers {
			answers[j].Analysis = nil
			answers[j].RelatedSkill = ""
		}
		m.results[i].VideoAnswers = answers
		m.results[i].OverallVideoScore = nil
		m.results[i].SkillGap = nil
		m.results[i].EligibilitySignal = ""
		m.results[i].ExecutiveSummary = ""
		m.results[i].OverallReasoning = ""
		m.results[i].EvaluatedAt = nil
		m.results[i].EvaluationStatus = models.EvaluationStatusTranscribed
		return nil
	}
	return gorm.ErrRecordNotFound
}

type stubCourseRepo struct {
	course models.Course
	err    error
}

func (s *stubCourseRepo) Create(ctx context.Context, course *models.Course) error { return s.err }

func (s *stubCourseRepo) GetByID(ctx context.Context, id string) (models.Course, error) {
	if s.err != nil {
		return models.Course{}, s.err
	}
	if s.course.ID != id {
		return models.Course{}, gorm.ErrRecordNotFound
	}
	return s.course, nil
}

func (s *stubCourseRepo) List(ctx context.Context) ([]models.Course, error) {
	return []models.Course{s.course}, s.err
}

func (s *stubCourseRepo) SetAIStatus(ctx context.Context, id string, field string, value bool) error {
	return s.err
}

type stubQuestionRepo struct {
	videoSet models.VideoQuestionSet
	mcqSet   models.MCQSet
	missing  bool
	upserted *models.VideoQuestionSet
}

func (s *stubQuestionRepo) GetVideoQuestions(ctx context.Context, courseID string) (models.VideoQuestionSet, error) {
	if s.missing {
		return models.VideoQuestionSet{}, gorm.ErrRecordNotFound
	}
	return s.videoSet, nil
}

func (s *stubQuestionRepo) UpsertVideoQuestions(ctx context.Context, set *models.VideoQuestionSet) error {
	s.upserted = set
	return nil
}

func (s *stubQuestionRepo) GetMCQs(ctx context.Context, courseID string) (models.MCQSet, error) {
	if s.missing {
		return models.MCQSet{}, gorm.ErrRecordNotFound
	}
	return s.mcqSet, nil
}

func (s *stubQuestionRepo) UpsertMCQs(ctx context.Context, set *models.MCQSet) error { return nil }

type stubNotifier struct {
	mu       sync.Mutex
	notified []models.EvaluationResult
}

func (s *stubNotifier) NotifyCompleted(ctx context.Context, result models.EvaluationResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notified = append(s.notified, result)
}

func (s *stubNotifier) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.notified)
}

type staticTranscription struct {
	transcript string
}

func (s staticTranscription) TranscribeBatch(ctx context.Context, answers []models.VideoAnswer) []models.VideoAnswer {
	out := make([]models.VideoAnswer, len(answers))
	copy(out, answers)
	for i := range out {
		out[i].Transcript = s.transcript
	}
	return out
}

type slowTranscription struct {
	delay time.Duration
}

func (s slowTranscription) TranscribeBatch(ctx context.Context, answers []models.VideoAnswer) []models.VideoAnswer {
	time.Sleep(s.delay)
	out := make([]models.VideoAnswer, len(answers))
	copy(out, answers)
	for i := range out {
		out[i].Transcript = "spoken answer"
	}
	return out
}

type scoreByQuestion struct {
	scores map[string]float64
}

func (s scoreByQuestion) Judge(ctx context.Context, input ai.AnswerInput) models.AnswerAnalysis {
	return models.AnswerAnalysis{
		TechnicalScore:       s.scores[input.Question],
		Feedback:             "judged",
		SkillLevelAssessment: "Moderate",
	}
}

func testPipeline(t *testing.T, results *memResultRepo, notifier *stubNotifier, judge AnswerJudge, evaluator ai.Evaluator, redisClient *redis.Client) EvaluationPipelineService {
	t.Helper()

	courses := &stubCourseRepo{course: models.Course{
		ID:             testCourseID,
		Title:          "Go Backend",
		SkillsRequired: []string{"Go", "SQL"},
	}}
	questions := &stubQuestionRepo{videoSet: models.VideoQuestionSet{
		CourseID: testCourseID,
		Questions: []models.VideoQuestion{
			{Question: "Explain goroutines", RelatedSkill: "Go"},
			{Question: "Explain indexes", RelatedSkill: "SQL"},
		},
	}}

	return NewEvaluationPipelineService(
		results,
		courses,
		questions,
		staticTranscription{transcript: "spoken answer"},
		judge,
		NewAggregator(evaluator, zerolog.Nop()),
		notifier,
		redisClient,
		validator.New(validator.WithRequiredStructEnabled()),
		zerolog.Nop(),
		PipelineConfig{RunTimeout: 5 * time.Second, LockTTL: time.Minute},
	)
}

func seedResult(results *memResultRepo, answers []models.VideoAnswer, status string) models.EvaluationResult {
	record := models.EvaluationResult{
		StudentID:        testStudentID,
		CourseID:         testCourseID,
		CourseTitle:      "Go Backend",
		EvaluationStatus: status,
		VideoAnswers:     answers,
	}
	_ = results.Create(context.Background(), &record)
	return record
}

func TestTriggerRejectsInvalidIDs(t *testing.T) {
	pipeline := testPipeline(t, &memResultRepo{}, &stubNotifier{}, scoreByQuestion{}, &stubEvaluator{}, nil)

	err := pipeline.Trigger(context.Background(), "not-hex", testCourseID)
	require.ErrorIs(t, err, ErrInvalidID)

	err = pipeline.Trigger(context.Background(), testStudentID, "abc")
	require.ErrorIs(t, err, ErrInvalidID)
}

func TestTriggerRequiresResult(t *testing.T) {
	pipeline := testPipeline(t, &memResultRepo{}, &stubNotifier{}, scoreByQuestion{}, &stubEvaluator{}, nil)

	err := pipeline.Trigger(context.Background(), testStudentID, testCourseID)
	require.ErrorIs(t, err, ErrResultNotFound)
}

func TestTriggerZeroAnswersStopsAtTranscribed(t *testing.T) {
	results := &memResultRepo{}
	notifier := &stubNotifier{}
	evaluator := &stubEvaluator{}
	pipeline := testPipeline(t, results, notifier, scoreByQuestion{}, evaluator, nil)

	seedResult(results, nil, models.EvaluationStatusNotStarted)

	require.NoError(t, pipeline.Trigger(context.Background(), testStudentID, testCourseID))

	require.Eventually(t, func() bool {
		result, err := results.GetLatest(context.Background(), testStudentID, testCourseID)
		return err == nil && result.EvaluationStatus == models.EvaluationStatusTranscribed
	}, 3*time.Second, 10*time.Millisecond)

	result, err := results.GetLatest(context.Background(), testStudentID, testCourseID)
	require.NoError(t, err)
	require.Empty(t, result.VideoAnswers)
	require.Nil(t, result.OverallVideoScore)
	require.Empty(t, result.EligibilitySignal)
	require.Empty(t, evaluator.overallIn)
	require.Zero(t, notifier.count())
}

func TestTriggerRunsPipelineEndToEnd(t *testing.T) {
	results := &memResultRepo{}
	notifier := &stubNotifier{}
	judge := scoreByQuestion{scores: map[string]float64{
		"Explain goroutines": 3,
		"Explain indexes":    8,
	}}
	evaluator := &stubEvaluator{overall: ai.OverallEvaluation{
		EligibilitySignal: models.EligibilityBorderline,
		ExecutiveSummary:  "mixed",
		OverallReasoning:  "weak on Go",
	}}
	pipeline := testPipeline(t, results, notifier, judge, evaluator, nil)

	seedResult(results, []models.VideoAnswer{
		{QuestionID: "Q1", VideoURL: "https://cdn.example.com/a.mp4"},
		{QuestionID: "Q2", VideoURL: "https://cdn.example.com/b.mp4"},
	}, models.EvaluationStatusNotStarted)

	require.NoError(t, pipeline.Trigger(context.Background(), testStudentID, testCourseID))

	require.Eventually(t, func() bool {
		result, err := results.GetLatest(context.Background(), testStudentID, testCourseID)
		return err == nil && result.IsCompleted()
	}, 3*time.Second, 10*time.Millisecond)

	result, err := results.GetLatest(context.Background(), testStudentID, testCourseID)
	require.NoError(t, err)
	require.NotNil(t, result.OverallVideoScore)
	require.InDelta(t, 5.5, *result.OverallVideoScore, 1e-9)
	require.Equal(t, []string{"Go"}, []string(result.SkillGap))
	require.Equal(t, models.EligibilityBorderline, result.EligibilitySignal)
	require.NotNil(t, result.EvaluatedAt)
	require.Len(t, result.VideoAnswers, 2)
	for _, answer := range result.VideoAnswers {
		require.Equal(t, "spoken answer", answer.Transcript)
		require.NotNil(t, answer.Analysis)
	}
	require.Equal(t, 1, notifier.count())
}

func TestTriggerLockedPairIsRejected(t *testing.T) {
	srv := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { redisClient.Close() })

	results := &memResultRepo{}
	pipeline := testPipeline(t, results, &stubNotifier{}, scoreByQuestion{}, &stubEvaluator{}, redisClient)

	seedResult(results, []models.VideoAnswer{{QuestionID: "Q1", VideoURL: "https://cdn.example.com/a.mp4"}}, models.EvaluationStatusNotStarted)

	require.NoError(t, srv.Set(lockKey(testStudentID, testCourseID), "1"))

	err := pipeline.Trigger(context.Background(), testStudentID, testCourseID)
	require.ErrorIs(t, err, ErrEvaluationInProgress)
}

func TestRunReleasesLockAfterTimeout(t *testing.T) {
	srv := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { redisClient.Close() })

	results := &memResultRepo{}
	courses := &stubCourseRepo{course: models.Course{ID: testCourseID, Title: "Go Backend"}}

	pipeline := NewEvaluationPipelineService(
		results,
		courses,
		&stubQuestionRepo{missing: true},
		slowTranscription{delay: 50 * time.Millisecond},
		scoreByQuestion{},
		NewAggregator(&stubEvaluator{}, zerolog.Nop()),
		&stubNotifier{},
		redisClient,
		validator.New(validator.WithRequiredStructEnabled()),
		zerolog.Nop(),
		PipelineConfig{RunTimeout: time.Millisecond, LockTTL: time.Minute},
	)

	seedResult(results, []models.VideoAnswer{{QuestionID: "Q1", VideoURL: "https://cdn.example.com/a.mp4"}}, models.EvaluationStatusNotStarted)

	require.NoError(t, pipeline.Trigger(context.Background(), testStudentID, testCourseID))

	// The transcription stage outlives the run deadline; the lock must still
	// come off without waiting for the TTL.
	require.Eventually(t, func() bool {
		return !srv.Exists(lockKey(testStudentID, testCourseID))
	}, 3*time.Second, 10*time.Millisecond)
}

func TestRerunReanalyzesStoredTranscripts(t *testing.T) {
	results := &memResultRepo{}
	notifier := &stubNotifier{}
	judge := scoreByQuestion{scores: map[string]float64{"Explain goroutines": 9}}
	evaluator := &stubEvaluator{overall: ai.OverallEvaluation{
		EligibilitySignal: models.EligibilityPass,
		ExecutiveSummary:  "ready",
		OverallReasoning:  "strong",
	}}
	pipeline := testPipeline(t, results, notifier, judge, evaluator, nil)

	old := 2.0
	seedResult(results, []models.VideoAnswer{
		{QuestionID: "Q1", VideoURL: "https://cdn.example.com/a.mp4", Transcript: "spoken answer", RelatedSkill: "Go", Analysis: &models.AnswerAnalysis{TechnicalScore: 2}},
	}, models.EvaluationStatusCompleted)
	results.mu.Lock()
	results.results[0].OverallVideoScore = &old
	results.results[0].EligibilitySignal = models.EligibilityFail
	results.mu.Unlock()

	require.NoError(t, pipeline.Rerun(context.Background(), testStudentID, testCourseID))

	result, err := results.GetLatest(context.Background(), testStudentID, testCourseID)
	require.NoError(t, err)
	require.True(t, result.IsCompleted())
	require.Equal(t, models.EligibilityPass, result.EligibilitySignal)
	require.NotNil(t, result.OverallVideoScore)
	require.InDelta(t, 9.0, *result.OverallVideoScore, 1e-9)
	require.Empty(t, result.SkillGap)
	require.Equal(t, 1, notifier.count())
}

func TestRerunRejectsRecordsWithoutTranscripts(t *testing.T) {
	results := &memResultRepo{}
	pipeline := testPipeline(t, results, &stubNotifier{}, scoreByQuestion{}, &stubEvaluator{}, nil)

	seedResult(results, []models.VideoAnswer{{QuestionID: "Q1", VideoURL: "https://cdn.example.com/a.mp4"}}, models.EvaluationStatusNotStarted)

	err := pipeline.Rerun(context.Background(), testStudentID, testCourseID)
	require.ErrorIs(t, err, ErrNotReanalyzable)
}
