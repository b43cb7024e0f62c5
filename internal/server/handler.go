// Package server provides Connect RPC handlers for the learning service.
package server

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"sync"
	"time"

	"connectrpc.com/connect"
	"github.com/google/uuid"

	"github.com/at-ishikawa/englearn/internal/catalog"
	"github.com/at-ishikawa/englearn/internal/config"
	"github.com/at-ishikawa/englearn/internal/grading"
	"github.com/at-ishikawa/englearn/internal/inference"
	"github.com/at-ishikawa/englearn/internal/progress"
	"github.com/at-ishikawa/englearn/internal/quiz"
	"github.com/at-ishikawa/englearn/internal/recommend"
	"github.com/at-ishikawa/englearn/internal/skill"
	"github.com/at-ishikawa/englearn/internal/srs"
	"github.com/at-ishikawa/englearn/internal/vocabulary"
)

const (
	ServiceName = "englearn.v1.LearningService"

	RecommendLessonsProcedure = "/" + ServiceName + "/RecommendLessons"
	GenerateQuizProcedure     = "/" + ServiceName + "/GenerateQuiz"
	GradeQuizProcedure        = "/" + ServiceName + "/GradeQuiz"
	ReviewWordProcedure       = "/" + ServiceName + "/ReviewWord"
	GetStudyPlanProcedure     = "/" + ServiceName + "/GetStudyPlan"
	GradeFillInBlankProcedure = "/" + ServiceName + "/GradeFillInBlank"
	GradeSpeakingProcedure    = "/" + ServiceName + "/GradeSpeaking"
	GradeWritingProcedure     = "/" + ServiceName + "/GradeWriting"

	// DefaultQuizLessonID is recorded in history for quizzes graded without a lesson.
	DefaultQuizLessonID = "vocabulary-quiz"

	// QuizTTL is how long a generated quiz can still be graded.
	QuizTTL = 24 * time.Hour
)

// activeQuiz holds the generated questions until the quiz is graded.
type activeQuiz struct {
	userID    string
	questions []quiz.Question
	createdAt time.Time
}

// LearningHandler serves the learning service.
type LearningHandler struct {
	cfg       *config.Config
	catalog   *catalog.Catalog
	progress  *progress.Repository
	grammar   inference.Client
	scheduler srs.Scheduler
	validator *requestValidator
	now       func() time.Time

	mu        sync.Mutex
	generator *quiz.Generator
	quizzes   map[string]activeQuiz
}

type HandlerOption func(*LearningHandler)

func WithClock(now func() time.Time) HandlerOption {
	return func(h *LearningHandler) {
		h.now = now
	}
}

func WithGenerator(generator *quiz.Generator) HandlerOption {
	return func(h *LearningHandler) {
		h.generator = generator
	}
}

// NewLearningHandler creates a new LearningHandler. grammar may be nil, in
// which case GradeWriting fails with FailedPrecondition.
func NewLearningHandler(
	cfg *config.Config,
	cat *catalog.Catalog,
	repository *progress.Repository,
	grammar inference.Client,
	opts ...HandlerOption,
) (*LearningHandler, error) {
	scheduler, err := srs.NewScheduler(cfg.Study.Scheduler)
	if err != nil {
		return nil, fmt.Errorf("srs.NewScheduler() > %w", err)
	}
	v, err := newRequestValidator()
	if err != nil {
		return nil, fmt.Errorf("newRequestValidator() > %w", err)
	}

	h := &LearningHandler{
		cfg:       cfg,
		catalog:   cat,
		progress:  repository,
		grammar:   grammar,
		scheduler: scheduler,
		validator: v,
		now:       time.Now,
		generator: quiz.NewGenerator(),
		quizzes:   make(map[string]activeQuiz),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

// Routes returns the service path prefix and its handler.
func (h *LearningHandler) Routes(opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(jsonCodec{})}, opts...)

	mux := http.NewServeMux()
	mux.Handle(RecommendLessonsProcedure, connect.NewUnaryHandler(RecommendLessonsProcedure, h.RecommendLessons, opts...))
	mux.Handle(GenerateQuizProcedure, connect.NewUnaryHandler(GenerateQuizProcedure, h.GenerateQuiz, opts...))
	mux.Handle(GradeQuizProcedure, connect.NewUnaryHandler(GradeQuizProcedure, h.GradeQuiz, opts...))
	mux.Handle(ReviewWordProcedure, connect.NewUnaryHandler(ReviewWordProcedure, h.ReviewWord, opts...))
	mux.Handle(GetStudyPlanProcedure, connect.NewUnaryHandler(GetStudyPlanProcedure, h.GetStudyPlan, opts...))
	mux.Handle(GradeFillInBlankProcedure, connect.NewUnaryHandler(GradeFillInBlankProcedure, h.GradeFillInBlank, opts...))
	mux.Handle(GradeSpeakingProcedure, connect.NewUnaryHandler(GradeSpeakingProcedure, h.GradeSpeaking, opts...))
	mux.Handle(GradeWritingProcedure, connect.NewUnaryHandler(GradeWritingProcedure, h.GradeWriting, opts...))
	return "/" + ServiceName + "/", mux
}

// RecommendLessons ranks catalog lessons from the user's latest placement score.
func (h *LearningHandler) RecommendLessons(
	ctx context.Context,
	req *connect.Request[RecommendLessonsRequest],
) (*connect.Response[RecommendLessonsResponse], error) {
	if err := h.validator.check(req.Msg); err != nil {
		return nil, err
	}

	score, err := h.progress.Score(ctx, req.Msg.UserID)
	if err != nil {
		return nil, toConnectError(err, "load placement score")
	}
	history, err := h.progress.History(ctx, req.Msg.UserID)
	if err != nil {
		return nil, toConnectError(err, "load history")
	}

	recommendations := recommend.GenerateLessonRecommendations(
		score, history, h.catalog.Lessons, req.Msg.MaxResults, h.now(),
	)
	return connect.NewResponse(&RecommendLessonsResponse{
		Level:           skill.DetermineLevel(score.Total),
		WeakestSkill:    skill.FindWeakestSkill(score),
		Recommendations: recommendations,
	}), nil
}

// GenerateQuiz builds a quiz from the catalog and the user's words and keeps
// the answers until GradeQuiz is called.
func (h *LearningHandler) GenerateQuiz(
	ctx context.Context,
	req *connect.Request[GenerateQuizRequest],
) (*connect.Response[GenerateQuizResponse], error) {
	if err := h.validator.check(req.Msg); err != nil {
		return nil, err
	}

	words, err := h.words(ctx, req.Msg.UserID)
	if err != nil {
		return nil, toConnectError(err, "load words")
	}

	opts := h.cfg.Quiz.Options(req.Msg.Topic, req.Msg.Level)
	if req.Msg.NumberOfQuestions > 0 {
		opts.NumberOfQuestions = req.Msg.NumberOfQuestions
	}
	direction := quiz.DirectionForward
	if req.Msg.Reverse {
		direction = quiz.DirectionReverse
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	questions, err := h.generator.Generate(words, opts, direction)
	if err != nil {
		return nil, toConnectError(err, "generate quiz")
	}

	now := h.now()
	h.evictExpiredQuizzes(now)
	quizID := uuid.NewString()
	h.quizzes[quizID] = activeQuiz{
		userID:    req.Msg.UserID,
		questions: questions,
		createdAt: now,
	}

	response := &GenerateQuizResponse{QuizID: quizID}
	for _, q := range questions {
		response.Questions = append(response.Questions, QuizQuestion{
			ID:       q.ID,
			WordID:   q.WordID,
			Question: q.Question,
			Options:  q.Options,
		})
	}
	return connect.NewResponse(response), nil
}

// GradeQuiz grades a generated quiz, schedules the next review of every quizzed
// word and records the attempt in the user's history.
func (h *LearningHandler) GradeQuiz(
	ctx context.Context,
	req *connect.Request[GradeQuizRequest],
) (*connect.Response[GradeQuizResponse], error) {
	if err := h.validator.check(req.Msg); err != nil {
		return nil, err
	}

	questions, result, err := h.gradeActiveQuiz(req.Msg.QuizID, req.Msg.UserID, req.Msg.Answers)
	if err != nil {
		return nil, err
	}

	now := h.now()
	reviews := make([]progress.Review, 0, len(questions))
	for i, q := range questions {
		outcome := srs.Outcome{Correct: result.Results[i].IsCorrect}
		reviews = append(reviews, progress.Review{
			WordID: q.WordID,
			Apply: func(w vocabulary.Word) vocabulary.Word {
				return srs.ApplyReview(h.scheduler, w, outcome, now)
			},
		})
	}
	if _, err := h.progress.ReviewWords(ctx, req.Msg.UserID, h.catalog.Words, reviews...); err != nil {
		return nil, toConnectError(err, "save words")
	}

	lessonID := req.Msg.LessonID
	if lessonID == "" {
		lessonID = DefaultQuizLessonID
	}
	if err := h.progress.AppendHistory(ctx, req.Msg.UserID, skill.HistoryEntry{
		SkillType:        skill.SkillVocabulary,
		LessonID:         lessonID,
		CompletedAt:      now,
		Score:            int(math.Round(result.Percentage)),
		TimeSpentSeconds: req.Msg.TimeSpentSeconds,
		Mistakes:         result.Total - result.Correct,
	}); err != nil {
		return nil, toConnectError(err, "append history")
	}

	return connect.NewResponse(&GradeQuizResponse{
		Result:   result,
		Feedback: grading.GenerateDetailedFeedback(result.Percentage, nil),
	}), nil
}

// ReviewWord applies one review outcome to a word and saves it.
func (h *LearningHandler) ReviewWord(
	ctx context.Context,
	req *connect.Request[ReviewWordRequest],
) (*connect.Response[ReviewWordResponse], error) {
	if err := h.validator.check(req.Msg); err != nil {
		return nil, err
	}

	outcome := srs.Outcome{
		Correct: req.Msg.Correct,
		Quality: req.Msg.Quality,
	}
	now := h.now()
	reviewed, err := h.progress.ReviewWords(ctx, req.Msg.UserID, h.catalog.Words, progress.Review{
		WordID: req.Msg.WordID,
		Apply: func(w vocabulary.Word) vocabulary.Word {
			return srs.ApplyReview(h.scheduler, w, outcome, now)
		},
	})
	if err != nil {
		return nil, toConnectError(err, "save word")
	}
	if len(reviewed) == 0 {
		return nil, connect.NewError(connect.CodeNotFound, fmt.Errorf("word %s not found", req.Msg.WordID))
	}
	return connect.NewResponse(&ReviewWordResponse{Word: reviewed[0]}), nil
}

// GetStudyPlan returns today's words with collection statistics.
func (h *LearningHandler) GetStudyPlan(
	ctx context.Context,
	req *connect.Request[GetStudyPlanRequest],
) (*connect.Response[GetStudyPlanResponse], error) {
	if err := h.validator.check(req.Msg); err != nil {
		return nil, err
	}

	words, err := h.words(ctx, req.Msg.UserID)
	if err != nil {
		return nil, toConnectError(err, "load words")
	}
	maxWords := req.Msg.MaxWords
	if maxWords == 0 {
		maxWords = h.cfg.Study.MaxDailyWords
	}

	now := h.now()
	return connect.NewResponse(&GetStudyPlanResponse{
		Words:         srs.GetDailyStudyWords(words, maxWords, now),
		Statistics:    srs.GetStudyStatistics(words, now),
		RetentionRate: srs.CalculateRetentionRate(words),
	}), nil
}

func (h *LearningHandler) GradeFillInBlank(
	ctx context.Context,
	req *connect.Request[GradeFillInBlankRequest],
) (*connect.Response[GradeFillInBlankResponse], error) {
	if err := h.validator.check(req.Msg); err != nil {
		return nil, err
	}
	result := grading.GradeFillInBlank(req.Msg.CorrectAnswer, req.Msg.UserAnswer, h.cfg.Grading.FillInBlankOptions())
	return connect.NewResponse(&GradeFillInBlankResponse{Result: result}), nil
}

func (h *LearningHandler) GradeSpeaking(
	ctx context.Context,
	req *connect.Request[GradeSpeakingRequest],
) (*connect.Response[GradeSpeakingResponse], error) {
	if err := h.validator.check(req.Msg); err != nil {
		return nil, err
	}
	return connect.NewResponse(&GradeSpeakingResponse{
		Result:              grading.GradeSpeaking(req.Msg.Target, req.Msg.Transcript, h.cfg.Grading.SpeakingOptions()),
		WordMatchPercentage: grading.CalculateWordMatchPercentage(req.Msg.Target, req.Msg.Transcript),
	}), nil
}

// GradeWriting corrects a piece of writing through the inference client. The
// attempt is recorded in history when a lesson id is given.
func (h *LearningHandler) GradeWriting(
	ctx context.Context,
	req *connect.Request[GradeWritingRequest],
) (*connect.Response[GradeWritingResponse], error) {
	if err := h.validator.check(req.Msg); err != nil {
		return nil, err
	}
	if h.grammar == nil {
		return nil, connect.NewError(connect.CodeFailedPrecondition, errors.New("writing feedback is not configured"))
	}

	var level string
	score, err := h.progress.Score(ctx, req.Msg.UserID)
	switch {
	case err == nil:
		level = string(score.Level)
	case !errors.Is(err, progress.ErrNotFound):
		return nil, toConnectError(err, "load placement score")
	}

	checked, err := h.grammar.CheckGrammar(ctx, inference.CheckGrammarRequest{
		Prompt: req.Msg.Prompt,
		Text:   req.Msg.Text,
		Level:  level,
	})
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, fmt.Errorf("check grammar: %w", err))
	}

	if req.Msg.LessonID != "" {
		if err := h.progress.AppendHistory(ctx, req.Msg.UserID, skill.HistoryEntry{
			SkillType:        skill.SkillWriting,
			LessonID:         req.Msg.LessonID,
			CompletedAt:      h.now(),
			Score:            checked.Score,
			TimeSpentSeconds: req.Msg.TimeSpentSeconds,
			Mistakes:         len(checked.Issues),
		}); err != nil {
			return nil, toConnectError(err, "append history")
		}
	}

	weakAreas := checked.WeakAreas()
	return connect.NewResponse(&GradeWritingResponse{
		CorrectedText: checked.CorrectedText,
		Score:         checked.Score,
		Issues:        checked.Issues,
		WeakAreas:     weakAreas,
		Feedback:      grading.GenerateDetailedFeedback(float64(checked.Score), weakAreas),
	}), nil
}

// words returns the catalog merged with the user's saved review state.
// gradeActiveQuiz grades the quiz and removes it from the active set under one
// lock, so a quiz is graded at most once. Answers that cannot be graded leave
// the quiz active. Expired quizzes and quizzes of other users are not found.
func (h *LearningHandler) gradeActiveQuiz(quizID, userID string, answers []int) ([]quiz.Question, grading.QuizResult, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	active, ok := h.quizzes[quizID]
	if ok && h.now().Sub(active.createdAt) > QuizTTL {
		delete(h.quizzes, quizID)
		ok = false
	}
	if !ok || active.userID != userID {
		return nil, grading.QuizResult{}, connect.NewError(connect.CodeNotFound, fmt.Errorf("quiz %s not found", quizID))
	}

	result, err := grading.GradeQuiz(active.questions, answers)
	if err != nil {
		return nil, grading.QuizResult{}, toConnectError(err, "grade quiz")
	}
	delete(h.quizzes, quizID)
	return active.questions, result, nil
}

// evictExpiredQuizzes must be called with h.mu held.
func (h *LearningHandler) evictExpiredQuizzes(now time.Time) {
	for id, active := range h.quizzes {
		if now.Sub(active.createdAt) > QuizTTL {
			delete(h.quizzes, id)
		}
	}
}

func (h *LearningHandler) words(ctx context.Context, userID string) ([]vocabulary.Word, error) {
	saved, err := h.progress.Words(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("progress.Words(%s) > %w", userID, err)
	}
	return catalog.MergeProgress(h.catalog.Words, saved), nil
}
