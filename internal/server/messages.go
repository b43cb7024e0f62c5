package server

import (
	"github.com/at-ishikawa/englearn/internal/grading"
	"github.com/at-ishikawa/englearn/internal/inference"
	"github.com/at-ishikawa/englearn/internal/recommend"
	"github.com/at-ishikawa/englearn/internal/skill"
	"github.com/at-ishikawa/englearn/internal/srs"
	"github.com/at-ishikawa/englearn/internal/vocabulary"
)

type RecommendLessonsRequest struct {
	UserID     string `json:"user_id" validate:"required"`
	MaxResults int    `json:"max_results" validate:"min=0,max=50"`
}

type RecommendLessonsResponse struct {
	Level           skill.Level                `json:"level"`
	WeakestSkill    skill.SkillType            `json:"weakest_skill"`
	Recommendations []recommend.Recommendation `json:"recommendations"`
}

type GenerateQuizRequest struct {
	UserID            string `json:"user_id" validate:"required"`
	Topic             string `json:"topic"`
	Level             string `json:"level" validate:"omitempty,oneof=A1 A2 B1 B2 C1"`
	NumberOfQuestions int    `json:"number_of_questions" validate:"min=0,max=50"`
	Reverse           bool   `json:"reverse"`
}

// QuizQuestion is a question without its answer.
type QuizQuestion struct {
	ID       string   `json:"id"`
	WordID   string   `json:"word_id"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

type GenerateQuizResponse struct {
	QuizID    string         `json:"quiz_id"`
	Questions []QuizQuestion `json:"questions"`
}

type GradeQuizRequest struct {
	UserID           string `json:"user_id" validate:"required"`
	QuizID           string `json:"quiz_id" validate:"required"`
	Answers          []int  `json:"answers" validate:"required"`
	LessonID         string `json:"lesson_id"`
	TimeSpentSeconds int    `json:"time_spent_seconds" validate:"min=0"`
}

type GradeQuizResponse struct {
	Result   grading.QuizResult `json:"result"`
	Feedback string             `json:"feedback"`
}

type ReviewWordRequest struct {
	UserID  string `json:"user_id" validate:"required"`
	WordID  string `json:"word_id" validate:"required"`
	Correct bool   `json:"correct"`
	// Quality is only read by the sm2 scheduler.
	Quality int `json:"quality" validate:"min=0,max=5"`
}

type ReviewWordResponse struct {
	Word vocabulary.Word `json:"word"`
}

type GetStudyPlanRequest struct {
	UserID   string `json:"user_id" validate:"required"`
	MaxWords int    `json:"max_words" validate:"min=0"`
}

type GetStudyPlanResponse struct {
	Words         []vocabulary.Word `json:"words"`
	Statistics    srs.Statistics    `json:"statistics"`
	RetentionRate float64           `json:"retention_rate"`
}

type GradeFillInBlankRequest struct {
	CorrectAnswer string `json:"correct_answer" validate:"required"`
	UserAnswer    string `json:"user_answer"`
}

type GradeFillInBlankResponse struct {
	Result grading.Result `json:"result"`
}

type GradeSpeakingRequest struct {
	Target     string `json:"target" validate:"required"`
	Transcript string `json:"transcript"`
}

type GradeSpeakingResponse struct {
	Result              grading.SpeakingResult `json:"result"`
	WordMatchPercentage float64                `json:"word_match_percentage"`
}

type GradeWritingRequest struct {
	UserID           string `json:"user_id" validate:"required"`
	Prompt           string `json:"prompt"`
	Text             string `json:"text" validate:"required"`
	LessonID         string `json:"lesson_id"`
	TimeSpentSeconds int    `json:"time_spent_seconds" validate:"min=0"`
}

type GradeWritingResponse struct {
	CorrectedText string            `json:"corrected_text"`
	Score         int               `json:"score"`
	Issues        []inference.Issue `json:"issues"`
	WeakAreas     []string          `json:"weak_areas"`
	Feedback      string            `json:"feedback"`
}
