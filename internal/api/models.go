package api

import (
	"github.com/google/uuid"
	"github.com/mindcraftr/mindcraftr-api/internal/service"
)

// DefaultUserID is the single fixed user the unauthenticated API serves.
// It matches the seeded user record.
var DefaultUserID = uuid.MustParse("00000000-0000-0000-0000-000000000001")

// DashboardStatsResponse carries dashboard aggregates. The fields are
// untyped because a user with no results receives the string "N/A" in
// every field, while an active user receives numbers.
type DashboardStatsResponse struct {
	TestsTaken        any `json:"testsTaken"`
	AverageScore      any `json:"averageScore"`
	HighestScore      any `json:"highestScore"`
	QuestionsAnswered any `json:"questionsAnswered"`
}

// RecommendationResponse is one dashboard recommendation entry.
type RecommendationResponse struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Summary string `json:"summary"`
}

// TopicExampleResponse is the worked example within a topic detail.
type TopicExampleResponse struct {
	Title       string `json:"title"`
	Code        string `json:"code"`
	Explanation string `json:"explanation"`
}

// TopicDetailsResponse is the full topic detail page payload.
type TopicDetailsResponse struct {
	ID             string               `json:"id"`
	Title          string               `json:"title"`
	Summary        string               `json:"summary"`
	KeyConcepts    []string             `json:"keyConcepts"`
	CommonPitfalls []string             `json:"commonPitfalls"`
	Example        TopicExampleResponse `json:"example"`
}

// FlashcardResponse is one flashcard entry.
type FlashcardResponse struct {
	ID    string `json:"id"`
	Front string `json:"front"`
	Back  string `json:"back"`
}

// ProfileStatsResponse carries profile statistics. TotalStudyTime is
// pre-formatted as "Xh Ym". The achievement counts are fixed values the
// frontend displays as-is.
type ProfileStatsResponse struct {
	TotalStudyTime       string `json:"totalStudyTime"`
	TestsCompleted       int    `json:"testsCompleted"`
	HighestScore         int    `json:"highestScore"`
	AchievementsUnlocked int    `json:"achievementsUnlocked"`
	TotalAchievements    int    `json:"totalAchievements"`
}

// MasteryResponse is one topic mastery entry.
type MasteryResponse struct {
	Topic   string  `json:"topic"`
	Mastery float64 `json:"mastery"`
}

// PresetResponse is one preset exam entry.
type PresetResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// GenerateTestRequest is the request body for POST /tests/generate.
// The count and duration fields reject negatives; zero means "use the
// default", so it stays valid.
type GenerateTestRequest struct {
	ExamName        string `json:"examName"`
	ExamType        string `json:"examType"`
	SyllabusText    string `json:"syllabusText"`
	Difficulty      string `json:"difficulty"`
	DurationMinutes int    `json:"durationMinutes" validate:"gte=0"`
	NumQuestions    int    `json:"numQuestions"    validate:"gte=0,lte=200"`
	QuestionFormat  string `json:"questionFormat"`
}

// SubmitTestRequest is the request body for POST /tests/submit.
type SubmitTestRequest struct {
	TestID          string                    `json:"testId"`
	TestName        string                    `json:"testName"`
	DurationSeconds int                       `json:"durationSeconds" validate:"gte=0"`
	Answers         []service.SubmittedAnswer `json:"answers"`
}

// TestResultResponse is the graded submission payload returned by the
// submit and results endpoints.
type TestResultResponse struct {
	ID                string   `json:"id"`
	TestID            string   `json:"testId,omitempty"`
	TestName          string   `json:"testName"`
	Score             int      `json:"score"`
	CorrectAnswers    int      `json:"correctAnswers"`
	TotalQuestions    int      `json:"totalQuestions"`
	QuestionsAnswered int      `json:"questionsAnswered"`
	DurationSeconds   int      `json:"durationSeconds"`
	Strengths         []string `json:"strengths"`
	Weaknesses        []string `json:"weaknesses"`
	Summary           string   `json:"summary"`
	GradedBy          string   `json:"gradedBy"`
	CompletedAt       string   `json:"completedAt"`
}
