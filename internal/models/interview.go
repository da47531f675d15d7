package models

import (
	"math"
	"strings"
	"time"
)

// Question categories.
const (
	CategoryBehavioral  = "behavioral"
	CategoryTechnical   = "technical"
	CategorySituational = "situational"
)

// Question difficulties.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// Evaluation is the structured per-answer scoring payload returned by the
// model.
type Evaluation struct {
	Score           int      `json:"score"`
	Strengths       []string `json:"strengths"`
	Improvements    []string `json:"improvements"`
	SuggestedAnswer string   `json:"suggestedAnswer"`
}

// Question is one generated interview question together with the candidate's
// progress on it. Score and Feedback are set together after evaluation, and
// only once an answer is present.
type Question struct {
	ID         string      `json:"id"`
	Question   string      `json:"question"`
	Category   string      `json:"category"`
	Difficulty string      `json:"difficulty"`
	Tips       []string    `json:"tips"`
	Answer     string      `json:"answer,omitempty"`
	Score      *int        `json:"score,omitempty"`
	Feedback   *Evaluation `json:"feedback,omitempty"`
}

// Answered reports whether the question carries a non-empty answer.
func (q Question) Answered() bool {
	return strings.TrimSpace(q.Answer) != ""
}

// InterviewSession is one mock-interview practice run. Stored under key
// "interview:<id>". Question order is significant and must never change
// after generation; answers are matched to questions by index.
type InterviewSession struct {
	ID                string     `json:"id"`
	ResumeID          string     `json:"resumeId,omitempty"`
	JobTitle          string     `json:"jobTitle"`
	CompanyName       string     `json:"companyName,omitempty"`
	JobDescription    string     `json:"jobDescription,omitempty"`
	NumberOfQuestions int        `json:"numberOfQuestions"`
	CreatedAt         time.Time  `json:"createdAt"`
	Questions         []Question `json:"questions"`
	QuestionsAnswered int        `json:"questionsAnswered"`
	AverageScore      int        `json:"averageScore"`
	Completed         bool       `json:"completed"`
}

// Recalculate refreshes the aggregate counters after a scoring event.
// QuestionsAnswered counts questions with a non-empty answer, AverageScore
// is the rounded mean over scored questions (0 when nothing is scored yet),
// and Completed is derived: every question answered.
func (s *InterviewSession) Recalculate() {
	answered := 0
	scored := 0
	total := 0
	for _, q := range s.Questions {
		if q.Answered() {
			answered++
		}
		if q.Score != nil {
			scored++
			total += *q.Score
		}
	}

	s.QuestionsAnswered = answered
	if scored == 0 {
		s.AverageScore = 0
	} else {
		s.AverageScore = int(math.Round(float64(total) / float64(scored)))
	}
	s.Completed = len(s.Questions) > 0 && answered == len(s.Questions)
}
