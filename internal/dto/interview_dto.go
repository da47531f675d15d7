package dto

import (
	"time"

	"github.com/visen-app/visen-api/internal/models"
)

// CreateInterviewRequest is the payload for a standalone practice session.
type CreateInterviewRequest struct {
	JobTitle          string `json:"jobTitle" validate:"required"`
	JobDescription    string `json:"jobDescription" validate:"required"`
	NumberOfQuestions int    `json:"numberOfQuestions" validate:"omitempty,min=5,max=20"`
}

// SubmitAnswerRequest carries one free-text answer for evaluation.
type SubmitAnswerRequest struct {
	Answer string `json:"answer" validate:"required"`
}

// NavigateRequest moves the practice cursor to another question.
type NavigateRequest struct {
	Target int `json:"target"`
}

// PracticeState is the transient navigation state of one practice run.
type PracticeState struct {
	State          string  `json:"state"`
	Index          int     `json:"index"`
	ElapsedSeconds float64 `json:"elapsedSeconds"`
}

// AnswerResult pairs the refreshed session with the evaluation for the
// answer just submitted.
type AnswerResult struct {
	Session    models.InterviewSession `json:"session"`
	Evaluation models.Evaluation       `json:"evaluation"`
}

// SessionSummary is the list-view projection of an interview session.
type SessionSummary struct {
	ID                string    `json:"id"`
	ResumeID          string    `json:"resumeId,omitempty"`
	JobTitle          string    `json:"jobTitle"`
	CompanyName       string    `json:"companyName,omitempty"`
	NumberOfQuestions int       `json:"numberOfQuestions"`
	QuestionsAnswered int       `json:"questionsAnswered"`
	AverageScore      int       `json:"averageScore"`
	Completed         bool      `json:"completed"`
	CreatedAt         time.Time `json:"createdAt"`
}

// NewSessionSummary projects a session into its list view.
func NewSessionSummary(session models.InterviewSession) SessionSummary {
	return SessionSummary{
		ID:                session.ID,
		ResumeID:          session.ResumeID,
		JobTitle:          session.JobTitle,
		CompanyName:       session.CompanyName,
		NumberOfQuestions: session.NumberOfQuestions,
		QuestionsAnswered: session.QuestionsAnswered,
		AverageScore:      session.AverageScore,
		Completed:         session.Completed,
		CreatedAt:         session.CreatedAt,
	}
}
