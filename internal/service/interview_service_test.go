package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/visen-app/visen-api/internal/dto"
	"github.com/visen-app/visen-api/internal/modelout"
	"github.com/visen-app/visen-api/internal/models"
	"github.com/visen-app/visen-api/internal/repository"
)

func questionsResponse(count int) string {
	items := ""
	for i := 0; i < count; i++ {
		if i > 0 {
			items += ","
		}
		items += fmt.Sprintf(`{
  "question": "Question %d?",
  "category": "behavioral",
  "difficulty": "medium",
  "tips": ["Be specific", "Use examples"]
}`, i+1)
	}
	return "```json\n[" + items + "]\n```"
}

const evaluationResponse = "```json\n" + `{
  "score": 85,
  "strengths": ["Clear structure"],
  "improvements": ["Add metrics"],
  "suggestedAnswer": "A stronger version would quantify the outcome."
}` + "\n```"

func newInterviewFixture(t *testing.T, chat *stubChat) (InterviewService, *memorySessionRepo, *memoryResumeRepo) {
	t.Helper()

	parser, err := modelout.NewParser()
	require.NoError(t, err)

	sessions := newMemorySessionRepo()
	resumes := newMemoryResumeRepo()
	validate := validator.New(validator.WithRequiredStructEnabled())

	svc := NewInterviewService(sessions, resumes, chat, parser, validate, testLogger())

	return svc, sessions, resumes
}

func TestCreateStandaloneDefaultsToTenQuestions(t *testing.T) {
	chat := &stubChat{responses: []string{questionsResponse(10)}}
	svc, sessions, _ := newInterviewFixture(t, chat)

	session, err := svc.CreateStandalone(context.Background(), dto.CreateInterviewRequest{
		JobTitle:       "Platform Engineer",
		JobDescription: "Own the deployment pipeline.",
	})
	require.NoError(t, err)
	require.NotEmpty(t, session.ID)
	require.Len(t, session.Questions, 10)
	require.Equal(t, 10, session.NumberOfQuestions)
	require.False(t, session.Completed)
	require.Zero(t, session.AverageScore)

	for _, q := range session.Questions {
		require.NotEmpty(t, q.ID)
		require.NotEmpty(t, q.Question)
	}

	require.Contains(t, chat.prompts[0], "Generate 10 interview questions")
	require.Contains(t, chat.prompts[0], "Platform Engineer")

	_, err = sessions.Get(context.Background(), session.ID)
	require.NoError(t, err)
}

func TestCreateStandaloneValidatesQuestionCount(t *testing.T) {
	svc, _, _ := newInterviewFixture(t, &stubChat{})

	_, err := svc.CreateStandalone(context.Background(), dto.CreateInterviewRequest{
		JobTitle:          "Engineer",
		JobDescription:    "Build things.",
		NumberOfQuestions: 3,
	})
	require.Error(t, err)

	var validationErrs validator.ValidationErrors
	require.ErrorAs(t, err, &validationErrs)
}

func TestCreateStandaloneMalformedModelOutput(t *testing.T) {
	chat := &stubChat{responses: []string{"no json here"}}
	svc, sessions, _ := newInterviewFixture(t, chat)

	_, err := svc.CreateStandalone(context.Background(), dto.CreateInterviewRequest{
		JobTitle:       "Engineer",
		JobDescription: "Build things.",
	})
	require.ErrorIs(t, err, ErrGenerationFailed)

	stored, err := sessions.List(context.Background())
	require.NoError(t, err)
	require.Empty(t, stored)
}

func TestCreateFromResumeLinksSession(t *testing.T) {
	chat := &stubChat{responses: []string{questionsResponse(10)}}
	svc, _, resumes := newInterviewFixture(t, chat)

	record := models.ResumeRecord{
		CompanyName:    "Acme",
		JobTitle:       "Backend Engineer",
		JobDescription: "Design and operate Go services.",
	}
	require.NoError(t, resumes.Create(context.Background(), &record))

	session, err := svc.CreateFromResume(context.Background(), record.ID)
	require.NoError(t, err)
	require.Equal(t, record.ID, session.ResumeID)
	require.Equal(t, "Backend Engineer", session.JobTitle)
	require.Equal(t, "Acme", session.CompanyName)
	require.Len(t, session.Questions, 10)

	require.Contains(t, chat.prompts[0], "4 behavioral questions")
	require.Contains(t, chat.prompts[0], "Acme")
}

func TestCreateFromResumeUnknownRecord(t *testing.T) {
	svc, _, _ := newInterviewFixture(t, &stubChat{})

	_, err := svc.CreateFromResume(context.Background(), "missing")
	require.ErrorIs(t, err, repository.ErrRecordNotFound)
}

func TestSubmitAnswerScoresAndPersists(t *testing.T) {
	chat := &stubChat{responses: []string{questionsResponse(3), evaluationResponse}}
	svc, sessions, _ := newInterviewFixture(t, chat)

	session, err := svc.CreateStandalone(context.Background(), dto.CreateInterviewRequest{
		JobTitle:          "Engineer",
		JobDescription:    "Build things.",
		NumberOfQuestions: 5,
	})
	require.NoError(t, err)

	result, err := svc.SubmitAnswer(context.Background(), session.ID, 1, "I led the migration and cut latency by 40%.")
	require.NoError(t, err)
	require.Equal(t, 85, result.Evaluation.Score)
	require.Equal(t, 1, result.Session.QuestionsAnswered)
	require.Equal(t, 85, result.Session.AverageScore)
	require.False(t, result.Session.Completed)

	stored, err := sessions.Get(context.Background(), session.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.Questions[1].Score)
	require.Equal(t, 85, *stored.Questions[1].Score)
	require.Equal(t, "I led the migration and cut latency by 40%.", stored.Questions[1].Answer)
	require.NotNil(t, stored.Questions[1].Feedback)

	// Untouched questions keep their order and stay unanswered.
	require.Empty(t, stored.Questions[0].Answer)
	require.Empty(t, stored.Questions[2].Answer)
}

func TestSubmitAnswerCompletesSession(t *testing.T) {
	chat := &stubChat{responses: []string{questionsResponse(2), evaluationResponse}}
	svc, sessions, _ := newInterviewFixture(t, chat)

	session, err := svc.CreateStandalone(context.Background(), dto.CreateInterviewRequest{
		JobTitle:       "Engineer",
		JobDescription: "Build things.",
	})
	require.NoError(t, err)

	for i := range session.Questions {
		result, err := svc.SubmitAnswer(context.Background(), session.ID, i, "A thorough answer with detail.")
		require.NoError(t, err)
		if i == len(session.Questions)-1 {
			require.True(t, result.Session.Completed)
		} else {
			require.False(t, result.Session.Completed)
		}
	}

	stored, err := sessions.Get(context.Background(), session.ID)
	require.NoError(t, err)
	require.True(t, stored.Completed)
	require.Equal(t, len(stored.Questions), stored.QuestionsAnswered)
	require.Equal(t, 85, stored.AverageScore)
}

func TestSubmitAnswerIndexOutOfRange(t *testing.T) {
	chat := &stubChat{responses: []string{questionsResponse(2)}}
	svc, _, _ := newInterviewFixture(t, chat)

	session, err := svc.CreateStandalone(context.Background(), dto.CreateInterviewRequest{
		JobTitle:       "Engineer",
		JobDescription: "Build things.",
	})
	require.NoError(t, err)

	_, err = svc.SubmitAnswer(context.Background(), session.ID, 5, "answer")
	require.ErrorIs(t, err, ErrQuestionIndex)

	_, err = svc.SubmitAnswer(context.Background(), session.ID, -1, "answer")
	require.ErrorIs(t, err, ErrQuestionIndex)
}

func TestSubmitAnswerRejectsEmptyAnswer(t *testing.T) {
	chat := &stubChat{responses: []string{questionsResponse(2)}}
	svc, _, _ := newInterviewFixture(t, chat)

	session, err := svc.CreateStandalone(context.Background(), dto.CreateInterviewRequest{
		JobTitle:       "Engineer",
		JobDescription: "Build things.",
	})
	require.NoError(t, err)

	_, err = svc.SubmitAnswer(context.Background(), session.ID, 0, "   ")
	require.ErrorIs(t, err, ErrAnswerRequired)
}

func TestSubmitAnswerEvaluationFailureLeavesSessionUntouched(t *testing.T) {
	chat := &stubChat{responses: []string{questionsResponse(2), "broken output", evaluationResponse}}
	svc, sessions, _ := newInterviewFixture(t, chat)

	session, err := svc.CreateStandalone(context.Background(), dto.CreateInterviewRequest{
		JobTitle:       "Engineer",
		JobDescription: "Build things.",
	})
	require.NoError(t, err)

	_, err = svc.SubmitAnswer(context.Background(), session.ID, 0, "My answer.")
	require.ErrorIs(t, err, ErrEvaluationFailed)

	stored, err := sessions.Get(context.Background(), session.ID)
	require.NoError(t, err)
	require.Zero(t, stored.QuestionsAnswered)
	require.Empty(t, stored.Questions[0].Answer)

	// A retry with a healthy model succeeds.
	result, err := svc.SubmitAnswer(context.Background(), session.ID, 0, "My answer.")
	require.NoError(t, err)
	require.Equal(t, 85, result.Evaluation.Score)
}

func TestNavigateClampsToRange(t *testing.T) {
	chat := &stubChat{responses: []string{questionsResponse(3)}}
	svc, _, _ := newInterviewFixture(t, chat)

	session, err := svc.CreateStandalone(context.Background(), dto.CreateInterviewRequest{
		JobTitle:       "Engineer",
		JobDescription: "Build things.",
	})
	require.NoError(t, err)

	state, err := svc.Navigate(context.Background(), session.ID, 99)
	require.NoError(t, err)
	require.Equal(t, 2, state.Index)
	require.Equal(t, "viewing", state.State)

	state, err = svc.Navigate(context.Background(), session.ID, -4)
	require.NoError(t, err)
	require.Equal(t, 0, state.Index)
}

func TestListProjectsSessionSummaries(t *testing.T) {
	chat := &stubChat{responses: []string{questionsResponse(2)}}
	svc, _, _ := newInterviewFixture(t, chat)

	session, err := svc.CreateStandalone(context.Background(), dto.CreateInterviewRequest{
		JobTitle:       "Engineer",
		JobDescription: "Build things.",
	})
	require.NoError(t, err)

	summaries, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	require.Equal(t, session.ID, summaries[0].ID)
	require.Equal(t, 2, summaries[0].NumberOfQuestions)
	require.False(t, summaries[0].Completed)
}
