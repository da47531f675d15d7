package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/visen-app/visen-api/internal/dto"
	"github.com/visen-app/visen-api/internal/models"
	"github.com/visen-app/visen-api/internal/modelout"
	"github.com/visen-app/visen-api/internal/observability"
	"github.com/visen-app/visen-api/internal/practice"
	"github.com/visen-app/visen-api/internal/prompts"
	"github.com/visen-app/visen-api/internal/repository"
	"github.com/visen-app/visen-api/internal/utils"
	"github.com/visen-app/visen-api/pkg/ai"
)

const defaultQuestionCount = 10

var (
	// ErrQuestionIndex indicates the question position is outside the session.
	ErrQuestionIndex = errors.New("question index out of range")
	// ErrAnswerRequired indicates the submitted answer was empty.
	ErrAnswerRequired = errors.New("answer is required")
	// ErrEvaluationFailed indicates the model could not score the answer. The
	// session is left untouched so the candidate can retry.
	ErrEvaluationFailed = errors.New("answer evaluation failed")
	// ErrGenerationFailed indicates the model could not produce a question set.
	ErrGenerationFailed = errors.New("question generation failed")
)

// InterviewService manages mock-interview sessions: generation, answer
// evaluation, and per-session practice navigation.
type InterviewService interface {
	CreateStandalone(ctx context.Context, payload dto.CreateInterviewRequest) (models.InterviewSession, error)
	CreateFromResume(ctx context.Context, resumeID string) (models.InterviewSession, error)
	Get(ctx context.Context, id string) (models.InterviewSession, error)
	List(ctx context.Context) ([]dto.SessionSummary, error)
	SubmitAnswer(ctx context.Context, sessionID string, index int, answer string) (dto.AnswerResult, error)
	Navigate(ctx context.Context, sessionID string, target int) (dto.PracticeState, error)
}

type interviewService struct {
	sessions  repository.SessionRepository
	resumes   repository.ResumeRepository
	chat      ai.ChatClient
	parser    *modelout.Parser
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	tracer    trace.Tracer
	logger    zerolog.Logger
	now       func() time.Time

	mu       sync.Mutex
	machines map[string]*practice.Machine
}

// NewInterviewService constructs an InterviewService instance.
func NewInterviewService(
	sessions repository.SessionRepository,
	resumes repository.ResumeRepository,
	chat ai.ChatClient,
	parser *modelout.Parser,
	validate *validator.Validate,
	logger zerolog.Logger,
) InterviewService {
	return &interviewService{
		sessions:  sessions,
		resumes:   resumes,
		chat:      chat,
		parser:    parser,
		validator: validate,
		sanitizer: bluemonday.StrictPolicy(),
		tracer:    otel.Tracer("visen/interview"),
		logger:    logger.With().Str("component", "interview_service").Logger(),
		now:       time.Now,
		machines:  make(map[string]*practice.Machine),
	}
}

// CreateStandalone generates a session from raw job context. The question
// count defaults to ten when omitted.
func (s *interviewService) CreateStandalone(ctx context.Context, payload dto.CreateInterviewRequest) (models.InterviewSession, error) {
	ctx, span := s.tracer.Start(ctx, "interview.create_standalone")
	defer span.End()

	if err := s.validator.Struct(payload); err != nil {
		return models.InterviewSession{}, err
	}

	count := payload.NumberOfQuestions
	if count == 0 {
		count = defaultQuestionCount
	}

	jobTitle := s.sanitizer.Sanitize(payload.JobTitle)
	jobDescription := s.sanitizer.Sanitize(payload.JobDescription)

	questions, err := s.generate(ctx, prompts.StandaloneQuestions(jobTitle, jobDescription, count))
	if err != nil {
		return models.InterviewSession{}, err
	}

	session := models.InterviewSession{
		JobTitle:          jobTitle,
		JobDescription:    jobDescription,
		NumberOfQuestions: len(questions),
		Questions:         questions,
	}
	session.Recalculate()

	if err := s.sessions.Create(ctx, &session); err != nil {
		return models.InterviewSession{}, err
	}

	s.logger.Info().Str("session_id", session.ID).Int("questions", len(questions)).Msg("interview session created")

	return session, nil
}

// CreateFromResume generates a session grounded in an analyzed resume, with a
// fixed behavioral/technical/situational mix.
func (s *interviewService) CreateFromResume(ctx context.Context, resumeID string) (models.InterviewSession, error) {
	ctx, span := s.tracer.Start(ctx, "interview.create_from_resume")
	defer span.End()

	record, err := s.resumes.Get(ctx, resumeID)
	if err != nil {
		return models.InterviewSession{}, err
	}

	questions, err := s.generate(ctx, prompts.ResumeLinkedQuestions(record))
	if err != nil {
		return models.InterviewSession{}, err
	}

	session := models.InterviewSession{
		ResumeID:          record.ID,
		JobTitle:          record.JobTitle,
		CompanyName:       record.CompanyName,
		JobDescription:    record.JobDescription,
		NumberOfQuestions: len(questions),
		Questions:         questions,
	}
	session.Recalculate()

	if err := s.sessions.Create(ctx, &session); err != nil {
		return models.InterviewSession{}, err
	}

	s.logger.Info().Str("session_id", session.ID).Str("resume_id", record.ID).Msg("resume-linked session created")

	return session, nil
}

func (s *interviewService) Get(ctx context.Context, id string) (models.InterviewSession, error) {
	return s.sessions.Get(ctx, id)
}

func (s *interviewService) List(ctx context.Context) ([]dto.SessionSummary, error) {
	sessions, err := s.sessions.List(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]dto.SessionSummary, 0, len(sessions))
	for _, session := range sessions {
		summaries = append(summaries, dto.NewSessionSummary(session))
	}

	return summaries, nil
}

// SubmitAnswer scores one free-text answer against its question. A model or
// parse failure leaves the session unchanged and keeps the answer buffered in
// the practice machine so the candidate can retry.
func (s *interviewService) SubmitAnswer(ctx context.Context, sessionID string, index int, answer string) (dto.AnswerResult, error) {
	ctx, span := s.tracer.Start(ctx, "interview.submit_answer")
	defer span.End()

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return dto.AnswerResult{}, err
	}
	if index < 0 || index >= len(session.Questions) {
		return dto.AnswerResult{}, ErrQuestionIndex
	}

	answer = strings.TrimSpace(s.sanitizer.Sanitize(answer))
	if answer == "" {
		return dto.AnswerResult{}, ErrAnswerRequired
	}

	machine, err := s.machineFor(session)
	if err != nil {
		return dto.AnswerResult{}, err
	}
	if _, err := machine.Navigate(index); err != nil {
		return dto.AnswerResult{}, err
	}
	if err := machine.StartAnswer(); err != nil {
		return dto.AnswerResult{}, err
	}
	if err := machine.Append(answer); err != nil {
		return dto.AnswerResult{}, err
	}
	if _, err := machine.BeginEvaluation(); err != nil {
		return dto.AnswerResult{}, err
	}

	evaluation, err := s.evaluate(ctx, session.Questions[index], answer)
	if err != nil {
		observability.Evaluations().WithLabelValues("failure").Inc()
		if failErr := machine.FailEvaluation(); failErr != nil {
			s.logger.Warn().Err(failErr).Msg("could not roll back practice state")
		}
		return dto.AnswerResult{}, err
	}

	if err := machine.CompleteEvaluation(); err != nil {
		return dto.AnswerResult{}, err
	}

	score := evaluation.Score
	session.Questions[index].Answer = answer
	session.Questions[index].Score = &score
	session.Questions[index].Feedback = &evaluation
	session.Recalculate()

	if err := s.sessions.Save(ctx, session); err != nil {
		return dto.AnswerResult{}, err
	}

	observability.Evaluations().WithLabelValues("success").Inc()
	s.logger.Info().
		Str("session_id", session.ID).
		Int("question_index", index).
		Int("score", score).
		Bool("completed", session.Completed).
		Msg("answer evaluated")

	return dto.AnswerResult{Session: session, Evaluation: evaluation}, nil
}

// Navigate moves the practice cursor for a session and reports the resulting
// transient state.
func (s *interviewService) Navigate(ctx context.Context, sessionID string, target int) (dto.PracticeState, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return dto.PracticeState{}, err
	}

	machine, err := s.machineFor(session)
	if err != nil {
		return dto.PracticeState{}, err
	}

	index, err := machine.Navigate(target)
	if err != nil {
		return dto.PracticeState{}, err
	}

	return dto.PracticeState{
		State:          string(machine.State()),
		Index:          index,
		ElapsedSeconds: machine.Elapsed().Seconds(),
	}, nil
}

// machineFor returns the in-memory practice machine for a session, creating
// it on first use. Machine state is transient and local to this process.
func (s *interviewService) machineFor(session models.InterviewSession) (*practice.Machine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if machine, ok := s.machines[session.ID]; ok {
		return machine, nil
	}

	machine, err := practice.NewMachine(len(session.Questions), s.now)
	if err != nil {
		return nil, err
	}
	s.machines[session.ID] = machine

	return machine, nil
}

func (s *interviewService) generate(ctx context.Context, prompt string) ([]models.Question, error) {
	raw, err := s.chat.Chat(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	generated, err := s.parser.ParseQuestions(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	if len(generated) == 0 {
		return nil, fmt.Errorf("%w: model returned no questions", ErrGenerationFailed)
	}

	questions := make([]models.Question, 0, len(generated))
	for _, q := range generated {
		questions = append(questions, models.Question{
			ID:         utils.GenerateID(),
			Question:   q.Question,
			Category:   q.Category,
			Difficulty: q.Difficulty,
			Tips:       q.Tips,
		})
	}

	return questions, nil
}

func (s *interviewService) evaluate(ctx context.Context, question models.Question, answer string) (models.Evaluation, error) {
	raw, err := s.chat.Chat(ctx, prompts.AnswerEvaluation(question, answer))
	if err != nil {
		return models.Evaluation{}, fmt.Errorf("%w: %v", ErrEvaluationFailed, err)
	}

	evaluation, err := s.parser.ParseEvaluation(raw)
	if err != nil {
		return models.Evaluation{}, fmt.Errorf("%w: %v", ErrEvaluationFailed, err)
	}

	return evaluation, nil
}
