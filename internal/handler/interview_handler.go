package handler

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/visen-app/visen-api/internal/dto"
	"github.com/visen-app/visen-api/internal/practice"
	"github.com/visen-app/visen-api/internal/repository"
	"github.com/visen-app/visen-api/internal/service"
	"github.com/visen-app/visen-api/internal/utils"
)

// InterviewHandler manages mock-interview session endpoints.
type InterviewHandler struct {
	service service.InterviewService
	logger  zerolog.Logger
}

// NewInterviewHandler builds an interview handler instance.
func NewInterviewHandler(service service.InterviewService, logger zerolog.Logger) *InterviewHandler {
	return &InterviewHandler{
		service: service,
		logger:  logger.With().Str("component", "interview_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *InterviewHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.create)
	router.Get("/:id", h.get)
	router.Post("/:id/questions/:index/answer", h.submitAnswer)
	router.Post("/:id/navigate", h.navigate)
}

func (h *InterviewHandler) create(c *fiber.Ctx) error {
	var payload dto.CreateInterviewRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	// A resume-linked session is requested by ID instead of raw job context.
	if resumeID := c.Query("resume_id"); resumeID != "" {
		session, err := h.service.CreateFromResume(c.Context(), resumeID)
		if err != nil {
			return h.handleError(c, err)
		}
		return utils.SendCreated(c, "interview session created", session)
	}

	session, err := h.service.CreateStandalone(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendCreated(c, "interview session created", session)
}

func (h *InterviewHandler) get(c *fiber.Ctx) error {
	session, err := h.service.Get(c.Context(), c.Params("id"))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "interview session retrieved", session)
}

func (h *InterviewHandler) list(c *fiber.Ctx) error {
	summaries, err := h.service.List(c.Context())
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "interview sessions retrieved", summaries)
}

func (h *InterviewHandler) submitAnswer(c *fiber.Ctx) error {
	index, err := strconv.Atoi(c.Params("index"))
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid question index")
	}

	var payload dto.SubmitAnswerRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.service.SubmitAnswer(c.Context(), c.Params("id"), index, payload.Answer)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "answer evaluated", result)
}

func (h *InterviewHandler) navigate(c *fiber.Ctx) error {
	var payload dto.NavigateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	state, err := h.service.Navigate(c.Context(), c.Params("id"), payload.Target)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "practice position updated", state)
}

func (h *InterviewHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, repository.ErrSessionNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "interview session not found")
	case errors.Is(err, repository.ErrRecordNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "resume not found")
	case errors.Is(err, service.ErrQuestionIndex):
		return utils.SendError(c, fiber.StatusBadRequest, "question index out of range")
	case errors.Is(err, service.ErrAnswerRequired):
		return utils.SendError(c, fiber.StatusBadRequest, "answer is required")
	case errors.Is(err, practice.ErrInvalidTransition):
		return utils.SendError(c, fiber.StatusConflict, "an evaluation is already in progress")
	case errors.Is(err, service.ErrEvaluationFailed), errors.Is(err, service.ErrGenerationFailed):
		return utils.SendError(c, fiber.StatusBadGateway, "interview assistant is temporarily unavailable")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
