package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/visen-app/visen-api/internal/dto"
	"github.com/visen-app/visen-api/internal/repository"
	"github.com/visen-app/visen-api/internal/service"
	"github.com/visen-app/visen-api/internal/utils"
)

// ResumeHandler manages resume ingestion and retrieval endpoints.
type ResumeHandler struct {
	service service.IngestService
	logger  zerolog.Logger
}

// NewResumeHandler builds a resume handler instance.
func NewResumeHandler(service service.IngestService, logger zerolog.Logger) *ResumeHandler {
	return &ResumeHandler{
		service: service,
		logger:  logger.With().Str("component", "resume_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *ResumeHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.analyze)
	router.Get("/:id", h.get)
}

func (h *ResumeHandler) analyze(c *fiber.Ctx) error {
	payload := dto.AnalyzeResumeRequest{
		CompanyName:    c.FormValue("company_name"),
		JobTitle:       c.FormValue("job_title"),
		JobDescription: c.FormValue("job_description"),
	}

	file, err := c.FormFile("resume")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "resume file is required")
	}

	record, err := h.service.Analyze(c.Context(), payload, file)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendCreated(c, "resume analyzed", record)
}

func (h *ResumeHandler) get(c *fiber.Ctx) error {
	record, err := h.service.Get(c.Context(), c.Params("id"))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "resume retrieved", record)
}

func (h *ResumeHandler) list(c *fiber.Ctx) error {
	summaries, err := h.service.List(c.Context())
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "resumes retrieved", summaries)
}

func (h *ResumeHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, repository.ErrRecordNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "resume not found")
	case errors.Is(err, service.ErrUnsupportedDocument):
		return utils.SendError(c, fiber.StatusUnsupportedMediaType, "uploaded document must be a PDF")
	case errors.Is(err, service.ErrDocumentTooLarge):
		return utils.SendError(c, fiber.StatusRequestEntityTooLarge, "uploaded document exceeds the size limit")
	case errors.Is(err, service.ErrUploadFailed), errors.Is(err, service.ErrConversionFailed):
		return utils.SendError(c, fiber.StatusBadGateway, "resume processing is temporarily unavailable")
	case errors.Is(err, service.ErrScoringFailed):
		return utils.SendError(c, fiber.StatusBadGateway, "resume analysis is temporarily unavailable")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
