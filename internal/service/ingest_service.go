package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"mime/multipart"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/visen-app/visen-api/internal/dto"
	"github.com/visen-app/visen-api/internal/models"
	"github.com/visen-app/visen-api/internal/modelout"
	"github.com/visen-app/visen-api/internal/observability"
	"github.com/visen-app/visen-api/internal/progress"
	"github.com/visen-app/visen-api/internal/prompts"
	"github.com/visen-app/visen-api/internal/repository"
	"github.com/visen-app/visen-api/internal/utils"
	"github.com/visen-app/visen-api/pkg/ai"
	"github.com/visen-app/visen-api/pkg/rasterize"
)

// Stage identifies a step of the resume ingestion pipeline.
type Stage string

const (
	StageUploading        Stage = "uploading"
	StageConverting       Stage = "converting"
	StageUploadingPreview Stage = "uploading_preview"
	StageSavingDraft      Stage = "saving_draft"
	StageScoring          Stage = "scoring"
	StageSavingFinal      Stage = "saving_final"
	StageDone             Stage = "done"
	StageFailed           Stage = "failed"
)

// stageStatus is the human-readable progress line published at each stage.
var stageStatus = map[Stage]string{
	StageUploading:        "Uploading file...",
	StageConverting:       "Converting to image...",
	StageUploadingPreview: "Uploading the image...",
	StageSavingDraft:      "Preparing data...",
	StageScoring:          "Analyzing...",
	StageSavingFinal:      "Saving results...",
	StageDone:             "Analysis complete, redirecting...",
}

// failureStatus is the terminal status line when a stage fails.
var failureStatus = map[Stage]string{
	StageUploading:        "Error: Failed to upload file",
	StageConverting:       "Error: Failed to convert image",
	StageUploadingPreview: "Error: Failed to upload image",
	StageSavingDraft:      "Error: Failed to prepare data",
	StageScoring:          "Error: Failed to analyze resume",
	StageSavingFinal:      "Error: Failed to save results",
}

var (
	// ErrUploadFailed indicates object storage rejected an artifact.
	ErrUploadFailed = errors.New("artifact upload failed")
	// ErrConversionFailed indicates rasterization produced no usable image.
	ErrConversionFailed = errors.New("document conversion failed")
	// ErrUnsupportedDocument indicates the uploaded file is not a PDF.
	ErrUnsupportedDocument = errors.New("uploaded document must be a PDF")
	// ErrDocumentTooLarge indicates the uploaded file exceeds the size limit.
	ErrDocumentTooLarge = errors.New("uploaded document exceeds the size limit")
	// ErrScoringFailed indicates the model could not produce usable feedback.
	ErrScoringFailed = errors.New("resume scoring failed")
)

// ObjectStorage stores uploaded artifacts and serves them back by path.
type ObjectStorage interface {
	Upload(ctx context.Context, name string, reader io.Reader) (string, error)
	Read(ctx context.Context, path string) ([]byte, error)
}

// IngestService runs the resume ingestion pipeline: store the document,
// render a preview, persist a draft record, then score it with the model.
type IngestService interface {
	Analyze(ctx context.Context, payload dto.AnalyzeResumeRequest, file *multipart.FileHeader) (models.ResumeRecord, error)
	Get(ctx context.Context, id string) (models.ResumeRecord, error)
	List(ctx context.Context) ([]dto.ResumeSummary, error)
}

type ingestService struct {
	resumes   repository.ResumeRepository
	storage   ObjectStorage
	converter rasterize.Converter
	chat      ai.ChatClient
	parser    *modelout.Parser
	publisher progress.Publisher
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	tracer    trace.Tracer
	logger    zerolog.Logger
	maxBytes  int64
	now       func() time.Time
}

// NewIngestService constructs an IngestService instance. maxUploadMB bounds
// the accepted document size.
func NewIngestService(
	resumes repository.ResumeRepository,
	storage ObjectStorage,
	converter rasterize.Converter,
	chat ai.ChatClient,
	parser *modelout.Parser,
	publisher progress.Publisher,
	validate *validator.Validate,
	logger zerolog.Logger,
	maxUploadMB int64,
) IngestService {
	if maxUploadMB <= 0 {
		maxUploadMB = 20
	}

	return &ingestService{
		resumes:   resumes,
		storage:   storage,
		converter: converter,
		chat:      chat,
		parser:    parser,
		publisher: publisher,
		validator: validate,
		sanitizer: bluemonday.StrictPolicy(),
		tracer:    otel.Tracer("visen/ingest"),
		logger:    logger.With().Str("component", "ingest_service").Logger(),
		maxBytes:  maxUploadMB << 20,
		now:       time.Now,
	}
}

// Analyze runs the full pipeline for one uploaded resume. The draft record is
// persisted before scoring so a model failure still leaves a browsable entry.
func (s *ingestService) Analyze(ctx context.Context, payload dto.AnalyzeResumeRequest, file *multipart.FileHeader) (models.ResumeRecord, error) {
	ctx, span := s.tracer.Start(ctx, "ingest.analyze")
	defer span.End()

	started := s.now()
	defer func() {
		observability.IngestDuration().Observe(s.now().Sub(started).Seconds())
	}()

	if err := s.validator.Struct(payload); err != nil {
		return models.ResumeRecord{}, err
	}
	if file == nil {
		return models.ResumeRecord{}, fmt.Errorf("resume file is required")
	}
	if file.Size > s.maxBytes {
		return models.ResumeRecord{}, ErrDocumentTooLarge
	}

	payload.CompanyName = s.sanitizer.Sanitize(payload.CompanyName)
	payload.JobTitle = s.sanitizer.Sanitize(payload.JobTitle)
	payload.JobDescription = s.sanitizer.Sanitize(payload.JobDescription)

	document, err := readUpload(file)
	if err != nil {
		return models.ResumeRecord{}, err
	}
	if !mimetype.Detect(document).Is("application/pdf") {
		return models.ResumeRecord{}, ErrUnsupportedDocument
	}
	s.logger.Debug().Str("filename", file.Filename).Str("size", utils.FormatSize(file.Size)).Msg("document accepted")

	// The ID is assigned up front so every progress update can carry it.
	record := models.ResumeRecord{
		ID:             utils.GenerateID(),
		CompanyName:    payload.CompanyName,
		JobTitle:       payload.JobTitle,
		JobDescription: payload.JobDescription,
	}

	s.advance(ctx, record.ID, StageUploading)
	record.ResumePath, err = s.storage.Upload(ctx, file.Filename, bytes.NewReader(document))
	if err != nil {
		return models.ResumeRecord{}, s.fail(ctx, record.ID, StageUploading, fmt.Errorf("%w: %v", ErrUploadFailed, err))
	}

	s.advance(ctx, record.ID, StageConverting)
	preview, err := s.converter.Convert(ctx, document)
	if err != nil {
		return models.ResumeRecord{}, s.fail(ctx, record.ID, StageConverting, fmt.Errorf("%w: %v", ErrConversionFailed, err))
	}

	s.advance(ctx, record.ID, StageUploadingPreview)
	record.ImagePath, err = s.storage.Upload(ctx, previewName(file.Filename), bytes.NewReader(preview))
	if err != nil {
		return models.ResumeRecord{}, s.fail(ctx, record.ID, StageUploadingPreview, fmt.Errorf("%w: %v", ErrUploadFailed, err))
	}

	s.advance(ctx, record.ID, StageSavingDraft)
	if err := s.resumes.Create(ctx, &record); err != nil {
		return models.ResumeRecord{}, s.fail(ctx, record.ID, StageSavingDraft, err)
	}

	s.advance(ctx, record.ID, StageScoring)
	feedback, err := s.score(ctx, record)
	if err != nil {
		// The draft stays stored; the caller can retry scoring later.
		return record, s.fail(ctx, record.ID, StageScoring, err)
	}

	s.advance(ctx, record.ID, StageSavingFinal)
	record, err = s.resumes.AttachFeedback(ctx, record.ID, feedback)
	if err != nil {
		return models.ResumeRecord{}, s.fail(ctx, record.ID, StageSavingFinal, err)
	}

	s.advance(ctx, record.ID, StageDone)
	s.logger.Info().Str("record_id", record.ID).Int("overall_score", feedback.OverallScore).Msg("resume ingested")

	return record, nil
}

func (s *ingestService) Get(ctx context.Context, id string) (models.ResumeRecord, error) {
	return s.resumes.Get(ctx, id)
}

func (s *ingestService) List(ctx context.Context) ([]dto.ResumeSummary, error) {
	records, err := s.resumes.List(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]dto.ResumeSummary, 0, len(records))
	for _, record := range records {
		summaries = append(summaries, dto.NewResumeSummary(record))
	}

	return summaries, nil
}

func (s *ingestService) score(ctx context.Context, record models.ResumeRecord) (models.Feedback, error) {
	raw, err := s.chat.Chat(ctx, prompts.ResumeFeedback(record.JobTitle, record.JobDescription))
	if err != nil {
		return models.Feedback{}, fmt.Errorf("%w: %v", ErrScoringFailed, err)
	}

	feedback, err := s.parser.ParseFeedback(raw)
	if err != nil {
		return models.Feedback{}, fmt.Errorf("%w: %v", ErrScoringFailed, err)
	}

	return feedback, nil
}

func (s *ingestService) advance(ctx context.Context, recordID string, stage Stage) {
	observability.IngestStages().WithLabelValues(string(stage)).Inc()
	s.publisher.Publish(ctx, progress.Update{
		RecordID: recordID,
		Stage:    string(stage),
		Status:   stageStatus[stage],
	})
}

func (s *ingestService) fail(ctx context.Context, recordID string, stage Stage, err error) error {
	observability.IngestFailures().WithLabelValues(string(stage)).Inc()
	s.publisher.Publish(ctx, progress.Update{
		RecordID: recordID,
		Stage:    string(StageFailed),
		Status:   failureStatus[stage],
	})
	s.logger.Error().Str("record_id", recordID).Str("stage", string(stage)).Err(err).Msg("ingestion stage failed")

	return err
}

func readUpload(file *multipart.FileHeader) ([]byte, error) {
	reader, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer reader.Close()

	document, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	return document, nil
}

func previewName(filename string) string {
	return strings.TrimSuffix(filename, filepath.Ext(filename)) + ".png"
}
