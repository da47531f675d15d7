package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/visen-app/visen-api/internal/kvstore"
	"github.com/visen-app/visen-api/internal/models"
	"github.com/visen-app/visen-api/internal/utils"
)

const resumeKeyPrefix = "resume:"

// ErrRecordNotFound indicates the resume record does not exist.
var ErrRecordNotFound = errors.New("resume record not found")

// ResumeRepository persists resume records in the key-value store under
// "resume:<id>".
type ResumeRepository interface {
	Create(ctx context.Context, record *models.ResumeRecord) error
	Get(ctx context.Context, id string) (models.ResumeRecord, error)
	AttachFeedback(ctx context.Context, id string, feedback models.Feedback) (models.ResumeRecord, error)
	List(ctx context.Context) ([]models.ResumeRecord, error)
}

type resumeRepository struct {
	store  *kvstore.Store
	logger zerolog.Logger
	now    func() time.Time
}

// NewResumeRepository constructs a resume repository over the key-value store.
func NewResumeRepository(store *kvstore.Store, logger zerolog.Logger) ResumeRepository {
	return &resumeRepository{
		store:  store,
		logger: logger.With().Str("component", "resume_repository").Logger(),
		now:    time.Now,
	}
}

func resumeKey(id string) string {
	return resumeKeyPrefix + id
}

// Create writes a draft record. The feedback field stays empty until scoring
// completes; an ID and creation timestamp are assigned when absent.
func (r *resumeRepository) Create(ctx context.Context, record *models.ResumeRecord) error {
	if record.ID == "" {
		record.ID = utils.GenerateID()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = r.now().UTC()
	}

	return r.save(ctx, *record)
}

func (r *resumeRepository) Get(ctx context.Context, id string) (models.ResumeRecord, error) {
	raw, err := r.store.Get(ctx, resumeKey(id))
	if errors.Is(err, kvstore.ErrNotFound) {
		return models.ResumeRecord{}, ErrRecordNotFound
	}
	if err != nil {
		return models.ResumeRecord{}, err
	}

	var record models.ResumeRecord
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		return models.ResumeRecord{}, fmt.Errorf("decode resume record %s: %w", id, err)
	}

	return record, nil
}

// AttachFeedback sets the feedback field and re-persists the whole record.
// The store replaces values wholesale, so this is a full overwrite rather
// than a partial patch.
func (r *resumeRepository) AttachFeedback(ctx context.Context, id string, feedback models.Feedback) (models.ResumeRecord, error) {
	record, err := r.Get(ctx, id)
	if err != nil {
		return models.ResumeRecord{}, err
	}

	record.Feedback = &feedback
	if err := r.save(ctx, record); err != nil {
		return models.ResumeRecord{}, err
	}

	return record, nil
}

// List returns every stored record. A malformed entry is skipped and logged
// rather than failing the whole listing; bulk reads favour resilience where
// the single-record paths stay strict.
func (r *resumeRepository) List(ctx context.Context) ([]models.ResumeRecord, error) {
	entries, err := r.store.List(ctx, resumeKeyPrefix+"*", true)
	if err != nil {
		return nil, err
	}

	records := make([]models.ResumeRecord, 0, len(entries))
	for _, entry := range entries {
		var record models.ResumeRecord
		if err := json.Unmarshal([]byte(entry.Value), &record); err != nil {
			r.logger.Warn().Str("key", entry.Key).Err(err).Msg("skipping malformed resume entry")
			continue
		}
		records = append(records, record)
	}

	return records, nil
}

func (r *resumeRepository) save(ctx context.Context, record models.ResumeRecord) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal resume record %s: %w", record.ID, err)
	}

	return r.store.Set(ctx, resumeKey(record.ID), string(payload))
}
