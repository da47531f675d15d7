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

const sessionKeyPrefix = "interview:"

// ErrSessionNotFound indicates the interview session does not exist.
var ErrSessionNotFound = errors.New("interview session not found")

// SessionRepository persists interview sessions in the key-value store under
// "interview:<id>".
type SessionRepository interface {
	Create(ctx context.Context, session *models.InterviewSession) error
	Get(ctx context.Context, id string) (models.InterviewSession, error)
	Save(ctx context.Context, session models.InterviewSession) error
	List(ctx context.Context) ([]models.InterviewSession, error)
}

type sessionRepository struct {
	store  *kvstore.Store
	logger zerolog.Logger
	now    func() time.Time
}

// NewSessionRepository constructs a session repository over the key-value store.
func NewSessionRepository(store *kvstore.Store, logger zerolog.Logger) SessionRepository {
	return &sessionRepository{
		store:  store,
		logger: logger.With().Str("component", "session_repository").Logger(),
		now:    time.Now,
	}
}

func sessionKey(id string) string {
	return sessionKeyPrefix + id
}

// Create persists a new session, assigning an ID and creation timestamp when
// absent.
func (r *sessionRepository) Create(ctx context.Context, session *models.InterviewSession) error {
	if session.ID == "" {
		session.ID = utils.GenerateID()
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = r.now().UTC()
	}

	return r.Save(ctx, *session)
}

func (r *sessionRepository) Get(ctx context.Context, id string) (models.InterviewSession, error) {
	raw, err := r.store.Get(ctx, sessionKey(id))
	if errors.Is(err, kvstore.ErrNotFound) {
		return models.InterviewSession{}, ErrSessionNotFound
	}
	if err != nil {
		return models.InterviewSession{}, err
	}

	var session models.InterviewSession
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		return models.InterviewSession{}, fmt.Errorf("decode interview session %s: %w", id, err)
	}

	return session, nil
}

// Save re-persists the whole session. Called after every scored answer so a
// session can be resumed mid-run.
func (r *sessionRepository) Save(ctx context.Context, session models.InterviewSession) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal interview session %s: %w", session.ID, err)
	}

	return r.store.Set(ctx, sessionKey(session.ID), string(payload))
}

// List returns every stored session, skipping and logging malformed entries.
func (r *sessionRepository) List(ctx context.Context) ([]models.InterviewSession, error) {
	entries, err := r.store.List(ctx, sessionKeyPrefix+"*", true)
	if err != nil {
		return nil, err
	}

	sessions := make([]models.InterviewSession, 0, len(entries))
	for _, entry := range entries {
		var session models.InterviewSession
		if err := json.Unmarshal([]byte(entry.Value), &session); err != nil {
			r.logger.Warn().Str("key", entry.Key).Err(err).Msg("skipping malformed session entry")
			continue
		}
		sessions = append(sessions, session)
	}

	return sessions, nil
}
