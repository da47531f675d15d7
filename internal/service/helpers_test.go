package service

import (
	"bytes"
	"context"
	"mime/multipart"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/visen-app/visen-api/internal/models"
	"github.com/visen-app/visen-api/internal/progress"
	"github.com/visen-app/visen-api/internal/repository"
	"github.com/visen-app/visen-api/internal/utils"
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

// fileHeader builds an in-memory multipart file header carrying content.
func fileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("resume", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	reader := multipart.NewReader(body, writer.Boundary())
	form, err := reader.ReadForm(int64(body.Len()) + 1024)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })

	headers := form.File["resume"]
	require.Len(t, headers, 1)

	return headers[0]
}

type stubChat struct {
	responses []string
	err       error
	prompts   []string
}

func (c *stubChat) Chat(_ context.Context, prompt string) (string, error) {
	c.prompts = append(c.prompts, prompt)
	if c.err != nil {
		return "", c.err
	}
	if len(c.responses) == 0 {
		return "", nil
	}

	response := c.responses[0]
	if len(c.responses) > 1 {
		c.responses = c.responses[1:]
	}

	return response, nil
}

type capturePublisher struct {
	updates []progress.Update
}

func (p *capturePublisher) Publish(_ context.Context, update progress.Update) {
	p.updates = append(p.updates, update)
}

func (p *capturePublisher) stages() []string {
	stages := make([]string, 0, len(p.updates))
	for _, update := range p.updates {
		stages = append(stages, update.Stage)
	}
	return stages
}

type memoryResumeRepo struct {
	records map[string]models.ResumeRecord
}

func newMemoryResumeRepo() *memoryResumeRepo {
	return &memoryResumeRepo{records: make(map[string]models.ResumeRecord)}
}

func (r *memoryResumeRepo) Create(_ context.Context, record *models.ResumeRecord) error {
	if record.ID == "" {
		record.ID = utils.GenerateID()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}
	r.records[record.ID] = *record
	return nil
}

func (r *memoryResumeRepo) Get(_ context.Context, id string) (models.ResumeRecord, error) {
	record, ok := r.records[id]
	if !ok {
		return models.ResumeRecord{}, repository.ErrRecordNotFound
	}
	return record, nil
}

func (r *memoryResumeRepo) AttachFeedback(_ context.Context, id string, feedback models.Feedback) (models.ResumeRecord, error) {
	record, ok := r.records[id]
	if !ok {
		return models.ResumeRecord{}, repository.ErrRecordNotFound
	}
	record.Feedback = &feedback
	r.records[id] = record
	return record, nil
}

func (r *memoryResumeRepo) List(_ context.Context) ([]models.ResumeRecord, error) {
	records := make([]models.ResumeRecord, 0, len(r.records))
	for _, record := range r.records {
		records = append(records, record)
	}
	return records, nil
}

type memorySessionRepo struct {
	sessions map[string]models.InterviewSession
}

func newMemorySessionRepo() *memorySessionRepo {
	return &memorySessionRepo{sessions: make(map[string]models.InterviewSession)}
}

func (r *memorySessionRepo) Create(_ context.Context, session *models.InterviewSession) error {
	if session.ID == "" {
		session.ID = utils.GenerateID()
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now().UTC()
	}
	r.sessions[session.ID] = *session
	return nil
}

func (r *memorySessionRepo) Get(_ context.Context, id string) (models.InterviewSession, error) {
	session, ok := r.sessions[id]
	if !ok {
		return models.InterviewSession{}, repository.ErrSessionNotFound
	}
	return session, nil
}

func (r *memorySessionRepo) Save(_ context.Context, session models.InterviewSession) error {
	r.sessions[session.ID] = session
	return nil
}

func (r *memorySessionRepo) List(_ context.Context) ([]models.InterviewSession, error) {
	sessions := make([]models.InterviewSession, 0, len(r.sessions))
	for _, session := range r.sessions {
		sessions = append(sessions, session)
	}
	return sessions, nil
}
