// Package progress delivers the human-readable status string the ingestion
// pipeline emits at each stage transition.
package progress

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

// Update describes one pipeline stage transition.
type Update struct {
	RecordID string    `json:"recordId"`
	Stage    string    `json:"stage"`
	Status   string    `json:"status"`
	SentAt   time.Time `json:"sentAt"`
}

// Publisher pushes pipeline status updates to interested listeners. Delivery
// is best-effort; a failed publish never fails the pipeline step.
type Publisher interface {
	Publish(ctx context.Context, update Update)
}

// NATSPublisher pushes updates onto a NATS subject.
type NATSPublisher struct {
	conn    *nats.Conn
	subject string
	logger  zerolog.Logger
}

// NewNATSPublisher constructs a publisher over an established connection.
func NewNATSPublisher(conn *nats.Conn, subject string, logger zerolog.Logger) *NATSPublisher {
	return &NATSPublisher{
		conn:    conn,
		subject: subject,
		logger:  logger.With().Str("component", "progress_publisher").Logger(),
	}
}

// Publish sends the update. Marshalling or broker errors are logged and
// swallowed.
func (p *NATSPublisher) Publish(_ context.Context, update Update) {
	if update.SentAt.IsZero() {
		update.SentAt = time.Now().UTC()
	}

	payload, err := json.Marshal(update)
	if err != nil {
		p.logger.Warn().Err(err).Msg("failed to encode progress update")
		return
	}

	if err := p.conn.Publish(p.subject, payload); err != nil {
		p.logger.Warn().Err(err).Str("stage", update.Stage).Msg("failed to publish progress update")
	}
}

// LogPublisher writes updates to the application log. Used when NATS is not
// configured.
type LogPublisher struct {
	logger zerolog.Logger
}

// NewLogPublisher constructs the logging fallback publisher.
func NewLogPublisher(logger zerolog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger.With().Str("component", "progress_publisher").Logger()}
}

// Publish logs the update.
func (p *LogPublisher) Publish(_ context.Context, update Update) {
	p.logger.Info().Str("record_id", update.RecordID).Str("stage", update.Stage).Msg(update.Status)
}
