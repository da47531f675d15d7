// Package modelout turns free-form model responses into validated domain
// values. Responses are expected to contain exactly one JSON value, possibly
// wrapped in a fenced code block; anything that fails to parse or violates
// the payload schema is rejected with ErrMalformedOutput.
package modelout

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/visen-app/visen-api/internal/models"
)

// ErrMalformedOutput indicates the model response was missing, empty, or not
// parseable as the expected JSON shape.
var ErrMalformedOutput = errors.New("malformed model output")

// MalformedOutputError wraps ErrMalformedOutput with the offending raw text
// for diagnostics. The caller decides whether to retry or surface the error.
type MalformedOutputError struct {
	Reason string
	Raw    string
}

func (e *MalformedOutputError) Error() string {
	return fmt.Sprintf("malformed model output: %s", e.Reason)
}

func (e *MalformedOutputError) Unwrap() error {
	return ErrMalformedOutput
}

func malformed(reason, raw string) error {
	return &MalformedOutputError{Reason: reason, Raw: raw}
}

// GeneratedQuestion is a question as produced by the model. IDs are not part
// of the model contract; callers assign them.
type GeneratedQuestion struct {
	Question   string   `json:"question"`
	Category   string   `json:"category"`
	Difficulty string   `json:"difficulty"`
	Tips       []string `json:"tips"`
}

// StripFences removes markdown code-fence markers around a JSON payload and
// trims surrounding whitespace.
func StripFences(text string) string {
	cleaned := strings.ReplaceAll(text, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	return strings.TrimSpace(cleaned)
}

// Parser validates semi-structured model responses against JSON schemas.
type Parser struct {
	feedback   *jsonschema.Schema
	questions  *jsonschema.Schema
	evaluation *jsonschema.Schema
}

// NewParser compiles the response schemas once.
func NewParser() (*Parser, error) {
	compiler := jsonschema.NewCompiler()
	sources := map[string]string{
		"feedback.json":   feedbackSchema,
		"questions.json":  questionsSchema,
		"evaluation.json": evaluationSchema,
	}
	for name, source := range sources {
		if err := compiler.AddResource(name, strings.NewReader(source)); err != nil {
			return nil, fmt.Errorf("add schema %s: %w", name, err)
		}
	}

	parser := &Parser{}
	var err error
	if parser.feedback, err = compiler.Compile("feedback.json"); err != nil {
		return nil, fmt.Errorf("compile feedback schema: %w", err)
	}
	if parser.questions, err = compiler.Compile("questions.json"); err != nil {
		return nil, fmt.Errorf("compile questions schema: %w", err)
	}
	if parser.evaluation, err = compiler.Compile("evaluation.json"); err != nil {
		return nil, fmt.Errorf("compile evaluation schema: %w", err)
	}

	return parser, nil
}

// ParseFeedback extracts a resume feedback payload from raw model output.
func (p *Parser) ParseFeedback(raw string) (models.Feedback, error) {
	var feedback models.Feedback
	if err := p.decode(raw, p.feedback, &feedback); err != nil {
		return models.Feedback{}, err
	}
	return feedback, nil
}

// ParseQuestions extracts a generated question set from raw model output.
func (p *Parser) ParseQuestions(raw string) ([]GeneratedQuestion, error) {
	var questions []GeneratedQuestion
	if err := p.decode(raw, p.questions, &questions); err != nil {
		return nil, err
	}
	return questions, nil
}

// ParseEvaluation extracts a per-answer evaluation from raw model output.
func (p *Parser) ParseEvaluation(raw string) (models.Evaluation, error) {
	var evaluation models.Evaluation
	if err := p.decode(raw, p.evaluation, &evaluation); err != nil {
		return models.Evaluation{}, err
	}
	return evaluation, nil
}

func (p *Parser) decode(raw string, schema *jsonschema.Schema, out interface{}) error {
	cleaned := StripFences(raw)
	if cleaned == "" {
		return malformed("empty response", raw)
	}

	var value interface{}
	if err := json.Unmarshal([]byte(cleaned), &value); err != nil {
		return malformed("invalid json: "+err.Error(), raw)
	}

	if err := schema.Validate(value); err != nil {
		return malformed("schema violation: "+err.Error(), raw)
	}

	if err := json.Unmarshal([]byte(cleaned), out); err != nil {
		return malformed("decode: "+err.Error(), raw)
	}

	return nil
}
