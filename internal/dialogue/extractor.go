package dialogue

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/travellabs/tripbot/internal/domain"
	"github.com/travellabs/tripbot/internal/llm"
)

// Extraction is a normalized candidate update: only the fields the model
// reported with a non-null value are present.
type Extraction map[domain.Field]string

// Extractor asks the completion service for the travel fields mentioned
// in a transcript and normalizes the answer.
type Extractor struct {
	client llm.LLMClient
	dates  *DateResolver
	now    func() time.Time
	logger *zap.Logger
}

// NewExtractor creates an Extractor. now supplies the anchor for
// relative dates; nil uses time.Now.
func NewExtractor(client llm.LLMClient, now func() time.Time, logger *zap.Logger) *Extractor {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{
		client: client,
		dates:  NewDateResolver(),
		now:    now,
		logger: logger,
	}
}

// Extract runs one extraction call over transcript. Errors wrap
// ErrExternalService or ErrMalformedExtraction.
func (e *Extractor) Extract(ctx context.Context, transcript string) (Extraction, error) {
	today := e.now()
	resp, err := e.client.Generate(ctx, llm.GenerateRequest{
		Task:     llm.TaskExtract,
		Messages: []llm.Message{llm.User(extractionPrompt(transcript, today))},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: extraction: %w", ErrExternalService, err)
	}

	slots, err := llm.ExtractSlots(resp.Text)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedExtraction, err)
	}
	return e.normalize(slots, today), nil
}

// normalize keeps known fields and applies the date and duration rules.
func (e *Extractor) normalize(slots map[string]string, today time.Time) Extraction {
	out := make(Extraction, len(slots))
	for key, s := range slots {
		f, ok := domain.ParseField(key)
		if !ok {
			e.logger.Debug("ignoring unknown extraction key", zap.String("key", key))
			continue
		}
		switch f {
		case domain.FieldWhen:
			s = e.dates.NormalizeWhen(s, today)
		case domain.FieldDuration:
			s = NormalizeDuration(s)
		}
		out[f] = s
	}
	return out
}

// Merge applies ext to rec and returns the fields that changed. A set
// field is only replaced when overwrite is true. The description is
// never taken from an extraction; it is derived separately.
func Merge(rec *domain.TravelRecord, ext Extraction, overwrite bool) []domain.Field {
	var changed []domain.Field
	for _, f := range domain.RequiredFields {
		v, ok := ext[f]
		if !ok {
			continue
		}
		cur, set := rec.Get(f)
		if set && (!overwrite || cur == v) {
			continue
		}
		rec.Set(f, v)
		changed = append(changed, f)
	}
	return changed
}

// Describe generates the free-text trip description for a complete
// record.
func (e *Extractor) Describe(ctx context.Context, transcript string, rec domain.TravelRecord) (string, error) {
	resp, err := e.client.Generate(ctx, llm.GenerateRequest{
		Task:     llm.TaskDescribe,
		Messages: []llm.Message{llm.User(descriptionPrompt(transcript, rec))},
	})
	if err != nil {
		return "", fmt.Errorf("%w: description: %w", ErrExternalService, err)
	}
	desc := strings.TrimSpace(resp.Text)
	if desc == "" {
		return "", fmt.Errorf("%w: empty description", ErrMalformedExtraction)
	}
	return desc, nil
}
