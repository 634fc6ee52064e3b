package dialogue

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/travellabs/tripbot/internal/domain"
	"github.com/travellabs/tripbot/internal/llm"
)

// DefaultHistoryWindow is how many recent turns are sent to the
// completion service. The log itself is never truncated.
const DefaultHistoryWindow = 40

// ackWindow is the context sent with a change acknowledgement.
const ackWindow = 5

// Config holds per-session settings.
type Config struct {
	Language domain.Language
	// HistoryWindow bounds the turns sent per call. 0 means
	// DefaultHistoryWindow; a negative value sends the whole log.
	HistoryWindow int
	Now           func() time.Time
	Logger        *zap.Logger
}

// Reply is the assistant's answer to one user turn.
type Reply struct {
	Text  string
	State domain.DialogueState
	// Cause records a non-fatal failure during the turn: a failed call
	// answered with a fallback text, or a skipped extraction.
	Cause error
}

// Degraded reports whether anything in the turn failed.
func (r Reply) Degraded() bool { return r.Cause != nil }

// Session is one slot-filling conversation. It owns its record, log and
// state; Handle calls are serialized.
type Session struct {
	mu sync.Mutex

	id        string
	lang      domain.Language
	texts     Texts
	window    int
	client    llm.LLMClient
	extractor *Extractor
	logger    *zap.Logger

	record domain.TravelRecord
	log    *domain.ConversationLog
	state  domain.DialogueState
}

// NewSession creates a session in the collecting state.
func NewSession(client llm.LLMClient, cfg Config) *Session {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	lang := cfg.Language
	if lang == "" {
		lang = domain.LanguageEnglish
	}
	window := cfg.HistoryWindow
	if window == 0 {
		window = DefaultHistoryWindow
	}
	id := uuid.NewString()
	logger = logger.With(zap.String("session", id))

	return &Session{
		id:        id,
		lang:      lang,
		texts:     TextsFor(lang),
		window:    window,
		client:    client,
		extractor: NewExtractor(client, cfg.Now, logger),
		logger:    logger,
		log:       domain.NewConversationLog(),
		state:     domain.StateCollecting,
	}
}

func (s *Session) ID() string                { return s.id }
func (s *Session) Language() domain.Language { return s.lang }
func (s *Session) Texts() Texts              { return s.texts }

// Start appends and returns the welcome message.
func (s *Session) Start() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	msg := s.texts.Get(TextWelcome)
	s.log.Append(domain.RoleAssistant, msg)
	return msg
}

// State returns the current dialogue state.
func (s *Session) State() domain.DialogueState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Record returns a copy of the travel record.
func (s *Session) Record() domain.TravelRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.record.Clone()
}

// Turns returns a copy of the conversation log.
func (s *Session) Turns() []domain.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.log.Turns()
}

// Handle processes one user turn to completion.
func (s *Session) Handle(ctx context.Context, input string) (Reply, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return Reply{}, ErrEmptyInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case domain.StateConfirmed:
		return Reply{State: s.state}, ErrSessionClosed
	case domain.StateConfirming:
		return s.handleConfirmation(ctx, input), nil
	default:
		s.log.Append(domain.RoleUser, input)
		extractErr := s.extract(ctx, false)
		reply := s.respond(ctx)
		if reply.Cause == nil {
			reply.Cause = extractErr
		}
		return reply, nil
	}
}

// extract runs the extractor over the recent transcript and merges the
// result. Failures are logged and leave the record untouched.
func (s *Session) extract(ctx context.Context, overwrite bool) error {
	transcript := domain.Transcript(s.log.Tail(s.window))

	ext, err := s.extractor.Extract(ctx, transcript)
	if err != nil {
		s.logger.Warn("extraction skipped", zap.Bool("overwrite", overwrite), zap.Error(err))
		return err
	}

	changed := Merge(&s.record, ext, overwrite)
	if len(changed) > 0 {
		s.logger.Debug("record updated",
			zap.Strings("fields", fieldNames(changed)),
			zap.Bool("overwrite", overwrite))
	}

	if s.record.IsComplete() && !s.record.IsSet(domain.FieldDescription) {
		desc, err := s.extractor.Describe(ctx, transcript, s.record)
		if err != nil {
			s.logger.Warn("description generation failed, using fallback", zap.Error(err))
			desc = fallbackDescription
		}
		s.record.Set(domain.FieldDescription, desc)
	}
	return nil
}

// Summary returns the caller-facing view of the session.
func (s *Session) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return newSummary(s.record, s.state)
}

// Trip returns the confirmed trip for hand-off. The trip shares the
// session's ID; CreatedAt is left for the store to set.
func (s *Session) Trip() (*domain.Trip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != domain.StateConfirmed {
		return nil, ErrNotConfirmed
	}
	return &domain.Trip{
		ID:        s.id,
		Language:  s.lang,
		Record:    s.record.Clone(),
		Turns:     s.log.Turns(),
		Confirmed: true,
	}, nil
}

func toMessages(turns []domain.Turn) []llm.Message {
	out := make([]llm.Message, len(turns))
	for i, t := range turns {
		role := llm.RoleUser
		if t.Role == domain.RoleAssistant {
			role = llm.RoleAssistant
		}
		out[i] = llm.Message{Role: role, Content: t.Content}
	}
	return out
}

func fieldNames(fields []domain.Field) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = string(f)
	}
	return out
}

// IsClosed reports whether err means the session no longer takes turns.
func IsClosed(err error) bool {
	return errors.Is(err, ErrSessionClosed)
}
