package dialogue

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/travellabs/tripbot/internal/domain"
	"github.com/travellabs/tripbot/internal/llm"
)

// respond produces the next assistant message while collecting.
func (s *Session) respond(ctx context.Context) Reply {
	if s.record.IsComplete() {
		msg := s.texts.Confirmation(s.record)
		s.log.Append(domain.RoleAssistant, msg)
		s.state = domain.StateConfirming
		s.logger.Info("all fields collected, awaiting confirmation")
		return Reply{Text: msg, State: s.state}
	}

	msgs := make([]llm.Message, 0, s.log.Len()+1)
	msgs = append(msgs, llm.System(collectingPrompt(s.lang, s.record.Missing())))
	msgs = append(msgs, toMessages(s.log.Tail(s.window))...)

	resp, err := s.client.Generate(ctx, llm.GenerateRequest{
		Task:     llm.TaskChat,
		Messages: msgs,
	})
	if err != nil {
		cause := fmt.Errorf("%w: chat: %w", ErrExternalService, err)
		s.logger.Warn("chat turn failed", zap.Error(cause))
		return Reply{Text: s.texts.Get(TextError), State: s.state, Cause: cause}
	}

	s.log.Append(domain.RoleAssistant, resp.Text)
	return Reply{Text: resp.Text, State: s.state}
}
