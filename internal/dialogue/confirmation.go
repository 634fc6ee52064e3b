package dialogue

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/travellabs/tripbot/internal/domain"
	"github.com/travellabs/tripbot/internal/llm"
)

// handleConfirmation interprets a reply to the confirmation summary.
// An affirmation closes the session; anything else is a correction that
// is merged with overwrite enabled and answered with an acknowledgement
// plus the refreshed summary.
func (s *Session) handleConfirmation(ctx context.Context, input string) Reply {
	s.log.Append(domain.RoleUser, input)

	if IsAffirmation(input) {
		s.state = domain.StateConfirmed
		closing := s.texts.Get(TextChangeAcknowledgement)
		s.log.Append(domain.RoleAssistant, closing)
		s.logger.Info("trip confirmed")
		return Reply{Text: closing, State: s.state}
	}

	extractErr := s.extract(ctx, true)

	msgs := make([]llm.Message, 0, ackWindow+1)
	msgs = append(msgs, llm.System(changeAckPrompt(s.lang)))
	msgs = append(msgs, toMessages(s.log.Tail(ackWindow))...)

	resp, err := s.client.Generate(ctx, llm.GenerateRequest{
		Task:     llm.TaskAcknowledge,
		Messages: msgs,
	})
	if err != nil {
		cause := fmt.Errorf("%w: acknowledgement: %w", ErrExternalService, err)
		s.logger.Warn("change acknowledgement failed", zap.Error(cause))
		return Reply{Text: s.texts.Confirmation(s.record), State: s.state, Cause: cause}
	}

	confirmation := s.texts.Confirmation(s.record)
	s.log.Append(domain.RoleAssistant, resp.Text)
	s.log.Append(domain.RoleAssistant, confirmation)

	return Reply{
		Text:  resp.Text + "\n\n" + confirmation,
		State: s.state,
		Cause: extractErr,
	}
}
