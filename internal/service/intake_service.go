package service

import (
	"context"
	"strings"

	"feature-intake-bot/internal/constant"
	"feature-intake-bot/internal/pkg/logger"
	"feature-intake-bot/pkg/chat"
	"feature-intake-bot/pkg/events"
	"feature-intake-bot/pkg/flow"
	pktNats "feature-intake-bot/pkg/nats"
	"feature-intake-bot/pkg/requirement"
)

// IIntakeService is the conversation core: it routes each inbound event,
// advances the user's flow and emits the resulting prompts.
type IIntakeService interface {
	HandleMessage(ctx context.Context, userID, text string) error
	HandleAction(ctx context.Context, userID, actionID, value string) error
}

type intakeService struct {
	flows     flow.Store
	messenger chat.Messenger
	responder chat.Responder
	publisher requirement.Publisher
	channelID string
	logger    logger.ILogger

	// Optional lifecycle event sink; nil when NATS is unreachable at boot.
	eventPublisher *pktNats.Publisher
}

func NewIntakeService(
	flows flow.Store,
	messenger chat.Messenger,
	responder chat.Responder,
	publisher requirement.Publisher,
	eventPublisher *pktNats.Publisher,
	channelID string,
	log logger.ILogger,
) IIntakeService {
	return &intakeService{
		flows:          flows,
		messenger:      messenger,
		responder:      responder,
		publisher:      publisher,
		eventPublisher: eventPublisher,
		channelID:      channelID,
		logger:         log,
	}
}

// HandleMessage routes a free-text message: continue the active flow, cancel
// it, start a new one on a trigger keyword, or fall back to the responder.
func (s *intakeService) HandleMessage(ctx context.Context, userID, text string) error {
	text = strings.TrimSpace(text)

	if st, ok := s.flows.Get(userID); ok {
		if flow.IsCancel(text) {
			s.flows.Delete(userID)
			s.emit(ctx, events.NewFlowCancelled(userID))
			return s.messenger.SendToUser(ctx, userID, chat.Text(constant.ReplyCancelled))
		}

		next, prompts := flow.Advance(*st, text)
		s.flows.Set(&next)
		return s.sendAll(ctx, userID, prompts)
	}

	if flow.MatchesTrigger(text) {
		st, prompts := flow.Start(userID)
		s.flows.Set(&st)
		s.emit(ctx, events.NewFlowStarted(userID))
		s.logger.Info("IntakeService", "Flow started", map[string]interface{}{"user_id": userID})
		return s.sendAll(ctx, userID, prompts)
	}

	reply, err := s.responder.Respond(ctx, text)
	if err != nil {
		s.logger.Warn("IntakeService", "Fallback responder failed", map[string]interface{}{"user_id": userID, "error": err.Error()})
		reply = constant.DefaultFallbackReply
	}
	return s.messenger.SendToUser(ctx, userID, chat.Text(reply))
}

// HandleAction routes a button click. A click for a step the user is not on
// (stale button, re-delivered event) is answered with an out-of-sync notice
// and changes nothing.
func (s *intakeService) HandleAction(ctx context.Context, userID, actionID, value string) error {
	switch actionID {
	case constant.ActionPriorityLow, constant.ActionPriorityMedium,
		constant.ActionPriorityHigh, constant.ActionPriorityCritical:
		return s.handlePriority(ctx, userID, value)

	case constant.ActionConfirmPost:
		return s.handleConfirm(ctx, userID)

	case constant.ActionCancelPost:
		return s.handleCancelPost(ctx, userID)
	}

	s.logger.Warn("IntakeService", "Unknown action id", map[string]interface{}{"user_id": userID, "action_id": actionID})
	return s.messenger.SendToUser(ctx, userID, chat.Text(constant.ReplyOutOfSync))
}

func (s *intakeService) handlePriority(ctx context.Context, userID, value string) error {
	st, ok := s.flows.Get(userID)
	if !ok || st.Step != flow.StepPriority {
		return s.messenger.SendToUser(ctx, userID, chat.Text(constant.ReplyOutOfSync))
	}

	next, prompts := flow.ApplyPriority(*st, value)
	s.flows.Set(&next)
	return s.sendAll(ctx, userID, prompts)
}

func (s *intakeService) handleConfirm(ctx context.Context, userID string) error {
	st, ok := s.flows.Get(userID)
	if !ok || st.Step != flow.StepConfirmation {
		return s.messenger.SendToUser(ctx, userID, chat.Text(constant.ReplyAlreadyPosted))
	}

	doc := requirement.FromFields(userID, st.Fields)

	// Delete before dispatching the publish so a re-delivered Confirm finds
	// no flow and cannot produce a second channel post.
	s.flows.Delete(userID)

	if err := s.messenger.SendToUser(ctx, userID, chat.Text(constant.PromptPosting)); err != nil {
		s.logger.Warn("IntakeService", "Failed to send posting notice", map[string]interface{}{"user_id": userID, "error": err.Error()})
	}

	if err := s.publisher.Publish(ctx, s.channelID, doc); err != nil {
		// Terminal for this attempt: the flow is gone, the user restarts.
		s.logger.Error("IntakeService", "Requirement publish failed", map[string]interface{}{"user_id": userID, "channel_id": s.channelID, "error": err.Error()})
		return s.messenger.SendToUser(ctx, userID, chat.Text(constant.ReplyPublishFailed))
	}

	s.logger.Info("IntakeService", "Requirement posted", map[string]interface{}{"user_id": userID, "channel_id": s.channelID})
	return nil
}

func (s *intakeService) handleCancelPost(ctx context.Context, userID string) error {
	st, ok := s.flows.Get(userID)
	if !ok || st.Step != flow.StepConfirmation {
		return s.messenger.SendToUser(ctx, userID, chat.Text(constant.ReplyOutOfSync))
	}

	s.flows.Delete(userID)
	s.emit(ctx, events.NewFlowCancelled(userID))
	return s.messenger.SendToUser(ctx, userID, chat.Text(constant.ReplyCancelledPost))
}

func (s *intakeService) sendAll(ctx context.Context, userID string, prompts []chat.Message) error {
	for _, p := range prompts {
		if err := s.messenger.SendToUser(ctx, userID, p); err != nil {
			return err
		}
	}
	return nil
}

// emit publishes a lifecycle event, best effort.
func (s *intakeService) emit(ctx context.Context, event events.BaseEvent) {
	if s.eventPublisher == nil {
		return
	}
	if err := s.eventPublisher.Publish(ctx, event); err != nil {
		s.logger.Warn("IntakeService", "Lifecycle event publish failed", map[string]interface{}{"type": event.EventType(), "error": err.Error()})
	}
}
