package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"feature-intake-bot/internal/constant"
	"feature-intake-bot/internal/dto"
	"feature-intake-bot/internal/pkg/logger"
	"feature-intake-bot/pkg/chat"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IDispatcherService interface {
	Consume(ctx context.Context) error
}

// dispatcherService pulls inbound events off the bus and hands each one to a
// per-user worker goroutine. One worker per user id means events for the same
// user run strictly in arrival order while different users run concurrently,
// which is what keeps flow state mutations race-free without locking inside
// the store.
type dispatcherService struct {
	pubSub      *gochannel.GoChannel
	topicName   string
	intake      IIntakeService
	messenger   chat.Messenger
	logger      logger.ILogger
	bufferSize  int
	idleTimeout time.Duration

	mu      sync.Mutex
	inboxes map[string]chan dto.InboundEvent
}

func NewDispatcherService(
	pubSub *gochannel.GoChannel,
	topicName string,
	intake IIntakeService,
	messenger chat.Messenger,
	bufferSize int,
	log logger.ILogger,
) IDispatcherService {
	if bufferSize <= 0 {
		bufferSize = 64
	}
	return &dispatcherService{
		pubSub:      pubSub,
		topicName:   topicName,
		intake:      intake,
		messenger:   messenger,
		logger:      log,
		bufferSize:  bufferSize,
		idleTimeout: 5 * time.Minute,
		inboxes:     make(map[string]chan dto.InboundEvent),
	}
}

func (d *dispatcherService) Consume(ctx context.Context) error {
	messages, err := d.pubSub.Subscribe(ctx, d.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			d.route(ctx, msg)
		}
	}()

	return nil
}

// route runs on the single subscription goroutine, so enqueue order per user
// matches bus arrival order.
func (d *dispatcherService) route(ctx context.Context, msg *message.Message) {
	var event dto.InboundEvent
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		d.logger.Error("DispatcherService", "Failed to unmarshal inbound event", map[string]interface{}{"error": err.Error()})
		msg.Ack() // invalid payloads are not retriable
		return
	}
	if event.UserID == "" {
		d.logger.Warn("DispatcherService", "Inbound event without user id", map[string]interface{}{"kind": event.Kind})
		msg.Ack()
		return
	}

	d.mu.Lock()
	inbox, ok := d.inboxes[event.UserID]
	if !ok {
		inbox = make(chan dto.InboundEvent, d.bufferSize)
		d.inboxes[event.UserID] = inbox
		go d.worker(ctx, event.UserID, inbox)
	}
	delivered := true
	select {
	case inbox <- event:
	default:
		delivered = false
	}
	d.mu.Unlock()

	if !delivered {
		// The event is lost; at minimum the user must learn their answer did
		// not land, so they can resend instead of waiting on a dead flow.
		d.logger.Warn("DispatcherService", "User inbox full, dropping event", map[string]interface{}{"user_id": event.UserID, "kind": event.Kind})
		if err := d.messenger.SendToUser(ctx, event.UserID, chat.Text(constant.ReplyBusy)); err != nil {
			d.logger.Warn("DispatcherService", "Failed to send busy notice", map[string]interface{}{"user_id": event.UserID, "error": err.Error()})
		}
	}

	msg.Ack()
}

func (d *dispatcherService) worker(ctx context.Context, userID string, inbox chan dto.InboundEvent) {
	for {
		select {
		case event := <-inbox:
			d.process(ctx, event)

		case <-time.After(d.idleTimeout):
			// Retire the worker only if nothing raced in while we timed out.
			d.mu.Lock()
			if len(inbox) == 0 {
				delete(d.inboxes, userID)
				d.mu.Unlock()
				return
			}
			d.mu.Unlock()

		case <-ctx.Done():
			return
		}
	}
}

func (d *dispatcherService) process(ctx context.Context, event dto.InboundEvent) {
	var err error
	switch event.Kind {
	case dto.EventKindMessage:
		err = d.intake.HandleMessage(ctx, event.UserID, event.Text)
	case dto.EventKindAction:
		err = d.intake.HandleAction(ctx, event.UserID, event.ActionID, event.Value)
	default:
		d.logger.Warn("DispatcherService", "Unknown event kind", map[string]interface{}{"kind": event.Kind, "user_id": event.UserID})
		return
	}

	if err != nil {
		d.logger.Error("DispatcherService", "Event handling failed", map[string]interface{}{"user_id": event.UserID, "kind": event.Kind, "error": err.Error()})
	}
}
