package service

import (
	"context"
	"encoding/json"
	"log"

	"chat-moderation-be/internal/dto"
	"chat-moderation-be/pkg/transport"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// EventRouter is the dispatcher surface the ingest loop drives.
type EventRouter interface {
	HandleMessage(ctx context.Context, msg *transport.Message) error
	HandleReaction(ctx context.Context, reaction *dto.ReactionEvent) error
}

// IIngestService drains the chat event topic on a single goroutine, which is
// what keeps session transitions strictly ordered per actor.
type IIngestService interface {
	Consume(ctx context.Context) error
}

type ingestService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	router    EventRouter
}

func NewIngestService(pubSub *gochannel.GoChannel, topicName string, router EventRouter) IIngestService {
	return &ingestService{
		pubSub:    pubSub,
		topicName: topicName,
		router:    router,
	}
}

func (s *ingestService) Consume(ctx context.Context) error {
	messages, err := s.pubSub.Subscribe(ctx, s.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			s.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (s *ingestService) processMessage(ctx context.Context, msg *message.Message) {
	// Every message is acked: a failed transition is logged and dropped,
	// never retried, so one bad event cannot wedge the stream.
	defer msg.Ack()

	var event dto.ChatEvent
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		log.Printf("[ERROR] Failed to unmarshal chat event: %v", err)
		return
	}

	switch event.Type {
	case dto.ChatEventMessageCreated:
		if event.Message == nil {
			log.Printf("[ERROR] message_created event missing message payload")
			return
		}
		inbound := &transport.Message{
			ID:        event.Message.MessageID,
			GuildID:   event.Message.GuildID,
			ChannelID: event.Message.ChannelID,
			Author:    transport.User{ID: event.Message.AuthorID, Name: event.Message.AuthorName},
			Content:   event.Message.Content,
		}
		if err := s.router.HandleMessage(ctx, inbound); err != nil {
			log.Printf("[ERROR] Failed to handle message %s: %v", inbound.ID, err)
		}

	case dto.ChatEventReactionAdded:
		if event.Reaction == nil {
			log.Printf("[ERROR] reaction_added event missing reaction payload")
			return
		}
		if err := s.router.HandleReaction(ctx, event.Reaction); err != nil {
			log.Printf("[ERROR] Failed to handle reaction on %s: %v", event.Reaction.MessageID, err)
		}

	default:
		log.Printf("[ERROR] Unknown chat event type: %s", event.Type)
	}
}
