package session

import (
	"context"
	"fmt"
	"strings"

	"chat-moderation-be/internal/constant"
	"chat-moderation-be/internal/dto"
	"chat-moderation-be/pkg/transport"
)

type keywordState int

const (
	keywordStateStart keywordState = iota
	keywordStateAwaitingChoice
	keywordStateAdd
	keywordStateRemove
	keywordStateCancelled
)

// KeywordSession is the block-list maintenance workflow: a looping menu of
// list / add / remove / done. Listing is a transient step that re-enters the
// menu; add and remove prompt for free text, mutate the store, then re-enter
// the menu.
type KeywordSession struct {
	chat     transport.Chat
	keywords KeywordStore
	actor    transport.User
	state    keywordState
	prompt   PendingPrompt
}

func NewKeywordSession(chat transport.Chat, keywords KeywordStore, actor transport.User) *KeywordSession {
	return &KeywordSession{
		chat:     chat,
		keywords: keywords,
		actor:    actor,
		state:    keywordStateStart,
	}
}

func (s *KeywordSession) Complete() bool { return false }

func (s *KeywordSession) Cancelled() bool { return s.state == keywordStateCancelled }

func (s *KeywordSession) HandleMessage(ctx context.Context, msg *transport.Message) error {
	if msg.Content == constant.CancelKeyword {
		s.state = keywordStateCancelled
		_, err := s.chat.Send(ctx, msg.ChannelID, "Keyword edit cancelled.")
		return err
	}

	switch s.state {
	case keywordStateStart:
		return s.showMenu(ctx, msg.ChannelID)

	case keywordStateAdd:
		added, err := s.keywords.Add(ctx, msg.Content)
		if err != nil {
			return err
		}
		notice := "Keyword added successfully."
		if !added {
			notice = "Keyword already exists."
		}
		if _, err := s.chat.Send(ctx, msg.ChannelID, notice); err != nil {
			return err
		}
		return s.showMenu(ctx, msg.ChannelID)

	case keywordStateRemove:
		removed, err := s.keywords.Remove(ctx, msg.Content)
		if err != nil {
			return err
		}
		notice := "Keyword removed successfully."
		if !removed {
			notice = "Keyword does not exist."
		}
		if _, err := s.chat.Send(ctx, msg.ChannelID, notice); err != nil {
			return err
		}
		return s.showMenu(ctx, msg.ChannelID)
	}

	return nil
}

func (s *KeywordSession) HandleReaction(ctx context.Context, reaction *dto.ReactionEvent, target *transport.Message) error {
	if s.state != keywordStateAwaitingChoice {
		return nil
	}
	if !s.prompt.IsLive(target.ID) {
		_, err := s.chat.Send(ctx, reaction.ChannelID, stalePromptReply)
		return err
	}
	if !s.prompt.Allows(reaction.Emoji) {
		_, err := s.chat.Send(ctx, reaction.ChannelID, unknownEmojiReply)
		return err
	}

	switch reaction.Emoji {
	case constant.EmojiOne:
		return s.listKeywords(ctx, reaction.ChannelID)

	case constant.EmojiTwo:
		if _, err := s.chat.Send(ctx, reaction.ChannelID, "Please write the keyword you'd like to add."); err != nil {
			return err
		}
		s.state = keywordStateAdd
		return nil

	case constant.EmojiThree:
		if _, err := s.chat.Send(ctx, reaction.ChannelID, "Please write the keyword you'd like to remove."); err != nil {
			return err
		}
		s.state = keywordStateRemove
		return nil

	case constant.EmojiFour:
		s.state = keywordStateCancelled
		_, err := s.chat.Send(ctx, reaction.ChannelID, "Ending the keyword editing process.")
		return err
	}

	return nil
}

// showMenu renders the 4-option menu and records it as the live prompt.
// This is the explicit internal transition that replaces re-dispatching a
// synthetic message back through the handler.
func (s *KeywordSession) showMenu(ctx context.Context, channelID string) error {
	reply := "Thank you for starting the keyword editing process. "
	reply += "Please react with a corresponding number for the action you'd like to take.\n"
	reply += constant.EmojiOne + " - List Keywords\n"
	reply += constant.EmojiTwo + " - Add Keyword\n"
	reply += constant.EmojiThree + " - Remove Keyword\n"
	reply += constant.EmojiFour + " - Done/Cancel"

	sent, err := s.chat.Send(ctx, channelID, reply)
	if err != nil {
		return err
	}
	s.prompt = PendingPrompt{MessageID: sent.ID, Choices: constant.MenuEmoji}
	s.state = keywordStateAwaitingChoice
	return nil
}

// listKeywords is the transient LIST step: render and fall straight back to
// the menu.
func (s *KeywordSession) listKeywords(ctx context.Context, channelID string) error {
	keywords, err := s.keywords.List(ctx)
	if err != nil {
		return err
	}

	var notice string
	if len(keywords) == 0 {
		notice = "There are no keywords currently."
	} else {
		notice = fmt.Sprintf("Here are the current keywords: \n%s", strings.Join(keywords, "\n"))
	}
	if _, err := s.chat.Send(ctx, channelID, notice); err != nil {
		return err
	}
	return s.showMenu(ctx, channelID)
}
