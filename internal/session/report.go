package session

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"chat-moderation-be/internal/constant"
	"chat-moderation-be/internal/dto"
	"chat-moderation-be/pkg/transport"
)

type reportState int

const (
	reportStateStart reportState = iota
	reportStateAwaitingLink
	reportStateCategorySelect
	reportStateAwaitingExplanation
	reportStateConfirm
	reportStateComplete
	reportStateCancelled
)

var messageLinkPattern = regexp.MustCompile(`/([^/\s]+)/([^/\s]+)/([^/\s]+)$`)

// ReportResult is what a completed report hands to the dispatcher: the
// flagged message reference, the chosen category and the reporter identity.
type ReportResult struct {
	Reported       *transport.Message
	Reporter       transport.User
	Category       string
	Explanation    string
	BlockRequested bool
}

// ReportPolicy carries the category menu copy so the transition shape stays
// generic while the concrete prompts remain configuration.
type ReportPolicy struct {
	Categories [4]string
}

// DefaultReportPolicy mirrors the platform's standard abuse menu.
func DefaultReportPolicy() ReportPolicy {
	return ReportPolicy{
		Categories: [4]string{
			constant.CategoryHarassment,
			constant.CategoryOffensive,
			constant.CategoryViolence,
			constant.CategoryOther,
		},
	}
}

// ReportSession is the user-initiated flagging workflow: identify the target
// message by link, pick a category, optionally explain, confirm, done.
type ReportSession struct {
	chat     transport.Chat
	reporter transport.User
	policy   ReportPolicy

	state    reportState
	prompt   PendingPrompt
	reported *transport.Message
	category string
	explain  string
	block    bool
}

func NewReportSession(chat transport.Chat, reporter transport.User, policy ReportPolicy) *ReportSession {
	return &ReportSession{
		chat:     chat,
		reporter: reporter,
		policy:   policy,
		state:    reportStateStart,
	}
}

func (s *ReportSession) Complete() bool { return s.state == reportStateComplete }

func (s *ReportSession) Cancelled() bool { return s.state == reportStateCancelled }

// Result is valid once Complete() holds.
func (s *ReportSession) Result() *ReportResult {
	if s.state != reportStateComplete {
		return nil
	}
	return &ReportResult{
		Reported:       s.reported,
		Reporter:       s.reporter,
		Category:       s.category,
		Explanation:    s.explain,
		BlockRequested: s.block,
	}
}

func (s *ReportSession) HandleMessage(ctx context.Context, msg *transport.Message) error {
	if msg.Content == constant.CancelKeyword {
		s.state = reportStateCancelled
		_, err := s.chat.Send(ctx, msg.ChannelID, "Report cancelled.")
		return err
	}

	switch s.state {
	case reportStateStart:
		reply := "Thank you for starting the reporting process. "
		reply += "Say `" + constant.CancelKeyword + "` at any point to cancel.\n\n"
		reply += "Please copy paste the link to the message you want to report.\n"
		reply += "You can obtain this link by right-clicking the message and clicking `Copy Message Link`."
		if _, err := s.chat.Send(ctx, msg.ChannelID, reply); err != nil {
			return err
		}
		s.state = reportStateAwaitingLink
		return nil

	case reportStateAwaitingLink:
		return s.identifyTarget(ctx, msg)

	case reportStateAwaitingExplanation:
		s.explain = msg.Content
		return s.showConfirm(ctx, msg.ChannelID)
	}

	return nil
}

func (s *ReportSession) identifyTarget(ctx context.Context, msg *transport.Message) error {
	m := messageLinkPattern.FindStringSubmatch(msg.Content)
	if m == nil {
		_, err := s.chat.Send(ctx, msg.ChannelID, "I'm sorry, I couldn't read that link. Please try again or say `cancel` to cancel.")
		return err
	}

	reported, err := s.chat.FetchMessage(ctx, m[2], m[3])
	if errors.Is(err, transport.ErrNotFound) || errors.Is(err, transport.ErrForbidden) {
		_, err := s.chat.Send(ctx, msg.ChannelID, "It seems this message was deleted or never existed. Please try again or say `cancel` to cancel.")
		return err
	}
	if err != nil {
		return err
	}
	s.reported = reported

	reply := fmt.Sprintf("I found this message:\n```%s: %s```\n", reported.Author.Name, reported.Content)
	reply += "Please react with the corresponding number for the reason of your report:\n"
	for i, category := range s.policy.Categories {
		reply += fmt.Sprintf("%s - %s\n", constant.MenuEmoji[i], category)
	}

	sent, err := s.chat.Send(ctx, msg.ChannelID, reply)
	if err != nil {
		return err
	}
	s.prompt = PendingPrompt{MessageID: sent.ID, Choices: constant.MenuEmoji}
	s.state = reportStateCategorySelect
	return nil
}

func (s *ReportSession) HandleReaction(ctx context.Context, reaction *dto.ReactionEvent, target *transport.Message) error {
	switch s.state {
	case reportStateCategorySelect:
		if !s.prompt.IsLive(target.ID) {
			_, err := s.chat.Send(ctx, reaction.ChannelID, stalePromptReply)
			return err
		}
		if !s.prompt.Allows(reaction.Emoji) {
			_, err := s.chat.Send(ctx, reaction.ChannelID, unknownEmojiReply)
			return err
		}
		s.category = s.policy.Categories[emojiIndex(reaction.Emoji)]
		if s.category == constant.CategoryOther {
			if _, err := s.chat.Send(ctx, reaction.ChannelID, "Please tell us in your own words what is wrong with this message."); err != nil {
				return err
			}
			s.state = reportStateAwaitingExplanation
			return nil
		}
		return s.showConfirm(ctx, reaction.ChannelID)

	case reportStateConfirm:
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
			return s.complete(ctx, reaction.ChannelID, false)
		case constant.EmojiTwo:
			return s.complete(ctx, reaction.ChannelID, true)
		case constant.EmojiThree:
			s.state = reportStateCancelled
			_, err := s.chat.Send(ctx, reaction.ChannelID, "Report cancelled.")
			return err
		}
	}

	return nil
}

func (s *ReportSession) showConfirm(ctx context.Context, channelID string) error {
	reply := fmt.Sprintf("You are reporting this message for **%s**.\n", s.category)
	reply += constant.EmojiOne + " - Submit report\n"
	reply += constant.EmojiTwo + " - Submit report and block this user\n"
	reply += constant.EmojiThree + " - Cancel report"

	sent, err := s.chat.Send(ctx, channelID, reply)
	if err != nil {
		return err
	}
	s.prompt = PendingPrompt{
		MessageID: sent.ID,
		Choices:   []string{constant.EmojiOne, constant.EmojiTwo, constant.EmojiThree},
	}
	s.state = reportStateConfirm
	return nil
}

func (s *ReportSession) complete(ctx context.Context, channelID string, block bool) error {
	s.block = block
	s.state = reportStateComplete
	reply := "Thank you for your report. Our moderation team will review the message shortly."
	if block {
		reply += " The user has been blocked for you."
	}
	_, err := s.chat.Send(ctx, channelID, reply)
	return err
}
