package dispatcher

import (
	"context"
	"errors"
	"strings"

	"chat-moderation-be/internal/constant"
	"chat-moderation-be/internal/dto"
	"chat-moderation-be/internal/pkg/logger"
	"chat-moderation-be/internal/service"
	"chat-moderation-be/internal/session"
	"chat-moderation-be/pkg/transport"
)

const helpReply = "Use the `report` command to begin the reporting process.\n" +
	"Use the `keywords` command to manage the keyword block-list.\n" +
	"Use the `cancel` command to cancel an active flow at any time."

// Dispatcher routes every inbound chat event to the right workflow session,
// creating sessions on start keywords and retiring them once a terminal
// predicate holds. Each actor holds at most one live session per workflow
// kind. All maps are owned by the single ingest goroutine; nothing here is
// safe for concurrent use.
type Dispatcher struct {
	chat      transport.Chat
	detection service.IDetectionService
	alerts    service.IAlertService
	keywords  session.KeywordStore
	flags     service.IFlagService
	audit     service.AuditPublisher
	policy    session.ReportPolicy
	logger    logger.ILogger

	groupChannelID     string
	modChannelID       string
	committeeChannelID string

	keywordSessions   map[string]*session.KeywordSession
	reportSessions    map[string]*session.ReportSession
	modSessions       map[string]*session.ModReviewSession
	committeeSessions map[string]*session.CommitteeSession
}

func NewDispatcher(
	chat transport.Chat,
	detection service.IDetectionService,
	alerts service.IAlertService,
	keywords session.KeywordStore,
	flags service.IFlagService,
	audit service.AuditPublisher,
	policy session.ReportPolicy,
	groupChannelID string,
	modChannelID string,
	committeeChannelID string,
	sysLogger logger.ILogger,
) *Dispatcher {
	return &Dispatcher{
		chat:               chat,
		detection:          detection,
		alerts:             alerts,
		keywords:           keywords,
		flags:              flags,
		audit:              audit,
		policy:             policy,
		logger:             sysLogger,
		groupChannelID:     groupChannelID,
		modChannelID:       modChannelID,
		committeeChannelID: committeeChannelID,
		keywordSessions:    make(map[string]*session.KeywordSession),
		reportSessions:     make(map[string]*session.ReportSession),
		modSessions:        make(map[string]*session.ModReviewSession),
		committeeSessions:  make(map[string]*session.CommitteeSession),
	}
}

// HandleMessage routes one message event. Messages authored by the bot
// itself are never processed.
func (d *Dispatcher) HandleMessage(ctx context.Context, msg *transport.Message) error {
	if msg.Author.ID == d.chat.BotUser().ID {
		return nil
	}
	if msg.IsDM() {
		return d.handleDM(ctx, msg)
	}

	switch msg.ChannelID {
	case d.groupChannelID:
		return d.detection.Scan(ctx, msg)
	case d.modChannelID:
		return d.handleModChannel(ctx, msg)
	case d.committeeChannelID:
		return d.handleCommitteeChannel(ctx, msg)
	}
	return nil
}

func (d *Dispatcher) handleDM(ctx context.Context, msg *transport.Message) error {
	content := strings.ToLower(strings.TrimSpace(msg.Content))
	if content == constant.HelpKeyword {
		_, err := d.chat.Send(ctx, msg.ChannelID, helpReply)
		return err
	}

	actor := msg.Author.ID
	if s, ok := d.keywordSessions[actor]; ok {
		err := s.HandleMessage(ctx, msg)
		d.reapKeyword(actor, s)
		return err
	}
	if s, ok := d.reportSessions[actor]; ok {
		err := s.HandleMessage(ctx, msg)
		d.reapReport(ctx, actor, s)
		return err
	}

	if strings.HasPrefix(content, constant.KeywordStartKeyword) {
		s := session.NewKeywordSession(d.chat, d.auditedKeywords(msg.Author.ID), msg.Author)
		d.keywordSessions[actor] = s
		err := s.HandleMessage(ctx, msg)
		d.reapKeyword(actor, s)
		return err
	}
	if strings.HasPrefix(content, constant.StartKeyword) {
		s := session.NewReportSession(d.chat, msg.Author, d.policy)
		d.reportSessions[actor] = s
		err := s.HandleMessage(ctx, msg)
		d.reapReport(ctx, actor, s)
		return err
	}
	return nil
}

func (d *Dispatcher) handleModChannel(ctx context.Context, msg *transport.Message) error {
	actor := msg.Author.ID
	s, ok := d.modSessions[actor]
	if !ok {
		if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(msg.Content)), constant.StartKeyword) {
			return nil
		}
		s = session.NewModReviewSession(d.chat, d.flags, msg.Author)
		d.modSessions[actor] = s
	}
	err := s.HandleMessage(ctx, msg)
	d.reapModReview(ctx, actor, s)
	return err
}

func (d *Dispatcher) handleCommitteeChannel(ctx context.Context, msg *transport.Message) error {
	actor := msg.Author.ID
	s, ok := d.committeeSessions[actor]
	if !ok {
		if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(msg.Content)), constant.StartKeyword) {
			return nil
		}
		s = session.NewCommitteeSession(d.chat, msg.Author)
		d.committeeSessions[actor] = s
	}
	err := s.HandleMessage(ctx, msg)
	d.reapCommittee(ctx, actor, s)
	return err
}

// HandleReaction routes one reaction event. The target message is fetched up
// front; a deleted or unreadable target aborts silently, and reactions to
// messages the bot did not author are ignored.
func (d *Dispatcher) HandleReaction(ctx context.Context, reaction *dto.ReactionEvent) error {
	bot := d.chat.BotUser()
	if reaction.UserID == bot.ID {
		return nil
	}

	target, err := d.chat.FetchMessage(ctx, reaction.ChannelID, reaction.MessageID)
	if errors.Is(err, transport.ErrNotFound) || errors.Is(err, transport.ErrForbidden) {
		return nil
	}
	if err != nil {
		return err
	}
	if target.Author.ID != bot.ID {
		return nil
	}

	actor := reaction.UserID
	if reaction.GuildID == "" {
		if s, ok := d.keywordSessions[actor]; ok {
			err := s.HandleReaction(ctx, reaction, target)
			d.reapKeyword(actor, s)
			return err
		}
		if s, ok := d.reportSessions[actor]; ok {
			err := s.HandleReaction(ctx, reaction, target)
			d.reapReport(ctx, actor, s)
			return err
		}
		return nil
	}

	switch reaction.ChannelID {
	case d.modChannelID:
		if s, ok := d.modSessions[actor]; ok {
			err := s.HandleReaction(ctx, reaction, target)
			d.reapModReview(ctx, actor, s)
			return err
		}
	case d.committeeChannelID:
		if s, ok := d.committeeSessions[actor]; ok {
			err := s.HandleReaction(ctx, reaction, target)
			d.reapCommittee(ctx, actor, s)
			return err
		}
	}
	return nil
}

func (d *Dispatcher) reapKeyword(actor string, s *session.KeywordSession) {
	if s.Cancelled() {
		delete(d.keywordSessions, actor)
	}
}

// reapReport retires a terminal report session. Completion raises exactly one
// alert and increments the flagged user's count exactly once.
func (d *Dispatcher) reapReport(ctx context.Context, actor string, s *session.ReportSession) {
	switch {
	case s.Complete():
		result := s.Result()
		if err := d.alerts.RaiseReportAlert(ctx, result); err != nil {
			d.logger.Error("Dispatcher", "Failed to raise report alert", map[string]interface{}{"error": err.Error()})
		}
		count, err := d.flags.Increment(ctx, result.Reported.Author.ID)
		if err != nil {
			d.logger.Error("Dispatcher", "Failed to increment flag count", map[string]interface{}{"error": err.Error()})
		} else {
			d.logger.Info("Dispatcher", "Report completed", map[string]interface{}{
				"flagged_user_id": result.Reported.Author.ID,
				"flag_count":      count,
			})
		}
		delete(d.reportSessions, actor)
	case s.Cancelled():
		delete(d.reportSessions, actor)
	}
}

func (d *Dispatcher) reapModReview(ctx context.Context, actor string, s *session.ModReviewSession) {
	switch {
	case s.ForwardedToCommittee():
		if err := d.alerts.AnnounceEscalation(ctx, s.Result()); err != nil {
			d.logger.Error("Dispatcher", "Failed to announce escalation", map[string]interface{}{"error": err.Error()})
		}
		delete(d.modSessions, actor)
	case s.Complete(), s.Cancelled():
		delete(d.modSessions, actor)
	}
}

func (d *Dispatcher) reapCommittee(ctx context.Context, actor string, s *session.CommitteeSession) {
	switch {
	case s.Complete():
		if err := d.alerts.AnnounceVerdict(ctx, s.Result()); err != nil {
			d.logger.Error("Dispatcher", "Failed to announce verdict", map[string]interface{}{"error": err.Error()})
		}
		delete(d.committeeSessions, actor)
	case s.Cancelled():
		delete(d.committeeSessions, actor)
	}
}
