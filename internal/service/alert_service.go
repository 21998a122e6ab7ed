package service

import (
	"context"
	"fmt"
	"time"

	"chat-moderation-be/internal/constant"
	"chat-moderation-be/internal/dto"
	"chat-moderation-be/internal/entity"
	"chat-moderation-be/internal/pkg/logger"
	"chat-moderation-be/internal/pkg/mailer"
	"chat-moderation-be/internal/repository/contract"
	"chat-moderation-be/internal/session"
	"chat-moderation-be/pkg/events"
	"chat-moderation-be/pkg/transport"

	"github.com/google/uuid"
)

// PriorityForScore buckets a score into an alert priority. Boundaries are
// strictly greater-than: 0.9 itself is Medium, 0.7 itself is Low.
func PriorityForScore(score float64) string {
	priority := constant.PriorityLow
	if score > 0.7 {
		priority = constant.PriorityMedium
	}
	if score > 0.9 {
		priority = constant.PriorityHigh
	}
	return priority
}

// categoryPriority maps user-report categories to alert priorities.
var categoryPriority = map[string]string{
	constant.CategoryHarassment: constant.PriorityMedium,
	constant.CategoryOffensive:  constant.PriorityMedium,
	constant.CategoryViolence:   constant.PriorityHigh,
	constant.CategoryOther:      constant.PriorityLow,
}

// AlertBroadcaster pushes rendered alerts to connected moderator dashboards.
type AlertBroadcaster interface {
	BroadcastAlert(alert dto.AlertPush)
}

// AuditPublisher emits moderation audit events.
type AuditPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// IAlertService renders the standardized alert embed for the mod channel and
// fans it out to the dashboard stream, the audit bus, the case archive and,
// for High priority, the moderator mail list. A transport failure on the
// embed send is an error; every other sink is best effort and only logged.
type IAlertService interface {
	RaiseAutoAlert(ctx context.Context, msg *transport.Message, subcategory string, score float64) error
	RaiseReportAlert(ctx context.Context, result *session.ReportResult) error
	AnnounceEscalation(ctx context.Context, result *session.ModReviewResult) error
	AnnounceVerdict(ctx context.Context, result *session.CommitteeResult) error
}

type alertService struct {
	chat               transport.Chat
	modChannelID       string
	committeeChannelID string

	hub    AlertBroadcaster
	audit  AuditPublisher
	mail   mailer.IEmailService
	cases  contract.ModerationCaseRepository
	logger logger.ILogger
}

func NewAlertService(
	chat transport.Chat,
	modChannelID string,
	committeeChannelID string,
	hub AlertBroadcaster,
	audit AuditPublisher,
	mail mailer.IEmailService,
	cases contract.ModerationCaseRepository,
	sysLogger logger.ILogger,
) IAlertService {
	return &alertService{
		chat:               chat,
		modChannelID:       modChannelID,
		committeeChannelID: committeeChannelID,
		hub:                hub,
		audit:              audit,
		mail:               mail,
		cases:              cases,
		logger:             sysLogger,
	}
}

func (s *alertService) RaiseAutoAlert(ctx context.Context, msg *transport.Message, subcategory string, score float64) error {
	priority := PriorityForScore(score)

	embed := &transport.Embed{
		Title:       "New Report Filed",
		Description: "The following message was automatically flagged for review:",
		Color:       constant.PriorityColors[priority],
	}
	embed.AddField("Message Content", fmt.Sprintf("```%s: %s```", msg.Author.Name, msg.Content), false)
	embed.AddField("Priority", priority, true)
	embed.AddField("Identity Attack Score", fmt.Sprintf("%.2f", score), true)
	embed.AddField("Subcategory:", subcategory, false)

	if _, err := s.chat.SendEmbed(ctx, s.modChannelID, embed); err != nil {
		return fmt.Errorf("failed to send alert to mod channel: %w", err)
	}

	s.fanOut(ctx, dto.AlertPush{
		Title:       "New Report Filed",
		FlaggedUser: msg.Author.Name,
		Content:     msg.Content,
		Subcategory: subcategory,
		Priority:    priority,
		Score:       score,
		Source:      entity.CaseSourceAuto,
	}, events.NewAlertRaised(msg.Author.ID, subcategory, priority, score), &entity.ModerationCase{
		Id:              uuid.New(),
		Source:          entity.CaseSourceAuto,
		FlaggedUserId:   msg.Author.ID,
		FlaggedUserName: msg.Author.Name,
		Content:         msg.Content,
		Subcategory:     subcategory,
		Priority:        priority,
		Score:           score,
		CreatedAt:       time.Now(),
	})
	return nil
}

func (s *alertService) RaiseReportAlert(ctx context.Context, result *session.ReportResult) error {
	priority, ok := categoryPriority[result.Category]
	if !ok {
		priority = constant.PriorityLow
	}

	embed := &transport.Embed{
		Title:       "New Report Filed",
		Description: fmt.Sprintf("User %s filed a report against the following message:", result.Reporter.Name),
		Color:       constant.PriorityColors[priority],
	}
	embed.AddField("Message Content", fmt.Sprintf("```%s: %s```", result.Reported.Author.Name, result.Reported.Content), false)
	embed.AddField("Priority", priority, true)
	embed.AddField("Reported by", result.Reporter.Name, true)
	embed.AddField("Reported abuse type", result.Category, false)
	if result.Explanation != "" {
		embed.AddField("User explanation", result.Explanation, false)
	}

	if _, err := s.chat.SendEmbed(ctx, s.modChannelID, embed); err != nil {
		return fmt.Errorf("failed to send report to mod channel: %w", err)
	}

	details := map[string]interface{}{
		"reporter_id":     result.Reporter.ID,
		"block_requested": result.BlockRequested,
	}
	if result.Explanation != "" {
		details["explanation"] = result.Explanation
	}

	s.fanOut(ctx, dto.AlertPush{
		Title:       "New Report Filed",
		FlaggedUser: result.Reported.Author.Name,
		Content:     result.Reported.Content,
		Subcategory: result.Category,
		Priority:    priority,
		Source:      entity.CaseSourceUserReport,
	}, events.NewReportCompleted(result.Reporter.ID, result.Reported.Author.ID, result.Category), &entity.ModerationCase{
		Id:              uuid.New(),
		Source:          entity.CaseSourceUserReport,
		FlaggedUserId:   result.Reported.Author.ID,
		FlaggedUserName: result.Reported.Author.Name,
		Content:         result.Reported.Content,
		Subcategory:     result.Category,
		Priority:        priority,
		Details:         details,
		CreatedAt:       time.Now(),
	})
	return nil
}

func (s *alertService) AnnounceEscalation(ctx context.Context, result *session.ModReviewResult) error {
	embed := &transport.Embed{
		Title:       "Case Escalated",
		Description: fmt.Sprintf("Moderator %s escalated the following case for committee review:", result.Moderator.Name),
		Color:       constant.PriorityColors[constant.PriorityHigh],
	}
	embed.AddField("Message Content", fmt.Sprintf("```%s: %s```", result.Reviewed.Author.Name, result.Reviewed.Content), false)

	if _, err := s.chat.SendEmbed(ctx, s.committeeChannelID, embed); err != nil {
		return fmt.Errorf("failed to send escalation to committee channel: %w", err)
	}

	s.publish(ctx, events.NewReportEscalated(result.Moderator.ID, result.Reviewed.Author.ID))
	return nil
}

func (s *alertService) AnnounceVerdict(ctx context.Context, result *session.CommitteeResult) error {
	notice := fmt.Sprintf("Committee verdict from %s: %s", result.Reviewer.Name, result.Verdict)
	if _, err := s.chat.Send(ctx, s.modChannelID, notice); err != nil {
		return fmt.Errorf("failed to announce verdict to mod channel: %w", err)
	}

	s.publish(ctx, events.NewCommitteeResolved(result.Reviewer.ID, result.Verdict))

	if s.cases != nil {
		moderationCase := &entity.ModerationCase{
			Id:         uuid.New(),
			Source:     entity.CaseSourceCommittee,
			Resolution: result.Verdict,
			Details:    map[string]interface{}{"reviewer_id": result.Reviewer.ID},
			CreatedAt:  time.Now(),
		}
		if err := s.cases.Create(ctx, moderationCase); err != nil {
			s.logger.Error("AlertService", "Failed to archive committee verdict", map[string]interface{}{"error": err.Error()})
		}
	}
	return nil
}

func (s *alertService) fanOut(ctx context.Context, push dto.AlertPush, event events.Event, moderationCase *entity.ModerationCase) {
	if s.hub != nil {
		s.hub.BroadcastAlert(push)
	}
	s.publish(ctx, event)

	if s.cases != nil {
		if err := s.cases.Create(ctx, moderationCase); err != nil {
			s.logger.Error("AlertService", "Failed to archive case", map[string]interface{}{"error": err.Error()})
		}
	}

	if push.Priority == constant.PriorityHigh && s.mail != nil {
		if err := s.mail.SendHighSeverityAlert(push.FlaggedUser, push.Content, push.Subcategory, push.Score); err != nil {
			s.logger.Error("AlertService", "Failed to send alert mail", map[string]interface{}{"error": err.Error()})
		}
	}
}

func (s *alertService) publish(ctx context.Context, event events.Event) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Publish(ctx, event); err != nil {
		s.logger.Error("AlertService", "Failed to publish audit event", map[string]interface{}{
			"event": event.EventType(),
			"error": err.Error(),
		})
	}
}
