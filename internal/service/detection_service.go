package service

import (
	"context"
	"fmt"

	"chat-moderation-be/internal/constant"
	"chat-moderation-be/internal/pkg/logger"
	"chat-moderation-be/pkg/oracle"
	"chat-moderation-be/pkg/transport"
)

// identityAttackThreshold gates the classifier call on the automatic path.
const identityAttackThreshold = 0.5

// IDetectionService screens every group-channel message. The keyword
// block-list is checked first and short-circuits with maximum severity; only
// clean messages are sent to the external scorer, and only messages whose
// identity-attack score crosses the threshold are classified and alerted.
type IDetectionService interface {
	Scan(ctx context.Context, msg *transport.Message) error
}

type detectionService struct {
	keywords   IKeywordService
	scorer     oracle.Scorer
	classifier oracle.Classifier
	alerts     IAlertService
	logger     logger.ILogger
}

func NewDetectionService(
	keywords IKeywordService,
	scorer oracle.Scorer,
	classifier oracle.Classifier,
	alerts IAlertService,
	sysLogger logger.ILogger,
) IDetectionService {
	return &detectionService{
		keywords:   keywords,
		scorer:     scorer,
		classifier: classifier,
		alerts:     alerts,
		logger:     sysLogger,
	}
}

func (s *detectionService) Scan(ctx context.Context, msg *transport.Message) error {
	matched, hit, err := s.keywords.Match(ctx, msg.Content)
	if err != nil {
		return fmt.Errorf("failed to match keywords: %w", err)
	}
	if hit {
		s.logger.Info("DetectionService", "Keyword match", map[string]interface{}{
			"keyword":   matched,
			"author_id": msg.Author.ID,
		})
		return s.alerts.RaiseAutoAlert(ctx, msg, constant.LabelManualKeyword, 1)
	}

	scores, err := s.scorer.Score(ctx, msg.Content)
	if err != nil {
		return fmt.Errorf("failed to score message: %w", err)
	}
	if scores.IdentityAttack <= identityAttackThreshold {
		return nil
	}

	subcategory, err := s.classifier.Classify(ctx, msg.Content)
	if err != nil {
		s.logger.Error("DetectionService", "Classifier unavailable, alerting without subcategory", map[string]interface{}{
			"error": err.Error(),
		})
		subcategory = "Unclassified"
	}

	return s.alerts.RaiseAutoAlert(ctx, msg, subcategory, scores.IdentityAttack)
}
