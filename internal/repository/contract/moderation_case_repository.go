package contract

import (
	"context"

	"chat-moderation-be/internal/entity"
	"chat-moderation-be/internal/repository/specification"
)

type ModerationCaseRepository interface {
	Create(ctx context.Context, moderationCase *entity.ModerationCase) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ModerationCase, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
