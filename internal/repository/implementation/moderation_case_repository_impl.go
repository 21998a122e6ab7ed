package implementation

import (
	"context"

	"chat-moderation-be/internal/entity"
	"chat-moderation-be/internal/mapper"
	"chat-moderation-be/internal/model"
	"chat-moderation-be/internal/repository/contract"
	"chat-moderation-be/internal/repository/specification"

	"gorm.io/gorm"
)

type ModerationCaseRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.CaseMapper
}

func NewModerationCaseRepository(db *gorm.DB) contract.ModerationCaseRepository {
	return &ModerationCaseRepositoryImpl{
		db:     db,
		mapper: mapper.NewCaseMapper(),
	}
}

func (r *ModerationCaseRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ModerationCaseRepositoryImpl) Create(ctx context.Context, moderationCase *entity.ModerationCase) error {
	m := r.mapper.CaseToModel(moderationCase)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*moderationCase = *r.mapper.CaseToEntity(m)
	return nil
}

func (r *ModerationCaseRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ModerationCase, error) {
	var models []*model.ModerationCase
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	cases := make([]*entity.ModerationCase, 0, len(models))
	for _, m := range models {
		cases = append(cases, r.mapper.CaseToEntity(m))
	}
	return cases, nil
}

func (r *ModerationCaseRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.ModerationCase{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
