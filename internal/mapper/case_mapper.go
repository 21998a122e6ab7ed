package mapper

import (
	"encoding/json"

	"chat-moderation-be/internal/entity"
	"chat-moderation-be/internal/model"
)

type CaseMapper struct{}

func NewCaseMapper() *CaseMapper {
	return &CaseMapper{}
}

func (m *CaseMapper) CaseToModel(e *entity.ModerationCase) *model.ModerationCase {
	var details []byte
	if e.Details != nil {
		details, _ = json.Marshal(e.Details)
	}
	return &model.ModerationCase{
		Id:              e.Id,
		Source:          e.Source,
		FlaggedUserId:   e.FlaggedUserId,
		FlaggedUserName: e.FlaggedUserName,
		Content:         e.Content,
		Subcategory:     e.Subcategory,
		Priority:        e.Priority,
		Score:           e.Score,
		Resolution:      e.Resolution,
		Details:         details,
		CreatedAt:       e.CreatedAt,
	}
}

func (m *CaseMapper) CaseToEntity(mc *model.ModerationCase) *entity.ModerationCase {
	var details map[string]interface{}
	if len(mc.Details) > 0 {
		_ = json.Unmarshal(mc.Details, &details)
	}
	return &entity.ModerationCase{
		Id:              mc.Id,
		Source:          mc.Source,
		FlaggedUserId:   mc.FlaggedUserId,
		FlaggedUserName: mc.FlaggedUserName,
		Content:         mc.Content,
		Subcategory:     mc.Subcategory,
		Priority:        mc.Priority,
		Score:           mc.Score,
		Resolution:      mc.Resolution,
		Details:         details,
		CreatedAt:       mc.CreatedAt,
	}
}
