package service

import (
	"context"

	"chat-moderation-be/internal/constant"
	"chat-moderation-be/pkg/store"
)

// IFlagService tracks how many times each user's messages have completed a
// report. The counter only ever goes up; the store's Increment is atomic so
// concurrent completions never lose a count.
type IFlagService interface {
	Increment(ctx context.Context, userID string) (int64, error)
	FlagCount(ctx context.Context, userID string) (int64, error)
}

type flagService struct {
	store store.DocumentStore
}

func NewFlagService(docStore store.DocumentStore) IFlagService {
	return &flagService{store: docStore}
}

func (s *flagService) Increment(ctx context.Context, userID string) (int64, error) {
	return s.store.Increment(ctx, constant.CollectionUsers, userID, constant.FieldFlagCounts)
}

func (s *flagService) FlagCount(ctx context.Context, userID string) (int64, error) {
	doc, exists, err := s.store.GetDocument(ctx, constant.CollectionUsers, userID)
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, nil
	}
	switch n := doc[constant.FieldFlagCounts].(type) {
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case float64:
		return int64(n), nil
	}
	return 0, nil
}
