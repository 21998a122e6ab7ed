package service

import (
	"context"
	"strings"

	"chat-moderation-be/internal/constant"
	"chat-moderation-be/pkg/store"
)

// IKeywordService maintains the shared block-list used for automatic
// flagging. The list is an ordered set: add/remove check existence first and
// report a no-op instead of failing.
//
// Reads and writes go through the document store with no transaction; two
// moderators editing in the same instant resolve last-write-wins. Accepted
// tradeoff at the expected editor count.
type IKeywordService interface {
	List(ctx context.Context) ([]string, error)
	Add(ctx context.Context, keyword string) (bool, error)
	Remove(ctx context.Context, keyword string) (bool, error)
	// Match returns the first listed keyword contained in content,
	// case-insensitive.
	Match(ctx context.Context, content string) (string, bool, error)
}

type keywordService struct {
	store store.DocumentStore
}

func NewKeywordService(docStore store.DocumentStore) IKeywordService {
	return &keywordService{store: docStore}
}

func (s *keywordService) List(ctx context.Context) ([]string, error) {
	doc, exists, err := s.store.GetDocument(ctx, constant.CollectionConfig, constant.DocumentKeywords)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, nil
	}
	raw, ok := doc[constant.FieldKeywordsList].([]interface{})
	if !ok {
		return nil, nil
	}
	keywords := make([]string, 0, len(raw))
	for _, v := range raw {
		if kw, ok := v.(string); ok {
			keywords = append(keywords, kw)
		}
	}
	return keywords, nil
}

func (s *keywordService) Add(ctx context.Context, keyword string) (bool, error) {
	keywords, err := s.List(ctx)
	if err != nil {
		return false, err
	}
	for _, kw := range keywords {
		if kw == keyword {
			return false, nil
		}
	}
	keywords = append(keywords, keyword)
	return true, s.save(ctx, keywords)
}

func (s *keywordService) Remove(ctx context.Context, keyword string) (bool, error) {
	keywords, err := s.List(ctx)
	if err != nil {
		return false, err
	}
	found := false
	remaining := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		if kw == keyword {
			found = true
			continue
		}
		remaining = append(remaining, kw)
	}
	if !found {
		return false, nil
	}
	return true, s.save(ctx, remaining)
}

func (s *keywordService) Match(ctx context.Context, content string) (string, bool, error) {
	keywords, err := s.List(ctx)
	if err != nil {
		return "", false, err
	}
	lowered := strings.ToLower(content)
	for _, kw := range keywords {
		if strings.Contains(lowered, strings.ToLower(kw)) {
			return kw, true, nil
		}
	}
	return "", false, nil
}

func (s *keywordService) save(ctx context.Context, keywords []string) error {
	list := make([]interface{}, len(keywords))
	for i, kw := range keywords {
		list[i] = kw
	}
	return s.store.SetDocument(ctx, constant.CollectionConfig, constant.DocumentKeywords, map[string]interface{}{
		constant.FieldKeywordsList: list,
	})
}
