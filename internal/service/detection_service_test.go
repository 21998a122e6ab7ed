package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"chat-moderation-be/internal/constant"
	"chat-moderation-be/internal/pkg/logger"
	"chat-moderation-be/internal/session"
	"chat-moderation-be/pkg/oracle"
	"chat-moderation-be/pkg/transport"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }
func (nopLogger) GetLogs(string, int, int) ([]logger.LogEntry, error) {
	return nil, nil
}

type recordingScorer struct {
	calls  int
	scores oracle.Scores
}

func (r *recordingScorer) Score(context.Context, string) (*oracle.Scores, error) {
	r.calls++
	s := r.scores
	return &s, nil
}

type recordingClassifier struct {
	calls int
	label string
	err   error
}

func (r *recordingClassifier) Classify(context.Context, string) (string, error) {
	r.calls++
	return r.label, r.err
}

type recordedAlert struct {
	subcategory string
	score       float64
}

type recordingAlerts struct {
	raised []recordedAlert
}

func (r *recordingAlerts) RaiseAutoAlert(_ context.Context, _ *transport.Message, subcategory string, score float64) error {
	r.raised = append(r.raised, recordedAlert{subcategory: subcategory, score: score})
	return nil
}

func (r *recordingAlerts) RaiseReportAlert(context.Context, *session.ReportResult) error { return nil }
func (r *recordingAlerts) AnnounceEscalation(context.Context, *session.ModReviewResult) error {
	return nil
}
func (r *recordingAlerts) AnnounceVerdict(context.Context, *session.CommitteeResult) error {
	return nil
}

type staticKeywords struct {
	keywords []string
}

func (s *staticKeywords) List(context.Context) ([]string, error)          { return s.keywords, nil }
func (s *staticKeywords) Add(context.Context, string) (bool, error)       { return false, nil }
func (s *staticKeywords) Remove(context.Context, string) (bool, error)    { return false, nil }
func (s *staticKeywords) Match(_ context.Context, content string) (string, bool, error) {
	lowered := strings.ToLower(content)
	for _, kw := range s.keywords {
		if strings.Contains(lowered, strings.ToLower(kw)) {
			return kw, true, nil
		}
	}
	return "", false, nil
}

func groupMessage(content string) *transport.Message {
	return &transport.Message{
		ID:        "msg-1",
		GuildID:   "guild-1",
		ChannelID: "chan-group",
		Author:    transport.User{ID: "mallory", Name: "mallory"},
		Content:   content,
	}
}

func TestPriorityForScore(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{0.95, constant.PriorityHigh},
		{0.91, constant.PriorityHigh},
		{0.9, constant.PriorityMedium},
		{0.75, constant.PriorityMedium},
		{0.7, constant.PriorityLow},
		{0.3, constant.PriorityLow},
		{0, constant.PriorityLow},
		{1, constant.PriorityHigh},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PriorityForScore(tt.score), "score %v", tt.score)
	}
}

func TestScanKeywordShortCircuitsScorer(t *testing.T) {
	scorer := &recordingScorer{}
	classifier := &recordingClassifier{label: "racism"}
	alerts := &recordingAlerts{}
	svc := NewDetectionService(&staticKeywords{keywords: []string{"slur1"}}, scorer, classifier, alerts, nopLogger{})

	require.NoError(t, svc.Scan(context.Background(), groupMessage("you are a SLUR1")))

	require.Len(t, alerts.raised, 1)
	assert.Equal(t, constant.LabelManualKeyword, alerts.raised[0].subcategory)
	assert.Equal(t, float64(1), alerts.raised[0].score)
	assert.Zero(t, scorer.calls)
	assert.Zero(t, classifier.calls)
}

func TestScanBelowThresholdNoAlert(t *testing.T) {
	scorer := &recordingScorer{scores: oracle.Scores{IdentityAttack: 0.5}}
	classifier := &recordingClassifier{label: "racism"}
	alerts := &recordingAlerts{}
	svc := NewDetectionService(&staticKeywords{}, scorer, classifier, alerts, nopLogger{})

	// 0.5 exactly does not cross the threshold
	require.NoError(t, svc.Scan(context.Background(), groupMessage("borderline")))

	assert.Equal(t, 1, scorer.calls)
	assert.Zero(t, classifier.calls)
	assert.Empty(t, alerts.raised)
}

func TestScanAboveThresholdClassifiesAndAlerts(t *testing.T) {
	scorer := &recordingScorer{scores: oracle.Scores{IdentityAttack: 0.82}}
	classifier := &recordingClassifier{label: "sexism"}
	alerts := &recordingAlerts{}
	svc := NewDetectionService(&staticKeywords{}, scorer, classifier, alerts, nopLogger{})

	require.NoError(t, svc.Scan(context.Background(), groupMessage("targeted abuse")))

	require.Len(t, alerts.raised, 1)
	assert.Equal(t, "sexism", alerts.raised[0].subcategory)
	assert.Equal(t, 0.82, alerts.raised[0].score)
	assert.Equal(t, 1, classifier.calls)
}

func TestScanClassifierFailureStillAlerts(t *testing.T) {
	scorer := &recordingScorer{scores: oracle.Scores{IdentityAttack: 0.9}}
	classifier := &recordingClassifier{err: errors.New("upstream down")}
	alerts := &recordingAlerts{}
	svc := NewDetectionService(&staticKeywords{}, scorer, classifier, alerts, nopLogger{})

	require.NoError(t, svc.Scan(context.Background(), groupMessage("targeted abuse")))

	require.Len(t, alerts.raised, 1)
	assert.Equal(t, "Unclassified", alerts.raised[0].subcategory)
}
