package oracle

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPerspectiveScorerParsesAttributes(t *testing.T) {
	var gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.URL.Query().Get("key")

		var req analyzeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "you are awful", req.Comment.Text)
		assert.Contains(t, req.RequestedAttributes, "IDENTITY_ATTACK")

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"attributeScores":{
			"TOXICITY":{"summaryScore":{"value":0.91}},
			"SEVERE_TOXICITY":{"summaryScore":{"value":0.42}},
			"IDENTITY_ATTACK":{"summaryScore":{"value":0.77}}}}`))
	}))
	defer srv.Close()

	scorer := NewPerspectiveScorer("test-key").WithBaseURL(srv.URL)
	scores, err := scorer.Score(context.Background(), "you are awful")
	require.NoError(t, err)

	assert.Equal(t, "test-key", gotKey)
	assert.Equal(t, 0.91, scores.Toxicity)
	assert.Equal(t, 0.42, scores.SevereToxicity)
	assert.Equal(t, 0.77, scores.IdentityAttack)
}

func TestPerspectiveScorerNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	scorer := NewPerspectiveScorer("test-key").WithBaseURL(srv.URL)
	_, err := scorer.Score(context.Background(), "anything")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestChatClassifierReturnsLabel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req completionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Equal(t, "slur goes here", req.Messages[1].Content)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":" racism\n"}}]}`))
	}))
	defer srv.Close()

	classifier := NewChatClassifier("test-key").WithBaseURL(srv.URL)
	label, err := classifier.Classify(context.Background(), "slur goes here")
	require.NoError(t, err)
	assert.Equal(t, "racism", label)
}

func TestChatClassifierEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	classifier := NewChatClassifier("test-key").WithBaseURL(srv.URL)
	_, err := classifier.Classify(context.Background(), "anything")
	require.Error(t, err)
}
