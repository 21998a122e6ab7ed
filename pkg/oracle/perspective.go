package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const perspectiveURL = "https://commentanalyzer.googleapis.com/v1alpha1/comments:analyze"

// PerspectiveScorer calls the Perspective comment-analyzer API for the
// TOXICITY, SEVERE_TOXICITY and IDENTITY_ATTACK attributes.
type PerspectiveScorer struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

func NewPerspectiveScorer(apiKey string) *PerspectiveScorer {
	return &PerspectiveScorer{
		apiKey:  apiKey,
		baseURL: perspectiveURL,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// WithBaseURL overrides the endpoint, for tests against a local server.
func (s *PerspectiveScorer) WithBaseURL(url string) *PerspectiveScorer {
	s.baseURL = url
	return s
}

type analyzeRequest struct {
	Comment struct {
		Text string `json:"text"`
	} `json:"comment"`
	RequestedAttributes map[string]struct{} `json:"requestedAttributes"`
}

type analyzeResponse struct {
	AttributeScores map[string]struct {
		SummaryScore struct {
			Value float64 `json:"value"`
		} `json:"summaryScore"`
	} `json:"attributeScores"`
}

func (s *PerspectiveScorer) Score(ctx context.Context, text string) (*Scores, error) {
	var reqBody analyzeRequest
	reqBody.Comment.Text = text
	reqBody.RequestedAttributes = map[string]struct{}{
		"TOXICITY":        {},
		"SEVERE_TOXICITY": {},
		"IDENTITY_ATTACK": {},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal analyze request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"?key="+s.apiKey, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("scoring request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("scoring oracle returned %d: %s", resp.StatusCode, string(raw))
	}

	var decoded analyzeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode scoring response: %w", err)
	}

	return &Scores{
		Toxicity:       decoded.AttributeScores["TOXICITY"].SummaryScore.Value,
		SevereToxicity: decoded.AttributeScores["SEVERE_TOXICITY"].SummaryScore.Value,
		IdentityAttack: decoded.AttributeScores["IDENTITY_ATTACK"].SummaryScore.Value,
	}, nil
}
