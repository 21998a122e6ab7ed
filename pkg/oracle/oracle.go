package oracle

import "context"

// Scores holds the toxicity attributes returned by the scoring oracle,
// each in [0,1].
type Scores struct {
	Toxicity       float64 `json:"toxicity"`
	SevereToxicity float64 `json:"severe_toxicity"`
	IdentityAttack float64 `json:"identity_attack"`
}

// Scorer rates a piece of text. Consumed capability, never trained or
// evaluated here.
type Scorer interface {
	Score(ctx context.Context, text string) (*Scores, error)
}

// Classifier labels text with an abuse subcategory (racism, sexism, ...).
type Classifier interface {
	Classify(ctx context.Context, text string) (string, error)
}
