package dto

// FieldResult is the engine's only per-field output unit. A field that could
// not be resolved carries an empty Value and Confidence 0 -- "not found" is a
// value, never an error.
type FieldResult struct {
	Value      string   `json:"value"`
	Confidence float64  `json:"confidence"`
	Evidence   Evidence `json:"evidence"`
}

// Evidence records where a value came from: the anchor phrase that located it
// and the source window text it was pulled from.
type Evidence struct {
	Anchor string `json:"anchor,omitempty"`
	Line   string `json:"line,omitempty"`
}

// AnchorHit is a fuzzy match of one anchor phrase against one document line.
// Hits are ephemeral: produced by the anchor index and consumed immediately by
// the confidence resolver.
type AnchorHit struct {
	Line   int
	Phrase string
	Score  int
}

// Word is a positioned token from native PDF extraction. Used by the
// layout-aware business name pass to reconstruct visual rows.
type Word struct {
	Text string
	X    float64
	Y    float64
	Size float64
}
