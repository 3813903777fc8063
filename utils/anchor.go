package utils

import (
	"math"
	"sort"
	"strings"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"

	"github.com/fundingdesk/ocr-underwriting/dto"
)

const (
	// Anchor hits below this partial-ratio similarity are discarded.
	DefaultScoreFloor = 80
	// How many ranked anchor hits the resolver tries per field.
	DefaultMaxHits = 8

	windowRadius       = 2
	headTailLines      = 60
	similarityWeight   = 0.35
	maxConfidence      = 0.98
	fallbackConfidence = 0.45
)

// ExtractFunc pulls a typed value out of a text window. Empty string means
// "nothing usable here"; the resolver moves on to the next candidate.
type ExtractFunc func(window string) string

// FindAnchors scores every (line, phrase) pair with a partial fuzzy ratio and
// returns hits at or above floor, ranked by descending similarity and then by
// ascending document position. Earlier, stronger matches come first.
func FindAnchors(linesLower []string, phrases []string, floor int) []dto.AnchorHit {
	var hits []dto.AnchorHit
	for i, ln := range linesLower {
		for _, phrase := range phrases {
			score := fuzzy.PartialRatio(phrase, ln)
			if score >= floor {
				hits = append(hits, dto.AnchorHit{Line: i, Phrase: phrase, Score: score})
			}
		}
	}
	sort.SliceStable(hits, func(a, b int) bool {
		if hits[a].Score != hits[b].Score {
			return hits[a].Score > hits[b].Score
		}
		return hits[a].Line < hits[b].Line
	})
	return hits
}

// Resolver orchestrates the anchor index and a window extractor into one
// confidence-scored FieldResult. It never fails: a field with no resolvable
// value comes back as the zero FieldResult.
type Resolver struct {
	ScoreFloor int
	MaxHits    int
}

// Resolve tries the extractor against windows around the top-ranked anchor
// hits, keeping the highest-confidence non-empty value (ties keep the first,
// i.e. the earlier/stronger anchor). When no anchor window yields a value it
// falls back to the document head and tail at a fixed lower confidence.
//
// Confidence is base + (similarity/100)*0.35 capped at 0.98, so a stronger
// anchor match never scores below a weaker one for the same field.
func (r Resolver) Resolve(lines, linesLower []string, phrases []string, extract ExtractFunc, base float64) dto.FieldResult {
	floor := r.ScoreFloor
	if floor <= 0 {
		floor = DefaultScoreFloor
	}
	maxHits := r.MaxHits
	if maxHits <= 0 {
		maxHits = DefaultMaxHits
	}

	hits := FindAnchors(linesLower, phrases, floor)
	if len(hits) > maxHits {
		hits = hits[:maxHits]
	}

	var best dto.FieldResult
	for _, h := range hits {
		win := Window(lines, h.Line, windowRadius)
		v := extract(win)
		if v == "" {
			continue
		}
		conf := base + float64(h.Score)/100.0*similarityWeight
		if conf > maxConfidence {
			conf = maxConfidence
		}
		conf = math.Round(conf*100) / 100
		if conf > best.Confidence {
			best = dto.FieldResult{
				Value:      v,
				Confidence: conf,
				Evidence:   dto.Evidence{Anchor: h.Phrase, Line: win},
			}
		}
	}
	if best.Value != "" {
		return best
	}
	return r.headTailFallback(lines, extract)
}

func (r Resolver) headTailFallback(lines []string, extract ExtractFunc) dto.FieldResult {
	head := strings.Join(lines[:min(len(lines), headTailLines)], " | ")
	tail := strings.Join(lines[max(0, len(lines)-headTailLines):], " | ")

	v := extract(head)
	if v == "" {
		v = extract(tail)
	}
	if v == "" {
		return dto.FieldResult{}
	}
	return dto.FieldResult{
		Value:      v,
		Confidence: fallbackConfidence,
		Evidence:   dto.Evidence{Anchor: "global-fallback", Line: "(document head/tail)"},
	}
}
