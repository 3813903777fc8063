package service

import (
	"context"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fundingdesk/ocr-underwriting/dto"
	"github.com/fundingdesk/ocr-underwriting/utils"
	"github.com/fundingdesk/ocr-underwriting/utils/application"
)

// Per-field base confidences. The anchor similarity bonus and field-specific
// boosts stack on top of these.
const (
	baseFICO     = 0.60
	baseState    = 0.62
	baseName     = 0.72
	baseIndustry = 0.55
	baseDuration = 0.60

	nameLayoutFloor    = 0.70
	nameRescanBelow    = 0.82
	corpSuffixBoost    = 0.03
	stateAddrFloor     = 0.76
	stateAddrBoost     = 0.08
	fieldConfidenceCap = 0.99

	previewChars = 200
)

// ApplicationService resolves the underwriting fields from a loan application
// document.
type ApplicationService struct {
	acquirer *Acquirer
	resolver utils.Resolver
	duration application.DurationParser
}

func NewApplicationService(acquirer *Acquirer, scoreFloor, maxHits int) *ApplicationService {
	return &ApplicationService{
		acquirer: acquirer,
		resolver: utils.Resolver{ScoreFloor: scoreFloor, MaxHits: maxHits},
		duration: application.DurationParser{Now: time.Now},
	}
}

// Extract acquires the document text and resolves every application field.
// Fields that cannot be resolved come back as zero-valued entries; only
// acquisition itself can fail.
func (s *ApplicationService) Extract(ctx context.Context, data []byte, opts AcquireOptions) (dto.ApplicationExtraction, error) {
	acq, err := s.acquirer.Acquire(ctx, data, DocApplication, opts)
	if err != nil {
		return dto.ApplicationExtraction{}, err
	}

	lines := acq.Lines
	lower := utils.LowerAll(lines)

	out := dto.ApplicationExtraction{
		Fields: map[string]dto.FieldResult{},
		Source: acq.Source,
	}

	out.Fields[dto.FieldBusinessName] = s.resolveBusinessName(lines, lower, acq.Words)
	out.Fields[dto.FieldState] = s.resolveState(lines, lower)
	out.Fields[dto.FieldIndustry] = s.resolver.Resolve(lines, lower,
		application.Anchors[dto.FieldIndustry], application.ExtractIndustry, baseIndustry)
	out.Fields[dto.FieldFICO] = s.resolver.Resolve(lines, lower,
		application.Anchors[dto.FieldFICO], application.ExtractFICO, baseFICO)

	dur := s.resolver.Resolve(lines, lower,
		application.Anchors[dto.FieldLengthOfOwnership], s.duration.Extract, baseDuration)
	out.Fields[dto.FieldLengthOfOwnership] = dur
	if dur.Value != "" {
		out.LengthMonths = application.LengthMonths(dur.Value)
	}

	out.Preview = buildPreview(acq.Source, lines)

	for _, f := range dto.ApplicationFieldOrder {
		r := out.Fields[f]
		zap.L().Debug("field resolved",
			zap.String("field", f),
			zap.Bool("found", r.Value != ""),
			zap.Float64("confidence", r.Confidence))
	}
	return out, nil
}

// resolveBusinessName runs the anchor-window pass, then lets the layout pass
// (native text layer only) compete with it; when two strategies both produce
// a candidate the higher name-likelihood score wins. The whole-document
// cascade only gets a turn while the result is missing or weakly anchored.
// A corporate suffix on the final value earns a small extra boost.
func (s *ApplicationService) resolveBusinessName(lines, lower []string, words []dto.Word) dto.FieldResult {
	res := s.resolver.Resolve(lines, lower,
		application.Anchors[dto.FieldBusinessName], application.ExtractBusinessNameWindow, baseName)

	if val, ev, boost, ok := application.ExtractNameLayout(words); ok && likelierName(val, res) {
		res = dto.FieldResult{
			Value:      val,
			Confidence: math.Max(res.Confidence, nameLayoutFloor) + boost,
			Evidence:   dto.Evidence{Anchor: "layout", Line: ev},
		}
	}
	if res.Value == "" || res.Confidence < nameRescanBelow {
		if val, ev, boost, ok := application.ExtractNameStronger(lines); ok && likelierName(val, res) {
			res = dto.FieldResult{
				Value:      val,
				Confidence: math.Max(res.Confidence, nameLayoutFloor) + boost,
				Evidence:   dto.Evidence{Anchor: "document-scan", Line: ev},
			}
		}
	}
	if res.Value != "" && application.HasCorpSuffix(res.Value) {
		res.Confidence += corpSuffixBoost
	}
	res.Confidence = clampConf(res.Confidence)
	return res
}

// likelierName reports whether candidate beats the current result on the
// name-likelihood score. Ties keep the incumbent.
func likelierName(candidate string, cur dto.FieldResult) bool {
	return cur.Value == "" || application.NameScore(candidate) > application.NameScore(cur.Value)
}

// resolveState re-runs the layered resolver against the winning window to
// recover which layer fired, and nudges confidence up when the value came
// from real address evidence rather than a bare token.
func (s *ApplicationService) resolveState(lines, lower []string) dto.FieldResult {
	res := s.resolver.Resolve(lines, lower,
		application.Anchors[dto.FieldState], application.StateExtractor(lines), baseState)
	if res.Value == "" {
		return res
	}

	win := res.Evidence.Line
	if win == "(document head/tail)" {
		win = strings.Join(lines[:min(len(lines), 60)], " | ")
	}
	if _, ev := application.ResolveState(lines, win); ev != "" {
		res.Evidence.Line = ev
		if strings.Contains(ev, "city,st,zip") || strings.Contains(ev, "zip-only") || strings.Contains(ev, "[block") {
			res.Confidence = math.Max(res.Confidence, stateAddrFloor) + stateAddrBoost
		}
	}
	res.Confidence = clampConf(res.Confidence)
	return res
}

func clampConf(c float64) float64 {
	if c > fieldConfidenceCap {
		c = fieldConfidenceCap
	}
	return math.Round(c*100) / 100
}

func buildPreview(source string, lines []string) string {
	joined := strings.Join(lines, " | ")
	if len(joined) > previewChars {
		joined = joined[:previewChars]
	}
	return "[source=" + source + "] " + joined
}
