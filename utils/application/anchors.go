// Package application holds the per-field window extractors for loan
// application documents. Each extractor is a pure function over a small text
// window; the confidence resolver in utils decides which window to try.
package application

import "github.com/fundingdesk/ocr-underwriting/dto"

// Anchors maps each application field to the curated phrases known to label
// it in typical documents. The fuzzy anchor index matches these against
// document lines.
var Anchors = map[string][]string{
	dto.FieldBusinessName: {
		"legal business name", "business legal name", "business name", "company name", "corporate name",
		"dba", "doing business as", "trade name", "legal name of business", "name of business",
		"business d/b/a name", "business dba name", "business d / b / a name",
	},
	dto.FieldState: {
		"state", "state/province", "business address", "company address", "mailing address",
		"principal address", "city, state", "address",
	},
	dto.FieldIndustry: {
		"industry", "business type", "naics", "sic", "primary industry", "type of business",
		"line of business", "nature of business", "sector",
	},
	dto.FieldFICO: {
		"fico", "credit score", "personal fico", "owner fico", "beacon score",
	},
	dto.FieldLengthOfOwnership: {
		"time in business", "years in business", "length of ownership", "owner since",
		"date business started", "business start date", "established", "since",
		"in business since", "ownership since",
	},
}
