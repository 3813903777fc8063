package application

import (
	"regexp"
	"strings"
)

type industryEntry struct {
	label    string
	keywords []string
}

// Canonical industry buckets in vote order. On a keyword-count tie the
// earlier entry wins, so the list order is load-bearing.
var industryTable = []industryEntry{
	{"Restaurants", []string{"restaurant", "cafe", "coffee", "diner", "pizzeria", "pizza", "bakery", "bar & grill", "catering", "food truck", "deli", "bistro", "eatery"}},
	{"Construction", []string{"construction", "contractor", "roofing", "plumbing", "hvac", "electrical", "remodel", "renovation", "excavat", "concrete", "drywall", "carpentry", "masonry", "landscap"}},
	{"Retail", []string{"retail", "store", "boutique", "shop", "merchandise", "apparel", "clothing", "convenience", "grocery", "supermarket", "liquor"}},
	{"Healthcare", []string{"medical", "dental", "clinic", "health", "pharmacy", "chiropract", "physical therapy", "home care", "hospice", "urgent care", "veterinar"}},
	{"Transportation", []string{"trucking", "freight", "logistics", "transport", "hauling", "towing", "delivery", "courier", "limo", "taxi", "rideshare"}},
	{"Beauty & Wellness", []string{"salon", "spa", "barber", "nail", "beauty", "cosmetic", "massage", "wellness", "fitness", "gym", "yoga"}},
	{"E-commerce", []string{"e-commerce", "ecommerce", "online store", "amazon", "shopify", "ebay", "etsy", "dropship"}},
	{"Professional Services", []string{"consulting", "accounting", "bookkeeping", "legal", "law firm", "marketing", "advertising", "real estate", "insurance", "staffing", "it services", "software"}},
}

var industryLabelRe = regexp.MustCompile(`(?i)(?:industry|business\s*type|naics|sic|line\s+of\s+business|nature\s+of\s+business|sector)\s*[:\-]?\s*([A-Za-z&\-\s/]+)`)

// ExtractIndustry first tries a labelled value, then falls back to a keyword
// vote across the canonical buckets. The labelled value itself is re-bucketed
// when it matches a known keyword, otherwise returned as-is.
func ExtractIndustry(window string) string {
	if m := industryLabelRe.FindStringSubmatch(window); m != nil {
		cand := m[1]
		if i := strings.Index(cand, "|"); i >= 0 {
			cand = cand[:i]
		}
		cand = strings.TrimSpace(cand)
		if len(cand) >= 2 && len(cand) <= 80 {
			if bucket := voteIndustry(strings.ToLower(cand)); bucket != "" {
				return bucket
			}
			return cand
		}
	}
	return voteIndustry(strings.ToLower(window))
}

func voteIndustry(low string) string {
	best := ""
	bestCount := 0
	for _, e := range industryTable {
		count := 0
		for _, kw := range e.keywords {
			if strings.Contains(low, kw) {
				count++
			}
		}
		if count > bestCount {
			bestCount = count
			best = e.label
		}
	}
	return best
}
