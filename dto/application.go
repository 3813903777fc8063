package dto

// Application field keys, in display order.
const (
	FieldBusinessName      = "BusinessName"
	FieldState             = "State"
	FieldIndustry          = "Industry"
	FieldFICO              = "FICO"
	FieldLengthOfOwnership = "LengthOfOwnership"
)

// ApplicationFieldOrder fixes the order fields appear in responses.
var ApplicationFieldOrder = []string{
	FieldBusinessName,
	FieldState,
	FieldIndustry,
	FieldFICO,
	FieldLengthOfOwnership,
}

// ApplicationExtraction is the application-path output: one FieldResult per
// field, plus a text preview tagged with the acquisition source.
type ApplicationExtraction struct {
	Fields       map[string]FieldResult `json:"fields"`
	LengthMonths *float64               `json:"length_months,omitempty"`
	Source       string                 `json:"source"`
	Preview      string                 `json:"preview"`
}
