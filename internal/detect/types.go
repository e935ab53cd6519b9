package detect

// MatchType describes how a column name matched a catalog entry
type MatchType string

const (
	// MatchExact means the normalized column name equals a primary field name
	MatchExact MatchType = "exact"
	// MatchAlias means the normalized column name equals a known alias
	MatchAlias MatchType = "alias"
	// MatchFuzzy means the column name was close enough by string similarity
	MatchFuzzy MatchType = "fuzzy"
)

// Result is the classification produced for a single column name
type Result struct {
	FieldType  string    `json:"field_type"`
	Confidence float64   `json:"confidence"`
	MatchType  MatchType `json:"match_type"`
}
