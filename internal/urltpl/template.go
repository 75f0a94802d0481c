package urltpl

// URLTemplate is a learned, round-trip-validated pattern for building
// promotion links from API payload fields.
type URLTemplate struct {
	// Pattern contains {field} placeholders, e.g.
	// "/boost/x-launch/{navName}"
	Pattern string `json:"pattern"`
	// PatternType is "path" or "query"
	PatternType string `json:"pattern_type"`
	BaseURL     string `json:"base_url"`
	// Fields maps each placeholder to the ordered alias list tried
	// when resolving its value from a payload
	Fields         map[string][]string `json:"fields"`
	StaticSegments []string            `json:"static_segments"`
}
