package urltpl

import (
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"cexwatch/promoworker/logger"
)

// Analyzer learns a URL template from one example promotion link and
// the API payload batch that produced it.
type Analyzer struct {
	ExampleURL string
	APIData    []map[string]interface{}
}

// NewAnalyzer creates an analyzer for one example URL.
func NewAnalyzer(exampleURL string, apiData []map[string]interface{}) *Analyzer {
	return &Analyzer{ExampleURL: exampleURL, APIData: apiData}
}

// Analyze infers a template and validates it by rebuilding the example
// URL from the matched payload's own fields. Returns nil when no
// payload matches well enough or the round trip fails; an unvalidated
// template must never be stored.
func (a *Analyzer) Analyze() *URLTemplate {
	parsed, err := url.Parse(a.ExampleURL)
	if err != nil {
		logger.Warn("Template analysis failed, unparseable URL %s: %v", a.ExampleURL, err)
		return nil
	}

	segments := splitPath(parsed.Path)
	urlValues := make(map[string]bool)
	for _, seg := range segments {
		urlValues[seg] = true
	}
	query := parsed.Query()
	for _, vals := range query {
		for _, v := range vals {
			urlValues[v] = true
		}
	}

	matched := a.findMatchingPayload(urlValues)
	if matched == nil {
		logger.Warn("Template analysis found no payload matching %s", a.ExampleURL)
		return nil
	}

	var tpl *URLTemplate
	if len(query) > 0 {
		tpl = a.createQueryTemplate(parsed, query, matched)
	} else {
		tpl = a.createPathTemplate(parsed, segments, matched)
	}
	if tpl == nil {
		return nil
	}

	if !a.validate(tpl, matched) {
		logger.Warn("Template for %s failed round-trip validation, discarding", a.ExampleURL)
		return nil
	}

	logger.Info("Learned URL template %s", tpl.Pattern)
	return tpl
}

// findMatchingPayload picks the payload object whose field values best
// overlap the URL tokens. Exact matches score 3, substring matches 2,
// fuzzy matches 1; anything below an aggregate of 2 is rejected.
func (a *Analyzer) findMatchingPayload(urlValues map[string]bool) map[string]interface{} {
	var best map[string]interface{}
	bestScore := 0

	for _, payload := range a.APIData {
		score := matchScore(payload, urlValues)
		if score > bestScore {
			bestScore = score
			best = payload
		}
	}

	if bestScore >= 2 {
		return best
	}
	return nil
}

func matchScore(payload map[string]interface{}, urlValues map[string]bool) int {
	score := 0
	for _, key := range sortedKeys(payload) {
		value := stringifyValue(payload[key])
		if value == "" {
			continue
		}
		valueLower := strings.ToLower(value)

		for urlValue := range urlValues {
			urlLower := strings.ToLower(urlValue)
			switch {
			case valueLower == urlLower:
				score += 3
			case strings.Contains(urlLower, valueLower) || strings.Contains(valueLower, urlLower):
				score += 2
			case similarity(valueLower, urlLower) > 0.8:
				score++
			}
		}
	}
	return score
}

func (a *Analyzer) createPathTemplate(parsed *url.URL, segments []string, payload map[string]interface{}) *URLTemplate {
	var patternParts, staticSegments []string
	fields := make(map[string][]string)

	for _, segment := range segments {
		fieldName, aliases := findMatchingField(segment, payload)
		if fieldName != "" {
			patternParts = append(patternParts, "{"+fieldName+"}")
			fields[fieldName] = aliases
		} else {
			patternParts = append(patternParts, segment)
			staticSegments = append(staticSegments, segment)
		}
	}

	return &URLTemplate{
		Pattern:        "/" + strings.Join(patternParts, "/"),
		PatternType:    "path",
		BaseURL:        parsed.Scheme + "://" + parsed.Host,
		Fields:         fields,
		StaticSegments: staticSegments,
	}
}

func (a *Analyzer) createQueryTemplate(parsed *url.URL, query url.Values, payload map[string]interface{}) *URLTemplate {
	fields := make(map[string][]string)

	var paramNames []string
	for name := range query {
		paramNames = append(paramNames, name)
	}
	sort.Strings(paramNames)

	var patternParams []string
	for _, name := range paramNames {
		value := query.Get(name)
		fieldName, aliases := findMatchingField(value, payload)
		if fieldName == "" {
			continue
		}
		fields[name] = aliases
		patternParams = append(patternParams, name+"={"+name+"}")
	}

	return &URLTemplate{
		Pattern:     parsed.Path + "?" + strings.Join(patternParams, "&"),
		PatternType: "query",
		BaseURL:     parsed.Scheme + "://" + parsed.Host,
		Fields:      fields,
	}
}

// findMatchingField locates the payload field whose value corresponds
// to one URL token, preferring exact matches over partial ones.
func findMatchingField(urlValue string, payload map[string]interface{}) (string, []string) {
	urlLower := strings.ToLower(urlValue)

	bestField := ""
	bestScore := 0
	for _, key := range sortedKeys(payload) {
		value := stringifyValue(payload[key])
		if value == "" {
			continue
		}
		valueLower := strings.ToLower(value)

		score := 0
		switch {
		case valueLower == urlLower:
			score = 3
		case strings.Contains(urlLower, valueLower) || strings.Contains(valueLower, urlLower):
			score = 2
		case similarity(valueLower, urlLower) > 0.8:
			score = 1
		}
		if score > bestScore {
			bestScore = score
			bestField = key
		}
	}

	if bestField == "" {
		return "", nil
	}
	return bestField, generateAliases(bestField)
}

var camelBoundary = regexp.MustCompile(`([A-Z])`)

// generateAliases builds the alternate field names tried when a later
// payload renames the field slightly (camelCase vs snake_case, id
// suffix variants).
func generateAliases(fieldName string) []string {
	alternatives := []string{fieldName}

	if strings.Contains(strings.ToLower(fieldName), "id") {
		alternatives = append(alternatives, "id", "_id")
	}

	snake := strings.TrimPrefix(strings.ToLower(camelBoundary.ReplaceAllString(fieldName, "_$1")), "_")
	alternatives = append(alternatives, snake)

	if idx := strings.LastIndex(fieldName, "_"); idx >= 0 {
		alternatives = append(alternatives, fieldName[idx+1:])
	}

	if strings.Contains(strings.ToLower(fieldName), "name") {
		alternatives = append(alternatives, "name", "title", "projectName", "tokenName", "coinName")
	}

	seen := make(map[string]bool)
	var out []string
	for _, alt := range alternatives {
		if alt != "" && !seen[alt] {
			seen[alt] = true
			out = append(out, alt)
		}
	}
	return out
}

// validate rebuilds the example URL from the matched payload. The
// comparison ignores case, trailing slashes and any query/fragment.
func (a *Analyzer) validate(tpl *URLTemplate, payload map[string]interface{}) bool {
	generated := tpl.Pattern
	for fieldName, aliases := range tpl.Fields {
		value := fieldValue(payload, aliases)
		if value == "" {
			logger.Warn("Template field %s missing from its own source payload", fieldName)
			return false
		}
		generated = strings.ReplaceAll(generated, "{"+fieldName+"}", value)
	}

	return normalizeForCompare(tpl.BaseURL+generated) == normalizeForCompare(a.ExampleURL)
}

func normalizeForCompare(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return strings.ToLower(rawURL)
	}
	normalized := parsed.Scheme + "://" + parsed.Host + parsed.Path
	return strings.ToLower(strings.TrimRight(normalized, "/"))
}

// fieldValue resolves the first alias present in the payload,
// case-insensitively.
func fieldValue(payload map[string]interface{}, aliases []string) string {
	for _, alias := range aliases {
		if v, ok := payload[alias]; ok {
			if s := stringifyValue(v); s != "" {
				return s
			}
		}
		aliasLower := strings.ToLower(alias)
		for _, key := range sortedKeys(payload) {
			if strings.ToLower(key) == aliasLower {
				if s := stringifyValue(payload[key]); s != "" {
					return s
				}
			}
		}
	}
	return ""
}

func stringifyValue(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	}
	return ""
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func splitPath(path string) []string {
	var segments []string
	for _, s := range strings.Split(path, "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}
	return segments
}

// similarity is the ratio of shared edits between two strings, in
// [0, 1].
func similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	dist := levenshtein(a, b)
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	return 1 - float64(dist)/float64(maxLen)
}

func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)

	for j := 0; j <= len(rb); j++ {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min3(curr[j-1]+1, prev[j]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
