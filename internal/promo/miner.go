package promo

import (
	"sort"
	"strings"
)

// maxMineDepth bounds the recursive walk over nested API payloads.
const maxMineDepth = 5

// FindCandidateObjects walks a decoded JSON document and collects every
// object that looks like a promotion. Nested candidates are collected
// independently of their parents; the walk never terminates early.
func FindCandidateObjects(data interface{}) []map[string]interface{} {
	var out []map[string]interface{}
	mine(data, 0, &out)
	return out
}

func mine(node interface{}, depth int, out *[]map[string]interface{}) {
	if depth > maxMineDepth {
		return
	}

	switch v := node.(type) {
	case map[string]interface{}:
		if hasPromoFields(v) {
			*out = append(*out, v)
		}
		// Sorted keys keep the candidate order deterministic
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			mine(v[k], depth+1, out)
		}
	case []interface{}:
		for _, item := range v {
			mine(item, depth+1, out)
		}
	}
}

// hasPromoFields reports whether at least two keys of the object match
// the promotion keyword vocabulary.
func hasPromoFields(obj map[string]interface{}) bool {
	count := 0
	for key := range obj {
		lower := strings.ToLower(key)
		for _, kw := range promoKeywords {
			if strings.Contains(lower, kw) {
				count++
				break
			}
		}
		if count >= 2 {
			return true
		}
	}
	return false
}
