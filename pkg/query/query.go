package query

import "strings"

// StringSlice splits a comma-separated query value into a trimmed slice.
// Empty entries are dropped.
func StringSlice(val string) []string {
	if val == "" {
		return nil
	}
	var res []string
	for _, v := range strings.Split(val, ",") {
		clean := strings.TrimSpace(v)
		if clean != "" {
			res = append(res, clean)
		}
	}
	return res
}

// Merged flattens repeated query values, each possibly comma-separated, into
// one de-duplicated slice in first-seen order. Both ?platform=PC&platform=PS5
// and ?platform=PC,PS5 produce the same result.
func Merged(vals []string) []string {
	var res []string
	seen := make(map[string]bool)
	for _, raw := range vals {
		for _, v := range StringSlice(raw) {
			if !seen[v] {
				seen[v] = true
				res = append(res, v)
			}
		}
	}
	return res
}
