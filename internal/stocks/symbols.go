package stocks

import "strings"

// ParseSymbols splits a comma-separated ticker string into an uppercased,
// deduplicated symbol list, preserving first-seen order.
func ParseSymbols(raw string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, part := range strings.Split(raw, ",") {
		sym := strings.ToUpper(strings.TrimSpace(part))
		if sym == "" {
			continue
		}
		if _, dup := seen[sym]; dup {
			continue
		}
		seen[sym] = struct{}{}
		out = append(out, sym)
	}
	return out
}

// Variants returns the CSV-source candidate symbols in the order they should
// be tried. Plain symbols try the US-suffixed form first, then the bare
// form. Symbols already containing a dot (class shares like BRK.B) are tried
// as-is only, since suffixing would corrupt them.
func Variants(symbol string) []string {
	s := strings.ToLower(symbol)
	if strings.Contains(s, ".") {
		return []string{s}
	}
	return []string{s + ".us", s}
}
