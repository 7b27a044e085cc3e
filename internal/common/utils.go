package common

import "strings"

// ExpandTokens replaces every ${name} placeholder in s whose name is a key of
// tokens. Placeholders without a value are left as they are.
func ExpandTokens(s string, tokens map[string]string) string {
	if len(tokens) == 0 {
		return s
	}
	pairs := make([]string, 0, len(tokens)*2)
	for name, value := range tokens {
		pairs = append(pairs, "${"+name+"}", value)
	}
	return strings.NewReplacer(pairs...).Replace(s)
}

